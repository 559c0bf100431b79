package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sharecircle/sharecircle-backend/internal/users"
	"github.com/sharecircle/sharecircle-backend/pkg/db/models"
	pkgerrors "github.com/sharecircle/sharecircle-backend/pkg/errors"
	"github.com/sharecircle/sharecircle-backend/pkg/logger"
	"github.com/sharecircle/sharecircle-backend/pkg/pagination"
	"github.com/sharecircle/sharecircle-backend/pkg/redis"
)

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	ItemRepo   *Repository
	UserRepo   *users.Repository
	Cache      *redis.Client
	ListingTTL time.Duration
	Logg       *logger.Logger
}

// Service exposes business rules for catalog listings.
type Service interface {
	CreateItem(ctx context.Context, ownerID uuid.UUID, input CreateItemInput) (*ItemDTO, error)
	GetItem(ctx context.Context, id uuid.UUID) (*ItemDetailDTO, error)
	ListItems(ctx context.Context, query ListItemsQuery) (ItemsPageDTO, error)
	DeleteItem(ctx context.Context, actorID, itemID uuid.UUID) error
}

type service struct {
	itemRepo   *Repository
	userRepo   *users.Repository
	cache      *redis.Client
	listingTTL time.Duration
	logg       *logger.Logger
}

// NewService builds a catalog service with the required dependencies.
// Cache is optional; when nil the service always reads through to the database.
func NewService(params ServiceParams) (Service, error) {
	if params.ItemRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item repo is required")
	}
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	return &service{
		itemRepo:   params.ItemRepo,
		userRepo:   params.UserRepo,
		cache:      params.Cache,
		listingTTL: params.ListingTTL,
		logg:       params.Logg,
	}, nil
}

// CreateItem validates and publishes a new listing for the owner.
func (s *service) CreateItem(ctx context.Context, ownerID uuid.UUID, input CreateItemInput) (*ItemDTO, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id is required")
	}

	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	category := strings.ToLower(strings.TrimSpace(input.Category))
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if description == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "description is required")
	}
	if category == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	if input.PriceCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}

	if _, err := s.userRepo.FindByID(ctx, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "owner not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load owner")
	}

	item, err := s.itemRepo.Create(ctx, CreateItemDTO{
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		PriceCents:  input.PriceCents,
		Category:    category,
		Images:      input.Images,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create item")
	}

	s.invalidateHomeListing(ctx)
	return FromModel(item), nil
}

// GetItem returns a listing together with its owner summary.
func (s *service) GetItem(ctx context.Context, id uuid.UUID) (*ItemDetailDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}

	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}

	owner, err := s.userRepo.FindByID(ctx, item.OwnerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item owner")
	}

	return &ItemDetailDTO{
		ItemDTO: *FromModel(item),
		Owner: OwnerDTO{
			ID:    owner.ID,
			Name:  owner.Name,
			Image: owner.Image,
		},
	}, nil
}

// ListItems returns a cursor page of listings. The unfiltered first page is
// served from the cache when available.
func (s *service) ListItems(ctx context.Context, query ListItemsQuery) (ItemsPageDTO, error) {
	cursor, err := pagination.ParseCursor(query.Cursor)
	if err != nil {
		return ItemsPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	// categories are stored lowercased, so the filter must match
	category := strings.ToLower(strings.TrimSpace(query.Category))

	cacheable := s.cache != nil &&
		cursor == nil &&
		category == "" &&
		strings.TrimSpace(query.Search) == "" &&
		query.Limit <= 0

	if cacheable {
		var cached ItemsPageDTO
		hit, cacheErr := s.cache.GetJSON(ctx, redis.HomeListingKey(), &cached)
		if cacheErr != nil && s.logg != nil {
			s.logg.Warn(ctx, "home listing cache read failed")
		}
		if hit {
			return cached, nil
		}
	}

	limit := pagination.NormalizeLimit(query.Limit)
	rows, err := s.itemRepo.List(ctx, ListFilter{
		Category: category,
		Search:   query.Search,
		Cursor:   cursor,
		Limit:    pagination.LimitWithBuffer(query.Limit),
	})
	if err != nil {
		return ItemsPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
	}

	page := buildPage(rows, limit)

	if cacheable {
		if cacheErr := s.cache.SetJSON(ctx, redis.HomeListingKey(), page, s.listingTTL); cacheErr != nil && s.logg != nil {
			s.logg.Warn(ctx, "home listing cache write failed")
		}
	}
	return page, nil
}

// DeleteItem removes a listing. Only the owner may delete, and never while a
// pending or approved booking references the item.
func (s *service) DeleteItem(ctx context.Context, actorID, itemID uuid.UUID) error {
	if actorID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "actor id is required")
	}
	if itemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}

	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}

	if item.OwnerID != actorID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the owner can delete a listing")
	}

	active, err := s.itemRepo.HasActiveBooking(ctx, itemID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check item bookings")
	}
	if active {
		return pkgerrors.New(pkgerrors.CodeConflict, "item has an active booking")
	}

	if err := s.itemRepo.Delete(ctx, itemID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete item")
	}

	s.invalidateHomeListing(ctx)
	return nil
}

func buildPage(rows []models.Item, limit int) ItemsPageDTO {
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}

	items := make([]ItemDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}

	page := ItemsPageDTO{Items: items}
	if hasMore && len(items) > 0 {
		last := items[len(items)-1]
		cursor := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		page.NextCursor = &cursor
	}
	return page
}

func (s *service) invalidateHomeListing(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, redis.HomeListingKey()); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "home listing cache invalidation failed")
	}
}
