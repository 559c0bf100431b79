package bookings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sharecircle/sharecircle-backend/internal/catalog"
	"github.com/sharecircle/sharecircle-backend/internal/users"
	"github.com/sharecircle/sharecircle-backend/pkg/db/models"
	"github.com/sharecircle/sharecircle-backend/pkg/enums"
	pkgerrors "github.com/sharecircle/sharecircle-backend/pkg/errors"
	"github.com/sharecircle/sharecircle-backend/pkg/logger"
	"github.com/sharecircle/sharecircle-backend/pkg/metrics"
	"github.com/sharecircle/sharecircle-backend/pkg/redis"
)

// allowedTransitions is the booking lifecycle. Rejected and returned are terminal.
var allowedTransitions = map[enums.BookingStatus][]enums.BookingStatus{
	enums.BookingStatusPending:  {enums.BookingStatusApproved, enums.BookingStatusRejected},
	enums.BookingStatusApproved: {enums.BookingStatusReturned},
}

// ServiceParams groups dependencies for the bookings service.
type ServiceParams struct {
	BookingRepo *Repository
	ItemRepo    *catalog.Repository
	UserRepo    *users.Repository
	Cache       *redis.Client
	BookingsTTL time.Duration
	Metrics     *metrics.BookingMetrics
	Logg        *logger.Logger
}

// Service exposes business rules for the booking lifecycle.
type Service interface {
	Request(ctx context.Context, borrowerID uuid.UUID, input RequestBookingInput) (*BookingDTO, error)
	UpdateStatus(ctx context.Context, actorID, bookingID uuid.UUID, input UpdateBookingStatusInput) (*BookingDTO, error)
	ListByUser(ctx context.Context, userID uuid.UUID) (UserBookingsDTO, error)
}

type service struct {
	bookingRepo *Repository
	itemRepo    *catalog.Repository
	userRepo    *users.Repository
	cache       *redis.Client
	bookingsTTL time.Duration
	metrics     *metrics.BookingMetrics
	logg        *logger.Logger
}

// NewService builds a bookings service with the required dependencies.
// Cache and metrics are optional.
func NewService(params ServiceParams) (Service, error) {
	if params.BookingRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking repo is required")
	}
	if params.ItemRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item repo is required")
	}
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	return &service{
		bookingRepo: params.BookingRepo,
		itemRepo:    params.ItemRepo,
		userRepo:    params.UserRepo,
		cache:       params.Cache,
		bookingsTTL: params.BookingsTTL,
		metrics:     params.Metrics,
		logg:        params.Logg,
	}, nil
}

// Request places a borrow request, atomically claiming the item's availability.
func (s *service) Request(ctx context.Context, borrowerID uuid.UUID, input RequestBookingInput) (*BookingDTO, error) {
	if borrowerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "borrower id is required")
	}
	if input.ItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "start and end dates are required")
	}
	if !input.EndDate.After(input.StartDate) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end date must be after start date")
	}

	s.metrics.IncRequested()

	item, err := s.itemRepo.FindByID(ctx, input.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	if item.OwnerID == borrowerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot book your own item")
	}

	if _, err := s.userRepo.FindByID(ctx, borrowerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "borrower not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load borrower")
	}

	booking := &models.Booking{
		ItemID:     input.ItemID,
		BorrowerID: borrowerID,
		StartDate:  input.StartDate.UTC(),
		EndDate:    input.EndDate.UTC(),
		Status:     enums.BookingStatusPending,
	}

	if err := s.bookingRepo.ClaimAndCreate(ctx, booking); err != nil {
		if errors.Is(err, ErrItemUnavailable) {
			s.metrics.IncConflict()
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "item is not available")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create booking")
	}

	s.invalidateViews(ctx, borrowerID, item.OwnerID)
	return FromModel(booking), nil
}

// UpdateStatus applies a lifecycle transition. Only the item owner may act,
// and releasing transitions restore the item's availability.
func (s *service) UpdateStatus(ctx context.Context, actorID, bookingID uuid.UUID, input UpdateBookingStatusInput) (*BookingDTO, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "actor id is required")
	}
	if bookingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id is required")
	}

	target, err := enums.ParseBookingStatus(input.Status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid booking status")
	}

	booking, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "booking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
	}

	item, err := s.itemRepo.FindByID(ctx, booking.ItemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booked item")
	}
	if item.OwnerID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the item owner can update a booking")
	}

	if !transitionAllowed(booking.Status, target) {
		return nil, pkgerrors.New(
			pkgerrors.CodeStateConflict,
			"cannot move booking from "+booking.Status.String()+" to "+target.String(),
		)
	}

	releaseItem := target == enums.BookingStatusRejected || target == enums.BookingStatusReturned
	if err := s.bookingRepo.TransitionStatus(ctx, booking.ID, booking.ItemID, booking.Status, target, releaseItem); err != nil {
		if errors.Is(err, ErrStaleStatus) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeStateConflict, err, "booking was updated concurrently")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "transition booking")
	}

	s.metrics.IncTransition(booking.Status.String(), target.String())
	s.invalidateViews(ctx, booking.BorrowerID, item.OwnerID)

	booking.Status = target
	return FromModel(booking), nil
}

// ListByUser returns both sides of a member's lending activity, newest first.
func (s *service) ListByUser(ctx context.Context, userID uuid.UUID) (UserBookingsDTO, error) {
	if userID == uuid.Nil {
		return UserBookingsDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	if s.cache != nil {
		var cached UserBookingsDTO
		hit, cacheErr := s.cache.GetJSON(ctx, redis.UserBookingsKey(userID.String()), &cached)
		if cacheErr != nil && s.logg != nil {
			s.logg.Warn(ctx, "bookings cache read failed")
		}
		if hit {
			return cached, nil
		}
	}

	view, err := s.buildUserView(ctx, userID)
	if err != nil {
		return UserBookingsDTO{}, err
	}

	if s.cache != nil {
		if cacheErr := s.cache.SetJSON(ctx, redis.UserBookingsKey(userID.String()), view, s.bookingsTTL); cacheErr != nil && s.logg != nil {
			s.logg.Warn(ctx, "bookings cache write failed")
		}
	}
	return view, nil
}

func (s *service) buildUserView(ctx context.Context, userID uuid.UUID) (UserBookingsDTO, error) {
	borrowed, err := s.bookingRepo.ListByBorrower(ctx, userID)
	if err != nil {
		return UserBookingsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list borrowed bookings")
	}
	lent, err := s.bookingRepo.ListByOwner(ctx, userID)
	if err != nil {
		return UserBookingsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list lent bookings")
	}

	itemIDs := make([]uuid.UUID, 0, len(borrowed)+len(lent))
	for _, b := range borrowed {
		itemIDs = append(itemIDs, b.ItemID)
	}
	borrowerIDs := make([]uuid.UUID, 0, len(lent))
	for _, b := range lent {
		itemIDs = append(itemIDs, b.ItemID)
		borrowerIDs = append(borrowerIDs, b.BorrowerID)
	}

	items, err := s.bookingRepo.FindItemsByIDs(ctx, itemIDs)
	if err != nil {
		return UserBookingsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booked items")
	}
	borrowers, err := s.bookingRepo.FindUsersByIDs(ctx, borrowerIDs)
	if err != nil {
		return UserBookingsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load borrowers")
	}

	view := UserBookingsDTO{
		Borrowed: make([]BorrowedBookingDTO, 0, len(borrowed)),
		Lent:     make([]LentBookingDTO, 0, len(lent)),
	}
	for i := range borrowed {
		item, ok := items[borrowed[i].ItemID]
		if !ok {
			continue
		}
		view.Borrowed = append(view.Borrowed, BorrowedBookingDTO{
			BookingDTO: *FromModel(&borrowed[i]),
			Item:       itemSummaryFromModel(&item),
		})
	}
	for i := range lent {
		item, ok := items[lent[i].ItemID]
		if !ok {
			continue
		}
		entry := LentBookingDTO{
			BookingDTO: *FromModel(&lent[i]),
			Item:       itemSummaryFromModel(&item),
		}
		if borrower, ok := borrowers[lent[i].BorrowerID]; ok {
			entry.Borrower = BorrowerSummaryDTO{
				ID:    borrower.ID,
				Name:  borrower.Name,
				Image: borrower.Image,
			}
		}
		view.Lent = append(view.Lent, entry)
	}
	return view, nil
}

func transitionAllowed(from, to enums.BookingStatus) bool {
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

func (s *service) invalidateViews(ctx context.Context, borrowerID, ownerID uuid.UUID) {
	if s.cache == nil {
		return
	}
	keys := []string{
		redis.HomeListingKey(),
		redis.UserBookingsKey(borrowerID.String()),
		redis.UserBookingsKey(ownerID.String()),
	}
	if err := s.cache.Invalidate(ctx, keys...); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "bookings cache invalidation failed")
	}
}
