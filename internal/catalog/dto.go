package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/sharecircle/sharecircle-backend/pkg/db/models"
)

// ItemDTO is the transport shape for a catalog listing.
type ItemDTO struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PriceCents  int       `json:"price_cents"`
	Category    string    `json:"category"`
	Images      []string  `json:"images"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OwnerDTO is the subset of owner fields exposed on item detail.
type OwnerDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Image *string   `json:"image,omitempty"`
}

// ItemDetailDTO is a listing joined with its owner.
type ItemDetailDTO struct {
	ItemDTO
	Owner OwnerDTO `json:"owner"`
}

// ItemsPageDTO is a cursor page of listings.
type ItemsPageDTO struct {
	Items      []ItemDTO `json:"items"`
	NextCursor *string   `json:"next_cursor,omitempty"`
}

// CreateItemInput holds the data required to publish a listing.
type CreateItemInput struct {
	Title       string   `json:"title" validate:"required,min=1,max=160"`
	Description string   `json:"description" validate:"required,min=1,max=4000"`
	PriceCents  int      `json:"price_cents" validate:"gte=0"`
	Category    string   `json:"category" validate:"required,min=1,max=60"`
	Images      []string `json:"images" validate:"omitempty,dive,url"`
}

// ListItemsQuery captures the supported listing filters.
type ListItemsQuery struct {
	Category string
	Search   string
	Cursor   string
	Limit    int
}

// CreateItemDTO holds the data required by the repo to persist a listing.
type CreateItemDTO struct {
	OwnerID     uuid.UUID
	Title       string
	Description string
	PriceCents  int
	Category    string
	Images      []string
}

func FromModel(item *models.Item) *ItemDTO {
	if item == nil {
		return nil
	}

	return &ItemDTO{
		ID:          item.ID,
		OwnerID:     item.OwnerID,
		Title:       item.Title,
		Description: item.Description,
		PriceCents:  item.PriceCents,
		Category:    item.Category,
		Images:      append([]string(nil), []string(item.Images)...),
		Available:   item.Available,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

func (c CreateItemDTO) ToModel() *models.Item {
	images := c.Images
	if images == nil {
		images = []string{}
	}

	return &models.Item{
		OwnerID:     c.OwnerID,
		Title:       c.Title,
		Description: c.Description,
		PriceCents:  c.PriceCents,
		Category:    c.Category,
		Images:      pq.StringArray(images),
		Available:   true,
	}
}
