package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Item represents a listing offered for lending. The available flag is the
// single-slot lock on the item; only the booking engine flips it.
type Item struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID     uuid.UUID      `gorm:"column:owner_id;type:uuid;not null;index:items_owner_id_idx"`
	Title       string         `gorm:"column:title;not null"`
	Description string         `gorm:"column:description;not null"`
	PriceCents  int            `gorm:"column:price_cents;not null"`
	Category    string         `gorm:"column:category;not null;index:items_category_idx"`
	Images      pq.StringArray `gorm:"column:images;type:text[];not null;default:ARRAY[]::text[]"`
	Available   bool           `gorm:"column:available;not null;default:true"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
