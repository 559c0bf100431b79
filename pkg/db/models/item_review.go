package models

import (
	"time"

	"github.com/google/uuid"
)

// ItemReview is an append-only rating of an item by a user. One review per
// (item, reviewer) pair.
type ItemReview struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ItemID     uuid.UUID `gorm:"column:item_id;type:uuid;not null;index:item_reviews_item_id_idx;uniqueIndex:item_reviews_item_reviewer_key"`
	ReviewerID uuid.UUID `gorm:"column:reviewer_id;type:uuid;not null;uniqueIndex:item_reviews_item_reviewer_key"`
	Rating     int       `gorm:"column:rating;not null"`
	Comment    string    `gorm:"column:comment;not null;default:''"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
