package models

import (
	"time"

	"github.com/google/uuid"
)

// UserReview is a lender's rating of a borrower, tied to one completed
// booking. One review per (booking, reviewer) pair.
type UserReview struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BookingID    uuid.UUID `gorm:"column:booking_id;type:uuid;not null;uniqueIndex:user_reviews_booking_reviewer_key"`
	ReviewerID   uuid.UUID `gorm:"column:reviewer_id;type:uuid;not null;uniqueIndex:user_reviews_booking_reviewer_key"`
	TargetUserID uuid.UUID `gorm:"column:target_user_id;type:uuid;not null;index:user_reviews_target_user_id_idx"`
	Rating       int       `gorm:"column:rating;not null"`
	Comment      string    `gorm:"column:comment;not null;default:''"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
