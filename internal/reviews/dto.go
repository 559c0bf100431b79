package reviews

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sharecircle/sharecircle-backend/pkg/db/models"
)

// ReviewerDTO is the member subset attached to each review.
type ReviewerDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Image *string   `json:"image,omitempty"`
}

// ItemReviewDTO is the transport shape for an item review.
type ItemReviewDTO struct {
	ID        uuid.UUID   `json:"id"`
	ItemID    uuid.UUID   `json:"item_id"`
	Rating    int         `json:"rating"`
	Comment   string      `json:"comment"`
	Reviewer  ReviewerDTO `json:"reviewer"`
	CreatedAt time.Time   `json:"created_at"`
}

// ItemReviewsDTO is the aggregated review view for a listing.
type ItemReviewsDTO struct {
	Reviews       []ItemReviewDTO `json:"reviews"`
	AverageRating decimal.Decimal `json:"average_rating"`
	Total         int             `json:"total"`
}

// UserReviewDTO is the transport shape for a borrower review.
type UserReviewDTO struct {
	ID           uuid.UUID   `json:"id"`
	BookingID    uuid.UUID   `json:"booking_id"`
	TargetUserID uuid.UUID   `json:"target_user_id"`
	Rating       int         `json:"rating"`
	Comment      string      `json:"comment"`
	Reviewer     ReviewerDTO `json:"reviewer"`
	CreatedAt    time.Time   `json:"created_at"`
}

// UserReviewsDTO is the aggregated reputation view for a member.
type UserReviewsDTO struct {
	Reviews       []UserReviewDTO `json:"reviews"`
	AverageRating decimal.Decimal `json:"average_rating"`
	Total         int             `json:"total"`
}

// CreateItemReviewInput holds the data required to review a listing.
type CreateItemReviewInput struct {
	ItemID  uuid.UUID `json:"item_id" validate:"required"`
	Rating  int       `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string    `json:"comment" validate:"max=2000"`
}

// CreateUserReviewInput holds the data required to review a borrower.
type CreateUserReviewInput struct {
	BookingID uuid.UUID `json:"booking_id" validate:"required"`
	Rating    int       `json:"rating" validate:"required,gte=1,lte=5"`
	Comment   string    `json:"comment" validate:"max=2000"`
}

func itemReviewFromModel(review *models.ItemReview, reviewer ReviewerDTO) ItemReviewDTO {
	return ItemReviewDTO{
		ID:        review.ID,
		ItemID:    review.ItemID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		Reviewer:  reviewer,
		CreatedAt: review.CreatedAt,
	}
}

func userReviewFromModel(review *models.UserReview, reviewer ReviewerDTO) UserReviewDTO {
	return UserReviewDTO{
		ID:           review.ID,
		BookingID:    review.BookingID,
		TargetUserID: review.TargetUserID,
		Rating:       review.Rating,
		Comment:      review.Comment,
		Reviewer:     reviewer,
		CreatedAt:    review.CreatedAt,
	}
}

// averageRating rounds the mean of the ratings to one decimal place,
// returning zero when there are no ratings.
func averageRating(ratings []int) decimal.Decimal {
	if len(ratings) == 0 {
		return decimal.Zero
	}
	sum := int64(0)
	for _, r := range ratings {
		sum += int64(r)
	}
	return decimal.NewFromInt(sum).
		Div(decimal.NewFromInt(int64(len(ratings)))).
		Round(1)
}
