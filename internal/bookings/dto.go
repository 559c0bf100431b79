package bookings

import (
	"time"

	"github.com/google/uuid"

	"github.com/sharecircle/sharecircle-backend/pkg/db/models"
	"github.com/sharecircle/sharecircle-backend/pkg/enums"
)

// BookingDTO is the transport shape for a borrow request.
type BookingDTO struct {
	ID         uuid.UUID           `json:"id"`
	ItemID     uuid.UUID           `json:"item_id"`
	BorrowerID uuid.UUID           `json:"borrower_id"`
	StartDate  time.Time           `json:"start_date"`
	EndDate    time.Time           `json:"end_date"`
	Status     enums.BookingStatus `json:"status"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// ItemSummaryDTO is the listing subset embedded in booking views.
type ItemSummaryDTO struct {
	ID         uuid.UUID `json:"id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	Title      string    `json:"title"`
	PriceCents int       `json:"price_cents"`
	Images     []string  `json:"images"`
}

// BorrowerSummaryDTO is the member subset embedded in lent booking views.
type BorrowerSummaryDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Image *string   `json:"image,omitempty"`
}

// BorrowedBookingDTO is a booking the user requested, joined with its item.
type BorrowedBookingDTO struct {
	BookingDTO
	Item ItemSummaryDTO `json:"item"`
}

// LentBookingDTO is a booking against the user's item, joined with borrower info.
type LentBookingDTO struct {
	BookingDTO
	Item     ItemSummaryDTO     `json:"item"`
	Borrower BorrowerSummaryDTO `json:"borrower"`
}

// UserBookingsDTO groups both sides of a member's lending activity.
type UserBookingsDTO struct {
	Borrowed []BorrowedBookingDTO `json:"borrowed"`
	Lent     []LentBookingDTO     `json:"lent"`
}

// RequestBookingInput holds the data required to request a loan.
type RequestBookingInput struct {
	ItemID    uuid.UUID `json:"item_id" validate:"required"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required"`
}

// UpdateBookingStatusInput carries the requested lifecycle transition.
type UpdateBookingStatusInput struct {
	Status string `json:"status" validate:"required"`
}

func FromModel(b *models.Booking) *BookingDTO {
	if b == nil {
		return nil
	}

	return &BookingDTO{
		ID:         b.ID,
		ItemID:     b.ItemID,
		BorrowerID: b.BorrowerID,
		StartDate:  b.StartDate,
		EndDate:    b.EndDate,
		Status:     b.Status,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

func itemSummaryFromModel(item *models.Item) ItemSummaryDTO {
	return ItemSummaryDTO{
		ID:         item.ID,
		OwnerID:    item.OwnerID,
		Title:      item.Title,
		PriceCents: item.PriceCents,
		Images:     append([]string(nil), []string(item.Images)...),
	}
}
