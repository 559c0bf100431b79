package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/sharecircle/sharecircle-backend/pkg/enums"
)

// Booking records a borrow request over a half-open date range. Rejected and
// returned are terminal.
type Booking struct {
	ID         uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ItemID     uuid.UUID           `gorm:"column:item_id;type:uuid;not null;index:bookings_item_id_idx"`
	BorrowerID uuid.UUID           `gorm:"column:borrower_id;type:uuid;not null;index:bookings_borrower_id_idx"`
	StartDate  time.Time           `gorm:"column:start_date;not null"`
	EndDate    time.Time           `gorm:"column:end_date;not null"`
	Status     enums.BookingStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	CreatedAt  time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
