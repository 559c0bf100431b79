package bookings

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sharecircle/sharecircle-backend/pkg/db/models"
	"github.com/sharecircle/sharecircle-backend/pkg/enums"
)

// ErrItemUnavailable signals that the availability claim lost to another booking.
var ErrItemUnavailable = errors.New("item is not available")

// ErrStaleStatus signals that the booking row changed under a transition.
var ErrStaleStatus = errors.New("booking status changed concurrently")

// Repository exposes booking persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a bookings repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ClaimAndCreate atomically flips the item's availability flag and inserts the
// booking. The conditional update is the concurrency guard: of two racing
// requests only one sees available = TRUE.
func (r *Repository) ClaimAndCreate(ctx context.Context, booking *models.Booking) error {
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		claim := tx.Model(&models.Item{}).
			Where("id = ? AND available = ?", booking.ItemID, true).
			Update("available", false)
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			return ErrItemUnavailable
		}
		return tx.Create(booking).Error
	})
}

// FindByID loads a booking by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).First(&booking, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// TransitionStatus moves the booking from one status to another and, when the
// loan ends, releases the item. The guarded update fails with ErrStaleStatus
// if the row is no longer in the expected status.
func (r *Repository) TransitionStatus(ctx context.Context, bookingID, itemID uuid.UUID, from, to enums.BookingStatus, releaseItem bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Booking{}).
			Where("id = ? AND status = ?", bookingID, from).
			Update("status", to)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleStatus
		}

		if releaseItem {
			if err := tx.Model(&models.Item{}).
				Where("id = ?", itemID).
				Update("available", true).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ListByBorrower returns the user's borrow requests newest first.
func (r *Repository) ListByBorrower(ctx context.Context, borrowerID uuid.UUID) ([]models.Booking, error) {
	var rows []models.Booking
	if err := r.db.WithContext(ctx).
		Where("borrower_id = ?", borrowerID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByOwner returns bookings placed against the user's items, newest first.
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Booking, error) {
	var rows []models.Booking
	if err := r.db.WithContext(ctx).
		Joins("JOIN items ON items.id = bookings.item_id").
		Where("items.owner_id = ?", ownerID).
		Order("bookings.created_at DESC, bookings.id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindItemsByIDs batch-loads items keyed by id.
func (r *Repository) FindItemsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Item, error) {
	out := make(map[uuid.UUID]models.Item, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []models.Item
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

// FindUsersByIDs batch-loads users keyed by id.
func (r *Repository) FindUsersByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.User, error) {
	out := make(map[uuid.UUID]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}
