package reviews

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sharecircle/sharecircle-backend/pkg/db/models"
)

// Repository exposes review persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a reviews repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateItemReview inserts a new item review.
func (r *Repository) CreateItemReview(ctx context.Context, review *models.ItemReview) error {
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(review).Error
}

// ListItemReviews returns reviews for an item, newest first.
func (r *Repository) ListItemReviews(ctx context.Context, itemID uuid.UUID) ([]models.ItemReview, error) {
	var rows []models.ItemReview
	if err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateUserReview inserts a new borrower review.
func (r *Repository) CreateUserReview(ctx context.Context, review *models.UserReview) error {
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(review).Error
}

// ListUserReviews returns reviews targeting a member, newest first.
func (r *Repository) ListUserReviews(ctx context.Context, targetUserID uuid.UUID) ([]models.UserReview, error) {
	var rows []models.UserReview
	if err := r.db.WithContext(ctx).
		Where("target_user_id = ?", targetUserID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindReviewers batch-loads reviewer users keyed by id.
func (r *Repository) FindReviewers(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.User, error) {
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
