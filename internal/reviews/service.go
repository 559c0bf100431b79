package reviews

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sharecircle/sharecircle-backend/internal/bookings"
	"github.com/sharecircle/sharecircle-backend/internal/catalog"
	"github.com/sharecircle/sharecircle-backend/internal/users"
	"github.com/sharecircle/sharecircle-backend/pkg/db/models"
	"github.com/sharecircle/sharecircle-backend/pkg/enums"
	pkgerrors "github.com/sharecircle/sharecircle-backend/pkg/errors"
)

// ServiceParams groups dependencies for the reviews service.
type ServiceParams struct {
	ReviewRepo  *Repository
	ItemRepo    *catalog.Repository
	BookingRepo *bookings.Repository
	UserRepo    *users.Repository
}

// Service exposes business rules for item and borrower reviews.
type Service interface {
	CreateItemReview(ctx context.Context, reviewerID uuid.UUID, input CreateItemReviewInput) (*ItemReviewDTO, error)
	ListItemReviews(ctx context.Context, itemID uuid.UUID) (ItemReviewsDTO, error)
	CreateUserReview(ctx context.Context, reviewerID uuid.UUID, input CreateUserReviewInput) (*UserReviewDTO, error)
	GetUserReviews(ctx context.Context, userID uuid.UUID) (UserReviewsDTO, error)
}

type service struct {
	reviewRepo  *Repository
	itemRepo    *catalog.Repository
	bookingRepo *bookings.Repository
	userRepo    *users.Repository
}

// NewService builds a reviews service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.ReviewRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "review repo is required")
	}
	if params.ItemRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item repo is required")
	}
	if params.BookingRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking repo is required")
	}
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	return &service{
		reviewRepo:  params.ReviewRepo,
		itemRepo:    params.ItemRepo,
		bookingRepo: params.BookingRepo,
		userRepo:    params.UserRepo,
	}, nil
}

// CreateItemReview records a rating for a listing. One review per reviewer per item.
func (s *service) CreateItemReview(ctx context.Context, reviewerID uuid.UUID, input CreateItemReviewInput) (*ItemReviewDTO, error) {
	if reviewerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reviewer id is required")
	}
	if input.ItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	if _, err := s.itemRepo.FindByID(ctx, input.ItemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}

	reviewer, err := s.loadReviewer(ctx, reviewerID)
	if err != nil {
		return nil, err
	}

	review := &models.ItemReview{
		ItemID:     input.ItemID,
		ReviewerID: reviewerID,
		Rating:     input.Rating,
		Comment:    strings.TrimSpace(input.Comment),
	}
	if err := s.reviewRepo.CreateItemReview(ctx, review); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || pkgerrors.IsUniqueViolation(err, "item_reviews_item_reviewer_key") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "item already reviewed")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create item review")
	}

	dto := itemReviewFromModel(review, reviewerSummary(reviewer))
	return &dto, nil
}

// ListItemReviews returns all reviews for an item with the rounded average.
func (s *service) ListItemReviews(ctx context.Context, itemID uuid.UUID) (ItemReviewsDTO, error) {
	if itemID == uuid.Nil {
		return ItemReviewsDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}

	rows, err := s.reviewRepo.ListItemReviews(ctx, itemID)
	if err != nil {
		return ItemReviewsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list item reviews")
	}

	reviewerIDs := make([]uuid.UUID, 0, len(rows))
	ratings := make([]int, 0, len(rows))
	for _, row := range rows {
		reviewerIDs = append(reviewerIDs, row.ReviewerID)
		ratings = append(ratings, row.Rating)
	}
	reviewers, err := s.reviewRepo.FindReviewers(ctx, reviewerIDs)
	if err != nil {
		return ItemReviewsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reviewers")
	}

	out := ItemReviewsDTO{
		Reviews:       make([]ItemReviewDTO, 0, len(rows)),
		AverageRating: averageRating(ratings),
		Total:         len(rows),
	}
	for i := range rows {
		reviewer := reviewers[rows[i].ReviewerID]
		out.Reviews = append(out.Reviews, itemReviewFromModel(&rows[i], reviewerSummary(&reviewer)))
	}
	return out, nil
}

// CreateUserReview lets a lender rate the borrower of a completed loan.
func (s *service) CreateUserReview(ctx context.Context, reviewerID uuid.UUID, input CreateUserReviewInput) (*UserReviewDTO, error) {
	if reviewerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reviewer id is required")
	}
	if input.BookingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	booking, err := s.bookingRepo.FindByID(ctx, input.BookingID)
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
	if item.OwnerID != reviewerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the lender can review a borrower")
	}
	if booking.Status != enums.BookingStatusReturned {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "can only review after return")
	}

	reviewer, err := s.loadReviewer(ctx, reviewerID)
	if err != nil {
		return nil, err
	}

	review := &models.UserReview{
		BookingID:    booking.ID,
		ReviewerID:   reviewerID,
		TargetUserID: booking.BorrowerID,
		Rating:       input.Rating,
		Comment:      strings.TrimSpace(input.Comment),
	}
	if err := s.reviewRepo.CreateUserReview(ctx, review); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || pkgerrors.IsUniqueViolation(err, "user_reviews_booking_reviewer_key") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "booking already reviewed")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user review")
	}

	dto := userReviewFromModel(review, reviewerSummary(reviewer))
	return &dto, nil
}

// GetUserReviews returns a member's received reviews with the rounded average.
func (s *service) GetUserReviews(ctx context.Context, userID uuid.UUID) (UserReviewsDTO, error) {
	if userID == uuid.Nil {
		return UserReviewsDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserReviewsDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return UserReviewsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	rows, err := s.reviewRepo.ListUserReviews(ctx, userID)
	if err != nil {
		return UserReviewsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list user reviews")
	}

	reviewerIDs := make([]uuid.UUID, 0, len(rows))
	ratings := make([]int, 0, len(rows))
	for _, row := range rows {
		reviewerIDs = append(reviewerIDs, row.ReviewerID)
		ratings = append(ratings, row.Rating)
	}
	reviewers, err := s.reviewRepo.FindReviewers(ctx, reviewerIDs)
	if err != nil {
		return UserReviewsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reviewers")
	}

	out := UserReviewsDTO{
		Reviews:       make([]UserReviewDTO, 0, len(rows)),
		AverageRating: averageRating(ratings),
		Total:         len(rows),
	}
	for i := range rows {
		reviewer := reviewers[rows[i].ReviewerID]
		out.Reviews = append(out.Reviews, userReviewFromModel(&rows[i], reviewerSummary(&reviewer)))
	}
	return out, nil
}

func (s *service) loadReviewer(ctx context.Context, id uuid.UUID) (*models.User, error) {
	reviewer, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "reviewer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reviewer")
	}
	return reviewer, nil
}

func reviewerSummary(user *models.User) ReviewerDTO {
	if user == nil {
		return ReviewerDTO{}
	}
	return ReviewerDTO{
		ID:    user.ID,
		Name:  user.Name,
		Image: user.Image,
	}
}
