package users

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sharecircle/sharecircle-backend/pkg/db/models"
	pkgerrors "github.com/sharecircle/sharecircle-backend/pkg/errors"
)

// ServiceParams groups dependencies for the users service.
type ServiceParams struct {
	UserRepo *Repository
}

// Service exposes business rules for the member directory.
type Service interface {
	Register(ctx context.Context, input RegisterUserInput) (*UserDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	List(ctx context.Context) ([]UserDTO, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*ProfileDTO, error)
}

type service struct {
	userRepo *Repository
}

// NewService builds a users service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	return &service{userRepo: params.UserRepo}, nil
}

// Register enrolls a new member, rejecting duplicate email addresses.
func (s *service) Register(ctx context.Context, input RegisterUserInput) (*UserDTO, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	user, err := s.userRepo.Create(ctx, CreateUserDTO{
		Name:  name,
		Email: email,
		Image: input.Image,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || pkgerrors.IsUniqueViolation(err, "users_email_key") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email is already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return FromModel(user), nil
}

// GetByID returns a single member by id.
func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

// List returns every member in the directory.
func (s *service) List(ctx context.Context) ([]UserDTO, error) {
	rows, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}

	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

// GetProfile returns a member together with their activity counters.
func (s *service) GetProfile(ctx context.Context, id uuid.UUID) (*ProfileDTO, error) {
	user, err := s.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}

	itemsCount, err := s.userRepo.CountItemsOwned(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count items")
	}
	lendingCount, err := s.userRepo.CountLending(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count lending")
	}
	borrowingCount, err := s.userRepo.CountBorrowing(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count borrowing")
	}

	return &ProfileDTO{
		User:           *FromModel(user),
		ItemsCount:     itemsCount,
		LendingCount:   lendingCount,
		BorrowingCount: borrowingCount,
	}, nil
}

func (s *service) loadUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}
