package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/sharecircle/sharecircle-backend/pkg/db/models"
)

// UserDTO is the transport shape for a directory member.
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Image     *string   `json:"image,omitempty"`
	Credits   int       `json:"credits"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RegisterUserInput holds the data required to enroll a new member.
type RegisterUserInput struct {
	Name  string  `json:"name" validate:"required,min=1,max=120"`
	Email string  `json:"email" validate:"required,email"`
	Image *string `json:"image,omitempty" validate:"omitempty,url"`
}

// ProfileDTO is the member profile with activity counters.
type ProfileDTO struct {
	User           UserDTO `json:"user"`
	ItemsCount     int64   `json:"items_count"`
	LendingCount   int64   `json:"lending_count"`
	BorrowingCount int64   `json:"borrowing_count"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Name    string
	Email   string
	Image   *string
	Credits int
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Image:     u.Image,
		Credits:   u.Credits,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	return &models.User{
		Name:    c.Name,
		Email:   c.Email,
		Image:   c.Image,
		Credits: c.Credits,
	}
}
