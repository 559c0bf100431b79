package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents the canonical identity entity. Credits are a stored balance
// only; no transfer logic mutates them yet.
type User struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Email     string    `gorm:"column:email;type:text;not null;uniqueIndex:users_email_key"`
	Image     *string   `gorm:"column:image"`
	Credits   int       `gorm:"column:credits;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
