package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an admin account. Email is stored lowercased.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;not null"`
	Email        string    `json:"email" gorm:"type:text;not null;uniqueIndex:idx_users_email"`
	PasswordHash string    `json:"-" gorm:"type:text;not null"`
	CreatedAt    time.Time `json:"createdAt" gorm:"not null"`
	UpdatedAt    time.Time `json:"updatedAt" gorm:"not null"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	u.ID = ensureID(u.ID)
	return nil
}
