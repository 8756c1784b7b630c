package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Blog is a post belonging to exactly one Category.
type Blog struct {
	ID          uuid.UUID                   `json:"id" gorm:"type:uuid;primaryKey;not null"`
	Title       string                      `json:"title" gorm:"type:text;not null;index"`
	Description string                      `json:"description" gorm:"type:text;not null"`
	Images      datatypes.JSONSlice[string] `json:"images" gorm:"not null"`
	CategoryID  uuid.UUID                   `json:"categoryId" gorm:"type:uuid;not null;index"`
	Category    *Category                   `json:"category,omitempty" gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	CreatedAt   time.Time                   `json:"createdAt" gorm:"not null;index"`
	UpdatedAt   time.Time                   `json:"updatedAt" gorm:"not null"`
}

func (b *Blog) BeforeCreate(*gorm.DB) error {
	b.ID = ensureID(b.ID)
	return nil
}
