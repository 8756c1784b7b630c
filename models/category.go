package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category groups blog posts. A category cannot be removed while blogs reference it.
type Category struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;not null"`
	Name        string    `json:"name" gorm:"type:text;not null;uniqueIndex:idx_categories_name"`
	Description *string   `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"createdAt" gorm:"not null"`
	UpdatedAt   time.Time `json:"updatedAt" gorm:"not null"`
}

func (c *Category) BeforeCreate(*gorm.DB) error {
	c.ID = ensureID(c.ID)
	return nil
}
