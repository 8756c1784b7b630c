package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Link is a labelled external URL stored inside a JSON column.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Project is a portfolio case study.
type Project struct {
	ID          uuid.UUID                   `json:"id" gorm:"type:uuid;primaryKey;not null"`
	Title       string                      `json:"title" gorm:"type:text;not null;index"`
	Description string                      `json:"description" gorm:"type:text;not null"`
	Year        int                         `json:"year" gorm:"type:integer;not null;index"`
	Tags        datatypes.JSONSlice[string] `json:"tags" gorm:"not null"`
	Client      *string                     `json:"client" gorm:"type:text"`
	Duration    *string                     `json:"duration" gorm:"type:text"`
	Challenge   *string                     `json:"challenge" gorm:"type:text"`
	Solution    *string                     `json:"solution" gorm:"type:text"`
	Outcome     *string                     `json:"outcome" gorm:"type:text"`
	Links       datatypes.JSONSlice[Link]   `json:"links" gorm:"not null"`
	Images      datatypes.JSONSlice[string] `json:"images" gorm:"not null"`
	CreatedAt   time.Time                   `json:"createdAt" gorm:"not null;index"`
	UpdatedAt   time.Time                   `json:"updatedAt" gorm:"not null"`
}

func (p *Project) BeforeCreate(*gorm.DB) error {
	p.ID = ensureID(p.ID)
	return nil
}

func ensureID(id uuid.UUID) uuid.UUID {
	if id == uuid.Nil {
		return uuid.New()
	}
	return id
}
