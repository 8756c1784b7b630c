package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Experience is a work history entry. StartMonth and EndMonth are YYYY-MM strings so they
// order lexically; IsCurrent and EndMonth are mutually exclusive.
type Experience struct {
	ID             uuid.UUID                   `json:"id" gorm:"type:uuid;primaryKey;not null"`
	Company        string                      `json:"company" gorm:"type:text;not null"`
	Role           string                      `json:"role" gorm:"type:text;not null"`
	EmploymentType *string                     `json:"employmentType" gorm:"type:text"`
	Location       *string                     `json:"location" gorm:"type:text"`
	StartMonth     string                      `json:"startMonth" gorm:"type:varchar(7);not null"`
	EndMonth       *string                     `json:"endMonth" gorm:"type:varchar(7)"`
	IsCurrent      bool                        `json:"isCurrent" gorm:"not null;default:false"`
	Summary        string                      `json:"summary" gorm:"type:text;not null"`
	Highlights     datatypes.JSONSlice[string] `json:"highlights" gorm:"not null"`
	TechTags       datatypes.JSONSlice[string] `json:"techTags" gorm:"not null"`
	Links          datatypes.JSONSlice[Link]   `json:"links" gorm:"not null"`
	SortOrder      int                         `json:"sortOrder" gorm:"type:integer;not null;default:0;index"`
	CreatedAt      time.Time                   `json:"createdAt" gorm:"not null"`
	UpdatedAt      time.Time                   `json:"updatedAt" gorm:"not null"`
}

func (e *Experience) BeforeCreate(*gorm.DB) error {
	e.ID = ensureID(e.ID)
	return nil
}
