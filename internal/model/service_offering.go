package model

import (
	"time"

	"github.com/google/uuid"
)

// ServiceOffering is an entry of the service catalogue that contracts sell
// from. The catalogue itself is managed elsewhere; this core only reads it.
type ServiceOffering struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Category    *string   `gorm:"size:128" json:"category,omitempty"`
	Description *string   `json:"description,omitempty"`
	IsActive    bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (ServiceOffering) TableName() string { return "services" }
