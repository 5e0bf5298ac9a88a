package models

import (
	"time"

	"gorm.io/gorm"
)

// Offer is a standalone donation offer (goods, money or skills) submitted from
// the public offer form, optionally linked to a project.
type Offer struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         *uint          `gorm:"index" json:"-"`
	Category       string         `gorm:"size:64;not null;index" json:"category"`
	DonorName      string         `gorm:"size:255" json:"donorName"`
	Contact        string         `gorm:"size:255;not null" json:"contact"`
	IsAnonymous    bool           `gorm:"default:false" json:"isAnonymous"`
	ItemType       string         `gorm:"size:128" json:"itemType,omitempty"`
	Quantity       string         `gorm:"size:64" json:"quantity,omitempty"`
	Description    string         `gorm:"type:text" json:"description,omitempty"`
	Logistics      string         `gorm:"size:20" json:"logistics,omitempty"` // delivery | pickup
	PickupLocation string         `gorm:"size:255" json:"pickupLocation,omitempty"`
	ContactPerson  string         `gorm:"size:255" json:"contactPerson,omitempty"`
	Skill          string         `gorm:"size:255" json:"skill,omitempty"`
	TimeCommitment string         `gorm:"size:128" json:"timeCommitment,omitempty"`
	Method         string         `gorm:"size:20" json:"method,omitempty"` // online | in-person
	Experience     string         `gorm:"type:text" json:"experience,omitempty"`
	Status         string         `gorm:"size:20;not null;default:'pending';index" json:"status"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Offer) TableName() string { return "offers" }
