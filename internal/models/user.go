package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Name           string         `gorm:"size:255;not null" json:"name"`
	Email          string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash   string         `gorm:"size:255" json:"-"`
	Phone          string         `gorm:"size:32" json:"phone"`
	DateOfBirth    *time.Time     `json:"dateOfBirth"`
	Organization   string         `gorm:"size:255" json:"organization"`
	EducationLevel string         `gorm:"size:64" json:"educationLevel"`
	Skills         []string       `gorm:"serializer:json;type:text" json:"skills"`
	Gender         string         `gorm:"size:32" json:"gender"`
	ProfilePicture string         `gorm:"size:512" json:"profilePicture"`
	Bio            string         `gorm:"size:500" json:"bio"`
	Country        string         `gorm:"size:128" json:"country"`
	City           string         `gorm:"size:128" json:"city"`
	ExactLocation  string         `gorm:"size:255" json:"exactLocation"`
	GoogleID       *string        `gorm:"uniqueIndex;size:255" json:"-"` // nil for email signups (avoids duplicate '' on unique index)
	IsAdmin        bool           `gorm:"default:false" json:"isAdmin"`
	IsDisabled     bool           `gorm:"default:false" json:"isDisabled"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }
