package models

import (
	"time"

	"gorm.io/gorm"
)

type Project struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Type              string         `gorm:"size:20;not null;index" json:"type"` // project | event
	Title             string         `gorm:"size:255;not null" json:"title"`
	SDGs              []string       `gorm:"serializer:json;type:text" json:"sdgs"`
	StartDate         time.Time      `gorm:"not null" json:"startDate"`
	EndDate           *time.Time     `json:"endDate"`
	Country           string         `gorm:"size:128" json:"country"`
	City              string         `gorm:"size:128" json:"city"`
	ExactLocation     string         `gorm:"size:255" json:"exactLocation"`
	Sponsors          string         `gorm:"size:512" json:"sponsors"`
	Organizers        string         `gorm:"size:512" json:"organizers"`
	BriefInfo         string         `gorm:"type:text;not null" json:"briefInfo"`
	PeopleRequired    int            `gorm:"default:0" json:"peopleRequired"`
	SlotsRemaining    int            `gorm:"default:0" json:"slotsRemaining"`
	ResourcesRequired string         `gorm:"type:text" json:"resourcesRequired"`
	OtherInfo         string         `gorm:"type:text" json:"otherInfo"`
	ProjectImage      string         `gorm:"size:512" json:"projectImage"`
	Status            string         `gorm:"size:20;not null;default:'pending';index" json:"status"`
	CreatedByID       uint           `gorm:"not null;index" json:"-"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	CreatedBy    User          `gorm:"foreignKey:CreatedByID" json:"createdBy"`
	Contributors []Contributor `gorm:"foreignKey:ProjectID" json:"-"`
}

func (Project) TableName() string { return "projects" }
