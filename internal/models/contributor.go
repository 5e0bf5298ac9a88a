package models

import (
	"time"

	"gorm.io/gorm"
)

// Contributor links a user to a project with a role: participant,
// resource_provider or donor. Resource and donation fields are only set for
// their respective contribution types.
type Contributor struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	UserID             uint           `gorm:"not null;index:idx_contrib_user_project;index:idx_contrib_user_type" json:"-"`
	ProjectID          uint           `gorm:"not null;index:idx_contrib_user_project;index:idx_contrib_project_type" json:"-"`
	ContributionType   string         `gorm:"size:32;not null;index:idx_contrib_user_type;index:idx_contrib_project_type" json:"contributionType"`
	ResourceType       string         `gorm:"size:128" json:"resourceType,omitempty"`
	Quantity           int            `json:"quantity,omitempty"`
	DeliveryDate       *time.Time     `json:"deliveryDate,omitempty"`
	DonationCategory   string         `gorm:"size:64" json:"donationCategory,omitempty"`
	Status             string         `gorm:"size:20;not null;default:'confirmed'" json:"status"`
	ResourcesDelivered string         `gorm:"size:20;default:'Not delivered'" json:"resourcesDelivered"`
	Attended           string         `gorm:"size:10;default:'pending'" json:"attended"`
	Notes              string         `gorm:"type:text" json:"notes"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`

	User    User    `gorm:"foreignKey:UserID" json:"user"`
	Project Project `gorm:"foreignKey:ProjectID" json:"project"`
}

func (Contributor) TableName() string { return "contributors" }
