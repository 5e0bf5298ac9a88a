package models

import "time"

// Settings is a singleton row holding admin-configurable site settings.
type Settings struct {
	ID                    uint      `gorm:"primaryKey" json:"id"`
	EmailNotifications    bool      `gorm:"default:true" json:"emailNotifications"`
	AutoApproveOffers     bool      `gorm:"default:false" json:"autoApproveOffers"`
	MaintenanceMode       bool      `gorm:"default:false" json:"maintenanceMode"`
	SMTPServer            string    `gorm:"size:255;default:'smtp-relay.brevo.com'" json:"smtpServer"`
	AdminEmail            string    `gorm:"size:255;default:'info@sdgconnect.org'" json:"adminEmail"`
	SiteName              string    `gorm:"size:128;default:'SDG Connect'" json:"siteName"`
	ContactEmail          string    `gorm:"size:255;default:'info@sdgconnect.org'" json:"contactEmail"`
	MaxProjectsPerUser    int       `gorm:"default:10" json:"maxProjectsPerUser"`
	AllowUserRegistration bool      `gorm:"default:true" json:"allowUserRegistration"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

func (Settings) TableName() string { return "settings" }
