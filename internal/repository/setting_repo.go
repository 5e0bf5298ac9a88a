package repository

import (
	"errors"

	"sdgconnect/internal/models"

	"gorm.io/gorm"
)

type SettingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// Get returns the settings singleton, creating it with defaults on first use.
func (r *SettingRepository) Get() (*models.Settings, error) {
	var s models.Settings
	err := r.db.First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s = models.Settings{
			EmailNotifications:    true,
			AllowUserRegistration: true,
			SiteName:              "SDG Connect",
			MaxProjectsPerUser:    10,
		}
		if err := r.db.Create(&s).Error; err != nil {
			return nil, err
		}
		return &s, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SettingRepository) Update(s *models.Settings) error {
	return r.db.Save(s).Error
}
