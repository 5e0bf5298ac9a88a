package repository

import (
	"log"

	"sdgconnect/internal/models"

	"gorm.io/gorm"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Record writes an audit entry. Failures are logged and swallowed so audit
// writes never break the admin action they describe.
func (r *AuditRepository) Record(entry *models.AuditLog) {
	if err := r.db.Create(entry).Error; err != nil {
		log.Printf("[AUDIT] failed to record %s on %s: %v", entry.Action, entry.Resource, err)
	}
}

func (r *AuditRepository) List(page, limit int) ([]models.AuditLog, int64, error) {
	var total int64
	if err := r.db.Model(&models.AuditLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var entries []models.AuditLog
	err := r.db.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&entries).Error
	return entries, total, err
}
