package repository

import (
	"sdgconnect/internal/domain"
	"sdgconnect/internal/models"

	"gorm.io/gorm"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(p *models.Project) error {
	return r.db.Create(p).Error
}

func (r *ProjectRepository) GetByID(id uint) (*models.Project, error) {
	var p models.Project
	err := r.db.Preload("CreatedBy").First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListVisible returns approved projects plus, when userID is set, the
// caller's own projects in any state.
func (r *ProjectRepository) ListVisible(userID *uint, projectType, sdg string, page, limit int) ([]models.Project, int64, error) {
	q := r.db.Model(&models.Project{})
	if userID != nil {
		q = q.Where("status = ? OR created_by_id = ?", domain.ProjectStatusActive, *userID)
	} else {
		q = q.Where("status = ?", domain.ProjectStatusActive)
	}
	if projectType != "" {
		q = q.Where("type = ?", projectType)
	}
	if sdg != "" {
		// SDGs live in a JSON text column, so match the quoted element.
		q = q.Where("sdgs LIKE ?", "%\""+sdg+"\"%")
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var projects []models.Project
	err := q.Preload("CreatedBy").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&projects).Error
	return projects, total, err
}

func (r *ProjectRepository) ListAll(status string, page, limit int) ([]models.Project, int64, error) {
	q := r.db.Model(&models.Project{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var projects []models.Project
	err := q.Preload("CreatedBy").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&projects).Error
	return projects, total, err
}

func (r *ProjectRepository) ListByCreator(userID uint) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.Where("created_by_id = ?", userID).
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}

func (r *ProjectRepository) UpdateStatus(id uint, status string) error {
	res := r.db.Model(&models.Project{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ProjectRepository) Update(p *models.Project) error {
	return r.db.Save(p).Error
}

func (r *ProjectRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Project{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ProjectRepository) CountAll() (int64, error) {
	var n int64
	err := r.db.Model(&models.Project{}).Count(&n).Error
	return n, err
}

func (r *ProjectRepository) CountByStatus(status string) (int64, error) {
	var n int64
	err := r.db.Model(&models.Project{}).Where("status = ?", status).Count(&n).Error
	return n, err
}

// DecrementSlot reserves a participant slot. The guard keeps the count from
// going negative under concurrent joins.
func (r *ProjectRepository) DecrementSlot(tx *gorm.DB, projectID uint) error {
	res := tx.Model(&models.Project{}).
		Where("id = ? AND slots_remaining > 0", projectID).
		Update("slots_remaining", gorm.Expr("slots_remaining - 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNoSlots
	}
	return nil
}

func (r *ProjectRepository) DB() *gorm.DB {
	return r.db
}
