package repository

import (
	"sdgconnect/internal/models"

	"gorm.io/gorm"
)

type OfferRepository struct {
	db *gorm.DB
}

func NewOfferRepository(db *gorm.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

func (r *OfferRepository) Create(o *models.Offer) error {
	return r.db.Create(o).Error
}

func (r *OfferRepository) GetByID(id uint) (*models.Offer, error) {
	var o models.Offer
	err := r.db.First(&o, id).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OfferRepository) List(category, status string, page, limit int) ([]models.Offer, int64, error) {
	q := r.db.Model(&models.Offer{})
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var offers []models.Offer
	err := q.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&offers).Error
	return offers, total, err
}

func (r *OfferRepository) UpdateStatus(id uint, status string) error {
	res := r.db.Model(&models.Offer{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *OfferRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Offer{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *OfferRepository) CountAll() (int64, error) {
	var n int64
	err := r.db.Model(&models.Offer{}).Count(&n).Error
	return n, err
}

func (r *OfferRepository) CountByStatus(status string) (int64, error) {
	var n int64
	err := r.db.Model(&models.Offer{}).Where("status = ?", status).Count(&n).Error
	return n, err
}
