package repository

import (
	"errors"
	"time"

	"sdgconnect/internal/domain"
	"sdgconnect/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotPending is returned by the CAS transitions when the donation either
// does not exist or has already left the pending state.
var ErrNotPending = errors.New("donation is not pending")

type DonationRepository struct {
	db *gorm.DB
}

func NewDonationRepository(db *gorm.DB) *DonationRepository {
	return &DonationRepository{db: db}
}

// Create assigns the next sequential donation number and inserts the record
// in a single transaction. The counter row is locked so concurrent donations
// never share a number.
func (r *DonationRepository) Create(d *models.Donation) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var counter models.Counter
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("name = ?", "donation_id").
			First(&counter).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			counter = models.Counter{Name: "donation_id", Seq: 0}
			if err := tx.Create(&counter).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		counter.Seq++
		if err := tx.Save(&counter).Error; err != nil {
			return err
		}
		d.DonationID = counter.Seq
		return tx.Create(d).Error
	})
}

func (r *DonationRepository) GetByCheckoutRequestID(checkoutRequestID string) (*models.Donation, error) {
	var d models.Donation
	err := r.db.Where("checkout_request_id = ?", checkoutRequestID).First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// CompletePending moves a pending donation to completed, recording the M-Pesa
// receipt and transaction date. The status guard in the WHERE clause makes the
// transition idempotent under duplicate callbacks.
func (r *DonationRepository) CompletePending(checkoutRequestID, receipt string, txDate *time.Time) error {
	res := r.db.Model(&models.Donation{}).
		Where("checkout_request_id = ? AND status = ?", checkoutRequestID, domain.DonationStatusPending).
		Updates(map[string]interface{}{
			"status":               domain.DonationStatusCompleted,
			"mpesa_transaction_id": receipt,
			"transaction_date":     txDate,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotPending
	}
	return nil
}

// FailPending moves a pending donation to failed. Same CAS guard as
// CompletePending.
func (r *DonationRepository) FailPending(checkoutRequestID string) error {
	res := r.db.Model(&models.Donation{}).
		Where("checkout_request_id = ? AND status = ?", checkoutRequestID, domain.DonationStatusPending).
		Update("status", domain.DonationStatusFailed)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotPending
	}
	return nil
}

// DonationStats aggregates completed donations only.
type DonationStats struct {
	TotalDonated    float64
	DonorsCount     int64
	HighestDonation float64
	LowestDonation  float64
}

func (r *DonationRepository) Stats() (*DonationStats, error) {
	var stats DonationStats
	row := r.db.Model(&models.Donation{}).
		Where("status = ?", domain.DonationStatusCompleted).
		Select("COALESCE(SUM(amount),0), COUNT(DISTINCT CASE WHEN anonymous = 0 THEN email END), COALESCE(MAX(amount),0), COALESCE(MIN(amount),0)").
		Row()
	if err := row.Scan(&stats.TotalDonated, &stats.DonorsCount, &stats.HighestDonation, &stats.LowestDonation); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Recent returns the most recently completed donations, newest first.
func (r *DonationRepository) Recent(limit int) ([]models.Donation, error) {
	var donations []models.Donation
	err := r.db.Where("status = ?", domain.DonationStatusCompleted).
		Order("updated_at DESC").
		Limit(limit).
		Find(&donations).Error
	return donations, err
}

func (r *DonationRepository) List(page, limit int, status string) ([]models.Donation, int64, error) {
	q := r.db.Model(&models.Donation{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var donations []models.Donation
	err := q.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&donations).Error
	return donations, total, err
}

func (r *DonationRepository) UpdateStatus(id uint, status string) error {
	res := r.db.Model(&models.Donation{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *DonationRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Donation{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *DonationRepository) CountAll() (int64, error) {
	var n int64
	err := r.db.Model(&models.Donation{}).Count(&n).Error
	return n, err
}

// TotalByUser sums completed donations for a user's impact summary.
func (r *DonationRepository) TotalByUser(userID uint) (float64, int64, error) {
	var total float64
	var count int64
	row := r.db.Model(&models.Donation{}).
		Where("user_id = ? AND status = ?", userID, domain.DonationStatusCompleted).
		Select("COALESCE(SUM(amount),0), COUNT(*)").
		Row()
	if err := row.Scan(&total, &count); err != nil {
		return 0, 0, err
	}
	return total, count, nil
}
