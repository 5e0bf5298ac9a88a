package repository

import (
	"errors"

	"sdgconnect/internal/domain"
	"sdgconnect/internal/models"

	"gorm.io/gorm"
)

var (
	// ErrNoSlots signals that a project has no participant slots left.
	ErrNoSlots = errors.New("project has no slots remaining")
	// ErrAlreadyJoined signals a duplicate contribution of the same type.
	ErrAlreadyJoined = errors.New("user already contributes to this project")
)

type ContributorRepository struct {
	db          *gorm.DB
	projectRepo *ProjectRepository
}

func NewContributorRepository(db *gorm.DB, projectRepo *ProjectRepository) *ContributorRepository {
	return &ContributorRepository{db: db, projectRepo: projectRepo}
}

// Create inserts a contribution without slot accounting. Used for donor
// records created from offer submissions.
func (c *ContributorRepository) Create(contrib *models.Contributor) error {
	return c.db.Create(contrib).Error
}

// Join registers a contribution. Participant joins consume a project slot, so
// the slot decrement and the contributor insert share one transaction.
func (c *ContributorRepository) Join(contrib *models.Contributor) error {
	return c.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Contributor
		err := tx.Where("user_id = ? AND project_id = ? AND contribution_type = ?",
			contrib.UserID, contrib.ProjectID, contrib.ContributionType).
			First(&existing).Error
		if err == nil {
			return ErrAlreadyJoined
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if contrib.ContributionType == domain.ContributionParticipant {
			if err := c.projectRepo.DecrementSlot(tx, contrib.ProjectID); err != nil {
				return err
			}
		}
		return tx.Create(contrib).Error
	})
}

func (c *ContributorRepository) ListByProject(projectID uint) ([]models.Contributor, error) {
	var contributors []models.Contributor
	err := c.db.Preload("User").
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&contributors).Error
	return contributors, err
}

func (c *ContributorRepository) ListByUser(userID uint) ([]models.Contributor, error) {
	var contributors []models.Contributor
	err := c.db.Preload("Project").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&contributors).Error
	return contributors, err
}

func (c *ContributorRepository) GetByID(id uint) (*models.Contributor, error) {
	var contrib models.Contributor
	err := c.db.Preload("User").Preload("Project").First(&contrib, id).Error
	if err != nil {
		return nil, err
	}
	return &contrib, nil
}

func (c *ContributorRepository) Update(contrib *models.Contributor) error {
	return c.db.Save(contrib).Error
}

func (c *ContributorRepository) List(status, contributionType string, page, limit int) ([]models.Contributor, int64, error) {
	var contributors []models.Contributor
	var total int64
	q := c.db.Model(&models.Contributor{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if contributionType != "" {
		q = q.Where("contribution_type = ?", contributionType)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("User").Preload("Project").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&contributors).Error
	return contributors, total, err
}

func (c *ContributorRepository) Delete(id uint) error {
	res := c.db.Delete(&models.Contributor{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (c *ContributorRepository) CountByUser(userID uint) (int64, error) {
	var n int64
	err := c.db.Model(&models.Contributor{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}
