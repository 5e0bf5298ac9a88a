package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"sdgconnect/internal/domain"
	"sdgconnect/internal/middleware"
	"sdgconnect/internal/models"
	"sdgconnect/internal/repository"

	"github.com/gin-gonic/gin"
)

type ContributorHandler struct {
	contributorRepo *repository.ContributorRepository
	projectRepo     *repository.ProjectRepository
}

func NewContributorHandler(contributorRepo *repository.ContributorRepository, projectRepo *repository.ProjectRepository) *ContributorHandler {
	return &ContributorHandler{contributorRepo: contributorRepo, projectRepo: projectRepo}
}

// Join registers the caller as a participant on an approved project,
// consuming one slot.
func (h *ContributorHandler) Join(c *gin.Context) {
	userID := middleware.GetUserID(c)
	project, ok := h.loadApprovedProject(c)
	if !ok {
		return
	}
	if project.CreatedByID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot join your own project"})
		return
	}
	var req struct {
		Notes string `json:"notes"`
	}
	_ = c.ShouldBindJSON(&req)

	contrib := &models.Contributor{
		UserID:           userID,
		ProjectID:        project.ID,
		ContributionType: domain.ContributionParticipant,
		Status:           domain.ContributorStatusConfirmed,
		Notes:            req.Notes,
	}
	if err := h.contributorRepo.Join(contrib); err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyJoined):
			c.JSON(http.StatusConflict, gin.H{"error": "You have already joined this project"})
		case errors.Is(err, repository.ErrNoSlots):
			c.JSON(http.StatusConflict, gin.H{"error": "This project has no slots remaining"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to join project"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"contributor": contrib})
}

// OfferResources registers the caller as a resource provider on a project.
func (h *ContributorHandler) OfferResources(c *gin.Context) {
	userID := middleware.GetUserID(c)
	project, ok := h.loadApprovedProject(c)
	if !ok {
		return
	}
	var req struct {
		ResourceType string `json:"resourceType" binding:"required"`
		Quantity     int    `json:"quantity" binding:"min=0"`
		DeliveryDate string `json:"deliveryDate"`
		Notes        string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contrib := &models.Contributor{
		UserID:           userID,
		ProjectID:        project.ID,
		ContributionType: domain.ContributionResourceProvider,
		ResourceType:     req.ResourceType,
		Quantity:         req.Quantity,
		Status:           domain.ContributorStatusConfirmed,
		Notes:            req.Notes,
	}
	if req.DeliveryDate != "" {
		t, err := time.Parse("2006-01-02", req.DeliveryDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deliveryDate format (use YYYY-MM-DD)"})
			return
		}
		contrib.DeliveryDate = &t
	}
	if err := h.contributorRepo.Join(contrib); err != nil {
		if errors.Is(err, repository.ErrAlreadyJoined) {
			c.JSON(http.StatusConflict, gin.H{"error": "You have already offered resources to this project"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register resources"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"contributor": contrib})
}

// MyContributions lists everything the caller contributes across projects.
func (h *ContributorHandler) MyContributions(c *gin.Context) {
	userID := middleware.GetUserID(c)
	contributions, err := h.contributorRepo.ListByUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load contributions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"contributions": contributions})
}

// Mark lets a project owner record attendance for participants and delivery
// for resource providers on their own project.
func (h *ContributorHandler) Mark(c *gin.Context) {
	userID := middleware.GetUserID(c)
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}
	project, err := h.projectRepo.GetByID(uint(projectID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}
	if project.CreatedByID != userID && !c.GetBool("is_admin") {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your project"})
		return
	}
	contribID, err := strconv.ParseUint(c.Param("contributorId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contributor id"})
		return
	}
	contrib, err := h.contributorRepo.GetByID(uint(contribID))
	if err != nil || contrib.ProjectID != project.ID {
		c.JSON(http.StatusNotFound, gin.H{"error": "contributor not found"})
		return
	}
	var req struct {
		Attended           string `json:"attended" binding:"omitempty,oneof=pending yes no"`
		ResourcesDelivered string `json:"resourcesDelivered"`
		Status             string `json:"status" binding:"omitempty,oneof=confirmed delivered completed cancelled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Attended != "" {
		contrib.Attended = req.Attended
	}
	if req.ResourcesDelivered != "" {
		contrib.ResourcesDelivered = req.ResourcesDelivered
	}
	if req.Status != "" {
		contrib.Status = req.Status
	}
	if err := h.contributorRepo.Update(contrib); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"contributor": contrib})
}

func (h *ContributorHandler) loadApprovedProject(c *gin.Context) (*models.Project, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return nil, false
	}
	project, err := h.projectRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return nil, false
	}
	if project.Status != domain.ProjectStatusActive {
		c.JSON(http.StatusConflict, gin.H{"error": "project is not open for contributions"})
		return nil, false
	}
	return project, true
}
