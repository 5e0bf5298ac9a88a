package handler

import (
	"errors"
	"net/http"
	"strconv"

	"sdgconnect/internal/domain"
	"sdgconnect/internal/middleware"
	"sdgconnect/internal/models"
	"sdgconnect/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminHandler struct {
	userRepo        *repository.UserRepository
	projectRepo     *repository.ProjectRepository
	donationRepo    *repository.DonationRepository
	offerRepo       *repository.OfferRepository
	contributorRepo *repository.ContributorRepository
	contactRepo     *repository.ContactRepository
	settingRepo     *repository.SettingRepository
	auditRepo       *repository.AuditRepository
}

func NewAdminHandler(
	userRepo *repository.UserRepository,
	projectRepo *repository.ProjectRepository,
	donationRepo *repository.DonationRepository,
	offerRepo *repository.OfferRepository,
	contributorRepo *repository.ContributorRepository,
	contactRepo *repository.ContactRepository,
	settingRepo *repository.SettingRepository,
	auditRepo *repository.AuditRepository,
) *AdminHandler {
	return &AdminHandler{
		userRepo:        userRepo,
		projectRepo:     projectRepo,
		donationRepo:    donationRepo,
		offerRepo:       offerRepo,
		contributorRepo: contributorRepo,
		contactRepo:     contactRepo,
		settingRepo:     settingRepo,
		auditRepo:       auditRepo,
	}
}

// Dashboard aggregates headline counts for the admin overview.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	users, err := h.userRepo.CountAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dashboard"})
		return
	}
	totalProjects, _ := h.projectRepo.CountAll()
	pendingProjects, _ := h.projectRepo.CountByStatus(domain.ProjectStatusPending)
	activeProjects, _ := h.projectRepo.CountByStatus(domain.ProjectStatusActive)
	totalOffers, _ := h.offerRepo.CountAll()
	pendingOffers, _ := h.offerRepo.CountByStatus(domain.OfferStatusPending)
	totalDonations, _ := h.donationRepo.CountAll()
	donationStats, err := h.donationRepo.Stats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dashboard"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"totalUsers":      users,
		"totalProjects":   totalProjects,
		"pendingProjects": pendingProjects,
		"activeProjects":  activeProjects,
		"totalOffers":     totalOffers,
		"pendingOffers":   pendingOffers,
		"totalDonations":  totalDonations,
		"totalDonated":    donationStats.TotalDonated,
		"donorsCount":     donationStats.DonorsCount,
	})
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, limit := pagination(c)
	users, total, err := h.userRepo.List(c.Query("search"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "total": total, "page": page, "limit": limit})
}

func (h *AdminHandler) SetUserDisabled(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req struct {
		Disabled *bool `json:"disabled" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "disabled is required"})
		return
	}
	if err := h.userRepo.SetDisabled(id, *req.Disabled); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	h.audit(c, "set_user_disabled", "user", strconv.FormatUint(uint64(id), 10))
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AdminHandler) SetUserAdmin(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req struct {
		IsAdmin *bool `json:"isAdmin" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "isAdmin is required"})
		return
	}
	if id == middleware.GetUserID(c) && !*req.IsAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot revoke your own admin access"})
		return
	}
	if err := h.userRepo.SetAdmin(id, *req.IsAdmin); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	h.audit(c, "set_user_admin", "user", strconv.FormatUint(uint64(id), 10))
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	u, err := h.userRepo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if u.IsAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete an admin account"})
		return
	}
	if err := h.userRepo.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	h.audit(c, "delete_user", "user", strconv.FormatUint(uint64(id), 10))
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AdminHandler) ListProjects(c *gin.Context) {
	page, limit := pagination(c)
	projects, total, err := h.projectRepo.ListAll(c.Query("status"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load projects"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects, "total": total, "page": page, "limit": limit})
}

func (h *AdminHandler) SetProjectStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required,oneof=pending active completed cancelled rejected"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be pending, active, completed, cancelled or rejected"})
		return
	}
	if err := h.projectRepo.UpdateStatus(id, req.Status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	h.audit(c, "set_project_status:"+req.Status, "project", strconv.FormatUint(uint64(id), 10))
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AdminHandler) DeleteProject(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.projectRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	h.audit(c, "delete_project", "project", strconv.FormatUint(uint64(id), 10))
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AdminHandler) ListDonations(c *gin.Context) {
	page, limit := pagination(c)
	donations, total, err := h.donationRepo.List(page, limit, c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load donations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"donations": donations, "total": total, "page": page, "limit": limit})
}

func (h *AdminHandler) SetDonationStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required,oneof=pending completed failed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be pending, completed or failed"})
		return
	}
	if err := h.donationRepo.UpdateStatus(id, req.Status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "donation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	h.audit(c, "set_donation_status:"+req.Status, "donation", strconv.FormatUint(uint64(id), 10))
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AdminHandler) DeleteDonation(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.donationRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "donation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	h.audit(c, "delete_donation", "donation", strconv.FormatUint(uint64(id), 10))
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AdminHandler) ListOffers(c *gin.Context) {
	page, limit := pagination(c)
	offers, total, err := h.offerRepo.List(c.Query("category"), c.Query("status"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load offers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"offers": offers, "total": total, "page": page, "limit": limit})
}

func (h *AdminHandler) SetOfferStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required,oneof=pending approved rejected"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be pending, approved or rejected"})
		return
	}
	if err := h.offerRepo.UpdateStatus(id, req.Status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "offer not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	h.audit(c, "set_offer_status:"+req.Status, "offer", strconv.FormatUint(uint64(id), 10))
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AdminHandler) DeleteOffer(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.offerRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "offer not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	h.audit(c, "delete_offer", "offer", strconv.FormatUint(uint64(id), 10))
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// UpdateContributor records attendance and resource delivery for a project
// contributor.
func (h *AdminHandler) UpdateContributor(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	contrib, err := h.contributorRepo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "contributor not found"})
		return
	}
	var req struct {
		Attended           string `json:"attended" binding:"omitempty,oneof=pending yes no"`
		ResourcesDelivered string `json:"resourcesDelivered"`
		Status             string `json:"status" binding:"omitempty,oneof=pending confirmed delivered completed cancelled"`
		Notes              string `json:"notes"`
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
	if req.Notes != "" {
		contrib.Notes = req.Notes
	}
	if err := h.contributorRepo.Update(contrib); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	h.audit(c, "update_contributor", "contributor", strconv.FormatUint(uint64(id), 10))
	c.JSON(http.StatusOK, gin.H{"contributor": contrib})
}

func (h *AdminHandler) ListContributors(c *gin.Context) {
	page, limit := pagination(c)
	contributors, total, err := h.contributorRepo.List(c.Query("status"), c.Query("type"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load contributors"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"contributors": contributors, "total": total, "page": page, "limit": limit})
}

func (h *AdminHandler) DeleteContributor(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.contributorRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "contributor not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	h.audit(c, "delete_contributor", "contributor", strconv.FormatUint(uint64(id), 10))
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AdminHandler) ListContactMessages(c *gin.Context) {
	page, limit := pagination(c)
	messages, total, err := h.contactRepo.List(page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages, "total": total, "page": page, "limit": limit})
}

func (h *AdminHandler) DeleteContactMessage(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.contactRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AdminHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingRepo.Get()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	settings, err := h.settingRepo.Get()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load settings"})
		return
	}
	if err := c.ShouldBindJSON(settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.settingRepo.Update(settings); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	h.audit(c, "update_settings", "settings", "")
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

func (h *AdminHandler) ListAuditLog(c *gin.Context) {
	page, limit := pagination(c)
	entries, total, err := h.auditRepo.List(page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load audit log"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "total": total, "page": page, "limit": limit})
}

func (h *AdminHandler) audit(c *gin.Context, action, resource, resourceID string) {
	if h.auditRepo == nil {
		return
	}
	adminID := middleware.GetUserID(c)
	h.auditRepo.Record(&models.AuditLog{
		UserID:     &adminID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		IP:         c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	})
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}
