package handler

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"sdgconnect/internal/domain"
	"sdgconnect/internal/middleware"
	"sdgconnect/internal/models"
	"sdgconnect/internal/repository"
	"sdgconnect/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProjectHandler struct {
	projectRepo     *repository.ProjectRepository
	contributorRepo *repository.ContributorRepository
	cloudinary      cloudinary.Client
}

func NewProjectHandler(projectRepo *repository.ProjectRepository, contributorRepo *repository.ContributorRepository, cld cloudinary.Client) *ProjectHandler {
	return &ProjectHandler{projectRepo: projectRepo, contributorRepo: contributorRepo, cloudinary: cld}
}

// Create accepts multipart form data so the project image can be uploaded in
// the same request. New projects start pending until an admin approves them.
func (h *ProjectHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	projectType := c.PostForm("type")
	title := strings.TrimSpace(c.PostForm("title"))
	briefInfo := strings.TrimSpace(c.PostForm("briefInfo"))
	var sdgs []string
	if v := c.PostForm("sdgs"); v != "" {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				sdgs = append(sdgs, s)
			}
		}
	}

	var violations []string
	if projectType != domain.ProjectTypeProject && projectType != domain.ProjectTypeEvent {
		violations = append(violations, "type must be project or event")
	}
	if utf8.RuneCountInString(title) < 3 {
		violations = append(violations, "title must be at least 3 characters")
	}
	if utf8.RuneCountInString(briefInfo) < 10 {
		violations = append(violations, "briefInfo must be at least 10 characters")
	}
	if len(sdgs) == 0 {
		violations = append(violations, "at least one SDG is required")
	}
	if len(violations) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": violations})
		return
	}

	p := &models.Project{
		Type:              projectType,
		Title:             title,
		BriefInfo:         briefInfo,
		Country:           c.PostForm("country"),
		City:              c.PostForm("city"),
		ExactLocation:     c.PostForm("exactLocation"),
		Sponsors:          c.PostForm("sponsors"),
		Organizers:        c.PostForm("organizers"),
		ResourcesRequired: c.PostForm("resourcesRequired"),
		OtherInfo:         c.PostForm("otherInfo"),
		Status:            domain.ProjectStatusPending,
		CreatedByID:       userID,
		SDGs:              sdgs,
	}
	startDate, err := time.Parse("2006-01-02", c.PostForm("startDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "startDate is required in YYYY-MM-DD format"})
		return
	}
	p.StartDate = startDate
	if v := c.PostForm("endDate"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid endDate format (use YYYY-MM-DD)"})
			return
		}
		p.EndDate = &t
	}
	if v := c.PostForm("peopleRequired"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "peopleRequired must be a non-negative number"})
			return
		}
		p.PeopleRequired = n
		p.SlotsRemaining = n
	}

	if file, header, err := c.Request.FormFile("projectImage"); err == nil {
		defer file.Close()
		if h.cloudinary == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image uploads not configured"})
			return
		}
		publicID := fmt.Sprintf("project_%d_%s", userID, uuid.NewString())
		url, _, err := h.cloudinary.UploadImage(c.Request.Context(), file, "projects", publicID)
		if err != nil {
			log.Printf("[PROJECT] image upload failed user=%d file=%s: %v", userID, header.Filename, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "image upload failed"})
			return
		}
		p.ProjectImage = url
	}

	if err := h.projectRepo.Create(p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create project"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"project": p})
}

// List shows approved projects to everyone, plus the caller's own projects in
// any state when authenticated.
func (h *ProjectHandler) List(c *gin.Context) {
	page, limit := pagination(c)
	projectType := c.Query("type")
	userID := middleware.GetUserIDPtr(c)
	projects, total, err := h.projectRepo.ListVisible(userID, projectType, c.Query("sdg"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load projects"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"projects": projects,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

func (h *ProjectHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}
	p, err := h.projectRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}
	userID := middleware.GetUserIDPtr(c)
	if p.Status != domain.ProjectStatusActive && (userID == nil || *userID != p.CreatedByID) && !c.GetBool("is_admin") {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}
	contributors, _ := h.contributorRepo.ListByProject(p.ID)
	c.JSON(http.StatusOK, gin.H{"project": p, "contributors": contributors})
}

// UpdateStatus lets the project owner (or an admin) move their project between
// the states a creator controls. Approval out of pending stays admin-only.
func (h *ProjectHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return
	}
	p, err := h.projectRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}
	userID := middleware.GetUserID(c)
	if p.CreatedByID != userID && !c.GetBool("is_admin") {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your project"})
		return
	}
	var req struct {
		Status string `json:"status" binding:"required,oneof=active completed cancelled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be active, completed or cancelled"})
		return
	}
	if p.Status == domain.ProjectStatusPending && req.Status == domain.ProjectStatusActive && !c.GetBool("is_admin") {
		c.JSON(http.StatusForbidden, gin.H{"error": "pending projects are activated by an admin"})
		return
	}
	if err := h.projectRepo.UpdateStatus(p.ID, req.Status); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	p.Status = req.Status
	c.JSON(http.StatusOK, gin.H{"project": p})
}

func (h *ProjectHandler) Mine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	projects, err := h.projectRepo.ListByCreator(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load projects"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func pagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
