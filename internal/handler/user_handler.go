package handler

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"sdgconnect/internal/middleware"
	"sdgconnect/internal/repository"
	"sdgconnect/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserHandler struct {
	userRepo        *repository.UserRepository
	donationRepo    *repository.DonationRepository
	contributorRepo *repository.ContributorRepository
	projectRepo     *repository.ProjectRepository
	cloudinary      cloudinary.Client
}

func NewUserHandler(
	userRepo *repository.UserRepository,
	donationRepo *repository.DonationRepository,
	contributorRepo *repository.ContributorRepository,
	projectRepo *repository.ProjectRepository,
	cld cloudinary.Client,
) *UserHandler {
	return &UserHandler{
		userRepo:        userRepo,
		donationRepo:    donationRepo,
		contributorRepo: contributorRepo,
		projectRepo:     projectRepo,
		cloudinary:      cld,
	}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// UpdateProfile accepts multipart form data so a profile picture can ride
// along with the field updates. The picture is pushed to Cloudinary.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	if v, ok := c.GetPostForm("name"); ok {
		u.Name = v
	}
	if v, ok := c.GetPostForm("phone"); ok {
		u.Phone = v
	}
	if v, ok := c.GetPostForm("organization"); ok {
		u.Organization = v
	}
	if v, ok := c.GetPostForm("educationLevel"); ok {
		u.EducationLevel = v
	}
	if v, ok := c.GetPostForm("skills"); ok {
		skills := strings.Split(v, ",")
		for i := range skills {
			skills[i] = strings.TrimSpace(skills[i])
		}
		u.Skills = skills
	}
	if v, ok := c.GetPostForm("gender"); ok {
		u.Gender = v
	}
	if v, ok := c.GetPostForm("bio"); ok {
		u.Bio = v
	}
	if v, ok := c.GetPostForm("country"); ok {
		u.Country = v
	}
	if v, ok := c.GetPostForm("city"); ok {
		u.City = v
	}
	if v, ok := c.GetPostForm("exactLocation"); ok {
		u.ExactLocation = v
	}
	if v, ok := c.GetPostForm("dateOfBirth"); ok && v != "" {
		dob, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dateOfBirth format (use YYYY-MM-DD)"})
			return
		}
		u.DateOfBirth = &dob
	}

	if file, header, err := c.Request.FormFile("profilePicture"); err == nil {
		defer file.Close()
		if h.cloudinary == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image uploads not configured"})
			return
		}
		publicID := fmt.Sprintf("user_%d_%s", userID, uuid.NewString())
		url, _, err := h.cloudinary.UploadImage(c.Request.Context(), file, "profiles", publicID)
		if err != nil {
			log.Printf("[USER] profile picture upload failed user=%d file=%s: %v", userID, header.Filename, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "image upload failed"})
			return
		}
		u.ProfilePicture = url
	}

	if err := h.userRepo.Update(u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// Impact summarizes the caller's platform activity.
func (h *UserHandler) Impact(c *gin.Context) {
	userID := middleware.GetUserID(c)
	totalDonated, donationCount, err := h.donationRepo.TotalByUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load impact"})
		return
	}
	contributions, err := h.contributorRepo.CountByUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load impact"})
		return
	}
	projects, err := h.projectRepo.ListByCreator(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load impact"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"totalDonated":    totalDonated,
		"donationsCount":  donationCount,
		"contributions":   contributions,
		"projectsCreated": len(projects),
	})
}
