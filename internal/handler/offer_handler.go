package handler

import (
	"log"
	"net/http"
	"strconv"

	"sdgconnect/internal/domain"
	"sdgconnect/internal/middleware"
	"sdgconnect/internal/models"
	"sdgconnect/internal/repository"

	"github.com/gin-gonic/gin"
)

type OfferHandler struct {
	offerRepo       *repository.OfferRepository
	settingRepo     *repository.SettingRepository
	contributorRepo *repository.ContributorRepository
}

func NewOfferHandler(offerRepo *repository.OfferRepository, settingRepo *repository.SettingRepository, contributorRepo *repository.ContributorRepository) *OfferHandler {
	return &OfferHandler{offerRepo: offerRepo, settingRepo: settingRepo, contributorRepo: contributorRepo}
}

type CreateOfferRequest struct {
	Category       string `json:"category" binding:"required"`
	DonorName      string `json:"donorName"`
	Contact        string `json:"contact" binding:"required"`
	IsAnonymous    bool   `json:"isAnonymous"`
	ProjectID      *uint  `json:"projectId"`
	ItemType       string `json:"itemType"`
	Quantity       string `json:"quantity"`
	Description    string `json:"description"`
	Logistics      string `json:"logistics"`
	PickupLocation string `json:"pickupLocation"`
	ContactPerson  string `json:"contactPerson"`
	Skill          string `json:"skill"`
	TimeCommitment string `json:"timeCommitment"`
	Method         string `json:"method"`
	Experience     string `json:"experience"`
}

// Create records an in-kind or skills offer. Offers start pending unless
// auto-approval is switched on in settings.
func (h *OfferHandler) Create(c *gin.Context) {
	var req CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !domain.ValidOfferCategory(req.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown offer category"})
		return
	}
	status := domain.OfferStatusPending
	if h.settingRepo != nil {
		if settings, err := h.settingRepo.Get(); err == nil && settings.AutoApproveOffers {
			status = domain.OfferStatusApproved
		}
	}
	offer := &models.Offer{
		UserID:         middleware.GetUserIDPtr(c),
		Category:       req.Category,
		DonorName:      req.DonorName,
		Contact:        req.Contact,
		IsAnonymous:    req.IsAnonymous,
		ItemType:       req.ItemType,
		Quantity:       req.Quantity,
		Description:    req.Description,
		Logistics:      req.Logistics,
		PickupLocation: req.PickupLocation,
		ContactPerson:  req.ContactPerson,
		Skill:          req.Skill,
		TimeCommitment: req.TimeCommitment,
		Method:         req.Method,
		Experience:     req.Experience,
		Status:         status,
	}
	if err := h.offerRepo.Create(offer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record offer"})
		return
	}
	h.linkToProject(c, &req)
	c.JSON(http.StatusCreated, gin.H{"offer": offer})
}

// linkToProject records a donor contribution when an authenticated caller
// directed their offer at a project. Failures never fail the offer itself.
func (h *OfferHandler) linkToProject(c *gin.Context, req *CreateOfferRequest) {
	if req.ProjectID == nil || h.contributorRepo == nil {
		return
	}
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return
	}
	quantity, _ := strconv.Atoi(req.Quantity)
	notes := req.Description
	if notes == "" {
		notes = req.Category + " donation"
	}
	contrib := &models.Contributor{
		UserID:           userID,
		ProjectID:        *req.ProjectID,
		ContributionType: domain.ContributionDonor,
		DonationCategory: req.Category,
		Quantity:         quantity,
		Status:           domain.ContributorStatusConfirmed,
		Notes:            notes,
	}
	if err := h.contributorRepo.Create(contrib); err != nil {
		log.Printf("[OFFER] donor contributor for project %d failed: %v", *req.ProjectID, err)
	}
}

// List returns approved offers for public browsing.
func (h *OfferHandler) List(c *gin.Context) {
	page, limit := pagination(c)
	offers, total, err := h.offerRepo.List(c.Query("category"), domain.OfferStatusApproved, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load offers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"offers": offers,
		"total":  total,
		"page":   page,
		"limit":  limit,
	})
}
