package handler

import (
	"fmt"
	"log"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"sdgconnect/config"
	"sdgconnect/internal/domain"
	"sdgconnect/internal/middleware"
	"sdgconnect/internal/models"
	"sdgconnect/internal/observability"
	"sdgconnect/internal/repository"
	"sdgconnect/pkg/payment"

	"github.com/gin-gonic/gin"
)

var phonePattern = regexp.MustCompile(`^254[0-9]{9}$`)
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type DonationHandler struct {
	cfg          *config.Config
	donationRepo *repository.DonationRepository
	provider     payment.Provider
}

func NewDonationHandler(cfg *config.Config, donationRepo *repository.DonationRepository, provider payment.Provider) *DonationHandler {
	return &DonationHandler{cfg: cfg, donationRepo: donationRepo, provider: provider}
}

type InitiatePushRequest struct {
	Name           string  `json:"name"`
	Phone          string  `json:"phone"`
	Email          string  `json:"email"`
	Amount         float64 `json:"amount"`
	Anonymous      bool    `json:"anonymous"`
	DonationUsedFor string `json:"donationUsedFor"`
}

func (r *InitiatePushRequest) validate() []string {
	var violations []string
	if !r.Anonymous && strings.TrimSpace(r.Name) == "" {
		violations = append(violations, "name is required for non-anonymous donations")
	}
	if !phonePattern.MatchString(r.Phone) {
		violations = append(violations, "phone must be in the format 254XXXXXXXXX")
	}
	if r.Amount <= 0 {
		violations = append(violations, "amount must be greater than 0")
	}
	if !emailPattern.MatchString(r.Email) {
		violations = append(violations, "email must be a valid address")
	}
	return violations
}

// InitiatePush triggers an M-Pesa STK prompt on the donor's phone. The
// donation row is created only after the provider accepts the push, so a
// rejected push leaves nothing behind.
func (h *DonationHandler) InitiatePush(c *gin.Context) {
	var req InitiatePushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if violations := req.validate(); len(violations) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": violations})
		return
	}
	if h.provider == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "M-Pesa payments are not configured"})
		return
	}
	amount := int64(math.Round(req.Amount))
	if amount < 1 {
		amount = 1
	}
	resp, err := h.provider.InitiateSTKPush(c.Request.Context(), payment.STKPushRequest{
		Phone:       req.Phone,
		Amount:      amount,
		Reference:   "SDG Connect",
		Description: "Donation to SDG Connect",
		CallbackURL: h.cfg.Mpesa.CallbackBaseURL + "/api/v1/donations/payment-callback",
	})
	if err != nil {
		log.Printf("[DONATION] STK push failed phone=%s amount=%d: %v", req.Phone, amount, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to initiate M-Pesa payment. Please try again.",
			"details": err.Error(),
		})
		return
	}
	donation := &models.Donation{
		UserID:            middleware.GetUserIDPtr(c),
		Name:              req.Name,
		Phone:             req.Phone,
		Email:             req.Email,
		Amount:            req.Amount,
		Anonymous:         req.Anonymous,
		Status:            domain.DonationStatusPending,
		CheckoutRequestID: resp.CheckoutRequestID,
		DonationUsedFor:   req.DonationUsedFor,
	}
	if err := h.donationRepo.Create(donation); err != nil {
		log.Printf("[DONATION] record create failed checkout_request_id=%s: %v", resp.CheckoutRequestID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record donation"})
		return
	}
	observability.DonationsInitiated.Inc()
	log.Printf("[DONATION] initiated id=%d donation_id=%d checkout_request_id=%s amount=%.2f",
		donation.ID, donation.DonationID, resp.CheckoutRequestID, req.Amount)
	c.JSON(http.StatusOK, gin.H{
		"checkoutRequestId":   resp.CheckoutRequestID,
		"responseCode":        resp.ResponseCode,
		"responseDescription": resp.ResponseDescription,
		"customerMessage":     resp.CustomerMessage,
	})
}

// Stats returns aggregate figures over completed donations. All zeros when
// nothing has completed yet.
func (h *DonationHandler) Stats(c *gin.Context) {
	stats, err := h.donationRepo.Stats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"totalDonated":    stats.TotalDonated,
		"donorsCount":     stats.DonorsCount,
		"highestDonation": stats.HighestDonation,
		"lowestDonation":  stats.LowestDonation,
	})
}

// Recent returns the last four completed donations for the public ticker.
func (h *DonationHandler) Recent(c *gin.Context) {
	donations, err := h.donationRepo.Recent(4)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load recent donations"})
		return
	}
	items := make([]gin.H, 0, len(donations))
	for _, d := range donations {
		name := d.Name
		if d.Anonymous || strings.TrimSpace(name) == "" {
			name = "Anonymous Donor"
		}
		purpose := d.DonationUsedFor
		if purpose == "" {
			purpose = "Donation to SDGConnect"
		}
		items = append(items, gin.H{
			"donorName": name,
			"amount":    "Ksh " + formatAmount(d.Amount),
			"purpose":   purpose,
			"date":      relativeTime(d.CreatedAt, time.Now()),
		})
	}
	c.JSON(http.StatusOK, items)
}

// formatAmount renders an amount with thousands separators, keeping cents only
// when present.
func formatAmount(amount float64) string {
	cents := int64(math.Round(amount * 100))
	grouped := groupThousands(cents / 100)
	if frac := cents % 100; frac > 0 {
		return fmt.Sprintf("%s.%02d", grouped, frac)
	}
	return grouped
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// relativeTime renders how long ago a donation was made, in day/week/month
// buckets. Anything under a day reads as "1 day ago".
func relativeTime(t, now time.Time) string {
	days := int(math.Ceil(now.Sub(t).Hours() / 24))
	switch {
	case days <= 1:
		return "1 day ago"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		weeks := days / 7
		if weeks == 1 {
			return "1 week ago"
		}
		return fmt.Sprintf("%d weeks ago", weeks)
	default:
		months := days / 30
		if months == 1 {
			return "1 month ago"
		}
		return fmt.Sprintf("%d months ago", months)
	}
}
