package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"sdgconnect/internal/models"
	"sdgconnect/internal/observability"
	"sdgconnect/internal/repository"
	"sdgconnect/internal/service"

	"github.com/gin-gonic/gin"
)

// stkCallbackEnvelope is Safaricom's callback payload shape.
type stkCallbackEnvelope struct {
	Body struct {
		StkCallback struct {
			MerchantRequestID string `json:"MerchantRequestID"`
			CheckoutRequestID string `json:"CheckoutRequestID"`
			ResultCode        int    `json:"ResultCode"`
			ResultDesc        string `json:"ResultDesc"`
			CallbackMetadata  struct {
				Item []struct {
					Name  string      `json:"Name"`
					Value interface{} `json:"Value"`
				} `json:"Item"`
			} `json:"CallbackMetadata"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

type DonationWebhookHandler struct {
	donationRepo *repository.DonationRepository
	mailer       *service.Mailer
	auditRepo    *repository.AuditRepository
}

func NewDonationWebhookHandler(donationRepo *repository.DonationRepository, mailer *service.Mailer, auditRepo *repository.AuditRepository) *DonationWebhookHandler {
	return &DonationWebhookHandler{donationRepo: donationRepo, mailer: mailer, auditRepo: auditRepo}
}

// Handle processes the M-Pesa payment callback. Safaricom retries anything
// that is not a 200, so every path acknowledges with 200 {received:true},
// including panics and bodies we cannot parse.
func (h *DonationWebhookHandler) Handle(c *gin.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[MPESA callback] panic recovered: %v", r)
			observability.DonationCallbacks.WithLabelValues("panic").Inc()
			c.JSON(http.StatusOK, gin.H{"received": true})
		}
	}()

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Printf("[MPESA callback] read body error: %v", err)
		observability.DonationCallbacks.WithLabelValues("malformed").Inc()
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}
	log.Printf("[MPESA callback] raw body: %s", string(body))

	var payload stkCallbackEnvelope
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Printf("[MPESA callback] json unmarshal error: %v", err)
		observability.DonationCallbacks.WithLabelValues("malformed").Inc()
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}
	cb := payload.Body.StkCallback
	if cb.CheckoutRequestID == "" {
		log.Printf("[MPESA callback] no CheckoutRequestID in payload, acknowledging")
		observability.DonationCallbacks.WithLabelValues("malformed").Inc()
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}
	log.Printf("[MPESA callback] checkout_request_id=%s result_code=%d desc=%s",
		cb.CheckoutRequestID, cb.ResultCode, cb.ResultDesc)

	if cb.ResultCode != 0 {
		h.handleFailure(cb.CheckoutRequestID, cb.ResultCode, cb.ResultDesc)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	receipt, txDate := extractMetadata(cb.CallbackMetadata.Item)
	if receipt == "" {
		log.Printf("[MPESA callback] WARNING success without MpesaReceiptNumber checkout_request_id=%s", cb.CheckoutRequestID)
	}
	err = h.donationRepo.CompletePending(cb.CheckoutRequestID, receipt, txDate)
	switch {
	case errors.Is(err, repository.ErrNotPending):
		log.Printf("[MPESA callback] checkout_request_id=%s already settled or unknown, acknowledging", cb.CheckoutRequestID)
		observability.DonationCallbacks.WithLabelValues("duplicate").Inc()
	case err != nil:
		log.Printf("[MPESA callback] complete failed checkout_request_id=%s: %v", cb.CheckoutRequestID, err)
		observability.DonationCallbacks.WithLabelValues("error").Inc()
	default:
		observability.DonationCallbacks.WithLabelValues("completed").Inc()
		if h.auditRepo != nil {
			h.auditRepo.Record(&models.AuditLog{
				Action:     "payment_completed",
				Resource:   "donation",
				ResourceID: cb.CheckoutRequestID,
			})
		}
		h.sendReceipt(cb.CheckoutRequestID)
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *DonationWebhookHandler) handleFailure(checkoutRequestID string, resultCode int, resultDesc string) {
	err := h.donationRepo.FailPending(checkoutRequestID)
	switch {
	case errors.Is(err, repository.ErrNotPending):
		log.Printf("[MPESA callback] failure for settled or unknown checkout_request_id=%s", checkoutRequestID)
		observability.DonationCallbacks.WithLabelValues("duplicate").Inc()
	case err != nil:
		log.Printf("[MPESA callback] fail update error checkout_request_id=%s: %v", checkoutRequestID, err)
		observability.DonationCallbacks.WithLabelValues("error").Inc()
	default:
		log.Printf("[MPESA callback] marked failed checkout_request_id=%s result_code=%d desc=%s",
			checkoutRequestID, resultCode, resultDesc)
		observability.DonationCallbacks.WithLabelValues("failed").Inc()
	}
}

func (h *DonationWebhookHandler) sendReceipt(checkoutRequestID string) {
	if h.mailer == nil {
		return
	}
	d, err := h.donationRepo.GetByCheckoutRequestID(checkoutRequestID)
	if err != nil {
		log.Printf("[MPESA callback] receipt lookup failed checkout_request_id=%s: %v", checkoutRequestID, err)
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		h.mailer.SendDonationReceipt(ctx, d)
	}()
}

// extractMetadata pulls the receipt number and transaction date out of the
// callback metadata items. Values arrive untyped: amounts as numbers,
// receipts as strings, dates as numeric YYYYMMDDHHMMSS.
func extractMetadata(items []struct {
	Name  string      `json:"Name"`
	Value interface{} `json:"Value"`
}) (receipt string, txDate *time.Time) {
	for _, item := range items {
		switch item.Name {
		case "MpesaReceiptNumber":
			if s, ok := item.Value.(string); ok {
				receipt = s
			}
		case "TransactionDate":
			var raw string
			switch v := item.Value.(type) {
			case float64:
				raw = fmt.Sprintf("%.0f", v)
			case string:
				raw = v
			}
			if raw != "" {
				if t, err := time.ParseInLocation("20060102150405", raw, time.Local); err == nil {
					txDate = &t
				}
			}
		}
	}
	return receipt, txDate
}
