package payment

import (
	"context"
)

type STKPushRequest struct {
	Phone       string // e.g. 254712345678
	Amount      int64  // whole KES
	Reference   string // shown on the customer's statement
	Description string
	CallbackURL string
}

type STKPushResponse struct {
	MerchantRequestID   string
	CheckoutRequestID   string
	ResponseCode        string
	ResponseDescription string
	CustomerMessage     string
}

type Provider interface {
	InitiateSTKPush(ctx context.Context, req STKPushRequest) (*STKPushResponse, error)
}
