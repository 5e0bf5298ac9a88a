package payment

import (
	"context"
	"fmt"
	"time"
)

// StubProvider accepts every push without touching the network, for
// development without Daraja credentials.
type StubProvider struct{}

func (s *StubProvider) InitiateSTKPush(ctx context.Context, req STKPushRequest) (*STKPushResponse, error) {
	return &STKPushResponse{
		MerchantRequestID:   fmt.Sprintf("stub-merchant-%d", time.Now().UnixNano()),
		CheckoutRequestID:   fmt.Sprintf("ws_CO_stub_%d", time.Now().UnixNano()),
		ResponseCode:        "0",
		ResponseDescription: "Success. Request accepted for processing",
		CustomerMessage:     "Success. Request accepted for processing",
	}, nil
}
