package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// BrevoSender delivers transactional email through the Brevo REST API.
type BrevoSender struct {
	BaseURL     string
	APIKey      string
	FromName    string
	FromAddress string
	client      *http.Client
}

func NewBrevoSender(apiKey, fromName, fromAddress string) *BrevoSender {
	return &BrevoSender{
		BaseURL:     "https://api.brevo.com",
		APIKey:      apiKey,
		FromName:    fromName,
		FromAddress: fromAddress,
		client:      &http.Client{Timeout: 15 * time.Second},
	}
}

type brevoParty struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type brevoSendReq struct {
	Sender      brevoParty   `json:"sender"`
	To          []brevoParty `json:"to"`
	Subject     string       `json:"subject"`
	HTMLContent string       `json:"htmlContent"`
}

func (s *BrevoSender) Send(ctx context.Context, msg Message) error {
	payload := brevoSendReq{
		Sender:      brevoParty{Name: s.FromName, Email: s.FromAddress},
		To:          []brevoParty{{Name: msg.ToName, Email: msg.ToAddress}},
		Subject:     msg.Subject,
		HTMLContent: msg.HTMLBody,
	}
	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+"/v3/smtp/email", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", s.APIKey)
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("brevo send: status=%d body=%s", resp.StatusCode, string(respBody))
	}
	return nil
}
