package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sdgconnect/internal/models"
	"sdgconnect/pkg/email"
)

type captureSender struct {
	sent []email.Message
	err  error
}

func (c *captureSender) Send(ctx context.Context, msg email.Message) error {
	c.sent = append(c.sent, msg)
	return c.err
}

func TestMailer_SendDonationReceipt(t *testing.T) {
	sender := &captureSender{}
	m := NewMailer(sender, "admin@sdgconnect.org", "SDG Connect")
	txDate := time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC)

	m.SendDonationReceipt(context.Background(), &models.Donation{
		DonationID:         42,
		Name:               "Jane Wanjiku",
		Phone:              "254712345678",
		Email:              "jane@example.com",
		Amount:             500,
		MpesaTransactionID: "XYZ123",
		TransactionDate:    &txDate,
	})

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "jane@example.com", msg.ToAddress)
	assert.Contains(t, msg.HTMLBody, "Jane Wanjiku")
	assert.Contains(t, msg.HTMLBody, "XYZ123")
	assert.Contains(t, msg.HTMLBody, "#42")
	assert.Contains(t, msg.HTMLBody, "254712345678")
	assert.Contains(t, msg.HTMLBody, "KES 500.00")
}

func TestMailer_SendDonationReceipt_AnonymousGetsNeutralGreeting(t *testing.T) {
	sender := &captureSender{}
	m := NewMailer(sender, "admin@sdgconnect.org", "SDG Connect")

	m.SendDonationReceipt(context.Background(), &models.Donation{
		DonationID: 7,
		Name:       "Jane Wanjiku",
		Anonymous:  true,
		Email:      "jane@example.com",
		Amount:     100,
	})

	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].HTMLBody, "Dear Friend")
}

func TestMailer_SendDonationReceipt_NoEmailNoSend(t *testing.T) {
	sender := &captureSender{}
	m := NewMailer(sender, "admin@sdgconnect.org", "SDG Connect")

	m.SendDonationReceipt(context.Background(), &models.Donation{DonationID: 1, Amount: 50})

	assert.Empty(t, sender.sent)
}

func TestMailer_ReceiptFailureIsSwallowed(t *testing.T) {
	sender := &captureSender{err: errors.New("smtp down")}
	m := NewMailer(sender, "admin@sdgconnect.org", "SDG Connect")

	// must not panic or propagate
	m.SendDonationReceipt(context.Background(), &models.Donation{DonationID: 1, Email: "a@b.com", Amount: 10})
	assert.Len(t, sender.sent, 1)
}

func TestMailer_ContactNotificationFailureIsReturned(t *testing.T) {
	sender := &captureSender{err: errors.New("smtp down")}
	m := NewMailer(sender, "admin@sdgconnect.org", "SDG Connect")

	err := m.SendContactNotification(context.Background(), &models.ContactMessage{
		Name: "John", Email: "j@x.com", Subject: "Hi", Message: "Hello",
	})
	assert.Error(t, err)
}

func TestMailer_ContactNotificationGoesToAdmin(t *testing.T) {
	sender := &captureSender{}
	m := NewMailer(sender, "admin@sdgconnect.org", "SDG Connect")

	err := m.SendContactNotification(context.Background(), &models.ContactMessage{
		Name: "John Otieno", Email: "john@example.com", Subject: "Partnership", Message: "Let's work together",
	})
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "admin@sdgconnect.org", msg.ToAddress)
	assert.Contains(t, msg.Subject, "Partnership")
	assert.Contains(t, msg.HTMLBody, "john@example.com")
}
