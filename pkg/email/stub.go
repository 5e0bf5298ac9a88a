package email

import (
	"context"
	"log"
)

// LogSender writes mail to the log instead of sending it. Used when no
// Brevo API key is configured.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, msg Message) error {
	log.Printf("[EMAIL] (not sent) to=%s subject=%q", msg.ToAddress, msg.Subject)
	return nil
}
