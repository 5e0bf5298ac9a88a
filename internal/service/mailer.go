package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"sdgconnect/internal/models"
	"sdgconnect/pkg/email"
)

// Mailer sends transactional email for donation receipts and contact form
// notifications. Receipt failures are logged, never returned, so mail problems
// cannot undo a recorded payment; contact notifications report their error so
// the form can tell the sender.
type Mailer struct {
	sender     email.Sender
	adminEmail string
	siteName   string
}

func NewMailer(sender email.Sender, adminEmail, siteName string) *Mailer {
	if siteName == "" {
		siteName = "SDG Connect"
	}
	return &Mailer{sender: sender, adminEmail: adminEmail, siteName: siteName}
}

// SendDonationReceipt mails a thank-you with the M-Pesa receipt to the donor.
// No-op when the donation has no email address.
func (m *Mailer) SendDonationReceipt(ctx context.Context, d *models.Donation) {
	if d.Email == "" {
		return
	}
	name := d.Name
	if name == "" || d.Anonymous {
		name = "Friend"
	}
	date := time.Now()
	if d.TransactionDate != nil {
		date = *d.TransactionDate
	}
	body := fmt.Sprintf(`<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto">
<h2 style="color:#2e7d32">Thank You for Your Donation!</h2>
<p>Dear %s,</p>
<p>We have received your donation of <strong>KES %.2f</strong>. Your generosity helps us advance the Sustainable Development Goals.</p>
<table style="border-collapse:collapse;width:100%%">
<tr><td style="padding:8px;border:1px solid #ddd">Receipt Number</td><td style="padding:8px;border:1px solid #ddd">%s</td></tr>
<tr><td style="padding:8px;border:1px solid #ddd">Donation Number</td><td style="padding:8px;border:1px solid #ddd">#%d</td></tr>
<tr><td style="padding:8px;border:1px solid #ddd">Phone</td><td style="padding:8px;border:1px solid #ddd">%s</td></tr>
<tr><td style="padding:8px;border:1px solid #ddd">Date</td><td style="padding:8px;border:1px solid #ddd">%s</td></tr>
</table>
<p>With gratitude,<br>The %s Team</p>
</div>`, name, d.Amount, d.MpesaTransactionID, d.DonationID, d.Phone, date.Format("2 Jan 2006 15:04"), m.siteName)

	msg := email.Message{
		ToName:    name,
		ToAddress: d.Email,
		Subject:   fmt.Sprintf("Your %s Donation Receipt", m.siteName),
		HTMLBody:  body,
	}
	if err := m.sender.Send(ctx, msg); err != nil {
		log.Printf("[MAILER] donation receipt to %s failed: %v", d.Email, err)
	}
}

// SendContactNotification forwards a contact form submission to the admin
// mailbox.
func (m *Mailer) SendContactNotification(ctx context.Context, c *models.ContactMessage) error {
	if m.adminEmail == "" {
		return nil
	}
	body := fmt.Sprintf(`<div style="font-family:Arial,sans-serif">
<h3>New contact message</h3>
<p><strong>From:</strong> %s &lt;%s&gt;</p>
<p><strong>Subject:</strong> %s</p>
<p>%s</p>
</div>`, c.Name, c.Email, c.Subject, c.Message)

	msg := email.Message{
		ToAddress: m.adminEmail,
		Subject:   fmt.Sprintf("[%s] Contact: %s", m.siteName, c.Subject),
		HTMLBody:  body,
	}
	if err := m.sender.Send(ctx, msg); err != nil {
		log.Printf("[MAILER] contact notification failed: %v", err)
		return err
	}
	return nil
}
