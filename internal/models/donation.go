package models

import (
	"time"

	"gorm.io/gorm"
)

// Donation is an M-Pesa money donation. DonationID is the sequential display
// id assigned from the counters table at creation; CheckoutRequestID is the
// opaque Daraja token that correlates the STK push with its async callback.
type Donation struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	DonationID         int64          `gorm:"uniqueIndex;not null" json:"donationId"`
	// UserID is set when the donor was logged in; Name stays empty for
	// anonymous donations.
	UserID             *uint          `gorm:"index" json:"-"`
	Name               string         `gorm:"size:255" json:"name"`
	Phone              string         `gorm:"size:32;not null" json:"phone"`
	Email              string         `gorm:"size:255;not null;index" json:"email"`
	Amount             float64        `gorm:"not null" json:"amount"`
	Anonymous          bool           `gorm:"default:false" json:"anonymous"`
	Status             string         `gorm:"size:20;not null;default:'pending';index" json:"status"`
	MpesaTransactionID string         `gorm:"size:64" json:"mpesaTransactionId"`
	TransactionDate    *time.Time     `json:"transactionDate"`
	CheckoutRequestID  string         `gorm:"size:128;uniqueIndex" json:"checkoutRequestId"`
	DonationUsedFor    string         `gorm:"size:255;default:''" json:"donationUsedFor"`
	CreatedAt          time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Donation) TableName() string { return "donations" }

// Counter backs sequential display ids. A single row per name, bumped with a
// row-locked increment.
type Counter struct {
	Name string `gorm:"primaryKey;size:64"`
	Seq  int64  `gorm:"not null;default:0"`
}

func (Counter) TableName() string { return "counters" }
