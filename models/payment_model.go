package models

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentCancelled PaymentStatus = "cancelled"
)

// Payment is one row in the append-style ledger of gateway attempts. It is
// the authoritative record of whether money was captured. The partial unique
// index on ApplicationID keeps a second completed row from ever landing for
// the same application.
type Payment struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ApplicationID uuid.UUID `gorm:"not null;index;index:idx_payments_one_completed,unique,where:status = 'completed'" json:"application_id"`
	UserID        uuid.UUID `gorm:"not null;index" json:"user_id"`

	RazorpayOrderID   string  `gorm:"size:64;not null;unique" json:"razorpay_order_id"`
	RazorpayPaymentID *string `gorm:"size:64;unique" json:"razorpay_payment_id"`

	Amount   int           `gorm:"not null" json:"amount"`
	Currency string        `gorm:"size:3;not null;default:'INR'" json:"currency"`
	Status   PaymentStatus `gorm:"size:20;not null;default:'pending'" json:"status"`

	Receipt      string  `gorm:"size:64" json:"receipt"`
	Notes        *string `gorm:"type:text" json:"notes,omitempty"`
	ErrorMessage *string `gorm:"type:text" json:"error_message,omitempty"`

	Application Application `gorm:"foreignkey:ApplicationID" json:"-"`
	User        User        `gorm:"foreignkey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
