package domain

import (
	"errors"
	"time"
)

// ErrUnavailable wraps connection/query failures so callers can tell a
// store fault apart from a missing record. A store fault must never be
// reported as a decline.
var ErrUnavailable = errors.New("payment ledger unavailable")

// User owns payment submissions; the phone used at purchase time lives
// here, not on the payment row.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// PaymentRecord is one payment submission from the upstream purchase
// flow. This system only ever flips IsApproved, exactly once.
type PaymentRecord struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	UserID        string    `json:"user_id" gorm:"not null;index"`
	TransactionID string    `json:"transaction_id" gorm:"type:text;not null;index"`
	ProductID     string    `json:"product_id" gorm:"type:text;not null"`
	IsApproved    bool      `json:"is_approved" gorm:"not null"`
	ApprovedID    *string   `json:"approved_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (PaymentRecord) TableName() string { return "product_payments" }

// Claim is a payment row joined with its owning user, as resolved by a
// transaction-id lookup.
type Claim struct {
	ID            string
	UserID        string
	TransactionID string
	ProductID     string
	IsApproved    bool
	ApprovedID    *string
	Phone         string
}
