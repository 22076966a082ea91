package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	// FindByTransactionID resolves a claim by the natural transaction id
	// or, as a fallback, by the payment row's own id. Returns nil when
	// no row matches.
	FindByTransactionID(ctx context.Context, db *gorm.DB, trxID string) (*Claim, error)

	// Approve flips is_approved for the exact (user_id, transaction_id)
	// pair, only if it is still unapproved. Reports whether a row was
	// updated.
	Approve(ctx context.Context, db *gorm.DB, userID, trxID, approvedBy string, now time.Time) (bool, error)

	// ListPending returns unapproved claims for diagnostics.
	ListPending(ctx context.Context, db *gorm.DB, limit int) ([]Claim, error)
}
