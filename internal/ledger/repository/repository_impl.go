package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/afsacademy/groupgate/internal/ledger/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByTransactionID(ctx context.Context, db *gorm.DB, trxID string) (*domain.Claim, error) {
	var item domain.Claim
	err := db.WithContext(ctx).Raw(
		`SELECT pp.id, pp.user_id, pp.transaction_id, pp.product_id,
			pp.is_approved, pp.approved_id, u.phone
		 FROM product_payments pp
		 JOIN users u ON pp.user_id = u.id
		 WHERE pp.transaction_id = ? OR pp.id = ?
		 LIMIT 1`,
		trxID,
		trxID,
	).Scan(&item).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	if item.ID == "" {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) Approve(ctx context.Context, db *gorm.DB, userID, trxID, approvedBy string, now time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE product_payments
		 SET is_approved = ?, approved_id = ?, updated_at = ?
		 WHERE user_id = ? AND transaction_id = ? AND is_approved = ?`,
		true,
		approvedBy,
		now,
		userID,
		trxID,
		false,
	)
	if res.Error != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrUnavailable, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) ListPending(ctx context.Context, db *gorm.DB, limit int) ([]domain.Claim, error) {
	if limit <= 0 {
		limit = 10
	}
	var items []domain.Claim
	err := db.WithContext(ctx).Raw(
		`SELECT pp.id, pp.user_id, pp.transaction_id, pp.product_id,
			pp.is_approved, pp.approved_id, u.phone
		 FROM product_payments pp
		 JOIN users u ON pp.user_id = u.id
		 WHERE pp.is_approved = ?
		 ORDER BY pp.created_at ASC
		 LIMIT ?`,
		false,
		limit,
	).Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	return items, nil
}
