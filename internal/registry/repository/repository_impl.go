package repository

import (
	"context"
	"time"

	"github.com/afsacademy/groupgate/internal/registry/domain"
	pkgdb "github.com/afsacademy/groupgate/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Find(ctx context.Context, db *gorm.DB, className string) (*domain.ClassRule, error) {
	var item domain.ClassRule
	err := db.WithContext(ctx).Raw(
		`SELECT class_name, year, group_target, eligible_product_ids, created_at, updated_at
		 FROM class_rules
		 WHERE class_name = ?
		 LIMIT 1`,
		className,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ClassName == "" {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) ListByYear(ctx context.Context, db *gorm.DB, year int) ([]domain.ClassRule, error) {
	var items []domain.ClassRule
	err := db.WithContext(ctx).Raw(
		`SELECT class_name, year, group_target, eligible_product_ids, created_at, updated_at
		 FROM class_rules
		 WHERE year = ?
		 ORDER BY year ASC, class_name ASC`,
		year,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListAll(ctx context.Context, db *gorm.DB) ([]domain.ClassRule, error) {
	var items []domain.ClassRule
	err := db.WithContext(ctx).Raw(
		`SELECT class_name, year, group_target, eligible_product_ids, created_at, updated_at
		 FROM class_rules
		 ORDER BY year ASC, class_name ASC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, rule *domain.ClassRule) error {
	now := time.Now().UTC()
	res := db.WithContext(ctx).Exec(
		`UPDATE class_rules
		 SET year = ?, group_target = ?, eligible_product_ids = ?, updated_at = ?
		 WHERE class_name = ?`,
		rule.Year,
		rule.GroupTarget,
		rule.EligibleProductIDs,
		now,
		rule.ClassName,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	err := db.WithContext(ctx).Exec(
		`INSERT INTO class_rules (class_name, year, group_target, eligible_product_ids, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rule.ClassName,
		rule.Year,
		rule.GroupTarget,
		rule.EligibleProductIDs,
		now,
		now,
	).Error
	if err != nil && pkgdb.IsDuplicateKeyErr(err) {
		// Lost an insert race; the update now has a row to hit.
		return db.WithContext(ctx).Exec(
			`UPDATE class_rules
			 SET year = ?, group_target = ?, eligible_product_ids = ?, updated_at = ?
			 WHERE class_name = ?`,
			rule.Year,
			rule.GroupTarget,
			rule.EligibleProductIDs,
			now,
			rule.ClassName,
		).Error
	}
	return err
}
