package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Find(ctx context.Context, db *gorm.DB, className string) (*ClassRule, error)
	ListByYear(ctx context.Context, db *gorm.DB, year int) ([]ClassRule, error)
	ListAll(ctx context.Context, db *gorm.DB) ([]ClassRule, error)
	Upsert(ctx context.Context, db *gorm.DB, rule *ClassRule) error
}
