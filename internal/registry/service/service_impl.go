package service

import (
	"context"

	"github.com/afsacademy/groupgate/internal/registry/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("registry.service"),
		repo: p.Repo,
	}
}

func (s *Service) Rule(ctx context.Context, className string) (*domain.ClassRule, error) {
	rule, err := s.repo.Find(ctx, s.db, domain.Normalize(className))
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, domain.ErrClassNotFound
	}
	return rule, nil
}

func (s *Service) IsConfigured(ctx context.Context, className string) (bool, error) {
	rule, err := s.repo.Find(ctx, s.db, domain.Normalize(className))
	if err != nil {
		return false, err
	}
	if rule == nil {
		return false, nil
	}
	return rule.Configured(), nil
}

func (s *Service) EligibleProductIDs(ctx context.Context, className string) ([]string, error) {
	rule, err := s.Rule(ctx, className)
	if err != nil {
		return nil, err
	}
	return rule.ProductIDs(), nil
}

func (s *Service) ClassesForYear(ctx context.Context, year int) ([]domain.ClassRule, error) {
	return s.repo.ListByYear(ctx, s.db, year)
}

// Configured returns every class that can accept submissions, ordered
// by year ascending then class name.
func (s *Service) Configured(ctx context.Context) ([]domain.ClassRule, error) {
	rules, err := s.repo.ListAll(ctx, s.db)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ClassRule, 0, len(rules))
	for _, rule := range rules {
		if rule.Configured() {
			out = append(out, rule)
		}
	}
	return out, nil
}
