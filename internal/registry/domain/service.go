package domain

import (
	"context"
	"errors"
)

var ErrClassNotFound = errors.New("class not found")

// Service is the read-only eligibility lookup consulted by the decision
// engine, the audit writer and the HTTP surface. Class names are
// normalized through Normalize at every entry point.
type Service interface {
	Rule(ctx context.Context, className string) (*ClassRule, error)
	IsConfigured(ctx context.Context, className string) (bool, error)
	EligibleProductIDs(ctx context.Context, className string) ([]string, error)
	ClassesForYear(ctx context.Context, year int) ([]ClassRule, error)
	Configured(ctx context.Context) ([]ClassRule, error)
}
