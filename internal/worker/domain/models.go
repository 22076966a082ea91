package domain

import (
	"context"

	decisiondomain "github.com/afsacademy/groupgate/internal/decision/domain"
)

// Source hands the worker the next pending join request for a class.
// Next may block until a submission arrives; it returns nil when the
// context is done or, for polling sources, when nothing is pending.
type Source interface {
	Next(ctx context.Context, className string) *decisiondomain.Submission
}

// Actioner carries a settled verdict back to the group surface. The
// default implementation only logs; a scraper integration replaces it.
type Actioner interface {
	Approve(ctx context.Context, sub decisiondomain.Submission, dec decisiondomain.Decision) error
	Decline(ctx context.Context, sub decisiondomain.Submission, dec decisiondomain.Decision) error
}
