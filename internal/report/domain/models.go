package domain

import (
	"context"
	"errors"

	auditdomain "github.com/afsacademy/groupgate/internal/audit/domain"
)

// ErrNotFound is returned when a year has no decision history at all.
var ErrNotFound = errors.New("report not found")

// Totals are the headline counters of a summary.
type Totals struct {
	TotalApprovals int `json:"totalApprovals"`
	TotalDeclines  int `json:"totalDeclines"`
	TotalProcessed int `json:"totalProcessed"`
}

// ClassStats breaks one class down, including its decline-reason
// histogram keyed by reason code.
type ClassStats struct {
	Approvals      int            `json:"approvals"`
	Declines       int            `json:"declines"`
	Total          int            `json:"total"`
	DeclineReasons map[string]int `json:"declineReasons"`
}

// DateClassStats is the per-class slice of one calendar day.
type DateClassStats struct {
	Approvals int `json:"approvals"`
	Declines  int `json:"declines"`
	Total     int `json:"total"`
}

// DateStats covers one UTC calendar day (keyed YYYY-MM-DD).
type DateStats struct {
	Approvals int                        `json:"approvals"`
	Declines  int                        `json:"declines"`
	Total     int                        `json:"total"`
	ByClass   map[string]*DateClassStats `json:"byClass"`
}

// Rates are percentages of processed submissions, rounded to two
// decimals, zero when nothing was processed.
type Rates struct {
	ApprovalRate float64 `json:"approvalRate"`
	DeclineRate  float64 `json:"declineRate"`
}

// Summary is the aggregate view over one year's decision partitions,
// or over all years combined.
type Summary struct {
	GeneratedAt    string                 `json:"generatedAt"`
	GeneratedDate  string                 `json:"generatedDate"`
	Summary        Totals                 `json:"summary"`
	ByClass        map[string]*ClassStats `json:"byClass"`
	ByDate         map[string]*DateStats  `json:"byDate"`
	DeclineReasons map[string]int         `json:"declineReasons"`
	OverallStats   Rates                  `json:"overallStats"`
}

// Service builds and serves yearly summaries. Rebuild is a full rescan
// of the year's partitions, so replaying it is idempotent.
type Service interface {
	Rebuild(ctx context.Context, year int) error
	Load(ctx context.Context, year int) (*Summary, error)
	Combined(ctx context.Context) (*Summary, []int, error)
	Years(ctx context.Context) ([]int, error)

	// ApprovedData returns the raw approval records of a year, grouped
	// by class.
	ApprovedData(ctx context.Context, year int) (map[string][]auditdomain.DecisionRecord, error)
}
