package service

import (
	"math"
	"time"

	auditdomain "github.com/afsacademy/groupgate/internal/audit/domain"
	"github.com/afsacademy/groupgate/internal/report/domain"
)

func newSummary(now time.Time) *domain.Summary {
	now = now.UTC()
	return &domain.Summary{
		GeneratedAt:    now.Format(time.RFC3339),
		GeneratedDate:  now.Format("2006-01-02"),
		ByClass:        map[string]*domain.ClassStats{},
		ByDate:         map[string]*domain.DateStats{},
		DeclineReasons: map[string]int{},
	}
}

// aggregate folds decision records into a summary. Records carry their
// own UTC date key; older records without one fall back to the
// timestamp.
func aggregate(now time.Time, records []auditdomain.DecisionRecord) *domain.Summary {
	s := newSummary(now)
	for _, rec := range records {
		class := rec.ClassName
		if class == "" {
			class = "Unknown"
		}
		date := rec.Date
		if date == "" {
			date = rec.Timestamp.UTC().Format("2006-01-02")
		}

		cs, ok := s.ByClass[class]
		if !ok {
			cs = &domain.ClassStats{DeclineReasons: map[string]int{}}
			s.ByClass[class] = cs
		}
		ds, ok := s.ByDate[date]
		if !ok {
			ds = &domain.DateStats{ByClass: map[string]*domain.DateClassStats{}}
			s.ByDate[date] = ds
		}
		dcs, ok := ds.ByClass[class]
		if !ok {
			dcs = &domain.DateClassStats{}
			ds.ByClass[class] = dcs
		}

		cs.Total++
		ds.Total++
		dcs.Total++
		s.Summary.TotalProcessed++

		if rec.Approved() {
			cs.Approvals++
			ds.Approvals++
			dcs.Approvals++
			s.Summary.TotalApprovals++
			continue
		}

		cs.Declines++
		ds.Declines++
		dcs.Declines++
		s.Summary.TotalDeclines++

		reason := rec.DeclineReason
		if reason == "" {
			reason = "unknown"
		}
		cs.DeclineReasons[reason]++
		s.DeclineReasons[reason]++
	}
	s.OverallStats = rates(s.Summary)
	return s
}

// combine merges yearly summaries into one, recomputing the rates from
// the summed totals.
func combine(now time.Time, summaries []*domain.Summary) *domain.Summary {
	out := newSummary(now)
	for _, s := range summaries {
		out.Summary.TotalApprovals += s.Summary.TotalApprovals
		out.Summary.TotalDeclines += s.Summary.TotalDeclines
		out.Summary.TotalProcessed += s.Summary.TotalProcessed

		for class, cs := range s.ByClass {
			dst, ok := out.ByClass[class]
			if !ok {
				dst = &domain.ClassStats{DeclineReasons: map[string]int{}}
				out.ByClass[class] = dst
			}
			dst.Approvals += cs.Approvals
			dst.Declines += cs.Declines
			dst.Total += cs.Total
			for reason, n := range cs.DeclineReasons {
				dst.DeclineReasons[reason] += n
			}
		}

		for date, ds := range s.ByDate {
			dst, ok := out.ByDate[date]
			if !ok {
				dst = &domain.DateStats{ByClass: map[string]*domain.DateClassStats{}}
				out.ByDate[date] = dst
			}
			dst.Approvals += ds.Approvals
			dst.Declines += ds.Declines
			dst.Total += ds.Total
			for class, dcs := range ds.ByClass {
				dc, ok := dst.ByClass[class]
				if !ok {
					dc = &domain.DateClassStats{}
					dst.ByClass[class] = dc
				}
				dc.Approvals += dcs.Approvals
				dc.Declines += dcs.Declines
				dc.Total += dcs.Total
			}
		}

		for reason, n := range s.DeclineReasons {
			out.DeclineReasons[reason] += n
		}
	}
	out.OverallStats = rates(out.Summary)
	return out
}

func rates(t domain.Totals) domain.Rates {
	if t.TotalProcessed == 0 {
		return domain.Rates{}
	}
	return domain.Rates{
		ApprovalRate: round2(float64(t.TotalApprovals) / float64(t.TotalProcessed) * 100),
		DeclineRate:  round2(float64(t.TotalDeclines) / float64(t.TotalProcessed) * 100),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
