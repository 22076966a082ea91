package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	auditdomain "github.com/afsacademy/groupgate/internal/audit/domain"
	"github.com/afsacademy/groupgate/internal/clock"
	"github.com/afsacademy/groupgate/internal/config"
	"github.com/afsacademy/groupgate/internal/report/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (*Service, string, *clock.FakeClock) {
	t.Helper()
	dataDir := t.TempDir()
	fake := clock.NewFakeClock(time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC))
	svc := NewService(Params{
		Log:   zap.NewNop(),
		Cfg:   config.Config{DataDir: dataDir},
		Clock: fake,
	}).(*Service)
	return svc, dataDir, fake
}

func record(className, date, trxID, status, reason string) auditdomain.DecisionRecord {
	ts, _ := time.Parse("2006-01-02", date)
	return auditdomain.DecisionRecord{
		Timestamp:      ts,
		Date:           date,
		ClassName:      className,
		MemberTrxID:    trxID,
		ApprovalStatus: status,
		DeclineReason:  reason,
		ProcessedBy:    "groupgate-automation",
	}
}

func writePartition(t *testing.T, dataDir string, year int, file string, records ...auditdomain.DecisionRecord) {
	t.Helper()
	dir := filepath.Join(dataDir, fmt.Sprintf("log%d", year))
	require.NoError(t, os.MkdirAll(dir, 0o755))
	f, err := os.OpenFile(filepath.Join(dir, file), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	require.NoError(t, err)
	defer f.Close()
	enc := json.NewEncoder(f)
	for _, rec := range records {
		require.NoError(t, enc.Encode(rec))
	}
}

func seedYear(t *testing.T, dataDir string, year int) {
	writePartition(t, dataDir, year, "class-7_approvals.jsonl",
		record("Class 7", fmt.Sprintf("%d-03-01", year), "TRX1", "approved", ""),
		record("Class 7", fmt.Sprintf("%d-03-02", year), "TRX2", "approved", ""),
	)
	writePartition(t, dataDir, year, "class-7_declines.jsonl",
		record("Class 7", fmt.Sprintf("%d-03-01", year), "TRX3", "declined", "already_approved"),
	)
	writePartition(t, dataDir, year, "class-10-science_declines.jsonl",
		record("Class 10 Science", fmt.Sprintf("%d-03-02", year), "", "declined", "missing_both"),
	)
}

func TestRebuildAndLoad(t *testing.T) {
	svc, dataDir, _ := newTestService(t)
	seedYear(t, dataDir, 2026)

	require.NoError(t, svc.Rebuild(context.Background(), 2026))

	summary, err := svc.Load(context.Background(), 2026)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Summary.TotalApprovals)
	assert.Equal(t, 2, summary.Summary.TotalDeclines)
	assert.Equal(t, 4, summary.Summary.TotalProcessed)
	assert.Equal(t, 50.0, summary.OverallStats.ApprovalRate)
	assert.Equal(t, 50.0, summary.OverallStats.DeclineRate)

	require.Contains(t, summary.ByClass, "Class 7")
	assert.Equal(t, 2, summary.ByClass["Class 7"].Approvals)
	assert.Equal(t, 1, summary.ByClass["Class 7"].Declines)
	assert.Equal(t, 1, summary.ByClass["Class 7"].DeclineReasons["already_approved"])

	require.Contains(t, summary.ByDate, "2026-03-01")
	day := summary.ByDate["2026-03-01"]
	assert.Equal(t, 1, day.Approvals)
	assert.Equal(t, 1, day.Declines)
	require.Contains(t, day.ByClass, "Class 7")
	assert.Equal(t, 2, day.ByClass["Class 7"].Total)

	assert.Equal(t, 1, summary.DeclineReasons["missing_both"])
}

func TestRebuildIsIdempotent(t *testing.T) {
	svc, dataDir, _ := newTestService(t)
	seedYear(t, dataDir, 2026)

	require.NoError(t, svc.Rebuild(context.Background(), 2026))
	first, err := svc.Load(context.Background(), 2026)
	require.NoError(t, err)

	require.NoError(t, svc.Rebuild(context.Background(), 2026))
	second, err := svc.Load(context.Background(), 2026)
	require.NoError(t, err)

	// Generation timestamps aside, a replayed rebuild converges.
	first.GeneratedAt, second.GeneratedAt = "", ""
	first.GeneratedDate, second.GeneratedDate = "", ""
	assert.Equal(t, first, second)
}

func TestLoadBuildsFromPartitionsWhenReportMissing(t *testing.T) {
	svc, dataDir, _ := newTestService(t)
	seedYear(t, dataDir, 2026)

	summary, err := svc.Load(context.Background(), 2026)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Summary.TotalProcessed)

	_, err = os.Stat(filepath.Join(dataDir, "log2026", "report.json"))
	assert.NoError(t, err)
}

func TestLoadNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Load(context.Background(), 2031)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestYears(t *testing.T) {
	svc, dataDir, _ := newTestService(t)
	seedYear(t, dataDir, 2026)
	seedYear(t, dataDir, 2025)
	require.NoError(t, os.MkdirAll(filepath.Join(dataDir, "not-a-year"), 0o755))

	years, err := svc.Years(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{2025, 2026}, years)
}

func TestCombined(t *testing.T) {
	svc, dataDir, _ := newTestService(t)
	seedYear(t, dataDir, 2025)
	seedYear(t, dataDir, 2026)

	combined, years, err := svc.Combined(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{2025, 2026}, years)
	assert.Equal(t, 4, combined.Summary.TotalApprovals)
	assert.Equal(t, 4, combined.Summary.TotalDeclines)
	assert.Equal(t, 8, combined.Summary.TotalProcessed)
	assert.Equal(t, 50.0, combined.OverallStats.ApprovalRate)
	assert.Equal(t, 4, combined.ByClass["Class 7"].Approvals)
	assert.Equal(t, 2, combined.DeclineReasons["already_approved"])
}

func TestCombinedNoHistory(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, _, err := svc.Combined(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApprovedData(t *testing.T) {
	svc, dataDir, _ := newTestService(t)
	seedYear(t, dataDir, 2026)

	byClass, err := svc.ApprovedData(context.Background(), 2026)
	require.NoError(t, err)
	require.Contains(t, byClass, "Class 7")
	assert.Len(t, byClass["Class 7"], 2)
	assert.NotContains(t, byClass, "Class 10 Science")
}

func TestAggregateZeroProcessed(t *testing.T) {
	summary := aggregate(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), nil)
	assert.Equal(t, 0, summary.Summary.TotalProcessed)
	assert.Equal(t, 0.0, summary.OverallStats.ApprovalRate)
	assert.Equal(t, 0.0, summary.OverallStats.DeclineRate)
}

func TestAggregateRateRounding(t *testing.T) {
	records := []auditdomain.DecisionRecord{
		record("Class 7", "2026-03-01", "TRX1", "approved", ""),
		record("Class 7", "2026-03-01", "TRX2", "declined", "missing_phone"),
		record("Class 7", "2026-03-01", "TRX3", "declined", "missing_phone"),
	}
	summary := aggregate(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), records)
	assert.Equal(t, 33.33, summary.OverallStats.ApprovalRate)
	assert.Equal(t, 66.67, summary.OverallStats.DeclineRate)
}

func TestScanSkipsMalformedLines(t *testing.T) {
	svc, dataDir, _ := newTestService(t)
	writePartition(t, dataDir, 2026, "class-7_approvals.jsonl",
		record("Class 7", "2026-03-01", "TRX1", "approved", ""),
	)
	path := filepath.Join(dataDir, "log2026", "class-7_approvals.jsonl")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(`{"timestamp": truncated`)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	summary, err := svc.Load(context.Background(), 2026)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Summary.TotalProcessed)
}
