package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	auditdomain "github.com/afsacademy/groupgate/internal/audit/domain"
	"github.com/afsacademy/groupgate/internal/clock"
	"github.com/afsacademy/groupgate/internal/config"
	reportservice "github.com/afsacademy/groupgate/internal/report/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dataDir := t.TempDir()
	reports := reportservice.NewService(reportservice.Params{
		Log:   zap.NewNop(),
		Cfg:   config.Config{DataDir: dataDir},
		Clock: clock.NewFakeClock(time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)),
	})
	router := NewRouter(RouterParams{
		Log:     zap.NewNop(),
		Cfg:     config.Config{AppName: "groupgate", AppVersion: "0.1.0", Environment: "test"},
		Reports: reports,
	})
	return router, dataDir
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

func record(className, date, trxID, status, reason string) auditdomain.DecisionRecord {
	ts, _ := time.Parse("2006-01-02", date)
	return auditdomain.DecisionRecord{
		Timestamp:      ts,
		Date:           date,
		ClassName:      className,
		MemberTrxID:    trxID,
		ApprovalStatus: status,
		DeclineReason:  reason,
	}
}

func seedYear(t *testing.T, dataDir string, year int) {
	writePartition(t, dataDir, year, "class-7_approvals.jsonl",
		record("Class 7", fmt.Sprintf("%d-03-01", year), "TRX2", "approved", ""),
		record("Class 7", fmt.Sprintf("%d-03-01", year), "TRX1", "approved", ""),
		record("Class 7", fmt.Sprintf("%d-03-02", year), "TRX1", "approved", ""),
	)
	writePartition(t, dataDir, year, "class-7_declines.jsonl",
		record("Class 7", fmt.Sprintf("%d-03-02", year), "TRX9", "declined", "transaction_not_found"),
	)
}

func do(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t)
	w := do(router, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestStatsListsYears(t *testing.T) {
	router, dataDir := newTestRouter(t)
	seedYear(t, dataDir, 2025)
	seedYear(t, dataDir, 2026)

	w := do(router, http.MethodGet, "/api/stats")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		AvailableYears []int `json:"availableYears"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []int{2025, 2026}, body.AvailableYears)
}

func TestStatsEmpty(t *testing.T) {
	router, _ := newTestRouter(t)

	w := do(router, http.MethodGet, "/api/stats")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"availableYears":[]`)
}

func TestStatsYear(t *testing.T) {
	router, dataDir := newTestRouter(t)
	seedYear(t, dataDir, 2026)

	w := do(router, http.MethodGet, "/api/stats/2026")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Summary struct {
			TotalApprovals int `json:"totalApprovals"`
			TotalDeclines  int `json:"totalDeclines"`
			TotalProcessed int `json:"totalProcessed"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Summary.TotalApprovals)
	assert.Equal(t, 1, body.Summary.TotalDeclines)
	assert.Equal(t, 4, body.Summary.TotalProcessed)
}

func TestStatsYearInvalidFormat(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, path := range []string{"/api/stats/26", "/api/stats/abcd", "/api/stats/20266"} {
		w := do(router, http.MethodGet, path)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.JSONEq(t, `{"error": "Invalid year format. Expected 4-digit year (e.g., 2026)"}`, w.Body.String())
	}
}

func TestStatsYearNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	w := do(router, http.MethodGet, "/api/stats/2031")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error": "Report not found for year 2031"}`, w.Body.String())
}

func TestStatsAll(t *testing.T) {
	router, dataDir := newTestRouter(t)
	seedYear(t, dataDir, 2025)
	seedYear(t, dataDir, 2026)

	w := do(router, http.MethodGet, "/api/stats/all")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Years    []int `json:"years"`
		Combined struct {
			Summary struct {
				TotalProcessed int `json:"totalProcessed"`
			} `json:"summary"`
		} `json:"combined"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []int{2025, 2026}, body.Years)
	assert.Equal(t, 8, body.Combined.Summary.TotalProcessed)
}

func TestStatsAllEmpty(t *testing.T) {
	router, _ := newTestRouter(t)

	w := do(router, http.MethodGet, "/api/stats/all")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error": "No reports found"}`, w.Body.String())
}

func TestReportYearWise(t *testing.T) {
	router, dataDir := newTestRouter(t)
	seedYear(t, dataDir, 2026)

	w := do(router, http.MethodGet, "/api/report")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]struct {
		Summary struct {
			TotalProcessed int `json:"totalProcessed"`
		} `json:"summary"`
		GeneratedAt string `json:"generatedAt"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Contains(t, body, "2026")
	assert.Equal(t, 4, body["2026"].Summary.TotalProcessed)
	assert.NotEmpty(t, body["2026"].GeneratedAt)
}

func TestReportYearLegacyPath(t *testing.T) {
	router, dataDir := newTestRouter(t)
	seedYear(t, dataDir, 2026)

	w := do(router, http.MethodGet, "/api/report/2026")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalProcessed":4`)
}

func TestDataDeduplicatesAndSorts(t *testing.T) {
	router, dataDir := newTestRouter(t)
	seedYear(t, dataDir, 2026)

	w := do(router, http.MethodGet, "/api/data/2026")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Year    int `json:"year"`
		Classes map[string]struct {
			Approvals      int      `json:"approvals"`
			TransactionIDs []string `json:"transactionIds"`
		} `json:"classes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2026, body.Year)
	require.Contains(t, body.Classes, "Class 7")
	assert.Equal(t, 3, body.Classes["Class 7"].Approvals)
	assert.Equal(t, []string{"TRX1", "TRX2"}, body.Classes["Class 7"].TransactionIDs)
}

func TestDataNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	w := do(router, http.MethodGet, "/api/data/1999")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error": "Report not found for year 1999"}`, w.Body.String())
}

func TestCORSHeaders(t *testing.T) {
	router, _ := newTestRouter(t)

	w := do(router, http.MethodGet, "/health")
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = do(router, http.MethodOptions, "/api/stats")
	assert.Equal(t, http.StatusNoContent, w.Code)
}
