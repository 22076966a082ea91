package server

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strconv"

	"github.com/afsacademy/groupgate/internal/config"
	reportdomain "github.com/afsacademy/groupgate/internal/report/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var yearPattern = regexp.MustCompile(`^\d{4}$`)

type handler struct {
	log     *zap.Logger
	cfg     config.Config
	reports reportdomain.Service
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": h.cfg.AppName,
		"version": h.cfg.AppVersion,
	})
}

// stats is the discovery endpoint: which years exist and where to get
// them.
func (h *handler) stats(c *gin.Context) {
	years, err := h.reports.Years(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if years == nil {
		years = []int{}
	}
	c.JSON(http.StatusOK, gin.H{
		"availableYears": years,
		"endpoints": gin.H{
			"allStats":  "/api/stats/all",
			"yearStats": "/api/stats/:year",
			"report":    "/api/report",
			"data":      "/api/data/:year",
		},
	})
}

func (h *handler) statsAll(c *gin.Context) {
	combined, years, err := h.reports.Combined(c.Request.Context())
	if err != nil {
		if errors.Is(err, reportdomain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No reports found"})
			return
		}
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"years":    years,
		"combined": combined,
	})
}

func (h *handler) statsYear(c *gin.Context) {
	year, ok := h.yearParam(c)
	if !ok {
		return
	}
	summary, err := h.reports.Load(c.Request.Context(), year)
	if err != nil {
		if errors.Is(err, reportdomain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Report not found for year %d", year)})
			return
		}
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// report is the year-wise rollup: every year's headline numbers in one
// payload.
func (h *handler) report(c *gin.Context) {
	ctx := c.Request.Context()
	years, err := h.reports.Years(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	if len(years) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No reports found"})
		return
	}
	byYear := gin.H{}
	for _, year := range years {
		summary, err := h.reports.Load(ctx, year)
		if err != nil {
			if errors.Is(err, reportdomain.ErrNotFound) {
				continue
			}
			h.fail(c, err)
			return
		}
		byYear[strconv.Itoa(year)] = gin.H{
			"summary":       summary.Summary,
			"overallStats":  summary.OverallStats,
			"generatedAt":   summary.GeneratedAt,
			"generatedDate": summary.GeneratedDate,
		}
	}
	c.JSON(http.StatusOK, byYear)
}

// data reconstructs the approved-transaction breakdown of a year from
// the approval partitions: per class, the deduplicated sorted
// transaction ids that were consumed.
func (h *handler) data(c *gin.Context) {
	year, ok := h.yearParam(c)
	if !ok {
		return
	}
	approved, err := h.reports.ApprovedData(c.Request.Context(), year)
	if err != nil {
		if errors.Is(err, reportdomain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Report not found for year %d", year)})
			return
		}
		h.fail(c, err)
		return
	}

	classes := gin.H{}
	for className, records := range approved {
		seen := map[string]struct{}{}
		var trxIDs []string
		for _, rec := range records {
			if rec.MemberTrxID == "" {
				continue
			}
			if _, ok := seen[rec.MemberTrxID]; ok {
				continue
			}
			seen[rec.MemberTrxID] = struct{}{}
			trxIDs = append(trxIDs, rec.MemberTrxID)
		}
		sort.Strings(trxIDs)
		if trxIDs == nil {
			trxIDs = []string{}
		}
		classes[className] = gin.H{
			"approvals":      len(records),
			"transactionIds": trxIDs,
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"year":    year,
		"classes": classes,
	})
}

func (h *handler) yearParam(c *gin.Context) (int, bool) {
	raw := c.Param("year")
	if !yearPattern.MatchString(raw) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year format. Expected 4-digit year (e.g., 2026)"})
		return 0, false
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year format. Expected 4-digit year (e.g., 2026)"})
		return 0, false
	}
	return year, true
}

func (h *handler) fail(c *gin.Context, err error) {
	h.log.Error("request failed",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
