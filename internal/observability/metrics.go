package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the prometheus instruments the service emits.
type Metrics struct {
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	decisions     *prometheus.CounterVec
	workerHalts   *prometheus.CounterVec
	auditFailures prometheus.Counter
}

func NewMetrics() *Metrics {
	return &Metrics{
		httpRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "groupgate_http_requests_total",
			Help: "HTTP requests by method, path and status.",
		}, []string{"method", "path", "status"}),
		httpDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "groupgate_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "groupgate_decisions_total",
			Help: "Join-request decisions by class, outcome and reason.",
		}, []string{"class", "outcome", "reason"}),
		workerHalts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "groupgate_worker_halts_total",
			Help: "Class workers halted on a store fault.",
		}, []string{"class"}),
		auditFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "groupgate_audit_write_failures_total",
			Help: "Audit records that could not be persisted.",
		}),
	}
}

func (m *Metrics) RecordDecision(class, outcome, reason string) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(class, outcome, reason).Inc()
}

func (m *Metrics) RecordWorkerHalt(class string) {
	if m == nil {
		return
	}
	m.workerHalts.WithLabelValues(class).Inc()
}

func (m *Metrics) RecordAuditFailure() {
	if m == nil {
		return
	}
	m.auditFailures.Inc()
}

// GinMiddleware records request counts and latency per route.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
