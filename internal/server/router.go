package server

import (
	"net/http"

	"github.com/afsacademy/groupgate/internal/config"
	"github.com/afsacademy/groupgate/internal/observability"
	reportdomain "github.com/afsacademy/groupgate/internal/report/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type RouterParams struct {
	fx.In

	Log     *zap.Logger
	Cfg     config.Config
	Reports reportdomain.Service
	Metrics *observability.Metrics `optional:"true"`
}

// NewRouter builds the read-only HTTP surface. All mutation happens on
// the worker path; this server only reports.
func NewRouter(p RouterParams) *gin.Engine {
	if !p.Cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors())
	if p.Metrics != nil {
		r.Use(observability.GinMiddleware(p.Metrics))
	}

	h := &handler{
		log:     p.Log.Named("server"),
		cfg:     p.Cfg,
		reports: p.Reports,
	}

	r.GET("/health", h.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/stats", h.stats)
		api.GET("/stats/all", h.statsAll)
		api.GET("/stats/:year", h.statsYear)
		api.GET("/report", h.report)
		api.GET("/report/:year", h.statsYear)
		api.GET("/data/:year", h.data)
	}
	return r
}

// cors allows the static dashboard, served from anywhere, to read the
// stats endpoints.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
