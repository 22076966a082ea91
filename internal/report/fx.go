package report

import (
	auditdomain "github.com/afsacademy/groupgate/internal/audit/domain"
	"github.com/afsacademy/groupgate/internal/config"
	"github.com/afsacademy/groupgate/internal/report/domain"
	"github.com/afsacademy/groupgate/internal/report/service"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// newRedis returns nil when no address is configured; the report
// service then serves straight from disk.
func newRedis(cfg config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
}

var Module = fx.Module("report.service",
	fx.Provide(
		newRedis,
		service.NewService,
		func(s domain.Service) auditdomain.ReportRebuilder { return s },
	),
	fx.Invoke(service.NewRebuilder),
)
