package service

import (
	"context"

	"github.com/afsacademy/groupgate/internal/config"
	"github.com/afsacademy/groupgate/internal/report/domain"
	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Rebuilder periodically rescans every year's partitions. It also runs
// one rebuild at startup so restarts pick up partitions written while
// the process was down.
type Rebuilder struct {
	log     *zap.Logger
	cfg     config.Config
	reports domain.Service
	cron    *cron.Cron
}

func NewRebuilder(lc fx.Lifecycle, log *zap.Logger, cfg config.Config, reports domain.Service) *Rebuilder {
	r := &Rebuilder{
		log:     log.Named("report.rebuilder"),
		cfg:     cfg,
		reports: reports,
		cron:    cron.New(),
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if _, err := r.cron.AddFunc(cfg.ReportRebuildSpec, r.rebuildAll); err != nil {
				return err
			}
			r.cron.Start()
			go r.rebuildAll()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			select {
			case <-r.cron.Stop().Done():
			case <-ctx.Done():
			}
			return nil
		},
	})
	return r
}

func (r *Rebuilder) rebuildAll() {
	ctx := context.Background()
	years, err := r.reports.Years(ctx)
	if err != nil {
		r.log.Error("year scan failed", zap.Error(err))
		return
	}
	for _, year := range years {
		if err := r.reports.Rebuild(ctx, year); err != nil {
			r.log.Error("scheduled rebuild failed", zap.Int("year", year), zap.Error(err))
		}
	}
}
