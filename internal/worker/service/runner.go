package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/afsacademy/groupgate/internal/config"
	decisiondomain "github.com/afsacademy/groupgate/internal/decision/domain"
	ledgerdomain "github.com/afsacademy/groupgate/internal/ledger/domain"
	"github.com/afsacademy/groupgate/internal/observability"
	registrydomain "github.com/afsacademy/groupgate/internal/registry/domain"
	"github.com/afsacademy/groupgate/internal/worker/domain"
	"github.com/oklog/ulid/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Cfg      config.Config
	Registry registrydomain.Service
	Engine   decisiondomain.Service
	Source   domain.Source
	Actioner domain.Actioner
	Metrics  *observability.Metrics `optional:"true"`
}

// Runner drives one sequential processing loop per configured class.
// Submissions within a class are strictly ordered; classes run
// independently, so one class halting leaves the others alive.
type Runner struct {
	log      *zap.Logger
	cfg      config.Config
	registry registrydomain.Service
	engine   decisiondomain.Service
	source   domain.Source
	actioner domain.Actioner
	metrics  *observability.Metrics

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRunner(p Params) *Runner {
	return &Runner{
		log:      p.Log.Named("worker.runner"),
		cfg:      p.Cfg,
		registry: p.Registry,
		engine:   p.Engine,
		source:   p.Source,
		actioner: p.Actioner,
		metrics:  p.Metrics,
	}
}

func Register(lc fx.Lifecycle, r *Runner) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return r.start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return r.stop(ctx)
		},
	})
}

func (r *Runner) start(ctx context.Context) error {
	rules, err := r.registry.Configured(ctx)
	if err != nil {
		return err
	}
	runCtx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	for _, rule := range rules {
		className := rule.ClassName
		runID := ulid.Make().String()
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			r.runClass(runCtx, className, runID)
		}()
	}
	r.log.Info("worker started", zap.Int("classes", len(rules)))
	return nil
}

func (r *Runner) stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Runner) runClass(ctx context.Context, className, runID string) {
	log := r.log.With(zap.String("class", className), zap.String("run_id", runID))
	log.Info("class loop started")

	for {
		if ctx.Err() != nil {
			log.Info("class loop stopped")
			return
		}
		sub := r.source.Next(ctx, className)
		if sub == nil {
			if ctx.Err() != nil {
				log.Info("class loop stopped")
				return
			}
			r.wait(ctx, r.cfg.WaitNoMembers)
			continue
		}

		evalCtx, cancel := context.WithTimeout(ctx, r.cfg.DecisionTimeout)
		dec, err := r.engine.Evaluate(evalCtx, *sub)
		cancel()
		if err != nil {
			if errors.Is(err, ledgerdomain.ErrUnavailable) {
				// The ledger is the single source of truth; guessing
				// verdicts without it is worse than stopping.
				if r.metrics != nil {
					r.metrics.RecordWorkerHalt(className)
				}
				log.Error("ledger unavailable, halting class loop", zap.Error(err))
				return
			}
			log.Error("evaluation failed",
				zap.String("member", sub.MemberName),
				zap.Error(err),
			)
			r.wait(ctx, r.cfg.WaitOnError)
			continue
		}

		if err := r.deliver(ctx, *sub, dec); err != nil {
			log.Warn("verdict delivery failed",
				zap.String("member", sub.MemberName),
				zap.Error(err),
			)
		}
		r.wait(ctx, r.cfg.WaitBetweenMembers)
	}
}

func (r *Runner) deliver(ctx context.Context, sub decisiondomain.Submission, dec decisiondomain.Decision) error {
	if dec.Approved() {
		return r.actioner.Approve(ctx, sub, dec)
	}
	return r.actioner.Decline(ctx, sub, dec)
}

func (r *Runner) wait(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
