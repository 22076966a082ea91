package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	auditdomain "github.com/afsacademy/groupgate/internal/audit/domain"
	"github.com/afsacademy/groupgate/internal/clock"
	"github.com/afsacademy/groupgate/internal/config"
	"github.com/afsacademy/groupgate/internal/report/domain"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const reportFile = "report.json"

type Params struct {
	fx.In

	Log   *zap.Logger
	Cfg   config.Config
	Clock clock.Clock
	Redis *redis.Client `optional:"true"`
}

type Service struct {
	log   *zap.Logger
	cfg   config.Config
	clock clock.Clock
	redis *redis.Client
}

func NewService(p Params) domain.Service {
	return &Service{
		log:   p.Log.Named("report.service"),
		cfg:   p.Cfg,
		clock: p.Clock,
		redis: p.Redis,
	}
}

func cacheKey(year int) string {
	return fmt.Sprintf("groupgate:report:%d", year)
}

// Rebuild rescans the year's partitions from scratch and atomically
// replaces report.json, so a replayed rebuild converges to the same
// summary.
func (s *Service) Rebuild(ctx context.Context, year int) error {
	records, err := scanPartitions(s.log, s.cfg.DataDir, year)
	if err != nil {
		return err
	}
	summary := aggregate(s.clock.Now(), records)

	if err := s.writeSummary(year, summary); err != nil {
		return err
	}
	s.cacheSet(ctx, year, summary)
	s.log.Debug("report rebuilt",
		zap.Int("year", year),
		zap.Int("processed", summary.Summary.TotalProcessed),
	)
	return nil
}

// Load returns the year's summary, going redis -> report.json -> a
// fresh rebuild from partitions. ErrNotFound when the year has no
// history at all.
func (s *Service) Load(ctx context.Context, year int) (*domain.Summary, error) {
	if summary := s.cacheGet(ctx, year); summary != nil {
		return summary, nil
	}

	path := filepath.Join(yearDir(s.cfg.DataDir, year), reportFile)
	raw, err := os.ReadFile(path)
	if err == nil {
		var summary domain.Summary
		if err := json.Unmarshal(raw, &summary); err != nil {
			return nil, fmt.Errorf("decode report: %w", err)
		}
		s.cacheSet(ctx, year, &summary)
		return &summary, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read report: %w", err)
	}

	records, err := scanPartitions(s.log, s.cfg.DataDir, year)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrNotFound, year)
	}
	summary := aggregate(s.clock.Now(), records)
	if err := s.writeSummary(year, summary); err != nil {
		return nil, err
	}
	s.cacheSet(ctx, year, summary)
	return summary, nil
}

func (s *Service) Combined(ctx context.Context) (*domain.Summary, []int, error) {
	years, err := s.Years(ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(years) == 0 {
		return nil, nil, domain.ErrNotFound
	}
	var summaries []*domain.Summary
	for _, year := range years {
		summary, err := s.Load(ctx, year)
		if err != nil {
			return nil, nil, err
		}
		summaries = append(summaries, summary)
	}
	return combine(s.clock.Now(), summaries), years, nil
}

func (s *Service) Years(context.Context) ([]int, error) {
	return scanYears(s.cfg.DataDir)
}

func (s *Service) ApprovedData(ctx context.Context, year int) (map[string][]auditdomain.DecisionRecord, error) {
	records, err := scanPartitions(s.log, s.cfg.DataDir, year)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrNotFound, year)
	}
	byClass := map[string][]auditdomain.DecisionRecord{}
	for _, rec := range records {
		if !rec.Approved() {
			continue
		}
		byClass[rec.ClassName] = append(byClass[rec.ClassName], rec)
	}
	return byClass, nil
}

// writeSummary replaces report.json via a same-directory temp file and
// rename, so readers never observe a torn report.
func (s *Service) writeSummary(year int, summary *domain.Summary) error {
	dir := yearDir(s.cfg.DataDir, year)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create year dir: %w", err)
	}
	raw, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	tmp, err := os.CreateTemp(dir, reportFile+".*")
	if err != nil {
		return fmt.Errorf("create temp report: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp report: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, reportFile)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace report: %w", err)
	}
	return nil
}

func (s *Service) cacheGet(ctx context.Context, year int) *domain.Summary {
	if s.redis == nil {
		return nil
	}
	raw, err := s.redis.Get(ctx, cacheKey(year)).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.log.Warn("report cache read failed", zap.Int("year", year), zap.Error(err))
		}
		return nil
	}
	var summary domain.Summary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil
	}
	return &summary
}

func (s *Service) cacheSet(ctx context.Context, year int, summary *domain.Summary) {
	if s.redis == nil {
		return
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, cacheKey(year), raw, s.cfg.ReportCacheTTL).Err(); err != nil {
		s.log.Warn("report cache write failed", zap.Int("year", year), zap.Error(err))
	}
}
