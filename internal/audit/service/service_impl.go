package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/afsacademy/groupgate/internal/audit/domain"
	"github.com/afsacademy/groupgate/internal/config"
	registrydomain "github.com/afsacademy/groupgate/internal/registry/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Cfg      config.Config
	Node     *snowflake.Node
	Repo     domain.Repository
	Registry registrydomain.Service
	Rebuild  domain.ReportRebuilder `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	cfg      config.Config
	node     *snowflake.Node
	repo     domain.Repository
	registry registrydomain.Service
	rebuild  domain.ReportRebuilder
	store    *partitionStore
}

func NewService(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("audit.service"),
		cfg:      p.Cfg,
		node:     p.Node,
		repo:     p.Repo,
		registry: p.Registry,
		rebuild:  p.Rebuild,
		store:    newPartitionStore(p.Cfg.DataDir),
	}
}

// Record appends the decision to its class/year partition and mirrors
// it into member_processing_logs. The partition append is the
// authoritative write; the relational copy and the report rebuild are
// best-effort.
func (s *Service) Record(ctx context.Context, rec domain.DecisionRecord) error {
	rec.ClassName = registrydomain.Normalize(rec.ClassName)
	if rec.Date == "" {
		rec.Date = rec.Timestamp.UTC().Format("2006-01-02")
	}
	if rec.ProcessedBy == "" {
		rec.ProcessedBy = s.cfg.ProcessedByTag
	}

	year := s.partitionYear(ctx, rec)

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal decision record: %w", err)
	}
	if err := s.store.Append(year, rec.ClassName, rec.Approved(), line); err != nil {
		return err
	}

	if err := s.insertLog(ctx, rec); err != nil {
		s.log.Warn("processing log insert failed",
			zap.String("class", rec.ClassName),
			zap.Error(err),
		)
	}

	if s.rebuild != nil {
		if err := s.rebuild.Rebuild(ctx, year); err != nil {
			s.log.Warn("report rebuild failed",
				zap.Int("year", year),
				zap.Error(err),
			)
		}
	}
	return nil
}

// partitionYear is the class rule's year, so a class configured for a
// batch keeps one partition even across new year boundaries. Unknown
// classes fall back to the decision timestamp.
func (s *Service) partitionYear(ctx context.Context, rec domain.DecisionRecord) int {
	rule, err := s.registry.Rule(ctx, rec.ClassName)
	if err != nil {
		if !errors.Is(err, registrydomain.ErrClassNotFound) {
			s.log.Warn("partition year lookup failed",
				zap.String("class", rec.ClassName),
				zap.Error(err),
			)
		}
		return rec.Timestamp.UTC().Year()
	}
	return rule.Year
}

func (s *Service) insertLog(ctx context.Context, rec domain.DecisionRecord) error {
	memberName := rec.MemberName
	if memberName == "" {
		memberName = "Unknown"
	}
	var qa datatypes.JSON
	if len(rec.MemberQA) > 0 {
		raw, err := json.Marshal(rec.MemberQA)
		if err != nil {
			return fmt.Errorf("marshal member qa: %w", err)
		}
		qa = raw
	}
	return s.repo.InsertLog(ctx, s.db, &domain.ProcessingLog{
		ID:             s.node.Generate().Int64(),
		ClassName:      rec.ClassName,
		MemberName:     memberName,
		MemberUserID:   rec.MemberUserID,
		MemberQA:       qa,
		MemberPhone:    rec.MemberPhone,
		MemberTrxID:    rec.MemberTrxID,
		ApprovalStatus: rec.ApprovalStatus,
		DeclineReason:  rec.DeclineReason,
		ExternalUserID: rec.ExternalUserRef,
		CreatedAt:      rec.Timestamp,
	})
}
