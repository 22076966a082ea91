package service

import (
	"context"

	decisiondomain "github.com/afsacademy/groupgate/internal/decision/domain"
	"github.com/afsacademy/groupgate/internal/worker/domain"
	"go.uber.org/zap"
)

// LogActioner is the default verdict sink. The group-side click-through
// is performed by the collaborating scraper; this deployment only
// decides and records.
type LogActioner struct {
	log *zap.Logger
}

func NewLogActioner(log *zap.Logger) domain.Actioner {
	return &LogActioner{log: log.Named("worker.actioner")}
}

func (a *LogActioner) Approve(_ context.Context, sub decisiondomain.Submission, dec decisiondomain.Decision) error {
	a.log.Info("approve member",
		zap.String("class", sub.ClassName),
		zap.String("member", sub.MemberName),
		zap.String("approved_id", dec.ApprovedID),
	)
	return nil
}

func (a *LogActioner) Decline(_ context.Context, sub decisiondomain.Submission, dec decisiondomain.Decision) error {
	a.log.Info("decline member",
		zap.String("class", sub.ClassName),
		zap.String("member", sub.MemberName),
		zap.String("reason", string(dec.Reason)),
		zap.String("message", dec.Message),
	)
	return nil
}
