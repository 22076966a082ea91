package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/afsacademy/groupgate/internal/audit/domain"
	"github.com/afsacademy/groupgate/internal/clock"
	"github.com/afsacademy/groupgate/internal/config"
	decisiondomain "github.com/afsacademy/groupgate/internal/decision/domain"
	ledgerdomain "github.com/afsacademy/groupgate/internal/ledger/domain"
	"github.com/afsacademy/groupgate/internal/observability"
	registrydomain "github.com/afsacademy/groupgate/internal/registry/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Cfg      config.Config
	Clock    clock.Clock
	Ledger   ledgerdomain.Repository
	Registry registrydomain.Service
	Audit    domain.Service
	Metrics  *observability.Metrics `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	cfg      config.Config
	clock    clock.Clock
	ledger   ledgerdomain.Repository
	registry registrydomain.Service
	audit    domain.Service
	metrics  *observability.Metrics
}

func NewService(p Params) decisiondomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("decision.service"),
		cfg:      p.Cfg,
		clock:    p.Clock,
		ledger:   p.Ledger,
		registry: p.Registry,
		audit:    p.Audit,
		metrics:  p.Metrics,
	}
}

// Evaluate runs the decline checks in their fixed order and, when all
// pass, performs the conditional approval update. Ledger faults abort
// the evaluation with an error wrapping ledger ErrUnavailable; they are
// never turned into declines.
func (s *Service) Evaluate(ctx context.Context, sub decisiondomain.Submission) (decisiondomain.Decision, error) {
	sub.ClassName = registrydomain.Normalize(sub.ClassName)
	sub.Phone = strings.TrimSpace(sub.Phone)
	sub.TransactionID = strings.TrimSpace(sub.TransactionID)

	rule, err := s.registry.Rule(ctx, sub.ClassName)
	if err != nil {
		return decisiondomain.Decision{}, err
	}
	if !rule.Configured() {
		return decisiondomain.Decision{}, fmt.Errorf("%w: %s", decisiondomain.ErrClassNotConfigured, sub.ClassName)
	}

	switch {
	case len(sub.Answers) == 0:
		return s.decline(ctx, sub, nil, decisiondomain.ReasonNoAnswers)
	case sub.Phone == "" && sub.TransactionID == "":
		return s.decline(ctx, sub, nil, decisiondomain.ReasonMissingBoth)
	case sub.Phone == "":
		return s.decline(ctx, sub, nil, decisiondomain.ReasonMissingPhone)
	case sub.TransactionID == "":
		return s.decline(ctx, sub, nil, decisiondomain.ReasonMissingTransaction)
	}

	claim, err := s.ledger.FindByTransactionID(ctx, s.db, sub.TransactionID)
	if err != nil {
		return decisiondomain.Decision{}, err
	}
	if claim == nil {
		return s.decline(ctx, sub, nil, decisiondomain.ReasonTransactionNotFound)
	}

	if s.cfg.VerifyPhone && !samePhone(claim.Phone, sub.Phone) {
		return s.decline(ctx, sub, claim, decisiondomain.ReasonPhoneMismatch)
	}

	// Eligibility outranks the duplicate-use check: a payment for the
	// wrong course is reported as ineligible even when already consumed.
	if !rule.Eligible(claim.ProductID) {
		return s.decline(ctx, sub, claim, decisiondomain.ReasonProductNotEligible)
	}
	if claim.IsApproved {
		return s.decline(ctx, sub, claim, decisiondomain.ReasonAlreadyApproved)
	}

	approvedBy := sub.ExternalUserRef
	if approvedBy == "" {
		approvedBy = s.cfg.ProcessedByTag
	}
	updated, err := s.ledger.Approve(ctx, s.db, claim.UserID, claim.TransactionID, approvedBy, s.clock.Now())
	if err != nil {
		return decisiondomain.Decision{}, err
	}
	if !updated {
		// Lost the race: someone consumed the claim between the read
		// and the update.
		return s.decline(ctx, sub, claim, decisiondomain.ReasonAlreadyApproved)
	}

	dec := decisiondomain.Decision{
		Outcome:    decisiondomain.OutcomeApproved,
		ApprovedID: approvedBy,
	}
	s.record(ctx, sub, claim, dec)
	s.log.Info("submission approved",
		zap.String("class", sub.ClassName),
		zap.String("trx_id", sub.TransactionID),
		zap.String("user_id", claim.UserID),
	)
	return dec, nil
}

func (s *Service) decline(ctx context.Context, sub decisiondomain.Submission, claim *ledgerdomain.Claim, reason decisiondomain.Reason) (decisiondomain.Decision, error) {
	dec := decisiondomain.Decision{
		Outcome: decisiondomain.OutcomeDeclined,
		Reason:  reason,
		Message: decisiondomain.Message(reason, s.cfg.MessageLanguage),
	}
	s.record(ctx, sub, claim, dec)
	s.log.Info("submission declined",
		zap.String("class", sub.ClassName),
		zap.String("reason", string(reason)),
	)
	return dec, nil
}

// record writes the audit trail for a settled decision. An audit
// failure never changes the verdict; it is logged and counted.
func (s *Service) record(ctx context.Context, sub decisiondomain.Submission, claim *ledgerdomain.Claim, dec decisiondomain.Decision) {
	rec := domain.DecisionRecord{
		Timestamp:       s.clock.Now(),
		ClassName:       sub.ClassName,
		MemberName:      sub.MemberName,
		ExternalUserRef: sub.ExternalUserRef,
		MemberPhone:     sub.Phone,
		MemberTrxID:     sub.TransactionID,
		MemberQA:        sub.Answers,
		ApprovalStatus:  string(dec.Outcome),
		DeclineReason:   string(dec.Reason),
		DeclineMessage:  dec.Message,
		ProcessedBy:     s.cfg.ProcessedByTag,
	}
	if claim != nil {
		rec.MemberUserID = claim.UserID
	}
	if err := s.audit.Record(ctx, rec); err != nil {
		if s.metrics != nil {
			s.metrics.RecordAuditFailure()
		}
		s.log.Error("audit record failed",
			zap.String("class", sub.ClassName),
			zap.String("trx_id", sub.TransactionID),
			zap.Error(err),
		)
	}
	if s.metrics != nil {
		s.metrics.RecordDecision(sub.ClassName, string(dec.Outcome), string(dec.Reason))
	}
}

// samePhone compares two phone numbers on digits only, tolerating a
// country prefix on either side by matching the trailing 11 digits.
func samePhone(a, b string) bool {
	da, db := digits(a), digits(b)
	if da == "" || db == "" {
		return false
	}
	if da == db {
		return true
	}
	if len(da) >= 11 && len(db) >= 11 {
		return da[len(da)-11:] == db[len(db)-11:]
	}
	return false
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
