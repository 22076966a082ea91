package domain

import (
	"context"
	"errors"
)

type Outcome string

const (
	OutcomeApproved Outcome = "approved"
	OutcomeDeclined Outcome = "declined"
)

// Reason identifies why a submission was declined. Codes are stable;
// the operator-facing text lives in the message catalog.
type Reason string

const (
	ReasonNoAnswers           Reason = "no_answers"
	ReasonMissingBoth         Reason = "missing_both"
	ReasonMissingPhone        Reason = "missing_phone"
	ReasonMissingTransaction  Reason = "missing_transaction"
	ReasonTransactionNotFound Reason = "transaction_not_found"
	ReasonPhoneMismatch       Reason = "phone_mismatch"
	ReasonProductNotEligible  Reason = "product_not_eligible"
	ReasonAlreadyApproved     Reason = "already_approved"
)

// ErrClassNotConfigured is returned when a submission targets a class
// without a destination group or eligible product set. That is a caller
// error, not a decline.
var ErrClassNotConfigured = errors.New("class not configured")

// Submission is one scraped join request, with answer fields already
// extracted by the collaborating scraper.
type Submission struct {
	ClassName       string
	MemberName      string
	ExternalUserRef string
	Phone           string
	TransactionID   string
	Answers         map[string]string
}

// Decision is the verdict for one submission. Declines carry a reason
// code and a localized message; approvals carry neither.
type Decision struct {
	Outcome    Outcome
	Reason     Reason
	Message    string
	ApprovedID string
}

func (d Decision) Approved() bool { return d.Outcome == OutcomeApproved }

// Service evaluates submissions against the payment ledger and performs
// the at-most-once approval transition.
type Service interface {
	Evaluate(ctx context.Context, sub Submission) (Decision, error)
}
