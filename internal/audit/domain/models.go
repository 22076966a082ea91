package domain

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DecisionRecord is one line of the append-only decision history. The
// same shape is written to the year partitions on disk and, minus the
// derived fields, to member_processing_logs.
type DecisionRecord struct {
	Timestamp       time.Time         `json:"timestamp"`
	Date            string            `json:"date"`
	ClassName       string            `json:"className"`
	MemberName      string            `json:"memberName"`
	ExternalUserRef string            `json:"externalUserRef,omitempty"`
	MemberUserID    string            `json:"memberUserId,omitempty"`
	MemberPhone     string            `json:"memberPhone,omitempty"`
	MemberTrxID     string            `json:"memberTrxId,omitempty"`
	MemberQA        map[string]string `json:"memberQA,omitempty"`
	ApprovalStatus  string            `json:"approvalStatus"`
	DeclineReason   string            `json:"declineReason,omitempty"`
	DeclineMessage  string            `json:"declineMessage,omitempty"`
	ProcessedBy     string            `json:"processedBy"`
}

func (r DecisionRecord) Approved() bool { return r.ApprovalStatus == "approved" }

// ProcessingLog is the relational copy of a decision record, kept for
// ad-hoc querying next to the payment tables.
type ProcessingLog struct {
	ID             int64          `gorm:"column:id;primaryKey"`
	ClassName      string         `gorm:"column:class_name"`
	MemberName     string         `gorm:"column:member_name"`
	MemberUserID   string         `gorm:"column:member_user_id"`
	MemberQA       datatypes.JSON `gorm:"column:member_qa"`
	MemberPhone    string         `gorm:"column:member_phone"`
	MemberTrxID    string         `gorm:"column:member_trx_id"`
	ApprovalStatus string         `gorm:"column:approval_status"`
	DeclineReason  string         `gorm:"column:decline_reason"`
	ExternalUserID string         `gorm:"column:external_user_id"`
	CreatedAt      time.Time      `gorm:"column:created_at"`
}

func (ProcessingLog) TableName() string {
	return "member_processing_logs"
}

type Repository interface {
	InsertLog(ctx context.Context, db *gorm.DB, log *ProcessingLog) error
}

// Service persists decision records: an append to the class/year
// partition on disk plus a row in member_processing_logs.
type Service interface {
	Record(ctx context.Context, rec DecisionRecord) error
}

// ReportRebuilder regenerates the yearly summary after new decisions
// land. Implemented by the report service.
type ReportRebuilder interface {
	Rebuild(ctx context.Context, year int) error
}
