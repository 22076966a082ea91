package repository

import (
	"context"

	"github.com/afsacademy/groupgate/internal/audit/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertLog(ctx context.Context, db *gorm.DB, log *domain.ProcessingLog) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO member_processing_logs
			(id, class_name, member_name, member_user_id, member_qa,
			 member_phone, member_trx_id, approval_status, decline_reason,
			 external_user_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		log.ID,
		log.ClassName,
		log.MemberName,
		log.MemberUserID,
		log.MemberQA,
		log.MemberPhone,
		log.MemberTrxID,
		log.ApprovalStatus,
		log.DeclineReason,
		log.ExternalUserID,
		log.CreatedAt,
	).Error
}
