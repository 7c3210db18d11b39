package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calculoss/career-pathway-explorer-sub000/internal/logger"
	"github.com/calculoss/career-pathway-explorer-sub000/internal/types"
)

type LMSAccountRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, row *types.LMSAccount) error
	GetByStudentID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (*types.LMSAccount, error)
	TouchSyncedAt(ctx context.Context, tx *gorm.DB, id uuid.UUID, at time.Time) error
}

type lmsAccountRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLMSAccountRepo(db *gorm.DB, baseLog *logger.Logger) LMSAccountRepo {
	return &lmsAccountRepo{db: db, log: baseLog.With("repo", "LMSAccountRepo")}
}

func (r *lmsAccountRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.LMSAccount) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil
	}
	// Upsert by unique student_id
	return transaction.WithContext(ctx).
		Where("student_id = ?", row.StudentID).
		Assign(map[string]any{"base_url": row.BaseURL, "api_token": row.APIToken}).
		FirstOrCreate(row).Error
}

func (r *lmsAccountRepo) GetByStudentID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (*types.LMSAccount, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if studentID == uuid.Nil {
		return nil, nil
	}
	var results []*types.LMSAccount
	if err := transaction.WithContext(ctx).
		Where("student_id = ?", studentID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *lmsAccountRepo) TouchSyncedAt(ctx context.Context, tx *gorm.DB, id uuid.UUID, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.LMSAccount{}).
		Where("id = ?", id).
		Update("last_synced_at", at).Error
}
