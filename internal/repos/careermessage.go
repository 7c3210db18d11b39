package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calculoss/career-pathway-explorer-sub000/internal/logger"
	"github.com/calculoss/career-pathway-explorer-sub000/internal/types"
)

type CareerMessageRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.CareerMessage) ([]*types.CareerMessage, error)
	GetRecentByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, limit int) ([]*types.CareerMessage, error)
}

type careerMessageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCareerMessageRepo(db *gorm.DB, baseLog *logger.Logger) CareerMessageRepo {
	return &careerMessageRepo{db: db, log: baseLog.With("repo", "CareerMessageRepo")}
}

func (r *careerMessageRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.CareerMessage) ([]*types.CareerMessage, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.CareerMessage{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetRecentByStudent returns the newest messages in chronological order.
func (r *careerMessageRepo) GetRecentByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, limit int) ([]*types.CareerMessage, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.CareerMessage
	if studentID == uuid.Nil || limit <= 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
		results[i], results[j] = results[j], results[i]
	}
	return results, nil
}
