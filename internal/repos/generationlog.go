package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/calculoss/career-pathway-explorer-sub000/internal/logger"
	"github.com/calculoss/career-pathway-explorer-sub000/internal/types"
)

// GenerationLogRepo is insert-only; nothing in the planner path reads it.
type GenerationLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.GenerationLog) ([]*types.GenerationLog, error)
}

type generationLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGenerationLogRepo(db *gorm.DB, baseLog *logger.Logger) GenerationLogRepo {
	return &generationLogRepo{db: db, log: baseLog.With("repo", "GenerationLogRepo")}
}

func (r *generationLogRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.GenerationLog) ([]*types.GenerationLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.GenerationLog{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
