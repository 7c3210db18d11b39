package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calculoss/career-pathway-explorer-sub000/internal/logger"
	"github.com/calculoss/career-pathway-explorer-sub000/internal/types"
)

type StudentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Student) ([]*types.Student, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Student, error)
	GetByHouseholdID(ctx context.Context, tx *gorm.DB, householdID uuid.UUID) ([]*types.Student, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.Student) error
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type studentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudentRepo(db *gorm.DB, baseLog *logger.Logger) StudentRepo {
	return &studentRepo{db: db, log: baseLog.With("repo", "StudentRepo")}
}

func (r *studentRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Student) ([]*types.Student, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.Student{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *studentRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Student, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Student
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *studentRepo) GetByHouseholdID(ctx context.Context, tx *gorm.DB, householdID uuid.UUID) ([]*types.Student, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Student
	if householdID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("household_id = ?", householdID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *studentRepo) Update(ctx context.Context, tx *gorm.DB, row *types.Student) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil || row.ID == uuid.Nil {
		return nil
	}
	return transaction.WithContext(ctx).Save(row).Error
}

func (r *studentRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.Student{}).Error
}
