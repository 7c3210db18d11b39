package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calculoss/career-pathway-explorer-sub000/internal/logger"
	"github.com/calculoss/career-pathway-explorer-sub000/internal/types"
)

type MilestoneRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Milestone) ([]*types.Milestone, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Milestone, error)
	GetByStudentAndAssignment(ctx context.Context, tx *gorm.DB, studentID, assignmentID uuid.UUID) ([]*types.Milestone, error)
	GetUpcomingByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, from, to time.Time) ([]*types.Milestone, error)
	MarkCompleted(ctx context.Context, tx *gorm.DB, studentID, id uuid.UUID, at time.Time) (bool, error)
	DeleteByStudentAndAssignment(ctx context.Context, tx *gorm.DB, studentID, assignmentID uuid.UUID) error
}

type milestoneRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMilestoneRepo(db *gorm.DB, baseLog *logger.Logger) MilestoneRepo {
	return &milestoneRepo{db: db, log: baseLog.With("repo", "MilestoneRepo")}
}

func (r *milestoneRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Milestone) ([]*types.Milestone, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.Milestone{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *milestoneRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Milestone, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Milestone
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

func (r *milestoneRepo) GetByStudentAndAssignment(ctx context.Context, tx *gorm.DB, studentID, assignmentID uuid.UUID) ([]*types.Milestone, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Milestone
	if studentID == uuid.Nil || assignmentID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("student_id = ? AND assignment_id = ?", studentID, assignmentID).
		Order("target_date ASC").
		Order("position ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *milestoneRepo) GetUpcomingByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, from, to time.Time) ([]*types.Milestone, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Milestone
	if studentID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("student_id = ? AND target_date >= ? AND target_date <= ?", studentID, from, to).
		Order("target_date ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// MarkCompleted reports whether a row actually changed. A second call for
// the same id matches no rows, so completed_at keeps its first value.
func (r *milestoneRepo) MarkCompleted(ctx context.Context, tx *gorm.DB, studentID, id uuid.UUID, at time.Time) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if studentID == uuid.Nil || id == uuid.Nil {
		return false, nil
	}
	res := transaction.WithContext(ctx).
		Model(&types.Milestone{}).
		Where("id = ? AND student_id = ? AND completed = ?", id, studentID, false).
		Updates(map[string]any{"completed": true, "completed_at": at})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *milestoneRepo) DeleteByStudentAndAssignment(ctx context.Context, tx *gorm.DB, studentID, assignmentID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if studentID == uuid.Nil || assignmentID == uuid.Nil {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("student_id = ? AND assignment_id = ?", studentID, assignmentID).
		Delete(&types.Milestone{}).Error
}
