package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calculoss/career-pathway-explorer-sub000/internal/logger"
	"github.com/calculoss/career-pathway-explorer-sub000/internal/types"
)

type AssignmentRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, row *types.Assignment) error
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Assignment, error)
	GetByStudentID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.Assignment, error)
	GetDueWithin(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, from, to time.Time) ([]*types.Assignment, error)
}

type assignmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssignmentRepo(db *gorm.DB, baseLog *logger.Logger) AssignmentRepo {
	return &assignmentRepo{db: db, log: baseLog.With("repo", "AssignmentRepo")}
}

func (r *assignmentRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.Assignment) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil
	}
	// Upsert by unique student_id + lms_assignment_id; sync owns these fields
	return transaction.WithContext(ctx).
		Where("student_id = ? AND lms_assignment_id = ?", row.StudentID, row.LMSAssignmentID).
		Assign(map[string]any{
			"course_id":   row.CourseID,
			"name":        row.Name,
			"course_name": row.CourseName,
			"due_at":      row.DueAt,
			"points":      row.Points,
			"description": row.Description,
			"is_quiz":     row.IsQuiz,
		}).
		FirstOrCreate(row).Error
}

func (r *assignmentRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Assignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Assignment
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

func (r *assignmentRepo) GetByStudentID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.Assignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Assignment
	if studentID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("due_at ASC NULLS LAST").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *assignmentRepo) GetDueWithin(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, from, to time.Time) ([]*types.Assignment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Assignment
	if studentID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("student_id = ? AND due_at IS NOT NULL AND due_at >= ? AND due_at <= ?", studentID, from, to).
		Order("due_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
