package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calculoss/career-pathway-explorer-sub000/internal/logger"
	"github.com/calculoss/career-pathway-explorer-sub000/internal/types"
)

type CourseRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, row *types.Course) error
	GetByStudentID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.Course, error)
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return &courseRepo{db: db, log: baseLog.With("repo", "CourseRepo")}
}

func (r *courseRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.Course) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil
	}
	// Upsert by unique student_id + lms_course_id
	return transaction.WithContext(ctx).
		Where("student_id = ? AND lms_course_id = ?", row.StudentID, row.LMSCourseID).
		Assign(map[string]any{"name": row.Name, "code": row.Code}).
		FirstOrCreate(row).Error
}

func (r *courseRepo) GetByStudentID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Course
	if studentID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
