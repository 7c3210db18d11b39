package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calculoss/career-pathway-explorer-sub000/internal/logger"
	"github.com/calculoss/career-pathway-explorer-sub000/internal/repos"
	"github.com/calculoss/career-pathway-explorer-sub000/internal/types"
)

type AssignmentService interface {
	ListForStudent(ctx context.Context, householdID, studentID uuid.UUID) ([]*types.Assignment, error)
}

type assignmentService struct {
	db             *gorm.DB
	log            *logger.Logger
	students       StudentService
	assignmentRepo repos.AssignmentRepo
}

func NewAssignmentService(db *gorm.DB, baseLog *logger.Logger, students StudentService, assignmentRepo repos.AssignmentRepo) AssignmentService {
	return &assignmentService{
		db:             db,
		log:            baseLog.With("service", "AssignmentService"),
		students:       students,
		assignmentRepo: assignmentRepo,
	}
}

func (s *assignmentService) ListForStudent(ctx context.Context, householdID, studentID uuid.UUID) ([]*types.Assignment, error) {
	if _, err := s.students.GetOwned(ctx, householdID, studentID); err != nil {
		return nil, err
	}
	return s.assignmentRepo.GetByStudentID(ctx, nil, studentID)
}
