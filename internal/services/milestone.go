package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calculoss/career-pathway-explorer-sub000/internal/logger"
	"github.com/calculoss/career-pathway-explorer-sub000/internal/repos"
	"github.com/calculoss/career-pathway-explorer-sub000/internal/types"
)

// ValidationError carries the human-readable messages for a rejected write.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

type PlanProgress struct {
	Total     int     `json:"total"`
	Completed int     `json:"completed"`
	Percent   float64 `json:"percent"`
}

type MilestoneService interface {
	ReplaceAll(ctx context.Context, studentID, assignmentID uuid.UUID, rows []*types.Milestone) error
	AppendOne(ctx context.Context, studentID, assignmentID uuid.UUID, row *types.Milestone) error
	ListForAssignment(ctx context.Context, studentID, assignmentID uuid.UUID) ([]*types.Milestone, error)
	ListUpcoming(ctx context.Context, studentID uuid.UUID, horizonDays int) ([]*types.Milestone, error)
	MarkComplete(ctx context.Context, studentID, id uuid.UUID) (bool, error)
	ClearFor(ctx context.Context, studentID, assignmentID uuid.UUID) error
	Progress(ctx context.Context, studentID, assignmentID uuid.UUID) (*PlanProgress, error)
}

type milestoneService struct {
	db             *gorm.DB
	log            *logger.Logger
	milestoneRepo  repos.MilestoneRepo
	assignmentRepo repos.AssignmentRepo
}

func NewMilestoneService(db *gorm.DB, baseLog *logger.Logger, milestoneRepo repos.MilestoneRepo, assignmentRepo repos.AssignmentRepo) MilestoneService {
	return &milestoneService{
		db:             db,
		log:            baseLog.With("service", "MilestoneService"),
		milestoneRepo:  milestoneRepo,
		assignmentRepo: assignmentRepo,
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// validateKey checks the (student, assignment) identity, including that the
// assignment exists and carries a name.
func (s *milestoneService) validateKey(ctx context.Context, studentID, assignmentID uuid.UUID, msgs []string) []string {
	if studentID == uuid.Nil {
		msgs = append(msgs, "student identifier is required")
	}
	if assignmentID == uuid.Nil {
		msgs = append(msgs, "assignment identifier is required")
		return msgs
	}
	assignments, err := s.assignmentRepo.GetByIDs(ctx, nil, []uuid.UUID{assignmentID})
	if err != nil {
		msgs = append(msgs, fmt.Sprintf("assignment lookup failed: %v", err))
		return msgs
	}
	if len(assignments) == 0 || assignments[0] == nil {
		msgs = append(msgs, "assignment not found")
		return msgs
	}
	if strings.TrimSpace(assignments[0].Name) == "" {
		msgs = append(msgs, "assignment has no name")
	}
	return msgs
}

func validateRow(row *types.Milestone, ordinal int, msgs []string) []string {
	if row == nil {
		return append(msgs, fmt.Sprintf("milestone %d is empty", ordinal))
	}
	if strings.TrimSpace(row.Title) == "" {
		msgs = append(msgs, fmt.Sprintf("milestone %d is missing a title", ordinal))
	}
	if strings.TrimSpace(row.Description) == "" {
		msgs = append(msgs, fmt.Sprintf("milestone %d is missing a description", ordinal))
	}
	if row.TargetDate.IsZero() {
		msgs = append(msgs, fmt.Sprintf("milestone %d is missing a target date", ordinal))
	}
	return msgs
}

// ReplaceAll swaps the whole plan for the (student, assignment) key.
// Validation happens before anything is deleted, and delete+insert share one
// transaction, so a failed replace leaves the previous plan intact.
func (s *milestoneService) ReplaceAll(ctx context.Context, studentID, assignmentID uuid.UUID, rows []*types.Milestone) error {
	var msgs []string
	if len(rows) == 0 {
		msgs = append(msgs, "milestone list is empty")
	}
	msgs = s.validateKey(ctx, studentID, assignmentID, msgs)
	for i, row := range rows {
		msgs = validateRow(row, i+1, msgs)
	}
	if len(msgs) > 0 {
		return &ValidationError{Messages: msgs}
	}

	for i, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		row.StudentID = studentID
		row.AssignmentID = assignmentID
		row.Title = truncate(row.Title, types.MilestoneTitleMaxLen)
		row.Description = truncate(row.Description, types.MilestoneDescriptionMaxLen)
		row.Position = i
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.milestoneRepo.DeleteByStudentAndAssignment(ctx, tx, studentID, assignmentID); err != nil {
			return fmt.Errorf("clear previous plan: %w", err)
		}
		if _, err := s.milestoneRepo.Create(ctx, tx, rows); err != nil {
			return fmt.Errorf("insert plan: %w", err)
		}
		return nil
	})
}

func (s *milestoneService) AppendOne(ctx context.Context, studentID, assignmentID uuid.UUID, row *types.Milestone) error {
	var msgs []string
	msgs = s.validateKey(ctx, studentID, assignmentID, msgs)
	msgs = validateRow(row, 1, msgs)
	if len(msgs) > 0 {
		return &ValidationError{Messages: msgs}
	}

	existing, err := s.milestoneRepo.GetByStudentAndAssignment(ctx, nil, studentID, assignmentID)
	if err != nil {
		return err
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	row.StudentID = studentID
	row.AssignmentID = assignmentID
	row.Title = truncate(row.Title, types.MilestoneTitleMaxLen)
	row.Description = truncate(row.Description, types.MilestoneDescriptionMaxLen)
	row.Position = len(existing)

	_, err = s.milestoneRepo.Create(ctx, nil, []*types.Milestone{row})
	return err
}

func (s *milestoneService) ListForAssignment(ctx context.Context, studentID, assignmentID uuid.UUID) ([]*types.Milestone, error) {
	return s.milestoneRepo.GetByStudentAndAssignment(ctx, nil, studentID, assignmentID)
}

func (s *milestoneService) ListUpcoming(ctx context.Context, studentID uuid.UUID, horizonDays int) ([]*types.Milestone, error) {
	if horizonDays <= 0 {
		horizonDays = 7
	}
	now := time.Now()
	return s.milestoneRepo.GetUpcomingByStudent(ctx, nil, studentID, now, now.AddDate(0, 0, horizonDays))
}

func (s *milestoneService) MarkComplete(ctx context.Context, studentID, id uuid.UUID) (bool, error) {
	return s.milestoneRepo.MarkCompleted(ctx, nil, studentID, id, time.Now())
}

func (s *milestoneService) ClearFor(ctx context.Context, studentID, assignmentID uuid.UUID) error {
	return s.milestoneRepo.DeleteByStudentAndAssignment(ctx, nil, studentID, assignmentID)
}

func (s *milestoneService) Progress(ctx context.Context, studentID, assignmentID uuid.UUID) (*PlanProgress, error) {
	rows, err := s.milestoneRepo.GetByStudentAndAssignment(ctx, nil, studentID, assignmentID)
	if err != nil {
		return nil, err
	}
	p := &PlanProgress{Total: len(rows)}
	for _, row := range rows {
		if row.Completed {
			p.Completed++
		}
	}
	if p.Total > 0 {
		p.Percent = float64(p.Completed) / float64(p.Total) * 100
	}
	return p, nil
}
