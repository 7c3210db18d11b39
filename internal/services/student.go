package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/calculoss/career-pathway-explorer-sub000/internal/logger"
	"github.com/calculoss/career-pathway-explorer-sub000/internal/repos"
	"github.com/calculoss/career-pathway-explorer-sub000/internal/types"
)

type StudentInput struct {
	Name      string   `json:"name"`
	YearLevel int      `json:"year_level"`
	Interests []string `json:"interests"`
	Goals     string   `json:"goals"`
}

type StudentService interface {
	Create(ctx context.Context, householdID uuid.UUID, input StudentInput) (*types.Student, error)
	ListForHousehold(ctx context.Context, householdID uuid.UUID) ([]*types.Student, error)
	GetOwned(ctx context.Context, householdID, studentID uuid.UUID) (*types.Student, error)
	Update(ctx context.Context, householdID, studentID uuid.UUID, input StudentInput) (*types.Student, error)
	Delete(ctx context.Context, householdID, studentID uuid.UUID) error
}

type studentService struct {
	db          *gorm.DB
	log         *logger.Logger
	studentRepo repos.StudentRepo
}

func NewStudentService(db *gorm.DB, baseLog *logger.Logger, studentRepo repos.StudentRepo) StudentService {
	return &studentService{
		db:          db,
		log:         baseLog.With("service", "StudentService"),
		studentRepo: studentRepo,
	}
}

func interestsJSON(interests []string) datatypes.JSON {
	if interests == nil {
		interests = []string{}
	}
	raw, _ := json.Marshal(interests)
	return datatypes.JSON(raw)
}

// InterestsOf decodes a student's interests list; a missing or malformed
// column reads as empty.
func InterestsOf(student *types.Student) []string {
	if student == nil || len(student.Interests) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(student.Interests, &out); err != nil {
		return nil
	}
	return out
}

func (s *studentService) Create(ctx context.Context, householdID uuid.UUID, input StudentInput) (*types.Student, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("student name is required")
	}
	if householdID == uuid.Nil {
		return nil, fmt.Errorf("household identifier is required")
	}
	student := &types.Student{
		ID:          uuid.New(),
		HouseholdID: householdID,
		Name:        name,
		YearLevel:   input.YearLevel,
		Interests:   interestsJSON(input.Interests),
		Goals:       strings.TrimSpace(input.Goals),
	}
	if _, err := s.studentRepo.Create(ctx, nil, []*types.Student{student}); err != nil {
		return nil, err
	}
	return student, nil
}

func (s *studentService) ListForHousehold(ctx context.Context, householdID uuid.UUID) ([]*types.Student, error) {
	return s.studentRepo.GetByHouseholdID(ctx, nil, householdID)
}

func (s *studentService) GetOwned(ctx context.Context, householdID, studentID uuid.UUID) (*types.Student, error) {
	students, err := s.studentRepo.GetByIDs(ctx, nil, []uuid.UUID{studentID})
	if err != nil {
		return nil, err
	}
	if len(students) == 0 || students[0] == nil || students[0].HouseholdID != householdID {
		return nil, fmt.Errorf("student not found")
	}
	return students[0], nil
}

func (s *studentService) Update(ctx context.Context, householdID, studentID uuid.UUID, input StudentInput) (*types.Student, error) {
	student, err := s.GetOwned(ctx, householdID, studentID)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		student.Name = name
	}
	if input.YearLevel > 0 {
		student.YearLevel = input.YearLevel
	}
	if input.Interests != nil {
		student.Interests = interestsJSON(input.Interests)
	}
	if goals := strings.TrimSpace(input.Goals); goals != "" {
		student.Goals = goals
	}
	if err := s.studentRepo.Update(ctx, nil, student); err != nil {
		return nil, err
	}
	return student, nil
}

func (s *studentService) Delete(ctx context.Context, householdID, studentID uuid.UUID) error {
	if _, err := s.GetOwned(ctx, householdID, studentID); err != nil {
		return err
	}
	return s.studentRepo.SoftDeleteByIDs(ctx, nil, []uuid.UUID{studentID})
}
