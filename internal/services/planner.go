package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calculoss/career-pathway-explorer-sub000/internal/logger"
	"github.com/calculoss/career-pathway-explorer-sub000/internal/repos"
	"github.com/calculoss/career-pathway-explorer-sub000/internal/types"
)

// PlannerService produces and persists a study-milestone plan for one
// assignment. Generation failures are absorbed: the caller always gets a
// plan, worst case the rule-based one.
type PlannerService interface {
	GeneratePlan(ctx context.Context, studentID, assignmentID uuid.UUID) ([]*types.Milestone, error)
}

type plannerService struct {
	db             *gorm.DB
	log            *logger.Logger
	studentRepo    repos.StudentRepo
	assignmentRepo repos.AssignmentRepo
	genLogRepo     repos.GenerationLogRepo
	milestones     MilestoneService
	ai             AIClient
}

func NewPlannerService(
	db *gorm.DB,
	baseLog *logger.Logger,
	studentRepo repos.StudentRepo,
	assignmentRepo repos.AssignmentRepo,
	genLogRepo repos.GenerationLogRepo,
	milestones MilestoneService,
	ai AIClient,
) PlannerService {
	return &plannerService{
		db:             db,
		log:            baseLog.With("service", "PlannerService"),
		studentRepo:    studentRepo,
		assignmentRepo: assignmentRepo,
		genLogRepo:     genLogRepo,
		milestones:     milestones,
		ai:             ai,
	}
}

const (
	generatedClampGrace = 24 * time.Hour
	maxPlanEntries      = 6
	workloadWindowDays  = 7
	maxWorkloadItems    = 3
)

func (s *plannerService) GeneratePlan(ctx context.Context, studentID, assignmentID uuid.UUID) ([]*types.Milestone, error) {
	now := time.Now()

	assignments, err := s.assignmentRepo.GetByIDs(ctx, nil, []uuid.UUID{assignmentID})
	if err != nil {
		return nil, fmt.Errorf("load assignment: %w", err)
	}
	if len(assignments) == 0 || assignments[0] == nil {
		return nil, fmt.Errorf("assignment not found")
	}
	assignment := assignments[0]
	if assignment.StudentID != studentID {
		return nil, fmt.Errorf("assignment does not belong to student")
	}

	students, err := s.studentRepo.GetByIDs(ctx, nil, []uuid.UUID{studentID})
	if err != nil {
		return nil, fmt.Errorf("load student: %w", err)
	}
	if len(students) == 0 || students[0] == nil {
		return nil, fmt.Errorf("student not found")
	}
	student := students[0]

	planned, genErr := s.generate(ctx, student, assignment, now)
	if genErr != nil {
		s.log.Warn("Generation failed, using rule-based plan",
			"assignment_id", assignmentID, "error", genErr)
		planned = PlanWithRules(assignment, now)
	}

	rows := make([]*types.Milestone, 0, len(planned))
	for i, p := range planned {
		rows = append(rows, &types.Milestone{
			Title:          p.Title,
			Description:    p.Description,
			Phase:          p.Phase,
			TargetDate:     p.TargetDate,
			EstimatedHours: p.EstimatedHours,
			Position:       i,
		})
	}
	if err := s.milestones.ReplaceAll(ctx, studentID, assignmentID, rows); err != nil {
		return nil, err
	}

	logRow := &types.GenerationLog{
		ID:           uuid.New(),
		StudentID:    studentID,
		AssignmentID: assignmentID,
		Success:      genErr == nil,
		Model:        s.ai.Model(),
	}
	if genErr != nil {
		logRow.Error = genErr.Error()
	} else {
		logRow.MilestoneCount = len(planned)
	}
	if _, lErr := s.genLogRepo.Create(ctx, nil, []*types.GenerationLog{logRow}); lErr != nil {
		// the audit trail is observability only, a failed insert must not
		// fail the plan
		s.log.Warn("Failed to write generation log", "error", lErr)
	}

	return s.milestones.ListForAssignment(ctx, studentID, assignmentID)
}

func (s *plannerService) generate(ctx context.Context, student *types.Student, assignment *types.Assignment, now time.Time) ([]PlannedMilestone, error) {
	due := NormalizeDueDate(assignment.DueAt, now)

	workload, err := s.concurrentWorkload(ctx, student.ID, assignment.ID, due)
	if err != nil {
		s.log.Warn("Could not load concurrent workload, prompting without it", "error", err)
		workload = nil
	}

	system, user := buildPlanPrompt(student, assignment, due, now, workload)
	reply, err := s.ai.GenerateText(ctx, system, user)
	if err != nil {
		return nil, fmt.Errorf("generation call: %w", err)
	}

	entries, err := parsePlanReply(reply)
	if err != nil {
		return nil, err
	}
	return entriesToPlan(entries, due, now), nil
}

func (s *plannerService) concurrentWorkload(ctx context.Context, studentID, excludeID uuid.UUID, due time.Time) ([]*types.Assignment, error) {
	from := due.AddDate(0, 0, -workloadWindowDays)
	to := due.AddDate(0, 0, workloadWindowDays)
	all, err := s.assignmentRepo.GetDueWithin(ctx, nil, studentID, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]*types.Assignment, 0, maxWorkloadItems)
	for _, a := range all {
		if a.ID == excludeID {
			continue
		}
		out = append(out, a)
		if len(out) == maxWorkloadItems {
			break
		}
	}
	return out, nil
}

func buildPlanPrompt(student *types.Student, assignment *types.Assignment, due, now time.Time, workload []*types.Assignment) (string, string) {
	system := "You are a study planner for school students. " +
		"Reply with a JSON array only. Each element must have the fields " +
		`"title", "description", "phase", "days_before_due" (number) and "estimated_hours" (number). ` +
		"Produce between 4 and 6 milestones ordered from earliest to latest."

	var b strings.Builder
	kind := "take-home assignment"
	if assignment.IsQuiz {
		kind = "timed assessment (exam or quiz)"
	}
	fmt.Fprintf(&b, "Assignment: %s\n", assignment.Name)
	if assignment.CourseName != "" {
		fmt.Fprintf(&b, "Course: %s\n", assignment.CourseName)
	}
	fmt.Fprintf(&b, "Type: %s\n", kind)
	fmt.Fprintf(&b, "Due: %s (%d days from now)\n", due.Format("Mon 2 Jan 2006"), DaysAvailable(due, now))
	if assignment.Points > 0 {
		fmt.Fprintf(&b, "Worth: %.0f points\n", assignment.Points)
	}
	if desc := strings.TrimSpace(assignment.Description); desc != "" {
		if len(desc) > 500 {
			desc = desc[:500]
		}
		fmt.Fprintf(&b, "Description: %s\n", desc)
	}
	fmt.Fprintf(&b, "Student: %s, year %d\n", student.Name, student.YearLevel)
	if goals := strings.TrimSpace(student.Goals); goals != "" {
		fmt.Fprintf(&b, "Student goals: %s\n", goals)
	}
	if len(workload) > 0 {
		b.WriteString("Other work due around the same time:\n")
		for _, a := range workload {
			fmt.Fprintf(&b, "- %s (%s), due %s\n", a.Name, a.CourseName, a.DueAt.Format("Mon 2 Jan"))
		}
	}
	b.WriteString("Plan the study milestones for this assignment.")
	return system, b.String()
}

type aiPlanEntry struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Phase          string   `json:"phase"`
	DaysBeforeDue  *float64 `json:"days_before_due"`
	EstimatedHours *float64 `json:"estimated_hours"`
}

// parsePlanReply is the strict-then-lenient two-stage parse. Stage one pulls
// the outermost JSON array out of the reply; stage two segments the text on
// phase-flavoured keywords. Both failing is an error the caller resolves by
// falling back to the rule-based planner.
func parsePlanReply(reply string) ([]aiPlanEntry, error) {
	if entries := parseStrictJSON(reply); len(entries) > 0 {
		return entries, nil
	}
	if entries := parseKeywordLines(reply); len(entries) > 0 {
		return entries, nil
	}
	return nil, fmt.Errorf("reply contained no parseable milestone list")
}

func parseStrictJSON(reply string) []aiPlanEntry {
	start := strings.Index(reply, "[")
	end := strings.LastIndex(reply, "]")
	if start < 0 || end <= start {
		return nil
	}
	var raw []aiPlanEntry
	if err := json.Unmarshal([]byte(reply[start:end+1]), &raw); err != nil {
		return nil
	}
	out := make([]aiPlanEntry, 0, len(raw))
	for _, e := range raw {
		if strings.TrimSpace(e.Title) == "" {
			continue
		}
		out = append(out, e)
		if len(out) == maxPlanEntries {
			break
		}
	}
	return out
}

var planKeywords = []string{"phase", "step", "stage", "milestone"}

func parseKeywordLines(reply string) []aiPlanEntry {
	var out []aiPlanEntry
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		matched := false
		for _, kw := range planKeywords {
			if strings.Contains(lower, kw) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		title := strings.Trim(line, "-*#1234567890.): \t")
		if title == "" {
			continue
		}
		entry := aiPlanEntry{Title: title}
		if idx := strings.Index(title, ":"); idx > 0 && idx < len(title)-1 {
			entry.Title = strings.TrimSpace(title[:idx])
			entry.Description = strings.TrimSpace(title[idx+1:])
		}
		out = append(out, entry)
		if len(out) == maxPlanEntries {
			break
		}
	}
	return out
}

func entriesToPlan(entries []aiPlanEntry, due, now time.Time) []PlannedMilestone {
	out := make([]PlannedMilestone, 0, len(entries))
	for _, e := range entries {
		days := 1.0
		if e.DaysBeforeDue != nil && *e.DaysBeforeDue > 0 {
			days = *e.DaysBeforeDue
		}
		hours := 2.0
		if e.EstimatedHours != nil && *e.EstimatedHours > 0 {
			hours = *e.EstimatedHours
		}
		target := due.Add(-time.Duration(days * 24 * float64(time.Hour)))
		if !target.After(now) {
			target = now.Add(generatedClampGrace)
		}
		out = append(out, PlannedMilestone{
			Title:          e.Title,
			Description:    e.Description,
			Phase:          e.Phase,
			TargetDate:     target,
			EstimatedHours: hours,
		})
	}
	// keep the emitted set in schedule order whatever order the model chose
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TargetDate.Before(out[j].TargetDate)
	})
	return out
}
