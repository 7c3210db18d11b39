package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calculoss/career-pathway-explorer-sub000/internal/repos"
	"github.com/calculoss/career-pathway-explorer-sub000/internal/types"
)

type milestoneFixture struct {
	svc          MilestoneService
	db           *gorm.DB
	studentID    uuid.UUID
	assignmentID uuid.UUID
}

func newMilestoneFixture(t *testing.T) *milestoneFixture {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger(t)

	householdID := uuid.New()
	studentID := uuid.New()
	courseID := uuid.New()
	assignmentID := uuid.New()
	due := time.Now().AddDate(0, 0, 10)

	seed := []any{
		&types.Household{ID: householdID, Email: "parent@example.com", PasswordHash: "x", FamilyName: "Nguyen"},
		&types.Student{ID: studentID, HouseholdID: householdID, Name: "Mai", YearLevel: 10},
		&types.Course{ID: courseID, StudentID: studentID, LMSCourseID: 11, Name: "History"},
		&types.Assignment{
			ID: assignmentID, StudentID: studentID, CourseID: courseID,
			LMSAssignmentID: 101, Name: "History essay", CourseName: "History", DueAt: &due,
		},
	}
	for _, row := range seed {
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	svc := NewMilestoneService(db, log, repos.NewMilestoneRepo(db, log), repos.NewAssignmentRepo(db, log))
	return &milestoneFixture{svc: svc, db: db, studentID: studentID, assignmentID: assignmentID}
}

func planRows(n int, base time.Time) []*types.Milestone {
	rows := make([]*types.Milestone, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, &types.Milestone{
			Title:       "Task " + string(rune('A'+i)),
			Description: "Do the work",
			Phase:       "work",
			TargetDate:  base.AddDate(0, 0, i),
		})
	}
	return rows
}

func TestReplaceAllSwapsPlanAtomically(t *testing.T) {
	ctx := context.Background()
	f := newMilestoneFixture(t)
	base := time.Now().AddDate(0, 0, 2)

	if err := f.svc.ReplaceAll(ctx, f.studentID, f.assignmentID, planRows(3, base)); err != nil {
		t.Fatalf("first replace: %v", err)
	}
	first, err := f.svc.ListForAssignment(ctx, f.studentID, f.assignmentID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(first) != 3 {
		t.Fatalf("got %d milestones, want 3", len(first))
	}

	if err := f.svc.ReplaceAll(ctx, f.studentID, f.assignmentID, planRows(4, base)); err != nil {
		t.Fatalf("second replace: %v", err)
	}
	second, err := f.svc.ListForAssignment(ctx, f.studentID, f.assignmentID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(second) != 4 {
		t.Fatalf("got %d milestones after replace, want 4", len(second))
	}
	for _, m := range second {
		for _, old := range first {
			if m.ID == old.ID {
				t.Fatalf("old milestone %s survived the replace", old.ID)
			}
		}
	}
}

func TestReplaceAllRejectsInvalidInputWithoutTouchingStore(t *testing.T) {
	ctx := context.Background()
	f := newMilestoneFixture(t)
	base := time.Now().AddDate(0, 0, 2)

	if err := f.svc.ReplaceAll(ctx, f.studentID, f.assignmentID, planRows(3, base)); err != nil {
		t.Fatalf("seed plan: %v", err)
	}

	tests := []struct {
		name string
		rows []*types.Milestone
	}{
		{"empty list", nil},
		{"missing title", []*types.Milestone{{Description: "d", TargetDate: base}}},
		{"missing description", []*types.Milestone{{Title: "t", TargetDate: base}}},
		{"missing target date", []*types.Milestone{{Title: "t", Description: "d"}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := f.svc.ReplaceAll(ctx, f.studentID, f.assignmentID, tc.rows)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("got %v, want ValidationError", err)
			}
			kept, lErr := f.svc.ListForAssignment(ctx, f.studentID, f.assignmentID)
			if lErr != nil {
				t.Fatalf("list: %v", lErr)
			}
			if len(kept) != 3 {
				t.Fatalf("rejected write altered the store: %d rows, want 3", len(kept))
			}
		})
	}
}

func TestReplaceAllRejectsUnknownAssignment(t *testing.T) {
	ctx := context.Background()
	f := newMilestoneFixture(t)
	base := time.Now().AddDate(0, 0, 2)

	err := f.svc.ReplaceAll(ctx, f.studentID, uuid.New(), planRows(2, base))
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("got %v, want ValidationError", err)
	}
}

func TestReplaceAllTruncatesLongFields(t *testing.T) {
	ctx := context.Background()
	f := newMilestoneFixture(t)

	row := &types.Milestone{
		Title:       strings.Repeat("t", types.MilestoneTitleMaxLen+50),
		Description: strings.Repeat("d", types.MilestoneDescriptionMaxLen+50),
		TargetDate:  time.Now().AddDate(0, 0, 2),
	}
	if err := f.svc.ReplaceAll(ctx, f.studentID, f.assignmentID, []*types.Milestone{row}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	got, err := f.svc.ListForAssignment(ctx, f.studentID, f.assignmentID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d rows, want 1", len(got))
	}
	if len(got[0].Title) != types.MilestoneTitleMaxLen {
		t.Errorf("title length %d, want %d", len(got[0].Title), types.MilestoneTitleMaxLen)
	}
	if len(got[0].Description) != types.MilestoneDescriptionMaxLen {
		t.Errorf("description length %d, want %d", len(got[0].Description), types.MilestoneDescriptionMaxLen)
	}
}

func TestListForAssignmentOrdersByTargetDateThenPosition(t *testing.T) {
	ctx := context.Background()
	f := newMilestoneFixture(t)
	base := time.Now().AddDate(0, 0, 2)

	rows := []*types.Milestone{
		{Title: "Later", Description: "d", TargetDate: base.AddDate(0, 0, 5)},
		{Title: "Earlier", Description: "d", TargetDate: base},
		{Title: "Middle", Description: "d", TargetDate: base.AddDate(0, 0, 2)},
	}
	if err := f.svc.ReplaceAll(ctx, f.studentID, f.assignmentID, rows); err != nil {
		t.Fatalf("replace: %v", err)
	}
	got, err := f.svc.ListForAssignment(ctx, f.studentID, f.assignmentID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"Earlier", "Middle", "Later"}
	for i, m := range got {
		if m.Title != want[i] {
			t.Errorf("position %d = %q, want %q", i, m.Title, want[i])
		}
	}
}

func TestMarkCompleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newMilestoneFixture(t)
	base := time.Now().AddDate(0, 0, 2)

	if err := f.svc.ReplaceAll(ctx, f.studentID, f.assignmentID, planRows(2, base)); err != nil {
		t.Fatalf("replace: %v", err)
	}
	rows, err := f.svc.ListForAssignment(ctx, f.studentID, f.assignmentID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	target := rows[0].ID

	changed, err := f.svc.MarkComplete(ctx, f.studentID, target)
	if err != nil {
		t.Fatalf("first complete: %v", err)
	}
	if !changed {
		t.Fatal("first complete reported no change")
	}
	afterFirst, err := f.svc.ListForAssignment(ctx, f.studentID, f.assignmentID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var firstAt *time.Time
	for _, m := range afterFirst {
		if m.ID == target {
			if !m.Completed || m.CompletedAt == nil {
				t.Fatal("milestone not recorded as completed")
			}
			firstAt = m.CompletedAt
		}
	}

	changed, err = f.svc.MarkComplete(ctx, f.studentID, target)
	if err != nil {
		t.Fatalf("second complete: %v", err)
	}
	if changed {
		t.Fatal("second complete reported a change")
	}
	afterSecond, err := f.svc.ListForAssignment(ctx, f.studentID, f.assignmentID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, m := range afterSecond {
		if m.ID == target && !m.CompletedAt.Equal(*firstAt) {
			t.Fatalf("completed_at moved from %v to %v", firstAt, m.CompletedAt)
		}
	}
}

func TestMarkCompleteRejectsForeignStudent(t *testing.T) {
	ctx := context.Background()
	f := newMilestoneFixture(t)
	base := time.Now().AddDate(0, 0, 2)

	if err := f.svc.ReplaceAll(ctx, f.studentID, f.assignmentID, planRows(1, base)); err != nil {
		t.Fatalf("replace: %v", err)
	}
	rows, err := f.svc.ListForAssignment(ctx, f.studentID, f.assignmentID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	changed, err := f.svc.MarkComplete(ctx, uuid.New(), rows[0].ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if changed {
		t.Fatal("another student's id completed the milestone")
	}
}

func TestListUpcomingHonoursHorizon(t *testing.T) {
	ctx := context.Background()
	f := newMilestoneFixture(t)
	now := time.Now()

	rows := []*types.Milestone{
		{Title: "Tomorrow", Description: "d", TargetDate: now.AddDate(0, 0, 1)},
		{Title: "Next week", Description: "d", TargetDate: now.AddDate(0, 0, 6)},
		{Title: "Far out", Description: "d", TargetDate: now.AddDate(0, 0, 20)},
	}
	if err := f.svc.ReplaceAll(ctx, f.studentID, f.assignmentID, rows); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err := f.svc.ListUpcoming(ctx, f.studentID, 7)
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d upcoming milestones, want 2", len(got))
	}
	if got[0].Title != "Tomorrow" || got[1].Title != "Next week" {
		t.Fatalf("unexpected order: %q, %q", got[0].Title, got[1].Title)
	}
}

func TestProgress(t *testing.T) {
	ctx := context.Background()
	f := newMilestoneFixture(t)
	base := time.Now().AddDate(0, 0, 2)

	if err := f.svc.ReplaceAll(ctx, f.studentID, f.assignmentID, planRows(4, base)); err != nil {
		t.Fatalf("replace: %v", err)
	}
	rows, err := f.svc.ListForAssignment(ctx, f.studentID, f.assignmentID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if _, err := f.svc.MarkComplete(ctx, f.studentID, rows[0].ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	p, err := f.svc.Progress(ctx, f.studentID, f.assignmentID)
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if p.Total != 4 || p.Completed != 1 {
		t.Fatalf("progress = %d/%d, want 1/4", p.Completed, p.Total)
	}
	if p.Percent != 25 {
		t.Fatalf("percent = %v, want 25", p.Percent)
	}
}

func TestClearFor(t *testing.T) {
	ctx := context.Background()
	f := newMilestoneFixture(t)
	base := time.Now().AddDate(0, 0, 2)

	if err := f.svc.ReplaceAll(ctx, f.studentID, f.assignmentID, planRows(3, base)); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := f.svc.ClearFor(ctx, f.studentID, f.assignmentID); err != nil {
		t.Fatalf("clear: %v", err)
	}
	rows, err := f.svc.ListForAssignment(ctx, f.studentID, f.assignmentID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("got %d rows after clear, want 0", len(rows))
	}
}
