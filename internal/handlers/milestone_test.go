package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/calculoss/career-pathway-explorer-sub000/internal/requestdata"
	"github.com/calculoss/career-pathway-explorer-sub000/internal/services"
	"github.com/calculoss/career-pathway-explorer-sub000/internal/types"
)

type stubStudents struct {
	householdID uuid.UUID
	studentID   uuid.UUID
}

func (s *stubStudents) Create(ctx context.Context, householdID uuid.UUID, input services.StudentInput) (*types.Student, error) {
	return nil, fmt.Errorf("not implemented")
}

func (s *stubStudents) ListForHousehold(ctx context.Context, householdID uuid.UUID) ([]*types.Student, error) {
	return nil, fmt.Errorf("not implemented")
}

func (s *stubStudents) GetOwned(ctx context.Context, householdID, studentID uuid.UUID) (*types.Student, error) {
	if householdID != s.householdID || studentID != s.studentID {
		return nil, fmt.Errorf("student not found")
	}
	return &types.Student{ID: studentID, HouseholdID: householdID, Name: "Ada"}, nil
}

func (s *stubStudents) Update(ctx context.Context, householdID, studentID uuid.UUID, input services.StudentInput) (*types.Student, error) {
	return nil, fmt.Errorf("not implemented")
}

func (s *stubStudents) Delete(ctx context.Context, householdID, studentID uuid.UUID) error {
	return fmt.Errorf("not implemented")
}

type stubMilestones struct {
	rows       []*types.Milestone
	appendErr  error
	marked     []uuid.UUID
	markResult bool
}

func (s *stubMilestones) ReplaceAll(ctx context.Context, studentID, assignmentID uuid.UUID, rows []*types.Milestone) error {
	return nil
}

func (s *stubMilestones) AppendOne(ctx context.Context, studentID, assignmentID uuid.UUID, row *types.Milestone) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.rows = append(s.rows, row)
	return nil
}

func (s *stubMilestones) ListForAssignment(ctx context.Context, studentID, assignmentID uuid.UUID) ([]*types.Milestone, error) {
	return s.rows, nil
}

func (s *stubMilestones) ListUpcoming(ctx context.Context, studentID uuid.UUID, horizonDays int) ([]*types.Milestone, error) {
	return s.rows, nil
}

func (s *stubMilestones) MarkComplete(ctx context.Context, studentID, id uuid.UUID) (bool, error) {
	s.marked = append(s.marked, id)
	return s.markResult, nil
}

func (s *stubMilestones) ClearFor(ctx context.Context, studentID, assignmentID uuid.UUID) error {
	s.rows = nil
	return nil
}

func (s *stubMilestones) Progress(ctx context.Context, studentID, assignmentID uuid.UUID) (*services.PlanProgress, error) {
	return &services.PlanProgress{Total: 4, Completed: 1, Percent: 25}, nil
}

type stubPlanner struct {
	plan []*types.Milestone
	err  error
}

func (s *stubPlanner) GeneratePlan(ctx context.Context, studentID, assignmentID uuid.UUID) ([]*types.Milestone, error) {
	return s.plan, s.err
}

type milestoneHandlerFixture struct {
	router       *gin.Engine
	milestones   *stubMilestones
	householdID  uuid.UUID
	studentID    uuid.UUID
	assignmentID uuid.UUID
}

func newMilestoneHandlerFixture(t *testing.T, planner *stubPlanner) *milestoneHandlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	householdID := uuid.New()
	studentID := uuid.New()
	milestones := &stubMilestones{markResult: true}
	h := NewMilestoneHandler(&stubStudents{householdID: householdID, studentID: studentID}, milestones, planner)

	router := gin.New()
	authed := router.Group("/api", func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		ctx := requestdata.WithRequestData(c.Request.Context(), &requestdata.RequestData{HouseholdID: householdID})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})
	authed.POST("/students/:id/assignments/:assignmentID/plan", h.GeneratePlan)
	authed.GET("/students/:id/assignments/:assignmentID/plan", h.ListPlan)
	authed.DELETE("/students/:id/assignments/:assignmentID/plan", h.ClearPlan)
	authed.GET("/students/:id/assignments/:assignmentID/plan/progress", h.Progress)
	authed.POST("/students/:id/assignments/:assignmentID/plan/milestones", h.AppendMilestone)
	authed.POST("/students/:id/milestones/:milestoneID/complete", h.MarkComplete)
	authed.GET("/students/:id/milestones/upcoming", h.ListUpcoming)

	return &milestoneHandlerFixture{
		router:       router,
		milestones:   milestones,
		householdID:  householdID,
		studentID:    studentID,
		assignmentID: uuid.New(),
	}
}

func (f *milestoneHandlerFixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer test")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestGeneratePlanEndpoint(t *testing.T) {
	planner := &stubPlanner{plan: []*types.Milestone{
		{ID: uuid.New(), Title: "Research", TargetDate: time.Now().AddDate(0, 0, 3)},
		{ID: uuid.New(), Title: "Draft", TargetDate: time.Now().AddDate(0, 0, 6)},
	}}
	f := newMilestoneHandlerFixture(t, planner)

	path := fmt.Sprintf("/api/students/%s/assignments/%s/plan", f.studentID, f.assignmentID)
	w := f.do(t, http.MethodPost, path, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Milestones []*types.Milestone `json:"milestones"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Milestones) != 2 {
		t.Fatalf("got %d milestones, want 2", len(resp.Milestones))
	}
}

func TestGeneratePlanEndpointRejectsUnauthenticated(t *testing.T) {
	f := newMilestoneHandlerFixture(t, &stubPlanner{})

	path := fmt.Sprintf("/api/students/%s/assignments/%s/plan", f.studentID, f.assignmentID)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(""))
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestGeneratePlanEndpointRejectsForeignStudent(t *testing.T) {
	f := newMilestoneHandlerFixture(t, &stubPlanner{})

	path := fmt.Sprintf("/api/students/%s/assignments/%s/plan", uuid.New(), f.assignmentID)
	w := f.do(t, http.MethodPost, path, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestGeneratePlanEndpointRejectsBadIDs(t *testing.T) {
	f := newMilestoneHandlerFixture(t, &stubPlanner{})

	w := f.do(t, http.MethodPost, "/api/students/not-a-uuid/assignments/"+f.assignmentID.String()+"/plan", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("student id: status = %d, want 400", w.Code)
	}
	w = f.do(t, http.MethodPost, "/api/students/"+f.studentID.String()+"/assignments/not-a-uuid/plan", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("assignment id: status = %d, want 400", w.Code)
	}
}

func TestAppendMilestoneEndpoint(t *testing.T) {
	f := newMilestoneHandlerFixture(t, &stubPlanner{})

	path := fmt.Sprintf("/api/students/%s/assignments/%s/plan/milestones", f.studentID, f.assignmentID)
	body := `{"title": "Extra reading", "description": "One more chapter", "target_date": "2026-09-05"}`
	w := f.do(t, http.MethodPost, path, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if len(f.milestones.rows) != 1 {
		t.Fatalf("stored %d rows, want 1", len(f.milestones.rows))
	}
	stored := f.milestones.rows[0]
	if stored.TargetDate.IsZero() {
		t.Fatal("target date not parsed")
	}
	if !stored.TargetDate.Equal(time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("target date = %v", stored.TargetDate)
	}
}

func TestAppendMilestoneEndpointSurfacesValidationDetails(t *testing.T) {
	f := newMilestoneHandlerFixture(t, &stubPlanner{})
	f.milestones.appendErr = &services.ValidationError{Messages: []string{"milestone 1 is missing a title"}}

	path := fmt.Sprintf("/api/students/%s/assignments/%s/plan/milestones", f.studentID, f.assignmentID)
	w := f.do(t, http.MethodPost, path, `{"description": "no title"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var envelope ErrorEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(envelope.Error.Details) != 1 {
		t.Fatalf("details = %v, want the validation messages", envelope.Error.Details)
	}
}

func TestMarkCompleteEndpoint(t *testing.T) {
	f := newMilestoneHandlerFixture(t, &stubPlanner{})
	milestoneID := uuid.New()

	path := fmt.Sprintf("/api/students/%s/milestones/%s/complete", f.studentID, milestoneID)
	w := f.do(t, http.MethodPost, path, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if len(f.milestones.marked) != 1 || f.milestones.marked[0] != milestoneID {
		t.Fatalf("marked = %v", f.milestones.marked)
	}

	var resp struct {
		Completed bool `json:"completed"`
		Changed   bool `json:"changed"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Completed || !resp.Changed {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestProgressEndpoint(t *testing.T) {
	f := newMilestoneHandlerFixture(t, &stubPlanner{})

	path := fmt.Sprintf("/api/students/%s/assignments/%s/plan/progress", f.studentID, f.assignmentID)
	w := f.do(t, http.MethodGet, path, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Progress services.PlanProgress `json:"progress"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Progress.Total != 4 || resp.Progress.Percent != 25 {
		t.Fatalf("progress = %+v", resp.Progress)
	}
}
