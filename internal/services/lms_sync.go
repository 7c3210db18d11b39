package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/calculoss/career-pathway-explorer-sub000/internal/logger"
	"github.com/calculoss/career-pathway-explorer-sub000/internal/repos"
	"github.com/calculoss/career-pathway-explorer-sub000/internal/types"
)

const (
	syncFetchLimit       = 4
	assignmentDescMaxLen = 2000
	lmsRequestTimeout    = 20 * time.Second
)

type SyncResult struct {
	Courses     int       `json:"courses"`
	Assignments int       `json:"assignments"`
	SyncedAt    time.Time `json:"synced_at"`
}

type LMSSyncService interface {
	Connect(ctx context.Context, householdID, studentID uuid.UUID, baseURL, apiToken string) error
	SyncStudent(ctx context.Context, householdID, studentID uuid.UUID) (*SyncResult, error)
}

type lmsSyncService struct {
	db             *gorm.DB
	log            *logger.Logger
	students       StudentService
	accountRepo    repos.LMSAccountRepo
	courseRepo     repos.CourseRepo
	assignmentRepo repos.AssignmentRepo
	httpClient     *http.Client
}

func NewLMSSyncService(
	db *gorm.DB,
	baseLog *logger.Logger,
	students StudentService,
	accountRepo repos.LMSAccountRepo,
	courseRepo repos.CourseRepo,
	assignmentRepo repos.AssignmentRepo,
) LMSSyncService {
	return &lmsSyncService{
		db:             db,
		log:            baseLog.With("service", "LMSSyncService"),
		students:       students,
		accountRepo:    accountRepo,
		courseRepo:     courseRepo,
		assignmentRepo: assignmentRepo,
		httpClient:     &http.Client{Timeout: lmsRequestTimeout},
	}
}

func (s *lmsSyncService) Connect(ctx context.Context, householdID, studentID uuid.UUID, baseURL, apiToken string) error {
	if _, err := s.students.GetOwned(ctx, householdID, studentID); err != nil {
		return err
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" || apiToken == "" {
		return fmt.Errorf("base URL and API token are required")
	}
	if u, err := url.Parse(baseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base URL is not a valid URL")
	}
	return s.accountRepo.Upsert(ctx, nil, &types.LMSAccount{
		ID:        uuid.New(),
		StudentID: studentID,
		BaseURL:   baseURL,
		APIToken:  apiToken,
	})
}

// Canvas-style payloads. Only the fields the sync needs are decoded.
type lmsCourse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	CourseCode string `json:"course_code"`
}

type lmsAssignment struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	DueAt           string   `json:"due_at"`
	PointsPossible  float64  `json:"points_possible"`
	Description     string   `json:"description"`
	SubmissionTypes []string `json:"submission_types"`
}

func (s *lmsSyncService) SyncStudent(ctx context.Context, householdID, studentID uuid.UUID) (*SyncResult, error) {
	if _, err := s.students.GetOwned(ctx, householdID, studentID); err != nil {
		return nil, err
	}
	account, err := s.accountRepo.GetByStudentID(ctx, nil, studentID)
	if err != nil {
		return nil, fmt.Errorf("load LMS account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("no LMS account connected for this student")
	}

	var courses []lmsCourse
	if err := s.fetchJSON(ctx, account, "/api/v1/courses?enrollment_state=active&per_page=50", &courses); err != nil {
		return nil, fmt.Errorf("fetch courses: %w", err)
	}

	type coursePage struct {
		course      lmsCourse
		assignments []lmsAssignment
	}
	var (
		mu    sync.Mutex
		pages []coursePage
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(syncFetchLimit)
	for _, course := range courses {
		g.Go(func() error {
			var assignments []lmsAssignment
			path := fmt.Sprintf("/api/v1/courses/%d/assignments?bucket=upcoming&per_page=50", course.ID)
			if err := s.fetchJSON(gctx, account, path, &assignments); err != nil {
				return fmt.Errorf("fetch assignments for course %d: %w", course.ID, err)
			}
			mu.Lock()
			pages = append(pages, coursePage{course: course, assignments: assignments})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &SyncResult{SyncedAt: time.Now()}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, page := range pages {
			courseRow := &types.Course{
				ID:          uuid.New(),
				StudentID:   studentID,
				LMSCourseID: page.course.ID,
				Name:        page.course.Name,
				Code:        page.course.CourseCode,
			}
			if err := s.courseRepo.Upsert(ctx, tx, courseRow); err != nil {
				return fmt.Errorf("upsert course %d: %w", page.course.ID, err)
			}
			result.Courses++

			for _, a := range page.assignments {
				row := &types.Assignment{
					ID:              uuid.New(),
					StudentID:       studentID,
					CourseID:        courseRow.ID,
					LMSAssignmentID: a.ID,
					Name:            a.Name,
					CourseName:      page.course.Name,
					DueAt:           parseLMSDue(a.DueAt),
					Points:          a.PointsPossible,
					Description:     truncate(stripTags(a.Description), assignmentDescMaxLen),
					IsQuiz:          isQuizSubmission(a.SubmissionTypes),
				}
				if err := s.assignmentRepo.Upsert(ctx, tx, row); err != nil {
					return fmt.Errorf("upsert assignment %d: %w", a.ID, err)
				}
				result.Assignments++
			}
		}
		return s.accountRepo.TouchSyncedAt(ctx, tx, account.ID, result.SyncedAt)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("LMS sync finished",
		"student_id", studentID, "courses", result.Courses, "assignments", result.Assignments)
	return result, nil
}

func (s *lmsSyncService) fetchJSON(ctx context.Context, account *types.LMSAccount, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, account.BaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+account.APIToken)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("lms http %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}
	return json.Unmarshal(raw, out)
}

// parseLMSDue stores unparseable or missing due dates as NULL; the due-date
// normalizer supplies the default horizon at planning time.
func parseLMSDue(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	return &t
}

func isQuizSubmission(submissionTypes []string) bool {
	for _, st := range submissionTypes {
		if st == "online_quiz" {
			return true
		}
	}
	return false
}

// stripTags keeps the sync dependency-free of an HTML parser: assignment
// descriptions only need to read as plain text in prompts.
func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
