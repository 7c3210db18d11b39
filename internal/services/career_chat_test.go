package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calculoss/career-pathway-explorer-sub000/internal/repos"
	"github.com/calculoss/career-pathway-explorer-sub000/internal/types"
)

type chatFixture struct {
	db          *gorm.DB
	ai          *fakeAI
	svc         CareerChatService
	householdID uuid.UUID
	studentID   uuid.UUID
}

func newChatFixture(t *testing.T, ai *fakeAI) *chatFixture {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger(t)

	householdID := uuid.New()
	studentID := uuid.New()
	household := &types.Household{ID: householdID, Email: "family@example.com", PasswordHash: "x", FamilyName: "Larsen"}
	student := &types.Student{
		ID: studentID, HouseholdID: householdID, Name: "Erik", YearLevel: 12,
		Goals:     "study engineering at university",
		Interests: []byte(`["coding", "robotics"]`),
	}
	if err := db.Create(household).Error; err != nil {
		t.Fatalf("seed household: %v", err)
	}
	if err := db.Create(student).Error; err != nil {
		t.Fatalf("seed student: %v", err)
	}

	students := NewStudentService(db, log, repos.NewStudentRepo(db, log))
	labourMarket, err := NewLabourMarketService(db, log, repos.NewCareerFieldRepo(db, log), nil, "")
	if err != nil {
		t.Fatalf("init labour market: %v", err)
	}
	svc := NewCareerChatService(db, log, students, repos.NewCareerMessageRepo(db, log), labourMarket, ai)

	return &chatFixture{db: db, ai: ai, svc: svc, householdID: householdID, studentID: studentID}
}

func TestSendStoresBothTurns(t *testing.T) {
	ctx := context.Background()
	ai := &fakeAI{reply: "Engineering is a great fit for your robotics interest."}
	f := newChatFixture(t, ai)

	reply, err := f.svc.Send(ctx, f.householdID, f.studentID, "What should I study?")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if reply.Role != types.CareerMessageRoleAssistant {
		t.Fatalf("reply role = %q", reply.Role)
	}
	if reply.Content != ai.reply {
		t.Fatalf("reply content = %q", reply.Content)
	}

	history, err := f.svc.History(ctx, f.householdID, f.studentID, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("got %d stored messages, want 2", len(history))
	}
	if history[0].Role != types.CareerMessageRoleUser || history[1].Role != types.CareerMessageRoleAssistant {
		t.Fatalf("history order wrong: %q then %q", history[0].Role, history[1].Role)
	}
}

func TestSendFallsBackWhenGenerationFails(t *testing.T) {
	ctx := context.Background()
	ai := &fakeAI{err: errors.New("upstream down")}
	f := newChatFixture(t, ai)

	reply, err := f.svc.Send(ctx, f.householdID, f.studentID, "Hello?")
	if err != nil {
		t.Fatalf("send should absorb generation failures, got %v", err)
	}
	if reply.Content != chatFallbackReply {
		t.Fatalf("reply = %q, want canned fallback", reply.Content)
	}

	history, err := f.svc.History(ctx, f.householdID, f.studentID, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("got %d stored messages, want both turns kept", len(history))
	}
}

func TestSendRejectsEmptyMessage(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t, &fakeAI{reply: "hi"})

	if _, err := f.svc.Send(ctx, f.householdID, f.studentID, "   "); err == nil {
		t.Fatal("blank message accepted")
	}
}

func TestSendRejectsForeignStudent(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t, &fakeAI{reply: "hi"})

	if _, err := f.svc.Send(ctx, uuid.New(), f.studentID, "hi"); err == nil {
		t.Fatal("foreign household reached another family's chat")
	}
}

func TestBuildSystemPromptIncludesProfileAndLabourFacts(t *testing.T) {
	ctx := context.Background()
	ai := &fakeAI{reply: "ok"}
	f := newChatFixture(t, ai)

	chat, ok := f.svc.(*careerChatService)
	if !ok {
		t.Fatal("unexpected service implementation")
	}
	student, err := chat.students.GetOwned(ctx, f.householdID, f.studentID)
	if err != nil {
		t.Fatalf("load student: %v", err)
	}

	prompt := chat.buildSystemPrompt(ctx, student)
	for _, want := range []string{"Erik", "year 12", "study engineering", "coding", "Labour market"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildChatTranscript(t *testing.T) {
	history := []*types.CareerMessage{
		{Role: types.CareerMessageRoleUser, Content: "What pays well?"},
		{Role: types.CareerMessageRoleAssistant, Content: "Engineering does."},
	}
	got := buildChatTranscript(history, "What about nursing?")

	want := "Student: What pays well?\nCounsellor: Engineering does.\nStudent: What about nursing?\nCounsellor:"
	if got != want {
		t.Fatalf("transcript =\n%q\nwant\n%q", got, want)
	}
}

func TestHistoryClampsLimit(t *testing.T) {
	ctx := context.Background()
	ai := &fakeAI{reply: "ok"}
	f := newChatFixture(t, ai)

	for i := 0; i < 3; i++ {
		if _, err := f.svc.Send(ctx, f.householdID, f.studentID, "turn"); err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
	}

	history, err := f.svc.History(ctx, f.householdID, f.studentID, -5)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 6 {
		t.Fatalf("got %d messages with defaulted limit, want 6", len(history))
	}
}
