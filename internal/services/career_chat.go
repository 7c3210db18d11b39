package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calculoss/career-pathway-explorer-sub000/internal/logger"
	"github.com/calculoss/career-pathway-explorer-sub000/internal/repos"
	"github.com/calculoss/career-pathway-explorer-sub000/internal/types"
)

const (
	chatHistoryTurns  = 10
	chatMaxFieldFacts = 3
	chatFallbackReply = "Sorry, I couldn't think of an answer just now. Please try asking again in a moment."
)

type CareerChatService interface {
	Send(ctx context.Context, householdID, studentID uuid.UUID, message string) (*types.CareerMessage, error)
	History(ctx context.Context, householdID, studentID uuid.UUID, limit int) ([]*types.CareerMessage, error)
}

type careerChatService struct {
	db           *gorm.DB
	log          *logger.Logger
	students     StudentService
	messageRepo  repos.CareerMessageRepo
	labourMarket LabourMarketService
	ai           AIClient
}

func NewCareerChatService(
	db *gorm.DB,
	baseLog *logger.Logger,
	students StudentService,
	messageRepo repos.CareerMessageRepo,
	labourMarket LabourMarketService,
	ai AIClient,
) CareerChatService {
	return &careerChatService{
		db:           db,
		log:          baseLog.With("service", "CareerChatService"),
		students:     students,
		messageRepo:  messageRepo,
		labourMarket: labourMarket,
		ai:           ai,
	}
}

func (s *careerChatService) Send(ctx context.Context, householdID, studentID uuid.UUID, message string) (*types.CareerMessage, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("message is empty")
	}
	student, err := s.students.GetOwned(ctx, householdID, studentID)
	if err != nil {
		return nil, err
	}

	history, err := s.messageRepo.GetRecentByStudent(ctx, nil, studentID, chatHistoryTurns)
	if err != nil {
		return nil, fmt.Errorf("load chat history: %w", err)
	}

	userMsg := &types.CareerMessage{
		ID:        uuid.New(),
		StudentID: studentID,
		Role:      types.CareerMessageRoleUser,
		Content:   message,
	}
	if _, err := s.messageRepo.Create(ctx, nil, []*types.CareerMessage{userMsg}); err != nil {
		return nil, fmt.Errorf("store message: %w", err)
	}

	system := s.buildSystemPrompt(ctx, student)
	user := buildChatTranscript(history, message)

	reply, aiErr := s.ai.GenerateText(ctx, system, user)
	if aiErr != nil || strings.TrimSpace(reply) == "" {
		// the chat always answers, same contract as the planner
		s.log.Warn("Career chat generation failed", "student_id", studentID, "error", aiErr)
		reply = chatFallbackReply
	}

	assistantMsg := &types.CareerMessage{
		ID:        uuid.New(),
		StudentID: studentID,
		Role:      types.CareerMessageRoleAssistant,
		Content:   reply,
	}
	if _, err := s.messageRepo.Create(ctx, nil, []*types.CareerMessage{assistantMsg}); err != nil {
		return nil, fmt.Errorf("store reply: %w", err)
	}
	return assistantMsg, nil
}

func (s *careerChatService) History(ctx context.Context, householdID, studentID uuid.UUID, limit int) ([]*types.CareerMessage, error) {
	if _, err := s.students.GetOwned(ctx, householdID, studentID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.messageRepo.GetRecentByStudent(ctx, nil, studentID, limit)
}

func (s *careerChatService) buildSystemPrompt(ctx context.Context, student *types.Student) string {
	var b strings.Builder
	b.WriteString("You are a friendly career counsellor talking with a school student and their family. ")
	b.WriteString("Give practical, encouraging guidance about study and career paths. Keep answers short.\n")
	fmt.Fprintf(&b, "Student: %s, year %d.\n", student.Name, student.YearLevel)
	if goals := strings.TrimSpace(student.Goals); goals != "" {
		fmt.Fprintf(&b, "Stated goals: %s\n", goals)
	}
	interests := InterestsOf(student)
	if len(interests) > 0 {
		fmt.Fprintf(&b, "Interests: %s\n", strings.Join(interests, ", "))
	}

	slugs := s.labourMarket.MatchFields(interests)
	if len(slugs) > chatMaxFieldFacts {
		slugs = slugs[:chatMaxFieldFacts]
	}
	for _, slug := range slugs {
		field, err := s.labourMarket.Snapshot(ctx, slug)
		if err != nil || field == nil {
			continue
		}
		fmt.Fprintf(&b, "Labour market, %s: median pay $%.0f/yr, growth %.1f%%, about %d openings/yr, typical entry: %s.\n",
			field.Title, field.MedianPay, field.OutlookGrowth, field.OpeningsPerYear, field.EducationLevel)
	}
	return b.String()
}

func buildChatTranscript(history []*types.CareerMessage, latest string) string {
	var b strings.Builder
	for _, msg := range history {
		role := "Student"
		if msg.Role == types.CareerMessageRoleAssistant {
			role = "Counsellor"
		}
		fmt.Fprintf(&b, "%s: %s\n", role, msg.Content)
	}
	fmt.Fprintf(&b, "Student: %s\n", latest)
	b.WriteString("Counsellor:")
	return b.String()
}
