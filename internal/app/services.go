package app

import (
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/calculoss/career-pathway-explorer-sub000/internal/logger"
	"github.com/calculoss/career-pathway-explorer-sub000/internal/services"
)

type Services struct {
	Auth         services.AuthService
	Student      services.StudentService
	Assignment   services.AssignmentService
	LMSSync      services.LMSSyncService
	Milestone    services.MilestoneService
	Planner      services.PlannerService
	LabourMarket services.LabourMarketService
	CareerChat   services.CareerChatService
	AI           services.AIClient
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, rdb *goredis.Client) (Services, error) {
	log.Info("Wiring services...")

	ai, err := services.NewOpenAIClient(log)
	if err != nil {
		return Services{}, fmt.Errorf("init AI client: %w", err)
	}

	auth := services.NewAuthService(db, log, reposet.Household, cfg.JWTSecretKey, cfg.AccessTokenTTL)
	student := services.NewStudentService(db, log, reposet.Student)
	assignment := services.NewAssignmentService(db, log, student, reposet.Assignment)
	lmsSync := services.NewLMSSyncService(db, log, student, reposet.LMSAccount, reposet.Course, reposet.Assignment)
	milestone := services.NewMilestoneService(db, log, reposet.Milestone, reposet.Assignment)
	planner := services.NewPlannerService(db, log, reposet.Student, reposet.Assignment, reposet.GenerationLog, milestone, ai)

	labourMarket, err := services.NewLabourMarketService(db, log, reposet.CareerField, rdb, cfg.LabourAPIURL)
	if err != nil {
		return Services{}, fmt.Errorf("init labour market service: %w", err)
	}
	careerChat := services.NewCareerChatService(db, log, student, reposet.CareerMessage, labourMarket, ai)

	return Services{
		Auth:         auth,
		Student:      student,
		Assignment:   assignment,
		LMSSync:      lmsSync,
		Milestone:    milestone,
		Planner:      planner,
		LabourMarket: labourMarket,
		CareerChat:   careerChat,
		AI:           ai,
	}, nil
}
