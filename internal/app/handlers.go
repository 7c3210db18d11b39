package app

import (
	"github.com/calculoss/career-pathway-explorer-sub000/internal/handlers"
	"github.com/calculoss/career-pathway-explorer-sub000/internal/logger"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	Student    *handlers.StudentHandler
	Assignment *handlers.AssignmentHandler
	LMS        *handlers.LMSHandler
	Milestone  *handlers.MilestoneHandler
	Career     *handlers.CareerHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:       handlers.NewAuthHandler(serviceset.Auth),
		Student:    handlers.NewStudentHandler(serviceset.Student),
		Assignment: handlers.NewAssignmentHandler(serviceset.Assignment),
		LMS:        handlers.NewLMSHandler(serviceset.LMSSync),
		Milestone:  handlers.NewMilestoneHandler(serviceset.Student, serviceset.Milestone, serviceset.Planner),
		Career:     handlers.NewCareerHandler(serviceset.CareerChat, serviceset.LabourMarket),
	}
}
