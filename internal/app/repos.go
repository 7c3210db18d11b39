package app

import (
	"gorm.io/gorm"

	"github.com/calculoss/career-pathway-explorer-sub000/internal/logger"
	"github.com/calculoss/career-pathway-explorer-sub000/internal/repos"
)

type Repos struct {
	Household     repos.HouseholdRepo
	Student       repos.StudentRepo
	LMSAccount    repos.LMSAccountRepo
	Course        repos.CourseRepo
	Assignment    repos.AssignmentRepo
	Milestone     repos.MilestoneRepo
	GenerationLog repos.GenerationLogRepo
	CareerMessage repos.CareerMessageRepo
	CareerField   repos.CareerFieldRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Household:     repos.NewHouseholdRepo(db, log),
		Student:       repos.NewStudentRepo(db, log),
		LMSAccount:    repos.NewLMSAccountRepo(db, log),
		Course:        repos.NewCourseRepo(db, log),
		Assignment:    repos.NewAssignmentRepo(db, log),
		Milestone:     repos.NewMilestoneRepo(db, log),
		GenerationLog: repos.NewGenerationLogRepo(db, log),
		CareerMessage: repos.NewCareerMessageRepo(db, log),
		CareerField:   repos.NewCareerFieldRepo(db, log),
	}
}
