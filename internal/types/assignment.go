package types

import (
	"time"

	"github.com/google/uuid"
)

// Assignment rows are owned by the LMS sync service; planners read them only.
type Assignment struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StudentID       uuid.UUID  `gorm:"type:uuid;not null;index:idx_student_lms_assignment,unique" json:"student_id"`
	Student         *Student   `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudentID;references:ID" json:"student,omitempty"`
	CourseID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"course_id"`
	Course          *Course    `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	LMSAssignmentID int64      `gorm:"column:lms_assignment_id;not null;index:idx_student_lms_assignment,unique" json:"lms_assignment_id"`
	Name            string     `gorm:"column:name;not null" json:"name"`
	CourseName      string     `gorm:"column:course_name" json:"course_name"`
	DueAt           *time.Time `gorm:"column:due_at;index" json:"due_at,omitempty"`
	Points          float64    `gorm:"column:points;not null;default:0" json:"points"`
	Description     string     `gorm:"column:description" json:"description"`
	IsQuiz          bool       `gorm:"column:is_quiz;not null;default:false" json:"is_quiz"`
	CreatedAt       time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (Assignment) TableName() string { return "assignment" }
