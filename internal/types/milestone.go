package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	MilestoneTitleMaxLen       = 200
	MilestoneDescriptionMaxLen = 500
)

// Milestone is one scheduled sub-task of an assignment's study plan.
// Position preserves the order the planner emitted the set in.
type Milestone struct {
	ID             uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StudentID      uuid.UUID   `gorm:"type:uuid;not null;index:idx_student_assignment" json:"student_id"`
	Student        *Student    `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudentID;references:ID" json:"student,omitempty"`
	AssignmentID   uuid.UUID   `gorm:"type:uuid;not null;index:idx_student_assignment" json:"assignment_id"`
	Assignment     *Assignment `gorm:"constraint:OnDelete:CASCADE;foreignKey:AssignmentID;references:ID" json:"assignment,omitempty"`
	Title          string      `gorm:"column:title;not null" json:"title"`
	Description    string      `gorm:"column:description" json:"description"`
	Phase          string      `gorm:"column:phase" json:"phase"`
	TargetDate     time.Time   `gorm:"column:target_date;not null;index" json:"target_date"`
	EstimatedHours float64     `gorm:"column:estimated_hours;not null;default:0" json:"estimated_hours"`
	Completed      bool        `gorm:"column:completed;not null;default:false" json:"completed"`
	CompletedAt    *time.Time  `gorm:"column:completed_at" json:"completed_at,omitempty"`
	Position       int         `gorm:"column:position;not null;default:0" json:"position"`
	CreatedAt      time.Time   `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time   `gorm:"not null;default:now()" json:"updated_at"`
}

func (Milestone) TableName() string { return "milestone" }
