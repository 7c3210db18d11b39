package types

import (
	"time"

	"github.com/google/uuid"
)

// GenerationLog is append-only. Rows are never updated or deleted, and the
// planners never read them back.
type GenerationLog struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StudentID      uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`
	AssignmentID   uuid.UUID `gorm:"type:uuid;not null;index" json:"assignment_id"`
	Success        bool      `gorm:"column:success;not null" json:"success"`
	Error          string    `gorm:"column:error" json:"error,omitempty"`
	MilestoneCount int       `gorm:"column:milestone_count;not null;default:0" json:"milestone_count"`
	Model          string    `gorm:"column:model" json:"model,omitempty"`
	CreatedAt      time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (GenerationLog) TableName() string { return "generation_log" }
