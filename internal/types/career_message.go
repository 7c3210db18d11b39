package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	CareerMessageRoleUser      = "user"
	CareerMessageRoleAssistant = "assistant"
)

type CareerMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`
	Student   *Student  `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudentID;references:ID" json:"student,omitempty"`
	Role      string    `gorm:"column:role;not null" json:"role"`
	Content   string    `gorm:"column:content;not null" json:"content"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (CareerMessage) TableName() string { return "career_message" }
