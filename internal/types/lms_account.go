package types

import (
	"time"

	"github.com/google/uuid"
)

type LMSAccount struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StudentID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"student_id"`
	Student      *Student   `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudentID;references:ID" json:"student,omitempty"`
	BaseURL      string     `gorm:"column:base_url;not null" json:"base_url"`
	APIToken     string     `gorm:"column:api_token;not null" json:"-"`
	LastSyncedAt *time.Time `gorm:"column:last_synced_at" json:"last_synced_at,omitempty"`
	CreatedAt    time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (LMSAccount) TableName() string { return "lms_account" }
