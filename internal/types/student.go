package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Student struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	HouseholdID uuid.UUID      `gorm:"type:uuid;not null;index" json:"household_id"`
	Household   *Household     `gorm:"constraint:OnDelete:CASCADE;foreignKey:HouseholdID;references:ID" json:"household,omitempty"`
	Name        string         `gorm:"column:name;not null" json:"name"`
	YearLevel   int            `gorm:"column:year_level;not null;default:0" json:"year_level"`
	Interests   datatypes.JSON `gorm:"type:jsonb;column:interests" json:"interests"`
	Goals       string         `gorm:"column:goals" json:"goals"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Student) TableName() string { return "student" }
