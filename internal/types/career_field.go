package types

import (
	"time"

	"github.com/google/uuid"
)

// CareerField is a cached labour-market snapshot for one occupation group.
type CareerField struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Slug            string    `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
	Title           string    `gorm:"column:title;not null" json:"title"`
	MedianPay       float64   `gorm:"column:median_pay;not null;default:0" json:"median_pay"`
	OutlookGrowth   float64   `gorm:"column:outlook_growth;not null;default:0" json:"outlook_growth"`
	OpeningsPerYear int       `gorm:"column:openings_per_year;not null;default:0" json:"openings_per_year"`
	EducationLevel  string    `gorm:"column:education_level" json:"education_level"`
	Summary         string    `gorm:"column:summary" json:"summary"`
	FetchedAt       time.Time `gorm:"column:fetched_at;not null;default:now()" json:"fetched_at"`
	CreatedAt       time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (CareerField) TableName() string { return "career_field" }
