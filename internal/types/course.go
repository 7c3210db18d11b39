package types

import (
	"time"

	"github.com/google/uuid"
)

type Course struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StudentID   uuid.UUID `gorm:"type:uuid;not null;index:idx_student_lms_course,unique" json:"student_id"`
	Student     *Student  `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudentID;references:ID" json:"student,omitempty"`
	LMSCourseID int64     `gorm:"column:lms_course_id;not null;index:idx_student_lms_course,unique" json:"lms_course_id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Code        string    `gorm:"column:code" json:"code"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Course) TableName() string { return "course" }
