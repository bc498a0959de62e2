package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// SubjectMarks is one subject row on a report card.
type SubjectMarks struct {
	Name          string  `json:"name" validate:"required"`
	MarksObtained float64 `json:"marks_obtained" validate:"gte=0"`
	MaxMarks      float64 `json:"max_marks" validate:"gt=0"`
	Grade         string  `json:"grade,omitempty"`
}

// SubjectMarksList wraps the marks rows for jsonb storage.
type SubjectMarksList []SubjectMarks

// Scan implements the Scanner interface for database reading
func (sm *SubjectMarksList) Scan(value interface{}) error {
	if value == nil {
		*sm = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into SubjectMarksList", value)
	}
	return json.Unmarshal(b, sm)
}

// Value implements the Valuer interface for database writing
func (sm SubjectMarksList) Value() (driver.Value, error) {
	if sm == nil {
		return json.Marshal([]SubjectMarks{})
	}
	return json.Marshal(sm)
}

// ReportCard holds a student's marks for one exam.
type ReportCard struct {
	ID             string           `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	StudentID      string           `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	AcademicYearID string           `json:"academic_year_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	ClassID        string           `json:"class_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	ExamType       ExamType         `json:"exam_type" gorm:"not null;type:varchar(20)" validate:"required,oneof=midterm final unit_test quarterly half_yearly annual"`
	Term           *string          `json:"term,omitempty"`
	Subjects       SubjectMarksList `json:"subjects" gorm:"type:jsonb" validate:"required,dive"`
	TotalMarks     float64          `json:"total_marks" gorm:"type:numeric"`
	MaxTotal       float64          `json:"max_total" gorm:"type:numeric"`
	Percentage     float64          `json:"percentage" gorm:"type:numeric"`
	Grade          string           `json:"grade"`
	Rank           *int             `json:"rank,omitempty"`
	Remarks        *string          `json:"remarks,omitempty"`
	CreatedAt      time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time        `json:"updated_at" gorm:"autoUpdateTime"`

	Student *Student `json:"student,omitempty" gorm:"foreignKey:StudentID;references:ID"`
	Class   *Class   `json:"class,omitempty" gorm:"foreignKey:ClassID;references:ID"`
}

// Compute totals the subject rows and assigns percentage and grade.
func (rc *ReportCard) Compute() {
	var total, max float64
	for i := range rc.Subjects {
		total += rc.Subjects[i].MarksObtained
		max += rc.Subjects[i].MaxMarks
		rc.Subjects[i].Grade = GradeFor(percentOf(rc.Subjects[i].MarksObtained, rc.Subjects[i].MaxMarks))
	}
	rc.TotalMarks = total
	rc.MaxTotal = max
	rc.Percentage = percentOf(total, max)
	rc.Grade = GradeFor(rc.Percentage)
}

func percentOf(obtained, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return obtained / max * 100
}

// GradeFor maps a percentage to a letter grade.
func GradeFor(percentage float64) string {
	switch {
	case percentage >= 90:
		return "A+"
	case percentage >= 80:
		return "A"
	case percentage >= 70:
		return "B+"
	case percentage >= 60:
		return "B"
	case percentage >= 50:
		return "C"
	case percentage >= 40:
		return "D"
	default:
		return "F"
	}
}
