package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ClassSubject is a subject taught in a class, stored as part of the
// class's jsonb subjects column.
type ClassSubject struct {
	Name      string  `json:"name"`
	TeacherID *string `json:"teacher_id,omitempty"`
	MaxMarks  int     `json:"max_marks"`
}

// ClassSubjects wraps the subject list for jsonb storage.
type ClassSubjects []ClassSubject

// Scan implements the Scanner interface for database reading
func (cs *ClassSubjects) Scan(value interface{}) error {
	if value == nil {
		*cs = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into ClassSubjects", value)
	}
	return json.Unmarshal(b, cs)
}

// Value implements the Valuer interface for database writing
func (cs ClassSubjects) Value() (driver.Value, error) {
	if cs == nil {
		return json.Marshal([]ClassSubject{})
	}
	return json.Marshal(cs)
}

// Class represents one class-section in an academic year, e.g. "Class 3 B".
// The (name, section, academic year) combination is unique.
type Class struct {
	ID             string        `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name           string        `json:"name" gorm:"not null" validate:"required"`
	Section        string        `json:"section" gorm:"not null" validate:"required"`
	Grade          *int          `json:"grade,omitempty"`
	AcademicYearID string        `json:"academic_year_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	ClassTeacherID *string       `json:"class_teacher_id,omitempty" gorm:"index;type:uuid"`
	Subjects       ClassSubjects `json:"subjects" gorm:"type:jsonb"`
	Capacity       int           `json:"capacity" gorm:"default:40"`
	StudentCount   int           `json:"student_count" gorm:"-"`
	CreatedAt      time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time     `json:"updated_at" gorm:"autoUpdateTime"`

	AcademicYear *AcademicYear `json:"academic_year,omitempty" gorm:"foreignKey:AcademicYearID;references:ID"`
	ClassTeacher *Teacher      `json:"class_teacher,omitempty" gorm:"foreignKey:ClassTeacherID;references:ID"`
}

// DisplayName returns the class name with its section.
func (c *Class) DisplayName() string {
	return c.Name + " " + c.Section
}
