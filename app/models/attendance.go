package models

import "time"

// Attendance represents one student's attendance record for one date.
// A student has at most one record per date.
type Attendance struct {
	ID             string           `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	StudentID      string           `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	ClassID        string           `json:"class_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	AcademicYearID string           `json:"academic_year_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	Date           CustomTime       `json:"date" gorm:"not null;index;type:date" validate:"required"`
	Status         AttendanceStatus `json:"status" gorm:"not null;default:'present';type:varchar(20)" validate:"required,oneof=present absent late halfDay sickLeave authorizedLeave"`
	MarkedBy       string           `json:"marked_by" gorm:"not null;type:uuid"`
	Remarks        *string          `json:"remarks,omitempty"`

	// Denormalized for quick monthly queries, always set from Date.
	Month int `json:"month" gorm:"not null;index"`
	Year  int `json:"year" gorm:"not null;index"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Student *Student `json:"student,omitempty" gorm:"foreignKey:StudentID;references:ID"`
	Class   *Class   `json:"class,omitempty" gorm:"foreignKey:ClassID;references:ID"`
}

// SetPeriod fills the denormalized month/year columns from the date.
func (a *Attendance) SetPeriod() {
	a.Month = int(a.Date.Time.Month())
	a.Year = a.Date.Time.Year()
}

// MonthlyAttendanceSummary aggregates one student's attendance for a month.
type MonthlyAttendanceSummary struct {
	StudentID   string  `json:"student_id"`
	StudentName string  `json:"student_name"`
	Present     int     `json:"present"`
	Absent      int     `json:"absent"`
	Late        int     `json:"late"`
	HalfDay     int     `json:"half_day"`
	Leave       int     `json:"leave"`
	Total       int     `json:"total"`
	Percentage  float64 `json:"percentage"`
}
