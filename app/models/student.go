package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Address is a nested postal address stored as jsonb.
type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	PinCode string `json:"pin_code,omitempty"`
	Country string `json:"country,omitempty"`
}

// Scan implements the Scanner interface for database reading
func (a *Address) Scan(value interface{}) error {
	if value == nil {
		*a = Address{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into Address", value)
	}
	return json.Unmarshal(b, a)
}

// Value implements the Valuer interface for database writing
func (a Address) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// Guardian holds the details of a parent or guardian, stored as jsonb.
type Guardian struct {
	Name       string  `json:"name,omitempty"`
	Relation   string  `json:"relation,omitempty"`
	Phone      string  `json:"phone,omitempty"`
	Email      string  `json:"email,omitempty"`
	Occupation string  `json:"occupation,omitempty"`
	Address    Address `json:"address,omitempty"`
}

// Scan implements the Scanner interface for database reading
func (g *Guardian) Scan(value interface{}) error {
	if value == nil {
		*g = Guardian{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into Guardian", value)
	}
	return json.Unmarshal(b, g)
}

// Value implements the Valuer interface for database writing
func (g Guardian) Value() (driver.Value, error) {
	return json.Marshal(g)
}

// Student represents an enrolled student.
type Student struct {
	ID              string        `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	AdmissionNumber string        `json:"admission_number" gorm:"uniqueIndex;not null"`
	FirstName       string        `json:"first_name" gorm:"not null" validate:"required"`
	LastName        string        `json:"last_name" gorm:"not null" validate:"required"`
	DateOfBirth     CustomTime    `json:"date_of_birth" gorm:"type:date" validate:"required"`
	Gender          Gender        `json:"gender" gorm:"type:varchar(10)" validate:"required,oneof=male female other"`
	Email           *string       `json:"email,omitempty" gorm:"uniqueIndex"`
	Phone           *string       `json:"phone,omitempty"`
	BloodGroup      *string       `json:"blood_group,omitempty"`
	Address         Address       `json:"address" gorm:"type:jsonb"`
	Father          Guardian      `json:"father" gorm:"type:jsonb"`
	Mother          Guardian      `json:"mother" gorm:"type:jsonb"`
	Guardian        Guardian      `json:"guardian" gorm:"type:jsonb"`
	ClassID         *string       `json:"class_id,omitempty" gorm:"column:current_class_id;index;type:uuid"`
	AcademicYearID  *string       `json:"academic_year_id,omitempty" gorm:"column:current_academic_year_id;index;type:uuid"`
	RollNumber      *int          `json:"roll_number,omitempty"`
	AdmissionDate   CustomTime    `json:"admission_date" gorm:"type:date" validate:"required"`
	Status          StudentStatus `json:"status" gorm:"not null;default:'active';index;type:varchar(10)"`
	CreatedAt       time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time     `json:"updated_at" gorm:"autoUpdateTime"`

	Class        *Class        `json:"class,omitempty" gorm:"foreignKey:ClassID;references:ID"`
	AcademicYear *AcademicYear `json:"academic_year,omitempty" gorm:"foreignKey:AcademicYearID;references:ID"`
}

// FullName returns the student's display name.
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}
