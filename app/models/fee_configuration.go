package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ExamFee is a named exam fee head inside a fee structure.
type ExamFee struct {
	Name   string  `json:"name" validate:"required"`
	Amount float64 `json:"amount" validate:"gte=0"`
}

// OtherFee is a named auxiliary fee head with a recurrence frequency.
type OtherFee struct {
	Name      string       `json:"name" validate:"required"`
	Amount    float64      `json:"amount" validate:"gte=0"`
	Frequency FeeFrequency `json:"frequency" validate:"required,oneof=one-time annual monthly"`
}

// FeeStructure is the class-level fee template stored as a single jsonb
// column, mirroring its nested document shape.
type FeeStructure struct {
	TuitionFee float64    `json:"tuition_fee" validate:"gte=0"`
	ExamFees   []ExamFee  `json:"exam_fees" validate:"dive"`
	OtherFees  []OtherFee `json:"other_fees" validate:"dive"`
}

// Scan implements the Scanner interface for database reading
func (fs *FeeStructure) Scan(value interface{}) error {
	if value == nil {
		*fs = FeeStructure{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into FeeStructure", value)
	}
	return json.Unmarshal(b, fs)
}

// Value implements the Valuer interface for database writing
func (fs FeeStructure) Value() (driver.Value, error) {
	return json.Marshal(fs)
}

// FeeConfiguration is the per (academic year, class) fee template that
// the generation engine expands into per-student installments. The pair
// is unique; a second configuration for the same pair is rejected.
type FeeConfiguration struct {
	ID             string       `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	AcademicYearID string       `json:"academic_year_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	ClassID        string       `json:"class_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	FeeStructure   FeeStructure `json:"fee_structure" gorm:"type:jsonb" validate:"required"`
	IsActive       bool         `json:"is_active" gorm:"default:true"`
	CreatedAt      time.Time    `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time    `json:"updated_at" gorm:"autoUpdateTime"`

	AcademicYear *AcademicYear `json:"academic_year,omitempty" gorm:"foreignKey:AcademicYearID;references:ID"`
	Class        *Class        `json:"class,omitempty" gorm:"foreignKey:ClassID;references:ID"`
}
