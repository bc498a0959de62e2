package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// SubjectList is a list of subject names stored as jsonb.
type SubjectList []string

// Scan implements the Scanner interface for database reading
func (sl *SubjectList) Scan(value interface{}) error {
	if value == nil {
		*sl = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into SubjectList", value)
	}
	return json.Unmarshal(b, sl)
}

// Value implements the Valuer interface for database writing
func (sl SubjectList) Value() (driver.Value, error) {
	if sl == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(sl)
}

// Teacher represents a member of the teaching staff.
type Teacher struct {
	ID            string      `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	EmployeeID    string      `json:"employee_id" gorm:"uniqueIndex;not null" validate:"required"`
	FirstName     string      `json:"first_name" gorm:"not null" validate:"required"`
	LastName      string      `json:"last_name" gorm:"not null" validate:"required"`
	Email         *string     `json:"email,omitempty" gorm:"uniqueIndex"`
	Phone         *string     `json:"phone,omitempty"`
	Gender        *Gender     `json:"gender,omitempty" gorm:"type:varchar(10)"`
	Qualification *string     `json:"qualification,omitempty"`
	Subjects      SubjectList `json:"subjects" gorm:"type:jsonb"`
	Address       Address     `json:"address" gorm:"type:jsonb"`
	JoiningDate   CustomTime  `json:"joining_date" gorm:"type:date"`
	IsActive      bool        `json:"is_active" gorm:"default:true;index"`
	CreatedAt     time.Time   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time   `json:"updated_at" gorm:"autoUpdateTime"`
}

// FullName returns the teacher's display name.
func (t *Teacher) FullName() string {
	return t.FirstName + " " + t.LastName
}
