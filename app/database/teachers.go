package database

import (
	"database/sql"
	"errors"
	"school-admin/app/models"
)

// ErrDuplicateTeacher is returned when a teacher with the same employee
// ID or email already exists.
var ErrDuplicateTeacher = errors.New("teacher with this employee ID or email already exists")

const teacherColumns = `id, employee_id, first_name, last_name, email, phone, gender,
	qualification, subjects, address, joining_date, is_active, created_at, updated_at`

func scanTeacher(row rowScanner) (*models.Teacher, error) {
	t := &models.Teacher{}
	var gender *string
	err := row.Scan(&t.ID, &t.EmployeeID, &t.FirstName, &t.LastName, &t.Email, &t.Phone,
		&gender, &t.Qualification, &t.Subjects, &t.Address, &t.JoiningDate,
		&t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if gender != nil {
		g := models.Gender(*gender)
		t.Gender = &g
	}
	return t, nil
}

// CreateTeacher inserts a new teacher record.
func CreateTeacher(db *sql.DB, t *models.Teacher) error {
	var gender *string
	if t.Gender != nil {
		g := string(*t.Gender)
		gender = &g
	}
	err := db.QueryRow(`INSERT INTO teachers
			(employee_id, first_name, last_name, email, phone, gender, qualification,
			 subjects, address, joining_date, is_active)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING id, created_at, updated_at`,
		t.EmployeeID, t.FirstName, t.LastName, t.Email, t.Phone, gender,
		t.Qualification, t.Subjects, t.Address, t.JoiningDate, t.IsActive,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateTeacher
	}
	return err
}

// GetAllTeachers returns all teachers ordered by name.
func GetAllTeachers(db *sql.DB) ([]*models.Teacher, error) {
	rows, err := db.Query(`SELECT ` + teacherColumns + ` FROM teachers ORDER BY first_name, last_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teachers []*models.Teacher
	for rows.Next() {
		t, err := scanTeacher(rows)
		if err != nil {
			return nil, err
		}
		teachers = append(teachers, t)
	}
	return teachers, rows.Err()
}

// GetTeacherByID returns one teacher.
func GetTeacherByID(db *sql.DB, id string) (*models.Teacher, error) {
	row := db.QueryRow(`SELECT `+teacherColumns+` FROM teachers WHERE id = $1`, id)
	return scanTeacher(row)
}

// UpdateTeacher updates a teacher's editable fields.
func UpdateTeacher(db *sql.DB, t *models.Teacher) error {
	var gender *string
	if t.Gender != nil {
		g := string(*t.Gender)
		gender = &g
	}
	result, err := db.Exec(`UPDATE teachers SET
			first_name = $1, last_name = $2, email = $3, phone = $4, gender = $5,
			qualification = $6, subjects = $7, address = $8, joining_date = $9,
			is_active = $10, updated_at = NOW()
		WHERE id = $11`,
		t.FirstName, t.LastName, t.Email, t.Phone, gender,
		t.Qualification, t.Subjects, t.Address, t.JoiningDate, t.IsActive, t.ID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteTeacher removes a teacher record.
func DeleteTeacher(db *sql.DB, id string) error {
	result, err := db.Exec(`DELETE FROM teachers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
