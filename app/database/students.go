package database

import (
	"database/sql"
	"fmt"
	"school-admin/app/models"
	"strconv"
	"strings"
	"time"
)

const studentColumns = `id, admission_number, first_name, last_name, date_of_birth, gender,
	email, phone, blood_group, address, father, mother, guardian,
	current_class_id, current_academic_year_id, roll_number, admission_date, status,
	created_at, updated_at`

func scanStudent(row rowScanner) (*models.Student, error) {
	s := &models.Student{}
	err := row.Scan(
		&s.ID, &s.AdmissionNumber, &s.FirstName, &s.LastName, &s.DateOfBirth, &s.Gender,
		&s.Email, &s.Phone, &s.BloodGroup, &s.Address, &s.Father, &s.Mother, &s.Guardian,
		&s.ClassID, &s.AcademicYearID, &s.RollNumber, &s.AdmissionDate, &s.Status,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// NextAdmissionNumber generates the next sequential admission number for
// the current year, e.g. "ADM-2026-0042".
func NextAdmissionNumber(db *sql.DB) (string, error) {
	prefix := fmt.Sprintf("ADM-%d-", time.Now().Year())

	var last sql.NullString
	err := db.QueryRow(`SELECT admission_number FROM students
			WHERE admission_number LIKE $1
			ORDER BY admission_number DESC LIMIT 1`, prefix+"%").Scan(&last)
	if err != nil && err != sql.ErrNoRows {
		return "", err
	}

	next := 1
	if last.Valid {
		parts := strings.Split(last.String, "-")
		if n, err := strconv.Atoi(parts[len(parts)-1]); err == nil {
			next = n + 1
		}
	}
	return fmt.Sprintf("%s%04d", prefix, next), nil
}

// CreateStudent inserts a new student record.
func CreateStudent(db *sql.DB, s *models.Student) error {
	return db.QueryRow(`INSERT INTO students
			(admission_number, first_name, last_name, date_of_birth, gender, email, phone,
			 blood_group, address, father, mother, guardian,
			 current_class_id, current_academic_year_id, roll_number, admission_date, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
			RETURNING id, created_at, updated_at`,
		s.AdmissionNumber, s.FirstName, s.LastName, s.DateOfBirth, string(s.Gender),
		s.Email, s.Phone, s.BloodGroup, s.Address, s.Father, s.Mother, s.Guardian,
		s.ClassID, s.AcademicYearID, s.RollNumber, s.AdmissionDate, string(s.Status),
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

// StudentFilters narrows ListStudents.
type StudentFilters struct {
	AcademicYearID string
	ClassID        string
	Status         string
	Search         string
	Limit          int
	Offset         int
}

// ListStudents returns students matching the filters, newest first.
func ListStudents(db *sql.DB, filters StudentFilters) ([]*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE 1=1`
	var args []interface{}

	if filters.AcademicYearID != "" {
		args = append(args, filters.AcademicYearID)
		query += fmt.Sprintf(" AND current_academic_year_id = $%d", len(args))
	}
	if filters.ClassID != "" {
		args = append(args, filters.ClassID)
		query += fmt.Sprintf(" AND current_class_id = $%d", len(args))
	}
	if filters.Status != "" {
		args = append(args, filters.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filters.Search != "" {
		args = append(args, "%"+strings.ToLower(filters.Search)+"%")
		n := len(args)
		query += fmt.Sprintf(` AND (LOWER(first_name) LIKE $%d
			OR LOWER(last_name) LIKE $%d
			OR LOWER(first_name || ' ' || last_name) LIKE $%d
			OR LOWER(admission_number) LIKE $%d)`, n, n, n, n)
	}

	query += " ORDER BY created_at DESC"
	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		args = append(args, filters.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// GetStudentByID returns one student.
func GetStudentByID(db *sql.DB, id string) (*models.Student, error) {
	row := db.QueryRow(`SELECT `+studentColumns+` FROM students WHERE id = $1`, id)
	return scanStudent(row)
}

// GetActiveStudentsInClass returns the roster of active students enrolled
// in a class for an academic year. Used by class-wide fee generation.
func GetActiveStudentsInClass(db *sql.DB, classID, academicYearID string) ([]*models.Student, error) {
	rows, err := db.Query(`SELECT `+studentColumns+` FROM students
			WHERE current_class_id = $1 AND current_academic_year_id = $2 AND status = 'active'
			ORDER BY roll_number NULLS LAST, first_name`, classID, academicYearID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// UpdateStudent updates a student's editable fields.
func UpdateStudent(db *sql.DB, s *models.Student) error {
	result, err := db.Exec(`UPDATE students SET
			first_name = $1, last_name = $2, date_of_birth = $3, gender = $4,
			email = $5, phone = $6, blood_group = $7, address = $8,
			father = $9, mother = $10, guardian = $11,
			current_class_id = $12, current_academic_year_id = $13, roll_number = $14,
			status = $15, updated_at = NOW()
		WHERE id = $16`,
		s.FirstName, s.LastName, s.DateOfBirth, string(s.Gender),
		s.Email, s.Phone, s.BloodGroup, s.Address,
		s.Father, s.Mother, s.Guardian,
		s.ClassID, s.AcademicYearID, s.RollNumber,
		string(s.Status), s.ID)
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

// DeleteStudent removes a student record.
func DeleteStudent(db *sql.DB, id string) error {
	result, err := db.Exec(`DELETE FROM students WHERE id = $1`, id)
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
