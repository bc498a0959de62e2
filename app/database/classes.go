package database

import (
	"database/sql"
	"errors"
	"school-admin/app/models"
)

const classColumns = `id, name, section, grade, academic_year_id, class_teacher_id,
	subjects, capacity, created_at, updated_at`

// ErrDuplicateClass is returned when a class with the same name and
// section already exists in the academic year.
var ErrDuplicateClass = errors.New("class with this name and section already exists for the academic year")

func scanClass(row rowScanner) (*models.Class, error) {
	c := &models.Class{}
	err := row.Scan(&c.ID, &c.Name, &c.Section, &c.Grade, &c.AcademicYearID,
		&c.ClassTeacherID, &c.Subjects, &c.Capacity, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// CreateClass inserts a new class.
func CreateClass(db *sql.DB, c *models.Class) error {
	err := db.QueryRow(`INSERT INTO classes
			(name, section, grade, academic_year_id, class_teacher_id, subjects, capacity)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at, updated_at`,
		c.Name, c.Section, c.Grade, c.AcademicYearID, c.ClassTeacherID, c.Subjects, c.Capacity,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateClass
	}
	return err
}

// GetAllClasses returns all classes with their student counts, optionally
// filtered by academic year.
func GetAllClasses(db *sql.DB, academicYearID string) ([]*models.Class, error) {
	query := `SELECT ` + classColumns + ` FROM classes`
	var args []interface{}
	if academicYearID != "" {
		query += ` WHERE academic_year_id = $1`
		args = append(args, academicYearID)
	}
	query += ` ORDER BY name, section`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []*models.Class
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, c := range classes {
		db.QueryRow(`SELECT COUNT(*) FROM students
			WHERE current_class_id = $1 AND status = 'active'`, c.ID).Scan(&c.StudentCount)
	}
	return classes, nil
}

// GetClassByID returns one class.
func GetClassByID(db *sql.DB, id string) (*models.Class, error) {
	row := db.QueryRow(`SELECT `+classColumns+` FROM classes WHERE id = $1`, id)
	return scanClass(row)
}

// UpdateClass updates a class's editable fields.
func UpdateClass(db *sql.DB, c *models.Class) error {
	result, err := db.Exec(`UPDATE classes SET
			name = $1, section = $2, grade = $3, class_teacher_id = $4,
			subjects = $5, capacity = $6, updated_at = NOW()
		WHERE id = $7`,
		c.Name, c.Section, c.Grade, c.ClassTeacherID, c.Subjects, c.Capacity, c.ID)
	if isUniqueViolation(err) {
		return ErrDuplicateClass
	}
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

// DeleteClass removes a class.
func DeleteClass(db *sql.DB, id string) error {
	result, err := db.Exec(`DELETE FROM classes WHERE id = $1`, id)
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
