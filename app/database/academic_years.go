package database

import (
	"database/sql"
	"school-admin/app/models"
)

const academicYearColumns = `id, year, start_date, end_date, is_active, promotion_done, created_at, updated_at`

func scanAcademicYear(row rowScanner) (*models.AcademicYear, error) {
	ay := &models.AcademicYear{}
	err := row.Scan(&ay.ID, &ay.Year, &ay.StartDate, &ay.EndDate,
		&ay.IsActive, &ay.PromotionDone, &ay.CreatedAt, &ay.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return ay, nil
}

// GetAllAcademicYears returns all academic years, newest first.
func GetAllAcademicYears(db *sql.DB) ([]*models.AcademicYear, error) {
	rows, err := db.Query(`SELECT ` + academicYearColumns + ` FROM academic_years ORDER BY start_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var years []*models.AcademicYear
	for rows.Next() {
		ay, err := scanAcademicYear(rows)
		if err != nil {
			return nil, err
		}
		years = append(years, ay)
	}
	return years, rows.Err()
}

// GetAcademicYearByID returns one academic year.
func GetAcademicYearByID(db *sql.DB, id string) (*models.AcademicYear, error) {
	row := db.QueryRow(`SELECT `+academicYearColumns+` FROM academic_years WHERE id = $1`, id)
	return scanAcademicYear(row)
}

// GetActiveAcademicYear returns the single active academic year, or
// sql.ErrNoRows when none is active.
func GetActiveAcademicYear(db *sql.DB) (*models.AcademicYear, error) {
	row := db.QueryRow(`SELECT ` + academicYearColumns + ` FROM academic_years WHERE is_active = true`)
	return scanAcademicYear(row)
}

// CreateAcademicYear inserts a new academic year. Years are created
// inactive; activation goes through SetActiveAcademicYear.
func CreateAcademicYear(db *sql.DB, ay *models.AcademicYear) error {
	return db.QueryRow(`INSERT INTO academic_years (year, start_date, end_date, is_active, promotion_done)
			VALUES ($1, $2, $3, false, $4)
			RETURNING id, is_active, created_at, updated_at`,
		ay.Year, ay.StartDate, ay.EndDate, ay.PromotionDone,
	).Scan(&ay.ID, &ay.IsActive, &ay.CreatedAt, &ay.UpdatedAt)
}

// UpdateAcademicYear updates the year's name and dates.
func UpdateAcademicYear(db *sql.DB, ay *models.AcademicYear) error {
	result, err := db.Exec(`UPDATE academic_years
			SET year = $1, start_date = $2, end_date = $3, promotion_done = $4, updated_at = NOW()
			WHERE id = $5`,
		ay.Year, ay.StartDate, ay.EndDate, ay.PromotionDone, ay.ID)
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

// SetActiveAcademicYear marks one year active and deactivates all others
// in the same transaction, keeping "exactly one active year" an explicit
// invariant rather than a side effect of save hooks.
func SetActiveAcademicYear(db *sql.DB, id string) (*models.AcademicYear, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE academic_years SET is_active = false, updated_at = NOW() WHERE id <> $1`, id); err != nil {
		return nil, err
	}

	result, err := tx.Exec(`UPDATE academic_years SET is_active = true, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, sql.ErrNoRows
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return GetAcademicYearByID(db, id)
}

// DeleteAcademicYear removes an academic year.
func DeleteAcademicYear(db *sql.DB, id string) error {
	result, err := db.Exec(`DELETE FROM academic_years WHERE id = $1`, id)
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
