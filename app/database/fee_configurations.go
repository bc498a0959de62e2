package database

import (
	"database/sql"
	"school-admin/app/models"
)

const configurationColumns = `fc.id, fc.academic_year_id, fc.class_id, fc.fee_structure,
	fc.is_active, fc.created_at, fc.updated_at`

func scanConfiguration(row rowScanner) (*models.FeeConfiguration, error) {
	fc := &models.FeeConfiguration{}
	err := row.Scan(&fc.ID, &fc.AcademicYearID, &fc.ClassID, &fc.FeeStructure,
		&fc.IsActive, &fc.CreatedAt, &fc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// CreateFeeConfiguration inserts a configuration, enforcing one per
// (academic year, class) pair.
func CreateFeeConfiguration(db *sql.DB, fc *models.FeeConfiguration) error {
	err := db.QueryRow(`INSERT INTO fee_configurations
			(academic_year_id, class_id, fee_structure, is_active)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at, updated_at`,
		fc.AcademicYearID, fc.ClassID, fc.FeeStructure, fc.IsActive,
	).Scan(&fc.ID, &fc.CreatedAt, &fc.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateConfiguration
	}
	return err
}

// GetFeeConfigurationByID returns one configuration with its academic
// year resolved.
func GetFeeConfigurationByID(db *sql.DB, id string) (*models.FeeConfiguration, error) {
	row := db.QueryRow(`SELECT `+configurationColumns+`
		FROM fee_configurations fc WHERE fc.id = $1`, id)
	fc, err := scanConfiguration(row)
	if err != nil {
		return nil, err
	}
	fc.AcademicYear, _ = GetAcademicYearByID(db, fc.AcademicYearID)
	return fc, nil
}

// GetFeeConfigurationFor returns the configuration for a class in an
// academic year, or sql.ErrNoRows when none exists.
func GetFeeConfigurationFor(db *sql.DB, academicYearID, classID string) (*models.FeeConfiguration, error) {
	row := db.QueryRow(`SELECT `+configurationColumns+`
		FROM fee_configurations fc
		WHERE fc.academic_year_id = $1 AND fc.class_id = $2`, academicYearID, classID)
	return scanConfiguration(row)
}

// ListFeeConfigurations returns configurations, optionally filtered by
// academic year and class, newest first.
func ListFeeConfigurations(db *sql.DB, academicYearID, classID string) ([]*models.FeeConfiguration, error) {
	query := `SELECT ` + configurationColumns + ` FROM fee_configurations fc WHERE 1=1`
	var args []interface{}
	if academicYearID != "" {
		args = append(args, academicYearID)
		query += ` AND fc.academic_year_id = $1`
	}
	if classID != "" {
		args = append(args, classID)
		if len(args) == 1 {
			query += ` AND fc.class_id = $1`
		} else {
			query += ` AND fc.class_id = $2`
		}
	}
	query += ` ORDER BY fc.created_at DESC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var configurations []*models.FeeConfiguration
	for rows.Next() {
		fc, err := scanConfiguration(rows)
		if err != nil {
			return nil, err
		}
		configurations = append(configurations, fc)
	}
	return configurations, rows.Err()
}

// UpdateFeeConfiguration replaces the fee structure and active flag.
func UpdateFeeConfiguration(db *sql.DB, fc *models.FeeConfiguration) error {
	result, err := db.Exec(`UPDATE fee_configurations
			SET fee_structure = $1, is_active = $2, updated_at = NOW()
			WHERE id = $3`,
		fc.FeeStructure, fc.IsActive, fc.ID)
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

// DeleteFeeConfiguration removes a configuration. Installments already
// generated from it are untouched.
func DeleteFeeConfiguration(db *sql.DB, id string) error {
	result, err := db.Exec(`DELETE FROM fee_configurations WHERE id = $1`, id)
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
