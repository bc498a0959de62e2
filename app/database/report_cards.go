package database

import (
	"database/sql"
	"errors"
	"school-admin/app/models"
)

const reportCardColumns = `id, student_id, academic_year_id, class_id, exam_type, term,
	subjects, total_marks, max_total, percentage, grade, rank, remarks, created_at, updated_at`

// ErrDuplicateReportCard is returned when a report card already exists
// for the student, academic year and exam type.
var ErrDuplicateReportCard = errors.New("report card already exists for this student and exam")

func scanReportCard(row rowScanner) (*models.ReportCard, error) {
	rc := &models.ReportCard{}
	var examType string
	err := row.Scan(&rc.ID, &rc.StudentID, &rc.AcademicYearID, &rc.ClassID, &examType,
		&rc.Term, &rc.Subjects, &rc.TotalMarks, &rc.MaxTotal, &rc.Percentage,
		&rc.Grade, &rc.Rank, &rc.Remarks, &rc.CreatedAt, &rc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	rc.ExamType = models.ExamType(examType)
	return rc, nil
}

// CreateReportCard inserts a computed report card.
func CreateReportCard(db *sql.DB, rc *models.ReportCard) error {
	err := db.QueryRow(`INSERT INTO report_cards
			(student_id, academic_year_id, class_id, exam_type, term, subjects,
			 total_marks, max_total, percentage, grade, rank, remarks)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING id, created_at, updated_at`,
		rc.StudentID, rc.AcademicYearID, rc.ClassID, string(rc.ExamType), rc.Term,
		rc.Subjects, rc.TotalMarks, rc.MaxTotal, rc.Percentage, rc.Grade, rc.Rank, rc.Remarks,
	).Scan(&rc.ID, &rc.CreatedAt, &rc.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateReportCard
	}
	return err
}

// GetReportCardsByStudent returns a student's report cards, optionally
// filtered by academic year.
func GetReportCardsByStudent(db *sql.DB, studentID, academicYearID string) ([]*models.ReportCard, error) {
	query := `SELECT ` + reportCardColumns + ` FROM report_cards WHERE student_id = $1`
	args := []interface{}{studentID}
	if academicYearID != "" {
		args = append(args, academicYearID)
		query += ` AND academic_year_id = $2`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []*models.ReportCard
	for rows.Next() {
		rc, err := scanReportCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, rc)
	}
	return cards, rows.Err()
}

// GetReportCardByID returns one report card.
func GetReportCardByID(db *sql.DB, id string) (*models.ReportCard, error) {
	row := db.QueryRow(`SELECT `+reportCardColumns+` FROM report_cards WHERE id = $1`, id)
	return scanReportCard(row)
}

// UpdateReportCard replaces the marks and recomputed totals.
func UpdateReportCard(db *sql.DB, rc *models.ReportCard) error {
	result, err := db.Exec(`UPDATE report_cards SET
			subjects = $1, total_marks = $2, max_total = $3, percentage = $4,
			grade = $5, rank = $6, remarks = $7, updated_at = NOW()
		WHERE id = $8`,
		rc.Subjects, rc.TotalMarks, rc.MaxTotal, rc.Percentage,
		rc.Grade, rc.Rank, rc.Remarks, rc.ID)
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

// DeleteReportCard removes a report card.
func DeleteReportCard(db *sql.DB, id string) error {
	result, err := db.Exec(`DELETE FROM report_cards WHERE id = $1`, id)
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
