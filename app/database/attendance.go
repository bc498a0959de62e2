package database

import (
	"database/sql"
	"school-admin/app/models"
	"time"
)

const attendanceColumns = `id, student_id, class_id, academic_year_id, date, status,
	marked_by, remarks, month, year, created_at, updated_at`

func scanAttendance(row rowScanner) (*models.Attendance, error) {
	a := &models.Attendance{}
	var status string
	err := row.Scan(&a.ID, &a.StudentID, &a.ClassID, &a.AcademicYearID, &a.Date, &status,
		&a.MarkedBy, &a.Remarks, &a.Month, &a.Year, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.Status = models.AttendanceStatus(status)
	return a, nil
}

// UpsertAttendance records attendance for a student on a date. One record
// per student per date; marking again overwrites the status.
func UpsertAttendance(db *sql.DB, a *models.Attendance) error {
	a.SetPeriod()
	return db.QueryRow(`INSERT INTO attendance
			(student_id, class_id, academic_year_id, date, status, marked_by, remarks, month, year)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (student_id, date) DO UPDATE SET
				status = EXCLUDED.status,
				marked_by = EXCLUDED.marked_by,
				remarks = EXCLUDED.remarks,
				updated_at = NOW()
			RETURNING id, created_at, updated_at`,
		a.StudentID, a.ClassID, a.AcademicYearID, a.Date, string(a.Status),
		a.MarkedBy, a.Remarks, a.Month, a.Year,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

// GetAttendanceByClassAndDate returns a class's attendance for one day.
func GetAttendanceByClassAndDate(db *sql.DB, classID string, date time.Time) ([]*models.Attendance, error) {
	rows, err := db.Query(`SELECT `+attendanceColumns+` FROM attendance
			WHERE class_id = $1 AND date = $2`, classID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

// GetMonthlyAttendanceSummary aggregates each student's attendance for a
// class in one month.
func GetMonthlyAttendanceSummary(db *sql.DB, classID string, month, year int) ([]*models.MonthlyAttendanceSummary, error) {
	rows, err := db.Query(`SELECT s.id, s.first_name || ' ' || s.last_name,
			COUNT(*) FILTER (WHERE a.status = 'present'),
			COUNT(*) FILTER (WHERE a.status = 'absent'),
			COUNT(*) FILTER (WHERE a.status = 'late'),
			COUNT(*) FILTER (WHERE a.status = 'halfDay'),
			COUNT(*) FILTER (WHERE a.status IN ('sickLeave', 'authorizedLeave')),
			COUNT(*)
		FROM attendance a
		JOIN students s ON a.student_id = s.id
		WHERE a.class_id = $1 AND a.month = $2 AND a.year = $3
		GROUP BY s.id, s.first_name, s.last_name
		ORDER BY s.first_name, s.last_name`, classID, month, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []*models.MonthlyAttendanceSummary
	for rows.Next() {
		s := &models.MonthlyAttendanceSummary{}
		err := rows.Scan(&s.StudentID, &s.StudentName, &s.Present, &s.Absent,
			&s.Late, &s.HalfDay, &s.Leave, &s.Total)
		if err != nil {
			return nil, err
		}
		if s.Total > 0 {
			// Late and half-day count toward attendance.
			s.Percentage = float64(s.Present+s.Late+s.HalfDay) / float64(s.Total) * 100
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
