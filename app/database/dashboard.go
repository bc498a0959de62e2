package database

import (
	"database/sql"
	"school-admin/app/models"
	"time"
)

// GetDashboardStats aggregates the headline numbers for the dashboard.
// Individual query failures leave the corresponding stat at zero rather
// than failing the page.
func GetDashboardStats(db *sql.DB) *models.DashboardStats {
	stats := &models.DashboardStats{}

	db.QueryRow(`SELECT COUNT(*) FROM students WHERE status = 'active'`).Scan(&stats.TotalStudents)
	db.QueryRow(`SELECT COUNT(*) FROM teachers WHERE is_active = true`).Scan(&stats.TotalTeachers)
	db.QueryRow(`SELECT COUNT(*) FROM classes`).Scan(&stats.TotalClasses)

	db.QueryRow(`SELECT
			COALESCE(SUM(paid_amount), 0),
			COALESCE(SUM(CASE WHEN is_skipped = false AND balance > 0 THEN balance ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'overdue' THEN balance ELSE 0 END), 0)
		FROM fee_installments`).Scan(&stats.FeesCollected, &stats.FeesOutstanding, &stats.FeesOverdue)

	if total := stats.FeesCollected + stats.FeesOutstanding; total > 0 {
		stats.FeeCollectionRate = stats.FeesCollected / total * 100
	}

	now := time.Now()
	var present, total int
	db.QueryRow(`SELECT
			COUNT(*) FILTER (WHERE status IN ('present', 'late', 'halfDay')),
			COUNT(*)
		FROM attendance WHERE month = $1 AND year = $2`,
		int(now.Month()), now.Year()).Scan(&present, &total)
	if total > 0 {
		stats.StudentAttendance = float64(present) / float64(total) * 100
	}

	return stats
}
