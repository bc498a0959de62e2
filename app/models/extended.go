package models

// DashboardStats is the aggregate view shown on the admin dashboard.
type DashboardStats struct {
	TotalStudents     int     `json:"total_students"`
	TotalTeachers     int     `json:"total_teachers"`
	TotalClasses      int     `json:"total_classes"`
	FeesCollected     float64 `json:"fees_collected"`
	FeesOutstanding   float64 `json:"fees_outstanding"`
	FeesOverdue       float64 `json:"fees_overdue"`
	FeeCollectionRate float64 `json:"fee_collection_rate"`
	StudentAttendance float64 `json:"student_attendance"`
}

// GenerationResult reports the outcome of a class-wide fee generation run.
type GenerationResult struct {
	StudentsCount     int      `json:"students_count"`
	ProcessedCount    int      `json:"processed_count"`
	SkippedCount      int      `json:"skipped_count"`
	InstallmentsCount int      `json:"installments_count"`
	Errors            []string `json:"errors,omitempty"`
}

// RepairResult reports the outcome of an installment repair sweep.
type RepairResult struct {
	UpdatedCount int `json:"updated_count"`
	FailedCount  int `json:"failed_count"`
}
