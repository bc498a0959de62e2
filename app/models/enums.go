package models

// FeeType defines the category of a fee installment.
type FeeType string

const (
	FeeTuition   FeeType = "tuition"
	FeeExam      FeeType = "exam"
	FeeAdmission FeeType = "admission"
	FeeLibrary   FeeType = "library"
	FeeSports    FeeType = "sports"
	FeeTransport FeeType = "transport"
	FeeOther     FeeType = "other"
)

// InstallmentStatus defines the derived payment state of a fee installment.
type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "pending"
	InstallmentPartial InstallmentStatus = "partial"
	InstallmentPaid    InstallmentStatus = "paid"
	InstallmentOverdue InstallmentStatus = "overdue"
	InstallmentSkipped InstallmentStatus = "skipped"
)

// FeeFrequency defines how often an "other" fee head recurs.
type FeeFrequency string

const (
	FrequencyOneTime FeeFrequency = "one-time"
	FrequencyAnnual  FeeFrequency = "annual"
	FrequencyMonthly FeeFrequency = "monthly"
)

// PaymentMethod defines the possible payment channels.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentCard         PaymentMethod = "card"
	PaymentOnline       PaymentMethod = "online"
	PaymentCheque       PaymentMethod = "cheque"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
)

// AttendanceStatus defines the possible status values for attendance.
type AttendanceStatus string

const (
	Present         AttendanceStatus = "present"
	Absent          AttendanceStatus = "absent"
	Late            AttendanceStatus = "late"
	HalfDay         AttendanceStatus = "halfDay"
	SickLeave       AttendanceStatus = "sickLeave"
	AuthorizedLeave AttendanceStatus = "authorizedLeave"
)

// CountsAsPresent reports whether the status counts toward attendance.
func (s AttendanceStatus) CountsAsPresent() bool {
	return s == Present || s == Late || s == HalfDay
}

// StudentStatus defines the lifecycle state of a student record.
type StudentStatus string

const (
	StudentActive   StudentStatus = "active"
	StudentInactive StudentStatus = "inactive"
	StudentAlumni   StudentStatus = "alumni"
)

// Gender defines the possible gender values for a student.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
	Other  Gender = "other"
)

// ExamType defines the kind of examination behind a report card.
type ExamType string

const (
	ExamMidterm    ExamType = "midterm"
	ExamFinal      ExamType = "final"
	ExamUnitTest   ExamType = "unit_test"
	ExamQuarterly  ExamType = "quarterly"
	ExamHalfYearly ExamType = "half_yearly"
	ExamAnnual     ExamType = "annual"
)

// UserRole defines the role of an application user.
type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleAccountant UserRole = "accountant"
	RoleTeacher    UserRole = "teacher"
)
