package models

import "time"

// FeeMonths is the fixed billing cycle for monthly fees: an April-start
// fiscal year. The ordering is an external contract shared with stored
// data and must not change.
var FeeMonths = [12]string{
	"April", "May", "June", "July", "August", "September",
	"October", "November", "December", "January", "February", "March",
}

// FeeInstallment represents a single payment obligation for one student,
// produced by the fee generation engine from a class-level configuration.
type FeeInstallment struct {
	ID             string  `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	StudentID      string  `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	AcademicYearID string  `json:"academic_year_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	ClassID        string  `json:"class_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	FeeType        FeeType `json:"fee_type" gorm:"not null;type:varchar(20)" validate:"required,oneof=tuition exam admission library sports transport other"`
	FeeName        string  `json:"fee_name" gorm:"not null" validate:"required"`
	Month          *string `json:"month,omitempty" gorm:"type:varchar(10)"`
	Term           *string `json:"term,omitempty"`

	Amount   float64   `json:"amount" gorm:"not null;type:numeric" validate:"required,gte=0"`
	Discount float64   `json:"discount" gorm:"type:numeric;default:0" validate:"gte=0"`
	Paid     float64   `json:"paid_amount" gorm:"column:paid_amount;type:numeric;default:0" validate:"gte=0"`
	Balance  float64   `json:"balance" gorm:"type:numeric"`
	DueDate  time.Time `json:"due_date" gorm:"not null;index;type:date" validate:"required"`

	Status InstallmentStatus `json:"status" gorm:"not null;default:'pending';index;type:varchar(10)"`

	DiscountReason *string    `json:"discount_reason,omitempty"`
	IsSkipped      bool       `json:"is_skipped" gorm:"default:false"`
	SkippedReason  *string    `json:"skipped_reason,omitempty"`
	SkippedDate    *time.Time `json:"skipped_date,omitempty"`

	// Metadata of the most recent payment. The full history lives in the
	// fee_payments table.
	PaymentMethod *PaymentMethod `json:"payment_method,omitempty" gorm:"type:varchar(20)"`
	PaymentDate   *time.Time     `json:"payment_date,omitempty"`
	TransactionID *string        `json:"transaction_id,omitempty"`
	ReceiptNumber *string        `json:"receipt_number,omitempty"`
	ReceiptImage  *string        `json:"receipt_image,omitempty"`
	Remarks       *string        `json:"remarks,omitempty"`
	ProcessedBy   *string        `json:"processed_by,omitempty" gorm:"type:uuid"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Student      *Student      `json:"student,omitempty" gorm:"foreignKey:StudentID;references:ID"`
	AcademicYear *AcademicYear `json:"academic_year,omitempty" gorm:"foreignKey:AcademicYearID;references:ID"`
	Class        *Class        `json:"class,omitempty" gorm:"foreignKey:ClassID;references:ID"`
}

// DeriveStatus computes the installment status from its inputs. The
// precedence is strict and first-match-wins: a skipped installment is
// skipped no matter what was paid, and a partially paid installment
// reports partial even when its due date has passed.
func DeriveStatus(isSkipped bool, balance, paidAmount float64, dueDate, now time.Time) InstallmentStatus {
	switch {
	case isSkipped:
		return InstallmentSkipped
	case balance <= 0:
		return InstallmentPaid
	case paidAmount > 0:
		return InstallmentPartial
	case now.After(dueDate):
		return InstallmentOverdue
	default:
		return InstallmentPending
	}
}

// Recalculate re-derives balance and status from the current amount,
// discount, paid amount and skip state. Every mutation path must call
// this before persisting.
func (fi *FeeInstallment) Recalculate(now time.Time) {
	effective := fi.Amount - fi.Discount
	fi.Balance = effective - fi.Paid
	fi.Status = DeriveStatus(fi.IsSkipped, fi.Balance, fi.Paid, fi.DueDate, now)
}

// EffectiveAmount returns the amount owed after discount.
func (fi *FeeInstallment) EffectiveAmount() float64 {
	return fi.Amount - fi.Discount
}

// FeePayment is one entry in the append-only payment log for an
// installment. The installment itself only keeps the latest payment's
// metadata.
type FeePayment struct {
	ID            string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	InstallmentID string         `json:"installment_id" gorm:"not null;index;type:uuid"`
	Amount        float64        `json:"amount" gorm:"not null;type:numeric" validate:"required,gt=0"`
	Method        PaymentMethod  `json:"method" gorm:"not null;type:varchar(20)" validate:"required,oneof=cash card online cheque bank_transfer"`
	PaymentDate   time.Time      `json:"payment_date" gorm:"not null"`
	TransactionID *string        `json:"transaction_id,omitempty"`
	ReceiptNumber string         `json:"receipt_number" gorm:"not null"`
	Remarks       *string        `json:"remarks,omitempty"`
	ProcessedBy   *string        `json:"processed_by,omitempty" gorm:"type:uuid"`
	CreatedAt     time.Time      `json:"created_at" gorm:"autoCreateTime"`
	Installment   *FeeInstallment `json:"installment,omitempty" gorm:"foreignKey:InstallmentID;references:ID"`
}

// StudentFeeSummary aggregates a student's installments for display.
type StudentFeeSummary struct {
	Total        float64           `json:"total"`
	Paid         float64           `json:"paid"`
	Pending      float64           `json:"pending"`
	Overdue      float64           `json:"overdue"`
	Installments []*FeeInstallment `json:"installments"`
}
