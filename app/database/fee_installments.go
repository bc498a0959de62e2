package database

import (
	"database/sql"
	"fmt"
	"log"
	"school-admin/app/models"
	"time"
)

const installmentColumns = `id, student_id, academic_year_id, class_id, fee_type, fee_name,
	month, term, amount, discount, discount_reason, paid_amount, balance, due_date, status,
	is_skipped, skipped_reason, skipped_date, payment_method, payment_date, transaction_id,
	receipt_number, receipt_image, remarks, processed_by, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanInstallment(row rowScanner) (*models.FeeInstallment, error) {
	fi := &models.FeeInstallment{}
	var method *string
	err := row.Scan(
		&fi.ID, &fi.StudentID, &fi.AcademicYearID, &fi.ClassID, &fi.FeeType, &fi.FeeName,
		&fi.Month, &fi.Term, &fi.Amount, &fi.Discount, &fi.DiscountReason, &fi.Paid,
		&fi.Balance, &fi.DueDate, &fi.Status,
		&fi.IsSkipped, &fi.SkippedReason, &fi.SkippedDate, &method, &fi.PaymentDate,
		&fi.TransactionID, &fi.ReceiptNumber, &fi.ReceiptImage, &fi.Remarks, &fi.ProcessedBy,
		&fi.CreatedAt, &fi.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if method != nil {
		m := models.PaymentMethod(*method)
		fi.PaymentMethod = &m
	}
	return fi, nil
}

// HasInstallments reports whether any installment exists for the
// (student, academic year, class) triple. Generation is all-or-nothing
// per student, so a single hit means the student is already billed.
func HasInstallments(db *sql.DB, studentID, academicYearID, classID string) (bool, error) {
	var exists bool
	err := db.QueryRow(`SELECT EXISTS (
		SELECT 1 FROM fee_installments
		WHERE student_id = $1 AND academic_year_id = $2 AND class_id = $3
	)`, studentID, academicYearID, classID).Scan(&exists)
	return exists, err
}

// InsertInstallmentBatch inserts one student's generated installments in a
// single transaction so a mid-batch failure leaves nothing behind.
func InsertInstallmentBatch(db *sql.DB, installments []*models.FeeInstallment) error {
	if len(installments) == 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO fee_installments
		(student_id, academic_year_id, class_id, fee_type, fee_name, month, term,
		 amount, discount, paid_amount, balance, due_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, fi := range installments {
		err := stmt.QueryRow(
			fi.StudentID, fi.AcademicYearID, fi.ClassID, string(fi.FeeType), fi.FeeName,
			fi.Month, fi.Term, fi.Amount, fi.Discount, fi.Paid, fi.Balance, fi.DueDate,
			string(fi.Status),
		).Scan(&fi.ID, &fi.CreatedAt, &fi.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert installment %q: %v", fi.FeeName, err)
		}
	}

	return tx.Commit()
}

// InstallmentFilters narrows ListFeeInstallments.
type InstallmentFilters struct {
	StudentID      string
	AcademicYearID string
	ClassID        string
	FeeType        string
	Status         string
	Month          string
}

// ListFeeInstallments returns installments matching the filters, ordered
// by due date.
func ListFeeInstallments(db *sql.DB, filters InstallmentFilters) ([]*models.FeeInstallment, error) {
	query := `SELECT ` + installmentColumns + ` FROM fee_installments WHERE 1=1`
	var args []interface{}

	addFilter := func(column, value string) {
		if value != "" {
			args = append(args, value)
			query += fmt.Sprintf(" AND %s = $%d", column, len(args))
		}
	}
	addFilter("student_id", filters.StudentID)
	addFilter("academic_year_id", filters.AcademicYearID)
	addFilter("class_id", filters.ClassID)
	addFilter("fee_type", filters.FeeType)
	addFilter("status", filters.Status)
	addFilter("month", filters.Month)

	query += " ORDER BY due_date"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var installments []*models.FeeInstallment
	for rows.Next() {
		fi, err := scanInstallment(rows)
		if err != nil {
			return nil, err
		}
		installments = append(installments, fi)
	}
	return installments, rows.Err()
}

// GetFeeInstallmentByID returns one installment.
func GetFeeInstallmentByID(db *sql.DB, id string) (*models.FeeInstallment, error) {
	row := db.QueryRow(`SELECT `+installmentColumns+` FROM fee_installments WHERE id = $1`, id)
	return scanInstallment(row)
}

// lockInstallment reads an installment inside a transaction with a row
// lock so concurrent mutations serialize on it.
func lockInstallment(tx *sql.Tx, id string) (*models.FeeInstallment, error) {
	row := tx.QueryRow(`SELECT `+installmentColumns+` FROM fee_installments WHERE id = $1 FOR UPDATE`, id)
	return scanInstallment(row)
}

func saveInstallmentState(tx *sql.Tx, fi *models.FeeInstallment) error {
	var method *string
	if fi.PaymentMethod != nil {
		m := string(*fi.PaymentMethod)
		method = &m
	}
	_, err := tx.Exec(`UPDATE fee_installments SET
			discount = $1, discount_reason = $2, paid_amount = $3, balance = $4, status = $5,
			is_skipped = $6, skipped_reason = $7, skipped_date = $8,
			payment_method = $9, payment_date = $10, transaction_id = $11,
			receipt_number = $12, receipt_image = $13, remarks = $14, processed_by = $15,
			updated_at = NOW()
		WHERE id = $16`,
		fi.Discount, fi.DiscountReason, fi.Paid, fi.Balance, string(fi.Status),
		fi.IsSkipped, fi.SkippedReason, fi.SkippedDate,
		method, fi.PaymentDate, fi.TransactionID,
		fi.ReceiptNumber, fi.ReceiptImage, fi.Remarks, fi.ProcessedBy,
		fi.ID,
	)
	return err
}

// PaymentInput carries one payment to apply to an installment.
type PaymentInput struct {
	Amount        float64
	Method        models.PaymentMethod
	PaymentDate   time.Time
	TransactionID *string
	ReceiptNumber string
	ReceiptImage  *string
	Remarks       *string
	ProcessedBy   string
}

// ProcessInstallmentPayment applies a payment to an installment and
// appends it to the payment log, all in one transaction. The installment
// row is locked for the duration so concurrent payments cannot lose
// updates. Payments must be positive and must not exceed the outstanding
// balance.
func ProcessInstallmentPayment(db *sql.DB, installmentID string, p *PaymentInput) (*models.FeeInstallment, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	fi, err := lockInstallment(tx, installmentID)
	if err != nil {
		return nil, err
	}

	if p.Amount <= 0 {
		return nil, ErrInvalidPaymentAmount
	}
	if p.Amount > fi.Balance {
		return nil, ErrPaymentExceedsBalance
	}

	now := time.Now()
	fi.Paid += p.Amount
	fi.PaymentMethod = &p.Method
	fi.PaymentDate = &p.PaymentDate
	if p.TransactionID != nil {
		fi.TransactionID = p.TransactionID
	}
	if p.Remarks != nil {
		fi.Remarks = p.Remarks
	}
	if p.ReceiptImage != nil {
		fi.ReceiptImage = p.ReceiptImage
	}
	fi.ReceiptNumber = &p.ReceiptNumber
	fi.ProcessedBy = &p.ProcessedBy
	fi.Recalculate(now)

	if err := saveInstallmentState(tx, fi); err != nil {
		return nil, fmt.Errorf("failed to update installment: %v", err)
	}

	_, err = tx.Exec(`INSERT INTO fee_payments
			(installment_id, amount, method, payment_date, transaction_id, receipt_number, remarks, processed_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		fi.ID, p.Amount, string(p.Method), p.PaymentDate, p.TransactionID,
		p.ReceiptNumber, p.Remarks, p.ProcessedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record payment: %v", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return fi, nil
}

// ApplyInstallmentDiscount replaces the installment's discount (absolute,
// not additive) and re-derives balance and status.
func ApplyInstallmentDiscount(db *sql.DB, installmentID string, amount float64, reason string) (*models.FeeInstallment, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	fi, err := lockInstallment(tx, installmentID)
	if err != nil {
		return nil, err
	}

	fi.Discount = amount
	fi.DiscountReason = &reason
	fi.Recalculate(time.Now())

	if err := saveInstallmentState(tx, fi); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return fi, nil
}

// SkipInstallment marks an installment skipped. Payment fields are kept;
// skip is a status override on top of whatever has been paid.
func SkipInstallment(db *sql.DB, installmentID string, reason string) (*models.FeeInstallment, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	fi, err := lockInstallment(tx, installmentID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	fi.IsSkipped = true
	fi.SkippedReason = &reason
	fi.SkippedDate = &now
	fi.Recalculate(now)

	if err := saveInstallmentState(tx, fi); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return fi, nil
}

// UnskipInstallment clears the skip override; the status falls back to
// whatever the current balance, paid amount and due date produce.
func UnskipInstallment(db *sql.DB, installmentID string) (*models.FeeInstallment, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	fi, err := lockInstallment(tx, installmentID)
	if err != nil {
		return nil, err
	}

	fi.IsSkipped = false
	fi.SkippedReason = nil
	fi.SkippedDate = nil
	fi.Recalculate(time.Now())

	if err := saveInstallmentState(tx, fi); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return fi, nil
}

// UpdateFeeInstallment applies an unconstrained admin edit to the mutable
// fields, then re-derives balance and status.
func UpdateFeeInstallment(db *sql.DB, fi *models.FeeInstallment) (*models.FeeInstallment, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	current, err := lockInstallment(tx, fi.ID)
	if err != nil {
		return nil, err
	}

	current.FeeName = fi.FeeName
	current.DueDate = fi.DueDate
	current.Discount = fi.Discount
	current.DiscountReason = fi.DiscountReason
	current.Paid = fi.Paid
	current.Remarks = fi.Remarks
	current.Recalculate(time.Now())

	_, err = tx.Exec(`UPDATE fee_installments SET
			fee_name = $1, due_date = $2, discount = $3, discount_reason = $4,
			paid_amount = $5, balance = $6, status = $7, remarks = $8, updated_at = NOW()
		WHERE id = $9`,
		current.FeeName, current.DueDate, current.Discount, current.DiscountReason,
		current.Paid, current.Balance, string(current.Status), current.Remarks, current.ID,
	)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return current, nil
}

// DeleteFeeInstallment removes an installment permanently.
func DeleteFeeInstallment(db *sql.DB, id string) error {
	result, err := db.Exec(`DELETE FROM fee_installments WHERE id = $1`, id)
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

// RepairAllInstallments re-derives balance and status for every
// installment from its stored amount, discount, paid amount, due date and
// skip state. One bad row is logged and skipped, never fatal to the sweep.
func RepairAllInstallments(db *sql.DB) (*models.RepairResult, error) {
	rows, err := db.Query(`SELECT ` + installmentColumns + ` FROM fee_installments`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var installments []*models.FeeInstallment
	for rows.Next() {
		fi, err := scanInstallment(rows)
		if err != nil {
			log.Printf("Repair: failed to scan installment: %v", err)
			continue
		}
		installments = append(installments, fi)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := &models.RepairResult{}
	now := time.Now()
	for _, fi := range installments {
		fi.Recalculate(now)
		_, err := db.Exec(`UPDATE fee_installments
				SET balance = $1, status = $2, updated_at = NOW()
				WHERE id = $3`,
			fi.Balance, string(fi.Status), fi.ID)
		if err != nil {
			log.Printf("Repair: failed to update installment %s: %v", fi.ID, err)
			result.FailedCount++
			continue
		}
		result.UpdatedCount++
	}
	return result, nil
}

// GetStudentFeeSummary aggregates a student's installments. Pending and
// overdue buckets sum outstanding balances of installments currently in
// that status.
func GetStudentFeeSummary(db *sql.DB, studentID, academicYearID string) (*models.StudentFeeSummary, error) {
	installments, err := ListFeeInstallments(db, InstallmentFilters{
		StudentID:      studentID,
		AcademicYearID: academicYearID,
	})
	if err != nil {
		return nil, err
	}

	summary := &models.StudentFeeSummary{Installments: installments}
	if summary.Installments == nil {
		summary.Installments = []*models.FeeInstallment{}
	}
	for _, fi := range installments {
		summary.Total += fi.Amount
		summary.Paid += fi.Paid
		switch fi.Status {
		case models.InstallmentPending:
			summary.Pending += fi.Balance
		case models.InstallmentOverdue:
			summary.Overdue += fi.Balance
		}
	}
	return summary, nil
}

// GetInstallmentPayments returns the append-only payment log for an
// installment, newest first.
func GetInstallmentPayments(db *sql.DB, installmentID string) ([]*models.FeePayment, error) {
	rows, err := db.Query(`SELECT id, installment_id, amount, method, payment_date,
			transaction_id, receipt_number, remarks, processed_by, created_at
		FROM fee_payments WHERE installment_id = $1 ORDER BY payment_date DESC`, installmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.FeePayment
	for rows.Next() {
		p := &models.FeePayment{}
		var method string
		err := rows.Scan(&p.ID, &p.InstallmentID, &p.Amount, &method, &p.PaymentDate,
			&p.TransactionID, &p.ReceiptNumber, &p.Remarks, &p.ProcessedBy, &p.CreatedAt)
		if err != nil {
			return nil, err
		}
		p.Method = models.PaymentMethod(method)
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
