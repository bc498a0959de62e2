package database

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrInvalidPaymentAmount is returned for zero or negative payments.
	ErrInvalidPaymentAmount = errors.New("payment amount must be greater than zero")

	// ErrPaymentExceedsBalance is returned when a payment would overpay
	// the installment. Overpayment is rejected server-side; the balance
	// never goes negative through the payment path.
	ErrPaymentExceedsBalance = errors.New("payment amount exceeds outstanding balance")

	// ErrDuplicateConfiguration is returned when a second fee
	// configuration is created for the same (academic year, class) pair.
	ErrDuplicateConfiguration = errors.New("fee configuration already exists for this class and academic year")
)

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
