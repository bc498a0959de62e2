package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	now := time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC)
	past := now.AddDate(0, -1, 0)
	future := now.AddDate(0, 1, 0)

	tests := []struct {
		name       string
		isSkipped  bool
		balance    float64
		paidAmount float64
		dueDate    time.Time
		want       InstallmentStatus
	}{
		{"unpaid before due date", false, 1000, 0, future, InstallmentPending},
		{"unpaid past due date", false, 1000, 0, past, InstallmentOverdue},
		{"partially paid", false, 600, 400, future, InstallmentPartial},
		{"partial beats overdue", false, 600, 400, past, InstallmentPartial},
		{"fully paid", false, 0, 1000, future, InstallmentPaid},
		{"overpaid balance", false, -50, 1050, past, InstallmentPaid},
		{"skipped beats everything", true, 1000, 500, past, InstallmentSkipped},
		{"skipped with zero balance", true, 0, 1000, future, InstallmentSkipped},
		{"due exactly now", false, 1000, 0, now, InstallmentPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveStatus(tt.isSkipped, tt.balance, tt.paidAmount, tt.dueDate, now)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecalculate(t *testing.T) {
	now := time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC)

	t.Run("balance from amount, discount and paid", func(t *testing.T) {
		fi := &FeeInstallment{
			Amount:   1500,
			Discount: 200,
			Paid:     300,
			DueDate:  now.AddDate(0, 1, 0),
		}
		fi.Recalculate(now)

		assert.Equal(t, 1000.0, fi.Balance)
		assert.Equal(t, InstallmentPartial, fi.Status)
	})

	t.Run("payments walk pending to partial to paid", func(t *testing.T) {
		fi := &FeeInstallment{
			Amount:  500,
			DueDate: now.AddDate(0, 1, 0),
		}
		fi.Recalculate(now)
		assert.Equal(t, InstallmentPending, fi.Status)

		fi.Paid += 200
		fi.Recalculate(now)
		assert.Equal(t, 300.0, fi.Balance)
		assert.Equal(t, InstallmentPartial, fi.Status)

		fi.Paid += 300
		fi.Recalculate(now)
		assert.Equal(t, 0.0, fi.Balance)
		assert.Equal(t, InstallmentPaid, fi.Status)
	})

	t.Run("discount covering the remainder settles the installment", func(t *testing.T) {
		fi := &FeeInstallment{
			Amount:  1500,
			Paid:    1000,
			DueDate: now.AddDate(0, -1, 0),
		}
		fi.Recalculate(now)
		assert.Equal(t, InstallmentPartial, fi.Status)

		fi.Discount = 500
		fi.Recalculate(now)
		assert.Equal(t, 0.0, fi.Balance)
		assert.Equal(t, InstallmentPaid, fi.Status)
	})

	t.Run("full discount pays an untouched installment", func(t *testing.T) {
		fi := &FeeInstallment{
			Amount:   1000,
			Discount: 1000,
			DueDate:  now.AddDate(0, -1, 0),
		}
		fi.Recalculate(now)

		assert.Equal(t, 0.0, fi.Balance)
		assert.Equal(t, InstallmentPaid, fi.Status)
	})

	t.Run("skip and unskip round-trip", func(t *testing.T) {
		fi := &FeeInstallment{
			Amount:  1000,
			DueDate: now.AddDate(0, -1, 0),
		}
		fi.Recalculate(now)
		assert.Equal(t, InstallmentOverdue, fi.Status)

		fi.IsSkipped = true
		fi.Recalculate(now)
		assert.Equal(t, InstallmentSkipped, fi.Status)

		fi.IsSkipped = false
		fi.Recalculate(now)
		assert.Equal(t, InstallmentOverdue, fi.Status)
	})
}

func TestEffectiveAmount(t *testing.T) {
	fi := &FeeInstallment{Amount: 1200, Discount: 150}
	assert.Equal(t, 1050.0, fi.EffectiveAmount())
}
