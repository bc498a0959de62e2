package fees

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"school-admin/app/config"
	"school-admin/app/database"
	"school-admin/app/models"
	"school-admin/app/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func ListInstallmentsAPI(c *fiber.Ctx) error {
	filters := database.InstallmentFilters{
		StudentID:      c.Query("student_id"),
		AcademicYearID: c.Query("academic_year_id"),
		ClassID:        c.Query("class_id"),
		FeeType:        c.Query("fee_type"),
		Status:         c.Query("status"),
		Month:          c.Query("month"),
	}

	installments, err := database.ListFeeInstallments(config.GetDB(), filters)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch installments"})
	}
	return c.JSON(fiber.Map{"installments": installments})
}

func GetInstallmentAPI(c *fiber.Ctx) error {
	fi, err := database.GetFeeInstallmentByID(config.GetDB(), c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Installment not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(fiber.Map{"installment": fi})
}

// ProcessPaymentAPI records a payment against an installment. The request
// is a multipart form so a receipt image can ride along; a bare form
// without a file works too.
func ProcessPaymentAPI(c *fiber.Ctx) error {
	type PaymentRequest struct {
		Amount        float64 `json:"amount" form:"amount" validate:"required,gt=0"`
		Method        string  `json:"method" form:"method" validate:"required,oneof=cash card online cheque bank_transfer"`
		PaymentDate   string  `json:"payment_date" form:"payment_date"`
		TransactionID string  `json:"transaction_id" form:"transaction_id"`
		Remarks       string  `json:"remarks" form:"remarks"`
	}

	var req PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Validation failed", "details": err.Error()})
	}

	paymentDate := time.Now()
	if req.PaymentDate != "" {
		parsed, err := time.Parse("2006-01-02", req.PaymentDate)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "payment_date must be YYYY-MM-DD"})
		}
		paymentDate = parsed
	}

	input := &database.PaymentInput{
		Amount:        req.Amount,
		Method:        models.PaymentMethod(req.Method),
		PaymentDate:   paymentDate,
		ReceiptNumber: fmt.Sprintf("RCP-%d-%s", time.Now().Year(), uuid.New().String()[:8]),
		ProcessedBy:   c.Locals("user_id").(string),
	}
	if req.TransactionID != "" {
		input.TransactionID = &req.TransactionID
	}
	if req.Remarks != "" {
		input.Remarks = &req.Remarks
	}

	// Optional receipt image
	if file, err := c.FormFile("receipt"); err == nil && file != nil {
		if err := os.MkdirAll(config.UploadDir(), 0o755); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to prepare upload directory"})
		}
		filename := uuid.New().String() + filepath.Ext(file.Filename)
		dest := filepath.Join(config.UploadDir(), filename)
		if err := c.SaveFile(file, dest); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to save receipt image"})
		}
		input.ReceiptImage = &filename
	}

	fi, err := database.ProcessInstallmentPayment(config.GetDB(), c.Params("id"), input)
	if err != nil {
		switch {
		case err == sql.ErrNoRows:
			return c.Status(404).JSON(fiber.Map{"error": "Installment not found"})
		case errors.Is(err, database.ErrInvalidPaymentAmount):
			return c.Status(400).JSON(fiber.Map{"error": "Payment amount must be greater than zero"})
		case errors.Is(err, database.ErrPaymentExceedsBalance):
			return c.Status(422).JSON(fiber.Map{"error": "Payment amount exceeds outstanding balance"})
		default:
			log.Printf("Payment processing failed for installment %s: %v", c.Params("id"), err)
			return c.Status(500).JSON(fiber.Map{"error": "Failed to process payment"})
		}
	}

	return c.JSON(fiber.Map{
		"message":     "Payment processed successfully",
		"installment": fi,
	})
}

func ApplyDiscountAPI(c *fiber.Ctx) error {
	type DiscountRequest struct {
		Amount float64 `json:"amount" validate:"gte=0"`
		Reason string  `json:"reason" validate:"required"`
	}

	var req DiscountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Validation failed", "details": err.Error()})
	}

	fi, err := database.GetFeeInstallmentByID(config.GetDB(), c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Installment not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}
	if req.Amount > fi.Amount {
		return c.Status(422).JSON(fiber.Map{"error": "Discount cannot exceed the installment amount"})
	}

	fi, err = database.ApplyInstallmentDiscount(config.GetDB(), c.Params("id"), req.Amount, req.Reason)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to apply discount"})
	}

	return c.JSON(fiber.Map{
		"message":     "Discount applied",
		"installment": fi,
	})
}

func SkipInstallmentAPI(c *fiber.Ctx) error {
	type SkipRequest struct {
		Reason string `json:"reason" validate:"required"`
	}

	var req SkipRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "A skip reason is required"})
	}

	fi, err := database.SkipInstallment(config.GetDB(), c.Params("id"), req.Reason)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Installment not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to skip installment"})
	}

	return c.JSON(fiber.Map{
		"message":     "Installment skipped",
		"installment": fi,
	})
}

func UnskipInstallmentAPI(c *fiber.Ctx) error {
	fi, err := database.UnskipInstallment(config.GetDB(), c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Installment not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to unskip installment"})
	}

	return c.JSON(fiber.Map{
		"message":     "Installment restored",
		"installment": fi,
	})
}

func UpdateInstallmentAPI(c *fiber.Ctx) error {
	type UpdateRequest struct {
		FeeName        string  `json:"fee_name" validate:"required"`
		DueDate        string  `json:"due_date" validate:"required"`
		Discount       float64 `json:"discount" validate:"gte=0"`
		DiscountReason *string `json:"discount_reason"`
		PaidAmount     float64 `json:"paid_amount" validate:"gte=0"`
		Remarks        *string `json:"remarks"`
	}

	var req UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Validation failed", "details": err.Error()})
	}

	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "due_date must be YYYY-MM-DD"})
	}

	fi, err := database.GetFeeInstallmentByID(config.GetDB(), c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Installment not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}

	fi.FeeName = req.FeeName
	fi.DueDate = dueDate
	fi.Discount = req.Discount
	fi.DiscountReason = req.DiscountReason
	fi.Paid = req.PaidAmount
	fi.Remarks = req.Remarks

	updated, err := database.UpdateFeeInstallment(config.GetDB(), fi)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update installment"})
	}

	return c.JSON(fiber.Map{
		"message":     "Installment updated",
		"installment": updated,
	})
}

func DeleteInstallmentAPI(c *fiber.Ctx) error {
	if err := database.DeleteFeeInstallment(config.GetDB(), c.Params("id")); err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Installment not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete installment"})
	}
	return c.JSON(fiber.Map{"message": "Installment deleted"})
}

// FixExistingInstallmentsAPI re-derives balance and status for every
// stored installment. Due dates are never recomputed.
func FixExistingInstallmentsAPI(c *fiber.Ctx) error {
	result, err := database.RepairAllInstallments(config.GetDB())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Repair failed"})
	}
	return c.JSON(fiber.Map{
		"message": "Installment statuses recalculated",
		"result":  result,
	})
}

func StudentFeeSummaryAPI(c *fiber.Ctx) error {
	academicYearID := c.Query("academic_year_id")
	if academicYearID == "" {
		year, err := database.GetActiveAcademicYear(config.GetDB())
		if err != nil {
			if err == sql.ErrNoRows {
				return c.Status(422).JSON(fiber.Map{"error": "No active academic year; pass academic_year_id"})
			}
			return c.Status(500).JSON(fiber.Map{"error": "Database error"})
		}
		academicYearID = year.ID
	}

	summary, err := database.GetStudentFeeSummary(config.GetDB(), c.Params("studentId"), academicYearID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to build fee summary"})
	}
	return c.JSON(fiber.Map{"summary": summary})
}

// GenerateForStudentAPI bills a single student from the class
// configuration. Unlike the class-wide path this fails loudly on a
// duplicate.
func GenerateForStudentAPI(c *fiber.Ctx) error {
	type GenerateRequest struct {
		StudentID      string `json:"student_id" validate:"required,uuid"`
		AcademicYearID string `json:"academic_year_id" validate:"required,uuid"`
		ClassID        string `json:"class_id" validate:"required,uuid"`
	}

	var req GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Validation failed", "details": err.Error()})
	}

	engine := services.NewFeeEngine(services.NewDBFeeStore(config.GetDB()))
	installments, err := engine.GenerateForStudent(req.StudentID, req.AcademicYearID, req.ClassID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDuplicateGeneration):
			return c.Status(409).JSON(fiber.Map{"error": "Fees already exist for this student in this academic year and class"})
		case errors.Is(err, services.ErrConfigurationMissing):
			return c.Status(404).JSON(fiber.Map{"error": "No fee configuration for this class and academic year"})
		case errors.Is(err, services.ErrInvalidStartDate):
			return c.Status(422).JSON(fiber.Map{"error": "Academic year start date is missing or invalid"})
		default:
			log.Printf("Fee generation failed for student %s: %v", req.StudentID, err)
			return c.Status(500).JSON(fiber.Map{"error": "Fee generation failed"})
		}
	}

	return c.Status(201).JSON(fiber.Map{
		"message":      "Fee installments generated",
		"count":        len(installments),
		"installments": installments,
	})
}

func InstallmentPaymentsAPI(c *fiber.Ctx) error {
	payments, err := database.GetInstallmentPayments(config.GetDB(), c.Params("id"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch payments"})
	}
	return c.JSON(fiber.Map{"payments": payments})
}
