package reports

import (
	"database/sql"
	"errors"

	"school-admin/app/config"
	"school-admin/app/database"
	"school-admin/app/models"
	"school-admin/app/routes/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

func SetupReportRoutes(app *fiber.App) {
	api := app.Group("/api/report-cards", auth.AuthMiddleware)

	staff := auth.RequireRole(models.RoleAdmin, models.RoleTeacher)

	api.Get("/student/:studentId", StudentReportCardsAPI)
	api.Get("/:id", GetReportCardAPI)
	api.Post("/", staff, CreateReportCardAPI)
	api.Put("/:id", staff, UpdateReportCardAPI)
	api.Delete("/:id", auth.RequireRole(models.RoleAdmin), DeleteReportCardAPI)
}

func StudentReportCardsAPI(c *fiber.Ctx) error {
	cards, err := database.GetReportCardsByStudent(config.GetDB(), c.Params("studentId"), c.Query("academic_year_id"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch report cards"})
	}
	return c.JSON(fiber.Map{"report_cards": cards})
}

func GetReportCardAPI(c *fiber.Ctx) error {
	card, err := database.GetReportCardByID(config.GetDB(), c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Report card not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(fiber.Map{"report_card": card})
}

// CreateReportCardAPI stores a report card. Totals, percentage and grades
// are always recomputed server-side from the subject rows.
func CreateReportCardAPI(c *fiber.Ctx) error {
	var card models.ReportCard
	if err := c.BodyParser(&card); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if err := validate.Struct(&card); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Validation failed", "details": err.Error()})
	}

	card.Compute()

	if err := database.CreateReportCard(config.GetDB(), &card); err != nil {
		if errors.Is(err, database.ErrDuplicateReportCard) {
			return c.Status(409).JSON(fiber.Map{"error": "A report card already exists for this student and exam"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create report card"})
	}
	return c.Status(201).JSON(fiber.Map{"report_card": card})
}

func UpdateReportCardAPI(c *fiber.Ctx) error {
	existing, err := database.GetReportCardByID(config.GetDB(), c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Report card not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}

	var card models.ReportCard
	if err := c.BodyParser(&card); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	card.ID = existing.ID
	card.StudentID = existing.StudentID
	card.AcademicYearID = existing.AcademicYearID
	card.ClassID = existing.ClassID
	if err := validate.Struct(&card); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Validation failed", "details": err.Error()})
	}

	card.Compute()

	if err := database.UpdateReportCard(config.GetDB(), &card); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update report card"})
	}
	return c.JSON(fiber.Map{"report_card": card})
}

func DeleteReportCardAPI(c *fiber.Ctx) error {
	if err := database.DeleteReportCard(config.GetDB(), c.Params("id")); err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Report card not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete report card"})
	}
	return c.JSON(fiber.Map{"message": "Report card deleted"})
}
