package academic

import (
	"database/sql"

	"school-admin/app/config"
	"school-admin/app/database"
	"school-admin/app/models"
	"school-admin/app/routes/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

func SetupAcademicRoutes(app *fiber.App) {
	api := app.Group("/api/academic-years", auth.AuthMiddleware)

	admin := auth.RequireRole(models.RoleAdmin)

	api.Get("/", ListAcademicYearsAPI)
	api.Get("/active", ActiveAcademicYearAPI)
	api.Get("/:id", GetAcademicYearAPI)
	api.Post("/", admin, CreateAcademicYearAPI)
	api.Put("/:id", admin, UpdateAcademicYearAPI)
	api.Post("/:id/activate", admin, ActivateAcademicYearAPI)
	api.Delete("/:id", admin, DeleteAcademicYearAPI)
}

func ListAcademicYearsAPI(c *fiber.Ctx) error {
	years, err := database.GetAllAcademicYears(config.GetDB())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch academic years"})
	}
	return c.JSON(fiber.Map{"academic_years": years})
}

func ActiveAcademicYearAPI(c *fiber.Ctx) error {
	year, err := database.GetActiveAcademicYear(config.GetDB())
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "No active academic year"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(fiber.Map{"academic_year": year})
}

func GetAcademicYearAPI(c *fiber.Ctx) error {
	year, err := database.GetAcademicYearByID(config.GetDB(), c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Academic year not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(fiber.Map{"academic_year": year})
}

func CreateAcademicYearAPI(c *fiber.Ctx) error {
	var year models.AcademicYear
	if err := c.BodyParser(&year); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if err := validate.Struct(&year); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Validation failed", "details": err.Error()})
	}
	if !year.EndDate.Time.After(year.StartDate.Time) {
		return c.Status(400).JSON(fiber.Map{"error": "end_date must be after start_date"})
	}

	if err := database.CreateAcademicYear(config.GetDB(), &year); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create academic year"})
	}
	return c.Status(201).JSON(fiber.Map{"academic_year": year})
}

func UpdateAcademicYearAPI(c *fiber.Ctx) error {
	existing, err := database.GetAcademicYearByID(config.GetDB(), c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Academic year not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}

	var year models.AcademicYear
	if err := c.BodyParser(&year); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	year.ID = existing.ID
	year.IsActive = existing.IsActive
	if err := validate.Struct(&year); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Validation failed", "details": err.Error()})
	}
	if !year.EndDate.Time.After(year.StartDate.Time) {
		return c.Status(400).JSON(fiber.Map{"error": "end_date must be after start_date"})
	}

	if err := database.UpdateAcademicYear(config.GetDB(), &year); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update academic year"})
	}
	return c.JSON(fiber.Map{"academic_year": year})
}

// ActivateAcademicYearAPI makes one year active and deactivates the rest
// in the same transaction, so there is never more than one active year.
func ActivateAcademicYearAPI(c *fiber.Ctx) error {
	year, err := database.SetActiveAcademicYear(config.GetDB(), c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Academic year not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to activate academic year"})
	}
	return c.JSON(fiber.Map{
		"message":       "Academic year activated",
		"academic_year": year,
	})
}

func DeleteAcademicYearAPI(c *fiber.Ctx) error {
	if err := database.DeleteAcademicYear(config.GetDB(), c.Params("id")); err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Academic year not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete academic year"})
	}
	return c.JSON(fiber.Map{"message": "Academic year deleted"})
}
