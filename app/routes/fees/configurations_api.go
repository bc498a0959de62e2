package fees

import (
	"database/sql"
	"errors"

	"school-admin/app/config"
	"school-admin/app/database"
	"school-admin/app/models"
	"school-admin/app/services"

	"github.com/gofiber/fiber/v2"
)

func ListFeeConfigurationsAPI(c *fiber.Ctx) error {
	configs, err := database.ListFeeConfigurations(config.GetDB(), c.Query("academic_year_id"), c.Query("class_id"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch fee configurations"})
	}
	return c.JSON(fiber.Map{"configurations": configs})
}

func GetFeeConfigurationAPI(c *fiber.Ctx) error {
	fc, err := database.GetFeeConfigurationByID(config.GetDB(), c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Fee configuration not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(fiber.Map{"configuration": fc})
}

func CreateFeeConfigurationAPI(c *fiber.Ctx) error {
	var fc models.FeeConfiguration
	if err := c.BodyParser(&fc); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if err := validate.Struct(&fc); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Validation failed", "details": err.Error()})
	}

	if err := database.CreateFeeConfiguration(config.GetDB(), &fc); err != nil {
		if errors.Is(err, database.ErrDuplicateConfiguration) {
			return c.Status(409).JSON(fiber.Map{"error": "A fee configuration already exists for this class and academic year"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create fee configuration"})
	}

	return c.Status(201).JSON(fiber.Map{"configuration": fc})
}

func UpdateFeeConfigurationAPI(c *fiber.Ctx) error {
	existing, err := database.GetFeeConfigurationByID(config.GetDB(), c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Fee configuration not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}

	var fc models.FeeConfiguration
	if err := c.BodyParser(&fc); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	fc.ID = existing.ID
	fc.AcademicYearID = existing.AcademicYearID
	fc.ClassID = existing.ClassID
	if err := validate.Struct(&fc); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Validation failed", "details": err.Error()})
	}

	// Editing the template never touches installments already generated
	// from it.
	if err := database.UpdateFeeConfiguration(config.GetDB(), &fc); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update fee configuration"})
	}

	return c.JSON(fiber.Map{"configuration": fc})
}

func DeleteFeeConfigurationAPI(c *fiber.Ctx) error {
	if err := database.DeleteFeeConfiguration(config.GetDB(), c.Params("id")); err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Fee configuration not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete fee configuration"})
	}
	return c.JSON(fiber.Map{"message": "Fee configuration deleted"})
}

// GenerateFeesForClassAPI bills every active student in the
// configuration's class. Already-billed students are skipped and counted.
func GenerateFeesForClassAPI(c *fiber.Ctx) error {
	engine := services.NewFeeEngine(services.NewDBFeeStore(config.GetDB()))

	result, err := engine.GenerateForClass(c.Params("id"))
	if err != nil {
		switch {
		case err == sql.ErrNoRows:
			return c.Status(404).JSON(fiber.Map{"error": "Fee configuration not found"})
		case errors.Is(err, services.ErrInvalidStartDate):
			return c.Status(422).JSON(fiber.Map{"error": "Academic year start date is missing or invalid"})
		default:
			return c.Status(500).JSON(fiber.Map{"error": "Fee generation failed"})
		}
	}

	return c.JSON(fiber.Map{
		"message": "Fee generation completed",
		"result":  result,
	})
}
