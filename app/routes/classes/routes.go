package classes

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

func SetupClassRoutes(app *fiber.App) {
	api := app.Group("/api/classes", auth.AuthMiddleware)

	admin := auth.RequireRole(models.RoleAdmin)

	api.Get("/", ListClassesAPI)
	api.Get("/:id", GetClassAPI)
	api.Get("/:id/students", ClassStudentsAPI)
	api.Post("/", admin, CreateClassAPI)
	api.Put("/:id", admin, UpdateClassAPI)
	api.Delete("/:id", admin, DeleteClassAPI)
}

func ListClassesAPI(c *fiber.Ctx) error {
	classes, err := database.GetAllClasses(config.GetDB(), c.Query("academic_year_id"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch classes"})
	}
	return c.JSON(fiber.Map{"classes": classes})
}

func GetClassAPI(c *fiber.Ctx) error {
	class, err := database.GetClassByID(config.GetDB(), c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Class not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(fiber.Map{"class": class})
}

func ClassStudentsAPI(c *fiber.Ctx) error {
	class, err := database.GetClassByID(config.GetDB(), c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Class not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}

	students, err := database.GetActiveStudentsInClass(config.GetDB(), class.ID, class.AcademicYearID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch students"})
	}
	return c.JSON(fiber.Map{"class": class, "students": students})
}

func CreateClassAPI(c *fiber.Ctx) error {
	var class models.Class
	if err := c.BodyParser(&class); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if err := validate.Struct(&class); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Validation failed", "details": err.Error()})
	}

	if err := database.CreateClass(config.GetDB(), &class); err != nil {
		if errors.Is(err, database.ErrDuplicateClass) {
			return c.Status(409).JSON(fiber.Map{"error": "A class with this name and section already exists for the academic year"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create class"})
	}
	return c.Status(201).JSON(fiber.Map{"class": class})
}

func UpdateClassAPI(c *fiber.Ctx) error {
	existing, err := database.GetClassByID(config.GetDB(), c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Class not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}

	var class models.Class
	if err := c.BodyParser(&class); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	class.ID = existing.ID
	class.AcademicYearID = existing.AcademicYearID
	if err := validate.Struct(&class); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Validation failed", "details": err.Error()})
	}

	if err := database.UpdateClass(config.GetDB(), &class); err != nil {
		if errors.Is(err, database.ErrDuplicateClass) {
			return c.Status(409).JSON(fiber.Map{"error": "A class with this name and section already exists for the academic year"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update class"})
	}
	return c.JSON(fiber.Map{"class": class})
}

func DeleteClassAPI(c *fiber.Ctx) error {
	if err := database.DeleteClass(config.GetDB(), c.Params("id")); err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Class not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete class"})
	}
	return c.JSON(fiber.Map{"message": "Class deleted"})
}
