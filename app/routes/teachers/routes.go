package teachers

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

func SetupTeacherRoutes(app *fiber.App) {
	api := app.Group("/api/teachers", auth.AuthMiddleware)

	admin := auth.RequireRole(models.RoleAdmin)

	api.Get("/", ListTeachersAPI)
	api.Get("/:id", GetTeacherAPI)
	api.Post("/", admin, CreateTeacherAPI)
	api.Put("/:id", admin, UpdateTeacherAPI)
	api.Delete("/:id", admin, DeleteTeacherAPI)
}

func ListTeachersAPI(c *fiber.Ctx) error {
	teachers, err := database.GetAllTeachers(config.GetDB())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch teachers"})
	}
	return c.JSON(fiber.Map{"teachers": teachers})
}

func GetTeacherAPI(c *fiber.Ctx) error {
	teacher, err := database.GetTeacherByID(config.GetDB(), c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Teacher not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(fiber.Map{"teacher": teacher})
}

func CreateTeacherAPI(c *fiber.Ctx) error {
	var teacher models.Teacher
	if err := c.BodyParser(&teacher); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if err := validate.Struct(&teacher); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Validation failed", "details": err.Error()})
	}
	teacher.IsActive = true

	if err := database.CreateTeacher(config.GetDB(), &teacher); err != nil {
		if errors.Is(err, database.ErrDuplicateTeacher) {
			return c.Status(409).JSON(fiber.Map{"error": "A teacher with this employee ID or email already exists"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create teacher"})
	}
	return c.Status(201).JSON(fiber.Map{"teacher": teacher})
}

func UpdateTeacherAPI(c *fiber.Ctx) error {
	existing, err := database.GetTeacherByID(config.GetDB(), c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Teacher not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}

	var teacher models.Teacher
	if err := c.BodyParser(&teacher); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	teacher.ID = existing.ID
	teacher.EmployeeID = existing.EmployeeID
	if err := validate.Struct(&teacher); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Validation failed", "details": err.Error()})
	}

	if err := database.UpdateTeacher(config.GetDB(), &teacher); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update teacher"})
	}
	return c.JSON(fiber.Map{"teacher": teacher})
}

func DeleteTeacherAPI(c *fiber.Ctx) error {
	if err := database.DeleteTeacher(config.GetDB(), c.Params("id")); err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Teacher not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete teacher"})
	}
	return c.JSON(fiber.Map{"message": "Teacher deleted"})
}
