package students

import (
	"database/sql"
	"strconv"

	"school-admin/app/config"
	"school-admin/app/database"
	"school-admin/app/models"
	"school-admin/app/routes/auth"
	"school-admin/app/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

func SetupStudentRoutes(app *fiber.App) {
	api := app.Group("/api/students", auth.AuthMiddleware)

	staff := auth.RequireRole(models.RoleAdmin, models.RoleAccountant)

	api.Get("/", ListStudentsAPI)
	api.Get("/:id", GetStudentAPI)
	api.Post("/", staff, CreateStudentAPI)
	api.Put("/:id", staff, UpdateStudentAPI)
	api.Delete("/:id", auth.RequireRole(models.RoleAdmin), DeleteStudentAPI)
}

func ListStudentsAPI(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	students, err := database.ListStudents(config.GetDB(), database.StudentFilters{
		AcademicYearID: c.Query("academic_year_id"),
		ClassID:        c.Query("class_id"),
		Status:         c.Query("status"),
		Search:         c.Query("search"),
		Limit:          limit,
		Offset:         offset,
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch students"})
	}
	return c.JSON(fiber.Map{"students": students})
}

func GetStudentAPI(c *fiber.Ctx) error {
	student, err := database.GetStudentByID(config.GetDB(), c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Student not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(fiber.Map{"student": student})
}

// CreateStudentAPI enrolls a new student. If the student lands in a class
// with a fee configuration for their academic year, the full installment
// set is generated immediately; a failure there never blocks enrollment.
func CreateStudentAPI(c *fiber.Ctx) error {
	var student models.Student
	if err := c.BodyParser(&student); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if err := validate.Struct(&student); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Validation failed", "details": err.Error()})
	}

	if student.AdmissionNumber == "" {
		number, err := database.NextAdmissionNumber(config.GetDB())
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to generate admission number"})
		}
		student.AdmissionNumber = number
	}
	if student.Status == "" {
		student.Status = models.StudentActive
	}

	if err := database.CreateStudent(config.GetDB(), &student); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create student"})
	}

	engine := services.NewFeeEngine(services.NewDBFeeStore(config.GetDB()))
	engine.AutoGenerateFees(student.ID, student.AcademicYearID, student.ClassID)

	return c.Status(201).JSON(fiber.Map{"student": student})
}

func UpdateStudentAPI(c *fiber.Ctx) error {
	existing, err := database.GetStudentByID(config.GetDB(), c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Student not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}

	enrolledBefore := existing.ClassID != nil && existing.AcademicYearID != nil

	var student models.Student
	if err := c.BodyParser(&student); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	student.ID = existing.ID
	student.AdmissionNumber = existing.AdmissionNumber
	if student.Status == "" {
		student.Status = existing.Status
	}
	if err := validate.Struct(&student); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Validation failed", "details": err.Error()})
	}

	if err := database.UpdateStudent(config.GetDB(), &student); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update student"})
	}

	// First-time enrollment into a class also sets up fees.
	if !enrolledBefore && student.ClassID != nil && student.AcademicYearID != nil {
		engine := services.NewFeeEngine(services.NewDBFeeStore(config.GetDB()))
		engine.AutoGenerateFees(student.ID, student.AcademicYearID, student.ClassID)
	}

	return c.JSON(fiber.Map{"student": student})
}

func DeleteStudentAPI(c *fiber.Ctx) error {
	if err := database.DeleteStudent(config.GetDB(), c.Params("id")); err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Student not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete student"})
	}
	return c.JSON(fiber.Map{"message": "Student deleted"})
}
