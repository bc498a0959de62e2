package attendance

import (
	"strconv"
	"time"

	"school-admin/app/config"
	"school-admin/app/database"
	"school-admin/app/models"
	"school-admin/app/routes/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

func SetupAttendanceRoutes(app *fiber.App) {
	api := app.Group("/api/attendance", auth.AuthMiddleware)

	staff := auth.RequireRole(models.RoleAdmin, models.RoleTeacher)

	api.Post("/mark", staff, MarkAttendanceAPI)
	api.Get("/class/:classId", ClassAttendanceAPI)
	api.Get("/class/:classId/summary", MonthlySummaryAPI)
}

// MarkAttendanceAPI records attendance for a batch of students on one
// date. Marking a student twice for the same date overwrites the earlier
// status.
func MarkAttendanceAPI(c *fiber.Ctx) error {
	type Entry struct {
		StudentID string  `json:"student_id" validate:"required,uuid"`
		Status    string  `json:"status" validate:"required,oneof=present absent late halfDay sickLeave authorizedLeave"`
		Remarks   *string `json:"remarks"`
	}
	type MarkRequest struct {
		ClassID        string  `json:"class_id" validate:"required,uuid"`
		AcademicYearID string  `json:"academic_year_id" validate:"required,uuid"`
		Date           string  `json:"date" validate:"required"`
		Entries        []Entry `json:"entries" validate:"required,min=1,dive"`
	}

	var req MarkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Validation failed", "details": err.Error()})
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "date must be YYYY-MM-DD"})
	}

	markedBy := c.Locals("user_id").(string)
	marked := 0
	var failures []string

	for _, entry := range req.Entries {
		a := &models.Attendance{
			StudentID:      entry.StudentID,
			ClassID:        req.ClassID,
			AcademicYearID: req.AcademicYearID,
			Date:           models.CustomTime{Time: date},
			Status:         models.AttendanceStatus(entry.Status),
			MarkedBy:       markedBy,
			Remarks:        entry.Remarks,
		}
		if err := database.UpsertAttendance(config.GetDB(), a); err != nil {
			failures = append(failures, entry.StudentID)
			continue
		}
		marked++
	}

	return c.JSON(fiber.Map{
		"message":  "Attendance recorded",
		"marked":   marked,
		"failures": failures,
	})
}

func ClassAttendanceAPI(c *fiber.Ctx) error {
	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "date query parameter must be YYYY-MM-DD"})
	}

	records, err := database.GetAttendanceByClassAndDate(config.GetDB(), c.Params("classId"), date)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch attendance"})
	}
	return c.JSON(fiber.Map{"attendance": records})
}

func MonthlySummaryAPI(c *fiber.Ctx) error {
	now := time.Now()
	month, err := strconv.Atoi(c.Query("month", strconv.Itoa(int(now.Month()))))
	if err != nil || month < 1 || month > 12 {
		return c.Status(400).JSON(fiber.Map{"error": "month must be 1-12"})
	}
	year, err := strconv.Atoi(c.Query("year", strconv.Itoa(now.Year())))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "year must be a number"})
	}

	summaries, err := database.GetMonthlyAttendanceSummary(config.GetDB(), c.Params("classId"), month, year)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to build attendance summary"})
	}
	return c.JSON(fiber.Map{"summaries": summaries})
}
