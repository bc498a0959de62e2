package main

import (
	"log"
	"school-admin/app/config"
	"school-admin/app/database"
	"school-admin/app/routes/academic"
	"school-admin/app/routes/attendance"
	"school-admin/app/routes/auth"
	"school-admin/app/routes/classes"
	"school-admin/app/routes/dashboard"
	"school-admin/app/routes/fees"
	"school-admin/app/routes/reports"
	"school-admin/app/routes/students"
	"school-admin/app/routes/teachers"
	"school-admin/app/routes/users"
	"school-admin/app/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// customErrorHandler renders every unhandled error as JSON
func customErrorHandler(c *fiber.Ctx, err error) error {
	// Status code defaults to 500
	code := fiber.StatusInternalServerError

	// Retrieve the custom status code if it's a *fiber.Error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
		"code":    code,
	})
}

func main() {
	// Initialize database
	config.Load()
	defer config.GetDB().Close()

	// Run database migrations
	if err := database.RunMigrations(config.GetDB()); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Start background scheduler
	services.StartScheduler(config.GetDB())

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New())

	// Receipt images
	app.Static("/uploads", config.UploadDir())

	// Routes
	auth.SetupAuthRoutes(app)
	users.SetupUserRoutes(app)
	academic.SetupAcademicRoutes(app)
	students.SetupStudentRoutes(app)
	teachers.SetupTeacherRoutes(app)
	classes.SetupClassRoutes(app)
	fees.SetupFeeRoutes(app)
	attendance.SetupAttendanceRoutes(app)
	reports.SetupReportRoutes(app)
	dashboard.SetupDashboardRoutes(app)

	// Catch-all route for 404 errors (must be last)
	app.Use("*", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Not found")
	})

	// Start server
	log.Println("Server starting on", config.AppConfig.ListenAddr)
	log.Fatal(app.Listen(config.AppConfig.ListenAddr))
}
