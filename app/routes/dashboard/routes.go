package dashboard

import (
	"school-admin/app/config"
	"school-admin/app/database"
	"school-admin/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupDashboardRoutes(app *fiber.App) {
	api := app.Group("/api/dashboard", auth.AuthMiddleware)

	api.Get("/stats", StatsAPI)
}

func StatsAPI(c *fiber.Ctx) error {
	stats := database.GetDashboardStats(config.GetDB())
	return c.JSON(fiber.Map{"stats": stats})
}
