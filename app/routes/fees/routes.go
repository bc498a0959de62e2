package fees

import (
	"school-admin/app/models"
	"school-admin/app/routes/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

func SetupFeeRoutes(app *fiber.App) {
	api := app.Group("/api/fees", auth.AuthMiddleware)

	money := auth.RequireRole(models.RoleAdmin, models.RoleAccountant)
	admin := auth.RequireRole(models.RoleAdmin)

	// Fee configurations (class-level templates)
	configs := api.Group("/configurations")
	configs.Get("/", ListFeeConfigurationsAPI)
	configs.Get("/:id", GetFeeConfigurationAPI)
	configs.Post("/", money, CreateFeeConfigurationAPI)
	configs.Put("/:id", money, UpdateFeeConfigurationAPI)
	configs.Delete("/:id", admin, DeleteFeeConfigurationAPI)
	configs.Post("/:id/generate-fees", money, GenerateFeesForClassAPI)

	// Fee installments (per-student obligations)
	installments := api.Group("/installments")
	installments.Get("/", ListInstallmentsAPI)
	installments.Get("/student/:studentId/summary", StudentFeeSummaryAPI)
	installments.Post("/generate", money, GenerateForStudentAPI)
	installments.Post("/fix-existing", admin, FixExistingInstallmentsAPI)
	installments.Get("/:id", GetInstallmentAPI)
	installments.Get("/:id/payments", InstallmentPaymentsAPI)
	installments.Put("/:id", admin, UpdateInstallmentAPI)
	installments.Delete("/:id", admin, DeleteInstallmentAPI)
	installments.Post("/:id/payment", money, ProcessPaymentAPI)
	installments.Post("/:id/discount", money, ApplyDiscountAPI)
	installments.Post("/:id/skip", money, SkipInstallmentAPI)
	installments.Post("/:id/unskip", money, UnskipInstallmentAPI)
}
