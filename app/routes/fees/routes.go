package fees

import (
	"github.com/gofiber/fiber/v2"

	"sunrise-school/app/config"
	"sunrise-school/app/routes/auth"
)

// SetupFeesRoutes sets up the fee tracking routes
func SetupFeesRoutes(app *fiber.App) {
	feesAPI := app.Group("/api/fees")
	feesAPI.Use(auth.AuthMiddleware)

	feesAPI.Post("/monthly-tracking", func(c *fiber.Ctx) error {
		return EnableMonthlyTrackingAPI(c, config.GetDB())
	})

	feesAPI.Get("/monthly-tracking/:studentId", func(c *fiber.Ctx) error {
		return GetMonthlyTrackingAPI(c, config.GetDB())
	})

	feesAPI.Get("/records/:studentId", func(c *fiber.Ctx) error {
		return GetFeeRecordAPI(c, config.GetDB())
	})

	feesAPI.Get("/waiver/:studentId", func(c *fiber.Ctx) error {
		return GetWaiverPreviewAPI(c, config.GetDB())
	})
}
