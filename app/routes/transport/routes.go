package transport

import (
	"github.com/gofiber/fiber/v2"

	"sunrise-school/app/config"
	"sunrise-school/app/routes/auth"
)

// SetupTransportRoutes sets up the transport fee tracking routes
func SetupTransportRoutes(app *fiber.App) {
	transportAPI := app.Group("/api/transport")
	transportAPI.Use(auth.AuthMiddleware)

	transportAPI.Post("/monthly-tracking", func(c *fiber.Ctx) error {
		return EnableTransportTrackingAPI(c, config.GetDB())
	})

	transportAPI.Get("/monthly-tracking/:enrollmentId", func(c *fiber.Ctx) error {
		return GetTransportTrackingAPI(c, config.GetDB())
	})
}
