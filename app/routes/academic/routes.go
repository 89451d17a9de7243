package academic

import (
	"github.com/gofiber/fiber/v2"

	"sunrise-school/app/config"
	"sunrise-school/app/routes/auth"
)

// SetupAcademicRoutes sets up the session year routes
func SetupAcademicRoutes(app *fiber.App) {
	academicAPI := app.Group("/api/session-years")
	academicAPI.Use(auth.AuthMiddleware)

	academicAPI.Get("/", func(c *fiber.Ctx) error {
		return GetSessionYearsAPI(c, config.GetDB())
	})

	academicAPI.Get("/current", func(c *fiber.Ctx) error {
		return GetCurrentSessionYearAPI(c, config.GetDB())
	})
}
