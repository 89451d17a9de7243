package students

import (
	"github.com/gofiber/fiber/v2"

	"sunrise-school/app/config"
	"sunrise-school/app/routes/auth"
)

// SetupStudentsRoutes sets up the student directory routes
func SetupStudentsRoutes(app *fiber.App) {
	studentsAPI := app.Group("/api/students")
	studentsAPI.Use(auth.AuthMiddleware)

	studentsAPI.Get("/", func(c *fiber.Ctx) error {
		return GetStudentsAPI(c, config.GetDB())
	})

	studentsAPI.Get("/:id", func(c *fiber.Ctx) error {
		return GetStudentByIDAPI(c, config.GetDB())
	})

	studentsAPI.Get("/:id/siblings", func(c *fiber.Ctx) error {
		return GetStudentSiblingsAPI(c, config.GetDB())
	})

	studentsAPI.Post("/:id/siblings", func(c *fiber.Ctx) error {
		return LinkSiblingAPI(c, config.GetDB())
	})

	studentsAPI.Delete("/:id/siblings/:siblingId", func(c *fiber.Ctx) error {
		return UnlinkSiblingAPI(c, config.GetDB())
	})
}
