package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"sunrise-school/app/config"
	"sunrise-school/app/database"
	"sunrise-school/app/routes/academic"
	"sunrise-school/app/routes/auth"
	"sunrise-school/app/routes/fees"
	"sunrise-school/app/routes/students"
	"sunrise-school/app/routes/transport"
	"sunrise-school/app/services"
)

// customErrorHandler turns errors into the API's JSON error shape
func customErrorHandler(c *fiber.Ctx, err error) error {
	// Status code defaults to 500
	code := fiber.StatusInternalServerError
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
	config.InitDB()
	defer config.GetDB().Close()

	// Run database migrations
	if err := database.RunMigrations(config.GetDB()); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Start background scheduler for nightly waiver recomputation
	services.StartScheduler(database.NewStore(config.GetDB()))

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New())

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Routes
	auth.SetupAuthRoutes(app)
	academic.SetupAcademicRoutes(app)
	students.SetupStudentsRoutes(app)
	fees.SetupFeesRoutes(app)
	transport.SetupTransportRoutes(app)

	log.Println("Starting server on :8080")
	log.Fatal(app.Listen(":8080"))
}
