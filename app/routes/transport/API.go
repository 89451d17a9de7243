package transport

import (
	"database/sql"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"sunrise-school/app/database"
	"sunrise-school/app/services"
)

type EnableTransportRequest struct {
	EnrollmentID string `json:"enrollment_id"`
	StartMonth   int    `json:"start_month"`
	StartYear    int    `json:"start_year"`
}

// EnableTransportTrackingAPI generates or refreshes the transport billing
// rows for one enrollment and reports how many rows were touched.
func EnableTransportTrackingAPI(c *fiber.Ctx, db *sql.DB) error {
	var req EnableTransportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}
	if req.EnrollmentID == "" {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Enrollment ID is required",
		})
	}

	svc := services.NewTrackingService(database.NewStore(db))
	result, err := svc.EnableTransportTracking(req.EnrollmentID, req.StartMonth, req.StartYear)
	if err != nil {
		log.Printf("Transport tracking failed for enrollment %s: %v", req.EnrollmentID, err)
		status := 500
		if strings.Contains(err.Error(), "not found") {
			status = 404
		}
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    result,
	})
}

// GetTransportTrackingAPI returns the rows currently billed under one
// enrollment.
func GetTransportTrackingAPI(c *fiber.Ctx, db *sql.DB) error {
	enrollmentID := c.Params("enrollmentId")

	store := database.NewStore(db)
	rows, err := store.GetTransportTrackingByEnrollment(enrollmentID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to fetch transport tracking",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(rows),
		"data":    rows,
	})
}
