package fees

import (
	"database/sql"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"sunrise-school/app/database"
	"sunrise-school/app/services"
)

// EnableMonthlyTrackingAPI runs the batch fee tracking engine over a list of
// students. Per-student failures come back inside the result list; only an
// unresolvable session year fails the call as a whole.
func EnableMonthlyTrackingAPI(c *fiber.Ctx, db *sql.DB) error {
	var req services.EnableTrackingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}
	if len(req.StudentIDs) == 0 {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "At least one student ID is required",
		})
	}
	if req.SessionYearID == "" {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Session year ID is required",
		})
	}

	svc := services.NewTrackingService(database.NewStore(db))
	results, err := svc.EnableMonthlyTracking(req)
	if err != nil {
		log.Printf("Monthly tracking batch failed: %v", err)
		status := 500
		if strings.Contains(err.Error(), "not found") {
			status = 404
		}
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	succeeded := 0
	for _, r := range results {
		if r.Success {
			succeeded++
		}
	}
	log.Printf("Monthly tracking batch finished: %d/%d students succeeded", succeeded, len(results))

	return c.JSON(fiber.Map{
		"success":   true,
		"total":     len(results),
		"succeeded": succeeded,
		"failed":    len(results) - succeeded,
		"results":   results,
	})
}

// GetMonthlyTrackingAPI returns a student's monthly obligation rows for a
// session year.
func GetMonthlyTrackingAPI(c *fiber.Ctx, db *sql.DB) error {
	studentID := c.Params("studentId")
	sessionYearID := c.Query("session_year_id")
	if sessionYearID == "" {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "session_year_id query parameter is required",
		})
	}

	store := database.NewStore(db)
	rows, err := store.GetMonthlyTracking(studentID, sessionYearID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to fetch monthly tracking",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(rows),
		"data":    rows,
	})
}

// GetFeeRecordAPI returns the annual ledger record for a student.
func GetFeeRecordAPI(c *fiber.Ctx, db *sql.DB) error {
	studentID := c.Params("studentId")
	sessionYearID := c.Query("session_year_id")
	if sessionYearID == "" {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "session_year_id query parameter is required",
		})
	}

	store := database.NewStore(db)
	rec, err := store.GetFeeRecord(studentID, sessionYearID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{
				"success": false,
				"error":   "Fee record not found",
			})
		}
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to fetch fee record",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    rec,
	})
}

// GetWaiverPreviewAPI reports what the sibling waiver policy would grant a
// student, without writing anything.
func GetWaiverPreviewAPI(c *fiber.Ctx, db *sql.DB) error {
	studentID := c.Params("studentId")
	sessionYearID := c.Query("session_year_id")
	if sessionYearID == "" {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "session_year_id query parameter is required",
		})
	}

	svc := services.NewTrackingService(database.NewStore(db))
	preview, err := svc.PreviewWaiver(studentID, sessionYearID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{
				"success": false,
				"error":   "Student not found",
			})
		}
		return c.Status(500).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to compute waiver",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    preview,
	})
}
