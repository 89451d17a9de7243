package students

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"sunrise-school/app/database"
)

func GetStudentsAPI(c *fiber.Ctx, db *sql.DB) error {
	classID := c.Query("class_id")
	limit := c.QueryInt("limit", 0)
	offset := c.QueryInt("offset", 0)

	store := database.NewStore(db)
	students, err := store.ListStudents(classID, limit, offset)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch students"})
	}

	return c.JSON(fiber.Map{
		"students": students,
		"count":    len(students),
	})
}

func GetStudentByIDAPI(c *fiber.Ctx, db *sql.DB) error {
	store := database.NewStore(db)
	student, err := store.GetStudentByID(c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Student not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch student"})
	}

	return c.JSON(fiber.Map{"student": student})
}

type linkSiblingRequest struct {
	SiblingStudentID string `json:"sibling_student_id"`
}

// LinkSiblingAPI links two students as siblings. The link is symmetric; the
// waiver takes effect on the next tracking run for either student.
func LinkSiblingAPI(c *fiber.Ctx, db *sql.DB) error {
	studentID := c.Params("id")

	var req linkSiblingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.SiblingStudentID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "sibling_student_id is required"})
	}
	if req.SiblingStudentID == studentID {
		return c.Status(400).JSON(fiber.Map{"error": "A student cannot be their own sibling"})
	}

	store := database.NewStore(db)
	for _, id := range []string{studentID, req.SiblingStudentID} {
		if _, err := store.GetStudentByID(id); err != nil {
			if err == sql.ErrNoRows {
				return c.Status(404).JSON(fiber.Map{"error": "Student not found: " + id})
			}
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch student"})
		}
	}

	link, err := store.CreateSiblingLink(studentID, req.SiblingStudentID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create sibling link"})
	}

	return c.Status(201).JSON(fiber.Map{"sibling_link": link})
}

// UnlinkSiblingAPI deactivates the sibling link in both directions.
func UnlinkSiblingAPI(c *fiber.Ctx, db *sql.DB) error {
	store := database.NewStore(db)
	if err := store.DeactivateSiblingLink(c.Params("id"), c.Params("siblingId")); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to deactivate sibling link"})
	}
	return c.JSON(fiber.Map{"success": true})
}

// GetStudentSiblingsAPI returns the active same-session siblings counted by
// the waiver policy.
func GetStudentSiblingsAPI(c *fiber.Ctx, db *sql.DB) error {
	sessionYearID := c.Query("session_year_id")
	if sessionYearID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "session_year_id query parameter is required"})
	}

	store := database.NewStore(db)
	siblings, err := store.GetActiveSiblings(c.Params("id"), sessionYearID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch siblings"})
	}

	return c.JSON(fiber.Map{
		"siblings": siblings,
		"count":    len(siblings),
	})
}
