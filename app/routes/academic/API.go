package academic

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"sunrise-school/app/database"
)

func GetSessionYearsAPI(c *fiber.Ctx, db *sql.DB) error {
	store := database.NewStore(db)
	years, err := store.ListSessionYears()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch session years"})
	}

	return c.JSON(fiber.Map{
		"session_years": years,
		"count":         len(years),
	})
}

func GetCurrentSessionYearAPI(c *fiber.Ctx, db *sql.DB) error {
	store := database.NewStore(db)
	year, err := store.GetCurrentSessionYear()
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "No current session year configured"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch current session year"})
	}

	return c.JSON(fiber.Map{"session_year": year})
}
