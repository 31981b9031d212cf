package reports

import (
	"database/sql"

	"hillview-school/app/database"

	"github.com/gofiber/fiber/v2"
)

// GetStudentReportAPI returns an individual report with stream position
func GetStudentReportAPI(c *fiber.Ctx) error {
	termID := c.Query("term_id")
	assessmentTypeID := c.Query("assessment_type_id")
	if termID == "" || assessmentTypeID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "term_id and assessment_type_id are required"})
	}

	report, err := database.GetStudentReport(db, c.Params("id"), termID, assessmentTypeID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Student not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to build report"})
	}
	return c.JSON(report)
}

// GetClassReportAPI returns the ranked class report for a stream
func GetClassReportAPI(c *fiber.Ctx) error {
	termID := c.Query("term_id")
	assessmentTypeID := c.Query("assessment_type_id")
	if termID == "" || assessmentTypeID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "term_id and assessment_type_id are required"})
	}

	stream, err := database.GetStreamByID(db, c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Stream not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}

	rows, err := database.GetClassReport(db, stream.ID, termID, assessmentTypeID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to build report"})
	}

	return c.JSON(fiber.Map{
		"stream": stream,
		"rows":   rows,
	})
}

// GetMarksheetAPI returns the students-by-subjects grid for a stream
func GetMarksheetAPI(c *fiber.Ctx) error {
	termID := c.Query("term_id")
	assessmentTypeID := c.Query("assessment_type_id")
	if termID == "" || assessmentTypeID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "term_id and assessment_type_id are required"})
	}

	marksheet, err := database.GetMarksheet(db, c.Params("id"), termID, assessmentTypeID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Stream not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to build marksheet"})
	}
	return c.JSON(marksheet)
}
