package analytics

import (
	"strconv"

	"hillview-school/app/database"

	"github.com/gofiber/fiber/v2"
)

// GetTopPerformersAPI ranks students by mean percentage
func GetTopPerformersAPI(c *fiber.Ctx) error {
	termID := c.Query("term_id")
	assessmentTypeID := c.Query("assessment_type_id")
	if termID == "" || assessmentTypeID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "term_id and assessment_type_id are required"})
	}

	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	performers, err := database.GetTopPerformers(db, termID, assessmentTypeID, c.Query("grade_id"), limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to load top performers"})
	}
	return c.JSON(fiber.Map{"top_performers": performers})
}

// GetSubjectPerformanceAPI aggregates average/high/low percentage per subject
func GetSubjectPerformanceAPI(c *fiber.Ctx) error {
	termID := c.Query("term_id")
	assessmentTypeID := c.Query("assessment_type_id")
	if termID == "" || assessmentTypeID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "term_id and assessment_type_id are required"})
	}

	performance, err := database.GetSubjectPerformance(db, termID, assessmentTypeID, c.Query("grade_id"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to load subject performance"})
	}
	return c.JSON(fiber.Map{"subject_performance": performance})
}

// GetClassPerformanceAPI aggregates average percentage per grade/stream
func GetClassPerformanceAPI(c *fiber.Ctx) error {
	termID := c.Query("term_id")
	assessmentTypeID := c.Query("assessment_type_id")
	if termID == "" || assessmentTypeID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "term_id and assessment_type_id are required"})
	}

	performance, err := database.GetClassPerformance(db, termID, assessmentTypeID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to load class performance"})
	}
	return c.JSON(fiber.Map{"class_performance": performance})
}

// GetBandDistributionAPI counts marks per performance band
func GetBandDistributionAPI(c *fiber.Ctx) error {
	termID := c.Query("term_id")
	assessmentTypeID := c.Query("assessment_type_id")
	if termID == "" || assessmentTypeID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "term_id and assessment_type_id are required"})
	}

	distribution, err := database.GetBandDistribution(db, termID, assessmentTypeID, c.Query("grade_id"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to load band distribution"})
	}
	return c.JSON(fiber.Map{"band_distribution": distribution})
}
