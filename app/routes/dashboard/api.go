package dashboard

import (
	"hillview-school/app/config"
	"hillview-school/app/database"
	"hillview-school/app/models"

	"github.com/gofiber/fiber/v2"
)

// GetDashboardStatsAPI returns the stats payload for the caller's role
func GetDashboardStatsAPI(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	db := config.GetDB()

	switch {
	case user.HasRole(models.RoleHeadteacher) || user.HasRole(models.RoleAdmin):
		stats, err := database.GetHeadteacherStats(db)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to load dashboard stats"})
		}
		recent, _ := database.GetRecentMarks(db, 10)
		return c.JSON(fiber.Map{"role": models.RoleHeadteacher, "stats": stats, "recent_marks": recent})

	case user.HasRole(models.RoleClassTeacher):
		stream, err := database.GetClassTeacherStream(db, user.ID)
		if err != nil {
			return c.Status(404).JSON(fiber.Map{"error": "No stream assigned to this class teacher"})
		}
		stats, err := database.GetClassTeacherStats(db, stream.ID)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to load dashboard stats"})
		}
		return c.JSON(fiber.Map{"role": models.RoleClassTeacher, "stream": stream, "stats": stats})

	default:
		stats, err := database.GetSubjectTeacherStats(db, user.ID)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to load dashboard stats"})
		}
		subjects, _ := database.GetTeacherSubjects(db, user.ID)
		streams, _ := database.GetTeacherStreams(db, user.ID)
		return c.JSON(fiber.Map{
			"role":     models.RoleTeacher,
			"stats":    stats,
			"subjects": subjects,
			"streams":  streams,
		})
	}
}
