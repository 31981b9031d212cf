package dashboard

import (
	"hillview-school/app/config"
	"hillview-school/app/database"
	"hillview-school/app/models"
	"hillview-school/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupDashboardRoutes(app *fiber.App) {
	app.Get("/dashboard", auth.AuthMiddleware, ShowDashboard)

	api := app.Group("/api/dashboard")
	api.Use(auth.AuthMiddleware)
	api.Get("/stats", GetDashboardStatsAPI)
}

// ShowDashboard renders the dashboard matching the caller's role
func ShowDashboard(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	db := config.GetDB()

	base := fiber.Map{
		"CurrentPage": "dashboard",
		"FirstName":   user.FirstName,
		"LastName":    user.LastName,
		"Email":       user.Email,
		"user":        user,
	}

	switch {
	case user.HasRole(models.RoleHeadteacher) || user.HasRole(models.RoleAdmin):
		stats, err := database.GetHeadteacherStats(db)
		if err != nil {
			stats = map[string]interface{}{}
		}
		recent, _ := database.GetRecentMarks(db, 10)
		base["Title"] = "Headteacher Dashboard - Hillview School"
		base["Stats"] = stats
		base["RecentMarks"] = recent
		return c.Render("dashboard/headteacher", base)

	case user.HasRole(models.RoleClassTeacher):
		base["Title"] = "Class Teacher Dashboard - Hillview School"
		stream, err := database.GetClassTeacherStream(db, user.ID)
		if err == nil {
			base["Stream"] = stream
			stats, _ := database.GetClassTeacherStats(db, stream.ID)
			base["Stats"] = stats
		}
		return c.Render("dashboard/classteacher", base)

	default:
		base["Title"] = "Teacher Dashboard - Hillview School"
		stats, _ := database.GetSubjectTeacherStats(db, user.ID)
		base["Stats"] = stats
		subjects, _ := database.GetTeacherSubjects(db, user.ID)
		base["Subjects"] = subjects
		streams, _ := database.GetTeacherStreams(db, user.ID)
		base["Streams"] = streams
		return c.Render("dashboard/teacher", base)
	}
}
