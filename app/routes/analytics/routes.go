package analytics

import (
	"database/sql"

	"hillview-school/app/config"
	"hillview-school/app/database"
	"hillview-school/app/models"
	"hillview-school/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

var db *sql.DB

func SetupAnalyticsRoutes(app *fiber.App, conn *sql.DB) {
	db = conn

	app.Get("/analytics", auth.AuthMiddleware,
		auth.RoleMiddleware(models.RoleHeadteacher, models.RoleAdmin), ShowAnalyticsPage)

	api := app.Group("/api/analytics")
	api.Use(auth.AuthMiddleware)
	api.Get("/top-performers", GetTopPerformersAPI)
	api.Get("/subject-performance", GetSubjectPerformanceAPI)
	api.Get("/class-performance", GetClassPerformanceAPI)
	api.Get("/band-distribution", GetBandDistributionAPI)
}

func ShowAnalyticsPage(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	conn := config.GetDB()

	grades, _ := database.GetAllGrades(conn)
	terms, _ := database.GetAllTerms(conn)
	types, _ := database.GetAllAssessmentTypes(conn)

	return c.Render("analytics/index", fiber.Map{
		"Title":           "Analytics - Hillview School",
		"CurrentPage":     "analytics",
		"FirstName":       user.FirstName,
		"LastName":        user.LastName,
		"Email":           user.Email,
		"user":            user,
		"Grades":          grades,
		"Terms":           terms,
		"AssessmentTypes": types,
	})
}
