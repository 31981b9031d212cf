package reports

import (
	"database/sql"

	"hillview-school/app/config"
	"hillview-school/app/database"
	"hillview-school/app/models"
	"hillview-school/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

var db *sql.DB

func SetupReportsRoutes(app *fiber.App, conn *sql.DB) {
	db = conn

	app.Get("/reports", auth.AuthMiddleware, ShowReportsPage)

	api := app.Group("/api/reports")
	api.Use(auth.AuthMiddleware)
	api.Get("/student/:id", GetStudentReportAPI)
	api.Get("/student/:id/pdf", DownloadStudentReportPDF)
	api.Get("/class/:id", GetClassReportAPI)
	api.Get("/class/:id/pdf", DownloadClassReportPDF)
	api.Get("/marksheet/:id", GetMarksheetAPI)
}

func ShowReportsPage(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	conn := config.GetDB()

	grades, _ := database.GetAllGrades(conn)
	terms, _ := database.GetAllTerms(conn)
	types, _ := database.GetAllAssessmentTypes(conn)

	return c.Render("reports/index", fiber.Map{
		"Title":           "Reports - Hillview School",
		"CurrentPage":     "reports",
		"FirstName":       user.FirstName,
		"LastName":        user.LastName,
		"Email":           user.Email,
		"user":            user,
		"Grades":          grades,
		"Terms":           terms,
		"AssessmentTypes": types,
	})
}
