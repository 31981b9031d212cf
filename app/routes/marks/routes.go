package marks

import (
	"database/sql"

	"hillview-school/app/config"
	"hillview-school/app/database"
	"hillview-school/app/models"
	"hillview-school/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

var db *sql.DB

func SetupMarksRoutes(app *fiber.App, conn *sql.DB) {
	db = conn

	app.Get("/marks", auth.AuthMiddleware, ShowMarksEntryPage)

	api := app.Group("/api/marks")
	api.Use(auth.AuthMiddleware)
	api.Get("/sheet", GetEntrySheetAPI)
	api.Get("/template", DownloadMarksTemplateAPI)
	api.Post("/upload", UploadMarksAPI)
	api.Post("/batch", BatchSaveMarksAPI)
	api.Post("/", SaveMarkAPI)
	api.Get("/:id", GetMarkAPI)
	api.Delete("/:id", auth.RoleMiddleware(models.RoleHeadteacher, models.RoleAdmin), DeleteMarkAPI)
}

func ShowMarksEntryPage(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	conn := config.GetDB()

	grades, _ := database.GetAllGrades(conn)
	terms, _ := database.GetAllTerms(conn)
	types, _ := database.GetAllAssessmentTypes(conn)

	// Subject teachers only see their own subjects and streams
	var subjects []*models.Subject
	if user.HasRole(models.RoleHeadteacher) || user.HasRole(models.RoleAdmin) {
		subjects, _ = database.GetAllSubjects(conn)
	} else {
		subjects, _ = database.GetTeacherSubjects(conn, user.ID)
	}

	return c.Render("marks/entry", fiber.Map{
		"Title":           "Marks Entry - Hillview School",
		"CurrentPage":     "marks",
		"FirstName":       user.FirstName,
		"LastName":        user.LastName,
		"Email":           user.Email,
		"user":            user,
		"Grades":          grades,
		"Terms":           terms,
		"AssessmentTypes": types,
		"Subjects":        subjects,
	})
}
