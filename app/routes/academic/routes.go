package academic

import (
	"hillview-school/app/config"
	"hillview-school/app/database"
	"hillview-school/app/models"
	"hillview-school/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAcademicRoutes(app *fiber.App) {
	manage := auth.RoleMiddleware(models.RoleHeadteacher, models.RoleAdmin)

	app.Get("/academic", auth.AuthMiddleware, manage, ShowAcademicPage)

	grades := app.Group("/api/grades")
	grades.Use(auth.AuthMiddleware)
	grades.Get("/", GetGradesAPI)
	grades.Post("/", manage, CreateGradeAPI)
	grades.Put("/:id", manage, UpdateGradeAPI)
	grades.Delete("/:id", manage, DeleteGradeAPI)
	grades.Get("/:id/streams", GetStreamsAPI)
	grades.Post("/:id/streams", manage, CreateStreamAPI)
	grades.Put("/:id/streams/:streamId", manage, UpdateStreamAPI)
	grades.Delete("/:id/streams/:streamId", manage, DeleteStreamAPI)

	terms := app.Group("/api/terms")
	terms.Use(auth.AuthMiddleware)
	terms.Get("/", GetTermsAPI)
	terms.Get("/current", GetCurrentTermAPI)
	terms.Post("/", manage, CreateTermAPI)
	terms.Put("/:id", manage, UpdateTermAPI)
	terms.Delete("/:id", manage, DeleteTermAPI)

	types := app.Group("/api/assessment-types")
	types.Use(auth.AuthMiddleware)
	types.Get("/", GetAssessmentTypesAPI)
	types.Post("/", manage, CreateAssessmentTypeAPI)
	types.Put("/:id", manage, UpdateAssessmentTypeAPI)
	types.Delete("/:id", manage, DeleteAssessmentTypeAPI)
}

func ShowAcademicPage(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	db := config.GetDB()

	grades, _ := database.GetAllGrades(db)
	terms, _ := database.GetAllTerms(db)
	types, _ := database.GetAllAssessmentTypes(db)
	teachers, _ := database.GetAllTeachers(db)

	return c.Render("academic/index", fiber.Map{
		"Title":           "Academic Setup - Hillview School",
		"CurrentPage":     "academic",
		"FirstName":       user.FirstName,
		"LastName":        user.LastName,
		"Email":           user.Email,
		"user":            user,
		"Grades":          grades,
		"Terms":           terms,
		"AssessmentTypes": types,
		"Teachers":        teachers,
	})
}
