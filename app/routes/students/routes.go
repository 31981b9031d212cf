package students

import (
	"hillview-school/app/config"
	"hillview-school/app/database"
	"hillview-school/app/models"
	"hillview-school/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupStudentsRoutes(app *fiber.App) {
	app.Get("/students", auth.AuthMiddleware, ShowStudentsPage)

	api := app.Group("/api/students")
	api.Use(auth.AuthMiddleware)
	api.Get("/", GetStudentsAPI)
	api.Get("/import-template", DownloadImportTemplateAPI)
	api.Post("/import", auth.RoleMiddleware(models.RoleHeadteacher, models.RoleAdmin), ImportStudentsAPI)
	api.Get("/stream/:id", GetStudentsByStreamAPI)
	api.Get("/:id", GetStudentAPI)
	api.Post("/", auth.RoleMiddleware(models.RoleHeadteacher, models.RoleAdmin), CreateStudentAPI)
	api.Put("/:id", auth.RoleMiddleware(models.RoleHeadteacher, models.RoleAdmin), UpdateStudentAPI)
	api.Delete("/:id", auth.RoleMiddleware(models.RoleHeadteacher, models.RoleAdmin), DeleteStudentAPI)
}

func ShowStudentsPage(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	db := config.GetDB()

	stats, _ := database.GetStudentsStats(db)
	grades, _ := database.GetAllGrades(db)

	return c.Render("students/index", fiber.Map{
		"Title":       "Students - Hillview School",
		"CurrentPage": "students",
		"FirstName":   user.FirstName,
		"LastName":    user.LastName,
		"Email":       user.Email,
		"user":        user,
		"Stats":       stats,
		"Grades":      grades,
	})
}
