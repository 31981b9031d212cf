package teachers

import (
	"hillview-school/app/config"
	"hillview-school/app/database"
	"hillview-school/app/models"
	"hillview-school/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupTeachersRoutes(app *fiber.App) {
	manage := auth.RoleMiddleware(models.RoleHeadteacher, models.RoleAdmin)

	app.Get("/teachers", auth.AuthMiddleware, manage, ShowTeachersPage)

	api := app.Group("/api/teachers")
	api.Use(auth.AuthMiddleware)
	api.Get("/", GetTeachersAPI)
	api.Get("/:id/assignments", GetTeacherAssignmentsAPI)
	api.Post("/", manage, CreateTeacherAPI)
	api.Put("/:id", manage, UpdateTeacherAPI)
	api.Delete("/:id", manage, DeleteTeacherAPI)
}

func ShowTeachersPage(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	db := config.GetDB()

	counts, _ := database.GetTeacherCountsByRole(db)
	subjects, _ := database.GetAllSubjects(db)
	grades, _ := database.GetAllGrades(db)

	return c.Render("teachers/index", fiber.Map{
		"Title":       "Teachers - Hillview School",
		"CurrentPage": "teachers",
		"FirstName":   user.FirstName,
		"LastName":    user.LastName,
		"Email":       user.Email,
		"user":        user,
		"RoleCounts":  counts,
		"Subjects":    subjects,
		"Grades":      grades,
	})
}
