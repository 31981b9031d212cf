package subjects

import (
	"hillview-school/app/config"
	"hillview-school/app/database"
	"hillview-school/app/models"
	"hillview-school/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupSubjectsRoutes(app *fiber.App) {
	manage := auth.RoleMiddleware(models.RoleHeadteacher, models.RoleAdmin)

	app.Get("/subjects", auth.AuthMiddleware, ShowSubjectsPage)

	api := app.Group("/api/subjects")
	api.Use(auth.AuthMiddleware)
	api.Get("/", GetSubjectsAPI)
	api.Get("/:id", GetSubjectAPI)
	api.Post("/", manage, CreateSubjectAPI)
	api.Put("/:id", manage, UpdateSubjectAPI)
	api.Delete("/:id", manage, DeleteSubjectAPI)

	api.Get("/:id/components", GetComponentsAPI)
	api.Post("/:id/components", manage, CreateComponentAPI)
	api.Put("/:id/components/:componentId", manage, UpdateComponentAPI)
	api.Delete("/:id/components/:componentId", manage, DeleteComponentAPI)
}

func ShowSubjectsPage(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	subjects, _ := database.GetAllSubjects(config.GetDB())

	return c.Render("subjects/index", fiber.Map{
		"Title":       "Subjects - Hillview School",
		"CurrentPage": "subjects",
		"FirstName":   user.FirstName,
		"LastName":    user.LastName,
		"Email":       user.Email,
		"user":        user,
		"Subjects":    subjects,
	})
}
