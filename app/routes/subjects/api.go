package subjects

import (
	"database/sql"

	"hillview-school/app/config"
	"hillview-school/app/database"
	"hillview-school/app/models"
	"hillview-school/app/validation"

	"github.com/gofiber/fiber/v2"
)

// GetSubjectsAPI lists all active subjects with their components
func GetSubjectsAPI(c *fiber.Ctx) error {
	subjects, err := database.GetAllSubjects(config.GetDB())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch subjects"})
	}
	return c.JSON(fiber.Map{"subjects": subjects})
}

// GetSubjectAPI returns one subject with its components
func GetSubjectAPI(c *fiber.Ctx) error {
	subject, err := database.GetSubjectByID(config.GetDB(), c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Subject not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(subject)
}

type subjectRequest struct {
	Name           string `json:"name" validate:"required"`
	Code           string `json:"code" validate:"required"`
	EducationLevel string `json:"education_level" validate:"required,oneof=lower_primary upper_primary junior_secondary"`
	IsComposite    bool   `json:"is_composite"`
}

// CreateSubjectAPI creates a subject
func CreateSubjectAPI(c *fiber.Ctx) error {
	var req subjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validation.Struct(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	subject := &models.Subject{
		Name:           req.Name,
		Code:           req.Code,
		EducationLevel: req.EducationLevel,
		IsComposite:    req.IsComposite,
	}
	if err := database.CreateSubject(config.GetDB(), subject); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Failed to create subject, code may already exist"})
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Subject created successfully",
		"subject": subject,
	})
}

// UpdateSubjectAPI updates a subject
func UpdateSubjectAPI(c *fiber.Ctx) error {
	var req subjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validation.Struct(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	subject := &models.Subject{
		ID:             c.Params("id"),
		Name:           req.Name,
		Code:           req.Code,
		EducationLevel: req.EducationLevel,
		IsComposite:    req.IsComposite,
	}
	if err := database.UpdateSubject(config.GetDB(), subject); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"message": "Subject updated successfully",
		"subject": subject,
	})
}

// DeleteSubjectAPI soft deletes a subject without recorded marks
func DeleteSubjectAPI(c *fiber.Ctx) error {
	if err := database.DeleteSubject(config.GetDB(), c.Params("id")); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Subject deleted successfully"})
}

// GetComponentsAPI lists components of a composite subject
func GetComponentsAPI(c *fiber.Ctx) error {
	components, err := database.GetComponentsBySubject(config.GetDB(), c.Params("id"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch components"})
	}
	return c.JSON(fiber.Map{"components": components})
}

type componentRequest struct {
	Name    string  `json:"name" validate:"required"`
	MaxMark float64 `json:"max_mark" validate:"required,gt=0"`
}

// CreateComponentAPI adds a component to a composite subject
func CreateComponentAPI(c *fiber.Ctx) error {
	var req componentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validation.Struct(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	component := &models.Component{
		SubjectID: c.Params("id"),
		Name:      req.Name,
		MaxMark:   req.MaxMark,
	}
	if err := database.CreateComponent(config.GetDB(), component); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{
		"message":   "Component created successfully",
		"component": component,
	})
}

// UpdateComponentAPI updates a component. Lowering the max caps existing raw
// marks and re-aggregates the affected subject marks.
func UpdateComponentAPI(c *fiber.Ctx) error {
	var req componentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validation.Struct(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	component := &models.Component{
		ID:      c.Params("componentId"),
		Name:    req.Name,
		MaxMark: req.MaxMark,
	}
	if err := database.UpdateComponent(config.GetDB(), component); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"message":   "Component updated successfully",
		"component": component,
	})
}

// DeleteComponentAPI soft deletes a component without recorded marks
func DeleteComponentAPI(c *fiber.Ctx) error {
	if err := database.DeleteComponent(config.GetDB(), c.Params("componentId")); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Component deleted successfully"})
}
