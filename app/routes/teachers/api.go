package teachers

import (
	"hillview-school/app/config"
	"hillview-school/app/database"
	"hillview-school/app/models"
	"hillview-school/app/validation"

	"github.com/gofiber/fiber/v2"
)

// GetTeachersAPI lists all active teachers with their roles and subjects
func GetTeachersAPI(c *fiber.Ctx) error {
	teachers, err := database.GetAllTeachers(config.GetDB())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch teachers"})
	}
	return c.JSON(fiber.Map{"teachers": teachers})
}

type createTeacherRequest struct {
	Email      string   `json:"email" validate:"required,email"`
	Password   string   `json:"password" validate:"required,min=8"`
	FirstName  string   `json:"first_name" validate:"required"`
	LastName   string   `json:"last_name" validate:"required"`
	Role       string   `json:"role" validate:"omitempty,oneof=headteacher admin classteacher teacher"`
	SubjectIDs []string `json:"subject_ids" validate:"omitempty,dive,uuid"`
	StreamIDs  []string `json:"stream_ids" validate:"omitempty,dive,uuid"`
}

// CreateTeacherAPI creates a teacher account with role, subject and stream links
func CreateTeacherAPI(c *fiber.Ctx) error {
	var req createTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validation.Struct(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	db := config.GetDB()
	user := &models.User{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}

	if err := database.CreateTeacher(db, user, req.Role); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Failed to create teacher, email may already exist"})
	}

	if err := database.LinkTeacherToSubjects(db, user.ID, req.SubjectIDs); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Teacher created but subject assignment failed"})
	}
	if err := database.LinkTeacherToStreams(db, user.ID, req.StreamIDs); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Teacher created but stream assignment failed"})
	}

	user.Password = ""
	return c.Status(201).JSON(fiber.Map{
		"message": "Teacher created successfully",
		"teacher": user,
	})
}

type updateTeacherRequest struct {
	Email      string   `json:"email" validate:"required,email"`
	FirstName  string   `json:"first_name" validate:"required"`
	LastName   string   `json:"last_name" validate:"required"`
	SubjectIDs []string `json:"subject_ids" validate:"omitempty,dive,uuid"`
	StreamIDs  []string `json:"stream_ids" validate:"omitempty,dive,uuid"`
}

// UpdateTeacherAPI updates a teacher's details and assignments
func UpdateTeacherAPI(c *fiber.Ctx) error {
	var req updateTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validation.Struct(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	db := config.GetDB()
	user := &models.User{
		ID:        c.Params("id"),
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}

	if err := database.UpdateTeacher(db, user); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	database.LinkTeacherToSubjects(db, user.ID, req.SubjectIDs)
	database.LinkTeacherToStreams(db, user.ID, req.StreamIDs)

	return c.JSON(fiber.Map{
		"message": "Teacher updated successfully",
		"teacher": user,
	})
}

// DeleteTeacherAPI soft deletes a teacher
func DeleteTeacherAPI(c *fiber.Ctx) error {
	if err := database.DeleteTeacher(config.GetDB(), c.Params("id")); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Teacher deleted successfully"})
}

// GetTeacherAssignmentsAPI returns a teacher's subjects and streams
func GetTeacherAssignmentsAPI(c *fiber.Ctx) error {
	db := config.GetDB()
	teacherID := c.Params("id")

	subjects, err := database.GetTeacherSubjects(db, teacherID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch assignments"})
	}
	streams, err := database.GetTeacherStreams(db, teacherID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch assignments"})
	}

	return c.JSON(fiber.Map{
		"subjects": subjects,
		"streams":  streams,
	})
}
