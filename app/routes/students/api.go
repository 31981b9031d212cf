package students

import (
	"database/sql"
	"strconv"
	"time"

	"hillview-school/app/config"
	"hillview-school/app/database"
	"hillview-school/app/models"
	"hillview-school/app/validation"

	"github.com/gofiber/fiber/v2"
)

// GetStudentsAPI lists students with filters and pagination
func GetStudentsAPI(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "25"))
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if limit <= 0 || limit > 200 {
		limit = 25
	}
	if page <= 0 {
		page = 1
	}

	filters := database.StudentFilters{
		Search:    c.Query("search"),
		GradeID:   c.Query("grade_id"),
		StreamID:  c.Query("stream_id"),
		Gender:    c.Query("gender"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
		Limit:     limit,
		Offset:    (page - 1) * limit,
	}

	students, total, err := database.GetStudentsWithPagination(config.GetDB(), filters)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch students"})
	}

	return c.JSON(fiber.Map{
		"students": students,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// GetStudentAPI returns one student
func GetStudentAPI(c *fiber.Ctx) error {
	student, err := database.GetStudentByID(config.GetDB(), c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Student not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(student)
}

type studentRequest struct {
	AdmissionNumber string  `json:"admission_number" validate:"required"`
	FirstName       string  `json:"first_name" validate:"required"`
	LastName        string  `json:"last_name" validate:"required"`
	Gender          *string `json:"gender,omitempty" validate:"omitempty,oneof=male female"`
	DateOfBirth     *string `json:"date_of_birth,omitempty"`
	GradeID         string  `json:"grade_id" validate:"required,uuid"`
	StreamID        string  `json:"stream_id" validate:"required,uuid"`
}

func (r *studentRequest) toModel() (*models.Student, error) {
	student := &models.Student{
		AdmissionNumber: r.AdmissionNumber,
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		GradeID:         r.GradeID,
		StreamID:        r.StreamID,
	}
	if r.Gender != nil {
		g := models.Gender(*r.Gender)
		student.Gender = &g
	}
	if r.DateOfBirth != nil && *r.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", *r.DateOfBirth)
		if err != nil {
			return nil, err
		}
		student.DateOfBirth = &dob
	}
	return student, nil
}

// CreateStudentAPI creates a student
func CreateStudentAPI(c *fiber.Ctx) error {
	var req studentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validation.Struct(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	student, err := req.toModel()
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "date_of_birth must be YYYY-MM-DD"})
	}

	if err := database.CreateStudent(config.GetDB(), student); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Student created successfully",
		"student": student,
	})
}

// UpdateStudentAPI updates a student including class placement
func UpdateStudentAPI(c *fiber.Ctx) error {
	var req studentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validation.Struct(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	student, err := req.toModel()
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "date_of_birth must be YYYY-MM-DD"})
	}
	student.ID = c.Params("id")

	if err := database.UpdateStudent(config.GetDB(), student); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"message": "Student updated successfully",
		"student": student,
	})
}

// DeleteStudentAPI soft deletes a student
func DeleteStudentAPI(c *fiber.Ctx) error {
	if err := database.DeleteStudent(config.GetDB(), c.Params("id")); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Student deleted successfully"})
}

// GetStudentsByStreamAPI lists active students in a stream for entry sheets
func GetStudentsByStreamAPI(c *fiber.Ctx) error {
	students, err := database.GetStudentsByStream(config.GetDB(), c.Params("id"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch students"})
	}
	return c.JSON(fiber.Map{"students": students})
}
