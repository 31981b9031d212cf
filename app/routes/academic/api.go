package academic

import (
	"database/sql"
	"time"

	"hillview-school/app/config"
	"hillview-school/app/database"
	"hillview-school/app/models"
	"hillview-school/app/validation"

	"github.com/gofiber/fiber/v2"
)

// GetGradesAPI lists grades with their streams and student counts
func GetGradesAPI(c *fiber.Ctx) error {
	grades, err := database.GetAllGrades(config.GetDB())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch grades"})
	}
	return c.JSON(fiber.Map{"grades": grades})
}

type gradeRequest struct {
	Name           string `json:"name" validate:"required"`
	Level          int    `json:"level" validate:"required,min=1,max=9"`
	EducationLevel string `json:"education_level" validate:"required,oneof=lower_primary upper_primary junior_secondary"`
}

func CreateGradeAPI(c *fiber.Ctx) error {
	var req gradeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validation.Struct(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	grade := &models.Grade{Name: req.Name, Level: req.Level, EducationLevel: req.EducationLevel}
	if err := database.CreateGrade(config.GetDB(), grade); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Failed to create grade, name may already exist"})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Grade created successfully", "grade": grade})
}

func UpdateGradeAPI(c *fiber.Ctx) error {
	var req gradeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validation.Struct(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	grade := &models.Grade{ID: c.Params("id"), Name: req.Name, Level: req.Level, EducationLevel: req.EducationLevel}
	if err := database.UpdateGrade(config.GetDB(), grade); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Grade updated successfully", "grade": grade})
}

func DeleteGradeAPI(c *fiber.Ctx) error {
	if err := database.DeleteGrade(config.GetDB(), c.Params("id")); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Grade deleted successfully"})
}

// GetStreamsAPI lists streams of a grade
func GetStreamsAPI(c *fiber.Ctx) error {
	streams, err := database.GetStreamsByGrade(config.GetDB(), c.Params("id"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch streams"})
	}
	return c.JSON(fiber.Map{"streams": streams})
}

type streamRequest struct {
	Name      string  `json:"name" validate:"required"`
	TeacherID *string `json:"teacher_id,omitempty" validate:"omitempty,uuid"`
}

func CreateStreamAPI(c *fiber.Ctx) error {
	var req streamRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validation.Struct(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	stream := &models.Stream{GradeID: c.Params("id"), Name: req.Name, TeacherID: req.TeacherID}
	if err := database.CreateStream(config.GetDB(), stream); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Failed to create stream, name may already exist in this grade"})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Stream created successfully", "stream": stream})
}

func UpdateStreamAPI(c *fiber.Ctx) error {
	var req streamRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validation.Struct(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	stream := &models.Stream{ID: c.Params("streamId"), Name: req.Name, TeacherID: req.TeacherID}
	if err := database.UpdateStream(config.GetDB(), stream); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Stream updated successfully", "stream": stream})
}

func DeleteStreamAPI(c *fiber.Ctx) error {
	if err := database.DeleteStream(config.GetDB(), c.Params("streamId")); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Stream deleted successfully"})
}

// GetTermsAPI lists terms, newest academic year first
func GetTermsAPI(c *fiber.Ctx) error {
	terms, err := database.GetAllTerms(config.GetDB())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch terms"})
	}
	return c.JSON(fiber.Map{"terms": terms})
}

// GetCurrentTermAPI returns the term flagged current
func GetCurrentTermAPI(c *fiber.Ctx) error {
	term, err := database.GetCurrentTerm(config.GetDB())
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "No current term set"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(term)
}

type termRequest struct {
	Name         string `json:"name" validate:"required"`
	AcademicYear string `json:"academic_year" validate:"required"`
	StartDate    string `json:"start_date" validate:"required"`
	EndDate      string `json:"end_date" validate:"required"`
	IsCurrent    bool   `json:"is_current"`
}

func (r *termRequest) toModel() (*models.Term, error) {
	start, err := time.Parse("2006-01-02", r.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := time.Parse("2006-01-02", r.EndDate)
	if err != nil {
		return nil, err
	}
	term := &models.Term{
		Name:         r.Name,
		AcademicYear: r.AcademicYear,
		IsCurrent:    r.IsCurrent,
	}
	term.StartDate.Time = start
	term.EndDate.Time = end
	return term, nil
}

func CreateTermAPI(c *fiber.Ctx) error {
	var req termRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validation.Struct(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	term, err := req.toModel()
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Dates must be YYYY-MM-DD"})
	}
	if term.EndDate.Time.Before(term.StartDate.Time) {
		return c.Status(400).JSON(fiber.Map{"error": "end_date must not be before start_date"})
	}

	if err := database.CreateTerm(config.GetDB(), term); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Failed to create term, name may already exist for this year"})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Term created successfully", "term": term})
}

func UpdateTermAPI(c *fiber.Ctx) error {
	var req termRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validation.Struct(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	term, err := req.toModel()
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Dates must be YYYY-MM-DD"})
	}
	if term.EndDate.Time.Before(term.StartDate.Time) {
		return c.Status(400).JSON(fiber.Map{"error": "end_date must not be before start_date"})
	}
	term.ID = c.Params("id")

	if err := database.UpdateTerm(config.GetDB(), term); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Term updated successfully", "term": term})
}

func DeleteTermAPI(c *fiber.Ctx) error {
	if err := database.DeleteTerm(config.GetDB(), c.Params("id")); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Term deleted successfully"})
}

// GetAssessmentTypesAPI lists assessment types
func GetAssessmentTypesAPI(c *fiber.Ctx) error {
	types, err := database.GetAllAssessmentTypes(config.GetDB())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch assessment types"})
	}
	return c.JSON(fiber.Map{"assessment_types": types})
}

type assessmentTypeRequest struct {
	Name   string  `json:"name" validate:"required"`
	Code   string  `json:"code" validate:"required"`
	Weight float64 `json:"weight" validate:"omitempty,gt=0"`
}

func CreateAssessmentTypeAPI(c *fiber.Ctx) error {
	var req assessmentTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validation.Struct(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	at := &models.AssessmentType{Name: req.Name, Code: req.Code, Weight: req.Weight}
	if err := database.CreateAssessmentType(config.GetDB(), at); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Failed to create assessment type, code may already exist"})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Assessment type created successfully", "assessment_type": at})
}

func UpdateAssessmentTypeAPI(c *fiber.Ctx) error {
	var req assessmentTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validation.Struct(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	at := &models.AssessmentType{ID: c.Params("id"), Name: req.Name, Code: req.Code, Weight: req.Weight}
	if err := database.UpdateAssessmentType(config.GetDB(), at); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Assessment type updated successfully", "assessment_type": at})
}

func DeleteAssessmentTypeAPI(c *fiber.Ctx) error {
	if err := database.DeleteAssessmentType(config.GetDB(), c.Params("id")); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Assessment type deleted successfully"})
}
