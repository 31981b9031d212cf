package marks

import (
	"database/sql"

	"hillview-school/app/database"
	"hillview-school/app/models"
	"hillview-school/app/validation"

	"github.com/gofiber/fiber/v2"
)

// GetEntrySheetAPI returns the per-student entry sheet for a stream, subject,
// term and assessment type
func GetEntrySheetAPI(c *fiber.Ctx) error {
	streamID := c.Query("stream_id")
	subjectID := c.Query("subject_id")
	termID := c.Query("term_id")
	assessmentTypeID := c.Query("assessment_type_id")
	if streamID == "" || subjectID == "" || termID == "" || assessmentTypeID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "stream_id, subject_id, term_id and assessment_type_id are required"})
	}

	subject, err := database.GetSubjectByID(db, subjectID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Subject not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}

	sheet, err := database.GetEntrySheet(db, streamID, subjectID, termID, assessmentTypeID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to load entry sheet"})
	}

	return c.JSON(fiber.Map{
		"subject": subject,
		"sheet":   sheet,
	})
}

type componentMarkRequest struct {
	ComponentID string  `json:"component_id" validate:"required,uuid"`
	RawMark     float64 `json:"raw_mark" validate:"gte=0"`
}

type markRequest struct {
	StudentID  string                 `json:"student_id" validate:"required,uuid"`
	RawMark    float64                `json:"raw_mark" validate:"gte=0"`
	MaxRawMark float64                `json:"max_raw_mark" validate:"omitempty,gt=0"`
	Components []componentMarkRequest `json:"components" validate:"omitempty,dive"`
}

type batchMarksRequest struct {
	SubjectID        string        `json:"subject_id" validate:"required,uuid"`
	TermID           string        `json:"term_id" validate:"required,uuid"`
	AssessmentTypeID string        `json:"assessment_type_id" validate:"required,uuid"`
	Marks            []markRequest `json:"marks" validate:"required,min=1,dive"`
}

func (r *markRequest) toModel(subjectID, termID, assessmentTypeID string) *models.Mark {
	mark := &models.Mark{
		StudentID:        r.StudentID,
		SubjectID:        subjectID,
		TermID:           termID,
		AssessmentTypeID: assessmentTypeID,
		RawMark:          r.RawMark,
		MaxRawMark:       r.MaxRawMark,
	}
	for _, cm := range r.Components {
		mark.Components = append(mark.Components, &models.ComponentMark{
			ComponentID: cm.ComponentID,
			RawMark:     cm.RawMark,
		})
	}
	return mark
}

// BatchSaveMarksAPI saves a whole entry sheet. Placement, percentage and band
// are derived server side for every row.
func BatchSaveMarksAPI(c *fiber.Ctx) error {
	var req batchMarksRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validation.Struct(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	var marks []*models.Mark
	for i := range req.Marks {
		marks = append(marks, req.Marks[i].toModel(req.SubjectID, req.TermID, req.AssessmentTypeID))
	}

	saved, err := database.BatchSaveMarks(db, marks)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"message": "Marks saved successfully",
		"saved":   saved,
		"total":   len(marks),
	})
}

type singleMarkRequest struct {
	StudentID        string                 `json:"student_id" validate:"required,uuid"`
	SubjectID        string                 `json:"subject_id" validate:"required,uuid"`
	TermID           string                 `json:"term_id" validate:"required,uuid"`
	AssessmentTypeID string                 `json:"assessment_type_id" validate:"required,uuid"`
	RawMark          float64                `json:"raw_mark" validate:"gte=0"`
	MaxRawMark       float64                `json:"max_raw_mark" validate:"omitempty,gt=0"`
	Components       []componentMarkRequest `json:"components" validate:"omitempty,dive"`
}

// SaveMarkAPI saves or replaces one student's mark
func SaveMarkAPI(c *fiber.Ctx) error {
	var req singleMarkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validation.Struct(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	mark := &models.Mark{
		StudentID:        req.StudentID,
		SubjectID:        req.SubjectID,
		TermID:           req.TermID,
		AssessmentTypeID: req.AssessmentTypeID,
		RawMark:          req.RawMark,
		MaxRawMark:       req.MaxRawMark,
	}
	for _, cm := range req.Components {
		mark.Components = append(mark.Components, &models.ComponentMark{
			ComponentID: cm.ComponentID,
			RawMark:     cm.RawMark,
		})
	}

	if err := database.SaveMark(db, mark); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"message": "Mark saved successfully",
		"mark":    mark,
	})
}

// GetMarkAPI loads one mark with its component scores
func GetMarkAPI(c *fiber.Ctx) error {
	mark, err := database.GetMarkByID(db, c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Mark not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(mark)
}

// DeleteMarkAPI soft deletes a mark
func DeleteMarkAPI(c *fiber.Ctx) error {
	if err := database.DeleteMark(db, c.Params("id")); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Mark deleted successfully"})
}
