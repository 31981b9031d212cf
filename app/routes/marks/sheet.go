package marks

import (
	"fmt"
	"strconv"
	"strings"

	"hillview-school/app/database"
	"hillview-school/app/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// DownloadMarksTemplateAPI serves a spreadsheet pre-filled with the stream's
// students, one score column per component (or a single Mark column for
// simple subjects). Teachers fill it offline and upload it back.
func DownloadMarksTemplateAPI(c *fiber.Ctx) error {
	streamID := c.Query("stream_id")
	subjectID := c.Query("subject_id")
	if streamID == "" || subjectID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "stream_id and subject_id are required"})
	}

	subject, err := database.GetSubjectByID(db, subjectID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Subject not found"})
	}
	students, err := database.GetStudentsByStream(db, streamID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch students"})
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	headers := sheetHeaders(subject)
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for i, student := range students {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), student.ID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), student.AdmissionNumber)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), student.FirstName+" "+student.LastName)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to build template"})
	}

	filename := fmt.Sprintf("marks-%s.xlsx", strings.ToLower(subject.Code))
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Send(buf.Bytes())
}

// UploadMarksAPI ingests a filled marks spreadsheet and saves it through the
// same path as the interactive entry sheet
func UploadMarksAPI(c *fiber.Ctx) error {
	subjectID := c.FormValue("subject_id")
	termID := c.FormValue("term_id")
	assessmentTypeID := c.FormValue("assessment_type_id")
	if subjectID == "" || termID == "" || assessmentTypeID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "subject_id, term_id and assessment_type_id are required"})
	}

	subject, err := database.GetSubjectByID(db, subjectID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Subject not found"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Spreadsheet file is required"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Failed to open uploaded file"})
	}
	defer file.Close()

	f, err := excelize.OpenReader(file)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "File is not a valid spreadsheet"})
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil || len(rows) < 2 {
		return c.Status(400).JSON(fiber.Map{"error": "Spreadsheet has no mark rows"})
	}

	batchID := uuid.New().String()
	var marks []*models.Mark
	var failures []string
	for i, row := range rows[1:] {
		mark, err := parseMarkRow(row, subject, termID, assessmentTypeID)
		if err != nil {
			failures = append(failures, fmt.Sprintf("row %d: %v", i+2, err))
			continue
		}
		if mark != nil {
			marks = append(marks, mark)
		}
	}

	saved := 0
	if len(marks) > 0 {
		saved, err = database.BatchSaveMarks(db, marks)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": err.Error(), "batch_id": batchID, "failures": failures})
		}
	}

	return c.JSON(fiber.Map{
		"message":  fmt.Sprintf("%d marks saved", saved),
		"batch_id": batchID,
		"saved":    saved,
		"failures": failures,
	})
}

func sheetHeaders(subject *models.Subject) []string {
	headers := []string{"Student ID", "Admission Number", "Name"}
	if subject.IsComposite {
		for _, comp := range subject.Components {
			headers = append(headers, fmt.Sprintf("%s (/%g)", comp.Name, comp.MaxMark))
		}
	} else {
		headers = append(headers, "Mark (/100)")
	}
	return headers
}

// parseMarkRow returns nil when every score cell is blank so untouched
// students are skipped rather than scored zero
func parseMarkRow(row []string, subject *models.Subject, termID, assessmentTypeID string) (*models.Mark, error) {
	get := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	studentID := get(0)
	if studentID == "" {
		return nil, fmt.Errorf("missing student id")
	}

	mark := &models.Mark{
		StudentID:        studentID,
		SubjectID:        subject.ID,
		TermID:           termID,
		AssessmentTypeID: assessmentTypeID,
	}

	if subject.IsComposite {
		filled := false
		for j, comp := range subject.Components {
			cell := get(3 + j)
			if cell == "" {
				continue
			}
			raw, err := strconv.ParseFloat(cell, 64)
			if err != nil || raw < 0 {
				return nil, fmt.Errorf("invalid score for %s", comp.Name)
			}
			mark.Components = append(mark.Components, &models.ComponentMark{
				ComponentID: comp.ID,
				RawMark:     raw,
			})
			filled = true
		}
		if !filled {
			return nil, nil
		}
		if len(mark.Components) != len(subject.Components) {
			return nil, fmt.Errorf("all component scores are required")
		}
		return mark, nil
	}

	cell := get(3)
	if cell == "" {
		return nil, nil
	}
	raw, err := strconv.ParseFloat(cell, 64)
	if err != nil || raw < 0 {
		return nil, fmt.Errorf("invalid mark")
	}
	mark.RawMark = raw
	mark.MaxRawMark = 100
	return mark, nil
}
