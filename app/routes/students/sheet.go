package students

import (
	"fmt"
	"strings"
	"time"

	"hillview-school/app/config"
	"hillview-school/app/database"
	"hillview-school/app/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

var importHeader = []string{"Admission Number", "First Name", "Last Name", "Gender", "Date of Birth"}

// DownloadImportTemplateAPI serves an empty spreadsheet for bulk enrolment
func DownloadImportTemplateAPI(c *fiber.Ctx) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, header := range importHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}
	f.SetCellValue(sheet, "A2", "HV-1001")
	f.SetCellValue(sheet, "B2", "Jane")
	f.SetCellValue(sheet, "C2", "Wanjiku")
	f.SetCellValue(sheet, "D2", "female")
	f.SetCellValue(sheet, "E2", "2015-04-12")

	buf, err := f.WriteToBuffer()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to build template"})
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", `attachment; filename="students-import-template.xlsx"`)
	return c.Send(buf.Bytes())
}

// ImportStudentsAPI bulk creates students from an uploaded spreadsheet into
// the given grade and stream
func ImportStudentsAPI(c *fiber.Ctx) error {
	gradeID := c.FormValue("grade_id")
	streamID := c.FormValue("stream_id")
	if gradeID == "" || streamID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "grade_id and stream_id are required"})
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
		return c.Status(400).JSON(fiber.Map{"error": "Spreadsheet has no student rows"})
	}

	imported := 0
	var failures []string
	for i, row := range rows[1:] {
		student, err := parseStudentRow(row, gradeID, streamID)
		if err != nil {
			failures = append(failures, fmt.Sprintf("row %d: %v", i+2, err))
			continue
		}
		if err := database.CreateStudent(config.GetDB(), student); err != nil {
			failures = append(failures, fmt.Sprintf("row %d: %v", i+2, err))
			continue
		}
		imported++
	}

	return c.JSON(fiber.Map{
		"message":  fmt.Sprintf("%d students imported", imported),
		"imported": imported,
		"failures": failures,
	})
}

func parseStudentRow(row []string, gradeID, streamID string) (*models.Student, error) {
	get := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	admission := get(0)
	firstName := get(1)
	lastName := get(2)
	if admission == "" || firstName == "" || lastName == "" {
		return nil, fmt.Errorf("admission number and names are required")
	}

	student := &models.Student{
		AdmissionNumber: admission,
		FirstName:       firstName,
		LastName:        lastName,
		GradeID:         gradeID,
		StreamID:        streamID,
	}

	if genderStr := strings.ToLower(get(3)); genderStr != "" {
		if genderStr != "male" && genderStr != "female" {
			return nil, fmt.Errorf("gender must be male or female")
		}
		g := models.Gender(genderStr)
		student.Gender = &g
	}

	if dobStr := get(4); dobStr != "" {
		dob, err := time.Parse("2006-01-02", dobStr)
		if err != nil {
			return nil, fmt.Errorf("date of birth must be YYYY-MM-DD")
		}
		student.DateOfBirth = &dob
	}

	return student, nil
}
