package reports

import (
	"bytes"
	"fmt"

	"hillview-school/app/database"
	"hillview-school/app/grading"

	"github.com/go-pdf/fpdf"
	"github.com/gofiber/fiber/v2"
)

// DownloadStudentReportPDF renders an individual report as a PDF
func DownloadStudentReportPDF(c *fiber.Ctx) error {
	termID := c.Query("term_id")
	assessmentTypeID := c.Query("assessment_type_id")
	if termID == "" || assessmentTypeID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "term_id and assessment_type_id are required"})
	}

	report, err := database.GetStudentReport(db, c.Params("id"), termID, assessmentTypeID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Failed to build report"})
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	writePDFHeader(pdf, "Student Academic Report")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Name: %s %s    Adm No: %s",
		report.Student.FirstName, report.Student.LastName, report.Student.AdmissionNumber), "", 1, "L", false, 0, "")
	if report.Term != nil {
		pdf.CellFormat(0, 7, fmt.Sprintf("Term: %s (%s)", report.Term.Name, report.Term.AcademicYear), "", 1, "L", false, 0, "")
	}
	if report.AssessmentType != nil {
		pdf.CellFormat(0, 7, fmt.Sprintf("Assessment: %s", report.AssessmentType.Name), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(70, 8, "Subject", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 8, "Raw", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 8, "Out Of", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 8, "Percent", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 8, "Band", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, mark := range report.Marks {
		name := mark.SubjectID
		if mark.Subject != nil {
			name = mark.Subject.Name
		}
		pdf.CellFormat(70, 8, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%.1f", mark.RawMark), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%.1f", mark.MaxRawMark), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%.2f%%", mark.Percentage), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 8, mark.Band, "1", 1, "C", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Total: %.1f / %.1f (%.2f%%)",
		report.TotalRaw, report.TotalMax, report.TotalPercent), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Mean: %.2f%%  (%s - %s)",
		report.MeanPercent, report.MeanBand, grading.BandDescription(report.MeanBand)), "", 1, "L", false, 0, "")
	if report.StreamSize > 0 {
		pdf.CellFormat(0, 7, fmt.Sprintf("Position: %d of %d", report.Position, report.StreamSize), "", 1, "L", false, 0, "")
	}

	return sendPDF(c, pdf, fmt.Sprintf("report-%s.pdf", report.Student.AdmissionNumber))
}

// DownloadClassReportPDF renders the ranked class report as a PDF
func DownloadClassReportPDF(c *fiber.Ctx) error {
	termID := c.Query("term_id")
	assessmentTypeID := c.Query("assessment_type_id")
	if termID == "" || assessmentTypeID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "term_id and assessment_type_id are required"})
	}

	stream, err := database.GetStreamByID(db, c.Params("id"))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Stream not found"})
	}
	rows, err := database.GetClassReport(db, stream.ID, termID, assessmentTypeID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to build report"})
	}

	title := "Class Report"
	if stream.Grade != nil {
		title = fmt.Sprintf("Class Report - %s %s", stream.Grade.Name, stream.Name)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	writePDFHeader(pdf, title)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(15, 8, "Pos", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 8, "Adm No", "1", 0, "L", true, 0, "")
	pdf.CellFormat(70, 8, "Name", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, "Subjects", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 8, "Mean %", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 8, "Band", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, row := range rows {
		pdf.CellFormat(15, 8, fmt.Sprintf("%d", row.Position), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 8, row.AdmissionNumber, "1", 0, "L", false, 0, "")
		pdf.CellFormat(70, 8, row.StudentName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%d", row.SubjectCount), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%.2f", row.MeanPercent), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 8, row.MeanBand, "1", 1, "C", false, 0, "")
	}

	return sendPDF(c, pdf, fmt.Sprintf("class-report-%s.pdf", stream.Name))
}

func writePDFHeader(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Hillview School", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 8, title, "", 1, "C", false, 0, "")
	pdf.Ln(4)
}

func sendPDF(c *fiber.Ctx, pdf *fpdf.Fpdf, filename string) error {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to render PDF"})
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Send(buf.Bytes())
}
