package database

import (
	"database/sql"
	"math"
	"sort"

	"hillview-school/app/grading"
	"hillview-school/app/models"
)

// StudentReport is an individual academic report for one term and assessment
type StudentReport struct {
	Student        *models.Student        `json:"student"`
	Term           *models.Term           `json:"term"`
	AssessmentType *models.AssessmentType `json:"assessment_type"`
	Marks          []*models.Mark         `json:"marks"`
	TotalRaw       float64                `json:"total_raw"`
	TotalMax       float64                `json:"total_max"`
	TotalPercent   float64                `json:"total_percent"`
	MeanPercent    float64                `json:"mean_percent"`
	MeanBand       string                 `json:"mean_band"`
	Position       int                    `json:"position"`
	StreamSize     int                    `json:"stream_size"`
}

// ClassReportRow is one ranked student row in a class report
type ClassReportRow struct {
	Position        int     `json:"position"`
	StudentID       string  `json:"student_id"`
	AdmissionNumber string  `json:"admission_number"`
	StudentName     string  `json:"student_name"`
	TotalRaw        float64 `json:"total_raw"`
	TotalMax        float64 `json:"total_max"`
	MeanPercent     float64 `json:"mean_percent"`
	MeanBand        string  `json:"mean_band"`
	SubjectCount    int     `json:"subject_count"`
}

// MarksheetCell is one student/subject intersection on the marksheet grid
type MarksheetCell struct {
	Percentage float64 `json:"percentage"`
	Band       string  `json:"band"`
}

// Marksheet is the students-by-subjects grid for a stream
type Marksheet struct {
	Stream   *models.Stream                       `json:"stream"`
	Subjects []*models.Subject                    `json:"subjects"`
	Rows     []*MarksheetRow                      `json:"rows"`
	Cells    map[string]map[string]*MarksheetCell `json:"cells"`
}

// MarksheetRow is one student line with overall figures
type MarksheetRow struct {
	Student     *models.Student `json:"student"`
	MeanPercent float64         `json:"mean_percent"`
	MeanBand    string          `json:"mean_band"`
	Position    int             `json:"position"`
}

// GetStudentReport builds an individual report with stream position
func GetStudentReport(db *sql.DB, studentID, termID, assessmentTypeID string) (*StudentReport, error) {
	student, err := GetStudentByID(db, studentID)
	if err != nil {
		return nil, err
	}

	marks, err := GetStudentMarks(db, studentID, termID, assessmentTypeID)
	if err != nil {
		return nil, err
	}

	report := &StudentReport{Student: student, Marks: marks}

	var percentSum float64
	for _, mark := range marks {
		report.TotalRaw += mark.RawMark
		report.TotalMax += mark.MaxRawMark
		percentSum += mark.Percentage
	}
	report.TotalPercent = grading.Percentage(report.TotalRaw, report.TotalMax)
	if len(marks) > 0 {
		report.MeanPercent = round2(percentSum / float64(len(marks)))
	}
	report.MeanBand = grading.BandFor(report.MeanPercent)

	rows, err := GetClassReport(db, student.StreamID, termID, assessmentTypeID)
	if err == nil {
		report.StreamSize = len(rows)
		for _, row := range rows {
			if row.StudentID == studentID {
				report.Position = row.Position
				break
			}
		}
	}

	if term, err := getTermByID(db, termID); err == nil {
		report.Term = term
	}
	if at, err := getAssessmentTypeByID(db, assessmentTypeID); err == nil {
		report.AssessmentType = at
	}

	return report, nil
}

// GetClassReport ranks a stream's students by mean percentage. Ties share a
// position, the next position skips accordingly.
func GetClassReport(db *sql.DB, streamID, termID, assessmentTypeID string) ([]*ClassReportRow, error) {
	query := `SELECT s.id, s.admission_number, CONCAT(s.first_name, ' ', s.last_name) as student_name,
			  COALESCE(SUM(m.raw_mark), 0) as total_raw,
			  COALESCE(SUM(m.max_raw_mark), 0) as total_max,
			  COALESCE(ROUND(AVG(m.percentage), 2), 0) as mean_percent,
			  COUNT(m.id) as subject_count
			  FROM students s
			  LEFT JOIN marks m ON m.student_id = s.id
				  AND m.term_id = $2 AND m.assessment_type_id = $3 AND m.deleted_at IS NULL
			  WHERE s.stream_id = $1 AND s.is_active = true
			  GROUP BY s.id, s.admission_number, s.first_name, s.last_name
			  ORDER BY mean_percent DESC, student_name`

	rows, err := db.Query(query, streamID, termID, assessmentTypeID)
	if err != nil {
		return []*ClassReportRow{}, err
	}
	defer rows.Close()

	var report []*ClassReportRow
	for rows.Next() {
		row := &ClassReportRow{}
		err := rows.Scan(
			&row.StudentID, &row.AdmissionNumber, &row.StudentName,
			&row.TotalRaw, &row.TotalMax, &row.MeanPercent, &row.SubjectCount,
		)
		if err != nil {
			continue
		}
		row.MeanBand = grading.BandFor(row.MeanPercent)
		report = append(report, row)
	}

	assignPositions(report)

	if report == nil {
		report = []*ClassReportRow{}
	}
	return report, nil
}

func assignPositions(rows []*ClassReportRow) {
	for i, row := range rows {
		if i > 0 && row.MeanPercent == rows[i-1].MeanPercent {
			row.Position = rows[i-1].Position
		} else {
			row.Position = i + 1
		}
	}
}

// GetMarksheet builds the students-by-subjects grid for a stream
func GetMarksheet(db *sql.DB, streamID, termID, assessmentTypeID string) (*Marksheet, error) {
	stream, err := GetStreamByID(db, streamID)
	if err != nil {
		return nil, err
	}

	students, err := GetStudentsByStream(db, streamID)
	if err != nil {
		return nil, err
	}

	query := `SELECT m.student_id, m.subject_id, m.percentage, m.band,
			  sub.name, sub.code, sub.is_composite
			  FROM marks m
			  INNER JOIN subjects sub ON m.subject_id = sub.id
			  WHERE m.stream_id = $1 AND m.term_id = $2 AND m.assessment_type_id = $3
			  AND m.deleted_at IS NULL`

	rows, err := db.Query(query, streamID, termID, assessmentTypeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cells := make(map[string]map[string]*MarksheetCell)
	subjectByID := make(map[string]*models.Subject)
	for rows.Next() {
		var studentID, subjectID, band, subjectName, subjectCode string
		var percentage float64
		var isComposite bool
		if err := rows.Scan(&studentID, &subjectID, &percentage, &band, &subjectName, &subjectCode, &isComposite); err != nil {
			continue
		}

		if _, ok := subjectByID[subjectID]; !ok {
			subjectByID[subjectID] = &models.Subject{ID: subjectID, Name: subjectName, Code: subjectCode, IsComposite: isComposite}
		}
		if cells[studentID] == nil {
			cells[studentID] = make(map[string]*MarksheetCell)
		}
		cells[studentID][subjectID] = &MarksheetCell{Percentage: percentage, Band: band}
	}

	var subjects []*models.Subject
	for _, subject := range subjectByID {
		subjects = append(subjects, subject)
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].Name < subjects[j].Name })

	var sheetRows []*MarksheetRow
	for _, student := range students {
		row := &MarksheetRow{Student: student}
		if studentCells, ok := cells[student.ID]; ok && len(studentCells) > 0 {
			var sum float64
			for _, cell := range studentCells {
				sum += cell.Percentage
			}
			row.MeanPercent = round2(sum / float64(len(studentCells)))
		}
		row.MeanBand = grading.BandFor(row.MeanPercent)
		sheetRows = append(sheetRows, row)
	}

	sort.SliceStable(sheetRows, func(i, j int) bool { return sheetRows[i].MeanPercent > sheetRows[j].MeanPercent })
	for i, row := range sheetRows {
		if i > 0 && row.MeanPercent == sheetRows[i-1].MeanPercent {
			row.Position = sheetRows[i-1].Position
		} else {
			row.Position = i + 1
		}
	}

	return &Marksheet{
		Stream:   stream,
		Subjects: subjects,
		Rows:     sheetRows,
		Cells:    cells,
	}, nil
}

func getTermByID(db *sql.DB, termID string) (*models.Term, error) {
	term := &models.Term{}
	query := `SELECT id, name, academic_year, start_date, end_date, is_current, is_active, created_at, updated_at
			  FROM terms WHERE id = $1`
	err := db.QueryRow(query, termID).Scan(
		&term.ID, &term.Name, &term.AcademicYear, &term.StartDate.Time, &term.EndDate.Time,
		&term.IsCurrent, &term.IsActive, &term.CreatedAt, &term.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return term, nil
}

func getAssessmentTypeByID(db *sql.DB, id string) (*models.AssessmentType, error) {
	at := &models.AssessmentType{}
	query := `SELECT id, name, code, weight, is_active, created_at, updated_at
			  FROM assessment_types WHERE id = $1`
	err := db.QueryRow(query, id).Scan(&at.ID, &at.Name, &at.Code, &at.Weight, &at.IsActive, &at.CreatedAt, &at.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return at, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
