package database

import (
	"database/sql"
	"fmt"
	"log"

	"hillview-school/app/grading"
	"hillview-school/app/models"
)

// ResolvePlacement returns the student's current grade and stream. Marks must
// never be saved with placement taken from the client: stale grade/stream
// values were the recurring integrity bug.
func ResolvePlacement(db *sql.DB, studentID string) (gradeID, streamID string, err error) {
	query := `SELECT grade_id, stream_id FROM students WHERE id = $1 AND is_active = true`
	err = db.QueryRow(query, studentID).Scan(&gradeID, &streamID)
	if err == sql.ErrNoRows {
		return "", "", fmt.Errorf("student not found")
	}
	if err == nil && (gradeID == "" || streamID == "") {
		return "", "", fmt.Errorf("student has no grade/stream placement")
	}
	return gradeID, streamID, err
}

// SaveMark upserts one student's mark for a subject in (term, assessment).
// For composite subjects the component scores are stored and the overall
// figures re-derived through the grading package; the client never supplies
// percentage or band.
func SaveMark(db *sql.DB, mark *models.Mark) error {
	gradeID, streamID, err := ResolvePlacement(db, mark.StudentID)
	if err != nil {
		return err
	}
	mark.GradeID = gradeID
	mark.StreamID = streamID

	subject, err := GetSubjectByID(db, mark.SubjectID)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("subject not found")
		}
		return err
	}

	var summary grading.Summary
	if subject.IsComposite {
		if len(mark.Components) == 0 {
			return fmt.Errorf("composite subject requires component marks")
		}
		scores, err := compositeScores(subject.Components, mark.Components)
		if err != nil {
			return err
		}
		summary = grading.Aggregate(scores)
	} else {
		if mark.MaxRawMark <= 0 {
			mark.MaxRawMark = 100
		}
		mark.RawMark = grading.CapToMax(mark.RawMark, mark.MaxRawMark)
		summary = grading.Single(mark.RawMark, mark.MaxRawMark)
	}

	mark.RawMark = summary.TotalRaw
	mark.MaxRawMark = summary.TotalMax
	mark.Percentage = summary.Percentage
	mark.Band = summary.Band

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO marks (student_id, subject_id, term_id, assessment_type_id, grade_id, stream_id,
				raw_mark, max_raw_mark, percentage, band, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
			  ON CONFLICT (student_id, subject_id, term_id, assessment_type_id)
			  DO UPDATE SET grade_id = EXCLUDED.grade_id, stream_id = EXCLUDED.stream_id,
				raw_mark = EXCLUDED.raw_mark, max_raw_mark = EXCLUDED.max_raw_mark,
				percentage = EXCLUDED.percentage, band = EXCLUDED.band,
				deleted_at = NULL, updated_at = NOW()
			  RETURNING id`

	err = tx.QueryRow(query,
		mark.StudentID, mark.SubjectID, mark.TermID, mark.AssessmentTypeID,
		mark.GradeID, mark.StreamID, mark.RawMark, mark.MaxRawMark,
		mark.Percentage, mark.Band,
	).Scan(&mark.ID)
	if err != nil {
		return fmt.Errorf("failed to save mark: %v", err)
	}

	for _, cm := range mark.Components {
		cm.MarkID = mark.ID
		cmQuery := `INSERT INTO component_marks (mark_id, component_id, raw_mark, max_mark, created_at, updated_at)
					VALUES ($1, $2, $3, $4, NOW(), NOW())
					ON CONFLICT (mark_id, component_id)
					DO UPDATE SET raw_mark = EXCLUDED.raw_mark, max_mark = EXCLUDED.max_mark, updated_at = NOW()`
		if _, err := tx.Exec(cmQuery, cm.MarkID, cm.ComponentID, cm.RawMark, cm.MaxMark); err != nil {
			return fmt.Errorf("failed to save component mark: %v", err)
		}
	}

	return tx.Commit()
}

// compositeScores checks that the entered component marks cover the subject's
// components exactly once each, caps each raw to its configured max, and
// returns the grading inputs. A partial set is rejected: the upsert keeps
// earlier component rows, so aggregating a subset would store figures that
// disagree with what a recompute derives from the full stored set.
func compositeScores(components []*models.Component, entered []*models.ComponentMark) ([]grading.ComponentScore, error) {
	maxByComponent := make(map[string]float64, len(components))
	for _, comp := range components {
		maxByComponent[comp.ID] = comp.MaxMark
	}

	seen := make(map[string]bool, len(entered))
	var scores []grading.ComponentScore
	for _, cm := range entered {
		max, ok := maxByComponent[cm.ComponentID]
		if !ok {
			return nil, fmt.Errorf("component %s does not belong to subject", cm.ComponentID)
		}
		if seen[cm.ComponentID] {
			return nil, fmt.Errorf("duplicate mark for component %s", cm.ComponentID)
		}
		seen[cm.ComponentID] = true
		cm.MaxMark = max
		cm.RawMark = grading.CapToMax(cm.RawMark, max)
		scores = append(scores, grading.ComponentScore{Raw: cm.RawMark, Max: max})
	}
	if len(seen) != len(maxByComponent) {
		return nil, fmt.Errorf("marks for all %d components are required", len(maxByComponent))
	}
	return scores, nil
}

// BatchSaveMarks saves a whole entry sheet, skipping rows that fail and
// reporting how many were written
func BatchSaveMarks(db *sql.DB, marks []*models.Mark) (int, error) {
	saved := 0
	for _, mark := range marks {
		if err := SaveMark(db, mark); err != nil {
			log.Printf("Failed to save mark for student %s: %v", mark.StudentID, err)
			continue
		}
		saved++
	}
	if saved == 0 && len(marks) > 0 {
		return 0, fmt.Errorf("no marks could be saved")
	}
	return saved, nil
}

// GetMarkByID loads a mark with its component marks
func GetMarkByID(db *sql.DB, markID string) (*models.Mark, error) {
	query := `SELECT id, student_id, subject_id, term_id, assessment_type_id, grade_id, stream_id,
			  raw_mark, max_raw_mark, percentage, band, created_at, updated_at
			  FROM marks WHERE id = $1 AND deleted_at IS NULL`

	mark := &models.Mark{}
	err := db.QueryRow(query, markID).Scan(
		&mark.ID, &mark.StudentID, &mark.SubjectID, &mark.TermID, &mark.AssessmentTypeID,
		&mark.GradeID, &mark.StreamID, &mark.RawMark, &mark.MaxRawMark,
		&mark.Percentage, &mark.Band, &mark.CreatedAt, &mark.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	components, err := getComponentMarks(db, markID)
	if err != nil {
		return nil, err
	}
	mark.Components = components
	return mark, nil
}

func getComponentMarks(db *sql.DB, markID string) ([]*models.ComponentMark, error) {
	query := `SELECT cm.id, cm.mark_id, cm.component_id, cm.raw_mark, cm.max_mark, cm.created_at, cm.updated_at,
			  c.name as component_name
			  FROM component_marks cm
			  INNER JOIN components c ON cm.component_id = c.id
			  WHERE cm.mark_id = $1
			  ORDER BY c.name`

	rows, err := db.Query(query, markID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var components []*models.ComponentMark
	for rows.Next() {
		cm := &models.ComponentMark{}
		var componentName string
		err := rows.Scan(
			&cm.ID, &cm.MarkID, &cm.ComponentID, &cm.RawMark, &cm.MaxMark,
			&cm.CreatedAt, &cm.UpdatedAt, &componentName,
		)
		if err != nil {
			continue
		}
		cm.Component = &models.Component{ID: cm.ComponentID, Name: componentName, MaxMark: cm.MaxMark}
		components = append(components, cm)
	}
	return components, nil
}

// StudentSheetRow pairs a student with their mark (if any) for an entry sheet
type StudentSheetRow struct {
	Student *models.Student `json:"student"`
	Mark    *models.Mark    `json:"mark,omitempty"`
}

// GetEntrySheet returns every active student in a stream with their existing
// mark for (subject, term, assessment type), ordered by name
func GetEntrySheet(db *sql.DB, streamID, subjectID, termID, assessmentTypeID string) ([]*StudentSheetRow, error) {
	students, err := GetStudentsByStream(db, streamID)
	if err != nil {
		return nil, err
	}

	query := `SELECT id, student_id, raw_mark, max_raw_mark, percentage, band
			  FROM marks
			  WHERE stream_id = $1 AND subject_id = $2 AND term_id = $3 AND assessment_type_id = $4
			  AND deleted_at IS NULL`

	rows, err := db.Query(query, streamID, subjectID, termID, assessmentTypeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	markByStudent := make(map[string]*models.Mark)
	for rows.Next() {
		mark := &models.Mark{SubjectID: subjectID, TermID: termID, AssessmentTypeID: assessmentTypeID}
		err := rows.Scan(&mark.ID, &mark.StudentID, &mark.RawMark, &mark.MaxRawMark, &mark.Percentage, &mark.Band)
		if err != nil {
			continue
		}
		markByStudent[mark.StudentID] = mark
	}

	var sheet []*StudentSheetRow
	for _, student := range students {
		row := &StudentSheetRow{Student: student}
		if mark, ok := markByStudent[student.ID]; ok {
			components, err := getComponentMarks(db, mark.ID)
			if err == nil {
				mark.Components = components
			}
			row.Mark = mark
		}
		sheet = append(sheet, row)
	}

	if sheet == nil {
		sheet = []*StudentSheetRow{}
	}
	return sheet, nil
}

// GetStudentMarks returns a student's marks for a term and assessment type
// with subject details
func GetStudentMarks(db *sql.DB, studentID, termID, assessmentTypeID string) ([]*models.Mark, error) {
	query := `SELECT m.id, m.student_id, m.subject_id, m.term_id, m.assessment_type_id,
			  m.grade_id, m.stream_id, m.raw_mark, m.max_raw_mark, m.percentage, m.band,
			  m.created_at, m.updated_at,
			  s.name as subject_name, s.code as subject_code, s.is_composite
			  FROM marks m
			  INNER JOIN subjects s ON m.subject_id = s.id
			  WHERE m.student_id = $1 AND m.term_id = $2 AND m.assessment_type_id = $3
			  AND m.deleted_at IS NULL
			  ORDER BY s.name`

	rows, err := db.Query(query, studentID, termID, assessmentTypeID)
	if err != nil {
		return []*models.Mark{}, err
	}
	defer rows.Close()

	var marks []*models.Mark
	for rows.Next() {
		mark := &models.Mark{}
		var subjectName, subjectCode string
		var isComposite bool
		err := rows.Scan(
			&mark.ID, &mark.StudentID, &mark.SubjectID, &mark.TermID, &mark.AssessmentTypeID,
			&mark.GradeID, &mark.StreamID, &mark.RawMark, &mark.MaxRawMark, &mark.Percentage, &mark.Band,
			&mark.CreatedAt, &mark.UpdatedAt, &subjectName, &subjectCode, &isComposite,
		)
		if err != nil {
			continue
		}
		mark.Subject = &models.Subject{ID: mark.SubjectID, Name: subjectName, Code: subjectCode, IsComposite: isComposite}
		marks = append(marks, mark)
	}

	if marks == nil {
		marks = []*models.Mark{}
	}
	return marks, nil
}

// DeleteMark soft deletes a mark
func DeleteMark(db *sql.DB, markID string) error {
	result, err := db.Exec(`UPDATE marks SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, markID)
	if err != nil {
		return fmt.Errorf("failed to delete mark: %v", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("mark not found")
	}
	return nil
}

// RecomputeMarks re-derives percentage and band for the given marks from the
// stored raws, through the same grading functions used at save time
func RecomputeMarks(db *sql.DB, markIDs []string) error {
	for _, markID := range markIDs {
		if err := recomputeMark(db, markID); err != nil {
			log.Printf("Failed to recompute mark %s: %v", markID, err)
		}
	}
	return nil
}

func recomputeMark(db *sql.DB, markID string) error {
	mark, err := GetMarkByID(db, markID)
	if err != nil {
		return err
	}

	var summary grading.Summary
	if len(mark.Components) > 0 {
		var scores []grading.ComponentScore
		for _, cm := range mark.Components {
			scores = append(scores, grading.ComponentScore{Raw: cm.RawMark, Max: cm.MaxMark})
		}
		summary = grading.Aggregate(scores)
	} else {
		summary = grading.Single(mark.RawMark, mark.MaxRawMark)
	}

	query := `UPDATE marks
			  SET raw_mark = $1, max_raw_mark = $2, percentage = $3, band = $4, updated_at = NOW()
			  WHERE id = $5`
	_, err = db.Exec(query, summary.TotalRaw, summary.TotalMax, summary.Percentage, summary.Band, markID)
	return err
}

// RecomputeAllMarks walks every live mark and re-derives its aggregate
// figures. Run nightly to catch drift from component max edits.
func RecomputeAllMarks(db *sql.DB) (int, error) {
	rows, err := db.Query(`SELECT id FROM marks WHERE deleted_at IS NULL`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			continue
		}
		ids = append(ids, id)
	}

	if err := RecomputeMarks(db, ids); err != nil {
		return 0, err
	}
	return len(ids), nil
}
