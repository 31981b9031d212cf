package database

import (
	"database/sql"

	"hillview-school/app/grading"
)

// TopPerformer is one row of the top performers card
type TopPerformer struct {
	StudentID       string  `json:"student_id"`
	AdmissionNumber string  `json:"admission_number"`
	StudentName     string  `json:"student_name"`
	GradeName       string  `json:"grade_name"`
	StreamName      string  `json:"stream_name"`
	AveragePercent  float64 `json:"average_percent"`
	Band            string  `json:"band"`
	SubjectCount    int     `json:"subject_count"`
}

// GetTopPerformers ranks students by mean percentage across their subjects
// for a term and assessment type. gradeID may be empty for school-wide.
func GetTopPerformers(db *sql.DB, termID, assessmentTypeID, gradeID string, limit int) ([]*TopPerformer, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `SELECT s.id, s.admission_number, CONCAT(s.first_name, ' ', s.last_name) as student_name,
			  g.name as grade_name, st.name as stream_name,
			  ROUND(AVG(m.percentage), 2) as average_percent,
			  COUNT(m.id) as subject_count
			  FROM marks m
			  INNER JOIN students s ON m.student_id = s.id AND s.is_active = true
			  INNER JOIN grades g ON m.grade_id = g.id
			  INNER JOIN streams st ON m.stream_id = st.id
			  WHERE m.term_id = $1 AND m.assessment_type_id = $2 AND m.deleted_at IS NULL`

	args := []interface{}{termID, assessmentTypeID}
	if gradeID != "" {
		query += " AND m.grade_id = $3"
		args = append(args, gradeID)
	}

	query += ` GROUP BY s.id, s.admission_number, s.first_name, s.last_name, g.name, st.name
			   ORDER BY average_percent DESC, student_name`

	if gradeID != "" {
		query += " LIMIT $4"
	} else {
		query += " LIMIT $3"
	}
	args = append(args, limit)

	rows, err := db.Query(query, args...)
	if err != nil {
		return []*TopPerformer{}, err
	}
	defer rows.Close()

	var performers []*TopPerformer
	for rows.Next() {
		p := &TopPerformer{}
		err := rows.Scan(
			&p.StudentID, &p.AdmissionNumber, &p.StudentName,
			&p.GradeName, &p.StreamName, &p.AveragePercent, &p.SubjectCount,
		)
		if err != nil {
			continue
		}
		p.Band = grading.BandFor(p.AveragePercent)
		performers = append(performers, p)
	}

	if performers == nil {
		performers = []*TopPerformer{}
	}
	return performers, nil
}

// SubjectPerformance aggregates one subject's marks
type SubjectPerformance struct {
	SubjectID      string  `json:"subject_id"`
	SubjectName    string  `json:"subject_name"`
	SubjectCode    string  `json:"subject_code"`
	AveragePercent float64 `json:"average_percent"`
	Band           string  `json:"band"`
	MarkCount      int     `json:"mark_count"`
	HighestPercent float64 `json:"highest_percent"`
	LowestPercent  float64 `json:"lowest_percent"`
}

// GetSubjectPerformance aggregates average/high/low percentage per subject
func GetSubjectPerformance(db *sql.DB, termID, assessmentTypeID, gradeID string) ([]*SubjectPerformance, error) {
	query := `SELECT sub.id, sub.name, sub.code,
			  ROUND(AVG(m.percentage), 2) as average_percent,
			  COUNT(m.id) as mark_count,
			  MAX(m.percentage) as highest_percent,
			  MIN(m.percentage) as lowest_percent
			  FROM marks m
			  INNER JOIN subjects sub ON m.subject_id = sub.id
			  WHERE m.term_id = $1 AND m.assessment_type_id = $2 AND m.deleted_at IS NULL`

	args := []interface{}{termID, assessmentTypeID}
	if gradeID != "" {
		query += " AND m.grade_id = $3"
		args = append(args, gradeID)
	}
	query += ` GROUP BY sub.id, sub.name, sub.code ORDER BY average_percent DESC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return []*SubjectPerformance{}, err
	}
	defer rows.Close()

	var performance []*SubjectPerformance
	for rows.Next() {
		sp := &SubjectPerformance{}
		err := rows.Scan(
			&sp.SubjectID, &sp.SubjectName, &sp.SubjectCode,
			&sp.AveragePercent, &sp.MarkCount, &sp.HighestPercent, &sp.LowestPercent,
		)
		if err != nil {
			continue
		}
		sp.Band = grading.BandFor(sp.AveragePercent)
		performance = append(performance, sp)
	}

	if performance == nil {
		performance = []*SubjectPerformance{}
	}
	return performance, nil
}

// ClassPerformance aggregates one stream's marks
type ClassPerformance struct {
	GradeID        string  `json:"grade_id"`
	GradeName      string  `json:"grade_name"`
	StreamID       string  `json:"stream_id"`
	StreamName     string  `json:"stream_name"`
	AveragePercent float64 `json:"average_percent"`
	Band           string  `json:"band"`
	StudentCount   int     `json:"student_count"`
}

// GetClassPerformance aggregates average percentage per grade/stream
func GetClassPerformance(db *sql.DB, termID, assessmentTypeID string) ([]*ClassPerformance, error) {
	query := `SELECT g.id, g.name, st.id, st.name,
			  ROUND(AVG(m.percentage), 2) as average_percent,
			  COUNT(DISTINCT m.student_id) as student_count
			  FROM marks m
			  INNER JOIN grades g ON m.grade_id = g.id
			  INNER JOIN streams st ON m.stream_id = st.id
			  WHERE m.term_id = $1 AND m.assessment_type_id = $2 AND m.deleted_at IS NULL
			  GROUP BY g.id, g.name, g.level, st.id, st.name
			  ORDER BY g.level, st.name`

	rows, err := db.Query(query, termID, assessmentTypeID)
	if err != nil {
		return []*ClassPerformance{}, err
	}
	defer rows.Close()

	var performance []*ClassPerformance
	for rows.Next() {
		cp := &ClassPerformance{}
		err := rows.Scan(
			&cp.GradeID, &cp.GradeName, &cp.StreamID, &cp.StreamName,
			&cp.AveragePercent, &cp.StudentCount,
		)
		if err != nil {
			continue
		}
		cp.Band = grading.BandFor(cp.AveragePercent)
		performance = append(performance, cp)
	}

	if performance == nil {
		performance = []*ClassPerformance{}
	}
	return performance, nil
}

// GetBandDistribution counts marks per performance band, every band present
// even when zero so charts keep a stable axis
func GetBandDistribution(db *sql.DB, termID, assessmentTypeID, gradeID string) (map[string]int, error) {
	query := `SELECT band, COUNT(*) FROM marks
			  WHERE term_id = $1 AND assessment_type_id = $2 AND deleted_at IS NULL`

	args := []interface{}{termID, assessmentTypeID}
	if gradeID != "" {
		query += " AND grade_id = $3"
		args = append(args, gradeID)
	}
	query += " GROUP BY band"

	distribution := make(map[string]int, 8)
	for _, band := range grading.Bands() {
		distribution[band] = 0
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return distribution, err
	}
	defer rows.Close()

	for rows.Next() {
		var band string
		var count int
		if err := rows.Scan(&band, &count); err == nil {
			distribution[band] = count
		}
	}
	return distribution, nil
}
