package database

import (
	"database/sql"

	"hillview-school/app/models"
)

// GetHeadteacherStats returns the school-wide counters for the headteacher
// dashboard
func GetHeadteacherStats(db *sql.DB) (map[string]interface{}, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM students WHERE is_active = true) as total_students,
			(SELECT COUNT(DISTINCT u.id) FROM users u
			 INNER JOIN user_roles ur ON u.id = ur.user_id
			 INNER JOIN roles r ON ur.role_id = r.id
			 WHERE r.name IN ('headteacher', 'admin', 'classteacher', 'teacher')
			 AND u.is_active = true) as total_teachers,
			(SELECT COUNT(*) FROM subjects WHERE is_active = true) as total_subjects,
			(SELECT COUNT(*) FROM streams WHERE is_active = true) as total_streams,
			(SELECT COUNT(*) FROM marks WHERE deleted_at IS NULL) as total_marks
	`

	var totalStudents, totalTeachers, totalSubjects, totalStreams, totalMarks int
	err := db.QueryRow(query).Scan(&totalStudents, &totalTeachers, &totalSubjects, &totalStreams, &totalMarks)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"total_students": totalStudents,
		"total_teachers": totalTeachers,
		"total_subjects": totalSubjects,
		"total_streams":  totalStreams,
		"total_marks":    totalMarks,
	}, nil
}

// GetClassTeacherStats returns the counters for one stream's dashboard
func GetClassTeacherStats(db *sql.DB, streamID string) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var totalStudents, maleStudents, femaleStudents int
	db.QueryRow("SELECT COUNT(*) FROM students WHERE stream_id = $1 AND is_active = true", streamID).Scan(&totalStudents)
	db.QueryRow("SELECT COUNT(*) FROM students WHERE stream_id = $1 AND is_active = true AND gender = 'male'", streamID).Scan(&maleStudents)
	db.QueryRow("SELECT COUNT(*) FROM students WHERE stream_id = $1 AND is_active = true AND gender = 'female'", streamID).Scan(&femaleStudents)

	var markCount int
	db.QueryRow("SELECT COUNT(*) FROM marks WHERE stream_id = $1 AND deleted_at IS NULL", streamID).Scan(&markCount)

	stats["total_students"] = totalStudents
	stats["male_students"] = maleStudents
	stats["female_students"] = femaleStudents
	stats["total_marks"] = markCount

	return stats, nil
}

// GetSubjectTeacherStats returns counters over the subjects a teacher takes
func GetSubjectTeacherStats(db *sql.DB, teacherID string) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var subjectCount, streamCount, markCount int
	db.QueryRow("SELECT COUNT(*) FROM teacher_subjects WHERE teacher_id = $1", teacherID).Scan(&subjectCount)
	db.QueryRow("SELECT COUNT(*) FROM teacher_streams WHERE teacher_id = $1", teacherID).Scan(&streamCount)
	db.QueryRow(`SELECT COUNT(*) FROM marks m
				 INNER JOIN teacher_subjects ts ON m.subject_id = ts.subject_id
				 WHERE ts.teacher_id = $1 AND m.deleted_at IS NULL`, teacherID).Scan(&markCount)

	stats["subject_count"] = subjectCount
	stats["stream_count"] = streamCount
	stats["total_marks"] = markCount

	return stats, nil
}

// RecentMark is one line of the recent activity feed
type RecentMark struct {
	StudentName string  `json:"student_name"`
	SubjectName string  `json:"subject_name"`
	GradeName   string  `json:"grade_name"`
	StreamName  string  `json:"stream_name"`
	Percentage  float64 `json:"percentage"`
	Band        string  `json:"band"`
	UpdatedAt   string  `json:"updated_at"`
}

// GetRecentMarks returns the most recently saved marks for dashboards
func GetRecentMarks(db *sql.DB, limit int) ([]*RecentMark, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `SELECT CONCAT(s.first_name, ' ', s.last_name), sub.name, g.name, st.name,
			  m.percentage, m.band, TO_CHAR(m.updated_at, 'YYYY-MM-DD HH24:MI')
			  FROM marks m
			  INNER JOIN students s ON m.student_id = s.id
			  INNER JOIN subjects sub ON m.subject_id = sub.id
			  INNER JOIN grades g ON m.grade_id = g.id
			  INNER JOIN streams st ON m.stream_id = st.id
			  WHERE m.deleted_at IS NULL
			  ORDER BY m.updated_at DESC
			  LIMIT $1`

	rows, err := db.Query(query, limit)
	if err != nil {
		return []*RecentMark{}, err
	}
	defer rows.Close()

	var recent []*RecentMark
	for rows.Next() {
		rm := &RecentMark{}
		err := rows.Scan(
			&rm.StudentName, &rm.SubjectName, &rm.GradeName, &rm.StreamName,
			&rm.Percentage, &rm.Band, &rm.UpdatedAt,
		)
		if err != nil {
			continue
		}
		recent = append(recent, rm)
	}

	if recent == nil {
		recent = []*RecentMark{}
	}
	return recent, nil
}

// GetClassTeacherStream returns the stream a class teacher is assigned to
func GetClassTeacherStream(db *sql.DB, teacherID string) (*models.Stream, error) {
	query := `SELECT st.id, st.grade_id, st.name, st.teacher_id, st.is_active, st.created_at, st.updated_at,
			  g.name as grade_name
			  FROM streams st
			  INNER JOIN grades g ON st.grade_id = g.id
			  WHERE st.teacher_id = $1 AND st.is_active = true
			  LIMIT 1`

	stream := &models.Stream{}
	var gradeName string
	err := db.QueryRow(query, teacherID).Scan(
		&stream.ID, &stream.GradeID, &stream.Name, &stream.TeacherID,
		&stream.IsActive, &stream.CreatedAt, &stream.UpdatedAt, &gradeName,
	)
	if err != nil {
		return nil, err
	}
	stream.Grade = &models.Grade{ID: stream.GradeID, Name: gradeName}
	return stream, nil
}
