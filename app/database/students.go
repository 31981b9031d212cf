package database

import (
	"database/sql"
	"fmt"
	"strings"

	"hillview-school/app/models"
)

// StudentFilters represents filtering options for students
type StudentFilters struct {
	Search    string
	GradeID   string
	StreamID  string
	Gender    string
	SortBy    string
	SortOrder string
	Limit     int
	Offset    int
}

// buildStudentConditions turns filters into SQL conditions and args. Shared
// by the count and data queries so both always agree.
func buildStudentConditions(filters StudentFilters) ([]string, []interface{}) {
	var conditions []string
	var args []interface{}
	argIndex := 1

	if filters.Search != "" {
		searchPattern := "%" + strings.ToLower(filters.Search) + "%"
		conditions = append(conditions, fmt.Sprintf(`(
			LOWER(s.first_name) LIKE $%d
			OR LOWER(s.last_name) LIKE $%d
			OR LOWER(CONCAT(s.first_name, ' ', s.last_name)) LIKE $%d
			OR LOWER(s.admission_number) LIKE $%d
		)`, argIndex, argIndex, argIndex, argIndex))
		args = append(args, searchPattern)
		argIndex++
	}

	if filters.GradeID != "" {
		conditions = append(conditions, fmt.Sprintf("s.grade_id = $%d", argIndex))
		args = append(args, filters.GradeID)
		argIndex++
	}

	if filters.StreamID != "" {
		conditions = append(conditions, fmt.Sprintf("s.stream_id = $%d", argIndex))
		args = append(args, filters.StreamID)
		argIndex++
	}

	if filters.Gender != "" {
		conditions = append(conditions, fmt.Sprintf("s.gender = $%d", argIndex))
		args = append(args, filters.Gender)
		argIndex++
	}

	return conditions, args
}

// studentOrderClause validates sort inputs against a whitelist
func studentOrderClause(filters StudentFilters) string {
	column := "s.first_name"
	switch filters.SortBy {
	case "admission_number":
		column = "s.admission_number"
	case "last_name":
		column = "s.last_name"
	case "created_at":
		column = "s.created_at"
	}

	order := "ASC"
	if strings.EqualFold(filters.SortOrder, "desc") {
		order = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, s.last_name ASC", column, order)
}

// GetStudentsWithPagination returns a page of students plus the total count
func GetStudentsWithPagination(db *sql.DB, filters StudentFilters) ([]*models.Student, int, error) {
	conditions, args := buildStudentConditions(filters)
	where := " WHERE s.is_active = true"
	if len(conditions) > 0 {
		where += " AND " + strings.Join(conditions, " AND ")
	}

	countQuery := `SELECT COUNT(s.id) FROM students s` + where
	var total int
	if err := db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataQuery := `SELECT s.id, s.admission_number, s.first_name, s.last_name, s.gender, s.date_of_birth,
				  s.grade_id, s.stream_id, s.is_active, s.created_at, s.updated_at,
				  g.name as grade_name, st.name as stream_name
				  FROM students s
				  INNER JOIN grades g ON s.grade_id = g.id
				  INNER JOIN streams st ON s.stream_id = st.id` + where + studentOrderClause(filters)

	argIndex := len(args) + 1
	if filters.Limit > 0 {
		dataQuery += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
		args = append(args, filters.Limit, filters.Offset)
	}

	rows, err := db.Query(dataQuery, args...)
	if err != nil {
		return nil, total, err
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		student := &models.Student{}
		var gender *string
		var gradeName, streamName string
		err := rows.Scan(
			&student.ID, &student.AdmissionNumber, &student.FirstName, &student.LastName,
			&gender, &student.DateOfBirth, &student.GradeID, &student.StreamID,
			&student.IsActive, &student.CreatedAt, &student.UpdatedAt,
			&gradeName, &streamName,
		)
		if err != nil {
			continue
		}

		if gender != nil {
			g := models.Gender(*gender)
			student.Gender = &g
		}
		student.Grade = &models.Grade{ID: student.GradeID, Name: gradeName}
		student.Stream = &models.Stream{ID: student.StreamID, GradeID: student.GradeID, Name: streamName}

		students = append(students, student)
	}

	if students == nil {
		students = []*models.Student{}
	}
	return students, total, nil
}

// GetStudentByID gets a single active student with grade and stream
func GetStudentByID(db *sql.DB, studentID string) (*models.Student, error) {
	query := `SELECT s.id, s.admission_number, s.first_name, s.last_name, s.gender, s.date_of_birth,
			  s.grade_id, s.stream_id, s.is_active, s.created_at, s.updated_at,
			  g.name as grade_name, st.name as stream_name
			  FROM students s
			  INNER JOIN grades g ON s.grade_id = g.id
			  INNER JOIN streams st ON s.stream_id = st.id
			  WHERE s.id = $1 AND s.is_active = true`

	student := &models.Student{}
	var gender *string
	var gradeName, streamName string
	err := db.QueryRow(query, studentID).Scan(
		&student.ID, &student.AdmissionNumber, &student.FirstName, &student.LastName,
		&gender, &student.DateOfBirth, &student.GradeID, &student.StreamID,
		&student.IsActive, &student.CreatedAt, &student.UpdatedAt,
		&gradeName, &streamName,
	)
	if err != nil {
		return nil, err
	}

	if gender != nil {
		g := models.Gender(*gender)
		student.Gender = &g
	}
	student.Grade = &models.Grade{ID: student.GradeID, Name: gradeName}
	student.Stream = &models.Stream{ID: student.StreamID, GradeID: student.GradeID, Name: streamName}

	return student, nil
}

// GetStudentsByStream returns active students in a stream ordered by name
func GetStudentsByStream(db *sql.DB, streamID string) ([]*models.Student, error) {
	query := `SELECT id, admission_number, first_name, last_name, gender, date_of_birth,
			  grade_id, stream_id, is_active, created_at, updated_at
			  FROM students
			  WHERE stream_id = $1 AND is_active = true
			  ORDER BY first_name, last_name`

	rows, err := db.Query(query, streamID)
	if err != nil {
		return []*models.Student{}, err
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		student := &models.Student{}
		var gender *string
		err := rows.Scan(
			&student.ID, &student.AdmissionNumber, &student.FirstName, &student.LastName,
			&gender, &student.DateOfBirth, &student.GradeID, &student.StreamID,
			&student.IsActive, &student.CreatedAt, &student.UpdatedAt,
		)
		if err != nil {
			continue
		}
		if gender != nil {
			g := models.Gender(*gender)
			student.Gender = &g
		}
		students = append(students, student)
	}

	if students == nil {
		students = []*models.Student{}
	}
	return students, nil
}

// CreateStudent inserts a student; the stream must belong to the grade
func CreateStudent(db *sql.DB, student *models.Student) error {
	var streamGradeID string
	err := db.QueryRow("SELECT grade_id FROM streams WHERE id = $1 AND is_active = true", student.StreamID).Scan(&streamGradeID)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("stream not found")
		}
		return err
	}
	if streamGradeID != student.GradeID {
		return fmt.Errorf("stream does not belong to the selected grade")
	}

	query := `INSERT INTO students (admission_number, first_name, last_name, gender, date_of_birth, grade_id, stream_id, is_active, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, true, NOW(), NOW())
			  RETURNING id, created_at, updated_at`

	student.IsActive = true
	return db.QueryRow(query,
		student.AdmissionNumber, student.FirstName, student.LastName,
		student.Gender, student.DateOfBirth, student.GradeID, student.StreamID,
	).Scan(&student.ID, &student.CreatedAt, &student.UpdatedAt)
}

// UpdateStudent updates identity and class placement
func UpdateStudent(db *sql.DB, student *models.Student) error {
	var streamGradeID string
	err := db.QueryRow("SELECT grade_id FROM streams WHERE id = $1 AND is_active = true", student.StreamID).Scan(&streamGradeID)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("stream not found")
		}
		return err
	}
	if streamGradeID != student.GradeID {
		return fmt.Errorf("stream does not belong to the selected grade")
	}

	query := `UPDATE students
			  SET admission_number = $1, first_name = $2, last_name = $3, gender = $4,
			      date_of_birth = $5, grade_id = $6, stream_id = $7, updated_at = NOW()
			  WHERE id = $8 AND is_active = true`

	result, err := db.Exec(query,
		student.AdmissionNumber, student.FirstName, student.LastName, student.Gender,
		student.DateOfBirth, student.GradeID, student.StreamID, student.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update student: %v", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("student not found")
	}
	return nil
}

// DeleteStudent soft deletes a student
func DeleteStudent(db *sql.DB, studentID string) error {
	result, err := db.Exec(`UPDATE students SET is_active = false, updated_at = NOW() WHERE id = $1`, studentID)
	if err != nil {
		return fmt.Errorf("failed to delete student: %v", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("student not found")
	}
	return nil
}

// GetStudentsStats returns the student counters shown on list pages
func GetStudentsStats(db *sql.DB) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var totalStudents int
	if err := db.QueryRow("SELECT COUNT(*) FROM students WHERE is_active = true").Scan(&totalStudents); err != nil {
		totalStudents = 0
	}
	stats["total_students"] = totalStudents

	var maleStudents, femaleStudents int
	db.QueryRow("SELECT COUNT(*) FROM students WHERE is_active = true AND gender = 'male'").Scan(&maleStudents)
	db.QueryRow("SELECT COUNT(*) FROM students WHERE is_active = true AND gender = 'female'").Scan(&femaleStudents)
	stats["male_students"] = maleStudents
	stats["female_students"] = femaleStudents

	var newThisMonth int
	if err := db.QueryRow("SELECT COUNT(*) FROM students WHERE is_active = true AND created_at >= date_trunc('month', CURRENT_DATE)").Scan(&newThisMonth); err != nil {
		newThisMonth = 0
	}
	stats["new_this_month"] = newThisMonth

	return stats, nil
}
