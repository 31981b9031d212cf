package database

import (
	"database/sql"
	"fmt"

	"hillview-school/app/models"
)

// GetAllGrades gets all grades with their streams and student counts
func GetAllGrades(db *sql.DB) ([]*models.Grade, error) {
	query := `SELECT g.id, g.name, g.level, g.education_level, g.is_active, g.created_at, g.updated_at,
			  COALESCE(s.student_count, 0) as student_count
			  FROM grades g
			  LEFT JOIN (
				  SELECT grade_id, COUNT(*) as student_count
				  FROM students
				  WHERE is_active = true
				  GROUP BY grade_id
			  ) s ON g.id = s.grade_id
			  WHERE g.is_active = true
			  ORDER BY g.level`

	rows, err := db.Query(query)
	if err != nil {
		return []*models.Grade{}, err
	}
	defer rows.Close()

	var grades []*models.Grade
	for rows.Next() {
		grade := &models.Grade{}
		err := rows.Scan(
			&grade.ID, &grade.Name, &grade.Level, &grade.EducationLevel,
			&grade.IsActive, &grade.CreatedAt, &grade.UpdatedAt, &grade.StudentCount,
		)
		if err != nil {
			continue
		}
		streams, _ := GetStreamsByGrade(db, grade.ID)
		grade.Streams = streams
		grades = append(grades, grade)
	}

	if grades == nil {
		grades = []*models.Grade{}
	}
	return grades, nil
}

func CreateGrade(db *sql.DB, grade *models.Grade) error {
	query := `INSERT INTO grades (name, level, education_level, is_active, created_at, updated_at)
			  VALUES ($1, $2, $3, true, NOW(), NOW())
			  RETURNING id, created_at, updated_at`

	grade.IsActive = true
	return db.QueryRow(query, grade.Name, grade.Level, grade.EducationLevel).Scan(
		&grade.ID, &grade.CreatedAt, &grade.UpdatedAt,
	)
}

func UpdateGrade(db *sql.DB, grade *models.Grade) error {
	query := `UPDATE grades
			  SET name = $1, level = $2, education_level = $3, updated_at = NOW()
			  WHERE id = $4 AND is_active = true`
	_, err := db.Exec(query, grade.Name, grade.Level, grade.EducationLevel, grade.ID)
	return err
}

func DeleteGrade(db *sql.DB, gradeID string) error {
	var studentCount int
	db.QueryRow("SELECT COUNT(*) FROM students WHERE grade_id = $1 AND is_active = true", gradeID).Scan(&studentCount)
	if studentCount > 0 {
		return fmt.Errorf("cannot delete a grade with %d active students", studentCount)
	}
	_, err := db.Exec(`UPDATE grades SET is_active = false, updated_at = NOW() WHERE id = $1`, gradeID)
	return err
}

// GetStreamsByGrade gets active streams for a grade with student counts
func GetStreamsByGrade(db *sql.DB, gradeID string) ([]*models.Stream, error) {
	query := `SELECT st.id, st.grade_id, st.name, st.teacher_id, st.is_active, st.created_at, st.updated_at,
			  u.first_name, u.last_name,
			  COALESCE(s.student_count, 0) as student_count
			  FROM streams st
			  LEFT JOIN users u ON st.teacher_id = u.id AND u.is_active = true
			  LEFT JOIN (
				  SELECT stream_id, COUNT(*) as student_count
				  FROM students
				  WHERE is_active = true
				  GROUP BY stream_id
			  ) s ON st.id = s.stream_id
			  WHERE st.grade_id = $1 AND st.is_active = true
			  ORDER BY st.name`

	rows, err := db.Query(query, gradeID)
	if err != nil {
		return []*models.Stream{}, err
	}
	defer rows.Close()

	var streams []*models.Stream
	for rows.Next() {
		stream := &models.Stream{}
		var teacherFirstName, teacherLastName *string
		err := rows.Scan(
			&stream.ID, &stream.GradeID, &stream.Name, &stream.TeacherID,
			&stream.IsActive, &stream.CreatedAt, &stream.UpdatedAt,
			&teacherFirstName, &teacherLastName, &stream.StudentCount,
		)
		if err != nil {
			continue
		}
		if stream.TeacherID != nil && teacherFirstName != nil && teacherLastName != nil {
			stream.Teacher = &models.User{
				ID:        *stream.TeacherID,
				FirstName: *teacherFirstName,
				LastName:  *teacherLastName,
			}
		}
		streams = append(streams, stream)
	}

	if streams == nil {
		streams = []*models.Stream{}
	}
	return streams, nil
}

// GetStreamByID gets a stream with its grade
func GetStreamByID(db *sql.DB, streamID string) (*models.Stream, error) {
	query := `SELECT st.id, st.grade_id, st.name, st.teacher_id, st.is_active, st.created_at, st.updated_at,
			  g.name as grade_name, g.level
			  FROM streams st
			  INNER JOIN grades g ON st.grade_id = g.id
			  WHERE st.id = $1 AND st.is_active = true`

	stream := &models.Stream{}
	var gradeName string
	var gradeLevel int
	err := db.QueryRow(query, streamID).Scan(
		&stream.ID, &stream.GradeID, &stream.Name, &stream.TeacherID,
		&stream.IsActive, &stream.CreatedAt, &stream.UpdatedAt,
		&gradeName, &gradeLevel,
	)
	if err != nil {
		return nil, err
	}
	stream.Grade = &models.Grade{ID: stream.GradeID, Name: gradeName, Level: gradeLevel}
	return stream, nil
}

// CreateStream creates a stream; assigning a class teacher grants the
// classteacher role
func CreateStream(db *sql.DB, stream *models.Stream) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO streams (grade_id, name, teacher_id, is_active, created_at, updated_at)
			  VALUES ($1, $2, $3, true, NOW(), NOW())
			  RETURNING id, created_at, updated_at`

	stream.IsActive = true
	err = tx.QueryRow(query, stream.GradeID, stream.Name, stream.TeacherID).Scan(
		&stream.ID, &stream.CreatedAt, &stream.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if stream.TeacherID != nil && *stream.TeacherID != "" {
		if err := assignClassTeacherRole(tx, *stream.TeacherID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func UpdateStream(db *sql.DB, stream *models.Stream) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `UPDATE streams
			  SET name = $1, teacher_id = $2, updated_at = NOW()
			  WHERE id = $3 AND is_active = true`
	if _, err := tx.Exec(query, stream.Name, stream.TeacherID, stream.ID); err != nil {
		return err
	}

	if stream.TeacherID != nil && *stream.TeacherID != "" {
		if err := assignClassTeacherRole(tx, *stream.TeacherID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func DeleteStream(db *sql.DB, streamID string) error {
	var studentCount int
	db.QueryRow("SELECT COUNT(*) FROM students WHERE stream_id = $1 AND is_active = true", streamID).Scan(&studentCount)
	if studentCount > 0 {
		return fmt.Errorf("cannot delete a stream with %d active students", studentCount)
	}
	_, err := db.Exec(`UPDATE streams SET is_active = false, updated_at = NOW() WHERE id = $1`, streamID)
	return err
}

func assignClassTeacherRole(tx *sql.Tx, teacherID string) error {
	query := `INSERT INTO user_roles (user_id, role_id, created_at)
			  SELECT $1, r.id, NOW()
			  FROM roles r
			  WHERE r.name = $2
			  ON CONFLICT (user_id, role_id) DO NOTHING`
	_, err := tx.Exec(query, teacherID, models.RoleClassTeacher)
	return err
}

// GetAllTerms gets all active terms, newest academic year first
func GetAllTerms(db *sql.DB) ([]*models.Term, error) {
	query := `SELECT id, name, academic_year, start_date, end_date, is_current, is_active, created_at, updated_at
			  FROM terms WHERE is_active = true
			  ORDER BY academic_year DESC, start_date`

	rows, err := db.Query(query)
	if err != nil {
		return []*models.Term{}, err
	}
	defer rows.Close()

	var terms []*models.Term
	for rows.Next() {
		term := &models.Term{}
		err := rows.Scan(
			&term.ID, &term.Name, &term.AcademicYear, &term.StartDate.Time, &term.EndDate.Time,
			&term.IsCurrent, &term.IsActive, &term.CreatedAt, &term.UpdatedAt,
		)
		if err != nil {
			continue
		}
		terms = append(terms, term)
	}

	if terms == nil {
		terms = []*models.Term{}
	}
	return terms, nil
}

// GetCurrentTerm returns the term flagged current, if any
func GetCurrentTerm(db *sql.DB) (*models.Term, error) {
	query := `SELECT id, name, academic_year, start_date, end_date, is_current, is_active, created_at, updated_at
			  FROM terms WHERE is_current = true AND is_active = true LIMIT 1`

	term := &models.Term{}
	err := db.QueryRow(query).Scan(
		&term.ID, &term.Name, &term.AcademicYear, &term.StartDate.Time, &term.EndDate.Time,
		&term.IsCurrent, &term.IsActive, &term.CreatedAt, &term.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return term, nil
}

// CreateTerm inserts a term; flagging it current clears the flag elsewhere
func CreateTerm(db *sql.DB, term *models.Term) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if term.IsCurrent {
		if _, err := tx.Exec(`UPDATE terms SET is_current = false WHERE is_current = true`); err != nil {
			return err
		}
	}

	query := `INSERT INTO terms (name, academic_year, start_date, end_date, is_current, is_active, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, true, NOW(), NOW())
			  RETURNING id, created_at, updated_at`

	term.IsActive = true
	err = tx.QueryRow(query, term.Name, term.AcademicYear, term.StartDate.Time, term.EndDate.Time, term.IsCurrent).Scan(
		&term.ID, &term.CreatedAt, &term.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func UpdateTerm(db *sql.DB, term *models.Term) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if term.IsCurrent {
		if _, err := tx.Exec(`UPDATE terms SET is_current = false WHERE is_current = true AND id != $1`, term.ID); err != nil {
			return err
		}
	}

	query := `UPDATE terms
			  SET name = $1, academic_year = $2, start_date = $3, end_date = $4, is_current = $5, updated_at = NOW()
			  WHERE id = $6 AND is_active = true`
	if _, err := tx.Exec(query, term.Name, term.AcademicYear, term.StartDate.Time, term.EndDate.Time, term.IsCurrent, term.ID); err != nil {
		return err
	}
	return tx.Commit()
}

func DeleteTerm(db *sql.DB, termID string) error {
	var markCount int
	db.QueryRow("SELECT COUNT(*) FROM marks WHERE term_id = $1 AND deleted_at IS NULL", termID).Scan(&markCount)
	if markCount > 0 {
		return fmt.Errorf("cannot delete a term with %d recorded marks", markCount)
	}
	_, err := db.Exec(`UPDATE terms SET is_active = false, updated_at = NOW() WHERE id = $1`, termID)
	return err
}

// GetAllAssessmentTypes gets all active assessment types
func GetAllAssessmentTypes(db *sql.DB) ([]*models.AssessmentType, error) {
	query := `SELECT id, name, code, weight, is_active, created_at, updated_at
			  FROM assessment_types WHERE is_active = true
			  ORDER BY name`

	rows, err := db.Query(query)
	if err != nil {
		return []*models.AssessmentType{}, err
	}
	defer rows.Close()

	var types []*models.AssessmentType
	for rows.Next() {
		at := &models.AssessmentType{}
		err := rows.Scan(&at.ID, &at.Name, &at.Code, &at.Weight, &at.IsActive, &at.CreatedAt, &at.UpdatedAt)
		if err != nil {
			continue
		}
		types = append(types, at)
	}

	if types == nil {
		types = []*models.AssessmentType{}
	}
	return types, nil
}

func CreateAssessmentType(db *sql.DB, at *models.AssessmentType) error {
	query := `INSERT INTO assessment_types (name, code, weight, is_active, created_at, updated_at)
			  VALUES ($1, $2, $3, true, NOW(), NOW())
			  RETURNING id, created_at, updated_at`

	at.IsActive = true
	if at.Weight <= 0 {
		at.Weight = 1.0
	}
	return db.QueryRow(query, at.Name, at.Code, at.Weight).Scan(&at.ID, &at.CreatedAt, &at.UpdatedAt)
}

func UpdateAssessmentType(db *sql.DB, at *models.AssessmentType) error {
	query := `UPDATE assessment_types
			  SET name = $1, code = $2, weight = $3, updated_at = NOW()
			  WHERE id = $4 AND is_active = true`
	_, err := db.Exec(query, at.Name, at.Code, at.Weight, at.ID)
	return err
}

func DeleteAssessmentType(db *sql.DB, id string) error {
	var markCount int
	db.QueryRow("SELECT COUNT(*) FROM marks WHERE assessment_type_id = $1 AND deleted_at IS NULL", id).Scan(&markCount)
	if markCount > 0 {
		return fmt.Errorf("cannot delete an assessment type with %d recorded marks", markCount)
	}
	_, err := db.Exec(`UPDATE assessment_types SET is_active = false, updated_at = NOW() WHERE id = $1`, id)
	return err
}
