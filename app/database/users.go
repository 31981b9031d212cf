package database

import (
	"database/sql"
	"fmt"
	"strings"

	"hillview-school/app/models"

	"golang.org/x/crypto/bcrypt"
)

// hashPassword hashes a password using bcrypt
func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

func GetUserByEmail(db *sql.DB, email string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, email, password, first_name, last_name, is_active, created_at, updated_at
			  FROM users WHERE email = $1 AND is_active = true`

	err := db.QueryRow(query, email).Scan(
		&user.ID, &user.Email, &user.Password, &user.FirstName,
		&user.LastName, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}
	return user, nil
}

func GetUserByID(db *sql.DB, userID string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, email, password, first_name, last_name, is_active, created_at, updated_at
			  FROM users WHERE id = $1 AND is_active = true`

	err := db.QueryRow(query, userID).Scan(
		&user.ID, &user.Email, &user.Password, &user.FirstName,
		&user.LastName, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}
	return user, nil
}

func GetUserRoles(db *sql.DB, userID string) ([]*models.Role, error) {
	query := `
		SELECT r.id, r.name
		FROM roles r
		JOIN user_roles ur ON r.id = ur.role_id
		WHERE ur.user_id = $1
	`
	rows, err := db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []*models.Role
	for rows.Next() {
		var role models.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, err
		}
		roles = append(roles, &role)
	}
	return roles, nil
}

func UpdateUserPassword(db *sql.DB, userID string, hashedPassword string) error {
	query := `UPDATE users SET password = $1, updated_at = NOW() WHERE id = $2`
	_, err := db.Exec(query, hashedPassword, userID)
	return err
}

// CreateTeacher creates a teacher account and assigns the given role
func CreateTeacher(db *sql.DB, user *models.User, roleName string) error {
	hashedPassword, err := hashPassword(user.Password)
	if err != nil {
		return err
	}

	query := `INSERT INTO users (email, password, first_name, last_name, is_active, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, true, NOW(), NOW())
			  RETURNING id, created_at, updated_at`

	err = db.QueryRow(query, user.Email, hashedPassword, user.FirstName, user.LastName).Scan(
		&user.ID, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return err
	}

	user.IsActive = true
	if roleName == "" {
		roleName = models.RoleTeacher
	}
	return AssignUserRole(db, user.ID, roleName)
}

// AssignUserRole assigns a role to a user by role name
func AssignUserRole(db *sql.DB, userID string, roleName string) error {
	query := `INSERT INTO user_roles (user_id, role_id, created_at)
			  SELECT $1, r.id, NOW()
			  FROM roles r
			  WHERE r.name = $2
			  ON CONFLICT (user_id, role_id) DO NOTHING`

	_, err := db.Exec(query, userID, roleName)
	return err
}

// GetAllTeachers gets all active teachers with their roles, subjects and streams
func GetAllTeachers(db *sql.DB) ([]*models.User, error) {
	query := `SELECT u.id, u.email, u.first_name, u.last_name, u.is_active, u.created_at, u.updated_at,
			  STRING_AGG(DISTINCT r.name, ', ') as roles,
			  STRING_AGG(DISTINCT s.name, ', ') as subject_names
			  FROM users u
			  INNER JOIN user_roles ur ON u.id = ur.user_id
			  INNER JOIN roles r ON ur.role_id = r.id
			  LEFT JOIN teacher_subjects ts ON u.id = ts.teacher_id
			  LEFT JOIN subjects s ON ts.subject_id = s.id AND s.is_active = true
			  WHERE r.name IN ('headteacher', 'admin', 'classteacher', 'teacher')
			  AND u.is_active = true
			  GROUP BY u.id, u.email, u.first_name, u.last_name, u.is_active, u.created_at, u.updated_at
			  ORDER BY u.first_name, u.last_name`

	rows, err := db.Query(query)
	if err != nil {
		return []*models.User{}, err
	}
	defer rows.Close()

	var teachers []*models.User
	for rows.Next() {
		teacher := &models.User{}
		var roles string
		var subjectNames *string
		err := rows.Scan(
			&teacher.ID, &teacher.Email, &teacher.FirstName, &teacher.LastName,
			&teacher.IsActive, &teacher.CreatedAt, &teacher.UpdatedAt, &roles, &subjectNames,
		)
		if err != nil {
			continue
		}

		if roles != "" {
			for _, roleName := range strings.Split(roles, ", ") {
				teacher.Roles = append(teacher.Roles, &models.Role{Name: roleName})
			}
		}
		if subjectNames != nil && *subjectNames != "" {
			for _, name := range strings.Split(*subjectNames, ", ") {
				teacher.Subjects = append(teacher.Subjects, &models.Subject{Name: name})
			}
		}

		teachers = append(teachers, teacher)
	}

	if teachers == nil {
		teachers = []*models.User{}
	}
	return teachers, nil
}

// UpdateTeacher updates an existing teacher's information
func UpdateTeacher(db *sql.DB, user *models.User) error {
	query := `UPDATE users
			  SET first_name = $1, last_name = $2, email = $3, updated_at = NOW()
			  WHERE id = $4 AND is_active = true`

	_, err := db.Exec(query, user.FirstName, user.LastName, user.Email, user.ID)
	if err != nil {
		return fmt.Errorf("failed to update teacher: %v", err)
	}
	return nil
}

// DeleteTeacher soft deletes a teacher (sets is_active = false)
func DeleteTeacher(db *sql.DB, teacherID string) error {
	query := `UPDATE users
			  SET is_active = false, updated_at = NOW()
			  WHERE id = $1`

	result, err := db.Exec(query, teacherID)
	if err != nil {
		return fmt.Errorf("failed to delete teacher: %v", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %v", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("teacher not found")
	}
	return nil
}

// LinkTeacherToSubjects links a teacher to multiple subjects
func LinkTeacherToSubjects(db *sql.DB, teacherID string, subjectIDs []string) error {
	if len(subjectIDs) == 0 {
		return nil
	}

	valueStrings := make([]string, 0, len(subjectIDs))
	valueArgs := make([]interface{}, 0, len(subjectIDs)*2)
	for i, subjectID := range subjectIDs {
		valueStrings = append(valueStrings, fmt.Sprintf("($%d, $%d)", i*2+1, i*2+2))
		valueArgs = append(valueArgs, teacherID, subjectID)
	}

	query := fmt.Sprintf("INSERT INTO teacher_subjects (teacher_id, subject_id) VALUES %s ON CONFLICT (teacher_id, subject_id) DO NOTHING",
		strings.Join(valueStrings, ","))

	_, err := db.Exec(query, valueArgs...)
	return err
}

// LinkTeacherToStreams links a teacher to the streams they teach
func LinkTeacherToStreams(db *sql.DB, teacherID string, streamIDs []string) error {
	if len(streamIDs) == 0 {
		return nil
	}

	valueStrings := make([]string, 0, len(streamIDs))
	valueArgs := make([]interface{}, 0, len(streamIDs)*2)
	for i, streamID := range streamIDs {
		valueStrings = append(valueStrings, fmt.Sprintf("($%d, $%d)", i*2+1, i*2+2))
		valueArgs = append(valueArgs, teacherID, streamID)
	}

	query := fmt.Sprintf("INSERT INTO teacher_streams (teacher_id, stream_id) VALUES %s ON CONFLICT (teacher_id, stream_id) DO NOTHING",
		strings.Join(valueStrings, ","))

	_, err := db.Exec(query, valueArgs...)
	return err
}

// GetTeacherSubjects gets subjects a teacher is linked to
func GetTeacherSubjects(db *sql.DB, teacherID string) ([]*models.Subject, error) {
	query := `SELECT s.id, s.name, s.code, s.education_level, s.is_composite, s.is_active, s.created_at, s.updated_at
			  FROM subjects s
			  INNER JOIN teacher_subjects ts ON s.id = ts.subject_id
			  WHERE ts.teacher_id = $1 AND s.is_active = true
			  ORDER BY s.name`

	rows, err := db.Query(query, teacherID)
	if err != nil {
		return []*models.Subject{}, err
	}
	defer rows.Close()

	var subjects []*models.Subject
	for rows.Next() {
		subject := &models.Subject{}
		err := rows.Scan(
			&subject.ID, &subject.Name, &subject.Code, &subject.EducationLevel,
			&subject.IsComposite, &subject.IsActive, &subject.CreatedAt, &subject.UpdatedAt,
		)
		if err != nil {
			continue
		}
		subjects = append(subjects, subject)
	}

	if subjects == nil {
		subjects = []*models.Subject{}
	}
	return subjects, nil
}

// GetTeacherStreams gets streams a teacher is linked to
func GetTeacherStreams(db *sql.DB, teacherID string) ([]*models.Stream, error) {
	query := `SELECT st.id, st.grade_id, st.name, st.teacher_id, st.is_active, st.created_at, st.updated_at,
			  g.name as grade_name
			  FROM streams st
			  INNER JOIN teacher_streams tst ON st.id = tst.stream_id
			  INNER JOIN grades g ON st.grade_id = g.id
			  WHERE tst.teacher_id = $1 AND st.is_active = true
			  ORDER BY g.level, st.name`

	rows, err := db.Query(query, teacherID)
	if err != nil {
		return []*models.Stream{}, err
	}
	defer rows.Close()

	var streams []*models.Stream
	for rows.Next() {
		stream := &models.Stream{}
		var gradeName string
		err := rows.Scan(
			&stream.ID, &stream.GradeID, &stream.Name, &stream.TeacherID,
			&stream.IsActive, &stream.CreatedAt, &stream.UpdatedAt, &gradeName,
		)
		if err != nil {
			continue
		}
		stream.Grade = &models.Grade{ID: stream.GradeID, Name: gradeName}
		streams = append(streams, stream)
	}

	if streams == nil {
		streams = []*models.Stream{}
	}
	return streams, nil
}

// GetTeacherCountsByRole gets teacher counts grouped by role
func GetTeacherCountsByRole(db *sql.DB) (map[string]int, error) {
	query := `SELECT r.name, COUNT(DISTINCT u.id) as count
			  FROM roles r
			  LEFT JOIN user_roles ur ON r.id = ur.role_id
			  LEFT JOIN users u ON ur.user_id = u.id AND u.is_active = true
			  WHERE r.name IN ('headteacher', 'admin', 'classteacher', 'teacher')
			  GROUP BY r.name`

	rows, err := db.Query(query)
	if err != nil {
		return make(map[string]int), err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var roleName string
		var count int
		if err := rows.Scan(&roleName, &count); err == nil {
			counts[roleName] = count
		}
	}
	return counts, nil
}
