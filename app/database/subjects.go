package database

import (
	"database/sql"
	"fmt"

	"hillview-school/app/models"
)

// GetAllSubjects gets all active subjects with component counts
func GetAllSubjects(db *sql.DB) ([]*models.Subject, error) {
	query := `SELECT s.id, s.name, s.code, s.education_level, s.is_composite, s.is_active, s.created_at, s.updated_at,
			  COALESCE(c.component_count, 0) as component_count
			  FROM subjects s
			  LEFT JOIN (
				  SELECT subject_id, COUNT(*) as component_count
				  FROM components
				  WHERE is_active = true
				  GROUP BY subject_id
			  ) c ON s.id = c.subject_id
			  WHERE s.is_active = true
			  ORDER BY s.name`

	rows, err := db.Query(query)
	if err != nil {
		return []*models.Subject{}, err
	}
	defer rows.Close()

	var subjects []*models.Subject
	for rows.Next() {
		subject := &models.Subject{}
		var componentCount int
		err := rows.Scan(
			&subject.ID, &subject.Name, &subject.Code, &subject.EducationLevel,
			&subject.IsComposite, &subject.IsActive, &subject.CreatedAt, &subject.UpdatedAt,
			&componentCount,
		)
		if err != nil {
			continue
		}
		if subject.IsComposite && componentCount > 0 {
			components, _ := GetComponentsBySubject(db, subject.ID)
			subject.Components = components
		}
		subjects = append(subjects, subject)
	}

	if subjects == nil {
		subjects = []*models.Subject{}
	}
	return subjects, nil
}

// GetSubjectByID gets a subject with its components
func GetSubjectByID(db *sql.DB, subjectID string) (*models.Subject, error) {
	query := `SELECT id, name, code, education_level, is_composite, is_active, created_at, updated_at
			  FROM subjects WHERE id = $1 AND is_active = true`

	subject := &models.Subject{}
	err := db.QueryRow(query, subjectID).Scan(
		&subject.ID, &subject.Name, &subject.Code, &subject.EducationLevel,
		&subject.IsComposite, &subject.IsActive, &subject.CreatedAt, &subject.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if subject.IsComposite {
		components, err := GetComponentsBySubject(db, subjectID)
		if err != nil {
			return nil, err
		}
		subject.Components = components
	}
	return subject, nil
}

func CreateSubject(db *sql.DB, subject *models.Subject) error {
	query := `INSERT INTO subjects (name, code, education_level, is_composite, is_active, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, true, NOW(), NOW())
			  RETURNING id, created_at, updated_at`

	subject.IsActive = true
	return db.QueryRow(query, subject.Name, subject.Code, subject.EducationLevel, subject.IsComposite).Scan(
		&subject.ID, &subject.CreatedAt, &subject.UpdatedAt,
	)
}

func UpdateSubject(db *sql.DB, subject *models.Subject) error {
	query := `UPDATE subjects
			  SET name = $1, code = $2, education_level = $3, is_composite = $4, updated_at = NOW()
			  WHERE id = $5 AND is_active = true`
	_, err := db.Exec(query, subject.Name, subject.Code, subject.EducationLevel, subject.IsComposite, subject.ID)
	return err
}

func DeleteSubject(db *sql.DB, subjectID string) error {
	var markCount int
	db.QueryRow("SELECT COUNT(*) FROM marks WHERE subject_id = $1 AND deleted_at IS NULL", subjectID).Scan(&markCount)
	if markCount > 0 {
		return fmt.Errorf("cannot delete a subject with %d recorded marks", markCount)
	}
	_, err := db.Exec(`UPDATE subjects SET is_active = false, updated_at = NOW() WHERE id = $1`, subjectID)
	return err
}

// GetComponentsBySubject gets active components of a composite subject
func GetComponentsBySubject(db *sql.DB, subjectID string) ([]*models.Component, error) {
	query := `SELECT id, subject_id, name, max_mark, is_active, created_at, updated_at
			  FROM components
			  WHERE subject_id = $1 AND is_active = true
			  ORDER BY name`

	rows, err := db.Query(query, subjectID)
	if err != nil {
		return []*models.Component{}, err
	}
	defer rows.Close()

	var components []*models.Component
	for rows.Next() {
		component := &models.Component{}
		err := rows.Scan(
			&component.ID, &component.SubjectID, &component.Name, &component.MaxMark,
			&component.IsActive, &component.CreatedAt, &component.UpdatedAt,
		)
		if err != nil {
			continue
		}
		components = append(components, component)
	}

	if components == nil {
		components = []*models.Component{}
	}
	return components, nil
}

func GetComponentByID(db *sql.DB, componentID string) (*models.Component, error) {
	query := `SELECT id, subject_id, name, max_mark, is_active, created_at, updated_at
			  FROM components WHERE id = $1 AND is_active = true`

	component := &models.Component{}
	err := db.QueryRow(query, componentID).Scan(
		&component.ID, &component.SubjectID, &component.Name, &component.MaxMark,
		&component.IsActive, &component.CreatedAt, &component.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return component, nil
}

// CreateComponent adds a component to a composite subject
func CreateComponent(db *sql.DB, component *models.Component) error {
	var isComposite bool
	err := db.QueryRow("SELECT is_composite FROM subjects WHERE id = $1 AND is_active = true", component.SubjectID).Scan(&isComposite)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("subject not found")
		}
		return err
	}
	if !isComposite {
		return fmt.Errorf("subject is not composite")
	}

	query := `INSERT INTO components (subject_id, name, max_mark, is_active, created_at, updated_at)
			  VALUES ($1, $2, $3, true, NOW(), NOW())
			  RETURNING id, created_at, updated_at`

	component.IsActive = true
	return db.QueryRow(query, component.SubjectID, component.Name, component.MaxMark).Scan(
		&component.ID, &component.CreatedAt, &component.UpdatedAt,
	)
}

// UpdateComponent updates a component. When the max drops below existing raw
// marks those raws are capped to the new max and every affected subject mark
// is re-aggregated.
func UpdateComponent(db *sql.DB, component *models.Component) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `UPDATE components
			  SET name = $1, max_mark = $2, updated_at = NOW()
			  WHERE id = $3 AND is_active = true`
	if _, err := tx.Exec(query, component.Name, component.MaxMark, component.ID); err != nil {
		return err
	}

	// Cap existing raws and carry the new max into stored component marks
	capQuery := `UPDATE component_marks
				 SET raw_mark = LEAST(raw_mark, $1), max_mark = $2, updated_at = NOW()
				 WHERE component_id = $3`
	if _, err := tx.Exec(capQuery, component.MaxMark, component.MaxMark, component.ID); err != nil {
		return err
	}

	affected, err := markIDsForComponent(tx, component.ID)
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	return RecomputeMarks(db, affected)
}

func DeleteComponent(db *sql.DB, componentID string) error {
	var markCount int
	db.QueryRow("SELECT COUNT(*) FROM component_marks WHERE component_id = $1", componentID).Scan(&markCount)
	if markCount > 0 {
		return fmt.Errorf("cannot delete a component with %d recorded marks", markCount)
	}
	_, err := db.Exec(`UPDATE components SET is_active = false, updated_at = NOW() WHERE id = $1`, componentID)
	return err
}

func markIDsForComponent(tx *sql.Tx, componentID string) ([]string, error) {
	rows, err := tx.Query(`SELECT DISTINCT mark_id FROM component_marks WHERE component_id = $1`, componentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
