package database

import (
	"database/sql"
	"log"
)

// RunMigrations creates the schema and seeds the fixed lookups. Statements
// are idempotent so the app can run them on every boot.
func RunMigrations(db *sql.DB) error {
	log.Println("Running database migrations...")

	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			log.Printf("Migration failed: %v", err)
			return err
		}
	}

	if err := seedRoles(db); err != nil {
		return err
	}

	log.Println("Database migrations completed successfully")
	return nil
}

var schemaStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS pgcrypto`,

	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		email VARCHAR(255) UNIQUE NOT NULL,
		password VARCHAR(255) NOT NULL,
		first_name VARCHAR(100) NOT NULL,
		last_name VARCHAR(100) NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS roles (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name VARCHAR(50) UNIQUE NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS user_roles (
		user_id UUID NOT NULL REFERENCES users(id),
		role_id UUID NOT NULL REFERENCES roles(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (user_id, role_id)
	)`,

	`CREATE TABLE IF NOT EXISTS grades (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name VARCHAR(50) UNIQUE NOT NULL,
		level INTEGER NOT NULL,
		education_level VARCHAR(30) NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS streams (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		grade_id UUID NOT NULL REFERENCES grades(id),
		name VARCHAR(50) NOT NULL,
		teacher_id UUID REFERENCES users(id),
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (grade_id, name)
	)`,

	`CREATE TABLE IF NOT EXISTS students (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		admission_number VARCHAR(50) UNIQUE NOT NULL,
		first_name VARCHAR(100) NOT NULL,
		last_name VARCHAR(100) NOT NULL,
		gender VARCHAR(10),
		date_of_birth DATE,
		grade_id UUID NOT NULL REFERENCES grades(id),
		stream_id UUID NOT NULL REFERENCES streams(id),
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS subjects (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name VARCHAR(100) NOT NULL,
		code VARCHAR(20) UNIQUE NOT NULL,
		education_level VARCHAR(30) NOT NULL,
		is_composite BOOLEAN NOT NULL DEFAULT false,
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS components (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		subject_id UUID NOT NULL REFERENCES subjects(id),
		name VARCHAR(100) NOT NULL,
		max_mark DECIMAL(6,2) NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (subject_id, name)
	)`,

	`CREATE TABLE IF NOT EXISTS teacher_subjects (
		teacher_id UUID NOT NULL REFERENCES users(id),
		subject_id UUID NOT NULL REFERENCES subjects(id),
		PRIMARY KEY (teacher_id, subject_id)
	)`,

	`CREATE TABLE IF NOT EXISTS teacher_streams (
		teacher_id UUID NOT NULL REFERENCES users(id),
		stream_id UUID NOT NULL REFERENCES streams(id),
		PRIMARY KEY (teacher_id, stream_id)
	)`,

	`CREATE TABLE IF NOT EXISTS terms (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name VARCHAR(50) NOT NULL,
		academic_year VARCHAR(20) NOT NULL,
		start_date DATE NOT NULL,
		end_date DATE NOT NULL,
		is_current BOOLEAN NOT NULL DEFAULT false,
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (name, academic_year)
	)`,

	`CREATE TABLE IF NOT EXISTS assessment_types (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name VARCHAR(100) UNIQUE NOT NULL,
		code VARCHAR(20) UNIQUE NOT NULL,
		weight DECIMAL(4,2) NOT NULL DEFAULT 1.0,
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	// grade_id and stream_id are NOT NULL on purpose: marks saved with stale
	// or missing class placement were the recurring data bug. They are always
	// re-derived from the student row at save time.
	`CREATE TABLE IF NOT EXISTS marks (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		student_id UUID NOT NULL REFERENCES students(id),
		subject_id UUID NOT NULL REFERENCES subjects(id),
		term_id UUID NOT NULL REFERENCES terms(id),
		assessment_type_id UUID NOT NULL REFERENCES assessment_types(id),
		grade_id UUID NOT NULL REFERENCES grades(id),
		stream_id UUID NOT NULL REFERENCES streams(id),
		raw_mark DECIMAL(6,2) NOT NULL DEFAULT 0,
		max_raw_mark DECIMAL(6,2) NOT NULL DEFAULT 100,
		percentage DECIMAL(5,2) NOT NULL DEFAULT 0,
		band VARCHAR(5) NOT NULL DEFAULT 'BE2',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		deleted_at TIMESTAMPTZ,
		UNIQUE (student_id, subject_id, term_id, assessment_type_id)
	)`,

	`CREATE TABLE IF NOT EXISTS component_marks (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		mark_id UUID NOT NULL REFERENCES marks(id) ON DELETE CASCADE,
		component_id UUID NOT NULL REFERENCES components(id),
		raw_mark DECIMAL(6,2) NOT NULL DEFAULT 0,
		max_mark DECIMAL(6,2) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (mark_id, component_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_marks_sheet
		ON marks (grade_id, stream_id, subject_id, term_id, assessment_type_id)
		WHERE deleted_at IS NULL`,

	`CREATE INDEX IF NOT EXISTS idx_marks_student ON marks (student_id) WHERE deleted_at IS NULL`,

	`CREATE INDEX IF NOT EXISTS idx_students_stream ON students (stream_id) WHERE is_active = true`,
}

func seedRoles(db *sql.DB) error {
	query := `INSERT INTO roles (name)
			  VALUES ('headteacher'), ('admin'), ('classteacher'), ('teacher')
			  ON CONFLICT (name) DO NOTHING`
	_, err := db.Exec(query)
	if err != nil {
		log.Printf("Failed to seed roles: %v", err)
	}
	return err
}
