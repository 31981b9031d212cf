package models

import "time"

// Subject is taught at an education level. A composite subject is graded
// through its components rather than a single mark.
type Subject struct {
	ID             string       `json:"id" validate:"omitempty,uuid"`
	Name           string       `json:"name" validate:"required"`
	Code           string       `json:"code" validate:"required"`
	EducationLevel string       `json:"education_level" validate:"required,oneof=lower_primary upper_primary junior_secondary"`
	IsComposite    bool         `json:"is_composite"`
	IsActive       bool         `json:"is_active"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
	Components     []*Component `json:"components,omitempty"`
}

// Component is one named part of a composite subject, e.g. Composition or
// Grammar for English, each with its own maximum raw mark.
type Component struct {
	ID        string    `json:"id" validate:"omitempty,uuid"`
	SubjectID string    `json:"subject_id" validate:"required,uuid"`
	Name      string    `json:"name" validate:"required"`
	MaxMark   float64   `json:"max_mark" validate:"required,gt=0"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
