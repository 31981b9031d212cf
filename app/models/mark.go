package models

import "time"

// Mark stores a student's score for a subject in a term and assessment round.
// GradeID and StreamID are NOT NULL and always derived server-side from the
// student row at save time, never taken from the client.
type Mark struct {
	ID               string     `json:"id" validate:"omitempty,uuid"`
	StudentID        string     `json:"student_id" validate:"required,uuid"`
	SubjectID        string     `json:"subject_id" validate:"required,uuid"`
	TermID           string     `json:"term_id" validate:"required,uuid"`
	AssessmentTypeID string     `json:"assessment_type_id" validate:"required,uuid"`
	GradeID          string     `json:"grade_id"`
	StreamID         string     `json:"stream_id"`
	RawMark          float64    `json:"raw_mark" validate:"gte=0"`
	MaxRawMark       float64    `json:"max_raw_mark" validate:"gt=0"`
	Percentage       float64    `json:"percentage"`
	Band             string     `json:"band"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	DeletedAt        *time.Time `json:"deleted_at,omitempty"`

	Student        *Student         `json:"student,omitempty"`
	Subject        *Subject         `json:"subject,omitempty"`
	Term           *Term            `json:"term,omitempty"`
	AssessmentType *AssessmentType  `json:"assessment_type,omitempty"`
	Components     []*ComponentMark `json:"components,omitempty"`
}

// ComponentMark is one component's raw score inside a composite subject mark
type ComponentMark struct {
	ID          string    `json:"id" validate:"omitempty,uuid"`
	MarkID      string    `json:"mark_id"`
	ComponentID string    `json:"component_id" validate:"required,uuid"`
	RawMark     float64   `json:"raw_mark" validate:"gte=0"`
	MaxMark     float64   `json:"max_mark" validate:"gt=0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Component *Component `json:"component,omitempty"`
}
