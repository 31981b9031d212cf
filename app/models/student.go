package models

import "time"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Student belongs to exactly one grade and stream
type Student struct {
	ID              string     `json:"id" validate:"omitempty,uuid"`
	AdmissionNumber string     `json:"admission_number" validate:"required"`
	FirstName       string     `json:"first_name" validate:"required"`
	LastName        string     `json:"last_name" validate:"required"`
	Gender          *Gender    `json:"gender,omitempty" validate:"omitempty,oneof=male female"`
	DateOfBirth     *time.Time `json:"date_of_birth,omitempty"`
	GradeID         string     `json:"grade_id" validate:"required,uuid"`
	StreamID        string     `json:"stream_id" validate:"required,uuid"`
	IsActive        bool       `json:"is_active"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	Grade           *Grade     `json:"grade,omitempty"`
	Stream          *Stream    `json:"stream,omitempty"`
}

func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}
