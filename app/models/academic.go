package models

import "time"

// CustomDate handles date-only JSON parsing
type CustomDate struct {
	time.Time
}

func (cd *CustomDate) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return err
	}
	cd.Time = t
	return nil
}

func (cd CustomDate) MarshalJSON() ([]byte, error) {
	return []byte(`"` + cd.Format("2006-01-02") + `"`), nil
}

// Grade is a class level, e.g. Grade 4
type Grade struct {
	ID             string    `json:"id" validate:"omitempty,uuid"`
	Name           string    `json:"name" validate:"required"`
	Level          int       `json:"level" validate:"required,min=1,max=9"`
	EducationLevel string    `json:"education_level" validate:"required,oneof=lower_primary upper_primary junior_secondary"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Streams        []*Stream `json:"streams,omitempty"`
	StudentCount   int       `json:"student_count,omitempty"`
}

// Stream is a named stream within a grade, e.g. Grade 4 B
type Stream struct {
	ID           string    `json:"id" validate:"omitempty,uuid"`
	GradeID      string    `json:"grade_id" validate:"required,uuid"`
	Name         string    `json:"name" validate:"required"`
	TeacherID    *string   `json:"teacher_id,omitempty" validate:"omitempty,uuid"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Grade        *Grade    `json:"grade,omitempty"`
	Teacher      *User     `json:"teacher,omitempty"`
	StudentCount int       `json:"student_count,omitempty"`
}

// Term is a school term within an academic year, e.g. Term 2 2026
type Term struct {
	ID           string     `json:"id" validate:"omitempty,uuid"`
	Name         string     `json:"name" validate:"required"`
	AcademicYear string     `json:"academic_year" validate:"required"`
	StartDate    CustomDate `json:"start_date"`
	EndDate      CustomDate `json:"end_date"`
	IsCurrent    bool       `json:"is_current"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsCurrentByDate checks if the term is current based on today's date
func (t *Term) IsCurrentByDate() bool {
	now := time.Now()
	return now.After(t.StartDate.Time) && now.Before(t.EndDate.Time)
}

// AssessmentType categorises a round of marking, e.g. Opener, Mid Term, End Term
type AssessmentType struct {
	ID        string    `json:"id" validate:"omitempty,uuid"`
	Name      string    `json:"name" validate:"required"`
	Code      string    `json:"code" validate:"required"`
	Weight    float64   `json:"weight"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
