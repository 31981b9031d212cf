package models

import "time"

// Role names used across the application
const (
	RoleHeadteacher  = "headteacher"
	RoleAdmin        = "admin"
	RoleClassTeacher = "classteacher"
	RoleTeacher      = "teacher"
)

type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// User is a staff account: headteacher, admin or teacher
type User struct {
	ID        string     `json:"id" validate:"omitempty,uuid"`
	Email     string     `json:"email" validate:"required,email"`
	Password  string     `json:"-"`
	FirstName string     `json:"first_name" validate:"required"`
	LastName  string     `json:"last_name" validate:"required"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Roles     []*Role    `json:"roles,omitempty"`
	Subjects  []*Subject `json:"subjects,omitempty"`
	Streams   []*Stream  `json:"streams,omitempty"`
}

// FullName joins first and last name for display
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// HasRole reports whether the user carries the named role
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}
