package models

// Roles recognised by the gateway. A user's role is fixed for the
// lifetime of a session and decides which dashboard is reachable.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// User mirrors the gateway's user object. Class is set for students,
// Subject for teachers; the gateway leaves the other blank.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role"`
	Class    string `json:"class,omitempty"`
	Subject  string `json:"subject,omitempty"`
}

// IsTeacher reports whether the user may act on any student's records.
func (u User) IsTeacher() bool {
	return u.Role == RoleTeacher || u.Role == RoleAdmin
}
