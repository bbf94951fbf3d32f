package domain

import "time"

// Role enumerates authorization levels for operators.
type Role string

const (
	RoleStandard Role = "standard"
	RoleAdmin    Role = "admin"
)

// Valid reports whether the role belongs to the closed set.
func (r Role) Valid() bool {
	return r == RoleStandard || r == RoleAdmin
}

// User is the domain model for operators of the agency backend.
// Email is stored lowercase; tokens are only honored while Active is true.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
