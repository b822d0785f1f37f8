package domain

import "time"

// Role enumerates caller roles in the organization.
type Role string

const (
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
)

// ValidRole reports whether r is a recognized role.
func ValidRole(r Role) bool {
	switch r {
	case RoleStudent, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// IsStaffOrAdmin reports whether r may handle complaints.
func (r Role) IsStaffOrAdmin() bool {
	return r == RoleStaff || r == RoleAdmin
}

// User is the domain model for members who file and handle complaints.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	StudentID    string
	Department   string
	Phone        string
	Avatar       string
	IsActive     bool
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
