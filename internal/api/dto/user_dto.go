package dto

import (
	"time"

	"github.com/vhu-platform/complaint-service/internal/domain"
)

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	StudentID  string `json:"studentId"`
	Department string `json:"department"`
	Phone      string `json:"phone"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest payload; nil fields are left untouched.
type UpdateProfileRequest struct {
	Name       *string `json:"name"`
	Phone      *string `json:"phone"`
	Department *string `json:"department"`
	Avatar     *string `json:"avatar"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// UpdateUserRequest is the admin patch payload; nil fields are left untouched.
type UpdateUserRequest struct {
	Name       *string      `json:"name"`
	Email      *string      `json:"email"`
	Role       *domain.Role `json:"role"`
	Department *string      `json:"department"`
	IsActive   *bool        `json:"isActive"`
	Phone      *string      `json:"phone"`
	StudentID  *string      `json:"studentId"`
}

// UserResponse is the public user representation; the password hash never
// leaves the service.
type UserResponse struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Role       domain.Role `json:"role"`
	StudentID  string      `json:"studentId,omitempty"`
	Department string      `json:"department"`
	Phone      string      `json:"phone,omitempty"`
	Avatar     string      `json:"avatar,omitempty"`
	IsActive   bool        `json:"isActive"`
	LastLogin  *time.Time  `json:"lastLogin,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// UserFromDomain maps a domain user to its public representation.
func UserFromDomain(u *domain.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		StudentID:  u.StudentID,
		Department: u.Department,
		Phone:      u.Phone,
		Avatar:     u.Avatar,
		IsActive:   u.IsActive,
		LastLogin:  u.LastLogin,
		CreatedAt:  u.CreatedAt,
	}
}
