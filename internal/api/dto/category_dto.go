package dto

import (
	"time"

	"github.com/vhu-platform/complaint-service/internal/domain"
)

// CreateCategoryRequest payload.
type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
}

// UpdateCategoryRequest payload; nil fields are left untouched.
type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	Color       *string `json:"color"`
	IsActive    *bool   `json:"isActive"`
}

// CategoryResponse is the full category representation.
type CategoryResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Icon           string    `json:"icon"`
	Color          string    `json:"color"`
	IsActive       bool      `json:"isActive"`
	ComplaintCount int       `json:"complaintCount"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// CategoryFromDomain maps a domain category.
func CategoryFromDomain(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:             c.ID,
		Name:           c.Name,
		Description:    c.Description,
		Icon:           c.Icon,
		Color:          c.Color,
		IsActive:       c.IsActive,
		ComplaintCount: c.ComplaintCount,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
