package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/vhu-platform/complaint-service/internal/domain"
	"github.com/vhu-platform/complaint-service/internal/repository"
	"github.com/vhu-platform/complaint-service/pkg/util/errorutil"
)

const (
	defaultCategoryIcon  = "📋"
	defaultCategoryColor = "#6366f1"
)

// CategoryService maintains the complaint category catalog.
type CategoryService struct {
	categories repository.CategoryRepository
	complaints repository.ComplaintRepository
}

// NewCategoryService constructs the service.
func NewCategoryService(categories repository.CategoryRepository, complaints repository.ComplaintRepository) *CategoryService {
	return &CategoryService{categories: categories, complaints: complaints}
}

// ListCategories returns categories, optionally only active ones.
func (s *CategoryService) ListCategories(ctx context.Context, activeOnly bool) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx, activeOnly)
	if err != nil {
		return nil, errorutil.MapError(err)
	}
	return categories, nil
}

// GetCategory returns a single category.
func (s *CategoryService) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewNotFound("Category", nil)
		}
		return nil, errorutil.MapError(err)
	}
	return category, nil
}

// CreateCategory adds a new category. Admin only (enforced at the route).
func (s *CategoryService) CreateCategory(ctx context.Context, name, description, icon, color string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errorutil.NewValidationError("Please provide a category name.", nil)
	}
	if icon == "" {
		icon = defaultCategoryIcon
	}
	if color == "" {
		color = defaultCategoryColor
	}
	category := &domain.Category{
		Name:        name,
		Description: strings.TrimSpace(description),
		Icon:        icon,
		Color:       color,
		IsActive:    true,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, errorutil.MapError(err)
	}
	return category, nil
}

// CategoryUpdate is the narrow patch an admin may apply to a category.
type CategoryUpdate struct {
	Name        *string
	Description *string
	Icon        *string
	Color       *string
	IsActive    *bool
}

// UpdateCategory applies a patch to an existing category.
func (s *CategoryService) UpdateCategory(ctx context.Context, id string, patch CategoryUpdate) (*domain.Category, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, errorutil.NewValidationError("Category name cannot be empty.", nil)
		}
		category.Name = name
	}
	if patch.Description != nil {
		category.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Icon != nil {
		category.Icon = *patch.Icon
	}
	if patch.Color != nil {
		category.Color = *patch.Color
	}
	if patch.IsActive != nil {
		category.IsActive = *patch.IsActive
	}
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, errorutil.MapError(err)
	}
	return category, nil
}

// DeleteCategory removes a category that has no complaints referencing it.
func (s *CategoryService) DeleteCategory(ctx context.Context, id string) error {
	count, err := s.complaints.CountByCategory(ctx, id)
	if err != nil {
		return errorutil.MapError(err)
	}
	if count > 0 {
		return errorutil.NewStateError(fmt.Sprintf(
			"Cannot delete category. It has %d associated complaint(s). Deactivate it instead.", count))
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errorutil.NewNotFound("Category", nil)
		}
		return errorutil.MapError(err)
	}
	return nil
}
