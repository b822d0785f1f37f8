package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/vhu-platform/complaint-service/internal/api/dto"
	"github.com/vhu-platform/complaint-service/internal/service"
	"github.com/vhu-platform/complaint-service/pkg/util/errorutil"
)

// CategoriesHandler exposes CRUD over complaint categories.
type CategoriesHandler struct {
	categories *service.CategoryService
}

func NewCategoriesHandler(categories *service.CategoryService) *CategoriesHandler {
	return &CategoriesHandler{categories: categories}
}

// List GET /api/categories. Defaults to active categories only.
func (h *CategoriesHandler) List(c *fiber.Ctx) error {
	activeOnly := c.QueryBool("activeOnly", true)
	categories, err := h.categories.ListCategories(c.Context(), activeOnly)
	if err != nil {
		return err
	}
	items := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		items = append(items, dto.CategoryFromDomain(&categories[i]))
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"categories": items,
	})
}

// Get GET /api/categories/:id.
func (h *CategoriesHandler) Get(c *fiber.Ctx) error {
	category, err := h.categories.GetCategory(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"category": dto.CategoryFromDomain(category),
	})
}

// Create POST /api/categories. Admin only.
func (h *CategoriesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("Invalid request payload.", nil)
	}
	category, err := h.categories.CreateCategory(c.Context(), req.Name, req.Description, req.Icon, req.Color)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"message":  "Category created successfully.",
		"category": dto.CategoryFromDomain(category),
	})
}

// Update PUT /api/categories/:id. Admin only.
func (h *CategoriesHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("Invalid request payload.", nil)
	}
	category, err := h.categories.UpdateCategory(c.Context(), c.Params("id"), service.CategoryUpdate{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"message":  "Category updated successfully.",
		"category": dto.CategoryFromDomain(category),
	})
}

// Delete DELETE /api/categories/:id. Admin only; refused while complaints
// still reference the category.
func (h *CategoriesHandler) Delete(c *fiber.Ctx) error {
	if err := h.categories.DeleteCategory(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Category deleted successfully.",
	})
}
