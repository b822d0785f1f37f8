package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vhu-platform/complaint-service/internal/api/dto"
	"github.com/vhu-platform/complaint-service/internal/auth"
	"github.com/vhu-platform/complaint-service/internal/domain"
	"github.com/vhu-platform/complaint-service/internal/repository"
	"github.com/vhu-platform/complaint-service/internal/service"
	"github.com/vhu-platform/complaint-service/pkg/util/errorutil"
)

// UsersHandler exposes user administration. All routes are admin only.
type UsersHandler struct {
	users *service.UserService
}

func NewUsersHandler(users *service.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

// List GET /api/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	var filter repository.UserFilter
	if v := c.Query("role"); v != "" {
		role := domain.Role(v)
		filter.Role = &role
	}
	if v := c.Query("department"); v != "" {
		filter.Department = &v
	}
	if v := c.Query("search"); v != "" {
		filter.Search = &v
	}
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	filter.Limit = limit
	filter.Offset = (page - 1) * limit

	users, total, err := h.users.ListUsers(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.UserFromDomain(&users[i]))
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"users":      items,
		"pagination": dto.NewPagination(total, page, limit),
	})
}

// ListStaff GET /api/users/staff. Active staff and admins, for assignment.
func (h *UsersHandler) ListStaff(c *fiber.Ctx) error {
	staff, err := h.users.ListStaff(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(staff))
	for i := range staff {
		items = append(items, dto.UserFromDomain(&staff[i]))
	}
	return c.JSON(fiber.Map{
		"success": true,
		"staff":   items,
	})
}

// Get GET /api/users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	user, err := h.users.GetUser(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"user":    dto.UserFromDomain(user),
	})
}

// Update PUT /api/users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("Invalid request payload.", nil)
	}
	user, err := h.users.UpdateUser(c.Context(), c.Params("id"), service.UserUpdate{
		Name:       req.Name,
		Email:      req.Email,
		Role:       req.Role,
		Department: req.Department,
		IsActive:   req.IsActive,
		Phone:      req.Phone,
		StudentID:  req.StudentID,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "User updated successfully.",
		"user":    dto.UserFromDomain(user),
	})
}

// Delete DELETE /api/users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("Not authorized to access this route.")
	}
	if err := h.users.DeleteUser(c.Context(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "User deleted successfully.",
	})
}
