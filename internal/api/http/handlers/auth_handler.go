package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/vhu-platform/complaint-service/internal/api/dto"
	"github.com/vhu-platform/complaint-service/internal/auth"
	"github.com/vhu-platform/complaint-service/internal/service"
	"github.com/vhu-platform/complaint-service/pkg/util/errorutil"
)

// AuthHandler exposes registration, login and profile self-service.
type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register POST /api/auth/register. Self-registration always creates a
// student account.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("Invalid request payload.", nil)
	}
	user, token, expiresAt, err := h.authService.Register(c.Context(), service.RegisterInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		StudentID:  req.StudentID,
		Department: req.Department,
		Phone:      req.Phone,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success":   true,
		"message":   "Registration successful!",
		"token":     token,
		"expiresAt": expiresAt,
		"user":      dto.UserFromDomain(user),
	})
}

// Login POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("Invalid request payload.", nil)
	}
	user, token, expiresAt, err := h.authService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"message":   "Login successful!",
		"token":     token,
		"expiresAt": expiresAt,
		"user":      dto.UserFromDomain(user),
	})
}

// Me GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("Not authorized to access this route.")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"user":    dto.UserFromDomain(principal.User),
	})
}

// UpdateProfile PUT /api/auth/profile.
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("Not authorized to access this route.")
	}
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("Invalid request payload.", nil)
	}
	user, err := h.authService.UpdateProfile(c.Context(), principal.User, service.ProfileUpdate{
		Name:       req.Name,
		Phone:      req.Phone,
		Department: req.Department,
		Avatar:     req.Avatar,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Profile updated successfully.",
		"user":    dto.UserFromDomain(user),
	})
}

// ChangePassword PUT /api/auth/password.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("Not authorized to access this route.")
	}
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("Invalid request payload.", nil)
	}
	if err := h.authService.ChangePassword(c.Context(), principal.User, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Password changed successfully.",
	})
}
