package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/vhu-platform/complaint-service/internal/domain"
	"github.com/vhu-platform/complaint-service/internal/repository"
	"github.com/vhu-platform/complaint-service/pkg/util/errorutil"
)

// UserService handles admin-facing user management.
type UserService struct {
	users repository.UserRepository
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// ListUsers returns users matching the filter plus the total count.
func (s *UserService) ListUsers(ctx context.Context, filter repository.UserFilter) ([]domain.User, int, error) {
	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, 0, errorutil.MapError(err)
	}
	return users, total, nil
}

// GetUser returns a single user.
func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewNotFound("User", nil)
		}
		return nil, errorutil.MapError(err)
	}
	return user, nil
}

// ListStaff returns active staff and admin users for the assignment picker.
func (s *UserService) ListStaff(ctx context.Context) ([]domain.User, error) {
	staff, err := s.users.ListByRoles(ctx, domain.RoleStaff, domain.RoleAdmin)
	if err != nil {
		return nil, errorutil.MapError(err)
	}
	return staff, nil
}

// UserUpdate is the narrow patch an admin may apply to a user.
type UserUpdate struct {
	Name       *string
	Email      *string
	Role       *domain.Role
	Department *string
	IsActive   *bool
	Phone      *string
	StudentID  *string
}

// UpdateUser applies an admin patch to a user account.
func (s *UserService) UpdateUser(ctx context.Context, id string, patch UserUpdate) (*domain.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, errorutil.NewValidationError("Name cannot be empty.", nil)
		}
		user.Name = name
	}
	if patch.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*patch.Email))
		if !emailPattern.MatchString(email) {
			return nil, errorutil.NewValidationError("Please provide a valid email address.", nil)
		}
		user.Email = email
	}
	if patch.Role != nil {
		if !domain.ValidRole(*patch.Role) {
			return nil, errorutil.NewValidationError("Invalid role value.", nil)
		}
		user.Role = *patch.Role
	}
	if patch.Department != nil {
		user.Department = strings.TrimSpace(*patch.Department)
	}
	if patch.IsActive != nil {
		user.IsActive = *patch.IsActive
	}
	if patch.Phone != nil {
		user.Phone = strings.TrimSpace(*patch.Phone)
	}
	if patch.StudentID != nil {
		user.StudentID = strings.TrimSpace(*patch.StudentID)
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, errorutil.MapError(err)
	}
	return user, nil
}

// DeleteUser removes a user account. Admins cannot delete themselves.
func (s *UserService) DeleteUser(ctx context.Context, callerID, id string) error {
	if callerID == id {
		return errorutil.NewValidationError("You cannot delete your own account.", nil)
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errorutil.NewNotFound("User", nil)
		}
		return errorutil.MapError(err)
	}
	return nil
}
