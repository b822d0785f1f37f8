package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/vhu-platform/complaint-service/internal/auth"
	"github.com/vhu-platform/complaint-service/internal/config"
	"github.com/vhu-platform/complaint-service/internal/domain"
	"github.com/vhu-platform/complaint-service/internal/repository"
	"github.com/vhu-platform/complaint-service/pkg/util/errorutil"
)

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

const defaultDepartment = "Computer Science"

// AuthService implements the identity collaborator: it authenticates a caller
// and yields (userId, role) via signed tokens.
type AuthService struct {
	users  repository.UserRepository
	tokens *auth.TokenManager
	cost   int
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository) *AuthService {
	return &AuthService{
		users:  users,
		tokens: auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		cost:   cfg.BcryptCost,
	}
}

// TokenManager exposes the token manager for the auth middleware.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// RegisterInput describes the registration payload.
type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	StudentID  string
	Department string
	Phone      string
}

// Register creates a student account and issues a token.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, string, time.Time, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || email == "" || input.Password == "" {
		return nil, "", time.Time{}, errorutil.NewValidationError("Please provide name, email, and password.", nil)
	}
	if !emailPattern.MatchString(email) {
		return nil, "", time.Time{}, errorutil.NewValidationError("Please provide a valid email address.", nil)
	}
	if len(input.Password) < 6 {
		return nil, "", time.Time{}, errorutil.NewValidationError("Password must be at least 6 characters.", nil)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, errorutil.NewConflict("An account with this email already exists.", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, errorutil.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.cost)
	if err != nil {
		return nil, "", time.Time{}, errorutil.MapError(err)
	}

	department := strings.TrimSpace(input.Department)
	if department == "" {
		department = defaultDepartment
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleStudent,
		StudentID:    strings.TrimSpace(input.StudentID),
		Department:   department,
		Phone:        strings.TrimSpace(input.Phone),
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", time.Time{}, errorutil.MapError(err)
	}

	token, expiresAt, err := s.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, errorutil.MapError(err)
	}
	return user, token, expiresAt, nil
}

// Login authenticates by email and password and issues a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", time.Time{}, errorutil.NewValidationError("Please provide email and password.", nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, errorutil.NewUnauthorized("Invalid email or password.")
		}
		return nil, "", time.Time{}, errorutil.MapError(err)
	}
	if !user.IsActive {
		return nil, "", time.Time{}, errorutil.NewUnauthorized("Account is deactivated.")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, errorutil.NewUnauthorized("Invalid email or password.")
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err == nil {
		now := time.Now()
		user.LastLogin = &now
	}

	token, expiresAt, err := s.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, errorutil.MapError(err)
	}
	return user, token, expiresAt, nil
}

// ProfileUpdate is the narrow patch a user may apply to their own profile.
type ProfileUpdate struct {
	Name       *string
	Phone      *string
	Department *string
	Avatar     *string
}

// UpdateProfile applies a profile patch for the caller.
func (s *AuthService) UpdateProfile(ctx context.Context, user *domain.User, patch ProfileUpdate) (*domain.User, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, errorutil.NewValidationError("Name cannot be empty.", nil)
		}
		user.Name = name
	}
	if patch.Phone != nil {
		user.Phone = strings.TrimSpace(*patch.Phone)
	}
	if patch.Department != nil {
		user.Department = strings.TrimSpace(*patch.Department)
	}
	if patch.Avatar != nil {
		user.Avatar = *patch.Avatar
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, errorutil.MapError(err)
	}
	return user, nil
}

// ChangePassword verifies the current password and stores a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, user *domain.User, current, next string) error {
	if err := auth.ComparePassword(user.PasswordHash, current); err != nil {
		return errorutil.NewUnauthorized("Current password is incorrect.")
	}
	if len(next) < 6 {
		return errorutil.NewValidationError("Password must be at least 6 characters.", nil)
	}
	hash, err := auth.HashPassword(next, s.cost)
	if err != nil {
		return errorutil.MapError(err)
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return errorutil.MapError(err)
	}
	return nil
}
