package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vhu-platform/complaint-service/internal/config"
	"github.com/vhu-platform/complaint-service/internal/domain"
)

func newAuthService(t *testing.T) (*AuthService, *fakeUserRepo) {
	t.Helper()
	users := newFakeUserRepo()
	service := NewAuthService(config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 60,
		BcryptCost:            4,
	}, users)
	return service, users
}

func TestRegister(t *testing.T) {
	service, _ := newAuthService(t)

	user, token, _, err := service.Register(context.Background(), RegisterInput{
		Name:      "Student One",
		Email:     "Student.One@VHU.EDU",
		Password:  "secret1",
		StudentID: "S12345",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStudent, user.Role)
	assert.Equal(t, "student.one@vhu.edu", user.Email)
	assert.Equal(t, "Computer Science", user.Department)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.NotEmpty(t, token)

	claims, err := service.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, domain.RoleStudent, claims.Role)
}

func TestRegisterValidation(t *testing.T) {
	service, _ := newAuthService(t)
	ctx := context.Background()

	_, _, _, err := service.Register(ctx, RegisterInput{Name: "X", Email: "x@vhu.edu"})
	assertDomainError(t, err, "VALIDATION_FAILED")

	_, _, _, err = service.Register(ctx, RegisterInput{Name: "X", Email: "not-an-email", Password: "secret1"})
	assertDomainError(t, err, "VALIDATION_FAILED")

	_, _, _, err = service.Register(ctx, RegisterInput{Name: "X", Email: "x@vhu.edu", Password: "short"})
	assertDomainError(t, err, "VALIDATION_FAILED")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	service, _ := newAuthService(t)
	ctx := context.Background()

	input := RegisterInput{Name: "Student", Email: "student@vhu.edu", Password: "secret1"}
	_, _, _, err := service.Register(ctx, input)
	require.NoError(t, err)

	_, _, _, err = service.Register(ctx, input)
	assertDomainError(t, err, "CONFLICT")
}

func TestLogin(t *testing.T) {
	service, _ := newAuthService(t)
	ctx := context.Background()

	registered, _, _, err := service.Register(ctx, RegisterInput{
		Name: "Student", Email: "student@vhu.edu", Password: "secret1",
	})
	require.NoError(t, err)

	user, token, _, err := service.Login(ctx, "STUDENT@vhu.edu", "secret1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, token)

	_, _, _, err = service.Login(ctx, "student@vhu.edu", "wrong")
	assertDomainError(t, err, "UNAUTHORIZED")

	_, _, _, err = service.Login(ctx, "unknown@vhu.edu", "secret1")
	assertDomainError(t, err, "UNAUTHORIZED")
}

func TestLoginDeactivatedAccount(t *testing.T) {
	service, users := newAuthService(t)
	ctx := context.Background()

	user, _, _, err := service.Register(ctx, RegisterInput{
		Name: "Student", Email: "student@vhu.edu", Password: "secret1",
	})
	require.NoError(t, err)

	user.IsActive = false
	require.NoError(t, users.Update(ctx, user))

	_, _, _, err = service.Login(ctx, "student@vhu.edu", "secret1")
	assertDomainError(t, err, "UNAUTHORIZED")
}

func TestUpdateProfile(t *testing.T) {
	service, _ := newAuthService(t)
	ctx := context.Background()

	user, _, _, err := service.Register(ctx, RegisterInput{
		Name: "Student", Email: "student@vhu.edu", Password: "secret1",
	})
	require.NoError(t, err)

	newName := "Renamed Student"
	phone := "0901234567"
	updated, err := service.UpdateProfile(ctx, user, ProfileUpdate{Name: &newName, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Renamed Student", updated.Name)
	assert.Equal(t, "0901234567", updated.Phone)
	assert.Equal(t, "student@vhu.edu", updated.Email)
}

func TestChangePassword(t *testing.T) {
	service, _ := newAuthService(t)
	ctx := context.Background()

	user, _, _, err := service.Register(ctx, RegisterInput{
		Name: "Student", Email: "student@vhu.edu", Password: "secret1",
	})
	require.NoError(t, err)

	err = service.ChangePassword(ctx, user, "wrong", "newsecret")
	assertDomainError(t, err, "UNAUTHORIZED")

	require.NoError(t, service.ChangePassword(ctx, user, "secret1", "newsecret"))

	_, _, _, err = service.Login(ctx, "student@vhu.edu", "newsecret")
	require.NoError(t, err)
	_, _, _, err = service.Login(ctx, "student@vhu.edu", "secret1")
	assertDomainError(t, err, "UNAUTHORIZED")
}
