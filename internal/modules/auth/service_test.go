package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proptoken/internal/database"
	"proptoken/internal/domain"
	jwtsvc "proptoken/internal/pkg/jwt"
	"proptoken/internal/repository"
)

func setupAuthService(t *testing.T) *Service {
	t.Helper()

	dsn := fmt.Sprintf("file:auth_test_%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect(dsn)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.RefreshToken{}))

	users := repository.NewUserRepository(db)
	tokens := repository.NewRefreshTokenRepository(db)
	jwt := jwtsvc.New("test-secret", 15*time.Minute)

	return NewService(users, tokens, jwt, "test-pepper", 24*time.Hour)
}

func registerReq(email, role string) RegisterRequest {
	return RegisterRequest{
		Email:    email,
		Password: "correct-horse",
		FullName: "Test User",
		Role:     role,
	}
}

func TestRegisterCreatesUnverifiedUser(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerReq("Seller@Example.com", "seller"))
	require.NoError(t, err)

	assert.Equal(t, "seller@example.com", user.Email)
	assert.Equal(t, domain.RoleSeller, user.Role)
	assert.Equal(t, domain.ModeSeller, user.Mode)
	assert.Equal(t, domain.VerificationUnverified, user.VerificationStatus)
	assert.Empty(t, user.PasswordHash)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("dup@example.com", "buyer"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerReq("dup@example.com", "seller"))
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	svc := setupAuthService(t)

	_, err := svc.Register(context.Background(), registerReq("root@example.com", "admin"))
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestLoginIssuesTokenPair(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("buyer@example.com", "buyer"))
	require.NoError(t, err)

	result, err := svc.Login(ctx, LoginRequest{Email: "buyer@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Empty(t, result.User.PasswordHash)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("buyer@example.com", "buyer"))
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginRequest{Email: "buyer@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginLocksAfterRepeatedFailures(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("buyer@example.com", "buyer"))
	require.NoError(t, err)

	for i := 0; i < maxFailedLoginAttempts-1; i++ {
		_, err = svc.Login(ctx, LoginRequest{Email: "buyer@example.com", Password: "wrong"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}

	_, err = svc.Login(ctx, LoginRequest{Email: "buyer@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrAccountLocked)

	// even the right password is refused while locked
	_, err = svc.Login(ctx, LoginRequest{Email: "buyer@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrAccountLocked)
}

func TestLoginResetsFailureCounter(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("buyer@example.com", "buyer"))
	require.NoError(t, err)

	for i := 0; i < maxFailedLoginAttempts-1; i++ {
		_, err = svc.Login(ctx, LoginRequest{Email: "buyer@example.com", Password: "wrong"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}

	_, err = svc.Login(ctx, LoginRequest{Email: "buyer@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	// the counter restarted; one more bad attempt must not lock the account
	_, err = svc.Login(ctx, LoginRequest{Email: "buyer@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	user, err := svc.users.GetByEmail(ctx, "buyer@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, user.FailedLoginAttempts)
	assert.Nil(t, user.LockedUntil)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("buyer@example.com", "buyer"))
	require.NoError(t, err)
	login, err := svc.Login(ctx, LoginRequest{Email: "buyer@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshSession(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)
}

func TestRefreshReuseRevokesFamily(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("buyer@example.com", "buyer"))
	require.NoError(t, err)
	login, err := svc.Login(ctx, LoginRequest{Email: "buyer@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshSession(ctx, login.RefreshToken)
	require.NoError(t, err)

	// replaying the rotated token is reuse
	_, err = svc.RefreshSession(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshTokenReused)

	// the whole family is dead, including the fresh token
	_, err = svc.RefreshSession(ctx, refreshed.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshTokenReused)
}

func TestRefreshUnknownToken(t *testing.T) {
	svc := setupAuthService(t)

	_, err := svc.RefreshSession(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("buyer@example.com", "buyer"))
	require.NoError(t, err)
	login, err := svc.Login(ctx, LoginRequest{Email: "buyer@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, login.RefreshToken))

	_, err = svc.RefreshSession(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshTokenReused)

	// unknown token logout is a no-op
	assert.NoError(t, svc.Logout(ctx, "never-issued"))
}

func TestSetModeDoesNotChangeRole(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerReq("buyer@example.com", "buyer"))
	require.NoError(t, err)

	require.NoError(t, svc.SetMode(ctx, user.ID, domain.ModeSeller))

	reloaded, err := svc.GetCurrentUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ModeSeller, reloaded.Mode)
	assert.Equal(t, domain.RoleBuyer, reloaded.Role)
}
