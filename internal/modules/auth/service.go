package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"proptoken/internal/domain"
)

const (
	maxFailedLoginAttempts = 5
	lockoutDuration        = 15 * time.Minute
)

type jwtService interface {
	GenerateToken(userID int64, role string) (string, error)
}

type Service struct {
	users              UserRepository
	tokens             TokenStore
	jwt                jwtService
	refreshTokenPepper string
	refreshTTL         time.Duration
}

func NewService(users UserRepository, tokens TokenStore, jwt jwtService, refreshTokenPepper string, refreshTTL time.Duration) *Service {
	return &Service{
		users:              users,
		tokens:             tokens,
		jwt:                jwt,
		refreshTokenPepper: refreshTokenPepper,
		refreshTTL:         refreshTTL,
	}
}

// Register creates a buyer or seller account. Admins are seeded, never
// self-registered. Mode starts equal to the chosen role.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	role := domain.UserRole(req.Role)
	if role != domain.RoleBuyer && role != domain.RoleSeller {
		return nil, ErrInvalidRole
	}

	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:              strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:       string(hash),
		FullName:           strings.TrimSpace(req.FullName),
		Phone:              strings.TrimSpace(req.Phone),
		Role:               role,
		Mode:               domain.UserMode(role),
		VerificationStatus: domain.VerificationUnverified,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	now := time.Now().UTC()
	if user.LockedUntil != nil && user.LockedUntil.After(now) {
		return nil, ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		failed := user.FailedLoginAttempts + 1
		var lockedUntil *time.Time
		if failed >= maxFailedLoginAttempts {
			t := now.Add(lockoutDuration)
			lockedUntil = &t
		}
		if updateErr := s.users.UpdateLoginAttempts(ctx, user.ID, failed, lockedUntil); updateErr != nil {
			return nil, updateErr
		}
		if lockedUntil != nil {
			return nil, ErrAccountLocked
		}
		return nil, ErrInvalidCredentials
	}

	if user.FailedLoginAttempts > 0 || user.LockedUntil != nil {
		if err := s.users.UpdateLoginAttempts(ctx, user.ID, 0, nil); err != nil {
			return nil, err
		}
	}

	accessToken, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	raw, hash, err := generateOpaqueRefreshToken(s.refreshTokenPepper)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Create(ctx, &domain.RefreshToken{
		UserID:    user.ID,
		TokenHash: hash,
		FamilyID:  uuid.NewString(),
		ExpiresAt: now.Add(s.refreshTTL),
	}); err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return &LoginResult{User: user, AccessToken: accessToken, RefreshToken: raw}, nil
}

// RefreshSession rotates the refresh token. Presenting a token that was
// already rotated or revoked revokes the whole family; this is the reuse
// detection path for a stolen token.
func (s *Service) RefreshSession(ctx context.Context, refreshRaw string) (*RefreshResult, error) {
	now := time.Now().UTC()

	current, err := s.tokens.GetByHash(ctx, hashTokenWithPepper(refreshRaw, s.refreshTokenPepper))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	if current.IsReused() {
		if err := s.tokens.RevokeFamily(ctx, current.FamilyID); err != nil {
			return nil, err
		}
		return nil, ErrRefreshTokenReused
	}
	if current.IsExpired(now) {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.users.GetByID(ctx, current.UserID)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	newRaw, newHash, err := generateOpaqueRefreshToken(s.refreshTokenPepper)
	if err != nil {
		return nil, err
	}

	next := &domain.RefreshToken{
		UserID:    user.ID,
		TokenHash: newHash,
		FamilyID:  current.FamilyID,
		ExpiresAt: now.Add(s.refreshTTL),
	}
	if err := s.tokens.Create(ctx, next); err != nil {
		return nil, err
	}
	if err := s.tokens.MarkRotated(ctx, current.ID, &next.ID); err != nil {
		return nil, err
	}

	return &RefreshResult{AccessToken: accessToken, RefreshToken: newRaw}, nil
}

// Logout revokes the presented refresh token. An unknown token is a no-op.
func (s *Service) Logout(ctx context.Context, refreshRaw string) error {
	token, err := s.tokens.GetByHash(ctx, hashTokenWithPepper(refreshRaw, s.refreshTokenPepper))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return s.tokens.Revoke(ctx, token.ID)
}

func (s *Service) GetCurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FullName != "" {
		user.FullName = strings.TrimSpace(req.FullName)
	}
	if req.Phone != "" {
		user.Phone = strings.TrimSpace(req.Phone)
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

// SetMode flips the buyer/seller UI mode. It never changes permissions.
func (s *Service) SetMode(ctx context.Context, userID int64, mode domain.UserMode) error {
	return s.users.UpdateMode(ctx, userID, mode)
}

func generateOpaqueRefreshToken(pepper string) (raw string, hash string, err error) {
	buf := make([]byte, 32)
	if _, err = rand.Read(buf); err != nil {
		return "", "", err
	}
	raw = hex.EncodeToString(buf)
	return raw, hashTokenWithPepper(raw, pepper), nil
}

func hashTokenWithPepper(raw, pepper string) string {
	sum := sha256.Sum256([]byte(raw + pepper))
	return hex.EncodeToString(sum[:])
}
