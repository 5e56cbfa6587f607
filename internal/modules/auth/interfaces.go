package auth

import (
	"context"
	"time"

	"proptoken/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, u *domain.User) error
	UpdateMode(ctx context.Context, userID int64, mode domain.UserMode) error
	UpdateLoginAttempts(ctx context.Context, userID int64, failed int, lockedUntil *time.Time) error
}

type TokenStore interface {
	Create(ctx context.Context, t *domain.RefreshToken) error
	GetByHash(ctx context.Context, hash string) (*domain.RefreshToken, error)
	MarkRotated(ctx context.Context, id int64, replacedByID *int64) error
	Revoke(ctx context.Context, id int64) error
	RevokeFamily(ctx context.Context, familyID string) error
	RevokeByUser(ctx context.Context, userID int64) error
}
