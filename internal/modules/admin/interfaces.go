package admin

import (
	"context"

	"github.com/shopspring/decimal"

	"proptoken/internal/domain"
)

// VerificationModerator is the decision surface of the verification module.
// Decisions go through it so the auto-review timer is cancelled in one place.
type VerificationModerator interface {
	Approve(ctx context.Context, requestID, adminID int64, notes string) (*domain.VerificationRequest, error)
	Reject(ctx context.Context, requestID, adminID int64, reason string) (*domain.VerificationRequest, error)
	RequestRevision(ctx context.Context, requestID, adminID int64, notes string) (*domain.VerificationRequest, error)
}

type ListingModerator interface {
	Approve(ctx context.Context, propertyID int64, notes string) (*domain.Property, error)
	Reject(ctx context.Context, propertyID int64, reason string) (*domain.Property, error)
	IssueTokens(ctx context.Context, propertyID, totalTokens int64, pricePerToken decimal.Decimal) (*domain.TokenIssuance, error)
}

type VerificationQueue interface {
	ListByStatus(ctx context.Context, status domain.VerificationStatus, limit, offset int) ([]domain.VerificationRequest, int64, error)
	GetByID(ctx context.Context, id int64) (*domain.VerificationRequest, error)
}

type PropertyQueue interface {
	ListByStatus(ctx context.Context, status domain.PropertyStatus, limit, offset int) ([]domain.Property, int64, error)
}

type UserLister interface {
	List(ctx context.Context, role string, limit, offset int) ([]domain.User, int64, error)
}
