package listing

import (
	"context"

	"github.com/shopspring/decimal"

	"proptoken/internal/domain"
)

type PropertyRepository interface {
	Create(ctx context.Context, p *domain.Property) error
	GetByID(ctx context.Context, id int64) (*domain.Property, error)
	Update(ctx context.Context, p *domain.Property) error
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Property, error)
	ListByStatus(ctx context.Context, status domain.PropertyStatus, limit, offset int) ([]domain.Property, int64, error)
}

// OwnerReader resolves the owner for the verified-seller precondition.
type OwnerReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// IssuanceWriter creates the one-time token pool.
type IssuanceWriter interface {
	GetIssuanceByPropertyID(ctx context.Context, propertyID int64) (*domain.TokenIssuance, error)
	Tokenize(ctx context.Context, propertyID, totalTokens int64, pricePerToken decimal.Decimal) (*domain.TokenIssuance, error)
}

type NotificationSender interface {
	NotifyPropertyApproved(ctx context.Context, ownerID, propertyID int64) error
	NotifyPropertyRejected(ctx context.Context, ownerID, propertyID int64, reason string) error
	NotifyTokensIssued(ctx context.Context, ownerID, propertyID, totalTokens int64) error
}
