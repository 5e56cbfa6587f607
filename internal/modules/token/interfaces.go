package token

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"proptoken/internal/domain"
	"proptoken/internal/repository"
)

type PurchaseReader interface {
	GetIssuanceByPropertyID(ctx context.Context, propertyID int64) (*domain.TokenIssuance, error)
	GetHoldingsByBuyer(ctx context.Context, buyerID int64) ([]repository.PropertyHolding, error)
	ListPurchasesByBuyer(ctx context.Context, buyerID int64, limit, offset int) ([]domain.TokenPurchase, error)
}

type PropertyReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Property, error)
	ListByStatus(ctx context.Context, status domain.PropertyStatus, limit, offset int) ([]domain.Property, int64, error)
}

// FundsLedger debits the buyer inside the purchase transaction.
type FundsLedger interface {
	SpendIn(tx *gorm.DB, userID int64, amount decimal.Decimal, reference string) error
}

type NotificationSender interface {
	NotifyPurchaseCompleted(ctx context.Context, buyerID, propertyID, tokens int64) error
}
