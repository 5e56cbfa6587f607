package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"proptoken/internal/domain"
)

type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) GetIssuanceByPropertyID(ctx context.Context, propertyID int64) (*domain.TokenIssuance, error) {
	var t domain.TokenIssuance
	err := r.db.WithContext(ctx).Where("property_id = ?", propertyID).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Tokenize creates the one-time issuance and moves the listing to tokenized in
// a single transaction. The unique index on property_id rejects a concurrent
// second issuance.
func (r *TokenRepository) Tokenize(ctx context.Context, propertyID, totalTokens int64, pricePerToken decimal.Decimal) (*domain.TokenIssuance, error) {
	issuance := &domain.TokenIssuance{
		PropertyID:      propertyID,
		TotalTokens:     totalTokens,
		AvailableTokens: totalTokens,
		PricePerToken:   pricePerToken,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(issuance).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Property{}).
			Where("id = ?", propertyID).
			Updates(map[string]any{
				"status":     string(domain.PropertyTokenized),
				"updated_at": time.Now().UTC(),
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return issuance, nil
}

// PropertyHolding is a buyer's aggregated position in one property.
type PropertyHolding struct {
	PropertyID    int64           `gorm:"column:property_id"`
	Tokens        int64           `gorm:"column:tokens"`
	TotalInvested decimal.Decimal `gorm:"column:total_invested"`
}

// GetHoldingsByBuyer sums the purchase ledger per property for one buyer.
func (r *TokenRepository) GetHoldingsByBuyer(ctx context.Context, buyerID int64) ([]PropertyHolding, error) {
	var out []PropertyHolding
	err := r.db.WithContext(ctx).
		Table("token_purchases").
		Select("property_id, SUM(tokens_purchased) AS tokens, SUM(total_amount) AS total_invested").
		Where("buyer_id = ?", buyerID).
		Group("property_id").
		Find(&out).Error
	return out, err
}

func (r *TokenRepository) ListPurchasesByBuyer(ctx context.Context, buyerID int64, limit, offset int) ([]domain.TokenPurchase, error) {
	var out []domain.TokenPurchase
	err := r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("purchased_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&out).Error
	return out, err
}

func (r *TokenRepository) ListPurchasesByProperty(ctx context.Context, propertyID int64) ([]domain.TokenPurchase, error) {
	var out []domain.TokenPurchase
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("purchased_at ASC, id ASC").
		Find(&out).Error
	return out, err
}
