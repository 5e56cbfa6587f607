package token

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"proptoken/internal/domain"
	"proptoken/internal/modules/wallet"
	"proptoken/internal/pkg/metrics"
)

type Service struct {
	db         *gorm.DB
	purchases  PurchaseReader
	properties PropertyReader
	funds      FundsLedger
	notifs     NotificationSender
}

func NewService(db *gorm.DB, purchases PurchaseReader, properties PropertyReader, funds FundsLedger, notifs NotificationSender) *Service {
	return &Service{
		db:         db,
		purchases:  purchases,
		properties: properties,
		funds:      funds,
		notifs:     notifs,
	}
}

// Purchase debits the buyer and claims tokens in one transaction. The
// availability check and the decrement are a single guarded UPDATE, so two
// buyers racing for the last tokens cannot both succeed.
func (s *Service) Purchase(ctx context.Context, buyerID, propertyID, tokens int64) (*domain.TokenPurchase, error) {
	if tokens <= 0 {
		return nil, ErrValidation
	}

	p, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if p.Status != domain.PropertyTokenized {
		return nil, ErrNotForSale
	}

	var purchase *domain.TokenPurchase

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var issuance domain.TokenIssuance
		if err := tx.Where("property_id = ?", propertyID).First(&issuance).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if issuance.AvailableTokens < tokens {
			return ErrInsufficientTokens
		}

		total := issuance.PricePerToken.Mul(decimal.NewFromInt(tokens))
		if err := s.funds.SpendIn(tx, buyerID, total, "token purchase"); err != nil {
			if errors.Is(err, wallet.ErrInsufficientFunds) {
				return ErrInsufficientFunds
			}
			return err
		}

		res := tx.Model(&domain.TokenIssuance{}).
			Where("id = ? AND available_tokens >= ?", issuance.ID, tokens).
			Updates(map[string]any{
				"available_tokens": gorm.Expr("available_tokens - ?", tokens),
				"updated_at":       time.Now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientTokens
		}

		purchase = &domain.TokenPurchase{
			BuyerID:         buyerID,
			PropertyID:      propertyID,
			TokensPurchased: tokens,
			PricePerToken:   issuance.PricePerToken,
			TotalAmount:     total,
			PurchasedAt:     time.Now().UTC(),
		}
		return tx.Create(purchase).Error
	})
	if err != nil {
		return nil, err
	}

	metrics.CountPurchase()
	if s.notifs != nil {
		_ = s.notifs.NotifyPurchaseCompleted(ctx, buyerID, propertyID, tokens)
	}
	return purchase, nil
}

// MarketplaceEntry is a tokenized property joined with its issuance.
type MarketplaceEntry struct {
	Property  domain.Property      `json:"property"`
	Issuance  domain.TokenIssuance `json:"issuance"`
	FundedPct decimal.Decimal      `json:"funded_pct"`
}

// Marketplace lists tokenized properties open for purchase.
func (s *Service) Marketplace(ctx context.Context, limit, offset int) ([]MarketplaceEntry, int64, error) {
	props, total, err := s.properties.ListByStatus(ctx, domain.PropertyTokenized, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	out := make([]MarketplaceEntry, 0, len(props))
	for _, p := range props {
		issuance, err := s.purchases.GetIssuanceByPropertyID(ctx, p.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, 0, err
		}
		out = append(out, MarketplaceEntry{
			Property:  p,
			Issuance:  *issuance,
			FundedPct: OwnershipPercent(issuance.SoldTokens(), issuance.TotalTokens),
		})
	}
	return out, total, nil
}

// Issuance exposes the token pool of one property.
func (s *Service) Issuance(ctx context.Context, propertyID int64) (*domain.TokenIssuance, error) {
	issuance, err := s.purchases.GetIssuanceByPropertyID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return issuance, nil
}

// Portfolio aggregates the buyer's ledger into per-property positions with
// current valuation figures.
func (s *Service) Portfolio(ctx context.Context, buyerID int64) ([]PortfolioPosition, error) {
	holdings, err := s.purchases.GetHoldingsByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	out := make([]PortfolioPosition, 0, len(holdings))
	for _, h := range holdings {
		issuance, err := s.purchases.GetIssuanceByPropertyID(ctx, h.PropertyID)
		if err != nil {
			return nil, err
		}
		p, err := s.properties.GetByID(ctx, h.PropertyID)
		if err != nil {
			return nil, err
		}
		out = append(out, buildPosition(p, issuance, h.Tokens, h.TotalInvested))
	}
	return out, nil
}

func (s *Service) PurchaseHistory(ctx context.Context, buyerID int64, limit, offset int) ([]domain.TokenPurchase, error) {
	return s.purchases.ListPurchasesByBuyer(ctx, buyerID, limit, offset)
}
