package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TokenIssuance is the one-time token pool of a tokenized property.
// TotalTokens and PricePerToken are immutable once created; AvailableTokens
// only ever decreases, and only through purchase accounting.
type TokenIssuance struct {
	ID              int64           `json:"id"`
	PropertyID      int64           `json:"property_id" gorm:"uniqueIndex:idx_one_issuance_per_property;not null"`
	TotalTokens     int64           `json:"total_tokens" gorm:"not null"`
	AvailableTokens int64           `json:"available_tokens" gorm:"not null"`
	PricePerToken   decimal.Decimal `json:"price_per_token" gorm:"type:numeric(18,2)"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TokenIssuance) TableName() string { return "token_issuances" }

// SoldTokens derives the sold count from the counter; the purchase ledger must
// always sum to the same value.
func (t *TokenIssuance) SoldTokens() int64 {
	return t.TotalTokens - t.AvailableTokens
}

// TokenPurchase is one row of the append-only purchase ledger. PricePerToken
// is a snapshot taken at purchase time; rows are never updated or deleted.
type TokenPurchase struct {
	ID              int64           `json:"id"`
	BuyerID         int64           `json:"buyer_id" gorm:"index;not null"`
	PropertyID      int64           `json:"property_id" gorm:"index;not null"`
	TokensPurchased int64           `json:"tokens_purchased" gorm:"not null"`
	PricePerToken   decimal.Decimal `json:"price_per_token" gorm:"type:numeric(18,2)"`
	TotalAmount     decimal.Decimal `json:"total_amount" gorm:"type:numeric(18,2)"`
	PurchasedAt     time.Time       `json:"purchased_at" gorm:"index;not null"`
}

func (TokenPurchase) TableName() string { return "token_purchases" }
