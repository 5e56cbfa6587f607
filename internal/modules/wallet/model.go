package wallet

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TransactionTypeAdd    = "ADD"
	TransactionTypeSpend  = "SPEND"
	TransactionTypeRefund = "REFUND"
)

// Wallet holds a user's simulated fiat balance. Purchases debit it; there is
// no external payment rail.
type Wallet struct {
	ID      uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	UserID  int64           `json:"user_id" gorm:"not null;uniqueIndex"`
	Balance decimal.Decimal `json:"balance" gorm:"type:numeric(18,2);not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Wallet) TableName() string {
	return "wallets"
}

func (w *Wallet) BeforeCreate(_ *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// Transaction records every balance operation.
type Transaction struct {
	ID        uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	WalletID  uuid.UUID       `json:"wallet_id" gorm:"type:uuid;not null;index"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:numeric(18,2);not null"`
	Type      string          `json:"type" gorm:"type:varchar(16);not null;index;check:type IN ('ADD','SPEND','REFUND')"`
	Reference string          `json:"reference,omitempty" gorm:"type:varchar(64)"`
	CreatedAt time.Time       `json:"created_at" gorm:"autoCreateTime"`
}

func (Transaction) TableName() string {
	return "wallet_transactions"
}

func (t *Transaction) BeforeCreate(_ *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
