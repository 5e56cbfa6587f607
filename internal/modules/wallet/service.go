package wallet

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInsufficientFunds = errors.New("insufficient balance")
)

type Service struct {
	db              *gorm.DB
	startingBalance decimal.Decimal
}

// NewService wires the wallet against the shared DB handle. New wallets are
// opened with startingBalance so demo buyers can trade immediately.
func NewService(db *gorm.DB, startingBalance decimal.Decimal) *Service {
	return &Service{db: db, startingBalance: startingBalance}
}

func (s *Service) GetOrCreateWallet(ctx context.Context, userID int64) (*Wallet, error) {
	wallet, err := s.getWalletByUserID(ctx, userID)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	wallet = &Wallet{UserID: userID, Balance: s.startingBalance}
	if err := s.db.WithContext(ctx).Create(wallet).Error; err != nil {
		if isUniqueConstraintError(err) {
			return s.getWalletByUserID(ctx, userID)
		}
		return nil, err
	}
	return wallet, nil
}

func (s *Service) Add(ctx context.Context, userID int64, amount decimal.Decimal) (*Wallet, *Transaction, error) {
	if !amount.IsPositive() {
		return nil, nil, ErrInvalidAmount
	}

	var wallet Wallet
	var txn Transaction

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.getOrCreateWalletForUpdate(tx, userID, &wallet); err != nil {
			return err
		}

		wallet.Balance = wallet.Balance.Add(amount)
		if err := tx.Model(&Wallet{}).Where("id = ?", wallet.ID).Update("balance", wallet.Balance).Error; err != nil {
			return err
		}

		txn = Transaction{WalletID: wallet.ID, Amount: amount, Type: TransactionTypeAdd}
		return tx.Create(&txn).Error
	})
	if err != nil {
		return nil, nil, err
	}

	return &wallet, &txn, nil
}

func (s *Service) Spend(ctx context.Context, userID int64, amount decimal.Decimal, reference string) (*Wallet, *Transaction, error) {
	var wallet Wallet
	var txn Transaction

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		wallet, txn, err = s.spendIn(tx, userID, amount, reference)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	return &wallet, &txn, nil
}

// SpendIn debits inside a caller-owned transaction so the debit commits or
// rolls back together with the caller's writes.
func (s *Service) SpendIn(tx *gorm.DB, userID int64, amount decimal.Decimal, reference string) error {
	_, _, err := s.spendIn(tx, userID, amount, reference)
	return err
}

func (s *Service) spendIn(tx *gorm.DB, userID int64, amount decimal.Decimal, reference string) (Wallet, Transaction, error) {
	var wallet Wallet
	var txn Transaction

	if !amount.IsPositive() {
		return wallet, txn, ErrInvalidAmount
	}

	if err := s.getOrCreateWalletForUpdate(tx, userID, &wallet); err != nil {
		return wallet, txn, err
	}
	if wallet.Balance.LessThan(amount) {
		return wallet, txn, ErrInsufficientFunds
	}

	wallet.Balance = wallet.Balance.Sub(amount)
	if err := tx.Model(&Wallet{}).Where("id = ?", wallet.ID).Update("balance", wallet.Balance).Error; err != nil {
		return wallet, txn, err
	}

	txn = Transaction{WalletID: wallet.ID, Amount: amount, Type: TransactionTypeSpend, Reference: reference}
	if err := tx.Create(&txn).Error; err != nil {
		return wallet, txn, err
	}
	return wallet, txn, nil
}

func (s *Service) ListTransactions(ctx context.Context, userID int64) ([]Transaction, error) {
	wallet, err := s.GetOrCreateWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	var txns []Transaction
	if err := s.db.WithContext(ctx).Where("wallet_id = ?", wallet.ID).Order("created_at desc").Find(&txns).Error; err != nil {
		return nil, err
	}

	return txns, nil
}

func (s *Service) getWalletByUserID(ctx context.Context, userID int64) (*Wallet, error) {
	var wallet Wallet
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (s *Service) getOrCreateWalletForUpdate(tx *gorm.DB, userID int64, wallet *Wallet) error {
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("user_id = ?", userID).First(wallet).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		*wallet = Wallet{UserID: userID, Balance: s.startingBalance}
		if err := tx.Create(wallet).Error; err != nil {
			if isUniqueConstraintError(err) {
				return tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("user_id = ?", userID).First(wallet).Error
			}
			return err
		}
	}
	return nil
}

func isUniqueConstraintError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint") || strings.Contains(msg, "unique failed")
}
