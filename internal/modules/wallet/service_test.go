package wallet

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proptoken/internal/database"
)

func setupTestService(t *testing.T, starting decimal.Decimal) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:wallet_test_%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect(dsn)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Wallet{}, &Transaction{}))
	return NewService(db, starting)
}

func TestGetOrCreateWalletGrantsStartingBalance(t *testing.T) {
	svc := setupTestService(t, decimal.NewFromInt(100_000))
	ctx := context.Background()

	w, err := svc.GetOrCreateWallet(ctx, 1001)
	require.NoError(t, err)
	assert.True(t, w.Balance.Equal(decimal.NewFromInt(100_000)))

	again, err := svc.GetOrCreateWallet(ctx, 1001)
	require.NoError(t, err)
	assert.Equal(t, w.ID, again.ID)
}

func TestAddAndSpendFlow(t *testing.T) {
	svc := setupTestService(t, decimal.Zero)
	ctx := context.Background()

	w, addTxn, err := svc.Add(ctx, 101, decimal.NewFromInt(150))
	require.NoError(t, err)
	assert.True(t, w.Balance.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, TransactionTypeAdd, addTxn.Type)

	w, spendTxn, err := svc.Spend(ctx, 101, decimal.NewFromInt(40), "test")
	require.NoError(t, err)
	assert.True(t, w.Balance.Equal(decimal.NewFromInt(110)))
	assert.Equal(t, TransactionTypeSpend, spendTxn.Type)
	assert.Equal(t, "test", spendTxn.Reference)

	txns, err := svc.ListTransactions(ctx, 101)
	require.NoError(t, err)
	assert.Len(t, txns, 2)
}

func TestSpendRejectsInsufficientFunds(t *testing.T) {
	svc := setupTestService(t, decimal.NewFromInt(50))
	ctx := context.Background()

	_, _, err := svc.Spend(ctx, 7, decimal.NewFromInt(51), "too much")
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	w, err := svc.GetOrCreateWallet(ctx, 7)
	require.NoError(t, err)
	assert.True(t, w.Balance.Equal(decimal.NewFromInt(50)), "failed spend must not change the balance")

	txns, err := svc.ListTransactions(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestSpendRejectsNonPositiveAmount(t *testing.T) {
	svc := setupTestService(t, decimal.NewFromInt(50))
	ctx := context.Background()

	_, _, err := svc.Spend(ctx, 7, decimal.Zero, "zero")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, _, err = svc.Add(ctx, 7, decimal.NewFromInt(-10))
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestSpendHandlesFractionalAmounts(t *testing.T) {
	svc := setupTestService(t, decimal.RequireFromString("100.00"))
	ctx := context.Background()

	w, _, err := svc.Spend(ctx, 9, decimal.RequireFromString("33.33"), "fraction")
	require.NoError(t, err)
	assert.True(t, w.Balance.Equal(decimal.RequireFromString("66.67")))
}
