package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bookkeeping-ledger/internal/domain/account"
	"github.com/bookkeeping-ledger/internal/domain/ledger"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func saleDetails(cashID, revenueID uuid.UUID) []ledger.Detail {
	return []ledger.Detail{
		{AccountID: cashID, Debit: decimal.NewFromInt(100), Credit: decimal.Zero},
		{AccountID: revenueID, Debit: decimal.Zero, Credit: decimal.NewFromInt(100)},
	}
}

func TestJournalService_CreateTransaction(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	cash, err := account.NewAccount("Cash", "1000", account.TypeAsset, "", true)
	require.NoError(t, err)
	revenue, err := account.NewAccount("Sales Revenue", "4000", account.TypeRevenue, "", true)
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		ledgerRepo := new(MockLedgerRepository)
		producer := new(MockMessagePublisher)
		svc := NewJournalService(testLogger(), accountRepo, ledgerRepo, producer)

		accountRepo.On("GetByID", ctx, cash.ID).Return(cash, nil)
		accountRepo.On("GetByID", ctx, revenue.ID).Return(revenue, nil)
		ledgerRepo.On("CreateWithDetails", ctx, mock.AnythingOfType("*ledger.Transaction")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*ledger.Transaction).EntryNumber = 7
			}).
			Return(nil)
		producer.On("Publish", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("ledger.Event")).Return(nil)

		txn, err := svc.CreateTransaction(ctx, date, "Sale", "cash sale", saleDetails(cash.ID, revenue.ID))
		require.NoError(t, err)
		assert.Equal(t, int64(7), txn.EntryNumber)
		assert.Len(t, txn.Details, 2)

		accountRepo.AssertExpectations(t)
		ledgerRepo.AssertExpectations(t)
		producer.AssertExpectations(t)
	})

	t.Run("Unbalanced", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		ledgerRepo := new(MockLedgerRepository)
		producer := new(MockMessagePublisher)
		svc := NewJournalService(testLogger(), accountRepo, ledgerRepo, producer)

		details := []ledger.Detail{
			{AccountID: cash.ID, Debit: decimal.NewFromInt(100), Credit: decimal.Zero},
			{AccountID: revenue.ID, Debit: decimal.Zero, Credit: decimal.NewFromInt(90)},
		}
		_, err := svc.CreateTransaction(ctx, date, "Sale", "", details)

		var unbalanced ledger.ErrUnbalancedTransaction
		assert.ErrorAs(t, err, &unbalanced)
		ledgerRepo.AssertNotCalled(t, "CreateWithDetails", mock.Anything, mock.Anything)
	})

	t.Run("UnknownAccount", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		ledgerRepo := new(MockLedgerRepository)
		producer := new(MockMessagePublisher)
		svc := NewJournalService(testLogger(), accountRepo, ledgerRepo, producer)

		missing := uuid.New()
		accountRepo.On("GetByID", ctx, cash.ID).Return(cash, nil)
		accountRepo.On("GetByID", ctx, missing).Return(nil, account.ErrAccountNotFound{AccountID: missing})

		details := []ledger.Detail{
			{AccountID: cash.ID, Debit: decimal.NewFromInt(50), Credit: decimal.Zero},
			{AccountID: missing, Debit: decimal.Zero, Credit: decimal.NewFromInt(50)},
		}
		_, err := svc.CreateTransaction(ctx, date, "Sale", "", details)

		var unknown ledger.ErrUnknownAccount
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, missing, unknown.AccountID)
		ledgerRepo.AssertNotCalled(t, "CreateWithDetails", mock.Anything, mock.Anything)
	})

	t.Run("PublishFailureDoesNotFailCreate", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		ledgerRepo := new(MockLedgerRepository)
		producer := new(MockMessagePublisher)
		svc := NewJournalService(testLogger(), accountRepo, ledgerRepo, producer)

		accountRepo.On("GetByID", ctx, cash.ID).Return(cash, nil)
		accountRepo.On("GetByID", ctx, revenue.ID).Return(revenue, nil)
		ledgerRepo.On("CreateWithDetails", ctx, mock.AnythingOfType("*ledger.Transaction")).Return(nil)
		producer.On("Publish", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("ledger.Event")).
			Return(errors.New("broker unavailable"))

		_, err := svc.CreateTransaction(ctx, date, "Sale", "", saleDetails(cash.ID, revenue.ID))
		assert.NoError(t, err)
	})
}

func TestJournalService_UpdateTransaction(t *testing.T) {
	ctx := context.Background()
	accountRepo := new(MockAccountRepository)
	ledgerRepo := new(MockLedgerRepository)
	producer := new(MockMessagePublisher)
	svc := NewJournalService(testLogger(), accountRepo, ledgerRepo, producer)

	cashID, revenueID := uuid.New(), uuid.New()
	txn, err := ledger.NewTransaction(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "Sale", "", saleDetails(cashID, revenueID))
	require.NoError(t, err)

	ledgerRepo.On("GetByID", ctx, txn.ID).Return(txn, nil)
	ledgerRepo.On("UpdateHeader", ctx, txn).Return(nil)

	newReason := "Adjustment"
	updated, err := svc.UpdateTransaction(ctx, txn.ID, ledger.Update{Reason: &newReason})
	require.NoError(t, err)
	assert.Equal(t, "Adjustment", updated.Reason)
	ledgerRepo.AssertExpectations(t)
}

func TestJournalService_DeleteTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		ledgerRepo := new(MockLedgerRepository)
		producer := new(MockMessagePublisher)
		svc := NewJournalService(testLogger(), accountRepo, ledgerRepo, producer)

		cashID, revenueID := uuid.New(), uuid.New()
		txn, err := ledger.NewTransaction(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "Sale", "", saleDetails(cashID, revenueID))
		require.NoError(t, err)

		ledgerRepo.On("GetByID", ctx, txn.ID).Return(txn, nil)
		ledgerRepo.On("Delete", ctx, txn.ID).Return(nil)
		producer.On("Publish", ctx, txn.ID.String(), mock.AnythingOfType("ledger.Event")).Return(nil)

		require.NoError(t, svc.DeleteTransaction(ctx, txn.ID))
		ledgerRepo.AssertExpectations(t)
		producer.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		ledgerRepo := new(MockLedgerRepository)
		producer := new(MockMessagePublisher)
		svc := NewJournalService(testLogger(), accountRepo, ledgerRepo, producer)

		id := uuid.New()
		ledgerRepo.On("GetByID", ctx, id).Return(nil, ledger.ErrTransactionNotFound{TransactionID: id})

		err := svc.DeleteTransaction(ctx, id)
		assert.ErrorIs(t, err, ledger.ErrTransactionNotFound{})
		ledgerRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		producer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestJournalService_ListTransactions(t *testing.T) {
	ctx := context.Background()
	accountRepo := new(MockAccountRepository)
	ledgerRepo := new(MockLedgerRepository)
	producer := new(MockMessagePublisher)
	svc := NewJournalService(testLogger(), accountRepo, ledgerRepo, producer)

	cashID, revenueID := uuid.New(), uuid.New()
	txn, err := ledger.NewTransaction(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "Sale", "", saleDetails(cashID, revenueID))
	require.NoError(t, err)

	ledgerRepo.On("List", ctx, 0, 20).Return([]*ledger.Transaction{txn}, nil)
	ledgerRepo.On("Count", ctx).Return(int64(1), nil)

	txns, total, err := svc.ListTransactions(ctx, 1, 20)
	require.NoError(t, err)
	assert.Len(t, txns, 1)
	assert.Equal(t, int64(1), total)
}
