package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bookkeeping-ledger/internal/domain/account"
	"github.com/bookkeeping-ledger/internal/domain/ledger"
	"github.com/bookkeeping-ledger/internal/domain/report"
)

// AccountService defines the interface for chart-of-accounts operations
type AccountService interface {
	// CreateAccount creates a new account with the given details
	// Returns ErrDuplicateName or ErrDuplicateCode on uniqueness violations
	CreateAccount(ctx context.Context, name, code string, accountType account.Type, description string, isActive bool) (*account.Account, error)

	// GetAccountByID retrieves an account by its ID
	// Returns ErrAccountNotFound if the account doesn't exist
	GetAccountByID(ctx context.Context, id uuid.UUID) (*account.Account, error)

	// ListAccounts retrieves a page of accounts and the total count
	ListAccounts(ctx context.Context, page, perPage int) ([]*account.Account, int64, error)

	// UpdateAccount merges the set fields of upd into the account.
	// The account type is immutable.
	UpdateAccount(ctx context.Context, id uuid.UUID, upd account.Update) (*account.Account, error)

	// DeleteAccount removes an account
	// Returns ErrAccountReferenced if journal line items still reference it
	DeleteAccount(ctx context.Context, id uuid.UUID) error
}

// JournalService defines the interface for journal transaction operations
type JournalService interface {
	// CreateTransaction validates and persists a new journal transaction
	// atomically with all its line items, assigning the next entry number.
	// Returns ErrUnbalancedTransaction if debits and credits don't match,
	// ErrUnknownAccount if a line item references a missing account.
	CreateTransaction(ctx context.Context, date time.Time, reason, description string, details []ledger.Detail) (*ledger.Transaction, error)

	// GetTransactionByID retrieves a transaction with its line items
	// Returns ErrTransactionNotFound if it doesn't exist
	GetTransactionByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error)

	// ListTransactions retrieves a page of transactions and the total count
	ListTransactions(ctx context.Context, page, perPage int) ([]*ledger.Transaction, int64, error)

	// UpdateTransaction merges header fields only; the detail set and entry
	// number are immutable after creation.
	UpdateTransaction(ctx context.Context, id uuid.UUID, upd ledger.Update) (*ledger.Transaction, error)

	// DeleteTransaction removes a transaction and its line items.
	// Surviving entries keep their entry numbers.
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
}

// ReportingService defines the read-only projection and aggregation queries
type ReportingService interface {
	// ProjectAccount replays the journal into a T-account for one account,
	// optionally filtered to a single reason (empty string means no filter).
	// Returns ErrAccountNotFound if the account doesn't exist.
	ProjectAccount(ctx context.Context, accountID uuid.UUID, reason string) (*report.TAccount, error)

	// ProjectByReason projects every account touched by transactions with
	// the given reason. A reason touching no accounts yields an empty slice,
	// not an error.
	ProjectByReason(ctx context.Context, reason string) ([]*report.TAccount, error)

	// GenerateStatement aggregates account balances into a financial
	// statement for the date range (inclusive on both ends). A range with
	// no journal activity yields an all-zero statement.
	GenerateStatement(ctx context.Context, start, end time.Time) (report.FinancialStatement, error)

	// GenerateSummary returns the income-statement slice for the date range
	GenerateSummary(ctx context.Context, start, end time.Time) (report.ResultsSummary, error)
}
