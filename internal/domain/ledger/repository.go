package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is one journal line item joined to its owning transaction header,
// the unit the T-account projector consumes. Lines are returned ordered by
// transaction date ascending, then entry number ascending.
type Line struct {
	Date        time.Time
	EntryNumber int64
	Reason      string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// Repository manages journal persistence with pagination support
type Repository interface {
	// CreateWithDetails persists the header and all line items as one atomic
	// unit and assigns the transaction's entry number (max existing + 1,
	// serialized against concurrent writers). On success the transaction's
	// EntryNumber field is populated.
	CreateWithDetails(ctx context.Context, txn *Transaction) error

	GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	List(ctx context.Context, offset, limit int) ([]*Transaction, error)
	Count(ctx context.Context) (int64, error)

	// UpdateHeader persists header-field changes only; details are immutable
	UpdateHeader(ctx context.Context, txn *Transaction) error

	// Delete removes the transaction and its details. Surviving entries are
	// never renumbered.
	Delete(ctx context.Context, id uuid.UUID) error

	// LinesByAccount returns the joined line items for one account, ordered
	// by date then entry number. An empty reason means no reason filter.
	LinesByAccount(ctx context.Context, accountID uuid.UUID, reason string) ([]Line, error)

	// AccountIDsByReason returns the distinct accounts touched by any
	// transaction with the given reason.
	AccountIDsByReason(ctx context.Context, reason string) ([]uuid.UUID, error)

	// ExistsInDateRange reports whether any transaction is dated within
	// [start, end], both ends inclusive.
	ExistsInDateRange(ctx context.Context, start, end time.Time) (bool, error)
}

// ErrTransactionNotFound indicates missing journal transaction
type ErrTransactionNotFound struct {
	TransactionID uuid.UUID
}

func (e ErrTransactionNotFound) Error() string {
	return "transaction not found: " + e.TransactionID.String()
}

// Is implements the errors.Is interface for ErrTransactionNotFound
func (e ErrTransactionNotFound) Is(target error) bool {
	t, ok := target.(ErrTransactionNotFound)
	if !ok {
		return false
	}
	// An empty target TransactionID matches any ErrTransactionNotFound
	if t.TransactionID == uuid.Nil {
		return true
	}
	return e.TransactionID == t.TransactionID
}

// ErrUnknownAccount indicates a line item references an account that does
// not exist in the chart of accounts
type ErrUnknownAccount struct {
	AccountID uuid.UUID
}

func (e ErrUnknownAccount) Error() string {
	return "line item references unknown account: " + e.AccountID.String()
}
