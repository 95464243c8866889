// Package ledger holds the journal: transactions composed of debit/credit
// line items against the chart of accounts.
package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Common errors
var (
	ErrEmptyReason    = errors.New("transaction reason cannot be empty")
	ErrNoDetails      = errors.New("transaction must have at least one line item")
	ErrNegativeAmount = errors.New("debit and credit amounts cannot be negative")
)

// ErrUnbalancedTransaction indicates the double-entry invariant is violated:
// the sum of debits does not equal the sum of credits.
type ErrUnbalancedTransaction struct {
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

func (e ErrUnbalancedTransaction) Error() string {
	return "unbalanced transaction: debits (" + e.TotalDebit.StringFixed(2) +
		") != credits (" + e.TotalCredit.StringFixed(2) + ")"
}

// Detail is a single line item of a transaction. Exactly one account is the
// subject; debit and credit are non-negative and default to zero.
type Detail struct {
	ID            uuid.UUID       `json:"id"`
	TransactionID uuid.UUID       `json:"transaction_id"`
	AccountID     uuid.UUID       `json:"account_id"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Description   string          `json:"description,omitempty"`
}

// Transaction is one journal entry: a dated, reasoned set of line items.
// EntryNumber is assigned by the repository at creation time and is strictly
// increasing across the ledger's history; deleted numbers are never reused.
type Transaction struct {
	ID          uuid.UUID `json:"id"`
	EntryNumber int64     `json:"entry_number"`
	Date        time.Time `json:"date"`
	Reason      string    `json:"reason"`
	Description string    `json:"description,omitempty"`
	Details     []Detail  `json:"details"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTransaction builds a transaction and validates the double-entry
// invariant: every line item has non-negative amounts and total debits equal
// total credits. The entry number is zero until the repository assigns it.
func NewTransaction(date time.Time, reason, description string, details []Detail) (*Transaction, error) {
	if reason == "" {
		return nil, ErrEmptyReason
	}
	if len(details) == 0 {
		return nil, ErrNoDetails
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, d := range details {
		if d.Debit.IsNegative() || d.Credit.IsNegative() {
			return nil, ErrNegativeAmount
		}
		totalDebit = totalDebit.Add(d.Debit)
		totalCredit = totalCredit.Add(d.Credit)
	}
	if !totalDebit.Equal(totalCredit) {
		return nil, ErrUnbalancedTransaction{TotalDebit: totalDebit, TotalCredit: totalCredit}
	}

	now := time.Now()
	txn := &Transaction{
		ID:          uuid.New(),
		Date:        date,
		Reason:      reason,
		Description: description,
		Details:     make([]Detail, len(details)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for i, d := range details {
		txn.Details[i] = Detail{
			ID:            uuid.New(),
			TransactionID: txn.ID,
			AccountID:     d.AccountID,
			Debit:         d.Debit,
			Credit:        d.Credit,
			Description:   d.Description,
		}
	}

	return txn, nil
}

// Update carries the header fields a caller may change after creation.
// The detail set and entry number are immutable: projections are ordered by
// entry number and line items are owned exclusively by their transaction.
type Update struct {
	Date        *time.Time
	Reason      *string
	Description *string
}

// Apply merges the set fields of u into the transaction header
func (t *Transaction) Apply(u Update) {
	if u.Date != nil {
		t.Date = *u.Date
	}
	if u.Reason != nil {
		t.Reason = *u.Reason
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	t.UpdatedAt = time.Now()
}
