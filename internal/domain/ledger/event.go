package ledger

import (
	"time"

	"github.com/google/uuid"
)

// EventType defines journal lifecycle event kinds
type EventType string

const (
	EventTransactionCreated EventType = "journal.transaction.created"
	EventTransactionDeleted EventType = "journal.transaction.deleted"
)

// Event is the message published when a journal transaction is created or
// deleted. Consumers get the header only; the books themselves stay in
// Postgres.
type Event struct {
	Type          EventType `json:"type"`
	TransactionID uuid.UUID `json:"transaction_id"`
	EntryNumber   int64     `json:"entry_number"`
	Date          time.Time `json:"date"`
	Reason        string    `json:"reason"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewCreatedEvent builds the event for a freshly committed transaction
func NewCreatedEvent(txn *Transaction) Event {
	return Event{
		Type:          EventTransactionCreated,
		TransactionID: txn.ID,
		EntryNumber:   txn.EntryNumber,
		Date:          txn.Date,
		Reason:        txn.Reason,
		OccurredAt:    time.Now(),
	}
}

// NewDeletedEvent builds the event for a removed transaction
func NewDeletedEvent(txn *Transaction) Event {
	return Event{
		Type:          EventTransactionDeleted,
		TransactionID: txn.ID,
		EntryNumber:   txn.EntryNumber,
		Date:          txn.Date,
		Reason:        txn.Reason,
		OccurredAt:    time.Now(),
	}
}
