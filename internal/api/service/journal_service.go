package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bookkeeping-ledger/internal/domain/account"
	"github.com/bookkeeping-ledger/internal/domain/ledger"
	"github.com/bookkeeping-ledger/internal/platform/messaging/producers"
)

// JournalServiceImpl implements the JournalService interface
type JournalServiceImpl struct {
	accountRepo account.Repository
	ledgerRepo  ledger.Repository
	producer    producers.MessagePublisher
	logger      *slog.Logger
}

// NewJournalService creates a new journal service
func NewJournalService(logger *slog.Logger, accountRepo account.Repository, ledgerRepo ledger.Repository, producer producers.MessagePublisher) JournalService {
	return &JournalServiceImpl{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		producer:    producer,
		logger:      logger,
	}
}

// CreateTransaction validates the entry and persists header plus line items
// as one atomic unit. Event publishing happens after the commit and is
// best-effort: the books in Postgres are the source of truth.
func (s *JournalServiceImpl) CreateTransaction(ctx context.Context, date time.Time, reason, description string, details []ledger.Detail) (*ledger.Transaction, error) {
	txn, err := ledger.NewTransaction(date, reason, description, details)
	if err != nil {
		return nil, err
	}

	// Resolve every referenced account up front for a clear error; the
	// foreign key constraint is the backstop under concurrent deletes.
	seen := make(map[uuid.UUID]bool)
	for _, d := range txn.Details {
		if seen[d.AccountID] {
			continue
		}
		seen[d.AccountID] = true

		if _, err := s.accountRepo.GetByID(ctx, d.AccountID); err != nil {
			var notFound account.ErrAccountNotFound
			if errors.As(err, &notFound) {
				return nil, ledger.ErrUnknownAccount{AccountID: d.AccountID}
			}
			return nil, err
		}
	}

	if err := s.ledgerRepo.CreateWithDetails(ctx, txn); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, ledger.NewCreatedEvent(txn))

	s.logger.Info("Transaction created",
		"transaction_id", txn.ID,
		"entry_number", txn.EntryNumber,
		"reason", txn.Reason,
		"details", len(txn.Details),
	)

	return txn, nil
}

// GetTransactionByID retrieves a transaction with its line items
func (s *JournalServiceImpl) GetTransactionByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	return s.ledgerRepo.GetByID(ctx, id)
}

// ListTransactions retrieves a page of transactions and the total count
func (s *JournalServiceImpl) ListTransactions(ctx context.Context, page, perPage int) ([]*ledger.Transaction, int64, error) {
	offset := (page - 1) * perPage

	txns, err := s.ledgerRepo.List(ctx, offset, perPage)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.ledgerRepo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	return txns, total, nil
}

// UpdateTransaction merges header fields only; details and entry number are
// immutable after creation
func (s *JournalServiceImpl) UpdateTransaction(ctx context.Context, id uuid.UUID, upd ledger.Update) (*ledger.Transaction, error) {
	txn, err := s.ledgerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	txn.Apply(upd)

	if err := s.ledgerRepo.UpdateHeader(ctx, txn); err != nil {
		return nil, err
	}

	return txn, nil
}

// DeleteTransaction removes a transaction and its line items. Entry numbers
// of surviving transactions are never reassigned.
func (s *JournalServiceImpl) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	txn, err := s.ledgerRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.ledgerRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.publishEvent(ctx, ledger.NewDeletedEvent(txn))

	s.logger.Info("Transaction deleted",
		"transaction_id", txn.ID,
		"entry_number", txn.EntryNumber,
	)

	return nil
}

// publishEvent pushes a journal event, logging instead of failing the
// operation when the broker is unavailable
func (s *JournalServiceImpl) publishEvent(ctx context.Context, event ledger.Event) {
	if err := s.producer.Publish(ctx, event.TransactionID.String(), event); err != nil {
		s.logger.Error("Failed to publish journal event",
			"type", string(event.Type),
			"transaction_id", event.TransactionID,
			"error", err,
		)
	}
}
