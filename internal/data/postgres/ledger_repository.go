package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bookkeeping-ledger/internal/domain/ledger"
	"github.com/bookkeeping-ledger/internal/platform/persistence"
)

// entryNumberLockKey is the advisory lock key that serializes entry number
// assignment across concurrent writers. The lock is transaction-scoped, so
// it is released automatically on commit or rollback.
const entryNumberLockKey = int64(815042)

// LedgerRepository implements the ledger.Repository interface for PostgreSQL
type LedgerRepository struct {
	querier  persistence.Querier
	beginner persistence.TxBeginner
	logger   *slog.Logger
}

// NewLedgerRepository creates a new PostgreSQL journal repository
func NewLedgerRepository(logger *slog.Logger, db *persistence.PostgresDB) ledger.Repository {
	return &LedgerRepository{
		querier:  db.Pool(),
		beginner: db.Pool(),
		logger:   logger,
	}
}

// CreateWithDetails persists the transaction header and all line items in a
// single database transaction. The entry number is assigned inside the same
// transaction as max existing + 1, serialized by an advisory lock; the
// UNIQUE constraint on entry_number is the backstop. A failure at any point
// leaves no partial transaction visible.
func (r *LedgerRepository) CreateWithDetails(ctx context.Context, txn *ledger.Transaction) error {
	var next int64
	err := persistence.ExecuteTx(ctx, r.beginner, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, entryNumberLockKey); err != nil {
			r.logger.Error("Failed to acquire entry number lock", "error", err)
			return fmt.Errorf("failed to acquire entry number lock: %w", err)
		}

		err := tx.QueryRow(ctx, `SELECT COALESCE(MAX(entry_number), 0) + 1 FROM transactions`).Scan(&next)
		if err != nil {
			r.logger.Error("Failed to compute next entry number", "error", err)
			return fmt.Errorf("failed to compute next entry number: %w", err)
		}

		headerQuery := `
			INSERT INTO transactions (id, entry_number, date, reason, description, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		_, err = tx.Exec(ctx, headerQuery,
			txn.ID,
			next,
			txn.Date,
			txn.Reason,
			txn.Description,
			txn.CreatedAt,
			txn.UpdatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to insert transaction header", "id", txn.ID.String(), "error", err)
			return fmt.Errorf("failed to insert transaction header: %w", err)
		}

		detailQuery := `
			INSERT INTO transaction_details (id, transaction_id, account_id, debit, credit, description)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		for _, d := range txn.Details {
			_, err = tx.Exec(ctx, detailQuery,
				d.ID,
				txn.ID,
				d.AccountID,
				d.Debit,
				d.Credit,
				d.Description,
			)
			if err != nil {
				var pgErr *pgconn.PgError
				if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
					return ledger.ErrUnknownAccount{AccountID: d.AccountID}
				}
				r.logger.Error("Failed to insert transaction detail", "transaction_id", txn.ID.String(), "error", err)
				return fmt.Errorf("failed to insert transaction detail: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	txn.EntryNumber = next
	return nil
}

// GetByID retrieves a transaction with its line items
func (r *LedgerRepository) GetByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	query := `
		SELECT id, entry_number, date, reason, description, created_at, updated_at
		FROM transactions
		WHERE id = $1
	`

	var txn ledger.Transaction
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&txn.ID,
		&txn.EntryNumber,
		&txn.Date,
		&txn.Reason,
		&txn.Description,
		&txn.CreatedAt,
		&txn.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrTransactionNotFound{TransactionID: id}
		}
		r.logger.Error("Failed to get transaction", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	details, err := r.detailsFor(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	txn.Details = details[id]

	return &txn, nil
}

// List retrieves a page of transactions with their line items, ordered by
// entry number ascending
func (r *LedgerRepository) List(ctx context.Context, offset, limit int) ([]*ledger.Transaction, error) {
	query := `
		SELECT id, entry_number, date, reason, description, created_at, updated_at
		FROM transactions
		ORDER BY entry_number
		OFFSET $1 LIMIT $2
	`

	rows, err := r.querier.Query(ctx, query, offset, limit)
	if err != nil {
		r.logger.Error("Failed to list transactions", "error", err)
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []*ledger.Transaction
	var ids []uuid.UUID
	for rows.Next() {
		var txn ledger.Transaction
		err := rows.Scan(
			&txn.ID,
			&txn.EntryNumber,
			&txn.Date,
			&txn.Reason,
			&txn.Description,
			&txn.CreatedAt,
			&txn.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, &txn)
		ids = append(ids, txn.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transaction rows: %w", err)
	}

	if len(ids) == 0 {
		return txns, nil
	}

	details, err := r.detailsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, txn := range txns {
		txn.Details = details[txn.ID]
	}

	return txns, nil
}

// Count returns the total number of transactions
func (r *LedgerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.querier.QueryRow(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count transactions", "error", err)
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

// UpdateHeader persists header-field changes. The detail set and entry
// number are never written.
func (r *LedgerRepository) UpdateHeader(ctx context.Context, txn *ledger.Transaction) error {
	query := `
		UPDATE transactions
		SET date = $1, reason = $2, description = $3, updated_at = $4
		WHERE id = $5
	`

	result, err := r.querier.Exec(ctx, query,
		txn.Date,
		txn.Reason,
		txn.Description,
		txn.UpdatedAt,
		txn.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update transaction", "id", txn.ID.String(), "error", err)
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ledger.ErrTransactionNotFound{TransactionID: txn.ID}
	}

	return nil
}

// Delete removes a transaction; line items go with it via ON DELETE CASCADE
func (r *LedgerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.querier.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete transaction", "id", id.String(), "error", err)
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ledger.ErrTransactionNotFound{TransactionID: id}
	}

	return nil
}

// LinesByAccount returns the joined line items for one account ordered by
// date then entry number, optionally restricted to one reason
func (r *LedgerRepository) LinesByAccount(ctx context.Context, accountID uuid.UUID, reason string) ([]ledger.Line, error) {
	query := `
		SELECT t.date, t.entry_number, t.reason, d.debit, d.credit
		FROM transaction_details d
		JOIN transactions t ON t.id = d.transaction_id
		WHERE d.account_id = $1 AND ($2 = '' OR t.reason = $2)
		ORDER BY t.date, t.entry_number
	`

	rows, err := r.querier.Query(ctx, query, accountID, reason)
	if err != nil {
		r.logger.Error("Failed to query account lines", "account_id", accountID.String(), "error", err)
		return nil, fmt.Errorf("failed to query account lines: %w", err)
	}
	defer rows.Close()

	var lines []ledger.Line
	for rows.Next() {
		var line ledger.Line
		if err := rows.Scan(&line.Date, &line.EntryNumber, &line.Reason, &line.Debit, &line.Credit); err != nil {
			return nil, fmt.Errorf("failed to scan account line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read account lines: %w", err)
	}

	return lines, nil
}

// AccountIDsByReason returns the distinct accounts touched by transactions
// with the given reason
func (r *LedgerRepository) AccountIDsByReason(ctx context.Context, reason string) ([]uuid.UUID, error) {
	query := `
		SELECT DISTINCT d.account_id
		FROM transaction_details d
		JOIN transactions t ON t.id = d.transaction_id
		WHERE t.reason = $1
	`

	rows, err := r.querier.Query(ctx, query, reason)
	if err != nil {
		r.logger.Error("Failed to query accounts by reason", "reason", reason, "error", err)
		return nil, fmt.Errorf("failed to query accounts by reason: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan account id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read account ids: %w", err)
	}

	return ids, nil
}

// ExistsInDateRange reports whether any transaction is dated within
// [start, end], both ends inclusive
func (r *LedgerRepository) ExistsInDateRange(ctx context.Context, start, end time.Time) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM transactions WHERE date >= $1 AND date <= $2)`
	err := r.querier.QueryRow(ctx, query, start, end).Scan(&exists)
	if err != nil {
		r.logger.Error("Failed to check transactions in date range", "error", err)
		return false, fmt.Errorf("failed to check transactions in date range: %w", err)
	}
	return exists, nil
}

// detailsFor loads line items for the given transaction ids, keyed by owner
func (r *LedgerRepository) detailsFor(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]ledger.Detail, error) {
	query := `
		SELECT id, transaction_id, account_id, debit, credit, description
		FROM transaction_details
		WHERE transaction_id = ANY($1)
		ORDER BY id
	`

	rows, err := r.querier.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error("Failed to query transaction details", "error", err)
		return nil, fmt.Errorf("failed to query transaction details: %w", err)
	}
	defer rows.Close()

	details := make(map[uuid.UUID][]ledger.Detail)
	for rows.Next() {
		var d ledger.Detail
		err := rows.Scan(&d.ID, &d.TransactionID, &d.AccountID, &d.Debit, &d.Credit, &d.Description)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction detail: %w", err)
		}
		details[d.TransactionID] = append(details[d.TransactionID], d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transaction details: %w", err)
	}

	return details, nil
}
