package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookkeeping-ledger/internal/domain/ledger"
)

func newLedgerTestTransaction(t *testing.T) *ledger.Transaction {
	t.Helper()
	txn, err := ledger.NewTransaction(
		time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		"Sale",
		"cash sale",
		[]ledger.Detail{
			{AccountID: uuid.New(), Debit: decimal.NewFromInt(100), Credit: decimal.Zero},
			{AccountID: uuid.New(), Debit: decimal.Zero, Credit: decimal.NewFromInt(100)},
		},
	)
	require.NoError(t, err)
	return txn
}

const (
	lockQuery      = `SELECT pg_advisory_xact_lock\(\$1\)`
	nextEntryQuery = `SELECT COALESCE\(MAX\(entry_number\), 0\) \+ 1 FROM transactions`
	headerQuery    = `
		INSERT INTO transactions \(id, entry_number, date, reason, description, created_at, updated_at\)
		VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7\)
	`
	detailQuery = `
		INSERT INTO transaction_details \(id, transaction_id, account_id, debit, credit, description\)
		VALUES \(\$1, \$2, \$3, \$4, \$5, \$6\)
	`
)

func TestLedgerRepository_CreateWithDetails(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()

	t.Run("success assigns next entry number", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := &LedgerRepository{querier: mock, beginner: mock, logger: logger}
		txn := newLedgerTestTransaction(t)

		mock.ExpectBegin()
		mock.ExpectExec(lockQuery).WithArgs(entryNumberLockKey).
			WillReturnResult(pgxmock.NewResult("SELECT", 1))
		mock.ExpectQuery(nextEntryQuery).
			WillReturnRows(pgxmock.NewRows([]string{"next"}).AddRow(int64(42)))
		mock.ExpectExec(headerQuery).
			WithArgs(txn.ID, int64(42), txn.Date, txn.Reason, txn.Description, txn.CreatedAt, txn.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		for _, d := range txn.Details {
			mock.ExpectExec(detailQuery).
				WithArgs(d.ID, txn.ID, d.AccountID, d.Debit, d.Credit, d.Description).
				WillReturnResult(pgxmock.NewResult("INSERT", 1))
		}
		mock.ExpectCommit()

		err = repo.CreateWithDetails(ctx, txn)
		assert.NoError(t, err)
		assert.Equal(t, int64(42), txn.EntryNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown account rolls back", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := &LedgerRepository{querier: mock, beginner: mock, logger: logger}
		txn := newLedgerTestTransaction(t)
		first := txn.Details[0]

		mock.ExpectBegin()
		mock.ExpectExec(lockQuery).WithArgs(entryNumberLockKey).
			WillReturnResult(pgxmock.NewResult("SELECT", 1))
		mock.ExpectQuery(nextEntryQuery).
			WillReturnRows(pgxmock.NewRows([]string{"next"}).AddRow(int64(1)))
		mock.ExpectExec(headerQuery).
			WithArgs(txn.ID, int64(1), txn.Date, txn.Reason, txn.Description, txn.CreatedAt, txn.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(detailQuery).
			WithArgs(first.ID, txn.ID, first.AccountID, first.Debit, first.Credit, first.Description).
			WillReturnError(&pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: "transaction_details_account_id_fkey"})
		mock.ExpectRollback()

		err = repo.CreateWithDetails(ctx, txn)
		var unknownErr ledger.ErrUnknownAccount
		require.ErrorAs(t, err, &unknownErr)
		assert.Equal(t, first.AccountID, unknownErr.AccountID)
		assert.Zero(t, txn.EntryNumber, "entry number stays unset on failure")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := &LedgerRepository{querier: mock, beginner: mock, logger: logger}
		txn := newLedgerTestTransaction(t)

		beginErr := errors.New("pool exhausted")
		mock.ExpectBegin().WillReturnError(beginErr)

		err = repo.CreateWithDetails(ctx, txn)
		assert.Error(t, err)
		assert.ErrorIs(t, err, beginErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLedgerRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &LedgerRepository{querier: mock, beginner: mock, logger: logger}
	txnID := uuid.New()
	now := time.Now()

	headerSelect := `
		SELECT id, entry_number, date, reason, description, created_at, updated_at
		FROM transactions
		WHERE id = \$1
	`
	detailSelect := `
		SELECT id, transaction_id, account_id, debit, credit, description
		FROM transaction_details
		WHERE transaction_id = ANY\(\$1\)
		ORDER BY id
	`

	t.Run("success", func(t *testing.T) {
		headerRows := pgxmock.NewRows([]string{"id", "entry_number", "date", "reason", "description", "created_at", "updated_at"}).
			AddRow(txnID, int64(3), now, "Sale", "", now, now)
		detailRows := pgxmock.NewRows([]string{"id", "transaction_id", "account_id", "debit", "credit", "description"}).
			AddRow(uuid.New(), txnID, uuid.New(), decimal.NewFromInt(100), decimal.Zero, "").
			AddRow(uuid.New(), txnID, uuid.New(), decimal.Zero, decimal.NewFromInt(100), "")

		mock.ExpectQuery(headerSelect).WithArgs(txnID).WillReturnRows(headerRows)
		mock.ExpectQuery(detailSelect).WithArgs([]uuid.UUID{txnID}).WillReturnRows(detailRows)

		txn, err := repo.GetByID(ctx, txnID)
		require.NoError(t, err)
		assert.Equal(t, txnID, txn.ID)
		assert.Equal(t, int64(3), txn.EntryNumber)
		assert.Len(t, txn.Details, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(headerSelect).WithArgs(txnID).WillReturnError(pgx.ErrNoRows)

		txn, err := repo.GetByID(ctx, txnID)
		assert.Nil(t, txn)
		assert.ErrorIs(t, err, ledger.ErrTransactionNotFound{TransactionID: txnID})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLedgerRepository_UpdateHeader(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &LedgerRepository{querier: mock, beginner: mock, logger: logger}
	txn := newLedgerTestTransaction(t)

	query := `
		UPDATE transactions
		SET date = \$1, reason = \$2, description = \$3, updated_at = \$4
		WHERE id = \$5
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(txn.Date, txn.Reason, txn.Description, txn.UpdatedAt, txn.ID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.UpdateHeader(ctx, txn)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(txn.Date, txn.Reason, txn.Description, txn.UpdatedAt, txn.ID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.UpdateHeader(ctx, txn)
		assert.ErrorIs(t, err, ledger.ErrTransactionNotFound{TransactionID: txn.ID})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLedgerRepository_Delete(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &LedgerRepository{querier: mock, beginner: mock, logger: logger}
	txnID := uuid.New()

	query := `DELETE FROM transactions WHERE id = \$1`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).WithArgs(txnID).WillReturnResult(pgxmock.NewResult("DELETE", 1))

		err := repo.Delete(ctx, txnID)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(query).WithArgs(txnID).WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err := repo.Delete(ctx, txnID)
		assert.ErrorIs(t, err, ledger.ErrTransactionNotFound{TransactionID: txnID})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLedgerRepository_LinesByAccount(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &LedgerRepository{querier: mock, beginner: mock, logger: logger}
	accountID := uuid.New()

	query := `
		SELECT t.date, t.entry_number, t.reason, d.debit, d.credit
		FROM transaction_details d
		JOIN transactions t ON t.id = d.transaction_id
		WHERE d.account_id = \$1 AND \(\$2 = '' OR t.reason = \$2\)
		ORDER BY t.date, t.entry_number
	`
	columns := []string{"date", "entry_number", "reason", "debit", "credit"}

	t.Run("unfiltered", func(t *testing.T) {
		rows := pgxmock.NewRows(columns).
			AddRow(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), int64(1), "Sale", decimal.NewFromInt(100), decimal.Zero).
			AddRow(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), int64(2), "Purchase", decimal.Zero, decimal.NewFromInt(40))

		mock.ExpectQuery(query).WithArgs(accountID, "").WillReturnRows(rows)

		lines, err := repo.LinesByAccount(ctx, accountID, "")
		require.NoError(t, err)
		require.Len(t, lines, 2)
		assert.Equal(t, int64(1), lines[0].EntryNumber)
		assert.True(t, lines[1].Credit.Equal(decimal.NewFromInt(40)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reason filter", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(accountID, "Sale").WillReturnRows(pgxmock.NewRows(columns))

		lines, err := repo.LinesByAccount(ctx, accountID, "Sale")
		require.NoError(t, err)
		assert.Empty(t, lines)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLedgerRepository_AccountIDsByReason(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &LedgerRepository{querier: mock, beginner: mock, logger: logger}

	query := `
		SELECT DISTINCT d.account_id
		FROM transaction_details d
		JOIN transactions t ON t.id = d.transaction_id
		WHERE t.reason = \$1
	`

	id1, id2 := uuid.New(), uuid.New()
	rows := pgxmock.NewRows([]string{"account_id"}).AddRow(id1).AddRow(id2)
	mock.ExpectQuery(query).WithArgs("Sale").WillReturnRows(rows)

	ids, err := repo.AccountIDsByReason(ctx, "Sale")
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{id1, id2}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepository_ExistsInDateRange(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &LedgerRepository{querier: mock, beginner: mock, logger: logger}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	query := `SELECT EXISTS \(SELECT 1 FROM transactions WHERE date >= \$1 AND date <= \$2\)`

	t.Run("exists", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(start, end).
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

		exists, err := repo.ExistsInDateRange(ctx, start, end)
		assert.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty range", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(start, end).
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

		exists, err := repo.ExistsInDateRange(ctx, start, end)
		assert.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
