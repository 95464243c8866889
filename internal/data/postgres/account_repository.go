// Package postgres provides PostgreSQL implementations of the domain
// repositories. It handles all database operations while maintaining
// transaction safety and proper error handling for the bookkeeping ledger.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bookkeeping-ledger/internal/domain/account"
	"github.com/bookkeeping-ledger/internal/platform/persistence"
)

// Postgres error codes used to map constraint violations to domain errors
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// AccountRepository implements the account.Repository interface for PostgreSQL
type AccountRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewAccountRepository creates a new PostgreSQL account repository.
// It expects db.Pool() to satisfy persistence.Querier.
func NewAccountRepository(logger *slog.Logger, db *persistence.PostgresDB) account.Repository {
	return &AccountRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// Create stores a new account. Name and code uniqueness is enforced by
// database constraints; violations surface as the matching domain error.
func (r *AccountRepository) Create(ctx context.Context, acc *account.Account) error {
	query := `
		INSERT INTO accounts (id, name, code, type, description, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.querier.Exec(ctx, query,
		acc.ID,
		acc.Name,
		acc.Code,
		acc.Type,
		acc.Description,
		acc.IsActive,
		acc.CreatedAt,
		acc.UpdatedAt,
	)
	if err != nil {
		if dupErr := mapDuplicateAccountErr(err, acc); dupErr != nil {
			return dupErr
		}
		r.logger.Error("Failed to create account", "error", err)
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetByID retrieves an account by its ID
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	query := `
		SELECT id, name, code, type, description, is_active, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`

	acc, err := r.scanAccount(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound{AccountID: id}
		}
		r.logger.Error("Failed to get account", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return acc, nil
}

// GetByName retrieves an account by its name, returning (nil, nil) when no
// account matches
func (r *AccountRepository) GetByName(ctx context.Context, name string) (*account.Account, error) {
	query := `
		SELECT id, name, code, type, description, is_active, created_at, updated_at
		FROM accounts
		WHERE name = $1
	`

	acc, err := r.scanAccount(r.querier.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get account by name", "name", name, "error", err)
		return nil, fmt.Errorf("failed to get account by name: %w", err)
	}

	return acc, nil
}

// GetByCode retrieves an account by its code, returning (nil, nil) when no
// account matches
func (r *AccountRepository) GetByCode(ctx context.Context, code string) (*account.Account, error) {
	query := `
		SELECT id, name, code, type, description, is_active, created_at, updated_at
		FROM accounts
		WHERE code = $1
	`

	acc, err := r.scanAccount(r.querier.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get account by code", "code", code, "error", err)
		return nil, fmt.Errorf("failed to get account by code: %w", err)
	}

	return acc, nil
}

// List retrieves a page of accounts ordered by code
func (r *AccountRepository) List(ctx context.Context, offset, limit int) ([]*account.Account, error) {
	query := `
		SELECT id, name, code, type, description, is_active, created_at, updated_at
		FROM accounts
		ORDER BY code
		OFFSET $1 LIMIT $2
	`

	rows, err := r.querier.Query(ctx, query, offset, limit)
	if err != nil {
		r.logger.Error("Failed to list accounts", "error", err)
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	return r.collectAccounts(rows)
}

// Count returns the total number of accounts
func (r *AccountRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.querier.QueryRow(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count accounts", "error", err)
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return count, nil
}

// ListAll retrieves the full chart of accounts ordered by code
func (r *AccountRepository) ListAll(ctx context.Context) ([]*account.Account, error) {
	query := `
		SELECT id, name, code, type, description, is_active, created_at, updated_at
		FROM accounts
		ORDER BY code
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list all accounts", "error", err)
		return nil, fmt.Errorf("failed to list all accounts: %w", err)
	}
	defer rows.Close()

	return r.collectAccounts(rows)
}

// Update persists changes to an existing account. The account type is never
// written: it is fixed at creation.
func (r *AccountRepository) Update(ctx context.Context, acc *account.Account) error {
	query := `
		UPDATE accounts
		SET name = $1, code = $2, description = $3, is_active = $4, updated_at = $5
		WHERE id = $6
	`

	result, err := r.querier.Exec(ctx, query,
		acc.Name,
		acc.Code,
		acc.Description,
		acc.IsActive,
		acc.UpdatedAt,
		acc.ID,
	)
	if err != nil {
		if dupErr := mapDuplicateAccountErr(err, acc); dupErr != nil {
			return dupErr
		}
		r.logger.Error("Failed to update account", "id", acc.ID.String(), "error", err)
		return fmt.Errorf("failed to update account: %w", err)
	}

	if result.RowsAffected() == 0 {
		return account.ErrAccountNotFound{AccountID: acc.ID}
	}

	return nil
}

// Delete removes an account. Deleting an account referenced by journal line
// items is rejected by the foreign key constraint.
func (r *AccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.querier.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return account.ErrAccountReferenced{AccountID: id}
		}
		r.logger.Error("Failed to delete account", "id", id.String(), "error", err)
		return fmt.Errorf("failed to delete account: %w", err)
	}

	if result.RowsAffected() == 0 {
		return account.ErrAccountNotFound{AccountID: id}
	}

	return nil
}

func (r *AccountRepository) scanAccount(row pgx.Row) (*account.Account, error) {
	var acc account.Account
	err := row.Scan(
		&acc.ID,
		&acc.Name,
		&acc.Code,
		&acc.Type,
		&acc.Description,
		&acc.IsActive,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (r *AccountRepository) collectAccounts(rows pgx.Rows) ([]*account.Account, error) {
	var accounts []*account.Account
	for rows.Next() {
		var acc account.Account
		err := rows.Scan(
			&acc.ID,
			&acc.Name,
			&acc.Code,
			&acc.Type,
			&acc.Description,
			&acc.IsActive,
			&acc.CreatedAt,
			&acc.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, &acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read account rows: %w", err)
	}
	return accounts, nil
}

// mapDuplicateAccountErr translates unique constraint violations into the
// matching domain error, or returns nil when the error is something else
func mapDuplicateAccountErr(err error, acc *account.Account) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return nil
	}
	if pgErr.ConstraintName == "accounts_code_key" {
		return account.ErrDuplicateCode{Code: acc.Code}
	}
	return account.ErrDuplicateName{Name: acc.Name}
}
