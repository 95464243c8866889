package account

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines chart-of-accounts persistence operations
type Repository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// GetByName and GetByCode return (nil, nil) when no account matches,
	// so services can pre-check uniqueness before creating or renaming.
	GetByName(ctx context.Context, name string) (*Account, error)
	GetByCode(ctx context.Context, code string) (*Account, error)

	List(ctx context.Context, offset, limit int) ([]*Account, error)
	Count(ctx context.Context) (int64, error)

	// ListAll returns the full chart of accounts ordered by code.
	// Statement aggregation walks every account, active or not.
	ListAll(ctx context.Context) ([]*Account, error)

	Update(ctx context.Context, account *Account) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ErrAccountNotFound indicates missing account
type ErrAccountNotFound struct {
	AccountID uuid.UUID
}

func (e ErrAccountNotFound) Error() string {
	return "account not found: " + e.AccountID.String()
}

// ErrDuplicateName indicates account name uniqueness violation
type ErrDuplicateName struct {
	Name string
}

func (e ErrDuplicateName) Error() string {
	return "account with name already exists: " + e.Name
}

// ErrDuplicateCode indicates account code uniqueness violation
type ErrDuplicateCode struct {
	Code string
}

func (e ErrDuplicateCode) Error() string {
	return "account with code already exists: " + e.Code
}

// ErrAccountReferenced indicates the account is referenced by journal line
// items and cannot be deleted
type ErrAccountReferenced struct {
	AccountID uuid.UUID
}

func (e ErrAccountReferenced) Error() string {
	return "account is referenced by existing transactions: " + e.AccountID.String()
}
