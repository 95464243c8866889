package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/bookkeeping-ledger/internal/domain/account"
)

// AccountServiceImpl implements the AccountService interface
type AccountServiceImpl struct {
	accountRepo account.Repository
}

// NewAccountService creates a new account service
func NewAccountService(accountRepo account.Repository) AccountService {
	return &AccountServiceImpl{
		accountRepo: accountRepo,
	}
}

// CreateAccount creates a new account, checking name and code uniqueness
// before writing. The database constraints remain the backstop under races.
func (s *AccountServiceImpl) CreateAccount(ctx context.Context, name, code string, accountType account.Type, description string, isActive bool) (*account.Account, error) {
	existing, err := s.accountRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, account.ErrDuplicateName{Name: name}
	}

	existing, err = s.accountRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, account.ErrDuplicateCode{Code: code}
	}

	acc, err := account.NewAccount(name, code, accountType, description, isActive)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.Create(ctx, acc); err != nil {
		return nil, err
	}

	return acc, nil
}

// GetAccountByID retrieves an account by its ID, returns ErrAccountNotFound if not found
func (s *AccountServiceImpl) GetAccountByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return s.accountRepo.GetByID(ctx, id)
}

// ListAccounts retrieves a page of accounts and the total count
func (s *AccountServiceImpl) ListAccounts(ctx context.Context, page, perPage int) ([]*account.Account, int64, error) {
	offset := (page - 1) * perPage

	accounts, err := s.accountRepo.List(ctx, offset, perPage)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.accountRepo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	return accounts, total, nil
}

// UpdateAccount applies the set fields of upd, re-checking uniqueness when
// name or code change
func (s *AccountServiceImpl) UpdateAccount(ctx context.Context, id uuid.UUID, upd account.Update) (*account.Account, error) {
	acc, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil && *upd.Name != acc.Name {
		existing, err := s.accountRepo.GetByName(ctx, *upd.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, account.ErrDuplicateName{Name: *upd.Name}
		}
	}

	if upd.Code != nil && *upd.Code != acc.Code {
		existing, err := s.accountRepo.GetByCode(ctx, *upd.Code)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, account.ErrDuplicateCode{Code: *upd.Code}
		}
	}

	acc.Apply(upd)

	if err := s.accountRepo.Update(ctx, acc); err != nil {
		return nil, err
	}

	return acc, nil
}

// DeleteAccount removes an account
func (s *AccountServiceImpl) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	return s.accountRepo.Delete(ctx, id)
}
