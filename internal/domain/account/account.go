package account

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrEmptyName   = errors.New("account name cannot be empty")
	ErrEmptyCode   = errors.New("account code cannot be empty")
	ErrInvalidType = errors.New("invalid account type")
)

// Type classifies an account in the chart of accounts and fixes its
// balance-sign convention.
type Type string

const (
	TypeAsset     Type = "ASSET"
	TypeLiability Type = "LIABILITY"
	TypeEquity    Type = "EQUITY"
	TypeRevenue   Type = "REVENUE"
	TypeExpense   Type = "EXPENSE"
)

// Valid reports whether t is one of the five account types
func (t Type) Valid() bool {
	switch t {
	case TypeAsset, TypeLiability, TypeEquity, TypeRevenue, TypeExpense:
		return true
	}
	return false
}

// DebitNormal reports whether balances of this type grow with debits.
// Asset and expense accounts are debit-normal; liability, equity and
// revenue accounts are credit-normal.
func (t Type) DebitNormal() bool {
	return t == TypeAsset || t == TypeExpense
}

// Account represents an account in the chart of accounts
type Account struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Type        Type      `json:"type"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewAccount creates a new account with the given parameters. The type is
// fixed for the lifetime of the account.
func NewAccount(name, code string, accountType Type, description string, isActive bool) (*Account, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if code == "" {
		return nil, ErrEmptyCode
	}
	if !accountType.Valid() {
		return nil, ErrInvalidType
	}

	now := time.Now()
	return &Account{
		ID:          uuid.New(),
		Name:        name,
		Code:        code,
		Type:        accountType,
		Description: description,
		IsActive:    isActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Update carries the account fields a caller may change. The account type
// is deliberately absent: changing it would silently flip the sign
// convention of every historical projection.
type Update struct {
	Name        *string
	Code        *string
	Description *string
	IsActive    *bool
}

// Apply merges the set fields of u into the account
func (a *Account) Apply(u Update) {
	if u.Name != nil {
		a.Name = *u.Name
	}
	if u.Code != nil {
		a.Code = *u.Code
	}
	if u.Description != nil {
		a.Description = *u.Description
	}
	if u.IsActive != nil {
		a.IsActive = *u.IsActive
	}
	a.UpdatedAt = time.Now()
}
