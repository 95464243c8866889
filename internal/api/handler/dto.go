package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bookkeeping-ledger/internal/domain/account"
	"github.com/bookkeeping-ledger/internal/domain/ledger"
)

// CreateAccountRequest represents a request to create a new account
type CreateAccountRequest struct {
	Name        string `json:"name" binding:"required"`
	Code        string `json:"code" binding:"required"`
	Type        string `json:"type" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

// UpdateAccountRequest represents a partial account update. Absent fields
// are left unchanged; the account type cannot be updated.
type UpdateAccountRequest struct {
	Name        *string `json:"name"`
	Code        *string `json:"code"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"is_active"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// TransactionDetailRequest represents one line item in a create request
type TransactionDetailRequest struct {
	AccountID   string          `json:"account_id" binding:"required,uuid"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// CreateTransactionRequest represents a request to create a new journal
// transaction together with its full set of line items
type CreateTransactionRequest struct {
	Date        time.Time                  `json:"date" binding:"required"`
	Reason      string                     `json:"reason" binding:"required"`
	Description string                     `json:"description"`
	Details     []TransactionDetailRequest `json:"details" binding:"required,min=1,dive"`
}

// UpdateTransactionRequest represents a partial header update. The detail
// set is immutable after creation and is deliberately not accepted here.
type UpdateTransactionRequest struct {
	Date        *time.Time `json:"date"`
	Reason      *string    `json:"reason"`
	Description *string    `json:"description"`
}

// TransactionDetailResponse represents a line item in API responses
type TransactionDetailResponse struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"account_id"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description,omitempty"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID          string                      `json:"id"`
	EntryNumber int64                       `json:"entry_number"`
	Date        string                      `json:"date"`
	Reason      string                      `json:"reason"`
	Description string                      `json:"description,omitempty"`
	Details     []TransactionDetailResponse `json:"details"`
	CreatedAt   string                      `json:"created_at"`
	UpdatedAt   string                      `json:"updated_at"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}

// mapAccountToResponse maps an account entity to an account response DTO
func mapAccountToResponse(acc *account.Account) AccountResponse {
	return AccountResponse{
		ID:          acc.ID.String(),
		Name:        acc.Name,
		Code:        acc.Code,
		Type:        string(acc.Type),
		Description: acc.Description,
		IsActive:    acc.IsActive,
		CreatedAt:   acc.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   acc.UpdatedAt.Format(time.RFC3339),
	}
}

// mapTransactionToResponse maps a transaction entity to a response DTO
func mapTransactionToResponse(txn *ledger.Transaction) TransactionResponse {
	details := make([]TransactionDetailResponse, len(txn.Details))
	for i, d := range txn.Details {
		details[i] = TransactionDetailResponse{
			ID:          d.ID.String(),
			AccountID:   d.AccountID.String(),
			Debit:       d.Debit,
			Credit:      d.Credit,
			Description: d.Description,
		}
	}

	return TransactionResponse{
		ID:          txn.ID.String(),
		EntryNumber: txn.EntryNumber,
		Date:        txn.Date.Format(time.RFC3339),
		Reason:      txn.Reason,
		Description: txn.Description,
		Details:     details,
		CreatedAt:   txn.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   txn.UpdatedAt.Format(time.RFC3339),
	}
}
