package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bookkeeping-ledger/internal/api/service"
	"github.com/bookkeeping-ledger/internal/domain/ledger"
)

// TransactionHandler handles HTTP requests for journal transaction operations
type TransactionHandler struct {
	journalService service.JournalService
	logger         *slog.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(logger *slog.Logger, journalService service.JournalService) *TransactionHandler {
	return &TransactionHandler{
		journalService: journalService,
		logger:         logger,
	}
}

// Create records a new journal transaction with its full set of line items.
// Unbalanced entries and references to unknown accounts are rejected with
// no partial write.
func (h *TransactionHandler) Create(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	details := make([]ledger.Detail, len(req.Details))
	for i, d := range req.Details {
		accountID, err := uuid.Parse(d.AccountID)
		if err != nil {
			h.logger.Error("Invalid account ID in detail", "account_id", d.AccountID, "error", err)
			RespondBadRequest(c, "Invalid account ID in line item")
			return
		}
		details[i] = ledger.Detail{
			AccountID:   accountID,
			Debit:       d.Debit,
			Credit:      d.Credit,
			Description: d.Description,
		}
	}

	txn, err := h.journalService.CreateTransaction(c.Request.Context(), req.Date, req.Reason, req.Description, details)
	if err != nil {
		if respondJournalValidation(c, h.logger, err) {
			return
		}
		h.logger.Error("Failed to create transaction", "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapTransactionToResponse(txn))
}

// GetByID retrieves a transaction with its line items, returning 404 if not found
func (h *TransactionHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, h.logger, "transaction")
	if !ok {
		return
	}

	txn, err := h.journalService.GetTransactionByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ledger.ErrTransactionNotFound{}) {
			RespondNotFound(c, "Transaction not found")
			return
		}
		h.logger.Error("Failed to get transaction", "id", id.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapTransactionToResponse(txn))
}

// List retrieves a page of journal transactions ordered by entry number
func (h *TransactionHandler) List(c *gin.Context) {
	var params PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.logger.Error("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	txns, total, err := h.journalService.ListTransactions(c.Request.Context(), params.Page, params.PerPage)
	if err != nil {
		h.logger.Error("Failed to list transactions", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		responses[i] = mapTransactionToResponse(txn)
	}

	RespondWithPaginatedData(c, http.StatusOK, responses, params.Page, params.PerPage, int(total))
}

// Update merges header fields into the transaction. Line items and the
// entry number are immutable after creation.
func (h *TransactionHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, h.logger, "transaction")
	if !ok {
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	upd := ledger.Update{
		Date:        req.Date,
		Reason:      req.Reason,
		Description: req.Description,
	}

	txn, err := h.journalService.UpdateTransaction(c.Request.Context(), id, upd)
	if err != nil {
		if errors.Is(err, ledger.ErrTransactionNotFound{}) {
			RespondNotFound(c, "Transaction not found")
			return
		}
		h.logger.Error("Failed to update transaction", "id", id.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapTransactionToResponse(txn))
}

// Delete removes a transaction and its line items; surviving entries keep
// their entry numbers
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, h.logger, "transaction")
	if !ok {
		return
	}

	err := h.journalService.DeleteTransaction(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ledger.ErrTransactionNotFound{}) {
			RespondNotFound(c, "Transaction not found")
			return
		}
		h.logger.Error("Failed to delete transaction", "id", id.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondNoContent(c)
}

// respondJournalValidation maps journal validation failures to a 400,
// reporting whether it handled the error
func respondJournalValidation(c *gin.Context, logger *slog.Logger, err error) bool {
	var unbalanced ledger.ErrUnbalancedTransaction
	if errors.As(err, &unbalanced) {
		logger.Warn("Rejected unbalanced transaction",
			"total_debit", unbalanced.TotalDebit,
			"total_credit", unbalanced.TotalCredit,
		)
		RespondBadRequest(c, unbalanced.Error())
		return true
	}
	var unknown ledger.ErrUnknownAccount
	if errors.As(err, &unknown) {
		logger.Warn("Rejected transaction referencing unknown account", "account_id", unknown.AccountID)
		RespondBadRequest(c, unknown.Error())
		return true
	}
	if errors.Is(err, ledger.ErrEmptyReason) || errors.Is(err, ledger.ErrNoDetails) || errors.Is(err, ledger.ErrNegativeAmount) {
		RespondBadRequest(c, err.Error())
		return true
	}
	return false
}
