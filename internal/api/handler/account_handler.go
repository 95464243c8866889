package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bookkeeping-ledger/internal/api/service"
	"github.com/bookkeeping-ledger/internal/domain/account"
)

// AccountHandler handles HTTP requests for chart-of-accounts operations
type AccountHandler struct {
	accountService service.AccountService
	logger         *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(logger *slog.Logger, accountService service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger,
	}
}

// Create handles creation of a new account, validating the request and
// enforcing name/code uniqueness
func (h *AccountHandler) Create(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	acc, err := h.accountService.CreateAccount(c.Request.Context(), req.Name, req.Code, account.Type(req.Type), req.Description, isActive)
	if err != nil {
		if respondAccountConflict(c, h.logger, err) {
			return
		}
		h.logger.Error("Failed to create account", "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapAccountToResponse(acc))
}

// GetByID retrieves an account by its ID, returning 404 if not found
func (h *AccountHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, h.logger, "account")
	if !ok {
		return
	}

	acc, err := h.accountService.GetAccountByID(c.Request.Context(), id)
	if err != nil {
		var notFound account.ErrAccountNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Account not found")
			return
		}
		h.logger.Error("Failed to get account", "id", id.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapAccountToResponse(acc))
}

// List retrieves a page of the chart of accounts
func (h *AccountHandler) List(c *gin.Context) {
	var params PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.logger.Error("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	accounts, total, err := h.accountService.ListAccounts(c.Request.Context(), params.Page, params.PerPage)
	if err != nil {
		h.logger.Error("Failed to list accounts", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		responses[i] = mapAccountToResponse(acc)
	}

	RespondWithPaginatedData(c, 200, responses, params.Page, params.PerPage, int(total))
}

// Update merges the supplied fields into the account. The account type is
// immutable and is not accepted in the request body.
func (h *AccountHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, h.logger, "account")
	if !ok {
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	upd := account.Update{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		IsActive:    req.IsActive,
	}

	acc, err := h.accountService.UpdateAccount(c.Request.Context(), id, upd)
	if err != nil {
		var notFound account.ErrAccountNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Account not found")
			return
		}
		if respondAccountConflict(c, h.logger, err) {
			return
		}
		h.logger.Error("Failed to update account", "id", id.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapAccountToResponse(acc))
}

// Delete removes an account. Accounts referenced by journal line items
// cannot be deleted.
func (h *AccountHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, h.logger, "account")
	if !ok {
		return
	}

	err := h.accountService.DeleteAccount(c.Request.Context(), id)
	if err != nil {
		var notFound account.ErrAccountNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Account not found")
			return
		}
		var referenced account.ErrAccountReferenced
		if errors.As(err, &referenced) {
			RespondConflict(c, "Account is referenced by existing transactions")
			return
		}
		h.logger.Error("Failed to delete account", "id", id.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondNoContent(c)
}

// respondAccountConflict maps uniqueness violations to a 409, reporting
// whether it handled the error
func respondAccountConflict(c *gin.Context, logger *slog.Logger, err error) bool {
	var dupName account.ErrDuplicateName
	if errors.As(err, &dupName) {
		logger.Warn("Duplicate account name", "name", dupName.Name)
		RespondConflict(c, "Account with this name already exists")
		return true
	}
	var dupCode account.ErrDuplicateCode
	if errors.As(err, &dupCode) {
		logger.Warn("Duplicate account code", "code", dupCode.Code)
		RespondConflict(c, "Account with this code already exists")
		return true
	}
	return false
}

// parseIDParam parses the :id path parameter, writing a 400 on failure
func parseIDParam(c *gin.Context, logger *slog.Logger, entity string) (uuid.UUID, bool) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		logger.Error("Invalid "+entity+" ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid "+entity+" ID")
		return uuid.Nil, false
	}
	return id, true
}
