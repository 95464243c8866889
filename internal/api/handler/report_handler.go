package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bookkeeping-ledger/internal/api/service"
	"github.com/bookkeeping-ledger/internal/domain/account"
)

// ReportHandler handles HTTP requests for T-accounts and financial statements
type ReportHandler struct {
	reportingService service.ReportingService
	logger           *slog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(logger *slog.Logger, reportingService service.ReportingService) *ReportHandler {
	return &ReportHandler{
		reportingService: reportingService,
		logger:           logger,
	}
}

// TAccount projects one account's journal activity into a T-account view,
// optionally filtered by the reason query parameter
func (h *ReportHandler) TAccount(c *gin.Context) {
	id, ok := parseIDParam(c, h.logger, "account")
	if !ok {
		return
	}

	reason := c.Query("reason")

	view, err := h.reportingService.ProjectAccount(c.Request.Context(), id, reason)
	if err != nil {
		var notFound account.ErrAccountNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Account not found")
			return
		}
		h.logger.Error("Failed to project account", "id", id.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, view)
}

// TAccountsByReason projects every account touched by transactions with the
// given reason. A reason with no matching transactions yields an empty
// list, not a 404.
func (h *ReportHandler) TAccountsByReason(c *gin.Context) {
	reason := c.Param("reason")

	views, err := h.reportingService.ProjectByReason(c.Request.Context(), reason)
	if err != nil {
		h.logger.Error("Failed to project accounts by reason", "reason", reason, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, views)
}

// FinancialStatement aggregates account balances into a statement for the
// requested date range. A range with no journal activity yields all zeros.
func (h *ReportHandler) FinancialStatement(c *gin.Context) {
	start, end, ok := h.parseDateRange(c)
	if !ok {
		return
	}

	stmt, err := h.reportingService.GenerateStatement(c.Request.Context(), start, end)
	if err != nil {
		h.logger.Error("Failed to generate financial statement", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, stmt)
}

// ResultsSummary returns the income-statement slice for the requested range
func (h *ReportHandler) ResultsSummary(c *gin.Context) {
	start, end, ok := h.parseDateRange(c)
	if !ok {
		return
	}

	summary, err := h.reportingService.GenerateSummary(c.Request.Context(), start, end)
	if err != nil {
		h.logger.Error("Failed to generate results summary", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, summary)
}

// parseDateRange reads the required start_date/end_date query parameters as
// RFC3339 timestamps, writing a 400 on failure
func (h *ReportHandler) parseDateRange(c *gin.Context) (time.Time, time.Time, bool) {
	startParam := c.Query("start_date")
	endParam := c.Query("end_date")

	start, err := time.Parse(time.RFC3339, startParam)
	if err != nil {
		h.logger.Error("Invalid start_date", "start_date", startParam, "error", err)
		RespondBadRequest(c, "start_date must be an RFC3339 timestamp")
		return time.Time{}, time.Time{}, false
	}

	end, err := time.Parse(time.RFC3339, endParam)
	if err != nil {
		h.logger.Error("Invalid end_date", "end_date", endParam, "error", err)
		RespondBadRequest(c, "end_date must be an RFC3339 timestamp")
		return time.Time{}, time.Time{}, false
	}

	if end.Before(start) {
		RespondBadRequest(c, "end_date must not be before start_date")
		return time.Time{}, time.Time{}, false
	}

	return start, end, true
}
