package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/bookkeeping-ledger/internal/catalog"
)

// CatalogHandler serves the static suggestion catalogs
type CatalogHandler struct{}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// AccountNames returns the predefined account-name suggestions
func (h *CatalogHandler) AccountNames(c *gin.Context) {
	RespondOK(c, catalog.AccountNames())
}

// Reasons returns the predefined transaction-reason suggestions
func (h *CatalogHandler) Reasons(c *gin.Context) {
	RespondOK(c, catalog.Reasons())
}
