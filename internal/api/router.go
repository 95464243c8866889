package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bookkeeping-ledger/internal/api/handler"
	"github.com/bookkeeping-ledger/internal/api/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	accountHandler *handler.AccountHandler,
	transactionHandler *handler.TransactionHandler,
	reportHandler *handler.ReportHandler,
	catalogHandler *handler.CatalogHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Chart of accounts
		accounts := v1.Group("/accounts")
		{
			accounts.POST("", accountHandler.Create)
			accounts.GET("", accountHandler.List)
			accounts.GET("/:id", accountHandler.GetByID)
			accounts.PUT("/:id", accountHandler.Update)
			accounts.DELETE("/:id", accountHandler.Delete)
		}

		// Journal transactions
		transactions := v1.Group("/transactions")
		{
			transactions.POST("", transactionHandler.Create)
			transactions.GET("", transactionHandler.List)
			transactions.GET("/:id", transactionHandler.GetByID)
			transactions.PUT("/:id", transactionHandler.Update)
			transactions.DELETE("/:id", transactionHandler.Delete)
		}

		// T-account projections
		tAccounts := v1.Group("/t-accounts")
		{
			tAccounts.GET("/by-reason/:reason", reportHandler.TAccountsByReason)
			tAccounts.GET("/:id", reportHandler.TAccount)
		}

		// Financial statements
		reports := v1.Group("/reports")
		{
			reports.GET("/financial-statement", reportHandler.FinancialStatement)
			reports.GET("/results-summary", reportHandler.ResultsSummary)
		}

		// Static catalogs
		catalogs := v1.Group("/catalogs")
		{
			catalogs.GET("/account-names", catalogHandler.AccountNames)
			catalogs.GET("/reasons", catalogHandler.Reasons)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
