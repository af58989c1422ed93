package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/finacore/finacore_backend/internal/core/ports/services"
	"github.com/finacore/finacore_backend/internal/dto"
	"github.com/finacore/finacore_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles HTTP requests for ledger transactions.
type transactionHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// registerTransactionRoutes registers routes related to ledger transactions.
func registerTransactionRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := &transactionHandler{ledgerService: ledgerService}

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.createTransaction)
		transactions.GET("", h.listTransactions)
		transactions.GET("/:id", h.getTransaction)
		transactions.PUT("/:id", h.updateTransaction)
		transactions.PUT("/:id/lines", h.replaceTransactionLines)
		transactions.DELETE("/:id", h.deleteTransaction)
		transactions.POST("/:id/post", h.postTransaction)
		transactions.POST("/:id/void", h.voidTransaction)
	}
}

// createTransaction godoc
// @Summary Create a transaction
// @Description Creates a balanced transaction with its lines atomically. Requesting POSTED status enforces the balance invariant before anything is written. A replayed idempotency key returns the stored transaction.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transaction body dto.CreateTransactionRequest true "Transaction with lines"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input, unbalanced lines, or bad line shape"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Referenced account not found"
// @Failure 500 {object} map[string]string "Failed to create transaction"
// @Router /transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, organizationID, ok := principal(c, logger)
	if !ok {
		return
	}

	txn, err := h.ledgerService.CreateTransaction(c.Request.Context(), organizationID, req, userID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to create transaction")
		return
	}

	logger.Info("Transaction created successfully",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("status", string(txn.Status)))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// getTransaction godoc
// @Summary Get a transaction by ID
// @Description Retrieves a transaction together with its lines
// @Tags transactions
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to retrieve transaction"
// @Router /transactions/{id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	transactionID := c.Param("id")

	_, organizationID, ok := principal(c, logger)
	if !ok {
		return
	}

	txn, err := h.ledgerService.GetTransaction(c.Request.Context(), organizationID, transactionID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to retrieve transaction")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List transactions
// @Description Retrieves a keyset-paginated page of transactions, filterable by date range, status and free-text search
// @Tags transactions
// @Produce  json
// @Param   fromDate query string false "Start date (YYYY-MM-DD)"
// @Param   toDate query string false "End date (YYYY-MM-DD)"
// @Param   status query string false "Status filter" Enums(DRAFT, POSTED, VOIDED)
// @Param   search query string false "Matches description and reference"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Keyset token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters or token"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list transactions"
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	_, organizationID, ok := principal(c, logger)
	if !ok {
		return
	}

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	page, err := h.ledgerService.ListTransactions(c.Request.Context(), organizationID, params)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, page)
}

// updateTransaction godoc
// @Summary Update a transaction's details
// @Description Patches date, description and reference. Line changes go through the lines endpoint.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Param   transaction body dto.UpdateTransactionRequest true "Fields to update with the current version"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Stale version or voided transaction"
// @Failure 500 {object} map[string]string "Failed to update transaction"
// @Router /transactions/{id} [put]
func (h *transactionHandler) updateTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	transactionID := c.Param("id")

	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, organizationID, ok := principal(c, logger)
	if !ok {
		return
	}

	txn, err := h.ledgerService.UpdateTransaction(c.Request.Context(), organizationID, transactionID, req, userID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to update transaction")
		return
	}

	logger.Info("Transaction updated successfully", slog.String("transaction_id", transactionID))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// replaceTransactionLines godoc
// @Summary Replace a draft transaction's lines
// @Description Swaps the entire line set in one atomic write under the same validation as create. Only draft transactions allow line changes.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Param   lines body dto.ReplaceTransactionLinesRequest true "Replacement line set with the current version"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid lines"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Not a draft, or stale version"
// @Failure 500 {object} map[string]string "Failed to replace lines"
// @Router /transactions/{id}/lines [put]
func (h *transactionHandler) replaceTransactionLines(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	transactionID := c.Param("id")

	var req dto.ReplaceTransactionLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ReplaceTransactionLines", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, organizationID, ok := principal(c, logger)
	if !ok {
		return
	}

	txn, err := h.ledgerService.ReplaceTransactionLines(c.Request.Context(), organizationID, transactionID, req, userID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to replace lines")
		return
	}

	logger.Info("Transaction lines replaced", slog.String("transaction_id", transactionID))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// deleteTransaction godoc
// @Summary Delete a transaction
// @Description Removes a transaction and its lines. Hard, cascading and irreversible.
// @Tags transactions
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to delete transaction"
// @Router /transactions/{id} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	transactionID := c.Param("id")

	_, organizationID, ok := principal(c, logger)
	if !ok {
		return
	}

	if err := h.ledgerService.DeleteTransaction(c.Request.Context(), organizationID, transactionID); err != nil {
		handleServiceError(c, logger, err, "Failed to delete transaction")
		return
	}

	logger.Info("Transaction deleted", slog.String("transaction_id", transactionID))
	c.Status(http.StatusNoContent)
}

// postTransaction godoc
// @Summary Post a draft transaction
// @Description Moves a DRAFT transaction to POSTED after re-validating the balance invariant
// @Tags transactions
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Unbalanced transaction"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Illegal status transition"
// @Failure 500 {object} map[string]string "Failed to post transaction"
// @Router /transactions/{id}/post [post]
func (h *transactionHandler) postTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	transactionID := c.Param("id")

	userID, organizationID, ok := principal(c, logger)
	if !ok {
		return
	}

	txn, err := h.ledgerService.PostTransaction(c.Request.Context(), organizationID, transactionID, userID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to post transaction")
		return
	}

	logger.Info("Transaction posted", slog.String("transaction_id", transactionID))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// voidTransaction godoc
// @Summary Void a transaction
// @Description Moves a DRAFT or POSTED transaction to the terminal VOIDED status. Voided lines stop counting toward balances.
// @Tags transactions
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Already voided"
// @Failure 500 {object} map[string]string "Failed to void transaction"
// @Router /transactions/{id}/void [post]
func (h *transactionHandler) voidTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	transactionID := c.Param("id")

	userID, organizationID, ok := principal(c, logger)
	if !ok {
		return
	}

	txn, err := h.ledgerService.VoidTransaction(c.Request.Context(), organizationID, transactionID, userID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to void transaction")
		return
	}

	logger.Info("Transaction voided", slog.String("transaction_id", transactionID))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}
