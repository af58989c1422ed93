package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/finacore/finacore_backend/internal/core/ports/services"
	"github.com/finacore/finacore_backend/internal/dto"
	"github.com/finacore/finacore_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to the chart of accounts.
type accountHandler struct {
	accountService    portssvc.AccountSvcFacade
	adjustmentService portssvc.BalanceAdjustmentSvcFacade
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, adjustmentService portssvc.BalanceAdjustmentSvcFacade) {
	h := &accountHandler{
		accountService:    accountService,
		adjustmentService: adjustmentService,
	}

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:id", h.getAccount)
		accounts.PUT("/:id", h.updateAccount)
		accounts.DELETE("/:id", h.deleteAccount)
		accounts.GET("/:id/balance", h.getAccountBalance)
		accounts.POST("/:id/adjust-balance", h.adjustAccountBalance)
	}
}

// createAccount godoc
// @Summary Create a new account
// @Description Creates a new account in the organization's chart of accounts
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Account code already in use"
// @Failure 500 {object} map[string]string "Failed to create account"
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, organizationID, ok := principal(c, logger)
	if !ok {
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), organizationID, req, userID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to create account")
		return
	}

	logger.Info("Account created successfully", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// getAccount godoc
// @Summary Get an account by ID
// @Description Retrieves details for a specific account
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve account"
// @Router /accounts/{id} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	accountID := c.Param("id")

	_, organizationID, ok := principal(c, logger)
	if !ok {
		return
	}

	account, err := h.accountService.GetAccountByID(c.Request.Context(), organizationID, accountID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to retrieve account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List accounts
// @Description Retrieves the organization's chart of accounts ordered by code
// @Tags accounts
// @Produce  json
// @Param   limit query int false "Limit number of results" default(50)
// @Param   offset query int false "Offset for pagination" default(0)
// @Param   includeArchived query bool false "Include archived accounts"
// @Success 200 {array} dto.AccountResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list accounts"
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	_, organizationID, ok := principal(c, logger)
	if !ok {
		return
	}

	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListAccounts", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), organizationID, params)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to list accounts")
		return
	}

	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// updateAccount godoc
// @Summary Update an account
// @Description Updates an account's mutable details
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID to update"
// @Param   account body dto.UpdateAccountRequest true "Account details to update"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to update account"
// @Router /accounts/{id} [put]
func (h *accountHandler) updateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	accountID := c.Param("id")

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, organizationID, ok := principal(c, logger)
	if !ok {
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), organizationID, accountID, req, userID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to update account")
		return
	}

	logger.Info("Account updated successfully", slog.String("account_id", accountID))
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// deleteAccount godoc
// @Summary Delete an account
// @Description Archives the account when transaction lines reference it, otherwise removes it entirely. Repeat calls succeed.
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID to delete"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to delete account"
// @Router /accounts/{id} [delete]
func (h *accountHandler) deleteAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	accountID := c.Param("id")

	userID, organizationID, ok := principal(c, logger)
	if !ok {
		return
	}

	if err := h.accountService.DeleteAccount(c.Request.Context(), organizationID, accountID, userID); err != nil {
		handleServiceError(c, logger, err, "Failed to delete account")
		return
	}

	logger.Info("Account deleted successfully", slog.String("account_id", accountID))
	c.Status(http.StatusNoContent)
}

// getAccountBalance godoc
// @Summary Get account balance
// @Description Derives the account balance from posted transaction lines using the account-type sign convention
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to calculate balance"
// @Router /accounts/{id}/balance [get]
func (h *accountHandler) getAccountBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	accountID := c.Param("id")

	_, organizationID, ok := principal(c, logger)
	if !ok {
		return
	}

	balance, err := h.accountService.GetBalance(c.Request.Context(), organizationID, accountID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to calculate balance")
		return
	}

	c.JSON(http.StatusOK, dto.AccountBalanceResponse{
		AccountID: accountID,
		Balance:   balance,
		AsOf:      time.Now().UTC(),
	})
}

// adjustAccountBalance godoc
// @Summary Adjust an account balance
// @Description Brings the account's derived balance to the target value by posting a balancing transaction against the adjustment equity account
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   adjustment body dto.AdjustBalanceRequest true "Target balance"
// @Success 201 {object} dto.TransactionResponse
// @Success 204 "No Content (balance already at target)"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to adjust balance"
// @Router /accounts/{id}/adjust-balance [post]
func (h *accountHandler) adjustAccountBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	accountID := c.Param("id")

	var req dto.AdjustBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AdjustAccountBalance", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, organizationID, ok := principal(c, logger)
	if !ok {
		return
	}

	txn, err := h.adjustmentService.AdjustAccountBalance(c.Request.Context(), organizationID, accountID, req.TargetBalance, req.Memo, userID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to adjust balance")
		return
	}
	if txn == nil {
		// Balance already matched the target; nothing was posted.
		c.Status(http.StatusNoContent)
		return
	}

	logger.Info("Balance adjustment posted", slog.String("account_id", accountID), slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}
