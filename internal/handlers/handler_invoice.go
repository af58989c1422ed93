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

// invoiceHandler handles HTTP requests for customer invoices.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
}

// registerInvoiceRoutes registers routes related to invoices.
func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade) {
	h := &invoiceHandler{invoiceService: invoiceService}

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.createInvoice)
		invoices.GET("", h.listInvoices)
		invoices.GET("/:id", h.getInvoice)
		invoices.PUT("/:id", h.updateInvoice)
		invoices.DELETE("/:id", h.deleteInvoice)
	}
}

// createInvoice godoc
// @Summary Create an invoice
// @Description Creates a draft invoice with server-derived totals, finding or creating the customer contact by name
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   invoice body dto.CreateInvoiceRequest true "Invoice with items"
// @Success 201 {object} dto.InvoiceResponse
// @Failure 400 {object} map[string]string "Invalid input or item values"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Item account not found"
// @Failure 409 {object} map[string]string "Invoice number already in use"
// @Failure 500 {object} map[string]string "Failed to create invoice"
// @Router /invoices [post]
func (h *invoiceHandler) createInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateInvoice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, organizationID, ok := principal(c, logger)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), organizationID, req, userID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to create invoice")
		return
	}

	logger.Info("Invoice created successfully", slog.String("invoice_id", invoice.InvoiceID))
	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(invoice, time.Now().UTC()))
}

// getInvoice godoc
// @Summary Get an invoice by ID
// @Description Retrieves an invoice with its items. Unpaid invoices past their due date read as OVERDUE.
// @Tags invoices
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 500 {object} map[string]string "Failed to retrieve invoice"
// @Router /invoices/{id} [get]
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	invoiceID := c.Param("id")

	_, organizationID, ok := principal(c, logger)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), organizationID, invoiceID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to retrieve invoice")
		return
	}

	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice, time.Now().UTC()))
}

// listInvoices godoc
// @Summary List invoices
// @Description Retrieves a filtered page of invoices without items
// @Tags invoices
// @Produce  json
// @Param   status query string false "Status filter" Enums(DRAFT, SENT, PAID, PARTIALLY_PAID, OVERDUE, CANCELLED)
// @Param   fromDate query string false "Issue date from (YYYY-MM-DD)"
// @Param   toDate query string false "Issue date to (YYYY-MM-DD)"
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {array} dto.InvoiceResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list invoices"
// @Router /invoices [get]
func (h *invoiceHandler) listInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	_, organizationID, ok := principal(c, logger)
	if !ok {
		return
	}

	var params dto.ListInvoicesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListInvoices", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	invoices, err := h.invoiceService.ListInvoices(c.Request.Context(), organizationID, params)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to list invoices")
		return
	}

	c.JSON(http.StatusOK, dto.ToListInvoiceResponse(invoices, time.Now().UTC()))
}

// updateInvoice godoc
// @Summary Update an invoice
// @Description Patches invoice fields, replaces the item set when supplied, and moves status through the transition table
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Param   invoice body dto.UpdateInvoiceRequest true "Fields to update with the current version"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 409 {object} map[string]string "Illegal status transition, immutable items, or stale version"
// @Failure 500 {object} map[string]string "Failed to update invoice"
// @Router /invoices/{id} [put]
func (h *invoiceHandler) updateInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	invoiceID := c.Param("id")

	var req dto.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateInvoice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, organizationID, ok := principal(c, logger)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), organizationID, invoiceID, req, userID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to update invoice")
		return
	}

	logger.Info("Invoice updated successfully", slog.String("invoice_id", invoiceID))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice, time.Now().UTC()))
}

// deleteInvoice godoc
// @Summary Delete an invoice
// @Description Removes an invoice and its items
// @Tags invoices
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 500 {object} map[string]string "Failed to delete invoice"
// @Router /invoices/{id} [delete]
func (h *invoiceHandler) deleteInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	invoiceID := c.Param("id")

	_, organizationID, ok := principal(c, logger)
	if !ok {
		return
	}

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), organizationID, invoiceID); err != nil {
		handleServiceError(c, logger, err, "Failed to delete invoice")
		return
	}

	logger.Info("Invoice deleted", slog.String("invoice_id", invoiceID))
	c.Status(http.StatusNoContent)
}
