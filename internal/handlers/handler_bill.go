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

// billHandler handles HTTP requests for vendor bills.
type billHandler struct {
	billService portssvc.BillSvcFacade
}

// registerBillRoutes registers routes related to bills.
func registerBillRoutes(rg *gin.RouterGroup, billService portssvc.BillSvcFacade) {
	h := &billHandler{billService: billService}

	bills := rg.Group("/bills")
	{
		bills.POST("", h.createBill)
		bills.GET("", h.listBills)
		bills.GET("/:id", h.getBill)
		bills.PUT("/:id", h.updateBill)
		bills.DELETE("/:id", h.deleteBill)
	}
}

// createBill godoc
// @Summary Create a bill
// @Description Creates a draft vendor bill with server-derived totals, finding or creating the vendor contact by name
// @Tags bills
// @Accept  json
// @Produce  json
// @Param   bill body dto.CreateBillRequest true "Bill with items"
// @Success 201 {object} dto.BillResponse
// @Failure 400 {object} map[string]string "Invalid input or item values"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Item account not found"
// @Failure 409 {object} map[string]string "Bill number already in use"
// @Failure 500 {object} map[string]string "Failed to create bill"
// @Router /bills [post]
func (h *billHandler) createBill(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var req dto.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateBill", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, organizationID, ok := principal(c, logger)
	if !ok {
		return
	}

	bill, err := h.billService.CreateBill(c.Request.Context(), organizationID, req, userID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to create bill")
		return
	}

	logger.Info("Bill created successfully", slog.String("bill_id", bill.BillID))
	c.JSON(http.StatusCreated, dto.ToBillResponse(bill, time.Now().UTC()))
}

// getBill godoc
// @Summary Get a bill by ID
// @Description Retrieves a bill with its items. Unpaid bills past their due date read as OVERDUE.
// @Tags bills
// @Produce  json
// @Param   id path string true "Bill ID"
// @Success 200 {object} dto.BillResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Bill not found"
// @Failure 500 {object} map[string]string "Failed to retrieve bill"
// @Router /bills/{id} [get]
func (h *billHandler) getBill(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	billID := c.Param("id")

	_, organizationID, ok := principal(c, logger)
	if !ok {
		return
	}

	bill, err := h.billService.GetBill(c.Request.Context(), organizationID, billID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to retrieve bill")
		return
	}

	c.JSON(http.StatusOK, dto.ToBillResponse(bill, time.Now().UTC()))
}

// listBills godoc
// @Summary List bills
// @Description Retrieves a filtered page of bills without items
// @Tags bills
// @Produce  json
// @Param   status query string false "Status filter" Enums(DRAFT, PENDING, PAID, PARTIALLY_PAID, OVERDUE, CANCELLED)
// @Param   fromDate query string false "Issue date from (YYYY-MM-DD)"
// @Param   toDate query string false "Issue date to (YYYY-MM-DD)"
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {array} dto.BillResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list bills"
// @Router /bills [get]
func (h *billHandler) listBills(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	_, organizationID, ok := principal(c, logger)
	if !ok {
		return
	}

	var params dto.ListBillsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListBills", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	bills, err := h.billService.ListBills(c.Request.Context(), organizationID, params)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to list bills")
		return
	}

	c.JSON(http.StatusOK, dto.ToListBillResponse(bills, time.Now().UTC()))
}

// updateBill godoc
// @Summary Update a bill
// @Description Patches bill fields, replaces the item set when supplied, and moves status through the transition table
// @Tags bills
// @Accept  json
// @Produce  json
// @Param   id path string true "Bill ID"
// @Param   bill body dto.UpdateBillRequest true "Fields to update with the current version"
// @Success 200 {object} dto.BillResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Bill not found"
// @Failure 409 {object} map[string]string "Illegal status transition, immutable items, or stale version"
// @Failure 500 {object} map[string]string "Failed to update bill"
// @Router /bills/{id} [put]
func (h *billHandler) updateBill(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	billID := c.Param("id")

	var req dto.UpdateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateBill", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, organizationID, ok := principal(c, logger)
	if !ok {
		return
	}

	bill, err := h.billService.UpdateBill(c.Request.Context(), organizationID, billID, req, userID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to update bill")
		return
	}

	logger.Info("Bill updated successfully", slog.String("bill_id", billID))
	c.JSON(http.StatusOK, dto.ToBillResponse(bill, time.Now().UTC()))
}

// deleteBill godoc
// @Summary Delete a bill
// @Description Removes a bill and its items
// @Tags bills
// @Produce  json
// @Param   id path string true "Bill ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Bill not found"
// @Failure 500 {object} map[string]string "Failed to delete bill"
// @Router /bills/{id} [delete]
func (h *billHandler) deleteBill(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	billID := c.Param("id")

	_, organizationID, ok := principal(c, logger)
	if !ok {
		return
	}

	if err := h.billService.DeleteBill(c.Request.Context(), organizationID, billID); err != nil {
		handleServiceError(c, logger, err, "Failed to delete bill")
		return
	}

	logger.Info("Bill deleted", slog.String("bill_id", billID))
	c.Status(http.StatusNoContent)
}
