package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	portssvc "github.com/finacore/finacore_backend/internal/core/ports/services"
	"github.com/finacore/finacore_backend/internal/dto"
	"github.com/finacore/finacore_backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// payrollHandler handles HTTP requests for payroll runs and items.
type payrollHandler struct {
	payrollService portssvc.PayrollSvcFacade
}

// registerPayrollRoutes registers routes related to payroll.
func registerPayrollRoutes(rg *gin.RouterGroup, payrollService portssvc.PayrollSvcFacade) {
	h := &payrollHandler{payrollService: payrollService}

	runs := rg.Group("/payroll-runs")
	{
		runs.POST("", h.createPayrollRun)
		runs.GET("", h.listPayrollRuns)
		runs.GET("/:id", h.getPayrollRun)
		runs.PUT("/:id", h.updatePayrollRun)
		runs.DELETE("/:id", h.deletePayrollRun)
		runs.POST("/:id/process", h.processPayrollRun)
		runs.POST("/:id/finalize", h.finalizePayrollRun)
		runs.POST("/:id/cancel", h.cancelPayrollRun)
		runs.POST("/:id/recalculate", h.recalculatePayrollRun)
		runs.GET("/:id/export", h.exportPayrollRun)
		runs.POST("/:id/items", h.createPayrollItem)
		runs.GET("/:id/items", h.listPayrollItems)
		runs.POST("/:id/items/import", h.importPayrollItems)
	}

	items := rg.Group("/payroll-items")
	{
		items.GET("/:id", h.getPayrollItem)
		items.PUT("/:id", h.updatePayrollItem)
		items.DELETE("/:id", h.deletePayrollItem)
		items.POST("/:id/recalculate", h.recalculatePayrollItem)
	}

	rg.GET("/payroll/tax-preview", h.taxPreview)
}

// createPayrollRun godoc
// @Summary Create a payroll run
// @Description Opens a new draft payroll run with zeroed aggregates
// @Tags payroll
// @Accept  json
// @Produce  json
// @Param   run body dto.CreatePayrollRunRequest true "Run name, period and pay date"
// @Success 201 {object} dto.PayrollRunResponse
// @Failure 400 {object} map[string]string "Invalid input or period"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create payroll run"
// @Router /payroll-runs [post]
func (h *payrollHandler) createPayrollRun(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var req dto.CreatePayrollRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePayrollRun", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, organizationID, ok := principal(c, logger)
	if !ok {
		return
	}

	run, err := h.payrollService.CreatePayrollRun(c.Request.Context(), organizationID, req, userID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to create payroll run")
		return
	}

	logger.Info("Payroll run created successfully", slog.String("run_id", run.RunID))
	c.JSON(http.StatusCreated, dto.ToPayrollRunResponse(run))
}

// getPayrollRun godoc
// @Summary Get a payroll run by ID
// @Description Retrieves a payroll run, optionally with its items
// @Tags payroll
// @Produce  json
// @Param   id path string true "Run ID"
// @Param   withItems query bool false "Include the run's items" default(false)
// @Success 200 {object} dto.PayrollRunResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Run not found"
// @Failure 500 {object} map[string]string "Failed to retrieve payroll run"
// @Router /payroll-runs/{id} [get]
func (h *payrollHandler) getPayrollRun(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	runID := c.Param("id")
	withItems, _ := strconv.ParseBool(c.DefaultQuery("withItems", "false"))

	_, organizationID, ok := principal(c, logger)
	if !ok {
		return
	}

	run, err := h.payrollService.GetPayrollRun(c.Request.Context(), organizationID, runID, withItems)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to retrieve payroll run")
		return
	}

	c.JSON(http.StatusOK, dto.ToPayrollRunResponse(run))
}

// listPayrollRuns godoc
// @Summary List payroll runs
// @Description Retrieves a filtered page of payroll runs without items
// @Tags payroll
// @Produce  json
// @Param   status query string false "Status filter" Enums(DRAFT, PROCESSING, COMPLETED, ERROR, CANCELLED)
// @Param   page query int false "Page number" default(1)
// @Param   limit query int false "Page size" default(20)
// @Success 200 {object} dto.ListPayrollRunsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list payroll runs"
// @Router /payroll-runs [get]
func (h *payrollHandler) listPayrollRuns(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	_, organizationID, ok := principal(c, logger)
	if !ok {
		return
	}

	var params dto.ListPayrollRunsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListPayrollRuns", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	runs, total, err := h.payrollService.ListPayrollRuns(c.Request.Context(), organizationID, params)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to list payroll runs")
		return
	}

	resp := dto.ListPayrollRunsResponse{
		Runs:  make([]dto.PayrollRunResponse, 0, len(runs)),
		Page:  params.Page,
		Limit: params.Limit,
		Total: total,
	}
	for i := range runs {
		resp.Runs = append(resp.Runs, dto.ToPayrollRunResponse(&runs[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// updatePayrollRun godoc
// @Summary Update a payroll run
// @Description Patches a draft run's name, period or pay date
// @Tags payroll
// @Accept  json
// @Produce  json
// @Param   id path string true "Run ID"
// @Param   run body dto.UpdatePayrollRunRequest true "Fields to update with the current version"
// @Success 200 {object} dto.PayrollRunResponse
// @Failure 400 {object} map[string]string "Invalid input or period"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Run not found"
// @Failure 409 {object} map[string]string "Run is not a draft or stale version"
// @Failure 500 {object} map[string]string "Failed to update payroll run"
// @Router /payroll-runs/{id} [put]
func (h *payrollHandler) updatePayrollRun(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	runID := c.Param("id")

	var req dto.UpdatePayrollRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdatePayrollRun", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, organizationID, ok := principal(c, logger)
	if !ok {
		return
	}

	run, err := h.payrollService.UpdatePayrollRun(c.Request.Context(), organizationID, runID, req, userID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to update payroll run")
		return
	}

	logger.Info("Payroll run updated successfully", slog.String("run_id", runID))
	c.JSON(http.StatusOK, dto.ToPayrollRunResponse(run))
}

// deletePayrollRun godoc
// @Summary Delete a payroll run
// @Description Removes a draft or cancelled run and its items
// @Tags payroll
// @Produce  json
// @Param   id path string true "Run ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Run not found"
// @Failure 409 {object} map[string]string "Run is not deletable in its current status"
// @Failure 500 {object} map[string]string "Failed to delete payroll run"
// @Router /payroll-runs/{id} [delete]
func (h *payrollHandler) deletePayrollRun(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	runID := c.Param("id")

	_, organizationID, ok := principal(c, logger)
	if !ok {
		return
	}

	if err := h.payrollService.DeletePayrollRun(c.Request.Context(), organizationID, runID); err != nil {
		handleServiceError(c, logger, err, "Failed to delete payroll run")
		return
	}

	logger.Info("Payroll run deleted", slog.String("run_id", runID))
	c.Status(http.StatusNoContent)
}

// processPayrollRun godoc
// @Summary Process a payroll run
// @Description Moves a draft run to PROCESSING, recalculating every item and the run aggregates
// @Tags payroll
// @Produce  json
// @Param   id path string true "Run ID"
// @Success 200 {object} dto.PayrollRunResponse
// @Failure 400 {object} map[string]string "Run has no items"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Run not found"
// @Failure 409 {object} map[string]string "Run is not a draft"
// @Failure 500 {object} map[string]string "Failed to process payroll run"
// @Router /payroll-runs/{id}/process [post]
func (h *payrollHandler) processPayrollRun(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	runID := c.Param("id")

	userID, organizationID, ok := principal(c, logger)
	if !ok {
		return
	}

	run, err := h.payrollService.ProcessPayrollRun(c.Request.Context(), organizationID, runID, userID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to process payroll run")
		return
	}

	logger.Info("Payroll run processed", slog.String("run_id", runID), slog.String("status", string(run.Status)))
	c.JSON(http.StatusOK, dto.ToPayrollRunResponse(run))
}

// finalizePayrollRun godoc
// @Summary Finalize a payroll run
// @Description Moves a processing run to COMPLETED and marks its items PROCESSED
// @Tags payroll
// @Produce  json
// @Param   id path string true "Run ID"
// @Success 200 {object} dto.PayrollRunResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Run not found"
// @Failure 409 {object} map[string]string "Run is not processing"
// @Failure 500 {object} map[string]string "Failed to finalize payroll run"
// @Router /payroll-runs/{id}/finalize [post]
func (h *payrollHandler) finalizePayrollRun(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	runID := c.Param("id")

	userID, organizationID, ok := principal(c, logger)
	if !ok {
		return
	}

	run, err := h.payrollService.FinalizePayrollRun(c.Request.Context(), organizationID, runID, userID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to finalize payroll run")
		return
	}

	logger.Info("Payroll run finalized", slog.String("run_id", runID))
	c.JSON(http.StatusOK, dto.ToPayrollRunResponse(run))
}

// cancelPayrollRun godoc
// @Summary Cancel a payroll run
// @Description Moves a draft run to the terminal CANCELLED status
// @Tags payroll
// @Produce  json
// @Param   id path string true "Run ID"
// @Success 200 {object} dto.PayrollRunResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Run not found"
// @Failure 409 {object} map[string]string "Run cannot be cancelled in its current status"
// @Failure 500 {object} map[string]string "Failed to cancel payroll run"
// @Router /payroll-runs/{id}/cancel [post]
func (h *payrollHandler) cancelPayrollRun(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	runID := c.Param("id")

	userID, organizationID, ok := principal(c, logger)
	if !ok {
		return
	}

	run, err := h.payrollService.CancelPayrollRun(c.Request.Context(), organizationID, runID, userID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to cancel payroll run")
		return
	}

	logger.Info("Payroll run cancelled", slog.String("run_id", runID))
	c.JSON(http.StatusOK, dto.ToPayrollRunResponse(run))
}

// recalculatePayrollRun godoc
// @Summary Recalculate a payroll run's aggregates
// @Description Re-derives the run totals from its current items
// @Tags payroll
// @Produce  json
// @Param   id path string true "Run ID"
// @Success 200 {object} dto.PayrollRunResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Run not found"
// @Failure 409 {object} map[string]string "Run is completed or cancelled"
// @Failure 500 {object} map[string]string "Failed to recalculate payroll run"
// @Router /payroll-runs/{id}/recalculate [post]
func (h *payrollHandler) recalculatePayrollRun(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	runID := c.Param("id")

	userID, organizationID, ok := principal(c, logger)
	if !ok {
		return
	}

	run, err := h.payrollService.RecalculatePayrollRun(c.Request.Context(), organizationID, runID, userID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to recalculate payroll run")
		return
	}

	c.JSON(http.StatusOK, dto.ToPayrollRunResponse(run))
}

// exportPayrollRun godoc
// @Summary Export a payroll run
// @Description Serializes a run and its items to csv, pdf or json
// @Tags payroll
// @Produce  octet-stream
// @Param   id path string true "Run ID"
// @Param   format query string false "Export format" Enums(csv, pdf, json) default(csv)
// @Success 200 {file} file
// @Failure 400 {object} map[string]string "Unsupported format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Run not found"
// @Failure 500 {object} map[string]string "Failed to export payroll run"
// @Router /payroll-runs/{id}/export [get]
func (h *payrollHandler) exportPayrollRun(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	runID := c.Param("id")
	format := portssvc.ExportFormat(c.DefaultQuery("format", "csv"))

	_, organizationID, ok := principal(c, logger)
	if !ok {
		return
	}

	export, err := h.payrollService.ExportPayrollRun(c.Request.Context(), organizationID, runID, format)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to export payroll run")
		return
	}

	logger.Info("Payroll run exported", slog.String("run_id", runID), slog.String("format", string(format)))
	c.Header("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	c.Data(http.StatusOK, export.ContentType, export.Data)
}

// createPayrollItem godoc
// @Summary Add an item to a payroll run
// @Description Adds an employee's pay item to a draft run, deriving gross, taxes and net pay
// @Tags payroll
// @Accept  json
// @Produce  json
// @Param   id path string true "Run ID"
// @Param   item body dto.CreatePayrollItemRequest true "Employee pay inputs"
// @Success 201 {object} dto.PayrollItemResponse
// @Failure 400 {object} map[string]string "Invalid pay inputs"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Run not found"
// @Failure 409 {object} map[string]string "Run items are frozen"
// @Failure 500 {object} map[string]string "Failed to create payroll item"
// @Router /payroll-runs/{id}/items [post]
func (h *payrollHandler) createPayrollItem(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	runID := c.Param("id")

	var req dto.CreatePayrollItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePayrollItem", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, organizationID, ok := principal(c, logger)
	if !ok {
		return
	}

	item, err := h.payrollService.CreatePayrollItem(c.Request.Context(), organizationID, runID, req, userID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to create payroll item")
		return
	}

	logger.Info("Payroll item created successfully", slog.String("item_id", item.ItemID))
	c.JSON(http.StatusCreated, dto.ToPayrollItemResponse(item))
}

// listPayrollItems godoc
// @Summary List a run's items
// @Description Retrieves all items of a payroll run ordered by employee name
// @Tags payroll
// @Produce  json
// @Param   id path string true "Run ID"
// @Success 200 {array} dto.PayrollItemResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Run not found"
// @Failure 500 {object} map[string]string "Failed to list payroll items"
// @Router /payroll-runs/{id}/items [get]
func (h *payrollHandler) listPayrollItems(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	runID := c.Param("id")

	_, organizationID, ok := principal(c, logger)
	if !ok {
		return
	}

	items, err := h.payrollService.GetItemsByRunID(c.Request.Context(), organizationID, runID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to list payroll items")
		return
	}

	resp := make([]dto.PayrollItemResponse, 0, len(items))
	for i := range items {
		resp = append(resp, dto.ToPayrollItemResponse(&items[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// importPayrollItems godoc
// @Summary Import payroll items in bulk
// @Description Imports item rows best-effort into a draft run; bad rows are reported without aborting the batch
// @Tags payroll
// @Accept  json
// @Produce  json
// @Param   id path string true "Run ID"
// @Param   rows body dto.ImportPayrollItemsRequest true "Item rows to import"
// @Success 200 {object} dto.ImportPayrollItemsResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Run not found"
// @Failure 409 {object} map[string]string "Run items are frozen"
// @Failure 500 {object} map[string]string "Failed to import payroll items"
// @Router /payroll-runs/{id}/items/import [post]
func (h *payrollHandler) importPayrollItems(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	runID := c.Param("id")

	var req dto.ImportPayrollItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ImportPayrollItems", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, organizationID, ok := principal(c, logger)
	if !ok {
		return
	}

	result, err := h.payrollService.ImportPayrollItems(c.Request.Context(), organizationID, runID, req, userID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to import payroll items")
		return
	}

	logger.Info("Payroll items imported",
		slog.String("run_id", runID),
		slog.Int("imported", result.Imported),
		slog.Int("failed", len(result.Errors)))
	c.JSON(http.StatusOK, result)
}

// getPayrollItem godoc
// @Summary Get a payroll item by ID
// @Tags payroll
// @Produce  json
// @Param   id path string true "Item ID"
// @Success 200 {object} dto.PayrollItemResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Item not found"
// @Failure 500 {object} map[string]string "Failed to retrieve payroll item"
// @Router /payroll-items/{id} [get]
func (h *payrollHandler) getPayrollItem(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	itemID := c.Param("id")

	_, organizationID, ok := principal(c, logger)
	if !ok {
		return
	}

	item, err := h.payrollService.GetPayrollItem(c.Request.Context(), organizationID, itemID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to retrieve payroll item")
		return
	}

	c.JSON(http.StatusOK, dto.ToPayrollItemResponse(item))
}

// updatePayrollItem godoc
// @Summary Update a payroll item
// @Description Patches an item of a draft run, re-deriving its pay and the run aggregates
// @Tags payroll
// @Accept  json
// @Produce  json
// @Param   id path string true "Item ID"
// @Param   item body dto.UpdatePayrollItemRequest true "Fields to update"
// @Success 200 {object} dto.PayrollItemResponse
// @Failure 400 {object} map[string]string "Invalid pay inputs"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Item not found"
// @Failure 409 {object} map[string]string "Run items are frozen"
// @Failure 500 {object} map[string]string "Failed to update payroll item"
// @Router /payroll-items/{id} [put]
func (h *payrollHandler) updatePayrollItem(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	itemID := c.Param("id")

	var req dto.UpdatePayrollItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdatePayrollItem", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, organizationID, ok := principal(c, logger)
	if !ok {
		return
	}

	item, err := h.payrollService.UpdatePayrollItem(c.Request.Context(), organizationID, itemID, req, userID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to update payroll item")
		return
	}

	logger.Info("Payroll item updated successfully", slog.String("item_id", itemID))
	c.JSON(http.StatusOK, dto.ToPayrollItemResponse(item))
}

// deletePayrollItem godoc
// @Summary Delete a payroll item
// @Description Removes an item from a draft run and re-aggregates the run
// @Tags payroll
// @Produce  json
// @Param   id path string true "Item ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Item not found"
// @Failure 409 {object} map[string]string "Run items are frozen"
// @Failure 500 {object} map[string]string "Failed to delete payroll item"
// @Router /payroll-items/{id} [delete]
func (h *payrollHandler) deletePayrollItem(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	itemID := c.Param("id")

	userID, organizationID, ok := principal(c, logger)
	if !ok {
		return
	}

	if err := h.payrollService.DeletePayrollItem(c.Request.Context(), organizationID, itemID, userID); err != nil {
		handleServiceError(c, logger, err, "Failed to delete payroll item")
		return
	}

	logger.Info("Payroll item deleted", slog.String("item_id", itemID))
	c.Status(http.StatusNoContent)
}

// recalculatePayrollItem godoc
// @Summary Recalculate a payroll item
// @Description Re-derives tax, deduction and net fields from the item's current gross inputs
// @Tags payroll
// @Produce  json
// @Param   id path string true "Item ID"
// @Success 200 {object} dto.PayrollItemResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Item not found"
// @Failure 409 {object} map[string]string "Run items are frozen"
// @Failure 500 {object} map[string]string "Failed to recalculate payroll item"
// @Router /payroll-items/{id}/recalculate [post]
func (h *payrollHandler) recalculatePayrollItem(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	itemID := c.Param("id")

	userID, organizationID, ok := principal(c, logger)
	if !ok {
		return
	}

	item, err := h.payrollService.RecalculatePayrollItem(c.Request.Context(), organizationID, itemID, userID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to recalculate payroll item")
		return
	}

	c.JSON(http.StatusOK, dto.ToPayrollItemResponse(item))
}

// taxPreview godoc
// @Summary Preview the tax breakdown for a gross amount
// @Description Computes the flat-rate tax components for a gross amount without touching any run
// @Tags payroll
// @Produce  json
// @Param   gross query string true "Gross amount" example(1000.00)
// @Success 200 {object} dto.TaxBreakdownResponse
// @Failure 400 {object} map[string]string "Invalid gross amount"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /payroll/tax-preview [get]
func (h *payrollHandler) taxPreview(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	_, _, ok := principal(c, logger)
	if !ok {
		return
	}

	gross, err := decimal.NewFromString(c.Query("gross"))
	if err != nil || gross.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "gross must be a non-negative decimal amount"})
		return
	}

	c.JSON(http.StatusOK, dto.TaxBreakdownResponse{
		GrossAmount:  gross,
		TaxBreakdown: h.payrollService.CalculateTaxes(gross),
	})
}
