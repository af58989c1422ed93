package services

import (
	"context"

	"github.com/finacore/finacore_backend/internal/core/domain"
	"github.com/finacore/finacore_backend/internal/dto"
	"github.com/finacore/finacore_backend/internal/utils/payroll"
	"github.com/shopspring/decimal"
)

// ExportFormat names a payroll export serialization.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportPDF  ExportFormat = "pdf"
	ExportJSON ExportFormat = "json"
)

// PayrollExport is a rendered read-only export of a run.
type PayrollExport struct {
	ContentType string
	Filename    string
	Data        []byte
}

// PayrollSvcFacade manages payroll runs and items. Run aggregates are derived
// from items and re-persisted on every item write.
type PayrollSvcFacade interface {
	// CreatePayrollRun opens a new draft run.
	CreatePayrollRun(ctx context.Context, organizationID string, req dto.CreatePayrollRunRequest, userID string) (*domain.PayrollRun, error)

	// GetPayrollRun retrieves a run, optionally with its items.
	GetPayrollRun(ctx context.Context, organizationID, runID string, withItems bool) (*domain.PayrollRun, error)

	// ListPayrollRuns retrieves a filtered page of runs and the total count.
	ListPayrollRuns(ctx context.Context, organizationID string, params dto.ListPayrollRunsParams) ([]domain.PayrollRun, int, error)

	// UpdatePayrollRun patches a draft run's descriptive fields.
	UpdatePayrollRun(ctx context.Context, organizationID, runID string, req dto.UpdatePayrollRunRequest, userID string) (*domain.PayrollRun, error)

	// DeletePayrollRun removes a draft or cancelled run and its items.
	DeletePayrollRun(ctx context.Context, organizationID, runID string) error

	// ProcessPayrollRun moves DRAFT to PROCESSING and recalculates every
	// item, then the run aggregates.
	ProcessPayrollRun(ctx context.Context, organizationID, runID string, userID string) (*domain.PayrollRun, error)

	// FinalizePayrollRun moves PROCESSING to COMPLETED; items become
	// immutable and are marked PROCESSED.
	FinalizePayrollRun(ctx context.Context, organizationID, runID string, userID string) (*domain.PayrollRun, error)

	// CancelPayrollRun moves DRAFT to the terminal CANCELLED status.
	CancelPayrollRun(ctx context.Context, organizationID, runID string, userID string) (*domain.PayrollRun, error)

	// ExportPayrollRun serializes a run read-only to csv, pdf or json.
	ExportPayrollRun(ctx context.Context, organizationID, runID string, format ExportFormat) (*PayrollExport, error)

	// CreatePayrollItem adds an item to a draft run, deriving gross, taxes
	// and net, and re-aggregates the run in the same write.
	CreatePayrollItem(ctx context.Context, organizationID, runID string, req dto.CreatePayrollItemRequest, userID string) (*domain.PayrollItem, error)

	// GetPayrollItem retrieves one item.
	GetPayrollItem(ctx context.Context, organizationID, itemID string) (*domain.PayrollItem, error)

	// GetItemsByRunID retrieves all items of a run.
	GetItemsByRunID(ctx context.Context, organizationID, runID string) ([]domain.PayrollItem, error)

	// UpdatePayrollItem patches an item of a draft run and re-aggregates.
	UpdatePayrollItem(ctx context.Context, organizationID, itemID string, req dto.UpdatePayrollItemRequest, userID string) (*domain.PayrollItem, error)

	// DeletePayrollItem removes an item of a draft run and re-aggregates.
	DeletePayrollItem(ctx context.Context, organizationID, itemID string, userID string) error

	// RecalculatePayrollItem idempotently re-derives tax, deduction and net
	// fields from the item's current gross inputs, then re-aggregates.
	RecalculatePayrollItem(ctx context.Context, organizationID, itemID string, userID string) (*domain.PayrollItem, error)

	// RecalculatePayrollRun re-aggregates the run totals from current items.
	RecalculatePayrollRun(ctx context.Context, organizationID, runID string, userID string) (*domain.PayrollRun, error)

	// ImportPayrollItems imports rows best-effort; a bad row does not abort
	// the batch.
	ImportPayrollItems(ctx context.Context, organizationID, runID string, req dto.ImportPayrollItemsRequest, userID string) (*dto.ImportPayrollItemsResponse, error)

	// CalculateTaxes exposes the pure flat-rate tax computation.
	CalculateTaxes(gross decimal.Decimal) payroll.TaxBreakdown
}
