package repositories

import (
	"context"

	"github.com/finacore/finacore_backend/internal/core/domain"
)

// ListPayrollRunsFilter narrows a payroll-run listing.
type ListPayrollRunsFilter struct {
	Status *domain.PayrollRunStatus
	Limit  int
	Offset int
}

// PayrollRunReader defines read operations for payroll runs.
type PayrollRunReader interface {
	// FindPayrollRunByID retrieves a run without its items.
	FindPayrollRunByID(ctx context.Context, runID string) (*domain.PayrollRun, error)

	// ListPayrollRuns retrieves a filtered page of runs and the unfiltered
	// page-independent total for the filter.
	ListPayrollRuns(ctx context.Context, organizationID string, filter ListPayrollRunsFilter) ([]domain.PayrollRun, int, error)
}

// PayrollRunWriter defines write operations for payroll runs.
type PayrollRunWriter interface {
	// SavePayrollRun persists a new run.
	SavePayrollRun(ctx context.Context, run domain.PayrollRun) error

	// UpdatePayrollRun updates a run guarded by the version check.
	UpdatePayrollRun(ctx context.Context, run domain.PayrollRun) error

	// DeletePayrollRun removes a run and cascades to its items.
	DeletePayrollRun(ctx context.Context, runID string) error
}

// PayrollItemReader defines read operations for payroll items.
type PayrollItemReader interface {
	// FindPayrollItemByID retrieves one item.
	FindPayrollItemByID(ctx context.Context, itemID string) (*domain.PayrollItem, error)

	// FindItemsByRunID retrieves all items of a run.
	FindItemsByRunID(ctx context.Context, runID string) ([]domain.PayrollItem, error)
}

// PayrollItemWriter mutates items. Every item write also persists the run's
// re-derived aggregate totals in the same database transaction, so the run
// and its items can never be observed out of step.
type PayrollItemWriter interface {
	// SavePayrollItem inserts an item and updates the run totals atomically.
	SavePayrollItem(ctx context.Context, item domain.PayrollItem, runTotals domain.PayrollRun) error

	// SavePayrollItems inserts a batch of items and updates the run totals
	// atomically. Used by import after per-row validation.
	SavePayrollItems(ctx context.Context, items []domain.PayrollItem, runTotals domain.PayrollRun) error

	// UpdatePayrollItem updates an item and the run totals atomically.
	UpdatePayrollItem(ctx context.Context, item domain.PayrollItem, runTotals domain.PayrollRun) error

	// UpdatePayrollItems rewrites a set of items and the run totals
	// atomically. Used when processing recalculates a whole run.
	UpdatePayrollItems(ctx context.Context, items []domain.PayrollItem, runTotals domain.PayrollRun) error

	// DeletePayrollItem removes an item and updates the run totals atomically.
	DeletePayrollItem(ctx context.Context, itemID string, runTotals domain.PayrollRun) error
}

// PayrollRepositoryFacade combines all payroll repository interfaces.
type PayrollRepositoryFacade interface {
	PayrollRunReader
	PayrollRunWriter
	PayrollItemReader
	PayrollItemWriter
}
