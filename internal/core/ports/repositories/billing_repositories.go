package repositories

import (
	"context"
	"time"

	"github.com/finacore/finacore_backend/internal/core/domain"
)

// ListInvoicesFilter narrows an invoice listing.
type ListInvoicesFilter struct {
	Status   *domain.InvoiceStatus
	FromDate *time.Time
	ToDate   *time.Time
	Limit    int
	Offset   int
}

// InvoiceRepositoryFacade defines storage operations for invoices and their
// items. Document and items are always written as one atomic unit.
type InvoiceRepositoryFacade interface {
	// SaveInvoice persists a new invoice and its items atomically.
	SaveInvoice(ctx context.Context, invoice domain.Invoice) error

	// FindInvoiceByID retrieves an invoice together with its items.
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// ListInvoices retrieves a filtered page of invoices (without items).
	ListInvoices(ctx context.Context, organizationID string, filter ListInvoicesFilter) ([]domain.Invoice, error)

	// UpdateInvoice updates an invoice guarded by the version check. When
	// replaceItems is true the stored item set is swapped for invoice.Items
	// in the same database transaction.
	UpdateInvoice(ctx context.Context, invoice domain.Invoice, replaceItems bool) error

	// DeleteInvoice removes an invoice and cascades to its items.
	DeleteInvoice(ctx context.Context, invoiceID string) error
}

// ListBillsFilter narrows a bill listing.
type ListBillsFilter struct {
	Status   *domain.BillStatus
	FromDate *time.Time
	ToDate   *time.Time
	Limit    int
	Offset   int
}

// BillRepositoryFacade defines storage operations for vendor bills.
type BillRepositoryFacade interface {
	// SaveBill persists a new bill and its items atomically.
	SaveBill(ctx context.Context, bill domain.Bill) error

	// FindBillByID retrieves a bill together with its items.
	FindBillByID(ctx context.Context, billID string) (*domain.Bill, error)

	// ListBills retrieves a filtered page of bills (without items).
	ListBills(ctx context.Context, organizationID string, filter ListBillsFilter) ([]domain.Bill, error)

	// UpdateBill updates a bill guarded by the version check, optionally
	// swapping the item set atomically.
	UpdateBill(ctx context.Context, bill domain.Bill, replaceItems bool) error

	// DeleteBill removes a bill and cascades to its items.
	DeleteBill(ctx context.Context, billID string) error
}
