package services

import (
	"context"

	"github.com/finacore/finacore_backend/internal/core/domain"
	"github.com/finacore/finacore_backend/internal/dto"
)

// ContactSvcFacade manages billing counterparties.
type ContactSvcFacade interface {
	// FindOrCreateContact returns the contact identified by the
	// (organization, name, role) natural key, creating it when absent.
	// Idempotent.
	FindOrCreateContact(ctx context.Context, organizationID, name, email string, role domain.ContactRole, userID string) (*domain.Contact, error)
}

// InvoiceSvcFacade manages customer invoices with item-derived totals.
type InvoiceSvcFacade interface {
	// CreateInvoice validates items, derives totals and persists the invoice
	// atomically, finding-or-creating the customer contact.
	CreateInvoice(ctx context.Context, organizationID string, req dto.CreateInvoiceRequest, userID string) (*domain.Invoice, error)

	// GetInvoice retrieves an invoice with its items.
	GetInvoice(ctx context.Context, organizationID, invoiceID string) (*domain.Invoice, error)

	// ListInvoices retrieves a filtered page of invoices.
	ListInvoices(ctx context.Context, organizationID string, params dto.ListInvoicesParams) ([]domain.Invoice, error)

	// UpdateInvoice patches fields, replaces items when supplied, and moves
	// status through the transition table.
	UpdateInvoice(ctx context.Context, organizationID, invoiceID string, req dto.UpdateInvoiceRequest, userID string) (*domain.Invoice, error)

	// DeleteInvoice removes an invoice and its items.
	DeleteInvoice(ctx context.Context, organizationID, invoiceID string) error
}

// BillSvcFacade manages vendor bills with item-derived totals.
type BillSvcFacade interface {
	// CreateBill validates items, derives totals and persists the bill
	// atomically, finding-or-creating the vendor contact.
	CreateBill(ctx context.Context, organizationID string, req dto.CreateBillRequest, userID string) (*domain.Bill, error)

	// GetBill retrieves a bill with its items.
	GetBill(ctx context.Context, organizationID, billID string) (*domain.Bill, error)

	// ListBills retrieves a filtered page of bills.
	ListBills(ctx context.Context, organizationID string, params dto.ListBillsParams) ([]domain.Bill, error)

	// UpdateBill patches fields, replaces items when supplied, and moves
	// status through the transition table.
	UpdateBill(ctx context.Context, organizationID, billID string, req dto.UpdateBillRequest, userID string) (*domain.Bill, error)

	// DeleteBill removes a bill and its items.
	DeleteBill(ctx context.Context, organizationID, billID string) error
}
