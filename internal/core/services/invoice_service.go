package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/finacore/finacore_backend/internal/apperrors"
	"github.com/finacore/finacore_backend/internal/core/domain"
	portsrepo "github.com/finacore/finacore_backend/internal/core/ports/repositories"
	portssvc "github.com/finacore/finacore_backend/internal/core/ports/services"
	"github.com/finacore/finacore_backend/internal/dto"
	"github.com/finacore/finacore_backend/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// validateBillingItems rejects non-positive quantities/prices and negative tax rates.
func validateBillingItems(items []dto.BillingItemRequest) error {
	for _, it := range items {
		if !it.Quantity.IsPositive() {
			return fmt.Errorf("%w: item quantity must be positive", apperrors.ErrValidation)
		}
		if it.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: item unit price must not be negative", apperrors.ErrValidation)
		}
		if it.TaxRate.IsNegative() {
			return fmt.Errorf("%w: item tax rate must not be negative", apperrors.ErrValidation)
		}
	}
	return nil
}

// billingTotals derives subtotal, tax and total for a request's item set.
func billingTotals(items []dto.BillingItemRequest) (subtotal, tax, total decimal.Decimal) {
	amounts := make([]decimal.Decimal, len(items))
	rates := make([]decimal.Decimal, len(items))
	for i, it := range items {
		amounts[i] = accounting.ItemAmount(it.Quantity, it.UnitPrice)
		rates[i] = it.TaxRate
	}
	return accounting.DocumentTotals(amounts, rates)
}

// invoiceService manages customer invoices with item-derived totals.
type invoiceService struct {
	BaseService
	invoiceRepo portsrepo.InvoiceRepositoryFacade
	contactSvc  portssvc.ContactSvcFacade
	accountSvc  portssvc.AccountSvcFacade
}

// NewInvoiceService creates a new invoice service.
func NewInvoiceService(repo portsrepo.InvoiceRepositoryFacade, contactSvc portssvc.ContactSvcFacade, accountSvc portssvc.AccountSvcFacade) portssvc.InvoiceSvcFacade {
	return &invoiceService{
		invoiceRepo: repo,
		contactSvc:  contactSvc,
		accountSvc:  accountSvc,
	}
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

func (s *invoiceService) buildItems(invoiceID string, reqItems []dto.BillingItemRequest) []domain.InvoiceItem {
	items := make([]domain.InvoiceItem, len(reqItems))
	for i, it := range reqItems {
		items[i] = domain.InvoiceItem{
			ItemID:      uuid.NewString(),
			InvoiceID:   invoiceID,
			AccountID:   it.AccountID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
			Amount:      accounting.ItemAmount(it.Quantity, it.UnitPrice),
		}
	}
	return items
}

func (s *invoiceService) validateItemAccounts(ctx context.Context, organizationID string, reqItems []dto.BillingItemRequest) error {
	ids := make([]string, 0, len(reqItems))
	seen := make(map[string]struct{}, len(reqItems))
	for _, it := range reqItems {
		if _, ok := seen[it.AccountID]; ok {
			continue
		}
		seen[it.AccountID] = struct{}{}
		ids = append(ids, it.AccountID)
	}
	accounts, err := s.accountSvc.GetAccountsByIDs(ctx, organizationID, ids)
	if err != nil {
		return fmt.Errorf("failed to fetch item accounts: %w", err)
	}
	for _, id := range ids {
		if _, found := accounts[id]; !found {
			return fmt.Errorf("%w: item account %s", apperrors.ErrNotFound, id)
		}
	}
	return nil
}

func (s *invoiceService) CreateInvoice(ctx context.Context, organizationID string, req dto.CreateInvoiceRequest, userID string) (*domain.Invoice, error) {
	if err := validateBillingItems(req.Items); err != nil {
		return nil, err
	}
	if err := s.validateItemAccounts(ctx, organizationID, req.Items); err != nil {
		return nil, err
	}

	contact, err := s.contactSvc.FindOrCreateContact(ctx, organizationID, req.CustomerName, req.CustomerEmail, domain.ContactCustomer, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	invoiceID := uuid.NewString()
	items := s.buildItems(invoiceID, req.Items)
	subtotal, tax, total := billingTotals(req.Items)

	invoice := domain.Invoice{
		InvoiceID:      invoiceID,
		OrganizationID: organizationID,
		InvoiceNumber:  req.InvoiceNumber,
		ContactID:      contact.ContactID,
		IssueDate:      req.IssueDate,
		DueDate:        req.DueDate,
		Status:         domain.InvoiceDraft,
		CurrencyCode:   req.CurrencyCode,
		Subtotal:       subtotal,
		TaxAmount:      tax,
		Total:          total,
		Notes:          req.Notes,
		Version:        1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
		Items: items,
	}

	if err := s.invoiceRepo.SaveInvoice(ctx, invoice); err != nil {
		s.LogError(ctx, err, "Failed to save invoice",
			slog.String("invoice_id", invoiceID),
			slog.String("organization_id", organizationID))
		return nil, err
	}

	s.LogInfo(ctx, "Invoice created",
		slog.String("invoice_id", invoiceID),
		slog.String("invoice_number", req.InvoiceNumber))
	return &invoice, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, organizationID, invoiceID string) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find invoice",
				slog.String("invoice_id", invoiceID))
		}
		return nil, err
	}
	if invoice.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}
	return invoice, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, organizationID string, params dto.ListInvoicesParams) ([]domain.Invoice, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	invoices, err := s.invoiceRepo.ListInvoices(ctx, organizationID, portsrepo.ListInvoicesFilter{
		Status:   params.Status,
		FromDate: params.FromDate,
		ToDate:   params.ToDate,
		Limit:    limit,
		Offset:   params.Offset,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list invoices",
			slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to retrieve invoices: %w", err)
	}
	if invoices == nil {
		return []domain.Invoice{}, nil
	}
	return invoices, nil
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, organizationID, invoiceID string, req dto.UpdateInvoiceRequest, userID string) (*domain.Invoice, error) {
	invoice, err := s.GetInvoice(ctx, organizationID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Version != req.Version {
		return nil, fmt.Errorf("%w: invoice was modified concurrently", apperrors.ErrConflict)
	}

	if req.Status != nil && *req.Status != invoice.Status {
		// The stored status may lag the time-derived one; transition from
		// the effective status so marking an overdue invoice paid works.
		effective := domain.EffectiveInvoiceStatus(invoice.Status, invoice.DueDate, time.Now().UTC())
		if !effective.CanTransition(*req.Status) {
			return nil, fmt.Errorf("%w: invoice cannot move from %s to %s", apperrors.ErrConflict, effective, *req.Status)
		}
		invoice.Status = *req.Status
	}

	replaceItems := false
	if req.Items != nil {
		if !invoice.Status.Editable() {
			return nil, fmt.Errorf("%w: items of a %s invoice are immutable", apperrors.ErrConflict, invoice.Status)
		}
		if err := validateBillingItems(req.Items); err != nil {
			return nil, err
		}
		if err := s.validateItemAccounts(ctx, organizationID, req.Items); err != nil {
			return nil, err
		}
		invoice.Items = s.buildItems(invoiceID, req.Items)
		invoice.Subtotal, invoice.TaxAmount, invoice.Total = billingTotals(req.Items)
		replaceItems = true
	}

	if req.IssueDate != nil {
		invoice.IssueDate = *req.IssueDate
	}
	if req.DueDate != nil {
		invoice.DueDate = *req.DueDate
	}
	if req.Notes != nil {
		invoice.Notes = *req.Notes
	}

	now := time.Now().UTC()
	invoice.LastUpdatedAt = now
	invoice.LastUpdatedBy = userID

	if err := s.invoiceRepo.UpdateInvoice(ctx, *invoice, replaceItems); err != nil {
		s.LogError(ctx, err, "Failed to update invoice",
			slog.String("invoice_id", invoiceID))
		return nil, err
	}
	invoice.Version++

	s.LogInfo(ctx, "Invoice updated",
		slog.String("invoice_id", invoiceID),
		slog.String("status", string(invoice.Status)))
	return invoice, nil
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, organizationID, invoiceID string) error {
	if _, err := s.GetInvoice(ctx, organizationID, invoiceID); err != nil {
		return err
	}
	if err := s.invoiceRepo.DeleteInvoice(ctx, invoiceID); err != nil {
		s.LogError(ctx, err, "Failed to delete invoice",
			slog.String("invoice_id", invoiceID))
		return err
	}
	s.LogInfo(ctx, "Invoice deleted",
		slog.String("invoice_id", invoiceID))
	return nil
}
