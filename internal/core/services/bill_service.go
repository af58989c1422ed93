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
)

// billService manages vendor bills. It mirrors the invoice service with the
// vendor contact role and the bill status table.
type billService struct {
	BaseService
	billRepo   portsrepo.BillRepositoryFacade
	contactSvc portssvc.ContactSvcFacade
	accountSvc portssvc.AccountSvcFacade
}

// NewBillService creates a new bill service.
func NewBillService(repo portsrepo.BillRepositoryFacade, contactSvc portssvc.ContactSvcFacade, accountSvc portssvc.AccountSvcFacade) portssvc.BillSvcFacade {
	return &billService{
		billRepo:   repo,
		contactSvc: contactSvc,
		accountSvc: accountSvc,
	}
}

var _ portssvc.BillSvcFacade = (*billService)(nil)

func (s *billService) buildItems(billID string, reqItems []dto.BillingItemRequest) []domain.BillItem {
	items := make([]domain.BillItem, len(reqItems))
	for i, it := range reqItems {
		items[i] = domain.BillItem{
			ItemID:      uuid.NewString(),
			BillID:      billID,
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

func (s *billService) validateItemAccounts(ctx context.Context, organizationID string, reqItems []dto.BillingItemRequest) error {
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

func (s *billService) CreateBill(ctx context.Context, organizationID string, req dto.CreateBillRequest, userID string) (*domain.Bill, error) {
	if err := validateBillingItems(req.Items); err != nil {
		return nil, err
	}
	if err := s.validateItemAccounts(ctx, organizationID, req.Items); err != nil {
		return nil, err
	}

	contact, err := s.contactSvc.FindOrCreateContact(ctx, organizationID, req.VendorName, req.VendorEmail, domain.ContactVendor, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	billID := uuid.NewString()
	items := s.buildItems(billID, req.Items)
	subtotal, tax, total := billingTotals(req.Items)

	bill := domain.Bill{
		BillID:         billID,
		OrganizationID: organizationID,
		BillNumber:     req.BillNumber,
		ContactID:      contact.ContactID,
		IssueDate:      req.IssueDate,
		DueDate:        req.DueDate,
		Status:         domain.BillDraft,
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

	if err := s.billRepo.SaveBill(ctx, bill); err != nil {
		s.LogError(ctx, err, "Failed to save bill",
			slog.String("bill_id", billID),
			slog.String("organization_id", organizationID))
		return nil, err
	}

	s.LogInfo(ctx, "Bill created",
		slog.String("bill_id", billID),
		slog.String("bill_number", req.BillNumber))
	return &bill, nil
}

func (s *billService) GetBill(ctx context.Context, organizationID, billID string) (*domain.Bill, error) {
	bill, err := s.billRepo.FindBillByID(ctx, billID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find bill",
				slog.String("bill_id", billID))
		}
		return nil, err
	}
	if bill.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}
	return bill, nil
}

func (s *billService) ListBills(ctx context.Context, organizationID string, params dto.ListBillsParams) ([]domain.Bill, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	bills, err := s.billRepo.ListBills(ctx, organizationID, portsrepo.ListBillsFilter{
		Status:   params.Status,
		FromDate: params.FromDate,
		ToDate:   params.ToDate,
		Limit:    limit,
		Offset:   params.Offset,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list bills",
			slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to retrieve bills: %w", err)
	}
	if bills == nil {
		return []domain.Bill{}, nil
	}
	return bills, nil
}

func (s *billService) UpdateBill(ctx context.Context, organizationID, billID string, req dto.UpdateBillRequest, userID string) (*domain.Bill, error) {
	bill, err := s.GetBill(ctx, organizationID, billID)
	if err != nil {
		return nil, err
	}
	if bill.Version != req.Version {
		return nil, fmt.Errorf("%w: bill was modified concurrently", apperrors.ErrConflict)
	}

	if req.Status != nil && *req.Status != bill.Status {
		effective := domain.EffectiveBillStatus(bill.Status, bill.DueDate, time.Now().UTC())
		if !effective.CanTransition(*req.Status) {
			return nil, fmt.Errorf("%w: bill cannot move from %s to %s", apperrors.ErrConflict, effective, *req.Status)
		}
		bill.Status = *req.Status
	}

	replaceItems := false
	if req.Items != nil {
		if !bill.Status.Editable() {
			return nil, fmt.Errorf("%w: items of a %s bill are immutable", apperrors.ErrConflict, bill.Status)
		}
		if err := validateBillingItems(req.Items); err != nil {
			return nil, err
		}
		if err := s.validateItemAccounts(ctx, organizationID, req.Items); err != nil {
			return nil, err
		}
		bill.Items = s.buildItems(billID, req.Items)
		bill.Subtotal, bill.TaxAmount, bill.Total = billingTotals(req.Items)
		replaceItems = true
	}

	if req.IssueDate != nil {
		bill.IssueDate = *req.IssueDate
	}
	if req.DueDate != nil {
		bill.DueDate = *req.DueDate
	}
	if req.Notes != nil {
		bill.Notes = *req.Notes
	}

	now := time.Now().UTC()
	bill.LastUpdatedAt = now
	bill.LastUpdatedBy = userID

	if err := s.billRepo.UpdateBill(ctx, *bill, replaceItems); err != nil {
		s.LogError(ctx, err, "Failed to update bill",
			slog.String("bill_id", billID))
		return nil, err
	}
	bill.Version++

	s.LogInfo(ctx, "Bill updated",
		slog.String("bill_id", billID),
		slog.String("status", string(bill.Status)))
	return bill, nil
}

func (s *billService) DeleteBill(ctx context.Context, organizationID, billID string) error {
	if _, err := s.GetBill(ctx, organizationID, billID); err != nil {
		return err
	}
	if err := s.billRepo.DeleteBill(ctx, billID); err != nil {
		s.LogError(ctx, err, "Failed to delete bill",
			slog.String("bill_id", billID))
		return err
	}
	s.LogInfo(ctx, "Bill deleted",
		slog.String("bill_id", billID))
	return nil
}
