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
	"github.com/finacore/finacore_backend/internal/utils/payroll"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrRunItemsFrozen is returned when an item write targets a run that
	// has left the draft state.
	ErrRunItemsFrozen = fmt.Errorf("%w: payroll items can only be changed while the run is a draft", apperrors.ErrConflict)

	// ErrRunNotDeletable is returned when deletion targets a run that is
	// neither draft nor cancelled.
	ErrRunNotDeletable = fmt.Errorf("%w: only draft or cancelled payroll runs can be deleted", apperrors.ErrConflict)

	// errNegativeNetSalary marks a processing pass that derived a negative
	// net pay for at least one item. It is logged, not returned; the run
	// itself records the failure through its ERROR status.
	errNegativeNetSalary = errors.New("payroll processing derived a negative net salary")
)

// payrollService manages payroll runs and their items. Run aggregates are
// derived from items and persisted together with every item write.
type payrollService struct {
	BaseService
	payrollRepo portsrepo.PayrollRepositoryFacade
}

// NewPayrollService creates a new payroll service.
func NewPayrollService(repo portsrepo.PayrollRepositoryFacade) portssvc.PayrollSvcFacade {
	return &payrollService{payrollRepo: repo}
}

var _ portssvc.PayrollSvcFacade = (*payrollService)(nil)

func validateRunPeriod(periodStart, periodEnd, payDate time.Time) error {
	if !periodEnd.After(periodStart) {
		return fmt.Errorf("%w: period end must be after period start", apperrors.ErrValidation)
	}
	if payDate.Before(periodStart) {
		return fmt.Errorf("%w: pay date must not precede the period start", apperrors.ErrValidation)
	}
	return nil
}

// validateItemInputs checks the pay inputs of one item. The hourly fields
// travel as a group: a rate without regular hours (or the reverse) is invalid.
func validateItemInputs(item domain.PayrollItem) error {
	hasRate := item.HourlyRate != nil
	hasRegular := item.RegularHours != nil
	if hasRate != hasRegular {
		return fmt.Errorf("%w: hourlyRate and regularHours must be supplied together", apperrors.ErrValidation)
	}
	if item.OvertimeHours != nil && !hasRate {
		return fmt.Errorf("%w: overtimeHours requires hourlyRate and regularHours", apperrors.ErrValidation)
	}
	if hasRate {
		if !item.HourlyRate.IsPositive() {
			return fmt.Errorf("%w: hourlyRate must be positive", apperrors.ErrValidation)
		}
		if item.RegularHours.IsNegative() {
			return fmt.Errorf("%w: regularHours must not be negative", apperrors.ErrValidation)
		}
		if item.OvertimeHours != nil && item.OvertimeHours.IsNegative() {
			return fmt.Errorf("%w: overtimeHours must not be negative", apperrors.ErrValidation)
		}
	} else if item.BaseSalary.IsNegative() {
		return fmt.Errorf("%w: baseSalary must not be negative", apperrors.ErrValidation)
	}
	if item.Deductions.IsNegative() {
		return fmt.Errorf("%w: deductions must not be negative", apperrors.ErrValidation)
	}
	return nil
}

func (s *payrollService) CreatePayrollRun(ctx context.Context, organizationID string, req dto.CreatePayrollRunRequest, userID string) (*domain.PayrollRun, error) {
	if err := validateRunPeriod(req.PeriodStart, req.PeriodEnd, req.PayDate); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	run := domain.PayrollRun{
		RunID:           uuid.NewString(),
		OrganizationID:  organizationID,
		Name:            req.Name,
		PeriodStart:     req.PeriodStart,
		PeriodEnd:       req.PeriodEnd,
		PayDate:         req.PayDate,
		Status:          domain.PayrollRunDraft,
		EmployeeCount:   0,
		GrossAmount:     decimal.Zero,
		TaxAmount:       decimal.Zero,
		DeductionAmount: decimal.Zero,
		NetAmount:       decimal.Zero,
		Version:         1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.payrollRepo.SavePayrollRun(ctx, run); err != nil {
		s.LogError(ctx, err, "Failed to save payroll run",
			slog.String("organization_id", organizationID))
		return nil, err
	}

	s.LogInfo(ctx, "Payroll run created",
		slog.String("run_id", run.RunID),
		slog.String("name", run.Name))
	return &run, nil
}

func (s *payrollService) GetPayrollRun(ctx context.Context, organizationID, runID string, withItems bool) (*domain.PayrollRun, error) {
	run, err := s.payrollRepo.FindPayrollRunByID(ctx, runID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find payroll run",
				slog.String("run_id", runID))
		}
		return nil, err
	}
	if run.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}
	if withItems {
		items, err := s.payrollRepo.FindItemsByRunID(ctx, runID)
		if err != nil {
			s.LogError(ctx, err, "Failed to load payroll run items",
				slog.String("run_id", runID))
			return nil, err
		}
		run.Items = items
	}
	return run, nil
}

func (s *payrollService) ListPayrollRuns(ctx context.Context, organizationID string, params dto.ListPayrollRunsParams) ([]domain.PayrollRun, int, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	runs, total, err := s.payrollRepo.ListPayrollRuns(ctx, organizationID, portsrepo.ListPayrollRunsFilter{
		Status: params.Status,
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list payroll runs",
			slog.String("organization_id", organizationID))
		return nil, 0, fmt.Errorf("failed to retrieve payroll runs: %w", err)
	}
	if runs == nil {
		runs = []domain.PayrollRun{}
	}
	return runs, total, nil
}

func (s *payrollService) UpdatePayrollRun(ctx context.Context, organizationID, runID string, req dto.UpdatePayrollRunRequest, userID string) (*domain.PayrollRun, error) {
	run, err := s.GetPayrollRun(ctx, organizationID, runID, false)
	if err != nil {
		return nil, err
	}
	if run.Status != domain.PayrollRunDraft {
		return nil, fmt.Errorf("%w: only draft payroll runs can be edited", apperrors.ErrConflict)
	}
	if run.Version != req.Version {
		return nil, fmt.Errorf("%w: payroll run was modified concurrently", apperrors.ErrConflict)
	}

	if req.Name != nil {
		run.Name = *req.Name
	}
	if req.PeriodStart != nil {
		run.PeriodStart = *req.PeriodStart
	}
	if req.PeriodEnd != nil {
		run.PeriodEnd = *req.PeriodEnd
	}
	if req.PayDate != nil {
		run.PayDate = *req.PayDate
	}
	if err := validateRunPeriod(run.PeriodStart, run.PeriodEnd, run.PayDate); err != nil {
		return nil, err
	}

	run.LastUpdatedAt = time.Now().UTC()
	run.LastUpdatedBy = userID

	if err := s.payrollRepo.UpdatePayrollRun(ctx, *run); err != nil {
		s.LogError(ctx, err, "Failed to update payroll run",
			slog.String("run_id", runID))
		return nil, err
	}
	run.Version++

	s.LogInfo(ctx, "Payroll run updated",
		slog.String("run_id", runID))
	return run, nil
}

func (s *payrollService) DeletePayrollRun(ctx context.Context, organizationID, runID string) error {
	run, err := s.GetPayrollRun(ctx, organizationID, runID, false)
	if err != nil {
		return err
	}
	if run.Status != domain.PayrollRunDraft && run.Status != domain.PayrollRunCancelled {
		return ErrRunNotDeletable
	}
	if err := s.payrollRepo.DeletePayrollRun(ctx, runID); err != nil {
		s.LogError(ctx, err, "Failed to delete payroll run",
			slog.String("run_id", runID))
		return err
	}
	s.LogInfo(ctx, "Payroll run deleted",
		slog.String("run_id", runID))
	return nil
}

// transitionRun moves a run to target after checking the transition table and
// persists it version-checked.
func (s *payrollService) transitionRun(ctx context.Context, run *domain.PayrollRun, target domain.PayrollRunStatus, userID string) error {
	if !run.Status.CanTransition(target) {
		return fmt.Errorf("%w: payroll run cannot move from %s to %s", apperrors.ErrConflict, run.Status, target)
	}
	run.Status = target
	run.LastUpdatedAt = time.Now().UTC()
	run.LastUpdatedBy = userID
	if err := s.payrollRepo.UpdatePayrollRun(ctx, *run); err != nil {
		return err
	}
	run.Version++
	return nil
}

func (s *payrollService) ProcessPayrollRun(ctx context.Context, organizationID, runID string, userID string) (*domain.PayrollRun, error) {
	run, err := s.GetPayrollRun(ctx, organizationID, runID, true)
	if err != nil {
		return nil, err
	}
	if !run.Status.CanTransition(domain.PayrollRunProcessing) {
		return nil, fmt.Errorf("%w: payroll run cannot move from %s to %s", apperrors.ErrConflict, run.Status, domain.PayrollRunProcessing)
	}
	if len(run.Items) == 0 {
		return nil, fmt.Errorf("%w: payroll run has no items to process", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	failed := false
	items := make([]domain.PayrollItem, len(run.Items))
	for i, item := range run.Items {
		item = payroll.Derive(item)
		if item.NetSalary.IsNegative() {
			item.Status = domain.PayrollItemError
			failed = true
		} else {
			item.Status = domain.PayrollItemPending
		}
		item.LastUpdatedAt = now
		item.LastUpdatedBy = userID
		items[i] = item
	}

	// The run always passes through PROCESSING first; on item errors a
	// second write moves it on to ERROR so the stored history follows the
	// transition table.
	totals := payroll.Aggregate(*run, items)
	totals.Status = domain.PayrollRunProcessing
	totals.LastUpdatedAt = now
	totals.LastUpdatedBy = userID

	if err := s.payrollRepo.UpdatePayrollItems(ctx, items, totals); err != nil {
		s.LogError(ctx, err, "Failed to process payroll run",
			slog.String("run_id", runID))
		return nil, err
	}
	totals.Version++
	totals.Items = items

	if failed {
		totals.Status = domain.PayrollRunError
		if err := s.payrollRepo.UpdatePayrollRun(ctx, totals); err != nil {
			s.LogError(ctx, err, "Failed to record payroll run error state",
				slog.String("run_id", runID))
			return nil, err
		}
		totals.Version++
		s.LogError(ctx, errNegativeNetSalary, "Payroll run processing failed on item errors",
			slog.String("run_id", runID))
	} else {
		s.LogInfo(ctx, "Payroll run processing",
			slog.String("run_id", runID),
			slog.Int("employee_count", totals.EmployeeCount))
	}
	return &totals, nil
}

func (s *payrollService) FinalizePayrollRun(ctx context.Context, organizationID, runID string, userID string) (*domain.PayrollRun, error) {
	run, err := s.GetPayrollRun(ctx, organizationID, runID, true)
	if err != nil {
		return nil, err
	}
	if !run.Status.CanTransition(domain.PayrollRunCompleted) {
		return nil, fmt.Errorf("%w: payroll run cannot move from %s to %s", apperrors.ErrConflict, run.Status, domain.PayrollRunCompleted)
	}

	now := time.Now().UTC()
	items := make([]domain.PayrollItem, len(run.Items))
	for i, item := range run.Items {
		item.Status = domain.PayrollItemProcessed
		item.LastUpdatedAt = now
		item.LastUpdatedBy = userID
		items[i] = item
	}

	totals := payroll.Aggregate(*run, items)
	totals.Status = domain.PayrollRunCompleted
	totals.LastUpdatedAt = now
	totals.LastUpdatedBy = userID

	if err := s.payrollRepo.UpdatePayrollItems(ctx, items, totals); err != nil {
		s.LogError(ctx, err, "Failed to finalize payroll run",
			slog.String("run_id", runID))
		return nil, err
	}
	totals.Version++
	totals.Items = items

	s.LogInfo(ctx, "Payroll run completed",
		slog.String("run_id", runID),
		slog.String("net_amount", totals.NetAmount.String()))
	return &totals, nil
}

func (s *payrollService) CancelPayrollRun(ctx context.Context, organizationID, runID string, userID string) (*domain.PayrollRun, error) {
	run, err := s.GetPayrollRun(ctx, organizationID, runID, false)
	if err != nil {
		return nil, err
	}
	if err := s.transitionRun(ctx, run, domain.PayrollRunCancelled, userID); err != nil {
		s.LogError(ctx, err, "Failed to cancel payroll run",
			slog.String("run_id", runID))
		return nil, err
	}
	s.LogInfo(ctx, "Payroll run cancelled",
		slog.String("run_id", runID))
	return run, nil
}

// draftRunForItemWrite loads the run owning an item mutation and rejects the
// write when items are frozen.
func (s *payrollService) draftRunForItemWrite(ctx context.Context, organizationID, runID string) (*domain.PayrollRun, error) {
	run, err := s.GetPayrollRun(ctx, organizationID, runID, false)
	if err != nil {
		return nil, err
	}
	if !run.Status.ItemsMutable() {
		return nil, ErrRunItemsFrozen
	}
	return run, nil
}

func newPayrollItem(runID, organizationID string, req dto.CreatePayrollItemRequest, userID string, now time.Time) domain.PayrollItem {
	return domain.PayrollItem{
		ItemID:         uuid.NewString(),
		RunID:          runID,
		OrganizationID: organizationID,
		EmployeeName:   req.EmployeeName,
		EmployeeRef:    req.EmployeeRef,
		RegularHours:   req.RegularHours,
		OvertimeHours:  req.OvertimeHours,
		HourlyRate:     req.HourlyRate,
		BaseSalary:     req.BaseSalary,
		Deductions:     req.Deductions,
		Status:         domain.PayrollItemPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
}

func (s *payrollService) CreatePayrollItem(ctx context.Context, organizationID, runID string, req dto.CreatePayrollItemRequest, userID string) (*domain.PayrollItem, error) {
	run, err := s.draftRunForItemWrite(ctx, organizationID, runID)
	if err != nil {
		return nil, err
	}
	if req.EmployeeName == "" {
		return nil, fmt.Errorf("%w: employeeName is required", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	item := newPayrollItem(runID, organizationID, req, userID, now)
	if err := validateItemInputs(item); err != nil {
		return nil, err
	}
	item = payroll.Derive(item)

	existing, err := s.payrollRepo.FindItemsByRunID(ctx, runID)
	if err != nil {
		return nil, err
	}
	totals := payroll.Aggregate(*run, append(existing, item))
	totals.LastUpdatedAt = now
	totals.LastUpdatedBy = userID

	if err := s.payrollRepo.SavePayrollItem(ctx, item, totals); err != nil {
		s.LogError(ctx, err, "Failed to save payroll item",
			slog.String("run_id", runID))
		return nil, err
	}

	s.LogInfo(ctx, "Payroll item created",
		slog.String("item_id", item.ItemID),
		slog.String("run_id", runID))
	return &item, nil
}

func (s *payrollService) GetPayrollItem(ctx context.Context, organizationID, itemID string) (*domain.PayrollItem, error) {
	item, err := s.payrollRepo.FindPayrollItemByID(ctx, itemID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find payroll item",
				slog.String("item_id", itemID))
		}
		return nil, err
	}
	if item.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}
	return item, nil
}

func (s *payrollService) GetItemsByRunID(ctx context.Context, organizationID, runID string) ([]domain.PayrollItem, error) {
	if _, err := s.GetPayrollRun(ctx, organizationID, runID, false); err != nil {
		return nil, err
	}
	items, err := s.payrollRepo.FindItemsByRunID(ctx, runID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load payroll items",
			slog.String("run_id", runID))
		return nil, err
	}
	if items == nil {
		return []domain.PayrollItem{}, nil
	}
	return items, nil
}

// writeItemAndTotals re-aggregates the run with item's new state substituted
// in and persists both atomically.
func (s *payrollService) writeItemAndTotals(ctx context.Context, run *domain.PayrollRun, item domain.PayrollItem, userID string) error {
	items, err := s.payrollRepo.FindItemsByRunID(ctx, run.RunID)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ItemID == item.ItemID {
			items[i] = item
		}
	}
	totals := payroll.Aggregate(*run, items)
	totals.LastUpdatedAt = item.LastUpdatedAt
	totals.LastUpdatedBy = userID
	return s.payrollRepo.UpdatePayrollItem(ctx, item, totals)
}

func (s *payrollService) UpdatePayrollItem(ctx context.Context, organizationID, itemID string, req dto.UpdatePayrollItemRequest, userID string) (*domain.PayrollItem, error) {
	item, err := s.GetPayrollItem(ctx, organizationID, itemID)
	if err != nil {
		return nil, err
	}
	run, err := s.draftRunForItemWrite(ctx, organizationID, item.RunID)
	if err != nil {
		return nil, err
	}

	if req.EmployeeName != nil {
		if *req.EmployeeName == "" {
			return nil, fmt.Errorf("%w: employeeName must not be empty", apperrors.ErrValidation)
		}
		item.EmployeeName = *req.EmployeeName
	}
	if req.EmployeeRef != nil {
		item.EmployeeRef = *req.EmployeeRef
	}
	if req.ClearHourlyFields {
		item.RegularHours = nil
		item.OvertimeHours = nil
		item.HourlyRate = nil
	}
	if req.RegularHours != nil {
		item.RegularHours = req.RegularHours
	}
	if req.OvertimeHours != nil {
		item.OvertimeHours = req.OvertimeHours
	}
	if req.HourlyRate != nil {
		item.HourlyRate = req.HourlyRate
	}
	if req.BaseSalary != nil {
		item.BaseSalary = *req.BaseSalary
	}
	if req.Deductions != nil {
		item.Deductions = *req.Deductions
	}
	if err := validateItemInputs(*item); err != nil {
		return nil, err
	}

	*item = payroll.Derive(*item)
	item.LastUpdatedAt = time.Now().UTC()
	item.LastUpdatedBy = userID

	if err := s.writeItemAndTotals(ctx, run, *item, userID); err != nil {
		s.LogError(ctx, err, "Failed to update payroll item",
			slog.String("item_id", itemID))
		return nil, err
	}

	s.LogInfo(ctx, "Payroll item updated",
		slog.String("item_id", itemID),
		slog.String("run_id", item.RunID))
	return item, nil
}

func (s *payrollService) DeletePayrollItem(ctx context.Context, organizationID, itemID string, userID string) error {
	item, err := s.GetPayrollItem(ctx, organizationID, itemID)
	if err != nil {
		return err
	}
	run, err := s.draftRunForItemWrite(ctx, organizationID, item.RunID)
	if err != nil {
		return err
	}

	items, err := s.payrollRepo.FindItemsByRunID(ctx, item.RunID)
	if err != nil {
		return err
	}
	remaining := make([]domain.PayrollItem, 0, len(items))
	for _, it := range items {
		if it.ItemID != itemID {
			remaining = append(remaining, it)
		}
	}
	totals := payroll.Aggregate(*run, remaining)
	totals.LastUpdatedAt = time.Now().UTC()
	totals.LastUpdatedBy = userID

	if err := s.payrollRepo.DeletePayrollItem(ctx, itemID, totals); err != nil {
		s.LogError(ctx, err, "Failed to delete payroll item",
			slog.String("item_id", itemID))
		return err
	}

	s.LogInfo(ctx, "Payroll item deleted",
		slog.String("item_id", itemID),
		slog.String("run_id", item.RunID))
	return nil
}

func (s *payrollService) RecalculatePayrollItem(ctx context.Context, organizationID, itemID string, userID string) (*domain.PayrollItem, error) {
	item, err := s.GetPayrollItem(ctx, organizationID, itemID)
	if err != nil {
		return nil, err
	}
	run, err := s.draftRunForItemWrite(ctx, organizationID, item.RunID)
	if err != nil {
		return nil, err
	}

	*item = payroll.Derive(*item)
	item.LastUpdatedAt = time.Now().UTC()
	item.LastUpdatedBy = userID

	if err := s.writeItemAndTotals(ctx, run, *item, userID); err != nil {
		s.LogError(ctx, err, "Failed to recalculate payroll item",
			slog.String("item_id", itemID))
		return nil, err
	}
	return item, nil
}

func (s *payrollService) RecalculatePayrollRun(ctx context.Context, organizationID, runID string, userID string) (*domain.PayrollRun, error) {
	run, err := s.GetPayrollRun(ctx, organizationID, runID, false)
	if err != nil {
		return nil, err
	}
	if run.Status == domain.PayrollRunCompleted || run.Status == domain.PayrollRunCancelled {
		return nil, fmt.Errorf("%w: totals of a %s payroll run are frozen", apperrors.ErrConflict, run.Status)
	}

	items, err := s.payrollRepo.FindItemsByRunID(ctx, runID)
	if err != nil {
		return nil, err
	}
	totals := payroll.Aggregate(*run, items)
	totals.LastUpdatedAt = time.Now().UTC()
	totals.LastUpdatedBy = userID

	if err := s.payrollRepo.UpdatePayrollRun(ctx, totals); err != nil {
		s.LogError(ctx, err, "Failed to recalculate payroll run",
			slog.String("run_id", runID))
		return nil, err
	}
	totals.Version++
	totals.Items = items

	s.LogInfo(ctx, "Payroll run recalculated",
		slog.String("run_id", runID),
		slog.Int("employee_count", totals.EmployeeCount))
	return &totals, nil
}

func (s *payrollService) CalculateTaxes(gross decimal.Decimal) payroll.TaxBreakdown {
	return payroll.CalculateTaxes(gross)
}
