package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/finacore/finacore_backend/internal/core/domain"
	"github.com/finacore/finacore_backend/internal/dto"
	"github.com/finacore/finacore_backend/internal/utils/payroll"
)

// ImportPayrollItems validates each submitted row independently. Rows that
// pass are derived and inserted as one batch with the re-aggregated run
// totals; rows that fail are reported back with their index and skipped.
func (s *payrollService) ImportPayrollItems(ctx context.Context, organizationID, runID string, req dto.ImportPayrollItemsRequest, userID string) (*dto.ImportPayrollItemsResponse, error) {
	run, err := s.draftRunForItemWrite(ctx, organizationID, runID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	accepted := make([]domain.PayrollItem, 0, len(req.Rows))
	rowErrors := []dto.ImportRowError{}

	for i, row := range req.Rows {
		if row.EmployeeName == "" {
			rowErrors = append(rowErrors, dto.ImportRowError{Row: i, Error: "employeeName is required"})
			continue
		}
		item := newPayrollItem(runID, organizationID, row, userID, now)
		if err := validateItemInputs(item); err != nil {
			rowErrors = append(rowErrors, dto.ImportRowError{Row: i, Error: err.Error()})
			continue
		}
		accepted = append(accepted, payroll.Derive(item))
	}

	if len(accepted) > 0 {
		existing, err := s.payrollRepo.FindItemsByRunID(ctx, runID)
		if err != nil {
			return nil, err
		}
		totals := payroll.Aggregate(*run, append(existing, accepted...))
		totals.LastUpdatedAt = now
		totals.LastUpdatedBy = userID

		if err := s.payrollRepo.SavePayrollItems(ctx, accepted, totals); err != nil {
			s.LogError(ctx, err, "Failed to import payroll items",
				slog.String("run_id", runID))
			return nil, fmt.Errorf("failed to import payroll items: %w", err)
		}
	} else if len(rowErrors) == len(req.Rows) && len(req.Rows) > 0 {
		s.LogInfo(ctx, "Payroll import rejected every row",
			slog.String("run_id", runID),
			slog.Int("rows", len(req.Rows)))
	}

	s.LogInfo(ctx, "Payroll items imported",
		slog.String("run_id", runID),
		slog.Int("imported", len(accepted)),
		slog.Int("failed", len(rowErrors)))

	return &dto.ImportPayrollItemsResponse{
		Success:  len(rowErrors) == 0,
		Imported: len(accepted),
		Errors:   rowErrors,
	}, nil
}
