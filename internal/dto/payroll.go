package dto

import (
	"time"

	"github.com/finacore/finacore_backend/internal/core/domain"
	"github.com/finacore/finacore_backend/internal/utils/payroll"
	"github.com/shopspring/decimal"
)

// CreatePayrollRunRequest defines the data needed to open a payroll run.
type CreatePayrollRunRequest struct {
	Name        string    `json:"name" binding:"required"`
	PeriodStart time.Time `json:"periodStart" binding:"required"`
	PeriodEnd   time.Time `json:"periodEnd" binding:"required"`
	PayDate     time.Time `json:"payDate" binding:"required"`
}

// UpdatePayrollRunRequest patches a draft run's descriptive fields.
type UpdatePayrollRunRequest struct {
	Name        *string    `json:"name"`
	PeriodStart *time.Time `json:"periodStart"`
	PeriodEnd   *time.Time `json:"periodEnd"`
	PayDate     *time.Time `json:"payDate"`
	Version     int64      `json:"version" binding:"required"`
}

// ListPayrollRunsParams defines filters for listing runs.
type ListPayrollRunsParams struct {
	Status *domain.PayrollRunStatus `form:"status" binding:"omitempty,oneof=DRAFT PROCESSING COMPLETED ERROR CANCELLED"`
	Page   int                      `form:"page,default=1"`
	Limit  int                      `form:"limit,default=20"`
}

// CreatePayrollItemRequest defines one employee's pay inputs. The hourly
// fields travel as a group; without them BaseSalary supplies the gross.
type CreatePayrollItemRequest struct {
	EmployeeName  string           `json:"employeeName" binding:"required"`
	EmployeeRef   string           `json:"employeeRef"`
	RegularHours  *decimal.Decimal `json:"regularHours"`
	OvertimeHours *decimal.Decimal `json:"overtimeHours"`
	HourlyRate    *decimal.Decimal `json:"hourlyRate"`
	BaseSalary    decimal.Decimal  `json:"baseSalary"`
	Deductions    decimal.Decimal  `json:"deductions"`
}

// UpdatePayrollItemRequest patches an item while its run is still a draft.
// ClearHourlyFields drops regularHours/overtimeHours/hourlyRate before the
// patch is applied, converting an hourly item back to salaried; a plain nil
// in those fields means "leave unchanged".
type UpdatePayrollItemRequest struct {
	EmployeeName      *string          `json:"employeeName"`
	EmployeeRef       *string          `json:"employeeRef"`
	RegularHours      *decimal.Decimal `json:"regularHours"`
	OvertimeHours     *decimal.Decimal `json:"overtimeHours"`
	HourlyRate        *decimal.Decimal `json:"hourlyRate"`
	BaseSalary        *decimal.Decimal `json:"baseSalary"`
	Deductions        *decimal.Decimal `json:"deductions"`
	ClearHourlyFields bool             `json:"clearHourlyFields"`
}

// ImportPayrollItemsRequest is a best-effort batch of item rows.
type ImportPayrollItemsRequest struct {
	Rows []CreatePayrollItemRequest `json:"rows" binding:"required,min=1"`
}

// ImportRowError reports one failed row of a batch import.
type ImportRowError struct {
	Row   int    `json:"row"` // Zero-based index into the submitted rows
	Error string `json:"error"`
}

// ImportPayrollItemsResponse reports a batch import outcome. A bad row does
// not abort the batch; Success is true only when every row imported.
type ImportPayrollItemsResponse struct {
	Success  bool             `json:"success"`
	Imported int              `json:"imported"`
	Errors   []ImportRowError `json:"errors"`
}

// PayrollItemResponse defines the data returned for a payroll item.
type PayrollItemResponse struct {
	ItemID          string                   `json:"itemID"`
	RunID           string                   `json:"runID"`
	EmployeeName    string                   `json:"employeeName"`
	EmployeeRef     string                   `json:"employeeRef"`
	RegularHours    *decimal.Decimal         `json:"regularHours,omitempty"`
	OvertimeHours   *decimal.Decimal         `json:"overtimeHours,omitempty"`
	HourlyRate      *decimal.Decimal         `json:"hourlyRate,omitempty"`
	BaseSalary      decimal.Decimal          `json:"baseSalary"`
	GrossSalary     decimal.Decimal          `json:"grossSalary"`
	TaxAmount       decimal.Decimal          `json:"taxAmount"`
	Deductions      decimal.Decimal          `json:"deductions"`
	DeductionAmount decimal.Decimal          `json:"deductionAmount"`
	NetSalary       decimal.Decimal          `json:"netSalary"`
	Status          domain.PayrollItemStatus `json:"status"`
	CreatedAt       time.Time                `json:"createdAt"`
	LastUpdatedAt   time.Time                `json:"lastUpdatedAt"`
}

// PayrollRunResponse defines the data returned for a payroll run.
type PayrollRunResponse struct {
	RunID           string                  `json:"runID"`
	Name            string                  `json:"name"`
	PeriodStart     time.Time               `json:"periodStart"`
	PeriodEnd       time.Time               `json:"periodEnd"`
	PayDate         time.Time               `json:"payDate"`
	Status          domain.PayrollRunStatus `json:"status"`
	EmployeeCount   int                     `json:"employeeCount"`
	GrossAmount     decimal.Decimal         `json:"grossAmount"`
	TaxAmount       decimal.Decimal         `json:"taxAmount"`
	DeductionAmount decimal.Decimal         `json:"deductionAmount"`
	NetAmount       decimal.Decimal         `json:"netAmount"`
	Version         int64                   `json:"version"`
	Items           []PayrollItemResponse   `json:"items,omitempty"`
	CreatedAt       time.Time               `json:"createdAt"`
	LastUpdatedAt   time.Time               `json:"lastUpdatedAt"`
}

// ListPayrollRunsResponse is a page of runs with offset pagination.
type ListPayrollRunsResponse struct {
	Runs  []PayrollRunResponse `json:"runs"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
	Total int                  `json:"total"`
}

// TaxBreakdownResponse exposes the pure tax calculation.
type TaxBreakdownResponse struct {
	GrossAmount decimal.Decimal `json:"grossAmount"`
	payroll.TaxBreakdown
}

// ToPayrollItemResponse converts a domain.PayrollItem to its response DTO.
func ToPayrollItemResponse(item *domain.PayrollItem) PayrollItemResponse {
	return PayrollItemResponse{
		ItemID:          item.ItemID,
		RunID:           item.RunID,
		EmployeeName:    item.EmployeeName,
		EmployeeRef:     item.EmployeeRef,
		RegularHours:    item.RegularHours,
		OvertimeHours:   item.OvertimeHours,
		HourlyRate:      item.HourlyRate,
		BaseSalary:      item.BaseSalary,
		GrossSalary:     item.GrossSalary,
		TaxAmount:       item.TaxAmount,
		Deductions:      item.Deductions,
		DeductionAmount: item.DeductionAmount,
		NetSalary:       item.NetSalary,
		Status:          item.Status,
		CreatedAt:       item.CreatedAt,
		LastUpdatedAt:   item.LastUpdatedAt,
	}
}

// ToPayrollRunResponse converts a domain.PayrollRun to its response DTO.
func ToPayrollRunResponse(run *domain.PayrollRun) PayrollRunResponse {
	items := make([]PayrollItemResponse, len(run.Items))
	for i, item := range run.Items {
		items[i] = ToPayrollItemResponse(&item)
	}
	return PayrollRunResponse{
		RunID:           run.RunID,
		Name:            run.Name,
		PeriodStart:     run.PeriodStart,
		PeriodEnd:       run.PeriodEnd,
		PayDate:         run.PayDate,
		Status:          run.Status,
		EmployeeCount:   run.EmployeeCount,
		GrossAmount:     run.GrossAmount,
		TaxAmount:       run.TaxAmount,
		DeductionAmount: run.DeductionAmount,
		NetAmount:       run.NetAmount,
		Version:         run.Version,
		Items:           items,
		CreatedAt:       run.CreatedAt,
		LastUpdatedAt:   run.LastUpdatedAt,
	}
}
