package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollRunStatus indicates the state of a payroll run.
type PayrollRunStatus string

const (
	PayrollRunDraft      PayrollRunStatus = "DRAFT"
	PayrollRunProcessing PayrollRunStatus = "PROCESSING"
	PayrollRunCompleted  PayrollRunStatus = "COMPLETED"
	PayrollRunError      PayrollRunStatus = "ERROR"
	PayrollRunCancelled  PayrollRunStatus = "CANCELLED"
)

var payrollRunTransitions = map[PayrollRunStatus][]PayrollRunStatus{
	PayrollRunDraft:      {PayrollRunProcessing, PayrollRunCancelled},
	PayrollRunProcessing: {PayrollRunCompleted, PayrollRunError},
	PayrollRunCompleted:  {PayrollRunError},
	PayrollRunError:      {},
	PayrollRunCancelled:  {},
}

// CanTransition reports whether a run may move from its current status to target.
func (s PayrollRunStatus) CanTransition(target PayrollRunStatus) bool {
	for _, next := range payrollRunTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// ItemsMutable reports whether items of a run in this status may be changed.
// Only draft runs allow item mutation.
func (s PayrollRunStatus) ItemsMutable() bool {
	return s == PayrollRunDraft
}

// PayrollItemStatus indicates the state of a single payroll item.
type PayrollItemStatus string

const (
	PayrollItemPending   PayrollItemStatus = "PENDING"
	PayrollItemProcessed PayrollItemStatus = "PROCESSED"
	PayrollItemError     PayrollItemStatus = "ERROR"
)

// PayrollRun is a batch of payroll items processed together for one pay period.
// The aggregate fields are derived from the run's items and recomputed on
// every item write.
type PayrollRun struct {
	RunID           string           `json:"runID"`
	OrganizationID  string           `json:"organizationID"`
	Name            string           `json:"name"`
	PeriodStart     time.Time        `json:"periodStart"`
	PeriodEnd       time.Time        `json:"periodEnd"`
	PayDate         time.Time        `json:"payDate"`
	Status          PayrollRunStatus `json:"status"`
	EmployeeCount   int              `json:"employeeCount"`
	GrossAmount     decimal.Decimal  `json:"grossAmount"`
	TaxAmount       decimal.Decimal  `json:"taxAmount"`
	DeductionAmount decimal.Decimal  `json:"deductionAmount"`
	NetAmount       decimal.Decimal  `json:"netAmount"`
	Version         int64            `json:"version"`
	AuditFields
	Items []PayrollItem `json:"items,omitempty"`
}

// PayrollItem is one employee's pay within a run.
// When the hourly fields are present, gross salary is derived as
// regularHours*rate + overtimeHours*rate*1.5; otherwise BaseSalary is the gross.
type PayrollItem struct {
	ItemID          string            `json:"itemID"`
	RunID           string            `json:"runID"`
	OrganizationID  string            `json:"organizationID"`
	EmployeeName    string            `json:"employeeName"`
	EmployeeRef     string            `json:"employeeRef"` // External employee identifier
	RegularHours    *decimal.Decimal  `json:"regularHours,omitempty"`
	OvertimeHours   *decimal.Decimal  `json:"overtimeHours,omitempty"`
	HourlyRate      *decimal.Decimal  `json:"hourlyRate,omitempty"`
	BaseSalary      decimal.Decimal   `json:"baseSalary"`
	GrossSalary     decimal.Decimal   `json:"grossSalary"`
	TaxAmount       decimal.Decimal   `json:"taxAmount"`
	Deductions      decimal.Decimal   `json:"deductions"` // Explicit deductions, excluding taxes
	DeductionAmount decimal.Decimal   `json:"deductionAmount"`
	NetSalary       decimal.Decimal   `json:"netSalary"`
	Status          PayrollItemStatus `json:"status"`
	AuditFields
}

// Hourly reports whether the item carries the hourly wage fields.
func (i PayrollItem) Hourly() bool {
	return i.HourlyRate != nil && i.RegularHours != nil
}
