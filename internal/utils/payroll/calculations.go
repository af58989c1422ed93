package payroll

import (
	"github.com/finacore/finacore_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Flat withholding rates. There are no bracket thresholds; this is a
// documented limitation of the tax model, not an oversight.
var (
	FederalRate        = decimal.RequireFromString("0.15")
	StateRate          = decimal.RequireFromString("0.05")
	LocalRate          = decimal.RequireFromString("0.00")
	MedicareRate       = decimal.RequireFromString("0.0145")
	SocialSecurityRate = decimal.RequireFromString("0.062")
)

var overtimeMultiplier = decimal.RequireFromString("1.5")

// TaxBreakdown holds the five withholding components and their sum.
type TaxBreakdown struct {
	FederalTax        decimal.Decimal `json:"federalTax"`
	StateTax          decimal.Decimal `json:"stateTax"`
	LocalTax          decimal.Decimal `json:"localTax"`
	MedicareTax       decimal.Decimal `json:"medicareTax"`
	SocialSecurityTax decimal.Decimal `json:"socialSecurityTax"`
	TotalTax          decimal.Decimal `json:"totalTax"`
}

// CalculateTaxes computes the flat-rate withholding for a gross amount.
// It is a pure function: equal inputs always yield equal outputs.
func CalculateTaxes(gross decimal.Decimal) TaxBreakdown {
	b := TaxBreakdown{
		FederalTax:        gross.Mul(FederalRate),
		StateTax:          gross.Mul(StateRate),
		LocalTax:          gross.Mul(LocalRate),
		MedicareTax:       gross.Mul(MedicareRate),
		SocialSecurityTax: gross.Mul(SocialSecurityRate),
	}
	b.TotalTax = b.FederalTax.Add(b.StateTax).Add(b.LocalTax).Add(b.MedicareTax).Add(b.SocialSecurityTax)
	return b
}

// GrossSalary derives an item's gross pay. With hourly fields present:
// regularHours*rate + overtimeHours*rate*1.5. Otherwise the supplied base salary.
func GrossSalary(item domain.PayrollItem) decimal.Decimal {
	if !item.Hourly() {
		return item.BaseSalary
	}
	gross := item.RegularHours.Mul(*item.HourlyRate)
	if item.OvertimeHours != nil && item.OvertimeHours.IsPositive() {
		gross = gross.Add(item.OvertimeHours.Mul(*item.HourlyRate).Mul(overtimeMultiplier))
	}
	return gross
}

// Derive recomputes the dependent money fields of an item from its gross
// inputs and explicit deductions. Calling it twice with unchanged inputs
// yields an identical item.
func Derive(item domain.PayrollItem) domain.PayrollItem {
	item.GrossSalary = GrossSalary(item)
	item.TaxAmount = CalculateTaxes(item.GrossSalary).TotalTax
	item.DeductionAmount = item.TaxAmount.Add(item.Deductions)
	item.NetSalary = item.GrossSalary.Sub(item.DeductionAmount)
	return item
}

// Aggregate recomputes a run's derived totals from its current items.
func Aggregate(run domain.PayrollRun, items []domain.PayrollItem) domain.PayrollRun {
	run.EmployeeCount = len(items)
	run.GrossAmount = decimal.Zero
	run.TaxAmount = decimal.Zero
	run.DeductionAmount = decimal.Zero
	run.NetAmount = decimal.Zero
	for _, item := range items {
		run.GrossAmount = run.GrossAmount.Add(item.GrossSalary)
		run.TaxAmount = run.TaxAmount.Add(item.TaxAmount)
		run.DeductionAmount = run.DeductionAmount.Add(item.DeductionAmount)
		run.NetAmount = run.NetAmount.Add(item.NetSalary)
	}
	return run
}
