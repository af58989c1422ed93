package payroll_test

import (
	"testing"

	"github.com/finacore/finacore_backend/internal/core/domain"
	"github.com/finacore/finacore_backend/internal/utils/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculateTaxes(t *testing.T) {
	b := payroll.CalculateTaxes(decimal.NewFromInt(1000))

	assert.True(t, b.FederalTax.Equal(dec("150")), "federal: %s", b.FederalTax)
	assert.True(t, b.StateTax.Equal(dec("50")), "state: %s", b.StateTax)
	assert.True(t, b.LocalTax.Equal(dec("0")), "local: %s", b.LocalTax)
	assert.True(t, b.MedicareTax.Equal(dec("14.5")), "medicare: %s", b.MedicareTax)
	assert.True(t, b.SocialSecurityTax.Equal(dec("62")), "social security: %s", b.SocialSecurityTax)
	assert.True(t, b.TotalTax.Equal(dec("276.5")), "total: %s", b.TotalTax)
}

func TestCalculateTaxes_ZeroGross(t *testing.T) {
	b := payroll.CalculateTaxes(decimal.Zero)
	assert.True(t, b.TotalTax.IsZero())
}

func TestGrossSalary_Hourly(t *testing.T) {
	regular := decimal.NewFromInt(40)
	overtime := decimal.NewFromInt(5)
	rate := decimal.NewFromInt(20)
	item := domain.PayrollItem{
		RegularHours:  &regular,
		OvertimeHours: &overtime,
		HourlyRate:    &rate,
	}

	// 40*20 + 5*20*1.5 = 950
	assert.True(t, payroll.GrossSalary(item).Equal(dec("950")))
}

func TestGrossSalary_HourlyWithoutOvertime(t *testing.T) {
	regular := decimal.NewFromInt(40)
	rate := decimal.NewFromInt(20)
	item := domain.PayrollItem{
		RegularHours: &regular,
		HourlyRate:   &rate,
	}

	assert.True(t, payroll.GrossSalary(item).Equal(dec("800")))
}

func TestGrossSalary_Salaried(t *testing.T) {
	item := domain.PayrollItem{BaseSalary: dec("5000")}
	assert.True(t, payroll.GrossSalary(item).Equal(dec("5000")))
}

func TestDerive(t *testing.T) {
	item := domain.PayrollItem{
		BaseSalary: decimal.NewFromInt(1000),
		Deductions: decimal.NewFromInt(100),
	}

	derived := payroll.Derive(item)

	assert.True(t, derived.GrossSalary.Equal(dec("1000")))
	assert.True(t, derived.TaxAmount.Equal(dec("276.5")))
	assert.True(t, derived.DeductionAmount.Equal(dec("376.5")))
	assert.True(t, derived.NetSalary.Equal(dec("623.5")))
}

func TestDerive_Idempotent(t *testing.T) {
	regular := decimal.NewFromInt(40)
	overtime := decimal.NewFromInt(5)
	rate := decimal.NewFromInt(20)
	item := domain.PayrollItem{
		RegularHours:  &regular,
		OvertimeHours: &overtime,
		HourlyRate:    &rate,
		Deductions:    decimal.NewFromInt(50),
	}

	once := payroll.Derive(item)
	twice := payroll.Derive(once)

	assert.True(t, once.GrossSalary.Equal(twice.GrossSalary))
	assert.True(t, once.TaxAmount.Equal(twice.TaxAmount))
	assert.True(t, once.DeductionAmount.Equal(twice.DeductionAmount))
	assert.True(t, once.NetSalary.Equal(twice.NetSalary))
}

func TestAggregate(t *testing.T) {
	items := []domain.PayrollItem{
		payroll.Derive(domain.PayrollItem{BaseSalary: decimal.NewFromInt(1000)}),
		payroll.Derive(domain.PayrollItem{BaseSalary: decimal.NewFromInt(2000), Deductions: decimal.NewFromInt(100)}),
	}

	run := payroll.Aggregate(domain.PayrollRun{}, items)

	require.Equal(t, 2, run.EmployeeCount)
	assert.True(t, run.GrossAmount.Equal(dec("3000")))
	assert.True(t, run.TaxAmount.Equal(dec("829.5")))
	assert.True(t, run.DeductionAmount.Equal(dec("929.5")))
	assert.True(t, run.NetAmount.Equal(dec("2070.5")))
}

func TestAggregate_EmptyRunZeroes(t *testing.T) {
	run := payroll.Aggregate(domain.PayrollRun{
		EmployeeCount: 3,
		GrossAmount:   decimal.NewFromInt(999),
	}, nil)

	assert.Equal(t, 0, run.EmployeeCount)
	assert.True(t, run.GrossAmount.IsZero())
	assert.True(t, run.NetAmount.IsZero())
}
