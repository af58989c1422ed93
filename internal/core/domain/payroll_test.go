package domain_test

import (
	"testing"

	"github.com/finacore/finacore_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPayrollRunStatus_CanTransition(t *testing.T) {
	tests := []struct {
		name string
		from domain.PayrollRunStatus
		to   domain.PayrollRunStatus
		want bool
	}{
		{name: "draft to processing", from: domain.PayrollRunDraft, to: domain.PayrollRunProcessing, want: true},
		{name: "draft to cancelled", from: domain.PayrollRunDraft, to: domain.PayrollRunCancelled, want: true},
		{name: "draft cannot skip to completed", from: domain.PayrollRunDraft, to: domain.PayrollRunCompleted, want: false},
		{name: "processing to completed", from: domain.PayrollRunProcessing, to: domain.PayrollRunCompleted, want: true},
		{name: "processing to error", from: domain.PayrollRunProcessing, to: domain.PayrollRunError, want: true},
		{name: "processing cannot cancel", from: domain.PayrollRunProcessing, to: domain.PayrollRunCancelled, want: false},
		{name: "completed to error", from: domain.PayrollRunCompleted, to: domain.PayrollRunError, want: true},
		{name: "completed cannot reopen", from: domain.PayrollRunCompleted, to: domain.PayrollRunDraft, want: false},
		{name: "error is terminal", from: domain.PayrollRunError, to: domain.PayrollRunProcessing, want: false},
		{name: "cancelled is terminal", from: domain.PayrollRunCancelled, to: domain.PayrollRunDraft, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestPayrollRunStatus_ItemsMutable(t *testing.T) {
	assert.True(t, domain.PayrollRunDraft.ItemsMutable())
	assert.False(t, domain.PayrollRunProcessing.ItemsMutable())
	assert.False(t, domain.PayrollRunCompleted.ItemsMutable())
	assert.False(t, domain.PayrollRunError.ItemsMutable())
	assert.False(t, domain.PayrollRunCancelled.ItemsMutable())
}

func TestPayrollItem_Hourly(t *testing.T) {
	rate := decimal.NewFromInt(20)
	hours := decimal.NewFromInt(40)

	assert.True(t, domain.PayrollItem{HourlyRate: &rate, RegularHours: &hours}.Hourly())
	assert.False(t, domain.PayrollItem{HourlyRate: &rate}.Hourly())
	assert.False(t, domain.PayrollItem{RegularHours: &hours}.Hourly())
	assert.False(t, domain.PayrollItem{BaseSalary: decimal.NewFromInt(1000)}.Hourly())
}
