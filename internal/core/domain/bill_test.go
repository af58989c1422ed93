package domain_test

import (
	"testing"
	"time"

	"github.com/finacore/finacore_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestBillStatus_CanTransition(t *testing.T) {
	tests := []struct {
		name string
		from domain.BillStatus
		to   domain.BillStatus
		want bool
	}{
		{name: "draft to pending", from: domain.BillDraft, to: domain.BillPending, want: true},
		{name: "draft cannot skip to paid", from: domain.BillDraft, to: domain.BillPaid, want: false},
		{name: "pending to paid", from: domain.BillPending, to: domain.BillPaid, want: true},
		{name: "pending to overdue", from: domain.BillPending, to: domain.BillOverdue, want: true},
		{name: "overdue to partially paid", from: domain.BillOverdue, to: domain.BillPartiallyPaid, want: true},
		{name: "paid is terminal", from: domain.BillPaid, to: domain.BillPending, want: false},
		{name: "cancelled is terminal", from: domain.BillCancelled, to: domain.BillDraft, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestBillStatus_Editable(t *testing.T) {
	assert.True(t, domain.BillDraft.Editable())
	assert.True(t, domain.BillPending.Editable())
	assert.True(t, domain.BillOverdue.Editable())
	assert.False(t, domain.BillPaid.Editable())
	assert.False(t, domain.BillPartiallyPaid.Editable())
	assert.False(t, domain.BillCancelled.Editable())
}

func TestEffectiveBillStatus(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -1)
	future := now.AddDate(0, 0, 1)

	assert.Equal(t, domain.BillOverdue, domain.EffectiveBillStatus(domain.BillPending, past, now))
	assert.Equal(t, domain.BillOverdue, domain.EffectiveBillStatus(domain.BillPartiallyPaid, past, now))
	assert.Equal(t, domain.BillPending, domain.EffectiveBillStatus(domain.BillPending, future, now))
	assert.Equal(t, domain.BillDraft, domain.EffectiveBillStatus(domain.BillDraft, past, now))
	assert.Equal(t, domain.BillPaid, domain.EffectiveBillStatus(domain.BillPaid, past, now))
}
