package domain_test

import (
	"testing"

	"github.com/finacore/finacore_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransactionStatus_CanTransition(t *testing.T) {
	tests := []struct {
		name   string
		from   domain.TransactionStatus
		to     domain.TransactionStatus
		want   bool
	}{
		{name: "draft to posted", from: domain.TransactionDraft, to: domain.TransactionPosted, want: true},
		{name: "draft to voided", from: domain.TransactionDraft, to: domain.TransactionVoided, want: true},
		{name: "posted to voided", from: domain.TransactionPosted, to: domain.TransactionVoided, want: true},
		{name: "posted back to draft", from: domain.TransactionPosted, to: domain.TransactionDraft, want: false},
		{name: "voided is terminal", from: domain.TransactionVoided, to: domain.TransactionDraft, want: false},
		{name: "voided cannot repost", from: domain.TransactionVoided, to: domain.TransactionPosted, want: false},
		{name: "no self transition", from: domain.TransactionPosted, to: domain.TransactionPosted, want: false},
		{name: "unknown status has no moves", from: domain.TransactionStatus("BOGUS"), to: domain.TransactionPosted, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestTransactionLine_Sides(t *testing.T) {
	debit := domain.TransactionLine{DebitAmount: decimal.NewFromInt(100)}
	credit := domain.TransactionLine{CreditAmount: decimal.NewFromInt(75)}

	assert.True(t, debit.IsDebit())
	assert.False(t, credit.IsDebit())
	assert.True(t, debit.Amount().Equal(decimal.NewFromInt(100)))
	assert.True(t, credit.Amount().Equal(decimal.NewFromInt(75)))
}
