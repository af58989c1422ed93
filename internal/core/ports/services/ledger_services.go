package services

import (
	"context"

	"github.com/finacore/finacore_backend/internal/core/domain"
	"github.com/finacore/finacore_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// LedgerSvcFacade owns balanced transactions and their posting lifecycle.
type LedgerSvcFacade interface {
	// CreateTransaction validates and persists a transaction with its lines
	// as one atomic unit. A POSTED request that fails the balance invariant
	// persists nothing. A replayed idempotency key returns the stored
	// transaction instead of inserting again.
	CreateTransaction(ctx context.Context, organizationID string, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error)

	// GetTransaction retrieves a transaction with its lines.
	GetTransaction(ctx context.Context, organizationID, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves a filtered keyset-paginated page.
	ListTransactions(ctx context.Context, organizationID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)

	// UpdateTransaction patches date/description/reference only. Line
	// composition changes go through ReplaceTransactionLines.
	UpdateTransaction(ctx context.Context, organizationID, transactionID string, req dto.UpdateTransactionRequest, userID string) (*domain.Transaction, error)

	// ReplaceTransactionLines swaps a draft transaction's entire line set in
	// one atomic write, under the same validation as create.
	ReplaceTransactionLines(ctx context.Context, organizationID, transactionID string, req dto.ReplaceTransactionLinesRequest, userID string) (*domain.Transaction, error)

	// DeleteTransaction removes a transaction and its lines. Hard, cascading
	// and irreversible.
	DeleteTransaction(ctx context.Context, organizationID, transactionID string) error

	// PostTransaction moves DRAFT to POSTED, re-validating the balance.
	PostTransaction(ctx context.Context, organizationID, transactionID string, userID string) (*domain.Transaction, error)

	// VoidTransaction moves DRAFT or POSTED to the terminal VOIDED status.
	VoidTransaction(ctx context.Context, organizationID, transactionID string, userID string) (*domain.Transaction, error)
}

// BalanceAdjustmentSvcFacade corrects derived account balances by issuing
// synthetic balancing transactions through the ledger.
type BalanceAdjustmentSvcFacade interface {
	// AdjustAccountBalance brings the account's derived balance to the
	// target by posting a balancing transaction against the organization's
	// adjustment equity account. A zero delta is a no-op returning nil.
	AdjustAccountBalance(ctx context.Context, organizationID, accountID string, targetBalance decimal.Decimal, memo string, userID string) (*domain.Transaction, error)
}
