package repositories

import (
	"context"
	"time"

	"github.com/finacore/finacore_backend/internal/core/domain"
)

// ListTransactionsFilter narrows a transaction listing.
type ListTransactionsFilter struct {
	FromDate  *time.Time
	ToDate    *time.Time
	Status    *domain.TransactionStatus
	Search    string // Matches description and reference
	Limit     int
	NextToken *string
}

// TransactionReader defines read operations for ledger data.
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction together with its lines.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindTransactionByIdempotencyKey retrieves the transaction previously
	// stored under the given organization-scoped idempotency key, if any.
	FindTransactionByIdempotencyKey(ctx context.Context, organizationID, key string) (*domain.Transaction, error)

	// ListTransactions retrieves a keyset-paginated page of transactions
	// (without lines) plus the token for the next page.
	ListTransactions(ctx context.Context, organizationID string, filter ListTransactionsFilter) ([]domain.Transaction, *string, error)
}

// TransactionWriter defines write operations for ledger data. Every write of
// a transaction header together with lines happens as one atomic unit.
type TransactionWriter interface {
	// SaveTransaction persists a transaction and all of its lines atomically.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// UpdateTransactionDetails updates date/description/reference guarded by
	// the version check. Returns apperrors.ErrConflict on a stale version.
	UpdateTransactionDetails(ctx context.Context, txn domain.Transaction) error

	// UpdateTransactionStatus moves a transaction to a new status guarded by
	// the version check.
	UpdateTransactionStatus(ctx context.Context, transactionID string, version int64, status domain.TransactionStatus, userID string, now time.Time) error

	// ReplaceTransactionLines swaps a transaction's entire line set in one
	// atomic write, guarded by the version check.
	ReplaceTransactionLines(ctx context.Context, transactionID string, version int64, lines []domain.TransactionLine, userID string, now time.Time) error

	// DeleteTransaction removes a transaction and cascades to its lines.
	DeleteTransaction(ctx context.Context, transactionID string) error
}

// TransactionRepositoryFacade combines ledger reader and writer.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
