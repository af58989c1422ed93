package repositories

import (
	"context"
	"time"

	"github.com/finacore/finacore_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for chart-of-accounts data.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its organization-scoped code.
	FindAccountByCode(ctx context.Context, organizationID, code string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts for an organization.
	ListAccounts(ctx context.Context, organizationID string, includeArchived bool, limit, offset int) ([]domain.Account, error)
}

// AccountWriter defines write operations for chart-of-accounts data.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an existing account's mutable details.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// ArchiveAccount marks an account as inactive (soft archive).
	ArchiveAccount(ctx context.Context, accountID string, userID string, now time.Time) error

	// DeleteAccount removes an account row entirely.
	DeleteAccount(ctx context.Context, accountID string) error
}

// AccountBalanceReader derives balances by aggregation. The balance is never
// a stored column; it is computed over the lines of posted transactions only.
type AccountBalanceReader interface {
	// SumPostedLines returns the debit and credit sums over the account's
	// lines belonging to POSTED transactions.
	SumPostedLines(ctx context.Context, accountID string) (debits, credits decimal.Decimal, err error)

	// HasTransactionLines reports whether any transaction line, in any
	// status, references the account.
	HasTransactionLines(ctx context.Context, accountID string) (bool, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountBalanceReader
}
