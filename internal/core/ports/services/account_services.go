package services

import (
	"context"

	"github.com/finacore/finacore_backend/internal/core/domain"
	"github.com/finacore/finacore_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// AccountSvcFacade is the chart-of-accounts registry consumed by handlers and
// by the ledger engine.
type AccountSvcFacade interface {
	// CreateAccount registers a new account. Duplicate (organization, code)
	// pairs are rejected with apperrors.ErrDuplicate.
	CreateAccount(ctx context.Context, organizationID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// GetAccountByID retrieves an account scoped to the organization.
	GetAccountByID(ctx context.Context, organizationID, accountID string) (*domain.Account, error)

	// GetAccountsByIDs retrieves several accounts, all of which must belong
	// to the organization.
	GetAccountsByIDs(ctx context.Context, organizationID string, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves a paginated organization-scoped account list.
	ListAccounts(ctx context.Context, organizationID string, params dto.ListAccountsParams) ([]domain.Account, error)

	// UpdateAccount patches mutable fields. The balance is never writable.
	UpdateAccount(ctx context.Context, organizationID, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)

	// DeleteAccount soft-archives the account when any transaction line
	// references it, otherwise hard-deletes it. Idempotent on repeat calls.
	DeleteAccount(ctx context.Context, organizationID, accountID string, userID string) error

	// GetBalance derives the account balance from posted transaction lines
	// using the account-type sign convention.
	GetBalance(ctx context.Context, organizationID, accountID string) (decimal.Decimal, error)
}
