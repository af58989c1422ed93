package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finacore/finacore_backend/internal/apperrors"
	"github.com/finacore/finacore_backend/internal/core/domain"
	portsrepo "github.com/finacore/finacore_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for chart-of-accounts data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, organization_id, code, name, account_type, currency_code, description, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row pgx.Row) (domain.Account, error) {
	var acc domain.Account
	err := row.Scan(
		&acc.AccountID,
		&acc.OrganizationID,
		&acc.Code,
		&acc.Name,
		&acc.AccountType,
		&acc.CurrencyCode,
		&acc.Description,
		&acc.IsActive,
		&acc.CreatedAt,
		&acc.CreatedBy,
		&acc.LastUpdatedAt,
		&acc.LastUpdatedBy,
	)
	return acc, err
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		account.AccountID,
		account.OrganizationID,
		account.Code,
		account.Name,
		account.AccountType,
		account.CurrencyCode,
		account.Description,
		account.IsActive,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: account code %s already exists in organization", apperrors.ErrDuplicate, account.Code)
		}
		return fmt.Errorf("failed to save account %s: %w", account.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	return &acc, nil
}

// FindAccountByCode retrieves an account by its organization-scoped code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, organizationID, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE organization_id = $1 AND code = $2;`
	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, organizationID, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by code %s: %w", code, err)
	}
	return &acc, nil
}

// FindAccountsByIDs retrieves multiple accounts by their IDs. IDs with no
// matching row are simply absent from the returned map.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by IDs: %w", err)
	}
	defer rows.Close()

	accountsMap := make(map[string]domain.Account)
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row during batch fetch: %w", err)
		}
		accountsMap[acc.AccountID] = acc
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows during batch fetch: %w", err)
	}
	return accountsMap, nil
}

// ListAccounts retrieves a paginated list of accounts for an organization,
// ordered by code. Archived accounts are excluded unless requested.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, organizationID string, includeArchived bool, limit, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE organization_id = $1 AND (is_active = TRUE OR $2)
		ORDER BY code
		LIMIT $3 OFFSET $4;
	`
	rows, err := r.Pool.Query(ctx, query, organizationID, includeArchived, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for organization %s: %w", organizationID, err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row for organization %s: %w", organizationID, err)
		}
		accounts = append(accounts, acc)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating account rows for organization %s: %w", organizationID, rows.Err())
	}
	return accounts, nil
}

// UpdateAccount updates an existing account's mutable details.
// Code, account_type and currency_code are immutable after creation.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	query := `
		UPDATE accounts
		SET name = $2, description = $3, is_active = $4, last_updated_at = $5, last_updated_by = $6
		WHERE account_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		account.AccountID,
		account.Name,
		account.Description,
		account.IsActive,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update account %s: %w", account.AccountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ArchiveAccount marks an account as inactive. Archiving an already archived
// account is a no-op.
func (r *PgxAccountRepository) ArchiveAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $1 AND is_active = TRUE;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, accountID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to execute archive account %s: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Either the account is gone or it was already archived.
		if _, findErr := r.FindAccountByID(ctx, accountID); findErr != nil {
			return findErr
		}
	}
	return nil
}

// DeleteAccount removes an account row entirely. Only safe for accounts
// without transaction lines; the service layer enforces that.
func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM accounts WHERE account_id = $1;`, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete account %s: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SumPostedLines aggregates the debit and credit sides of the account's lines
// over POSTED transactions only. Draft and voided lines never move a balance.
func (r *PgxAccountRepository) SumPostedLines(ctx context.Context, accountID string) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(l.debit_amount), 0), COALESCE(SUM(l.credit_amount), 0)
		FROM transaction_lines l
		JOIN transactions t ON t.transaction_id = l.transaction_id
		WHERE l.account_id = $1 AND t.status = $2;
	`
	var debits, credits decimal.Decimal
	err := r.Pool.QueryRow(ctx, query, accountID, domain.TransactionPosted).Scan(&debits, &credits)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum posted lines for account %s: %w", accountID, err)
	}
	return debits, credits, nil
}

// HasTransactionLines reports whether any transaction line references the account.
func (r *PgxAccountRepository) HasTransactionLines(ctx context.Context, accountID string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM transaction_lines WHERE account_id = $1);`,
		accountID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check transaction lines for account %s: %w", accountID, err)
	}
	return exists, nil
}
