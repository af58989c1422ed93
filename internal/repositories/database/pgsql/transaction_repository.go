package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/finacore/finacore_backend/internal/apperrors"
	"github.com/finacore/finacore_backend/internal/core/domain"
	portsrepo "github.com/finacore/finacore_backend/internal/core/ports/repositories"
	"github.com/finacore/finacore_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for ledger data.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const transactionColumns = `transaction_id, organization_id, date, description, reference, idempotency_key, status, currency_code, version, created_at, created_by, last_updated_at, last_updated_by`

func scanTransaction(row pgx.Row) (domain.Transaction, error) {
	var txn domain.Transaction
	var idemKey sql.NullString
	err := row.Scan(
		&txn.TransactionID,
		&txn.OrganizationID,
		&txn.Date,
		&txn.Description,
		&txn.Reference,
		&idemKey,
		&txn.Status,
		&txn.CurrencyCode,
		&txn.Version,
		&txn.CreatedAt,
		&txn.CreatedBy,
		&txn.LastUpdatedAt,
		&txn.LastUpdatedBy,
	)
	if idemKey.Valid {
		txn.IdempotencyKey = idemKey.String
	}
	return txn, err
}

func (r *PgxTransactionRepository) insertLinesTx(ctx context.Context, tx pgx.Tx, lines []domain.TransactionLine) error {
	query := `
		INSERT INTO transaction_lines (line_id, transaction_id, account_id, debit_amount, credit_amount, memo, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	batch := &pgx.Batch{}
	for _, line := range lines {
		batch.Queue(query,
			line.LineID,
			line.TransactionID,
			line.AccountID,
			line.DebitAmount,
			line.CreditAmount,
			line.Memo,
			line.CreatedAt,
			line.CreatedBy,
			line.LastUpdatedAt,
			line.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert transaction lines: %w", err)
	}
	return nil
}

// SaveTransaction persists a transaction header and all of its lines in one
// database transaction.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var idemKey sql.NullString
	if txn.IdempotencyKey != "" {
		idemKey = sql.NullString{String: txn.IdempotencyKey, Valid: true}
	}

	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, query,
		txn.TransactionID,
		txn.OrganizationID,
		txn.Date,
		txn.Description,
		txn.Reference,
		idemKey,
		txn.Status,
		txn.CurrencyCode,
		txn.Version,
		txn.CreatedAt,
		txn.CreatedBy,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: transaction already exists", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert transaction %s: %w", txn.TransactionID, err)
	}

	if err := r.insertLinesTx(ctx, tx, txn.Lines); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// FindTransactionByID retrieves a transaction together with its lines.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}

	lines, err := r.findLines(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	txn.Lines = lines
	return &txn, nil
}

func (r *PgxTransactionRepository) findLines(ctx context.Context, transactionID string) ([]domain.TransactionLine, error) {
	query := `
		SELECT line_id, transaction_id, account_id, debit_amount, credit_amount, memo, created_at, created_by, last_updated_at, last_updated_by
		FROM transaction_lines
		WHERE transaction_id = $1
		ORDER BY created_at, line_id;
	`
	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for transaction %s: %w", transactionID, err)
	}
	defer rows.Close()

	lines := []domain.TransactionLine{}
	for rows.Next() {
		var line domain.TransactionLine
		err := rows.Scan(
			&line.LineID,
			&line.TransactionID,
			&line.AccountID,
			&line.DebitAmount,
			&line.CreditAmount,
			&line.Memo,
			&line.CreatedAt,
			&line.CreatedBy,
			&line.LastUpdatedAt,
			&line.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction line row: %w", err)
		}
		lines = append(lines, line)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating transaction line rows: %w", rows.Err())
	}
	return lines, nil
}

// FindTransactionByIdempotencyKey retrieves the transaction stored under the
// organization-scoped idempotency key.
func (r *PgxTransactionRepository) FindTransactionByIdempotencyKey(ctx context.Context, organizationID, key string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE organization_id = $1 AND idempotency_key = $2;`
	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, organizationID, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by idempotency key: %w", err)
	}

	lines, err := r.findLines(ctx, txn.TransactionID)
	if err != nil {
		return nil, err
	}
	txn.Lines = lines
	return &txn, nil
}

// ListTransactions retrieves a keyset-paginated page ordered by (date,
// created_at) descending, without lines.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, organizationID string, filter portsrepo.ListTransactionsFilter) ([]domain.Transaction, *string, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	var sb strings.Builder
	sb.WriteString(`SELECT ` + transactionColumns + ` FROM transactions WHERE organization_id = $1`)
	args := []any{organizationID}

	addArg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Status != nil {
		sb.WriteString(` AND status = ` + addArg(*filter.Status))
	}
	if filter.FromDate != nil {
		sb.WriteString(` AND date >= ` + addArg(*filter.FromDate))
	}
	if filter.ToDate != nil {
		sb.WriteString(` AND date <= ` + addArg(*filter.ToDate))
	}
	if filter.Search != "" {
		p := addArg("%" + filter.Search + "%")
		sb.WriteString(` AND (description ILIKE ` + p + ` OR reference ILIKE ` + p + `)`)
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		tokenDate, tokenCreated, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		sb.WriteString(` AND (date, created_at) < (` + addArg(tokenDate) + `, ` + addArg(tokenCreated) + `)`)
	}

	// Fetch one extra row to know whether a next page exists.
	sb.WriteString(` ORDER BY date DESC, created_at DESC LIMIT ` + addArg(limit+1) + `;`)

	rows, err := r.Pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transactions for organization %s: %w", organizationID, err)
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		transactions = append(transactions, txn)
	}
	if rows.Err() != nil {
		return nil, nil, fmt.Errorf("error iterating transaction rows: %w", rows.Err())
	}

	var nextToken *string
	if len(transactions) > limit {
		transactions = transactions[:limit]
		last := transactions[len(transactions)-1]
		token := pagination.EncodeToken(last.Date, last.CreatedAt)
		nextToken = &token
	}
	return transactions, nextToken, nil
}

// versionedUpdate runs an UPDATE guarded by the version column and maps a
// zero row count to either ErrNotFound or ErrConflict.
func (r *PgxTransactionRepository) versionedUpdate(ctx context.Context, q execer, transactionID string, query string, args ...any) error {
	cmdTag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", transactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		var exists bool
		if err := r.Pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM transactions WHERE transaction_id = $1);`, transactionID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check transaction %s after stale update: %w", transactionID, err)
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("%w: transaction %s was modified concurrently", apperrors.ErrConflict, transactionID)
	}
	return nil
}

// execer is satisfied by both *pgxpool.Pool and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// UpdateTransactionDetails updates the non-line fields guarded by the version check.
func (r *PgxTransactionRepository) UpdateTransactionDetails(ctx context.Context, txn domain.Transaction) error {
	query := `
		UPDATE transactions
		SET date = $3, description = $4, reference = $5, last_updated_at = $6, last_updated_by = $7, version = version + 1
		WHERE transaction_id = $1 AND version = $2;
	`
	return r.versionedUpdate(ctx, r.Pool, txn.TransactionID, query,
		txn.TransactionID,
		txn.Version,
		txn.Date,
		txn.Description,
		txn.Reference,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	)
}

// UpdateTransactionStatus moves a transaction to a new status guarded by the
// version check. Transition legality is the service layer's concern.
func (r *PgxTransactionRepository) UpdateTransactionStatus(ctx context.Context, transactionID string, version int64, status domain.TransactionStatus, userID string, now time.Time) error {
	query := `
		UPDATE transactions
		SET status = $3, last_updated_at = $4, last_updated_by = $5, version = version + 1
		WHERE transaction_id = $1 AND version = $2;
	`
	return r.versionedUpdate(ctx, r.Pool, transactionID, query, transactionID, version, status, now, userID)
}

// ReplaceTransactionLines swaps the entire line set in one database
// transaction, guarded by the header version check.
func (r *PgxTransactionRepository) ReplaceTransactionLines(ctx context.Context, transactionID string, version int64, lines []domain.TransactionLine, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	headerQuery := `
		UPDATE transactions
		SET last_updated_at = $3, last_updated_by = $4, version = version + 1
		WHERE transaction_id = $1 AND version = $2;
	`
	if err := r.versionedUpdate(ctx, tx, transactionID, headerQuery, transactionID, version, now, userID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM transaction_lines WHERE transaction_id = $1;`, transactionID); err != nil {
		return fmt.Errorf("failed to clear lines for transaction %s: %w", transactionID, err)
	}
	if err := r.insertLinesTx(ctx, tx, lines); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// DeleteTransaction removes a transaction; lines cascade via the foreign key.
func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1;`, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
