package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/finacore/finacore_backend/internal/apperrors"
	"github.com/finacore/finacore_backend/internal/core/domain"
	portsrepo "github.com/finacore/finacore_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxBillRepository struct {
	BaseRepository
}

// newPgxBillRepository creates a new repository for vendor bills.
func newPgxBillRepository(pool *pgxpool.Pool) portsrepo.BillRepositoryFacade {
	return &PgxBillRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BillRepositoryFacade = (*PgxBillRepository)(nil)

const billColumns = `bill_id, organization_id, bill_number, contact_id, issue_date, due_date, status, currency_code, subtotal, tax_amount, total, notes, version, created_at, created_by, last_updated_at, last_updated_by`

func scanBill(row pgx.Row) (domain.Bill, error) {
	var bill domain.Bill
	err := row.Scan(
		&bill.BillID,
		&bill.OrganizationID,
		&bill.BillNumber,
		&bill.ContactID,
		&bill.IssueDate,
		&bill.DueDate,
		&bill.Status,
		&bill.CurrencyCode,
		&bill.Subtotal,
		&bill.TaxAmount,
		&bill.Total,
		&bill.Notes,
		&bill.Version,
		&bill.CreatedAt,
		&bill.CreatedBy,
		&bill.LastUpdatedAt,
		&bill.LastUpdatedBy,
	)
	return bill, err
}

func insertBillItemsTx(ctx context.Context, tx pgx.Tx, items []domain.BillItem) error {
	query := `
		INSERT INTO bill_items (item_id, bill_id, account_id, description, quantity, unit_price, tax_rate, amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(query, it.ItemID, it.BillID, it.AccountID, it.Description, it.Quantity, it.UnitPrice, it.TaxRate, it.Amount)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert bill items: %w", err)
	}
	return nil
}

// SaveBill persists a new bill and its items atomically.
func (r *PgxBillRepository) SaveBill(ctx context.Context, bill domain.Bill) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO bills (` + billColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err = tx.Exec(ctx, query,
		bill.BillID,
		bill.OrganizationID,
		bill.BillNumber,
		bill.ContactID,
		bill.IssueDate,
		bill.DueDate,
		bill.Status,
		bill.CurrencyCode,
		bill.Subtotal,
		bill.TaxAmount,
		bill.Total,
		bill.Notes,
		bill.Version,
		bill.CreatedAt,
		bill.CreatedBy,
		bill.LastUpdatedAt,
		bill.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: bill number %s already exists", apperrors.ErrDuplicate, bill.BillNumber)
		}
		return fmt.Errorf("failed to insert bill %s: %w", bill.BillID, err)
	}

	if err := insertBillItemsTx(ctx, tx, bill.Items); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// FindBillByID retrieves a bill together with its items.
func (r *PgxBillRepository) FindBillByID(ctx context.Context, billID string) (*domain.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE bill_id = $1;`
	bill, err := scanBill(r.Pool.QueryRow(ctx, query, billID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find bill by ID %s: %w", billID, err)
	}

	itemQuery := `
		SELECT item_id, bill_id, account_id, description, quantity, unit_price, tax_rate, amount
		FROM bill_items
		WHERE bill_id = $1
		ORDER BY item_id;
	`
	rows, err := r.Pool.Query(ctx, itemQuery, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items for bill %s: %w", billID, err)
	}
	defer rows.Close()

	items := []domain.BillItem{}
	for rows.Next() {
		var it domain.BillItem
		if err := rows.Scan(&it.ItemID, &it.BillID, &it.AccountID, &it.Description, &it.Quantity, &it.UnitPrice, &it.TaxRate, &it.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan bill item row: %w", err)
		}
		items = append(items, it)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating bill item rows: %w", rows.Err())
	}
	bill.Items = items
	return &bill, nil
}

// ListBills retrieves a filtered page of bills ordered by issue date
// descending, without items.
func (r *PgxBillRepository) ListBills(ctx context.Context, organizationID string, filter portsrepo.ListBillsFilter) ([]domain.Bill, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	var sb strings.Builder
	sb.WriteString(`SELECT ` + billColumns + ` FROM bills WHERE organization_id = $1`)
	args := []any{organizationID}

	addArg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Status != nil {
		sb.WriteString(` AND status = ` + addArg(*filter.Status))
	}
	if filter.FromDate != nil {
		sb.WriteString(` AND issue_date >= ` + addArg(*filter.FromDate))
	}
	if filter.ToDate != nil {
		sb.WriteString(` AND issue_date <= ` + addArg(*filter.ToDate))
	}
	sb.WriteString(` ORDER BY issue_date DESC, created_at DESC LIMIT ` + addArg(limit) + ` OFFSET ` + addArg(offset) + `;`)

	rows, err := r.Pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bills for organization %s: %w", organizationID, err)
	}
	defer rows.Close()

	bills := []domain.Bill{}
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill row: %w", err)
		}
		bills = append(bills, bill)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating bill rows: %w", rows.Err())
	}
	return bills, nil
}

// UpdateBill updates a bill guarded by the version check, optionally swapping
// the item set in the same database transaction.
func (r *PgxBillRepository) UpdateBill(ctx context.Context, bill domain.Bill, replaceItems bool) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE bills
		SET issue_date = $3, due_date = $4, status = $5, subtotal = $6, tax_amount = $7, total = $8, notes = $9,
		    last_updated_at = $10, last_updated_by = $11, version = version + 1
		WHERE bill_id = $1 AND version = $2;
	`
	cmdTag, err := tx.Exec(ctx, query,
		bill.BillID,
		bill.Version,
		bill.IssueDate,
		bill.DueDate,
		bill.Status,
		bill.Subtotal,
		bill.TaxAmount,
		bill.Total,
		bill.Notes,
		bill.LastUpdatedAt,
		bill.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update bill %s: %w", bill.BillID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		var exists bool
		if err := r.Pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM bills WHERE bill_id = $1);`, bill.BillID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check bill %s after stale update: %w", bill.BillID, err)
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("%w: bill %s was modified concurrently", apperrors.ErrConflict, bill.BillID)
	}

	if replaceItems {
		if _, err := tx.Exec(ctx, `DELETE FROM bill_items WHERE bill_id = $1;`, bill.BillID); err != nil {
			return fmt.Errorf("failed to clear items for bill %s: %w", bill.BillID, err)
		}
		if err := insertBillItemsTx(ctx, tx, bill.Items); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// DeleteBill removes a bill; items cascade via the foreign key.
func (r *PgxBillRepository) DeleteBill(ctx context.Context, billID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM bills WHERE bill_id = $1;`, billID)
	if err != nil {
		return fmt.Errorf("failed to delete bill %s: %w", billID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
