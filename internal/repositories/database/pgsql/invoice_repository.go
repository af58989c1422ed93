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

type PgxInvoiceRepository struct {
	BaseRepository
}

// newPgxInvoiceRepository creates a new repository for customer invoices.
func newPgxInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepositoryFacade {
	return &PgxInvoiceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

const invoiceColumns = `invoice_id, organization_id, invoice_number, contact_id, issue_date, due_date, status, currency_code, subtotal, tax_amount, total, notes, version, created_at, created_by, last_updated_at, last_updated_by`

func scanInvoice(row pgx.Row) (domain.Invoice, error) {
	var inv domain.Invoice
	err := row.Scan(
		&inv.InvoiceID,
		&inv.OrganizationID,
		&inv.InvoiceNumber,
		&inv.ContactID,
		&inv.IssueDate,
		&inv.DueDate,
		&inv.Status,
		&inv.CurrencyCode,
		&inv.Subtotal,
		&inv.TaxAmount,
		&inv.Total,
		&inv.Notes,
		&inv.Version,
		&inv.CreatedAt,
		&inv.CreatedBy,
		&inv.LastUpdatedAt,
		&inv.LastUpdatedBy,
	)
	return inv, err
}

func insertInvoiceItemsTx(ctx context.Context, tx pgx.Tx, items []domain.InvoiceItem) error {
	query := `
		INSERT INTO invoice_items (item_id, invoice_id, account_id, description, quantity, unit_price, tax_rate, amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(query, it.ItemID, it.InvoiceID, it.AccountID, it.Description, it.Quantity, it.UnitPrice, it.TaxRate, it.Amount)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert invoice items: %w", err)
	}
	return nil
}

// SaveInvoice persists a new invoice and its items atomically.
func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err = tx.Exec(ctx, query,
		invoice.InvoiceID,
		invoice.OrganizationID,
		invoice.InvoiceNumber,
		invoice.ContactID,
		invoice.IssueDate,
		invoice.DueDate,
		invoice.Status,
		invoice.CurrencyCode,
		invoice.Subtotal,
		invoice.TaxAmount,
		invoice.Total,
		invoice.Notes,
		invoice.Version,
		invoice.CreatedAt,
		invoice.CreatedBy,
		invoice.LastUpdatedAt,
		invoice.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: invoice number %s already exists", apperrors.ErrDuplicate, invoice.InvoiceNumber)
		}
		return fmt.Errorf("failed to insert invoice %s: %w", invoice.InvoiceID, err)
	}

	if err := insertInvoiceItemsTx(ctx, tx, invoice.Items); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// FindInvoiceByID retrieves an invoice together with its items.
func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1;`
	inv, err := scanInvoice(r.Pool.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice by ID %s: %w", invoiceID, err)
	}

	itemQuery := `
		SELECT item_id, invoice_id, account_id, description, quantity, unit_price, tax_rate, amount
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY item_id;
	`
	rows, err := r.Pool.Query(ctx, itemQuery, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items for invoice %s: %w", invoiceID, err)
	}
	defer rows.Close()

	items := []domain.InvoiceItem{}
	for rows.Next() {
		var it domain.InvoiceItem
		if err := rows.Scan(&it.ItemID, &it.InvoiceID, &it.AccountID, &it.Description, &it.Quantity, &it.UnitPrice, &it.TaxRate, &it.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan invoice item row: %w", err)
		}
		items = append(items, it)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating invoice item rows: %w", rows.Err())
	}
	inv.Items = items
	return &inv, nil
}

// ListInvoices retrieves a filtered page of invoices ordered by issue date
// descending, without items.
func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, organizationID string, filter portsrepo.ListInvoicesFilter) ([]domain.Invoice, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	var sb strings.Builder
	sb.WriteString(`SELECT ` + invoiceColumns + ` FROM invoices WHERE organization_id = $1`)
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
		return nil, fmt.Errorf("failed to query invoices for organization %s: %w", organizationID, err)
	}
	defer rows.Close()

	invoices := []domain.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice row: %w", err)
		}
		invoices = append(invoices, inv)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating invoice rows: %w", rows.Err())
	}
	return invoices, nil
}

// UpdateInvoice updates an invoice guarded by the version check, optionally
// swapping the item set in the same database transaction.
func (r *PgxInvoiceRepository) UpdateInvoice(ctx context.Context, invoice domain.Invoice, replaceItems bool) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE invoices
		SET issue_date = $3, due_date = $4, status = $5, subtotal = $6, tax_amount = $7, total = $8, notes = $9,
		    last_updated_at = $10, last_updated_by = $11, version = version + 1
		WHERE invoice_id = $1 AND version = $2;
	`
	cmdTag, err := tx.Exec(ctx, query,
		invoice.InvoiceID,
		invoice.Version,
		invoice.IssueDate,
		invoice.DueDate,
		invoice.Status,
		invoice.Subtotal,
		invoice.TaxAmount,
		invoice.Total,
		invoice.Notes,
		invoice.LastUpdatedAt,
		invoice.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update invoice %s: %w", invoice.InvoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		var exists bool
		if err := r.Pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM invoices WHERE invoice_id = $1);`, invoice.InvoiceID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check invoice %s after stale update: %w", invoice.InvoiceID, err)
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("%w: invoice %s was modified concurrently", apperrors.ErrConflict, invoice.InvoiceID)
	}

	if replaceItems {
		if _, err := tx.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1;`, invoice.InvoiceID); err != nil {
			return fmt.Errorf("failed to clear items for invoice %s: %w", invoice.InvoiceID, err)
		}
		if err := insertInvoiceItemsTx(ctx, tx, invoice.Items); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// DeleteInvoice removes an invoice; items cascade via the foreign key.
func (r *PgxInvoiceRepository) DeleteInvoice(ctx context.Context, invoiceID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM invoices WHERE invoice_id = $1;`, invoiceID)
	if err != nil {
		return fmt.Errorf("failed to delete invoice %s: %w", invoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
