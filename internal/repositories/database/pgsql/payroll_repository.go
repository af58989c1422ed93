package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/finacore/finacore_backend/internal/apperrors"
	"github.com/finacore/finacore_backend/internal/core/domain"
	portsrepo "github.com/finacore/finacore_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxPayrollRepository struct {
	BaseRepository
}

// newPgxPayrollRepository creates a new repository for payroll runs and items.
func newPgxPayrollRepository(pool *pgxpool.Pool) portsrepo.PayrollRepositoryFacade {
	return &PgxPayrollRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PayrollRepositoryFacade = (*PgxPayrollRepository)(nil)

const payrollRunColumns = `run_id, organization_id, name, period_start, period_end, pay_date, status, employee_count, gross_amount, tax_amount, deduction_amount, net_amount, version, created_at, created_by, last_updated_at, last_updated_by`

const payrollItemColumns = `item_id, run_id, organization_id, employee_name, employee_ref, regular_hours, overtime_hours, hourly_rate, base_salary, gross_salary, tax_amount, deductions, deduction_amount, net_salary, status, created_at, created_by, last_updated_at, last_updated_by`

func nullDecimal(p *decimal.Decimal) decimal.NullDecimal {
	if p == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *p, Valid: true}
}

func decimalPtr(n decimal.NullDecimal) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	d := n.Decimal
	return &d
}

func scanPayrollRun(row pgx.Row) (domain.PayrollRun, error) {
	var run domain.PayrollRun
	err := row.Scan(
		&run.RunID,
		&run.OrganizationID,
		&run.Name,
		&run.PeriodStart,
		&run.PeriodEnd,
		&run.PayDate,
		&run.Status,
		&run.EmployeeCount,
		&run.GrossAmount,
		&run.TaxAmount,
		&run.DeductionAmount,
		&run.NetAmount,
		&run.Version,
		&run.CreatedAt,
		&run.CreatedBy,
		&run.LastUpdatedAt,
		&run.LastUpdatedBy,
	)
	return run, err
}

func scanPayrollItem(row pgx.Row) (domain.PayrollItem, error) {
	var item domain.PayrollItem
	var regular, overtime, rate decimal.NullDecimal
	err := row.Scan(
		&item.ItemID,
		&item.RunID,
		&item.OrganizationID,
		&item.EmployeeName,
		&item.EmployeeRef,
		&regular,
		&overtime,
		&rate,
		&item.BaseSalary,
		&item.GrossSalary,
		&item.TaxAmount,
		&item.Deductions,
		&item.DeductionAmount,
		&item.NetSalary,
		&item.Status,
		&item.CreatedAt,
		&item.CreatedBy,
		&item.LastUpdatedAt,
		&item.LastUpdatedBy,
	)
	item.RegularHours = decimalPtr(regular)
	item.OvertimeHours = decimalPtr(overtime)
	item.HourlyRate = decimalPtr(rate)
	return item, err
}

// FindPayrollRunByID retrieves a run without its items.
func (r *PgxPayrollRepository) FindPayrollRunByID(ctx context.Context, runID string) (*domain.PayrollRun, error) {
	query := `SELECT ` + payrollRunColumns + ` FROM payroll_runs WHERE run_id = $1;`
	run, err := scanPayrollRun(r.Pool.QueryRow(ctx, query, runID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payroll run by ID %s: %w", runID, err)
	}
	return &run, nil
}

// ListPayrollRuns retrieves a filtered page of runs ordered by pay date
// descending, plus the page-independent total for the filter.
func (r *PgxPayrollRepository) ListPayrollRuns(ctx context.Context, organizationID string, filter portsrepo.ListPayrollRunsFilter) ([]domain.PayrollRun, int, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	countQuery := `SELECT COUNT(*) FROM payroll_runs WHERE organization_id = $1 AND ($2::text IS NULL OR status = $2);`
	pageQuery := `
		SELECT ` + payrollRunColumns + `
		FROM payroll_runs
		WHERE organization_id = $1 AND ($2::text IS NULL OR status = $2)
		ORDER BY pay_date DESC, created_at DESC
		LIMIT $3 OFFSET $4;
	`

	var statusArg *string
	if filter.Status != nil {
		s := string(*filter.Status)
		statusArg = &s
	}

	var total int
	if err := r.Pool.QueryRow(ctx, countQuery, organizationID, statusArg).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll runs for organization %s: %w", organizationID, err)
	}

	rows, err := r.Pool.Query(ctx, pageQuery, organizationID, statusArg, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query payroll runs for organization %s: %w", organizationID, err)
	}
	defer rows.Close()

	runs := []domain.PayrollRun{}
	for rows.Next() {
		run, err := scanPayrollRun(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll run row: %w", err)
		}
		runs = append(runs, run)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("error iterating payroll run rows: %w", rows.Err())
	}
	return runs, total, nil
}

// SavePayrollRun persists a new run.
func (r *PgxPayrollRepository) SavePayrollRun(ctx context.Context, run domain.PayrollRun) error {
	query := `
		INSERT INTO payroll_runs (` + payrollRunColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := r.Pool.Exec(ctx, query,
		run.RunID,
		run.OrganizationID,
		run.Name,
		run.PeriodStart,
		run.PeriodEnd,
		run.PayDate,
		run.Status,
		run.EmployeeCount,
		run.GrossAmount,
		run.TaxAmount,
		run.DeductionAmount,
		run.NetAmount,
		run.Version,
		run.CreatedAt,
		run.CreatedBy,
		run.LastUpdatedAt,
		run.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: payroll run already exists", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save payroll run %s: %w", run.RunID, err)
	}
	return nil
}

// updateRunTx writes the run's full mutable state guarded by the version check.
func (r *PgxPayrollRepository) updateRunTx(ctx context.Context, q execer, run domain.PayrollRun) error {
	query := `
		UPDATE payroll_runs
		SET name = $3, period_start = $4, period_end = $5, pay_date = $6, status = $7,
		    employee_count = $8, gross_amount = $9, tax_amount = $10, deduction_amount = $11, net_amount = $12,
		    last_updated_at = $13, last_updated_by = $14, version = version + 1
		WHERE run_id = $1 AND version = $2;
	`
	cmdTag, err := q.Exec(ctx, query,
		run.RunID,
		run.Version,
		run.Name,
		run.PeriodStart,
		run.PeriodEnd,
		run.PayDate,
		run.Status,
		run.EmployeeCount,
		run.GrossAmount,
		run.TaxAmount,
		run.DeductionAmount,
		run.NetAmount,
		run.LastUpdatedAt,
		run.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update payroll run %s: %w", run.RunID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		var exists bool
		if err := r.Pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM payroll_runs WHERE run_id = $1);`, run.RunID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check payroll run %s after stale update: %w", run.RunID, err)
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("%w: payroll run %s was modified concurrently", apperrors.ErrConflict, run.RunID)
	}
	return nil
}

// UpdatePayrollRun updates a run guarded by the version check.
func (r *PgxPayrollRepository) UpdatePayrollRun(ctx context.Context, run domain.PayrollRun) error {
	return r.updateRunTx(ctx, r.Pool, run)
}

// DeletePayrollRun removes a run; items cascade via the foreign key.
func (r *PgxPayrollRepository) DeletePayrollRun(ctx context.Context, runID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM payroll_runs WHERE run_id = $1;`, runID)
	if err != nil {
		return fmt.Errorf("failed to delete payroll run %s: %w", runID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindPayrollItemByID retrieves one item.
func (r *PgxPayrollRepository) FindPayrollItemByID(ctx context.Context, itemID string) (*domain.PayrollItem, error) {
	query := `SELECT ` + payrollItemColumns + ` FROM payroll_items WHERE item_id = $1;`
	item, err := scanPayrollItem(r.Pool.QueryRow(ctx, query, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payroll item by ID %s: %w", itemID, err)
	}
	return &item, nil
}

// FindItemsByRunID retrieves all items of a run ordered by employee name.
func (r *PgxPayrollRepository) FindItemsByRunID(ctx context.Context, runID string) ([]domain.PayrollItem, error) {
	query := `SELECT ` + payrollItemColumns + ` FROM payroll_items WHERE run_id = $1 ORDER BY employee_name, item_id;`
	rows, err := r.Pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items for payroll run %s: %w", runID, err)
	}
	defer rows.Close()

	items := []domain.PayrollItem{}
	for rows.Next() {
		item, err := scanPayrollItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll item row: %w", err)
		}
		items = append(items, item)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating payroll item rows: %w", rows.Err())
	}
	return items, nil
}

func insertPayrollItemsTx(ctx context.Context, tx pgx.Tx, items []domain.PayrollItem) error {
	query := `
		INSERT INTO payroll_items (` + payrollItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query,
			item.ItemID,
			item.RunID,
			item.OrganizationID,
			item.EmployeeName,
			item.EmployeeRef,
			nullDecimal(item.RegularHours),
			nullDecimal(item.OvertimeHours),
			nullDecimal(item.HourlyRate),
			item.BaseSalary,
			item.GrossSalary,
			item.TaxAmount,
			item.Deductions,
			item.DeductionAmount,
			item.NetSalary,
			item.Status,
			item.CreatedAt,
			item.CreatedBy,
			item.LastUpdatedAt,
			item.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert payroll items: %w", err)
	}
	return nil
}

func updatePayrollItemsTx(ctx context.Context, tx pgx.Tx, items []domain.PayrollItem) error {
	query := `
		UPDATE payroll_items
		SET employee_name = $2, employee_ref = $3, regular_hours = $4, overtime_hours = $5, hourly_rate = $6,
		    base_salary = $7, gross_salary = $8, tax_amount = $9, deductions = $10, deduction_amount = $11,
		    net_salary = $12, status = $13, last_updated_at = $14, last_updated_by = $15
		WHERE item_id = $1;
	`
	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query,
			item.ItemID,
			item.EmployeeName,
			item.EmployeeRef,
			nullDecimal(item.RegularHours),
			nullDecimal(item.OvertimeHours),
			nullDecimal(item.HourlyRate),
			item.BaseSalary,
			item.GrossSalary,
			item.TaxAmount,
			item.Deductions,
			item.DeductionAmount,
			item.NetSalary,
			item.Status,
			item.LastUpdatedAt,
			item.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to update payroll items: %w", err)
	}
	return nil
}

// SavePayrollItem inserts an item and writes the run's re-derived totals in
// the same database transaction.
func (r *PgxPayrollRepository) SavePayrollItem(ctx context.Context, item domain.PayrollItem, runTotals domain.PayrollRun) error {
	return r.SavePayrollItems(ctx, []domain.PayrollItem{item}, runTotals)
}

// SavePayrollItems inserts a batch of items and writes the run totals atomically.
func (r *PgxPayrollRepository) SavePayrollItems(ctx context.Context, items []domain.PayrollItem, runTotals domain.PayrollRun) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertPayrollItemsTx(ctx, tx, items); err != nil {
		return err
	}
	if err := r.updateRunTx(ctx, tx, runTotals); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// UpdatePayrollItem updates an item and the run totals atomically.
func (r *PgxPayrollRepository) UpdatePayrollItem(ctx context.Context, item domain.PayrollItem, runTotals domain.PayrollRun) error {
	return r.UpdatePayrollItems(ctx, []domain.PayrollItem{item}, runTotals)
}

// UpdatePayrollItems rewrites a set of items and the run totals atomically.
func (r *PgxPayrollRepository) UpdatePayrollItems(ctx context.Context, items []domain.PayrollItem, runTotals domain.PayrollRun) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := updatePayrollItemsTx(ctx, tx, items); err != nil {
		return err
	}
	if err := r.updateRunTx(ctx, tx, runTotals); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// DeletePayrollItem removes an item and writes the run totals atomically.
func (r *PgxPayrollRepository) DeletePayrollItem(ctx context.Context, itemID string, runTotals domain.PayrollRun) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	cmdTag, err := tx.Exec(ctx, `DELETE FROM payroll_items WHERE item_id = $1;`, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete payroll item %s: %w", itemID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	if err := r.updateRunTx(ctx, tx, runTotals); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}
