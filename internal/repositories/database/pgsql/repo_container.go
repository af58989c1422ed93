package pgsql

import (
	portsrepo "github.com/finacore/finacore_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     newPgxAccountRepository(dbPool),
		TransactionRepo: newPgxTransactionRepository(dbPool),
		ContactRepo:     newPgxContactRepository(dbPool),
		InvoiceRepo:     newPgxInvoiceRepository(dbPool),
		BillRepo:        newPgxBillRepository(dbPool),
		PayrollRepo:     newPgxPayrollRepository(dbPool),
	}
}
