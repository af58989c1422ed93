package services

import (
	portsrepo "github.com/finacore/finacore_backend/internal/core/ports/repositories"
	portssvc "github.com/finacore/finacore_backend/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly wired
// dependencies. The account service comes first since the ledger, billing and
// adjustment services all validate accounts through it.
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo)
	container.Ledger = NewLedgerService(repos.TransactionRepo, container.Account)
	container.Adjustment = NewAdjustmentService(container.Account, container.Ledger)
	container.Contact = NewContactService(repos.ContactRepo)
	container.Invoice = NewInvoiceService(repos.InvoiceRepo, container.Contact, container.Account)
	container.Bill = NewBillService(repos.BillRepo, container.Contact, container.Account)
	container.Payroll = NewPayrollService(repos.PayrollRepo)

	return container
}
