package repositories

// RepositoryProvider bundles all repository facades for injection into the
// service layer.
type RepositoryProvider struct {
	AccountRepo     AccountRepositoryFacade
	TransactionRepo TransactionRepositoryFacade
	ContactRepo     ContactRepositoryFacade
	InvoiceRepo     InvoiceRepositoryFacade
	BillRepo        BillRepositoryFacade
	PayrollRepo     PayrollRepositoryFacade
}
