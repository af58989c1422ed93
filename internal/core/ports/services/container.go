package services

// ServiceContainer bundles all service facades for injection into handlers.
type ServiceContainer struct {
	Account    AccountSvcFacade
	Ledger     LedgerSvcFacade
	Adjustment BalanceAdjustmentSvcFacade
	Contact    ContactSvcFacade
	Invoice    InvoiceSvcFacade
	Bill       BillSvcFacade
	Payroll    PayrollSvcFacade
}
