package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// ValidAccountType reports whether t is one of the five account types.
func ValidAccountType(t AccountType) bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// AdjustmentAccountCode is the chart code of the synthetic equity account used
// to balance manual balance corrections. It is found-or-created per organization.
const AdjustmentAccountCode = "3999"

// Account represents an entry in the chart of accounts.
// Balance is never stored authoritatively; it is always derived by aggregating
// the lines of posted transactions.
type Account struct {
	AccountID      string      `json:"accountID"`
	OrganizationID string      `json:"organizationID"`
	Code           string      `json:"code"` // Unique per organization
	Name           string      `json:"name"`
	AccountType    AccountType `json:"accountType"`
	CurrencyCode   string      `json:"currencyCode"` // Carried only; no conversion
	Description    string      `json:"description"`
	IsActive       bool        `json:"isActive"`
	AuditFields
}

// DebitNormal reports whether the account type increases on the debit side.
// Asset and expense accounts are debit-normal; liability, equity and revenue
// accounts are credit-normal.
func (t AccountType) DebitNormal() bool {
	return t == Asset || t == Expense
}

// SignedBalance applies the account-type sign convention to raw debit and
// credit sums: asset/expense = debit - credit, liability/equity/revenue =
// credit - debit.
func (t AccountType) SignedBalance(debits, credits decimal.Decimal) decimal.Decimal {
	if t.DebitNormal() {
		return debits.Sub(credits)
	}
	return credits.Sub(debits)
}
