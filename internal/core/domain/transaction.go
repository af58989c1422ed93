package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus indicates the state of a ledger transaction.
type TransactionStatus string

const (
	TransactionDraft  TransactionStatus = "DRAFT"
	TransactionPosted TransactionStatus = "POSTED"
	TransactionVoided TransactionStatus = "VOIDED"
)

// transactionTransitions is the single source of truth for legal status moves.
// VOIDED is terminal.
var transactionTransitions = map[TransactionStatus][]TransactionStatus{
	TransactionDraft:  {TransactionPosted, TransactionVoided},
	TransactionPosted: {TransactionVoided},
	TransactionVoided: {},
}

// CanTransition reports whether a transaction may move from its current status to target.
func (s TransactionStatus) CanTransition(target TransactionStatus) bool {
	for _, next := range transactionTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Transaction represents a balanced financial event composed of two or more lines.
// A transaction may only reach POSTED when its debit and credit sums are equal.
type Transaction struct {
	TransactionID  string            `json:"transactionID"`
	OrganizationID string            `json:"organizationID"`
	Date           time.Time         `json:"date"`
	Description    string            `json:"description"`
	Reference      string            `json:"reference"`
	IdempotencyKey string            `json:"idempotencyKey,omitempty"` // Optional, unique per organization
	Status         TransactionStatus `json:"status"`
	CurrencyCode   string            `json:"currencyCode"`
	Version        int64             `json:"version"` // Optimistic concurrency token
	AuditFields
	Lines []TransactionLine `json:"lines,omitempty"`
}

// TransactionLine is a single line of a transaction, affecting one account.
// Exactly one of DebitAmount/CreditAmount is positive; the other is zero.
type TransactionLine struct {
	LineID        string          `json:"lineID"`
	TransactionID string          `json:"transactionID"`
	AccountID     string          `json:"accountID"`
	DebitAmount   decimal.Decimal `json:"debitAmount"`
	CreditAmount  decimal.Decimal `json:"creditAmount"`
	Memo          string          `json:"memo"`
	AuditFields
}

// IsDebit reports whether the line carries its amount on the debit side.
func (l TransactionLine) IsDebit() bool {
	return l.DebitAmount.IsPositive()
}

// Amount returns the positive amount of the line, whichever side it is on.
func (l TransactionLine) Amount() decimal.Decimal {
	if l.IsDebit() {
		return l.DebitAmount
	}
	return l.CreditAmount
}
