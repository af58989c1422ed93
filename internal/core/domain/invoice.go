package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus indicates the state of a customer invoice.
type InvoiceStatus string

const (
	InvoiceDraft         InvoiceStatus = "DRAFT"
	InvoiceSent          InvoiceStatus = "SENT"
	InvoicePaid          InvoiceStatus = "PAID"
	InvoicePartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	InvoiceOverdue       InvoiceStatus = "OVERDUE"
	InvoiceCancelled     InvoiceStatus = "CANCELLED"
)

var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceDraft:         {InvoiceSent, InvoiceCancelled},
	InvoiceSent:          {InvoicePaid, InvoicePartiallyPaid, InvoiceOverdue, InvoiceCancelled},
	InvoicePartiallyPaid: {InvoicePaid, InvoiceOverdue, InvoiceCancelled},
	InvoiceOverdue:       {InvoicePaid, InvoicePartiallyPaid, InvoiceCancelled},
	InvoicePaid:          {},
	InvoiceCancelled:     {},
}

// CanTransition reports whether an invoice may move from its current status to target.
func (s InvoiceStatus) CanTransition(target InvoiceStatus) bool {
	for _, next := range invoiceTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Editable reports whether the invoice's items may still be changed.
func (s InvoiceStatus) Editable() bool {
	return s == InvoiceDraft || s == InvoiceSent || s == InvoiceOverdue
}

// Invoice is a customer-facing billing document with item-derived totals.
type Invoice struct {
	InvoiceID      string          `json:"invoiceID"`
	OrganizationID string          `json:"organizationID"`
	InvoiceNumber  string          `json:"invoiceNumber"`
	ContactID      string          `json:"contactID"` // Customer
	IssueDate      time.Time       `json:"issueDate"`
	DueDate        time.Time       `json:"dueDate"`
	Status         InvoiceStatus   `json:"status"`
	CurrencyCode   string          `json:"currencyCode"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	Total          decimal.Decimal `json:"total"`
	Notes          string          `json:"notes"`
	Version        int64           `json:"version"`
	AuditFields
	Items []InvoiceItem `json:"items,omitempty"`
}

// InvoiceItem is one line of an invoice. Amount = Quantity * UnitPrice.
type InvoiceItem struct {
	ItemID      string          `json:"itemID"`
	InvoiceID   string          `json:"invoiceID"`
	AccountID   string          `json:"accountID"` // Revenue account this line books to
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TaxRate     decimal.Decimal `json:"taxRate"` // Percent, e.g. 7.5
	Amount      decimal.Decimal `json:"amount"`
}

// EffectiveInvoiceStatus reclassifies an unpaid invoice as OVERDUE once its
// due date has passed. Overdue is time-derived, not only a user action.
func EffectiveInvoiceStatus(status InvoiceStatus, dueDate time.Time, now time.Time) InvoiceStatus {
	if (status == InvoiceSent || status == InvoicePartiallyPaid) && dueDate.Before(now) {
		return InvoiceOverdue
	}
	return status
}
