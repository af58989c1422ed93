package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillStatus indicates the state of a vendor bill.
type BillStatus string

const (
	BillDraft         BillStatus = "DRAFT"
	BillPending       BillStatus = "PENDING"
	BillPaid          BillStatus = "PAID"
	BillPartiallyPaid BillStatus = "PARTIALLY_PAID"
	BillOverdue       BillStatus = "OVERDUE"
	BillCancelled     BillStatus = "CANCELLED"
)

var billTransitions = map[BillStatus][]BillStatus{
	BillDraft:         {BillPending, BillCancelled},
	BillPending:       {BillPaid, BillPartiallyPaid, BillOverdue, BillCancelled},
	BillPartiallyPaid: {BillPaid, BillOverdue, BillCancelled},
	BillOverdue:       {BillPaid, BillPartiallyPaid, BillCancelled},
	BillPaid:          {},
	BillCancelled:     {},
}

// CanTransition reports whether a bill may move from its current status to target.
func (s BillStatus) CanTransition(target BillStatus) bool {
	for _, next := range billTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Editable reports whether the bill's items may still be changed.
func (s BillStatus) Editable() bool {
	return s == BillDraft || s == BillPending || s == BillOverdue
}

// Bill is a vendor-facing billing document with item-derived totals.
type Bill struct {
	BillID         string          `json:"billID"`
	OrganizationID string          `json:"organizationID"`
	BillNumber     string          `json:"billNumber"`
	ContactID      string          `json:"contactID"` // Vendor
	IssueDate      time.Time       `json:"issueDate"`
	DueDate        time.Time       `json:"dueDate"`
	Status         BillStatus      `json:"status"`
	CurrencyCode   string          `json:"currencyCode"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	Total          decimal.Decimal `json:"total"`
	Notes          string          `json:"notes"`
	Version        int64           `json:"version"`
	AuditFields
	Items []BillItem `json:"items,omitempty"`
}

// BillItem is one line of a bill. Amount = Quantity * UnitPrice.
type BillItem struct {
	ItemID      string          `json:"itemID"`
	BillID      string          `json:"billID"`
	AccountID   string          `json:"accountID"` // Expense account this line books to
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TaxRate     decimal.Decimal `json:"taxRate"` // Percent
	Amount      decimal.Decimal `json:"amount"`
}

// EffectiveBillStatus reclassifies an unpaid bill as OVERDUE once its due date
// has passed.
func EffectiveBillStatus(status BillStatus, dueDate time.Time, now time.Time) BillStatus {
	if (status == BillPending || status == BillPartiallyPaid) && dueDate.Before(now) {
		return BillOverdue
	}
	return status
}
