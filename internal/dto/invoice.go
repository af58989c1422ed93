package dto

import (
	"time"

	"github.com/finacore/finacore_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BillingItemRequest is one item line of an invoice or bill request.
// Amount is always derived server-side as quantity * unitPrice.
type BillingItemRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unitPrice" binding:"required"`
	TaxRate     decimal.Decimal `json:"taxRate"`
}

// CreateInvoiceRequest defines the data needed to create an invoice.
// CustomerName is found-or-created as a CUSTOMER contact.
type CreateInvoiceRequest struct {
	InvoiceNumber string               `json:"invoiceNumber" binding:"required"`
	CustomerName  string               `json:"customerName" binding:"required"`
	CustomerEmail string               `json:"customerEmail" binding:"omitempty,email"`
	IssueDate     time.Time            `json:"issueDate" binding:"required"`
	DueDate       time.Time            `json:"dueDate" binding:"required"`
	CurrencyCode  string               `json:"currencyCode" binding:"required,len=3"`
	Notes         string               `json:"notes"`
	Items         []BillingItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateInvoiceRequest patches an invoice; Items, when present, replaces the
// whole item set and re-derives totals. Status moves through the transition table.
type UpdateInvoiceRequest struct {
	IssueDate *time.Time            `json:"issueDate"`
	DueDate   *time.Time            `json:"dueDate"`
	Notes     *string               `json:"notes"`
	Status    *domain.InvoiceStatus `json:"status" binding:"omitempty,oneof=DRAFT SENT PAID PARTIALLY_PAID OVERDUE CANCELLED"`
	Items     []BillingItemRequest  `json:"items" binding:"omitempty,min=1,dive"`
	Version   int64                 `json:"version" binding:"required"`
}

// ListInvoicesParams defines filters for listing invoices.
type ListInvoicesParams struct {
	Status   *domain.InvoiceStatus `form:"status" binding:"omitempty,oneof=DRAFT SENT PAID PARTIALLY_PAID OVERDUE CANCELLED"`
	FromDate *time.Time            `form:"fromDate" time_format:"2006-01-02"`
	ToDate   *time.Time            `form:"toDate" time_format:"2006-01-02"`
	Limit    int                   `form:"limit,default=20"`
	Offset   int                   `form:"offset,default=0"`
}

// BillingItemResponse mirrors an invoice or bill item.
type BillingItemResponse struct {
	ItemID      string          `json:"itemID"`
	AccountID   string          `json:"accountID"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TaxRate     decimal.Decimal `json:"taxRate"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoiceResponse defines the data returned for an invoice. Status is the
// effective status: unpaid invoices past their due date read as OVERDUE.
type InvoiceResponse struct {
	InvoiceID     string                `json:"invoiceID"`
	InvoiceNumber string                `json:"invoiceNumber"`
	ContactID     string                `json:"contactID"`
	IssueDate     time.Time             `json:"issueDate"`
	DueDate       time.Time             `json:"dueDate"`
	Status        domain.InvoiceStatus  `json:"status"`
	CurrencyCode  string                `json:"currencyCode"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	TaxAmount     decimal.Decimal       `json:"taxAmount"`
	Total         decimal.Decimal       `json:"total"`
	Notes         string                `json:"notes"`
	Version       int64                 `json:"version"`
	Items         []BillingItemResponse `json:"items,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
	LastUpdatedAt time.Time             `json:"lastUpdatedAt"`
}

// ToInvoiceResponse converts a domain.Invoice, applying the time-derived
// overdue reclassification.
func ToInvoiceResponse(inv *domain.Invoice, now time.Time) InvoiceResponse {
	items := make([]BillingItemResponse, len(inv.Items))
	for i, it := range inv.Items {
		items[i] = BillingItemResponse{
			ItemID:      it.ItemID,
			AccountID:   it.AccountID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
			Amount:      it.Amount,
		}
	}
	return InvoiceResponse{
		InvoiceID:     inv.InvoiceID,
		InvoiceNumber: inv.InvoiceNumber,
		ContactID:     inv.ContactID,
		IssueDate:     inv.IssueDate,
		DueDate:       inv.DueDate,
		Status:        domain.EffectiveInvoiceStatus(inv.Status, inv.DueDate, now),
		CurrencyCode:  inv.CurrencyCode,
		Subtotal:      inv.Subtotal,
		TaxAmount:     inv.TaxAmount,
		Total:         inv.Total,
		Notes:         inv.Notes,
		Version:       inv.Version,
		Items:         items,
		CreatedAt:     inv.CreatedAt,
		LastUpdatedAt: inv.LastUpdatedAt,
	}
}

// ToListInvoiceResponse converts a slice of domain invoices.
func ToListInvoiceResponse(invoices []domain.Invoice, now time.Time) []InvoiceResponse {
	res := make([]InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		res[i] = ToInvoiceResponse(&inv, now)
	}
	return res
}
