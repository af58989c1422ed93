package dto

import (
	"time"

	"github.com/finacore/finacore_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBillRequest defines the data needed to create a vendor bill.
// VendorName is found-or-created as a VENDOR contact.
type CreateBillRequest struct {
	BillNumber   string               `json:"billNumber" binding:"required"`
	VendorName   string               `json:"vendorName" binding:"required"`
	VendorEmail  string               `json:"vendorEmail" binding:"omitempty,email"`
	IssueDate    time.Time            `json:"issueDate" binding:"required"`
	DueDate      time.Time            `json:"dueDate" binding:"required"`
	CurrencyCode string               `json:"currencyCode" binding:"required,len=3"`
	Notes        string               `json:"notes"`
	Items        []BillingItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateBillRequest patches a bill; Items, when present, replaces the whole
// item set and re-derives totals.
type UpdateBillRequest struct {
	IssueDate *time.Time         `json:"issueDate"`
	DueDate   *time.Time         `json:"dueDate"`
	Notes     *string            `json:"notes"`
	Status    *domain.BillStatus `json:"status" binding:"omitempty,oneof=DRAFT PENDING PAID PARTIALLY_PAID OVERDUE CANCELLED"`
	Items     []BillingItemRequest `json:"items" binding:"omitempty,min=1,dive"`
	Version   int64              `json:"version" binding:"required"`
}

// ListBillsParams defines filters for listing bills.
type ListBillsParams struct {
	Status   *domain.BillStatus `form:"status" binding:"omitempty,oneof=DRAFT PENDING PAID PARTIALLY_PAID OVERDUE CANCELLED"`
	FromDate *time.Time         `form:"fromDate" time_format:"2006-01-02"`
	ToDate   *time.Time         `form:"toDate" time_format:"2006-01-02"`
	Limit    int                `form:"limit,default=20"`
	Offset   int                `form:"offset,default=0"`
}

// BillResponse defines the data returned for a bill, with the time-derived
// overdue reclassification applied.
type BillResponse struct {
	BillID        string                `json:"billID"`
	BillNumber    string                `json:"billNumber"`
	ContactID     string                `json:"contactID"`
	IssueDate     time.Time             `json:"issueDate"`
	DueDate       time.Time             `json:"dueDate"`
	Status        domain.BillStatus     `json:"status"`
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

// ToBillResponse converts a domain.Bill to its response DTO.
func ToBillResponse(bill *domain.Bill, now time.Time) BillResponse {
	items := make([]BillingItemResponse, len(bill.Items))
	for i, it := range bill.Items {
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
	return BillResponse{
		BillID:        bill.BillID,
		BillNumber:    bill.BillNumber,
		ContactID:     bill.ContactID,
		IssueDate:     bill.IssueDate,
		DueDate:       bill.DueDate,
		Status:        domain.EffectiveBillStatus(bill.Status, bill.DueDate, now),
		CurrencyCode:  bill.CurrencyCode,
		Subtotal:      bill.Subtotal,
		TaxAmount:     bill.TaxAmount,
		Total:         bill.Total,
		Notes:         bill.Notes,
		Version:       bill.Version,
		Items:         items,
		CreatedAt:     bill.CreatedAt,
		LastUpdatedAt: bill.LastUpdatedAt,
	}
}

// ToListBillResponse converts a slice of domain bills.
func ToListBillResponse(bills []domain.Bill, now time.Time) []BillResponse {
	res := make([]BillResponse, len(bills))
	for i, b := range bills {
		res[i] = ToBillResponse(&b, now)
	}
	return res
}
