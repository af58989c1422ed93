package dto

import (
	"time"

	"github.com/finacore/finacore_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionLineRequest is a single line of a create/replace request.
// Exactly one of debitAmount/creditAmount must be positive.
type CreateTransactionLineRequest struct {
	AccountID    string          `json:"accountID" binding:"required"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	Memo         string          `json:"memo"`
}

// CreateTransactionRequest defines the data needed to create a transaction
// with its lines. RequestedStatus may be DRAFT or POSTED; POSTED requires the
// balance invariant to hold before anything is written.
type CreateTransactionRequest struct {
	Date            time.Time                      `json:"date" binding:"required"`
	Description     string                         `json:"description" binding:"required"`
	Reference       string                         `json:"reference"`
	CurrencyCode    string                         `json:"currencyCode" binding:"required,len=3"`
	IdempotencyKey  string                         `json:"idempotencyKey"`
	RequestedStatus domain.TransactionStatus       `json:"requestedStatus" binding:"omitempty,oneof=DRAFT POSTED"`
	Lines           []CreateTransactionLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// UpdateTransactionRequest patches the non-line fields of a transaction.
type UpdateTransactionRequest struct {
	Date        *time.Time `json:"date"`
	Description *string    `json:"description"`
	Reference   *string    `json:"reference"`
	Version     int64      `json:"version" binding:"required"`
}

// ReplaceTransactionLinesRequest swaps a draft transaction's entire line set
// in one atomic write.
type ReplaceTransactionLinesRequest struct {
	Lines   []CreateTransactionLineRequest `json:"lines" binding:"required,min=2,dive"`
	Version int64                          `json:"version" binding:"required"`
}

// ListTransactionsParams defines filters for listing transactions.
type ListTransactionsParams struct {
	FromDate  *time.Time                `form:"fromDate" time_format:"2006-01-02"`
	ToDate    *time.Time                `form:"toDate" time_format:"2006-01-02"`
	Status    *domain.TransactionStatus `form:"status" binding:"omitempty,oneof=DRAFT POSTED VOIDED"`
	Search    string                    `form:"search"`
	Limit     int                       `form:"limit,default=20"`
	NextToken *string                   `form:"nextToken"`
}

// TransactionLineResponse mirrors domain.TransactionLine.
type TransactionLineResponse struct {
	LineID       string          `json:"lineID"`
	AccountID    string          `json:"accountID"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	Memo         string          `json:"memo"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID string                    `json:"transactionID"`
	Date          time.Time                 `json:"date"`
	Description   string                    `json:"description"`
	Reference     string                    `json:"reference"`
	Status        domain.TransactionStatus  `json:"status"`
	CurrencyCode  string                    `json:"currencyCode"`
	Version       int64                     `json:"version"`
	Lines         []TransactionLineResponse `json:"lines,omitempty"`
	CreatedAt     time.Time                 `json:"createdAt"`
	CreatedBy     string                    `json:"createdBy"`
	LastUpdatedAt time.Time                 `json:"lastUpdatedAt"`
	LastUpdatedBy string                    `json:"lastUpdatedBy"`
}

// ListTransactionsResponse is a page of transactions plus the next keyset token.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// AdjustBalanceRequest asks the adjustment service to bring an account's
// derived balance to the target value via a synthetic balancing transaction.
type AdjustBalanceRequest struct {
	TargetBalance decimal.Decimal `json:"targetBalance" binding:"required"`
	Memo          string          `json:"memo"`
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	lines := make([]TransactionLineResponse, len(txn.Lines))
	for i, l := range txn.Lines {
		lines[i] = TransactionLineResponse{
			LineID:       l.LineID,
			AccountID:    l.AccountID,
			DebitAmount:  l.DebitAmount,
			CreditAmount: l.CreditAmount,
			Memo:         l.Memo,
		}
	}
	return TransactionResponse{
		TransactionID: txn.TransactionID,
		Date:          txn.Date,
		Description:   txn.Description,
		Reference:     txn.Reference,
		Status:        txn.Status,
		CurrencyCode:  txn.CurrencyCode,
		Version:       txn.Version,
		Lines:         lines,
		CreatedAt:     txn.CreatedAt,
		CreatedBy:     txn.CreatedBy,
		LastUpdatedAt: txn.LastUpdatedAt,
		LastUpdatedBy: txn.LastUpdatedBy,
	}
}

// ToListTransactionsResponse converts a page of domain transactions.
func ToListTransactionsResponse(txns []domain.Transaction, nextToken *string) ListTransactionsResponse {
	res := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		res[i] = ToTransactionResponse(&txn)
	}
	return ListTransactionsResponse{Transactions: res, NextToken: nextToken}
}
