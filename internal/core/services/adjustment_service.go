package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/finacore/finacore_backend/internal/apperrors"
	"github.com/finacore/finacore_backend/internal/core/domain"
	portssvc "github.com/finacore/finacore_backend/internal/core/ports/services"
	"github.com/finacore/finacore_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// adjustmentService corrects derived account balances by issuing synthetic
// balancing transactions through the ledger. The counter-side is always the
// organization's adjustment equity account.
type adjustmentService struct {
	BaseService
	accountSvc portssvc.AccountSvcFacade
	ledgerSvc  portssvc.LedgerSvcFacade
}

// NewAdjustmentService creates a new balance adjustment service.
func NewAdjustmentService(accountSvc portssvc.AccountSvcFacade, ledgerSvc portssvc.LedgerSvcFacade) portssvc.BalanceAdjustmentSvcFacade {
	return &adjustmentService{
		accountSvc: accountSvc,
		ledgerSvc:  ledgerSvc,
	}
}

var _ portssvc.BalanceAdjustmentSvcFacade = (*adjustmentService)(nil)

// findOrCreateAdjustmentAccount returns the organization's adjustment equity
// account, creating it on first use.
func (s *adjustmentService) findOrCreateAdjustmentAccount(ctx context.Context, organizationID, currencyCode, userID string) (*domain.Account, error) {
	accounts, err := s.accountSvc.ListAccounts(ctx, organizationID, dto.ListAccountsParams{Limit: 1000})
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		if accounts[i].Code == domain.AdjustmentAccountCode {
			return &accounts[i], nil
		}
	}

	created, err := s.accountSvc.CreateAccount(ctx, organizationID, dto.CreateAccountRequest{
		Code:         domain.AdjustmentAccountCode,
		Name:         "Balance Adjustments",
		AccountType:  domain.Equity,
		CurrencyCode: currencyCode,
		Description:  "Counter-account for manual balance corrections",
	}, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Created concurrently; fetch it.
			return s.findAdjustmentAccount(ctx, organizationID)
		}
		return nil, err
	}
	return created, nil
}

func (s *adjustmentService) findAdjustmentAccount(ctx context.Context, organizationID string) (*domain.Account, error) {
	accounts, err := s.accountSvc.ListAccounts(ctx, organizationID, dto.ListAccountsParams{Limit: 1000})
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		if accounts[i].Code == domain.AdjustmentAccountCode {
			return &accounts[i], nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// AdjustAccountBalance computes the delta between the account's derived
// balance and the target, then posts a two-line balancing transaction. The
// line sides depend on whether the account is debit-normal and on the sign of
// the delta.
func (s *adjustmentService) AdjustAccountBalance(ctx context.Context, organizationID, accountID string, targetBalance decimal.Decimal, memo string, userID string) (*domain.Transaction, error) {
	account, err := s.accountSvc.GetAccountByID(ctx, organizationID, accountID)
	if err != nil {
		return nil, err
	}
	if account.Code == domain.AdjustmentAccountCode {
		return nil, fmt.Errorf("%w: the adjustment account cannot be adjusted against itself", apperrors.ErrValidation)
	}

	current, err := s.accountSvc.GetBalance(ctx, organizationID, accountID)
	if err != nil {
		return nil, err
	}

	delta := targetBalance.Sub(current)
	if delta.IsZero() {
		s.LogInfo(ctx, "Balance already at target, no adjustment emitted",
			slog.String("account_id", accountID))
		return nil, nil
	}

	adjAccount, err := s.findOrCreateAdjustmentAccount(ctx, organizationID, account.CurrencyCode, userID)
	if err != nil {
		return nil, err
	}

	// A positive delta must increase the account on its normal side; the
	// adjustment account takes the opposite side for the same amount.
	amount := delta.Abs()
	accountDebit := account.AccountType.DebitNormal() == delta.IsPositive()

	if memo == "" {
		memo = fmt.Sprintf("Balance adjustment for account %s", account.Code)
	}

	accLine := dto.CreateTransactionLineRequest{AccountID: accountID, Memo: memo}
	adjLine := dto.CreateTransactionLineRequest{AccountID: adjAccount.AccountID, Memo: memo}
	if accountDebit {
		accLine.DebitAmount = amount
		adjLine.CreditAmount = amount
	} else {
		accLine.CreditAmount = amount
		adjLine.DebitAmount = amount
	}

	txn, err := s.ledgerSvc.CreateTransaction(ctx, organizationID, dto.CreateTransactionRequest{
		Date:            time.Now().UTC(),
		Description:     memo,
		CurrencyCode:    account.CurrencyCode,
		RequestedStatus: domain.TransactionPosted,
		Lines:           []dto.CreateTransactionLineRequest{accLine, adjLine},
	}, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to emit adjustment transaction",
			slog.String("account_id", accountID))
		return nil, err
	}

	s.LogInfo(ctx, "Balance adjustment posted",
		slog.String("account_id", accountID),
		slog.String("transaction_id", txn.TransactionID),
		slog.String("delta", delta.String()))
	return txn, nil
}
