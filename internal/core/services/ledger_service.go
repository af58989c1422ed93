package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/finacore/finacore_backend/internal/apperrors"
	"github.com/finacore/finacore_backend/internal/core/domain"
	portsrepo "github.com/finacore/finacore_backend/internal/core/ports/repositories"
	portssvc "github.com/finacore/finacore_backend/internal/core/ports/services"
	"github.com/finacore/finacore_backend/internal/dto"
	"github.com/finacore/finacore_backend/internal/utils/accounting"
	"github.com/google/uuid"
)

var (
	ErrTransactionUnbalanced = errors.New("transaction debits and credits do not balance")
	ErrTransactionMinLines   = errors.New("transaction must have at least two lines")
	ErrAccountNotFound       = errors.New("account not found")
	ErrLinesImmutable        = errors.New("lines of a non-draft transaction are immutable")
)

// ledgerService provides balanced transactions and their posting lifecycle.
type ledgerService struct {
	BaseService
	txnRepo    portsrepo.TransactionRepositoryFacade
	accountSvc portssvc.AccountSvcFacade
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(txnRepo portsrepo.TransactionRepositoryFacade, accountSvc portssvc.AccountSvcFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{
		txnRepo:    txnRepo,
		accountSvc: accountSvc,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// buildLines converts request lines into domain lines with fresh IDs.
func buildLines(transactionID string, reqLines []dto.CreateTransactionLineRequest, userID string, now time.Time) []domain.TransactionLine {
	lines := make([]domain.TransactionLine, len(reqLines))
	for i, lr := range reqLines {
		lines[i] = domain.TransactionLine{
			LineID:        uuid.NewString(),
			TransactionID: transactionID,
			AccountID:     lr.AccountID,
			DebitAmount:   lr.DebitAmount,
			CreditAmount:  lr.CreditAmount,
			Memo:          lr.Memo,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
	}
	return lines
}

// validateLineAccounts checks that every referenced account exists, belongs to
// the organization and is active.
func (s *ledgerService) validateLineAccounts(ctx context.Context, organizationID string, lines []domain.TransactionLine) error {
	accountIDs := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.AccountID]; ok {
			continue
		}
		seen[line.AccountID] = struct{}{}
		accountIDs = append(accountIDs, line.AccountID)
	}

	accounts, err := s.accountSvc.GetAccountsByIDs(ctx, organizationID, accountIDs)
	if err != nil {
		return fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, id := range accountIDs {
		acc, found := accounts[id]
		if !found {
			return fmt.Errorf("%w: ID %s", ErrAccountNotFound, id)
		}
		if !acc.IsActive {
			return fmt.Errorf("%w: account %s is archived", apperrors.ErrValidation, id)
		}
	}
	return nil
}

// CreateTransaction validates the full transaction before any write. A POSTED
// request that is not balanced persists nothing. Header and lines are written
// as one atomic unit by the repository.
func (s *ledgerService) CreateTransaction(ctx context.Context, organizationID string, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error) {
	// Idempotency key replay: return the stored transaction, do not insert again.
	if req.IdempotencyKey != "" {
		stored, err := s.txnRepo.FindTransactionByIdempotencyKey(ctx, organizationID, req.IdempotencyKey)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed idempotency key lookup",
				slog.String("idempotency_key", req.IdempotencyKey))
			return nil, err
		}
		if stored != nil {
			s.LogInfo(ctx, "Idempotency key replay, returning stored transaction",
				slog.String("transaction_id", stored.TransactionID))
			return stored, nil
		}
	}

	status := req.RequestedStatus
	if status == "" {
		status = domain.TransactionDraft
	}
	if status != domain.TransactionDraft && status != domain.TransactionPosted {
		return nil, fmt.Errorf("%w: transactions are created as DRAFT or POSTED, not %s", apperrors.ErrValidation, status)
	}

	now := time.Now().UTC()
	transactionID := uuid.NewString()
	lines := buildLines(transactionID, req.Lines, userID, now)

	if err := accounting.ValidateLines(lines); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	if status == domain.TransactionPosted {
		if err := accounting.ValidateBalanced(lines); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrTransactionUnbalanced, err.Error())
		}
	}
	if err := s.validateLineAccounts(ctx, organizationID, lines); err != nil {
		return nil, err
	}

	txn := domain.Transaction{
		TransactionID:  transactionID,
		OrganizationID: organizationID,
		Date:           req.Date,
		Description:    req.Description,
		Reference:      req.Reference,
		IdempotencyKey: req.IdempotencyKey,
		Status:         status,
		CurrencyCode:   req.CurrencyCode,
		Version:        1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
		Lines: lines,
	}

	if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) && req.IdempotencyKey != "" {
			// Lost the race with a concurrent retry; the stored row wins.
			stored, findErr := s.txnRepo.FindTransactionByIdempotencyKey(ctx, organizationID, req.IdempotencyKey)
			if findErr == nil {
				return stored, nil
			}
		}
		s.LogError(ctx, err, "Failed to save transaction",
			slog.String("transaction_id", transactionID),
			slog.String("organization_id", organizationID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction created",
		slog.String("transaction_id", transactionID),
		slog.String("status", string(status)),
		slog.Int("line_count", len(lines)))
	return &txn, nil
}

func (s *ledgerService) GetTransaction(ctx context.Context, organizationID, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find transaction",
				slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	if txn.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}
	return txn, nil
}

func (s *ledgerService) ListTransactions(ctx context.Context, organizationID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	filter := portsrepo.ListTransactionsFilter{
		FromDate:  params.FromDate,
		ToDate:    params.ToDate,
		Status:    params.Status,
		Search:    params.Search,
		Limit:     limit,
		NextToken: params.NextToken,
	}
	txns, nextToken, err := s.txnRepo.ListTransactions(ctx, organizationID, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions",
			slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to retrieve transactions: %w", err)
	}

	resp := dto.ToListTransactionsResponse(txns, nextToken)
	return &resp, nil
}

// UpdateTransaction patches date, description and reference only. Changing
// line composition goes through ReplaceTransactionLines.
func (s *ledgerService) UpdateTransaction(ctx context.Context, organizationID, transactionID string, req dto.UpdateTransactionRequest, userID string) (*domain.Transaction, error) {
	txn, err := s.GetTransaction(ctx, organizationID, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.Status == domain.TransactionVoided {
		return nil, fmt.Errorf("%w: voided transactions are immutable", apperrors.ErrConflict)
	}
	if txn.Version != req.Version {
		return nil, fmt.Errorf("%w: transaction was modified concurrently", apperrors.ErrConflict)
	}

	updated := false
	if req.Date != nil {
		txn.Date = *req.Date
		updated = true
	}
	if req.Description != nil {
		txn.Description = *req.Description
		updated = true
	}
	if req.Reference != nil {
		txn.Reference = *req.Reference
		updated = true
	}
	if !updated {
		return txn, nil
	}

	now := time.Now().UTC()
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = userID

	if err := s.txnRepo.UpdateTransactionDetails(ctx, *txn); err != nil {
		s.LogError(ctx, err, "Failed to update transaction",
			slog.String("transaction_id", transactionID))
		return nil, err
	}
	txn.Version++

	s.LogInfo(ctx, "Transaction updated",
		slog.String("transaction_id", transactionID))
	return txn, nil
}

// ReplaceTransactionLines swaps a draft transaction's entire line set in one
// atomic write. Posted lines are immutable in place; there is no
// delete-then-recreate window.
func (s *ledgerService) ReplaceTransactionLines(ctx context.Context, organizationID, transactionID string, req dto.ReplaceTransactionLinesRequest, userID string) (*domain.Transaction, error) {
	txn, err := s.GetTransaction(ctx, organizationID, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.Status != domain.TransactionDraft {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrConflict, ErrLinesImmutable.Error())
	}
	if txn.Version != req.Version {
		return nil, fmt.Errorf("%w: transaction was modified concurrently", apperrors.ErrConflict)
	}

	now := time.Now().UTC()
	lines := buildLines(transactionID, req.Lines, userID, now)

	if err := accounting.ValidateLines(lines); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	if err := s.validateLineAccounts(ctx, organizationID, lines); err != nil {
		return nil, err
	}

	if err := s.txnRepo.ReplaceTransactionLines(ctx, transactionID, req.Version, lines, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to replace transaction lines",
			slog.String("transaction_id", transactionID))
		return nil, err
	}

	txn.Lines = lines
	txn.Version++
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = userID

	s.LogInfo(ctx, "Transaction lines replaced",
		slog.String("transaction_id", transactionID),
		slog.Int("line_count", len(lines)))
	return txn, nil
}

// DeleteTransaction is hard, cascading and irreversible. The asymmetry with
// account archiving is deliberate.
func (s *ledgerService) DeleteTransaction(ctx context.Context, organizationID, transactionID string) error {
	if _, err := s.GetTransaction(ctx, organizationID, transactionID); err != nil {
		return err
	}

	if err := s.txnRepo.DeleteTransaction(ctx, transactionID); err != nil {
		s.LogError(ctx, err, "Failed to delete transaction",
			slog.String("transaction_id", transactionID))
		return err
	}

	s.LogInfo(ctx, "Transaction deleted",
		slog.String("transaction_id", transactionID))
	return nil
}

// PostTransaction re-validates the balance invariant and moves DRAFT to POSTED.
// On rejection the transaction remains a draft.
func (s *ledgerService) PostTransaction(ctx context.Context, organizationID, transactionID string, userID string) (*domain.Transaction, error) {
	txn, err := s.GetTransaction(ctx, organizationID, transactionID)
	if err != nil {
		return nil, err
	}
	if !txn.Status.CanTransition(domain.TransactionPosted) {
		return nil, fmt.Errorf("%w: cannot post a %s transaction", apperrors.ErrConflict, txn.Status)
	}
	if err := accounting.ValidateBalanced(txn.Lines); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTransactionUnbalanced, err.Error())
	}

	now := time.Now().UTC()
	if err := s.txnRepo.UpdateTransactionStatus(ctx, transactionID, txn.Version, domain.TransactionPosted, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to post transaction",
			slog.String("transaction_id", transactionID))
		return nil, err
	}

	txn.Status = domain.TransactionPosted
	txn.Version++
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = userID

	s.LogInfo(ctx, "Transaction posted",
		slog.String("transaction_id", transactionID))
	return txn, nil
}

// VoidTransaction moves a draft or posted transaction to the terminal VOIDED
// status. Voiding carries no balance invariant.
func (s *ledgerService) VoidTransaction(ctx context.Context, organizationID, transactionID string, userID string) (*domain.Transaction, error) {
	txn, err := s.GetTransaction(ctx, organizationID, transactionID)
	if err != nil {
		return nil, err
	}
	if !txn.Status.CanTransition(domain.TransactionVoided) {
		return nil, fmt.Errorf("%w: cannot void a %s transaction", apperrors.ErrConflict, txn.Status)
	}

	now := time.Now().UTC()
	if err := s.txnRepo.UpdateTransactionStatus(ctx, transactionID, txn.Version, domain.TransactionVoided, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to void transaction",
			slog.String("transaction_id", transactionID))
		return nil, err
	}

	txn.Status = domain.TransactionVoided
	txn.Version++
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = userID

	s.LogInfo(ctx, "Transaction voided",
		slog.String("transaction_id", transactionID))
	return txn, nil
}
