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
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// accountService implements the chart-of-accounts registry.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account service.
func NewAccountService(repo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: repo}
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, organizationID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	if !domain.ValidAccountType(req.AccountType) {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}

	// Reject duplicate (organization, code) before attempting the insert.
	// The unique index backs this up against races.
	existing, err := s.accountRepo.FindAccountByCode(ctx, organizationID, req.Code)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check account code uniqueness",
			slog.String("code", req.Code),
			slog.String("organization_id", organizationID))
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: account code %q already in use", apperrors.ErrDuplicate, req.Code)
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:      uuid.NewString(),
		OrganizationID: organizationID,
		Code:           req.Code,
		Name:           req.Name,
		AccountType:    req.AccountType,
		CurrencyCode:   req.CurrencyCode,
		Description:    req.Description,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account",
			slog.String("account_id", account.AccountID),
			slog.String("organization_id", organizationID))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("code", account.Code),
		slog.String("organization_id", organizationID))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, organizationID, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID",
				slog.String("account_id", accountID))
		}
		return nil, err
	}

	// Obscure existence from other organizations.
	if account.OrganizationID != organizationID {
		s.LogDebug(ctx, "Account found but belongs to different organization",
			slog.String("account_id", accountID),
			slog.String("requested_organization", organizationID))
		return nil, apperrors.ErrNotFound
	}

	return account, nil
}

func (s *accountService) GetAccountsByIDs(ctx context.Context, organizationID string, accountIDs []string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to find accounts by IDs")
		return nil, err
	}

	for _, account := range accounts {
		if account.OrganizationID != organizationID {
			return nil, apperrors.ErrNotFound
		}
	}

	return accounts, nil
}

func (s *accountService) ListAccounts(ctx context.Context, organizationID string, params dto.ListAccountsParams) ([]domain.Account, error) {
	includeArchived := params.IncludeArchive != nil && *params.IncludeArchive
	accounts, err := s.accountRepo.ListAccounts(ctx, organizationID, includeArchived, params.Limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts",
			slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to list accounts for organization %s: %w", organizationID, err)
	}

	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, organizationID, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	account, err := s.GetAccountByID(ctx, organizationID, accountID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		account.Name = *req.Name
		updated = true
	}
	if req.AccountType != nil {
		if !domain.ValidAccountType(*req.AccountType) {
			return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, *req.AccountType)
		}
		account.AccountType = *req.AccountType
		updated = true
	}
	if req.Description != nil {
		account.Description = *req.Description
		updated = true
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
		updated = true
	}
	if !updated {
		s.LogDebug(ctx, "No fields provided for account update",
			slog.String("account_id", accountID))
		return account, nil
	}

	now := time.Now().UTC()
	account.LastUpdatedAt = now
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account",
			slog.String("account_id", accountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account updated successfully",
		slog.String("account_id", account.AccountID))
	return account, nil
}

// DeleteAccount soft-archives the account when any transaction line references
// it, otherwise hard-deletes the row. A repeated delete of an already archived
// or already removed account is a no-op success.
func (s *accountService) DeleteAccount(ctx context.Context, organizationID, accountID string, userID string) error {
	account, err := s.GetAccountByID(ctx, organizationID, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Already gone; idempotent.
			return nil
		}
		return err
	}

	referenced, err := s.accountRepo.HasTransactionLines(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to check transaction line references",
			slog.String("account_id", accountID))
		return err
	}

	if referenced {
		if !account.IsActive {
			// Already archived; idempotent.
			return nil
		}
		if err := s.accountRepo.ArchiveAccount(ctx, accountID, userID, time.Now().UTC()); err != nil {
			s.LogError(ctx, err, "Failed to archive account",
				slog.String("account_id", accountID))
			return err
		}
		s.LogInfo(ctx, "Account archived (referenced by transaction lines)",
			slog.String("account_id", accountID))
		return nil
	}

	if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
		s.LogError(ctx, err, "Failed to delete account",
			slog.String("account_id", accountID))
		return err
	}

	s.LogInfo(ctx, "Account deleted",
		slog.String("account_id", accountID))
	return nil
}

// GetBalance derives the account balance by aggregating the lines of posted
// transactions. Asset/expense accounts read debit-credit; liability, equity
// and revenue accounts read credit-debit.
func (s *accountService) GetBalance(ctx context.Context, organizationID, accountID string) (decimal.Decimal, error) {
	account, err := s.GetAccountByID(ctx, organizationID, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	debits, credits, err := s.accountRepo.SumPostedLines(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate posted lines for balance",
			slog.String("account_id", accountID))
		return decimal.Zero, err
	}

	return account.AccountType.SignedBalance(debits, credits), nil
}
