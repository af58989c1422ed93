package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/finacore/finacore_backend/internal/apperrors"
	"github.com/finacore/finacore_backend/internal/core/domain"
	portssvc "github.com/finacore/finacore_backend/internal/core/ports/services"
	"github.com/finacore/finacore_backend/internal/core/services"
	"github.com/finacore/finacore_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, organizationID, code string) (*domain.Account, error) {
	args := m.Called(ctx, organizationID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, organizationID string, includeArchived bool, limit, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, organizationID, includeArchived, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) ArchiveAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

func (m *MockAccountRepository) SumPostedLines(ctx context.Context, accountID string) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockAccountRepository) HasTransactionLines(ctx context.Context, accountID string) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

// --- Test Suite Setup ---

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo       *MockAccountRepository
	service        portssvc.AccountSvcFacade
	organizationID string
	userID         string
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockRepo)
	suite.organizationID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *AccountServiceTestSuite) activeAccount(accountType domain.AccountType) *domain.Account {
	now := time.Now().UTC()
	return &domain.Account{
		AccountID:      uuid.NewString(),
		OrganizationID: suite.organizationID,
		Code:           "1000",
		Name:           "Cash",
		AccountType:    accountType,
		CurrencyCode:   "USD",
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     suite.userID,
			LastUpdatedAt: now,
			LastUpdatedBy: suite.userID,
		},
	}
}

// --- Test Cases ---

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:         "1000",
		Name:         "Cash",
		AccountType:  domain.Asset,
		CurrencyCode: "USD",
	}

	suite.mockRepo.On("FindAccountByCode", ctx, suite.organizationID, "1000").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	created, err := suite.service.CreateAccount(ctx, suite.organizationID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.NotEmpty(created.AccountID)
	suite.Equal(suite.organizationID, created.OrganizationID)
	suite.Equal(req.Code, created.Code)
	suite.Equal(req.AccountType, created.AccountType)
	suite.True(created.IsActive)
	suite.Equal(suite.userID, created.CreatedBy)
	suite.WithinDuration(time.Now(), created.CreatedAt, time.Second)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateCode() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:         "1000",
		Name:         "Cash",
		AccountType:  domain.Asset,
		CurrencyCode: "USD",
	}

	suite.mockRepo.On("FindAccountByCode", ctx, suite.organizationID, "1000").Return(suite.activeAccount(domain.Asset), nil).Once()

	created, err := suite.service.CreateAccount(ctx, suite.organizationID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Nil(created)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_InvalidType() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:         "1000",
		Name:         "Cash",
		AccountType:  domain.AccountType("CONTRA"),
		CurrencyCode: "USD",
	}

	created, err := suite.service.CreateAccount(ctx, suite.organizationID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(created)
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_OtherOrganization() {
	ctx := context.Background()
	account := suite.activeAccount(domain.Asset)
	account.OrganizationID = uuid.NewString()

	suite.mockRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()

	found, err := suite.service.GetAccountByID(ctx, suite.organizationID, account.AccountID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(found)
}

func (suite *AccountServiceTestSuite) TestGetBalance_DebitNormal() {
	ctx := context.Background()
	account := suite.activeAccount(domain.Asset)

	suite.mockRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockRepo.On("SumPostedLines", ctx, account.AccountID).
		Return(decimal.NewFromInt(150), decimal.NewFromInt(50), nil).Once()

	balance, err := suite.service.GetBalance(ctx, suite.organizationID, account.AccountID)

	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.NewFromInt(100)))
}

func (suite *AccountServiceTestSuite) TestGetBalance_CreditNormal() {
	ctx := context.Background()
	account := suite.activeAccount(domain.Revenue)

	suite.mockRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockRepo.On("SumPostedLines", ctx, account.AccountID).
		Return(decimal.NewFromInt(20), decimal.NewFromInt(120), nil).Once()

	balance, err := suite.service.GetBalance(ctx, suite.organizationID, account.AccountID)

	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.NewFromInt(100)))
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_ArchivesWhenReferenced() {
	ctx := context.Background()
	account := suite.activeAccount(domain.Asset)

	suite.mockRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockRepo.On("HasTransactionLines", ctx, account.AccountID).Return(true, nil).Once()
	suite.mockRepo.On("ArchiveAccount", ctx, account.AccountID, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.DeleteAccount(ctx, suite.organizationID, account.AccountID, suite.userID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeleteAccount", mock.Anything, mock.Anything)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_HardDeletesWhenUnreferenced() {
	ctx := context.Background()
	account := suite.activeAccount(domain.Asset)

	suite.mockRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockRepo.On("HasTransactionLines", ctx, account.AccountID).Return(false, nil).Once()
	suite.mockRepo.On("DeleteAccount", ctx, account.AccountID).Return(nil).Once()

	err := suite.service.DeleteAccount(ctx, suite.organizationID, account.AccountID, suite.userID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_AlreadyArchivedIsIdempotent() {
	ctx := context.Background()
	account := suite.activeAccount(domain.Asset)
	account.IsActive = false

	suite.mockRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockRepo.On("HasTransactionLines", ctx, account.AccountID).Return(true, nil).Once()

	err := suite.service.DeleteAccount(ctx, suite.organizationID, account.AccountID, suite.userID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertNotCalled(suite.T(), "ArchiveAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_MissingIsIdempotent() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.DeleteAccount(ctx, suite.organizationID, accountID, suite.userID)

	suite.Require().NoError(err)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_NoFieldsIsNoOp() {
	ctx := context.Background()
	account := suite.activeAccount(domain.Asset)

	suite.mockRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()

	updated, err := suite.service.UpdateAccount(ctx, suite.organizationID, account.AccountID, dto.UpdateAccountRequest{}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(account.AccountID, updated.AccountID)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestListAccounts_NilBecomesEmpty() {
	ctx := context.Background()

	suite.mockRepo.On("ListAccounts", ctx, suite.organizationID, false, 50, 0).Return(nil, nil).Once()

	accounts, err := suite.service.ListAccounts(ctx, suite.organizationID, dto.ListAccountsParams{Limit: 50})

	suite.Require().NoError(err)
	suite.NotNil(accounts)
	suite.Empty(accounts)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
