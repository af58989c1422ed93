package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/finacore/finacore_backend/internal/apperrors"
	"github.com/finacore/finacore_backend/internal/core/domain"
	portsrepo "github.com/finacore/finacore_backend/internal/core/ports/repositories"
	portssvc "github.com/finacore/finacore_backend/internal/core/ports/services"
	"github.com/finacore/finacore_backend/internal/core/services"
	"github.com/finacore/finacore_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockTransactionRepository is a mock type for the TransactionRepositoryFacade interface
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindTransactionByIdempotencyKey(ctx context.Context, organizationID, key string) (*domain.Transaction, error) {
	args := m.Called(ctx, organizationID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context, organizationID string, filter portsrepo.ListTransactionsFilter) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, organizationID, filter)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return txns, token, args.Error(2)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) UpdateTransactionDetails(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) UpdateTransactionStatus(ctx context.Context, transactionID string, version int64, status domain.TransactionStatus, userID string, now time.Time) error {
	args := m.Called(ctx, transactionID, version, status, userID, now)
	return args.Error(0)
}

func (m *MockTransactionRepository) ReplaceTransactionLines(ctx context.Context, transactionID string, version int64, lines []domain.TransactionLine, userID string, now time.Time) error {
	args := m.Called(ctx, transactionID, version, lines, userID, now)
	return args.Error(0)
}

func (m *MockTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	args := m.Called(ctx, transactionID)
	return args.Error(0)
}

// MockAccountService is a mock type for the AccountSvcFacade interface
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, organizationID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, organizationID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, organizationID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, organizationID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountsByIDs(ctx context.Context, organizationID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, organizationID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, organizationID string, params dto.ListAccountsParams) ([]domain.Account, error) {
	args := m.Called(ctx, organizationID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, organizationID, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, organizationID, accountID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, organizationID, accountID string, userID string) error {
	args := m.Called(ctx, organizationID, accountID, userID)
	return args.Error(0)
}

func (m *MockAccountService) GetBalance(ctx context.Context, organizationID, accountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, organizationID, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Test Suite Setup ---

type LedgerServiceTestSuite struct {
	suite.Suite
	mockTxnRepo    *MockTransactionRepository
	mockAccountSvc *MockAccountService
	service        portssvc.LedgerSvcFacade
	organizationID string
	userID         string
	cashAccountID  string
	salesAccountID string
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockAccountSvc = new(MockAccountService)
	suite.service = services.NewLedgerService(suite.mockTxnRepo, suite.mockAccountSvc)
	suite.organizationID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.cashAccountID = uuid.NewString()
	suite.salesAccountID = uuid.NewString()
}

func (suite *LedgerServiceTestSuite) activeAccounts() map[string]domain.Account {
	return map[string]domain.Account{
		suite.cashAccountID: {
			AccountID:      suite.cashAccountID,
			OrganizationID: suite.organizationID,
			AccountType:    domain.Asset,
			IsActive:       true,
		},
		suite.salesAccountID: {
			AccountID:      suite.salesAccountID,
			OrganizationID: suite.organizationID,
			AccountType:    domain.Revenue,
			IsActive:       true,
		},
	}
}

func (suite *LedgerServiceTestSuite) balancedRequest(status domain.TransactionStatus) dto.CreateTransactionRequest {
	return dto.CreateTransactionRequest{
		Date:            time.Now().UTC(),
		Description:     "Cash sale",
		CurrencyCode:    "USD",
		RequestedStatus: status,
		Lines: []dto.CreateTransactionLineRequest{
			{AccountID: suite.cashAccountID, DebitAmount: decimal.NewFromInt(100)},
			{AccountID: suite.salesAccountID, CreditAmount: decimal.NewFromInt(100)},
		},
	}
}

func (suite *LedgerServiceTestSuite) draftTransaction() *domain.Transaction {
	now := time.Now().UTC()
	txnID := uuid.NewString()
	return &domain.Transaction{
		TransactionID:  txnID,
		OrganizationID: suite.organizationID,
		Date:           now,
		Description:    "Cash sale",
		Status:         domain.TransactionDraft,
		CurrencyCode:   "USD",
		Version:        1,
		Lines: []domain.TransactionLine{
			{LineID: uuid.NewString(), TransactionID: txnID, AccountID: suite.cashAccountID, DebitAmount: decimal.NewFromInt(100)},
			{LineID: uuid.NewString(), TransactionID: txnID, AccountID: suite.salesAccountID, CreditAmount: decimal.NewFromInt(100)},
		},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     suite.userID,
			LastUpdatedAt: now,
			LastUpdatedBy: suite.userID,
		},
	}
}

// --- Test Cases ---

func (suite *LedgerServiceTestSuite) TestCreateTransaction_PostedBalanced() {
	ctx := context.Background()
	req := suite.balancedRequest(domain.TransactionPosted)

	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.organizationID, mock.AnythingOfType("[]string")).
		Return(suite.activeAccounts(), nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()

	txn, err := suite.service.CreateTransaction(ctx, suite.organizationID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.Equal(domain.TransactionPosted, txn.Status)
	suite.Equal(int64(1), txn.Version)
	suite.Len(txn.Lines, 2)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestCreateTransaction_PostedUnbalancedWritesNothing() {
	ctx := context.Background()
	req := suite.balancedRequest(domain.TransactionPosted)
	req.Lines[1].CreditAmount = decimal.NewFromInt(90)

	txn, err := suite.service.CreateTransaction(ctx, suite.organizationID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrTransactionUnbalanced)
	suite.Nil(txn)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestCreateTransaction_DraftMayBeUnbalanced() {
	ctx := context.Background()
	req := suite.balancedRequest(domain.TransactionDraft)
	req.Lines[1].CreditAmount = decimal.NewFromInt(90)

	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.organizationID, mock.AnythingOfType("[]string")).
		Return(suite.activeAccounts(), nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()

	txn, err := suite.service.CreateTransaction(ctx, suite.organizationID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.TransactionDraft, txn.Status)
}

func (suite *LedgerServiceTestSuite) TestCreateTransaction_LineWithBothSides() {
	ctx := context.Background()
	req := suite.balancedRequest(domain.TransactionDraft)
	req.Lines[0].CreditAmount = decimal.NewFromInt(10)

	txn, err := suite.service.CreateTransaction(ctx, suite.organizationID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(txn)
}

func (suite *LedgerServiceTestSuite) TestCreateTransaction_RequiresTwoLines() {
	ctx := context.Background()
	req := suite.balancedRequest(domain.TransactionDraft)
	req.Lines = req.Lines[:1]

	txn, err := suite.service.CreateTransaction(ctx, suite.organizationID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(txn)
}

func (suite *LedgerServiceTestSuite) TestCreateTransaction_RejectsArchivedAccount() {
	ctx := context.Background()
	req := suite.balancedRequest(domain.TransactionDraft)
	accounts := suite.activeAccounts()
	archived := accounts[suite.salesAccountID]
	archived.IsActive = false
	accounts[suite.salesAccountID] = archived

	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.organizationID, mock.AnythingOfType("[]string")).
		Return(accounts, nil).Once()

	txn, err := suite.service.CreateTransaction(ctx, suite.organizationID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(txn)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestCreateTransaction_IdempotencyKeyReplay() {
	ctx := context.Background()
	stored := suite.draftTransaction()
	stored.IdempotencyKey = "req-42"
	req := suite.balancedRequest(domain.TransactionDraft)
	req.IdempotencyKey = "req-42"

	suite.mockTxnRepo.On("FindTransactionByIdempotencyKey", ctx, suite.organizationID, "req-42").Return(stored, nil).Once()

	txn, err := suite.service.CreateTransaction(ctx, suite.organizationID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(stored.TransactionID, txn.TransactionID)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestPostTransaction_Success() {
	ctx := context.Background()
	txn := suite.draftTransaction()

	suite.mockTxnRepo.On("FindTransactionByID", ctx, txn.TransactionID).Return(txn, nil).Once()
	suite.mockTxnRepo.On("UpdateTransactionStatus", ctx, txn.TransactionID, int64(1), domain.TransactionPosted, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	posted, err := suite.service.PostTransaction(ctx, suite.organizationID, txn.TransactionID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.TransactionPosted, posted.Status)
	suite.Equal(int64(2), posted.Version)
}

func (suite *LedgerServiceTestSuite) TestPostTransaction_UnbalancedDraftStaysDraft() {
	ctx := context.Background()
	txn := suite.draftTransaction()
	txn.Lines[1].CreditAmount = decimal.NewFromInt(90)

	suite.mockTxnRepo.On("FindTransactionByID", ctx, txn.TransactionID).Return(txn, nil).Once()

	posted, err := suite.service.PostTransaction(ctx, suite.organizationID, txn.TransactionID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrTransactionUnbalanced)
	suite.Nil(posted)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "UpdateTransactionStatus",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestPostTransaction_AlreadyPosted() {
	ctx := context.Background()
	txn := suite.draftTransaction()
	txn.Status = domain.TransactionPosted

	suite.mockTxnRepo.On("FindTransactionByID", ctx, txn.TransactionID).Return(txn, nil).Once()

	posted, err := suite.service.PostTransaction(ctx, suite.organizationID, txn.TransactionID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Nil(posted)
}

func (suite *LedgerServiceTestSuite) TestVoidTransaction_PostedCanBeVoided() {
	ctx := context.Background()
	txn := suite.draftTransaction()
	txn.Status = domain.TransactionPosted

	suite.mockTxnRepo.On("FindTransactionByID", ctx, txn.TransactionID).Return(txn, nil).Once()
	suite.mockTxnRepo.On("UpdateTransactionStatus", ctx, txn.TransactionID, int64(1), domain.TransactionVoided, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	voided, err := suite.service.VoidTransaction(ctx, suite.organizationID, txn.TransactionID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.TransactionVoided, voided.Status)
}

func (suite *LedgerServiceTestSuite) TestVoidTransaction_VoidedIsTerminal() {
	ctx := context.Background()
	txn := suite.draftTransaction()
	txn.Status = domain.TransactionVoided

	suite.mockTxnRepo.On("FindTransactionByID", ctx, txn.TransactionID).Return(txn, nil).Once()

	voided, err := suite.service.VoidTransaction(ctx, suite.organizationID, txn.TransactionID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Nil(voided)
}

func (suite *LedgerServiceTestSuite) TestReplaceTransactionLines_PostedIsImmutable() {
	ctx := context.Background()
	txn := suite.draftTransaction()
	txn.Status = domain.TransactionPosted
	req := dto.ReplaceTransactionLinesRequest{
		Version: 1,
		Lines: []dto.CreateTransactionLineRequest{
			{AccountID: suite.cashAccountID, DebitAmount: decimal.NewFromInt(50)},
			{AccountID: suite.salesAccountID, CreditAmount: decimal.NewFromInt(50)},
		},
	}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, txn.TransactionID).Return(txn, nil).Once()

	updated, err := suite.service.ReplaceTransactionLines(ctx, suite.organizationID, txn.TransactionID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Nil(updated)
}

func (suite *LedgerServiceTestSuite) TestUpdateTransaction_StaleVersion() {
	ctx := context.Background()
	txn := suite.draftTransaction()
	txn.Version = 3
	desc := "Amended"
	req := dto.UpdateTransactionRequest{Description: &desc, Version: 2}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, txn.TransactionID).Return(txn, nil).Once()

	updated, err := suite.service.UpdateTransaction(ctx, suite.organizationID, txn.TransactionID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Nil(updated)
}

func (suite *LedgerServiceTestSuite) TestGetTransaction_OtherOrganization() {
	ctx := context.Background()
	txn := suite.draftTransaction()
	txn.OrganizationID = uuid.NewString()

	suite.mockTxnRepo.On("FindTransactionByID", ctx, txn.TransactionID).Return(txn, nil).Once()

	found, err := suite.service.GetTransaction(ctx, suite.organizationID, txn.TransactionID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(found)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
