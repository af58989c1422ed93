package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/finacore/finacore_backend/internal/apperrors"
	"github.com/finacore/finacore_backend/internal/core/domain"
	portssvc "github.com/finacore/finacore_backend/internal/core/ports/services"
	"github.com/finacore/finacore_backend/internal/dto"
	"github.com/finacore/finacore_backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock AccountService ---
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

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock AdjustmentService ---
type MockAdjustmentService struct {
	mock.Mock
}

func (m *MockAdjustmentService) AdjustAccountBalance(ctx context.Context, organizationID, accountID string, targetBalance decimal.Decimal, memo string, userID string) (*domain.Transaction, error) {
	args := m.Called(ctx, organizationID, accountID, targetBalance, memo, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

var _ portssvc.BalanceAdjustmentSvcFacade = (*MockAdjustmentService)(nil)

// --- Test Suite ---
type AccountHandlerTestSuite struct {
	suite.Suite
	router                *gin.Engine
	mockAccountService    *MockAccountService
	mockAdjustmentService *MockAdjustmentService
	organizationID        string
	userID                string
}

func (suite *AccountHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.mockAccountService = new(MockAccountService)
	suite.mockAdjustmentService = new(MockAdjustmentService)
	suite.organizationID = uuid.NewString()
	suite.userID = uuid.NewString()

	v1 := suite.router.Group("/api/v1", middleware.PrincipalMiddleware())
	registerAccountRoutes(v1, suite.mockAccountService, suite.mockAdjustmentService)
}

// serve runs a request with the gateway principal headers set.
func (suite *AccountHandlerTestSuite) serve(method, url string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.HeaderUserID, suite.userID)
	req.Header.Set(middleware.HeaderOrganizationID, suite.organizationID)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *AccountHandlerTestSuite) TestGetAccountBalance_Success() {
	accountID := uuid.NewString()
	suite.mockAccountService.On("GetBalance", mock.Anything, suite.organizationID, accountID).
		Return(decimal.RequireFromString("1250.50"), nil).Once()

	w := suite.serve(http.MethodGet, fmt.Sprintf("/api/v1/accounts/%s/balance", accountID), nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.AccountBalanceResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(accountID, body.AccountID)
	suite.True(body.Balance.Equal(decimal.RequireFromString("1250.50")))
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestGetAccountBalance_MissingPrincipal() {
	accountID := uuid.NewString()
	req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/accounts/%s/balance", accountID), nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "GetBalance", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestGetAccount_NotFound() {
	accountID := uuid.NewString()
	suite.mockAccountService.On("GetAccountByID", mock.Anything, suite.organizationID, accountID).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.serve(http.MethodGet, fmt.Sprintf("/api/v1/accounts/%s", accountID), nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_DuplicateCode() {
	req := dto.CreateAccountRequest{
		Code:         "1000",
		Name:         "Cash",
		AccountType:  domain.Asset,
		CurrencyCode: "USD",
	}
	suite.mockAccountService.On("CreateAccount", mock.Anything, suite.organizationID, req, suite.userID).
		Return(nil, apperrors.ErrDuplicate).Once()

	w := suite.serve(http.MethodPost, "/api/v1/accounts", req)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestAdjustAccountBalance_NoOp() {
	accountID := uuid.NewString()
	target := decimal.RequireFromString("500")
	suite.mockAdjustmentService.On("AdjustAccountBalance", mock.Anything, suite.organizationID, accountID, target, "", suite.userID).
		Return(nil, nil).Once()

	w := suite.serve(http.MethodPost, fmt.Sprintf("/api/v1/accounts/%s/adjust-balance", accountID), dto.AdjustBalanceRequest{
		TargetBalance: target,
	})

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockAdjustmentService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestAdjustAccountBalance_Posted() {
	accountID := uuid.NewString()
	target := decimal.RequireFromString("500")
	txn := &domain.Transaction{
		TransactionID:  uuid.NewString(),
		OrganizationID: suite.organizationID,
		Status:         domain.TransactionPosted,
	}
	suite.mockAdjustmentService.On("AdjustAccountBalance", mock.Anything, suite.organizationID, accountID, target, "correction", suite.userID).
		Return(txn, nil).Once()

	w := suite.serve(http.MethodPost, fmt.Sprintf("/api/v1/accounts/%s/adjust-balance", accountID), dto.AdjustBalanceRequest{
		TargetBalance: target,
		Memo:          "correction",
	})

	suite.Equal(http.StatusCreated, w.Code)
	var body dto.TransactionResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(txn.TransactionID, body.TransactionID)
	suite.mockAdjustmentService.AssertExpectations(suite.T())
}

func TestAccountHandler(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}
