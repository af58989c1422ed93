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

// MockBillRepository is a mock type for the BillRepositoryFacade interface
type MockBillRepository struct {
	mock.Mock
}

func (m *MockBillRepository) SaveBill(ctx context.Context, bill domain.Bill) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}

func (m *MockBillRepository) FindBillByID(ctx context.Context, billID string) (*domain.Bill, error) {
	args := m.Called(ctx, billID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bill), args.Error(1)
}

func (m *MockBillRepository) ListBills(ctx context.Context, organizationID string, filter portsrepo.ListBillsFilter) ([]domain.Bill, error) {
	args := m.Called(ctx, organizationID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Bill), args.Error(1)
}

func (m *MockBillRepository) UpdateBill(ctx context.Context, bill domain.Bill, replaceItems bool) error {
	args := m.Called(ctx, bill, replaceItems)
	return args.Error(0)
}

func (m *MockBillRepository) DeleteBill(ctx context.Context, billID string) error {
	args := m.Called(ctx, billID)
	return args.Error(0)
}

// --- Test Suite Setup ---

type BillServiceTestSuite struct {
	suite.Suite
	mockRepo       *MockBillRepository
	mockContactSvc *MockContactService
	mockAccountSvc *MockAccountService
	service        portssvc.BillSvcFacade
	organizationID string
	userID         string
	expAccountID   string
}

func (suite *BillServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockBillRepository)
	suite.mockContactSvc = new(MockContactService)
	suite.mockAccountSvc = new(MockAccountService)
	suite.service = services.NewBillService(suite.mockRepo, suite.mockContactSvc, suite.mockAccountSvc)
	suite.organizationID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.expAccountID = uuid.NewString()
}

func (suite *BillServiceTestSuite) expenseAccounts() map[string]domain.Account {
	return map[string]domain.Account{
		suite.expAccountID: {
			AccountID:      suite.expAccountID,
			OrganizationID: suite.organizationID,
			AccountType:    domain.Expense,
			IsActive:       true,
		},
	}
}

// --- Test Cases ---

func (suite *BillServiceTestSuite) TestCreateBill_FindsOrCreatesVendor() {
	ctx := context.Background()
	now := time.Now().UTC()
	req := dto.CreateBillRequest{
		BillNumber:   "BILL-007",
		VendorName:   "Office Supplies Ltd",
		IssueDate:    now,
		DueDate:      now.AddDate(0, 1, 0),
		CurrencyCode: "USD",
		Items: []dto.BillingItemRequest{
			{AccountID: suite.expAccountID, Description: "Paper", Quantity: decimal.NewFromInt(20), UnitPrice: decimal.NewFromInt(5), TaxRate: decimal.NewFromInt(20)},
		},
	}
	vendor := &domain.Contact{ContactID: uuid.NewString(), OrganizationID: suite.organizationID, Name: "Office Supplies Ltd", Role: domain.ContactVendor}

	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.organizationID, mock.AnythingOfType("[]string")).
		Return(suite.expenseAccounts(), nil).Once()
	suite.mockContactSvc.On("FindOrCreateContact", ctx, suite.organizationID, "Office Supplies Ltd", "", domain.ContactVendor, suite.userID).
		Return(vendor, nil).Once()
	suite.mockRepo.On("SaveBill", ctx, mock.AnythingOfType("domain.Bill")).Return(nil).Once()

	bill, err := suite.service.CreateBill(ctx, suite.organizationID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.BillDraft, bill.Status)
	suite.Equal(vendor.ContactID, bill.ContactID)
	suite.True(bill.Subtotal.Equal(decimal.NewFromInt(100)))
	suite.True(bill.TaxAmount.Equal(decimal.NewFromInt(20)))
	suite.True(bill.Total.Equal(decimal.NewFromInt(120)))
	suite.mockContactSvc.AssertExpectations(suite.T())
}

func (suite *BillServiceTestSuite) TestUpdateBill_PaidIsTerminal() {
	ctx := context.Background()
	bill := &domain.Bill{
		BillID:         uuid.NewString(),
		OrganizationID: suite.organizationID,
		Status:         domain.BillPaid,
		DueDate:        time.Now().UTC().AddDate(0, 1, 0),
		Version:        1,
	}
	pending := domain.BillPending
	req := dto.UpdateBillRequest{Status: &pending, Version: 1}

	suite.mockRepo.On("FindBillByID", ctx, bill.BillID).Return(bill, nil).Once()

	updated, err := suite.service.UpdateBill(ctx, suite.organizationID, bill.BillID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Nil(updated)
}

func (suite *BillServiceTestSuite) TestUpdateBill_OverdueBillCanBePaid() {
	ctx := context.Background()
	bill := &domain.Bill{
		BillID:         uuid.NewString(),
		OrganizationID: suite.organizationID,
		Status:         domain.BillPending,
		DueDate:        time.Now().UTC().AddDate(0, 0, -3),
		Version:        1,
	}
	paid := domain.BillPaid
	req := dto.UpdateBillRequest{Status: &paid, Version: 1}

	suite.mockRepo.On("FindBillByID", ctx, bill.BillID).Return(bill, nil).Once()
	suite.mockRepo.On("UpdateBill", ctx, mock.AnythingOfType("domain.Bill"), false).Return(nil).Once()

	updated, err := suite.service.UpdateBill(ctx, suite.organizationID, bill.BillID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.BillPaid, updated.Status)
}

func TestBillServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BillServiceTestSuite))
}
