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

// MockInvoiceRepository is a mock type for the InvoiceRepositoryFacade interface
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListInvoices(ctx context.Context, organizationID string, filter portsrepo.ListInvoicesFilter) ([]domain.Invoice, error) {
	args := m.Called(ctx, organizationID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) UpdateInvoice(ctx context.Context, invoice domain.Invoice, replaceItems bool) error {
	args := m.Called(ctx, invoice, replaceItems)
	return args.Error(0)
}

func (m *MockInvoiceRepository) DeleteInvoice(ctx context.Context, invoiceID string) error {
	args := m.Called(ctx, invoiceID)
	return args.Error(0)
}

// MockContactService is a mock type for the ContactSvcFacade interface
type MockContactService struct {
	mock.Mock
}

func (m *MockContactService) FindOrCreateContact(ctx context.Context, organizationID, name, email string, role domain.ContactRole, userID string) (*domain.Contact, error) {
	args := m.Called(ctx, organizationID, name, email, role, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contact), args.Error(1)
}

// --- Test Suite Setup ---

type InvoiceServiceTestSuite struct {
	suite.Suite
	mockRepo       *MockInvoiceRepository
	mockContactSvc *MockContactService
	mockAccountSvc *MockAccountService
	service        portssvc.InvoiceSvcFacade
	organizationID string
	userID         string
	revAccountID   string
}

func (suite *InvoiceServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockInvoiceRepository)
	suite.mockContactSvc = new(MockContactService)
	suite.mockAccountSvc = new(MockAccountService)
	suite.service = services.NewInvoiceService(suite.mockRepo, suite.mockContactSvc, suite.mockAccountSvc)
	suite.organizationID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.revAccountID = uuid.NewString()
}

func (suite *InvoiceServiceTestSuite) revenueAccounts() map[string]domain.Account {
	return map[string]domain.Account{
		suite.revAccountID: {
			AccountID:      suite.revAccountID,
			OrganizationID: suite.organizationID,
			AccountType:    domain.Revenue,
			IsActive:       true,
		},
	}
}

func (suite *InvoiceServiceTestSuite) createRequest() dto.CreateInvoiceRequest {
	now := time.Now().UTC()
	return dto.CreateInvoiceRequest{
		InvoiceNumber: "INV-001",
		CustomerName:  "Acme Corp",
		CustomerEmail: "billing@acme.test",
		IssueDate:     now,
		DueDate:       now.AddDate(0, 1, 0),
		CurrencyCode:  "USD",
		Items: []dto.BillingItemRequest{
			{AccountID: suite.revAccountID, Description: "Consulting", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(100), TaxRate: decimal.NewFromInt(10)},
			{AccountID: suite.revAccountID, Description: "Support", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(250)},
		},
	}
}

func (suite *InvoiceServiceTestSuite) storedInvoice(status domain.InvoiceStatus) *domain.Invoice {
	now := time.Now().UTC()
	return &domain.Invoice{
		InvoiceID:      uuid.NewString(),
		OrganizationID: suite.organizationID,
		InvoiceNumber:  "INV-001",
		ContactID:      uuid.NewString(),
		IssueDate:      now.AddDate(0, 0, -10),
		DueDate:        now.AddDate(0, 0, 20),
		Status:         status,
		CurrencyCode:   "USD",
		Subtotal:       decimal.NewFromInt(1500),
		TaxAmount:      decimal.NewFromInt(100),
		Total:          decimal.NewFromInt(1600),
		Version:        1,
	}
}

// --- Test Cases ---

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_DerivesTotals() {
	ctx := context.Background()
	req := suite.createRequest()
	contact := &domain.Contact{ContactID: uuid.NewString(), OrganizationID: suite.organizationID, Name: "Acme Corp", Role: domain.ContactCustomer}

	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.organizationID, mock.AnythingOfType("[]string")).
		Return(suite.revenueAccounts(), nil).Once()
	suite.mockContactSvc.On("FindOrCreateContact", ctx, suite.organizationID, "Acme Corp", "billing@acme.test", domain.ContactCustomer, suite.userID).
		Return(contact, nil).Once()
	suite.mockRepo.On("SaveInvoice", ctx, mock.AnythingOfType("domain.Invoice")).Return(nil).Once()

	invoice, err := suite.service.CreateInvoice(ctx, suite.organizationID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(invoice)
	suite.Equal(domain.InvoiceDraft, invoice.Status)
	suite.Equal(contact.ContactID, invoice.ContactID)
	// 10*100 + 2*250 = 1500; tax = 1000*10% = 100
	suite.True(invoice.Subtotal.Equal(decimal.NewFromInt(1500)))
	suite.True(invoice.TaxAmount.Equal(decimal.NewFromInt(100)))
	suite.True(invoice.Total.Equal(decimal.NewFromInt(1600)))
	suite.Require().Len(invoice.Items, 2)
	suite.True(invoice.Items[0].Amount.Equal(decimal.NewFromInt(1000)))
	suite.True(invoice.Items[1].Amount.Equal(decimal.NewFromInt(500)))
	suite.Equal(int64(1), invoice.Version)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_RejectsZeroQuantity() {
	ctx := context.Background()
	req := suite.createRequest()
	req.Items[0].Quantity = decimal.Zero

	invoice, err := suite.service.CreateInvoice(ctx, suite.organizationID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(invoice)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveInvoice", mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_UnknownItemAccount() {
	ctx := context.Background()
	req := suite.createRequest()

	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.organizationID, mock.AnythingOfType("[]string")).
		Return(map[string]domain.Account{}, nil).Once()

	invoice, err := suite.service.CreateInvoice(ctx, suite.organizationID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(invoice)
}

func (suite *InvoiceServiceTestSuite) TestUpdateInvoice_StatusTransition() {
	ctx := context.Background()
	invoice := suite.storedInvoice(domain.InvoiceDraft)
	sent := domain.InvoiceSent
	req := dto.UpdateInvoiceRequest{Status: &sent, Version: 1}

	suite.mockRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockRepo.On("UpdateInvoice", ctx, mock.AnythingOfType("domain.Invoice"), false).Return(nil).Once()

	updated, err := suite.service.UpdateInvoice(ctx, suite.organizationID, invoice.InvoiceID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceSent, updated.Status)
	suite.Equal(int64(2), updated.Version)
}

func (suite *InvoiceServiceTestSuite) TestUpdateInvoice_DraftCannotBePaid() {
	ctx := context.Background()
	invoice := suite.storedInvoice(domain.InvoiceDraft)
	paid := domain.InvoicePaid
	req := dto.UpdateInvoiceRequest{Status: &paid, Version: 1}

	suite.mockRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()

	updated, err := suite.service.UpdateInvoice(ctx, suite.organizationID, invoice.InvoiceID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Nil(updated)
}

func (suite *InvoiceServiceTestSuite) TestUpdateInvoice_OverdueCanBePaid() {
	ctx := context.Background()
	// Stored as SENT but past due, so the effective status is OVERDUE which
	// still transitions to PAID.
	invoice := suite.storedInvoice(domain.InvoiceSent)
	invoice.DueDate = time.Now().UTC().AddDate(0, 0, -5)
	paid := domain.InvoicePaid
	req := dto.UpdateInvoiceRequest{Status: &paid, Version: 1}

	suite.mockRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockRepo.On("UpdateInvoice", ctx, mock.AnythingOfType("domain.Invoice"), false).Return(nil).Once()

	updated, err := suite.service.UpdateInvoice(ctx, suite.organizationID, invoice.InvoiceID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.InvoicePaid, updated.Status)
}

func (suite *InvoiceServiceTestSuite) TestUpdateInvoice_PaidItemsImmutable() {
	ctx := context.Background()
	invoice := suite.storedInvoice(domain.InvoicePaid)
	req := dto.UpdateInvoiceRequest{
		Items: []dto.BillingItemRequest{
			{AccountID: suite.revAccountID, Description: "Extra", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10)},
		},
		Version: 1,
	}

	suite.mockRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()

	updated, err := suite.service.UpdateInvoice(ctx, suite.organizationID, invoice.InvoiceID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Nil(updated)
}

func (suite *InvoiceServiceTestSuite) TestUpdateInvoice_ReplacingItemsRederivesTotals() {
	ctx := context.Background()
	invoice := suite.storedInvoice(domain.InvoiceDraft)
	req := dto.UpdateInvoiceRequest{
		Items: []dto.BillingItemRequest{
			{AccountID: suite.revAccountID, Description: "Revised", Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(200), TaxRate: decimal.NewFromInt(5)},
		},
		Version: 1,
	}

	suite.mockRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.organizationID, mock.AnythingOfType("[]string")).
		Return(suite.revenueAccounts(), nil).Once()
	suite.mockRepo.On("UpdateInvoice", ctx, mock.AnythingOfType("domain.Invoice"), true).Return(nil).Once()

	updated, err := suite.service.UpdateInvoice(ctx, suite.organizationID, invoice.InvoiceID, req, suite.userID)

	suite.Require().NoError(err)
	suite.True(updated.Subtotal.Equal(decimal.NewFromInt(600)))
	suite.True(updated.TaxAmount.Equal(decimal.NewFromInt(30)))
	suite.True(updated.Total.Equal(decimal.NewFromInt(630)))
	suite.Len(updated.Items, 1)
}

func (suite *InvoiceServiceTestSuite) TestUpdateInvoice_StaleVersion() {
	ctx := context.Background()
	invoice := suite.storedInvoice(domain.InvoiceDraft)
	invoice.Version = 4
	notes := "late fee applies"
	req := dto.UpdateInvoiceRequest{Notes: &notes, Version: 3}

	suite.mockRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()

	updated, err := suite.service.UpdateInvoice(ctx, suite.organizationID, invoice.InvoiceID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Nil(updated)
}

func (suite *InvoiceServiceTestSuite) TestGetInvoice_OtherOrganization() {
	ctx := context.Background()
	invoice := suite.storedInvoice(domain.InvoiceDraft)
	invoice.OrganizationID = uuid.NewString()

	suite.mockRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()

	found, err := suite.service.GetInvoice(ctx, suite.organizationID, invoice.InvoiceID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(found)
}

func TestInvoiceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}
