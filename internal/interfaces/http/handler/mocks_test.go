package handler

import (
	"context"

	"github.com/bizledger/backend/internal/application/catalog"
	"github.com/bizledger/backend/internal/application/company"
	"github.com/bizledger/backend/internal/application/finance"
	"github.com/bizledger/backend/internal/application/identity"
	"github.com/bizledger/backend/internal/application/notification"
	"github.com/bizledger/backend/internal/application/partner"
	reportapp "github.com/bizledger/backend/internal/application/report"
	"github.com/bizledger/backend/internal/application/sales"
	"github.com/bizledger/backend/internal/domain/report"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// result returns the first mocked value as *T, treating nil as absent
func result[T any](args mock.Arguments) *T {
	if v := args.Get(0); v != nil {
		return v.(*T)
	}
	return nil
}

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Login(ctx context.Context, input identity.LoginInput) (*identity.LoginResult, error) {
	args := m.Called(ctx, input)
	return result[identity.LoginResult](args), args.Error(1)
}

func (m *mockAuthService) RefreshToken(ctx context.Context, input identity.RefreshTokenInput) (*identity.RefreshTokenResult, error) {
	args := m.Called(ctx, input)
	return result[identity.RefreshTokenResult](args), args.Error(1)
}

func (m *mockAuthService) Logout(ctx context.Context, input identity.LogoutInput) error {
	return m.Called(ctx, input).Error(0)
}

func (m *mockAuthService) GetCurrentUser(ctx context.Context, companyID, userID uuid.UUID) (*identity.UserInfo, error) {
	args := m.Called(ctx, companyID, userID)
	return result[identity.UserInfo](args), args.Error(1)
}

func (m *mockAuthService) ChangePassword(ctx context.Context, input identity.ChangePasswordInput) error {
	return m.Called(ctx, input).Error(0)
}

type mockCompanyService struct{ mock.Mock }

func (m *mockCompanyService) Get(ctx context.Context, companyID uuid.UUID) (*company.CompanyResponse, error) {
	args := m.Called(ctx, companyID)
	return result[company.CompanyResponse](args), args.Error(1)
}

func (m *mockCompanyService) Update(ctx context.Context, companyID uuid.UUID, req company.UpdateCompanyRequest) (*company.CompanyResponse, error) {
	args := m.Called(ctx, companyID, req)
	return result[company.CompanyResponse](args), args.Error(1)
}

type mockUserService struct{ mock.Mock }

func (m *mockUserService) List(ctx context.Context, companyID uuid.UUID, filter identity.UserListFilter) ([]identity.UserResponse, int64, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).([]identity.UserResponse), args.Get(1).(int64), args.Error(2)
}

func (m *mockUserService) GetByID(ctx context.Context, companyID, id uuid.UUID) (*identity.UserResponse, error) {
	args := m.Called(ctx, companyID, id)
	return result[identity.UserResponse](args), args.Error(1)
}

func (m *mockUserService) Create(ctx context.Context, companyID uuid.UUID, actor identity.Actor, req identity.CreateUserRequest) (*identity.UserResponse, error) {
	args := m.Called(ctx, companyID, actor, req)
	return result[identity.UserResponse](args), args.Error(1)
}

func (m *mockUserService) Update(ctx context.Context, companyID uuid.UUID, actor identity.Actor, id uuid.UUID, req identity.UpdateUserRequest) (*identity.UserResponse, error) {
	args := m.Called(ctx, companyID, actor, id, req)
	return result[identity.UserResponse](args), args.Error(1)
}

func (m *mockUserService) ChangeRole(ctx context.Context, companyID uuid.UUID, actor identity.Actor, id uuid.UUID, req identity.ChangeRoleRequest) (*identity.UserResponse, error) {
	args := m.Called(ctx, companyID, actor, id, req)
	return result[identity.UserResponse](args), args.Error(1)
}

func (m *mockUserService) Delete(ctx context.Context, companyID uuid.UUID, actor identity.Actor, id uuid.UUID) error {
	return m.Called(ctx, companyID, actor, id).Error(0)
}

type mockCustomerService struct{ mock.Mock }

func (m *mockCustomerService) Create(ctx context.Context, companyID, createdBy uuid.UUID, req partner.CreateCustomerRequest) (*partner.CustomerResponse, error) {
	args := m.Called(ctx, companyID, createdBy, req)
	return result[partner.CustomerResponse](args), args.Error(1)
}

func (m *mockCustomerService) GetByID(ctx context.Context, companyID, id uuid.UUID) (*partner.CustomerResponse, error) {
	args := m.Called(ctx, companyID, id)
	return result[partner.CustomerResponse](args), args.Error(1)
}

func (m *mockCustomerService) List(ctx context.Context, companyID uuid.UUID, filter partner.CustomerListFilter) ([]partner.CustomerResponse, int64, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).([]partner.CustomerResponse), args.Get(1).(int64), args.Error(2)
}

func (m *mockCustomerService) Update(ctx context.Context, companyID, updatedBy, id uuid.UUID, req partner.UpdateCustomerRequest) (*partner.CustomerResponse, error) {
	args := m.Called(ctx, companyID, updatedBy, id, req)
	return result[partner.CustomerResponse](args), args.Error(1)
}

func (m *mockCustomerService) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return m.Called(ctx, companyID, id).Error(0)
}

type mockInvoiceService struct{ mock.Mock }

func (m *mockInvoiceService) Create(ctx context.Context, companyID, createdBy uuid.UUID, req sales.CreateInvoiceRequest) (*sales.InvoiceResponse, error) {
	args := m.Called(ctx, companyID, createdBy, req)
	return result[sales.InvoiceResponse](args), args.Error(1)
}

func (m *mockInvoiceService) GetByID(ctx context.Context, companyID, id uuid.UUID) (*sales.InvoiceResponse, error) {
	args := m.Called(ctx, companyID, id)
	return result[sales.InvoiceResponse](args), args.Error(1)
}

func (m *mockInvoiceService) List(ctx context.Context, companyID uuid.UUID, filter sales.InvoiceListFilter) ([]sales.InvoiceSummaryResponse, int64, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).([]sales.InvoiceSummaryResponse), args.Get(1).(int64), args.Error(2)
}

func (m *mockInvoiceService) Update(ctx context.Context, companyID, updatedBy, id uuid.UUID, req sales.UpdateInvoiceRequest) (*sales.InvoiceResponse, error) {
	args := m.Called(ctx, companyID, updatedBy, id, req)
	return result[sales.InvoiceResponse](args), args.Error(1)
}

func (m *mockInvoiceService) Send(ctx context.Context, companyID, updatedBy, id uuid.UUID) (*sales.InvoiceResponse, error) {
	args := m.Called(ctx, companyID, updatedBy, id)
	return result[sales.InvoiceResponse](args), args.Error(1)
}

func (m *mockInvoiceService) Cancel(ctx context.Context, companyID, updatedBy, id uuid.UUID, req sales.CancelInvoiceRequest) (*sales.InvoiceResponse, error) {
	args := m.Called(ctx, companyID, updatedBy, id, req)
	return result[sales.InvoiceResponse](args), args.Error(1)
}

func (m *mockInvoiceService) RecordPayment(ctx context.Context, companyID, recordedBy, id uuid.UUID, req sales.RecordPaymentRequest) (*sales.InvoiceResponse, error) {
	args := m.Called(ctx, companyID, recordedBy, id, req)
	return result[sales.InvoiceResponse](args), args.Error(1)
}

func (m *mockInvoiceService) ListPayments(ctx context.Context, companyID, id uuid.UUID) ([]sales.PaymentResponse, error) {
	args := m.Called(ctx, companyID, id)
	return args.Get(0).([]sales.PaymentResponse), args.Error(1)
}

func (m *mockInvoiceService) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return m.Called(ctx, companyID, id).Error(0)
}

func (m *mockInvoiceService) RenderPDF(ctx context.Context, companyID, id uuid.UUID) ([]byte, string, error) {
	args := m.Called(ctx, companyID, id)
	data, _ := args.Get(0).([]byte)
	return data, args.String(1), args.Error(2)
}

type mockExpenseService struct{ mock.Mock }

func (m *mockExpenseService) Create(ctx context.Context, companyID, createdBy uuid.UUID, req finance.CreateExpenseRequest) (*finance.ExpenseResponse, error) {
	args := m.Called(ctx, companyID, createdBy, req)
	return result[finance.ExpenseResponse](args), args.Error(1)
}

func (m *mockExpenseService) GetByID(ctx context.Context, companyID, id uuid.UUID) (*finance.ExpenseResponse, error) {
	args := m.Called(ctx, companyID, id)
	return result[finance.ExpenseResponse](args), args.Error(1)
}

func (m *mockExpenseService) List(ctx context.Context, companyID uuid.UUID, filter finance.ExpenseListFilter) ([]finance.ExpenseResponse, int64, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).([]finance.ExpenseResponse), args.Get(1).(int64), args.Error(2)
}

func (m *mockExpenseService) Update(ctx context.Context, companyID, updatedBy, id uuid.UUID, req finance.UpdateExpenseRequest) (*finance.ExpenseResponse, error) {
	args := m.Called(ctx, companyID, updatedBy, id, req)
	return result[finance.ExpenseResponse](args), args.Error(1)
}

func (m *mockExpenseService) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return m.Called(ctx, companyID, id).Error(0)
}

func (m *mockExpenseService) CreateReceiptUploadURL(ctx context.Context, companyID, id uuid.UUID, req finance.ReceiptUploadRequest) (*finance.ReceiptUploadResponse, error) {
	args := m.Called(ctx, companyID, id, req)
	return result[finance.ReceiptUploadResponse](args), args.Error(1)
}

func (m *mockExpenseService) GetReceiptURL(ctx context.Context, companyID, id uuid.UUID) (*finance.ReceiptURLResponse, error) {
	args := m.Called(ctx, companyID, id)
	return result[finance.ReceiptURLResponse](args), args.Error(1)
}

type mockReportService struct{ mock.Mock }

func (m *mockReportService) Dashboard(ctx context.Context, companyID uuid.UUID) (*report.Dashboard, error) {
	args := m.Called(ctx, companyID)
	return result[report.Dashboard](args), args.Error(1)
}

func (m *mockReportService) SalesSummary(ctx context.Context, companyID uuid.UUID, f reportapp.PeriodFilter) (*report.SalesSummary, error) {
	args := m.Called(ctx, companyID, f)
	return result[report.SalesSummary](args), args.Error(1)
}

func (m *mockReportService) Aging(ctx context.Context, companyID uuid.UUID, f reportapp.AgingFilter) (*report.AgingReport, error) {
	args := m.Called(ctx, companyID, f)
	return result[report.AgingReport](args), args.Error(1)
}

func (m *mockReportService) ExpensesByCategory(ctx context.Context, companyID uuid.UUID, f reportapp.PeriodFilter) (*report.ExpenseBreakdown, error) {
	args := m.Called(ctx, companyID, f)
	return result[report.ExpenseBreakdown](args), args.Error(1)
}

func (m *mockReportService) TopCustomers(ctx context.Context, companyID uuid.UUID, f reportapp.TopCustomersFilter) (*reportapp.TopCustomersResponse, error) {
	args := m.Called(ctx, companyID, f)
	return result[reportapp.TopCustomersResponse](args), args.Error(1)
}

func (m *mockReportService) ProfitLoss(ctx context.Context, companyID uuid.UUID, f reportapp.PeriodFilter) (*report.ProfitLoss, error) {
	args := m.Called(ctx, companyID, f)
	return result[report.ProfitLoss](args), args.Error(1)
}

func (m *mockReportService) Invalidate(ctx context.Context, companyID uuid.UUID) {
	m.Called(ctx, companyID)
}

type mockNotificationService struct{ mock.Mock }

func (m *mockNotificationService) List(ctx context.Context, companyID, userID uuid.UUID, filter notification.ListFilter) ([]notification.NotificationResponse, int64, error) {
	args := m.Called(ctx, companyID, userID, filter)
	return args.Get(0).([]notification.NotificationResponse), args.Get(1).(int64), args.Error(2)
}

func (m *mockNotificationService) UnreadCount(ctx context.Context, companyID, userID uuid.UUID) (*notification.UnreadCountResponse, error) {
	args := m.Called(ctx, companyID, userID)
	return result[notification.UnreadCountResponse](args), args.Error(1)
}

func (m *mockNotificationService) MarkRead(ctx context.Context, companyID, userID, id uuid.UUID) (*notification.NotificationResponse, error) {
	args := m.Called(ctx, companyID, userID, id)
	return result[notification.NotificationResponse](args), args.Error(1)
}

func (m *mockNotificationService) MarkAllRead(ctx context.Context, companyID, userID uuid.UUID) (*notification.MarkAllReadResponse, error) {
	args := m.Called(ctx, companyID, userID)
	return result[notification.MarkAllReadResponse](args), args.Error(1)
}

func (m *mockNotificationService) Delete(ctx context.Context, companyID, userID, id uuid.UUID) error {
	return m.Called(ctx, companyID, userID, id).Error(0)
}

type mockItemService struct{ mock.Mock }

func (m *mockItemService) Create(ctx context.Context, companyID, createdBy uuid.UUID, req catalog.CreateItemRequest) (*catalog.ItemResponse, error) {
	args := m.Called(ctx, companyID, createdBy, req)
	return result[catalog.ItemResponse](args), args.Error(1)
}

func (m *mockItemService) GetByID(ctx context.Context, companyID, id uuid.UUID) (*catalog.ItemResponse, error) {
	args := m.Called(ctx, companyID, id)
	return result[catalog.ItemResponse](args), args.Error(1)
}

func (m *mockItemService) List(ctx context.Context, companyID uuid.UUID, filter catalog.ItemListFilter) ([]catalog.ItemResponse, int64, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).([]catalog.ItemResponse), args.Get(1).(int64), args.Error(2)
}

func (m *mockItemService) Update(ctx context.Context, companyID, updatedBy, id uuid.UUID, req catalog.UpdateItemRequest) (*catalog.ItemResponse, error) {
	args := m.Called(ctx, companyID, updatedBy, id, req)
	return result[catalog.ItemResponse](args), args.Error(1)
}

func (m *mockItemService) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return m.Called(ctx, companyID, id).Error(0)
}

type mockSalesReceiptService struct{ mock.Mock }

func (m *mockSalesReceiptService) Create(ctx context.Context, companyID, createdBy uuid.UUID, req sales.CreateSalesReceiptRequest) (*sales.SalesReceiptResponse, error) {
	args := m.Called(ctx, companyID, createdBy, req)
	return result[sales.SalesReceiptResponse](args), args.Error(1)
}

func (m *mockSalesReceiptService) GetByID(ctx context.Context, companyID, id uuid.UUID) (*sales.SalesReceiptResponse, error) {
	args := m.Called(ctx, companyID, id)
	return result[sales.SalesReceiptResponse](args), args.Error(1)
}

func (m *mockSalesReceiptService) List(ctx context.Context, companyID uuid.UUID, filter sales.SalesReceiptListFilter) ([]sales.SalesReceiptResponse, int64, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).([]sales.SalesReceiptResponse), args.Get(1).(int64), args.Error(2)
}

func (m *mockSalesReceiptService) UpdateNotes(ctx context.Context, companyID, updatedBy, id uuid.UUID, req sales.UpdateSalesReceiptRequest) (*sales.SalesReceiptResponse, error) {
	args := m.Called(ctx, companyID, updatedBy, id, req)
	return result[sales.SalesReceiptResponse](args), args.Error(1)
}

func (m *mockSalesReceiptService) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return m.Called(ctx, companyID, id).Error(0)
}

func (m *mockSalesReceiptService) RenderPDF(ctx context.Context, companyID, id uuid.UUID) ([]byte, string, error) {
	args := m.Called(ctx, companyID, id)
	data, _ := args.Get(0).([]byte)
	return data, args.String(1), args.Error(2)
}
