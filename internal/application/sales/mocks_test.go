package sales

import (
	"context"
	"time"

	"github.com/bizledger/backend/internal/domain/catalog"
	"github.com/bizledger/backend/internal/domain/company"
	"github.com/bizledger/backend/internal/domain/partner"
	"github.com/bizledger/backend/internal/domain/sales"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockInvoiceRepository is a mock implementation of sales.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*sales.Invoice, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter sales.InvoiceFilter) ([]sales.Invoice, int64, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).([]sales.Invoice), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceRepository) FindOverdueCandidates(ctx context.Context, companyID uuid.UUID, asOf time.Time, limit int) ([]sales.Invoice, error) {
	args := m.Called(ctx, companyID, asOf, limit)
	return args.Get(0).([]sales.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindOpenForCompany(ctx context.Context, companyID uuid.UUID) ([]sales.Invoice, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).([]sales.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindInRange(ctx context.Context, companyID uuid.UUID, dates shared.DateRange) ([]sales.Invoice, error) {
	args := m.Called(ctx, companyID, dates)
	return args.Get(0).([]sales.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindWithPaymentsSince(ctx context.Context, companyID uuid.UUID, since time.Time) ([]sales.Invoice, error) {
	args := m.Called(ctx, companyID, since)
	return args.Get(0).([]sales.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) MaxSequence(ctx context.Context, companyID uuid.UUID, prefix string) (int64, error) {
	args := m.Called(ctx, companyID, prefix)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) Create(ctx context.Context, inv *sales.Invoice) error {
	return m.Called(ctx, inv).Error(0)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, inv *sales.Invoice) error {
	return m.Called(ctx, inv).Error(0)
}

func (m *MockInvoiceRepository) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	return m.Called(ctx, companyID, id).Error(0)
}

func (m *MockInvoiceRepository) CountByCustomer(ctx context.Context, companyID, customerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, companyID, customerID)
	return args.Get(0).(int64), args.Error(1)
}

// MockSalesReceiptRepository is a mock implementation of sales.SalesReceiptRepository
type MockSalesReceiptRepository struct {
	mock.Mock
}

func (m *MockSalesReceiptRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*sales.SalesReceipt, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.SalesReceipt), args.Error(1)
}

func (m *MockSalesReceiptRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter sales.SalesReceiptFilter) ([]sales.SalesReceipt, int64, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).([]sales.SalesReceipt), args.Get(1).(int64), args.Error(2)
}

func (m *MockSalesReceiptRepository) FindInRange(ctx context.Context, companyID uuid.UUID, dates shared.DateRange) ([]sales.SalesReceipt, error) {
	args := m.Called(ctx, companyID, dates)
	return args.Get(0).([]sales.SalesReceipt), args.Error(1)
}

func (m *MockSalesReceiptRepository) MaxSequence(ctx context.Context, companyID uuid.UUID, prefix string) (int64, error) {
	args := m.Called(ctx, companyID, prefix)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSalesReceiptRepository) Create(ctx context.Context, r *sales.SalesReceipt) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockSalesReceiptRepository) Save(ctx context.Context, r *sales.SalesReceipt) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockSalesReceiptRepository) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	return m.Called(ctx, companyID, id).Error(0)
}

// MockCustomerRepository is a mock implementation of partner.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]partner.Customer, error) {
	args := m.Called(ctx, companyID, ids)
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter partner.CustomerFilter) ([]partner.Customer, int64, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).([]partner.Customer), args.Get(1).(int64), args.Error(2)
}

func (m *MockCustomerRepository) Save(ctx context.Context, c *partner.Customer) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCustomerRepository) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	return m.Called(ctx, companyID, id).Error(0)
}

func (m *MockCustomerRepository) IsReferenced(ctx context.Context, companyID, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, companyID, id)
	return args.Bool(0), args.Error(1)
}

// MockItemRepository is a mock implementation of catalog.ItemRepository
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*catalog.Item, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *MockItemRepository) FindByIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]catalog.Item, error) {
	args := m.Called(ctx, companyID, ids)
	if fn, ok := args.Get(0).(func(context.Context, uuid.UUID, []uuid.UUID) []catalog.Item); ok {
		return fn(ctx, companyID, ids), args.Error(1)
	}
	return args.Get(0).([]catalog.Item), args.Error(1)
}

func (m *MockItemRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter catalog.ItemFilter) ([]catalog.Item, int64, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).([]catalog.Item), args.Get(1).(int64), args.Error(2)
}

func (m *MockItemRepository) ExistsBySKU(ctx context.Context, companyID uuid.UUID, sku string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, companyID, sku, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockItemRepository) Save(ctx context.Context, item *catalog.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockItemRepository) SaveAll(ctx context.Context, items []*catalog.Item) error {
	return m.Called(ctx, items).Error(0)
}

func (m *MockItemRepository) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	return m.Called(ctx, companyID, id).Error(0)
}

// MockCompanyRepository is a mock implementation of company.Repository
type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*company.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*company.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindAllActive(ctx context.Context) ([]company.Company, error) {
	args := m.Called(ctx)
	return args.Get(0).([]company.Company), args.Error(1)
}

func (m *MockCompanyRepository) Save(ctx context.Context, c *company.Company) error {
	return m.Called(ctx, c).Error(0)
}

// MockEventPublisher collects published events
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}

// MockReportInvalidator records invalidations
type MockReportInvalidator struct {
	mock.Mock
}

func (m *MockReportInvalidator) Invalidate(ctx context.Context, companyID uuid.UUID) {
	m.Called(ctx, companyID)
}

// eventTypes returns the types of published events for assertions
func eventTypes(events []shared.DomainEvent) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.EventType()
	}
	return out
}
