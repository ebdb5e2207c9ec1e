package partner

import (
	"context"
	"errors"
	"testing"

	"github.com/bizledger/backend/internal/domain/partner"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCustomerRepository is a mock implementation of CustomerRepository
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

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

func (m *MockCustomerRepository) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	return m.Called(ctx, companyID, id).Error(0)
}

func (m *MockCustomerRepository) IsReferenced(ctx context.Context, companyID, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, companyID, id)
	return args.Bool(0), args.Error(1)
}

func newTestCustomer(t *testing.T, companyID uuid.UUID) *partner.Customer {
	t.Helper()
	c, err := partner.NewCustomer(companyID, partner.CustomerDetails{
		Name:           "Jo Baker",
		Email:          "jo@bakery.test",
		CompanyName:    "Jo's Bakery",
		BillingAddress: "1 Flour St",
	})
	require.NoError(t, err)
	return c
}

func TestCustomerService_Create(t *testing.T) {
	ctx := context.Background()
	companyID, userID := uuid.New(), uuid.New()

	t.Run("creates customer", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		repo.On("Save", ctx, mock.AnythingOfType("*partner.Customer")).Return(nil)
		svc := NewCustomerService(repo)

		resp, err := svc.Create(ctx, companyID, userID, CreateCustomerRequest{
			Name: " Jo Baker ", Email: "JO@Bakery.test", CompanyName: "Jo's Bakery",
		})
		require.NoError(t, err)
		assert.Equal(t, "Jo Baker", resp.Name)
		assert.Equal(t, "jo@bakery.test", resp.Email)
		assert.Equal(t, "Jo's Bakery (Jo Baker)", resp.DisplayName)
		assert.True(t, resp.IsActive)
		repo.AssertExpectations(t)
	})

	t.Run("validation error is not saved", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewCustomerService(repo)

		_, err := svc.Create(ctx, companyID, userID, CreateCustomerRequest{Name: "  ", Phone: "x"})
		var ve *shared.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Len(t, ve.Errors, 2)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestCustomerService_Update(t *testing.T) {
	ctx := context.Background()
	companyID, userID := uuid.New(), uuid.New()
	customer := newTestCustomer(t, companyID)

	repo := new(MockCustomerRepository)
	repo.On("FindByIDForCompany", ctx, companyID, customer.ID).Return(customer, nil)
	repo.On("Save", ctx, customer).Return(nil)
	svc := NewCustomerService(repo)

	phone := "+44 20 7946 0000"
	inactive := false
	resp, err := svc.Update(ctx, companyID, userID, customer.ID, UpdateCustomerRequest{Phone: &phone, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, phone, resp.Phone)
	assert.Equal(t, "1 Flour St", resp.BillingAddress, "unchanged fields are kept")
	assert.False(t, resp.IsActive)
	assert.Equal(t, &userID, customer.UpdatedBy)
}

func TestCustomerService_Delete(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	customer := newTestCustomer(t, companyID)

	tests := []struct {
		name       string
		referenced bool
		wantErr    error
	}{
		{"unreferenced customer is deleted", false, nil},
		{"referenced customer is rejected", true, partner.ErrCustomerInUse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockCustomerRepository)
			repo.On("FindByIDForCompany", ctx, companyID, customer.ID).Return(customer, nil)
			repo.On("IsReferenced", ctx, companyID, customer.ID).Return(tt.referenced, nil)
			repo.On("DeleteForCompany", ctx, companyID, customer.ID).Return(nil)
			svc := NewCustomerService(repo)

			err := svc.Delete(ctx, companyID, customer.ID)
			if tt.wantErr == nil {
				require.NoError(t, err)
				repo.AssertCalled(t, "DeleteForCompany", ctx, companyID, customer.ID)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			repo.AssertNotCalled(t, "DeleteForCompany", mock.Anything, mock.Anything, mock.Anything)
		})
	}

	t.Run("other company's customer is not found", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		other := uuid.New()
		repo.On("FindByIDForCompany", ctx, other, customer.ID).Return(nil, shared.ErrNotFound)
		svc := NewCustomerService(repo)

		assert.ErrorIs(t, svc.Delete(ctx, other, customer.ID), shared.ErrNotFound)
	})

	t.Run("repository failure surfaces", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		repo.On("FindByIDForCompany", ctx, companyID, customer.ID).Return(customer, nil)
		repo.On("IsReferenced", ctx, companyID, customer.ID).Return(false, errors.New("db down"))
		svc := NewCustomerService(repo)

		assert.EqualError(t, svc.Delete(ctx, companyID, customer.ID), "db down")
	})
}
