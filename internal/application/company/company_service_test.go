package company

import (
	"context"
	"testing"

	"github.com/bizledger/backend/internal/domain/company"
	"github.com/bizledger/backend/internal/domain/identity"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

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

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter identity.UserFilter) ([]identity.User, int64, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).([]identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	return m.Called(ctx, companyID, id).Error(0)
}

func strPtr(s string) *string { return &s }

func TestCompanyService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("partial profile and settings update", func(t *testing.T) {
		c, err := company.NewCompany("Acme", "a@acme.test")
		require.NoError(t, err)
		companies := new(MockCompanyRepository)
		companies.On("FindByID", ctx, c.ID).Return(c, nil)
		companies.On("Save", ctx, c).Return(nil)
		svc := NewCompanyService(companies, new(MockUserRepository), zap.NewNop())

		terms := 14
		resp, err := svc.Update(ctx, c.ID, UpdateCompanyRequest{
			Phone:            strPtr("+1 555 0100"),
			Currency:         strPtr("eur"),
			InvoicePrefix:    strPtr("acme-"),
			PaymentTermsDays: &terms,
		})
		require.NoError(t, err)
		assert.Equal(t, "Acme", resp.Name)
		assert.Equal(t, "+1 555 0100", resp.Phone)
		assert.Equal(t, "EUR", resp.Currency)
		assert.Equal(t, "ACME-", resp.InvoicePrefix)
		assert.Equal(t, company.DefaultReceiptPrefix, resp.ReceiptPrefix)
		assert.Equal(t, 14, resp.PaymentTermsDays)
	})

	t.Run("invalid settings are not saved", func(t *testing.T) {
		c, err := company.NewCompany("Acme", "a@acme.test")
		require.NoError(t, err)
		companies := new(MockCompanyRepository)
		companies.On("FindByID", ctx, c.ID).Return(c, nil)
		svc := NewCompanyService(companies, new(MockUserRepository), zap.NewNop())

		_, err = svc.Update(ctx, c.ID, UpdateCompanyRequest{Currency: strPtr("EURO")})
		var ve *shared.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "currency", ve.Errors[0].Field)
		companies.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestCompanyService_Bootstrap(t *testing.T) {
	ctx := context.Background()

	t.Run("creates company and super admin", func(t *testing.T) {
		companies := new(MockCompanyRepository)
		users := new(MockUserRepository)
		users.On("ExistsByEmail", ctx, "owner@acme.test").Return(false, nil)
		companies.On("Save", ctx, mock.AnythingOfType("*company.Company")).Return(nil)
		users.On("Save", ctx, mock.MatchedBy(func(u *identity.User) bool {
			return u.Role == identity.RoleSuperAdmin && u.Name == "Acme Admin"
		})).Return(nil)
		svc := NewCompanyService(companies, users, zap.NewNop())

		res, err := svc.Bootstrap(ctx, BootstrapInput{
			CompanyName: "Acme", AdminEmail: "owner@acme.test", AdminPassword: "passw0rdX",
		})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, res.CompanyID)
		assert.Equal(t, "super_admin", res.Role)
		users.AssertExpectations(t)
	})

	t.Run("rejects a registered email", func(t *testing.T) {
		companies := new(MockCompanyRepository)
		users := new(MockUserRepository)
		users.On("ExistsByEmail", ctx, "owner@acme.test").Return(true, nil)
		svc := NewCompanyService(companies, users, zap.NewNop())

		_, err := svc.Bootstrap(ctx, BootstrapInput{
			CompanyName: "Acme", AdminEmail: "owner@acme.test", AdminPassword: "passw0rdX",
		})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		companies.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestCompanyService_ActiveCompanyIDs(t *testing.T) {
	ctx := context.Background()
	a, _ := company.NewCompany("A", "")
	b, _ := company.NewCompany("B", "")
	companies := new(MockCompanyRepository)
	companies.On("FindAllActive", ctx).Return([]company.Company{*a, *b}, nil)
	svc := NewCompanyService(companies, new(MockUserRepository), zap.NewNop())

	ids, err := svc.ActiveCompanyIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a.ID, b.ID}, ids)
}
