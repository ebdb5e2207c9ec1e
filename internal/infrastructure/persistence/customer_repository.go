package persistence

import (
	"context"

	"github.com/bizledger/backend/internal/domain/partner"
	"github.com/bizledger/backend/internal/infrastructure/persistence/models"
	"github.com/bizledger/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCustomerRepository implements partner.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByIDForCompany finds a customer by ID within a company
func (r *GormCustomerRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs finds the company's customers among ids
func (r *GormCustomerRepository) FindByIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]partner.Customer, error) {
	if len(ids) == 0 {
		return []partner.Customer{}, nil
	}
	var customerModels []models.CustomerModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("id IN ?", ids).
		Find(&customerModels).Error; err != nil {
		return nil, err
	}
	return customersToDomain(customerModels), nil
}

// FindAllForCompany lists customers, searching name, email and business name
func (r *GormCustomerRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter partner.CustomerFilter) ([]partner.Customer, int64, error) {
	filter.Normalize()
	query := r.db.WithContext(ctx).Model(&models.CustomerModel{}).Scopes(tenant.Scope(companyID))
	if filter.Search != "" {
		p := searchPattern(filter.Search)
		query = query.Where(
			"(LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(email) LIKE ? ESCAPE '\\' OR LOWER(company_name) LIKE ? ESCAPE '\\')",
			p, p, p)
	}
	if filter.Active != nil {
		query = query.Where("is_active = ?", *filter.Active)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var customerModels []models.CustomerModel
	if err := paginate(query, filter.Filter, CustomerSortFields, "name").Find(&customerModels).Error; err != nil {
		return nil, 0, err
	}
	return customersToDomain(customerModels), total, nil
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	model := models.CustomerModelFromDomain(customer)
	return saveScoped(ctx, r.db, customer.CompanyID, customer.ID, customer.Version, false, model)
}

// DeleteForCompany deletes a customer within a company
func (r *GormCustomerRepository) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	return deleteScoped(ctx, r.db, companyID, id, &models.CustomerModel{})
}

// IsReferenced reports whether an invoice or sales receipt points at the customer
func (r *GormCustomerRepository) IsReferenced(ctx context.Context, companyID, id uuid.UUID) (bool, error) {
	for _, model := range []any{&models.InvoiceModel{}, &models.SalesReceiptModel{}} {
		var count int64
		if err := r.db.WithContext(ctx).Model(model).
			Scopes(tenant.Scope(companyID)).
			Where("customer_id = ?", id).
			Count(&count).Error; err != nil {
			return false, err
		}
		if count > 0 {
			return true, nil
		}
	}
	return false, nil
}

func customersToDomain(ms []models.CustomerModel) []partner.Customer {
	customers := make([]partner.Customer, len(ms))
	for i := range ms {
		customers[i] = *ms[i].ToDomain()
	}
	return customers
}
