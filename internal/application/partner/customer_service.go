package partner

import (
	"context"

	"github.com/bizledger/backend/internal/domain/partner"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo partner.CustomerRepository
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
	}
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, companyID, createdBy uuid.UUID, req CreateCustomerRequest) (*CustomerResponse, error) {
	customer, err := partner.NewCustomer(companyID, req.details())
	if err != nil {
		return nil, err
	}
	customer.CreatedBy = &createdBy
	customer.SetUpdatedBy(createdBy)

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, companyID, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// Find returns the domain customer for other services
func (s *CustomerService) Find(ctx context.Context, companyID, id uuid.UUID) (*partner.Customer, error) {
	return s.customerRepo.FindByIDForCompany(ctx, companyID, id)
}

// List retrieves a page of customers
func (s *CustomerService) List(ctx context.Context, companyID uuid.UUID, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
	customers, total, err := s.customerRepo.FindAllForCompany(ctx, companyID, partner.CustomerFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		},
		Active: filter.Active,
	})
	if err != nil {
		return nil, 0, err
	}
	return ToCustomerResponses(customers), total, nil
}

// Update applies a partial update
func (s *CustomerService) Update(ctx context.Context, companyID, updatedBy, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	d := partner.CustomerDetails{
		Name:            customer.Name,
		Email:           customer.Email,
		Phone:           customer.Phone,
		CompanyName:     customer.CompanyName,
		BillingAddress:  customer.BillingAddress,
		ShippingAddress: customer.ShippingAddress,
		Notes:           customer.Notes,
	}
	setIf(&d.Name, req.Name)
	setIf(&d.Email, req.Email)
	setIf(&d.Phone, req.Phone)
	setIf(&d.CompanyName, req.CompanyName)
	setIf(&d.BillingAddress, req.BillingAddress)
	setIf(&d.ShippingAddress, req.ShippingAddress)
	setIf(&d.Notes, req.Notes)
	if err := customer.Update(d); err != nil {
		return nil, err
	}

	if req.IsActive != nil && *req.IsActive != customer.Active {
		if *req.IsActive {
			customer.Activate()
		} else {
			customer.Deactivate()
		}
	}
	customer.SetUpdatedBy(updatedBy)

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// Delete removes a customer that no invoice or sales receipt references
func (s *CustomerService) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	if _, err := s.customerRepo.FindByIDForCompany(ctx, companyID, id); err != nil {
		return err
	}
	referenced, err := s.customerRepo.IsReferenced(ctx, companyID, id)
	if err != nil {
		return err
	}
	if referenced {
		return partner.ErrCustomerInUse
	}
	return s.customerRepo.DeleteForCompany(ctx, companyID, id)
}

func setIf(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
