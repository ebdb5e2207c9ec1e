package partner

import (
	"time"

	"github.com/bizledger/backend/internal/domain/partner"
	"github.com/google/uuid"
)

// =============================================================================
// Customer DTOs
// =============================================================================

// CreateCustomerRequest represents a request to create a new customer
type CreateCustomerRequest struct {
	Name            string `json:"name" binding:"required,min=1,max=200"`
	Email           string `json:"email" binding:"omitempty,email,max=200"`
	Phone           string `json:"phone" binding:"max=30"`
	CompanyName     string `json:"company_name" binding:"max=200"`
	BillingAddress  string `json:"billing_address" binding:"max=500"`
	ShippingAddress string `json:"shipping_address" binding:"max=500"`
	Notes           string `json:"notes"`
}

func (r CreateCustomerRequest) details() partner.CustomerDetails {
	return partner.CustomerDetails{
		Name:            r.Name,
		Email:           r.Email,
		Phone:           r.Phone,
		CompanyName:     r.CompanyName,
		BillingAddress:  r.BillingAddress,
		ShippingAddress: r.ShippingAddress,
		Notes:           r.Notes,
	}
}

// UpdateCustomerRequest represents a partial update of a customer
type UpdateCustomerRequest struct {
	Name            *string `json:"name" binding:"omitempty,min=1,max=200"`
	Email           *string `json:"email" binding:"omitempty,email,max=200"`
	Phone           *string `json:"phone" binding:"omitempty,max=30"`
	CompanyName     *string `json:"company_name" binding:"omitempty,max=200"`
	BillingAddress  *string `json:"billing_address" binding:"omitempty,max=500"`
	ShippingAddress *string `json:"shipping_address" binding:"omitempty,max=500"`
	Notes           *string `json:"notes"`
	IsActive        *bool   `json:"is_active"`
}

// CustomerListFilter are the query parameters of the customer listing
type CustomerListFilter struct {
	Search   string `form:"search"`
	Active   *bool  `form:"is_active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID              uuid.UUID `json:"id"`
	CompanyID       uuid.UUID `json:"company_id"`
	Name            string    `json:"name"`
	DisplayName     string    `json:"display_name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	CompanyName     string    `json:"company_name"`
	BillingAddress  string    `json:"billing_address"`
	ShippingAddress string    `json:"shipping_address"`
	Notes           string    `json:"notes"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:              c.ID,
		CompanyID:       c.CompanyID,
		Name:            c.Name,
		DisplayName:     c.DisplayName(),
		Email:           c.Email,
		Phone:           c.Phone,
		CompanyName:     c.CompanyName,
		BillingAddress:  c.BillingAddress,
		ShippingAddress: c.ShippingAddress,
		Notes:           c.Notes,
		IsActive:        c.Active,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// ToCustomerResponses converts a slice of customers
func ToCustomerResponses(customers []partner.Customer) []CustomerResponse {
	out := make([]CustomerResponse, len(customers))
	for i := range customers {
		out[i] = ToCustomerResponse(&customers[i])
	}
	return out
}
