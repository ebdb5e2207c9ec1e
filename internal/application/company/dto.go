package company

import (
	"time"

	"github.com/bizledger/backend/internal/domain/company"
	"github.com/google/uuid"
)

// UpdateCompanyRequest updates the profile and document settings of the company.
// Nil fields are left unchanged.
type UpdateCompanyRequest struct {
	Name             *string `json:"name" binding:"omitempty,min=1,max=200"`
	Email            *string `json:"email" binding:"omitempty,email,max=200"`
	Phone            *string `json:"phone" binding:"omitempty,max=50"`
	Address          *string `json:"address" binding:"omitempty,max=500"`
	TaxID            *string `json:"tax_id" binding:"omitempty,max=50"`
	Currency         *string `json:"currency" binding:"omitempty,len=3"`
	InvoicePrefix    *string `json:"invoice_prefix" binding:"omitempty,min=1,max=10"`
	ReceiptPrefix    *string `json:"receipt_prefix" binding:"omitempty,min=1,max=10"`
	PaymentTermsDays *int    `json:"payment_terms_days" binding:"omitempty,min=0,max=365"`
}

func (r UpdateCompanyRequest) touchesSettings() bool {
	return r.Currency != nil || r.InvoicePrefix != nil || r.ReceiptPrefix != nil || r.PaymentTermsDays != nil
}

func (r UpdateCompanyRequest) touchesProfile() bool {
	return r.Name != nil || r.Email != nil || r.Phone != nil || r.Address != nil || r.TaxID != nil
}

// BootstrapInput creates a company together with its first user
type BootstrapInput struct {
	CompanyName   string
	CompanyEmail  string
	AdminName     string
	AdminEmail    string
	AdminPassword string
	AdminRole     string
}

// BootstrapResult identifies what Bootstrap created
type BootstrapResult struct {
	CompanyID uuid.UUID `json:"company_id"`
	UserID    uuid.UUID `json:"user_id"`
	Role      string    `json:"role"`
}

// CompanyResponse represents the company in API responses
type CompanyResponse struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	Address          string    `json:"address"`
	TaxID            string    `json:"tax_id"`
	Currency         string    `json:"currency"`
	InvoicePrefix    string    `json:"invoice_prefix"`
	ReceiptPrefix    string    `json:"receipt_prefix"`
	PaymentTermsDays int       `json:"payment_terms_days"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ToCompanyResponse converts a domain Company to CompanyResponse
func ToCompanyResponse(c *company.Company) CompanyResponse {
	return CompanyResponse{
		ID:               c.ID,
		Name:             c.Name,
		Email:            c.Email,
		Phone:            c.Phone,
		Address:          c.Address,
		TaxID:            c.TaxID,
		Currency:         c.Currency,
		InvoicePrefix:    c.InvoicePrefix,
		ReceiptPrefix:    c.ReceiptPrefix,
		PaymentTermsDays: c.PaymentTermsDays,
		IsActive:         c.Active,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}
