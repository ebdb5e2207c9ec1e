// Package company holds the tenant aggregate. Every other aggregate is owned by a company.
package company

import (
	"strings"
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
)

const (
	DefaultInvoicePrefix    = "INV-"
	DefaultReceiptPrefix    = "REC-"
	DefaultExpensePrefix    = "EXP-"
	DefaultPaymentTermsDays = 30
	DefaultCurrency         = "USD"
)

// Company is the unit of data isolation
type Company struct {
	shared.BaseAggregateRoot
	Name             string
	Email            string
	Phone            string
	Address          string
	Currency         string
	TaxID            string
	InvoicePrefix    string
	ReceiptPrefix    string
	PaymentTermsDays int
	Active           bool
}

// NewCompany creates an active company with default document settings
func NewCompany(name, email string) (*Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Company name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Company name cannot exceed 200 characters")
	}
	return &Company{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Email:             strings.ToLower(strings.TrimSpace(email)),
		Currency:          DefaultCurrency,
		InvoicePrefix:     DefaultInvoicePrefix,
		ReceiptPrefix:     DefaultReceiptPrefix,
		PaymentTermsDays:  DefaultPaymentTermsDays,
		Active:            true,
	}, nil
}

// Profile is the editable contact information of a company
type Profile struct {
	Name    string
	Email   string
	Phone   string
	Address string
	TaxID   string
}

// UpdateProfile replaces the contact information
func (c *Company) UpdateProfile(p Profile) error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Company name cannot be empty")
	}
	c.Name = name
	c.Email = strings.ToLower(strings.TrimSpace(p.Email))
	c.Phone = strings.TrimSpace(p.Phone)
	c.Address = strings.TrimSpace(p.Address)
	c.TaxID = strings.TrimSpace(p.TaxID)
	c.touch()
	return nil
}

// Settings are the document defaults applied to new invoices and receipts
type Settings struct {
	Currency         string
	InvoicePrefix    string
	ReceiptPrefix    string
	PaymentTermsDays int
}

// UpdateSettings validates and applies document settings
func (c *Company) UpdateSettings(s Settings) error {
	v := &shared.ValidationError{}
	currency := strings.ToUpper(strings.TrimSpace(s.Currency))
	if len(currency) != 3 {
		v.Add("currency", "must be a 3-letter ISO 4217 code")
	}
	invoicePrefix := normalizePrefix(s.InvoicePrefix)
	if invoicePrefix == "" || len(invoicePrefix) > 10 {
		v.Add("invoice_prefix", "must be 1 to 10 characters")
	}
	receiptPrefix := normalizePrefix(s.ReceiptPrefix)
	if receiptPrefix == "" || len(receiptPrefix) > 10 {
		v.Add("receipt_prefix", "must be 1 to 10 characters")
	}
	if s.PaymentTermsDays < 0 || s.PaymentTermsDays > 365 {
		v.Add("payment_terms_days", "must be between 0 and 365")
	}
	if err := v.Err(); err != nil {
		return err
	}

	c.Currency = currency
	c.InvoicePrefix = invoicePrefix
	c.ReceiptPrefix = receiptPrefix
	c.PaymentTermsDays = s.PaymentTermsDays
	c.touch()
	return nil
}

// DefaultDueDate returns the due date implied by the company's payment terms
func (c *Company) DefaultDueDate(invoiceDate time.Time) time.Time {
	return invoiceDate.AddDate(0, 0, c.PaymentTermsDays)
}

// Deactivate suspends the company; its users can no longer sign in
func (c *Company) Deactivate() {
	c.Active = false
	c.touch()
}

func (c *Company) touch() {
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

func normalizePrefix(p string) string {
	return strings.ToUpper(strings.TrimSpace(p))
}
