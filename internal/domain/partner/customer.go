package partner

import (
	"regexp"
	"strings"
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^[0-9+\-() .]{5,30}$`)

	// ErrCustomerInUse is returned when deleting a customer that documents still reference
	ErrCustomerInUse = shared.NewDomainError("INVALID_STATE", "Customer is referenced by invoices or receipts and cannot be deleted")
)

// Customer is someone the company bills
type Customer struct {
	shared.CompanyAggregateRoot
	Name            string
	Email           string
	Phone           string
	CompanyName     string
	BillingAddress  string
	ShippingAddress string
	Notes           string
	Active          bool
}

// CustomerDetails carries the editable fields of a customer
type CustomerDetails struct {
	Name            string
	Email           string
	Phone           string
	CompanyName     string
	BillingAddress  string
	ShippingAddress string
	Notes           string
}

// NewCustomer creates an active customer for a company
func NewCustomer(companyID uuid.UUID, d CustomerDetails) (*Customer, error) {
	c := &Customer{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		Active:               true,
	}
	if err := c.apply(d); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the customer's details
func (c *Customer) Update(d CustomerDetails) error {
	if err := c.apply(d); err != nil {
		return err
	}
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

func (c *Customer) apply(d CustomerDetails) error {
	v := &shared.ValidationError{}
	name := strings.TrimSpace(d.Name)
	switch {
	case name == "":
		v.Add("name", "is required")
	case len(name) > 200:
		v.Add("name", "cannot exceed 200 characters")
	}
	email := strings.ToLower(strings.TrimSpace(d.Email))
	if email != "" && !emailRegex.MatchString(email) {
		v.Add("email", "is not a valid email address")
	}
	phone := strings.TrimSpace(d.Phone)
	if phone != "" && !phoneRegex.MatchString(phone) {
		v.Add("phone", "is not a valid phone number")
	}
	if len(d.BillingAddress) > 500 {
		v.Add("billing_address", "cannot exceed 500 characters")
	}
	if len(d.ShippingAddress) > 500 {
		v.Add("shipping_address", "cannot exceed 500 characters")
	}
	if err := v.Err(); err != nil {
		return err
	}

	c.Name = name
	c.Email = email
	c.Phone = phone
	c.CompanyName = strings.TrimSpace(d.CompanyName)
	c.BillingAddress = strings.TrimSpace(d.BillingAddress)
	c.ShippingAddress = strings.TrimSpace(d.ShippingAddress)
	c.Notes = d.Notes
	return nil
}

// Activate marks the customer as active
func (c *Customer) Activate() {
	c.Active = true
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Deactivate hides the customer from pickers without deleting history
func (c *Customer) Deactivate() {
	c.Active = false
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// DisplayName prefers the customer's business name when present
func (c *Customer) DisplayName() string {
	if c.CompanyName != "" {
		return c.CompanyName + " (" + c.Name + ")"
	}
	return c.Name
}
