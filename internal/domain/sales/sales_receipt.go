package sales

import (
	"strings"
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesReceiptDetails carries the content of a new sales receipt
type SalesReceiptDetails struct {
	CustomerID      *uuid.UUID
	CustomerName    string
	ReceiptDate     time.Time
	Items           LineItems
	Discount        decimal.Decimal
	ShippingCharges decimal.Decimal
	PaymentMethod   PaymentMethod
	Reference       string
	Notes           string
}

// SalesReceipt records a sale that was paid in full at the time of sale
type SalesReceipt struct {
	shared.CompanyAggregateRoot
	CustomerID         *uuid.UUID
	CustomerName       string
	SalesReceiptNumber string
	ReceiptDate        time.Time
	Items              LineItems
	SubTotal           decimal.Decimal
	Discount           decimal.Decimal
	ShippingCharges    decimal.Decimal
	TaxTotal           decimal.Decimal
	Total              decimal.Decimal
	PaymentMethod      PaymentMethod
	Reference          string
	Notes              string
}

// NewSalesReceipt validates the sale and computes its totals
func NewSalesReceipt(companyID, createdBy uuid.UUID, number string, d SalesReceiptDetails, now time.Time) (*SalesReceipt, error) {
	v := &shared.ValidationError{}
	if d.ReceiptDate.IsZero() {
		v.Add("receipt_date", "is required")
	} else if d.ReceiptDate.After(now) {
		v.Add("receipt_date", "cannot be in the future")
	}
	if !d.PaymentMethod.IsValid() {
		v.Add("payment_method", "is not a supported payment method")
	}
	if d.CustomerID != nil && *d.CustomerID == uuid.Nil {
		v.Add("customer_id", "is invalid")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	totals, err := ComputeTotals(d.Items, d.Discount, d.ShippingCharges)
	if err != nil {
		return nil, err
	}

	r := &SalesReceipt{
		CompanyAggregateRoot: shared.NewCompanyAggregateRootWithCreator(companyID, createdBy),
		CustomerID:           d.CustomerID,
		CustomerName:         strings.TrimSpace(d.CustomerName),
		ReceiptDate:          d.ReceiptDate,
		Items:                d.Items,
		SubTotal:             totals.SubTotal,
		Discount:             totals.Discount,
		ShippingCharges:      totals.ShippingCharges,
		TaxTotal:             totals.TaxTotal,
		Total:                totals.Total,
		PaymentMethod:        d.PaymentMethod,
		Reference:            strings.TrimSpace(d.Reference),
		Notes:                d.Notes,
	}
	r.SetNumber(number)
	r.AddDomainEvent(NewSalesReceiptCreatedEvent(r))
	return r, nil
}

// SetNumber assigns the receipt number in its normalized form and keeps the
// pending SalesReceiptCreated event in step
func (r *SalesReceipt) SetNumber(number string) {
	r.SalesReceiptNumber = NormalizeNumber(number)
	for _, e := range r.GetDomainEvents() {
		if created, ok := e.(*SalesReceiptCreatedEvent); ok {
			created.SalesReceiptNumber = r.SalesReceiptNumber
		}
	}
}

// UpdateNotes is the only edit a recorded sale allows
func (r *SalesReceipt) UpdateNotes(notes string, updatedBy uuid.UUID, now time.Time) {
	r.Notes = notes
	r.SetUpdatedBy(updatedBy)
	r.Touch(now)
	r.IncrementVersion()
}
