package sales

import (
	"strings"
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceDetails carries the editable content of an invoice
type InvoiceDetails struct {
	CustomerID      uuid.UUID
	CustomerName    string
	InvoiceDate     time.Time
	DueDate         time.Time
	Items           LineItems
	Discount        decimal.Decimal
	ShippingCharges decimal.Decimal
	Notes           string
	Terms           string
}

// Invoice is a bill sent to a customer that is settled by one or more payments
type Invoice struct {
	shared.CompanyAggregateRoot
	CustomerID      uuid.UUID
	CustomerName    string
	InvoiceNumber   string
	InvoiceDate     time.Time
	DueDate         time.Time
	Items           LineItems
	SubTotal        decimal.Decimal
	Discount        decimal.Decimal
	ShippingCharges decimal.Decimal
	TaxTotal        decimal.Decimal
	Total           decimal.Decimal
	AmountPaid      decimal.Decimal
	BalanceDue      decimal.Decimal
	Status          InvoiceStatus
	Notes           string
	Terms           string
	SentDate        *time.Time
	PaidDate        *time.Time
	CancelledDate   *time.Time
	Payments        Payments
}

// NewInvoice creates a draft invoice with computed totals
func NewInvoice(companyID, createdBy uuid.UUID, number string, d InvoiceDetails, now time.Time) (*Invoice, error) {
	inv := &Invoice{
		CompanyAggregateRoot: shared.NewCompanyAggregateRootWithCreator(companyID, createdBy),
		Status:               InvoiceStatusDraft,
		AmountPaid:           decimal.Zero,
		Payments:             Payments{},
	}
	inv.SetNumber(number)
	if err := inv.apply(d); err != nil {
		return nil, err
	}
	inv.Refresh(now)
	inv.ClearDomainEvents()
	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))
	return inv, nil
}

// SetNumber assigns the invoice number in its normalized form. The pending
// InvoiceCreated event follows, so a number allocated after construction
// (or re-allocated on retry) is the one published.
func (inv *Invoice) SetNumber(number string) {
	inv.InvoiceNumber = NormalizeNumber(number)
	for _, e := range inv.GetDomainEvents() {
		if created, ok := e.(*InvoiceCreatedEvent); ok {
			created.InvoiceNumber = inv.InvoiceNumber
		}
	}
}

func (inv *Invoice) apply(d InvoiceDetails) error {
	v := &shared.ValidationError{}
	if d.CustomerID == uuid.Nil {
		v.Add("customer_id", "is required")
	}
	if d.InvoiceDate.IsZero() {
		v.Add("invoice_date", "is required")
	}
	if d.DueDate.IsZero() {
		v.Add("due_date", "is required")
	} else if !d.InvoiceDate.IsZero() && d.DueDate.Before(d.InvoiceDate) {
		v.Add("due_date", "cannot be before the invoice date")
	}
	if err := v.Err(); err != nil {
		return err
	}

	totals, err := ComputeTotals(d.Items, d.Discount, d.ShippingCharges)
	if err != nil {
		return err
	}

	inv.CustomerID = d.CustomerID
	inv.CustomerName = strings.TrimSpace(d.CustomerName)
	inv.InvoiceDate = d.InvoiceDate
	inv.DueDate = d.DueDate
	inv.Items = d.Items
	inv.Notes = d.Notes
	inv.Terms = d.Terms
	inv.SubTotal = totals.SubTotal
	inv.Discount = totals.Discount
	inv.ShippingCharges = totals.ShippingCharges
	inv.TaxTotal = totals.TaxTotal
	inv.Total = totals.Total
	return nil
}

// State returns the fields used by status derivation
func (inv *Invoice) State() InvoiceState {
	return InvoiceState{
		Total:      inv.Total,
		AmountPaid: inv.AmountPaid,
		BalanceDue: inv.BalanceDue,
		DueDate:    inv.DueDate,
		Status:     inv.Status,
		PaidDate:   inv.PaidDate,
	}
}

// Refresh applies Derive to the invoice and reports whether the status changed.
// It raises InvoiceOverdue or InvoicePaid when the derivation moved the invoice there.
func (inv *Invoice) Refresh(now time.Time) bool {
	before := inv.Status
	next := Derive(inv.State(), now)
	inv.BalanceDue = next.BalanceDue
	inv.Status = next.Status
	inv.PaidDate = next.PaidDate

	if next.Status == before {
		return false
	}
	switch next.Status {
	case InvoiceStatusOverdue:
		inv.AddDomainEvent(NewInvoiceOverdueEvent(inv, now))
	case InvoiceStatusPaid:
		inv.AddDomainEvent(NewInvoicePaidEvent(inv))
	}
	return true
}

// IsEditable reports whether the content of the invoice may still change.
// An unsent invoice that derivation marked overdue is still a draft in substance.
func (inv *Invoice) IsEditable() bool {
	if inv.Status == InvoiceStatusDraft {
		return true
	}
	return inv.Status == InvoiceStatusOverdue && inv.SentDate == nil && inv.AmountPaid.IsZero()
}

// UpdateDetails replaces the content of an editable invoice
func (inv *Invoice) UpdateDetails(d InvoiceDetails, updatedBy uuid.UUID, now time.Time) error {
	if !inv.IsEditable() {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be edited")
	}
	if err := inv.apply(d); err != nil {
		return err
	}
	// Content edits may move the due date forward; drop back to draft before deriving.
	inv.Status = InvoiceStatusDraft
	inv.Refresh(now)
	inv.SetUpdatedBy(updatedBy)
	inv.Touch(now)
	inv.IncrementVersion()
	return nil
}

// Send marks the invoice as sent to the customer
func (inv *Invoice) Send(updatedBy uuid.UUID, now time.Time) error {
	switch {
	case inv.Status.IsTerminal():
		return shared.NewDomainError("INVALID_STATE", "Cannot send a "+inv.Status.String()+" invoice")
	case inv.Status == InvoiceStatusPartiallyPaid:
		return shared.NewDomainError("INVALID_STATE", "Invoice has already received payments")
	}
	if inv.Status == InvoiceStatusDraft {
		inv.Status = InvoiceStatusSent
	}
	if inv.SentDate == nil {
		sent := now
		inv.SentDate = &sent
	}
	inv.Refresh(now)
	inv.SetUpdatedBy(updatedBy)
	inv.Touch(now)
	inv.IncrementVersion()
	inv.AddDomainEvent(NewInvoiceSentEvent(inv))
	return nil
}

// Cancel voids an invoice that has not received payments
func (inv *Invoice) Cancel(updatedBy uuid.UUID, reason string, now time.Time) error {
	if inv.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot cancel a "+inv.Status.String()+" invoice")
	}
	if inv.AmountPaid.IsPositive() {
		return shared.NewDomainError("INVALID_STATE", "Cannot cancel an invoice with recorded payments")
	}
	inv.Status = InvoiceStatusCancelled
	cancelled := now
	inv.CancelledDate = &cancelled
	if reason = strings.TrimSpace(reason); reason != "" {
		if inv.Notes != "" {
			inv.Notes += "\n"
		}
		inv.Notes += "Cancelled: " + reason
	}
	inv.Refresh(now)
	inv.SetUpdatedBy(updatedBy)
	inv.Touch(now)
	inv.IncrementVersion()
	inv.AddDomainEvent(NewInvoiceCancelledEvent(inv, reason))
	return nil
}

// RecordPayment applies a payment and re-derives the status.
// On any failure the invoice is left untouched.
func (inv *Invoice) RecordPayment(in PaymentInput, recordedBy uuid.UUID, now time.Time) (*Payment, error) {
	switch {
	case inv.Status == InvoiceStatusPaid:
		return nil, shared.NewDomainError("INVALID_STATE", "Invoice is already paid")
	case inv.Status == InvoiceStatusCancelled:
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot record a payment on a cancelled invoice")
	case inv.Status == InvoiceStatusDraft:
		return nil, shared.NewDomainError("INVALID_STATE", "Send the invoice before recording payments")
	}

	balance := inv.Total.Sub(inv.AmountPaid)
	if err := in.Validate(balance, now); err != nil {
		return nil, err
	}

	amount := in.Amount.Round(2)
	if amount.GreaterThan(balance) {
		amount = balance
	}

	pay := newPayment(in, amount, recordedBy, now)
	inv.Payments = append(inv.Payments, pay)
	inv.AmountPaid = inv.AmountPaid.Add(amount)
	inv.Refresh(now)
	inv.SetUpdatedBy(recordedBy)
	inv.Touch(now)
	inv.IncrementVersion()
	inv.AddDomainEvent(NewPaymentRecordedEvent(inv, pay))
	return &pay, nil
}

// CanDelete reports whether the invoice may be removed outright
func (inv *Invoice) CanDelete() bool {
	return inv.IsEditable() || (inv.Status == InvoiceStatusCancelled && inv.AmountPaid.IsZero())
}

// DaysOverdue returns whole days past due at now, zero when not past due
func (inv *Invoice) DaysOverdue(now time.Time) int {
	if !now.After(inv.DueDate) {
		return 0
	}
	return int(now.Sub(inv.DueDate).Hours() / 24)
}
