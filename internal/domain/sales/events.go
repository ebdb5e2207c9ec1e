package sales

import (
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeInvoice      = "Invoice"
	AggregateTypeSalesReceipt = "SalesReceipt"
)

// Event type constants
const (
	EventTypeInvoiceCreated      = "InvoiceCreated"
	EventTypeInvoiceSent         = "InvoiceSent"
	EventTypePaymentRecorded     = "PaymentRecorded"
	EventTypeInvoicePaid         = "InvoicePaid"
	EventTypeInvoiceOverdue      = "InvoiceOverdue"
	EventTypeInvoiceCancelled    = "InvoiceCancelled"
	EventTypeSalesReceiptCreated = "SalesReceiptCreated"
)

// InvoiceCreatedEvent is raised when a draft invoice is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	Total         decimal.Decimal `json:"total"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, AggregateTypeInvoice, inv.ID, inv.CompanyID),
		InvoiceNumber:   inv.InvoiceNumber,
		CustomerID:      inv.CustomerID,
		Total:           inv.Total,
	}
}

// InvoiceSentEvent is raised when an invoice is sent to the customer
type InvoiceSentEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string    `json:"invoice_number"`
	CustomerID    uuid.UUID `json:"customer_id"`
	CustomerName  string    `json:"customer_name"`
	DueDate       time.Time `json:"due_date"`
}

// NewInvoiceSentEvent creates a new InvoiceSentEvent
func NewInvoiceSentEvent(inv *Invoice) *InvoiceSentEvent {
	return &InvoiceSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceSent, AggregateTypeInvoice, inv.ID, inv.CompanyID),
		InvoiceNumber:   inv.InvoiceNumber,
		CustomerID:      inv.CustomerID,
		CustomerName:    inv.CustomerName,
		DueDate:         inv.DueDate,
	}
}

// PaymentRecordedEvent is raised for every payment applied to an invoice
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	CustomerName  string          `json:"customer_name"`
	PaymentID     uuid.UUID       `json:"payment_id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        PaymentMethod   `json:"method"`
	BalanceDue    decimal.Decimal `json:"balance_due"`
	RecordedBy    uuid.UUID       `json:"recorded_by"`
}

// NewPaymentRecordedEvent creates a new PaymentRecordedEvent
func NewPaymentRecordedEvent(inv *Invoice, pay Payment) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRecorded, AggregateTypeInvoice, inv.ID, inv.CompanyID),
		InvoiceNumber:   inv.InvoiceNumber,
		CustomerName:    inv.CustomerName,
		PaymentID:       pay.ID,
		Amount:          pay.Amount,
		Method:          pay.Method,
		BalanceDue:      inv.BalanceDue,
		RecordedBy:      pay.RecordedBy,
	}
}

// InvoicePaidEvent is raised when the balance of an invoice reaches zero
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	CustomerName  string          `json:"customer_name"`
	Total         decimal.Decimal `json:"total"`
	PaidDate      time.Time       `json:"paid_date"`
}

// NewInvoicePaidEvent creates a new InvoicePaidEvent
func NewInvoicePaidEvent(inv *Invoice) *InvoicePaidEvent {
	e := &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaid, AggregateTypeInvoice, inv.ID, inv.CompanyID),
		InvoiceNumber:   inv.InvoiceNumber,
		CustomerName:    inv.CustomerName,
		Total:           inv.Total,
	}
	if inv.PaidDate != nil {
		e.PaidDate = *inv.PaidDate
	}
	return e
}

// InvoiceOverdueEvent is raised when an unpaid invoice passes its due date
type InvoiceOverdueEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	CustomerName  string          `json:"customer_name"`
	BalanceDue    decimal.Decimal `json:"balance_due"`
	DueDate       time.Time       `json:"due_date"`
	DaysOverdue   int             `json:"days_overdue"`
}

// NewInvoiceOverdueEvent creates a new InvoiceOverdueEvent
func NewInvoiceOverdueEvent(inv *Invoice, now time.Time) *InvoiceOverdueEvent {
	return &InvoiceOverdueEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceOverdue, AggregateTypeInvoice, inv.ID, inv.CompanyID),
		InvoiceNumber:   inv.InvoiceNumber,
		CustomerName:    inv.CustomerName,
		BalanceDue:      inv.BalanceDue,
		DueDate:         inv.DueDate,
		DaysOverdue:     inv.DaysOverdue(now),
	}
}

// InvoiceCancelledEvent is raised when an invoice is voided
type InvoiceCancelledEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string `json:"invoice_number"`
	Reason        string `json:"reason,omitempty"`
}

// NewInvoiceCancelledEvent creates a new InvoiceCancelledEvent
func NewInvoiceCancelledEvent(inv *Invoice, reason string) *InvoiceCancelledEvent {
	return &InvoiceCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCancelled, AggregateTypeInvoice, inv.ID, inv.CompanyID),
		InvoiceNumber:   inv.InvoiceNumber,
		Reason:          reason,
	}
}

// SalesReceiptCreatedEvent is raised when a sale is recorded
type SalesReceiptCreatedEvent struct {
	shared.BaseDomainEvent
	SalesReceiptNumber string          `json:"sales_receipt_number"`
	Total              decimal.Decimal `json:"total"`
}

// NewSalesReceiptCreatedEvent creates a new SalesReceiptCreatedEvent
func NewSalesReceiptCreatedEvent(r *SalesReceipt) *SalesReceiptCreatedEvent {
	return &SalesReceiptCreatedEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent(EventTypeSalesReceiptCreated, AggregateTypeSalesReceipt, r.ID, r.CompanyID),
		SalesReceiptNumber: r.SalesReceiptNumber,
		Total:              r.Total,
	}
}
