package sales

import (
	"time"

	"github.com/bizledger/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItemRequest is one line of an invoice or sales receipt.
// Rate, tax and description default from the catalog item when omitted.
type LineItemRequest struct {
	ItemID      uuid.UUID        `json:"item_id" binding:"required"`
	Description string           `json:"description" binding:"max=500"`
	Quantity    decimal.Decimal  `json:"quantity"`
	Rate        *decimal.Decimal `json:"rate"`
	Tax         *decimal.Decimal `json:"tax"`
}

// CreateInvoiceRequest represents a request to create a draft invoice
type CreateInvoiceRequest struct {
	InvoiceNumber   string            `json:"invoice_number" binding:"omitempty,max=50"`
	CustomerID      uuid.UUID         `json:"customer_id" binding:"required"`
	InvoiceDate     *time.Time        `json:"invoice_date"`
	DueDate         *time.Time        `json:"due_date"`
	Items           []LineItemRequest `json:"items" binding:"required,min=1,dive"`
	Discount        decimal.Decimal   `json:"discount"`
	ShippingCharges decimal.Decimal   `json:"shipping_charges"`
	Notes           string            `json:"notes" binding:"max=2000"`
	Terms           string            `json:"terms" binding:"max=2000"`
}

// UpdateInvoiceRequest replaces parts of a draft invoice. Items, when present, replace all lines.
type UpdateInvoiceRequest struct {
	CustomerID      *uuid.UUID        `json:"customer_id"`
	InvoiceDate     *time.Time        `json:"invoice_date"`
	DueDate         *time.Time        `json:"due_date"`
	Items           []LineItemRequest `json:"items" binding:"omitempty,min=1,dive"`
	Discount        *decimal.Decimal  `json:"discount"`
	ShippingCharges *decimal.Decimal  `json:"shipping_charges"`
	Notes           *string           `json:"notes" binding:"omitempty,max=2000"`
	Terms           *string           `json:"terms" binding:"omitempty,max=2000"`
}

// RecordPaymentRequest represents a payment against an invoice
type RecordPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   *time.Time      `json:"payment_date"`
	PaymentMethod string          `json:"payment_method" binding:"required"`
	Reference     string          `json:"reference" binding:"max=100"`
	Notes         string          `json:"notes" binding:"max=500"`
}

// CancelInvoiceRequest carries an optional cancellation reason
type CancelInvoiceRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// InvoiceListFilter are the query parameters of the invoice listing
type InvoiceListFilter struct {
	Search     string     `form:"search"`
	Status     string     `form:"status" binding:"omitempty,oneof=draft sent partially_paid paid overdue cancelled"`
	CustomerID string     `form:"customer_id" binding:"omitempty,uuid"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// LineItemResponse is a document line in API responses
type LineItemResponse struct {
	ItemID      uuid.UUID       `json:"item_id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Tax         decimal.Decimal `json:"tax"`
	Amount      decimal.Decimal `json:"amount"`
}

// PaymentResponse is a recorded payment in API responses
type PaymentResponse struct {
	ID            uuid.UUID       `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   time.Time       `json:"payment_date"`
	PaymentMethod string          `json:"payment_method"`
	Reference     string          `json:"reference,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	RecordedBy    uuid.UUID       `json:"recorded_by"`
	RecordedAt    time.Time       `json:"recorded_at"`
}

// InvoiceResponse represents an invoice with its lines and payments
type InvoiceResponse struct {
	ID              uuid.UUID          `json:"id"`
	CompanyID       uuid.UUID          `json:"company_id"`
	InvoiceNumber   string             `json:"invoice_number"`
	CustomerID      uuid.UUID          `json:"customer_id"`
	CustomerName    string             `json:"customer_name"`
	InvoiceDate     time.Time          `json:"invoice_date"`
	DueDate         time.Time          `json:"due_date"`
	Items           []LineItemResponse `json:"items"`
	SubTotal        decimal.Decimal    `json:"sub_total"`
	Discount        decimal.Decimal    `json:"discount"`
	ShippingCharges decimal.Decimal    `json:"shipping_charges"`
	TaxTotal        decimal.Decimal    `json:"tax_total"`
	Total           decimal.Decimal    `json:"total"`
	AmountPaid      decimal.Decimal    `json:"amount_paid"`
	BalanceDue      decimal.Decimal    `json:"balance_due"`
	Status          string             `json:"status"`
	DaysOverdue     int                `json:"days_overdue"`
	Notes           string             `json:"notes"`
	Terms           string             `json:"terms"`
	SentDate        *time.Time         `json:"sent_date,omitempty"`
	PaidDate        *time.Time         `json:"paid_date,omitempty"`
	CancelledDate   *time.Time         `json:"cancelled_date,omitempty"`
	Payments        []PaymentResponse  `json:"payments"`
	CreatedBy       *uuid.UUID         `json:"created_by,omitempty"`
	UpdatedBy       *uuid.UUID         `json:"updated_by,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	Version         int                `json:"version"`
}

// InvoiceSummaryResponse is the list view of an invoice
type InvoiceSummaryResponse struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	InvoiceDate   time.Time       `json:"invoice_date"`
	DueDate       time.Time       `json:"due_date"`
	Total         decimal.Decimal `json:"total"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	BalanceDue    decimal.Decimal `json:"balance_due"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToLineItemResponses converts document lines
func ToLineItemResponses(items sales.LineItems) []LineItemResponse {
	out := make([]LineItemResponse, len(items))
	for i, li := range items {
		out[i] = LineItemResponse{
			ItemID:      li.ItemID,
			Description: li.Description,
			Quantity:    li.Quantity,
			Rate:        li.Rate,
			Tax:         li.Tax,
			Amount:      li.Amount,
		}
	}
	return out
}

// ToPaymentResponse converts a domain Payment
func ToPaymentResponse(p sales.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		Amount:        p.Amount,
		PaymentDate:   p.Date,
		PaymentMethod: p.Method.String(),
		Reference:     p.Reference,
		Notes:         p.Notes,
		RecordedBy:    p.RecordedBy,
		RecordedAt:    p.RecordedAt,
	}
}

// ToPaymentResponses converts a payment history
func ToPaymentResponses(payments sales.Payments) []PaymentResponse {
	out := make([]PaymentResponse, len(payments))
	for i := range payments {
		out[i] = ToPaymentResponse(payments[i])
	}
	return out
}

// ToInvoiceResponse converts a domain Invoice. now is used for days overdue.
func ToInvoiceResponse(inv *sales.Invoice, now time.Time) InvoiceResponse {
	days := 0
	if inv.Status == sales.InvoiceStatusOverdue {
		days = inv.DaysOverdue(now)
	}
	return InvoiceResponse{
		ID:              inv.ID,
		CompanyID:       inv.CompanyID,
		InvoiceNumber:   inv.InvoiceNumber,
		CustomerID:      inv.CustomerID,
		CustomerName:    inv.CustomerName,
		InvoiceDate:     inv.InvoiceDate,
		DueDate:         inv.DueDate,
		Items:           ToLineItemResponses(inv.Items),
		SubTotal:        inv.SubTotal,
		Discount:        inv.Discount,
		ShippingCharges: inv.ShippingCharges,
		TaxTotal:        inv.TaxTotal,
		Total:           inv.Total,
		AmountPaid:      inv.AmountPaid,
		BalanceDue:      inv.BalanceDue,
		Status:          inv.Status.String(),
		DaysOverdue:     days,
		Notes:           inv.Notes,
		Terms:           inv.Terms,
		SentDate:        inv.SentDate,
		PaidDate:        inv.PaidDate,
		CancelledDate:   inv.CancelledDate,
		Payments:        ToPaymentResponses(inv.Payments),
		CreatedBy:       inv.CreatedBy,
		UpdatedBy:       inv.UpdatedBy,
		CreatedAt:       inv.CreatedAt,
		UpdatedAt:       inv.UpdatedAt,
		Version:         inv.Version,
	}
}

// ToInvoiceSummaryResponses converts invoices for listings
func ToInvoiceSummaryResponses(invoices []sales.Invoice) []InvoiceSummaryResponse {
	out := make([]InvoiceSummaryResponse, len(invoices))
	for i := range invoices {
		inv := &invoices[i]
		out[i] = InvoiceSummaryResponse{
			ID:            inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			CustomerID:    inv.CustomerID,
			CustomerName:  inv.CustomerName,
			InvoiceDate:   inv.InvoiceDate,
			DueDate:       inv.DueDate,
			Total:         inv.Total,
			AmountPaid:    inv.AmountPaid,
			BalanceDue:    inv.BalanceDue,
			Status:        inv.Status.String(),
			CreatedAt:     inv.CreatedAt,
		}
	}
	return out
}

// CreateSalesReceiptRequest represents a paid-in-full sale
type CreateSalesReceiptRequest struct {
	SalesReceiptNumber string            `json:"sales_receipt_number" binding:"omitempty,max=50"`
	CustomerID         *uuid.UUID        `json:"customer_id"`
	CustomerName       string            `json:"customer_name" binding:"max=200"`
	ReceiptDate        *time.Time        `json:"receipt_date"`
	Items              []LineItemRequest `json:"items" binding:"required,min=1,dive"`
	Discount           decimal.Decimal   `json:"discount"`
	ShippingCharges    decimal.Decimal   `json:"shipping_charges"`
	PaymentMethod      string            `json:"payment_method" binding:"required"`
	Reference          string            `json:"reference" binding:"max=100"`
	Notes              string            `json:"notes" binding:"max=2000"`
}

// UpdateSalesReceiptRequest edits the notes of a sale
type UpdateSalesReceiptRequest struct {
	Notes string `json:"notes" binding:"max=2000"`
}

// SalesReceiptListFilter are the query parameters of the sales receipt listing
type SalesReceiptListFilter struct {
	Search     string     `form:"search"`
	CustomerID string     `form:"customer_id" binding:"omitempty,uuid"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SalesReceiptResponse represents a sales receipt in API responses
type SalesReceiptResponse struct {
	ID                 uuid.UUID          `json:"id"`
	CompanyID          uuid.UUID          `json:"company_id"`
	SalesReceiptNumber string             `json:"sales_receipt_number"`
	CustomerID         *uuid.UUID         `json:"customer_id,omitempty"`
	CustomerName       string             `json:"customer_name"`
	ReceiptDate        time.Time          `json:"receipt_date"`
	Items              []LineItemResponse `json:"items"`
	SubTotal           decimal.Decimal    `json:"sub_total"`
	Discount           decimal.Decimal    `json:"discount"`
	ShippingCharges    decimal.Decimal    `json:"shipping_charges"`
	TaxTotal           decimal.Decimal    `json:"tax_total"`
	Total              decimal.Decimal    `json:"total"`
	PaymentMethod      string             `json:"payment_method"`
	Reference          string             `json:"reference"`
	Notes              string             `json:"notes"`
	CreatedBy          *uuid.UUID         `json:"created_by,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// ToSalesReceiptResponse converts a domain SalesReceipt
func ToSalesReceiptResponse(r *sales.SalesReceipt) SalesReceiptResponse {
	return SalesReceiptResponse{
		ID:                 r.ID,
		CompanyID:          r.CompanyID,
		SalesReceiptNumber: r.SalesReceiptNumber,
		CustomerID:         r.CustomerID,
		CustomerName:       r.CustomerName,
		ReceiptDate:        r.ReceiptDate,
		Items:              ToLineItemResponses(r.Items),
		SubTotal:           r.SubTotal,
		Discount:           r.Discount,
		ShippingCharges:    r.ShippingCharges,
		TaxTotal:           r.TaxTotal,
		Total:              r.Total,
		PaymentMethod:      r.PaymentMethod.String(),
		Reference:          r.Reference,
		Notes:              r.Notes,
		CreatedBy:          r.CreatedBy,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

// ToSalesReceiptResponses converts a slice of sales receipts
func ToSalesReceiptResponses(receipts []sales.SalesReceipt) []SalesReceiptResponse {
	out := make([]SalesReceiptResponse, len(receipts))
	for i := range receipts {
		out[i] = ToSalesReceiptResponse(&receipts[i])
	}
	return out
}
