package models

import (
	"time"

	"github.com/bizledger/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Unique index names the repositories map to sales.ErrNumberTaken
const (
	InvoiceNumberIndex      = "idx_invoices_company_number"
	SalesReceiptNumberIndex = "idx_sales_receipts_company_number"
	ExpenseNumberIndex      = "idx_expenses_company_number"
)

// InvoiceModel is the persistence model of an invoice. Line items and
// payments are JSON columns owned by the row.
type InvoiceModel struct {
	AggregateModel
	CompanyID       uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_invoices_company_number,priority:1;index:idx_invoices_company_status,priority:1"`
	CreatedBy       *uuid.UUID          `gorm:"type:uuid"`
	UpdatedBy       *uuid.UUID          `gorm:"type:uuid"`
	CustomerID      uuid.UUID           `gorm:"type:uuid;not null;index"`
	CustomerName    string              `gorm:"type:varchar(200);not null"`
	InvoiceNumber   string              `gorm:"type:varchar(50);not null;uniqueIndex:idx_invoices_company_number,priority:2"`
	InvoiceDate     time.Time           `gorm:"not null;index"`
	DueDate         time.Time           `gorm:"not null;index"`
	Items           sales.LineItems     `gorm:"type:jsonb;not null"`
	SubTotal        decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	Discount        decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	ShippingCharges decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	TaxTotal        decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	Total           decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	AmountPaid      decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	BalanceDue      decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	Status          sales.InvoiceStatus `gorm:"type:varchar(20);not null;index:idx_invoices_company_status,priority:2"`
	Notes           string              `gorm:"type:text"`
	Terms           string              `gorm:"type:text"`
	SentDate        *time.Time
	PaidDate        *time.Time
	CancelledDate   *time.Time
	Payments        sales.Payments `gorm:"type:jsonb;not null"`
}

func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the model to an invoice
func (m *InvoiceModel) ToDomain() *sales.Invoice {
	inv := &sales.Invoice{
		CustomerID:      m.CustomerID,
		CustomerName:    m.CustomerName,
		InvoiceNumber:   m.InvoiceNumber,
		InvoiceDate:     m.InvoiceDate,
		DueDate:         m.DueDate,
		Items:           m.Items,
		SubTotal:        m.SubTotal,
		Discount:        m.Discount,
		ShippingCharges: m.ShippingCharges,
		TaxTotal:        m.TaxTotal,
		Total:           m.Total,
		AmountPaid:      m.AmountPaid,
		BalanceDue:      m.BalanceDue,
		Status:          m.Status,
		Notes:           m.Notes,
		Terms:           m.Terms,
		SentDate:        m.SentDate,
		PaidDate:        m.PaidDate,
		CancelledDate:   m.CancelledDate,
		Payments:        m.Payments,
	}
	inv.BaseAggregateRoot = m.aggregate()
	inv.CompanyID = m.CompanyID
	inv.CreatedBy = m.CreatedBy
	inv.UpdatedBy = m.UpdatedBy
	if inv.Items == nil {
		inv.Items = sales.LineItems{}
	}
	if inv.Payments == nil {
		inv.Payments = sales.Payments{}
	}
	return inv
}

// InvoiceModelFromDomain converts an invoice to its model
func InvoiceModelFromDomain(inv *sales.Invoice) *InvoiceModel {
	m := &InvoiceModel{
		CompanyID:       inv.CompanyID,
		CreatedBy:       inv.CreatedBy,
		UpdatedBy:       inv.UpdatedBy,
		CustomerID:      inv.CustomerID,
		CustomerName:    inv.CustomerName,
		InvoiceNumber:   inv.InvoiceNumber,
		InvoiceDate:     inv.InvoiceDate,
		DueDate:         inv.DueDate,
		Items:           inv.Items,
		SubTotal:        inv.SubTotal,
		Discount:        inv.Discount,
		ShippingCharges: inv.ShippingCharges,
		TaxTotal:        inv.TaxTotal,
		Total:           inv.Total,
		AmountPaid:      inv.AmountPaid,
		BalanceDue:      inv.BalanceDue,
		Status:          inv.Status,
		Notes:           inv.Notes,
		Terms:           inv.Terms,
		SentDate:        inv.SentDate,
		PaidDate:        inv.PaidDate,
		CancelledDate:   inv.CancelledDate,
		Payments:        inv.Payments,
	}
	m.fromAggregate(inv.BaseAggregateRoot)
	return m
}

// SalesReceiptModel is the persistence model of a sales receipt
type SalesReceiptModel struct {
	AggregateModel
	CompanyID          uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_sales_receipts_company_number,priority:1"`
	CreatedBy          *uuid.UUID          `gorm:"type:uuid"`
	UpdatedBy          *uuid.UUID          `gorm:"type:uuid"`
	CustomerID         *uuid.UUID          `gorm:"type:uuid;index"`
	CustomerName       string              `gorm:"type:varchar(200)"`
	SalesReceiptNumber string              `gorm:"type:varchar(50);not null;uniqueIndex:idx_sales_receipts_company_number,priority:2"`
	ReceiptDate        time.Time           `gorm:"not null;index"`
	Items              sales.LineItems     `gorm:"type:jsonb;not null"`
	SubTotal           decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	Discount           decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	ShippingCharges    decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	TaxTotal           decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	Total              decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	PaymentMethod      sales.PaymentMethod `gorm:"type:varchar(30);not null"`
	Reference          string              `gorm:"type:varchar(100)"`
	Notes              string              `gorm:"type:text"`
}

func (SalesReceiptModel) TableName() string {
	return "sales_receipts"
}

// ToDomain converts the model to a sales receipt
func (m *SalesReceiptModel) ToDomain() *sales.SalesReceipt {
	r := &sales.SalesReceipt{
		CustomerID:         m.CustomerID,
		CustomerName:       m.CustomerName,
		SalesReceiptNumber: m.SalesReceiptNumber,
		ReceiptDate:        m.ReceiptDate,
		Items:              m.Items,
		SubTotal:           m.SubTotal,
		Discount:           m.Discount,
		ShippingCharges:    m.ShippingCharges,
		TaxTotal:           m.TaxTotal,
		Total:              m.Total,
		PaymentMethod:      m.PaymentMethod,
		Reference:          m.Reference,
		Notes:              m.Notes,
	}
	r.BaseAggregateRoot = m.aggregate()
	r.CompanyID = m.CompanyID
	r.CreatedBy = m.CreatedBy
	r.UpdatedBy = m.UpdatedBy
	if r.Items == nil {
		r.Items = sales.LineItems{}
	}
	return r
}

// SalesReceiptModelFromDomain converts a sales receipt to its model
func SalesReceiptModelFromDomain(r *sales.SalesReceipt) *SalesReceiptModel {
	m := &SalesReceiptModel{
		CompanyID:          r.CompanyID,
		CreatedBy:          r.CreatedBy,
		UpdatedBy:          r.UpdatedBy,
		CustomerID:         r.CustomerID,
		CustomerName:       r.CustomerName,
		SalesReceiptNumber: r.SalesReceiptNumber,
		ReceiptDate:        r.ReceiptDate,
		Items:              r.Items,
		SubTotal:           r.SubTotal,
		Discount:           r.Discount,
		ShippingCharges:    r.ShippingCharges,
		TaxTotal:           r.TaxTotal,
		Total:              r.Total,
		PaymentMethod:      r.PaymentMethod,
		Reference:          r.Reference,
		Notes:              r.Notes,
	}
	m.fromAggregate(r.BaseAggregateRoot)
	return m
}
