package models

import (
	"time"

	"github.com/bizledger/backend/internal/domain/finance"
	"github.com/bizledger/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseModel is the persistence model of an expense
type ExpenseModel struct {
	AggregateModel
	CompanyID     uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex:idx_expenses_company_number,priority:1"`
	CreatedBy     *uuid.UUID              `gorm:"type:uuid"`
	UpdatedBy     *uuid.UUID              `gorm:"type:uuid"`
	ExpenseNumber string                  `gorm:"type:varchar(50);not null;uniqueIndex:idx_expenses_company_number,priority:2"`
	Category      finance.ExpenseCategory `gorm:"type:varchar(30);not null;index"`
	VendorName    string                  `gorm:"type:varchar(200)"`
	Description   string                  `gorm:"type:text"`
	Amount        decimal.Decimal         `gorm:"type:decimal(18,2);not null"`
	TaxAmount     decimal.Decimal         `gorm:"type:decimal(18,2);not null"`
	ExpenseDate   time.Time               `gorm:"not null;index"`
	PaymentMethod sales.PaymentMethod     `gorm:"type:varchar(30);not null"`
	Reference     string                  `gorm:"type:varchar(100)"`
	ReceiptKey    string                  `gorm:"type:varchar(500)"`
}

func (ExpenseModel) TableName() string {
	return "expenses"
}

// ToDomain converts the model to an expense
func (m *ExpenseModel) ToDomain() *finance.Expense {
	e := &finance.Expense{
		ExpenseNumber: m.ExpenseNumber,
		Category:      m.Category,
		VendorName:    m.VendorName,
		Description:   m.Description,
		Amount:        m.Amount,
		TaxAmount:     m.TaxAmount,
		ExpenseDate:   m.ExpenseDate,
		PaymentMethod: m.PaymentMethod,
		Reference:     m.Reference,
		ReceiptKey:    m.ReceiptKey,
	}
	e.BaseAggregateRoot = m.aggregate()
	e.CompanyID = m.CompanyID
	e.CreatedBy = m.CreatedBy
	e.UpdatedBy = m.UpdatedBy
	return e
}

// ExpenseModelFromDomain converts an expense to its model
func ExpenseModelFromDomain(e *finance.Expense) *ExpenseModel {
	m := &ExpenseModel{
		CompanyID:     e.CompanyID,
		CreatedBy:     e.CreatedBy,
		UpdatedBy:     e.UpdatedBy,
		ExpenseNumber: e.ExpenseNumber,
		Category:      e.Category,
		VendorName:    e.VendorName,
		Description:   e.Description,
		Amount:        e.Amount,
		TaxAmount:     e.TaxAmount,
		ExpenseDate:   e.ExpenseDate,
		PaymentMethod: e.PaymentMethod,
		Reference:     e.Reference,
		ReceiptKey:    e.ReceiptKey,
	}
	m.fromAggregate(e.BaseAggregateRoot)
	return m
}
