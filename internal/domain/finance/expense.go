package finance

import (
	"strings"
	"time"

	"github.com/bizledger/backend/internal/domain/sales"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultExpensePrefix is used for expense numbers, e.g. EXP-00001
const DefaultExpensePrefix = "EXP-"

// ExpenseCategory represents the category of an expense
type ExpenseCategory string

const (
	ExpenseCategoryRent        ExpenseCategory = "rent"
	ExpenseCategoryUtilities   ExpenseCategory = "utilities"
	ExpenseCategorySalaries    ExpenseCategory = "salaries"
	ExpenseCategorySupplies    ExpenseCategory = "supplies"
	ExpenseCategoryTravel      ExpenseCategory = "travel"
	ExpenseCategoryMarketing   ExpenseCategory = "marketing"
	ExpenseCategoryInsurance   ExpenseCategory = "insurance"
	ExpenseCategoryTaxes       ExpenseCategory = "taxes"
	ExpenseCategoryMaintenance ExpenseCategory = "maintenance"
	ExpenseCategoryOther       ExpenseCategory = "other"
)

// AllExpenseCategories returns the categories in display order
func AllExpenseCategories() []ExpenseCategory {
	return []ExpenseCategory{
		ExpenseCategoryRent, ExpenseCategoryUtilities, ExpenseCategorySalaries,
		ExpenseCategorySupplies, ExpenseCategoryTravel, ExpenseCategoryMarketing,
		ExpenseCategoryInsurance, ExpenseCategoryTaxes, ExpenseCategoryMaintenance,
		ExpenseCategoryOther,
	}
}

// IsValid checks if the category is a valid ExpenseCategory
func (c ExpenseCategory) IsValid() bool {
	for _, known := range AllExpenseCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// String returns the string representation of ExpenseCategory
func (c ExpenseCategory) String() string {
	return string(c)
}

// ExpenseDetails carries the editable fields of an expense
type ExpenseDetails struct {
	Category      ExpenseCategory
	VendorName    string
	Description   string
	Amount        decimal.Decimal
	TaxAmount     decimal.Decimal
	ExpenseDate   time.Time
	PaymentMethod sales.PaymentMethod
	Reference     string
}

// Expense is money the company spent
type Expense struct {
	shared.CompanyAggregateRoot
	ExpenseNumber string
	Category      ExpenseCategory
	VendorName    string
	Description   string
	Amount        decimal.Decimal
	TaxAmount     decimal.Decimal
	ExpenseDate   time.Time
	PaymentMethod sales.PaymentMethod
	Reference     string
	ReceiptKey    string
}

// NewExpense records an expense
func NewExpense(companyID, createdBy uuid.UUID, number string, d ExpenseDetails, now time.Time) (*Expense, error) {
	e := &Expense{
		CompanyAggregateRoot: shared.NewCompanyAggregateRootWithCreator(companyID, createdBy),
		ExpenseNumber:        sales.NormalizeNumber(number),
	}
	if err := e.apply(d, now); err != nil {
		return nil, err
	}
	return e, nil
}

// Update replaces the details of the expense
func (e *Expense) Update(d ExpenseDetails, updatedBy uuid.UUID, now time.Time) error {
	if err := e.apply(d, now); err != nil {
		return err
	}
	e.SetUpdatedBy(updatedBy)
	e.Touch(now)
	e.IncrementVersion()
	return nil
}

func (e *Expense) apply(d ExpenseDetails, now time.Time) error {
	v := &shared.ValidationError{}
	if !d.Category.IsValid() {
		v.Add("category", "is not a known expense category")
	}
	if !d.Amount.IsPositive() {
		v.Add("amount", "must be greater than zero")
	}
	if d.TaxAmount.IsNegative() {
		v.Add("tax_amount", "cannot be negative")
	}
	if d.ExpenseDate.IsZero() {
		v.Add("expense_date", "is required")
	} else if d.ExpenseDate.After(endOfDay(now)) {
		v.Add("expense_date", "cannot be in the future")
	}
	if d.PaymentMethod != "" && !d.PaymentMethod.IsValid() {
		v.Add("payment_method", "is not a supported payment method")
	}
	if len(d.Description) > 500 {
		v.Add("description", "cannot exceed 500 characters")
	}
	if err := v.Err(); err != nil {
		return err
	}

	e.Category = d.Category
	e.VendorName = strings.TrimSpace(d.VendorName)
	e.Description = strings.TrimSpace(d.Description)
	e.Amount = d.Amount.Round(2)
	e.TaxAmount = d.TaxAmount.Round(2)
	e.ExpenseDate = d.ExpenseDate
	e.PaymentMethod = d.PaymentMethod
	e.Reference = strings.TrimSpace(d.Reference)
	return nil
}

// Gross is the amount including tax
func (e *Expense) Gross() decimal.Decimal {
	return e.Amount.Add(e.TaxAmount)
}

// AttachReceipt records the object storage key of the scanned receipt
func (e *Expense) AttachReceipt(key string, now time.Time) {
	e.ReceiptKey = key
	e.Touch(now)
	e.IncrementVersion()
}

// HasReceipt reports whether a receipt file was attached
func (e *Expense) HasReceipt() bool {
	return e.ReceiptKey != ""
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
