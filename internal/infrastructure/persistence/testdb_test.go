package persistence

import (
	"testing"
	"time"

	"github.com/bizledger/backend/internal/domain/finance"
	"github.com/bizledger/backend/internal/domain/sales"
	"github.com/bizledger/backend/internal/infrastructure/persistence/models"
	"github.com/bizledger/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens an in-memory sqlite database with every table migrated
// and the company guard installed, like NewDatabase does.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to ":memory:" is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	require.NoError(t, tenant.RegisterGuard(db, tenant.CompanyOwnedTables...))
	return db
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestInvoice(t *testing.T, companyID uuid.UUID, number string, rate string, invoiceDate, dueDate time.Time) *sales.Invoice {
	t.Helper()
	line, err := sales.NewLineItem(uuid.New(), "Consulting", dec("1"), dec(rate), decimal.Zero)
	require.NoError(t, err)
	inv, err := sales.NewInvoice(companyID, uuid.New(), number, sales.InvoiceDetails{
		CustomerID:   uuid.New(),
		CustomerName: "Acme Ltd",
		InvoiceDate:  invoiceDate,
		DueDate:      dueDate,
		Items:        sales.LineItems{line},
	}, invoiceDate)
	require.NoError(t, err)
	return inv
}

func newTestReceipt(t *testing.T, companyID uuid.UUID, number string, rate string, date time.Time) *sales.SalesReceipt {
	t.Helper()
	line, err := sales.NewLineItem(uuid.New(), "Widget", dec("2"), dec(rate), decimal.Zero)
	require.NoError(t, err)
	r, err := sales.NewSalesReceipt(companyID, uuid.New(), number, sales.SalesReceiptDetails{
		CustomerName:  "Walk-in",
		ReceiptDate:   date,
		Items:         sales.LineItems{line},
		PaymentMethod: sales.PaymentMethodCash,
	}, date)
	require.NoError(t, err)
	return r
}

func newTestExpense(t *testing.T, companyID uuid.UUID, number string, category finance.ExpenseCategory, amount, tax string, date time.Time) *finance.Expense {
	t.Helper()
	e, err := finance.NewExpense(companyID, uuid.New(), number, finance.ExpenseDetails{
		Category:      category,
		VendorName:    "Landlord",
		Amount:        dec(amount),
		TaxAmount:     dec(tax),
		ExpenseDate:   date,
		PaymentMethod: sales.PaymentMethodBankTransfer,
	}, date)
	require.NoError(t, err)
	return e
}
