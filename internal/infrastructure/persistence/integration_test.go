//go:build integration

package persistence

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bizledger/backend/internal/domain/company"
	"github.com/bizledger/backend/internal/domain/partner"
	"github.com/bizledger/backend/internal/domain/sales"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/infrastructure/migration"
	"github.com/bizledger/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupPostgres starts a throwaway PostgreSQL, applies the embedded migrations and
// returns a guarded connection
func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("bizledger_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Discard, SkipDefaultTransaction: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	m, err := migration.NewEmbedded(sqlDB, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())

	require.NoError(t, tenant.RegisterGuard(db, tenant.CompanyOwnedTables...))
	return db
}

func seedCompanyAndCustomer(t *testing.T, db *gorm.DB) (*company.Company, *partner.Customer) {
	t.Helper()
	ctx := context.Background()
	c, err := company.NewCompany("Integration Co", "ops@integration.test")
	require.NoError(t, err)
	require.NoError(t, NewGormCompanyRepository(db).Save(ctx, c))

	cust, err := partner.NewCustomer(c.ID, partner.CustomerDetails{Name: "Acme Ltd"})
	require.NoError(t, err)
	require.NoError(t, NewGormCustomerRepository(db).Save(ctx, cust))
	return c, cust
}

func invoiceFor(t *testing.T, companyID, customerID uuid.UUID, number string, now time.Time) *sales.Invoice {
	t.Helper()
	inv := newTestInvoice(t, companyID, number, "100.00", now, now.AddDate(0, 0, 30))
	inv.CustomerID = customerID
	return inv
}

func TestPostgres_Invoices(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()
	c, cust := seedCompanyAndCustomer(t, db)
	repo := NewGormInvoiceRepository(db)
	now := time.Now().UTC().Truncate(time.Second)

	inv := invoiceFor(t, c.ID, cust.ID, "INV-00001", now)
	require.NoError(t, repo.Create(ctx, inv))

	t.Run("duplicate number within a company", func(t *testing.T) {
		dup := invoiceFor(t, c.ID, cust.ID, "inv-00001", now)
		assert.ErrorIs(t, repo.Create(ctx, dup), sales.ErrNumberTaken)
	})

	t.Run("same number in another company", func(t *testing.T) {
		other, otherCust := seedCompanyAndCustomer(t, db)
		assert.NoError(t, repo.Create(ctx, invoiceFor(t, other.ID, otherCust.ID, "INV-00001", now)))
	})

	t.Run("max sequence", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, invoiceFor(t, c.ID, cust.ID, "INV-00017", now)))
		seq, err := repo.MaxSequence(ctx, c.ID, "INV-")
		require.NoError(t, err)
		assert.Equal(t, int64(17), seq)
	})

	t.Run("stale save is rejected", func(t *testing.T) {
		first, err := repo.FindByIDForCompany(ctx, c.ID, inv.ID)
		require.NoError(t, err)
		second, err := repo.FindByIDForCompany(ctx, c.ID, inv.ID)
		require.NoError(t, err)

		require.NoError(t, first.Send(uuid.New(), now))
		require.NoError(t, repo.Save(ctx, first))

		require.NoError(t, second.Send(uuid.New(), now))
		assert.ErrorIs(t, repo.Save(ctx, second), shared.ErrConcurrencyConflict)
	})

	t.Run("customer in use", func(t *testing.T) {
		used, err := NewGormCustomerRepository(db).IsReferenced(ctx, c.ID, cust.ID)
		require.NoError(t, err)
		assert.True(t, used)
	})
}

func TestPostgres_SalesReceiptNumbersArePerCompany(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()
	a, _ := seedCompanyAndCustomer(t, db)
	b, _ := seedCompanyAndCustomer(t, db)
	repo := NewGormSalesReceiptRepository(db)
	now := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, repo.Create(ctx, newTestReceipt(t, a.ID, "REC-00001", "10", now)))

	t.Run("same receipt number in another company", func(t *testing.T) {
		assert.NoError(t, repo.Create(ctx, newTestReceipt(t, b.ID, "REC-00001", "10", now)))
	})

	t.Run("duplicate within a company", func(t *testing.T) {
		assert.ErrorIs(t, repo.Create(ctx, newTestReceipt(t, a.ID, "rec-00001", "10", now)), sales.ErrNumberTaken)
	})

	t.Run("uniqueness comes from the compound index", func(t *testing.T) {
		var indexes []string
		require.NoError(t, db.Raw(
			"SELECT indexname FROM pg_indexes WHERE tablename = 'sales_receipts' AND indexdef LIKE 'CREATE UNIQUE%'",
		).Scan(&indexes).Error)
		assert.Contains(t, indexes, "idx_sales_receipts_company_number")
		assert.NotContains(t, indexes, "sales_receipts_sales_receipt_number_key")
	})
}

func TestPostgres_ConcurrentNumbering(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()
	c, cust := seedCompanyAndCustomer(t, db)
	repo := NewGormInvoiceRepository(db)
	now := time.Now().UTC()

	const writers = 8
	invoices := make([]*sales.Invoice, writers)
	for i := range invoices {
		invoices[i] = invoiceFor(t, c.ID, cust.ID, "INV-00100", now)
	}
	errs := make([]error, writers)
	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = repo.Create(ctx, invoices[i])
		}()
	}
	wg.Wait()

	var ok, taken int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, sales.ErrNumberTaken):
			taken++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, writers-1, taken)
}
