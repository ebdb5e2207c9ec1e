package sales

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bizledger/backend/internal/domain/sales"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/infrastructure/scheduler"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticCompanies []uuid.UUID

func (s staticCompanies) ActiveCompanyIDs(context.Context) ([]uuid.UUID, error) {
	return s, nil
}

func TestOverdueReconciler_Reconcile(t *testing.T) {
	ctx := context.Background()
	f := newInvoiceFixture(t, 5)
	pastDue := f.sentInvoice(t, testNow.AddDate(0, 0, -45), 30)
	conflicted := f.sentInvoice(t, testNow.AddDate(0, 0, -45), 30)

	invoices := new(MockInvoiceRepository)
	invoices.On("FindOverdueCandidates", ctx, f.company.ID, testNow, 10).
		Return([]sales.Invoice{*pastDue, *conflicted}, nil)
	invoices.On("Save", ctx, mock.MatchedBy(func(inv *sales.Invoice) bool { return inv.ID == pastDue.ID })).Return(nil)
	invoices.On("Save", ctx, mock.MatchedBy(func(inv *sales.Invoice) bool { return inv.ID == conflicted.ID })).
		Return(shared.ErrConcurrencyConflict)
	publisher := new(MockEventPublisher)
	publisher.On("Publish", ctx, mock.Anything).Return(nil)
	reports := new(MockReportInvalidator)
	reports.On("Invalidate", ctx, f.company.ID).Return()

	r := NewOverdueReconciler(invoices, nil, zap.NewNop())
	r.SetEventPublisher(publisher)
	r.SetReportInvalidator(reports)
	r.batchSize = 10
	r.now = func() time.Time { return testNow }

	changed, err := r.Reconcile(ctx, f.company.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)
	assert.Equal(t, []string{sales.EventTypeInvoiceOverdue}, publishedTypes(publisher))
	reports.AssertExpectations(t)

	saved := invoices.Calls[1].Arguments.Get(1).(*sales.Invoice)
	assert.Equal(t, sales.InvoiceStatusOverdue, saved.Status)
	assert.Equal(t, pastDue.Version+1, saved.Version)
}

func TestOverdueReconciler_Execute(t *testing.T) {
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	invoices := new(MockInvoiceRepository)
	invoices.On("FindOverdueCandidates", ctx, mock.Anything, mock.Anything, defaultReconcileBatch).
		Return([]sales.Invoice{}, nil)

	r := NewOverdueReconciler(invoices, staticCompanies{a, b}, zap.NewNop())

	t.Run("company job", func(t *testing.T) {
		require.NoError(t, r.Execute(ctx, scheduler.NewJob(JobKindOverdueReconcile, &a, 0)))
	})

	t.Run("unscoped job sweeps every company", func(t *testing.T) {
		require.NoError(t, r.Execute(ctx, scheduler.NewJob(JobKindOverdueReconcile, nil, 0)))
		invoices.AssertCalled(t, "FindOverdueCandidates", ctx, b, mock.Anything, defaultReconcileBatch)
	})

	t.Run("repository failure surfaces", func(t *testing.T) {
		failing := new(MockInvoiceRepository)
		failing.On("FindOverdueCandidates", ctx, a, mock.Anything, defaultReconcileBatch).
			Return([]sales.Invoice{}, errors.New("connection reset"))
		r := NewOverdueReconciler(failing, nil, zap.NewNop())
		assert.Error(t, r.Execute(ctx, scheduler.NewJob(JobKindOverdueReconcile, &a, 0)))
	})
}
