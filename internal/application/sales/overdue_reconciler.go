package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bizledger/backend/internal/domain/sales"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/infrastructure/scheduler"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JobKindOverdueReconcile is the scheduler kind of the overdue sweep
const JobKindOverdueReconcile = "overdue_reconcile"

const defaultReconcileBatch = 200

// OverdueReconciler persists the overdue transition of invoices nobody has
// touched since their due date passed and announces it with InvoiceOverdue.
type OverdueReconciler struct {
	invoiceRepo sales.InvoiceRepository
	companies   scheduler.CompanyProvider
	publisher   shared.EventPublisher
	reports     ReportInvalidator
	batchSize   int
	logger      *zap.Logger
	now         func() time.Time
}

// NewOverdueReconciler creates a new OverdueReconciler. companies is used by
// jobs that are not scoped to a single company.
func NewOverdueReconciler(invoiceRepo sales.InvoiceRepository, companies scheduler.CompanyProvider, logger *zap.Logger) *OverdueReconciler {
	return &OverdueReconciler{
		invoiceRepo: invoiceRepo,
		companies:   companies,
		batchSize:   defaultReconcileBatch,
		logger:      logger,
		now:         time.Now,
	}
}

// SetEventPublisher sets the publisher for InvoiceOverdue events
func (r *OverdueReconciler) SetEventPublisher(publisher shared.EventPublisher) {
	r.publisher = publisher
}

// SetReportInvalidator sets the report cache invalidator
func (r *OverdueReconciler) SetReportInvalidator(reports ReportInvalidator) {
	r.reports = reports
}

// Reconcile re-derives the overdue candidates of one company and returns how many changed.
// An invoice written concurrently is skipped; the writer derived it already.
func (r *OverdueReconciler) Reconcile(ctx context.Context, companyID uuid.UUID) (int, error) {
	now := r.now()
	changed := 0
	for {
		candidates, err := r.invoiceRepo.FindOverdueCandidates(ctx, companyID, now, r.batchSize)
		if err != nil {
			return changed, fmt.Errorf("find overdue candidates: %w", err)
		}

		progressed := 0
		for i := range candidates {
			inv := &candidates[i]
			if !inv.Refresh(now) {
				continue
			}
			inv.Touch(now)
			inv.IncrementVersion()
			if err := r.invoiceRepo.Save(ctx, inv); err != nil {
				if errors.Is(err, shared.ErrConcurrencyConflict) {
					r.logger.Debug("Invoice changed during reconciliation",
						zap.String("invoice_id", inv.ID.String()))
					continue
				}
				return changed, fmt.Errorf("save invoice %s: %w", inv.ID, err)
			}
			if err := shared.PublishPending(ctx, r.publisher, inv); err != nil {
				r.logger.Error("Failed to publish overdue event",
					zap.String("invoice_id", inv.ID.String()),
					zap.Error(err))
			}
			changed++
			progressed++
		}

		if len(candidates) < r.batchSize || progressed == 0 {
			break
		}
	}

	if changed > 0 {
		if r.reports != nil {
			r.reports.Invalidate(ctx, companyID)
		}
		r.logger.Info("Overdue invoices reconciled",
			zap.String("company_id", companyID.String()),
			zap.Int("changed", changed))
	}
	return changed, nil
}

// ReconcileAll runs Reconcile for every active company. A failing company does
// not stop the others; the first error is returned.
func (r *OverdueReconciler) ReconcileAll(ctx context.Context) (int, error) {
	if r.companies == nil {
		return 0, errors.New("overdue reconciler has no company provider")
	}
	ids, err := r.companies.ActiveCompanyIDs(ctx)
	if err != nil {
		return 0, err
	}

	total := 0
	var firstErr error
	for _, id := range ids {
		n, err := r.Reconcile(ctx, id)
		total += n
		if err != nil {
			r.logger.Error("Overdue reconciliation failed",
				zap.String("company_id", id.String()),
				zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return total, firstErr
}

// Execute implements scheduler.JobExecutor
func (r *OverdueReconciler) Execute(ctx context.Context, job *scheduler.Job) error {
	if job.CompanyID == nil {
		_, err := r.ReconcileAll(ctx)
		return err
	}
	_, err := r.Reconcile(ctx, *job.CompanyID)
	return err
}

var _ scheduler.JobExecutor = (*OverdueReconciler)(nil)
