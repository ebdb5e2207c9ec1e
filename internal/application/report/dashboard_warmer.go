package report

import (
	"context"
	"errors"

	"github.com/bizledger/backend/internal/infrastructure/scheduler"
	"go.uber.org/zap"
)

// JobKindDashboardWarm is the scheduler kind that precomputes dashboards
const JobKindDashboardWarm = "dashboard_warm"

// DashboardWarmer fills the report cache with each company's dashboard so the
// landing page is served from cache after an invalidation.
type DashboardWarmer struct {
	reports   *ReportService
	companies scheduler.CompanyProvider
	logger    *zap.Logger
}

// NewDashboardWarmer creates a new DashboardWarmer
func NewDashboardWarmer(reports *ReportService, companies scheduler.CompanyProvider, logger *zap.Logger) *DashboardWarmer {
	return &DashboardWarmer{
		reports:   reports,
		companies: companies,
		logger:    logger,
	}
}

// Execute implements scheduler.JobExecutor. A job without a company warms every active company.
func (w *DashboardWarmer) Execute(ctx context.Context, job *scheduler.Job) error {
	if job.CompanyID != nil {
		_, err := w.reports.Dashboard(ctx, *job.CompanyID)
		return err
	}
	if w.companies == nil {
		return errors.New("dashboard warmer has no company provider")
	}

	ids, err := w.companies.ActiveCompanyIDs(ctx)
	if err != nil {
		return err
	}
	var firstErr error
	for _, id := range ids {
		if _, err := w.reports.Dashboard(ctx, id); err != nil {
			w.logger.Error("Dashboard warm-up failed",
				zap.String("company_id", id.String()),
				zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	w.logger.Debug("Dashboards warmed", zap.Int("companies", len(ids)))
	return firstErr
}

var _ scheduler.JobExecutor = (*DashboardWarmer)(nil)
