package report

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/bizledger/backend/internal/domain/finance"
	"github.com/bizledger/backend/internal/domain/report"
	"github.com/bizledger/backend/internal/domain/sales"
	"github.com/bizledger/backend/internal/infrastructure/cache"
	"github.com/bizledger/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// generationTTL outlives every report entry so a company's generation is never
// forgotten while entries keyed by it can still be read.
const generationTTL = 30 * 24 * time.Hour

// ReportService computes the reports over the live documents and caches the results
// per company. Writers call Invalidate, which moves the company to a new generation.
type ReportService struct {
	invoiceRepo sales.InvoiceRepository
	receiptRepo sales.SalesReceiptRepository
	expenseRepo finance.ExpenseRepository
	cache       cache.Cache
	ttl         time.Duration
	logger      *zap.Logger
	now         func() time.Time
}

// NewReportService creates a new ReportService. A nil cache disables caching.
func NewReportService(
	invoiceRepo sales.InvoiceRepository,
	receiptRepo sales.SalesReceiptRepository,
	expenseRepo finance.ExpenseRepository,
	c cache.Cache,
	ttl time.Duration,
	logger *zap.Logger,
) *ReportService {
	if c == nil {
		c = cache.NoopCache{}
	}
	return &ReportService{
		invoiceRepo: invoiceRepo,
		receiptRepo: receiptRepo,
		expenseRepo: expenseRepo,
		cache:       c,
		ttl:         ttl,
		logger:      logger,
		now:         time.Now,
	}
}

// Invalidate makes every cached report of the company unreachable
func (s *ReportService) Invalidate(ctx context.Context, companyID uuid.UUID) {
	gen := strconv.FormatInt(s.now().UnixNano(), 10)
	if err := s.cache.Set(ctx, generationKey(companyID), []byte(gen), generationTTL); err != nil {
		s.log(ctx).Warn("Failed to invalidate report cache",
			zap.String("company_id", companyID.String()),
			zap.Error(err))
	}
}

// Dashboard returns the month-to-date dashboard
func (s *ReportService) Dashboard(ctx context.Context, companyID uuid.UUID) (*report.Dashboard, error) {
	now := s.now()
	p := report.MonthToDate(now)
	out, err := cachedReport(ctx, s, companyID, report.KindDashboard, p.CacheKey(), func() (report.Dashboard, error) {
		return s.buildDashboard(ctx, companyID, p, now)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SalesSummary aggregates invoicing and receipts over the period
func (s *ReportService) SalesSummary(ctx context.Context, companyID uuid.UUID, f PeriodFilter) (*report.SalesSummary, error) {
	now := s.now()
	p, err := f.resolve(now)
	if err != nil {
		return nil, err
	}
	out, err := cachedReport(ctx, s, companyID, report.KindSalesSummary, p.CacheKey(), func() (report.SalesSummary, error) {
		return s.buildSalesSummary(ctx, companyID, p, now)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Aging buckets open balances by days past due
func (s *ReportService) Aging(ctx context.Context, companyID uuid.UUID, f AgingFilter) (*report.AgingReport, error) {
	asOf := s.now()
	if f.AsOf != nil {
		y, m, d := f.AsOf.Date()
		asOf = time.Date(y, m, d, 23, 59, 59, 0, f.AsOf.Location())
	}
	out, err := cachedReport(ctx, s, companyID, report.KindAging, asOf.Format("20060102"), func() (report.AgingReport, error) {
		return s.buildAging(ctx, companyID, asOf)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ExpensesByCategory lists spend per category over the period
func (s *ReportService) ExpensesByCategory(ctx context.Context, companyID uuid.UUID, f PeriodFilter) (*report.ExpenseBreakdown, error) {
	p, err := f.resolve(s.now())
	if err != nil {
		return nil, err
	}
	out, err := cachedReport(ctx, s, companyID, report.KindExpensesByCategory, p.CacheKey(), func() (report.ExpenseBreakdown, error) {
		return s.buildExpenses(ctx, companyID, p)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// TopCustomers ranks customers by amount invoiced in the period
func (s *ReportService) TopCustomers(ctx context.Context, companyID uuid.UUID, f TopCustomersFilter) (*TopCustomersResponse, error) {
	p, err := f.resolve(s.now())
	if err != nil {
		return nil, err
	}
	limit := f.limit()
	params := p.CacheKey() + ":" + strconv.Itoa(limit)
	out, err := cachedReport(ctx, s, companyID, report.KindTopCustomers, params, func() (TopCustomersResponse, error) {
		invoices, err := s.invoiceRepo.FindInRange(ctx, companyID, p.Range())
		if err != nil {
			return TopCustomersResponse{}, fmt.Errorf("load invoices: %w", err)
		}
		return TopCustomersResponse{Period: p, Customers: report.BuildTopCustomers(invoices, limit)}, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ProfitLoss compares income received in the period with the period's spend
func (s *ReportService) ProfitLoss(ctx context.Context, companyID uuid.UUID, f PeriodFilter) (*report.ProfitLoss, error) {
	p, err := f.resolve(s.now())
	if err != nil {
		return nil, err
	}
	out, err := cachedReport(ctx, s, companyID, report.KindProfitLoss, p.CacheKey(), func() (report.ProfitLoss, error) {
		return s.buildProfitLoss(ctx, companyID, p)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ReportService) buildDashboard(ctx context.Context, companyID uuid.UUID, p report.Period, now time.Time) (report.Dashboard, error) {
	summary, err := s.buildSalesSummary(ctx, companyID, p, now)
	if err != nil {
		return report.Dashboard{}, err
	}
	aging, err := s.buildAging(ctx, companyID, now)
	if err != nil {
		return report.Dashboard{}, err
	}
	expenses, err := s.buildExpenses(ctx, companyID, p)
	if err != nil {
		return report.Dashboard{}, err
	}
	pl, err := s.buildProfitLoss(ctx, companyID, p)
	if err != nil {
		return report.Dashboard{}, err
	}
	invoices, err := s.invoiceRepo.FindInRange(ctx, companyID, p.Range())
	if err != nil {
		return report.Dashboard{}, fmt.Errorf("load invoices: %w", err)
	}
	return report.Dashboard{
		GeneratedAt:  now,
		Sales:        summary,
		Aging:        aging,
		Expenses:     expenses,
		ProfitLoss:   pl,
		TopCustomers: report.BuildTopCustomers(invoices, 5),
	}, nil
}

func (s *ReportService) buildSalesSummary(ctx context.Context, companyID uuid.UUID, p report.Period, now time.Time) (report.SalesSummary, error) {
	invoices, err := s.invoiceRepo.FindInRange(ctx, companyID, p.Range())
	if err != nil {
		return report.SalesSummary{}, fmt.Errorf("load invoices: %w", err)
	}
	refresh(invoices, now)
	receipts, err := s.receiptRepo.FindInRange(ctx, companyID, p.Range())
	if err != nil {
		return report.SalesSummary{}, fmt.Errorf("load sales receipts: %w", err)
	}
	return report.BuildSalesSummary(p, invoices, receipts), nil
}

func (s *ReportService) buildAging(ctx context.Context, companyID uuid.UUID, asOf time.Time) (report.AgingReport, error) {
	invoices, err := s.invoiceRepo.FindOpenForCompany(ctx, companyID)
	if err != nil {
		return report.AgingReport{}, fmt.Errorf("load open invoices: %w", err)
	}
	refresh(invoices, asOf)
	return report.BuildAging(asOf, invoices), nil
}

func (s *ReportService) buildExpenses(ctx context.Context, companyID uuid.UUID, p report.Period) (report.ExpenseBreakdown, error) {
	totals, err := s.expenseRepo.TotalsByCategory(ctx, companyID, p.Range())
	if err != nil {
		return report.ExpenseBreakdown{}, fmt.Errorf("load expense totals: %w", err)
	}
	return report.BuildExpenseBreakdown(p, totals), nil
}

func (s *ReportService) buildProfitLoss(ctx context.Context, companyID uuid.UUID, p report.Period) (report.ProfitLoss, error) {
	invoices, err := s.invoiceRepo.FindWithPaymentsSince(ctx, companyID, p.Start)
	if err != nil {
		return report.ProfitLoss{}, fmt.Errorf("load invoice payments: %w", err)
	}
	receipts, err := s.receiptRepo.FindInRange(ctx, companyID, p.Range())
	if err != nil {
		return report.ProfitLoss{}, fmt.Errorf("load sales receipts: %w", err)
	}
	totals, err := s.expenseRepo.TotalsByCategory(ctx, companyID, p.Range())
	if err != nil {
		return report.ProfitLoss{}, fmt.Errorf("load expense totals: %w", err)
	}
	return report.BuildProfitLoss(p, invoices, receipts, totals), nil
}

// cachedReport loads kind/params for the company's current generation, building and
// storing it on a miss. Cache failures degrade to an uncached build.
func cachedReport[T any](ctx context.Context, s *ReportService, companyID uuid.UUID, kind report.Kind, params string, build func() (T, error)) (T, error) {
	key, cacheable := s.reportKey(ctx, companyID, kind, params)
	if cacheable {
		var hitValue T
		hit, err := cache.GetJSON(ctx, s.cache, key, &hitValue)
		if err != nil {
			s.log(ctx).Warn("Report cache read failed", zap.String("key", key), zap.Error(err))
			cacheable = false
		} else if hit {
			return hitValue, nil
		}
	}

	value, err := build()
	if err != nil {
		return value, err
	}
	if cacheable {
		if err := cache.SetJSON(ctx, s.cache, key, value, s.ttl); err != nil {
			s.log(ctx).Warn("Report cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return value, nil
}

// reportKey builds report:<company>:<kind>:<params>:g<generation>
func (s *ReportService) reportKey(ctx context.Context, companyID uuid.UUID, kind report.Kind, params string) (string, bool) {
	gen := "0"
	raw, ok, err := s.cache.Get(ctx, generationKey(companyID))
	if err != nil {
		s.log(ctx).Warn("Report generation read failed", zap.Error(err))
		return "", false
	}
	if ok {
		gen = string(raw)
	}
	return fmt.Sprintf("report:%s:%s:%s:g%s", companyID, kind, params, gen), true
}

func (s *ReportService) log(ctx context.Context) *zap.Logger {
	l, _ := logger.FromContextOr(ctx, s.logger)
	return l
}

func generationKey(companyID uuid.UUID) string {
	return "report:" + companyID.String() + ":generation"
}

// refresh derives the status of each invoice at now without keeping the events
func refresh(invoices []sales.Invoice, now time.Time) {
	for i := range invoices {
		invoices[i].Refresh(now)
		invoices[i].ClearDomainEvents()
	}
}
