package report

import (
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind names a report for caching and export
type Kind string

const (
	KindDashboard          Kind = "dashboard"
	KindSalesSummary       Kind = "sales_summary"
	KindAging              Kind = "aging"
	KindExpensesByCategory Kind = "expenses_by_category"
	KindTopCustomers       Kind = "top_customers"
	KindProfitLoss         Kind = "profit_loss"
)

// Period is an inclusive reporting window
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewPeriod validates and normalizes a reporting window to whole days
func NewPeriod(start, end time.Time) (Period, error) {
	v := &shared.ValidationError{}
	if start.IsZero() {
		v.Add("from", "is required")
	}
	if end.IsZero() {
		v.Add("to", "is required")
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		v.Add("to", "must not be before from")
	}
	if !start.IsZero() && !end.IsZero() && end.Sub(start) > 366*5*24*time.Hour {
		v.Add("to", "period cannot exceed five years")
	}
	if err := v.Err(); err != nil {
		return Period{}, err
	}
	return Period{Start: startOfDay(start), End: endOfDay(end)}, nil
}

// MonthToDate returns the period from the first of now's month through now's day
func MonthToDate(now time.Time) Period {
	y, m, _ := now.Date()
	return Period{Start: time.Date(y, m, 1, 0, 0, 0, 0, now.Location()), End: endOfDay(now)}
}

// Range returns the period as a shared.DateRange
func (p Period) Range() shared.DateRange {
	start, end := p.Start, p.End
	return shared.DateRange{From: &start, To: &end}
}

// Contains reports whether t falls within the period
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// CacheKey renders the period for cache keys
func (p Period) CacheKey() string {
	return p.Start.Format("20060102") + "-" + p.End.Format("20060102")
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).Add(24*time.Hour - time.Nanosecond)
}

// SalesSummary aggregates invoicing and receipts over a period
type SalesSummary struct {
	Period           Period          `json:"period"`
	InvoiceCount     int             `json:"invoice_count"`
	InvoicedTotal    decimal.Decimal `json:"invoiced_total"`
	CollectedTotal   decimal.Decimal `json:"collected_total"`
	OutstandingTotal decimal.Decimal `json:"outstanding_total"`
	TaxTotal         decimal.Decimal `json:"tax_total"`
	ByStatus         map[string]int  `json:"by_status"`
	ReceiptCount     int             `json:"receipt_count"`
	ReceiptsTotal    decimal.Decimal `json:"receipts_total"`
	TotalSales       decimal.Decimal `json:"total_sales"`
	AverageInvoice   decimal.Decimal `json:"average_invoice"`
}

// AgingBucket is one column of the receivables aging report
type AgingBucket struct {
	Label   string          `json:"label"`
	MinDays int             `json:"min_days"`
	MaxDays int             `json:"max_days"` // -1 means unbounded
	Count   int             `json:"count"`
	Amount  decimal.Decimal `json:"amount"`
}

// AgingReport groups open balances by days past due
type AgingReport struct {
	AsOf    time.Time       `json:"as_of"`
	Buckets []AgingBucket   `json:"buckets"`
	Total   decimal.Decimal `json:"total"`
	Count   int             `json:"count"`
}

// CategoryExpense is the spend of one expense category
type CategoryExpense struct {
	Category string          `json:"category"`
	Count    int64           `json:"count"`
	Total    decimal.Decimal `json:"total"`
	Share    decimal.Decimal `json:"share"` // percent of period total
}

// ExpenseBreakdown lists spend per category over a period
type ExpenseBreakdown struct {
	Period     Period            `json:"period"`
	Categories []CategoryExpense `json:"categories"`
	Total      decimal.Decimal   `json:"total"`
}

// CustomerRanking is one row of the top customers report
type CustomerRanking struct {
	Rank          int             `json:"rank"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	InvoiceCount  int             `json:"invoice_count"`
	InvoicedTotal decimal.Decimal `json:"invoiced_total"`
	PaidTotal     decimal.Decimal `json:"paid_total"`
	Outstanding   decimal.Decimal `json:"outstanding"`
}

// ProfitLoss compares income and spend over a period
type ProfitLoss struct {
	Period          Period          `json:"period"`
	InvoicePayments decimal.Decimal `json:"invoice_payments"`
	ReceiptIncome   decimal.Decimal `json:"receipt_income"`
	TotalIncome     decimal.Decimal `json:"total_income"`
	TotalExpenses   decimal.Decimal `json:"total_expenses"`
	NetProfit       decimal.Decimal `json:"net_profit"`
	ProfitMarginPct decimal.Decimal `json:"profit_margin_pct"`
}

// Dashboard is the month-to-date landing view
type Dashboard struct {
	GeneratedAt  time.Time         `json:"generated_at"`
	Sales        SalesSummary      `json:"sales"`
	Aging        AgingReport       `json:"aging"`
	Expenses     ExpenseBreakdown  `json:"expenses"`
	ProfitLoss   ProfitLoss        `json:"profit_loss"`
	TopCustomers []CustomerRanking `json:"top_customers"`
}
