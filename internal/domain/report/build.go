package report

import (
	"sort"
	"time"

	"github.com/bizledger/backend/internal/domain/finance"
	"github.com/bizledger/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// BuildSalesSummary aggregates invoices dated in the period and the period's receipts.
// Cancelled invoices are counted by status but excluded from money totals.
func BuildSalesSummary(p Period, invoices []sales.Invoice, receipts []sales.SalesReceipt) SalesSummary {
	s := SalesSummary{
		Period:           p,
		InvoicedTotal:    decimal.Zero,
		CollectedTotal:   decimal.Zero,
		OutstandingTotal: decimal.Zero,
		TaxTotal:         decimal.Zero,
		ReceiptsTotal:    decimal.Zero,
		AverageInvoice:   decimal.Zero,
		ByStatus:         make(map[string]int),
	}
	for _, inv := range invoices {
		if !p.Contains(inv.InvoiceDate) {
			continue
		}
		s.ByStatus[inv.Status.String()]++
		if inv.Status == sales.InvoiceStatusCancelled {
			continue
		}
		s.InvoiceCount++
		s.InvoicedTotal = s.InvoicedTotal.Add(inv.Total)
		s.CollectedTotal = s.CollectedTotal.Add(inv.AmountPaid)
		s.OutstandingTotal = s.OutstandingTotal.Add(positive(inv.BalanceDue))
		s.TaxTotal = s.TaxTotal.Add(inv.TaxTotal)
	}
	for _, r := range receipts {
		if !p.Contains(r.ReceiptDate) {
			continue
		}
		s.ReceiptCount++
		s.ReceiptsTotal = s.ReceiptsTotal.Add(r.Total)
		s.TaxTotal = s.TaxTotal.Add(r.TaxTotal)
	}
	s.TotalSales = s.InvoicedTotal.Add(s.ReceiptsTotal)
	if s.InvoiceCount > 0 {
		s.AverageInvoice = s.InvoicedTotal.Div(decimal.NewFromInt(int64(s.InvoiceCount))).Round(2)
	}
	return s
}

// NewAgingBuckets returns the empty standard buckets:
// current, 1-30, 31-60, 61-90 and over 90 days past due.
func NewAgingBuckets() []AgingBucket {
	return []AgingBucket{
		{Label: "current", MinDays: 0, MaxDays: 0, Amount: decimal.Zero},
		{Label: "1-30", MinDays: 1, MaxDays: 30, Amount: decimal.Zero},
		{Label: "31-60", MinDays: 31, MaxDays: 60, Amount: decimal.Zero},
		{Label: "61-90", MinDays: 61, MaxDays: 90, Amount: decimal.Zero},
		{Label: "90+", MinDays: 91, MaxDays: -1, Amount: decimal.Zero},
	}
}

// BuildAging buckets the open balances of sent, unsettled invoices by days past due at asOf
func BuildAging(asOf time.Time, invoices []sales.Invoice) AgingReport {
	r := AgingReport{AsOf: asOf, Buckets: NewAgingBuckets(), Total: decimal.Zero}
	for i := range invoices {
		inv := &invoices[i]
		if inv.Status.IsTerminal() || inv.Status == sales.InvoiceStatusDraft || inv.SentDate == nil || !inv.BalanceDue.IsPositive() {
			continue
		}
		days := inv.DaysOverdue(asOf)
		for b := range r.Buckets {
			bucket := &r.Buckets[b]
			if days >= bucket.MinDays && (bucket.MaxDays < 0 || days <= bucket.MaxDays) {
				bucket.Count++
				bucket.Amount = bucket.Amount.Add(inv.BalanceDue)
				break
			}
		}
		r.Count++
		r.Total = r.Total.Add(inv.BalanceDue)
	}
	return r
}

// BuildExpenseBreakdown orders category totals by spend and computes each share
func BuildExpenseBreakdown(p Period, totals []finance.CategoryTotal) ExpenseBreakdown {
	b := ExpenseBreakdown{Period: p, Total: decimal.Zero, Categories: []CategoryExpense{}}
	for _, t := range totals {
		b.Total = b.Total.Add(t.Total)
	}
	for _, t := range totals {
		share := decimal.Zero
		if b.Total.IsPositive() {
			share = t.Total.Mul(hundred).Div(b.Total).Round(2)
		}
		b.Categories = append(b.Categories, CategoryExpense{
			Category: t.Category.String(),
			Count:    t.Count,
			Total:    t.Total,
			Share:    share,
		})
	}
	sort.SliceStable(b.Categories, func(i, j int) bool {
		if !b.Categories[i].Total.Equal(b.Categories[j].Total) {
			return b.Categories[i].Total.GreaterThan(b.Categories[j].Total)
		}
		return b.Categories[i].Category < b.Categories[j].Category
	})
	return b
}

// BuildTopCustomers ranks customers by invoiced amount over the given invoices
func BuildTopCustomers(invoices []sales.Invoice, limit int) []CustomerRanking {
	byCustomer := make(map[uuid.UUID]*CustomerRanking)
	for _, inv := range invoices {
		if inv.Status == sales.InvoiceStatusCancelled {
			continue
		}
		row, ok := byCustomer[inv.CustomerID]
		if !ok {
			row = &CustomerRanking{
				CustomerID:    inv.CustomerID,
				CustomerName:  inv.CustomerName,
				InvoicedTotal: decimal.Zero,
				PaidTotal:     decimal.Zero,
				Outstanding:   decimal.Zero,
			}
			byCustomer[inv.CustomerID] = row
		}
		row.InvoiceCount++
		row.InvoicedTotal = row.InvoicedTotal.Add(inv.Total)
		row.PaidTotal = row.PaidTotal.Add(inv.AmountPaid)
		row.Outstanding = row.Outstanding.Add(positive(inv.BalanceDue))
	}

	rows := make([]CustomerRanking, 0, len(byCustomer))
	for _, row := range byCustomer {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].InvoicedTotal.Equal(rows[j].InvoicedTotal) {
			return rows[i].InvoicedTotal.GreaterThan(rows[j].InvoicedTotal)
		}
		return rows[i].CustomerName < rows[j].CustomerName
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

// BuildProfitLoss counts invoice payments dated in the period plus receipts against expenses
func BuildProfitLoss(p Period, invoices []sales.Invoice, receipts []sales.SalesReceipt, expenses []finance.CategoryTotal) ProfitLoss {
	pl := ProfitLoss{
		Period:          p,
		InvoicePayments: decimal.Zero,
		ReceiptIncome:   decimal.Zero,
		TotalExpenses:   decimal.Zero,
		ProfitMarginPct: decimal.Zero,
	}
	for _, inv := range invoices {
		for _, pay := range inv.Payments {
			if p.Contains(pay.Date) {
				pl.InvoicePayments = pl.InvoicePayments.Add(pay.Amount)
			}
		}
	}
	for _, r := range receipts {
		if p.Contains(r.ReceiptDate) {
			pl.ReceiptIncome = pl.ReceiptIncome.Add(r.Total)
		}
	}
	for _, e := range expenses {
		pl.TotalExpenses = pl.TotalExpenses.Add(e.Total)
	}
	pl.TotalIncome = pl.InvoicePayments.Add(pl.ReceiptIncome)
	pl.NetProfit = pl.TotalIncome.Sub(pl.TotalExpenses)
	if pl.TotalIncome.IsPositive() {
		pl.ProfitMarginPct = pl.NetProfit.Mul(hundred).Div(pl.TotalIncome).Round(2)
	}
	return pl
}

func positive(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
