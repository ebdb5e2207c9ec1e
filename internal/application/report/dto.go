package report

import (
	"time"

	"github.com/bizledger/backend/internal/domain/report"
)

const (
	defaultTopCustomers = 10
	maxTopCustomers     = 50
)

// PeriodFilter is the from/to query of the period reports. Both default to month to date.
type PeriodFilter struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

// TopCustomersFilter is the query of the top customers report
type TopCustomersFilter struct {
	PeriodFilter
	Limit int `form:"limit" binding:"omitempty,min=1,max=50"`
}

// AgingFilter is the query of the aging report
type AgingFilter struct {
	AsOf *time.Time `form:"as_of" time_format:"2006-01-02"`
}

// TopCustomersResponse wraps the ranking with its period
type TopCustomersResponse struct {
	Period    report.Period            `json:"period"`
	Customers []report.CustomerRanking `json:"customers"`
}

// resolve turns the filter into a period, defaulting missing bounds from now
func (f PeriodFilter) resolve(now time.Time) (report.Period, error) {
	if f.From == nil && f.To == nil {
		return report.MonthToDate(now), nil
	}
	mtd := report.MonthToDate(now)
	start, end := mtd.Start, mtd.End
	if f.From != nil {
		start = *f.From
	}
	if f.To != nil {
		end = *f.To
	}
	return report.NewPeriod(start, end)
}

func (f TopCustomersFilter) limit() int {
	switch {
	case f.Limit <= 0:
		return defaultTopCustomers
	case f.Limit > maxTopCustomers:
		return maxTopCustomers
	}
	return f.Limit
}
