package sales

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceState is the subset of an invoice that status derivation reads and writes
type InvoiceState struct {
	Total      decimal.Decimal
	AmountPaid decimal.Decimal
	BalanceDue decimal.Decimal
	DueDate    time.Time
	Status     InvoiceStatus
	PaidDate   *time.Time
}

// Derive recomputes balance and status from the money fields.
//
// Order of precedence: a settled balance is paid (and paidDate is stamped once),
// any payment makes the invoice partially paid, an unpaid invoice past its due
// date is overdue, otherwise the explicitly set status stands. Cancelled
// invoices keep their status; only the balance is recomputed.
func Derive(s InvoiceState, now time.Time) InvoiceState {
	out := s
	out.BalanceDue = s.Total.Sub(s.AmountPaid)

	if s.Status == InvoiceStatusCancelled {
		return out
	}

	switch {
	case !out.BalanceDue.IsPositive():
		out.Status = InvoiceStatusPaid
		if out.PaidDate == nil {
			paid := now
			out.PaidDate = &paid
		}
	case s.AmountPaid.IsPositive():
		out.Status = InvoiceStatusPartiallyPaid
	case now.After(s.DueDate):
		out.Status = InvoiceStatusOverdue
	}
	return out
}
