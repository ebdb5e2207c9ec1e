package sales

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDerive(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)
	earlier := now.AddDate(0, 0, -10)

	tests := []struct {
		name        string
		in          InvoiceState
		wantStatus  InvoiceStatus
		wantBalance string
		wantPaidAt  *time.Time
	}{
		{
			name:        "unpaid past due becomes overdue",
			in:          InvoiceState{Total: dec("100"), AmountPaid: decimal.Zero, DueDate: yesterday, Status: InvoiceStatusSent},
			wantStatus:  InvoiceStatusOverdue,
			wantBalance: "100",
		},
		{
			name:        "unpaid draft past due becomes overdue",
			in:          InvoiceState{Total: dec("100"), AmountPaid: decimal.Zero, DueDate: yesterday, Status: InvoiceStatusDraft},
			wantStatus:  InvoiceStatusOverdue,
			wantBalance: "100",
		},
		{
			name:        "unpaid not yet due keeps draft",
			in:          InvoiceState{Total: dec("100"), AmountPaid: decimal.Zero, DueDate: tomorrow, Status: InvoiceStatusDraft},
			wantStatus:  InvoiceStatusDraft,
			wantBalance: "100",
		},
		{
			name:        "unpaid not yet due keeps sent",
			in:          InvoiceState{Total: dec("100"), AmountPaid: decimal.Zero, DueDate: tomorrow, Status: InvoiceStatusSent},
			wantStatus:  InvoiceStatusSent,
			wantBalance: "100",
		},
		{
			name:        "due date equal to now is not overdue",
			in:          InvoiceState{Total: dec("100"), AmountPaid: decimal.Zero, DueDate: now, Status: InvoiceStatusSent},
			wantStatus:  InvoiceStatusSent,
			wantBalance: "100",
		},
		{
			name:        "partial payment before due date",
			in:          InvoiceState{Total: dec("200"), AmountPaid: dec("50"), DueDate: tomorrow, Status: InvoiceStatusSent},
			wantStatus:  InvoiceStatusPartiallyPaid,
			wantBalance: "150",
		},
		{
			name:        "partial payment past due is not overdue",
			in:          InvoiceState{Total: dec("200"), AmountPaid: dec("50"), DueDate: yesterday, Status: InvoiceStatusOverdue},
			wantStatus:  InvoiceStatusPartiallyPaid,
			wantBalance: "150",
		},
		{
			name:        "full payment past due is paid",
			in:          InvoiceState{Total: dec("100"), AmountPaid: dec("100"), DueDate: yesterday, Status: InvoiceStatusOverdue},
			wantStatus:  InvoiceStatusPaid,
			wantBalance: "0",
			wantPaidAt:  &now,
		},
		{
			name:        "existing paid date is kept",
			in:          InvoiceState{Total: dec("100"), AmountPaid: dec("100"), DueDate: tomorrow, Status: InvoiceStatusPaid, PaidDate: &earlier},
			wantStatus:  InvoiceStatusPaid,
			wantBalance: "0",
			wantPaidAt:  &earlier,
		},
		{
			name:        "overpayment is paid with negative balance",
			in:          InvoiceState{Total: dec("100"), AmountPaid: dec("120"), DueDate: tomorrow, Status: InvoiceStatusSent},
			wantStatus:  InvoiceStatusPaid,
			wantBalance: "-20",
			wantPaidAt:  &now,
		},
		{
			name:        "cancelled is never moved",
			in:          InvoiceState{Total: dec("100"), AmountPaid: decimal.Zero, DueDate: yesterday, Status: InvoiceStatusCancelled},
			wantStatus:  InvoiceStatusCancelled,
			wantBalance: "100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Derive(tt.in, now)
			assert.Equal(t, tt.wantStatus, out.Status)
			assert.True(t, out.BalanceDue.Equal(dec(tt.wantBalance)), "balance %s", out.BalanceDue)
			assert.True(t, out.BalanceDue.Equal(out.Total.Sub(out.AmountPaid)))
			if tt.wantPaidAt == nil {
				assert.Nil(t, out.PaidDate)
			} else {
				require.NotNil(t, out.PaidDate)
				assert.Equal(t, *tt.wantPaidAt, *out.PaidDate)
			}
		})
	}
}

func TestDerive_PaidDateIdempotent(t *testing.T) {
	first := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s := InvoiceState{Total: dec("80"), AmountPaid: dec("80"), DueDate: first.AddDate(0, 0, 5), Status: InvoiceStatusSent}

	s = Derive(s, first)
	require.NotNil(t, s.PaidDate)

	for i := 1; i <= 3; i++ {
		s = Derive(s, first.AddDate(0, 0, i*7))
		assert.Equal(t, InvoiceStatusPaid, s.Status)
		assert.Equal(t, first, *s.PaidDate)
	}
}

func TestDerive_DoesNotMutateInput(t *testing.T) {
	now := time.Now()
	in := InvoiceState{Total: dec("10"), AmountPaid: dec("10"), DueDate: now, Status: InvoiceStatusSent}
	_ = Derive(in, now)
	assert.Equal(t, InvoiceStatusSent, in.Status)
	assert.Nil(t, in.PaidDate)
}
