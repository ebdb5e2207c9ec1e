package sales

import (
	"errors"
	"testing"
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var de *shared.DomainError
	require.True(t, errors.As(err, &de), "expected DomainError, got %T", err)
	assert.Equal(t, code, de.Code)
}

func assertValidationField(t *testing.T, err error, field string) {
	t.Helper()
	require.Error(t, err)
	var ve *shared.ValidationError
	require.True(t, errors.As(err, &ve), "expected ValidationError, got %T", err)
	for _, fe := range ve.Errors {
		if fe.Field == field {
			return
		}
	}
	t.Fatalf("no validation error for field %q in %v", field, ve.Errors)
}

func singleLine(t *testing.T, amount string) LineItems {
	t.Helper()
	li, err := NewLineItem(uuid.New(), "Consulting", decimal.NewFromInt(1), dec(amount), decimal.Zero)
	require.NoError(t, err)
	return LineItems{li}
}

func newTestInvoice(t *testing.T, total string, due time.Time) *Invoice {
	t.Helper()
	inv, err := NewInvoice(uuid.New(), uuid.New(), "inv-00001", InvoiceDetails{
		CustomerID:   uuid.New(),
		CustomerName: "Acme Ltd",
		InvoiceDate:  due.AddDate(0, 0, -30),
		DueDate:      due,
		Items:        singleLine(t, total),
	}, testNow)
	require.NoError(t, err)
	return inv
}

func cashPayment(amount string) PaymentInput {
	return PaymentInput{Amount: dec(amount), Date: testNow, Method: PaymentMethodCash}
}

func eventTypes(inv *Invoice) []string {
	var out []string
	for _, e := range inv.GetDomainEvents() {
		out = append(out, e.EventType())
	}
	return out
}

func TestNewInvoice(t *testing.T) {
	inv := newTestInvoice(t, "100", testNow.AddDate(0, 0, 30))

	assert.Equal(t, "INV-00001", inv.InvoiceNumber)
	assert.Equal(t, InvoiceStatusDraft, inv.Status)
	assert.True(t, inv.Total.Equal(dec("100")))
	assert.True(t, inv.BalanceDue.Equal(dec("100")))
	assert.True(t, inv.AmountPaid.IsZero())
	assert.Equal(t, []string{EventTypeInvoiceCreated}, eventTypes(inv))
	require.NotNil(t, inv.CreatedBy)
}

func TestNewInvoice_Validation(t *testing.T) {
	_, err := NewInvoice(uuid.New(), uuid.New(), "INV-00001", InvoiceDetails{
		InvoiceDate: testNow,
		DueDate:     testNow.AddDate(0, 0, -1),
		Items:       singleLine(t, "10"),
	}, testNow)
	assertValidationField(t, err, "customer_id")
	assertValidationField(t, err, "due_date")

	_, err = NewInvoice(uuid.New(), uuid.New(), "INV-00001", InvoiceDetails{
		CustomerID:  uuid.New(),
		InvoiceDate: testNow,
		DueDate:     testNow,
	}, testNow)
	assertValidationField(t, err, "items")
}

func TestInvoice_OverdueThenPaid(t *testing.T) {
	inv := newTestInvoice(t, "100", testNow.AddDate(0, 0, -1))

	assert.Equal(t, InvoiceStatusOverdue, inv.Status)
	assert.True(t, inv.BalanceDue.Equal(dec("100")))

	require.NoError(t, inv.Send(uuid.New(), testNow))
	assert.Equal(t, InvoiceStatusOverdue, inv.Status)
	require.NotNil(t, inv.SentDate)

	pay, err := inv.RecordPayment(cashPayment("100"), uuid.New(), testNow)
	require.NoError(t, err)
	require.NotNil(t, pay)

	assert.Equal(t, InvoiceStatusPaid, inv.Status)
	assert.True(t, inv.BalanceDue.IsZero())
	require.NotNil(t, inv.PaidDate)
	assert.Equal(t, testNow, *inv.PaidDate)
	assert.Contains(t, eventTypes(inv), EventTypePaymentRecorded)
	assert.Contains(t, eventTypes(inv), EventTypeInvoicePaid)
}

func TestInvoice_PartialThenRejectedOverpayment(t *testing.T) {
	inv := newTestInvoice(t, "200", testNow.AddDate(0, 0, 14))
	require.NoError(t, inv.Send(uuid.New(), testNow))
	assert.Equal(t, InvoiceStatusSent, inv.Status)

	_, err := inv.RecordPayment(cashPayment("50"), uuid.New(), testNow)
	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusPartiallyPaid, inv.Status)
	assert.True(t, inv.BalanceDue.Equal(dec("150")))

	version := inv.Version
	_, err = inv.RecordPayment(cashPayment("151"), uuid.New(), testNow)
	assertValidationField(t, err, "amount")

	assert.True(t, inv.AmountPaid.Equal(dec("50")))
	assert.True(t, inv.BalanceDue.Equal(dec("150")))
	assert.Len(t, inv.Payments, 1)
	assert.Equal(t, version, inv.Version)
	assert.Equal(t, InvoiceStatusPartiallyPaid, inv.Status)
}

func TestInvoice_PaymentWithinToleranceIsClamped(t *testing.T) {
	inv := newTestInvoice(t, "100", testNow.AddDate(0, 0, 14))
	require.NoError(t, inv.Send(uuid.New(), testNow))

	pay, err := inv.RecordPayment(cashPayment("100.01"), uuid.New(), testNow)
	require.NoError(t, err)

	assert.True(t, pay.Amount.Equal(dec("100")))
	assert.True(t, inv.AmountPaid.Equal(inv.Total))
	assert.True(t, inv.BalanceDue.IsZero())
	assert.Equal(t, InvoiceStatusPaid, inv.Status)
}

func TestInvoice_RecordPaymentValidation(t *testing.T) {
	inv := newTestInvoice(t, "100", testNow.AddDate(0, 0, 14))
	require.NoError(t, inv.Send(uuid.New(), testNow))

	tests := []struct {
		name  string
		in    PaymentInput
		field string
	}{
		{"zero amount", PaymentInput{Amount: decimal.Zero, Date: testNow, Method: PaymentMethodCash}, "amount"},
		{"negative amount", PaymentInput{Amount: dec("-5"), Date: testNow, Method: PaymentMethodCash}, "amount"},
		{"future date", PaymentInput{Amount: dec("5"), Date: testNow.Add(time.Hour), Method: PaymentMethodCash}, "payment_date"},
		{"missing date", PaymentInput{Amount: dec("5"), Method: PaymentMethodCash}, "payment_date"},
		{"missing method", PaymentInput{Amount: dec("5"), Date: testNow}, "payment_method"},
		{"unknown method", PaymentInput{Amount: dec("5"), Date: testNow, Method: "barter"}, "payment_method"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := inv.RecordPayment(tt.in, uuid.New(), testNow)
			assertValidationField(t, err, tt.field)
			assert.True(t, inv.AmountPaid.IsZero())
			assert.Empty(t, inv.Payments)
		})
	}
}

func TestInvoice_RecordPaymentState(t *testing.T) {
	t.Run("draft", func(t *testing.T) {
		inv := newTestInvoice(t, "100", testNow.AddDate(0, 0, 14))
		_, err := inv.RecordPayment(cashPayment("10"), uuid.New(), testNow)
		assertCode(t, err, "INVALID_STATE")
	})
	t.Run("paid", func(t *testing.T) {
		inv := newTestInvoice(t, "100", testNow.AddDate(0, 0, 14))
		require.NoError(t, inv.Send(uuid.New(), testNow))
		_, err := inv.RecordPayment(cashPayment("100"), uuid.New(), testNow)
		require.NoError(t, err)
		_, err = inv.RecordPayment(cashPayment("1"), uuid.New(), testNow)
		assertCode(t, err, "INVALID_STATE")
	})
	t.Run("cancelled", func(t *testing.T) {
		inv := newTestInvoice(t, "100", testNow.AddDate(0, 0, 14))
		require.NoError(t, inv.Cancel(uuid.New(), "", testNow))
		_, err := inv.RecordPayment(cashPayment("1"), uuid.New(), testNow)
		assertCode(t, err, "INVALID_STATE")
	})
}

func TestInvoice_Cancel(t *testing.T) {
	inv := newTestInvoice(t, "100", testNow.AddDate(0, 0, -3))
	require.NoError(t, inv.Send(uuid.New(), testNow))
	require.NoError(t, inv.Cancel(uuid.New(), "duplicate", testNow))

	assert.Equal(t, InvoiceStatusCancelled, inv.Status)
	require.NotNil(t, inv.CancelledDate)
	assert.Contains(t, inv.Notes, "duplicate")
	assert.Contains(t, eventTypes(inv), EventTypeInvoiceCancelled)

	assert.False(t, inv.Refresh(testNow.AddDate(0, 1, 0)))
	assert.Equal(t, InvoiceStatusCancelled, inv.Status)

	assertCode(t, inv.Cancel(uuid.New(), "", testNow), "INVALID_STATE")
	assertCode(t, inv.Send(uuid.New(), testNow), "INVALID_STATE")
}

func TestInvoice_CancelWithPaymentsRejected(t *testing.T) {
	inv := newTestInvoice(t, "100", testNow.AddDate(0, 0, 14))
	require.NoError(t, inv.Send(uuid.New(), testNow))
	_, err := inv.RecordPayment(cashPayment("10"), uuid.New(), testNow)
	require.NoError(t, err)

	assertCode(t, inv.Cancel(uuid.New(), "", testNow), "INVALID_STATE")
	assert.Equal(t, InvoiceStatusPartiallyPaid, inv.Status)
}

func TestInvoice_UpdateDetails(t *testing.T) {
	inv := newTestInvoice(t, "100", testNow.AddDate(0, 0, 14))
	d := InvoiceDetails{
		CustomerID:  inv.CustomerID,
		InvoiceDate: inv.InvoiceDate,
		DueDate:     inv.DueDate,
		Items:       singleLine(t, "250"),
		Discount:    dec("50"),
	}
	require.NoError(t, inv.UpdateDetails(d, uuid.New(), testNow))
	assert.True(t, inv.Total.Equal(dec("200")))
	assert.True(t, inv.BalanceDue.Equal(dec("200")))
	assert.Equal(t, 2, inv.Version)

	require.NoError(t, inv.Send(uuid.New(), testNow))
	assertCode(t, inv.UpdateDetails(d, uuid.New(), testNow), "INVALID_STATE")
}

func TestInvoice_UnsentOverdueIsStillEditable(t *testing.T) {
	inv := newTestInvoice(t, "100", testNow.AddDate(0, 0, -1))
	require.Equal(t, InvoiceStatusOverdue, inv.Status)
	assert.True(t, inv.IsEditable())
	assert.True(t, inv.CanDelete())

	d := InvoiceDetails{
		CustomerID:  inv.CustomerID,
		InvoiceDate: testNow,
		DueDate:     testNow.AddDate(0, 0, 30),
		Items:       inv.Items,
	}
	require.NoError(t, inv.UpdateDetails(d, uuid.New(), testNow))
	assert.Equal(t, InvoiceStatusDraft, inv.Status)
}

func TestInvoice_SendFromDraftPastDueRaisesOverdue(t *testing.T) {
	inv := newTestInvoice(t, "100", testNow.AddDate(0, 0, 10))
	inv.ClearDomainEvents()

	later := testNow.AddDate(0, 0, 20)
	require.NoError(t, inv.Send(uuid.New(), later))
	assert.Equal(t, InvoiceStatusOverdue, inv.Status)
	assert.Equal(t, []string{EventTypeInvoiceOverdue, EventTypeInvoiceSent}, eventTypes(inv))
}

func TestInvoice_DaysOverdue(t *testing.T) {
	inv := newTestInvoice(t, "100", testNow)
	assert.Equal(t, 0, inv.DaysOverdue(testNow))
	assert.Equal(t, 5, inv.DaysOverdue(testNow.AddDate(0, 0, 5)))
}
