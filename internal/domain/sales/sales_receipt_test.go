package sales

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotals(t *testing.T) {
	a, err := NewLineItem(uuid.New(), "Widget", decimal.NewFromInt(2), dec("50"), dec("10"))
	require.NoError(t, err)
	b, err := NewLineItem(uuid.New(), "Setup", decimal.NewFromInt(1), dec("30"), decimal.Zero)
	require.NoError(t, err)

	totals, err := ComputeTotals(LineItems{a, b}, dec("10"), dec("5"))
	require.NoError(t, err)
	assert.True(t, totals.SubTotal.Equal(dec("130")))
	assert.True(t, totals.TaxTotal.Equal(dec("10")))
	assert.True(t, totals.Total.Equal(dec("135")))

	_, err = ComputeTotals(LineItems{b}, dec("31"), decimal.Zero)
	assertValidationField(t, err, "discount")

	_, err = ComputeTotals(nil, decimal.Zero, decimal.Zero)
	assertValidationField(t, err, "items")
}

func TestNewLineItem_Validation(t *testing.T) {
	_, err := NewLineItem(uuid.Nil, "", decimal.Zero, dec("-1"), dec("-1"))
	assertValidationField(t, err, "items.item_id")
	assertValidationField(t, err, "items.quantity")
	assertValidationField(t, err, "items.rate")
	assertValidationField(t, err, "items.tax")
}

func TestLineItems_ScanValue(t *testing.T) {
	li, err := NewLineItem(uuid.New(), "Widget", decimal.NewFromInt(3), dec("9.99"), dec("1.50"))
	require.NoError(t, err)
	items := LineItems{li}

	v, err := items.Value()
	require.NoError(t, err)

	var back LineItems
	require.NoError(t, back.Scan(v))
	require.Len(t, back, 1)
	assert.True(t, back[0].Amount.Equal(dec("29.97")))

	var empty LineItems
	require.NoError(t, empty.Scan(nil))
	assert.Empty(t, empty)
}

func TestNewSalesReceipt(t *testing.T) {
	company := uuid.New()
	items := singleLine(t, "40")
	items = append(items, items[0])

	r, err := NewSalesReceipt(company, uuid.New(), "rec-00001", SalesReceiptDetails{
		ReceiptDate:   testNow,
		Items:         items,
		PaymentMethod: PaymentMethodCreditCard,
	}, testNow)
	require.NoError(t, err)

	assert.Equal(t, "REC-00001", r.SalesReceiptNumber)
	assert.True(t, r.Total.Equal(dec("80")))
	assert.Nil(t, r.CustomerID)
	require.Len(t, r.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeSalesReceiptCreated, r.GetDomainEvents()[0].EventType())
	assert.True(t, items.Quantities()[items[0].ItemID].Equal(decimal.NewFromInt(2)))
}

func TestNewSalesReceipt_Validation(t *testing.T) {
	_, err := NewSalesReceipt(uuid.New(), uuid.New(), "REC-00001", SalesReceiptDetails{
		ReceiptDate:   testNow.AddDate(0, 0, 1),
		Items:         singleLine(t, "10"),
		PaymentMethod: "iou",
	}, testNow)
	assertValidationField(t, err, "receipt_date")
	assertValidationField(t, err, "payment_method")
}
