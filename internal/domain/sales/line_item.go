package sales

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is one billed row of an invoice or sales receipt.
// Amount is always Quantity × Rate; Tax is the line's tax amount.
type LineItem struct {
	ItemID      uuid.UUID       `json:"item_id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Tax         decimal.Decimal `json:"tax"`
	Amount      decimal.Decimal `json:"amount"`
}

// NewLineItem validates the line and computes its amount
func NewLineItem(itemID uuid.UUID, description string, quantity, rate, tax decimal.Decimal) (LineItem, error) {
	li := LineItem{
		ItemID:      itemID,
		Description: strings.TrimSpace(description),
		Quantity:    quantity,
		Rate:        rate,
		Tax:         tax.Round(2),
	}
	if err := li.validate("items"); err != nil {
		return LineItem{}, err
	}
	li.Amount = quantity.Mul(rate).Round(2)
	return li, nil
}

func (li LineItem) validate(prefix string) error {
	v := &shared.ValidationError{}
	li.collect(v, prefix)
	return v.Err()
}

func (li LineItem) collect(v *shared.ValidationError, prefix string) {
	if li.ItemID == uuid.Nil {
		v.Add(prefix+".item_id", "is required")
	}
	if li.Quantity.LessThan(decimal.NewFromInt(1)) {
		v.Add(prefix+".quantity", "must be at least 1")
	}
	if li.Rate.IsNegative() {
		v.Add(prefix+".rate", "cannot be negative")
	}
	if li.Tax.IsNegative() {
		v.Add(prefix+".tax", "cannot be negative")
	}
}

// LineItems is stored as a JSON column
type LineItems []LineItem

// Value implements driver.Valuer interface for GORM to store as JSON
func (l LineItems) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner interface for GORM to read from JSON
func (l *LineItems) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*l = LineItems{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("failed to scan LineItems: unsupported type")
	}
	if len(raw) == 0 {
		*l = LineItems{}
		return nil
	}
	return json.Unmarshal(raw, l)
}

// Quantities sums quantities per item, for stock movements
func (l LineItems) Quantities() map[uuid.UUID]decimal.Decimal {
	out := make(map[uuid.UUID]decimal.Decimal, len(l))
	for _, li := range l {
		out[li.ItemID] = out[li.ItemID].Add(li.Quantity)
	}
	return out
}

// Totals are the computed money fields of a document
type Totals struct {
	SubTotal        decimal.Decimal
	Discount        decimal.Decimal
	ShippingCharges decimal.Decimal
	TaxTotal        decimal.Decimal
	Total           decimal.Decimal
}

// ComputeTotals derives document totals from its lines and charges.
// Total = SubTotal - Discount + ShippingCharges + TaxTotal.
func ComputeTotals(items LineItems, discount, shipping decimal.Decimal) (Totals, error) {
	v := &shared.ValidationError{}
	if len(items) == 0 {
		v.Add("items", "at least one line item is required")
	}
	for i, li := range items {
		li.collect(v, fmt.Sprintf("items[%d]", i))
	}
	if discount.IsNegative() {
		v.Add("discount", "cannot be negative")
	}
	if shipping.IsNegative() {
		v.Add("shipping_charges", "cannot be negative")
	}
	if err := v.Err(); err != nil {
		return Totals{}, err
	}

	t := Totals{
		SubTotal:        decimal.Zero,
		Discount:        discount.Round(2),
		ShippingCharges: shipping.Round(2),
		TaxTotal:        decimal.Zero,
	}
	for _, li := range items {
		t.SubTotal = t.SubTotal.Add(li.Amount)
		t.TaxTotal = t.TaxTotal.Add(li.Tax)
	}
	if t.Discount.GreaterThan(t.SubTotal) {
		return Totals{}, shared.NewValidationError("discount", "cannot exceed the subtotal")
	}
	t.Total = t.SubTotal.Sub(t.Discount).Add(t.ShippingCharges).Add(t.TaxTotal)
	return t, nil
}
