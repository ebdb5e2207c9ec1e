package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestItem(t *testing.T, track bool, qty int64) *Item {
	t.Helper()
	it, err := NewItem(uuid.New(), ItemDetails{
		Name:           "Widget",
		SKU:            "wid-1",
		Type:           ItemTypeProduct,
		Rate:           decimal.NewFromInt(25),
		TaxRate:        decimal.NewFromInt(10),
		TrackInventory: track,
	}, decimal.NewFromInt(qty))
	require.NoError(t, err)
	return it
}

func TestNewItem(t *testing.T) {
	it := createTestItem(t, true, 5)
	assert.Equal(t, "WID-1", it.SKU)
	assert.True(t, it.QuantityOnHand.Equal(decimal.NewFromInt(5)))

	t.Run("untracked items ignore opening quantity", func(t *testing.T) {
		it := createTestItem(t, false, 5)
		assert.True(t, it.QuantityOnHand.IsZero())
	})

	t.Run("services cannot track stock", func(t *testing.T) {
		_, err := NewItem(uuid.New(), ItemDetails{Name: "Consulting", Type: ItemTypeService, TrackInventory: true}, decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("rejects bad rates", func(t *testing.T) {
		_, err := NewItem(uuid.New(), ItemDetails{Name: "X", Type: ItemTypeProduct, Rate: decimal.NewFromInt(-1), TaxRate: decimal.NewFromInt(101)}, decimal.Zero)
		assert.ErrorContains(t, err, "rate")
		assert.ErrorContains(t, err, "tax_rate")
	})
}

func TestItem_Stock(t *testing.T) {
	it := createTestItem(t, true, 3)

	require.NoError(t, it.RemoveStock(decimal.NewFromInt(2)))
	assert.True(t, it.QuantityOnHand.Equal(decimal.NewFromInt(1)))

	assert.Error(t, it.RemoveStock(decimal.NewFromInt(2)))
	assert.True(t, it.QuantityOnHand.Equal(decimal.NewFromInt(1)))

	it.ReturnStock(decimal.NewFromInt(2))
	assert.True(t, it.QuantityOnHand.Equal(decimal.NewFromInt(3)))
}

func TestItem_TaxFor(t *testing.T) {
	it := createTestItem(t, false, 0)
	assert.Equal(t, "2.5", it.TaxFor(decimal.NewFromInt(25)).String())
}
