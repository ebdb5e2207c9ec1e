package company

import (
	"errors"
	"testing"
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCompany(t *testing.T) {
	c, err := NewCompany("  Acme Traders ", "Billing@Acme.io")
	require.NoError(t, err)

	assert.Equal(t, "Acme Traders", c.Name)
	assert.Equal(t, "billing@acme.io", c.Email)
	assert.Equal(t, DefaultInvoicePrefix, c.InvoicePrefix)
	assert.Equal(t, DefaultReceiptPrefix, c.ReceiptPrefix)
	assert.Equal(t, DefaultPaymentTermsDays, c.PaymentTermsDays)
	assert.True(t, c.Active)

	_, err = NewCompany(" ", "")
	assert.Error(t, err)
}

func TestCompany_UpdateSettings(t *testing.T) {
	c, err := NewCompany("Acme", "")
	require.NoError(t, err)

	t.Run("applies normalized settings", func(t *testing.T) {
		err := c.UpdateSettings(Settings{Currency: "eur", InvoicePrefix: " acme-", ReceiptPrefix: "r-", PaymentTermsDays: 14})
		require.NoError(t, err)
		assert.Equal(t, "EUR", c.Currency)
		assert.Equal(t, "ACME-", c.InvoicePrefix)
		assert.Equal(t, "R-", c.ReceiptPrefix)
		assert.Equal(t, 14, c.PaymentTermsDays)
	})

	t.Run("reports every invalid field", func(t *testing.T) {
		err := c.UpdateSettings(Settings{Currency: "EURO", InvoicePrefix: "", ReceiptPrefix: "WAY-TOO-LONG-PREFIX", PaymentTermsDays: 400})
		var ve *shared.ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Len(t, ve.Errors, 4)
		assert.Equal(t, "EUR", c.Currency, "settings must not change on failure")
	})
}

func TestCompany_DefaultDueDate(t *testing.T) {
	c, err := NewCompany("Acme", "")
	require.NoError(t, err)

	issued := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC), c.DefaultDueDate(issued))
}
