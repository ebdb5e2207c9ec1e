package middleware

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLine struct {
	ItemName string `json:"item_name" binding:"required"`
	Quantity int    `json:"quantity" binding:"gt=0"`
}

type testInvoiceRequest struct {
	CustomerID string     `json:"customer_id" binding:"required,uuid"`
	Email      string     `json:"email" binding:"omitempty,email"`
	Lines      []testLine `json:"lines" binding:"required,min=1,dive"`
}

func bindBody(t *testing.T, body string) error {
	t.Helper()
	SetupValidator()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	var req testInvoiceRequest
	return c.ShouldBindJSON(&req)
}

func TestFormatValidationErrors(t *testing.T) {
	t.Run("field errors use json names and paths", func(t *testing.T) {
		err := bindBody(t, `{"customer_id":"nope","email":"x","lines":[{"item_name":"","quantity":0}]}`)
		require.Error(t, err)

		ve, ok := FormatValidationErrors(err)
		require.True(t, ok)
		fields := map[string]string{}
		for _, fe := range ve.Errors {
			fields[fe.Field] = fe.Message
		}
		assert.Equal(t, "Invalid UUID format", fields["customer_id"])
		assert.Equal(t, "Invalid email format", fields["email"])
		assert.Equal(t, "This field is required", fields["lines[0].item_name"])
		assert.Equal(t, "Must be greater than 0", fields["lines[0].quantity"])
	})

	t.Run("empty slice", func(t *testing.T) {
		err := bindBody(t, `{"customer_id":"6f1c2a8e-3f1b-4a53-9d57-2b9f0f4b6a11","lines":[]}`)
		ve, ok := FormatValidationErrors(err)
		require.True(t, ok)
		require.Len(t, ve.Errors, 1)
		assert.Equal(t, "lines", ve.Errors[0].Field)
		assert.Equal(t, "Must contain at least 1 item(s)", ve.Errors[0].Message)
	})

	t.Run("wrong json type names the field", func(t *testing.T) {
		err := bindBody(t, `{"customer_id":42}`)
		ve, ok := FormatValidationErrors(err)
		require.True(t, ok)
		assert.Equal(t, "customer_id", ve.Errors[0].Field)
	})

	t.Run("malformed json is not a field error", func(t *testing.T) {
		_, ok := FormatValidationErrors(bindBody(t, `{"customer_id":`))
		assert.False(t, ok)
	})
}
