package sales

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentTolerance absorbs rounding when a payment settles the balance
var PaymentTolerance = decimal.NewFromFloat(0.01)

var (
	ErrPaymentExceedsBalance = shared.NewDomainError("PAYMENT_EXCEEDS_BALANCE", "Payment amount exceeds the balance due")
	ErrPaymentDateInFuture   = shared.NewDomainError("PAYMENT_DATE_IN_FUTURE", "Payment date cannot be in the future")
)

// PaymentMethod represents how a payment was made
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCheck        PaymentMethod = "check"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodDebitCard    PaymentMethod = "debit_card"
	PaymentMethodOnline       PaymentMethod = "online"
	PaymentMethodOther        PaymentMethod = "other"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCheck, PaymentMethodBankTransfer,
		PaymentMethodCreditCard, PaymentMethodDebitCard, PaymentMethodOnline, PaymentMethodOther:
		return true
	}
	return false
}

// String returns the string representation
func (m PaymentMethod) String() string {
	return string(m)
}

// PaymentInput is a requested payment before validation
type PaymentInput struct {
	Amount    decimal.Decimal
	Date      time.Time
	Method    PaymentMethod
	Reference string
	Notes     string
}

// Validate checks the payment against the remaining balance.
// All failures are collected; a nil return means the payment can be applied.
func (in PaymentInput) Validate(balanceDue decimal.Decimal, now time.Time) error {
	v := &shared.ValidationError{}
	amount := in.Amount.Round(2)
	if !amount.IsPositive() {
		v.Add("amount", "must be greater than zero")
	} else if amount.GreaterThan(balanceDue.Add(PaymentTolerance)) {
		v.Add("amount", ErrPaymentExceedsBalance.Message+" ("+balanceDue.StringFixed(2)+")")
	}
	if in.Date.IsZero() {
		v.Add("payment_date", "is required")
	} else if in.Date.After(now) {
		v.Add("payment_date", ErrPaymentDateInFuture.Message)
	}
	if in.Method == "" {
		v.Add("payment_method", "is required")
	} else if !in.Method.IsValid() {
		v.Add("payment_method", "is not a supported payment method")
	}
	if len(in.Reference) > 100 {
		v.Add("reference", "cannot exceed 100 characters")
	}
	return v.Err()
}

// Payment is a recorded payment against an invoice
type Payment struct {
	ID         uuid.UUID       `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	Date       time.Time       `json:"date"`
	Method     PaymentMethod   `json:"method"`
	Reference  string          `json:"reference,omitempty"`
	Notes      string          `json:"notes,omitempty"`
	RecordedBy uuid.UUID       `json:"recorded_by"`
	RecordedAt time.Time       `json:"recorded_at"`
}

func newPayment(in PaymentInput, amount decimal.Decimal, recordedBy uuid.UUID, now time.Time) Payment {
	return Payment{
		ID:         uuid.New(),
		Amount:     amount,
		Date:       in.Date,
		Method:     in.Method,
		Reference:  strings.TrimSpace(in.Reference),
		Notes:      in.Notes,
		RecordedBy: recordedBy,
		RecordedAt: now,
	}
}

// Payments is stored as a JSON column alongside the invoice
type Payments []Payment

// Value implements driver.Valuer interface for GORM to store as JSON
func (p Payments) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner interface for GORM to read from JSON
func (p *Payments) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*p = Payments{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("failed to scan Payments: unsupported type")
	}
	if len(raw) == 0 {
		*p = Payments{}
		return nil
	}
	return json.Unmarshal(raw, p)
}

// Total returns the sum of all payments
func (p Payments) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, pay := range p {
		sum = sum.Add(pay.Amount)
	}
	return sum
}
