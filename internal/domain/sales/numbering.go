package sales

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bizledger/backend/internal/domain/shared"
)

// NumberWidth is the zero-padded width of the numeric suffix
const NumberWidth = 5

// ErrNumberTaken is returned when a document number already exists in the company.
// Callers allocating numbers automatically should retry with the next number.
var ErrNumberTaken = shared.NewDomainError("NUMBER_TAKEN", "Document number is already used in this company")

// NormalizeNumber trims and uppercases a document number
func NormalizeNumber(number string) string {
	return strings.ToUpper(strings.TrimSpace(number))
}

// FormatNumber renders prefix and sequence, e.g. INV-00042
func FormatNumber(prefix string, seq int64) string {
	return NormalizeNumber(fmt.Sprintf("%s%0*d", prefix, NumberWidth, seq))
}

// ParseSequence extracts the numeric suffix of a number issued under prefix
func ParseSequence(prefix, number string) (int64, bool) {
	prefix = NormalizeNumber(prefix)
	number = NormalizeNumber(number)
	if !strings.HasPrefix(number, prefix) {
		return 0, false
	}
	digits := number[len(prefix):]
	if digits == "" {
		return 0, false
	}
	seq, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || seq < 0 {
		return 0, false
	}
	return seq, true
}

// NextNumber returns the number following the highest issued sequence
func NextNumber(prefix string, highest int64) string {
	if highest < 0 {
		highest = 0
	}
	return FormatNumber(prefix, highest+1)
}

// ValidateNumber checks a client supplied document number
func ValidateNumber(field, number string) error {
	n := NormalizeNumber(number)
	switch {
	case n == "":
		return shared.NewValidationError(field, "is required")
	case len(n) > 50:
		return shared.NewValidationError(field, "cannot exceed 50 characters")
	case strings.ContainsAny(n, " \t\r\n"):
		return shared.NewValidationError(field, "cannot contain whitespace")
	}
	return nil
}
