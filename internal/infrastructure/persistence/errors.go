package persistence

import (
	"errors"
	"strings"

	"github.com/bizledger/backend/internal/domain/sales"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/infrastructure/persistence/models"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// numberConstraints maps document number indexes to the column sqlite names in its message
var numberConstraints = map[string]string{
	models.InvoiceNumberIndex:      "invoice_number",
	models.SalesReceiptNumberIndex: "sales_receipt_number",
	models.ExpenseNumberIndex:      "expense_number",
}

// translateWriteError maps driver uniqueness violations to domain errors.
// Document number collisions become sales.ErrNumberTaken so callers can retry
// with the next number; any other duplicate is shared.ErrAlreadyExists.
func translateWriteError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		if _, ok := numberConstraints[pgErr.ConstraintName]; ok {
			return sales.ErrNumberTaken
		}
		return shared.ErrAlreadyExists
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}

	// sqlite: "UNIQUE constraint failed: invoices.company_id, invoices.invoice_number"
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") {
		for _, column := range numberConstraints {
			if strings.Contains(msg, "."+column) {
				return sales.ErrNumberTaken
			}
		}
		return shared.ErrAlreadyExists
	}
	return err
}

// notFound maps gorm's missing-record error to shared.ErrNotFound
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}
