package persistence

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bizledger/backend/internal/domain/sales"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTranslateWriteError(t *testing.T) {
	boom := errors.New("connection reset")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"invoice number index", &pgconn.PgError{Code: "23505", ConstraintName: models.InvoiceNumberIndex}, sales.ErrNumberTaken},
		{"receipt number index", &pgconn.PgError{Code: "23505", ConstraintName: models.SalesReceiptNumberIndex}, sales.ErrNumberTaken},
		{"expense number index", &pgconn.PgError{Code: "23505", ConstraintName: models.ExpenseNumberIndex}, sales.ErrNumberTaken},
		{"wrapped pg error", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: models.InvoiceNumberIndex}), sales.ErrNumberTaken},
		{"other unique index", &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"}, shared.ErrAlreadyExists},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, shared.ErrAlreadyExists},
		{"sqlite number", errors.New("UNIQUE constraint failed: invoices.company_id, invoices.invoice_number"), sales.ErrNumberTaken},
		{"sqlite email", errors.New("UNIQUE constraint failed: users.email"), shared.ErrAlreadyExists},
		{"other error", boom, boom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateWriteError(tt.err)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}

	t.Run("foreign key violation passes through", func(t *testing.T) {
		fk := &pgconn.PgError{Code: "23503", ConstraintName: "fk_invoices_customer"}
		assert.Same(t, fk, translateWriteError(fk))
	})
}

func TestNotFound(t *testing.T) {
	assert.ErrorIs(t, notFound(gorm.ErrRecordNotFound), shared.ErrNotFound)
	assert.ErrorIs(t, notFound(fmt.Errorf("first: %w", gorm.ErrRecordNotFound)), shared.ErrNotFound)
	assert.Equal(t, assert.AnError, notFound(assert.AnError))
}

func TestGormInvoiceRepository_CreateNumberTakenOnPostgres(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	mock.ExpectQuery(`INSERT INTO "invoices"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: models.InvoiceNumberIndex})

	now := time.Now()
	inv := newTestInvoice(t, uuid.New(), "INV-00001", "10", now, now)
	err := NewGormInvoiceRepository(db.DB).Create(context.Background(), inv)
	require.Error(t, err)
	assert.ErrorIs(t, err, sales.ErrNumberTaken)
}
