package sales

import (
	"context"
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceFilter narrows invoice listings
type InvoiceFilter struct {
	shared.Filter
	Status     *InvoiceStatus
	CustomerID *uuid.UUID
	Dates      shared.DateRange
}

// InvoiceRepository persists invoices. Create returns ErrNumberTaken when the
// number already exists in the company.
type InvoiceRepository interface {
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*Invoice, error)
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter InvoiceFilter) ([]Invoice, int64, error)
	// FindOverdueCandidates returns unpaid, non-terminal invoices due before asOf whose stored status is not overdue.
	FindOverdueCandidates(ctx context.Context, companyID uuid.UUID, asOf time.Time, limit int) ([]Invoice, error)
	FindOpenForCompany(ctx context.Context, companyID uuid.UUID) ([]Invoice, error)
	// FindInRange returns non-cancelled invoices whose invoice date falls in dates.
	FindInRange(ctx context.Context, companyID uuid.UUID, dates shared.DateRange) ([]Invoice, error)
	// FindWithPaymentsSince returns invoices holding payments that may be dated on or after since.
	FindWithPaymentsSince(ctx context.Context, companyID uuid.UUID, since time.Time) ([]Invoice, error)
	MaxSequence(ctx context.Context, companyID uuid.UUID, prefix string) (int64, error)
	Create(ctx context.Context, inv *Invoice) error
	Save(ctx context.Context, inv *Invoice) error
	DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error
	CountByCustomer(ctx context.Context, companyID, customerID uuid.UUID) (int64, error)
}

// SalesReceiptFilter narrows sales receipt listings
type SalesReceiptFilter struct {
	shared.Filter
	CustomerID *uuid.UUID
	Dates      shared.DateRange
}

// SalesReceiptRepository persists sales receipts. Create returns ErrNumberTaken on a duplicate number.
type SalesReceiptRepository interface {
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*SalesReceipt, error)
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter SalesReceiptFilter) ([]SalesReceipt, int64, error)
	FindInRange(ctx context.Context, companyID uuid.UUID, dates shared.DateRange) ([]SalesReceipt, error)
	MaxSequence(ctx context.Context, companyID uuid.UUID, prefix string) (int64, error)
	Create(ctx context.Context, r *SalesReceipt) error
	Save(ctx context.Context, r *SalesReceipt) error
	DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error
}
