package finance

import (
	"context"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseFilter narrows expense listings
type ExpenseFilter struct {
	shared.Filter
	Category *ExpenseCategory
	Dates    shared.DateRange
}

// CategoryTotal is the summed spend of one category
type CategoryTotal struct {
	Category ExpenseCategory
	Total    decimal.Decimal
	Count    int64
}

// ExpenseRepository persists expenses. Create returns sales.ErrNumberTaken on a duplicate number.
type ExpenseRepository interface {
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*Expense, error)
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter ExpenseFilter) ([]Expense, int64, error)
	TotalsByCategory(ctx context.Context, companyID uuid.UUID, dates shared.DateRange) ([]CategoryTotal, error)
	MaxSequence(ctx context.Context, companyID uuid.UUID, prefix string) (int64, error)
	Create(ctx context.Context, e *Expense) error
	Save(ctx context.Context, e *Expense) error
	DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error
}
