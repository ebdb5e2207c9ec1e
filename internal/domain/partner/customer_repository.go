package partner

import (
	"context"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerFilter narrows customer listings
type CustomerFilter struct {
	shared.Filter
	Active *bool
}

// CustomerRepository persists customers
type CustomerRepository interface {
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*Customer, error)
	FindByIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]Customer, error)
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter CustomerFilter) ([]Customer, int64, error)
	Save(ctx context.Context, customer *Customer) error
	DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error
	// IsReferenced reports whether any invoice or sales receipt points at the customer
	IsReferenced(ctx context.Context, companyID, id uuid.UUID) (bool, error)
}
