package catalog

import (
	"context"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ItemFilter narrows item listings
type ItemFilter struct {
	shared.Filter
	Type   *ItemType
	Active *bool
}

// ItemRepository persists catalog items
type ItemRepository interface {
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*Item, error)
	FindByIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]Item, error)
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter ItemFilter) ([]Item, int64, error)
	ExistsBySKU(ctx context.Context, companyID uuid.UUID, sku string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, item *Item) error
	SaveAll(ctx context.Context, items []*Item) error
	DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error
}
