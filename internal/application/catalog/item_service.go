package catalog

import (
	"context"
	"strings"

	"github.com/bizledger/backend/internal/domain/catalog"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemService manages the catalog of goods and services
type ItemService struct {
	itemRepo catalog.ItemRepository
}

// NewItemService creates a new ItemService
func NewItemService(itemRepo catalog.ItemRepository) *ItemService {
	return &ItemService{itemRepo: itemRepo}
}

// Create adds an item. A SKU, when given, must be unique within the company.
func (s *ItemService) Create(ctx context.Context, companyID, createdBy uuid.UUID, req CreateItemRequest) (*ItemResponse, error) {
	if err := s.ensureSKUFree(ctx, companyID, req.SKU, nil); err != nil {
		return nil, err
	}

	opening := decimal.Zero
	if req.QuantityOnHand != nil {
		opening = *req.QuantityOnHand
	}
	item, err := catalog.NewItem(companyID, catalog.ItemDetails{
		Name:           req.Name,
		SKU:            req.SKU,
		Description:    req.Description,
		Type:           catalog.ItemType(req.Type),
		Rate:           req.Rate,
		TaxRate:        req.TaxRate,
		Unit:           req.Unit,
		TrackInventory: req.TrackInventory,
	}, opening)
	if err != nil {
		return nil, err
	}
	item.CreatedBy = &createdBy
	item.SetUpdatedBy(createdBy)

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	resp := ToItemResponse(item)
	return &resp, nil
}

// GetByID retrieves an item by ID
func (s *ItemService) GetByID(ctx context.Context, companyID, id uuid.UUID) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	resp := ToItemResponse(item)
	return &resp, nil
}

// List retrieves a page of items
func (s *ItemService) List(ctx context.Context, companyID uuid.UUID, filter ItemListFilter) ([]ItemResponse, int64, error) {
	domainFilter := catalog.ItemFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		},
		Active: filter.Active,
	}
	if filter.Type != "" {
		t := catalog.ItemType(filter.Type)
		domainFilter.Type = &t
	}

	items, total, err := s.itemRepo.FindAllForCompany(ctx, companyID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToItemResponses(items), total, nil
}

// Update applies a partial update
func (s *ItemService) Update(ctx context.Context, companyID, updatedBy, id uuid.UUID, req UpdateItemRequest) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	d := catalog.ItemDetails{
		Name:           item.Name,
		SKU:            item.SKU,
		Description:    item.Description,
		Type:           item.Type,
		Rate:           item.Rate,
		TaxRate:        item.TaxRate,
		Unit:           item.Unit,
		TrackInventory: item.TrackInventory,
	}
	if req.Name != nil {
		d.Name = *req.Name
	}
	if req.SKU != nil {
		if err := s.ensureSKUFree(ctx, companyID, *req.SKU, &id); err != nil {
			return nil, err
		}
		d.SKU = *req.SKU
	}
	if req.Description != nil {
		d.Description = *req.Description
	}
	if req.Type != nil {
		d.Type = catalog.ItemType(*req.Type)
	}
	if req.Rate != nil {
		d.Rate = *req.Rate
	}
	if req.TaxRate != nil {
		d.TaxRate = *req.TaxRate
	}
	if req.Unit != nil {
		d.Unit = *req.Unit
	}
	if req.TrackInventory != nil {
		d.TrackInventory = *req.TrackInventory
	}
	if err := item.Update(d); err != nil {
		return nil, err
	}
	if req.IsActive != nil && *req.IsActive != item.Active {
		if *req.IsActive {
			item.Activate()
		} else {
			item.Deactivate()
		}
	}
	item.SetUpdatedBy(updatedBy)

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	resp := ToItemResponse(item)
	return &resp, nil
}

// Delete removes an item. Documents keep their own copy of the line description.
func (s *ItemService) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return s.itemRepo.DeleteForCompany(ctx, companyID, id)
}

func (s *ItemService) ensureSKUFree(ctx context.Context, companyID uuid.UUID, sku string, excludeID *uuid.UUID) error {
	sku = strings.ToUpper(strings.TrimSpace(sku))
	if sku == "" {
		return nil
	}
	taken, err := s.itemRepo.ExistsBySKU(ctx, companyID, sku, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return catalog.ErrSKUTaken
	}
	return nil
}
