package persistence

import (
	"context"
	"strings"

	"github.com/bizledger/backend/internal/domain/catalog"
	"github.com/bizledger/backend/internal/infrastructure/persistence/models"
	"github.com/bizledger/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormItemRepository implements catalog.ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// FindByIDForCompany finds an item by ID within a company
func (r *GormItemRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*catalog.Item, error) {
	var model models.ItemModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs finds the company's items among ids
func (r *GormItemRepository) FindByIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]catalog.Item, error) {
	if len(ids) == 0 {
		return []catalog.Item{}, nil
	}
	var itemModels []models.ItemModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("id IN ?", ids).
		Find(&itemModels).Error; err != nil {
		return nil, err
	}
	return itemsToDomain(itemModels), nil
}

// FindAllForCompany lists items, searching name, SKU and description
func (r *GormItemRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter catalog.ItemFilter) ([]catalog.Item, int64, error) {
	filter.Normalize()
	query := r.db.WithContext(ctx).Model(&models.ItemModel{}).Scopes(tenant.Scope(companyID))
	if filter.Search != "" {
		p := searchPattern(filter.Search)
		query = query.Where(
			"(LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(sku) LIKE ? ESCAPE '\\' OR LOWER(description) LIKE ? ESCAPE '\\')",
			p, p, p)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Active != nil {
		query = query.Where("is_active = ?", *filter.Active)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var itemModels []models.ItemModel
	if err := paginate(query, filter.Filter, ItemSortFields, "name").Find(&itemModels).Error; err != nil {
		return nil, 0, err
	}
	return itemsToDomain(itemModels), total, nil
}

// ExistsBySKU reports whether another item of the company uses sku
func (r *GormItemRepository) ExistsBySKU(ctx context.Context, companyID uuid.UUID, sku string, excludeID *uuid.UUID) (bool, error) {
	sku = strings.ToUpper(strings.TrimSpace(sku))
	if sku == "" {
		return false, nil
	}
	query := r.db.WithContext(ctx).Model(&models.ItemModel{}).
		Scopes(tenant.Scope(companyID)).
		Where("sku = ?", sku)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an item. Updates are version checked because stock
// movements from concurrent sales land on the same row.
func (r *GormItemRepository) Save(ctx context.Context, item *catalog.Item) error {
	return saveScoped(ctx, r.db, item.CompanyID, item.ID, item.Version, true, models.ItemModelFromDomain(item))
}

// SaveAll saves items in one transaction; any conflict rolls the batch back
func (r *GormItemRepository) SaveAll(ctx context.Context, items []*catalog.Item) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			if err := saveScoped(ctx, tx, item.CompanyID, item.ID, item.Version, true, models.ItemModelFromDomain(item)); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteForCompany deletes an item within a company
func (r *GormItemRepository) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	return deleteScoped(ctx, r.db, companyID, id, &models.ItemModel{})
}

func itemsToDomain(ms []models.ItemModel) []catalog.Item {
	items := make([]catalog.Item, len(ms))
	for i := range ms {
		items[i] = *ms[i].ToDomain()
	}
	return items
}
