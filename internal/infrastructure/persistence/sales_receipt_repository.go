package persistence

import (
	"context"

	"github.com/bizledger/backend/internal/domain/sales"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/infrastructure/persistence/models"
	"github.com/bizledger/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSalesReceiptRepository implements sales.SalesReceiptRepository using GORM
type GormSalesReceiptRepository struct {
	db *gorm.DB
}

// NewGormSalesReceiptRepository creates a new GormSalesReceiptRepository
func NewGormSalesReceiptRepository(db *gorm.DB) *GormSalesReceiptRepository {
	return &GormSalesReceiptRepository{db: db}
}

func (r *GormSalesReceiptRepository) scoped(ctx context.Context, companyID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.SalesReceiptModel{}).Scopes(tenant.Scope(companyID))
}

// FindByIDForCompany finds a sales receipt by ID within a company
func (r *GormSalesReceiptRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*sales.SalesReceipt, error) {
	var model models.SalesReceiptModel
	if err := r.scoped(ctx, companyID).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAllForCompany lists sales receipts, searching number and customer name
func (r *GormSalesReceiptRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter sales.SalesReceiptFilter) ([]sales.SalesReceipt, int64, error) {
	filter.Normalize()
	query := r.scoped(ctx, companyID)
	if filter.Search != "" {
		p := searchPattern(filter.Search)
		query = query.Where("(LOWER(sales_receipt_number) LIKE ? ESCAPE '\\' OR LOWER(customer_name) LIKE ? ESCAPE '\\')", p, p)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	query = applyDateRange(query, "receipt_date", filter.Dates)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var receiptModels []models.SalesReceiptModel
	if err := paginate(query, filter.Filter, SalesReceiptSortFields, "receipt_date").Find(&receiptModels).Error; err != nil {
		return nil, 0, err
	}
	return receiptsToDomain(receiptModels), total, nil
}

// FindInRange returns receipts dated inside dates
func (r *GormSalesReceiptRepository) FindInRange(ctx context.Context, companyID uuid.UUID, dates shared.DateRange) ([]sales.SalesReceipt, error) {
	var receiptModels []models.SalesReceiptModel
	if err := applyDateRange(r.scoped(ctx, companyID), "receipt_date", dates).
		Order("receipt_date ASC").
		Find(&receiptModels).Error; err != nil {
		return nil, err
	}
	return receiptsToDomain(receiptModels), nil
}

// MaxSequence returns the highest sequence issued under prefix, 0 when none
func (r *GormSalesReceiptRepository) MaxSequence(ctx context.Context, companyID uuid.UUID, prefix string) (int64, error) {
	return maxSequence(ctx, r.db, &models.SalesReceiptModel{}, "sales_receipt_number", companyID, prefix)
}

// Create inserts a receipt, returning sales.ErrNumberTaken on a duplicate number
func (r *GormSalesReceiptRepository) Create(ctx context.Context, receipt *sales.SalesReceipt) error {
	return translateWriteError(r.db.WithContext(ctx).Create(models.SalesReceiptModelFromDomain(receipt)).Error)
}

// Save updates a receipt
func (r *GormSalesReceiptRepository) Save(ctx context.Context, receipt *sales.SalesReceipt) error {
	return saveScoped(ctx, r.db, receipt.CompanyID, receipt.ID, receipt.Version, true, models.SalesReceiptModelFromDomain(receipt))
}

// DeleteForCompany deletes a receipt within a company
func (r *GormSalesReceiptRepository) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	return deleteScoped(ctx, r.db, companyID, id, &models.SalesReceiptModel{})
}

func receiptsToDomain(ms []models.SalesReceiptModel) []sales.SalesReceipt {
	receipts := make([]sales.SalesReceipt, len(ms))
	for i := range ms {
		receipts[i] = *ms[i].ToDomain()
	}
	return receipts
}
