package persistence

import (
	"context"

	"github.com/bizledger/backend/internal/domain/finance"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/infrastructure/persistence/models"
	"github.com/bizledger/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormExpenseRepository implements finance.ExpenseRepository using GORM
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

func (r *GormExpenseRepository) scoped(ctx context.Context, companyID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.ExpenseModel{}).Scopes(tenant.Scope(companyID))
}

// FindByIDForCompany finds an expense by ID within a company
func (r *GormExpenseRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*finance.Expense, error) {
	var model models.ExpenseModel
	if err := r.scoped(ctx, companyID).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAllForCompany lists expenses, searching number, vendor and description
func (r *GormExpenseRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter finance.ExpenseFilter) ([]finance.Expense, int64, error) {
	filter.Normalize()
	query := r.scoped(ctx, companyID)
	if filter.Search != "" {
		p := searchPattern(filter.Search)
		query = query.Where(
			"(LOWER(expense_number) LIKE ? ESCAPE '\\' OR LOWER(vendor_name) LIKE ? ESCAPE '\\' OR LOWER(description) LIKE ? ESCAPE '\\')",
			p, p, p)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	query = applyDateRange(query, "expense_date", filter.Dates)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var expenseModels []models.ExpenseModel
	if err := paginate(query, filter.Filter, ExpenseSortFields, "expense_date").Find(&expenseModels).Error; err != nil {
		return nil, 0, err
	}
	expenses := make([]finance.Expense, len(expenseModels))
	for i := range expenseModels {
		expenses[i] = *expenseModels[i].ToDomain()
	}
	return expenses, total, nil
}

type categoryTotalRow struct {
	Category string
	Total    decimal.Decimal
	Count    int64
}

// TotalsByCategory sums gross spend (amount plus tax) per category, largest first
func (r *GormExpenseRepository) TotalsByCategory(ctx context.Context, companyID uuid.UUID, dates shared.DateRange) ([]finance.CategoryTotal, error) {
	var rows []categoryTotalRow
	if err := applyDateRange(r.scoped(ctx, companyID), "expense_date", dates).
		Select("category, SUM(amount + tax_amount) AS total, COUNT(*) AS count").
		Group("category").
		Order("total DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	totals := make([]finance.CategoryTotal, len(rows))
	for i, row := range rows {
		totals[i] = finance.CategoryTotal{
			Category: finance.ExpenseCategory(row.Category),
			Total:    row.Total.Round(2),
			Count:    row.Count,
		}
	}
	return totals, nil
}

// MaxSequence returns the highest sequence issued under prefix, 0 when none
func (r *GormExpenseRepository) MaxSequence(ctx context.Context, companyID uuid.UUID, prefix string) (int64, error) {
	return maxSequence(ctx, r.db, &models.ExpenseModel{}, "expense_number", companyID, prefix)
}

// Create inserts an expense, returning sales.ErrNumberTaken on a duplicate number
func (r *GormExpenseRepository) Create(ctx context.Context, e *finance.Expense) error {
	return translateWriteError(r.db.WithContext(ctx).Create(models.ExpenseModelFromDomain(e)).Error)
}

// Save updates an expense
func (r *GormExpenseRepository) Save(ctx context.Context, e *finance.Expense) error {
	return saveScoped(ctx, r.db, e.CompanyID, e.ID, e.Version, true, models.ExpenseModelFromDomain(e))
}

// DeleteForCompany deletes an expense within a company
func (r *GormExpenseRepository) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	return deleteScoped(ctx, r.db, companyID, id, &models.ExpenseModel{})
}
