package persistence

import (
	"context"
	"time"

	"github.com/bizledger/backend/internal/domain/sales"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/infrastructure/persistence/models"
	"github.com/bizledger/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements sales.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

func (r *GormInvoiceRepository) scoped(ctx context.Context, companyID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Scopes(tenant.Scope(companyID))
}

// FindByIDForCompany finds an invoice by ID within a company
func (r *GormInvoiceRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*sales.Invoice, error) {
	var model models.InvoiceModel
	if err := r.scoped(ctx, companyID).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAllForCompany lists invoices, searching number and customer name
func (r *GormInvoiceRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter sales.InvoiceFilter) ([]sales.Invoice, int64, error) {
	filter.Normalize()
	query := r.scoped(ctx, companyID)
	if filter.Search != "" {
		p := searchPattern(filter.Search)
		query = query.Where("(LOWER(invoice_number) LIKE ? ESCAPE '\\' OR LOWER(customer_name) LIKE ? ESCAPE '\\')", p, p)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	query = applyDateRange(query, "invoice_date", filter.Dates)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var invoiceModels []models.InvoiceModel
	if err := paginate(query, filter.Filter, InvoiceSortFields, "invoice_date").Find(&invoiceModels).Error; err != nil {
		return nil, 0, err
	}
	return invoicesToDomain(invoiceModels), total, nil
}

// FindOverdueCandidates returns unpaid draft and sent invoices due before asOf,
// oldest due date first. Part-paid invoices stay partially_paid when late.
func (r *GormInvoiceRepository) FindOverdueCandidates(ctx context.Context, companyID uuid.UUID, asOf time.Time, limit int) ([]sales.Invoice, error) {
	if limit <= 0 {
		limit = 100
	}
	var invoiceModels []models.InvoiceModel
	if err := r.scoped(ctx, companyID).
		Where("status IN ?", []sales.InvoiceStatus{sales.InvoiceStatusDraft, sales.InvoiceStatusSent}).
		Where("amount_paid = 0").
		Where("due_date < ?", asOf).
		Order("due_date ASC").
		Limit(limit).
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return invoicesToDomain(invoiceModels), nil
}

// FindOpenForCompany returns invoices that still carry a balance
func (r *GormInvoiceRepository) FindOpenForCompany(ctx context.Context, companyID uuid.UUID) ([]sales.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	if err := r.scoped(ctx, companyID).
		Where("status NOT IN ?", []sales.InvoiceStatus{sales.InvoiceStatusPaid, sales.InvoiceStatusCancelled}).
		Where("balance_due > 0").
		Order("due_date ASC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return invoicesToDomain(invoiceModels), nil
}

// FindInRange returns non-cancelled invoices dated inside dates
func (r *GormInvoiceRepository) FindInRange(ctx context.Context, companyID uuid.UUID, dates shared.DateRange) ([]sales.Invoice, error) {
	query := r.scoped(ctx, companyID).Where("status <> ?", sales.InvoiceStatusCancelled)
	query = applyDateRange(query, "invoice_date", dates)

	var invoiceModels []models.InvoiceModel
	if err := query.Order("invoice_date ASC").Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return invoicesToDomain(invoiceModels), nil
}

// FindWithPaymentsSince returns invoices that took money and changed on or
// after since. A payment is recorded no earlier than its date, so every payment
// dated from since onward lives on one of these rows.
func (r *GormInvoiceRepository) FindWithPaymentsSince(ctx context.Context, companyID uuid.UUID, since time.Time) ([]sales.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	if err := r.scoped(ctx, companyID).
		Where("amount_paid > 0").
		Where("updated_at >= ?", since).
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return invoicesToDomain(invoiceModels), nil
}

// MaxSequence returns the highest sequence issued under prefix, 0 when none
func (r *GormInvoiceRepository) MaxSequence(ctx context.Context, companyID uuid.UUID, prefix string) (int64, error) {
	return maxSequence(ctx, r.db, &models.InvoiceModel{}, "invoice_number", companyID, prefix)
}

// Create inserts a new invoice, returning sales.ErrNumberTaken on a duplicate number
func (r *GormInvoiceRepository) Create(ctx context.Context, inv *sales.Invoice) error {
	return translateWriteError(r.db.WithContext(ctx).Create(models.InvoiceModelFromDomain(inv)).Error)
}

// Save updates an invoice, rejecting writes made from a stale copy
func (r *GormInvoiceRepository) Save(ctx context.Context, inv *sales.Invoice) error {
	return saveScoped(ctx, r.db, inv.CompanyID, inv.ID, inv.Version, true, models.InvoiceModelFromDomain(inv))
}

// DeleteForCompany deletes an invoice within a company
func (r *GormInvoiceRepository) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	return deleteScoped(ctx, r.db, companyID, id, &models.InvoiceModel{})
}

// CountByCustomer counts a customer's invoices
func (r *GormInvoiceRepository) CountByCustomer(ctx context.Context, companyID, customerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.scoped(ctx, companyID).Where("customer_id = ?", customerID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func invoicesToDomain(ms []models.InvoiceModel) []sales.Invoice {
	invoices := make([]sales.Invoice, len(ms))
	for i := range ms {
		invoices[i] = *ms[i].ToDomain()
	}
	return invoices
}
