package finance

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	appsales "github.com/bizledger/backend/internal/application/sales"
	"github.com/bizledger/backend/internal/domain/finance"
	"github.com/bizledger/backend/internal/domain/sales"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/infrastructure/logger"
	"github.com/bizledger/backend/internal/infrastructure/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AllowedReceiptContentTypes lists the files accepted as expense receipts
var AllowedReceiptContentTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"image/heic":      true,
}

// ErrNoReceipt is returned when asking for the receipt of an expense without one
var ErrNoReceipt = shared.NewDomainError("NOT_FOUND", "No receipt is attached to this expense")

// ExpenseService records company spending and its scanned receipts
type ExpenseService struct {
	expenseRepo finance.ExpenseRepository
	numbers     *appsales.NumberAllocator
	storage     storage.ObjectStorage
	presignTTL  time.Duration
	reports     appsales.ReportInvalidator
	logger      *zap.Logger
	now         func() time.Time
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(
	expenseRepo finance.ExpenseRepository,
	numbers *appsales.NumberAllocator,
	objectStorage storage.ObjectStorage,
	presignTTL time.Duration,
	logger *zap.Logger,
) *ExpenseService {
	if objectStorage == nil {
		objectStorage = storage.Disabled{}
	}
	return &ExpenseService{
		expenseRepo: expenseRepo,
		numbers:     numbers,
		storage:     objectStorage,
		presignTTL:  presignTTL,
		logger:      logger,
		now:         time.Now,
	}
}

// SetReportInvalidator sets the report cache invalidator
func (s *ExpenseService) SetReportInvalidator(reports appsales.ReportInvalidator) {
	s.reports = reports
}

// Create records an expense under the next EXP- number unless the request names one
func (s *ExpenseService) Create(ctx context.Context, companyID, createdBy uuid.UUID, req CreateExpenseRequest) (*ExpenseResponse, error) {
	if req.ExpenseNumber != "" {
		if err := sales.ValidateNumber("expense_number", req.ExpenseNumber); err != nil {
			return nil, err
		}
	}

	now := s.now()
	date := now
	if req.ExpenseDate != nil {
		date = *req.ExpenseDate
	}
	expense, err := finance.NewExpense(companyID, createdBy, req.ExpenseNumber, finance.ExpenseDetails{
		Category:      finance.ExpenseCategory(req.Category),
		VendorName:    req.VendorName,
		Description:   req.Description,
		Amount:        req.Amount,
		TaxAmount:     req.TaxAmount,
		ExpenseDate:   date,
		PaymentMethod: sales.PaymentMethod(req.PaymentMethod),
		Reference:     req.Reference,
	}, now)
	if err != nil {
		return nil, err
	}

	_, err = s.numbers.Allocate(ctx, companyID, finance.DefaultExpensePrefix, req.ExpenseNumber, s.expenseRepo.MaxSequence,
		func(number string) error {
			expense.ExpenseNumber = number
			return s.expenseRepo.Create(ctx, expense)
		})
	if err != nil {
		return nil, err
	}

	s.invalidateReports(ctx, companyID)
	resp := ToExpenseResponse(expense)
	return &resp, nil
}

// GetByID retrieves an expense by ID
func (s *ExpenseService) GetByID(ctx context.Context, companyID, id uuid.UUID) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	resp := ToExpenseResponse(expense)
	return &resp, nil
}

// List retrieves a page of expenses
func (s *ExpenseService) List(ctx context.Context, companyID uuid.UUID, filter ExpenseListFilter) ([]ExpenseResponse, int64, error) {
	domainFilter := finance.ExpenseFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		},
		Dates: shared.DateRange{From: filter.From, To: filter.To},
	}
	if filter.Category != "" {
		category := finance.ExpenseCategory(filter.Category)
		if !category.IsValid() {
			return nil, 0, shared.NewValidationError("category", "is not a known expense category")
		}
		domainFilter.Category = &category
	}

	expenses, total, err := s.expenseRepo.FindAllForCompany(ctx, companyID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToExpenseResponses(expenses), total, nil
}

// Update applies a partial update
func (s *ExpenseService) Update(ctx context.Context, companyID, updatedBy, id uuid.UUID, req UpdateExpenseRequest) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	d := finance.ExpenseDetails{
		Category:      expense.Category,
		VendorName:    expense.VendorName,
		Description:   expense.Description,
		Amount:        expense.Amount,
		TaxAmount:     expense.TaxAmount,
		ExpenseDate:   expense.ExpenseDate,
		PaymentMethod: expense.PaymentMethod,
		Reference:     expense.Reference,
	}
	if req.Category != nil {
		d.Category = finance.ExpenseCategory(*req.Category)
	}
	if req.VendorName != nil {
		d.VendorName = *req.VendorName
	}
	if req.Description != nil {
		d.Description = *req.Description
	}
	if req.Amount != nil {
		d.Amount = *req.Amount
	}
	if req.TaxAmount != nil {
		d.TaxAmount = *req.TaxAmount
	}
	if req.ExpenseDate != nil {
		d.ExpenseDate = *req.ExpenseDate
	}
	if req.PaymentMethod != nil {
		d.PaymentMethod = sales.PaymentMethod(*req.PaymentMethod)
	}
	if req.Reference != nil {
		d.Reference = *req.Reference
	}

	if err := expense.Update(d, updatedBy, s.now()); err != nil {
		return nil, err
	}
	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}
	s.invalidateReports(ctx, companyID)
	resp := ToExpenseResponse(expense)
	return &resp, nil
}

// Delete removes an expense. The stored receipt file is removed on a best-effort basis.
func (s *ExpenseService) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	expense, err := s.expenseRepo.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return err
	}
	if err := s.expenseRepo.DeleteForCompany(ctx, companyID, id); err != nil {
		return err
	}
	if expense.HasReceipt() {
		if err := s.storage.DeleteObject(ctx, expense.ReceiptKey); err != nil && !storage.IsDisabled(err) {
			s.log(ctx).Warn("Failed to delete expense receipt object",
				zap.String("expense_id", id.String()),
				zap.String("storage_key", expense.ReceiptKey),
				zap.Error(err))
		}
	}
	s.invalidateReports(ctx, companyID)
	return nil
}

// CreateReceiptUploadURL issues a presigned upload URL and records the key on the expense.
// A previously attached receipt is replaced.
func (s *ExpenseService) CreateReceiptUploadURL(ctx context.Context, companyID, id uuid.UUID, req ReceiptUploadRequest) (*ReceiptUploadResponse, error) {
	contentType := strings.ToLower(strings.TrimSpace(req.ContentType))
	if !AllowedReceiptContentTypes[contentType] {
		return nil, shared.NewValidationError("content_type", "must be a PDF or an image")
	}
	expense, err := s.expenseRepo.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	key := receiptKey(companyID, id, req.FileName)
	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, contentType, s.presignTTL)
	if storage.IsDisabled(err) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("presign receipt upload: %w", err)
	}

	previous := expense.ReceiptKey
	expense.AttachReceipt(key, s.now())
	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}
	if previous != "" && previous != key {
		if err := s.storage.DeleteObject(ctx, previous); err != nil {
			s.log(ctx).Warn("Failed to delete replaced receipt object",
				zap.String("storage_key", previous),
				zap.Error(err))
		}
	}

	return &ReceiptUploadResponse{UploadURL: url, StorageKey: key, ExpiresAt: expiresAt}, nil
}

// GetReceiptURL issues a presigned download URL for the attached receipt
func (s *ExpenseService) GetReceiptURL(ctx context.Context, companyID, id uuid.UUID) (*ReceiptURLResponse, error) {
	expense, err := s.expenseRepo.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if !expense.HasReceipt() {
		return nil, ErrNoReceipt
	}

	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, expense.ReceiptKey, s.presignTTL)
	if storage.IsDisabled(err) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("presign receipt download: %w", err)
	}
	return &ReceiptURLResponse{URL: url, ExpiresAt: expiresAt}, nil
}

func (s *ExpenseService) invalidateReports(ctx context.Context, companyID uuid.UUID) {
	if s.reports != nil {
		s.reports.Invalidate(ctx, companyID)
	}
}

func (s *ExpenseService) log(ctx context.Context) *zap.Logger {
	l, _ := logger.FromContextOr(ctx, s.logger)
	return l
}

// receiptKey builds companies/{companyID}/expenses/{expenseID}/{uuid}{ext}
func receiptKey(companyID, expenseID uuid.UUID, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("companies/%s/expenses/%s/%s%s", companyID, expenseID, uuid.New(), ext)
}
