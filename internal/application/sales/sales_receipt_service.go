package sales

import (
	"context"
	"errors"
	"time"

	"github.com/bizledger/backend/internal/domain/catalog"
	"github.com/bizledger/backend/internal/domain/company"
	"github.com/bizledger/backend/internal/domain/partner"
	"github.com/bizledger/backend/internal/domain/sales"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/infrastructure/logger"
	"github.com/bizledger/backend/internal/infrastructure/printing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SalesReceiptService records paid-in-full sales and keeps stock on hand in step
type SalesReceiptService struct {
	receiptRepo  sales.SalesReceiptRepository
	customerRepo partner.CustomerRepository
	itemRepo     catalog.ItemRepository
	companyRepo  company.Repository
	txScope      TransactionScope
	numbers      *NumberAllocator
	publisher    shared.EventPublisher
	printer      printing.Printer
	reports      ReportInvalidator
	logger       *zap.Logger
	now          func() time.Time
}

// NewSalesReceiptService creates a new SalesReceiptService
func NewSalesReceiptService(
	receiptRepo sales.SalesReceiptRepository,
	customerRepo partner.CustomerRepository,
	itemRepo catalog.ItemRepository,
	companyRepo company.Repository,
	txScope TransactionScope,
	numbers *NumberAllocator,
	logger *zap.Logger,
) *SalesReceiptService {
	return &SalesReceiptService{
		receiptRepo:  receiptRepo,
		customerRepo: customerRepo,
		itemRepo:     itemRepo,
		companyRepo:  companyRepo,
		txScope:      txScope,
		numbers:      numbers,
		printer:      printing.Disabled{},
		logger:       logger,
		now:          time.Now,
	}
}

// SetEventPublisher sets the publisher for receipt events
func (s *SalesReceiptService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// SetPrinter sets the PDF printer
func (s *SalesReceiptService) SetPrinter(printer printing.Printer) {
	s.printer = printer
}

// SetReportInvalidator sets the report cache invalidator
func (s *SalesReceiptService) SetReportInvalidator(reports ReportInvalidator) {
	s.reports = reports
}

// Create records a sale and removes the sold quantities of tracked items from stock.
// The receipt and the stock movement commit together.
func (s *SalesReceiptService) Create(ctx context.Context, companyID, createdBy uuid.UUID, req CreateSalesReceiptRequest) (*SalesReceiptResponse, error) {
	if req.SalesReceiptNumber != "" {
		if err := sales.ValidateNumber("sales_receipt_number", req.SalesReceiptNumber); err != nil {
			return nil, err
		}
	}

	co, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	customerName := req.CustomerName
	if req.CustomerID != nil {
		customer, err := s.customerRepo.FindByIDForCompany(ctx, companyID, *req.CustomerID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewValidationError("customer_id", "customer not found")
			}
			return nil, err
		}
		if customerName == "" {
			customerName = customer.DisplayName()
		}
	}
	lines, _, err := resolveLines(ctx, s.itemRepo, companyID, req.Items)
	if err != nil {
		return nil, err
	}

	now := s.now()
	receiptDate := now
	if req.ReceiptDate != nil {
		receiptDate = *req.ReceiptDate
	}
	receipt, err := sales.NewSalesReceipt(companyID, createdBy, req.SalesReceiptNumber, sales.SalesReceiptDetails{
		CustomerID:      req.CustomerID,
		CustomerName:    customerName,
		ReceiptDate:     receiptDate,
		Items:           lines,
		Discount:        req.Discount,
		ShippingCharges: req.ShippingCharges,
		PaymentMethod:   sales.PaymentMethod(req.PaymentMethod),
		Reference:       req.Reference,
		Notes:           req.Notes,
	}, now)
	if err != nil {
		return nil, err
	}

	quantities := receipt.Items.Quantities()
	_, err = s.numbers.Allocate(ctx, companyID, co.ReceiptPrefix, req.SalesReceiptNumber, s.receiptRepo.MaxSequence,
		func(number string) error {
			receipt.SetNumber(number)
			return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
				if err := repos.SalesReceiptRepo().Create(ctx, receipt); err != nil {
					return err
				}
				return moveStock(ctx, repos.ItemRepo(), companyID, quantities, removeStock)
			})
		})
	if err != nil {
		return nil, err
	}

	if err := shared.PublishPending(ctx, s.publisher, receipt); err != nil {
		s.log(ctx).Error("Failed to publish sales receipt events",
			zap.String("sales_receipt_id", receipt.ID.String()),
			zap.Error(err))
	}
	s.invalidateReports(ctx, companyID)

	resp := ToSalesReceiptResponse(receipt)
	return &resp, nil
}

// GetByID retrieves a sales receipt by ID
func (s *SalesReceiptService) GetByID(ctx context.Context, companyID, id uuid.UUID) (*SalesReceiptResponse, error) {
	receipt, err := s.receiptRepo.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	resp := ToSalesReceiptResponse(receipt)
	return &resp, nil
}

// List retrieves a page of sales receipts
func (s *SalesReceiptService) List(ctx context.Context, companyID uuid.UUID, filter SalesReceiptListFilter) ([]SalesReceiptResponse, int64, error) {
	domainFilter := sales.SalesReceiptFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		},
		Dates: shared.DateRange{From: filter.From, To: filter.To},
	}
	if filter.CustomerID != "" {
		id, err := uuid.Parse(filter.CustomerID)
		if err != nil {
			return nil, 0, shared.NewValidationError("customer_id", "must be a valid UUID")
		}
		domainFilter.CustomerID = &id
	}

	receipts, total, err := s.receiptRepo.FindAllForCompany(ctx, companyID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToSalesReceiptResponses(receipts), total, nil
}

// UpdateNotes changes the notes of a recorded sale
func (s *SalesReceiptService) UpdateNotes(ctx context.Context, companyID, updatedBy, id uuid.UUID, req UpdateSalesReceiptRequest) (*SalesReceiptResponse, error) {
	receipt, err := s.receiptRepo.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	receipt.UpdateNotes(req.Notes, updatedBy, s.now())
	if err := s.receiptRepo.Save(ctx, receipt); err != nil {
		return nil, err
	}
	resp := ToSalesReceiptResponse(receipt)
	return &resp, nil
}

// Delete removes a sales receipt and returns its quantities to stock
func (s *SalesReceiptService) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	receipt, err := s.receiptRepo.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return err
	}
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.SalesReceiptRepo().DeleteForCompany(ctx, companyID, id); err != nil {
			return err
		}
		return moveStock(ctx, repos.ItemRepo(), companyID, receipt.Items.Quantities(), returnStock)
	})
	if err != nil {
		return err
	}

	s.log(ctx).Info("Sales receipt deleted",
		zap.String("sales_receipt_id", id.String()),
		zap.String("number", receipt.SalesReceiptNumber))
	s.invalidateReports(ctx, companyID)
	return nil
}

// RenderPDF prints a sales receipt
func (s *SalesReceiptService) RenderPDF(ctx context.Context, companyID, id uuid.UUID) ([]byte, string, error) {
	receipt, err := s.receiptRepo.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, "", err
	}
	co, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return nil, "", err
	}
	var customer *partner.Customer
	if receipt.CustomerID != nil {
		customer, err = s.customerRepo.FindByIDForCompany(ctx, companyID, *receipt.CustomerID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, "", err
		}
	}

	pdf, err := s.printer.RenderSalesReceipt(ctx, printing.SalesReceiptDocument{Company: co, Customer: customer, Receipt: receipt})
	if err != nil {
		return nil, "", err
	}
	return pdf, receipt.SalesReceiptNumber + ".pdf", nil
}

func (s *SalesReceiptService) invalidateReports(ctx context.Context, companyID uuid.UUID) {
	if s.reports != nil {
		s.reports.Invalidate(ctx, companyID)
	}
}

func (s *SalesReceiptService) log(ctx context.Context) *zap.Logger {
	l, _ := logger.FromContextOr(ctx, s.logger)
	return l
}

type stockMove int

const (
	removeStock stockMove = iota
	returnStock
)

// moveStock applies a sale or its reversal to the tracked items among quantities.
// Items deleted since the sale are skipped on return.
func moveStock(ctx context.Context, itemRepo catalog.ItemRepository, companyID uuid.UUID, quantities map[uuid.UUID]decimal.Decimal, move stockMove) error {
	ids := make([]uuid.UUID, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}
	items, err := itemRepo.FindByIDs(ctx, companyID, ids)
	if err != nil {
		return err
	}

	changed := make([]*catalog.Item, 0, len(items))
	for i := range items {
		item := &items[i]
		if !item.TrackInventory {
			continue
		}
		qty := quantities[item.ID]
		switch move {
		case removeStock:
			if err := item.RemoveStock(qty); err != nil {
				return err
			}
		case returnStock:
			item.ReturnStock(qty)
		}
		changed = append(changed, item)
	}
	if move == removeStock && len(items) < len(ids) {
		return shared.NewDomainError("NOT_FOUND", "An item on the receipt no longer exists")
	}
	return itemRepo.SaveAll(ctx, changed)
}
