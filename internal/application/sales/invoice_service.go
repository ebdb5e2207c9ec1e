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
	"go.uber.org/zap"
)

// ReportInvalidator drops cached reports of a company after a write
type ReportInvalidator interface {
	Invalidate(ctx context.Context, companyID uuid.UUID)
}

// ErrCustomerInactive is returned when billing a deactivated customer
var ErrCustomerInactive = shared.NewValidationError("customer_id", "customer is inactive")

// InvoiceService manages the invoice lifecycle.
//
// Every path that loads an invoice re-derives its status before using it, so
// a response never shows an invoice as sent once its due date has passed.
type InvoiceService struct {
	invoiceRepo  sales.InvoiceRepository
	customerRepo partner.CustomerRepository
	itemRepo     catalog.ItemRepository
	companyRepo  company.Repository
	numbers      *NumberAllocator
	publisher    shared.EventPublisher
	printer      printing.Printer
	reports      ReportInvalidator
	logger       *zap.Logger
	now          func() time.Time
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo sales.InvoiceRepository,
	customerRepo partner.CustomerRepository,
	itemRepo catalog.ItemRepository,
	companyRepo company.Repository,
	numbers *NumberAllocator,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		itemRepo:     itemRepo,
		companyRepo:  companyRepo,
		numbers:      numbers,
		printer:      printing.Disabled{},
		logger:       logger,
		now:          time.Now,
	}
}

// SetEventPublisher sets the publisher for invoice events
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// SetPrinter sets the PDF printer
func (s *InvoiceService) SetPrinter(printer printing.Printer) {
	s.printer = printer
}

// SetReportInvalidator sets the report cache invalidator
func (s *InvoiceService) SetReportInvalidator(reports ReportInvalidator) {
	s.reports = reports
}

// Create creates a draft invoice. The number is allocated from the company's
// invoice prefix unless the request names one.
func (s *InvoiceService) Create(ctx context.Context, companyID, createdBy uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	if req.InvoiceNumber != "" {
		if err := sales.ValidateNumber("invoice_number", req.InvoiceNumber); err != nil {
			return nil, err
		}
	}

	co, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	customer, err := s.activeCustomer(ctx, companyID, req.CustomerID)
	if err != nil {
		return nil, err
	}
	lines, _, err := resolveLines(ctx, s.itemRepo, companyID, req.Items)
	if err != nil {
		return nil, err
	}

	now := s.now()
	invoiceDate := now
	if req.InvoiceDate != nil {
		invoiceDate = *req.InvoiceDate
	}
	dueDate := co.DefaultDueDate(invoiceDate)
	if req.DueDate != nil {
		dueDate = *req.DueDate
	}

	inv, err := sales.NewInvoice(companyID, createdBy, req.InvoiceNumber, sales.InvoiceDetails{
		CustomerID:      customer.ID,
		CustomerName:    customer.DisplayName(),
		InvoiceDate:     invoiceDate,
		DueDate:         dueDate,
		Items:           lines,
		Discount:        req.Discount,
		ShippingCharges: req.ShippingCharges,
		Notes:           req.Notes,
		Terms:           req.Terms,
	}, now)
	if err != nil {
		return nil, err
	}

	_, err = s.numbers.Allocate(ctx, companyID, co.InvoicePrefix, req.InvoiceNumber, s.invoiceRepo.MaxSequence,
		func(number string) error {
			inv.SetNumber(number)
			return s.invoiceRepo.Create(ctx, inv)
		})
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, inv)
	resp := ToInvoiceResponse(inv, now)
	return &resp, nil
}

// GetByID retrieves an invoice with its status derived as of now
func (s *InvoiceService) GetByID(ctx context.Context, companyID, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.load(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv, s.now())
	return &resp, nil
}

// List retrieves a page of invoices. The status filter matches the stored
// status, which the overdue reconciler keeps current.
func (s *InvoiceService) List(ctx context.Context, companyID uuid.UUID, filter InvoiceListFilter) ([]InvoiceSummaryResponse, int64, error) {
	domainFilter := sales.InvoiceFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		},
		Dates: shared.DateRange{From: filter.From, To: filter.To},
	}
	if filter.Status != "" {
		status := sales.InvoiceStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewValidationError("status", "is not a valid invoice status")
		}
		domainFilter.Status = &status
	}
	if filter.CustomerID != "" {
		id, err := uuid.Parse(filter.CustomerID)
		if err != nil {
			return nil, 0, shared.NewValidationError("customer_id", "must be a valid UUID")
		}
		domainFilter.CustomerID = &id
	}

	invoices, total, err := s.invoiceRepo.FindAllForCompany(ctx, companyID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	now := s.now()
	for i := range invoices {
		invoices[i].Refresh(now)
		invoices[i].ClearDomainEvents()
	}
	return ToInvoiceSummaryResponses(invoices), total, nil
}

// Update edits a draft invoice
func (s *InvoiceService) Update(ctx context.Context, companyID, updatedBy, id uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	inv, err := s.load(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if !inv.IsEditable() {
		return nil, shared.NewDomainError("INVALID_STATE", "Only draft invoices can be edited")
	}

	d := sales.InvoiceDetails{
		CustomerID:      inv.CustomerID,
		CustomerName:    inv.CustomerName,
		InvoiceDate:     inv.InvoiceDate,
		DueDate:         inv.DueDate,
		Items:           inv.Items,
		Discount:        inv.Discount,
		ShippingCharges: inv.ShippingCharges,
		Notes:           inv.Notes,
		Terms:           inv.Terms,
	}
	if req.CustomerID != nil && *req.CustomerID != inv.CustomerID {
		customer, err := s.activeCustomer(ctx, companyID, *req.CustomerID)
		if err != nil {
			return nil, err
		}
		d.CustomerID = customer.ID
		d.CustomerName = customer.DisplayName()
	}
	if req.InvoiceDate != nil {
		d.InvoiceDate = *req.InvoiceDate
	}
	if req.DueDate != nil {
		d.DueDate = *req.DueDate
	}
	if req.Items != nil {
		lines, _, err := resolveLines(ctx, s.itemRepo, companyID, req.Items)
		if err != nil {
			return nil, err
		}
		d.Items = lines
	}
	if req.Discount != nil {
		d.Discount = *req.Discount
	}
	if req.ShippingCharges != nil {
		d.ShippingCharges = *req.ShippingCharges
	}
	if req.Notes != nil {
		d.Notes = *req.Notes
	}
	if req.Terms != nil {
		d.Terms = *req.Terms
	}

	now := s.now()
	if err := inv.UpdateDetails(d, updatedBy, now); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}
	s.afterWrite(ctx, inv)
	resp := ToInvoiceResponse(inv, now)
	return &resp, nil
}

// Send marks an invoice as sent to the customer
func (s *InvoiceService) Send(ctx context.Context, companyID, updatedBy, id uuid.UUID) (*InvoiceResponse, error) {
	return s.transition(ctx, companyID, id, func(inv *sales.Invoice, now time.Time) error {
		return inv.Send(updatedBy, now)
	})
}

// Cancel voids an invoice without payments
func (s *InvoiceService) Cancel(ctx context.Context, companyID, updatedBy, id uuid.UUID, req CancelInvoiceRequest) (*InvoiceResponse, error) {
	return s.transition(ctx, companyID, id, func(inv *sales.Invoice, now time.Time) error {
		return inv.Cancel(updatedBy, req.Reason, now)
	})
}

// RecordPayment applies a payment and returns the updated invoice
func (s *InvoiceService) RecordPayment(ctx context.Context, companyID, recordedBy, id uuid.UUID, req RecordPaymentRequest) (*InvoiceResponse, error) {
	return s.transition(ctx, companyID, id, func(inv *sales.Invoice, now time.Time) error {
		date := now
		if req.PaymentDate != nil {
			date = *req.PaymentDate
		}
		pay, err := inv.RecordPayment(sales.PaymentInput{
			Amount:    req.Amount,
			Date:      date,
			Method:    sales.PaymentMethod(req.PaymentMethod),
			Reference: req.Reference,
			Notes:     req.Notes,
		}, recordedBy, now)
		if err != nil {
			return err
		}
		s.log(ctx).Info("Payment recorded",
			zap.String("invoice_id", inv.ID.String()),
			zap.String("payment_id", pay.ID.String()),
			zap.String("amount", pay.Amount.StringFixed(2)),
			zap.String("status", inv.Status.String()))
		return nil
	})
}

// ListPayments returns the payment history of an invoice
func (s *InvoiceService) ListPayments(ctx context.Context, companyID, id uuid.UUID) ([]PaymentResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return ToPaymentResponses(inv.Payments), nil
}

// Delete removes a draft invoice or a cancelled one that never took a payment
func (s *InvoiceService) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	inv, err := s.load(ctx, companyID, id)
	if err != nil {
		return err
	}
	if !inv.CanDelete() {
		return shared.NewDomainError("INVALID_STATE", "Only draft or cancelled invoices can be deleted")
	}
	if err := s.invoiceRepo.DeleteForCompany(ctx, companyID, id); err != nil {
		return err
	}
	s.invalidateReports(ctx, companyID)
	return nil
}

// RenderPDF prints an invoice
func (s *InvoiceService) RenderPDF(ctx context.Context, companyID, id uuid.UUID) ([]byte, string, error) {
	inv, err := s.load(ctx, companyID, id)
	if err != nil {
		return nil, "", err
	}
	co, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return nil, "", err
	}
	customer, err := s.customerRepo.FindByIDForCompany(ctx, companyID, inv.CustomerID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, "", err
	}

	pdf, err := s.printer.RenderInvoice(ctx, printing.InvoiceDocument{Company: co, Customer: customer, Invoice: inv})
	if err != nil {
		return nil, "", err
	}
	return pdf, inv.InvoiceNumber + ".pdf", nil
}

// load fetches an invoice and derives its status in memory.
// Events raised by the derivation are dropped; the reconciler persists and announces them.
func (s *InvoiceService) load(ctx context.Context, companyID, id uuid.UUID) (*sales.Invoice, error) {
	inv, err := s.invoiceRepo.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	inv.Refresh(s.now())
	inv.ClearDomainEvents()
	return inv, nil
}

func (s *InvoiceService) transition(ctx context.Context, companyID, id uuid.UUID, op func(inv *sales.Invoice, now time.Time) error) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForCompany(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	inv.Refresh(now)
	if err := op(inv, now); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}
	s.afterWrite(ctx, inv)
	resp := ToInvoiceResponse(inv, now)
	return &resp, nil
}

func (s *InvoiceService) activeCustomer(ctx context.Context, companyID, customerID uuid.UUID) (*partner.Customer, error) {
	customer, err := s.customerRepo.FindByIDForCompany(ctx, companyID, customerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewValidationError("customer_id", "customer not found")
		}
		return nil, err
	}
	if !customer.Active {
		return nil, ErrCustomerInactive
	}
	return customer, nil
}

// afterWrite publishes pending events and drops cached reports.
// The write is already committed, so failures here are only logged.
func (s *InvoiceService) afterWrite(ctx context.Context, inv *sales.Invoice) {
	if err := shared.PublishPending(ctx, s.publisher, inv); err != nil {
		s.log(ctx).Error("Failed to publish invoice events",
			zap.String("invoice_id", inv.ID.String()),
			zap.Error(err))
	}
	s.invalidateReports(ctx, inv.CompanyID)
}

func (s *InvoiceService) invalidateReports(ctx context.Context, companyID uuid.UUID) {
	if s.reports != nil {
		s.reports.Invalidate(ctx, companyID)
	}
}

func (s *InvoiceService) log(ctx context.Context) *zap.Logger {
	l, _ := logger.FromContextOr(ctx, s.logger)
	return l
}
