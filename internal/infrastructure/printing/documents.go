package printing

import (
	"context"
	"time"

	"github.com/bizledger/backend/internal/domain/company"
	"github.com/bizledger/backend/internal/domain/partner"
	"github.com/bizledger/backend/internal/domain/sales"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ErrDisabled is returned when PDF printing is switched off
var ErrDisabled = shared.NewDomainError("INVALID_STATE", "PDF printing is not enabled")

// InvoiceDocument is everything printed on an invoice. Customer is optional and only
// adds the billing address.
type InvoiceDocument struct {
	Company  *company.Company
	Customer *partner.Customer
	Invoice  *sales.Invoice
}

// SalesReceiptDocument is everything printed on a sales receipt
type SalesReceiptDocument struct {
	Company  *company.Company
	Customer *partner.Customer
	Receipt  *sales.SalesReceipt
}

type documentView struct {
	Company     *company.Company
	Customer    *partner.Customer
	Invoice     *sales.Invoice
	Receipt     *sales.SalesReceipt
	Currency    string
	GeneratedAt time.Time
}

// DocumentPrinter renders business documents to PDF
type DocumentPrinter struct {
	engine   *TemplateEngine
	renderer PDFRenderer
	logger   *zap.Logger
}

// NewDocumentPrinter creates a printer from a template engine and a PDF renderer
func NewDocumentPrinter(engine *TemplateEngine, renderer PDFRenderer, logger *zap.Logger) *DocumentPrinter {
	return &DocumentPrinter{engine: engine, renderer: renderer, logger: logger}
}

// InvoiceHTML renders the invoice to HTML without printing it
func (p *DocumentPrinter) InvoiceHTML(doc InvoiceDocument) (string, error) {
	return p.engine.Render(templateInvoice, documentView{
		Company:     doc.Company,
		Customer:    doc.Customer,
		Invoice:     doc.Invoice,
		Currency:    doc.Company.Currency,
		GeneratedAt: time.Now(),
	})
}

// SalesReceiptHTML renders the receipt to HTML without printing it
func (p *DocumentPrinter) SalesReceiptHTML(doc SalesReceiptDocument) (string, error) {
	return p.engine.Render(templateSalesReceipt, documentView{
		Company:     doc.Company,
		Customer:    doc.Customer,
		Receipt:     doc.Receipt,
		Currency:    doc.Company.Currency,
		GeneratedAt: time.Now(),
	})
}

// RenderInvoice prints the invoice to PDF
func (p *DocumentPrinter) RenderInvoice(ctx context.Context, doc InvoiceDocument) ([]byte, error) {
	html, err := p.InvoiceHTML(doc)
	if err != nil {
		return nil, err
	}
	return p.print(ctx, html, "Invoice "+doc.Invoice.InvoiceNumber)
}

// RenderSalesReceipt prints the receipt to PDF
func (p *DocumentPrinter) RenderSalesReceipt(ctx context.Context, doc SalesReceiptDocument) ([]byte, error) {
	html, err := p.SalesReceiptHTML(doc)
	if err != nil {
		return nil, err
	}
	return p.print(ctx, html, "Sales Receipt "+doc.Receipt.SalesReceiptNumber)
}

func (p *DocumentPrinter) print(ctx context.Context, html, title string) ([]byte, error) {
	result, err := p.renderer.Render(ctx, &RenderRequest{
		HTML:       html,
		PaperSize:  PaperSizeA4,
		Margins:    DefaultMargins(),
		Title:      title,
		FooterHTML: `<div style="font-size:8px;width:100%;text-align:center;"><span class="pageNumber"></span> / <span class="totalPages"></span></div>`,
	})
	if err != nil {
		return nil, err
	}
	p.logger.Debug("Document printed", zap.String("title", title), zap.Int("pages", result.PageCount))
	return result.PDFData, nil
}

// Close releases the renderer
func (p *DocumentPrinter) Close() error {
	return p.renderer.Close()
}

// Disabled is used when printing.enabled is false
type Disabled struct{}

func (Disabled) RenderInvoice(context.Context, InvoiceDocument) ([]byte, error) {
	return nil, ErrDisabled
}

func (Disabled) RenderSalesReceipt(context.Context, SalesReceiptDocument) ([]byte, error) {
	return nil, ErrDisabled
}

func (Disabled) Close() error { return nil }

// Printer is what the application layer prints documents with
type Printer interface {
	RenderInvoice(ctx context.Context, doc InvoiceDocument) ([]byte, error)
	RenderSalesReceipt(ctx context.Context, doc SalesReceiptDocument) ([]byte, error)
	Close() error
}

// New builds the configured printer
func New(cfg config.PrintingConfig, logger *zap.Logger) (Printer, error) {
	if !cfg.Enabled {
		logger.Info("PDF printing disabled")
		return Disabled{}, nil
	}
	renderer, err := NewChromedpRenderer(ChromedpConfigFrom(cfg, logger))
	if err != nil {
		return nil, err
	}
	logger.Info("PDF printing enabled", zap.Bool("remote", cfg.RemoteURL != ""))
	return NewDocumentPrinter(NewTemplateEngine(), renderer, logger), nil
}

var (
	_ Printer = (*DocumentPrinter)(nil)
	_ Printer = Disabled{}
)
