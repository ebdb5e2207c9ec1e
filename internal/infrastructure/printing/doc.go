// Package printing turns invoices and sales receipts into PDF documents.
//
// A document is first rendered to HTML with an embedded html/template and then printed
// to PDF by headless Chrome over the DevTools protocol:
//
//	renderer, err := NewChromedpRenderer(&ChromedpConfig{NoSandbox: true})
//	if err != nil {
//	    return err
//	}
//	printer := NewDocumentPrinter(NewTemplateEngine(), renderer, logger)
//	pdf, err := printer.RenderInvoice(ctx, InvoiceDocument{Company: c, Invoice: inv})
package printing
