package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/bizledger/backend/internal/domain/sales"
	"github.com/bizledger/backend/internal/domain/shared"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a metrics component is built without a meter
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// BusinessMetrics counts what happens to invoices and receipts. It subscribes to the
// event bus like any other handler, and additionally observes handler and job runs.
type BusinessMetrics struct {
	invoicesCreated  *Counter
	invoicesSent     *Counter
	invoicesPaid     *Counter
	invoicesOverdue  *Counter
	invoicesCanceled *Counter
	invoiceAmount    *Histogram
	paymentsRecorded *Counter
	paymentAmount    *Histogram
	receiptsCreated  *Counter

	handlerRuns     *Counter
	handlerDuration *Histogram
	jobRuns         *Counter
	jobDuration     *Histogram
}

// NewBusinessMetrics creates the business instruments on meter
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	bm := &BusinessMetrics{}
	counters := []struct {
		dst  **Counter
		name string
		desc string
		unit string
	}{
		{&bm.invoicesCreated, "invoices_created_total", "Invoices created", "{invoices}"},
		{&bm.invoicesSent, "invoices_sent_total", "Invoices sent to customers", "{invoices}"},
		{&bm.invoicesPaid, "invoices_paid_total", "Invoices settled in full", "{invoices}"},
		{&bm.invoicesOverdue, "invoices_overdue_total", "Invoices that became overdue", "{invoices}"},
		{&bm.invoicesCanceled, "invoices_cancelled_total", "Invoices cancelled", "{invoices}"},
		{&bm.paymentsRecorded, "payments_recorded_total", "Payments recorded against invoices", "{payments}"},
		{&bm.receiptsCreated, "sales_receipts_created_total", "Sales receipts created", "{receipts}"},
		{&bm.handlerRuns, "event_handler_runs_total", "Domain event handler invocations", "{runs}"},
		{&bm.jobRuns, "scheduler_job_runs_total", "Background job executions", "{runs}"},
	}
	var err error
	for _, c := range counters {
		if *c.dst, err = NewCounter(meter, c.name, c.desc, c.unit); err != nil {
			return nil, err
		}
	}

	histograms := []struct {
		dst  **Histogram
		opts HistogramOpts
	}{
		{&bm.invoiceAmount, HistogramOpts{Name: "invoice_amount", Description: "Invoice totals", Unit: "{currency}", Buckets: AmountBuckets}},
		{&bm.paymentAmount, HistogramOpts{Name: "payment_amount", Description: "Payment amounts", Unit: "{currency}", Buckets: AmountBuckets}},
		{&bm.handlerDuration, HistogramOpts{Name: "event_handler_duration_seconds", Description: "Domain event handler latency", Unit: "s", Buckets: SmallDurationBuckets}},
		{&bm.jobDuration, HistogramOpts{Name: "scheduler_job_duration_seconds", Description: "Background job latency", Unit: "s", Buckets: HTTPDurationBuckets}},
	}
	for _, h := range histograms {
		if *h.dst, err = NewHistogram(meter, h.opts); err != nil {
			return nil, err
		}
	}
	return bm, nil
}

// EventTypes lists the events the metrics handler counts
func (bm *BusinessMetrics) EventTypes() []string {
	return []string{
		sales.EventTypeInvoiceCreated,
		sales.EventTypeInvoiceSent,
		sales.EventTypePaymentRecorded,
		sales.EventTypeInvoicePaid,
		sales.EventTypeInvoiceOverdue,
		sales.EventTypeInvoiceCancelled,
		sales.EventTypeSalesReceiptCreated,
	}
}

// Handle updates counters for a domain event. It never fails.
func (bm *BusinessMetrics) Handle(ctx context.Context, evt shared.DomainEvent) error {
	company := AttrCompanyID.String(evt.CompanyID().String())
	switch e := evt.(type) {
	case *sales.InvoiceCreatedEvent:
		bm.invoicesCreated.Inc(ctx, company)
		bm.invoiceAmount.Record(ctx, e.Total.InexactFloat64(), company)
	case *sales.InvoiceSentEvent:
		bm.invoicesSent.Inc(ctx, company)
	case *sales.PaymentRecordedEvent:
		method := AttrPaymentMethod.String(string(e.Method))
		bm.paymentsRecorded.Inc(ctx, company, method)
		bm.paymentAmount.Record(ctx, e.Amount.InexactFloat64(), company, method)
	case *sales.InvoicePaidEvent:
		bm.invoicesPaid.Inc(ctx, company)
	case *sales.InvoiceOverdueEvent:
		bm.invoicesOverdue.Inc(ctx, company)
	case *sales.InvoiceCancelledEvent:
		bm.invoicesCanceled.Inc(ctx, company)
	case *sales.SalesReceiptCreatedEvent:
		bm.receiptsCreated.Inc(ctx, company)
	}
	return nil
}

// ObserveEventHandler matches the event bus observer signature
func (bm *BusinessMetrics) ObserveEventHandler(ctx context.Context, eventType string, d time.Duration, err error) {
	attrs := []attribute.KeyValue{AttrEventType.String(eventType), outcome(err)}
	bm.handlerRuns.Inc(ctx, attrs...)
	bm.handlerDuration.RecordDuration(ctx, d, attrs...)
}

// RecordJob records one background job execution
func (bm *BusinessMetrics) RecordJob(ctx context.Context, kind string, d time.Duration, err error) {
	attrs := []attribute.KeyValue{AttrJobKind.String(kind), outcome(err)}
	bm.jobRuns.Inc(ctx, attrs...)
	bm.jobDuration.RecordDuration(ctx, d, attrs...)
}

func outcome(err error) attribute.KeyValue {
	if err != nil {
		return AttrOutcome.String("error")
	}
	return AttrOutcome.String("success")
}

var _ shared.EventHandler = (*BusinessMetrics)(nil)
