package notification

import (
	"context"
	"fmt"

	"github.com/bizledger/backend/internal/domain/notification"
	"github.com/bizledger/backend/internal/domain/sales"
	"github.com/bizledger/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const entityTypeInvoice = "invoice"

// InvoiceEventHandler turns invoice lifecycle events into company-wide notifications
type InvoiceEventHandler struct {
	repo   notification.Repository
	logger *zap.Logger
}

// NewInvoiceEventHandler creates a new InvoiceEventHandler
func NewInvoiceEventHandler(repo notification.Repository, logger *zap.Logger) *InvoiceEventHandler {
	return &InvoiceEventHandler{
		repo:   repo,
		logger: logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *InvoiceEventHandler) EventTypes() []string {
	return []string{
		sales.EventTypeInvoiceSent,
		sales.EventTypePaymentRecorded,
		sales.EventTypeInvoicePaid,
		sales.EventTypeInvoiceOverdue,
	}
}

// Handle creates the notification for one event
func (h *InvoiceEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	var (
		typ         notification.Type
		title, body string
	)
	switch e := event.(type) {
	case *sales.InvoiceSentEvent:
		typ = notification.TypeInvoiceSent
		title = fmt.Sprintf("Invoice %s sent", e.InvoiceNumber)
		body = fmt.Sprintf("Invoice %s was sent to %s, due %s.", e.InvoiceNumber, e.CustomerName, e.DueDate.Format("2006-01-02"))
	case *sales.PaymentRecordedEvent:
		typ = notification.TypePaymentReceived
		title = fmt.Sprintf("Payment received for %s", e.InvoiceNumber)
		body = fmt.Sprintf("%s paid %s by %s. Balance due: %s.",
			e.CustomerName, e.Amount.StringFixed(2), e.Method, e.BalanceDue.StringFixed(2))
	case *sales.InvoicePaidEvent:
		typ = notification.TypeInvoicePaid
		title = fmt.Sprintf("Invoice %s paid", e.InvoiceNumber)
		body = fmt.Sprintf("%s paid invoice %s in full (%s).", e.CustomerName, e.InvoiceNumber, e.Total.StringFixed(2))
	case *sales.InvoiceOverdueEvent:
		typ = notification.TypeInvoiceOverdue
		title = fmt.Sprintf("Invoice %s is overdue", e.InvoiceNumber)
		body = fmt.Sprintf("Invoice %s for %s is %d day(s) overdue with %s outstanding.",
			e.InvoiceNumber, e.CustomerName, e.DaysOverdue, e.BalanceDue.StringFixed(2))
	default:
		h.logger.Warn("unexpected event type",
			zap.String("actual", event.EventType()))
		return nil
	}

	n, err := notification.New(event.CompanyID(), nil, typ, title, body)
	if err != nil {
		return err
	}
	n.About(entityTypeInvoice, event.AggregateID())
	if err := h.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("create %s notification: %w", typ, err)
	}
	return nil
}

var _ shared.EventHandler = (*InvoiceEventHandler)(nil)
