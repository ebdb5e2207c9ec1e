package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string, companyID uuid.UUID) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Invoice", uuid.New(), companyID),
	}
}

type testHandler struct {
	eventTypes []string
	mu         sync.Mutex
	handled    []shared.DomainEvent
	err        error
	panicWith  any
	deadline   bool
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	_, h.deadline = ctx.Deadline()
	if h.panicWith != nil {
		panic(h.panicWith)
	}
	return h.err
}

func (h *testHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *testHandler) getHandled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.handled...)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()

	t.Run("delivers to subscribed handlers in order", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		h := newTestHandler("InvoiceSent")
		bus.Subscribe(h)

		e1 := newTestEvent("InvoiceSent", companyID)
		e2 := newTestEvent("InvoiceSent", companyID)
		require.NoError(t, bus.Publish(ctx, e1, e2))

		assert.Equal(t, []shared.DomainEvent{e1, e2}, h.getHandled())
	})

	t.Run("explicit types override handler types", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		h := newTestHandler("InvoiceSent")
		bus.Subscribe(h, "InvoicePaid")

		require.NoError(t, bus.Publish(ctx, newTestEvent("InvoiceSent", companyID)))
		assert.Empty(t, h.getHandled())
		require.NoError(t, bus.Publish(ctx, newTestEvent("InvoicePaid", companyID)))
		assert.Len(t, h.getHandled(), 1)
	})

	t.Run("wildcard handler sees every event", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		h := newTestHandler()
		bus.Subscribe(h)

		require.NoError(t, bus.Publish(ctx,
			newTestEvent("InvoiceCreated", companyID),
			newTestEvent("PaymentRecorded", companyID),
		))
		assert.Len(t, h.getHandled(), 2)
	})

	t.Run("nil events are skipped", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		h := newTestHandler()
		bus.Subscribe(h)

		require.NoError(t, bus.Publish(ctx, nil, newTestEvent("InvoiceSent", companyID)))
		assert.Len(t, h.getHandled(), 1)
	})

	t.Run("unsubscribed handler stops receiving", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		h := newTestHandler("InvoiceSent")
		bus.Subscribe(h)
		require.NoError(t, bus.Publish(ctx, newTestEvent("InvoiceSent", companyID)))

		bus.Unsubscribe(h)
		require.NoError(t, bus.Publish(ctx, newTestEvent("InvoiceSent", companyID)))
		assert.Len(t, h.getHandled(), 1)
	})
}

func TestInMemoryEventBus_HandlerFailures(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	companyID := uuid.New()

	var mu sync.Mutex
	var observed []error
	bus := NewInMemoryEventBus(zap.New(core), WithObserver(func(ctx context.Context, eventType string, d time.Duration, err error) {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, "PaymentRecorded", eventType)
		observed = append(observed, err)
	}))

	failing := newTestHandler("PaymentRecorded")
	failing.err = errors.New("smtp down")
	panicking := newTestHandler("PaymentRecorded")
	panicking.panicWith = "boom"
	healthy := newTestHandler("PaymentRecorded")
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newTestEvent("PaymentRecorded", companyID))
	require.NoError(t, err, "handler failures never fail the publisher")

	assert.Len(t, healthy.getHandled(), 1)
	require.Len(t, observed, 3)
	assert.EqualError(t, observed[0], "smtp down")
	assert.EqualError(t, observed[1], "handler panicked: boom")
	assert.NoError(t, observed[2])

	entries := logs.FilterMessage("event handler failed").All()
	require.Len(t, entries, 2)
	assert.Equal(t, companyID.String(), entries[0].ContextMap()["company_id"])
	assert.Equal(t, "PaymentRecorded", entries[0].ContextMap()["event_type"])
}

func TestInMemoryEventBus_UsesContextLogger(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	ctx, _ := logger.WithRequestID(context.Background(), zap.New(core), "req-1")

	bus := NewInMemoryEventBus(zap.NewNop())
	h := newTestHandler()
	h.err = errors.New("failed")
	bus.Subscribe(h)

	require.NoError(t, bus.Publish(ctx, newTestEvent("InvoiceSent", uuid.New())))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-1", entries[0].ContextMap()["request_id"])
	assert.NotContains(t, entries[0].ContextMap(), "company_id")
}

func TestInMemoryEventBus_HandlerTimeout(t *testing.T) {
	bus := NewInMemoryEventBus(nil, WithHandlerTimeout(time.Second))
	h := newTestHandler()
	bus.Subscribe(h)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("InvoiceSent", uuid.New())))
	assert.True(t, h.deadline)
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := newTestHandler()
	bus.Subscribe(h)
	ctx := context.Background()

	require.NoError(t, bus.Start(ctx))
	require.NoError(t, bus.Publish(ctx, newTestEvent("InvoiceSent", uuid.New())))

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, bus.Stop(stopCtx))

	err := bus.Publish(ctx, newTestEvent("InvoiceSent", uuid.New()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stopped")
	assert.Len(t, h.getHandled(), 1)

	require.NoError(t, bus.Start(ctx))
	require.NoError(t, bus.Publish(ctx, newTestEvent("InvoiceSent", uuid.New())))
	assert.Len(t, h.getHandled(), 2)
}

func TestInMemoryEventBus_StopWaitsForInFlight(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	release := make(chan struct{})
	started := make(chan struct{})
	bus.Subscribe(&blockingHandler{fn: func(ctx context.Context, e shared.DomainEvent) error {
		close(started)
		<-release
		return nil
	}})

	go func() { _ = bus.Publish(context.Background(), newTestEvent("InvoiceSent", uuid.New())) }()
	<-started

	short, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, bus.Stop(short), context.DeadlineExceeded)

	close(release)
	long, cancel2 := context.WithTimeout(context.Background(), time.Second)
	defer cancel2()
	assert.NoError(t, bus.Stop(long))
}

// blockingHandler is a pointer type so the registry can compare it
type blockingHandler struct {
	fn func(ctx context.Context, e shared.DomainEvent) error
}

func (h *blockingHandler) Handle(ctx context.Context, e shared.DomainEvent) error { return h.fn(ctx, e) }
func (h *blockingHandler) EventTypes() []string                                { return nil }
