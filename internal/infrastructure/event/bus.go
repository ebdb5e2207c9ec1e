// Package event dispatches domain events in-process. Handlers run synchronously on the
// publishing goroutine after the aggregate has been persisted; a failing handler never
// fails the write that raised the event.
package event

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Observer is told about every handler invocation. Telemetry uses it to count failures.
type Observer func(ctx context.Context, eventType string, duration time.Duration, err error)

// Option configures an InMemoryEventBus
type Option func(*InMemoryEventBus)

// WithObserver registers an observer for handler invocations
func WithObserver(o Observer) Option {
	return func(b *InMemoryEventBus) {
		b.observer = o
	}
}

// WithHandlerTimeout bounds each handler call with a context deadline
func WithHandlerTimeout(d time.Duration) Option {
	return func(b *InMemoryEventBus) {
		b.handlerTimeout = d
	}
}

// InMemoryEventBus implements EventBus with in-memory pub/sub
type InMemoryEventBus struct {
	registry       *HandlerRegistry
	logger         *zap.Logger
	observer       Observer
	handlerTimeout time.Duration
	stopped        atomic.Bool
	wg             sync.WaitGroup
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(log *zap.Logger, opts ...Option) *InMemoryEventBus {
	if log == nil {
		log = zap.NewNop()
	}
	b := &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   log,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish delivers events to their handlers in subscription order. Handler errors and
// panics are logged and reported to the observer; Publish itself only fails once the
// bus has been stopped.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if b.stopped.Load() {
		return fmt.Errorf("event bus stopped: dropped %d event(s)", len(events))
	}
	b.wg.Add(1)
	defer b.wg.Done()

	for _, evt := range events {
		if evt == nil {
			continue
		}
		log, fromCtx := logger.FromContextOr(ctx, b.logger)
		log = log.With(
			zap.String("event_type", evt.EventType()),
			zap.String("event_id", evt.EventID().String()),
		)
		if !fromCtx {
			log = log.With(zap.String("company_id", evt.CompanyID().String()))
		}
		for _, handler := range b.registry.GetHandlers(evt.EventType()) {
			start := time.Now()
			err := b.dispatch(ctx, handler, evt)
			if b.observer != nil {
				b.observer(ctx, evt.EventType(), time.Since(start), err)
			}
			if err != nil {
				log.Error("event handler failed",
					zap.String("handler", fmt.Sprintf("%T", handler)),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

// Subscribe registers a handler for specific event types. Without explicit types
// the handler's own EventTypes are used; an empty list subscribes to everything.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("event handler subscribed",
		zap.String("handler", fmt.Sprintf("%T", handler)),
		zap.Strings("event_types", eventTypes),
	)
}

// Unsubscribe removes a handler
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
}

// Start (re)opens the bus for publishing
func (b *InMemoryEventBus) Start(ctx context.Context) error {
	b.stopped.Store(false)
	b.logger.Info("event bus started", zap.Int("handlers", len(b.registry.GetAllHandlers())))
	return nil
}

// Stop rejects new publishes and waits for in-flight ones until ctx is done
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.stopped.Store(true)

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.logger.Info("event bus stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("event bus stop: %w", ctx.Err())
	}
}

func (b *InMemoryEventBus) dispatch(ctx context.Context, handler shared.EventHandler, evt shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()

	if b.handlerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.handlerTimeout)
		defer cancel()
	}
	return handler.Handle(ctx, evt)
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
