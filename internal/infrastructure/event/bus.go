package event

import (
	"context"
	"sync"

	"github.com/agribase/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InMemoryEventBus fans domain events out to subscribed handlers in the
// publishing goroutine. Mirror handlers must observe committed state, so
// dispatch is synchronous: Publish returns after every handler has run.
type InMemoryEventBus struct {
	mu     sync.RWMutex
	subs   map[string][]shared.EventHandler
	logger *zap.Logger
}

// NewInMemoryEventBus creates an event bus that dispatches in-process
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		subs:   make(map[string][]shared.EventHandler),
		logger: logger.Named("event-bus"),
	}
}

// Subscribe registers a handler. With no explicit event types the handler's
// own EventTypes declaration is used.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}

	b.mu.Lock()
	for _, et := range eventTypes {
		b.subs[et] = append(b.subs[et], handler)
	}
	b.mu.Unlock()

	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe drops the handler from every event type it was registered for
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for et, handlers := range b.subs {
		kept := make([]shared.EventHandler, 0, len(handlers))
		for _, h := range handlers {
			if h != handler {
				kept = append(kept, h)
			}
		}
		if len(kept) == 0 {
			delete(b.subs, et)
		} else {
			b.subs[et] = kept
		}
	}
}

// Publish delivers each event to its subscribers. Handler errors and panics
// are logged, never propagated; a broken subscriber must not fail a write
// path that already committed.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, ev := range events {
		for _, h := range b.subscribers(ev.EventType()) {
			b.deliver(ctx, h, ev)
		}
	}
	return nil
}

func (b *InMemoryEventBus) subscribers(eventType string) []shared.EventHandler {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]shared.EventHandler, len(b.subs[eventType]))
	copy(out, b.subs[eventType])
	return out
}

func (b *InMemoryEventBus) deliver(ctx context.Context, h shared.EventHandler, ev shared.DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("event_type", ev.EventType()),
				zap.Any("panic", r),
			)
		}
	}()

	if err := h.Handle(ctx, ev); err != nil {
		b.logger.Error("event handler failed",
			zap.String("event_type", ev.EventType()),
			zap.String("event_id", ev.EventID().String()),
			zap.Error(err),
		)
	}
}

// Start implements lifecycle symmetry with broker-backed buses. The
// in-memory bus has no worker loop to spin up.
func (b *InMemoryEventBus) Start(ctx context.Context) error {
	b.logger.Info("event bus started")
	return nil
}

// Stop is the counterpart of Start
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.logger.Info("event bus stopped")
	return nil
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
