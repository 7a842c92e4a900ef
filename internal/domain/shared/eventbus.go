package shared

import "context"

// EventHandler consumes committed domain events
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes declares which event types the handler wants
	EventTypes() []string
}

// EventPublisher is the write side of the bus. Application services depend
// on this interface only.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber is the read side of the bus. Explicit event types override
// the handler's own EventTypes declaration.
type EventSubscriber interface {
	Subscribe(handler EventHandler, eventTypes ...string)
}

// EventBus combines both sides for wiring at startup
type EventBus interface {
	EventPublisher
	EventSubscriber
}
