package shared

// BaseAggregateRoot adds optimistic locking and event collection to an
// entity. Events recorded during a mutation are held on the aggregate and
// published by the application service once the surrounding transaction has
// committed.
type BaseAggregateRoot struct {
	BaseEntity
	Version int           `gorm:"not null;default:1"`
	pending []DomainEvent `gorm:"-"`
}

// NewBaseAggregateRoot creates an aggregate root at version 1
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}

// IncrementVersion bumps the optimistic-lock version. Callers do this once
// per mutation, right before Save.
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// AddDomainEvent records an event for post-commit publication
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.pending = append(a.pending, event)
}

// GetDomainEvents returns the events recorded since the last clear
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.pending
}

// ClearDomainEvents drops the recorded events. Called after they have been
// handed to the publisher.
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.pending = nil
}
