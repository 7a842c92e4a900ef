package party

import (
	"github.com/agribase/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeParty = "Party"

// Event type constants
const (
	EventTypePartyCreated = "PartyCreated"
	EventTypePartyUpdated = "PartyUpdated"
	EventTypePartyDeleted = "PartyDeleted"
	EventTypeRoleAdded    = "PartyRoleAdded"
	EventTypeRoleRemoved  = "PartyRoleRemoved"
	EventTypeContactsSet  = "PartyContactsChanged"
)

// tenant scope for events on roles; global roles publish with uuid.Nil
func eventTenant(tenantID *uuid.UUID) uuid.UUID {
	if tenantID == nil {
		return uuid.Nil
	}
	return *tenantID
}

// PartyCreatedEvent is published when a new party is created
type PartyCreatedEvent struct {
	shared.BaseDomainEvent
	PartyID     uuid.UUID `json:"party_id"`
	DisplayName string    `json:"display_name"`
	Type        PartyType `json:"party_type"`
}

// NewPartyCreatedEvent creates a new PartyCreatedEvent
func NewPartyCreatedEvent(p *Party) *PartyCreatedEvent {
	return &PartyCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePartyCreated, AggregateTypeParty, p.ID, uuid.Nil),
		PartyID:         p.ID,
		DisplayName:     p.DisplayName,
		Type:            p.Type,
	}
}

// PartyUpdatedEvent is published when a party's names change
type PartyUpdatedEvent struct {
	shared.BaseDomainEvent
	PartyID     uuid.UUID `json:"party_id"`
	DisplayName string    `json:"display_name"`
	LegalName   string    `json:"legal_name,omitempty"`
}

// NewPartyUpdatedEvent creates a new PartyUpdatedEvent
func NewPartyUpdatedEvent(p *Party) *PartyUpdatedEvent {
	return &PartyUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePartyUpdated, AggregateTypeParty, p.ID, uuid.Nil),
		PartyID:         p.ID,
		DisplayName:     p.DisplayName,
		LegalName:       p.LegalName,
	}
}

// PartyDeletedEvent is published after a party and its owned records are
// cascade-deleted
type PartyDeletedEvent struct {
	shared.BaseDomainEvent
	PartyID uuid.UUID `json:"party_id"`
}

// NewPartyDeletedEvent creates a new PartyDeletedEvent
func NewPartyDeletedEvent(partyID uuid.UUID) *PartyDeletedEvent {
	return &PartyDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePartyDeleted, AggregateTypeParty, partyID, uuid.Nil),
		PartyID:         partyID,
	}
}

// RoleAddedEvent is published when a party gains a role
type RoleAddedEvent struct {
	shared.BaseDomainEvent
	PartyID uuid.UUID `json:"party_id"`
	RoleID  uuid.UUID `json:"role_id"`
	Role    RoleType  `json:"role_type"`
}

// NewRoleAddedEvent creates a new RoleAddedEvent
func NewRoleAddedEvent(r *Role) *RoleAddedEvent {
	return &RoleAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRoleAdded, AggregateTypeParty, r.PartyID, eventTenant(r.TenantID)),
		PartyID:         r.PartyID,
		RoleID:          r.ID,
		Role:            r.Type,
	}
}

// RoleRemovedEvent is published when a role is revoked from a party
type RoleRemovedEvent struct {
	shared.BaseDomainEvent
	PartyID uuid.UUID `json:"party_id"`
	RoleID  uuid.UUID `json:"role_id"`
	Role    RoleType  `json:"role_type"`
}

// NewRoleRemovedEvent creates a new RoleRemovedEvent
func NewRoleRemovedEvent(r *Role) *RoleRemovedEvent {
	return &RoleRemovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRoleRemoved, AggregateTypeParty, r.PartyID, eventTenant(r.TenantID)),
		PartyID:         r.PartyID,
		RoleID:          r.ID,
		Role:            r.Type,
	}
}

// ContactsChangedEvent is published when a party's contact set changes.
// The legacy mirror listens for it to refresh denormalized columns.
type ContactsChangedEvent struct {
	shared.BaseDomainEvent
	PartyID uuid.UUID `json:"party_id"`
}

// NewContactsChangedEvent creates a new ContactsChangedEvent
func NewContactsChangedEvent(partyID uuid.UUID) *ContactsChangedEvent {
	return &ContactsChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeContactsSet, AggregateTypeParty, partyID, uuid.Nil),
		PartyID:         partyID,
	}
}
