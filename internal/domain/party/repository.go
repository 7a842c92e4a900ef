package party

import (
	"context"

	"github.com/google/uuid"
)

// WithDetails bundles a party with everything it owns
type WithDetails struct {
	Party         Party          `json:"party"`
	Roles         []Role         `json:"roles"`
	Contacts      []Contact      `json:"contacts"`
	Relationships []Relationship `json:"relationships,omitempty"`
}

// PrimaryContact returns the primary contact of the given type, or nil
func (d *WithDetails) PrimaryContact(contactType ContactType) *Contact {
	for i := range d.Contacts {
		if d.Contacts[i].Type == contactType && d.Contacts[i].IsPrimary {
			return &d.Contacts[i]
		}
	}
	return nil
}

// RoleOfType returns the first role matching the given type and tenant, or nil
func (d *WithDetails) RoleOfType(roleType RoleType, tenantID *uuid.UUID) *Role {
	for i := range d.Roles {
		if d.Roles[i].Matches(roleType, tenantID) {
			return &d.Roles[i]
		}
	}
	return nil
}

// PartyRepository is the persistence contract for the party root entity
type PartyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Party, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Party, error)
	Save(ctx context.Context, p *Party) error
	// Delete removes the party row only; the Party Service cascades the
	// owned roles, contacts and relationships within the same transaction.
	Delete(ctx context.Context, id uuid.UUID) error
}

// RoleRepository is the persistence contract for party roles
type RoleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Role, error)
	FindByParty(ctx context.Context, partyID uuid.UUID) ([]Role, error)
	// FindByTypeAndTenant returns all roles of the given type scoped to the
	// given tenant. Global role types are looked up with FindGlobalByType.
	FindByTypeAndTenant(ctx context.Context, roleType RoleType, tenantID uuid.UUID) ([]Role, error)
	FindGlobalByType(ctx context.Context, roleType RoleType) ([]Role, error)
	Exists(ctx context.Context, partyID uuid.UUID, roleType RoleType, tenantID *uuid.UUID) (bool, error)
	Save(ctx context.Context, r *Role) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByParty(ctx context.Context, partyID uuid.UUID) error
}

// ContactRepository is the persistence contract for party contacts
type ContactRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Contact, error)
	FindByParty(ctx context.Context, partyID uuid.UUID) ([]Contact, error)
	FindByParties(ctx context.Context, partyIDs []uuid.UUID) ([]Contact, error)
	// ClearPrimary drops the primary flag on every contact of the given
	// (party, type) pair. Runs inside the caller's transaction so primary
	// reassignment stays atomic.
	ClearPrimary(ctx context.Context, partyID uuid.UUID, contactType ContactType) error
	Save(ctx context.Context, c *Contact) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByParty(ctx context.Context, partyID uuid.UUID) error
}

// RelationshipRepository is the persistence contract for party relationships
type RelationshipRepository interface {
	FindByParty(ctx context.Context, partyID uuid.UUID) ([]Relationship, error)
	Save(ctx context.Context, r *Relationship) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteByParty removes every relationship where the party is either
	// endpoint.
	DeleteByParty(ctx context.Context, partyID uuid.UUID) error
}

// Stores bundles the four party stores. A Stores value handed out by the
// TxManager is bound to one database transaction.
type Stores struct {
	Parties       PartyRepository
	Roles         RoleRepository
	Contacts      ContactRepository
	Relationships RelationshipRepository
}

// TxManager runs a function against transaction-bound stores. The function's
// writes are either fully applied or fully rolled back.
type TxManager interface {
	Do(ctx context.Context, fn func(s Stores) error) error
}
