package legacy

import (
	"context"

	"github.com/google/uuid"
)

// FarmRepository reads, mirrors and back-references legacy farm rows
type FarmRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Farm, error)
	FindByParty(ctx context.Context, partyID uuid.UUID) (*Farm, error)
	// FindUnmigrated returns up to limit farms without a party back-reference
	FindUnmigrated(ctx context.Context, limit int) ([]Farm, error)
	Save(ctx context.Context, f *Farm) error
	SetPartyID(ctx context.Context, farmID, partyID uuid.UUID) error
}

// UserRepository reads, mirrors and back-references legacy user rows
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByParty(ctx context.Context, partyID uuid.UUID) (*User, error)
	FindUnmigrated(ctx context.Context, limit int) ([]User, error)
	// FindSystemAdminPartyIDs returns the party ids of all migrated
	// system-admin accounts. Tenant-scoped listings subtract this set.
	FindSystemAdminPartyIDs(ctx context.Context) ([]uuid.UUID, error)
	Save(ctx context.Context, u *User) error
	SetPartyID(ctx context.Context, userID, partyID uuid.UUID) error
}

// FarmMemberRepository reads legacy membership rows
type FarmMemberRepository interface {
	// FindActive returns the user's active membership in the given farm, or
	// shared.ErrNotFound if none exists.
	FindActive(ctx context.Context, userID, farmID uuid.UUID) (*FarmMember, error)
	FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]FarmMember, error)
}

// CustomerRepository reads, mirrors and back-references legacy customer rows
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindByParty(ctx context.Context, partyID, farmID uuid.UUID) (*Customer, error)
	FindUnmigrated(ctx context.Context, limit int) ([]Customer, error)
	// Save upserts a mirror row keyed by its primary key
	Save(ctx context.Context, c *Customer) error
	DeleteByParty(ctx context.Context, partyID, farmID uuid.UUID) error
	SetPartyID(ctx context.Context, customerID, partyID uuid.UUID) error
}

// SupplierRepository reads, mirrors and back-references legacy supplier rows
type SupplierRepository interface {
	FindByParty(ctx context.Context, partyID, farmID uuid.UUID) (*Supplier, error)
	FindUnmigrated(ctx context.Context, limit int) ([]Supplier, error)
	Save(ctx context.Context, s *Supplier) error
	DeleteByParty(ctx context.Context, partyID, farmID uuid.UUID) error
	SetPartyID(ctx context.Context, supplierID, partyID uuid.UUID) error
}

// OrderRepository reads legacy orders for customer aggregates and wires the
// customer-party reference during the backfill
type OrderRepository interface {
	CountByCustomerParty(ctx context.Context, partyID, farmID uuid.UUID) (int64, error)
	// AggregateByCustomerParties computes per-party order aggregates within
	// one farm. Parties without orders are absent from the result map.
	AggregateByCustomerParties(ctx context.Context, partyIDs []uuid.UUID, farmID uuid.UUID) (map[uuid.UUID]OrderAggregate, error)
	// FindWithoutPartyRef returns up to limit orders whose CustomerPartyID is
	// still unset. A limit of zero or less returns the whole set.
	FindWithoutPartyRef(ctx context.Context, limit int) ([]Order, error)
	SetCustomerPartyID(ctx context.Context, orderID, partyID uuid.UUID) error
}
