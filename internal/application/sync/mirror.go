// Package sync keeps the legacy denormalized tables consistent with the party
// model: a best-effort mirror for ongoing writes and a one-shot backfill that
// migrates pre-existing rows into parties.
package sync

import (
	"context"
	"errors"

	"github.com/agribase/backend/internal/domain/legacy"
	"github.com/agribase/backend/internal/domain/party"
	"github.com/agribase/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LegacyMirror subscribes to committed party events and upserts the
// corresponding legacy rows. The party model is the source of truth; a mirror
// failure is logged and never propagated into the primary operation, which
// has already committed by the time the mirror runs.
type LegacyMirror struct {
	stores    party.Stores
	farms     legacy.FarmRepository
	users     legacy.UserRepository
	customers legacy.CustomerRepository
	suppliers legacy.SupplierRepository
	logger    *zap.Logger
}

// NewLegacyMirror creates a new LegacyMirror
func NewLegacyMirror(
	stores party.Stores,
	farms legacy.FarmRepository,
	users legacy.UserRepository,
	customers legacy.CustomerRepository,
	suppliers legacy.SupplierRepository,
	logger *zap.Logger,
) *LegacyMirror {
	return &LegacyMirror{
		stores:    stores,
		farms:     farms,
		users:     users,
		customers: customers,
		suppliers: suppliers,
		logger:    logger.Named("legacy-mirror"),
	}
}

// EventTypes implements shared.EventHandler
func (m *LegacyMirror) EventTypes() []string {
	return []string{
		party.EventTypePartyUpdated,
		party.EventTypeRoleAdded,
		party.EventTypeRoleRemoved,
		party.EventTypeContactsSet,
	}
}

// Handle implements shared.EventHandler. Errors are logged and swallowed;
// best-effort mirroring must not fail the publishing side.
func (m *LegacyMirror) Handle(ctx context.Context, event shared.DomainEvent) error {
	var err error
	switch e := event.(type) {
	case *party.RoleRemovedEvent:
		err = m.handleRoleRemoved(ctx, e)
	case *party.RoleAddedEvent:
		err = m.refresh(ctx, e.PartyID)
	case *party.PartyUpdatedEvent:
		err = m.refresh(ctx, e.PartyID)
	case *party.ContactsChangedEvent:
		err = m.refresh(ctx, e.PartyID)
	}
	if err != nil {
		m.logger.Error("legacy mirror update failed",
			zap.String("event_type", event.EventType()),
			zap.String("party_id", event.AggregateID().String()),
			zap.Error(err),
		)
	}
	return nil
}

// handleRoleRemoved deletes the mirrored row of a revoked customer or
// supplier role. Farm and user rows outlive their roles; they are migration
// sources, not disposable mirrors.
func (m *LegacyMirror) handleRoleRemoved(ctx context.Context, e *party.RoleRemovedEvent) error {
	if e.TenantID() == uuid.Nil {
		return nil
	}
	switch e.Role {
	case party.RoleTypeCustomerB2B, party.RoleTypeCustomerB2C:
		return m.customers.DeleteByParty(ctx, e.PartyID, e.TenantID())
	case party.RoleTypeSupplier:
		return m.suppliers.DeleteByParty(ctx, e.PartyID, e.TenantID())
	}
	return nil
}

// refresh re-derives every mirrored legacy row of a party from its current
// roles and contacts
func (m *LegacyMirror) refresh(ctx context.Context, partyID uuid.UUID) error {
	p, err := m.stores.Parties.FindByID(ctx, partyID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	roles, err := m.stores.Roles.FindByParty(ctx, partyID)
	if err != nil {
		return err
	}
	contacts, err := m.stores.Contacts.FindByParty(ctx, partyID)
	if err != nil {
		return err
	}

	detail := party.WithDetails{Party: *p, Roles: roles, Contacts: contacts}

	for i := range roles {
		role := &roles[i]
		switch role.Type {
		case party.RoleTypeCustomerB2B, party.RoleTypeCustomerB2C:
			err = m.mirrorCustomer(ctx, &detail, role)
		case party.RoleTypeSupplier:
			err = m.mirrorSupplier(ctx, &detail, role)
		case party.RoleTypeFarm:
			err = m.mirrorFarm(ctx, &detail, role)
		case party.RoleTypeUser:
			err = m.mirrorUser(ctx, &detail)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *LegacyMirror) mirrorCustomer(ctx context.Context, d *party.WithDetails, role *party.Role) error {
	farmID := *role.TenantID

	row, err := m.customers.FindByParty(ctx, d.Party.ID, farmID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	if row == nil {
		row = &legacy.Customer{
			ID:      uuid.New(),
			FarmID:  farmID,
			PartyID: &d.Party.ID,
		}
	}

	row.Name = d.Party.DisplayName
	if d.Party.IsOrganization() {
		row.BusinessName = d.Party.LegalName
		if row.BusinessName == "" {
			row.BusinessName = d.Party.DisplayName
		}
	}
	row.Email = primaryValue(d, party.ContactTypeEmail)
	row.Phone = primaryValue(d, party.ContactTypePhone)
	row.Address = primaryValue(d, party.ContactTypeAddress)

	if meta, err := role.CustomerMeta(); err == nil {
		row.TaxID = meta.TaxID
		row.PaymentTerms = meta.PaymentTerms
		row.CreditLimit = meta.CreditLimit
		row.Notes = meta.Notes
	}

	return m.customers.Save(ctx, row)
}

func (m *LegacyMirror) mirrorSupplier(ctx context.Context, d *party.WithDetails, role *party.Role) error {
	farmID := *role.TenantID

	row, err := m.suppliers.FindByParty(ctx, d.Party.ID, farmID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	if row == nil {
		row = &legacy.Supplier{
			ID:      uuid.New(),
			FarmID:  farmID,
			PartyID: &d.Party.ID,
		}
	}

	row.Name = d.Party.DisplayName
	row.Email = primaryValue(d, party.ContactTypeEmail)
	row.Phone = primaryValue(d, party.ContactTypePhone)
	row.Address = primaryValue(d, party.ContactTypeAddress)

	if meta, err := role.SupplierMeta(); err == nil {
		row.TaxID = meta.TaxID
		row.PaymentTerms = meta.PaymentTerms
		row.Notes = meta.Notes
	}

	return m.suppliers.Save(ctx, row)
}

// mirrorFarm updates the legacy farm row in place. Farm rows are only ever
// created by tenant signup, never by the mirror.
func (m *LegacyMirror) mirrorFarm(ctx context.Context, d *party.WithDetails, role *party.Role) error {
	row, err := m.farms.FindByParty(ctx, d.Party.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}

	row.Name = d.Party.DisplayName
	if meta, err := role.FarmMeta(); err == nil {
		if meta.SubscriptionPlan != "" {
			row.SubscriptionPlan = meta.SubscriptionPlan
		}
		if meta.Timezone != "" {
			row.Timezone = meta.Timezone
		}
	}

	return m.farms.Save(ctx, row)
}

// mirrorUser updates the legacy user row's denormalized contact columns
func (m *LegacyMirror) mirrorUser(ctx context.Context, d *party.WithDetails) error {
	row, err := m.users.FindByParty(ctx, d.Party.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}

	if email := primaryValue(d, party.ContactTypeEmail); email != "" {
		row.Email = email
	}
	if phone := primaryValue(d, party.ContactTypePhone); phone != "" {
		row.Phone = phone
	}

	return m.users.Save(ctx, row)
}

func primaryValue(d *party.WithDetails, contactType party.ContactType) string {
	if c := d.PrimaryContact(contactType); c != nil {
		return c.Value
	}
	return ""
}
