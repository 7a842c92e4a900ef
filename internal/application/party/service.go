package party

import (
	"context"
	"errors"

	"github.com/agribase/backend/internal/domain/party"
	"github.com/agribase/backend/internal/domain/shared"
	"github.com/agribase/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service is the sole mutation and query surface of the party model. Every
// multi-row write runs inside one database transaction through the tx manager;
// domain events are published only after the transaction has committed, so the
// legacy mirror never observes a rolled-back write.
type Service struct {
	tx        party.TxManager
	stores    party.Stores
	publisher shared.EventPublisher
}

// NewService creates a new party Service. The stores argument is the
// non-transactional view used for reads.
func NewService(tx party.TxManager, stores party.Stores, publisher shared.EventPublisher) *Service {
	return &Service{
		tx:        tx,
		stores:    stores,
		publisher: publisher,
	}
}

// CreateParty creates a party together with its initial roles and contacts in
// one transaction
func (s *Service) CreateParty(ctx context.Context, req CreatePartyRequest) (*PartyDetailResponse, error) {
	if err := validatePrimaryFlags(req.Contacts); err != nil {
		return nil, err
	}

	p, err := party.NewParty(req.DisplayName, req.LegalName, party.PartyType(req.PartyType))
	if err != nil {
		return nil, err
	}

	detail := party.WithDetails{Party: *p}
	events := p.GetDomainEvents()

	err = s.tx.Do(ctx, func(st party.Stores) error {
		if err := st.Parties.Save(ctx, p); err != nil {
			return err
		}

		for _, in := range req.Roles {
			role, err := s.buildRole(ctx, st, p.ID, in)
			if err != nil {
				return err
			}
			if err := st.Roles.Save(ctx, role); err != nil {
				return err
			}
			detail.Roles = append(detail.Roles, *role)
			events = append(events, party.NewRoleAddedEvent(role))
		}

		for _, in := range req.Contacts {
			contact, err := party.NewContact(p.ID, party.ContactType(in.Type), in.Value, in.Label, in.IsPrimary)
			if err != nil {
				return err
			}
			if err := st.Contacts.Save(ctx, contact); err != nil {
				return err
			}
			detail.Contacts = append(detail.Contacts, *contact)
		}
		if len(req.Contacts) > 0 {
			events = append(events, party.NewContactsChangedEvent(p.ID))
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	p.ClearDomainEvents()
	s.publish(ctx, events)

	resp := ToPartyDetailResponse(&detail)
	return &resp, nil
}

// GetParty retrieves a party with its roles, contacts and relationships
func (s *Service) GetParty(ctx context.Context, partyID uuid.UUID) (*PartyDetailResponse, error) {
	detail, err := s.loadDetails(ctx, partyID)
	if err != nil {
		return nil, err
	}

	resp := ToPartyDetailResponse(detail)
	return &resp, nil
}

// UpdateParty applies a partial update to the party's own fields
func (s *Service) UpdateParty(ctx context.Context, partyID uuid.UUID, req UpdatePartyRequest) (*PartyResponse, error) {
	var updated *party.Party
	var events []shared.DomainEvent

	err := s.tx.Do(ctx, func(st party.Stores) error {
		p, evs, err := s.updatePartyTx(ctx, st, partyID, req)
		if err != nil {
			return err
		}
		updated = p
		events = evs
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)

	resp := ToPartyResponse(updated)
	return &resp, nil
}

// updatePartyTx is the transactional step behind UpdateParty, shared with
// composite updates that fold several steps into one transaction
func (s *Service) updatePartyTx(ctx context.Context, st party.Stores, partyID uuid.UUID, req UpdatePartyRequest) (*party.Party, []shared.DomainEvent, error) {
	p, err := st.Parties.FindByID(ctx, partyID)
	if err != nil {
		return nil, nil, err
	}

	displayName := p.DisplayName
	if req.DisplayName != nil {
		displayName = *req.DisplayName
	}
	legalName := p.LegalName
	if req.LegalName != nil {
		legalName = *req.LegalName
	}
	if err := p.Rename(displayName, legalName); err != nil {
		return nil, nil, err
	}
	if err := st.Parties.Save(ctx, p); err != nil {
		return nil, nil, err
	}

	events := p.GetDomainEvents()
	p.ClearDomainEvents()
	return p, events, nil
}

// GetPartiesByRole returns all parties holding the given role type in the
// given tenant scope, with their roles and contacts
func (s *Service) GetPartiesByRole(ctx context.Context, roleType party.RoleType, tenantID *uuid.UUID) ([]party.WithDetails, error) {
	var roles []party.Role
	var err error
	if roleType.IsTenantScoped() {
		if tenantID == nil {
			return nil, shared.NewValidationError("Role type " + string(roleType) + " requires a tenant ID")
		}
		roles, err = s.stores.Roles.FindByTypeAndTenant(ctx, roleType, *tenantID)
	} else {
		roles, err = s.stores.Roles.FindGlobalByType(ctx, roleType)
	}
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return []party.WithDetails{}, nil
	}

	partyIDs := make([]uuid.UUID, 0, len(roles))
	rolesByParty := make(map[uuid.UUID][]party.Role, len(roles))
	for _, r := range roles {
		if _, seen := rolesByParty[r.PartyID]; !seen {
			partyIDs = append(partyIDs, r.PartyID)
		}
		rolesByParty[r.PartyID] = append(rolesByParty[r.PartyID], r)
	}

	parties, err := s.stores.Parties.FindByIDs(ctx, partyIDs)
	if err != nil {
		return nil, err
	}

	contacts, err := s.stores.Contacts.FindByParties(ctx, partyIDs)
	if err != nil {
		return nil, err
	}
	contactsByParty := make(map[uuid.UUID][]party.Contact)
	for _, c := range contacts {
		contactsByParty[c.PartyID] = append(contactsByParty[c.PartyID], c)
	}

	results := make([]party.WithDetails, 0, len(parties))
	for i := range parties {
		p := parties[i]
		results = append(results, party.WithDetails{
			Party:    p,
			Roles:    rolesByParty[p.ID],
			Contacts: contactsByParty[p.ID],
		})
	}
	return results, nil
}

// AddRole grants a role to an existing party. Duplicate (party, type, tenant)
// combinations are rejected with a conflict.
func (s *Service) AddRole(ctx context.Context, partyID uuid.UUID, in RoleInput) (*RoleResponse, error) {
	var role *party.Role

	err := s.tx.Do(ctx, func(st party.Stores) error {
		if _, err := st.Parties.FindByID(ctx, partyID); err != nil {
			return err
		}

		r, err := s.buildRole(ctx, st, partyID, in)
		if err != nil {
			return err
		}
		if err := st.Roles.Save(ctx, r); err != nil {
			return err
		}
		role = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, []shared.DomainEvent{party.NewRoleAddedEvent(role)})

	resp := ToRoleResponse(role)
	return &resp, nil
}

// RemoveRole revokes the party's role of the given type and tenant scope.
// The party itself survives; removing a tenant-scoped role is how tenant
// entities are retired.
func (s *Service) RemoveRole(ctx context.Context, partyID uuid.UUID, roleType party.RoleType, tenantID *uuid.UUID) error {
	var removed *party.Role

	err := s.tx.Do(ctx, func(st party.Stores) error {
		roles, err := st.Roles.FindByParty(ctx, partyID)
		if err != nil {
			return err
		}
		for i := range roles {
			if roles[i].Matches(roleType, tenantID) {
				removed = &roles[i]
				break
			}
		}
		if removed == nil {
			return shared.ErrNotFound
		}
		return st.Roles.Delete(ctx, removed.ID)
	})
	if err != nil {
		return err
	}

	s.publish(ctx, []shared.DomainEvent{party.NewRoleRemovedEvent(removed)})
	return nil
}

// HasRole reports whether the party holds the given role in the given tenant
// scope
func (s *Service) HasRole(ctx context.Context, partyID uuid.UUID, roleType party.RoleType, tenantID *uuid.UUID) (bool, error) {
	return s.stores.Roles.Exists(ctx, partyID, roleType, tenantID)
}

// MergeRoleMetadata merges the patch into the role's metadata document.
// Null-valued keys in the patch are removed.
func (s *Service) MergeRoleMetadata(ctx context.Context, roleID uuid.UUID, patch map[string]any) (*RoleResponse, error) {
	if len(patch) == 0 {
		return nil, shared.NewValidationError("Metadata patch cannot be empty")
	}

	var role *party.Role
	err := s.tx.Do(ctx, func(st party.Stores) error {
		r, err := s.mergeRoleMetadataTx(ctx, st, roleID, patch)
		if err != nil {
			return err
		}
		role = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := ToRoleResponse(role)
	return &resp, nil
}

// mergeRoleMetadataTx is the transactional step behind MergeRoleMetadata
func (s *Service) mergeRoleMetadataTx(ctx context.Context, st party.Stores, roleID uuid.UUID, patch map[string]any) (*party.Role, error) {
	r, err := st.Roles.FindByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if err := r.MergeMetadata(patch); err != nil {
		return nil, err
	}
	if err := st.Roles.Save(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// AddContact adds a contact channel to a party. When the new contact is
// primary, the previous primary of the same type loses the flag inside the
// same transaction.
func (s *Service) AddContact(ctx context.Context, partyID uuid.UUID, in ContactInput) (*ContactResponse, error) {
	var contact *party.Contact

	err := s.tx.Do(ctx, func(st party.Stores) error {
		if _, err := st.Parties.FindByID(ctx, partyID); err != nil {
			return err
		}

		c, err := party.NewContact(partyID, party.ContactType(in.Type), in.Value, in.Label, in.IsPrimary)
		if err != nil {
			return err
		}
		if c.IsPrimary {
			if err := st.Contacts.ClearPrimary(ctx, partyID, c.Type); err != nil {
				return err
			}
		}
		if err := st.Contacts.Save(ctx, c); err != nil {
			return err
		}
		contact = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, []shared.DomainEvent{party.NewContactsChangedEvent(partyID)})

	resp := ToContactResponse(contact)
	return &resp, nil
}

// UpdateContact updates a contact's value, label and primary flag
func (s *Service) UpdateContact(ctx context.Context, contactID uuid.UUID, in ContactInput) (*ContactResponse, error) {
	var contact *party.Contact

	err := s.tx.Do(ctx, func(st party.Stores) error {
		c, err := st.Contacts.FindByID(ctx, contactID)
		if err != nil {
			return err
		}
		if party.ContactType(in.Type) != c.Type {
			return shared.NewValidationError("Contact type cannot be changed")
		}
		if err := c.Update(in.Value, in.Label); err != nil {
			return err
		}
		if in.IsPrimary && !c.IsPrimary {
			if err := st.Contacts.ClearPrimary(ctx, c.PartyID, c.Type); err != nil {
				return err
			}
			c.MarkPrimary()
		} else if !in.IsPrimary && c.IsPrimary {
			c.ClearPrimary()
		}
		if err := st.Contacts.Save(ctx, c); err != nil {
			return err
		}
		contact = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, []shared.DomainEvent{party.NewContactsChangedEvent(contact.PartyID)})

	resp := ToContactResponse(contact)
	return &resp, nil
}

// DeleteContact removes a contact channel
func (s *Service) DeleteContact(ctx context.Context, contactID uuid.UUID) error {
	var partyID uuid.UUID

	err := s.tx.Do(ctx, func(st party.Stores) error {
		c, err := st.Contacts.FindByID(ctx, contactID)
		if err != nil {
			return err
		}
		partyID = c.PartyID
		return st.Contacts.Delete(ctx, contactID)
	})
	if err != nil {
		return err
	}

	s.publish(ctx, []shared.DomainEvent{party.NewContactsChangedEvent(partyID)})
	return nil
}

// ReplaceContacts replaces the party's contact set wholesale in one
// transaction
func (s *Service) ReplaceContacts(ctx context.Context, partyID uuid.UUID, inputs []ContactInput) ([]ContactResponse, error) {
	if err := validatePrimaryFlags(inputs); err != nil {
		return nil, err
	}

	var contacts []party.Contact

	err := s.tx.Do(ctx, func(st party.Stores) error {
		cs, err := s.replaceContactsTx(ctx, st, partyID, inputs)
		if err != nil {
			return err
		}
		contacts = cs
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, []shared.DomainEvent{party.NewContactsChangedEvent(partyID)})

	return ToContactResponses(contacts), nil
}

// replaceContactsTx is the transactional step behind ReplaceContacts. Callers
// validate primary flags before entering the transaction.
func (s *Service) replaceContactsTx(ctx context.Context, st party.Stores, partyID uuid.UUID, inputs []ContactInput) ([]party.Contact, error) {
	if _, err := st.Parties.FindByID(ctx, partyID); err != nil {
		return nil, err
	}
	if err := st.Contacts.DeleteByParty(ctx, partyID); err != nil {
		return nil, err
	}
	var contacts []party.Contact
	for _, in := range inputs {
		c, err := party.NewContact(partyID, party.ContactType(in.Type), in.Value, in.Label, in.IsPrimary)
		if err != nil {
			return nil, err
		}
		if err := st.Contacts.Save(ctx, c); err != nil {
			return nil, err
		}
		contacts = append(contacts, *c)
	}
	return contacts, nil
}

// CreateRelationship creates a directed relationship between two existing
// parties
func (s *Service) CreateRelationship(ctx context.Context, partyID, relatedPartyID uuid.UUID, relType party.RelationshipType) (*RelationshipResponse, error) {
	var rel *party.Relationship

	err := s.tx.Do(ctx, func(st party.Stores) error {
		if _, err := st.Parties.FindByID(ctx, partyID); err != nil {
			return err
		}
		if _, err := st.Parties.FindByID(ctx, relatedPartyID); err != nil {
			return err
		}

		r, err := party.NewRelationship(partyID, relatedPartyID, relType)
		if err != nil {
			return err
		}
		if err := st.Relationships.Save(ctx, r); err != nil {
			return err
		}
		rel = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := ToRelationshipResponse(rel)
	return &resp, nil
}

// DeleteParty deletes a party and cascades to all its roles, contacts and
// relationships (both directions) in one transaction. Partial cascade is a
// correctness bug; every owned row goes or none does.
func (s *Service) DeleteParty(ctx context.Context, partyID uuid.UUID) error {
	var removedRoles []party.Role

	err := s.tx.Do(ctx, func(st party.Stores) error {
		if _, err := st.Parties.FindByID(ctx, partyID); err != nil {
			return err
		}

		roles, err := st.Roles.FindByParty(ctx, partyID)
		if err != nil {
			return err
		}
		removedRoles = roles

		if err := st.Relationships.DeleteByParty(ctx, partyID); err != nil {
			return err
		}
		if err := st.Contacts.DeleteByParty(ctx, partyID); err != nil {
			return err
		}
		if err := st.Roles.DeleteByParty(ctx, partyID); err != nil {
			return err
		}
		return st.Parties.Delete(ctx, partyID)
	})
	if err != nil {
		return err
	}

	events := make([]shared.DomainEvent, 0, len(removedRoles)+1)
	for i := range removedRoles {
		events = append(events, party.NewRoleRemovedEvent(&removedRoles[i]))
	}
	events = append(events, party.NewPartyDeletedEvent(partyID))
	s.publish(ctx, events)

	return nil
}

// buildRole constructs and validates a role from input inside a transaction,
// enforcing (party, type, tenant) uniqueness
func (s *Service) buildRole(ctx context.Context, st party.Stores, partyID uuid.UUID, in RoleInput) (*party.Role, error) {
	roleType := party.RoleType(in.Type)
	role, err := party.NewRole(partyID, roleType, in.TenantID)
	if err != nil {
		return nil, err
	}

	exists, err := st.Roles.Exists(ctx, partyID, roleType, in.TenantID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewConflictError("Party already has this role in this tenant")
	}

	if len(in.Metadata) > 0 {
		if err := role.MergeMetadata(in.Metadata); err != nil {
			return nil, err
		}
	}
	return role, nil
}

func (s *Service) loadDetails(ctx context.Context, partyID uuid.UUID) (*party.WithDetails, error) {
	p, err := s.stores.Parties.FindByID(ctx, partyID)
	if err != nil {
		return nil, err
	}

	roles, err := s.stores.Roles.FindByParty(ctx, partyID)
	if err != nil {
		return nil, err
	}
	contacts, err := s.stores.Contacts.FindByParty(ctx, partyID)
	if err != nil {
		return nil, err
	}
	relationships, err := s.stores.Relationships.FindByParty(ctx, partyID)
	if err != nil {
		return nil, err
	}

	return &party.WithDetails{
		Party:         *p,
		Roles:         roles,
		Contacts:      contacts,
		Relationships: relationships,
	}, nil
}

// publish dispatches committed events. Mirror and other subscribers run
// best-effort; their failure never fails the primary operation.
func (s *Service) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		logger.FromContext(ctx).Warn("failed to publish domain events", zap.Error(err))
	}
}

// validatePrimaryFlags rejects contact sets flagging two primaries of the
// same type
func validatePrimaryFlags(inputs []ContactInput) error {
	primaries := make(map[string]bool)
	for _, in := range inputs {
		if !in.IsPrimary {
			continue
		}
		if primaries[in.Type] {
			return shared.NewValidationError("Only one contact per type can be primary")
		}
		primaries[in.Type] = true
	}
	return nil
}

// IsNotFound reports whether the error is the not-found sentinel or a
// NOT_FOUND domain error
func IsNotFound(err error) bool {
	if errors.Is(err, shared.ErrNotFound) {
		return true
	}
	var domainErr *shared.DomainError
	return errors.As(err, &domainErr) && domainErr.Code == "NOT_FOUND"
}
