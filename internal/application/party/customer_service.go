package party

import (
	"context"
	"sort"
	"strings"

	"github.com/agribase/backend/internal/domain/legacy"
	"github.com/agribase/backend/internal/domain/party"
	"github.com/agribase/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerService composes party operations into the customer endpoint
// semantics: tenant-scoped listings with order aggregates, create/update with
// contacts and role metadata, and the delete guard against parties with
// outstanding orders.
type CustomerService struct {
	parties *Service
	orders  legacy.OrderRepository
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(parties *Service, orders legacy.OrderRepository) *CustomerService {
	return &CustomerService{
		parties: parties,
		orders:  orders,
	}
}

// List returns the tenant's customer parties with contact shortcuts and order
// aggregates. Only CUSTOMER_B2B and CUSTOMER_B2C roles scoped to the tenant
// are visible.
func (s *CustomerService) List(ctx context.Context, tenantID uuid.UUID, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	roleTypes := []party.RoleType{party.RoleTypeCustomerB2B, party.RoleTypeCustomerB2C}
	if filter.RoleType != "" {
		roleTypes = []party.RoleType{party.RoleType(filter.RoleType)}
	}

	var details []party.WithDetails
	for _, rt := range roleTypes {
		batch, err := s.parties.GetPartiesByRole(ctx, rt, &tenantID)
		if err != nil {
			return nil, 0, err
		}
		details = append(details, batch...)
	}

	if filter.Search != "" {
		details = filterBySearch(details, filter.Search)
	}
	sortByDisplayName(details, filter.OrderDir == "desc")

	total := int64(len(details))
	details = paginate(details, filter.Page, filter.PageSize)

	partyIDs := make([]uuid.UUID, len(details))
	for i := range details {
		partyIDs[i] = details[i].Party.ID
	}
	aggregates, err := s.orders.AggregateByCustomerParties(ctx, partyIDs, tenantID)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CustomerResponse, 0, len(details))
	for i := range details {
		responses = append(responses, s.toCustomerResponse(&details[i], &tenantID, aggregates[details[i].Party.ID]))
	}
	return responses, total, nil
}

// Create creates a customer party with its role and contacts and mirrors it
// to the legacy customer table via the sync adapter
func (s *CustomerService) Create(ctx context.Context, tenantID uuid.UUID, req CreateCustomerRequest) (*CustomerResponse, error) {
	roleType := party.RoleType(req.RoleType)
	if !roleType.IsCustomer() {
		return nil, shared.NewValidationError("Role type must be CUSTOMER_B2B or CUSTOMER_B2C")
	}

	detail, err := s.parties.CreateParty(ctx, CreatePartyRequest{
		DisplayName: req.DisplayName,
		LegalName:   req.LegalName,
		PartyType:   req.PartyType,
		Roles: []RoleInput{{
			Type:     req.RoleType,
			TenantID: &tenantID,
			Metadata: req.Metadata,
		}},
		Contacts: req.Contacts,
	})
	if err != nil {
		return nil, err
	}

	return s.get(ctx, tenantID, detail.Party.ID)
}

// Get returns one customer with its aggregates. Parties without a customer
// role in the caller's tenant are not found, regardless of what roles they
// hold elsewhere.
func (s *CustomerService) Get(ctx context.Context, tenantID, partyID uuid.UUID) (*CustomerResponse, error) {
	return s.get(ctx, tenantID, partyID)
}

// Update applies a partial customer update: party fields, wholesale contact
// replacement, role metadata merge. The steps run in a single transaction so a
// failed step never leaves a half-applied customer behind.
func (s *CustomerService) Update(ctx context.Context, tenantID, partyID uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	current, err := s.requireCustomer(ctx, tenantID, partyID)
	if err != nil {
		return nil, err
	}
	if req.Contacts != nil {
		if err := validatePrimaryFlags(*req.Contacts); err != nil {
			return nil, err
		}
	}

	var events []shared.DomainEvent
	err = s.parties.tx.Do(ctx, func(st party.Stores) error {
		events = events[:0]

		if req.DisplayName != nil || req.LegalName != nil {
			_, evs, err := s.parties.updatePartyTx(ctx, st, partyID, UpdatePartyRequest{
				DisplayName: req.DisplayName,
				LegalName:   req.LegalName,
			})
			if err != nil {
				return err
			}
			events = append(events, evs...)
		}

		if req.Contacts != nil {
			if _, err := s.parties.replaceContactsTx(ctx, st, partyID, *req.Contacts); err != nil {
				return err
			}
			events = append(events, party.NewContactsChangedEvent(partyID))
		}

		if len(req.Metadata) > 0 {
			role := customerRole(current, &tenantID)
			if _, err := s.parties.mergeRoleMetadataTx(ctx, st, role.ID, req.Metadata); err != nil {
				return err
			}
			// role metadata feeds the mirrored payment columns, so a
			// metadata-only update still needs a refresh event
			if len(events) == 0 {
				events = append(events, party.NewPartyUpdatedEvent(&current.Party))
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.parties.publish(ctx, events)

	return s.get(ctx, tenantID, partyID)
}

// Delete removes the customer's tenant-scoped role and the mirrored legacy
// row. Customers with orders in the tenant cannot be deleted; the caller is
// expected to archive instead. When the removal leaves the party roleless the
// party is cascade-deleted so no contacts linger.
func (s *CustomerService) Delete(ctx context.Context, tenantID, partyID uuid.UUID) error {
	detail, err := s.requireCustomer(ctx, tenantID, partyID)
	if err != nil {
		return err
	}

	count, err := s.orders.CountByCustomerParty(ctx, partyID, tenantID)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewValidationError("Customer has existing orders; archive instead of delete")
	}

	role := customerRole(detail, &tenantID)
	if err := s.parties.RemoveRole(ctx, partyID, role.Type, &tenantID); err != nil {
		return err
	}

	if len(detail.Roles) == 1 {
		return s.parties.DeleteParty(ctx, partyID)
	}
	return nil
}

func (s *CustomerService) get(ctx context.Context, tenantID, partyID uuid.UUID) (*CustomerResponse, error) {
	detail, err := s.requireCustomer(ctx, tenantID, partyID)
	if err != nil {
		return nil, err
	}

	aggregates, err := s.orders.AggregateByCustomerParties(ctx, []uuid.UUID{partyID}, tenantID)
	if err != nil {
		return nil, err
	}

	resp := s.toCustomerResponse(detail, &tenantID, aggregates[partyID])
	return &resp, nil
}

// requireCustomer loads the party and verifies it holds a customer role in
// the tenant, returning not-found otherwise
func (s *CustomerService) requireCustomer(ctx context.Context, tenantID, partyID uuid.UUID) (*party.WithDetails, error) {
	detail, err := s.parties.loadDetails(ctx, partyID)
	if err != nil {
		return nil, err
	}
	if customerRole(detail, &tenantID) == nil {
		return nil, shared.ErrNotFound
	}
	return detail, nil
}

func (s *CustomerService) toCustomerResponse(d *party.WithDetails, tenantID *uuid.UUID, agg legacy.OrderAggregate) CustomerResponse {
	resp := CustomerResponse{
		Party:        ToPartyResponse(&d.Party),
		Contacts:     ToContactResponses(d.Contacts),
		TotalOrders:  agg.TotalOrders,
		TotalRevenue: agg.TotalRevenue,
	}
	if resp.TotalRevenue.IsZero() {
		resp.TotalRevenue = decimal.Zero
	}
	resp.LastOrderDate = agg.LastOrderDate

	if role := customerRole(d, tenantID); role != nil {
		resp.Role = ToRoleResponse(role)
	}
	if c := d.PrimaryContact(party.ContactTypeEmail); c != nil {
		resp.PrimaryEmail = c.Value
	}
	if c := d.PrimaryContact(party.ContactTypePhone); c != nil {
		resp.PrimaryPhone = c.Value
	}
	if c := d.PrimaryContact(party.ContactTypeAddress); c != nil {
		resp.PrimaryAddress = c.Value
	}
	return resp
}

// customerRole returns the party's customer role in the given tenant, or nil
func customerRole(d *party.WithDetails, tenantID *uuid.UUID) *party.Role {
	if r := d.RoleOfType(party.RoleTypeCustomerB2B, tenantID); r != nil {
		return r
	}
	return d.RoleOfType(party.RoleTypeCustomerB2C, tenantID)
}

func filterBySearch(details []party.WithDetails, search string) []party.WithDetails {
	needle := strings.ToLower(search)
	out := details[:0]
	for _, d := range details {
		if strings.Contains(strings.ToLower(d.Party.DisplayName), needle) ||
			strings.Contains(strings.ToLower(d.Party.LegalName), needle) {
			out = append(out, d)
		}
	}
	return out
}

func sortByDisplayName(details []party.WithDetails, desc bool) {
	sort.SliceStable(details, func(i, j int) bool {
		if desc {
			return details[i].Party.DisplayName > details[j].Party.DisplayName
		}
		return details[i].Party.DisplayName < details[j].Party.DisplayName
	})
}

func paginate(details []party.WithDetails, page, pageSize int) []party.WithDetails {
	start := (page - 1) * pageSize
	if start >= len(details) {
		return nil
	}
	end := start + pageSize
	if end > len(details) {
		end = len(details)
	}
	return details[start:end]
}
