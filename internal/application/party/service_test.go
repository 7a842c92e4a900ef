package party

import (
	"context"
	"testing"

	"github.com/agribase/backend/internal/domain/party"
	"github.com/agribase/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestServiceCreateParty(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("creates party with role and contacts in one transaction", func(t *testing.T) {
		f := newServiceFixture()

		f.parties.On("Save", ctx, mock.AnythingOfType("*party.Party")).Return(nil)
		f.roles.On("Exists", ctx, mock.AnythingOfType("uuid.UUID"), party.RoleTypeCustomerB2B, &tenantID).Return(false, nil)
		f.roles.On("Save", ctx, mock.AnythingOfType("*party.Role")).Return(nil)
		f.contacts.On("Save", ctx, mock.AnythingOfType("*party.Contact")).Return(nil)

		resp, err := f.service.CreateParty(ctx, CreatePartyRequest{
			DisplayName: "Green Valley Grocery",
			PartyType:   "ORGANIZATION",
			Roles: []RoleInput{{
				Type:     "CUSTOMER_B2B",
				TenantID: &tenantID,
				Metadata: map[string]any{"tax_id": "DE123"},
			}},
			Contacts: []ContactInput{
				{Type: "EMAIL", Value: "orders@gv.com", IsPrimary: true},
				{Type: "PHONE", Value: "555-0101"},
			},
		})
		require.NoError(t, err)
		require.NotNil(t, resp)

		assert.Equal(t, "Green Valley Grocery", resp.Party.DisplayName)
		require.Len(t, resp.Roles, 1)
		assert.Equal(t, "CUSTOMER_B2B", resp.Roles[0].Type)
		assert.JSONEq(t, `{"tax_id": "DE123"}`, string(resp.Roles[0].Metadata))
		require.Len(t, resp.Contacts, 2)

		assert.Equal(t, []string{
			party.EventTypePartyCreated,
			party.EventTypeRoleAdded,
			party.EventTypeContactsSet,
		}, f.publisher.eventTypes())
	})

	t.Run("rejects duplicate role with conflict", func(t *testing.T) {
		f := newServiceFixture()

		f.parties.On("Save", ctx, mock.Anything).Return(nil)
		f.roles.On("Exists", ctx, mock.Anything, party.RoleTypeFarm, &tenantID).Return(true, nil)

		_, err := f.service.CreateParty(ctx, CreatePartyRequest{
			DisplayName: "Sunny Farm",
			PartyType:   "ORGANIZATION",
			Roles:       []RoleInput{{Type: "FARM", TenantID: &tenantID}},
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CONFLICT", domainErr.Code)
		assert.Empty(t, f.publisher.Events)
	})

	t.Run("rejects two primary contacts of the same type", func(t *testing.T) {
		f := newServiceFixture()

		_, err := f.service.CreateParty(ctx, CreatePartyRequest{
			DisplayName: "Jane Doe",
			PartyType:   "PERSON",
			Contacts: []ContactInput{
				{Type: "EMAIL", Value: "a@example.com", IsPrimary: true},
				{Type: "EMAIL", Value: "b@example.com", IsPrimary: true},
			},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Only one contact per type can be primary")
		f.parties.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("publishes no events when the transaction fails", func(t *testing.T) {
		f := newServiceFixture()

		f.parties.On("Save", ctx, mock.Anything).Return(assert.AnError)

		_, err := f.service.CreateParty(ctx, CreatePartyRequest{
			DisplayName: "Jane Doe",
			PartyType:   "PERSON",
		})
		require.Error(t, err)
		assert.Empty(t, f.publisher.Events)
	})
}

func TestServiceAddRole(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	p, _ := party.NewParty("Jane Doe", "", party.PartyTypePerson)

	t.Run("adds role to existing party", func(t *testing.T) {
		f := newServiceFixture()

		f.parties.On("FindByID", ctx, p.ID).Return(p, nil)
		f.roles.On("Exists", ctx, p.ID, party.RoleTypeEmployee, &tenantID).Return(false, nil)
		f.roles.On("Save", ctx, mock.AnythingOfType("*party.Role")).Return(nil)

		resp, err := f.service.AddRole(ctx, p.ID, RoleInput{Type: "EMPLOYEE", TenantID: &tenantID})
		require.NoError(t, err)
		assert.Equal(t, "EMPLOYEE", resp.Type)
		assert.Equal(t, []string{party.EventTypeRoleAdded}, f.publisher.eventTypes())
	})

	t.Run("fails when party does not exist", func(t *testing.T) {
		f := newServiceFixture()

		f.parties.On("FindByID", ctx, p.ID).Return(nil, shared.ErrNotFound)

		_, err := f.service.AddRole(ctx, p.ID, RoleInput{Type: "EMPLOYEE", TenantID: &tenantID})
		require.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestServiceRemoveRole(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	partyID := uuid.New()

	t.Run("removes the matching role only", func(t *testing.T) {
		f := newServiceFixture()

		customer, _ := party.NewRole(partyID, party.RoleTypeCustomerB2B, &tenantID)
		user, _ := party.NewRole(partyID, party.RoleTypeUser, nil)

		f.roles.On("FindByParty", ctx, partyID).Return([]party.Role{*user, *customer}, nil)
		f.roles.On("Delete", ctx, customer.ID).Return(nil)

		err := f.service.RemoveRole(ctx, partyID, party.RoleTypeCustomerB2B, &tenantID)
		require.NoError(t, err)

		f.roles.AssertCalled(t, "Delete", ctx, customer.ID)
		assert.Equal(t, []string{party.EventTypeRoleRemoved}, f.publisher.eventTypes())
	})

	t.Run("not found when no role matches the tenant", func(t *testing.T) {
		f := newServiceFixture()

		otherTenant := uuid.New()
		customer, _ := party.NewRole(partyID, party.RoleTypeCustomerB2B, &otherTenant)
		f.roles.On("FindByParty", ctx, partyID).Return([]party.Role{*customer}, nil)

		err := f.service.RemoveRole(ctx, partyID, party.RoleTypeCustomerB2B, &tenantID)
		require.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestServiceAddContact(t *testing.T) {
	ctx := context.Background()
	p, _ := party.NewParty("Jane Doe", "", party.PartyTypePerson)

	t.Run("primary contact clears previous primary in the same transaction", func(t *testing.T) {
		f := newServiceFixture()

		f.parties.On("FindByID", ctx, p.ID).Return(p, nil)
		f.contacts.On("ClearPrimary", ctx, p.ID, party.ContactTypeEmail).Return(nil)
		f.contacts.On("Save", ctx, mock.AnythingOfType("*party.Contact")).Return(nil)

		resp, err := f.service.AddContact(ctx, p.ID, ContactInput{
			Type: "EMAIL", Value: "jane@example.com", IsPrimary: true,
		})
		require.NoError(t, err)
		assert.True(t, resp.IsPrimary)

		f.contacts.AssertCalled(t, "ClearPrimary", ctx, p.ID, party.ContactTypeEmail)
	})

	t.Run("non-primary contact does not touch primary flags", func(t *testing.T) {
		f := newServiceFixture()

		f.parties.On("FindByID", ctx, p.ID).Return(p, nil)
		f.contacts.On("Save", ctx, mock.AnythingOfType("*party.Contact")).Return(nil)

		_, err := f.service.AddContact(ctx, p.ID, ContactInput{
			Type: "PHONE", Value: "555-0101",
		})
		require.NoError(t, err)

		f.contacts.AssertNotCalled(t, "ClearPrimary", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestServiceDeleteParty(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	p, _ := party.NewParty("Green Valley", "", party.PartyTypeOrganization)

	t.Run("cascades roles contacts and relationships", func(t *testing.T) {
		f := newServiceFixture()

		role, _ := party.NewRole(p.ID, party.RoleTypeCustomerB2B, &tenantID)
		f.parties.On("FindByID", ctx, p.ID).Return(p, nil)
		f.roles.On("FindByParty", ctx, p.ID).Return([]party.Role{*role}, nil)
		f.relationships.On("DeleteByParty", ctx, p.ID).Return(nil)
		f.contacts.On("DeleteByParty", ctx, p.ID).Return(nil)
		f.roles.On("DeleteByParty", ctx, p.ID).Return(nil)
		f.parties.On("Delete", ctx, p.ID).Return(nil)

		err := f.service.DeleteParty(ctx, p.ID)
		require.NoError(t, err)

		f.relationships.AssertCalled(t, "DeleteByParty", ctx, p.ID)
		f.contacts.AssertCalled(t, "DeleteByParty", ctx, p.ID)
		f.roles.AssertCalled(t, "DeleteByParty", ctx, p.ID)
		f.parties.AssertCalled(t, "Delete", ctx, p.ID)

		assert.Equal(t, []string{
			party.EventTypeRoleRemoved,
			party.EventTypePartyDeleted,
		}, f.publisher.eventTypes())
	})

	t.Run("aborts cascade when a step fails", func(t *testing.T) {
		f := newServiceFixture()

		f.parties.On("FindByID", ctx, p.ID).Return(p, nil)
		f.roles.On("FindByParty", ctx, p.ID).Return([]party.Role{}, nil)
		f.relationships.On("DeleteByParty", ctx, p.ID).Return(assert.AnError)

		err := f.service.DeleteParty(ctx, p.ID)
		require.Error(t, err)

		f.parties.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		assert.Empty(t, f.publisher.Events)
	})
}

func TestServiceGetPartiesByRole(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("assembles parties with roles and contacts", func(t *testing.T) {
		f := newServiceFixture()

		p, _ := party.NewParty("Green Valley", "", party.PartyTypeOrganization)
		role, _ := party.NewRole(p.ID, party.RoleTypeCustomerB2B, &tenantID)
		contact, _ := party.NewContact(p.ID, party.ContactTypeEmail, "orders@gv.com", "", true)

		f.roles.On("FindByTypeAndTenant", ctx, party.RoleTypeCustomerB2B, tenantID).Return([]party.Role{*role}, nil)
		f.parties.On("FindByIDs", ctx, []uuid.UUID{p.ID}).Return([]party.Party{*p}, nil)
		f.contacts.On("FindByParties", ctx, []uuid.UUID{p.ID}).Return([]party.Contact{*contact}, nil)

		details, err := f.service.GetPartiesByRole(ctx, party.RoleTypeCustomerB2B, &tenantID)
		require.NoError(t, err)
		require.Len(t, details, 1)
		assert.Equal(t, p.ID, details[0].Party.ID)
		require.Len(t, details[0].Contacts, 1)
		assert.Equal(t, "orders@gv.com", details[0].Contacts[0].Value)
	})

	t.Run("tenant-scoped lookup without tenant is rejected", func(t *testing.T) {
		f := newServiceFixture()

		_, err := f.service.GetPartiesByRole(ctx, party.RoleTypeCustomerB2B, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "requires a tenant ID")
	})

	t.Run("global role lookup ignores tenant", func(t *testing.T) {
		f := newServiceFixture()

		f.roles.On("FindGlobalByType", ctx, party.RoleTypeUser).Return([]party.Role{}, nil)

		details, err := f.service.GetPartiesByRole(ctx, party.RoleTypeUser, nil)
		require.NoError(t, err)
		assert.Empty(t, details)
	})
}

func TestServiceHasRole(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	partyID := uuid.New()

	f := newServiceFixture()
	f.roles.On("Exists", ctx, partyID, party.RoleTypeFarm, &tenantID).Return(true, nil)

	has, err := f.service.HasRole(ctx, partyID, party.RoleTypeFarm, &tenantID)
	require.NoError(t, err)
	assert.True(t, has)
}
