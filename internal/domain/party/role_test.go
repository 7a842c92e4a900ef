package party

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleTypeIsTenantScoped(t *testing.T) {
	assert.True(t, RoleTypeFarm.IsTenantScoped())
	assert.True(t, RoleTypeCustomerB2B.IsTenantScoped())
	assert.True(t, RoleTypeCustomerB2C.IsTenantScoped())
	assert.True(t, RoleTypeSupplier.IsTenantScoped())
	assert.True(t, RoleTypeDistributor.IsTenantScoped())
	assert.True(t, RoleTypeEmployee.IsTenantScoped())
	assert.False(t, RoleTypeUser.IsTenantScoped())
	assert.False(t, RoleTypeSystemAdmin.IsTenantScoped())
}

func TestNewRole(t *testing.T) {
	partyID := uuid.New()
	tenantID := uuid.New()

	t.Run("creates tenant-scoped role", func(t *testing.T) {
		role, err := NewRole(partyID, RoleTypeCustomerB2B, &tenantID)
		require.NoError(t, err)
		require.NotNil(t, role)

		assert.Equal(t, partyID, role.PartyID)
		assert.Equal(t, RoleTypeCustomerB2B, role.Type)
		require.NotNil(t, role.TenantID)
		assert.Equal(t, tenantID, *role.TenantID)
		assert.Equal(t, "{}", role.Metadata)
	})

	t.Run("creates global user role", func(t *testing.T) {
		role, err := NewRole(partyID, RoleTypeUser, nil)
		require.NoError(t, err)
		assert.Nil(t, role.TenantID)
	})

	t.Run("fails when tenant-scoped role has no tenant", func(t *testing.T) {
		_, err := NewRole(partyID, RoleTypeCustomerB2B, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "requires a tenant ID")
	})

	t.Run("fails when tenant-scoped role has nil-uuid tenant", func(t *testing.T) {
		nilID := uuid.Nil
		_, err := NewRole(partyID, RoleTypeFarm, &nilID)
		require.Error(t, err)
	})

	t.Run("fails when global role carries a tenant", func(t *testing.T) {
		_, err := NewRole(partyID, RoleTypeSystemAdmin, &tenantID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "global")
	})

	t.Run("fails with invalid role type", func(t *testing.T) {
		_, err := NewRole(partyID, RoleType("WIZARD"), &tenantID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid role type")
	})
}

func TestRoleMatches(t *testing.T) {
	partyID := uuid.New()
	tenantA := uuid.New()
	tenantB := uuid.New()

	scoped, err := NewRole(partyID, RoleTypeSupplier, &tenantA)
	require.NoError(t, err)
	global, err := NewRole(partyID, RoleTypeUser, nil)
	require.NoError(t, err)

	assert.True(t, scoped.Matches(RoleTypeSupplier, &tenantA))
	assert.False(t, scoped.Matches(RoleTypeSupplier, &tenantB))
	assert.False(t, scoped.Matches(RoleTypeSupplier, nil))
	assert.False(t, scoped.Matches(RoleTypeCustomerB2B, &tenantA))

	assert.True(t, global.Matches(RoleTypeUser, nil))
	assert.False(t, global.Matches(RoleTypeUser, &tenantA))
}

func TestRoleSetMetadata(t *testing.T) {
	tenantID := uuid.New()
	role, err := NewRole(uuid.New(), RoleTypeCustomerB2B, &tenantID)
	require.NoError(t, err)

	t.Run("accepts a JSON object", func(t *testing.T) {
		err := role.SetMetadata(`{"tax_id": "DE123456"}`)
		require.NoError(t, err)
		assert.JSONEq(t, `{"tax_id": "DE123456"}`, role.Metadata)
	})

	t.Run("empty string resets to empty object", func(t *testing.T) {
		err := role.SetMetadata("")
		require.NoError(t, err)
		assert.Equal(t, "{}", role.Metadata)
	})

	t.Run("rejects invalid JSON", func(t *testing.T) {
		err := role.SetMetadata(`{"tax_id": `)
		require.Error(t, err)
	})

	t.Run("rejects non-object JSON", func(t *testing.T) {
		err := role.SetMetadata(`[1, 2, 3]`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JSON object")
	})
}

func TestRoleMergeMetadata(t *testing.T) {
	tenantID := uuid.New()

	newCustomerRole := func(t *testing.T) *Role {
		role, err := NewRole(uuid.New(), RoleTypeCustomerB2C, &tenantID)
		require.NoError(t, err)
		require.NoError(t, role.SetMetadata(`{"tax_id": "DE123", "notes": "vip"}`))
		return role
	}

	t.Run("merges new keys and preserves existing ones", func(t *testing.T) {
		role := newCustomerRole(t)

		err := role.MergeMetadata(map[string]any{"payment_terms": "NET30"})
		require.NoError(t, err)

		var doc map[string]any
		require.NoError(t, json.Unmarshal([]byte(role.Metadata), &doc))
		assert.Equal(t, "DE123", doc["tax_id"])
		assert.Equal(t, "vip", doc["notes"])
		assert.Equal(t, "NET30", doc["payment_terms"])
	})

	t.Run("null value removes the key", func(t *testing.T) {
		role := newCustomerRole(t)

		err := role.MergeMetadata(map[string]any{"notes": nil})
		require.NoError(t, err)

		var doc map[string]any
		require.NoError(t, json.Unmarshal([]byte(role.Metadata), &doc))
		assert.Equal(t, "DE123", doc["tax_id"])
		assert.NotContains(t, doc, "notes")
	})
}
