package party

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParty(t *testing.T) {
	t.Run("creates person party with valid inputs", func(t *testing.T) {
		p, err := NewParty("Jane Doe", "", PartyTypePerson)
		require.NoError(t, err)
		require.NotNil(t, p)

		assert.Equal(t, "Jane Doe", p.DisplayName)
		assert.Empty(t, p.LegalName)
		assert.Equal(t, PartyTypePerson, p.Type)
		assert.True(t, p.IsPerson())
		assert.False(t, p.IsOrganization())
		assert.NotEmpty(t, p.ID)
		assert.Equal(t, 1, p.Version)
	})

	t.Run("creates organization party with legal name", func(t *testing.T) {
		p, err := NewParty("Green Acres", "Green Acres Farming Ltd.", PartyTypeOrganization)
		require.NoError(t, err)

		assert.Equal(t, "Green Acres Farming Ltd.", p.LegalName)
		assert.True(t, p.IsOrganization())
	})

	t.Run("publishes PartyCreated event", func(t *testing.T) {
		p, err := NewParty("Jane Doe", "", PartyTypePerson)
		require.NoError(t, err)

		events := p.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypePartyCreated, events[0].EventType())
		assert.Equal(t, p.ID, events[0].AggregateID())
	})

	t.Run("fails with empty display name", func(t *testing.T) {
		_, err := NewParty("", "", PartyTypePerson)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Display name cannot be empty")
	})

	t.Run("fails with display name too long", func(t *testing.T) {
		_, err := NewParty(strings.Repeat("a", 201), "", PartyTypePerson)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed 200 characters")
	})

	t.Run("fails with legal name too long", func(t *testing.T) {
		_, err := NewParty("Jane Doe", strings.Repeat("a", 201), PartyTypePerson)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed 200 characters")
	})

	t.Run("fails with invalid party type", func(t *testing.T) {
		_, err := NewParty("Jane Doe", "", PartyType("ROBOT"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "PERSON")
	})
}

func TestPartyRename(t *testing.T) {
	t.Run("updates names and bumps version", func(t *testing.T) {
		p, err := NewParty("Jane Doe", "", PartyTypePerson)
		require.NoError(t, err)
		p.ClearDomainEvents()

		err = p.Rename("Jane Smith", "Jane Smith Holdings")
		require.NoError(t, err)

		assert.Equal(t, "Jane Smith", p.DisplayName)
		assert.Equal(t, "Jane Smith Holdings", p.LegalName)
		assert.Equal(t, 2, p.Version)

		events := p.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypePartyUpdated, events[0].EventType())
	})

	t.Run("rejects empty display name", func(t *testing.T) {
		p, err := NewParty("Jane Doe", "", PartyTypePerson)
		require.NoError(t, err)

		err = p.Rename("", "")
		require.Error(t, err)
		assert.Equal(t, "Jane Doe", p.DisplayName)
	})
}
