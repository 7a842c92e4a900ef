package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/agribase/backend/internal/domain/party"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormContactRepository_FindByParties(t *testing.T) {
	t.Run("loads contacts for multiple parties in one query", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormContactRepository(db)

		party1, party2 := uuid.New(), uuid.New()
		now := time.Now()

		rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at", "party_id", "type", "label", "value", "is_primary"}).
			AddRow(uuid.New(), now, now, party1, "EMAIL", "", "a@example.com", true).
			AddRow(uuid.New(), now, now, party2, "PHONE", "office", "555-0101", true)

		mock.ExpectQuery(`SELECT \* FROM "party_contacts" WHERE party_id IN \(\$1,\$2\) ORDER BY created_at ASC`).
			WithArgs(party1, party2).
			WillReturnRows(rows)

		contacts, err := repo.FindByParties(context.Background(), []uuid.UUID{party1, party2})

		assert.NoError(t, err)
		require.Len(t, contacts, 2)
		assert.Equal(t, party.ContactTypeEmail, contacts[0].Type)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty party list short circuits", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormContactRepository(db)

		contacts, err := repo.FindByParties(context.Background(), nil)

		assert.NoError(t, err)
		assert.Empty(t, contacts)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormContactRepository_ClearPrimary(t *testing.T) {
	t.Run("demotes existing primaries of the same type", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormContactRepository(db)

		partyID := uuid.New()

		mock.ExpectExec(`UPDATE "party_contacts" SET "is_primary"=\$1,"updated_at"=\$2 WHERE party_id = \$3 AND type = \$4 AND is_primary = \$5`).
			WithArgs(false, sqlmock.AnyArg(), partyID, "EMAIL", true).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.ClearPrimary(context.Background(), partyID, party.ContactTypeEmail)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nothing to demote is not an error", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormContactRepository(db)

		partyID := uuid.New()

		mock.ExpectExec(`UPDATE "party_contacts" SET "is_primary"=\$1,"updated_at"=\$2 WHERE party_id = \$3 AND type = \$4 AND is_primary = \$5`).
			WithArgs(false, sqlmock.AnyArg(), partyID, "ADDRESS", true).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.ClearPrimary(context.Background(), partyID, party.ContactTypeAddress)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
