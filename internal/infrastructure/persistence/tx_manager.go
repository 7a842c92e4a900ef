package persistence

import (
	"context"

	"github.com/agribase/backend/internal/domain/party"
	"gorm.io/gorm"
)

// GormTxManager implements party.TxManager by binding all four party stores
// to a single GORM transaction
type GormTxManager struct {
	db *gorm.DB
}

// NewGormTxManager creates a new GormTxManager
func NewGormTxManager(db *gorm.DB) *GormTxManager {
	return &GormTxManager{db: db}
}

// Do runs fn inside one database transaction. Every store handed to fn is
// bound to that transaction; an error from fn rolls everything back.
func (m *GormTxManager) Do(ctx context.Context, fn func(stores party.Stores) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStores(tx))
	})
}

// NewStores builds the party store set on top of the given DB handle.
// Pass a transaction handle to get transaction-bound stores.
func NewStores(db *gorm.DB) party.Stores {
	return party.Stores{
		Parties:       NewGormPartyRepository(db),
		Roles:         NewGormRoleRepository(db),
		Contacts:      NewGormContactRepository(db),
		Relationships: NewGormRelationshipRepository(db),
	}
}

// Ensure GormTxManager implements TxManager
var _ party.TxManager = (*GormTxManager)(nil)
