package persistence

import (
	"context"
	"errors"

	"github.com/agribase/backend/internal/domain/party"
	"github.com/agribase/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormContactRepository implements party.ContactRepository using GORM
type GormContactRepository struct {
	db *gorm.DB
}

// NewGormContactRepository creates a new GormContactRepository
func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

// FindByID finds a contact by its ID
func (r *GormContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*party.Contact, error) {
	var contact party.Contact
	if err := r.db.WithContext(ctx).First(&contact, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &contact, nil
}

// FindByParty finds all contacts owned by a party
func (r *GormContactRepository) FindByParty(ctx context.Context, partyID uuid.UUID) ([]party.Contact, error) {
	var contacts []party.Contact
	if err := r.db.WithContext(ctx).
		Where("party_id = ?", partyID).
		Order("created_at ASC").
		Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

// FindByParties finds contacts for multiple parties in one query
func (r *GormContactRepository) FindByParties(ctx context.Context, partyIDs []uuid.UUID) ([]party.Contact, error) {
	if len(partyIDs) == 0 {
		return []party.Contact{}, nil
	}

	var contacts []party.Contact
	if err := r.db.WithContext(ctx).
		Where("party_id IN ?", partyIDs).
		Order("created_at ASC").
		Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

// ClearPrimary removes the primary flag from all of a party's contacts of the
// given type. Called inside the same transaction that promotes a new primary.
func (r *GormContactRepository) ClearPrimary(ctx context.Context, partyID uuid.UUID, contactType party.ContactType) error {
	return r.db.WithContext(ctx).
		Model(&party.Contact{}).
		Where("party_id = ? AND type = ? AND is_primary = ?", partyID, contactType, true).
		Update("is_primary", false).Error
}

// Save creates or updates a contact
func (r *GormContactRepository) Save(ctx context.Context, contact *party.Contact) error {
	return r.db.WithContext(ctx).Save(contact).Error
}

// Delete deletes a contact
func (r *GormContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&party.Contact{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteByParty deletes all contacts owned by a party
func (r *GormContactRepository) DeleteByParty(ctx context.Context, partyID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&party.Contact{}, "party_id = ?", partyID).Error
}

// Ensure GormContactRepository implements ContactRepository
var _ party.ContactRepository = (*GormContactRepository)(nil)
