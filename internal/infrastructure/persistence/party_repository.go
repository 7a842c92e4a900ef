package persistence

import (
	"context"
	"errors"

	"github.com/agribase/backend/internal/domain/party"
	"github.com/agribase/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPartyRepository implements party.PartyRepository using GORM
type GormPartyRepository struct {
	db *gorm.DB
}

// NewGormPartyRepository creates a new GormPartyRepository
func NewGormPartyRepository(db *gorm.DB) *GormPartyRepository {
	return &GormPartyRepository{db: db}
}

// FindByID finds a party by its ID
func (r *GormPartyRepository) FindByID(ctx context.Context, id uuid.UUID) (*party.Party, error) {
	var p party.Party
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByIDs finds multiple parties by their IDs
func (r *GormPartyRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]party.Party, error) {
	if len(ids) == 0 {
		return []party.Party{}, nil
	}

	var parties []party.Party
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&parties).Error; err != nil {
		return nil, err
	}
	return parties, nil
}

// Save creates or updates a party
func (r *GormPartyRepository) Save(ctx context.Context, p *party.Party) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// Delete deletes a party
func (r *GormPartyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&party.Party{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormPartyRepository implements PartyRepository
var _ party.PartyRepository = (*GormPartyRepository)(nil)
