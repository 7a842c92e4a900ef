package persistence

import (
	"context"

	"github.com/agribase/backend/internal/domain/party"
	"github.com/agribase/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRelationshipRepository implements party.RelationshipRepository using GORM
type GormRelationshipRepository struct {
	db *gorm.DB
}

// NewGormRelationshipRepository creates a new GormRelationshipRepository
func NewGormRelationshipRepository(db *gorm.DB) *GormRelationshipRepository {
	return &GormRelationshipRepository{db: db}
}

// FindByParty finds relationships where the party is either endpoint
func (r *GormRelationshipRepository) FindByParty(ctx context.Context, partyID uuid.UUID) ([]party.Relationship, error) {
	var relationships []party.Relationship
	if err := r.db.WithContext(ctx).
		Where("party_id = ? OR related_party_id = ?", partyID, partyID).
		Order("created_at ASC").
		Find(&relationships).Error; err != nil {
		return nil, err
	}
	return relationships, nil
}

// Save creates or updates a relationship
func (r *GormRelationshipRepository) Save(ctx context.Context, rel *party.Relationship) error {
	return r.db.WithContext(ctx).Save(rel).Error
}

// Delete deletes a relationship
func (r *GormRelationshipRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&party.Relationship{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteByParty deletes all relationships touching the party from either end
func (r *GormRelationshipRepository) DeleteByParty(ctx context.Context, partyID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&party.Relationship{}, "party_id = ? OR related_party_id = ?", partyID, partyID).Error
}

// Ensure GormRelationshipRepository implements RelationshipRepository
var _ party.RelationshipRepository = (*GormRelationshipRepository)(nil)
