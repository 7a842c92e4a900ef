package persistence

import (
	"context"
	"errors"

	"github.com/agribase/backend/internal/domain/legacy"
	"github.com/agribase/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormFarmRepository implements legacy.FarmRepository using GORM
type GormFarmRepository struct {
	db *gorm.DB
}

// NewGormFarmRepository creates a new GormFarmRepository
func NewGormFarmRepository(db *gorm.DB) *GormFarmRepository {
	return &GormFarmRepository{db: db}
}

// FindByID finds a farm by its ID
func (r *GormFarmRepository) FindByID(ctx context.Context, id uuid.UUID) (*legacy.Farm, error) {
	var farm legacy.Farm
	if err := r.db.WithContext(ctx).First(&farm, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &farm, nil
}

// FindByParty finds the farm carrying the given party back-reference
func (r *GormFarmRepository) FindByParty(ctx context.Context, partyID uuid.UUID) (*legacy.Farm, error) {
	var farm legacy.Farm
	if err := r.db.WithContext(ctx).First(&farm, "party_id = ?", partyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &farm, nil
}

// FindUnmigrated returns up to limit farms without a party back-reference
func (r *GormFarmRepository) FindUnmigrated(ctx context.Context, limit int) ([]legacy.Farm, error) {
	var farms []legacy.Farm
	query := r.db.WithContext(ctx).
		Where("party_id IS NULL").
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&farms).Error; err != nil {
		return nil, err
	}
	return farms, nil
}

// Save creates or updates a farm row
func (r *GormFarmRepository) Save(ctx context.Context, f *legacy.Farm) error {
	return r.db.WithContext(ctx).Save(f).Error
}

// SetPartyID wires the party back-reference onto a farm row
func (r *GormFarmRepository) SetPartyID(ctx context.Context, farmID, partyID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&legacy.Farm{}).
		Where("id = ?", farmID).
		Update("party_id", partyID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormFarmRepository implements FarmRepository
var _ legacy.FarmRepository = (*GormFarmRepository)(nil)
