package persistence

import (
	"context"
	"errors"

	"github.com/agribase/backend/internal/domain/legacy"
	"github.com/agribase/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSupplierRepository implements legacy.SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// FindByParty finds the supplier mirror row for a party within one farm
func (r *GormSupplierRepository) FindByParty(ctx context.Context, partyID, farmID uuid.UUID) (*legacy.Supplier, error) {
	var supplier legacy.Supplier
	if err := r.db.WithContext(ctx).
		Where("party_id = ? AND farm_id = ?", partyID, farmID).
		First(&supplier).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &supplier, nil
}

// FindUnmigrated returns up to limit suppliers without a party back-reference
func (r *GormSupplierRepository) FindUnmigrated(ctx context.Context, limit int) ([]legacy.Supplier, error) {
	var suppliers []legacy.Supplier
	query := r.db.WithContext(ctx).
		Where("party_id IS NULL").
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

// Save upserts a mirror row keyed by its primary key
func (r *GormSupplierRepository) Save(ctx context.Context, s *legacy.Supplier) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// DeleteByParty removes the supplier mirror row for a party within one farm
func (r *GormSupplierRepository) DeleteByParty(ctx context.Context, partyID, farmID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&legacy.Supplier{}, "party_id = ? AND farm_id = ?", partyID, farmID).Error
}

// SetPartyID wires the party back-reference onto a supplier row
func (r *GormSupplierRepository) SetPartyID(ctx context.Context, supplierID, partyID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&legacy.Supplier{}).
		Where("id = ?", supplierID).
		Update("party_id", partyID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormSupplierRepository implements SupplierRepository
var _ legacy.SupplierRepository = (*GormSupplierRepository)(nil)
