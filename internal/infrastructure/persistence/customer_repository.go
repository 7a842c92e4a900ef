package persistence

import (
	"context"
	"errors"

	"github.com/agribase/backend/internal/domain/legacy"
	"github.com/agribase/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCustomerRepository implements legacy.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*legacy.Customer, error) {
	var customer legacy.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// FindByParty finds the customer mirror row for a party within one farm
func (r *GormCustomerRepository) FindByParty(ctx context.Context, partyID, farmID uuid.UUID) (*legacy.Customer, error) {
	var customer legacy.Customer
	if err := r.db.WithContext(ctx).
		Where("party_id = ? AND farm_id = ?", partyID, farmID).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// FindUnmigrated returns up to limit customers without a party back-reference
func (r *GormCustomerRepository) FindUnmigrated(ctx context.Context, limit int) ([]legacy.Customer, error) {
	var customers []legacy.Customer
	query := r.db.WithContext(ctx).
		Where("party_id IS NULL").
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// Save upserts a mirror row keyed by its primary key
func (r *GormCustomerRepository) Save(ctx context.Context, c *legacy.Customer) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// DeleteByParty removes the customer mirror row for a party within one farm
func (r *GormCustomerRepository) DeleteByParty(ctx context.Context, partyID, farmID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&legacy.Customer{}, "party_id = ? AND farm_id = ?", partyID, farmID).Error
}

// SetPartyID wires the party back-reference onto a customer row
func (r *GormCustomerRepository) SetPartyID(ctx context.Context, customerID, partyID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&legacy.Customer{}).
		Where("id = ?", customerID).
		Update("party_id", partyID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormCustomerRepository implements CustomerRepository
var _ legacy.CustomerRepository = (*GormCustomerRepository)(nil)
