package persistence

import (
	"context"
	"errors"

	"github.com/agribase/backend/internal/domain/party"
	"github.com/agribase/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRoleRepository implements party.RoleRepository using GORM
type GormRoleRepository struct {
	db *gorm.DB
}

// NewGormRoleRepository creates a new GormRoleRepository
func NewGormRoleRepository(db *gorm.DB) *GormRoleRepository {
	return &GormRoleRepository{db: db}
}

// FindByID finds a role by its ID
func (r *GormRoleRepository) FindByID(ctx context.Context, id uuid.UUID) (*party.Role, error) {
	var role party.Role
	if err := r.db.WithContext(ctx).First(&role, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

// FindByParty finds all roles held by a party
func (r *GormRoleRepository) FindByParty(ctx context.Context, partyID uuid.UUID) ([]party.Role, error) {
	var roles []party.Role
	if err := r.db.WithContext(ctx).
		Where("party_id = ?", partyID).
		Order("created_at ASC").
		Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// FindByTypeAndTenant finds all roles of a type within a tenant
func (r *GormRoleRepository) FindByTypeAndTenant(ctx context.Context, roleType party.RoleType, tenantID uuid.UUID) ([]party.Role, error) {
	var roles []party.Role
	if err := r.db.WithContext(ctx).
		Where("type = ? AND tenant_id = ?", roleType, tenantID).
		Order("created_at ASC").
		Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// FindGlobalByType finds all globally scoped roles of a type
func (r *GormRoleRepository) FindGlobalByType(ctx context.Context, roleType party.RoleType) ([]party.Role, error) {
	var roles []party.Role
	if err := r.db.WithContext(ctx).
		Where("type = ? AND tenant_id IS NULL", roleType).
		Order("created_at ASC").
		Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// Exists reports whether the party already holds a role of the given type and
// tenant scope
func (r *GormRoleRepository) Exists(ctx context.Context, partyID uuid.UUID, roleType party.RoleType, tenantID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&party.Role{}).
		Where("party_id = ? AND type = ?", partyID, roleType)
	if tenantID != nil {
		query = query.Where("tenant_id = ?", *tenantID)
	} else {
		query = query.Where("tenant_id IS NULL")
	}

	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a role
func (r *GormRoleRepository) Save(ctx context.Context, role *party.Role) error {
	return r.db.WithContext(ctx).Save(role).Error
}

// Delete deletes a role
func (r *GormRoleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&party.Role{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteByParty deletes all roles held by a party
func (r *GormRoleRepository) DeleteByParty(ctx context.Context, partyID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&party.Role{}, "party_id = ?", partyID).Error
}

// Ensure GormRoleRepository implements RoleRepository
var _ party.RoleRepository = (*GormRoleRepository)(nil)
