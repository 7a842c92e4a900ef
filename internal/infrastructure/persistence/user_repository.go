package persistence

import (
	"context"
	"errors"

	"github.com/agribase/backend/internal/domain/legacy"
	"github.com/agribase/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUserRepository implements legacy.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by its ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*legacy.User, error) {
	var user legacy.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByParty finds the user carrying the given party back-reference
func (r *GormUserRepository) FindByParty(ctx context.Context, partyID uuid.UUID) (*legacy.User, error) {
	var user legacy.User
	if err := r.db.WithContext(ctx).First(&user, "party_id = ?", partyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindUnmigrated returns up to limit users without a party back-reference
func (r *GormUserRepository) FindUnmigrated(ctx context.Context, limit int) ([]legacy.User, error) {
	var users []legacy.User
	query := r.db.WithContext(ctx).
		Where("party_id IS NULL").
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// FindSystemAdminPartyIDs returns the party ids of all migrated system-admin
// accounts. Tenant-scoped listings subtract this set before responding.
func (r *GormUserRepository) FindSystemAdminPartyIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&legacy.User{}).
		Where("is_system_admin = ? AND party_id IS NOT NULL", true).
		Pluck("party_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Save creates or updates a user row
func (r *GormUserRepository) Save(ctx context.Context, u *legacy.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

// SetPartyID wires the party back-reference onto a user row
func (r *GormUserRepository) SetPartyID(ctx context.Context, userID, partyID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&legacy.User{}).
		Where("id = ?", userID).
		Update("party_id", partyID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormUserRepository implements UserRepository
var _ legacy.UserRepository = (*GormUserRepository)(nil)
