package persistence

import (
	"context"
	"errors"

	"github.com/agribase/backend/internal/domain/legacy"
	"github.com/agribase/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormFarmMemberRepository implements legacy.FarmMemberRepository using GORM
type GormFarmMemberRepository struct {
	db *gorm.DB
}

// NewGormFarmMemberRepository creates a new GormFarmMemberRepository
func NewGormFarmMemberRepository(db *gorm.DB) *GormFarmMemberRepository {
	return &GormFarmMemberRepository{db: db}
}

// FindActive returns the user's active membership in the given farm
func (r *GormFarmMemberRepository) FindActive(ctx context.Context, userID, farmID uuid.UUID) (*legacy.FarmMember, error) {
	var member legacy.FarmMember
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND farm_id = ? AND active = ?", userID, farmID, true).
		First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &member, nil
}

// FindActiveByUser returns all of the user's active memberships
func (r *GormFarmMemberRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]legacy.FarmMember, error) {
	var members []legacy.FarmMember
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND active = ?", userID, true).
		Order("created_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// Ensure GormFarmMemberRepository implements FarmMemberRepository
var _ legacy.FarmMemberRepository = (*GormFarmMemberRepository)(nil)
