package party

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/agribase/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RoleType represents a capability or category a party holds
type RoleType string

const (
	RoleTypeFarm        RoleType = "FARM"
	RoleTypeCustomerB2B RoleType = "CUSTOMER_B2B"
	RoleTypeCustomerB2C RoleType = "CUSTOMER_B2C"
	RoleTypeUser        RoleType = "USER"
	RoleTypeSupplier    RoleType = "SUPPLIER"
	RoleTypeDistributor RoleType = "DISTRIBUTOR"
	RoleTypeEmployee    RoleType = "EMPLOYEE"
	RoleTypeSystemAdmin RoleType = "SYSTEM_ADMIN"
)

// IsTenantScoped reports whether a role of this type must carry a tenant ID.
// USER and SYSTEM_ADMIN are global capabilities; everything else only makes
// sense inside one farm.
func (t RoleType) IsTenantScoped() bool {
	switch t {
	case RoleTypeUser, RoleTypeSystemAdmin:
		return false
	default:
		return true
	}
}

// IsCustomer reports whether this is one of the customer role types
func (t RoleType) IsCustomer() bool {
	return t == RoleTypeCustomerB2B || t == RoleTypeCustomerB2C
}

// Role attaches a tenant-contextualized capability to a party.
// Removing a role revokes the capability without touching the party itself,
// which is how tenant-scoped entities are "soft deleted".
type Role struct {
	shared.BaseEntity
	PartyID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	Type     RoleType   `gorm:"type:varchar(30);not null"`
	TenantID *uuid.UUID `gorm:"type:uuid;index"`
	Metadata string     `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (Role) TableName() string {
	return "party_roles"
}

// NewRole creates a new role for a party. Tenant-scoped role types require a
// tenant ID; global role types must not carry one.
func NewRole(partyID uuid.UUID, roleType RoleType, tenantID *uuid.UUID) (*Role, error) {
	if err := validateRoleType(roleType); err != nil {
		return nil, err
	}
	if roleType.IsTenantScoped() {
		if tenantID == nil || *tenantID == uuid.Nil {
			return nil, shared.NewValidationError("Role type " + string(roleType) + " requires a tenant ID")
		}
	} else if tenantID != nil {
		return nil, shared.NewValidationError("Role type " + string(roleType) + " is global and cannot be tenant-scoped")
	}

	return &Role{
		BaseEntity: shared.NewBaseEntity(),
		PartyID:    partyID,
		Type:       roleType,
		TenantID:   tenantID,
		Metadata:   "{}",
	}, nil
}

// Matches reports whether this role has the given type and tenant scope
func (r *Role) Matches(roleType RoleType, tenantID *uuid.UUID) bool {
	if r.Type != roleType {
		return false
	}
	if r.TenantID == nil || tenantID == nil {
		return r.TenantID == nil && tenantID == nil
	}
	return *r.TenantID == *tenantID
}

// SetMetadata replaces the role's metadata document
func (r *Role) SetMetadata(metadata string) error {
	if metadata == "" {
		metadata = "{}"
	}
	trimmed := strings.TrimSpace(metadata)
	if !json.Valid([]byte(trimmed)) || !strings.HasPrefix(trimmed, "{") {
		return shared.NewValidationError("Role metadata must be a valid JSON object")
	}

	r.Metadata = trimmed
	r.UpdatedAt = time.Now()

	return nil
}

// MergeMetadata merges the given keys into the role's metadata document.
// Existing keys not present in the patch are preserved; keys with a null
// value in the patch are removed.
func (r *Role) MergeMetadata(patch map[string]any) error {
	current := map[string]any{}
	if r.Metadata != "" {
		if err := json.Unmarshal([]byte(r.Metadata), &current); err != nil {
			return shared.NewValidationError("Existing role metadata is not a valid JSON object")
		}
	}
	for k, v := range patch {
		if v == nil {
			delete(current, k)
			continue
		}
		current[k] = v
	}

	merged, err := json.Marshal(current)
	if err != nil {
		return shared.NewValidationError("Role metadata patch cannot be serialized")
	}

	r.Metadata = string(merged)
	r.UpdatedAt = time.Now()

	return nil
}

func validateRoleType(t RoleType) error {
	switch t {
	case RoleTypeFarm, RoleTypeCustomerB2B, RoleTypeCustomerB2C, RoleTypeUser,
		RoleTypeSupplier, RoleTypeDistributor, RoleTypeEmployee, RoleTypeSystemAdmin:
		return nil
	default:
		return shared.NewValidationError("Invalid role type")
	}
}
