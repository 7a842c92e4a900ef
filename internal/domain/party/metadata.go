package party

import (
	"encoding/json"

	"github.com/agribase/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Typed views over the role metadata document. The party_roles table stores
// one open JSON column for all role types; these structs give each role type
// its concrete shape so consumers keep compile-time field checking.

// CustomerMeta is the metadata shape for CUSTOMER_B2B / CUSTOMER_B2C roles
type CustomerMeta struct {
	TaxID        string           `json:"tax_id,omitempty"`
	PaymentTerms string           `json:"payment_terms,omitempty"`
	CreditLimit  *decimal.Decimal `json:"credit_limit,omitempty"`
	Notes        string           `json:"notes,omitempty"`
}

// SupplierMeta is the metadata shape for SUPPLIER / DISTRIBUTOR roles
type SupplierMeta struct {
	TaxID        string `json:"tax_id,omitempty"`
	PaymentTerms string `json:"payment_terms,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// FarmMeta is the metadata shape for FARM roles
type FarmMeta struct {
	SubscriptionPlan string `json:"subscription_plan,omitempty"`
	Timezone         string `json:"timezone,omitempty"`
}

// EmployeeMeta is the metadata shape for EMPLOYEE roles. It carries the farm
// membership's role and permission data across the migration.
type EmployeeMeta struct {
	Position    string   `json:"position,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// CustomerMeta decodes the metadata document as a CustomerMeta.
// Fails if the role is not a customer role.
func (r *Role) CustomerMeta() (*CustomerMeta, error) {
	if !r.Type.IsCustomer() {
		return nil, shared.NewDomainError("INVALID_ROLE_TYPE", "Role is not a customer role")
	}
	var m CustomerMeta
	if err := unmarshalMeta(r.Metadata, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// SetCustomerMeta encodes the given CustomerMeta into the metadata document
func (r *Role) SetCustomerMeta(m CustomerMeta) error {
	if !r.Type.IsCustomer() {
		return shared.NewDomainError("INVALID_ROLE_TYPE", "Role is not a customer role")
	}
	return r.setMeta(m)
}

// SupplierMeta decodes the metadata document as a SupplierMeta
func (r *Role) SupplierMeta() (*SupplierMeta, error) {
	if r.Type != RoleTypeSupplier && r.Type != RoleTypeDistributor {
		return nil, shared.NewDomainError("INVALID_ROLE_TYPE", "Role is not a supplier role")
	}
	var m SupplierMeta
	if err := unmarshalMeta(r.Metadata, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// SetSupplierMeta encodes the given SupplierMeta into the metadata document
func (r *Role) SetSupplierMeta(m SupplierMeta) error {
	if r.Type != RoleTypeSupplier && r.Type != RoleTypeDistributor {
		return shared.NewDomainError("INVALID_ROLE_TYPE", "Role is not a supplier role")
	}
	return r.setMeta(m)
}

// FarmMeta decodes the metadata document as a FarmMeta
func (r *Role) FarmMeta() (*FarmMeta, error) {
	if r.Type != RoleTypeFarm {
		return nil, shared.NewDomainError("INVALID_ROLE_TYPE", "Role is not a farm role")
	}
	var m FarmMeta
	if err := unmarshalMeta(r.Metadata, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// SetFarmMeta encodes the given FarmMeta into the metadata document
func (r *Role) SetFarmMeta(m FarmMeta) error {
	if r.Type != RoleTypeFarm {
		return shared.NewDomainError("INVALID_ROLE_TYPE", "Role is not a farm role")
	}
	return r.setMeta(m)
}

// EmployeeMeta decodes the metadata document as an EmployeeMeta
func (r *Role) EmployeeMeta() (*EmployeeMeta, error) {
	if r.Type != RoleTypeEmployee {
		return nil, shared.NewDomainError("INVALID_ROLE_TYPE", "Role is not an employee role")
	}
	var m EmployeeMeta
	if err := unmarshalMeta(r.Metadata, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// SetEmployeeMeta encodes the given EmployeeMeta into the metadata document
func (r *Role) SetEmployeeMeta(m EmployeeMeta) error {
	if r.Type != RoleTypeEmployee {
		return shared.NewDomainError("INVALID_ROLE_TYPE", "Role is not an employee role")
	}
	return r.setMeta(m)
}

func (r *Role) setMeta(m any) error {
	encoded, err := json.Marshal(m)
	if err != nil {
		return shared.NewValidationError("Role metadata cannot be serialized")
	}
	return r.SetMetadata(string(encoded))
}

func unmarshalMeta(doc string, out any) error {
	if doc == "" {
		doc = "{}"
	}
	if err := json.Unmarshal([]byte(doc), out); err != nil {
		return shared.NewValidationError("Role metadata is not a valid JSON object")
	}
	return nil
}
