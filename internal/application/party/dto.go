package party

import (
	"encoding/json"
	"time"

	"github.com/agribase/backend/internal/domain/party"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Party DTOs
// =============================================================================

// ContactInput carries one contact channel in create/update requests
type ContactInput struct {
	Type      string `json:"type" binding:"required,oneof=EMAIL PHONE MOBILE FAX ADDRESS URL SOCIAL OTHER"`
	Label     string `json:"label" binding:"max=100"`
	Value     string `json:"value" binding:"required,max=500"`
	IsPrimary bool   `json:"is_primary"`
}

// RoleInput carries one role in create requests
type RoleInput struct {
	Type     string         `json:"type" binding:"required"`
	TenantID *uuid.UUID     `json:"tenant_id"`
	Metadata map[string]any `json:"metadata"`
}

// CreatePartyRequest represents a request to create a new party
type CreatePartyRequest struct {
	DisplayName string         `json:"display_name" binding:"required,min=1,max=200"`
	LegalName   string         `json:"legal_name" binding:"max=200"`
	PartyType   string         `json:"party_type" binding:"required,oneof=PERSON ORGANIZATION"`
	Roles       []RoleInput    `json:"roles"`
	Contacts    []ContactInput `json:"contacts"`
}

// UpdatePartyRequest represents a partial update of a party's own fields
type UpdatePartyRequest struct {
	DisplayName *string `json:"display_name" binding:"omitempty,min=1,max=200"`
	LegalName   *string `json:"legal_name" binding:"omitempty,max=200"`
}

// PartyResponse represents a party in API responses
type PartyResponse struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	LegalName   string    `json:"legal_name,omitempty"`
	Type        string    `json:"type"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RoleResponse represents a party role in API responses
type RoleResponse struct {
	ID       uuid.UUID       `json:"id"`
	PartyID  uuid.UUID       `json:"party_id"`
	Type     string          `json:"type"`
	TenantID *uuid.UUID      `json:"tenant_id,omitempty"`
	Metadata json.RawMessage `json:"metadata"`
}

// ContactResponse represents a party contact in API responses
type ContactResponse struct {
	ID        uuid.UUID `json:"id"`
	PartyID   uuid.UUID `json:"party_id"`
	Type      string    `json:"type"`
	Label     string    `json:"label,omitempty"`
	Value     string    `json:"value"`
	IsPrimary bool      `json:"is_primary"`
}

// RelationshipResponse represents a party relationship in API responses
type RelationshipResponse struct {
	ID             uuid.UUID `json:"id"`
	PartyID        uuid.UUID `json:"party_id"`
	RelatedPartyID uuid.UUID `json:"related_party_id"`
	Type           string    `json:"type"`
}

// PartyDetailResponse bundles a party with its roles, contacts and
// relationships
type PartyDetailResponse struct {
	Party         PartyResponse          `json:"party"`
	Roles         []RoleResponse         `json:"roles"`
	Contacts      []ContactResponse      `json:"contacts"`
	Relationships []RelationshipResponse `json:"relationships,omitempty"`
}

// =============================================================================
// Customer endpoint DTOs
// =============================================================================

// CreateCustomerRequest represents a request to create a customer party
type CreateCustomerRequest struct {
	DisplayName string         `json:"display_name" binding:"required,min=1,max=200"`
	LegalName   string         `json:"legal_name" binding:"max=200"`
	PartyType   string         `json:"party_type" binding:"required,oneof=PERSON ORGANIZATION"`
	RoleType    string         `json:"role_type" binding:"required,oneof=CUSTOMER_B2B CUSTOMER_B2C"`
	Contacts    []ContactInput `json:"contacts"`
	Metadata    map[string]any `json:"metadata"`
}

// UpdateCustomerRequest represents a partial customer update. A non-nil
// Contacts slice replaces the contact set wholesale; Metadata keys are merged
// into the role metadata (null values remove keys).
type UpdateCustomerRequest struct {
	DisplayName *string         `json:"display_name" binding:"omitempty,min=1,max=200"`
	LegalName   *string         `json:"legal_name" binding:"omitempty,max=200"`
	Contacts    *[]ContactInput `json:"contacts"`
	Metadata    map[string]any  `json:"metadata"`
}

// CustomerResponse represents a customer party with its denormalized contact
// shortcuts and order aggregates
type CustomerResponse struct {
	Party          PartyResponse     `json:"party"`
	Role           RoleResponse      `json:"role"`
	Contacts       []ContactResponse `json:"contacts"`
	PrimaryEmail   string            `json:"primary_email,omitempty"`
	PrimaryPhone   string            `json:"primary_phone,omitempty"`
	PrimaryAddress string            `json:"primary_address,omitempty"`
	TotalOrders    int64             `json:"total_orders"`
	TotalRevenue   decimal.Decimal   `json:"total_revenue"`
	LastOrderDate  *time.Time        `json:"last_order_date,omitempty"`
}

// CustomerListFilter represents filter options for the customer list
type CustomerListFilter struct {
	Search   string `form:"search"`
	RoleType string `form:"role_type" binding:"omitempty,oneof=CUSTOMER_B2B CUSTOMER_B2C"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// =============================================================================
// User endpoint DTOs
// =============================================================================

// UserListFilter represents filter options for the tenant user list
type UserListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// UserResponse represents a tenant-visible user party
type UserResponse struct {
	Party        PartyResponse     `json:"party"`
	Role         RoleResponse      `json:"role"`
	Contacts     []ContactResponse `json:"contacts"`
	PrimaryEmail string            `json:"primary_email,omitempty"`
	Position     string            `json:"position,omitempty"`
}

// =============================================================================
// Mappers
// =============================================================================

// ToPartyResponse converts a domain party to a response DTO
func ToPartyResponse(p *party.Party) PartyResponse {
	return PartyResponse{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		LegalName:   p.LegalName,
		Type:        string(p.Type),
		Version:     p.Version,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToRoleResponse converts a domain role to a response DTO
func ToRoleResponse(r *party.Role) RoleResponse {
	metadata := r.Metadata
	if metadata == "" {
		metadata = "{}"
	}
	return RoleResponse{
		ID:       r.ID,
		PartyID:  r.PartyID,
		Type:     string(r.Type),
		TenantID: r.TenantID,
		Metadata: json.RawMessage(metadata),
	}
}

// ToContactResponse converts a domain contact to a response DTO
func ToContactResponse(c *party.Contact) ContactResponse {
	return ContactResponse{
		ID:        c.ID,
		PartyID:   c.PartyID,
		Type:      string(c.Type),
		Label:     c.Label,
		Value:     c.Value,
		IsPrimary: c.IsPrimary,
	}
}

// ToContactResponses converts a slice of domain contacts
func ToContactResponses(contacts []party.Contact) []ContactResponse {
	out := make([]ContactResponse, len(contacts))
	for i := range contacts {
		out[i] = ToContactResponse(&contacts[i])
	}
	return out
}

// ToRelationshipResponse converts a domain relationship to a response DTO
func ToRelationshipResponse(r *party.Relationship) RelationshipResponse {
	return RelationshipResponse{
		ID:             r.ID,
		PartyID:        r.PartyID,
		RelatedPartyID: r.RelatedPartyID,
		Type:           string(r.Type),
	}
}

// ToPartyDetailResponse converts a party with details to a response DTO
func ToPartyDetailResponse(d *party.WithDetails) PartyDetailResponse {
	resp := PartyDetailResponse{
		Party:    ToPartyResponse(&d.Party),
		Roles:    make([]RoleResponse, len(d.Roles)),
		Contacts: ToContactResponses(d.Contacts),
	}
	for i := range d.Roles {
		resp.Roles[i] = ToRoleResponse(&d.Roles[i])
	}
	for i := range d.Relationships {
		resp.Relationships = append(resp.Relationships, ToRelationshipResponse(&d.Relationships[i]))
	}
	return resp
}
