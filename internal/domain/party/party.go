package party

import (
	"time"

	"github.com/agribase/backend/internal/domain/shared"
)

// PartyType represents the kind of real-world entity behind a party
type PartyType string

const (
	PartyTypePerson       PartyType = "PERSON"
	PartyTypeOrganization PartyType = "ORGANIZATION"
)

// Party is the unified identity record for any person or organization
// participating in the system. It is the aggregate root that owns all
// roles, contacts and relationships referencing it.
//
// Parties are deliberately NOT tenant-scoped: tenant context lives on the
// individual roles, so one party can act in several farms at once.
type Party struct {
	shared.BaseAggregateRoot
	DisplayName string    `gorm:"type:varchar(200);not null"`
	LegalName   string    `gorm:"type:varchar(200)"`
	Type        PartyType `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (Party) TableName() string {
	return "parties"
}

// NewParty creates a new party with required fields
func NewParty(displayName, legalName string, partyType PartyType) (*Party, error) {
	if err := validateDisplayName(displayName); err != nil {
		return nil, err
	}
	if err := validateLegalName(legalName); err != nil {
		return nil, err
	}
	if err := validatePartyType(partyType); err != nil {
		return nil, err
	}

	p := &Party{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		DisplayName:       displayName,
		LegalName:         legalName,
		Type:              partyType,
	}

	p.AddDomainEvent(NewPartyCreatedEvent(p))

	return p, nil
}

// Rename updates the party's display and legal names
func (p *Party) Rename(displayName, legalName string) error {
	if err := validateDisplayName(displayName); err != nil {
		return err
	}
	if err := validateLegalName(legalName); err != nil {
		return err
	}

	p.DisplayName = displayName
	p.LegalName = legalName
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewPartyUpdatedEvent(p))

	return nil
}

// IsPerson returns true if the party represents an individual
func (p *Party) IsPerson() bool {
	return p.Type == PartyTypePerson
}

// IsOrganization returns true if the party represents an organization
func (p *Party) IsOrganization() bool {
	return p.Type == PartyTypeOrganization
}

// Validation functions

func validateDisplayName(name string) error {
	if name == "" {
		return shared.NewValidationError("Display name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewValidationError("Display name cannot exceed 200 characters")
	}
	return nil
}

func validateLegalName(name string) error {
	if len(name) > 200 {
		return shared.NewValidationError("Legal name cannot exceed 200 characters")
	}
	return nil
}

func validatePartyType(t PartyType) error {
	switch t {
	case PartyTypePerson, PartyTypeOrganization:
		return nil
	default:
		return shared.NewValidationError("Party type must be 'PERSON' or 'ORGANIZATION'")
	}
}
