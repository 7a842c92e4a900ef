package party

import (
	"github.com/agribase/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RelationshipType represents a directed, typed link between two parties
type RelationshipType string

const (
	RelationshipOwns         RelationshipType = "OWNS"
	RelationshipManages      RelationshipType = "MANAGES"
	RelationshipEmploys      RelationshipType = "EMPLOYS"
	RelationshipSupplies     RelationshipType = "SUPPLIES"
	RelationshipDistributes  RelationshipType = "DISTRIBUTES"
	RelationshipMemberOf     RelationshipType = "MEMBER_OF"
	RelationshipParentOf     RelationshipType = "PARENT_OF"
	RelationshipSubsidiaryOf RelationshipType = "SUBSIDIARY_OF"
	RelationshipRelatedTo    RelationshipType = "RELATED_TO"
)

// Relationship is a directed edge between two parties. It is deleted when
// either endpoint party is deleted.
type Relationship struct {
	shared.BaseEntity
	PartyID        uuid.UUID        `gorm:"type:uuid;not null;index"`
	RelatedPartyID uuid.UUID        `gorm:"type:uuid;not null;index"`
	Type           RelationshipType `gorm:"type:varchar(30);not null"`
	Metadata       string           `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (Relationship) TableName() string {
	return "party_relationships"
}

// NewRelationship creates a directed relationship from one party to another
func NewRelationship(partyID, relatedPartyID uuid.UUID, relType RelationshipType) (*Relationship, error) {
	if err := validateRelationshipType(relType); err != nil {
		return nil, err
	}
	if partyID == relatedPartyID {
		return nil, shared.NewValidationError("A party cannot have a relationship with itself")
	}

	return &Relationship{
		BaseEntity:     shared.NewBaseEntity(),
		PartyID:        partyID,
		RelatedPartyID: relatedPartyID,
		Type:           relType,
		Metadata:       "{}",
	}, nil
}

func validateRelationshipType(t RelationshipType) error {
	switch t {
	case RelationshipOwns, RelationshipManages, RelationshipEmploys,
		RelationshipSupplies, RelationshipDistributes, RelationshipMemberOf,
		RelationshipParentOf, RelationshipSubsidiaryOf, RelationshipRelatedTo:
		return nil
	default:
		return shared.NewValidationError("Invalid relationship type")
	}
}
