package party

import (
	"regexp"
	"time"

	"github.com/agribase/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ContactType represents the channel through which a party can be reached
type ContactType string

const (
	ContactTypeEmail   ContactType = "EMAIL"
	ContactTypePhone   ContactType = "PHONE"
	ContactTypeMobile  ContactType = "MOBILE"
	ContactTypeFax     ContactType = "FAX"
	ContactTypeAddress ContactType = "ADDRESS"
	ContactTypeURL     ContactType = "URL"
	ContactTypeSocial  ContactType = "SOCIAL"
	ContactTypeOther   ContactType = "OTHER"
)

// Contact is a typed contact channel owned by a party. Contacts are not
// tenant-scoped; the same email serves the party in every farm it acts in.
// At most one contact per (party, type) may be primary; the Party Service
// enforces that invariant transactionally.
type Contact struct {
	shared.BaseEntity
	PartyID   uuid.UUID   `gorm:"type:uuid;not null;index"`
	Type      ContactType `gorm:"type:varchar(20);not null"`
	Label     string      `gorm:"type:varchar(100)"`
	Value     string      `gorm:"type:varchar(500);not null"`
	IsPrimary bool        `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Contact) TableName() string {
	return "party_contacts"
}

// NewContact creates a new contact channel for a party
func NewContact(partyID uuid.UUID, contactType ContactType, value, label string, isPrimary bool) (*Contact, error) {
	if err := validateContactType(contactType); err != nil {
		return nil, err
	}
	if err := validateContactValue(contactType, value); err != nil {
		return nil, err
	}
	if len(label) > 100 {
		return nil, shared.NewValidationError("Contact label cannot exceed 100 characters")
	}

	return &Contact{
		BaseEntity: shared.NewBaseEntity(),
		PartyID:    partyID,
		Type:       contactType,
		Label:      label,
		Value:      value,
		IsPrimary:  isPrimary,
	}, nil
}

// Update changes the contact's value and label
func (c *Contact) Update(value, label string) error {
	if err := validateContactValue(c.Type, value); err != nil {
		return err
	}
	if len(label) > 100 {
		return shared.NewValidationError("Contact label cannot exceed 100 characters")
	}

	c.Value = value
	c.Label = label
	c.UpdatedAt = time.Now()

	return nil
}

// MarkPrimary flags this contact as the primary channel of its type
func (c *Contact) MarkPrimary() {
	c.IsPrimary = true
	c.UpdatedAt = time.Now()
}

// ClearPrimary removes the primary flag
func (c *Contact) ClearPrimary() {
	c.IsPrimary = false
	c.UpdatedAt = time.Now()
}

// Validation functions

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)
)

func validateContactType(t ContactType) error {
	switch t {
	case ContactTypeEmail, ContactTypePhone, ContactTypeMobile, ContactTypeFax,
		ContactTypeAddress, ContactTypeURL, ContactTypeSocial, ContactTypeOther:
		return nil
	default:
		return shared.NewValidationError("Invalid contact type")
	}
}

func validateContactValue(t ContactType, value string) error {
	if value == "" {
		return shared.NewValidationError("Contact value cannot be empty")
	}
	if len(value) > 500 {
		return shared.NewValidationError("Contact value cannot exceed 500 characters")
	}
	switch t {
	case ContactTypeEmail:
		if !emailPattern.MatchString(value) {
			return shared.NewValidationError("Invalid email format")
		}
	case ContactTypePhone, ContactTypeMobile, ContactTypeFax:
		if !phonePattern.MatchString(value) {
			return shared.NewValidationError("Invalid phone number format")
		}
	}
	return nil
}
