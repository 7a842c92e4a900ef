package legacy

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is a legacy account row. The IsSystemAdmin flag is the source of truth
// the access guard consults: flagged accounts must never surface through
// tenant-scoped queries.
type User struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Email         string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	FirstName     string     `gorm:"type:varchar(100)"`
	LastName      string     `gorm:"type:varchar(100)"`
	Phone         string     `gorm:"type:varchar(50)"`
	IsSystemAdmin bool       `gorm:"not null;default:false"`
	PartyID       *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// IsMigrated reports whether the user already has a party back-reference
func (u *User) IsMigrated() bool {
	return u.PartyID != nil
}

// DisplayName builds the party display name from the legacy name columns,
// falling back to the email when both are empty
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}
