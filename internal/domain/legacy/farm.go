// Package legacy models the pre-existing denormalized tables (farms, users,
// farm members, customers, suppliers, orders) that the party model replaces.
// The rows are external: this package never creates farms or users, it only
// reads them, mirrors party writes into them, and wires PartyID back-references
// during the backfill.
package legacy

import (
	"time"

	"github.com/google/uuid"
)

// Farm is a legacy tenant row. Once migrated it carries a back-reference to
// the ORGANIZATION party that now represents it.
type Farm struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name             string     `gorm:"type:varchar(200);not null"`
	SubscriptionPlan string     `gorm:"type:varchar(50)"`
	Timezone         string     `gorm:"type:varchar(50)"`
	PartyID          *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName returns the table name for GORM
func (Farm) TableName() string {
	return "farms"
}

// IsMigrated reports whether the farm already has a party back-reference
func (f *Farm) IsMigrated() bool {
	return f.PartyID != nil
}
