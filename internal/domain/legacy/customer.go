package legacy

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer is a legacy denormalized customer row, scoped to one farm. After
// migration the row stays as a read mirror for code paths not yet moved to the
// party model; the sync adapter keeps it consistent with party writes.
type Customer struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey"`
	FarmID       uuid.UUID        `gorm:"type:uuid;not null;index"`
	Name         string           `gorm:"type:varchar(200);not null"`
	BusinessName string           `gorm:"type:varchar(200)"`
	Email        string           `gorm:"type:varchar(255)"`
	Phone        string           `gorm:"type:varchar(50)"`
	Address      string           `gorm:"type:varchar(500)"`
	TaxID        string           `gorm:"type:varchar(50)"`
	PaymentTerms string           `gorm:"type:varchar(50)"`
	CreditLimit  *decimal.Decimal `gorm:"type:decimal(15,2)"`
	Notes        string           `gorm:"type:text"`
	PartyID      *uuid.UUID       `gorm:"type:uuid;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// IsMigrated reports whether the customer already has a party back-reference
func (c *Customer) IsMigrated() bool {
	return c.PartyID != nil
}

// IsBusiness reports whether the row represents an organization. The backfill
// uses it to pick the party type and the B2B/B2C role split.
func (c *Customer) IsBusiness() bool {
	return c.BusinessName != ""
}
