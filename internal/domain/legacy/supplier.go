package legacy

import (
	"time"

	"github.com/google/uuid"
)

// Supplier is a legacy denormalized supplier row, scoped to one farm
type Supplier struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	FarmID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	Name         string     `gorm:"type:varchar(200);not null"`
	Email        string     `gorm:"type:varchar(255)"`
	Phone        string     `gorm:"type:varchar(50)"`
	Address      string     `gorm:"type:varchar(500)"`
	TaxID        string     `gorm:"type:varchar(50)"`
	PaymentTerms string     `gorm:"type:varchar(50)"`
	Notes        string     `gorm:"type:text"`
	PartyID      *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// IsMigrated reports whether the supplier already has a party back-reference
func (s *Supplier) IsMigrated() bool {
	return s.PartyID != nil
}
