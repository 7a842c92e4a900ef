package legacy

import (
	"time"

	"github.com/google/uuid"
)

// FarmMember is a legacy membership row linking a user to a farm. The access
// guard requires an active membership before any tenant-scoped store call.
type FarmMember struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	FarmID      uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Role        string    `gorm:"type:varchar(50)"`
	Permissions string    `gorm:"type:jsonb"`
	Active      bool      `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for GORM
func (FarmMember) TableName() string {
	return "farm_members"
}
