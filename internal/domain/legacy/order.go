package legacy

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is a legacy order row. The party model never owns orders; it only
// reads aggregates from them and, during the backfill, wires the
// CustomerPartyID reference from the order's legacy customer.
type Order struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	FarmID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerPartyID *uuid.UUID      `gorm:"type:uuid;index"`
	Total           decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	OrderDate       time.Time       `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// OrderAggregate summarizes a customer party's order history within one farm
type OrderAggregate struct {
	TotalOrders   int64           `json:"total_orders"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	LastOrderDate *time.Time      `json:"last_order_date,omitempty"`
}
