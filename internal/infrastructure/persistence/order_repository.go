package persistence

import (
	"context"
	"time"

	"github.com/agribase/backend/internal/domain/legacy"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormOrderRepository implements legacy.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// CountByCustomerParty counts a customer party's orders within one farm
func (r *GormOrderRepository) CountByCustomerParty(ctx context.Context, partyID, farmID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&legacy.Order{}).
		Where("customer_party_id = ? AND farm_id = ?", partyID, farmID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// orderAggregateRow is the scan target for the grouped aggregate query
type orderAggregateRow struct {
	CustomerPartyID uuid.UUID
	TotalOrders     int64
	TotalRevenue    decimal.Decimal
	LastOrderDate   *time.Time
}

// AggregateByCustomerParties computes per-party order aggregates within one
// farm. Parties without orders are absent from the result map.
func (r *GormOrderRepository) AggregateByCustomerParties(ctx context.Context, partyIDs []uuid.UUID, farmID uuid.UUID) (map[uuid.UUID]legacy.OrderAggregate, error) {
	result := make(map[uuid.UUID]legacy.OrderAggregate, len(partyIDs))
	if len(partyIDs) == 0 {
		return result, nil
	}

	var rows []orderAggregateRow
	if err := r.db.WithContext(ctx).
		Model(&legacy.Order{}).
		Select("customer_party_id, COUNT(*) AS total_orders, COALESCE(SUM(total), 0) AS total_revenue, MAX(order_date) AS last_order_date").
		Where("customer_party_id IN ? AND farm_id = ?", partyIDs, farmID).
		Group("customer_party_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.CustomerPartyID] = legacy.OrderAggregate{
			TotalOrders:   row.TotalOrders,
			TotalRevenue:  row.TotalRevenue,
			LastOrderDate: row.LastOrderDate,
		}
	}
	return result, nil
}

// FindWithoutPartyRef returns up to limit orders whose CustomerPartyID is
// still unset. A limit of zero or less returns the whole set.
func (r *GormOrderRepository) FindWithoutPartyRef(ctx context.Context, limit int) ([]legacy.Order, error) {
	var orders []legacy.Order
	query := r.db.WithContext(ctx).
		Where("customer_party_id IS NULL").
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// SetCustomerPartyID wires the customer party reference onto an order row
func (r *GormOrderRepository) SetCustomerPartyID(ctx context.Context, orderID, partyID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&legacy.Order{}).
		Where("id = ?", orderID).
		Update("customer_party_id", partyID).Error
}

// Ensure GormOrderRepository implements OrderRepository
var _ legacy.OrderRepository = (*GormOrderRepository)(nil)
