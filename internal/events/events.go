package events

import "time"

const (
	// OrderCreatedTopic delivers newly placed orders to kitchen displays.
	OrderCreatedTopic = "orders.created"
	// OrderUpdatedTopic carries status and item changes on existing orders.
	OrderUpdatedTopic = "orders.updated"
	// StockAlertTopic announces items that dropped to or below reorder level.
	StockAlertTopic = "stock.alerts"
	// TableStatusTopic communicates table occupancy changes to the floor view.
	TableStatusTopic = "tables.status"
)

// OrderEvent is published whenever an order is created or its lifecycle
// state changes.
type OrderEvent struct {
	OrderID     int64     `json:"order_id"`
	Status      string    `json:"status"`
	OrderType   string    `json:"order_type"`
	TableNumber string    `json:"table_number,omitempty"`
	TotalAmount float64   `json:"total_amount"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// StockAlertEvent is published when a stock item falls to or below its
// reorder level.
type StockAlertEvent struct {
	StockItemID  int64     `json:"stock_item_id"`
	Name         string    `json:"name"`
	CurrentStock float64   `json:"current_stock"`
	ReorderLevel float64   `json:"reorder_level"`
	Unit         string    `json:"unit"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// TableStatusEvent is published when a table is occupied or released.
type TableStatusEvent struct {
	TableNumber string    `json:"table_number"`
	Status      string    `json:"status"`
	OrderID     int64     `json:"order_id,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Notifier publishes domain events for kitchen displays, floor views and
// low-stock dashboards. Implementations must be safe for concurrent use.
type Notifier interface {
	OrderCreated(event OrderEvent) error
	OrderUpdated(event OrderEvent) error
	StockAlert(event StockAlertEvent) error
	TableStatus(event TableStatusEvent) error
	Close() error
}

// NoopNotifier discards every event. Used when no broker is configured.
type NoopNotifier struct{}

func (NoopNotifier) OrderCreated(OrderEvent) error      { return nil }
func (NoopNotifier) OrderUpdated(OrderEvent) error      { return nil }
func (NoopNotifier) StockAlert(StockAlertEvent) error   { return nil }
func (NoopNotifier) TableStatus(TableStatusEvent) error { return nil }
func (NoopNotifier) Close() error                       { return nil }
