package models

import "time"

// OrderStatus is the kitchen lifecycle of an order (and of each item).
type OrderStatus string

const (
	StatusNew       OrderStatus = "NEW"
	StatusCooking   OrderStatus = "COOKING"
	StatusReady     OrderStatus = "READY"
	StatusServed    OrderStatus = "SERVED"
	StatusPaid      OrderStatus = "PAID"
	StatusCancelled OrderStatus = "CANCELLED"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusNew, StatusCooking, StatusReady, StatusServed, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further kitchen transitions are allowed.
func (s OrderStatus) Terminal() bool {
	return s == StatusPaid || s == StatusCancelled
}

// OrderType distinguishes how the order is fulfilled.
type OrderType string

const (
	OrderTypeDineIn   OrderType = "DINE_IN"
	OrderTypeTakeaway OrderType = "TAKEAWAY"
	OrderTypeDelivery OrderType = "DELIVERY"
)

// Valid reports whether t is a known order type.
func (t OrderType) Valid() bool {
	switch t {
	case OrderTypeDineIn, OrderTypeTakeaway, OrderTypeDelivery:
		return true
	}
	return false
}

// Order is the aggregate root of one customer transaction. It exclusively
// owns its Items list; items refer back to the order by id only.
//
// Monetary invariant after every mutating operation:
//
//	TotalAmount == Subtotal - Discount + CGST + SGST
type Order struct {
	ID            int64         `json:"id" db:"id"`
	CustomerName  *string       `json:"customer_name,omitempty" db:"customer_name"`
	CustomerPhone *string       `json:"customer_phone,omitempty" db:"customer_phone"`
	TableNumber   *string       `json:"table_number,omitempty" db:"table_number"`
	OrderType     OrderType     `json:"order_type" db:"order_type"`
	Status        OrderStatus   `json:"status" db:"status"`
	PaymentStatus PaymentStatus `json:"payment_status" db:"payment_status"`

	Subtotal    float64 `json:"subtotal" db:"subtotal"`
	CGST        float64 `json:"cgst" db:"cgst"`
	SGST        float64 `json:"sgst" db:"sgst"`
	Discount    float64 `json:"discount" db:"discount"`
	TotalAmount float64 `json:"total_amount" db:"total_amount"`

	// Freeze marks that the kitchen has started; bulk structural edits are
	// blocked, though appending items is still allowed.
	Frozen     bool       `json:"frozen" db:"frozen"`
	FrozenAt   *time.Time `json:"frozen_at,omitempty" db:"frozen_at"`
	GSTEnabled bool       `json:"gst_enabled" db:"gst_enabled"`
	CreatedBy  *string    `json:"created_by,omitempty" db:"created_by"`

	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	CompletedAt        *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	EstimatedReadyTime *time.Time `json:"estimated_ready_time,omitempty" db:"estimated_ready_time"`

	Items []OrderItem `json:"items"`
}

// OrderItem snapshots one purchased menu item. Price and GSTPercent are
// copied at order time and are immune to later catalog changes.
type OrderItem struct {
	ID          int64       `json:"id" db:"id"`
	OrderID     int64       `json:"order_id" db:"order_id"`
	MenuItemID  int64       `json:"menu_item_id" db:"menu_item_id"`
	VariationID *int64      `json:"variation_id,omitempty" db:"variation_id"`
	Quantity    int         `json:"quantity" db:"quantity"`
	Price       float64     `json:"price" db:"price"`             // snapshot
	GSTPercent  float64     `json:"gst_percent" db:"gst_percent"` // snapshot
	Status      OrderStatus `json:"status" db:"status"`

	// Denormalised for display.
	MenuItemName  string  `json:"menu_item_name,omitempty"`
	VariationName *string `json:"variation_name,omitempty"`
}

// OrderFilters defines the available filters for querying orders.
// This struct is used by both the service and repository layers.
type OrderFilters struct {
	Status      *string `form:"status"`
	TableNumber *string `form:"table_number"`
	Date        *string `form:"date"` // Expected format YYYY-MM-DD
	Page        int     `form:"page"`
	PageSize    int     `form:"page_size"`
}
