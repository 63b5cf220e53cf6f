package models

// TableStatus is the floor state of a restaurant table.
type TableStatus string

const (
	TableAvailable TableStatus = "AVAILABLE"
	TableOccupied  TableStatus = "OCCUPIED"
	TableReserved  TableStatus = "RESERVED"
)

// RestaurantTable is a physical table. CurrentOrderID is the active
// dine-in order seated on it, nil when available.
type RestaurantTable struct {
	ID             int64       `json:"id" db:"id"`
	TableNumber    string      `json:"table_number" db:"table_number" binding:"required"`
	Capacity       int         `json:"capacity" db:"capacity"`
	Status         TableStatus `json:"status" db:"status"`
	CurrentOrderID *int64      `json:"current_order_id,omitempty" db:"current_order_id"`
}
