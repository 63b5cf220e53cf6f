package models

import "time"

// Category groups menu items for display purposes.
type Category struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name" binding:"required"`
	Description  *string   `json:"description,omitempty" db:"description"`
	DisplayOrder int       `json:"display_order" db:"display_order"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// MenuItem is a sellable catalog entry. An item may track its own stock
// directly (bottled drinks), consume raw StockItems through its
// ingredient links, or both.
type MenuItem struct {
	ID              int64   `json:"id" db:"id"`
	Name            string  `json:"name" db:"name" binding:"required"`
	Description     *string `json:"description,omitempty" db:"description"`
	Price           float64 `json:"price" db:"price" binding:"required,gt=0"`
	CategoryID      *int64  `json:"category_id,omitempty" db:"category_id"`
	IsAvailable     bool    `json:"is_available" db:"is_available"`
	GSTPercent      float64 `json:"gst_percent" db:"gst_percent"`
	PrepTimeMinutes int     `json:"prep_time_minutes" db:"prep_time_minutes"`
	Vegetarian      bool    `json:"vegetarian" db:"vegetarian"`

	// Direct inventory tracking for this item itself.
	TrackStock bool    `json:"track_stock" db:"track_stock"`
	StockLevel float64 `json:"stock_level" db:"stock_level"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Owned collections. Back-references from variations/ingredients are
	// ids only; the MenuItem is the sole owner of these lists.
	Variations  []MenuItemVariation  `json:"variations"`
	Ingredients []MenuItemIngredient `json:"ingredients"`
}

// MenuItemVariation is a priced variant of a MenuItem (e.g. Half/Full).
// StockMultiplier scales ingredient and direct-stock usage for the
// variant; the base portion is 1.0.
type MenuItemVariation struct {
	ID              int64   `json:"id" db:"id"`
	MenuItemID      int64   `json:"menu_item_id" db:"menu_item_id"`
	Name            string  `json:"name" db:"name" binding:"required"`
	Price           float64 `json:"price" db:"price" binding:"required,gt=0"`
	StockMultiplier float64 `json:"stock_multiplier" db:"stock_multiplier"`
}

// MenuItemIngredient links a MenuItem to a raw StockItem with the
// quantity consumed per base portion.
type MenuItemIngredient struct {
	ID          int64   `json:"id" db:"id"`
	MenuItemID  int64   `json:"menu_item_id" db:"menu_item_id"`
	StockItemID int64   `json:"stock_item_id" db:"stock_item_id" binding:"required"`
	Quantity    float64 `json:"quantity" db:"quantity" binding:"required,gt=0"`

	// Denormalised for display and error messages.
	StockItemName string `json:"stock_item_name,omitempty"`
	StockItemUnit string `json:"stock_item_unit,omitempty"`
}

// VariationByID returns the variation with the given id, or nil.
func (m *MenuItem) VariationByID(id int64) *MenuItemVariation {
	for i := range m.Variations {
		if m.Variations[i].ID == id {
			return &m.Variations[i]
		}
	}
	return nil
}
