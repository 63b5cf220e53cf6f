package services

import (
	"sort"

	"biryanipos_backend/internal/models"
)

// StockUsage is the resolved quantity of one stock item consumed by an
// order line.
type StockUsage struct {
	StockItemID int64
	Quantity    float64
}

// RecipeResolver expands menu item recipes into stock item quantities.
type RecipeResolver struct{}

// NewRecipeResolver creates a RecipeResolver.
func NewRecipeResolver() *RecipeResolver {
	return &RecipeResolver{}
}

// ResolveStockUsage computes the stock consumed by ordering `quantity`
// units of the item. A variation's stock multiplier scales every
// ingredient. Duplicate ingredients are merged, and the result is ordered
// by stock item ID so callers acquire row locks in a stable order.
func (r *RecipeResolver) ResolveStockUsage(item *models.MenuItem, variation *models.MenuItemVariation, quantity int) []StockUsage {
	multiplier := 1.0
	if variation != nil && variation.StockMultiplier > 0 {
		multiplier = variation.StockMultiplier
	}

	byItem := make(map[int64]float64)
	for _, ing := range item.Ingredients {
		byItem[ing.StockItemID] += ing.Quantity * float64(quantity) * multiplier
	}

	usages := make([]StockUsage, 0, len(byItem))
	for id, qty := range byItem {
		usages = append(usages, StockUsage{StockItemID: id, Quantity: qty})
	}
	sort.Slice(usages, func(i, j int) bool { return usages[i].StockItemID < usages[j].StockItemID })
	return usages
}

// DirectStockUsage returns the units to deduct from a menu item's own
// tracked stock counter for an order line.
func (r *RecipeResolver) DirectStockUsage(item *models.MenuItem, variation *models.MenuItemVariation, quantity int) float64 {
	if !item.TrackStock {
		return 0
	}
	multiplier := 1.0
	if variation != nil && variation.StockMultiplier > 0 {
		multiplier = variation.StockMultiplier
	}
	return float64(quantity) * multiplier
}
