package services

import (
	"testing"

	"biryanipos_backend/internal/models"
)

func TestResolveStockUsageMergesAndSorts(t *testing.T) {
	resolver := NewRecipeResolver()

	item := &models.MenuItem{
		Name: "Chicken Biryani",
		Ingredients: []models.MenuItemIngredient{
			{StockItemID: 7, Quantity: 0.2},  // rice
			{StockItemID: 3, Quantity: 0.25}, // chicken
			{StockItemID: 7, Quantity: 0.05}, // rice again, different prep step
		},
	}

	usages := resolver.ResolveStockUsage(item, nil, 2)
	if len(usages) != 2 {
		t.Fatalf("got %d usages, want 2 (duplicates merged)", len(usages))
	}
	if usages[0].StockItemID != 3 || usages[1].StockItemID != 7 {
		t.Errorf("usages not sorted by stock item ID: %+v", usages)
	}
	if usages[0].Quantity != 0.5 {
		t.Errorf("chicken usage = %v, want 0.5", usages[0].Quantity)
	}
	if usages[1].Quantity != 0.5 {
		t.Errorf("rice usage = %v, want 0.5 (merged 0.2+0.05 times 2)", usages[1].Quantity)
	}
}

func TestResolveStockUsageVariationMultiplier(t *testing.T) {
	resolver := NewRecipeResolver()

	item := &models.MenuItem{
		Ingredients: []models.MenuItemIngredient{{StockItemID: 1, Quantity: 0.3}},
	}
	half := &models.MenuItemVariation{Name: "Half", StockMultiplier: 0.5}

	usages := resolver.ResolveStockUsage(item, half, 2)
	if len(usages) != 1 || usages[0].Quantity != 0.3 {
		t.Errorf("half portion usage = %+v, want 0.3", usages)
	}

	// A zero multiplier falls back to the base portion.
	zero := &models.MenuItemVariation{Name: "Broken", StockMultiplier: 0}
	usages = resolver.ResolveStockUsage(item, zero, 1)
	if usages[0].Quantity != 0.3 {
		t.Errorf("zero-multiplier usage = %v, want base 0.3", usages[0].Quantity)
	}
}

func TestDirectStockUsage(t *testing.T) {
	resolver := NewRecipeResolver()

	untracked := &models.MenuItem{TrackStock: false}
	if got := resolver.DirectStockUsage(untracked, nil, 5); got != 0 {
		t.Errorf("untracked item usage = %v, want 0", got)
	}

	tracked := &models.MenuItem{TrackStock: true}
	if got := resolver.DirectStockUsage(tracked, nil, 3); got != 3 {
		t.Errorf("tracked item usage = %v, want 3", got)
	}

	double := &models.MenuItemVariation{StockMultiplier: 2}
	if got := resolver.DirectStockUsage(tracked, double, 3); got != 6 {
		t.Errorf("tracked item with multiplier = %v, want 6", got)
	}
}
