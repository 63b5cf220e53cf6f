package services

import (
	"errors"
	"testing"

	"biryanipos_backend/internal/models"
)

func newMenuFixture() (MenuService, *mockMenuRepo, *mockStockRepo) {
	menuRepo := newMockMenuRepo()
	stockRepo := newMockStockRepo()
	svc := NewMenuService(newMockTxManager(), menuRepo, stockRepo, models.DefaultAppConfig())
	return svc, menuRepo, stockRepo
}

func TestCreateMenuItemDefaults(t *testing.T) {
	svc, _, _ := newMenuFixture()

	item, err := svc.CreateMenuItem(MenuItemRequest{Name: "Veg Biryani", Price: 180})
	if err != nil {
		t.Fatalf("CreateMenuItem: %v", err)
	}
	if item.GSTPercent != 5.0 {
		t.Errorf("gst = %v, want catalog default 5", item.GSTPercent)
	}
	if !item.IsAvailable {
		t.Error("items default to available")
	}
}

func TestCreateMenuItemGSTOverride(t *testing.T) {
	svc, _, _ := newMenuFixture()

	gst := 12.0
	item, err := svc.CreateMenuItem(MenuItemRequest{Name: "Family Pack", Price: 600, GSTPercent: &gst})
	if err != nil {
		t.Fatalf("CreateMenuItem: %v", err)
	}
	if item.GSTPercent != 12 {
		t.Errorf("gst = %v, want 12", item.GSTPercent)
	}

	negative := -1.0
	if _, err := svc.CreateMenuItem(MenuItemRequest{Name: "Bad", Price: 10, GSTPercent: &negative}); !errors.Is(err, ErrValidation) {
		t.Errorf("negative gst: got %v, want ErrValidation", err)
	}
}

func TestCreateMenuItemIngredientChecks(t *testing.T) {
	svc, _, stockRepo := newMenuFixture()
	rice := stockRepo.addItem(models.StockItem{Name: "Basmati Rice", Unit: "KG", CurrentStock: 50, IsActive: true})

	item, err := svc.CreateMenuItem(MenuItemRequest{
		Name: "Jeera Rice", Price: 120,
		Ingredients: []MenuItemIngredientRequest{{StockItemID: rice.ID, Quantity: 0.25}},
	})
	if err != nil {
		t.Fatalf("CreateMenuItem: %v", err)
	}
	if len(item.Ingredients) != 1 || item.Ingredients[0].StockItemID != rice.ID {
		t.Errorf("ingredients = %+v", item.Ingredients)
	}

	if _, err := svc.CreateMenuItem(MenuItemRequest{
		Name: "Ghost Curry", Price: 100,
		Ingredients: []MenuItemIngredientRequest{{StockItemID: 999, Quantity: 0.1}},
	}); !errors.Is(err, ErrStockItemNotFound) {
		t.Errorf("unknown stock item: got %v, want ErrStockItemNotFound", err)
	}

	if _, err := svc.CreateMenuItem(MenuItemRequest{
		Name: "Double Rice", Price: 100,
		Ingredients: []MenuItemIngredientRequest{
			{StockItemID: rice.ID, Quantity: 0.1},
			{StockItemID: rice.ID, Quantity: 0.2},
		},
	}); !errors.Is(err, ErrValidation) {
		t.Errorf("duplicate ingredient: got %v, want ErrValidation", err)
	}
}

func TestCreateMenuItemVariationMultiplierDefault(t *testing.T) {
	svc, _, _ := newMenuFixture()

	item, err := svc.CreateMenuItem(MenuItemRequest{
		Name: "Chicken Biryani", Price: 250,
		Variations: []MenuItemVariationRequest{
			{Name: "Half", Price: 150, StockMultiplier: 0.5},
			{Name: "Full", Price: 250},
		},
	})
	if err != nil {
		t.Fatalf("CreateMenuItem: %v", err)
	}
	if len(item.Variations) != 2 {
		t.Fatalf("got %d variations, want 2", len(item.Variations))
	}
	if item.Variations[0].StockMultiplier != 0.5 {
		t.Errorf("half multiplier = %v, want 0.5", item.Variations[0].StockMultiplier)
	}
	if item.Variations[1].StockMultiplier != 1.0 {
		t.Errorf("unset multiplier = %v, want fallback 1", item.Variations[1].StockMultiplier)
	}
}

func TestCategoryLifecycle(t *testing.T) {
	svc, _, _ := newMenuFixture()

	category, err := svc.CreateCategory(CreateCategoryRequest{Name: "Starters", DisplayOrder: 1})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	renamed, err := svc.UpdateCategory(category.ID, CreateCategoryRequest{Name: "Appetisers", DisplayOrder: 1})
	if err != nil {
		t.Fatalf("UpdateCategory: %v", err)
	}
	if renamed.Name != "Appetisers" {
		t.Errorf("name = %s, want Appetisers", renamed.Name)
	}

	if _, err := svc.UpdateCategory(999, CreateCategoryRequest{Name: "Nope"}); !errors.Is(err, ErrValidation) {
		t.Errorf("unknown category update: got %v, want ErrValidation", err)
	}
	if err := svc.DeleteCategory(category.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	if err := svc.DeleteCategory(category.ID); !errors.Is(err, ErrValidation) {
		t.Errorf("double delete: got %v, want ErrValidation", err)
	}
}

func TestDeleteMenuItem(t *testing.T) {
	svc, _, _ := newMenuFixture()
	item, err := svc.CreateMenuItem(MenuItemRequest{Name: "Raita", Price: 40})
	if err != nil {
		t.Fatalf("CreateMenuItem: %v", err)
	}

	if err := svc.DeleteMenuItem(item.ID); err != nil {
		t.Fatalf("DeleteMenuItem: %v", err)
	}
	if _, err := svc.GetMenuItemByID(item.ID); !errors.Is(err, ErrMenuItemNotFound) {
		t.Errorf("got %v, want ErrMenuItemNotFound", err)
	}
}
