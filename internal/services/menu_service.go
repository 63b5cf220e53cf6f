package services

import (
	"errors"
	"fmt"

	"biryanipos_backend/internal/models"
	"biryanipos_backend/internal/repositories"
)

// --- Data Transfer Objects (DTOs) ---

// CreateCategoryRequest creates or renames a display category.
type CreateCategoryRequest struct {
	Name         string  `json:"name" binding:"required"`
	Description  *string `json:"description"`
	DisplayOrder int     `json:"display_order"`
}

// MenuItemVariationRequest is a priced variant on an item request.
type MenuItemVariationRequest struct {
	Name            string  `json:"name" binding:"required"`
	Price           float64 `json:"price" binding:"required,gt=0"`
	StockMultiplier float64 `json:"stock_multiplier" binding:"gte=0"`
}

// MenuItemIngredientRequest links an item to a stock item.
type MenuItemIngredientRequest struct {
	StockItemID int64   `json:"stock_item_id" binding:"required"`
	Quantity    float64 `json:"quantity" binding:"required,gt=0"`
}

// MenuItemRequest creates or replaces a menu item with its owned
// variations and ingredient links.
type MenuItemRequest struct {
	Name            string                      `json:"name" binding:"required"`
	Description     *string                     `json:"description"`
	Price           float64                     `json:"price" binding:"required,gt=0"`
	CategoryID      *int64                      `json:"category_id"`
	IsAvailable     *bool                       `json:"is_available"`
	GSTPercent      *float64                    `json:"gst_percent"`
	PrepTimeMinutes int                         `json:"prep_time_minutes" binding:"gte=0"`
	Vegetarian      bool                        `json:"vegetarian"`
	TrackStock      bool                        `json:"track_stock"`
	StockLevel      float64                     `json:"stock_level" binding:"gte=0"`
	Variations      []MenuItemVariationRequest  `json:"variations" binding:"omitempty,dive"`
	Ingredients     []MenuItemIngredientRequest `json:"ingredients" binding:"omitempty,dive"`
}

// MenuService manages the sellable catalog: categories, menu items, their
// variations and recipe links.
type MenuService interface {
	CreateCategory(req CreateCategoryRequest) (*models.Category, error)
	GetCategories() ([]models.Category, error)
	UpdateCategory(id int64, req CreateCategoryRequest) (*models.Category, error)
	DeleteCategory(id int64) error

	CreateMenuItem(req MenuItemRequest) (*models.MenuItem, error)
	GetMenuItemByID(id int64) (*models.MenuItem, error)
	GetMenuItems(categoryID *int64, availableOnly bool, page, pageSize int) ([]models.MenuItem, int, error)
	UpdateMenuItem(id int64, req MenuItemRequest) (*models.MenuItem, error)
	DeleteMenuItem(id int64) error
}

type menuService struct {
	txManager repositories.TxManager
	menuRepo  repositories.MenuRepository
	stockRepo repositories.StockRepository
	cfg       models.AppConfig
}

// NewMenuService creates a new MenuService.
func NewMenuService(txManager repositories.TxManager, menuRepo repositories.MenuRepository, stockRepo repositories.StockRepository, cfg models.AppConfig) MenuService {
	return &menuService{txManager: txManager, menuRepo: menuRepo, stockRepo: stockRepo, cfg: cfg}
}

func (s *menuService) CreateCategory(req CreateCategoryRequest) (*models.Category, error) {
	category := &models.Category{
		Name:         req.Name,
		Description:  req.Description,
		DisplayOrder: req.DisplayOrder,
	}

	tx, err := s.txManager.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.menuRepo.CreateCategory(tx, category); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateRecord, err)
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit category creation: %w", err)
	}
	return category, nil
}

func (s *menuService) GetCategories() ([]models.Category, error) {
	categories, err := s.menuRepo.GetCategories()
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	return categories, nil
}

func (s *menuService) UpdateCategory(id int64, req CreateCategoryRequest) (*models.Category, error) {
	category := &models.Category{
		ID:           id,
		Name:         req.Name,
		Description:  req.Description,
		DisplayOrder: req.DisplayOrder,
	}

	tx, err := s.txManager.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.menuRepo.UpdateCategory(tx, category); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: category ID %d", ErrValidation, id)
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateRecord, err)
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit category update: %w", err)
	}
	return category, nil
}

func (s *menuService) DeleteCategory(id int64) error {
	tx, err := s.txManager.Begin()
	if err != nil {
		return fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.menuRepo.DeleteCategory(tx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: category ID %d", ErrValidation, id)
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return tx.Commit()
}

// buildMenuItem maps a request onto the model, filling catalog defaults.
func (s *menuService) buildMenuItem(id int64, req MenuItemRequest) (*models.MenuItem, error) {
	item := &models.MenuItem{
		ID:              id,
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		CategoryID:      req.CategoryID,
		IsAvailable:     true,
		GSTPercent:      s.cfg.DefaultGSTPercent,
		PrepTimeMinutes: req.PrepTimeMinutes,
		Vegetarian:      req.Vegetarian,
		TrackStock:      req.TrackStock,
		StockLevel:      req.StockLevel,
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	if req.GSTPercent != nil {
		if *req.GSTPercent < 0 {
			return nil, fmt.Errorf("%w: gst_percent cannot be negative", ErrValidation)
		}
		item.GSTPercent = *req.GSTPercent
	}

	for _, v := range req.Variations {
		multiplier := v.StockMultiplier
		if multiplier <= 0 {
			multiplier = 1.0
		}
		item.Variations = append(item.Variations, models.MenuItemVariation{
			Name:            v.Name,
			Price:           v.Price,
			StockMultiplier: multiplier,
		})
	}

	seen := make(map[int64]bool)
	for _, ing := range req.Ingredients {
		if seen[ing.StockItemID] {
			return nil, fmt.Errorf("%w: duplicate ingredient stock item %d", ErrValidation, ing.StockItemID)
		}
		seen[ing.StockItemID] = true
		if _, err := s.stockRepo.GetItemByID(ing.StockItemID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: ingredient stock item %d", ErrStockItemNotFound, ing.StockItemID)
			}
			return nil, fmt.Errorf("failed to verify ingredient stock item %d: %w", ing.StockItemID, err)
		}
		item.Ingredients = append(item.Ingredients, models.MenuItemIngredient{
			StockItemID: ing.StockItemID,
			Quantity:    ing.Quantity,
		})
	}
	return item, nil
}

func (s *menuService) CreateMenuItem(req MenuItemRequest) (*models.MenuItem, error) {
	item, err := s.buildMenuItem(0, req)
	if err != nil {
		return nil, err
	}

	tx, err := s.txManager.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.menuRepo.CreateItem(tx, item); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateRecord, err)
		}
		return nil, fmt.Errorf("failed to create menu item: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit menu item creation: %w", err)
	}
	return s.GetMenuItemByID(item.ID)
}

func (s *menuService) GetMenuItemByID(id int64) (*models.MenuItem, error) {
	item, err := s.menuRepo.GetItemByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMenuItemNotFound
		}
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}
	return item, nil
}

func (s *menuService) GetMenuItems(categoryID *int64, availableOnly bool, page, pageSize int) ([]models.MenuItem, int, error) {
	items, total, err := s.menuRepo.GetItems(categoryID, availableOnly, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get menu items: %w", err)
	}
	return items, total, nil
}

func (s *menuService) UpdateMenuItem(id int64, req MenuItemRequest) (*models.MenuItem, error) {
	if _, err := s.GetMenuItemByID(id); err != nil {
		return nil, err
	}
	item, err := s.buildMenuItem(id, req)
	if err != nil {
		return nil, err
	}

	tx, err := s.txManager.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.menuRepo.UpdateItem(tx, item); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateRecord, err)
		}
		return nil, fmt.Errorf("failed to update menu item: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit menu item update: %w", err)
	}
	return s.GetMenuItemByID(id)
}

func (s *menuService) DeleteMenuItem(id int64) error {
	tx, err := s.txManager.Begin()
	if err != nil {
		return fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.menuRepo.DeleteItem(tx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrMenuItemNotFound
		}
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	return tx.Commit()
}
