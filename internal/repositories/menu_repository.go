package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"biryanipos_backend/internal/models"

	"github.com/lib/pq"
)

// MenuRepository defines the interface for catalog database operations.
// A MenuItem owns its variations and ingredient links; they are written
// and deleted with the item, never independently.
type MenuRepository interface {
	// Category methods
	CreateCategory(executor SQLExecutor, category *models.Category) (int64, error)
	GetCategories() ([]models.Category, error)
	UpdateCategory(executor SQLExecutor, category *models.Category) error
	DeleteCategory(executor SQLExecutor, id int64) error

	// MenuItem methods
	CreateItem(executor SQLExecutor, item *models.MenuItem) (int64, error)
	GetItemByID(id int64) (*models.MenuItem, error)
	GetItems(categoryID *int64, availableOnly bool, page, pageSize int) ([]models.MenuItem, int, error)
	UpdateItem(executor SQLExecutor, item *models.MenuItem) error
	DeleteItem(executor SQLExecutor, id int64) error

	// GetItemForUpdate locks the menu item row exclusively for the duration
	// of the surrounding transaction and loads its variations and
	// ingredients through the same executor. Serialises concurrent stock
	// checks against the same item.
	GetItemForUpdate(executor SQLExecutor, id int64) (*models.MenuItem, error)
	// UpdateDirectStock persists a new direct stock level and availability
	// flag for a track-stock item.
	UpdateDirectStock(executor SQLExecutor, id int64, stockLevel float64, available bool) error
}

type menuRepository struct {
	db *sql.DB
}

// NewMenuRepository creates a new instance of MenuRepository.
func NewMenuRepository(db *sql.DB) MenuRepository {
	return &menuRepository{db: db}
}

// --- Category Methods ---

func (r *menuRepository) CreateCategory(executor SQLExecutor, category *models.Category) (int64, error) {
	query := `INSERT INTO categories (name, description, display_order, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $4)
	          RETURNING id`
	err := executor.QueryRow(query, category.Name, category.Description, category.DisplayOrder, time.Now()).Scan(&category.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: category name '%s' already exists", ErrDuplicateKey, category.Name)
		}
		return 0, fmt.Errorf("%w: creating category: %v", ErrDatabaseError, err)
	}
	return category.ID, nil
}

func (r *menuRepository) GetCategories() ([]models.Category, error) {
	categories := []models.Category{}
	query := `SELECT id, name, description, display_order, created_at, updated_at
	          FROM categories ORDER BY display_order, name`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: getting categories: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Description, &category.DisplayOrder,
			&category.CreatedAt, &category.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning category: %v", ErrDatabaseError, err)
		}
		categories = append(categories, category)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating categories: %v", ErrDatabaseError, err)
	}
	return categories, nil
}

func (r *menuRepository) UpdateCategory(executor SQLExecutor, category *models.Category) error {
	query := `UPDATE categories SET name = $1, description = $2, display_order = $3, updated_at = $4 WHERE id = $5`
	result, err := executor.Exec(query, category.Name, category.Description, category.DisplayOrder, time.Now(), category.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: category name '%s' already exists", ErrDuplicateKey, category.Name)
		}
		return fmt.Errorf("%w: updating category ID %d: %v", ErrDatabaseError, category.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *menuRepository) DeleteCategory(executor SQLExecutor, id int64) error {
	var count int
	if err := executor.QueryRow(`SELECT COUNT(*) FROM menu_items WHERE category_id = $1`, id).Scan(&count); err != nil {
		return fmt.Errorf("%w: checking if category %d is in use: %v", ErrDatabaseError, id, err)
	}
	if count > 0 {
		return fmt.Errorf("%w: category ID %d is in use by %d menu item(s)", ErrDatabaseError, id, count)
	}

	result, err := executor.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting category ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- MenuItem Methods ---

const menuItemColumns = `id, name, description, price, category_id, is_available, gst_percent,
	    prep_time_minutes, vegetarian, track_stock, stock_level, created_at, updated_at`

func scanMenuItem(s scanner, item *models.MenuItem, extra ...interface{}) error {
	dest := []interface{}{
		&item.ID, &item.Name, &item.Description, &item.Price, &item.CategoryID, &item.IsAvailable,
		&item.GSTPercent, &item.PrepTimeMinutes, &item.Vegetarian, &item.TrackStock, &item.StockLevel,
		&item.CreatedAt, &item.UpdatedAt,
	}
	dest = append(dest, extra...)
	return s.Scan(dest...)
}

func (r *menuRepository) CreateItem(executor SQLExecutor, item *models.MenuItem) (int64, error) {
	query := `INSERT INTO menu_items
	          (name, description, price, category_id, is_available, gst_percent, prep_time_minutes,
	           vegetarian, track_stock, stock_level, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
	          RETURNING id`
	err := executor.QueryRow(query,
		item.Name, item.Description, item.Price, item.CategoryID, item.IsAvailable,
		item.GSTPercent, item.PrepTimeMinutes, item.Vegetarian, item.TrackStock, item.StockLevel,
		time.Now(),
	).Scan(&item.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return 0, fmt.Errorf("%w: menu item (constraint: %s)", ErrDuplicateKey, pqErr.Constraint)
			}
			if pqErr.Code.Name() == "foreign_key_violation" {
				return 0, fmt.Errorf("%w: invalid reference creating menu item (constraint: %s)", ErrDatabaseError, pqErr.Constraint)
			}
		}
		return 0, fmt.Errorf("%w: creating menu item: %v", ErrDatabaseError, err)
	}

	for i := range item.Variations {
		item.Variations[i].MenuItemID = item.ID
		if err := r.createVariation(executor, &item.Variations[i]); err != nil {
			return 0, err
		}
	}
	for i := range item.Ingredients {
		item.Ingredients[i].MenuItemID = item.ID
		if err := r.createIngredient(executor, &item.Ingredients[i]); err != nil {
			return 0, err
		}
	}
	return item.ID, nil
}

func (r *menuRepository) createVariation(executor SQLExecutor, v *models.MenuItemVariation) error {
	if v.StockMultiplier <= 0 {
		v.StockMultiplier = 1.0
	}
	query := `INSERT INTO menu_item_variations (menu_item_id, name, price, stock_multiplier)
	          VALUES ($1, $2, $3, $4) RETURNING id`
	if err := executor.QueryRow(query, v.MenuItemID, v.Name, v.Price, v.StockMultiplier).Scan(&v.ID); err != nil {
		return fmt.Errorf("%w: creating menu item variation: %v", ErrDatabaseError, err)
	}
	return nil
}

func (r *menuRepository) createIngredient(executor SQLExecutor, ing *models.MenuItemIngredient) error {
	query := `INSERT INTO menu_item_ingredients (menu_item_id, stock_item_id, quantity)
	          VALUES ($1, $2, $3) RETURNING id`
	if err := executor.QueryRow(query, ing.MenuItemID, ing.StockItemID, ing.Quantity).Scan(&ing.ID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("%w: stock item ID %d for ingredient", ErrNotFound, ing.StockItemID)
		}
		return fmt.Errorf("%w: creating menu item ingredient: %v", ErrDatabaseError, err)
	}
	return nil
}

func (r *menuRepository) GetItemByID(id int64) (*models.MenuItem, error) {
	item := &models.MenuItem{}
	query := `SELECT ` + menuItemColumns + ` FROM menu_items WHERE id = $1`
	if err := scanMenuItem(r.db.QueryRow(query, id), item); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting menu item by ID %d: %v", ErrDatabaseError, id, err)
	}
	if err := r.loadOwnedCollections(r.db, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (r *menuRepository) GetItems(categoryID *int64, availableOnly bool, page, pageSize int) ([]models.MenuItem, int, error) {
	items := []models.MenuItem{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + menuItemColumns + `, COUNT(*) OVER() AS total_count FROM menu_items`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if categoryID != nil {
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", argCount))
		args = append(args, *categoryID)
		argCount++
	}
	if availableOnly {
		conditions = append(conditions, "is_available = TRUE")
	}
	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY name")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting menu items: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.MenuItem
		if err := scanMenuItem(rows, &item, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning menu item: %v", ErrDatabaseError, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating menu items: %v", ErrDatabaseError, err)
	}

	for i := range items {
		if err := r.loadOwnedCollections(r.db, &items[i]); err != nil {
			return nil, 0, err
		}
	}
	return items, totalCount, nil
}

func (r *menuRepository) UpdateItem(executor SQLExecutor, item *models.MenuItem) error {
	query := `UPDATE menu_items SET
	            name = $1, description = $2, price = $3, category_id = $4, is_available = $5,
	            gst_percent = $6, prep_time_minutes = $7, vegetarian = $8, track_stock = $9,
	            stock_level = $10, updated_at = $11
	          WHERE id = $12`
	result, err := executor.Exec(query,
		item.Name, item.Description, item.Price, item.CategoryID, item.IsAvailable,
		item.GSTPercent, item.PrepTimeMinutes, item.Vegetarian, item.TrackStock, item.StockLevel,
		time.Now(), item.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating menu item ID %d: %v", ErrDatabaseError, item.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}

	// Owned collections are replaced wholesale on update.
	if _, err := executor.Exec(`DELETE FROM menu_item_variations WHERE menu_item_id = $1`, item.ID); err != nil {
		return fmt.Errorf("%w: clearing variations for menu item ID %d: %v", ErrDatabaseError, item.ID, err)
	}
	if _, err := executor.Exec(`DELETE FROM menu_item_ingredients WHERE menu_item_id = $1`, item.ID); err != nil {
		return fmt.Errorf("%w: clearing ingredients for menu item ID %d: %v", ErrDatabaseError, item.ID, err)
	}
	for i := range item.Variations {
		item.Variations[i].MenuItemID = item.ID
		if err := r.createVariation(executor, &item.Variations[i]); err != nil {
			return err
		}
	}
	for i := range item.Ingredients {
		item.Ingredients[i].MenuItemID = item.ID
		if err := r.createIngredient(executor, &item.Ingredients[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *menuRepository) DeleteItem(executor SQLExecutor, id int64) error {
	if _, err := executor.Exec(`DELETE FROM menu_item_variations WHERE menu_item_id = $1`, id); err != nil {
		return fmt.Errorf("%w: deleting variations for menu item ID %d: %v", ErrDatabaseError, id, err)
	}
	if _, err := executor.Exec(`DELETE FROM menu_item_ingredients WHERE menu_item_id = $1`, id); err != nil {
		return fmt.Errorf("%w: deleting ingredients for menu item ID %d: %v", ErrDatabaseError, id, err)
	}
	result, err := executor.Exec(`DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("%w: menu item ID %d is referenced by existing orders (constraint: %s)", ErrDatabaseError, id, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting menu item ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *menuRepository) GetItemForUpdate(executor SQLExecutor, id int64) (*models.MenuItem, error) {
	item := &models.MenuItem{}
	query := `SELECT ` + menuItemColumns + ` FROM menu_items WHERE id = $1 FOR UPDATE NOWAIT`
	if err := scanMenuItem(executor.QueryRow(query, id), item); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "lock_not_available" {
			return nil, fmt.Errorf("%w: menu item ID %d", ErrLockNotAvailable, id)
		}
		return nil, fmt.Errorf("%w: locking menu item ID %d: %v", ErrDatabaseError, id, err)
	}
	if err := r.loadOwnedCollections(executor, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (r *menuRepository) UpdateDirectStock(executor SQLExecutor, id int64, stockLevel float64, available bool) error {
	query := `UPDATE menu_items SET stock_level = $1, is_available = $2, updated_at = $3
	          WHERE id = $4 AND track_stock = TRUE`
	result, err := executor.Exec(query, stockLevel, available, time.Now(), id)
	if err != nil {
		return fmt.Errorf("%w: updating direct stock for menu item ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("%w: menu item ID %d does not track stock or does not exist", ErrDatabaseError, id)
	}
	return nil
}

func (r *menuRepository) loadOwnedCollections(executor SQLExecutor, item *models.MenuItem) error {
	item.Variations = []models.MenuItemVariation{}
	rows, err := executor.Query(`SELECT id, menu_item_id, name, price, stock_multiplier
	                             FROM menu_item_variations WHERE menu_item_id = $1 ORDER BY id`, item.ID)
	if err != nil {
		return fmt.Errorf("%w: getting variations for menu item ID %d: %v", ErrDatabaseError, item.ID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var v models.MenuItemVariation
		if err := rows.Scan(&v.ID, &v.MenuItemID, &v.Name, &v.Price, &v.StockMultiplier); err != nil {
			return fmt.Errorf("%w: scanning variation: %v", ErrDatabaseError, err)
		}
		item.Variations = append(item.Variations, v)
	}
	if err = rows.Err(); err != nil {
		return fmt.Errorf("%w: iterating variations: %v", ErrDatabaseError, err)
	}

	item.Ingredients = []models.MenuItemIngredient{}
	ingRows, err := executor.Query(`SELECT mi.id, mi.menu_item_id, mi.stock_item_id, mi.quantity, si.name, si.unit
	                                FROM menu_item_ingredients mi
	                                JOIN stock_items si ON mi.stock_item_id = si.id
	                                WHERE mi.menu_item_id = $1 ORDER BY mi.stock_item_id`, item.ID)
	if err != nil {
		return fmt.Errorf("%w: getting ingredients for menu item ID %d: %v", ErrDatabaseError, item.ID, err)
	}
	defer ingRows.Close()
	for ingRows.Next() {
		var ing models.MenuItemIngredient
		if err := ingRows.Scan(&ing.ID, &ing.MenuItemID, &ing.StockItemID, &ing.Quantity,
			&ing.StockItemName, &ing.StockItemUnit); err != nil {
			return fmt.Errorf("%w: scanning ingredient: %v", ErrDatabaseError, err)
		}
		item.Ingredients = append(item.Ingredients, ing)
	}
	if err = ingRows.Err(); err != nil {
		return fmt.Errorf("%w: iterating ingredients: %v", ErrDatabaseError, err)
	}
	return nil
}
