package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"biryanipos_backend/internal/models"

	"github.com/lib/pq"
)

// TableRepository defines the interface for restaurant table records.
type TableRepository interface {
	CreateTable(executor SQLExecutor, table *models.RestaurantTable) (int64, error)
	GetTables() ([]models.RestaurantTable, error)
	GetTableByNumber(tableNumber string) (*models.RestaurantTable, error)
	UpdateTable(executor SQLExecutor, table *models.RestaurantTable) error
	DeleteTable(executor SQLExecutor, id int64) error

	// Occupy seats an order on the table; Release frees it. Both are no-ops
	// when the table number does not exist, matching the behaviour of
	// optional table assignment on takeaway orders.
	Occupy(executor SQLExecutor, tableNumber string, orderID int64) error
	Release(executor SQLExecutor, tableNumber string) error
}

type tableRepository struct {
	db *sql.DB
}

// NewTableRepository creates a new instance of TableRepository.
func NewTableRepository(db *sql.DB) TableRepository {
	return &tableRepository{db: db}
}

func (r *tableRepository) CreateTable(executor SQLExecutor, table *models.RestaurantTable) (int64, error) {
	query := `INSERT INTO restaurant_tables (table_number, capacity, status)
	          VALUES ($1, $2, $3)
	          RETURNING id`
	err := executor.QueryRow(query, table.TableNumber, table.Capacity, table.Status).Scan(&table.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: table number '%s' already exists", ErrDuplicateKey, table.TableNumber)
		}
		return 0, fmt.Errorf("%w: creating table: %v", ErrDatabaseError, err)
	}
	return table.ID, nil
}

func (r *tableRepository) GetTables() ([]models.RestaurantTable, error) {
	tables := []models.RestaurantTable{}
	query := `SELECT id, table_number, capacity, status, current_order_id
	          FROM restaurant_tables ORDER BY table_number`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: getting tables: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var table models.RestaurantTable
		if err := rows.Scan(&table.ID, &table.TableNumber, &table.Capacity, &table.Status, &table.CurrentOrderID); err != nil {
			return nil, fmt.Errorf("%w: scanning table: %v", ErrDatabaseError, err)
		}
		tables = append(tables, table)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating tables: %v", ErrDatabaseError, err)
	}
	return tables, nil
}

func (r *tableRepository) GetTableByNumber(tableNumber string) (*models.RestaurantTable, error) {
	table := &models.RestaurantTable{}
	query := `SELECT id, table_number, capacity, status, current_order_id
	          FROM restaurant_tables WHERE table_number = $1`
	err := r.db.QueryRow(query, tableNumber).Scan(
		&table.ID, &table.TableNumber, &table.Capacity, &table.Status, &table.CurrentOrderID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting table '%s': %v", ErrDatabaseError, tableNumber, err)
	}
	return table, nil
}

func (r *tableRepository) UpdateTable(executor SQLExecutor, table *models.RestaurantTable) error {
	query := `UPDATE restaurant_tables SET table_number = $1, capacity = $2, status = $3 WHERE id = $4`
	result, err := executor.Exec(query, table.TableNumber, table.Capacity, table.Status, table.ID)
	if err != nil {
		return fmt.Errorf("%w: updating table ID %d: %v", ErrDatabaseError, table.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *tableRepository) DeleteTable(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM restaurant_tables WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting table ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *tableRepository) Occupy(executor SQLExecutor, tableNumber string, orderID int64) error {
	query := `UPDATE restaurant_tables SET status = $1, current_order_id = $2 WHERE table_number = $3`
	if _, err := executor.Exec(query, models.TableOccupied, orderID, tableNumber); err != nil {
		return fmt.Errorf("%w: occupying table '%s': %v", ErrDatabaseError, tableNumber, err)
	}
	return nil
}

func (r *tableRepository) Release(executor SQLExecutor, tableNumber string) error {
	query := `UPDATE restaurant_tables SET status = $1, current_order_id = NULL WHERE table_number = $2`
	if _, err := executor.Exec(query, models.TableAvailable, tableNumber); err != nil {
		return fmt.Errorf("%w: releasing table '%s': %v", ErrDatabaseError, tableNumber, err)
	}
	return nil
}
