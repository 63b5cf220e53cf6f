package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"biryanipos_backend/internal/models"

	"github.com/lib/pq"
)

// StockRepository defines the interface for stock item and stock ledger
// database operations. Balance mutations always go through SetBalance
// paired with CreateTransaction inside one transaction; ledger rows are
// append-only and have no update or delete methods by design.
type StockRepository interface {
	CreateItem(executor SQLExecutor, item *models.StockItem) (int64, error)
	GetItemByID(id int64) (*models.StockItem, error)
	GetItems(activeOnly bool, page, pageSize int) ([]models.StockItem, int, error)
	GetLowStockItems() ([]models.StockItem, error)
	UpdateItem(executor SQLExecutor, item *models.StockItem) error
	DeactivateItem(executor SQLExecutor, id int64) error

	// GetItemForUpdate locks the item row exclusively for the duration of the
	// surrounding transaction. Returns ErrLockNotAvailable if another
	// transaction holds the lock.
	GetItemForUpdate(executor SQLExecutor, id int64) (*models.StockItem, error)
	SetBalance(executor SQLExecutor, id int64, balance float64, audited bool) error

	CreateTransaction(executor SQLExecutor, txn *models.StockTransaction) (int64, error)
	GetTransactionsByItem(stockItemID int64, page, pageSize int) ([]models.StockTransaction, int, error)
	GetTransactionsByType(txnType models.StockTransactionType, page, pageSize int) ([]models.StockTransaction, int, error)
	GetTransactionsByOrder(orderID int64) ([]models.StockTransaction, error)
	GetExpiringPurchases(before time.Time) ([]models.StockTransaction, error)
}

type stockRepository struct {
	db *sql.DB
}

// NewStockRepository creates a new instance of StockRepository.
func NewStockRepository(db *sql.DB) StockRepository {
	return &stockRepository{db: db}
}

const stockItemColumns = `id, name, unit, current_stock, reorder_level, cost_per_unit, supplier, is_active, last_updated, last_audit_date`

func scanStockItem(s scanner, item *models.StockItem) error {
	return s.Scan(
		&item.ID, &item.Name, &item.Unit, &item.CurrentStock, &item.ReorderLevel,
		&item.CostPerUnit, &item.Supplier, &item.IsActive, &item.LastUpdated, &item.LastAuditDate,
	)
}

func (r *stockRepository) CreateItem(executor SQLExecutor, item *models.StockItem) (int64, error) {
	query := `INSERT INTO stock_items (name, unit, current_stock, reorder_level, cost_per_unit, supplier, is_active, last_updated)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id`
	err := executor.QueryRow(query,
		item.Name, item.Unit, item.CurrentStock, item.ReorderLevel,
		item.CostPerUnit, item.Supplier, item.IsActive, time.Now(),
	).Scan(&item.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: stock item name '%s' already exists", ErrDuplicateKey, item.Name)
		}
		return 0, fmt.Errorf("%w: creating stock item: %v", ErrDatabaseError, err)
	}
	return item.ID, nil
}

func (r *stockRepository) GetItemByID(id int64) (*models.StockItem, error) {
	item := &models.StockItem{}
	query := `SELECT ` + stockItemColumns + ` FROM stock_items WHERE id = $1`
	if err := scanStockItem(r.db.QueryRow(query, id), item); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting stock item by ID %d: %v", ErrDatabaseError, id, err)
	}
	return item, nil
}

func (r *stockRepository) GetItems(activeOnly bool, page, pageSize int) ([]models.StockItem, int, error) {
	items := []models.StockItem{}
	totalCount := 0

	query := `SELECT ` + stockItemColumns + `, COUNT(*) OVER() AS total_count FROM stock_items`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting stock items: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.StockItem
		if err := rows.Scan(
			&item.ID, &item.Name, &item.Unit, &item.CurrentStock, &item.ReorderLevel,
			&item.CostPerUnit, &item.Supplier, &item.IsActive, &item.LastUpdated, &item.LastAuditDate,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning stock item: %v", ErrDatabaseError, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating stock items: %v", ErrDatabaseError, err)
	}
	return items, totalCount, nil
}

func (r *stockRepository) GetLowStockItems() ([]models.StockItem, error) {
	items := []models.StockItem{}
	query := `SELECT ` + stockItemColumns + ` FROM stock_items
	          WHERE is_active = TRUE AND current_stock <= reorder_level
	          ORDER BY name`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: getting low stock items: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.StockItem
		if err := scanStockItem(rows, &item); err != nil {
			return nil, fmt.Errorf("%w: scanning low stock item: %v", ErrDatabaseError, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating low stock items: %v", ErrDatabaseError, err)
	}
	return items, nil
}

func (r *stockRepository) UpdateItem(executor SQLExecutor, item *models.StockItem) error {
	// current_stock is deliberately absent: balances only change through
	// SetBalance alongside a ledger row.
	query := `UPDATE stock_items SET
	            name = $1, unit = $2, reorder_level = $3, cost_per_unit = $4,
	            supplier = $5, is_active = $6, last_updated = $7
	          WHERE id = $8`
	result, err := executor.Exec(query,
		item.Name, item.Unit, item.ReorderLevel, item.CostPerUnit,
		item.Supplier, item.IsActive, time.Now(), item.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: stock item name '%s' already exists", ErrDuplicateKey, item.Name)
		}
		return fmt.Errorf("%w: updating stock item ID %d: %v", ErrDatabaseError, item.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *stockRepository) DeactivateItem(executor SQLExecutor, id int64) error {
	query := `UPDATE stock_items SET is_active = FALSE, last_updated = $1 WHERE id = $2`
	result, err := executor.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("%w: deactivating stock item ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *stockRepository) GetItemForUpdate(executor SQLExecutor, id int64) (*models.StockItem, error) {
	item := &models.StockItem{}
	query := `SELECT ` + stockItemColumns + ` FROM stock_items WHERE id = $1 FOR UPDATE NOWAIT`
	if err := scanStockItem(executor.QueryRow(query, id), item); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "lock_not_available" {
			return nil, fmt.Errorf("%w: stock item ID %d", ErrLockNotAvailable, id)
		}
		return nil, fmt.Errorf("%w: locking stock item ID %d: %v", ErrDatabaseError, id, err)
	}
	return item, nil
}

func (r *stockRepository) SetBalance(executor SQLExecutor, id int64, balance float64, audited bool) error {
	query := `UPDATE stock_items SET current_stock = $1, last_updated = $2 WHERE id = $3`
	args := []interface{}{balance, time.Now(), id}
	if audited {
		query = `UPDATE stock_items SET current_stock = $1, last_updated = $2, last_audit_date = $2 WHERE id = $3`
	}
	result, err := executor.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("%w: setting balance for stock item ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *stockRepository) CreateTransaction(executor SQLExecutor, txn *models.StockTransaction) (int64, error) {
	query := `INSERT INTO stock_transactions
	          (stock_item_id, transaction_type, quantity, unit_cost_snapshot, reason, waste_category, expiry_date, order_id, transaction_date)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id`
	if txn.TransactionDate.IsZero() {
		txn.TransactionDate = time.Now()
	}
	err := executor.QueryRow(query,
		txn.StockItemID, txn.TransactionType, txn.Quantity, txn.UnitCostSnapshot,
		txn.Reason, txn.WasteCategory, txn.ExpiryDate, txn.OrderID, txn.TransactionDate,
	).Scan(&txn.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating stock transaction: %v", ErrDatabaseError, err)
	}
	return txn.ID, nil
}

const stockTxnSelect = `SELECT
	    st.id, st.stock_item_id, st.transaction_type, st.quantity, st.unit_cost_snapshot,
	    st.reason, st.waste_category, st.expiry_date, st.order_id, st.transaction_date,
	    si.name AS item_name, si.unit AS item_unit`

func scanStockTransaction(s scanner, txn *models.StockTransaction, extra ...interface{}) error {
	dest := []interface{}{
		&txn.ID, &txn.StockItemID, &txn.TransactionType, &txn.Quantity, &txn.UnitCostSnapshot,
		&txn.Reason, &txn.WasteCategory, &txn.ExpiryDate, &txn.OrderID, &txn.TransactionDate,
		&txn.StockItemName, &txn.StockItemUnit,
	}
	dest = append(dest, extra...)
	return s.Scan(dest...)
}

func (r *stockRepository) GetTransactionsByItem(stockItemID int64, page, pageSize int) ([]models.StockTransaction, int, error) {
	query := stockTxnSelect + `, COUNT(*) OVER() AS total_count
	  FROM stock_transactions st
	  JOIN stock_items si ON st.stock_item_id = si.id
	  WHERE st.stock_item_id = $1
	  ORDER BY st.transaction_date DESC, st.id DESC
	  LIMIT $2 OFFSET $3`
	return r.queryTransactions(query, stockItemID, pageSize, (page-1)*pageSize)
}

func (r *stockRepository) GetTransactionsByType(txnType models.StockTransactionType, page, pageSize int) ([]models.StockTransaction, int, error) {
	query := stockTxnSelect + `, COUNT(*) OVER() AS total_count
	  FROM stock_transactions st
	  JOIN stock_items si ON st.stock_item_id = si.id
	  WHERE st.transaction_type = $1
	  ORDER BY st.transaction_date DESC, st.id DESC
	  LIMIT $2 OFFSET $3`
	return r.queryTransactions(query, txnType, pageSize, (page-1)*pageSize)
}

func (r *stockRepository) queryTransactions(query string, args ...interface{}) ([]models.StockTransaction, int, error) {
	txns := []models.StockTransaction{}
	totalCount := 0

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting stock transactions: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var txn models.StockTransaction
		if err := scanStockTransaction(rows, &txn, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning stock transaction: %v", ErrDatabaseError, err)
		}
		txns = append(txns, txn)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating stock transactions: %v", ErrDatabaseError, err)
	}
	return txns, totalCount, nil
}

func (r *stockRepository) GetTransactionsByOrder(orderID int64) ([]models.StockTransaction, error) {
	query := stockTxnSelect + `
	  FROM stock_transactions st
	  JOIN stock_items si ON st.stock_item_id = si.id
	  WHERE st.order_id = $1
	  ORDER BY st.transaction_date, st.id`
	rows, err := r.db.Query(query, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: getting stock transactions for order %d: %v", ErrDatabaseError, orderID, err)
	}
	defer rows.Close()

	txns := []models.StockTransaction{}
	for rows.Next() {
		var txn models.StockTransaction
		if err := scanStockTransaction(rows, &txn); err != nil {
			return nil, fmt.Errorf("%w: scanning stock transaction: %v", ErrDatabaseError, err)
		}
		txns = append(txns, txn)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating stock transactions: %v", ErrDatabaseError, err)
	}
	return txns, nil
}

func (r *stockRepository) GetExpiringPurchases(before time.Time) ([]models.StockTransaction, error) {
	query := stockTxnSelect + `
	  FROM stock_transactions st
	  JOIN stock_items si ON st.stock_item_id = si.id
	  WHERE st.transaction_type = $1 AND st.expiry_date IS NOT NULL AND st.expiry_date <= $2
	  ORDER BY st.expiry_date`
	rows, err := r.db.Query(query, models.TxnPurchase, before)
	if err != nil {
		return nil, fmt.Errorf("%w: getting expiring purchases: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	txns := []models.StockTransaction{}
	for rows.Next() {
		var txn models.StockTransaction
		if err := scanStockTransaction(rows, &txn); err != nil {
			return nil, fmt.Errorf("%w: scanning expiring purchase: %v", ErrDatabaseError, err)
		}
		txns = append(txns, txn)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating expiring purchases: %v", ErrDatabaseError, err)
	}
	return txns, nil
}
