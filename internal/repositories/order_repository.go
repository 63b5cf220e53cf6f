package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"biryanipos_backend/internal/models"
)

// OrderRepository defines the interface for order-related database operations.
type OrderRepository interface {
	CreateOrder(executor SQLExecutor, order *models.Order) (int64, error)
	CreateOrderItem(executor SQLExecutor, item *models.OrderItem) (int64, error)
	GetOrderByID(orderID int64) (*models.Order, error)
	GetOrderItemsByOrderID(orderID int64) ([]models.OrderItem, error)
	GetOrderItemByID(itemID int64) (*models.OrderItem, error)
	GetOrders(filters models.OrderFilters) ([]models.Order, int, error)
	GetActiveOrders() ([]models.Order, error)
	GetKitchenOrders() ([]models.Order, error)
	CountOrdersBetween(start, end time.Time) (int, error)

	UpdateOrderTotals(executor SQLExecutor, orderID int64, subtotal, cgst, sgst, discount, total float64) error
	UpdateOrderStatus(executor SQLExecutor, orderID int64, status models.OrderStatus, completedAt *time.Time) error
	SetFrozen(executor SQLExecutor, orderID int64, frozenAt time.Time) error
	SetGSTEnabled(executor SQLExecutor, orderID int64, enabled bool) error
	UpdateEstimatedReadyTime(executor SQLExecutor, orderID int64, readyTime time.Time) error
	UpdateOrderItemStatus(executor SQLExecutor, itemID int64, status models.OrderStatus) error
	MarkOrderPaid(executor SQLExecutor, order *models.Order) error
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository.
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, customer_name, customer_phone, table_number, order_type, status, payment_status,
	    subtotal, cgst, sgst, discount, total_amount, frozen, frozen_at, gst_enabled, created_by,
	    created_at, completed_at, estimated_ready_time`

func scanOrder(s scanner, order *models.Order, extra ...interface{}) error {
	dest := []interface{}{
		&order.ID, &order.CustomerName, &order.CustomerPhone, &order.TableNumber, &order.OrderType,
		&order.Status, &order.PaymentStatus,
		&order.Subtotal, &order.CGST, &order.SGST, &order.Discount, &order.TotalAmount,
		&order.Frozen, &order.FrozenAt, &order.GSTEnabled, &order.CreatedBy,
		&order.CreatedAt, &order.CompletedAt, &order.EstimatedReadyTime,
	}
	dest = append(dest, extra...)
	return s.Scan(dest...)
}

func (r *orderRepository) CreateOrder(executor SQLExecutor, order *models.Order) (int64, error) {
	query := `INSERT INTO orders
	          (customer_name, customer_phone, table_number, order_type, status, payment_status,
	           subtotal, cgst, sgst, discount, total_amount, frozen, gst_enabled, created_by,
	           created_at, estimated_ready_time)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	          RETURNING id`
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	err := executor.QueryRow(query,
		order.CustomerName, order.CustomerPhone, order.TableNumber, order.OrderType,
		order.Status, order.PaymentStatus,
		order.Subtotal, order.CGST, order.SGST, order.Discount, order.TotalAmount,
		order.Frozen, order.GSTEnabled, order.CreatedBy,
		order.CreatedAt, order.EstimatedReadyTime,
	).Scan(&order.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating order: %v", ErrDatabaseError, err)
	}
	return order.ID, nil
}

func (r *orderRepository) CreateOrderItem(executor SQLExecutor, item *models.OrderItem) (int64, error) {
	query := `INSERT INTO order_items (order_id, menu_item_id, variation_id, quantity, price, gst_percent, status)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`
	err := executor.QueryRow(query,
		item.OrderID, item.MenuItemID, item.VariationID, item.Quantity, item.Price, item.GSTPercent, item.Status,
	).Scan(&item.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating order item: %v", ErrDatabaseError, err)
	}
	return item.ID, nil
}

func (r *orderRepository) GetOrderByID(orderID int64) (*models.Order, error) {
	order := &models.Order{}
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	if err := scanOrder(r.db.QueryRow(query, orderID), order); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting order by ID %d: %v", ErrDatabaseError, orderID, err)
	}
	items, err := r.GetOrderItemsByOrderID(orderID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

const orderItemSelect = `SELECT
	    oi.id, oi.order_id, oi.menu_item_id, oi.variation_id, oi.quantity, oi.price, oi.gst_percent, oi.status,
	    mi.name AS menu_item_name, v.name AS variation_name
	  FROM order_items oi
	  JOIN menu_items mi ON oi.menu_item_id = mi.id
	  LEFT JOIN menu_item_variations v ON oi.variation_id = v.id`

func scanOrderItem(s scanner, item *models.OrderItem) error {
	return s.Scan(
		&item.ID, &item.OrderID, &item.MenuItemID, &item.VariationID, &item.Quantity,
		&item.Price, &item.GSTPercent, &item.Status,
		&item.MenuItemName, &item.VariationName,
	)
}

func (r *orderRepository) GetOrderItemsByOrderID(orderID int64) ([]models.OrderItem, error) {
	items := []models.OrderItem{}
	rows, err := r.db.Query(orderItemSelect+` WHERE oi.order_id = $1 ORDER BY oi.id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: getting order items for order %d: %v", ErrDatabaseError, orderID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		if err := scanOrderItem(rows, &item); err != nil {
			return nil, fmt.Errorf("%w: scanning order item: %v", ErrDatabaseError, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating order items: %v", ErrDatabaseError, err)
	}
	return items, nil
}

func (r *orderRepository) GetOrderItemByID(itemID int64) (*models.OrderItem, error) {
	item := &models.OrderItem{}
	if err := scanOrderItem(r.db.QueryRow(orderItemSelect+` WHERE oi.id = $1`, itemID), item); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting order item by ID %d: %v", ErrDatabaseError, itemID, err)
	}
	return item, nil
}

func (r *orderRepository) GetOrders(filters models.OrderFilters) ([]models.Order, int, error) {
	orders := []models.Order{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + orderColumns + `, COUNT(*) OVER() AS total_count FROM orders`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCount))
		args = append(args, *filters.Status)
		argCount++
	}
	if filters.TableNumber != nil && *filters.TableNumber != "" {
		conditions = append(conditions, fmt.Sprintf("table_number = $%d", argCount))
		args = append(args, *filters.TableNumber)
		argCount++
	}
	if filters.Date != nil && *filters.Date != "" {
		conditions = append(conditions, fmt.Sprintf("created_at::date = $%d", argCount))
		args = append(args, *filters.Date)
		argCount++
	}
	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY created_at DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting orders: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var order models.Order
		if err := scanOrder(rows, &order, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning order: %v", ErrDatabaseError, err)
		}
		orders = append(orders, order)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating orders: %v", ErrDatabaseError, err)
	}
	return orders, totalCount, nil
}

func (r *orderRepository) GetActiveOrders() ([]models.Order, error) {
	return r.queryOrders(`SELECT `+orderColumns+` FROM orders
	                      WHERE status NOT IN ($1, $2) ORDER BY created_at`,
		models.StatusPaid, models.StatusCancelled)
}

func (r *orderRepository) GetKitchenOrders() ([]models.Order, error) {
	return r.queryOrders(`SELECT `+orderColumns+` FROM orders
	                      WHERE status IN ($1, $2) ORDER BY created_at`,
		models.StatusNew, models.StatusCooking)
}

func (r *orderRepository) queryOrders(query string, args ...interface{}) ([]models.Order, error) {
	orders := []models.Order{}
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getting orders: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var order models.Order
		if err := scanOrder(rows, &order); err != nil {
			return nil, fmt.Errorf("%w: scanning order: %v", ErrDatabaseError, err)
		}
		orders = append(orders, order)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating orders: %v", ErrDatabaseError, err)
	}

	for i := range orders {
		items, err := r.GetOrderItemsByOrderID(orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (r *orderRepository) CountOrdersBetween(start, end time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM orders WHERE created_at >= $1 AND created_at < $2`
	if err := r.db.QueryRow(query, start, end).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: counting orders between %s and %s: %v", ErrDatabaseError, start, end, err)
	}
	return count, nil
}

func (r *orderRepository) UpdateOrderTotals(executor SQLExecutor, orderID int64, subtotal, cgst, sgst, discount, total float64) error {
	query := `UPDATE orders SET subtotal = $1, cgst = $2, sgst = $3, discount = $4, total_amount = $5 WHERE id = $6`
	result, err := executor.Exec(query, subtotal, cgst, sgst, discount, total, orderID)
	if err != nil {
		return fmt.Errorf("%w: updating totals for order %d: %v", ErrDatabaseError, orderID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) UpdateOrderStatus(executor SQLExecutor, orderID int64, status models.OrderStatus, completedAt *time.Time) error {
	query := `UPDATE orders SET status = $1, completed_at = COALESCE($2, completed_at) WHERE id = $3`
	result, err := executor.Exec(query, status, completedAt, orderID)
	if err != nil {
		return fmt.Errorf("%w: updating status for order %d: %v", ErrDatabaseError, orderID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) SetFrozen(executor SQLExecutor, orderID int64, frozenAt time.Time) error {
	query := `UPDATE orders SET frozen = TRUE, frozen_at = $1 WHERE id = $2 AND frozen = FALSE`
	if _, err := executor.Exec(query, frozenAt, orderID); err != nil {
		return fmt.Errorf("%w: freezing order %d: %v", ErrDatabaseError, orderID, err)
	}
	return nil
}

func (r *orderRepository) SetGSTEnabled(executor SQLExecutor, orderID int64, enabled bool) error {
	query := `UPDATE orders SET gst_enabled = $1 WHERE id = $2`
	if _, err := executor.Exec(query, enabled, orderID); err != nil {
		return fmt.Errorf("%w: setting gst flag for order %d: %v", ErrDatabaseError, orderID, err)
	}
	return nil
}

func (r *orderRepository) UpdateEstimatedReadyTime(executor SQLExecutor, orderID int64, readyTime time.Time) error {
	query := `UPDATE orders SET estimated_ready_time = $1 WHERE id = $2`
	result, err := executor.Exec(query, readyTime, orderID)
	if err != nil {
		return fmt.Errorf("%w: updating estimated ready time for order %d: %v", ErrDatabaseError, orderID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) UpdateOrderItemStatus(executor SQLExecutor, itemID int64, status models.OrderStatus) error {
	query := `UPDATE order_items SET status = $1 WHERE id = $2`
	result, err := executor.Exec(query, status, itemID)
	if err != nil {
		return fmt.Errorf("%w: updating status for order item %d: %v", ErrDatabaseError, itemID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkOrderPaid writes the final monetary snapshot of a settled order in
// one statement.
func (r *orderRepository) MarkOrderPaid(executor SQLExecutor, order *models.Order) error {
	query := `UPDATE orders SET
	            status = $1, payment_status = $2, subtotal = $3, cgst = $4, sgst = $5,
	            discount = $6, total_amount = $7, gst_enabled = $8, completed_at = $9
	          WHERE id = $10`
	result, err := executor.Exec(query,
		order.Status, order.PaymentStatus, order.Subtotal, order.CGST, order.SGST,
		order.Discount, order.TotalAmount, order.GSTEnabled, order.CompletedAt, order.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: marking order %d paid: %v", ErrDatabaseError, order.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
