package services

import (
	"database/sql"
	"sync"
	"time"

	"biryanipos_backend/internal/events"
	"biryanipos_backend/internal/models"
	"biryanipos_backend/internal/repositories"
)

// mockTx is an in-memory repositories.Tx. Writes through the mock repos
// are applied immediately; Commit and Rollback only record the outcome
// and release any row locks taken during the transaction.
type mockTx struct {
	mu         sync.Mutex
	committed  bool
	rolledBack bool
	finished   bool
	onFinish   []func()
}

func (t *mockTx) Exec(query string, args ...interface{}) (sql.Result, error) { return nil, nil }
func (t *mockTx) QueryRow(query string, args ...interface{}) *sql.Row        { return nil }
func (t *mockTx) Query(query string, args ...interface{}) (*sql.Rows, error) { return nil, nil }

func (t *mockTx) addFinisher(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onFinish = append(t.onFinish, fn)
}

func (t *mockTx) finish() {
	if t.finished {
		return
	}
	t.finished = true
	for _, fn := range t.onFinish {
		fn()
	}
	t.onFinish = nil
}

func (t *mockTx) Commit() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.finished {
		return sql.ErrTxDone
	}
	t.committed = true
	t.finish()
	return nil
}

func (t *mockTx) Rollback() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.finished {
		return sql.ErrTxDone
	}
	t.rolledBack = true
	t.finish()
	return nil
}

// mockTxManager hands out mockTx instances and remembers them so tests
// can assert on commit/rollback behaviour.
type mockTxManager struct {
	mu        sync.Mutex
	txs       []*mockTx
	BeginFunc func() (repositories.Tx, error)
}

func newMockTxManager() *mockTxManager {
	return &mockTxManager{}
}

func (m *mockTxManager) Begin() (repositories.Tx, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc()
	}
	tx := &mockTx{}
	m.mu.Lock()
	m.txs = append(m.txs, tx)
	m.mu.Unlock()
	return tx, nil
}

func (m *mockTxManager) lastTx() *mockTx {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.txs) == 0 {
		return nil
	}
	return m.txs[len(m.txs)-1]
}

// releaseRowLock parks the unlock on the transaction when the executor is
// one, otherwise releases immediately.
func releaseRowLock(executor repositories.SQLExecutor, unlock func()) {
	if tx, ok := executor.(*mockTx); ok {
		tx.addFinisher(unlock)
		return
	}
	unlock()
}

// mockStockRepo is a map-backed StockRepository. GetItemForUpdate takes a
// per-item mutex that is held until the surrounding transaction finishes,
// mirroring row locking so concurrent deductions serialise.
type mockStockRepo struct {
	mu       sync.Mutex
	items    map[int64]*models.StockItem
	txns     []models.StockTransaction
	rowLocks map[int64]*sync.Mutex
	nextID   int64
	nextTxn  int64

	GetItemForUpdateFunc func(executor repositories.SQLExecutor, id int64) (*models.StockItem, error)
}

func newMockStockRepo() *mockStockRepo {
	return &mockStockRepo{
		items:    make(map[int64]*models.StockItem),
		rowLocks: make(map[int64]*sync.Mutex),
	}
}

func (m *mockStockRepo) addItem(item models.StockItem) *models.StockItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	if item.ID == 0 {
		m.nextID++
		item.ID = m.nextID
	} else if item.ID > m.nextID {
		m.nextID = item.ID
	}
	stored := item
	m.items[stored.ID] = &stored
	m.rowLocks[stored.ID] = &sync.Mutex{}
	return &stored
}

func (m *mockStockRepo) CreateItem(executor repositories.SQLExecutor, item *models.StockItem) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	item.ID = m.nextID
	stored := *item
	m.items[stored.ID] = &stored
	m.rowLocks[stored.ID] = &sync.Mutex{}
	return item.ID, nil
}

func (m *mockStockRepo) GetItemByID(id int64) (*models.StockItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *item
	return &cp, nil
}

func (m *mockStockRepo) GetItems(activeOnly bool, page, pageSize int) ([]models.StockItem, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []models.StockItem
	for _, item := range m.items {
		if activeOnly && !item.IsActive {
			continue
		}
		result = append(result, *item)
	}
	return result, len(result), nil
}

func (m *mockStockRepo) GetLowStockItems() ([]models.StockItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []models.StockItem
	for _, item := range m.items {
		if item.IsActive && item.IsLowStock() {
			result = append(result, *item)
		}
	}
	return result, nil
}

func (m *mockStockRepo) UpdateItem(executor repositories.SQLExecutor, item *models.StockItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[item.ID]; !ok {
		return repositories.ErrNotFound
	}
	stored := *item
	m.items[item.ID] = &stored
	return nil
}

func (m *mockStockRepo) DeactivateItem(executor repositories.SQLExecutor, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return repositories.ErrNotFound
	}
	item.IsActive = false
	return nil
}

func (m *mockStockRepo) GetItemForUpdate(executor repositories.SQLExecutor, id int64) (*models.StockItem, error) {
	if m.GetItemForUpdateFunc != nil {
		return m.GetItemForUpdateFunc(executor, id)
	}
	m.mu.Lock()
	_, ok := m.items[id]
	lock := m.rowLocks[id]
	m.mu.Unlock()
	if !ok {
		return nil, repositories.ErrNotFound
	}
	lock.Lock()
	releaseRowLock(executor, lock.Unlock)
	m.mu.Lock()
	cp := *m.items[id]
	m.mu.Unlock()
	return &cp, nil
}

func (m *mockStockRepo) SetBalance(executor repositories.SQLExecutor, id int64, balance float64, audited bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return repositories.ErrNotFound
	}
	item.CurrentStock = balance
	item.LastUpdated = time.Now()
	if audited {
		now := time.Now()
		item.LastAuditDate = &now
	}
	return nil
}

func (m *mockStockRepo) CreateTransaction(executor repositories.SQLExecutor, txn *models.StockTransaction) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextTxn++
	txn.ID = m.nextTxn
	if txn.TransactionDate.IsZero() {
		txn.TransactionDate = time.Now()
	}
	m.txns = append(m.txns, *txn)
	return txn.ID, nil
}

func (m *mockStockRepo) GetTransactionsByItem(stockItemID int64, page, pageSize int) ([]models.StockTransaction, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []models.StockTransaction
	for _, txn := range m.txns {
		if txn.StockItemID == stockItemID {
			result = append(result, txn)
		}
	}
	return result, len(result), nil
}

func (m *mockStockRepo) GetTransactionsByType(txnType models.StockTransactionType, page, pageSize int) ([]models.StockTransaction, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []models.StockTransaction
	for _, txn := range m.txns {
		if txn.TransactionType == txnType {
			result = append(result, txn)
		}
	}
	return result, len(result), nil
}

func (m *mockStockRepo) GetTransactionsByOrder(orderID int64) ([]models.StockTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []models.StockTransaction
	for _, txn := range m.txns {
		if txn.OrderID != nil && *txn.OrderID == orderID {
			result = append(result, txn)
		}
	}
	return result, nil
}

func (m *mockStockRepo) GetExpiringPurchases(before time.Time) ([]models.StockTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []models.StockTransaction
	for _, txn := range m.txns {
		if txn.TransactionType == models.TxnPurchase && txn.ExpiryDate != nil && txn.ExpiryDate.Before(before) {
			result = append(result, txn)
		}
	}
	return result, nil
}

// mockMenuRepo is a map-backed MenuRepository with the same row-lock
// emulation as mockStockRepo for GetItemForUpdate.
type mockMenuRepo struct {
	mu         sync.Mutex
	categories map[int64]*models.Category
	items      map[int64]*models.MenuItem
	rowLocks   map[int64]*sync.Mutex
	nextID     int64
}

func newMockMenuRepo() *mockMenuRepo {
	return &mockMenuRepo{
		categories: make(map[int64]*models.Category),
		items:      make(map[int64]*models.MenuItem),
		rowLocks:   make(map[int64]*sync.Mutex),
	}
}

func (m *mockMenuRepo) addItem(item models.MenuItem) *models.MenuItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	if item.ID == 0 {
		m.nextID++
		item.ID = m.nextID
	} else if item.ID > m.nextID {
		m.nextID = item.ID
	}
	stored := item
	m.items[stored.ID] = &stored
	m.rowLocks[stored.ID] = &sync.Mutex{}
	return &stored
}

func (m *mockMenuRepo) CreateCategory(executor repositories.SQLExecutor, category *models.Category) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	category.ID = m.nextID
	stored := *category
	m.categories[stored.ID] = &stored
	return category.ID, nil
}

func (m *mockMenuRepo) GetCategories() ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []models.Category
	for _, c := range m.categories {
		result = append(result, *c)
	}
	return result, nil
}

func (m *mockMenuRepo) UpdateCategory(executor repositories.SQLExecutor, category *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[category.ID]; !ok {
		return repositories.ErrNotFound
	}
	stored := *category
	m.categories[category.ID] = &stored
	return nil
}

func (m *mockMenuRepo) DeleteCategory(executor repositories.SQLExecutor, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.categories, id)
	return nil
}

func (m *mockMenuRepo) CreateItem(executor repositories.SQLExecutor, item *models.MenuItem) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	item.ID = m.nextID
	stored := *item
	m.items[stored.ID] = &stored
	m.rowLocks[stored.ID] = &sync.Mutex{}
	return item.ID, nil
}

func (m *mockMenuRepo) GetItemByID(id int64) (*models.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *item
	return &cp, nil
}

func (m *mockMenuRepo) GetItems(categoryID *int64, availableOnly bool, page, pageSize int) ([]models.MenuItem, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []models.MenuItem
	for _, item := range m.items {
		if availableOnly && !item.IsAvailable {
			continue
		}
		if categoryID != nil && (item.CategoryID == nil || *item.CategoryID != *categoryID) {
			continue
		}
		result = append(result, *item)
	}
	return result, len(result), nil
}

func (m *mockMenuRepo) UpdateItem(executor repositories.SQLExecutor, item *models.MenuItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[item.ID]; !ok {
		return repositories.ErrNotFound
	}
	stored := *item
	m.items[item.ID] = &stored
	return nil
}

func (m *mockMenuRepo) DeleteItem(executor repositories.SQLExecutor, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockMenuRepo) GetItemForUpdate(executor repositories.SQLExecutor, id int64) (*models.MenuItem, error) {
	m.mu.Lock()
	_, ok := m.items[id]
	lock := m.rowLocks[id]
	m.mu.Unlock()
	if !ok {
		return nil, repositories.ErrNotFound
	}
	lock.Lock()
	releaseRowLock(executor, lock.Unlock)
	m.mu.Lock()
	cp := *m.items[id]
	m.mu.Unlock()
	return &cp, nil
}

func (m *mockMenuRepo) UpdateDirectStock(executor repositories.SQLExecutor, id int64, stockLevel float64, available bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return repositories.ErrNotFound
	}
	if !item.TrackStock {
		return nil
	}
	item.StockLevel = stockLevel
	item.IsAvailable = available
	return nil
}

// mockOrderRepo is a map-backed OrderRepository.
type mockOrderRepo struct {
	mu       sync.Mutex
	orders   map[int64]*models.Order
	items    map[int64][]models.OrderItem
	nextID   int64
	nextItem int64
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{
		orders: make(map[int64]*models.Order),
		items:  make(map[int64][]models.OrderItem),
	}
}

func (m *mockOrderRepo) CreateOrder(executor repositories.SQLExecutor, order *models.Order) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	order.ID = m.nextID
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	stored := *order
	stored.Items = nil
	m.orders[stored.ID] = &stored
	return order.ID, nil
}

func (m *mockOrderRepo) CreateOrderItem(executor repositories.SQLExecutor, item *models.OrderItem) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[item.OrderID]; !ok {
		return 0, repositories.ErrNotFound
	}
	m.nextItem++
	item.ID = m.nextItem
	m.items[item.OrderID] = append(m.items[item.OrderID], *item)
	return item.ID, nil
}

func (m *mockOrderRepo) GetOrderByID(orderID int64) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[orderID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *order
	cp.Items = append([]models.OrderItem{}, m.items[orderID]...)
	return &cp, nil
}

func (m *mockOrderRepo) GetOrderItemsByOrderID(orderID int64) ([]models.OrderItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.OrderItem{}, m.items[orderID]...), nil
}

func (m *mockOrderRepo) GetOrderItemByID(itemID int64) (*models.OrderItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, list := range m.items {
		for _, item := range list {
			if item.ID == itemID {
				cp := item
				return &cp, nil
			}
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *mockOrderRepo) GetOrders(filters models.OrderFilters) ([]models.Order, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []models.Order
	for id, order := range m.orders {
		if filters.Status != nil && string(order.Status) != *filters.Status {
			continue
		}
		cp := *order
		cp.Items = append([]models.OrderItem{}, m.items[id]...)
		result = append(result, cp)
	}
	return result, len(result), nil
}

func (m *mockOrderRepo) GetActiveOrders() ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []models.Order
	for id, order := range m.orders {
		if order.Status.Terminal() {
			continue
		}
		cp := *order
		cp.Items = append([]models.OrderItem{}, m.items[id]...)
		result = append(result, cp)
	}
	return result, nil
}

func (m *mockOrderRepo) GetKitchenOrders() ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []models.Order
	for id, order := range m.orders {
		if order.Status != models.StatusNew && order.Status != models.StatusCooking {
			continue
		}
		cp := *order
		cp.Items = append([]models.OrderItem{}, m.items[id]...)
		result = append(result, cp)
	}
	return result, nil
}

func (m *mockOrderRepo) CountOrdersBetween(start, end time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, order := range m.orders {
		if !order.CreatedAt.Before(start) && order.CreatedAt.Before(end) {
			count++
		}
	}
	return count, nil
}

func (m *mockOrderRepo) UpdateOrderTotals(executor repositories.SQLExecutor, orderID int64, subtotal, cgst, sgst, discount, total float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[orderID]
	if !ok {
		return repositories.ErrNotFound
	}
	order.Subtotal = subtotal
	order.CGST = cgst
	order.SGST = sgst
	order.Discount = discount
	order.TotalAmount = total
	return nil
}

func (m *mockOrderRepo) UpdateOrderStatus(executor repositories.SQLExecutor, orderID int64, status models.OrderStatus, completedAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[orderID]
	if !ok {
		return repositories.ErrNotFound
	}
	order.Status = status
	if completedAt != nil {
		order.CompletedAt = completedAt
	}
	return nil
}

func (m *mockOrderRepo) SetFrozen(executor repositories.SQLExecutor, orderID int64, frozenAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[orderID]
	if !ok {
		return repositories.ErrNotFound
	}
	if !order.Frozen {
		order.Frozen = true
		order.FrozenAt = &frozenAt
	}
	return nil
}

func (m *mockOrderRepo) SetGSTEnabled(executor repositories.SQLExecutor, orderID int64, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[orderID]
	if !ok {
		return repositories.ErrNotFound
	}
	order.GSTEnabled = enabled
	return nil
}

func (m *mockOrderRepo) UpdateEstimatedReadyTime(executor repositories.SQLExecutor, orderID int64, readyTime time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[orderID]
	if !ok {
		return repositories.ErrNotFound
	}
	order.EstimatedReadyTime = &readyTime
	return nil
}

func (m *mockOrderRepo) UpdateOrderItemStatus(executor repositories.SQLExecutor, itemID int64, status models.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for orderID, list := range m.items {
		for i := range list {
			if list[i].ID == itemID {
				m.items[orderID][i].Status = status
				return nil
			}
		}
	}
	return repositories.ErrNotFound
}

func (m *mockOrderRepo) MarkOrderPaid(executor repositories.SQLExecutor, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.orders[order.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	stored.Status = order.Status
	stored.PaymentStatus = order.PaymentStatus
	stored.Subtotal = order.Subtotal
	stored.CGST = order.CGST
	stored.SGST = order.SGST
	stored.Discount = order.Discount
	stored.TotalAmount = order.TotalAmount
	stored.GSTEnabled = order.GSTEnabled
	stored.CompletedAt = order.CompletedAt
	return nil
}

// mockPaymentRepo is a map-backed PaymentRepository keyed by order ID.
type mockPaymentRepo struct {
	mu       sync.Mutex
	payments map[int64]*models.Payment
	nextID   int64
	nextDet  int64
}

func newMockPaymentRepo() *mockPaymentRepo {
	return &mockPaymentRepo{payments: make(map[int64]*models.Payment)}
}

func (m *mockPaymentRepo) CreatePayment(executor repositories.SQLExecutor, payment *models.Payment) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.payments[payment.OrderID]; exists {
		return 0, repositories.ErrDuplicateKey
	}
	m.nextID++
	payment.ID = m.nextID
	if payment.PaidAt.IsZero() {
		payment.PaidAt = time.Now()
	}
	stored := *payment
	stored.Details = nil
	m.payments[payment.OrderID] = &stored
	return payment.ID, nil
}

func (m *mockPaymentRepo) CreatePaymentDetail(executor repositories.SQLExecutor, detail *models.PaymentDetail) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextDet++
	detail.ID = m.nextDet
	for _, payment := range m.payments {
		if payment.ID == detail.PaymentID {
			payment.Details = append(payment.Details, *detail)
			return detail.ID, nil
		}
	}
	return 0, repositories.ErrNotFound
}

func (m *mockPaymentRepo) GetPaymentByOrderID(orderID int64) (*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	payment, ok := m.payments[orderID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *payment
	cp.Details = append([]models.PaymentDetail{}, payment.Details...)
	return &cp, nil
}

func (m *mockPaymentRepo) GetCompletedPaymentsBetween(start, end time.Time) ([]models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []models.Payment
	for _, payment := range m.payments {
		if payment.PaymentStatus != models.PaymentCompleted {
			continue
		}
		if payment.PaidAt.Before(start) || !payment.PaidAt.Before(end) {
			continue
		}
		cp := *payment
		cp.Details = append([]models.PaymentDetail{}, payment.Details...)
		result = append(result, cp)
	}
	return result, nil
}

// mockShiftRepo is a map-backed ShiftRepository.
type mockShiftRepo struct {
	mu     sync.Mutex
	shifts map[int64]*models.Shift
	nextID int64
}

func newMockShiftRepo() *mockShiftRepo {
	return &mockShiftRepo{shifts: make(map[int64]*models.Shift)}
}

func (m *mockShiftRepo) CreateShift(executor repositories.SQLExecutor, shift *models.Shift) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	shift.ID = m.nextID
	stored := *shift
	m.shifts[stored.ID] = &stored
	return shift.ID, nil
}

func (m *mockShiftRepo) GetActiveShift() (*models.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, shift := range m.shifts {
		if shift.IsActive {
			cp := *shift
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *mockShiftRepo) GetShiftByID(id int64) (*models.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	shift, ok := m.shifts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *shift
	return &cp, nil
}

func (m *mockShiftRepo) GetShifts(page, pageSize int) ([]models.Shift, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []models.Shift
	for _, shift := range m.shifts {
		result = append(result, *shift)
	}
	return result, len(result), nil
}

func (m *mockShiftRepo) UpdateShift(executor repositories.SQLExecutor, shift *models.Shift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.shifts[shift.ID]; !ok {
		return repositories.ErrNotFound
	}
	stored := *shift
	m.shifts[shift.ID] = &stored
	return nil
}

// mockTableRepo is a map-backed TableRepository keyed by table number.
type mockTableRepo struct {
	mu     sync.Mutex
	tables map[string]*models.RestaurantTable
	nextID int64
}

func newMockTableRepo() *mockTableRepo {
	return &mockTableRepo{tables: make(map[string]*models.RestaurantTable)}
}

func (m *mockTableRepo) addTable(table models.RestaurantTable) *models.RestaurantTable {
	m.mu.Lock()
	defer m.mu.Unlock()
	if table.ID == 0 {
		m.nextID++
		table.ID = m.nextID
	}
	if table.Status == "" {
		table.Status = models.TableAvailable
	}
	stored := table
	m.tables[stored.TableNumber] = &stored
	return &stored
}

func (m *mockTableRepo) CreateTable(executor repositories.SQLExecutor, table *models.RestaurantTable) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.tables[table.TableNumber]; exists {
		return 0, repositories.ErrDuplicateKey
	}
	m.nextID++
	table.ID = m.nextID
	stored := *table
	m.tables[stored.TableNumber] = &stored
	return table.ID, nil
}

func (m *mockTableRepo) GetTables() ([]models.RestaurantTable, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []models.RestaurantTable
	for _, table := range m.tables {
		result = append(result, *table)
	}
	return result, nil
}

func (m *mockTableRepo) GetTableByNumber(tableNumber string) (*models.RestaurantTable, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	table, ok := m.tables[tableNumber]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *table
	return &cp, nil
}

func (m *mockTableRepo) UpdateTable(executor repositories.SQLExecutor, table *models.RestaurantTable) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for number, stored := range m.tables {
		if stored.ID == table.ID {
			delete(m.tables, number)
			cp := *table
			m.tables[cp.TableNumber] = &cp
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (m *mockTableRepo) DeleteTable(executor repositories.SQLExecutor, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for number, stored := range m.tables {
		if stored.ID == id {
			delete(m.tables, number)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (m *mockTableRepo) Occupy(executor repositories.SQLExecutor, tableNumber string, orderID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	table, ok := m.tables[tableNumber]
	if !ok {
		return nil
	}
	table.Status = models.TableOccupied
	table.CurrentOrderID = &orderID
	return nil
}

func (m *mockTableRepo) Release(executor repositories.SQLExecutor, tableNumber string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	table, ok := m.tables[tableNumber]
	if !ok {
		return nil
	}
	table.Status = models.TableAvailable
	table.CurrentOrderID = nil
	return nil
}

// mockCustomerRepo is a map-backed CustomerRepository keyed by phone.
type mockCustomerRepo struct {
	mu        sync.Mutex
	customers map[string]*models.Customer
	nextID    int64
}

func newMockCustomerRepo() *mockCustomerRepo {
	return &mockCustomerRepo{customers: make(map[string]*models.Customer)}
}

func (m *mockCustomerRepo) CreateCustomer(executor repositories.SQLExecutor, customer *models.Customer) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.customers[customer.Phone]; exists {
		return 0, repositories.ErrDuplicateKey
	}
	m.nextID++
	customer.ID = m.nextID
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = time.Now()
	}
	stored := *customer
	m.customers[stored.Phone] = &stored
	return customer.ID, nil
}

func (m *mockCustomerRepo) GetCustomerByPhone(phone string) (*models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	customer, ok := m.customers[phone]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *customer
	return &cp, nil
}

func (m *mockCustomerRepo) GetCustomers(page, pageSize int) ([]models.Customer, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []models.Customer
	for _, customer := range m.customers {
		result = append(result, *customer)
	}
	return result, len(result), nil
}

func (m *mockCustomerRepo) UpdateCustomer(executor repositories.SQLExecutor, customer *models.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[customer.Phone]; !ok {
		return repositories.ErrNotFound
	}
	stored := *customer
	m.customers[customer.Phone] = &stored
	return nil
}

func (m *mockCustomerRepo) RecordVisit(executor repositories.SQLExecutor, phone string, amount, points float64, visitedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	customer, ok := m.customers[phone]
	if !ok {
		return repositories.ErrNotFound
	}
	customer.VisitCount++
	customer.TotalSpent += amount
	customer.LoyaltyPoints += points
	customer.LastVisit = &visitedAt
	return nil
}

// mockNotifier records published events for assertions.
type mockNotifier struct {
	mu          sync.Mutex
	created     []events.OrderEvent
	updated     []events.OrderEvent
	stockAlerts []events.StockAlertEvent
	tableEvents []events.TableStatusEvent
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{}
}

func (m *mockNotifier) OrderCreated(event events.OrderEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, event)
	return nil
}

func (m *mockNotifier) OrderUpdated(event events.OrderEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updated = append(m.updated, event)
	return nil
}

func (m *mockNotifier) StockAlert(event events.StockAlertEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stockAlerts = append(m.stockAlerts, event)
	return nil
}

func (m *mockNotifier) TableStatus(event events.TableStatusEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tableEvents = append(m.tableEvents, event)
	return nil
}

func (m *mockNotifier) Close() error { return nil }

// mockAuthRepo is a map-backed AuthRepository keyed by user ID.
type mockAuthRepo struct {
	mu     sync.Mutex
	users  map[int64]*models.User
	nextID int64
}

func newMockAuthRepo() *mockAuthRepo {
	return &mockAuthRepo{users: make(map[int64]*models.User)}
}

func (m *mockAuthRepo) CreateUser(executor repositories.SQLExecutor, user *models.User) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == user.Username {
			return 0, repositories.ErrDuplicateKey
		}
	}
	m.nextID++
	user.ID = m.nextID
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	stored := *user
	m.users[user.ID] = &stored
	return user.ID, nil
}

func (m *mockAuthRepo) FindUserByUsername(username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *mockAuthRepo) FindUserByID(userID int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *mockAuthRepo) UpdateLastLogin(executor repositories.SQLExecutor, userID int64, loginAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[userID]; ok {
		u.LastLoginAt = &loginAt
	}
	return nil
}
