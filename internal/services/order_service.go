package services

import (
	"errors"
	"fmt"
	"time"

	"biryanipos_backend/internal/events"
	"biryanipos_backend/internal/models"
	"biryanipos_backend/internal/repositories"

	"github.com/rs/zerolog/log"
)

// --- Data Transfer Objects (DTOs) ---

// CreateOrderItemRequest is one requested line on a new or existing order.
type CreateOrderItemRequest struct {
	MenuItemID  int64  `json:"menu_item_id" binding:"required"`
	VariationID *int64 `json:"variation_id"`
	Quantity    int    `json:"quantity" binding:"required,gt=0"`
}

// CreateOrderRequest is used for creating a new order.
type CreateOrderRequest struct {
	CustomerName  *string                  `json:"customer_name"`
	CustomerPhone *string                  `json:"customer_phone"`
	TableNumber   *string                  `json:"table_number"`
	OrderType     models.OrderType         `json:"order_type" binding:"required"`
	CreatedBy     *string                  `json:"created_by"`
	Items         []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// AddItemsRequest appends lines to an existing order.
type AddItemsRequest struct {
	Items []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateStatusRequest carries a lifecycle transition.
type UpdateStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// ExtendPrepTimeRequest pushes the estimated ready time out.
type ExtendPrepTimeRequest struct {
	Minutes int `json:"minutes" binding:"required,gt=0"`
}

// kitchen lifecycle order, used to reject backward transitions
var statusRank = map[models.OrderStatus]int{
	models.StatusNew:     0,
	models.StatusCooking: 1,
	models.StatusReady:   2,
	models.StatusServed:  3,
	models.StatusPaid:    4,
}

// OrderService manages the order lifecycle: creation with atomic stock
// deduction, item appends, kitchen status transitions, cancellation with
// stock restoration and prep-time tracking.
type OrderService interface {
	CreateOrder(req CreateOrderRequest) (*models.Order, error)
	GetOrderByID(orderID int64) (*models.Order, error)
	GetOrders(filters models.OrderFilters) ([]models.Order, int, error)
	GetActiveOrders() ([]models.Order, error)
	GetKitchenOrders() ([]models.Order, error)

	AddItems(orderID int64, req AddItemsRequest) (*models.Order, error)
	UpdateOrderStatus(orderID int64, status models.OrderStatus) (*models.Order, error)
	UpdateOrderItemStatus(orderID, itemID int64, status models.OrderStatus) (*models.Order, error)
	CancelOrder(orderID int64) (*models.Order, error)
	ExtendPrepTime(orderID int64, minutes int) (*models.Order, error)
}

type orderService struct {
	txManager repositories.TxManager
	orderRepo repositories.OrderRepository
	menuRepo  repositories.MenuRepository
	stockRepo repositories.StockRepository
	tableRepo repositories.TableRepository
	stockSvc  StockService
	resolver  *RecipeResolver
	taxCalc   *TaxCalculator
	notifier  events.Notifier
	cfg       models.AppConfig
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	txManager repositories.TxManager,
	orderRepo repositories.OrderRepository,
	menuRepo repositories.MenuRepository,
	stockRepo repositories.StockRepository,
	tableRepo repositories.TableRepository,
	stockSvc StockService,
	resolver *RecipeResolver,
	taxCalc *TaxCalculator,
	notifier events.Notifier,
	cfg models.AppConfig,
) OrderService {
	return &orderService{
		txManager: txManager,
		orderRepo: orderRepo,
		menuRepo:  menuRepo,
		stockRepo: stockRepo,
		tableRepo: tableRepo,
		stockSvc:  stockSvc,
		resolver:  resolver,
		taxCalc:   taxCalc,
		notifier:  notifier,
		cfg:       cfg,
	}
}

// itemResult is the outcome of reserving stock for one requested line.
type itemResult struct {
	item        models.OrderItem
	prepMinutes int
	alerts      []events.StockAlertEvent
}

// prepareItem locks the menu item, deducts its direct stock and recipe
// ingredients inside the caller's transaction, and returns the priced
// order line. On error the caller rolls the whole transaction back, so
// deductions are all-or-nothing across the order.
func (s *orderService) prepareItem(tx repositories.Tx, orderID int64, req CreateOrderItemRequest) (*itemResult, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity for menu item %d must be positive", ErrValidation, req.MenuItemID)
	}

	item, err := s.menuRepo.GetItemForUpdate(tx, req.MenuItemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: menu item ID %d", ErrMenuItemNotFound, req.MenuItemID)
		}
		if errors.Is(err, repositories.ErrLockNotAvailable) {
			return nil, fmt.Errorf("%w: menu item ID %d", ErrLockConflict, req.MenuItemID)
		}
		return nil, fmt.Errorf("failed to lock menu item %d: %w", req.MenuItemID, err)
	}
	if !item.IsAvailable {
		return nil, fmt.Errorf("%w: menu item '%s' is not available", ErrValidation, item.Name)
	}

	var variation *models.MenuItemVariation
	if req.VariationID != nil {
		variation = item.VariationByID(*req.VariationID)
		if variation == nil {
			return nil, fmt.Errorf("%w: variation %d does not belong to menu item '%s'", ErrValidation, *req.VariationID, item.Name)
		}
	}

	price := item.Price
	if variation != nil && variation.Price > 0 {
		price = variation.Price
	}

	result := &itemResult{
		item: models.OrderItem{
			OrderID:      orderID,
			MenuItemID:   item.ID,
			VariationID:  req.VariationID,
			Quantity:     req.Quantity,
			Price:        price,
			GSTPercent:   item.GSTPercent,
			Status:       models.StatusNew,
			MenuItemName: item.Name,
		},
	}
	if variation != nil {
		name := variation.Name
		result.item.VariationName = &name
	}

	result.prepMinutes = item.PrepTimeMinutes
	if result.prepMinutes <= 0 {
		result.prepMinutes = s.cfg.DefaultPrepTimeMinutes
	}

	// Direct stock counter on the menu item itself.
	if direct := s.resolver.DirectStockUsage(item, variation, req.Quantity); direct > 0 {
		if item.StockLevel < direct {
			return nil, &InsufficientStockError{
				ItemName:  item.Name,
				Available: item.StockLevel,
				Requested: direct,
			}
		}
		newLevel := item.StockLevel - direct
		available := newLevel > 0
		if err := s.menuRepo.UpdateDirectStock(tx, item.ID, newLevel, available); err != nil {
			return nil, fmt.Errorf("failed to update direct stock for '%s': %w", item.Name, err)
		}
		if newLevel <= s.cfg.LowStockThreshold {
			result.alerts = append(result.alerts, events.StockAlertEvent{
				StockItemID:  item.ID,
				Name:         item.Name,
				CurrentStock: newLevel,
				ReorderLevel: s.cfg.LowStockThreshold,
				Unit:         "PORTION",
				OccurredAt:   time.Now(),
			})
		}
	}

	// Recipe ingredients come off the stock ledger.
	reason := "order deduction"
	for _, usage := range s.resolver.ResolveStockUsage(item, variation, req.Quantity) {
		oid := orderID
		stockItem, err := s.stockSvc.ApplyTransaction(tx, &models.StockTransaction{
			StockItemID:     usage.StockItemID,
			TransactionType: models.TxnOrderDeduct,
			Quantity:        usage.Quantity,
			OrderID:         &oid,
			Reason:          &reason,
		})
		if err != nil {
			return nil, err
		}
		if stockItem.IsLowStock() {
			result.alerts = append(result.alerts, events.StockAlertEvent{
				StockItemID:  stockItem.ID,
				Name:         stockItem.Name,
				CurrentStock: stockItem.CurrentStock,
				ReorderLevel: stockItem.ReorderLevel,
				Unit:         stockItem.Unit,
				OccurredAt:   time.Now(),
			})
		}
	}

	return result, nil
}

func (s *orderService) CreateOrder(req CreateOrderRequest) (*models.Order, error) {
	if !req.OrderType.Valid() {
		return nil, fmt.Errorf("%w: unknown order type '%s'", ErrValidation, req.OrderType)
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", ErrValidation)
	}

	tx, err := s.txManager.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	order := &models.Order{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		TableNumber:   req.TableNumber,
		OrderType:     req.OrderType,
		Status:        models.StatusNew,
		PaymentStatus: models.PaymentPending,
		GSTEnabled:    s.cfg.TaxEnabled,
		CreatedBy:     req.CreatedBy,
	}
	// The header goes in first so ledger entries can reference the order.
	if _, err := s.orderRepo.CreateOrder(tx, order); err != nil {
		return nil, fmt.Errorf("failed to create order record: %w", err)
	}

	var alerts []events.StockAlertEvent
	maxPrep := 0
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, itemReq := range req.Items {
		result, err := s.prepareItem(tx, order.ID, itemReq)
		if err != nil {
			return nil, err
		}
		if _, err := s.orderRepo.CreateOrderItem(tx, &result.item); err != nil {
			return nil, fmt.Errorf("failed to create order item (menu_item_id: %d): %w", result.item.MenuItemID, err)
		}
		items = append(items, result.item)
		alerts = append(alerts, result.alerts...)
		if result.prepMinutes > maxPrep {
			maxPrep = result.prepMinutes
		}
	}

	subtotal, cgst, sgst := s.taxCalc.OrderTotals(items, order.GSTEnabled)
	total := round2(subtotal + cgst + sgst)
	if err := s.orderRepo.UpdateOrderTotals(tx, order.ID, subtotal, cgst, sgst, 0, total); err != nil {
		return nil, fmt.Errorf("failed to update order totals: %w", err)
	}

	if maxPrep < s.cfg.DefaultPrepTimeMinutes {
		maxPrep = s.cfg.DefaultPrepTimeMinutes
	}
	readyTime := time.Now().Add(time.Duration(maxPrep) * time.Minute)
	if err := s.orderRepo.UpdateEstimatedReadyTime(tx, order.ID, readyTime); err != nil {
		return nil, fmt.Errorf("failed to set estimated ready time: %w", err)
	}

	if order.OrderType == models.OrderTypeDineIn && order.TableNumber != nil {
		if err := s.tableRepo.Occupy(tx, *order.TableNumber, order.ID); err != nil {
			return nil, fmt.Errorf("failed to occupy table '%s': %w", *order.TableNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit order transaction: %w", err)
	}

	created, err := s.GetOrderByID(order.ID)
	if err != nil {
		return nil, err
	}

	s.publishOrderEvent(s.notifier.OrderCreated, created)
	if created.OrderType == models.OrderTypeDineIn && created.TableNumber != nil {
		s.publishTableEvent(*created.TableNumber, models.TableOccupied, created.ID)
	}
	s.publishStockAlerts(alerts)
	return created, nil
}

func (s *orderService) GetOrderByID(orderID int64) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by ID: %w", err)
	}
	return order, nil
}

func (s *orderService) GetOrders(filters models.OrderFilters) ([]models.Order, int, error) {
	orders, total, err := s.orderRepo.GetOrders(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get orders: %w", err)
	}
	return orders, total, nil
}

func (s *orderService) GetActiveOrders() ([]models.Order, error) {
	orders, err := s.orderRepo.GetActiveOrders()
	if err != nil {
		return nil, fmt.Errorf("failed to get active orders: %w", err)
	}
	return orders, nil
}

func (s *orderService) GetKitchenOrders() ([]models.Order, error) {
	orders, err := s.orderRepo.GetKitchenOrders()
	if err != nil {
		return nil, fmt.Errorf("failed to get kitchen orders: %w", err)
	}
	return orders, nil
}

func (s *orderService) AddItems(orderID int64, req AddItemsRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", ErrValidation)
	}

	order, err := s.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status.Terminal() {
		return nil, fmt.Errorf("%w: cannot add items to a %s order", ErrInvalidState, order.Status)
	}

	tx, err := s.txManager.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	// New food means the kitchen starts over.
	if order.Status == models.StatusReady || order.Status == models.StatusServed {
		if err := s.orderRepo.UpdateOrderStatus(tx, orderID, models.StatusNew, nil); err != nil {
			return nil, fmt.Errorf("failed to reset order status: %w", err)
		}
	}

	var alerts []events.StockAlertEvent
	maxPrep := 0
	allItems := append([]models.OrderItem{}, order.Items...)
	for _, itemReq := range req.Items {
		result, err := s.prepareItem(tx, orderID, itemReq)
		if err != nil {
			return nil, err
		}
		if _, err := s.orderRepo.CreateOrderItem(tx, &result.item); err != nil {
			return nil, fmt.Errorf("failed to create order item (menu_item_id: %d): %w", result.item.MenuItemID, err)
		}
		allItems = append(allItems, result.item)
		alerts = append(alerts, result.alerts...)
		if result.prepMinutes > maxPrep {
			maxPrep = result.prepMinutes
		}
	}

	// Totals always come from the full item set, never incrementally.
	subtotal, cgst, sgst := s.taxCalc.OrderTotals(allItems, order.GSTEnabled)
	total := round2(subtotal - order.Discount + cgst + sgst)
	if err := s.orderRepo.UpdateOrderTotals(tx, orderID, subtotal, cgst, sgst, order.Discount, total); err != nil {
		return nil, fmt.Errorf("failed to update order totals: %w", err)
	}

	if maxPrep < s.cfg.DefaultPrepTimeMinutes {
		maxPrep = s.cfg.DefaultPrepTimeMinutes
	}
	newReady := time.Now().Add(time.Duration(maxPrep) * time.Minute)
	if order.EstimatedReadyTime == nil || newReady.After(*order.EstimatedReadyTime) {
		if err := s.orderRepo.UpdateEstimatedReadyTime(tx, orderID, newReady); err != nil {
			return nil, fmt.Errorf("failed to update estimated ready time: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit add items transaction: %w", err)
	}

	updated, err := s.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	s.publishOrderEvent(s.notifier.OrderUpdated, updated)
	s.publishStockAlerts(alerts)
	return updated, nil
}

func (s *orderService) UpdateOrderStatus(orderID int64, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown order status '%s'", ErrInvalidState, status)
	}
	if status == models.StatusCancelled {
		return s.CancelOrder(orderID)
	}
	if status == models.StatusPaid {
		return nil, fmt.Errorf("%w: orders are marked PAID through payment settlement", ErrInvalidState)
	}

	order, err := s.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status.Terminal() {
		return nil, fmt.Errorf("%w: order %d is %s", ErrInvalidState, orderID, order.Status)
	}
	if statusRank[status] <= statusRank[order.Status] {
		return nil, fmt.Errorf("%w: cannot move order from %s to %s", ErrInvalidState, order.Status, status)
	}

	tx, err := s.txManager.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	// First time the kitchen picks the order up it is frozen against
	// structural edits.
	if status == models.StatusCooking && !order.Frozen {
		if err := s.orderRepo.SetFrozen(tx, orderID, time.Now()); err != nil {
			return nil, fmt.Errorf("failed to freeze order: %w", err)
		}
	}

	var completedAt *time.Time
	if status == models.StatusServed {
		now := time.Now()
		completedAt = &now
	}
	if err := s.orderRepo.UpdateOrderStatus(tx, orderID, status, completedAt); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit status update: %w", err)
	}

	updated, err := s.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	s.publishOrderEvent(s.notifier.OrderUpdated, updated)
	return updated, nil
}

func (s *orderService) UpdateOrderItemStatus(orderID, itemID int64, status models.OrderStatus) (*models.Order, error) {
	switch status {
	case models.StatusNew, models.StatusCooking, models.StatusReady, models.StatusServed:
	default:
		return nil, fmt.Errorf("%w: '%s' is not an item status", ErrValidation, status)
	}

	order, err := s.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status.Terminal() {
		return nil, fmt.Errorf("%w: order %d is %s", ErrInvalidState, orderID, order.Status)
	}

	var target *models.OrderItem
	for i := range order.Items {
		if order.Items[i].ID == itemID {
			target = &order.Items[i]
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("%w: item %d does not belong to order %d", ErrValidation, itemID, orderID)
	}

	tx, err := s.txManager.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.orderRepo.UpdateOrderItemStatus(tx, itemID, status); err != nil {
		return nil, fmt.Errorf("failed to update item status: %w", err)
	}
	target.Status = status

	// The first item hitting the stove pulls the whole order along.
	if status == models.StatusCooking && order.Status == models.StatusNew {
		if !order.Frozen {
			if err := s.orderRepo.SetFrozen(tx, orderID, time.Now()); err != nil {
				return nil, fmt.Errorf("failed to freeze order: %w", err)
			}
		}
		if err := s.orderRepo.UpdateOrderStatus(tx, orderID, models.StatusCooking, nil); err != nil {
			return nil, fmt.Errorf("failed to propagate order status: %w", err)
		}
	}

	// When every plate is out of the kitchen the order itself is READY.
	allDone := true
	for _, item := range order.Items {
		if item.Status != models.StatusReady && item.Status != models.StatusServed {
			allDone = false
			break
		}
	}
	if allDone && order.Status != models.StatusReady && order.Status != models.StatusServed {
		if err := s.orderRepo.UpdateOrderStatus(tx, orderID, models.StatusReady, nil); err != nil {
			return nil, fmt.Errorf("failed to propagate order status: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit item status update: %w", err)
	}

	updated, err := s.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	s.publishOrderEvent(s.notifier.OrderUpdated, updated)
	return updated, nil
}

func (s *orderService) CancelOrder(orderID int64) (*models.Order, error) {
	order, err := s.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == models.StatusPaid {
		return nil, fmt.Errorf("%w: paid orders cannot be cancelled", ErrAlreadyPaid)
	}
	if order.Status == models.StatusCancelled {
		return nil, fmt.Errorf("%w: order %d is already cancelled", ErrInvalidState, orderID)
	}

	// Replay the order's own deduction entries so restoration matches
	// what was actually taken, even if recipes changed since.
	deductions, err := s.stockRepo.GetTransactionsByOrder(orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stock entries for order %d: %w", orderID, err)
	}

	tx, err := s.txManager.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	reason := "order cancelled"
	for _, deduction := range deductions {
		if deduction.TransactionType != models.TxnOrderDeduct {
			continue
		}
		oid := orderID
		if _, err := s.stockSvc.ApplyTransaction(tx, &models.StockTransaction{
			StockItemID:     deduction.StockItemID,
			TransactionType: models.TxnReturnFromOrder,
			Quantity:        deduction.Quantity,
			OrderID:         &oid,
			Reason:          &reason,
		}); err != nil {
			return nil, err
		}
	}

	// Direct stock counters have no ledger; rebuild usage from the lines.
	for _, line := range order.Items {
		item, err := s.menuRepo.GetItemForUpdate(tx, line.MenuItemID)
		if err != nil {
			if errors.Is(err, repositories.ErrLockNotAvailable) {
				return nil, fmt.Errorf("%w: menu item ID %d", ErrLockConflict, line.MenuItemID)
			}
			return nil, fmt.Errorf("failed to lock menu item %d: %w", line.MenuItemID, err)
		}
		var variation *models.MenuItemVariation
		if line.VariationID != nil {
			variation = item.VariationByID(*line.VariationID)
		}
		direct := s.resolver.DirectStockUsage(item, variation, line.Quantity)
		if direct <= 0 {
			continue
		}
		newLevel := item.StockLevel + direct
		if err := s.menuRepo.UpdateDirectStock(tx, item.ID, newLevel, newLevel > 0); err != nil {
			return nil, fmt.Errorf("failed to restore direct stock for '%s': %w", item.Name, err)
		}
	}

	now := time.Now()
	if err := s.orderRepo.UpdateOrderStatus(tx, orderID, models.StatusCancelled, &now); err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}

	if order.OrderType == models.OrderTypeDineIn && order.TableNumber != nil {
		if err := s.tableRepo.Release(tx, *order.TableNumber); err != nil {
			return nil, fmt.Errorf("failed to release table '%s': %w", *order.TableNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit cancellation: %w", err)
	}

	cancelled, err := s.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	s.publishOrderEvent(s.notifier.OrderUpdated, cancelled)
	if cancelled.OrderType == models.OrderTypeDineIn && cancelled.TableNumber != nil {
		s.publishTableEvent(*cancelled.TableNumber, models.TableAvailable, cancelled.ID)
	}
	return cancelled, nil
}

func (s *orderService) ExtendPrepTime(orderID int64, minutes int) (*models.Order, error) {
	if minutes <= 0 {
		return nil, fmt.Errorf("%w: extension minutes must be positive", ErrValidation)
	}

	order, err := s.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status.Terminal() {
		return nil, fmt.Errorf("%w: order %d is %s", ErrInvalidState, orderID, order.Status)
	}

	newReady := time.Now().Add(time.Duration(minutes) * time.Minute)
	if order.EstimatedReadyTime != nil {
		newReady = order.EstimatedReadyTime.Add(time.Duration(minutes) * time.Minute)
	}

	tx, err := s.txManager.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.orderRepo.UpdateEstimatedReadyTime(tx, orderID, newReady); err != nil {
		return nil, fmt.Errorf("failed to extend prep time: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit prep time extension: %w", err)
	}

	updated, err := s.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	s.publishOrderEvent(s.notifier.OrderUpdated, updated)
	return updated, nil
}

func (s *orderService) publishOrderEvent(publish func(events.OrderEvent) error, order *models.Order) {
	event := events.OrderEvent{
		OrderID:     order.ID,
		Status:      string(order.Status),
		OrderType:   string(order.OrderType),
		TotalAmount: order.TotalAmount,
		OccurredAt:  time.Now(),
	}
	if order.TableNumber != nil {
		event.TableNumber = *order.TableNumber
	}
	if err := publish(event); err != nil {
		log.Warn().Err(err).Int64("order_id", order.ID).Msg("Failed to publish order event")
	}
}

func (s *orderService) publishTableEvent(tableNumber string, status models.TableStatus, orderID int64) {
	err := s.notifier.TableStatus(events.TableStatusEvent{
		TableNumber: tableNumber,
		Status:      string(status),
		OrderID:     orderID,
		OccurredAt:  time.Now(),
	})
	if err != nil {
		log.Warn().Err(err).Str("table", tableNumber).Msg("Failed to publish table event")
	}
}

func (s *orderService) publishStockAlerts(alerts []events.StockAlertEvent) {
	for _, alert := range alerts {
		if err := s.notifier.StockAlert(alert); err != nil {
			log.Warn().Err(err).Str("item", alert.Name).Msg("Failed to publish stock alert")
		}
	}
}
