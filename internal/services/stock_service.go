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

// CreateStockItemRequest is used for registering a new stock item.
type CreateStockItemRequest struct {
	Name         string  `json:"name" binding:"required"`
	Unit         string  `json:"unit" binding:"required"`
	CurrentStock float64 `json:"current_stock" binding:"gte=0"`
	ReorderLevel float64 `json:"reorder_level" binding:"gte=0"`
	CostPerUnit  float64 `json:"cost_per_unit" binding:"gte=0"`
	Supplier     *string `json:"supplier"`
}

// UpdateStockItemRequest is used for editing stock item master data.
// The balance is deliberately absent: it only moves via transactions.
type UpdateStockItemRequest struct {
	Name         string  `json:"name" binding:"required"`
	Unit         string  `json:"unit" binding:"required"`
	ReorderLevel float64 `json:"reorder_level" binding:"gte=0"`
	CostPerUnit  float64 `json:"cost_per_unit" binding:"gte=0"`
	Supplier     *string `json:"supplier"`
	IsActive     *bool   `json:"is_active"`
}

// RecordTransactionRequest is used for posting a manual ledger entry.
type RecordTransactionRequest struct {
	StockItemID     int64                       `json:"stock_item_id" binding:"required"`
	TransactionType models.StockTransactionType `json:"transaction_type" binding:"required"`
	Quantity        float64                     `json:"quantity" binding:"gte=0"`
	Reason          *string                     `json:"reason"`
	WasteCategory   *string                     `json:"waste_category"`
	ExpiryDate      *time.Time                  `json:"expiry_date"`
}

// StockService manages stock items and the append-only stock ledger.
// Every balance change locks the item row, writes the new balance and a
// ledger entry in one transaction, so replaying the ledger always
// reproduces the balance.
type StockService interface {
	CreateStockItem(req CreateStockItemRequest) (*models.StockItem, error)
	GetStockItemByID(id int64) (*models.StockItem, error)
	GetStockItems(activeOnly bool, page, pageSize int) ([]models.StockItem, int, error)
	GetLowStockItems() ([]models.StockItem, error)
	UpdateStockItem(id int64, req UpdateStockItemRequest) (*models.StockItem, error)
	DeactivateStockItem(id int64) error

	RecordTransaction(req RecordTransactionRequest) (*models.StockTransaction, error)
	// ApplyTransaction posts one ledger entry within the caller's
	// transaction. It locks the item row, applies the type's balance
	// effect and persists both the balance and the entry. The returned
	// item carries the post-transaction balance.
	ApplyTransaction(executor repositories.SQLExecutor, txn *models.StockTransaction) (*models.StockItem, error)

	GetItemTransactions(stockItemID int64, page, pageSize int) ([]models.StockTransaction, int, error)
	GetTransactionsByType(txnType models.StockTransactionType, page, pageSize int) ([]models.StockTransaction, int, error)
	GetTransactionsByOrder(orderID int64) ([]models.StockTransaction, error)
	GetExpiringPurchases(withinDays int) ([]models.StockTransaction, error)
}

type stockService struct {
	txManager repositories.TxManager
	stockRepo repositories.StockRepository
	notifier  events.Notifier
}

// NewStockService creates a new StockService.
func NewStockService(txManager repositories.TxManager, stockRepo repositories.StockRepository, notifier events.Notifier) StockService {
	return &stockService{txManager: txManager, stockRepo: stockRepo, notifier: notifier}
}

func (s *stockService) CreateStockItem(req CreateStockItemRequest) (*models.StockItem, error) {
	item := &models.StockItem{
		Name:         req.Name,
		Unit:         req.Unit,
		CurrentStock: req.CurrentStock,
		ReorderLevel: req.ReorderLevel,
		CostPerUnit:  req.CostPerUnit,
		Supplier:     req.Supplier,
		IsActive:     true,
	}

	tx, err := s.txManager.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.stockRepo.CreateItem(tx, item); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateRecord, err)
		}
		return nil, fmt.Errorf("failed to create stock item: %w", err)
	}

	// An opening balance is itself a ledger entry, so the trail starts
	// at row one.
	if req.CurrentStock > 0 {
		openingReason := "opening balance"
		txn := &models.StockTransaction{
			StockItemID:      item.ID,
			TransactionType:  models.TxnPurchase,
			Quantity:         req.CurrentStock,
			UnitCostSnapshot: item.CostPerUnit,
			Reason:           &openingReason,
		}
		if _, err := s.stockRepo.CreateTransaction(tx, txn); err != nil {
			return nil, fmt.Errorf("failed to record opening balance: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit stock item creation: %w", err)
	}
	return item, nil
}

func (s *stockService) GetStockItemByID(id int64) (*models.StockItem, error) {
	item, err := s.stockRepo.GetItemByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStockItemNotFound
		}
		return nil, fmt.Errorf("failed to get stock item: %w", err)
	}
	return item, nil
}

func (s *stockService) GetStockItems(activeOnly bool, page, pageSize int) ([]models.StockItem, int, error) {
	items, total, err := s.stockRepo.GetItems(activeOnly, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get stock items: %w", err)
	}
	return items, total, nil
}

func (s *stockService) GetLowStockItems() ([]models.StockItem, error) {
	items, err := s.stockRepo.GetLowStockItems()
	if err != nil {
		return nil, fmt.Errorf("failed to get low stock items: %w", err)
	}
	return items, nil
}

func (s *stockService) UpdateStockItem(id int64, req UpdateStockItemRequest) (*models.StockItem, error) {
	item, err := s.GetStockItemByID(id)
	if err != nil {
		return nil, err
	}

	item.Name = req.Name
	item.Unit = req.Unit
	item.ReorderLevel = req.ReorderLevel
	item.CostPerUnit = req.CostPerUnit
	item.Supplier = req.Supplier
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}

	tx, err := s.txManager.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.stockRepo.UpdateItem(tx, item); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateRecord, err)
		}
		return nil, fmt.Errorf("failed to update stock item: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit stock item update: %w", err)
	}
	return item, nil
}

func (s *stockService) DeactivateStockItem(id int64) error {
	tx, err := s.txManager.Begin()
	if err != nil {
		return fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.stockRepo.DeactivateItem(tx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrStockItemNotFound
		}
		return fmt.Errorf("failed to deactivate stock item: %w", err)
	}
	return tx.Commit()
}

func (s *stockService) validateTransaction(req RecordTransactionRequest) error {
	effect, ok := req.TransactionType.Effect()
	if !ok {
		return fmt.Errorf("%w: unknown transaction type '%s'", ErrValidation, req.TransactionType)
	}
	if req.TransactionType == models.TxnOrderDeduct || req.TransactionType == models.TxnReturnFromOrder {
		return fmt.Errorf("%w: transaction type '%s' is posted by the order workflow only", ErrValidation, req.TransactionType)
	}
	if effect != models.EffectSet && req.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive for '%s'", ErrValidation, req.TransactionType)
	}
	if req.TransactionType == models.TxnWaste && (req.WasteCategory == nil || *req.WasteCategory == "") {
		return fmt.Errorf("%w: waste entries require a waste category", ErrValidation)
	}
	return nil
}

func (s *stockService) RecordTransaction(req RecordTransactionRequest) (*models.StockTransaction, error) {
	if err := s.validateTransaction(req); err != nil {
		return nil, err
	}

	txn := &models.StockTransaction{
		StockItemID:     req.StockItemID,
		TransactionType: req.TransactionType,
		Quantity:        req.Quantity,
		Reason:          req.Reason,
		WasteCategory:   req.WasteCategory,
		ExpiryDate:      req.ExpiryDate,
	}

	tx, err := s.txManager.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	item, err := s.ApplyTransaction(tx, txn)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit stock transaction: %w", err)
	}

	if item.IsLowStock() {
		s.publishLowStockAlert(item)
	}

	txn.StockItemName = item.Name
	txn.StockItemUnit = item.Unit
	return txn, nil
}

func (s *stockService) ApplyTransaction(executor repositories.SQLExecutor, txn *models.StockTransaction) (*models.StockItem, error) {
	item, err := s.stockRepo.GetItemForUpdate(executor, txn.StockItemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: stock item ID %d", ErrStockItemNotFound, txn.StockItemID)
		}
		if errors.Is(err, repositories.ErrLockNotAvailable) {
			return nil, fmt.Errorf("%w: stock item ID %d", ErrLockConflict, txn.StockItemID)
		}
		return nil, fmt.Errorf("failed to lock stock item %d: %w", txn.StockItemID, err)
	}

	effect, ok := txn.TransactionType.Effect()
	if !ok {
		return nil, fmt.Errorf("%w: unknown transaction type '%s'", ErrValidation, txn.TransactionType)
	}

	newBalance := item.CurrentStock
	audited := false
	switch effect {
	case models.EffectAdd:
		newBalance += txn.Quantity
	case models.EffectSubtract:
		newBalance -= txn.Quantity
		if newBalance < 0 {
			return nil, &InsufficientStockError{
				ItemName:  item.Name,
				Available: item.CurrentStock,
				Requested: txn.Quantity,
			}
		}
	case models.EffectSet:
		newBalance = txn.Quantity
		audited = true
	}

	txn.UnitCostSnapshot = item.CostPerUnit

	if err := s.stockRepo.SetBalance(executor, item.ID, newBalance, audited); err != nil {
		return nil, fmt.Errorf("failed to set balance for stock item %d: %w", item.ID, err)
	}
	if _, err := s.stockRepo.CreateTransaction(executor, txn); err != nil {
		return nil, fmt.Errorf("failed to record stock transaction: %w", err)
	}

	item.CurrentStock = newBalance
	return item, nil
}

func (s *stockService) publishLowStockAlert(item *models.StockItem) {
	err := s.notifier.StockAlert(events.StockAlertEvent{
		StockItemID:  item.ID,
		Name:         item.Name,
		CurrentStock: item.CurrentStock,
		ReorderLevel: item.ReorderLevel,
		Unit:         item.Unit,
		OccurredAt:   time.Now(),
	})
	if err != nil {
		log.Warn().Err(err).Str("item", item.Name).Msg("Failed to publish low stock alert")
	}
}

func (s *stockService) GetItemTransactions(stockItemID int64, page, pageSize int) ([]models.StockTransaction, int, error) {
	if _, err := s.GetStockItemByID(stockItemID); err != nil {
		return nil, 0, err
	}
	txns, total, err := s.stockRepo.GetTransactionsByItem(stockItemID, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get stock transactions: %w", err)
	}
	return txns, total, nil
}

func (s *stockService) GetTransactionsByType(txnType models.StockTransactionType, page, pageSize int) ([]models.StockTransaction, int, error) {
	if _, ok := txnType.Effect(); !ok {
		return nil, 0, fmt.Errorf("%w: unknown transaction type '%s'", ErrValidation, txnType)
	}
	txns, total, err := s.stockRepo.GetTransactionsByType(txnType, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get stock transactions: %w", err)
	}
	return txns, total, nil
}

func (s *stockService) GetTransactionsByOrder(orderID int64) ([]models.StockTransaction, error) {
	txns, err := s.stockRepo.GetTransactionsByOrder(orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stock transactions for order %d: %w", orderID, err)
	}
	return txns, nil
}

func (s *stockService) GetExpiringPurchases(withinDays int) ([]models.StockTransaction, error) {
	if withinDays <= 0 {
		withinDays = 7
	}
	before := time.Now().AddDate(0, 0, withinDays)
	txns, err := s.stockRepo.GetExpiringPurchases(before)
	if err != nil {
		return nil, fmt.Errorf("failed to get expiring purchases: %w", err)
	}
	return txns, nil
}
