package handlers

import (
	"net/http"
	"strconv"

	"biryanipos_backend/internal/models"
	"biryanipos_backend/internal/services"
	"biryanipos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// StockHandler holds the stock service.
type StockHandler struct {
	stockService services.StockService
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(ss services.StockService) *StockHandler {
	return &StockHandler{stockService: ss}
}

// CreateStockItem registers a raw inventory item.
func (h *StockHandler) CreateStockItem(c *gin.Context) {
	var req services.CreateStockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	item, err := h.stockService.CreateStockItem(req)
	if err != nil {
		respondServiceError(c, err, "CreateStockItem: Error from stockService.CreateStockItem")
		return
	}
	c.JSON(http.StatusCreated, item)
}

// GetStockItems lists stock items with pagination.
func (h *StockHandler) GetStockItems(c *gin.Context) {
	page, pageSize := parsePagination(c)
	activeOnly := c.DefaultQuery("active_only", "true") == "true"

	items, total, err := h.stockService.GetStockItems(activeOnly, page, pageSize)
	if err != nil {
		respondServiceError(c, err, "GetStockItems: Error from stockService.GetStockItems")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      items,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetStockItemByID fetches one stock item.
func (h *StockHandler) GetStockItemByID(c *gin.Context) {
	id, ok := parseIDParam(c, "itemID")
	if !ok {
		return
	}

	item, err := h.stockService.GetStockItemByID(id)
	if err != nil {
		respondServiceError(c, err, "GetStockItemByID: Error from stockService.GetStockItemByID")
		return
	}
	c.JSON(http.StatusOK, item)
}

// GetLowStockItems lists items at or below their reorder level.
func (h *StockHandler) GetLowStockItems(c *gin.Context) {
	items, err := h.stockService.GetLowStockItems()
	if err != nil {
		respondServiceError(c, err, "GetLowStockItems: Error from stockService.GetLowStockItems")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

// UpdateStockItem edits stock item master data (never the balance).
func (h *StockHandler) UpdateStockItem(c *gin.Context) {
	id, ok := parseIDParam(c, "itemID")
	if !ok {
		return
	}
	var req services.UpdateStockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	item, err := h.stockService.UpdateStockItem(id, req)
	if err != nil {
		respondServiceError(c, err, "UpdateStockItem: Error from stockService.UpdateStockItem")
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeactivateStockItem soft-deletes a stock item.
func (h *StockHandler) DeactivateStockItem(c *gin.Context) {
	id, ok := parseIDParam(c, "itemID")
	if !ok {
		return
	}

	if err := h.stockService.DeactivateStockItem(id); err != nil {
		respondServiceError(c, err, "DeactivateStockItem: Error from stockService.DeactivateStockItem")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stock item deactivated"})
}

// RecordTransaction posts a manual ledger entry (purchase, issue, waste,
// adjustment).
func (h *StockHandler) RecordTransaction(c *gin.Context) {
	var req services.RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	txn, err := h.stockService.RecordTransaction(req)
	if err != nil {
		respondServiceError(c, err, "RecordTransaction: Error from stockService.RecordTransaction")
		return
	}
	c.JSON(http.StatusCreated, txn)
}

// GetItemTransactions lists the ledger for one stock item.
func (h *StockHandler) GetItemTransactions(c *gin.Context) {
	id, ok := parseIDParam(c, "itemID")
	if !ok {
		return
	}
	page, pageSize := parsePagination(c)

	txns, total, err := h.stockService.GetItemTransactions(id, page, pageSize)
	if err != nil {
		respondServiceError(c, err, "GetItemTransactions: Error from stockService.GetItemTransactions")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      txns,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetTransactionsByType lists the ledger filtered by entry type.
func (h *StockHandler) GetTransactionsByType(c *gin.Context) {
	txnType := models.StockTransactionType(c.Param("type"))
	page, pageSize := parsePagination(c)

	txns, total, err := h.stockService.GetTransactionsByType(txnType, page, pageSize)
	if err != nil {
		respondServiceError(c, err, "GetTransactionsByType: Error from stockService.GetTransactionsByType")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      txns,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetExpiringPurchases lists purchase entries whose stock expires soon.
func (h *StockHandler) GetExpiringPurchases(c *gin.Context) {
	days := 7
	if v, err := strconv.Atoi(c.DefaultQuery("days", "7")); err == nil && v > 0 {
		days = v
	}

	txns, err := h.stockService.GetExpiringPurchases(days)
	if err != nil {
		respondServiceError(c, err, "GetExpiringPurchases: Error from stockService.GetExpiringPurchases")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": txns})
}
