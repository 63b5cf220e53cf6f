package handlers

import (
	"net/http"

	"biryanipos_backend/internal/models"
	"biryanipos_backend/internal/services"
	"biryanipos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// OrderHandler holds the order service.
type OrderHandler struct {
	orderService services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(os services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: os}
}

// CreateOrder handles the creation of a new order with its items.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	createdOrder, err := h.orderService.CreateOrder(req)
	if err != nil {
		respondServiceError(c, err, "CreateOrder: Error from orderService.CreateOrder")
		return
	}
	c.JSON(http.StatusCreated, createdOrder)
}

// GetOrders handles fetching orders with filters and pagination.
func (h *OrderHandler) GetOrders(c *gin.Context) {
	var filters models.OrderFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 || filters.PageSize > 100 {
		filters.PageSize = 20
	}

	orders, totalCount, err := h.orderService.GetOrders(filters)
	if err != nil {
		respondServiceError(c, err, "GetOrders: Error from orderService.GetOrders")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      orders,
		"total":     totalCount,
		"page":      filters.Page,
		"page_size": filters.PageSize,
	})
}

// GetOrderByID handles fetching a single order with its items.
func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	orderID, ok := parseIDParam(c, "orderID")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrderByID(orderID)
	if err != nil {
		respondServiceError(c, err, "GetOrderByID: Error from orderService.GetOrderByID")
		return
	}
	c.JSON(http.StatusOK, order)
}

// GetActiveOrders lists every order still in the kitchen or on the floor.
func (h *OrderHandler) GetActiveOrders(c *gin.Context) {
	orders, err := h.orderService.GetActiveOrders()
	if err != nil {
		respondServiceError(c, err, "GetActiveOrders: Error from orderService.GetActiveOrders")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": orders})
}

// GetKitchenOrders lists orders the kitchen display should show.
func (h *OrderHandler) GetKitchenOrders(c *gin.Context) {
	orders, err := h.orderService.GetKitchenOrders()
	if err != nil {
		respondServiceError(c, err, "GetKitchenOrders: Error from orderService.GetKitchenOrders")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": orders})
}

// AddItems appends lines to an existing order.
func (h *OrderHandler) AddItems(c *gin.Context) {
	orderID, ok := parseIDParam(c, "orderID")
	if !ok {
		return
	}
	var req services.AddItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	order, err := h.orderService.AddItems(orderID, req)
	if err != nil {
		respondServiceError(c, err, "AddItems: Error from orderService.AddItems")
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateOrderStatus moves an order through its kitchen lifecycle.
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := parseIDParam(c, "orderID")
	if !ok {
		return
	}
	var req services.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	order, err := h.orderService.UpdateOrderStatus(orderID, req.Status)
	if err != nil {
		respondServiceError(c, err, "UpdateOrderStatus: Error from orderService.UpdateOrderStatus")
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateOrderItemStatus moves a single line through its lifecycle.
func (h *OrderHandler) UpdateOrderItemStatus(c *gin.Context) {
	orderID, ok := parseIDParam(c, "orderID")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "itemID")
	if !ok {
		return
	}
	var req services.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	order, err := h.orderService.UpdateOrderItemStatus(orderID, itemID, req.Status)
	if err != nil {
		respondServiceError(c, err, "UpdateOrderItemStatus: Error from orderService.UpdateOrderItemStatus")
		return
	}
	c.JSON(http.StatusOK, order)
}

// CancelOrder cancels an unpaid order and restores its stock.
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "orderID")
	if !ok {
		return
	}

	order, err := h.orderService.CancelOrder(orderID)
	if err != nil {
		respondServiceError(c, err, "CancelOrder: Error from orderService.CancelOrder")
		return
	}
	c.JSON(http.StatusOK, order)
}

// ExtendPrepTime pushes out the estimated ready time.
func (h *OrderHandler) ExtendPrepTime(c *gin.Context) {
	orderID, ok := parseIDParam(c, "orderID")
	if !ok {
		return
	}
	var req services.ExtendPrepTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	order, err := h.orderService.ExtendPrepTime(orderID, req.Minutes)
	if err != nil {
		respondServiceError(c, err, "ExtendPrepTime: Error from orderService.ExtendPrepTime")
		return
	}
	c.JSON(http.StatusOK, order)
}
