package router

import (
	"biryanipos_backend/internal/handlers"
	"biryanipos_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupOrderRoutes sets up the order lifecycle and settlement routes.
func SetupOrderRoutes(authenticatedGroup *gin.RouterGroup, orderHandler *handlers.OrderHandler, paymentHandler *handlers.PaymentHandler) {
	orderRoutes := authenticatedGroup.Group("/orders")
	orderRoutes.Use(middleware.RoleAuthMiddleware("admin", "cashier", "waiter", "kitchen"))
	{
		orderRoutes.POST("", orderHandler.CreateOrder)
		orderRoutes.GET("", orderHandler.GetOrders)
		orderRoutes.GET("/active", orderHandler.GetActiveOrders)
		orderRoutes.GET("/kitchen", orderHandler.GetKitchenOrders)
		orderRoutes.GET("/:orderID", orderHandler.GetOrderByID)
		orderRoutes.POST("/:orderID/items", orderHandler.AddItems)
		orderRoutes.PATCH("/:orderID/status", orderHandler.UpdateOrderStatus)
		orderRoutes.PATCH("/:orderID/items/:itemID/status", orderHandler.UpdateOrderItemStatus)
		orderRoutes.POST("/:orderID/cancel", orderHandler.CancelOrder)
		orderRoutes.POST("/:orderID/extend-time", orderHandler.ExtendPrepTime)
	}

	// Settlement is restricted to the cash desk.
	settlementRoutes := authenticatedGroup.Group("/orders")
	settlementRoutes.Use(middleware.RoleAuthMiddleware("admin", "cashier"))
	{
		settlementRoutes.POST("/:orderID/payment", paymentHandler.ProcessPayment)
		settlementRoutes.GET("/:orderID/payment", paymentHandler.GetPaymentByOrderID)
		settlementRoutes.GET("/:orderID/bill", paymentHandler.GenerateBill)
	}
}

// SetupMenuRoutes sets up the menu category and item routes.
// Reads are open to all authenticated roles; writes are admin only.
func SetupMenuRoutes(authenticatedGroup *gin.RouterGroup, menuHandler *handlers.MenuHandler) {
	menuReadRoutes := authenticatedGroup.Group("/menu")
	menuReadRoutes.Use(middleware.RoleAuthMiddleware("admin", "cashier", "waiter", "kitchen"))
	{
		menuReadRoutes.GET("/categories", menuHandler.GetCategories)
		menuReadRoutes.GET("/items", menuHandler.GetMenuItems)
		menuReadRoutes.GET("/items/:itemID", menuHandler.GetMenuItemByID)
	}

	menuWriteRoutes := authenticatedGroup.Group("/menu")
	menuWriteRoutes.Use(middleware.RoleAuthMiddleware("admin"))
	{
		menuWriteRoutes.POST("/categories", menuHandler.CreateCategory)
		menuWriteRoutes.PUT("/categories/:categoryID", menuHandler.UpdateCategory)
		menuWriteRoutes.DELETE("/categories/:categoryID", menuHandler.DeleteCategory)
		menuWriteRoutes.POST("/items", menuHandler.CreateMenuItem)
		menuWriteRoutes.PUT("/items/:itemID", menuHandler.UpdateMenuItem)
		menuWriteRoutes.DELETE("/items/:itemID", menuHandler.DeleteMenuItem)
	}
}

// SetupStockRoutes sets up the stock item and ledger routes.
func SetupStockRoutes(authenticatedGroup *gin.RouterGroup, stockHandler *handlers.StockHandler) {
	stockRoutes := authenticatedGroup.Group("/stock")
	stockRoutes.Use(middleware.RoleAuthMiddleware("admin", "cashier"))
	{
		stockRoutes.POST("/items", stockHandler.CreateStockItem)
		stockRoutes.GET("/items", stockHandler.GetStockItems)
		stockRoutes.GET("/items/low", stockHandler.GetLowStockItems)
		stockRoutes.GET("/items/expiring", stockHandler.GetExpiringPurchases)
		stockRoutes.GET("/items/:itemID", stockHandler.GetStockItemByID)
		stockRoutes.PUT("/items/:itemID", stockHandler.UpdateStockItem)
		stockRoutes.DELETE("/items/:itemID", stockHandler.DeactivateStockItem)
		stockRoutes.GET("/items/:itemID/transactions", stockHandler.GetItemTransactions)
		stockRoutes.POST("/transactions", stockHandler.RecordTransaction)
		stockRoutes.GET("/transactions/type/:type", stockHandler.GetTransactionsByType)
	}
}

// SetupShiftRoutes sets up the cash shift routes.
func SetupShiftRoutes(authenticatedGroup *gin.RouterGroup, shiftHandler *handlers.ShiftHandler) {
	shiftRoutes := authenticatedGroup.Group("/shifts")
	shiftRoutes.Use(middleware.RoleAuthMiddleware("admin", "cashier"))
	{
		shiftRoutes.POST("", shiftHandler.OpenShift)
		shiftRoutes.POST("/close", shiftHandler.CloseShift)
		shiftRoutes.GET("", shiftHandler.GetShifts)
		shiftRoutes.GET("/active", shiftHandler.GetActiveShift)
		shiftRoutes.GET("/x-report", shiftHandler.XReport)
		shiftRoutes.GET("/:shiftID", shiftHandler.GetShiftByID)
	}
}

// SetupTableRoutes sets up the dining table routes.
func SetupTableRoutes(authenticatedGroup *gin.RouterGroup, tableHandler *handlers.TableHandler) {
	tableRoutes := authenticatedGroup.Group("/tables")
	tableRoutes.Use(middleware.RoleAuthMiddleware("admin", "cashier", "waiter"))
	{
		tableRoutes.POST("", tableHandler.CreateTable)
		tableRoutes.GET("", tableHandler.GetTables)
		tableRoutes.GET("/:tableNumber", tableHandler.GetTableByNumber)
		tableRoutes.PUT("/id/:tableID", tableHandler.UpdateTable)
		tableRoutes.DELETE("/id/:tableID", tableHandler.DeleteTable)
	}
}

// SetupCustomerRoutes sets up the customer loyalty routes.
func SetupCustomerRoutes(authenticatedGroup *gin.RouterGroup, customerHandler *handlers.CustomerHandler) {
	customerRoutes := authenticatedGroup.Group("/customers")
	customerRoutes.Use(middleware.RoleAuthMiddleware("admin", "cashier"))
	{
		customerRoutes.POST("", customerHandler.CreateCustomer)
		customerRoutes.GET("", customerHandler.GetCustomers)
		customerRoutes.GET("/:phone", customerHandler.GetCustomerByPhone)
		customerRoutes.PUT("/:phone", customerHandler.UpdateCustomer)
	}
}
