package router

import (
	"database/sql"
	"time"

	"biryanipos_backend/internal/events"
	"biryanipos_backend/internal/handlers"
	"biryanipos_backend/internal/middleware"
	"biryanipos_backend/internal/models"
	"biryanipos_backend/internal/repositories"
	"biryanipos_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Config carries the runtime settings the router needs to wire the
// application together.
type Config struct {
	App           models.AppConfig
	JWTSecret     string
	JWTExpiration time.Duration
}

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB, notifier events.Notifier, cfg Config) {
	// Initialize Repositories
	txManager := repositories.NewTxManager(db)
	authRepo := repositories.NewAuthRepository(db)
	menuRepo := repositories.NewMenuRepository(db)
	stockRepo := repositories.NewStockRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	shiftRepo := repositories.NewShiftRepository(db)
	tableRepo := repositories.NewTableRepository(db)
	customerRepo := repositories.NewCustomerRepository(db)

	// Initialize Services
	taxCalc := services.NewTaxCalculator(cfg.App)
	resolver := services.NewRecipeResolver()

	authService := services.NewAuthService(txManager, authRepo, cfg.JWTSecret, cfg.JWTExpiration)
	menuService := services.NewMenuService(txManager, menuRepo, stockRepo, cfg.App)
	stockService := services.NewStockService(txManager, stockRepo, notifier)
	customerService := services.NewCustomerService(txManager, customerRepo, cfg.App)
	tableService := services.NewTableService(txManager, tableRepo)
	orderService := services.NewOrderService(txManager, orderRepo, menuRepo, stockRepo, tableRepo, stockService, resolver, taxCalc, notifier, cfg.App)
	paymentService := services.NewPaymentService(txManager, orderRepo, paymentRepo, tableRepo, customerService, taxCalc, notifier, cfg.App)
	shiftService := services.NewShiftService(txManager, shiftRepo, paymentRepo, orderRepo)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	menuHandler := handlers.NewMenuHandler(menuService)
	stockHandler := handlers.NewStockHandler(stockService)
	orderHandler := handlers.NewOrderHandler(orderService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	shiftHandler := handlers.NewShiftHandler(shiftService)
	tableHandler := handlers.NewTableHandler(tableService)
	customerHandler := handlers.NewCustomerHandler(customerService)

	apiV1 := engine.Group("/api/v1")

	// Public authentication routes
	SetupPublicAuthRoutes(apiV1.Group("/auth"), authHandler)

	// Authenticated routes
	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), authHandler)

		SetupOrderRoutes(authenticated, orderHandler, paymentHandler)
		SetupMenuRoutes(authenticated, menuHandler)
		SetupStockRoutes(authenticated, stockHandler)
		SetupShiftRoutes(authenticated, shiftHandler)
		SetupTableRoutes(authenticated, tableHandler)
		SetupCustomerRoutes(authenticated, customerHandler)
	}
}

// SetupPublicAuthRoutes sets up the login and registration routes.
func SetupPublicAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/register", authHandler.RegisterUser)
	group.POST("/login", authHandler.LoginUser)
}

// SetupAuthenticatedAuthRoutes sets up the auth routes that require a token.
func SetupAuthenticatedAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/logout", authHandler.LogoutUser)
	group.GET("/me", authHandler.GetCurrentUser)
}
