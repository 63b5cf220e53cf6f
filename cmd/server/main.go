package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"biryanipos_backend/internal/database"
	"biryanipos_backend/internal/events"
	"biryanipos_backend/internal/models"
	routerpkg "biryanipos_backend/internal/router"
	"biryanipos_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize Logger
	utils.InitLogger()

	// Load database configuration from environment variables
	dbHost := utils.Getenv("DB_HOST", "localhost")
	dbPort := utils.Getenv("DB_PORT", "5432")
	dbUser := utils.Getenv("DB_USER", "biryanipos_user")
	dbPassword := utils.Getenv("DB_PASSWORD", "biryanipos_password")
	dbName := utils.Getenv("DB_NAME", "biryanipos_db")
	dbSSLMode := utils.Getenv("DB_SSLMODE", "disable")
	dbSchemaPath := utils.Getenv("DB_SCHEMA_PATH", "")

	// Initialize Database
	database.InitDB(dbHost, dbPort, dbUser, dbPassword, dbName, dbSSLMode, dbSchemaPath)
	utils.LogInfo("Database initialized", map[string]interface{}{"configured_from_env": true})

	// Event notifier: NATS when configured, otherwise a no-op.
	var notifier events.Notifier = events.NoopNotifier{}
	if natsURL := os.Getenv("NATS_URL"); natsURL != "" {
		natsNotifier, err := events.NewNATSNotifier(natsURL)
		if err != nil {
			utils.LogError(err, "Failed to connect to NATS, continuing without event publishing")
		} else {
			notifier = natsNotifier
			utils.LogInfo("NATS notifier connected", map[string]interface{}{"url": natsURL})
		}
	}
	defer notifier.Close()

	appCfg := loadAppConfig()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}
	jwtExpiration := time.Hour * time.Duration(getenvInt("JWT_EXPIRATION_HOURS", 12))

	engine := gin.Default()

	// Add GinLogger middleware for request logging
	engine.Use(utils.GinLogger())

	// CORS configuration
	corsAllowedOriginsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	var allowedOrigins []string
	if corsAllowedOriginsEnv != "" {
		allowedOrigins = strings.Split(corsAllowedOriginsEnv, ",")
	} else {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:3001"}
	}

	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowCredentials = true
	engine.Use(cors.New(config))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Setup all application routes
	routerpkg.Setup(engine, database.GetDB(), notifier, routerpkg.Config{
		App:           appCfg,
		JWTSecret:     jwtSecret,
		JWTExpiration: jwtExpiration,
	})

	// Server port configuration
	port := utils.Getenv("PORT", "8080")
	utils.LogInfo("Server starting", map[string]interface{}{"port": port, "configured_from_env": true})

	if err := engine.Run(":" + port); err != nil {
		utils.LogError(err, "Failed to start server")
		log.Fatalf("Failed to start server: %v", err)
	}
}

// loadAppConfig builds the restaurant settings from environment variables,
// falling back to the packaged defaults.
func loadAppConfig() models.AppConfig {
	cfg := models.DefaultAppConfig()
	cfg.TaxEnabled = getenvBool("TAX_ENABLED", cfg.TaxEnabled)
	cfg.DefaultGSTPercent = getenvFloat("DEFAULT_GST_PERCENT", cfg.DefaultGSTPercent)
	cfg.DefaultPrepTimeMinutes = getenvInt("DEFAULT_PREP_TIME_MINUTES", cfg.DefaultPrepTimeMinutes)
	cfg.LowStockThreshold = getenvFloat("LOW_STOCK_THRESHOLD", cfg.LowStockThreshold)
	cfg.LoyaltyPointsPerAmount = getenvFloat("LOYALTY_POINTS_PER_AMOUNT", cfg.LoyaltyPointsPerAmount)
	return cfg
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getenvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
