package models

// AppConfig carries the runtime configuration the core services need.
// It is assembled once at startup from environment variables and passed
// explicitly into service constructors, so no service reads ambient
// global state to decide tax or inventory behaviour.
type AppConfig struct {
	TaxEnabled             bool    `json:"tax_enabled"`
	DefaultGSTPercent      float64 `json:"default_gst_percent"`
	DefaultPrepTimeMinutes int     `json:"default_prep_time_minutes"`
	LowStockThreshold      float64 `json:"low_stock_threshold"`
	LoyaltyPointsPerAmount float64 `json:"loyalty_points_per_amount"` // rupees of spend per loyalty point
}

// DefaultAppConfig returns the configuration used when no environment
// overrides are present.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		TaxEnabled:             true,
		DefaultGSTPercent:      5.0,
		DefaultPrepTimeMinutes: 15,
		LowStockThreshold:      50.0,
		LoyaltyPointsPerAmount: 100.0,
	}
}
