// Package config provides configuration management functionality.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port     int
	LogLevel string
	DevMode  bool

	// BaseCurrency is the default target currency for portfolio metrics
	BaseCurrency string

	// RateAPIURL is the exchange rate endpoint; empty disables refreshes
	// and the engine keeps its seeded table
	RateAPIURL string

	// MarketDataURL is the quote endpoint; empty disables the HTTP
	// provider and leaves only static prices
	MarketDataURL string

	RateRefreshSchedule string
	PriceSyncSchedule   string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:                getEnvAsInt("PORT", 8080),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		DevMode:             getEnvAsBool("DEV_MODE", false),
		BaseCurrency:        getEnv("BASE_CURRENCY", "USD"),
		RateAPIURL:          getEnv("RATE_API_URL", ""),
		MarketDataURL:       getEnv("MARKET_DATA_URL", ""),
		RateRefreshSchedule: getEnv("RATE_REFRESH_SCHEDULE", "@every 6h"),
		PriceSyncSchedule:   getEnv("PRICE_SYNC_SCHEDULE", "@every 15m"),
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
