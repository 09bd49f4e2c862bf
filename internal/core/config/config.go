package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Port        string
	DatabaseURL string
	WebhookURL  string
	Env         string
	USDToCLP    decimal.Decimal
}

// LoadConfig reads the .env file and returns a Config struct.
func LoadConfig() *Config {
	// The .env file might not exist in production, which is fine.
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, relying on system env variables")
	}

	return &Config{
		Port:        getEnv("PORT", "3000"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		WebhookURL:  getEnv("WEBHOOK_URL", ""),
		Env:         getEnv("ENV", "development"),
		USDToCLP:    getEnvDecimal("USD_CLP_RATE", decimal.NewFromInt(900)),
	}
}

// Helper to get env with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := decimal.NewFromString(value)
	if err != nil || !d.IsPositive() {
		slog.Warn("Ignoring invalid rate in env", "key", key, "value", value)
		return fallback
	}
	return d
}
