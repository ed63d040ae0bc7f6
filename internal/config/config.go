package config

import (
	"fmt"
	"os"

	"tradesphere/internal/ledger"
)

type Config struct {
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	ServerPort  string
	JWTSecret   string
	TradePolicy ledger.TradePolicy
}

// Load reads the configuration from the environment. godotenv is
// expected to have populated it already in main.
func Load() (Config, error) {
	cfg := Config{
		DBHost:     getenv("DB_HOST", "localhost"),
		DBPort:     getenv("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		ServerPort: getenv("SERVER_PORT", "8080"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must be set")
	}

	policy, err := ledger.ParseTradePolicy(os.Getenv("TRADE_POLICY"))
	if err != nil {
		return Config{}, err
	}
	cfg.TradePolicy = policy

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
