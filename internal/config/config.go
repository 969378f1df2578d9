package config

import (
	"fmt"
	"os"
)

// Config holds application configuration
type Config struct {
	Port     string
	DBConn   string
	LogLevel string

	JWTSecret string

	// Bank aggregator endpoints and application credentials. The credentials
	// have no defaults and must be supplied through the environment.
	AggregatorAuthURL     string
	AggregatorExchangeURL string
	AggregatorPublicKey   string
	AggregatorClientID    string
	AggregatorSecret      string
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:                  getEnv("PORT", "8080"),
		DBConn:                getEnv("DB_CONN", "host=localhost port=5432 user=test password=test dbname=savings sslmode=disable"),
		LogLevel:              getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:             getEnv("JWT_SECRET", "secret"),
		AggregatorAuthURL:     getEnv("AGGREGATOR_AUTH_URL", "https://link-tartan.plaid.com/authenticate"),
		AggregatorExchangeURL: getEnv("AGGREGATOR_EXCHANGE_URL", "https://tartan.plaid.com/exchange_token"),
		AggregatorPublicKey:   os.Getenv("AGGREGATOR_PUBLIC_KEY"),
		AggregatorClientID:    os.Getenv("AGGREGATOR_CLIENT_ID"),
		AggregatorSecret:      os.Getenv("AGGREGATOR_SECRET"),
	}

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.AggregatorPublicKey == "" {
		return nil, fmt.Errorf("AGGREGATOR_PUBLIC_KEY is required")
	}
	if cfg.AggregatorClientID == "" {
		return nil, fmt.Errorf("AGGREGATOR_CLIENT_ID is required")
	}
	if cfg.AggregatorSecret == "" {
		return nil, fmt.Errorf("AGGREGATOR_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
