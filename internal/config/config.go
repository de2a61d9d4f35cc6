package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// JWT configuration
	JWT JWTConfig

	// Sale engine configuration
	Sale SaleConfig

	// Notification gateway configuration
	Notify NotifyConfig

	// CORS configuration
	CORS CORSConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string
	Environment string // development, staging, production
	LogLevel    string // debug, info, warn, error
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	URL                string
	MaxConnections     int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

// JWTConfig holds JWT-related configuration
type JWTConfig struct {
	Secret            string
	AccessTokenExpiry time.Duration
}

// SaleConfig holds sale transaction tuning
type SaleConfig struct {
	TxTimeout    time.Duration // per-attempt transaction deadline
	MaxRetries   int           // transient-conflict retry budget
	RetryBackoff time.Duration // initial backoff, doubled per attempt
}

// NotifyConfig holds notification gateway configuration
type NotifyConfig struct {
	Mode         string // "dev" logs instead of sending
	GatewayURL   string
	APIKey       string
	SendInterval time.Duration // inter-message delay for batch dispatch
	QueueSize    int
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			URL:                getEnv("DATABASE_URL", ""),
			MaxConnections:     getEnvAsInt("DATABASE_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("DATABASE_MAX_IDLE_CONNECTIONS", 5),
			ConnMaxLifetime:    time.Duration(getEnvAsInt("DATABASE_CONN_MAX_LIFETIME", 300)) * time.Second,
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", ""),
			AccessTokenExpiry: time.Duration(getEnvAsInt("JWT_ACCESS_TOKEN_EXPIRY", 3600)) * time.Second,
		},
		Sale: SaleConfig{
			TxTimeout:    time.Duration(getEnvAsInt("SALE_TX_TIMEOUT_SECONDS", 15)) * time.Second,
			MaxRetries:   getEnvAsInt("SALE_TX_MAX_RETRIES", 3),
			RetryBackoff: time.Duration(getEnvAsInt("SALE_TX_RETRY_BACKOFF_MS", 50)) * time.Millisecond,
		},
		Notify: NotifyConfig{
			Mode:         getEnv("NOTIFY_MODE", "dev"), // "dev" or "production"
			GatewayURL:   getEnv("NOTIFY_GATEWAY_URL", ""),
			APIKey:       getEnv("NOTIFY_API_KEY", ""),
			SendInterval: time.Duration(getEnvAsInt("NOTIFY_SEND_INTERVAL_MS", 200)) * time.Millisecond,
			QueueSize:    getEnvAsInt("NOTIFY_QUEUE_SIZE", 256),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization"}),
		},
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWT.Secret == "" && c.Server.Environment == "production" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	if c.Sale.MaxRetries < 0 {
		return fmt.Errorf("SALE_TX_MAX_RETRIES must not be negative")
	}
	if c.Sale.TxTimeout <= 0 {
		return fmt.Errorf("SALE_TX_TIMEOUT_SECONDS must be positive")
	}
	if c.Notify.Mode == "production" && c.Notify.GatewayURL == "" {
		return fmt.Errorf("NOTIFY_GATEWAY_URL is required when NOTIFY_MODE is production")
	}
	return nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

// getEnvAsSlice gets an environment variable as a comma-separated slice
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
