package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Development bool
	// API configuration
	APIPort int
	// Postgres configuration
	PostgresUser     string
	PostgresPassword string
	PostgresHost     string
	PostgresPort     int
	PostgresDB       string
	// Telegram configuration
	TelegramBotToken string
	// Position lookup configuration
	PositionsAPIURL string
	// Ingestion configuration
	ListenChannel string
	IngestWorkers int
	// Dispatch configuration
	SendTimeoutSeconds int
}

// LoadConfig loads the configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Development:        getEnvAsBool("DEVELOPMENT", false),
		PostgresUser:       getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword:   getEnv("POSTGRES_PASSWORD", "password"),
		PostgresHost:       getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:       getEnvAsInt("POSTGRES_PORT", 5432),
		PostgresDB:         getEnv("POSTGRES_DB", "silowatch"),
		TelegramBotToken:   getEnv("TELEGRAM_BOT_TOKEN", ""),
		PositionsAPIURL:    getEnv("POSITIONS_API_URL", ""),
		ListenChannel:      getEnv("LISTEN_CHANNEL", "account_health_factor_notification"),
		IngestWorkers:      getEnvAsInt("INGEST_WORKERS", 4),
		SendTimeoutSeconds: getEnvAsInt("SEND_TIMEOUT_SECONDS", 10),

		APIPort: getEnvAsInt("API_PORT", 6533),
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are properly set
func (c *Config) Validate() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	if c.PositionsAPIURL == "" {
		return fmt.Errorf("POSITIONS_API_URL is required")
	}

	if c.PostgresDB == "" {
		return fmt.Errorf("POSTGRES_DB is required")
	}

	if c.PostgresHost == "" {
		return fmt.Errorf("POSTGRES_HOST is required")
	}

	if c.IngestWorkers < 1 {
		return fmt.Errorf("INGEST_WORKERS must be at least 1")
	}

	if c.SendTimeoutSeconds < 1 {
		return fmt.Errorf("SEND_TIMEOUT_SECONDS must be at least 1")
	}

	return nil
}

// PostgresDSN builds the connection string used by both the gorm store and
// the LISTEN/NOTIFY ingest listener.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresPort)
}

// Helper functions to read environment variables
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsBool(name string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.ParseBool(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}
