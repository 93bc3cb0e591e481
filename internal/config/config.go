// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/Colourfuljobs/colourful-jobs-sub003/pkg/db"
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort string
	DB         db.Config

	// SyncWebhookURL, when set, enables webhook delivery of vacancy sync
	// events. NATSURL takes precedence when both are configured.
	SyncWebhookURL string
	NATSURL        string

	// RedisAddr, when set, backs idempotency keys with Redis instead of
	// process-local memory.
	RedisAddr string
}

// LoadConfig loads configuration from the environment, reading a .env file
// first when one is present. It returns an AppConfig instance or an error if
// any variable is invalid.
func LoadConfig() (*AppConfig, error) {
	// A missing .env file is not an error; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	serverPort := envOr("SERVER_PORT", "8080")

	dbPortStr := envOr("DB_PORT", "5432")
	dbPort, err := strconv.Atoi(dbPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	return &AppConfig{
		ServerPort: serverPort,
		DB: db.Config{
			Host:     envOr("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     envOr("DB_USER", "user"),
			Password: envOr("DB_PASSWORD", "password"),
			DBName:   envOr("DB_NAME", "portaldb"),
			SSLMode:  envOr("DB_SSLMODE", "disable"),
		},
		SyncWebhookURL: os.Getenv("SYNC_WEBHOOK_URL"),
		NATSURL:        os.Getenv("NATS_URL"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
	}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
