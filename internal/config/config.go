// Package config loads service configuration from the environment, with
// optional .env file support for local development.
package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs to run.
type Config struct {
	// Port is the HTTP listen port.
	Port int

	// DBPath is the SQLite database file path.
	DBPath string

	// JWTSecret signs session tokens. Required.
	JWTSecret string

	// TokenDuration is how long session tokens remain valid.
	TokenDuration time.Duration

	// CryptoPayToken authenticates against the Crypto Pay API.
	// Empty disables crypto settlement invoices/transfers.
	CryptoPayToken string

	// TelegramBotToken authenticates against the Telegram Bot API.
	// Empty disables settle notifications.
	TelegramBotToken string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if present, matching how the service is run in
// development; real deployments set the variables directly.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	cfg := &Config{
		Port:             getEnvInt("PORT", 8080),
		DBPath:           getEnv("DB_PATH", "./data/splitton.db"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		TokenDuration:    getEnvDuration("TOKEN_DURATION", 24*time.Hour),
		CryptoPayToken:   os.Getenv("CRYPTO_PAY_API_TOKEN"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("Invalid integer in environment, using fallback", "key", key, "value", value)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		slog.Warn("Invalid duration in environment, using fallback", "key", key, "value", value)
		return fallback
	}
	return d
}
