package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration.
type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	TokenSecret         string
	TokenExpires        time.Duration
	RefreshTokenExpires time.Duration

	// PageLimit is the default list page size; 0 means unbounded.
	PageLimit int
}

// Load reads configuration from environment variables, with local-dev
// defaults.
func Load() (*Config, error) {
	limitStr := getEnv("PAGE_LIMIT", "10")
	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PAGE_LIMIT: %w", err)
	}

	tokenExpires, err := time.ParseDuration(getEnv("TOKEN_EXPIRES", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_EXPIRES: %w", err)
	}
	refreshExpires, err := time.ParseDuration(getEnv("REFRESH_TOKEN_EXPIRES", "168h"))
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_TOKEN_EXPIRES: %w", err)
	}

	return &Config{
		Port:                getEnv("PORT", "8080"),
		DBHost:              getEnv("DB_HOST", "localhost"),
		DBPort:              getEnv("DB_PORT", "5432"),
		DBUser:              getEnv("DB_USER", "postgres"),
		DBPassword:          getEnv("DB_PASSWORD", "postgres"),
		DBName:              getEnv("DB_NAME", "reviews"),
		DBSSLMode:           getEnv("DB_SSLMODE", "disable"),
		TokenSecret:         getEnv("TOKEN_SECRET", ""),
		TokenExpires:        tokenExpires,
		RefreshTokenExpires: refreshExpires,
		PageLimit:           limit,
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
