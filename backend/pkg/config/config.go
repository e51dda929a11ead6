package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// devCookieSecret keeps local development working without a .env file.
// Production refuses to start with it.
const devCookieSecret = "dev-insecure-cookie-secret"

// Config holds all application configuration.
type Config struct {
	// App
	Port string
	Env  string

	// Neo4j
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string

	// Sessions
	CookieSecret string
	SetupToken   string
}

// Load reads configuration from environment variables. A .env file is
// loaded when present but is not required.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		Neo4jURI:      getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:     getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword: getEnv("NEO4J_PASSWORD", "password"),
		CookieSecret:  getEnv("COOKIE_SECRET", devCookieSecret),
		SetupToken:    getEnv("SETUP_TOKEN", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set.
func (c *Config) Validate() error {
	if c.Neo4jURI == "" {
		return fmt.Errorf("NEO4J_URI is required")
	}
	if c.Neo4jUser == "" {
		return fmt.Errorf("NEO4J_USER is required")
	}
	if c.Neo4jPassword == "" {
		return fmt.Errorf("NEO4J_PASSWORD is required")
	}
	if c.CookieSecret == "" {
		return fmt.Errorf("COOKIE_SECRET must not be empty")
	}
	if c.IsProduction() && c.CookieSecret == devCookieSecret {
		return fmt.Errorf("COOKIE_SECRET is required in production")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
