package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsCookieSecret(t *testing.T) {
	t.Setenv("COOKIE_SECRET", "")
	t.Setenv("ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, devCookieSecret, cfg.CookieSecret)
}

func TestValidateRejectsDevSecretInProduction(t *testing.T) {
	cfg := &Config{
		Env:           "production",
		Neo4jURI:      "bolt://localhost:7687",
		Neo4jUser:     "neo4j",
		Neo4jPassword: "password",
		CookieSecret:  devCookieSecret,
	}
	assert.Error(t, cfg.Validate())

	cfg.CookieSecret = ""
	assert.Error(t, cfg.Validate())

	cfg.CookieSecret = "a-real-secret"
	assert.NoError(t, cfg.Validate())
}
