package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/ticketing?sslmode=disable")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, "info", cfg.Server.LogLevel)

	assert.Equal(t, 15*time.Second, cfg.Sale.TxTimeout)
	assert.Equal(t, 3, cfg.Sale.MaxRetries)
	assert.Equal(t, 50*time.Millisecond, cfg.Sale.RetryBackoff)

	assert.Equal(t, "dev", cfg.Notify.Mode)
	assert.Equal(t, 200*time.Millisecond, cfg.Notify.SendInterval)
	assert.Equal(t, 256, cfg.Notify.QueueSize)

	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/ticketing?sslmode=disable")
	t.Setenv("PORT", "9090")
	t.Setenv("SALE_TX_TIMEOUT_SECONDS", "5")
	t.Setenv("SALE_TX_MAX_RETRIES", "1")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Sale.TxTimeout)
	assert.Equal(t, 1, cfg.Sale.MaxRetries)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestLoadInvalidIntFallsBack(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/ticketing?sslmode=disable")
	t.Setenv("SALE_TX_MAX_RETRIES", "many")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Sale.MaxRetries)
}

func TestValidate(t *testing.T) {
	t.Run("Missing Database URL", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DATABASE_URL")
	})

	t.Run("Production Requires JWT Secret", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost:5432/ticketing")
		t.Setenv("ENVIRONMENT", "production")
		t.Setenv("JWT_SECRET", "")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET")
	})

	t.Run("Production Notify Requires Gateway URL", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost:5432/ticketing")
		t.Setenv("NOTIFY_MODE", "production")
		t.Setenv("NOTIFY_GATEWAY_URL", "")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "NOTIFY_GATEWAY_URL")
	})

	t.Run("Negative Retries Rejected", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost:5432/ticketing")
		t.Setenv("SALE_TX_MAX_RETRIES", "-1")
		_, err := Load()
		require.Error(t, err)
	})

	t.Run("Zero Timeout Rejected", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost:5432/ticketing")
		t.Setenv("SALE_TX_TIMEOUT_SECONDS", "0")
		_, err := Load()
		require.Error(t, err)
	})
}
