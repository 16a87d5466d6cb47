package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("GO_ENV", "production")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("EXPIRY_SWEEP_INTERVAL", "5m")
	t.Setenv("EXPIRING_SOON_DAYS", "14")
	t.Setenv("ADMIN_RATE_PER_SEC", "2.5")
	t.Setenv("ADMIN_RATE_BURST", "4")
	t.Setenv("IDEMPOTENCY_TTL", "2h")
	t.Setenv("OTEL_ENABLED", "true")

	cfg := Load()

	assert.Equal(t, "8080", cfg.App.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "memory", cfg.App.StorageDriver)
	assert.Equal(t, 5*time.Minute, cfg.Ledger.ExpirySweepInterval)
	assert.Equal(t, 14, cfg.Ledger.ExpiringSoonDays)
	assert.Equal(t, 2.5, cfg.RateLimit.AdminPerSecond)
	assert.Equal(t, 4, cfg.RateLimit.AdminBurst)
	assert.Equal(t, 2*time.Hour, cfg.Idempotency.TTL)
	assert.True(t, cfg.Tracing.Enabled)
}

func TestLoadFallsBackOnInvalidValues(t *testing.T) {
	t.Setenv("GO_ENV", "development")
	t.Setenv("EXPIRY_SWEEP_INTERVAL", "soon")
	t.Setenv("EXPIRING_SOON_DAYS", "a week")
	t.Setenv("ADMIN_RATE_PER_SEC", "")
	t.Setenv("ADMIN_RATE_BURST", "-")
	t.Setenv("IDEMPOTENCY_TTL", "-1h")
	t.Setenv("OTEL_ENABLED", "maybe")

	cfg := Load()

	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 15*time.Minute, cfg.Ledger.ExpirySweepInterval)
	assert.Equal(t, 7, cfg.Ledger.ExpiringSoonDays)
	assert.Equal(t, 5.0, cfg.RateLimit.AdminPerSecond)
	assert.Equal(t, 10, cfg.RateLimit.AdminBurst)
	assert.Equal(t, 24*time.Hour, cfg.Idempotency.TTL)
	assert.False(t, cfg.Tracing.Enabled)
}
