package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Not parallel: Load reads process environment.
func TestLoad(t *testing.T) {
	t.Run("defaults with required secrets set", func(t *testing.T) {
		t.Setenv("BREVIO_AUTH_JWT_SECRET", "0123456789abcdef0123456789abcdef")
		t.Setenv("BREVIO_AUTH_FIRST_ADMIN_PASSWORD", "admin-password")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, "info", cfg.Server.LogLevel)
		assert.Equal(t, 2, cfg.Worker.Count)
		assert.Equal(t, 3, cfg.Worker.MaxRetries)
		assert.Equal(t, 600, cfg.Worker.RetryMaxDelaySeconds)
		assert.Equal(t, 300, cfg.Worker.SoftTimeLimitSeconds)
		assert.Equal(t, 600, cfg.Worker.HardTimeLimitSeconds)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("BREVIO_AUTH_JWT_SECRET", "0123456789abcdef0123456789abcdef")
		t.Setenv("BREVIO_AUTH_FIRST_ADMIN_PASSWORD", "admin-password")
		t.Setenv("BREVIO_SERVER_PORT", "9000")
		t.Setenv("BREVIO_WORKER_MAX_RETRIES", "5")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 9000, cfg.Server.Port)
		assert.Equal(t, 5, cfg.Worker.MaxRetries)
	})

	t.Run("missing jwt secret fails validation", func(t *testing.T) {
		t.Setenv("BREVIO_AUTH_JWT_SECRET", "")
		t.Setenv("BREVIO_AUTH_FIRST_ADMIN_PASSWORD", "admin-password")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("short jwt secret fails validation", func(t *testing.T) {
		t.Setenv("BREVIO_AUTH_JWT_SECRET", "too-short")
		t.Setenv("BREVIO_AUTH_FIRST_ADMIN_PASSWORD", "admin-password")

		_, err := Load()
		assert.Error(t, err)
	})
}
