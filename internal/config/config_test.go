package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "fiber", cfg.ServerFramework)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "postgres", cfg.StorageDriver)
	assert.Equal(t, "log", cfg.NotificationDriver)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiration)
	assert.Equal(t, 1, cfg.AlertWindowDays)
	assert.Equal(t, 30, cfg.AverageWindowDays)
	assert.Equal(t, []string{"*"}, cfg.CorsAllowedOrigins)
	assert.False(t, cfg.RedisRequired())
	assert.False(t, cfg.BootstrapAdmin())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SERVER_FRAMEWORK", "GIN")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("NOTIFICATION_DRIVER", "redis")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("USER_CACHE_ENABLED", "true")
	t.Setenv("JWT_EXPIRATION", "2h")
	t.Setenv("ADMIN_EMAIL", " Ops@Example.com ")
	t.Setenv("ADMIN_PASSWORD", "s3cret-pass")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "gin", cfg.ServerFramework)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "memory", cfg.StorageDriver)
	assert.Equal(t, "redis", cfg.NotificationDriver)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CorsAllowedOrigins)
	assert.True(t, cfg.UserCacheEnabled)
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiration)
	assert.True(t, cfg.RedisRequired())
	assert.Equal(t, "ops@example.com", cfg.AdminEmail)
	assert.True(t, cfg.BootstrapAdmin())
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SERVER_FRAMEWORK", "echo")
	t.Setenv("APP_ENV", "qa")
	t.Setenv("STORAGE_DRIVER", "mongo")
	t.Setenv("NOTIFICATION_DRIVER", "rabbit")
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("SERVER_READ_TIMEOUT", "soon")
	t.Setenv("ALERT_WINDOW_DAYS", "0")
	t.Setenv("USER_CACHE_ENABLED", "maybe")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "fiber", cfg.ServerFramework)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "postgres", cfg.StorageDriver)
	assert.Equal(t, "log", cfg.NotificationDriver)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 15*time.Second, cfg.ServerReadTimeout)
	assert.Equal(t, 1, cfg.AlertWindowDays)
	assert.False(t, cfg.UserCacheEnabled)
}

func TestLoadConfig_EnvFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	envPath := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envPath, []byte("APP_NAME=From File\nAVERAGE_WINDOW_DAYS=7\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("APP_NAME")
		os.Unsetenv("AVERAGE_WINDOW_DAYS")
	})

	cfg, err := LoadConfig(envPath)
	require.NoError(t, err)

	assert.Equal(t, "From File", cfg.AppName)
	assert.Equal(t, 7, cfg.AverageWindowDays)
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
