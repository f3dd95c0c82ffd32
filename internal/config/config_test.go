package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://lms@localhost/lms")
	t.Setenv("TESCO_DATABASE_URL", "")
	t.Setenv("ENV", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://lms@localhost/lms", cfg.TescoDatabaseURL)
	assert.Equal(t, 10, cfg.DBPoolSize)
	assert.Equal(t, 300*time.Second, cfg.CacheTTL)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, []string{"Student", "Manager", "Employee"}, cfg.AdminRoles)
	assert.True(t, cfg.MigrateOnStart)
	assert.False(t, cfg.IsProd())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://a")
	t.Setenv("TESCO_DATABASE_URL", "postgres://b")
	t.Setenv("DB_POOL_SIZE", "4")
	t.Setenv("CACHE_TTL", "1m")
	t.Setenv("DASHBOARD_WARM_INTERVAL", "0")
	t.Setenv("ADMIN_ROLES", "Manager, Admin")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://b", cfg.TescoDatabaseURL)
	assert.Equal(t, 4, cfg.DBPoolSize)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.Zero(t, cfg.WarmInterval)
	assert.Equal(t, []string{"Manager", "Admin"}, cfg.AdminRoles)
}

func TestLoad_BadValues(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://a")
	t.Setenv("DB_POOL_SIZE", "ten")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ProdRequiresSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://a")
	t.Setenv("ENV", "prod")
	t.Setenv("SESSION_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_MissingDatabaseURLPanics(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	assert.Panics(t, func() { _, _ = Load() })
}
