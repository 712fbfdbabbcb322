package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{"PORT", "APP_ENV", "DATABASE_URL", "LOG_LEVEL", "MAX_PAGE_SIZE", "MAX_UPLOAD_BYTES", "AUTO_MIGRATE"}

// clearEnv blanks every variable Load reads; t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 100, cfg.MaxPageSize)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.True(t, cfg.AutoMigrate)
	assert.NotEmpty(t, cfg.DatabaseURL)
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	for _, k := range keys {
		// godotenv does not override variables that are already set
		require.NoError(t, os.Unsetenv(k))
	}

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=9090\nAPP_ENV=production\nDATABASE_URL=sqlite://catalog.db\nAUTO_MIGRATE=false\nMAX_PAGE_SIZE=25\n"), 0o600))
	t.Cleanup(func() {
		for _, k := range keys {
			_ = os.Unsetenv(k)
		}
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "sqlite://catalog.db", cfg.DatabaseURL)
	assert.False(t, cfg.AutoMigrate)
	assert.Equal(t, 25, cfg.MaxPageSize)
}

func TestLoadInvalid(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		value string
	}{
		{"Port not a number", "PORT", "http"},
		{"Port out of range", "PORT", "70000"},
		{"Page size zero", "MAX_PAGE_SIZE", "0"},
		{"Upload limit negative", "MAX_UPLOAD_BYTES", "-1"},
		{"Migrate not a bool", "AUTO_MIGRATE", "sometimes"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, tc.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
