//go:build integration

package integration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotes-api/internal/platform/config"
)

// writeFile creates path under dir with the given content.
func writeFile(t *testing.T, dir, path, content string) {
	t.Helper()

	full := filepath.Join(dir, path)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o600))
}

// TestConfig_Layering verifies the full precedence chain the service
// starts with: defaults, base file, profile file, APP_ env, DATABASE_URL.
func TestConfig_Layering(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, dir, "configs/base.yaml", `
server:
  port: 9000
  request_timeout: 10s
database:
  url: sqlite:///base.db
auth:
  api_key: FromBase
`)
	writeFile(t, dir, "configs/qa.yaml", `
log:
  level: warn
database:
  max_open_conns: 3
`)

	t.Chdir(dir)
	t.Setenv("APP_SERVER_PORT", "9100")
	t.Setenv(config.DatabaseURLEnv, "postgres://quotes:quotes@db:5432/quotes")

	cfg, err := config.Load("qa")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 3, cfg.Database.MaxOpenConns)
	assert.Equal(t, "postgres://quotes:quotes@db:5432/quotes", cfg.Database.URL)
	assert.Equal(t, "FromBase", cfg.Auth.APIKey)
}

// TestConfig_DotEnv verifies DATABASE_URL can come from a .env file and
// that a real environment variable still wins.
func TestConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "DATABASE_URL=sqlite:///from-dotenv.db\n")
	t.Chdir(dir)

	t.Run("dotenv fills an unset variable", func(t *testing.T) {
		t.Setenv(config.DatabaseURLEnv, "")
		require.NoError(t, os.Unsetenv(config.DatabaseURLEnv))

		require.NoError(t, godotenv.Load())

		cfg, err := config.Load("")
		require.NoError(t, err)
		assert.Equal(t, "sqlite:///from-dotenv.db", cfg.Database.URL)
	})

	t.Run("environment beats dotenv", func(t *testing.T) {
		t.Setenv(config.DatabaseURLEnv, "sqlite:///from-env.db")

		require.NoError(t, godotenv.Load())

		cfg, err := config.Load("")
		require.NoError(t, err)
		assert.Equal(t, "sqlite:///from-env.db", cfg.Database.URL)
	})
}

// TestConfig_InvalidConfiguration verifies the service refuses to start on
// settings it cannot honor.
func TestConfig_InvalidConfiguration(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unsupported database", map[string]string{config.DatabaseURLEnv: "mysql://localhost/quotes"}},
		{"port out of range", map[string]string{"APP_SERVER_PORT": "70000"}},
		{"unknown log format", map[string]string{"APP_LOG_FORMAT": "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())

			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := config.Load("")
			require.NoError(t, err)
			assert.Error(t, cfg.Validate())
		})
	}
}
