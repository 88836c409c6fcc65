package bookshelf

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr())
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, time.Second, cfg.QueryTimeout)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Empty(t, cfg.AuthSigningSecret)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/books")
	t.Setenv("QUERY_TIMEOUT", "250ms")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.ListenAddr())
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, 250*time.Millisecond, cfg.QueryTimeout)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mssql")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mssql")
}

func TestLoadConfigParseError(t *testing.T) {
	t.Setenv("QUERY_TIMEOUT", "soon")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestListenAddrWithoutHost(t *testing.T) {
	cfg := Config{Addr: ":8080", Port: "3000"}

	assert.Equal(t, ":3000", cfg.ListenAddr())
}
