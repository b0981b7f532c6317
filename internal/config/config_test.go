package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv はテスト実行環境の変数が結果に混ざらないようにします。
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "SERVER_ADDR", "CORS_ALLOW_ORIGINS", "SHUTDOWN_TIMEOUT",
		"DB_DRIVER", "DB_URL", "DB_USER", "DB_PASS", "DB_HOST", "DB_PORT", "DB_NAME",
		"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME", "DB_AUTO_MIGRATE",
		"JWT_SECRET", "JWT_TTL", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowOrigins)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.False(t, cfg.Database.AutoMigrate)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "todo.toml")
	content := `
[server]
addr = ":9090"
allow_origins = ["https://todo.example.com"]
shutdown_timeout = "3s"

[database]
driver = "postgres"
url = "postgres://todo:todo@db:5432/todo?sslmode=disable"
max_open_conns = 10
auto_migrate = true

[auth]
jwt_secret = "from-file"

[log]
level = "debug"
format = "text"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("SERVER_ADDR", ":7070")
	t.Setenv("DB_MAX_OPEN_CONNS", "40")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr, "env should override the file")
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowOrigins)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://todo:todo@db:5432/todo?sslmode=disable", cfg.Database.URL)
	assert.Equal(t, 40, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, "from-file", cfg.Auth.JWTSecret)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_MissingSecret(t *testing.T) {
	clearEnv(t)

	_, err := Load("")
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"non numeric conns", "DB_MAX_OPEN_CONNS", "many"},
		{"bad duration", "DB_CONN_MAX_LIFETIME", "forever"},
		{"bad bool", "DB_AUTO_MIGRATE", "sometimes"},
		{"unknown driver", "DB_DRIVER", "sqlite"},
		{"unknown log format", "LOG_FORMAT", "xml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("JWT_SECRET", "secret")
			t.Setenv(tt.key, tt.val)

			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "secret")

	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
