// Package config はアプリケーション設定を読み込みます。
// 優先順位: 環境変数 > TOMLファイル > デフォルト値
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config はアプリケーション全体の設定です。
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Auth     AuthConfig     `toml:"auth"`
	Log      LogConfig      `toml:"log"`
}

// ServerConfig はHTTPサーバーの設定です。
type ServerConfig struct {
	Addr            string        `toml:"addr"`
	AllowOrigins    []string      `toml:"allow_origins"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

// DatabaseConfig はデータベース接続の設定です。
type DatabaseConfig struct {
	Driver          string        `toml:"driver"` // "mysql" または "postgres"
	URL             string        `toml:"url"`    // 指定された場合は個別の項目より優先
	User            string        `toml:"user"`
	Pass            string        `toml:"pass"`
	Host            string        `toml:"host"`
	Port            string        `toml:"port"`
	Name            string        `toml:"name"`
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
	AutoMigrate     bool          `toml:"auto_migrate"`
}

// AuthConfig はアクセストークン検証の設定です。
type AuthConfig struct {
	JWTSecret string        `toml:"jwt_secret"`
	TokenTTL  time.Duration `toml:"token_ttl"`
}

// LogConfig はログ出力の設定です。
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" または "text"
}

// ErrMissingJWTSecret はJWT_SECRETが設定されていない場合のエラーです。
var ErrMissingJWTSecret = errors.New("JWT_SECRET is not set")

// Default はデフォルト値を持つConfigを返します。
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			AllowOrigins:    []string{"http://localhost:3000"},
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:          "mysql",
			Host:            "localhost",
			Port:            "3306",
			MaxOpenConns:    25,
			MaxIdleConns:    25,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load は .env、TOMLファイル、環境変数の順に設定を読み込みます。
// path が空の場合は CONFIG_FILE を参照し、それも空ならファイルは読みません。
func Load(path string) (Config, error) {
	// .env が無いのは正常 (本番では環境変数を直接渡す)
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate は必須項目と値の範囲を確認します。
func (c Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	switch c.Database.Driver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unsupported LOG_FORMAT %q", c.Log.Format)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Server.Addr, "SERVER_ADDR")
	if v := os.Getenv("CORS_ALLOW_ORIGINS"); v != "" {
		cfg.Server.AllowOrigins = splitList(v)
	}

	setString(&cfg.Database.Driver, "DB_DRIVER")
	setString(&cfg.Database.URL, "DB_URL")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Pass, "DB_PASS")
	setString(&cfg.Database.Host, "DB_HOST")
	setString(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.Name, "DB_NAME")

	setString(&cfg.Auth.JWTSecret, "JWT_SECRET")

	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.Format, "LOG_FORMAT")

	if err := setInt(&cfg.Database.MaxOpenConns, "DB_MAX_OPEN_CONNS"); err != nil {
		return err
	}
	if err := setInt(&cfg.Database.MaxIdleConns, "DB_MAX_IDLE_CONNS"); err != nil {
		return err
	}
	if err := setDuration(&cfg.Database.ConnMaxLifetime, "DB_CONN_MAX_LIFETIME"); err != nil {
		return err
	}
	if err := setBool(&cfg.Database.AutoMigrate, "DB_AUTO_MIGRATE"); err != nil {
		return err
	}
	if err := setDuration(&cfg.Server.ShutdownTimeout, "SHUTDOWN_TIMEOUT"); err != nil {
		return err
	}
	return setDuration(&cfg.Auth.TokenTTL, "JWT_TTL")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = b
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
