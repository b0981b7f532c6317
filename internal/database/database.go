// Package database はデータベース接続とSQL方言を扱います。
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib" // "pgx" ドライバを登録

	"todo-api/internal/config"
)

// Dialect はドライバごとのSQLの違いを表します。
type Dialect string

const (
	MySQL    Dialect = "mysql"
	Postgres Dialect = "postgres"
)

// DriverName は sql.Open に渡すドライバ名を返します。
func (d Dialect) DriverName() string {
	if d == Postgres {
		return "pgx"
	}
	return "mysql"
}

// Rebind は "?" プレースホルダをPostgreSQLの "$n" 形式に置き換えます。
// クエリ内の文字列リテラルに "?" を含めないこと。
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// DSN は設定から接続文字列を構築します。
func DSN(cfg config.DatabaseConfig) string {
	if cfg.URL != "" {
		return cfg.URL
	}
	if Dialect(cfg.Driver) == Postgres {
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(cfg.User, cfg.Pass),
			Host:     net.JoinHostPort(cfg.Host, cfg.Port),
			Path:     "/" + cfg.Name,
			RawQuery: "sslmode=disable",
		}
		return u.String()
	}

	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Pass
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, cfg.Port)
	mc.DBName = cfg.Name
	mc.ParseTime = true
	// 値が変わらないUPDATEでも一致した行数を返させる (0件 = 該当なし と判定するため)
	mc.ClientFoundRows = true
	return mc.FormatDSN()
}

// Open はデータベース接続を開き、疎通を確認します。
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, Dialect, error) {
	dialect := Dialect(cfg.Driver)

	db, err := sql.Open(dialect.DriverName(), DSN(cfg))
	if err != nil {
		return nil, "", fmt.Errorf("open database connection: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, "", fmt.Errorf("ping database: %w", err)
	}
	return db, dialect, nil
}
