package database

import (
	"context"
	"database/sql"
	"fmt"
)

const mysqlTodosTable = `
	CREATE TABLE IF NOT EXISTS todos (
		id INT AUTO_INCREMENT PRIMARY KEY,
		user_id INT NOT NULL,
		task VARCHAR(255) NOT NULL,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_todos_user_id (user_id)
	);`

const postgresTodosTable = `
	CREATE TABLE IF NOT EXISTS todos (
		id SERIAL PRIMARY KEY,
		user_id INT NOT NULL,
		task VARCHAR(255) NOT NULL,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`

const postgresTodosIndex = `CREATE INDEX IF NOT EXISTS idx_todos_user_id ON todos (user_id);`

// EnsureSchema は todos テーブルが無ければ作成します。
// 本番のマイグレーションは別管理。開発環境とテスト用。
func EnsureSchema(ctx context.Context, db *sql.DB, dialect Dialect) error {
	stmts := []string{mysqlTodosTable}
	if dialect == Postgres {
		stmts = []string{postgresTodosTable, postgresTodosIndex}
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create todos table: %w", err)
		}
	}
	return nil
}
