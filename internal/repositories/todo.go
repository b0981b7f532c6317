// Package repositories はデータベース操作を行うリポジトリを提供します。
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"todo-api/internal/database"
	"todo-api/internal/models"
)

// ErrTodoNotFound は条件に一致するTODOが無い場合のエラーです。
// 「存在しない」と「他人のもの」を区別しません。
var ErrTodoNotFound = errors.New("todo not found")

// TodoRepository はtodosテーブルを操作します。
type TodoRepository struct {
	DB      *sql.DB
	Dialect database.Dialect
}

// NewTodoRepository は新しいTodoRepositoryを作成します。
func NewTodoRepository(db *sql.DB, dialect database.Dialect) *TodoRepository {
	return &TodoRepository{DB: db, Dialect: dialect}
}

// FindByUserID はユーザーのTODOを作成順で取得します。
func (r *TodoRepository) FindByUserID(ctx context.Context, userID int) ([]*models.Todo, error) {
	query := r.Dialect.Rebind("SELECT id, task, completed, user_id FROM todos WHERE user_id = ? ORDER BY id ASC")

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("could not query todos: %w", err)
	}
	defer rows.Close()

	todos := make([]*models.Todo, 0)
	for rows.Next() {
		var t models.Todo
		if err := rows.Scan(&t.ID, &t.Task, &t.Completed, &t.UserID); err != nil {
			return nil, fmt.Errorf("could not scan todo: %w", err)
		}
		todos = append(todos, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating todos: %w", err)
	}
	return todos, nil
}

// FindOwned はIDと所有者の両方に一致するTODOを取得します。
func (r *TodoRepository) FindOwned(ctx context.Context, id, userID int) (*models.Todo, error) {
	query := r.Dialect.Rebind("SELECT id, task, completed, user_id FROM todos WHERE id = ? AND user_id = ?")

	var t models.Todo
	err := r.DB.QueryRowContext(ctx, query, id, userID).Scan(&t.ID, &t.Task, &t.Completed, &t.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("could not query todo: %w", err)
	}
	return &t, nil
}

// Create は新しいTODOを挿入し、採番されたIDをセットして返します。
func (r *TodoRepository) Create(ctx context.Context, t *models.Todo) (*models.Todo, error) {
	query := "INSERT INTO todos (task, completed, user_id) VALUES (?, ?, ?)"

	// pgx は LastInsertId をサポートしないため RETURNING を使う
	if r.Dialect == database.Postgres {
		var id int
		err := r.DB.QueryRowContext(ctx, r.Dialect.Rebind(query+" RETURNING id"), t.Task, t.Completed, t.UserID).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("could not insert todo: %w", err)
		}
		t.ID = id
		return t, nil
	}

	result, err := r.DB.ExecContext(ctx, query, t.Task, t.Completed, t.UserID)
	if err != nil {
		return nil, fmt.Errorf("could not insert todo: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("could not get last insert ID: %w", err)
	}
	t.ID = int(id)
	return t, nil
}

// UpdateCompleted はIDと所有者の両方に一致するTODOの完了状態を更新します。
// 所有者の確認は別のSELECTではなくWHERE句で行います。
func (r *TodoRepository) UpdateCompleted(ctx context.Context, id, userID int, completed bool) (*models.Todo, error) {
	query := r.Dialect.Rebind("UPDATE todos SET completed = ? WHERE id = ? AND user_id = ?")

	result, err := r.DB.ExecContext(ctx, query, completed, id, userID)
	if err != nil {
		return nil, fmt.Errorf("could not update todo: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("could not get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrTodoNotFound
	}

	return r.FindOwned(ctx, id, userID)
}

// Delete は指定IDのTODOを削除します。所有者の確認は呼び出し側で行います。
func (r *TodoRepository) Delete(ctx context.Context, id int) error {
	query := r.Dialect.Rebind("DELETE FROM todos WHERE id = ?")

	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("could not delete todo: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrTodoNotFound
	}
	return nil
}

// Ping はデータベースの疎通を確認します。
func (r *TodoRepository) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}
