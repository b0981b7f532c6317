package services

import (
	"context"
	"errors"

	"todo-api/internal/models"
	"todo-api/internal/repositories"
)

var (
	// ErrInvalidTask はタスク本文が空の場合のエラーです。
	ErrInvalidTask = errors.New("task is required")

	// ErrTodoVanished は所有確認の後、削除までの間に行が消えた場合のエラーです。
	ErrTodoVanished = errors.New("todo disappeared before delete")
)

// TodoStore はTodoServiceが必要とする永続化の操作です。
// 該当行が無い場合は repositories.ErrTodoNotFound を返すこと。
type TodoStore interface {
	FindByUserID(ctx context.Context, userID int) ([]*models.Todo, error)
	FindOwned(ctx context.Context, id, userID int) (*models.Todo, error)
	Create(ctx context.Context, t *models.Todo) (*models.Todo, error)
	UpdateCompleted(ctx context.Context, id, userID int, completed bool) (*models.Todo, error)
	Delete(ctx context.Context, id int) error
}

// TodoService はTodo関連のビジネスロジックを扱います。
// 呼び出し元のユーザーIDは常に引数で受け取ります。
type TodoService struct {
	todoStore TodoStore
}

// NewTodoService は新しいTodoServiceを作成します。
func NewTodoService(todoStore TodoStore) *TodoService {
	return &TodoService{todoStore: todoStore}
}

// ListTodos はユーザーのTodoを作成順で取得します。
func (s *TodoService) ListTodos(ctx context.Context, userID int) ([]*models.Todo, error) {
	return s.todoStore.FindByUserID(ctx, userID)
}

// CreateTodo は未完了のTodoを作成します。
func (s *TodoService) CreateTodo(ctx context.Context, userID int, task string) (*models.Todo, error) {
	if task == "" {
		return nil, ErrInvalidTask
	}
	return s.todoStore.Create(ctx, &models.Todo{
		Task:      task,
		Completed: false,
		UserID:    userID,
	})
}

// SetCompleted は自分のTodoの完了状態を更新します。
// 該当なし・他人のTodoはどちらも repositories.ErrTodoNotFound になります。
func (s *TodoService) SetCompleted(ctx context.Context, userID, id int, completed bool) (*models.Todo, error) {
	return s.todoStore.UpdateCompleted(ctx, id, userID, completed)
}

// DeleteTodo は自分のTodoを削除します。
//
// 所有確認(FindOwned)と削除(Delete)は別の文で、トランザクションで囲みません。
// 間に別リクエストが同じ行を削除した場合は ErrTodoVanished を返します。
// 結果は「既に無い」なので許容しています。
func (s *TodoService) DeleteTodo(ctx context.Context, userID, id int) error {
	if _, err := s.todoStore.FindOwned(ctx, id, userID); err != nil {
		return err
	}
	if err := s.todoStore.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTodoNotFound) {
			return ErrTodoVanished
		}
		return err
	}
	return nil
}
