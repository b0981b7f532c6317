package testutil

import (
	"context"
	"sort"
	"sync"

	"todo-api/internal/models"
	"todo-api/internal/repositories"
	"todo-api/internal/services"
)

var _ services.TodoStore = (*MemoryStore)(nil)

// MemoryStore はメモリ上のTodoStoreです。TodoRepositoryと同じエラーを返します。
type MemoryStore struct {
	mu     sync.Mutex
	nextID int
	todos  map[int]models.Todo

	// Err が設定されていると全操作がそのエラーを返します。
	Err error
	// BeforeDelete は Delete の直前に呼ばれます (同時削除の再現用)。
	BeforeDelete func()
	// Calls は呼ばれた操作の回数です。
	Calls int
}

// NewMemoryStore は空のMemoryStoreを作成します。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1, todos: make(map[int]models.Todo)}
}

// Seed はテストデータを直接挿入します。Callsには数えません。
func (s *MemoryStore) Seed(task string, completed bool, userID int) models.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := models.Todo{ID: s.nextID, Task: task, Completed: completed, UserID: userID}
	s.todos[t.ID] = t
	s.nextID++
	return t
}

// Get はIDで行を取得します。所有者は確認しません。
func (s *MemoryStore) Get(id int) (models.Todo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.todos[id]
	return t, ok
}

// Len は保存されている行数を返します。
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.todos)
}

// Remove は行を直接削除します。
func (s *MemoryStore) Remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.todos, id)
}

func (s *MemoryStore) FindByUserID(_ context.Context, userID int) ([]*models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	if s.Err != nil {
		return nil, s.Err
	}
	todos := make([]*models.Todo, 0)
	for _, t := range s.todos {
		if t.UserID == userID {
			t := t
			todos = append(todos, &t)
		}
	}
	sort.Slice(todos, func(i, j int) bool { return todos[i].ID < todos[j].ID })
	return todos, nil
}

func (s *MemoryStore) FindOwned(_ context.Context, id, userID int) (*models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	if s.Err != nil {
		return nil, s.Err
	}
	t, ok := s.todos[id]
	if !ok || t.UserID != userID {
		return nil, repositories.ErrTodoNotFound
	}
	return &t, nil
}

func (s *MemoryStore) Create(_ context.Context, t *models.Todo) (*models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	if s.Err != nil {
		return nil, s.Err
	}
	t.ID = s.nextID
	s.nextID++
	s.todos[t.ID] = *t
	return t, nil
}

func (s *MemoryStore) UpdateCompleted(_ context.Context, id, userID int, completed bool) (*models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	if s.Err != nil {
		return nil, s.Err
	}
	t, ok := s.todos[id]
	if !ok || t.UserID != userID {
		return nil, repositories.ErrTodoNotFound
	}
	t.Completed = completed
	s.todos[id] = t
	return &t, nil
}

func (s *MemoryStore) Delete(_ context.Context, id int) error {
	if s.BeforeDelete != nil {
		s.BeforeDelete()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.todos[id]; !ok {
		return repositories.ErrTodoNotFound
	}
	delete(s.todos, id)
	return nil
}

// Ping は Err が設定されていればそれを返します。
func (s *MemoryStore) Ping(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Err
}
