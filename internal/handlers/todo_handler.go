package handlers

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"todo-api/internal/identity"
	"todo-api/internal/models"
	"todo-api/internal/repositories"
	"todo-api/internal/services"
)

// TodoHandler はTodo関連のハンドラーを管理します。
type TodoHandler struct {
	todoService *services.TodoService
	log         *slog.Logger
}

// NewTodoHandler は新しいTodoHandlerを作成します。
func NewTodoHandler(todoService *services.TodoService, log *slog.Logger) *TodoHandler {
	return &TodoHandler{todoService: todoService, log: log}
}

// ListTodosHandler は呼び出し元のTodo一覧を返します。
func (h *TodoHandler) ListTodosHandler(c *gin.Context) {
	userID, ok := identity.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	todos, err := h.todoService.ListTodos(c.Request.Context(), userID)
	if err != nil {
		h.internalError(c, "list_todos_failed", err, "Failed to fetch todos", "user_id", userID)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": todos})
}

// CreateTodoHandler は新しいTodoを作成します。
func (h *TodoHandler) CreateTodoHandler(c *gin.Context) {
	userID, ok := identity.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Task is required and must be a string"})
		return
	}

	todo, err := h.todoService.CreateTodo(c.Request.Context(), userID, req.Task)
	if err != nil {
		if errors.Is(err, services.ErrInvalidTask) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Task is required and must be a string"})
			return
		}
		h.internalError(c, "create_todo_failed", err, "Failed to create todo", "user_id", userID)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "todo": todo})
}

// UpdateTodoHandler は自分のTodoの完了状態を更新します。
func (h *TodoHandler) UpdateTodoHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	userID, ok := identity.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	// ボディが空なら completed 未指定 (false) として扱う
	var req models.UpdateTodoRequest
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := binding.JSON.BindBody(raw, &req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}

	todo, err := h.todoService.SetCompleted(c.Request.Context(), userID, id, req.CompletedValue())
	if err != nil {
		if errors.Is(err, repositories.ErrTodoNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Todo not found or not authorized to update"})
			return
		}
		h.internalError(c, "update_todo_failed", err, "Failed to update todo", "user_id", userID, "todo_id", id)
		return
	}
	c.JSON(http.StatusOK, todo)
}

// DeleteTodoHandler は自分のTodoを削除します。
func (h *TodoHandler) DeleteTodoHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	userID, ok := identity.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	err = h.todoService.DeleteTodo(c.Request.Context(), userID, id)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Todo deleted successfully"})
	case errors.Is(err, repositories.ErrTodoNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Todo not found or not authorized to delete"})
	case errors.Is(err, services.ErrTodoVanished):
		h.log.Info("todo_deleted_concurrently", "user_id", userID, "todo_id", id)
		c.JSON(http.StatusNotFound, gin.H{"error": "Todo not found"})
	default:
		h.internalError(c, "delete_todo_failed", err, "Failed to delete todo", "user_id", userID, "todo_id", id)
	}
}

// internalError は詳細をログに残し、クライアントには一般的なメッセージだけを返します。
func (h *TodoHandler) internalError(c *gin.Context, event string, err error, message string, attrs ...any) {
	attrs = append(attrs, "request_id", c.GetString("request_id"), "error", err)
	h.log.Error(event, attrs...)
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}
