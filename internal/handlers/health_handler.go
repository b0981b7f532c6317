// Package handlers はHTTPリクエストを処理します。
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger はデータベースの疎通確認を行います。
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler はヘルスチェックを扱います。
type HealthHandler struct {
	db  Pinger
	log *slog.Logger
}

// NewHealthHandler は新しいHealthHandlerを作成します。
func NewHealthHandler(db Pinger, log *slog.Logger) *HealthHandler {
	return &HealthHandler{db: db, log: log}
}

// HealthHandler はデータベース接続の健全性を確認します。
func (h *HealthHandler) HealthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.log.Error("db_ping_failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "Database connection failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
