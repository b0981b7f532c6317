package routes

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"todo-api/internal/identity"
	"todo-api/internal/services"
)

// RequestIDHeader はリクエストIDを受け渡すヘッダーです。
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// maxRequestIDLen を超えるクライアント指定のIDは使いません。
const maxRequestIDLen = 128

// AuthMiddleware はJWTトークンを検証し、ユーザーIDをコンテキストに設定するミドルウェアです。
func AuthMiddleware(jwtService *services.JWTService, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}
		// "Bearer " プレフィックスを削除
		if !strings.HasPrefix(tokenString, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			return
		}
		tokenString = tokenString[len("Bearer "):]

		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			log.Debug("token_rejected", "request_id", c.GetString(requestIDKey), "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		identity.Set(c, claims.UserID)
		c.Next()
	}
}

// RequestID はリクエストIDを発行し、レスポンスヘッダーに返します。
// クライアントが送ってきた値が validRequestID を満たせばそれを使います。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if !validRequestID(id) {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// validRequestID は英数字と "-_.:" のみからなる maxRequestIDLen 文字以内のIDを受け付けます。
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.', r == ':':
		default:
			return false
		}
	}
	return true
}

// RequestLogger はリクエストの完了をslogで記録します。
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"ip", c.ClientIP(),
			"duration", time.Since(start).String(),
			"request_id", c.GetString(requestIDKey),
		}
		if userID, ok := identity.UserID(c); ok {
			attrs = append(attrs, "user_id", userID)
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			log.Error("http_request", attrs...)
			return
		}
		log.Info("http_request", attrs...)
	}
}
