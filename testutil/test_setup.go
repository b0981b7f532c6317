// Package testutil はハンドラー・リポジトリのテストで共有するヘルパーです。
package testutil

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"

	"todo-api/internal/config"
	"todo-api/internal/database"
	"todo-api/internal/logger"
	"todo-api/internal/routes"
	"todo-api/internal/services"
)

// TestJWTSecret はテスト用の署名鍵です。
const TestJWTSecret = "test-secret"

// NewTestRouter はstoreを使うGinルーターとトークン発行用のJWTServiceを返します。
func NewTestRouter(t *testing.T, store *MemoryStore) (*gin.Engine, *services.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService := services.NewJWTService(TestJWTSecret, time.Hour)
	r := routes.SetupRouter(routes.Dependencies{
		TodoStore:    store,
		DB:           store,
		JWTService:   jwtService,
		Logger:       logger.Discard(),
		AllowOrigins: []string{"http://localhost:3000"},
	})
	return r, jwtService
}

// Token はuserID用のアクセストークンを発行します。
func Token(t *testing.T, jwtService *services.JWTService, userID int) string {
	t.Helper()
	token, err := jwtService.GenerateToken(userID)
	require.NoError(t, err)
	return token
}

// DoRequest はルーターにリクエストを送ります。token や body が空なら付けません。
func DoRequest(t *testing.T, r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// OpenTestDB はTEST_DB_* 環境変数で指定されたデータベースに接続し、
// todosテーブルを空の状態で用意します。未設定ならテストをスキップします。
func OpenTestDB(t *testing.T) (*sql.DB, database.Dialect) {
	t.Helper()
	_ = godotenv.Load("../../.env")

	cfg := config.DatabaseConfig{
		Driver:          os.Getenv("TEST_DB_DRIVER"),
		URL:             os.Getenv("TEST_DB_URL"),
		User:            os.Getenv("TEST_DB_USER"),
		Pass:            os.Getenv("TEST_DB_PASS"),
		Host:            os.Getenv("TEST_DB_HOST"),
		Port:            os.Getenv("TEST_DB_PORT"),
		Name:            os.Getenv("TEST_DB_NAME"),
		MaxOpenConns:    5,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Minute,
	}
	if cfg.Driver == "" {
		cfg.Driver = string(database.MySQL)
	}
	if cfg.URL == "" && (cfg.Host == "" || cfg.Name == "") {
		t.Skip("TEST_DB_* is not set; skipping database test")
	}

	ctx := context.Background()
	db, dialect, err := database.Open(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.EnsureSchema(ctx, db, dialect))
	_, err = db.ExecContext(ctx, "DELETE FROM todos")
	require.NoError(t, err)
	return db, dialect
}
