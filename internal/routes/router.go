// Package routesはroutingを行います。
package routes

import (
	"log/slog"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"todo-api/internal/handlers"
	"todo-api/internal/services"
)

// Dependencies はルーターの構築に必要な部品です。
type Dependencies struct {
	TodoStore    services.TodoStore
	DB           handlers.Pinger
	JWTService   *services.JWTService
	Logger       *slog.Logger
	AllowOrigins []string
}

// SetupRouter はGinルーターをセットアップし、すべてのエンドポイントを登録します。
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	r.Use(RequestLogger(deps.Logger))
	r.Use(gin.Recovery())

	// CORS対策
	config := cors.DefaultConfig()
	config.AllowOrigins = deps.AllowOrigins
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", RequestIDHeader}
	config.ExposeHeaders = []string{RequestIDHeader}
	config.AllowCredentials = true
	r.Use(cors.New(config))

	// サービス
	todoService := services.NewTodoService(deps.TodoStore)

	// ハンドラー
	todoHandler := handlers.NewTodoHandler(todoService, deps.Logger)
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.Logger)

	// ルーティング
	r.GET("/api/health", healthHandler.HealthHandler)

	todos := r.Group("/api/todos")
	todos.Use(AuthMiddleware(deps.JWTService, deps.Logger))
	{
		todos.GET("", todoHandler.ListTodosHandler)
		todos.POST("", todoHandler.CreateTodoHandler)
		todos.PUT("/:id", todoHandler.UpdateTodoHandler)
		todos.DELETE("/:id", todoHandler.DeleteTodoHandler)
	}

	return r
}
