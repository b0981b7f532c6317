package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"todo-api/internal/config"
	"todo-api/internal/database"
	"todo-api/internal/logger"
	"todo-api/internal/repositories"
	"todo-api/internal/routes"
	"todo-api/internal/services"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file (overrides CONFIG_FILE)")
	issueToken := flag.Int("issue-token", 0, "print an access token for the given user id and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("config_load_failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)

	jwtService := services.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// ログイン機能は持たないため、開発・運用向けにトークンを発行できるようにする
	if *issueToken > 0 {
		token, err := jwtService.GenerateToken(*issueToken)
		if err != nil {
			log.Error("token_issue_failed", "error", err)
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	if err := run(context.Background(), cfg, log, jwtService); err != nil {
		log.Error("startup", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger, jwtService *services.JWTService) error {
	if logger.ParseLevel(cfg.Log.Level) > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	db, dialect, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer func() {
		log.Info("shutdown", "status", "closing database connection")
		db.Close()
	}()
	log.Info("database_connected", "driver", dialect)

	if cfg.Database.AutoMigrate {
		if err := database.EnsureSchema(ctx, db, dialect); err != nil {
			return err
		}
		log.Info("database_schema_ready")
	}

	todoRepo := repositories.NewTodoRepository(db, dialect)
	router := routes.SetupRouter(routes.Dependencies{
		TodoStore:    todoRepo,
		DB:           todoRepo,
		JWTService:   jwtService,
		Logger:       log,
		AllowOrigins: cfg.Server.AllowOrigins,
	})

	server := &http.Server{
		Addr:     cfg.Server.Addr,
		Handler:  router,
		ErrorLog: slog.NewLogLogger(log.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("startup", "status", "api router started", "addr", server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Info("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Info("shutdown", "status", "shutdown complete", "signal", sig)

		ctx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			server.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}
	return nil
}
