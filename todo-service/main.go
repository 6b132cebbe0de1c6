package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chepyr/go-todo-list/internal/auth"
	"github.com/chepyr/go-todo-list/internal/config"
	"github.com/chepyr/go-todo-list/internal/db"
	"github.com/chepyr/go-todo-list/internal/handlers"
	"github.com/chepyr/go-todo-list/internal/i18n"
	"github.com/chepyr/go-todo-list/internal/logger"
	"github.com/chepyr/go-todo-list/internal/todo"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.Server.LogLevel, cfg.IsProduction())
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zapLogger.Sync()
	zap.ReplaceGlobals(zapLogger)

	dbConn := initDB(cfg)
	defer func() {
		if err := dbConn.Close(); err != nil {
			zap.L().Error("Error closing database connection", zap.Error(err))
		}
	}()

	sessions, closeSessions := initSessionStore(cfg, dbConn)
	defer closeSessions()

	handler := initHandlers(cfg, dbConn, sessions)
	server := initServer(cfg, handler)
	startServer(cfg, server)
}

func initDB(cfg *config.Config) *sqlx.DB {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbConn, err := db.Connect(ctx, cfg.Database.Driver, cfg.DSN(),
		cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		zap.L().Fatal("Failed to connect to database", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx, dbConn); err != nil {
			zap.L().Fatal("Failed to migrate database", zap.Error(err))
		}
	}
	zap.L().Info("Database ready", zap.String("driver", cfg.Database.Driver))
	return dbConn
}

func initSessionStore(cfg *config.Config, dbConn *sqlx.DB) (db.SessionRepositoryInterface, func()) {
	if cfg.Session.Store != config.SessionStoreRedis {
		return db.NewSessionRepository(dbConn), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		zap.L().Fatal("Failed to connect to redis", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	}
	zap.L().Info("Using redis session store", zap.String("addr", cfg.Redis.Addr))

	return db.NewRedisSessionRepository(client), func() {
		if err := client.Close(); err != nil {
			zap.L().Error("Error closing redis client", zap.Error(err))
		}
	}
}

func initHandlers(cfg *config.Config, dbConn *sqlx.DB, sessions db.SessionRepositoryInterface) http.Handler {
	translator, err := i18n.New()
	if err != nil {
		zap.L().Fatal("Failed to load translations", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handler := &handlers.Handler{
		Credentials:   auth.NewCredentialStore(db.NewUserRepository(dbConn), cfg.Auth.BCryptCost),
		Sessions:      auth.NewSessionManager(sessions, cfg.Session.SecretKey, cfg.Session.TTL, cfg.IsProduction()),
		Tasks:         todo.NewTaskStore(db.NewTaskRepository(dbConn)),
		Translator:    translator,
		Metrics:       handlers.NewMetrics(registry),
		Logger:        zap.L(),
		DB:            dbConn,
		SecureCookies: cfg.IsProduction(),
	}
	return handler.Routes()
}

func initServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.ServerAddr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}

func startServer(cfg *config.Config, server *http.Server) {
	zap.L().Info("Starting server", zap.String("addr", server.Addr), zap.String("environment", cfg.Server.Environment))

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		zap.L().Error("Server shutdown failed", zap.Error(err))
		return
	}
	zap.L().Info("Server stopped")
}
