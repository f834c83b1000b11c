package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/socialmedia/api/internal/command"
	"github.com/socialmedia/api/internal/config"
	"github.com/socialmedia/api/internal/db"
	"github.com/socialmedia/api/internal/handler"
	"github.com/socialmedia/api/internal/query"
	"github.com/socialmedia/api/internal/repository"
	"github.com/socialmedia/api/shared/events"
	"github.com/socialmedia/api/shared/middleware"
	sharedredis "github.com/socialmedia/api/shared/redis"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	logger := middleware.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database connection (write store)
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.RunMigrations(ctx, database); err != nil {
		return err
	}

	// Redis connection (view cache + event streaming), optional
	redis, err := sharedredis.NewClient(ctx, sharedredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return err
	}
	defer redis.Close()
	if redis == nil {
		logger.Info("redis disabled, running without view cache or events")
	}

	// --- CQRS wiring ---
	publisher := events.NewPublisher(redis.Raw())

	accountRepo := repository.NewAccountRepository(database)
	messageWriteRepo := repository.NewMessageWriteRepository(database)
	messageReadRepo := repository.NewMessageReadRepository(database, redis.Raw(), cfg.CacheTTL)

	accountHandler := handler.NewAccountHandler(
		command.NewAccountCommandService(accountRepo, publisher),
		query.NewAccountQueryService(accountRepo),
	)
	messageHandler := handler.NewMessageHandler(
		command.NewMessageCommandService(messageWriteRepo, messageReadRepo, publisher),
		query.NewMessageQueryService(messageReadRepo),
	)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.LoggingMiddleware())
	handler.RegisterRoutes(router, accountHandler, messageHandler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("social media api starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
