package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/fotosexpress/portal/internal/api/http"
	"github.com/fotosexpress/portal/internal/api/http/handlers"
	"github.com/fotosexpress/portal/internal/config"
	"github.com/fotosexpress/portal/internal/events"
	"github.com/fotosexpress/portal/internal/observability"
	"github.com/fotosexpress/portal/internal/persistence"
	"github.com/fotosexpress/portal/internal/repository"
	"github.com/fotosexpress/portal/internal/repository/memory"
	"github.com/fotosexpress/portal/internal/service"
	"github.com/fotosexpress/portal/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	repos := buildRepositories(pg, redis, logger)

	notifications := worker.StartNotificationWorker(
		events.NewInMemoryDispatcher(logger),
		service.NewNotificationService(logger, cfg.Notification),
		logger,
		worker.DefaultQueueSize,
	)
	defer notifications.Close()

	server := httptransport.NewServer(httptransport.ServerOptions{
		Config:     *cfg,
		Repos:      repos,
		Logger:     logger,
		Metrics:    observability.NewMetrics(),
		Dispatcher: notifications,
		Dependencies: map[string]handlers.Dependency{
			"postgres": pg,
			"redis":    redis,
		},
	})
	if err := server.Auth.EnsureAdmin(ctx, cfg.Auth.BootstrapAdminEmail, cfg.Auth.BootstrapAdminPassword, cfg.Auth.BootstrapAdminName); err != nil {
		logger.Fatal("failed to bootstrap admin", zap.Error(err))
	}
	app := server.App

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

// buildRepositories picks Postgres when a pool is configured and memory otherwise.
// Sessions follow Redis the same way.
func buildRepositories(pg *persistence.Postgres, redis *persistence.Redis, logger *zap.Logger) *repository.Repositories {
	var sessions repository.SessionStore
	if redis.Enabled() {
		sessions = repository.NewRedisSessionStore(redis.Client)
	} else {
		sessions = memory.NewSessionStore(nil)
	}

	if !pg.Enabled() {
		logger.Warn("using in-memory repositories; data is lost on restart")
		repos := memory.NewStore(nil)
		repos.Sessions = sessions
		return repos
	}
	return repository.NewPostgresRepositories(pg.PoolHandle(), sessions)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
