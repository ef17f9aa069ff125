package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/resume-service/internal/api/http"
	"github.com/spec-kit/resume-service/internal/api/http/handlers"
	"github.com/spec-kit/resume-service/internal/auth"
	"github.com/spec-kit/resume-service/internal/config"
	"github.com/spec-kit/resume-service/internal/events"
	"github.com/spec-kit/resume-service/internal/observability"
	"github.com/spec-kit/resume-service/internal/persistence"
	"github.com/spec-kit/resume-service/internal/repository"
	"github.com/spec-kit/resume-service/internal/service"
	"github.com/spec-kit/resume-service/internal/worker"
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	var (
		redis        *persistence.Redis
		refreshStore auth.RefreshStore = auth.NewMemoryRefreshStore()
	)
	if cfg.Auth.RefreshStore == config.RefreshStoreRedis {
		redis, err = persistence.NewRedis(ctx, cfg.Redis, logger)
		if err != nil {
			logger.Fatal("failed to connect redis", zap.Error(err))
		}
		defer redis.Close()
		refreshStore = auth.NewRedisRefreshStore(redis.Client, cfg.Auth.RefreshKeyPrefix)
	}
	logger.Info("refresh store selected", zap.String("backend", cfg.Auth.RefreshStore))

	tokens, err := auth.NewTokenService(cfg.Auth, refreshStore)
	if err != nil {
		logger.Fatal("failed to init token service", zap.Error(err))
	}

	metrics := observability.NewMetrics(cfg.App.Name)
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, cfg.Notify))

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	resumeRepo := repository.NewResumeRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)

	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:   userRepo,
		Tokens:     tokens,
		Dispatcher: dispatcher,
		Logger:     logger,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	userService := service.NewUserService(userRepo, logger)
	resumeService := service.NewResumeService(service.ResumeDependencies{
		ResumeRepo: resumeRepo,
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	commentService := service.NewCommentService(service.CommentDependencies{
		CommentRepo: commentRepo,
		ResumeRepo:  resumeRepo,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService, cfg.Cookie),
		Users:          handlers.NewUsersHandler(userService),
		Resumes:        handlers.NewResumesHandler(resumeService),
		Comments:       handlers.NewCommentsHandler(commentService),
		SessionGuard:   auth.NewSessionGuard(tokens, userRepo, metrics).WithCookieDomain(cfg.Cookie.Domain),
		RefreshGuard:   auth.NewRefreshGuard(tokens, metrics).WithCookieDomain(cfg.Cookie.Domain),
		MetricsHandler: metrics.Handler(),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
