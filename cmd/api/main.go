package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/buyer-leads-service/internal/api/http"
	"github.com/spec-kit/buyer-leads-service/internal/api/http/handlers"
	"github.com/spec-kit/buyer-leads-service/internal/auth"
	"github.com/spec-kit/buyer-leads-service/internal/config"
	"github.com/spec-kit/buyer-leads-service/internal/events"
	"github.com/spec-kit/buyer-leads-service/internal/observability"
	"github.com/spec-kit/buyer-leads-service/internal/persistence"
	"github.com/spec-kit/buyer-leads-service/internal/ratelimit"
	"github.com/spec-kit/buyer-leads-service/internal/repository"
	"github.com/spec-kit/buyer-leads-service/internal/service"
	"github.com/spec-kit/buyer-leads-service/internal/worker"
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
		if err := persistence.RunMigrations(ctx, pg.Pool, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var limiter ratelimit.Limiter
	if cfg.RateLimit.Backend == "redis" {
		limiter = ratelimit.NewRedisLimiter(redis.Client, cfg.RateLimit.MaxOps, cfg.RateLimit.Window())
	} else {
		limiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.MaxOps, cfg.RateLimit.Window())
	}

	userRepo := repository.NewUserRepository(pg)
	buyerRepo := repository.NewBuyerRepository(pg)
	historyRepo := repository.NewBuyerHistoryRepository(pg)

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger)
	worker.StartNotificationWorker(notificationService)

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authService := service.NewAuthService(userRepo, tokenManager)
	authMiddleware := auth.NewAuthMiddleware(tokenManager, userRepo)

	leadService := service.NewLeadService(service.LeadDependencies{
		LeadRepo:    buyerRepo,
		HistoryRepo: historyRepo,
		Tx:          pg,
		Limiter:     limiter,
		Dispatcher:  dispatcher,
	})
	exportService := service.NewExportService(buyerRepo)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	authHandler := handlers.NewAuthHandler(authService)
	buyersHandler := handlers.NewBuyersHandler(leadService, exportService)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         healthHandler,
		Auth:           authHandler,
		Buyers:         buyersHandler,
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
