package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/field-service/internal/api/http"
	"github.com/spec-kit/field-service/internal/api/http/handlers"
	"github.com/spec-kit/field-service/internal/auth"
	"github.com/spec-kit/field-service/internal/catalog"
	"github.com/spec-kit/field-service/internal/config"
	"github.com/spec-kit/field-service/internal/events"
	"github.com/spec-kit/field-service/internal/observability"
	"github.com/spec-kit/field-service/internal/persistence"
	"github.com/spec-kit/field-service/internal/repository"
	"github.com/spec-kit/field-service/internal/service"
	"github.com/spec-kit/field-service/internal/worker"
	"github.com/spec-kit/field-service/internal/workflow"
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

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	statusRepo := repository.NewStatusRepository(pool)
	staffRepo := repository.NewStaffRepository(pool)
	workOrderRepo := repository.NewWorkOrderRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)
	fileRepo := repository.NewWorkOrderFileRepository(pool)
	serviceRepo := repository.NewServiceRepository(pool)
	partRepo := repository.NewPartRepository(pool)
	feedbackRepo := repository.NewFeedbackRepository(pool)

	statusCatalog, err := catalog.Load(ctx, statusRepo)
	if err != nil {
		logger.Fatal("failed to load status catalog", zap.Error(err))
	}

	txManager := persistence.NewTxManager(pool)
	auditTrail := workflow.NewAuditTrail(auditRepo, statusCatalog, staffRepo)
	notifications := service.NewNotificationService(logger, cfg.Notification)

	var dispatcher events.Dispatcher
	if redis.Ping(ctx) == nil {
		dispatcher = events.NewRedisDispatcher(redis.Client, cfg.Notification.QueueKey)
		notificationWorker := worker.NewNotificationWorker(redis.Client, cfg.Notification.QueueKey, notifications, logger)
		go notificationWorker.Run(ctx)
	} else {
		logger.Warn("redis unavailable; delivering notifications in process")
		dispatcher = events.NewInMemoryDispatcher(notifications.Handle)
	}

	engine := workflow.NewEngine(workflow.EngineDependencies{
		Tx:         txManager,
		WorkOrders: workOrderRepo,
		Services:   serviceRepo,
		Files:      fileRepo,
		Parts:      partRepo,
		Feedback:   feedbackRepo,
		Audit:      auditTrail,
		Catalog:    statusCatalog,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	assignments := workflow.NewAssignmentManager(workflow.AssignmentDependencies{
		Tx:         txManager,
		WorkOrders: workOrderRepo,
		Staff:      staffRepo,
		Audit:      auditTrail,
		Catalog:    statusCatalog,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	authService := service.NewAuthService(*cfg, staffRepo)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), staffRepo)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		WorkOrders:     handlers.NewWorkOrdersHandler(engine, assignments, auditRepo, statusCatalog),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)
	cancel()

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
