package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/24BytesCo/workitem-service/internal/api/http"
	"github.com/24BytesCo/workitem-service/internal/api/http/handlers"
	"github.com/24BytesCo/workitem-service/internal/auth"
	"github.com/24BytesCo/workitem-service/internal/config"
	"github.com/24BytesCo/workitem-service/internal/events"
	"github.com/24BytesCo/workitem-service/internal/observability"
	"github.com/24BytesCo/workitem-service/internal/persistence"
	"github.com/24BytesCo/workitem-service/internal/repository"
	"github.com/24BytesCo/workitem-service/internal/service"
	"github.com/24BytesCo/workitem-service/internal/worker"
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
	userRepo := repository.NewUserRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)
	statusRepo := repository.NewStatusRepository(pool)
	workItemRepo := repository.NewWorkItemRepository(pool)

	revocationStore := auth.NewRedisRevocationStore(redis.Client)
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:        userRepo,
		RoleRepo:        roleRepo,
		RevocationStore: revocationStore,
	})
	if err := authService.EnsureSeedAdmin(ctx, cfg.Seed); err != nil {
		logger.Fatal("failed to ensure seed admin", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	workItemService := service.NewWorkItemService(service.WorkItemDependencies{
		WorkItemRepo: workItemRepo,
		UserRepo:     userRepo,
		RoleRepo:     roleRepo,
		StatusRepo:   statusRepo,
		Dispatcher:   dispatcher,
	})
	catalogService := service.NewCatalogService(roleRepo, statusRepo)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo, revocationStore)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(authService),
		Catalogs:       handlers.NewCatalogsHandler(catalogService),
		WorkItems:      handlers.NewWorkItemsHandler(workItemService),
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
