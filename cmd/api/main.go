package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/vhu-platform/complaint-service/internal/api/http"
	"github.com/vhu-platform/complaint-service/internal/api/http/handlers"
	"github.com/vhu-platform/complaint-service/internal/auth"
	"github.com/vhu-platform/complaint-service/internal/config"
	"github.com/vhu-platform/complaint-service/internal/events"
	"github.com/vhu-platform/complaint-service/internal/observability"
	"github.com/vhu-platform/complaint-service/internal/persistence"
	"github.com/vhu-platform/complaint-service/internal/repository"
	"github.com/vhu-platform/complaint-service/internal/service"
	"github.com/vhu-platform/complaint-service/internal/ticketid"
	"github.com/vhu-platform/complaint-service/internal/worker"
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

	metrics := observability.NewMetrics()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	complaintRepo := repository.NewComplaintRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	counterRepo := repository.NewCounterRepository(pool)

	ticketIDs := ticketid.NewGenerator(cfg.Ticket.Prefix, repository.CounterSequence(counterRepo, "complaint_ticket"))
	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(cfg.Auth, userRepo)
	userService := service.NewUserService(userRepo)
	categoryService := service.NewCategoryService(categoryRepo, complaintRepo)
	complaintService := service.NewComplaintService(service.ComplaintDependencies{
		ComplaintRepo: complaintRepo,
		CategoryRepo:  categoryRepo,
		UserRepo:      userRepo,
		TicketIDs:     ticketIDs,
		Dispatcher:    dispatcher,
		Logger:        logger,
	})
	satisfactionService := service.NewSatisfactionService(complaintRepo)
	notificationService := service.NewNotificationService(service.NotificationDependencies{
		NotificationRepo: notificationRepo,
		UserRepo:         userRepo,
		Dispatcher:       dispatcher,
		Cache:            service.NewUnreadCache(redis.Client),
		Logger:           logger,
		Metrics:          metrics,
	})
	dashboardService := service.NewDashboardService(complaintRepo, userRepo, categoryRepo)

	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New(fiber.Config{
		AppName: cfg.App.Name,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Complaints:     handlers.NewComplaintsHandler(complaintService, satisfactionService, categoryService, userService),
		Categories:     handlers.NewCategoriesHandler(categoryService),
		Users:          handlers.NewUsersHandler(userService),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		Dashboard:      handlers.NewDashboardHandler(dashboardService),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
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
