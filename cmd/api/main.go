package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/event-booking/internal/api/http"
	"github.com/spec-kit/event-booking/internal/api/http/handlers"
	"github.com/spec-kit/event-booking/internal/auth"
	"github.com/spec-kit/event-booking/internal/config"
	"github.com/spec-kit/event-booking/internal/events"
	"github.com/spec-kit/event-booking/internal/observability"
	"github.com/spec-kit/event-booking/internal/persistence"
	"github.com/spec-kit/event-booking/internal/provider"
	"github.com/spec-kit/event-booking/internal/qr"
	"github.com/spec-kit/event-booking/internal/repository"
	"github.com/spec-kit/event-booking/internal/service"
	"github.com/spec-kit/event-booking/internal/session"
	"github.com/spec-kit/event-booking/internal/worker"
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
	eventRepo := repository.NewEventRepository(pool)
	ticketTypeRepo := repository.NewTicketTypeRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	statsRepo := repository.NewStatsRepository(pool)

	sessions := session.NewStore(redis.Client, cfg.Auth.SessionTTL())
	identityClient := provider.NewIdentityClient(cfg.Identity)
	paymentClient := provider.NewPaymentClient(cfg.Payment)
	signer := qr.NewSigner(cfg.Auth.QRSigningKey)
	dispatcher := events.NewInMemoryDispatcher(logger)
	metrics := observability.NewMetrics()

	identityService := service.NewIdentityService(identityClient, userRepo, sessions, logger)
	catalogService := service.NewCatalogService(service.CatalogDependencies{
		EventRepo:      eventRepo,
		TicketTypeRepo: ticketTypeRepo,
		CategoryRepo:   categoryRepo,
		BookingRepo:    bookingRepo,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
	bookingService := service.NewBookingService(service.BookingDependencies{
		BookingRepo:    bookingRepo,
		TicketTypeRepo: ticketTypeRepo,
		EventRepo:      eventRepo,
		PaymentRepo:    paymentRepo,
		PaymentClient:  paymentClient,
		Signer:         signer,
		Currency:       cfg.Payment.Currency,
		Dispatcher:     dispatcher,
	})
	adminService := service.NewAdminService(statsRepo, userRepo, dispatcher)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	if pool != nil {
		if err := catalogService.SeedCategories(ctx); err != nil {
			logger.Warn("failed to seed categories", zap.Error(err))
		}
	}

	authMiddleware := auth.NewMiddleware(sessions, userRepo)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(identityService, cfg.Auth),
		Categories:     handlers.NewCategoriesHandler(catalogService),
		Events:         handlers.NewEventsHandler(catalogService),
		Bookings:       handlers.NewBookingsHandler(bookingService),
		Admin:          handlers.NewAdminHandler(adminService),
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
