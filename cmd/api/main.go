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

	httptransport "github.com/recupera/collections-service/internal/api/http"
	"github.com/recupera/collections-service/internal/api/http/handlers"
	"github.com/recupera/collections-service/internal/auth"
	"github.com/recupera/collections-service/internal/config"
	"github.com/recupera/collections-service/internal/events"
	"github.com/recupera/collections-service/internal/observability"
	"github.com/recupera/collections-service/internal/persistence"
	"github.com/recupera/collections-service/internal/queue"
	"github.com/recupera/collections-service/internal/repository"
	"github.com/recupera/collections-service/internal/service"
	"github.com/recupera/collections-service/internal/worker"
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

	publisher, err := queue.NewPublisher(cfg.Queue, logger)
	if err != nil {
		logger.Fatal("failed to connect amqp", zap.Error(err))
	}
	defer publisher.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	clientRepo := repository.NewClientRepository(pool)
	creditorRepo := repository.NewCreditorRepository(pool)
	chargeRepo := repository.NewChargeRepository(pool)
	agreementRepo := repository.NewAgreementRepository(pool)
	appointmentRepo := repository.NewAppointmentRepository(pool)
	commissionRepo := repository.NewCommissionRepository(pool)
	remittanceRepo := repository.NewRemittanceRepository(pool)
	companyRepo := repository.NewCompanyRepository(pool)
	settingRepo := repository.NewSettingRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)

	dispatcher := events.NewInMemoryDispatcher(logger)

	auditService := service.NewAuditService(auditRepo, logger)
	auditService.RegisterHandlers(dispatcher)

	notificationService := service.NewNotificationService(
		&service.LoggedEmailSender{From: cfg.Notification.EmailFrom, Logger: logger},
		publisher,
		logger,
		cfg.Notification,
	)
	notificationService.RegisterHandlers(dispatcher)

	authService := service.NewAuthService(*cfg, userRepo, dispatcher)
	portfolioService := service.NewPortfolioService(clientRepo, creditorRepo, chargeRepo, dispatcher, notificationService)
	agreementService := service.NewAgreementService(agreementRepo, portfolioService, dispatcher)
	scheduleService := service.NewScheduleService(appointmentRepo, clientRepo, dispatcher)
	financeService := service.NewFinanceService(commissionRepo, remittanceRepo, dispatcher)
	adminService := service.NewAdminService(companyRepo, settingRepo, dispatcher)
	dashboardService := service.NewDashboardService(
		chargeRepo,
		appointmentRepo,
		redis,
		time.Duration(cfg.Notification.DashboardCacheSec)*time.Second,
		logger,
	)

	reminderWorker := worker.NewReminderWorker(agreementRepo, dispatcher, logger)
	go reminderWorker.Run(ctx)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager())
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(authService),
		Clients:        handlers.NewClientsHandler(portfolioService),
		Creditors:      handlers.NewCreditorsHandler(portfolioService),
		Charges:        handlers.NewChargesHandler(portfolioService),
		Agreements:     handlers.NewAgreementsHandler(agreementService),
		Appointments:   handlers.NewAppointmentsHandler(scheduleService),
		Finance:        handlers.NewFinanceHandler(financeService),
		Admin:          handlers.NewAdminHandler(adminService),
		Audit:          handlers.NewAuditHandler(auditService),
		Dashboard:      handlers.NewDashboardHandler(dashboardService),
		AuthMiddleware: authMiddleware,
		LoginLimiter: httptransport.LoginRateLimit(
			redis.Client,
			cfg.Auth.LoginRateLimit,
			time.Duration(cfg.Auth.LoginRateWindowSec)*time.Second,
		),
		Metrics: metrics.Handler(),
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
