package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appbilling "github.com/mealflow/backend/internal/application/billing"
	"github.com/mealflow/backend/internal/infrastructure/config"
	"github.com/mealflow/backend/internal/infrastructure/logger"
	"github.com/mealflow/backend/internal/infrastructure/notification"
	"github.com/mealflow/backend/internal/infrastructure/persistence"
	"github.com/mealflow/backend/internal/infrastructure/scheduler"
	"github.com/mealflow/backend/internal/interfaces/http/handler"
	"github.com/mealflow/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Mealflow Billing",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	auditLogRepo := persistence.NewGormAuditLogRepository(db.DB)
	orderSource := persistence.NewGormOrderSource(db.DB)
	companySource := persistence.NewGormCompanySource(db.DB)
	uow := persistence.NewGormUnitOfWork(db.DB)

	// Notifier: deliveries run off the request path so a slow or failing
	// channel never blocks invoice issuing
	var notifier *notification.AsyncNotifier
	if cfg.Notification.Enabled {
		notifier = notification.NewAsyncNotifier(
			notification.NewLogNotifier(log), cfg.Notification.BufferSize, log)
	} else {
		notifier = notification.NewAsyncNotifier(notification.NewNopNotifier(), cfg.Notification.BufferSize, log)
	}
	notifier.Start(context.Background())
	defer notifier.Stop()

	// Initialize application services
	invoiceService := appbilling.NewInvoiceService(
		companySource, orderSource, invoiceRepo, auditLogRepo, uow, notifier, log)
	monthlyRunService := appbilling.NewMonthlyRunService(companySource, invoiceService, log)

	// Monthly billing scheduler
	if cfg.Scheduler.Enabled {
		billingScheduler := scheduler.NewBillingCronScheduler(scheduler.BillingCronSchedulerConfig{
			Enabled: cfg.Scheduler.Enabled,
			RunDay:  cfg.Scheduler.RunDay,
			RunHour: cfg.Scheduler.RunHour,
		}, monthlyRunService, log)
		if err := billingScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start billing scheduler", zap.Error(err))
		}
		defer func() {
			if err := billingScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping billing scheduler", zap.Error(err))
			}
		}()
		log.Info("Billing scheduler started",
			zap.Int("run_day", cfg.Scheduler.RunDay),
			zap.Int("run_hour", cfg.Scheduler.RunHour),
		)
	}

	// Initialize HTTP handlers and router
	billingHandler := handler.NewBillingHandler(invoiceService, monthlyRunService)
	systemHandler := handler.NewSystemHandler(db)

	engine := router.Setup(cfg.App.Env, log, billingHandler, systemHandler)

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
