// Command server runs the sales force automation HTTP API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	bulkapp "github.com/sfa/backend/internal/application/bulk"
	identityapp "github.com/sfa/backend/internal/application/identity"
	"github.com/sfa/backend/internal/application/importer"
	inventoryapp "github.com/sfa/backend/internal/application/inventory"
	notificationapp "github.com/sfa/backend/internal/application/notification"
	preferenceapp "github.com/sfa/backend/internal/application/preference"
	reportapp "github.com/sfa/backend/internal/application/report"
	salesapp "github.com/sfa/backend/internal/application/sales"
	ticketapp "github.com/sfa/backend/internal/application/ticket"
	"github.com/sfa/backend/internal/domain/shared"
	"github.com/sfa/backend/internal/infrastructure/auth"
	"github.com/sfa/backend/internal/infrastructure/cache"
	"github.com/sfa/backend/internal/infrastructure/config"
	"github.com/sfa/backend/internal/infrastructure/lock"
	"github.com/sfa/backend/internal/infrastructure/logger"
	"github.com/sfa/backend/internal/infrastructure/persistence"
	"github.com/sfa/backend/internal/infrastructure/scheduler"
	"github.com/sfa/backend/internal/infrastructure/storage"
	"github.com/sfa/backend/internal/infrastructure/telemetry"
	"github.com/sfa/backend/internal/interfaces/http/handler"
	"github.com/sfa/backend/internal/interfaces/http/middleware"
	"github.com/sfa/backend/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		Service:    cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting SFA backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	// Telemetry first so the database plugin and middleware pick up the global providers
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
		SpanProfiles:      cfg.Telemetry.ProfilingEnabled,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer shutdown(log, "tracer provider", tracerProvider.Shutdown)

	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	defer shutdown(log, "logger provider", loggerProvider.Shutdown)
	log = loggerProvider.Bridge(log, logger.ParseLevel(cfg.Log.Level))

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.ProfilingServerAddress,
		ApplicationName: cfg.Telemetry.ServiceName,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer shutdown(log, "profiler", profiler.Stop)

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	defer shutdown(log, "meter provider", meterProvider.Shutdown)

	meter := meterProvider.Meter("sfa-backend")
	metrics, err := telemetry.NewMetrics(meter, log)
	if err != nil {
		log.Fatal("Failed to register metrics", zap.Error(err))
	}
	defer metrics.Stop()

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.Open(ctx, &cfg.Database,
		persistence.WithGormLogger(gormLog),
		persistence.WithConnectRetries(5, 2*time.Second),
	)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
	}, log)
	if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	stores, err := cache.NewFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	).Create()
	if err != nil {
		log.Fatal("Failed to initialize stores", zap.Error(err))
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Error("Error closing stores", zap.Error(err))
		}
	}()

	var locker shared.Locker = lock.NewMemoryLocker()
	if stores.Client != nil {
		locker = lock.NewRedisLocker(stores.Client, "")
	}

	// Repositories
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	activityRepo := persistence.NewGormActivityRepository(db.DB)
	quotationRepo := persistence.NewGormQuotationRepository(db.DB)
	salesOrderRepo := persistence.NewGormSalesOrderRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	itemRepo := persistence.NewGormInventoryItemRepository(db.DB)
	ticketRepo := persistence.NewGormTicketRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	operationRepo := persistence.NewGormBulkOperationRepository(db.DB)

	// Application services
	reportOpts := []reportapp.Option{reportapp.WithMetrics(metrics)}
	if cfg.Storage.Enabled {
		archive, err := storage.NewS3Archive(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize export archive", zap.Error(err))
		}
		if err := archive.EnsureBucket(ctx); err != nil {
			log.Warn("Export archive bucket is not ready", zap.String("bucket", archive.Bucket()), zap.Error(err))
		}
		reportOpts = append(reportOpts, reportapp.WithArchive(archive))
	}
	reportService := reportapp.NewService(reportapp.Repositories{
		Accounts:   accountRepo,
		Activities: activityRepo,
		Users:      userRepo,
		Tickets:    ticketRepo,
		Items:      itemRepo,
	}, stores.Reports, reportapp.Config{
		Location:      cfg.Report.Location(),
		CacheTTL:      cfg.Report.CacheTTL,
		ExportMaxRows: cfg.Report.ExportMaxRows,
		MaxPeriodDays: cfg.Report.MaxPeriodDays,
	}, log, reportOpts...)

	salesService := salesapp.NewService(accountRepo, activityRepo, quotationRepo, salesOrderRepo, log,
		salesapp.WithReportInvalidator(stores.Reports))
	bulkService := bulkapp.NewService(persistence.NewGormTransactionScope(db.DB), operationRepo, userRepo, locker,
		bulkapp.Config{LockTTL: cfg.Bulk.LockTTL, MaxSelection: cfg.Bulk.MaxSelection}, log,
		bulkapp.WithReportInvalidator(stores.Reports), bulkapp.WithMetrics(metrics))
	importService := importer.NewAccountImportService(accountRepo, operationRepo, log,
		importer.WithReportInvalidator(stores.Reports), importer.WithMetrics(metrics))
	inventoryService := inventoryapp.NewService(itemRepo, stores.Reports, log)
	ticketService := ticketapp.NewService(ticketRepo, stores.Reports, log)
	userService := identityapp.NewUserService(userRepo, nil, log)
	notificationService := notificationapp.NewService(notificationRepo)
	preferenceService := preferenceapp.NewService(stores.Preferences, locker, log)

	metrics.StartLowStockCollection(ctx, inventoryService, cfg.Telemetry.MetricsInterval)

	// Dashboard warmup
	if cfg.Report.WarmupEnabled {
		warmupScheduler := scheduler.NewScheduler(scheduler.Config{
			MaxConcurrentJobs: cfg.Report.MaxConcurrentJobs,
			JobTimeout:        cfg.Report.JobTimeout,
		}, reportService, log)
		if err := warmupScheduler.Start(ctx); err != nil {
			log.Fatal("Failed to start report scheduler", zap.Error(err))
		}
		defer shutdown(log, "report scheduler", warmupScheduler.Stop)

		trigger := scheduler.NewWarmupTrigger(cfg.Report.WarmupInterval, warmupScheduler, reportService, log)
		if err := trigger.Start(ctx); err != nil {
			log.Fatal("Failed to start warmup trigger", zap.Error(err))
		}
		defer shutdown(log, "warmup trigger", trigger.Stop)

		log.Info("Report warmup started",
			zap.Int("max_concurrent_jobs", cfg.Report.MaxConcurrentJobs),
			zap.Duration("interval", cfg.Report.WarmupInterval),
		)
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Order matters: request ID before logging, tracing before the span enricher
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORS(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.HTTPMetrics(meter, log))

	authConfig := middleware.AuthConfig{
		Required:  cfg.JWT.Required,
		SkipPaths: []string{"/api/v1/health", "/api/v1/system/info"},
		Logger:    log,
	}
	if cfg.JWT.Secret != "" {
		authConfig.Verifier = auth.NewVerifier(cfg.JWT)
	}
	apiMiddleware := []gin.HandlerFunc{middleware.Auth(authConfig), middleware.SpanEnricher()}
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		apiMiddleware = append(apiMiddleware, middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	router.NewRouter(engine, router.WithAPIVersion("v1"), router.WithMiddleware(apiMiddleware...)).
		Register(router.APIGroups(router.Handlers{
			System:       handler.NewSystemHandler(cfg.App.Name, version, db),
			Accounts:     handler.NewAccountHandler(salesService, importService),
			Activities:   handler.NewActivityHandler(salesService),
			Orders:       handler.NewOrderHandler(salesService),
			Bulk:         handler.NewBulkHandler(bulkService),
			Tickets:      handler.NewTicketHandler(ticketService),
			Inventory:    handler.NewInventoryHandler(inventoryService),
			Users:        handler.NewUserHandler(userService),
			Notification: handler.NewNotificationHandler(notificationService),
			Preferences:  handler.NewPreferenceHandler(preferenceService),
			Reports:      handler.NewReportHandler(reportService, cfg.Report.Location()),
			EnforceRoles: cfg.JWT.Required,
		})...).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// shutdown stops a component with a bounded timeout, logging failures
func shutdown(log *zap.Logger, name string, stop func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := stop(ctx); err != nil {
		log.Error("Error stopping "+name, zap.Error(err))
	}
}
