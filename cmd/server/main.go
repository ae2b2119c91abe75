package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	pricingapp "github.com/erp/pricelist/internal/application/pricing"
	"github.com/erp/pricelist/internal/domain/pricing"
	"github.com/erp/pricelist/internal/domain/shared"
	"github.com/erp/pricelist/internal/infrastructure/cache"
	"github.com/erp/pricelist/internal/infrastructure/config"
	"github.com/erp/pricelist/internal/infrastructure/event"
	"github.com/erp/pricelist/internal/infrastructure/logger"
	"github.com/erp/pricelist/internal/infrastructure/persistence"
	"github.com/erp/pricelist/internal/infrastructure/telemetry"
	"github.com/erp/pricelist/internal/interfaces/http/handler"
	"github.com/erp/pricelist/internal/interfaces/http/middleware"
	"github.com/erp/pricelist/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const version = "1.0.0"

//	@title			Pricelist API
//	@version		1.0
//	@description	Product pricing engine: templates, variants, rule tables and price resolution

//	@BasePath	/api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	// OpenTelemetry providers are no-ops unless telemetry is enabled
	telemetryCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		Insecure:          cfg.Telemetry.Insecure,
		ServiceName:       cfg.App.Name,
		ServiceVersion:    version,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		LogsEnabled:       cfg.Telemetry.LogsEnabled,
		DBTracing:         cfg.Telemetry.DBTracing,
		LogFullSQL:        cfg.Telemetry.LogFullSQL,
		SlowQueryThresh:   cfg.Log.SlowQueryThreshold,
	}
	providers, err := telemetry.Setup(context.Background(), telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	log = telemetry.BridgeLogger(log, providers.Logs, logger.ParseLevel(cfg.Log.Level))

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Telemetry.ProfilingEnabled,
		ServerAddress:     cfg.Telemetry.ProfilingServerAddress,
		ApplicationName:   cfg.App.Name,
		BasicAuthUser:     cfg.Telemetry.ProfilingAuthUser,
		BasicAuthPassword: cfg.Telemetry.ProfilingAuthPassword,
		ProfileMutex:      cfg.Telemetry.ProfileMutex,
		ProfileBlock:      cfg.Telemetry.ProfileBlock,
		ProfileGoroutines: cfg.Telemetry.ProfileGoroutines,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() {
		providers.Tracer.EnableSpanProfiles()
	}

	log.Info("Starting pricelist service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection
	db, err := persistence.NewDatabase(&cfg.Database, cfg.Log, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := telemetry.NewDBTracingPlugin(telemetryCfg, providers.Tracer.Provider(), log).Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Event bus and idempotency store for vendor bill processing
	eventBus := event.NewInMemoryEventBus(log)

	storeFactory := cache.NewIdempotencyStoreFactory(cfg.Event, cfg.Redis, cache.WithLogger(log))
	idempotencyStore, err := storeFactory.CreateStore(context.Background())
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Initialize application services
	strategy, err := pricing.ParseStrategy(cfg.Pricing.DefaultStrategy)
	if err != nil {
		log.Fatal("Invalid default pricing strategy", zap.Error(err))
	}
	scope := persistence.NewGormTransactionScope(db.DB)
	pricingService := pricingapp.NewPricingService(scope, log,
		pricingapp.WithEventPublisher(eventBus),
		pricingapp.WithServiceConfig(pricingapp.ServiceConfig{
			DefaultAutoSync: cfg.Pricing.DefaultAutoSync,
			DefaultStrategy: strategy,
		}),
	)
	partnerService := pricingapp.NewPartnerService(scope, eventBus, log)

	// Register event handlers
	eventBus.Subscribe(event.NewIdempotentHandler(
		pricingapp.NewVendorBillPostedHandler(pricingService, log),
		idempotencyStore,
		log,
		event.WithIdempotencyConfig(shared.IdempotencyConfig{
			TTL:     cfg.Event.IdempotencyTTL,
			Enabled: cfg.Event.IdempotencyEnabled,
		}),
	))
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order: tracing, request logging (sets request id and tenant),
	// profiling labels, panic recovery, body size limit
	if providers.Tracer.IsEnabled() {
		engine.Use(telemetry.GinMiddleware(cfg.App.Name, providers.Tracer.Provider()))
	}
	engine.Use(logger.GinMiddleware(log))
	if profiler.IsEnabled() {
		engine.Use(middleware.Profiling())
	}
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	systemHandler := handler.NewSystemHandler(cfg.App.Name, version, db)
	engine.GET("/health", systemHandler.Health)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(router.PricingGroups(router.Handlers{
		Partner:  handler.NewPartnerHandler(partnerService),
		Template: handler.NewTemplateHandler(pricingService),
		Variant:  handler.NewVariantHandler(pricingService),
		Pricing:  handler.NewPricingHandler(pricingService),
		System:   systemHandler,
	})...)
	r.Setup()

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

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout(cfg.HTTP.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := eventBus.Stop(ctx); err != nil {
		log.Error("Failed to stop event bus", zap.Error(err))
	}
	if err := providers.Shutdown(ctx); err != nil {
		log.Error("Failed to shut down telemetry", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Failed to stop profiler", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

func shutdownTimeout(configured time.Duration) time.Duration {
	if configured <= 0 {
		return 30 * time.Second
	}
	return configured
}
