package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/erp/purchasing/internal/application/catalog"
	identityapp "github.com/erp/purchasing/internal/application/identity"
	inventoryapp "github.com/erp/purchasing/internal/application/inventory"
	tradeapp "github.com/erp/purchasing/internal/application/trade"
	"github.com/erp/purchasing/internal/domain/shared"
	"github.com/erp/purchasing/internal/infrastructure/auth"
	"github.com/erp/purchasing/internal/infrastructure/cache"
	"github.com/erp/purchasing/internal/infrastructure/config"
	"github.com/erp/purchasing/internal/infrastructure/logger"
	"github.com/erp/purchasing/internal/infrastructure/persistence"
	"github.com/erp/purchasing/internal/infrastructure/telemetry"
	"github.com/erp/purchasing/internal/interfaces/http/handler"
	"github.com/erp/purchasing/internal/interfaces/http/middleware"
	"github.com/erp/purchasing/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The OTEL log bridge needs its provider before the zap logger exists, so
	// the provider logs its own setup through a bootstrap logger.
	bootLog, err := logger.New(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		ExporterConfig: exporterConfig(cfg),
		Enabled:        cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
	}, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize log exporter", zap.Error(err))
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}, telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
		ServiceName:    cfg.Telemetry.ServiceName,
		LoggerProvider: logProvider,
		Level:          logger.ParseLevel(cfg.Log.Level),
	}))
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	log.Info("Starting purchasing API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	if err := run(ctx, cfg, log, logProvider); err != nil {
		log.Fatal("Server stopped with error", zap.Error(err))
	}
	log.Info("Server exited gracefully")
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger, logProvider *telemetry.LoggerProvider) error {
	// Telemetry providers
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.TracingConfig{
		ExporterConfig: exporterConfig(cfg),
		Enabled:        cfg.Telemetry.Enabled,
		SamplingRatio:  cfg.Telemetry.SamplingRatio,
	}, log)
	if err != nil {
		return err
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		ExporterConfig: exporterConfig(cfg),
		Enabled:        cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
	}, log)
	if err != nil {
		return err
	}
	defer shutdownTelemetry(log, tracerProvider, meterProvider, logProvider)

	// Database
	db, err := persistence.NewDatabase(&cfg.Database,
		persistence.WithLogger(log, logger.MapGormLogLevel(cfg.Log.Level)),
		persistence.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
	)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", db.Driver()))

	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(); err != nil {
			return err
		}
		log.Info("Database schema migrated")
	}

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        db.Driver(),
	}, log); err != nil {
		return err
	}
	dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, meterProvider, telemetry.DBMetricsConfig{
		Enabled:            true,
		SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
	}, log)
	if err != nil {
		return err
	}
	defer dbMetrics.Stop()

	// Redis backed stores, falling back to memory when Redis is unavailable
	stores := cache.NewStoreFactory(cfg.Redis, cache.WithLogger(log))
	if err := stores.Connect(ctx); err != nil {
		return err
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Error("Error closing redis", zap.Error(err))
		}
	}()
	var revocations auth.RevocationList = auth.NewInMemoryRevocationList()
	if client := stores.Client(); client != nil {
		revocations = auth.NewRedisRevocationList(client)
	}

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	inventoryRepo := persistence.NewGormInventoryRepository(db.DB)
	purchaseRepo := persistence.NewGormPurchaseRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Application services
	tokens := auth.NewJWTService(cfg.JWT)
	guard := identityapp.NewAccessGuard(customerRepo, log)
	authService := identityapp.NewAuthService(customerRepo, tokens, log)
	productService := catalogapp.NewProductService(txScope, productRepo, guard, catalogapp.NewCategoryResolver(log), log)
	inventoryService := inventoryapp.NewInventoryService(inventoryRepo, guard)

	purchaseOpts := []tradeapp.PurchaseServiceOption{
		tradeapp.WithIdempotencyStore(stores.IdempotencyStore(), shared.IdempotencyConfig{
			TTL:     cfg.Idempotency.TTL,
			Enabled: cfg.Idempotency.Enabled,
		}),
	}
	// httpMeter stays nil when metrics are off so the engine skips HTTP metrics
	var httpMeter metric.Meter
	if meterProvider.IsEnabled() {
		meter := meterProvider.Meter(telemetry.MeterName)
		httpMeter = meter
		purchaseMetrics, err := telemetry.NewPurchaseMetrics(meter, log)
		if err != nil {
			return err
		}
		purchaseOpts = append(purchaseOpts, tradeapp.WithPurchaseMetrics(purchaseMetrics))

		gauges, err := telemetry.RegisterInventoryGauges(meter, telemetry.NewGormInventoryStatsProvider(db.DB), log)
		if err != nil {
			return err
		}
		defer func() { _ = gauges.Unregister() }()
	}
	purchaseService := tradeapp.NewPurchaseService(txScope, purchaseRepo, guard, log, purchaseOpts...)

	if cfg.Auth.AdminEmail != "" {
		if _, err := authService.EnsureEmployee(ctx, cfg.Auth.AdminName, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
			return err
		}
	}

	// HTTP
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	var rateLimiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer rateLimiter.Stop()
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	securityConfig := middleware.DefaultSecurityConfig()
	securityConfig.HSTSEnabled = cfg.IsProduction()

	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}

	engine, err := router.NewEngine(router.EngineConfig{
		Logger:         log,
		TrustedProxies: cfg.HTTP.TrustedProxies,
		Tracing: middleware.TracingConfig{
			ServiceName:    cfg.Telemetry.ServiceName,
			Enabled:        tracerProvider.IsEnabled(),
			TracerProvider: tracerProvider.Provider(),
		},
		Meter:       httpMeter,
		Security:    securityConfig,
		CORS:        corsConfig,
		MaxBodySize: cfg.HTTP.MaxBodySize,
		RateLimiter: rateLimiter,
		Auth: middleware.AuthConfig{
			Tokens:      tokens,
			Revocations: revocations,
			Logger:      log,
		},
	}, router.Handlers{
		Products: handler.NewProductHandler(productService, inventoryService, handler.PageDefaults{
			PerPage:    cfg.Pagination.ProductsPerPage,
			MaxPerPage: cfg.Pagination.MaxPerPage,
		}),
		Purchases: handler.NewPurchaseHandler(purchaseService, handler.PageDefaults{
			PerPage:    cfg.Pagination.PurchasesPerPage,
			MaxPerPage: cfg.Pagination.MaxPerPage,
		}),
		Auth:   handler.NewAuthHandler(authService, revocations),
		Health: handler.NewHealthHandler(sqlDB, telemetry.ServiceVersion),
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func exporterConfig(cfg *config.Config) telemetry.ExporterConfig {
	return telemetry.ExporterConfig{
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}
}

func shutdownTelemetry(log *zap.Logger, tp *telemetry.TracerProvider, mp *telemetry.MeterProvider, lp *telemetry.LoggerProvider) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := mp.Shutdown(ctx); err != nil {
		log.Error("Failed to shut down meter provider", zap.Error(err))
	}
	if err := tp.Shutdown(ctx); err != nil {
		log.Error("Failed to shut down tracer provider", zap.Error(err))
	}
	// last, so the entries above still reach the collector
	if err := lp.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to shut down log provider: %v\n", err)
	}
}
