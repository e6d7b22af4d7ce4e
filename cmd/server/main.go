// Command server runs the e-invoicing HTTP API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	inventoryapp "github.com/einvoice/backend/internal/application/inventory"
	invoicingapp "github.com/einvoice/backend/internal/application/invoicing"
	organizationapp "github.com/einvoice/backend/internal/application/organization"
	partnerapp "github.com/einvoice/backend/internal/application/partner"
	"github.com/einvoice/backend/internal/infrastructure/auth"
	"github.com/einvoice/backend/internal/infrastructure/cache"
	"github.com/einvoice/backend/internal/infrastructure/config"
	"github.com/einvoice/backend/internal/infrastructure/logger"
	"github.com/einvoice/backend/internal/infrastructure/migration"
	"github.com/einvoice/backend/internal/infrastructure/persistence"
	"github.com/einvoice/backend/internal/infrastructure/storage"
	"github.com/einvoice/backend/internal/infrastructure/telemetry"
	"github.com/einvoice/backend/internal/infrastructure/zatca"
	"github.com/einvoice/backend/internal/interfaces/http/handler"
	"github.com/einvoice/backend/internal/interfaces/http/middleware"
	"github.com/einvoice/backend/internal/interfaces/http/router"
	"github.com/einvoice/backend/migrations"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// version is stamped at build time with -ldflags "-X main.version=..."
var version = "dev"

const timeFormat = "2006-01-02T15:04:05.000Z07:00"

// shutdowner is implemented by every telemetry provider
type shutdowner interface {
	Shutdown(ctx context.Context) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: timeFormat,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx := context.Background()
	serviceName := cfg.Telemetry.ServiceName
	if serviceName == "" {
		serviceName = cfg.App.Name
	}

	// Telemetry providers, shut down in reverse order on exit
	var providers []shutdowner

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       serviceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	providers = append(providers, tp)

	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    30 * time.Second,
		ServiceName:       serviceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	providers = append(providers, mp)

	lp, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       serviceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	providers = append(providers, lp)

	// Logs also go to the collector when log export is on
	log = lp.Bridge(log, logger.ParseLevel(cfg.Log.Level))

	log.Info("Starting e-invoicing service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	invoiceMetrics := telemetry.NewNoopInvoiceMetrics()
	if mp.IsEnabled() {
		invoiceMetrics, err = telemetry.NewInvoiceMetrics(mp.Meter("einvoice"))
		if err != nil {
			log.Fatal("Failed to create invoice metrics", zap.Error(err))
		}
	}

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		plugin := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
			DBSystem:        cfg.Database.Driver,
		}, log)
		if err := plugin.RegisterOtelGorm(db.DB); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
	}

	if cfg.Database.AutoMigrate {
		if err := migrateSchema(db, cfg.Database.Driver, log); err != nil {
			log.Fatal("Failed to migrate database schema", zap.Error(err))
		}
	}

	// Repositories
	itemRepo := persistence.NewGormInventoryItemRepository(db.DB)
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	clientRepo := persistence.NewGormClientRepository(db.DB)
	linkRepo := persistence.NewGormInvoiceLinkRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	profileStore := persistence.NewGormProfileStore(db.DB)

	// Authority client
	zatcaClient, err := zatca.NewClient(cfg.Zatca,
		zatca.WithMetrics(invoiceMetrics),
		zatca.WithLogger(log),
	)
	if err != nil {
		log.Fatal("Failed to create ZATCA client", zap.Error(err))
	}

	// Object storage: archived responses and logos
	var (
		uploader    organizationapp.ObjectUploader
		archive     invoicingapp.DocumentArchive = invoicingapp.NoopArchive{}
		archiveLink handler.ArchiveLinker
	)
	if cfg.Storage.Enabled {
		s3Store, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to create object storage", zap.Error(err))
		}
		bucketCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := s3Store.EnsureBucket(bucketCtx); err != nil {
			log.Warn("Object storage bucket check failed", zap.Error(err))
		}
		cancel()
		responses := storage.NewResponseArchive(s3Store)
		uploader, archive, archiveLink = s3Store, responses, responses
	} else {
		log.Info("Object storage disabled, keeping uploads in memory")
		uploader = storage.NewStubObjectStorage()
	}

	// Application services
	stock := invoicingapp.NewStockCoordinator(log, invoiceMetrics)
	lifecycle := invoicingapp.NewLifecycleService(
		persistence.NewGormTransactionScope(db.DB),
		profileStore,
		zatcaClient,
		stock,
		log,
		invoicingapp.WithArchive(archive),
		invoicingapp.WithMetrics(invoiceMetrics),
	)
	itemService := inventoryapp.NewItemService(itemRepo, log)
	partyService := partnerapp.NewPartyService(accountRepo, clientRepo, linkRepo, userRepo, log)
	profileService := organizationapp.NewProfileService(
		profileStore,
		persistence.NewGormOnboardingScope(db.DB),
		zatcaClient,
		uploader,
		log,
	)

	// Idempotency-Key store
	idempotencyStore, err := cache.OpenIdempotencyStore(cfg.Redis, cfg.Idempotency, log)
	if err != nil {
		log.Fatal("Failed to open idempotency store", zap.Error(err))
	}
	defer func() { _ = idempotencyStore.Close() }()

	// Handlers
	systemHandler := handler.NewSystemHandler(cfg.App.Name, version).
		AddCheck("database", func(context.Context) error { return db.Ping() })
	if pinger, ok := idempotencyStore.(interface{ Ping(context.Context) error }); ok {
		systemHandler.AddCheck("redis", pinger.Ping)
	}

	handlers := router.Handlers{
		Invoice: handler.NewInvoiceHandler(lifecycle, archiveLink),
		Item:    handler.NewInventoryItemHandler(itemService),
		Profile: handler.NewOrgProfileHandler(profileService),
		Party:   handler.NewPartyHandler(partyService),
		System:  systemHandler,
	}

	// HTTP
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	opts := router.Options{
		ServiceName:    serviceName,
		Logger:         log,
		CORSOrigins:    cfg.HTTP.CORSAllowOrigins,
		TrustedProxies: cfg.HTTP.TrustedProxies,
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		Tracing:        tp.IsEnabled(),
		Metrics:        middleware.NewHTTPMetrics(registry),
		Gatherer:       registry,
		Idempotency: middleware.Idempotency(middleware.IdempotencyConfig{
			Store:  idempotencyStore,
			TTL:    cfg.Idempotency.TTL,
			Logger: log,
		}),
	}
	if cfg.JWT.Enabled {
		opts.Auth = middleware.JWTAuth(middleware.JWTConfig{
			Validator: auth.NewJWTService(cfg.JWT),
			Logger:    log,
		})
	} else {
		log.Warn("JWT authentication disabled, API is served unauthenticated")
	}
	if cfg.HTTP.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimit, cfg.HTTP.RateBurst)
		defer limiter.Close()
		opts.RateLimit = middleware.RateLimit(limiter)
	}

	engine, err := router.New(opts, handlers)
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	for i := len(providers) - 1; i >= 0; i-- {
		if err := providers[i].Shutdown(shutdownCtx); err != nil {
			log.Warn("Telemetry shutdown failed", zap.Error(err))
		}
	}

	log.Info("Server exited gracefully")
}

// migrateSchema applies the versioned migrations on PostgreSQL and falls
// back to model auto-migration for the other drivers
func migrateSchema(db *persistence.Database, driver string, log *zap.Logger) error {
	if driver != config.DriverPostgres {
		log.Info("Auto-migrating schema from models", zap.String("driver", driver))
		return db.AutoMigrate()
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	src, err := migration.EmbeddedSource(migrations.FS)
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB, src, log)
	if err != nil {
		return err
	}
	// Closing the migrator would close the shared connection
	return m.Up()
}
