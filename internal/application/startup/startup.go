// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"regexp"
	"syscall"
	"time"

	"github.com/anishwij/beacon-go/internal/application/container"
	"github.com/anishwij/beacon-go/internal/application/services"
	"github.com/anishwij/beacon-go/internal/domain/repositories"
	"github.com/anishwij/beacon-go/internal/infrastructure/analytics"
	"github.com/anishwij/beacon-go/internal/infrastructure/observability/logging"
	"github.com/anishwij/beacon-go/internal/infrastructure/observability/monitoring"
	"github.com/anishwij/beacon-go/internal/infrastructure/observability/performance"
	"github.com/anishwij/beacon-go/internal/infrastructure/persistence/attribution"
	"github.com/anishwij/beacon-go/internal/infrastructure/persistence/campaigns"
	"github.com/anishwij/beacon-go/internal/infrastructure/persistence/database"
	"github.com/anishwij/beacon-go/internal/presentation/http/server"
	"github.com/anishwij/beacon-go/pkg/config"
	"github.com/gin-gonic/gin"
)

// Initialize performs the complete startup sequence
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	// Step 1: Structured logging
	logger, err := logging.NewChanneledLogger(logging.DefaultLoggerConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Startup().Info("Logger initialized")

	perfTracker := performance.NewTracker()
	metrics := monitoring.NewMetrics()

	// Step 2: Attribution store - redis when configured, in-memory otherwise
	var store repositories.AttributionStore
	if config.RedisAddr != "" {
		redisStore := attribution.NewRedisStore(config.RedisAddr, config.RedisPassword, config.RedisDB, config.SessionTTL, logger)

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisStore.Ping(pingCtx)
		cancel()
		if err != nil {
			// Degraded store must not block startup; writes will be
			// counted as failures until it recovers.
			logger.Startup().Warn("Redis ping failed during startup", "error", err.Error(), "addr", config.RedisAddr)
		}
		store = redisStore
	} else {
		logger.Startup().Info("REDIS_ADDR not set - using in-memory attribution store")
		store = attribution.NewMemoryStore(config.SessionTTL, logger)
	}

	// Step 3: Campaign database
	logger.Startup().Info("Opening campaign database...")
	db, err := database.Open(config.CampaignDBPath, config.TursoDatabaseURL, config.TursoAuthToken, logger)
	if err != nil {
		return fmt.Errorf("failed to open campaign database: %w", err)
	}

	campaignRepo, err := campaigns.NewRepository(db, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize campaign repository: %w", err)
	}

	// Step 4: Interceptor exclusion policy
	exclusion, err := regexp.Compile(config.ExcludedPathPattern)
	if err != nil {
		return fmt.Errorf("invalid EXCLUDED_PATH_PATTERN: %w", err)
	}

	// Step 5: Application services
	attributionService := services.NewAttributionService(services.AttributionConfig{
		CookieName:       config.SessionCookieName,
		IDPrefix:         config.SessionIDPrefix,
		TokenLength:      config.SessionTokenLength,
		CookieMaxAge:     config.SessionCookieMaxAge,
		SecureCookies:    config.IsProduction(),
		GeoCountryHeader: config.GeoCountryHeader,
		GeoCityHeader:    config.GeoCityHeader,
		GeoFallback:      config.GeoFallback,
		WriteTimeout:     config.StoreWriteTimeout,
	}, store, logger, metrics)

	metaClient := analytics.NewMetaClient(config.MetaPixelID, config.MetaAccessToken, config.MetaAPIVersion, logger, metrics)
	attributionService.SetMetaClient(metaClient)

	campaignService := services.NewCampaignService(campaignRepo, logger)

	authService, err := services.NewAuthService(config.AdminPassword, config.JWTSecret, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize auth service: %w", err)
	}

	// Step 6: Dependency injection container
	appContainer := container.NewContainer(
		attributionService,
		campaignService,
		authService,
		store,
		logger,
		perfTracker,
		metrics,
		exclusion,
	)
	logger.Startup().Info("Dependency injection container created with singleton services")

	// Step 7: HTTP server
	httpServer := server.New(config.Port, appContainer)
	logger.Startup().Info("HTTP server initialized", "port", config.Port)

	// Step 8: Graceful shutdown wiring
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.System().Info("Starting HTTP server", "address", ":"+config.Port)
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
		}
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"port", config.Port)

	<-gracefulShutdown
	logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")

	shutdownStart := time.Now()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	if err := store.Close(); err != nil {
		logger.Shutdown().Error("Error closing attribution store", "error", err.Error())
	}
	if err := db.Close(); err != nil {
		logger.Shutdown().Error("Error closing campaign database", "error", err.Error())
	}

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	return logger.Close()
}

// setupLogging configures application logging
func setupLogging() {
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
