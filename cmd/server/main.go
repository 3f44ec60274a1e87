// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shelfsense/backend/internal/analytics"
	"github.com/shelfsense/backend/internal/api"
	"github.com/shelfsense/backend/internal/cache"
	"github.com/shelfsense/backend/internal/config"
	"github.com/shelfsense/backend/internal/repository/postgres"
	"github.com/shelfsense/backend/internal/service"
	"github.com/shelfsense/backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Repositories
	catalogRepo := postgres.NewCatalogRepository(db)
	timeseriesRepo := postgres.NewTimeseriesRepository(db)
	transferRepo := postgres.NewTransferRepository(db)
	telemetryRepo := postgres.NewTelemetryRepository(db)

	// Caches degrade to no-ops when redis is disabled or unreachable.
	overviewCache, err := cache.NewOverviewCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("overview cache unavailable, running without")
		overviewCache = cache.NewNoopOverviewCache()
	}
	transferCache, err := cache.NewTransferSummaryCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("transfer cache unavailable, running without")
		transferCache = cache.NewNoopTransferSummaryCache()
	}

	// Engine and services
	engine := analytics.NewEngine(cfg.Engine)
	transferService := service.NewTransferService(engine, catalogRepo, timeseriesRepo, transferRepo, transferCache, overviewCache)
	services := &api.Services{
		Overview:  service.NewOverviewService(engine, timeseriesRepo, transferService, overviewCache),
		SKU:       service.NewSKUService(engine, catalogRepo, timeseriesRepo, overviewCache),
		Transfers: transferService,
		PeakHours: service.NewPeakHourService(engine, catalogRepo, timeseriesRepo),
		Telemetry: service.NewTelemetryService(catalogRepo, telemetryRepo),
	}

	// Initialize HTTP server
	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
