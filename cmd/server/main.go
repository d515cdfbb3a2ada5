package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/notaria4/notaria4/internal/api"
	"github.com/notaria4/notaria4/internal/config"
	"github.com/notaria4/notaria4/internal/metrics"
	"github.com/notaria4/notaria4/internal/repository"
	"github.com/notaria4/notaria4/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	// Catalog store: Postgres when configured, otherwise the built-in catalog
	var store service.CatalogStore
	if cfg.DatabaseURL != "" {
		catalogRepo, err := repository.NewCatalogRepository(cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer catalogRepo.Close()
		store = catalogRepo
	} else {
		logger.Info("DATABASE_URL not set, using built-in catalog")
		store = repository.NewMemoryCatalog()
	}

	var rateLimitService *service.RateLimitService
	if cfg.RedisURL != "" {
		rateLimitService, err = service.NewRateLimitService(cfg.RedisURL)
		if err != nil {
			logger.Error("failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer rateLimitService.Close()
	} else {
		logger.Info("REDIS_URL not set, rate limiting disabled")
	}

	// Initialize services
	fiscalService := service.NewFiscalService(cfg.Fiscal,
		service.WithFiscalLogger(logger),
		service.WithStrictTaxpayerID(cfg.StrictTaxpayerID),
	)
	complementService := service.NewComplementService(
		service.WithNotaryDefaults(service.NotaryDefaults{
			Number:      cfg.NotaryNumber,
			State:       cfg.NotaryState,
			Adscription: cfg.NotaryAdscription,
		}),
		service.WithRequireBuyerCURP(cfg.RequireBuyerCURP),
		service.WithComplementLogger(logger),
	)
	invoiceService := service.NewInvoiceService(fiscalService, complementService)
	catalogService := service.NewCatalogService(store)
	authService := service.NewAuthService(cfg.JWTSecret, cfg.APIKeys)
	if !authService.Enabled() {
		logger.Warn("no JWT_SECRET or API_KEY_HASHES configured, API is unauthenticated")
	}

	// Set up router
	router := api.NewRouter(api.Dependencies{
		Fiscal:       fiscalService,
		Complements:  complementService,
		Invoices:     invoiceService,
		Catalog:      catalogService,
		Auth:         authService,
		RateLimit:    rateLimitService,
		DailyLimit:   cfg.DefaultDailyLimit,
		MonthlyLimit: cfg.DefaultMonthlyLimit,
		Logger:       logger,
		Metrics:      metrics.New(prometheus.DefaultRegisterer),
		Gatherer:     prometheus.DefaultGatherer,
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return
	}

	logger.Info("server exited gracefully")
}
