package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/notaria4/notaria4/internal/api/handlers"
	"github.com/notaria4/notaria4/internal/api/middleware"
	"github.com/notaria4/notaria4/internal/metrics"
	"github.com/notaria4/notaria4/internal/service"
)

// Dependencies are the services the router wires into handlers
type Dependencies struct {
	Fiscal      *service.FiscalService
	Complements *service.ComplementService
	Invoices    *service.InvoiceService
	Catalog     *service.CatalogService
	Auth        *service.AuthService
	// RateLimit is nil when Redis is not configured
	RateLimit    *service.RateLimitService
	DailyLimit   int
	MonthlyLimit int

	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}

// NewRouter creates and configures the HTTP router
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recoverer(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(deps.Logger, deps.Metrics))
	r.Use(middleware.CORS)

	readyChecks := map[string]handlers.ReadinessCheck{
		"catalog": deps.Catalog.Ping,
	}
	if deps.RateLimit != nil {
		readyChecks["redis"] = deps.RateLimit.Ping
	}
	readyHandler := handlers.NewReadyHandler(readyChecks)

	// Health checks (no auth required)
	r.Get("/health", handlers.Health)
	r.Get("/ready", readyHandler.Ready)
	r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))

	// Create handlers
	fiscalHandler := handlers.NewFiscalHandler(deps.Fiscal, deps.Logger, deps.Metrics)
	invoiceHandler := handlers.NewInvoiceHandler(deps.Invoices, deps.Catalog, deps.Logger, deps.Metrics)
	complementHandler := handlers.NewComplementHandler(deps.Complements, deps.Catalog, deps.Logger, deps.Metrics)
	catalogHandler := handlers.NewCatalogHandler(deps.Catalog, deps.Logger)

	// Create middleware
	authMiddleware := middleware.NewAuthMiddleware(deps.Auth)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(deps.RateLimit, deps.DailyLimit, deps.MonthlyLimit, deps.Logger)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		r.Use(rateLimitMiddleware.RateLimit)

		r.Post("/fiscal/calculate", fiscalHandler.Calculate)
		r.Post("/invoices/compute", invoiceHandler.Compute)
		r.Post("/complements/notarios", complementHandler.Build)

		r.Route("/catalogs", func(r chi.Router) {
			r.Get("/property-types", catalogHandler.ListPropertyTypes)
			r.Get("/property-types/{code}", catalogHandler.GetPropertyType)
		})
	})

	return r
}
