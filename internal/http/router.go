package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/athaapa/clamp/internal/handlers"
	"github.com/athaapa/clamp/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	VersionControl    service.VersionControl
	Health            handlers.HealthChecker
	DefaultCollection string
	Logger            *slog.Logger
	// Gatherer serves /metrics when set.
	Gatherer prometheus.Gatherer
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(CORS)
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(RequestLogger)

	healthHandler := handlers.NewHealthHandler(deps.Health)
	groupHandler := handlers.NewGroupHandler(deps.VersionControl, deps.DefaultCollection)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", healthHandler)
		r.Get("/groups", groupHandler.List)
		r.Route("/groups/{group}", func(r chi.Router) {
			r.Delete("/", groupHandler.Purge)
			r.Post("/commits", groupHandler.Ingest)
			r.Get("/commits", groupHandler.History)
			r.Get("/status", groupHandler.Status)
			r.Post("/rollback", groupHandler.Rollback)
			r.Get("/filter", groupHandler.Filter)
			r.Post("/search", groupHandler.Search)
		})
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	return r
}
