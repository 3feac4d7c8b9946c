// Package api wires the HTTP surface: routing, middleware and handlers.
package api

import (
	"net/http"

	"github.com/sadewadee/linkedin-jobs-scraper/internal/api/handlers"
)

// Router sets up all API routes
type Router struct {
	mux    *http.ServeMux
	jobs   *handlers.JobHandler
	cache  *handlers.CacheHandler
	stats  *handlers.StatsHandler
	export *handlers.ExportHandler
	health *handlers.HealthHandler
}

// NewRouter creates a new Router
func NewRouter(
	jobs *handlers.JobHandler,
	cacheHandler *handlers.CacheHandler,
	stats *handlers.StatsHandler,
	export *handlers.ExportHandler,
	health *handlers.HealthHandler,
) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		jobs:   jobs,
		cache:  cacheHandler,
		stats:  stats,
		export: export,
		health: health,
	}
}

// Setup configures all routes
func (r *Router) Setup(token string) http.Handler {
	r.mux.HandleFunc("/health", r.health.Get)

	// Job endpoints
	r.mux.HandleFunc("/api/v1/jobs", r.jobs.Get)
	r.mux.HandleFunc("/api/v1/jobs/search", r.jobs.Search)
	r.mux.HandleFunc("/api/v1/jobs/status", r.jobs.UpdateStatus)
	r.mux.HandleFunc("/api/v1/jobs/stats", r.stats.Get)
	r.mux.HandleFunc("/api/v1/jobs/export", r.export.Export)

	// Cache management
	r.mux.HandleFunc("/api/v1/cache/status", r.cache.Status)
	r.mux.HandleFunc("/api/v1/cache/clear", r.cache.Clear)

	// Reference data
	r.mux.HandleFunc("/api/v1/categories", r.jobs.Categories)
	r.mux.HandleFunc("/api/v1/companies", r.jobs.Companies)

	// Apply middleware
	return Chain(r.mux,
		Recovery,
		Logger,
		CORS,
		SecurityHeaders,
		Auth(token),
	)
}
