// Package router wires the HTTP surface: the public lead intake and
// catalog endpoints, the admin catalog mutations, health and metrics.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	httpmiddleware "github.com/crescentview/leadgate/internal/http/middleware"
	"github.com/crescentview/leadgate/internal/leads"
	"github.com/crescentview/leadgate/internal/projects"
	"github.com/crescentview/leadgate/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger          *logging.Logger
	LeadsHandler    *leads.Handler
	ProjectsHandler *projects.Handler
	MetricsHandler  http.Handler

	CORSAllowedOrigins []string
	AdminJWTSecret     string

	// Per-IP token bucket on the lead intake endpoint.
	LeadRateLimit float64
	LeadRateBurst int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// Public site endpoints
	r.Route("/api", func(api chi.Router) {
		if cfg.LeadsHandler != nil {
			lead := api.With()
			if cfg.LeadRateLimit > 0 && cfg.LeadRateBurst > 0 {
				lead = api.With(httpmiddleware.RateLimit(cfg.LeadRateLimit, cfg.LeadRateBurst))
			}
			lead.Post("/lead", cfg.LeadsHandler.Create)
		}
		if cfg.ProjectsHandler != nil {
			api.Mount("/projects", cfg.ProjectsHandler.Routes())
		}
	})

	// Admin endpoints (JWT protected)
	if cfg.ProjectsHandler != nil {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminJWTSecret))
			admin.Mount("/projects", cfg.ProjectsHandler.AdminRoutes())
		})
	}

	return r
}
