package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/jashshah854-a11y/ACE-V4-sub001/app"
	"github.com/jashshah854-a11y/ACE-V4-sub001/handlers"
)

// SetupRoutes configures the run-inspector routes and middleware. Every
// endpoint is read-only: mutation belongs to the pipeline worker, not HTTP.
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "https://*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", handlers.HealthCheck(deps))
	r.Get("/readyz", handlers.ReadinessCheck(deps))

	r.Route("/api/v1/runs", func(r chi.Router) {
		r.Get("/", handlers.ListRunsHandler(deps))
		r.Route("/{runID}", func(r chi.Router) {
			r.Get("/manifest", handlers.GetManifestHandler(deps))
			r.Get("/trust", handlers.GetTrustHandler(deps))
			r.Get("/render-policy", handlers.GetRenderPolicyHandler(deps))
			r.Get("/invariants", handlers.GetInvariantsHandler(deps))
			r.Get("/seal", handlers.GetSealHandler(deps))
			r.Get("/gate/{agent}", handlers.GetGateDecisionHandler(deps))
		})
	})

	return r
}
