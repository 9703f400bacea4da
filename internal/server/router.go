package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"weatherfetcher/internal/config"
	"weatherfetcher/internal/metrics"
)

// NewRouter assembles the HTTP surface: one weather endpoint, liveness
// probe, and the metrics scrape endpoint.
func NewRouter(h *WeatherHandler, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(AccessLog)

	if cfg.RateLimitEnabled {
		r.Use(httprate.LimitByIP(cfg.RateLimitPerMin, 1*time.Minute))
	}

	r.Get("/healthz", Healthz)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/weather", h.Get)
	})

	return r
}
