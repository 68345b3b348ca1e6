package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/cognicore/medex/internal/api/handlers"
	mw "github.com/cognicore/medex/internal/api/middleware"
)

// Config holds HTTP-layer settings.
type Config struct {
	RateLimitRPS   float64
	RateLimitBurst int
	// RequestTimeout bounds a single request; zero means no timeout.
	RequestTimeout time.Duration
}

// NewRouter wires the diagnosis endpoints over svc.
func NewRouter(svc handlers.Diagnoser, logger *zap.Logger, cfg Config) *chi.Mux {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := handlers.NewDiagnosisHandler(svc, logger)

	r := chi.NewRouter()

	// order matters
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	if cfg.RateLimitRPS > 0 {
		r.Use(mw.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	}
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	r.Get("/health", healthHandler(svc))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/symptoms", h.Symptoms)
		r.Get("/rules", h.Rules)
		r.Post("/diagnose", h.Diagnose)
		r.Route("/illnesses", func(r chi.Router) {
			r.Get("/", h.Illnesses)
			r.Get("/{name}", h.Illness)
		})
	})

	return r
}

func healthHandler(svc handlers.Diagnoser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":    "ok",
			"illnesses": len(svc.Illnesses()),
		})
	}
}
