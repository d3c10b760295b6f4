package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/consult-leads/internal/automation"
	httpmiddleware "github.com/wolfman30/consult-leads/internal/http/middleware"
	"github.com/wolfman30/consult-leads/internal/leads"
	"github.com/wolfman30/consult-leads/pkg/logging"
)

// edgeFunctionPrefix keeps the paths landing pages used before the move to
// this service working.
const edgeFunctionPrefix = "/functions/v1"

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	LeadsHandler       *leads.Handler
	WebhookTest        *automation.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// SubmitLimiter throttles lead submissions per client IP; nil disables it.
	SubmitLimiter httpmiddleware.Limiter
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	mountFunctions(r, cfg)
	r.Route(edgeFunctionPrefix, func(fn chi.Router) {
		mountFunctions(fn, cfg)
	})

	return r
}

func mountFunctions(r chi.Router, cfg *Config) {
	if cfg.LeadsHandler != nil {
		r.With(httpmiddleware.RateLimit(cfg.SubmitLimiter, cfg.Logger)).
			Post("/submit-lead", cfg.LeadsHandler.SubmitLead)
	}
	if cfg.WebhookTest != nil {
		r.Post("/test-webhook", cfg.WebhookTest.TestWebhook)
	}
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
