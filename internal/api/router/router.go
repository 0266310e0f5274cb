package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fedeargo/agend-citas/internal/agent"
	"github.com/fedeargo/agend-citas/internal/directory"
	"github.com/fedeargo/agend-citas/internal/ledger"
	"github.com/fedeargo/agend-citas/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger           *logging.Logger
	ChatHandler      *agent.Handler
	DirectoryHandler *directory.Handler
	LedgerHandler    *ledger.Handler
	MetricsHandler   http.Handler
}

// New creates a Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Get("/health", healthCheck)

	if cfg.ChatHandler != nil {
		r.Post("/chat", cfg.ChatHandler.Chat)
	}
	if cfg.DirectoryHandler != nil {
		r.Get("/providers", cfg.DirectoryHandler.ListProviders)
		r.Get("/specialties", cfg.DirectoryHandler.ListSpecialties)
	}
	if cfg.LedgerHandler != nil {
		r.Get("/appointments/{subjectID}", cfg.LedgerHandler.ListForSubject)
	}
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
