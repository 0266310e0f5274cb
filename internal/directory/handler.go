package directory

import (
	"encoding/json"
	"net/http"

	"github.com/fedeargo/agend-citas/pkg/logging"
)

// Handler serves the read-only reference listings.
type Handler struct {
	store  Store
	logger *logging.Logger
}

// NewHandler creates a directory handler.
func NewHandler(store Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

// ListProviders handles GET /providers.
func (h *Handler) ListProviders(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]any{"providers": h.store.Providers()})
}

// ListSpecialties handles GET /specialties.
func (h *Handler) ListSpecialties(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]any{"specialties": h.store.Specialties()})
}

func (h *Handler) writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
