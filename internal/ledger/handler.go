package ledger

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fedeargo/agend-citas/pkg/logging"
)

// Handler serves a subject's appointment history.
type Handler struct {
	ledger Ledger
	logger *logging.Logger
}

// NewHandler creates a ledger handler.
func NewHandler(ledger Ledger, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{ledger: ledger, logger: logger}
}

// ListForSubject handles GET /appointments/{subjectID}.
func (h *Handler) ListForSubject(w http.ResponseWriter, r *http.Request) {
	subjectID := chi.URLParam(r, "subjectID")
	if subjectID == "" {
		http.Error(w, "missing subject id", http.StatusBadRequest)
		return
	}

	appointments := h.ledger.BySubject(subjectID)
	if appointments == nil {
		appointments = []EnrichedAppointment{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"appointments": appointments}); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
