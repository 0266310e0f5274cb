package agent

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/fedeargo/agend-citas/pkg/logging"
)

type chatRequest struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

type chatResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	ThreadID string `json:"thread_id,omitempty"`
}

const apologyMessage = "I am sorry, something went wrong while handling your request. Please try again."

// Handler exposes the assistant over HTTP.
type Handler struct {
	agent  *Agent
	logger *logging.Logger
}

func NewHandler(agent *Agent, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{agent: agent, logger: logger}
}

// Chat handles POST /chat. State-backend failures surface as 500; anything
// the assistant can apologize for stays a 200 with success=false.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, chatResponse{Success: false, Message: "invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" || strings.TrimSpace(req.UserID) == "" {
		writeJSON(w, http.StatusBadRequest, chatResponse{Success: false, Message: "message and user_id are required"})
		return
	}

	reply, err := h.agent.Respond(r.Context(), req.UserID, req.Message)
	if err != nil {
		if errors.Is(err, ErrStateStore) {
			h.logger.Error("conversation state backend failed", "thread_id", req.UserID, "error", err)
			writeJSON(w, http.StatusInternalServerError, chatResponse{Success: false, Message: apologyMessage, ThreadID: req.UserID})
			return
		}
		h.logger.Warn("chat turn failed", "thread_id", req.UserID, "error", err)
		writeJSON(w, http.StatusOK, chatResponse{Success: false, Message: apologyMessage, ThreadID: req.UserID})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Success: true, Message: reply, ThreadID: req.UserID})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
