package conversation

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/carebook/appointment-platform/pkg/logging"
)

// Handler exposes the booking dialogue over HTTP.
type Handler struct {
	engine *Engine
	logger *logging.Logger
}

// NewHandler creates a chat handler.
func NewHandler(engine *Engine, logger *logging.Logger) *Handler {
	return &Handler{engine: engine, logger: logger}
}

type startRequest struct {
	UserID   string `json:"user_id"`
	Symptoms string `json:"symptoms,omitempty"`
}

type messageRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type resetRequest struct {
	UserID string `json:"user_id"`
}

type stepResponse struct {
	UserID string `json:"user_id"`
	Step   string `json:"step"`
	Active bool   `json:"active"`
}

// Start handles POST /chat/start. An optional symptoms field skips the
// opening question.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.UserID) == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	var (
		result *Result
		err    error
	)
	if strings.TrimSpace(req.Symptoms) != "" {
		result, err = h.engine.StartWithSymptoms(r.Context(), req.UserID, req.Symptoms)
	} else {
		result, err = h.engine.Start(r.Context(), req.UserID)
	}
	if err != nil {
		h.logger.Error("failed to start conversation", "error", err, "user_id", req.UserID)
		http.Error(w, "Failed to start conversation", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// Message handles POST /chat/message.
func (h *Handler) Message(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.UserID) == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	result, err := h.engine.Continue(r.Context(), req.UserID, req.Message)
	if err != nil {
		h.logger.Error("failed to process message", "error", err, "user_id", req.UserID)
		http.Error(w, "Failed to process message", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// Reset handles POST /chat/reset.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.UserID) == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	if err := h.engine.Reset(r.Context(), req.UserID); err != nil {
		h.logger.Error("failed to reset conversation", "error", err, "user_id", req.UserID)
		http.Error(w, "Failed to reset conversation", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Step handles GET /chat/{userID}/step.
func (h *Handler) Step(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		http.Error(w, "user id is required", http.StatusBadRequest)
		return
	}

	step, active, err := h.engine.CurrentStep(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to look up session step", "error", err, "user_id", userID)
		http.Error(w, "Failed to look up session", http.StatusInternalServerError)
		return
	}

	resp := stepResponse{UserID: userID, Active: active}
	if active {
		resp.Step = step.String()
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
