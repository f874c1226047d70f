package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/carebook/appointment-platform/pkg/logging"
)

// Handler wires HTTP requests to the appointments repository.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates an appointments handler.
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /appointments?patient_id= / ?doctor_id=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		found []Appointment
		err   error
	)
	switch {
	case q.Get("patient_id") != "":
		var id int64
		if id, err = strconv.ParseInt(q.Get("patient_id"), 10, 64); err != nil {
			http.Error(w, "Invalid patient_id", http.StatusBadRequest)
			return
		}
		found, err = h.repo.ListByPatient(r.Context(), id)
	case q.Get("doctor_id") != "":
		var id int64
		if id, err = strconv.ParseInt(q.Get("doctor_id"), 10, 64); err != nil {
			http.Error(w, "Invalid doctor_id", http.StatusBadRequest)
			return
		}
		found, err = h.repo.ListByDoctor(r.Context(), id)
	default:
		http.Error(w, "patient_id or doctor_id is required", http.StatusBadRequest)
		return
	}

	if err != nil {
		h.logger.Error("failed to list appointments", "error", err)
		http.Error(w, "Failed to list appointments", http.StatusInternalServerError)
		return
	}
	if found == nil {
		found = []Appointment{}
	}
	h.writeJSON(w, http.StatusOK, found)
}

// Get handles GET /appointments/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid appointment id", http.StatusBadRequest)
		return
	}

	a, err := h.repo.GetByID(r.Context(), id)
	if errors.Is(err, ErrAppointmentNotFound) {
		http.Error(w, "Appointment not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to get appointment", "error", err, "appointment_id", id)
		http.Error(w, "Failed to get appointment", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, a)
}

// Cancel handles POST /appointments/{id}/cancel.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, StatusCancelled)
}

// Complete handles POST /appointments/{id}/complete.
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, StatusCompleted)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, next Status) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid appointment id", http.StatusBadRequest)
		return
	}

	a, err := h.repo.UpdateStatus(r.Context(), id, next)
	switch {
	case errors.Is(err, ErrAppointmentNotFound):
		http.Error(w, "Appointment not found", http.StatusNotFound)
		return
	case errors.Is(err, ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		h.logger.Error("failed to update appointment status",
			"error", err,
			"appointment_id", id,
			"next_status", string(next),
		)
		http.Error(w, "Failed to update appointment", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, a)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
