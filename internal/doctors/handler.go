package doctors

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/carebook/appointment-platform/pkg/logging"
)

// Handler wires HTTP requests to the doctors repository.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a doctors handler.
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /doctors with optional specialty/location/max_fee/
// min_rating query filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := Filter{
		Specialty: q.Get("specialty"),
		Location:  q.Get("location"),
	}
	if v := q.Get("max_fee"); v != "" {
		if fee, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxFee = fee
		}
	}
	if v := q.Get("min_rating"); v != "" {
		if rating, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinRating = rating
		}
	}

	found, err := h.repo.Find(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list doctors", "error", err)
		http.Error(w, "Failed to list doctors", http.StatusInternalServerError)
		return
	}
	if found == nil {
		found = []Doctor{}
	}
	h.writeJSON(w, http.StatusOK, found)
}

// Get handles GET /doctors/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid doctor id", http.StatusBadRequest)
		return
	}

	doc, err := h.repo.GetByID(r.Context(), id)
	if errors.Is(err, ErrDoctorNotFound) {
		http.Error(w, "Doctor not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to get doctor", "error", err, "doctor_id", id)
		http.Error(w, "Failed to get doctor", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, doc)
}

// Create handles POST /doctors.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	doc, err := h.repo.Create(r.Context(), &req)
	if errors.Is(err, ErrInvalidName) || errors.Is(err, ErrInvalidSpecialty) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logger.Error("failed to create doctor", "error", err)
		http.Error(w, "Failed to create doctor", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusCreated, doc)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
