package doctors

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/carebook/appointment-platform/pkg/logging"
)

func newTestRouter(repo Repository) http.Handler {
	h := NewHandler(repo, logging.Default())
	r := chi.NewRouter()
	r.Get("/doctors", h.List)
	r.Get("/doctors/{id}", h.Get)
	r.Post("/doctors", h.Create)
	return r
}

func TestListDoctorsWithFilters(t *testing.T) {
	repo := NewInMemoryRepository()
	if err := repo.SeedDemo(context.Background()); err != nil {
		t.Fatal(err)
	}
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/doctors?specialty=neuro&min_rating=4.5", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var found []Doctor
	if err := json.NewDecoder(w.Body).Decode(&found); err != nil {
		t.Fatal(err)
	}
	if len(found) != 2 {
		t.Errorf("expected 2 neurologists above 4.5, got %d", len(found))
	}
}

func TestGetDoctorNotFound(t *testing.T) {
	router := newTestRouter(NewInMemoryRepository())

	req := httptest.NewRequest(http.MethodGet, "/doctors/99", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestCreateDoctor(t *testing.T) {
	repo := NewInMemoryRepository()
	router := newTestRouter(repo)

	body, _ := json.Marshal(CreateDoctorRequest{
		Name:      "Dr. New",
		Specialty: "Cardiology",
		Location:  "Downtown Medical Center",
		Rating:    4.0,
	})
	req := httptest.NewRequest(http.MethodPost, "/doctors", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}

	var d Doctor
	if err := json.NewDecoder(w.Body).Decode(&d); err != nil {
		t.Fatal(err)
	}
	if d.ID == 0 {
		t.Error("expected created doctor to get an id")
	}
}

func TestCreateDoctorValidation(t *testing.T) {
	router := newTestRouter(NewInMemoryRepository())

	body, _ := json.Marshal(CreateDoctorRequest{Specialty: "Cardiology"})
	req := httptest.NewRequest(http.MethodPost, "/doctors", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing name, got %d", w.Code)
	}
}
