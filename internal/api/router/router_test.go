package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/carebook/appointment-platform/internal/appointments"
	"github.com/carebook/appointment-platform/internal/conversation"
	"github.com/carebook/appointment-platform/internal/doctors"
	"github.com/carebook/appointment-platform/internal/observability/metrics"
	"github.com/carebook/appointment-platform/internal/patients"
	"github.com/carebook/appointment-platform/internal/schedule"
	"github.com/carebook/appointment-platform/internal/triage"
	"github.com/carebook/appointment-platform/pkg/logging"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()
	logger := logging.New("error")

	docRepo := doctors.NewInMemoryRepository()
	if err := docRepo.SeedDemo(ctx); err != nil {
		t.Fatalf("seeding doctors failed: %v", err)
	}
	patientRepo := patients.NewInMemoryRepository()
	if _, err := patientRepo.Create(ctx, &patients.CreatePatientRequest{
		Name: "Guest", Email: "guest@example.com",
	}); err != nil {
		t.Fatalf("creating guest patient failed: %v", err)
	}
	apptRepo := appointments.NewInMemoryRepository()
	ledger := schedule.NewMemoryLedger()

	reg := prometheus.NewRegistry()
	engine := conversation.NewEngine(conversation.Config{
		Store:             conversation.NewMemoryStore(0),
		Resolver:          triage.NewResolver(nil, logger),
		Matcher:           doctors.NewMatcher(docRepo, ledger),
		Ledger:            ledger,
		Patients:          patientRepo,
		Appointments:      apptRepo,
		Metrics:           metrics.NewBookingMetrics(reg),
		Logger:            logger,
		GuestEmail:        "guest@example.com",
		BookingWindowDays: 90,
	})

	handler := New(&Config{
		Logger:              logger,
		ChatHandler:         conversation.NewHandler(engine, logger),
		DoctorsHandler:      doctors.NewHandler(docRepo, logger),
		PatientsHandler:     patients.NewHandler(patientRepo, logger),
		AppointmentsHandler: appointments.NewHandler(apptRepo, logger),
		MetricsHandler:      promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		CORSAllowedOrigins:  []string{"*"},
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body failed: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
}

func TestDoctorsEndpointFilters(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/doctors?specialty=Cardiology")
	if err != nil {
		t.Fatalf("GET /doctors failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var found []doctors.Doctor
	if err := json.NewDecoder(resp.Body).Decode(&found); err != nil {
		t.Fatalf("decoding body failed: %v", err)
	}
	if len(found) == 0 {
		t.Fatal("expected seeded cardiologists")
	}
	for _, d := range found {
		if d.Specialty != "Cardiology" {
			t.Errorf("filter leaked specialty %q", d.Specialty)
		}
	}
}

func TestChatRoutesAreWired(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/chat/start", "application/json",
		strings.NewReader(`{"user_id":"u1","symptoms":"I have chest pain"}`))
	if err != nil {
		t.Fatalf("POST /chat/start failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decoding body failed: %v", err)
	}
	if result["step"] != "LOCATION" {
		t.Errorf("step = %v, want LOCATION", result["step"])
	}
}

func TestMetricsEndpointExposed(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestUnknownRouteReturns404(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/nope")
	if err != nil {
		t.Fatalf("GET /nope failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}
