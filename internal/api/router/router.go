package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/carebook/appointment-platform/internal/appointments"
	"github.com/carebook/appointment-platform/internal/conversation"
	"github.com/carebook/appointment-platform/internal/doctors"
	httpmiddleware "github.com/carebook/appointment-platform/internal/http/middleware"
	"github.com/carebook/appointment-platform/internal/patients"
	"github.com/carebook/appointment-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	ChatHandler         *conversation.Handler
	DoctorsHandler      *doctors.Handler
	PatientsHandler     *patients.Handler
	AppointmentsHandler *appointments.Handler
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string

	// RateLimitPerSecond <= 0 disables rate limiting.
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}
	if cfg.RateLimitPerSecond > 0 {
		r.Use(httpmiddleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
	}

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.ChatHandler != nil {
		r.Route("/chat", func(chat chi.Router) {
			chat.Post("/start", cfg.ChatHandler.Start)
			chat.Post("/message", cfg.ChatHandler.Message)
			chat.Post("/reset", cfg.ChatHandler.Reset)
			chat.Get("/{userID}/step", cfg.ChatHandler.Step)
		})
	}

	if cfg.DoctorsHandler != nil {
		r.Route("/doctors", func(dr chi.Router) {
			dr.Get("/", cfg.DoctorsHandler.List)
			dr.Post("/", cfg.DoctorsHandler.Create)
			dr.Get("/{id}", cfg.DoctorsHandler.Get)
		})
	}

	if cfg.PatientsHandler != nil {
		r.Route("/patients", func(pr chi.Router) {
			pr.Post("/", cfg.PatientsHandler.Register)
			pr.Get("/{id}", cfg.PatientsHandler.Get)
		})
	}

	if cfg.AppointmentsHandler != nil {
		r.Route("/appointments", func(ar chi.Router) {
			ar.Get("/", cfg.AppointmentsHandler.List)
			ar.Get("/{id}", cfg.AppointmentsHandler.Get)
			ar.Post("/{id}/cancel", cfg.AppointmentsHandler.Cancel)
			ar.Post("/{id}/complete", cfg.AppointmentsHandler.Complete)
		})
	}

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
