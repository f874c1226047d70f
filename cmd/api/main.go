package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/carebook/appointment-platform/internal/api/router"
	"github.com/carebook/appointment-platform/internal/appointments"
	appconfig "github.com/carebook/appointment-platform/internal/config"
	"github.com/carebook/appointment-platform/internal/conversation"
	"github.com/carebook/appointment-platform/internal/doctors"
	"github.com/carebook/appointment-platform/internal/observability/metrics"
	"github.com/carebook/appointment-platform/internal/patients"
	"github.com/carebook/appointment-platform/internal/schedule"
	"github.com/carebook/appointment-platform/internal/triage"
	"github.com/carebook/appointment-platform/pkg/logging"
)

func main() {
	// Load .env in local development; ignored when absent.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting appointment-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Persistence: Postgres when configured, in-memory otherwise.
	var (
		doctorRepo  doctors.Repository
		patientRepo patients.Repository
		apptRepo    appointments.Repository
		ledger      schedule.Ledger
	)
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			logger.Error("failed to ping database", "error", err)
			os.Exit(1)
		}
		doctorRepo = doctors.NewPostgresRepository(db)
		patientRepo = patients.NewPostgresRepository(db)
		apptRepo = appointments.NewPostgresRepository(db)
		ledger = schedule.NewPostgresLedger(db)
		logger.Info("using postgres persistence")
	} else {
		memDoctors := doctors.NewInMemoryRepository()
		if err := memDoctors.SeedDemo(ctx); err != nil {
			logger.Error("failed to seed demo doctors", "error", err)
			os.Exit(1)
		}
		memPatients := patients.NewInMemoryRepository()
		if _, err := memPatients.Create(ctx, &patients.CreatePatientRequest{
			Name:  "Guest",
			Email: cfg.GuestPatientEmail,
		}); err != nil {
			logger.Error("failed to create guest patient", "error", err)
			os.Exit(1)
		}
		doctorRepo = memDoctors
		patientRepo = memPatients
		apptRepo = appointments.NewInMemoryRepository()
		ledger = schedule.NewMemoryLedger()
		logger.Info("using in-memory persistence with demo data")
	}

	// Session store: Redis when configured, in-process otherwise.
	var store conversation.Store
	if cfg.RedisAddr != "" {
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Error("failed to ping redis", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		store = conversation.NewRedisStore(client, cfg.SessionTTL)
		logger.Info("using redis session store", "ttl", cfg.SessionTTL)
	} else {
		store = conversation.NewMemoryStore(cfg.SessionTTL)
		logger.Info("using in-memory session store", "ttl", cfg.SessionTTL)
	}

	var classifier triage.Classifier
	if cfg.ClassifierURL != "" {
		classifier = triage.NewHTTPClassifier(cfg.ClassifierURL, cfg.ClassifierTimeout, cfg.ClassifierConfidenceThreshold)
		logger.Info("external symptom classifier enabled", "url", cfg.ClassifierURL)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	engine := conversation.NewEngine(conversation.Config{
		Store:             store,
		Resolver:          triage.NewResolver(classifier, logger.WithComponent("triage")),
		Matcher:           doctors.NewMatcher(doctorRepo, ledger),
		Ledger:            ledger,
		Patients:          patientRepo,
		Appointments:      apptRepo,
		Metrics:           metrics.NewBookingMetrics(registry),
		Logger:            logger.WithComponent("conversation"),
		GuestEmail:        cfg.GuestPatientEmail,
		BookingWindowDays: cfg.BookingWindowDays,
	})

	r := router.New(&router.Config{
		Logger:              logger,
		ChatHandler:         conversation.NewHandler(engine, logger.WithComponent("chat")),
		DoctorsHandler:      doctors.NewHandler(doctorRepo, logger.WithComponent("doctors")),
		PatientsHandler:     patients.NewHandler(patientRepo, logger.WithComponent("patients")),
		AppointmentsHandler: appointments.NewHandler(apptRepo, logger.WithComponent("appointments")),
		MetricsHandler:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		RateLimitPerSecond:  cfg.RateLimitPerSecond,
		RateLimitBurst:      cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
