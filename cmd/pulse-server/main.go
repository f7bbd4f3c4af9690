// Package main provides the dashboard simulation server entry point.
package main

import (
	"context"
	"flag"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mediminder/pulse/internal/api/handlers"
	"github.com/mediminder/pulse/internal/api/middleware"
	"github.com/mediminder/pulse/internal/clock"
	"github.com/mediminder/pulse/internal/config"
	"github.com/mediminder/pulse/internal/dataset"
	"github.com/mediminder/pulse/internal/eventbus"
	"github.com/mediminder/pulse/internal/observability/metrics"
	"github.com/mediminder/pulse/internal/observability/tracing"
	"github.com/mediminder/pulse/internal/riskengine"
	"github.com/mediminder/pulse/internal/scenario"
	"github.com/mediminder/pulse/internal/state"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}
	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	logger := newLogger(cfg.Logging)
	defer logger.Sync()

	// Tracing
	if cfg.Tracing.Enabled {
		provider, err := tracing.Init(context.Background(), tracing.Config{
			ServiceName:    "pulse-server",
			ServiceVersion: "0.1.0",
			Environment:    cfg.Tracing.Environment,
			OTLPEndpoint:   cfg.Tracing.OTLPEndpoint,
			SampleRate:     cfg.Tracing.SampleRate,
		})
		if err != nil {
			logger.Fatal("tracing init failed", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			provider.Shutdown(ctx)
		}()
	}

	m := metrics.New()
	clk := clock.NewReal()

	// Static dataset, generated once from the configured seed.
	store := dataset.Generate(dataset.GenerateConfig{
		Hospitals: cfg.Dataset.Hospitals,
		Doctors:   cfg.Dataset.Doctors,
		Patients:  cfg.Dataset.Patients,
		Seed:      cfg.Dataset.Seed,
	})
	logger.Info("dataset generated",
		zap.Int("hospitals", cfg.Dataset.Hospitals),
		zap.Int("doctors", cfg.Dataset.Doctors),
		zap.Int("patients", store.TotalPatients()),
		zap.Int64("seed", cfg.Dataset.Seed))

	// Core simulation components.
	bus := eventbus.New(eventbus.Config{
		MinInterval: cfg.Stream.MinInterval,
		MaxInterval: cfg.Stream.MaxInterval,
	}, clk, rand.New(rand.NewSource(time.Now().UnixNano())), logger)

	engine := riskengine.New(store, clk, rand.New(rand.NewSource(time.Now().UnixNano())), logger)
	states := state.New(store, engine, bus, clk, rand.New(rand.NewSource(time.Now().UnixNano())), logger)
	defer states.Close()
	sched := scenario.New(bus, states, clk, logger)

	// Metric wiring: the bus and state manager stay metrics-free; everything
	// observable hangs off subscriptions and hooks.
	bus.Subscribe(eventbus.TypeAll, func(e eventbus.Event) {
		m.EventsEmitted.WithLabelValues(string(e.Type), string(e.Severity)).Inc()
	})
	states.SetHooks(state.Hooks{
		FoldDuration:    func(d time.Duration) { m.FoldDuration.Observe(d.Seconds()) },
		ListenerFailure: func() { m.ListenerFailures.Inc() },
	})
	states.Subscribe(func(s state.AppState) {
		m.StateChanges.Inc()
		m.ActiveRiskAlerts.Set(float64(s.SystemMetrics.ActiveAlerts))
		m.PendingActions.Set(float64(s.SystemMetrics.PendingActions))
		m.AssessmentsCached.Set(float64(len(engine.GetAllRiskAssessments())))
		if sched.IsActive() {
			m.ScenarioActive.Set(1)
		} else {
			m.ScenarioActive.Set(0)
		}
	})

	// Prime the assessment cache for the initial patient sample.
	engine.InitializeAllRiskAssessments(context.Background())

	if cfg.Stream.AutoStart {
		bus.Start()
		logger.Info("event stream auto-started")
	}

	// Handlers
	stateHandler := handlers.NewStateHandler(states, logger)
	riskHandler := handlers.NewRiskHandler(engine, logger)
	scenarioHandler := handlers.NewScenarioHandler(sched, logger)

	// Setup router
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS)
	r.Use(middleware.Recover(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Tracing("pulse-server"))

	r.Get("/health", healthHandler)
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ready"))
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		stateHandler.Register(api)
		api.Mount("/risk", riskHandler.Routes())
		api.Mount("/scenarios", scenarioHandler.Routes())
		api.Mount("/simulate", scenarioHandler.SimulateRoutes())
		api.Mount("/stream", scenarioHandler.StreamRoutes())
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down server")
		sched.StopScenario()
		bus.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("shutdown error", zap.Error(err))
		}
	}()

	logger.Info("starting pulse server", zap.String("addr", cfg.Server.Addr))
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}

	logger.Info("server stopped")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func newLogger(cfg config.LoggingConfig) *zap.Logger {
	var zc zap.Config
	if cfg.Format == "text" {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	logger, err := zc.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
