package main

import (
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/danielhkuo/quickly-survey/analytics"
	"github.com/danielhkuo/quickly-survey/cliparse"
	"github.com/danielhkuo/quickly-survey/db"
	"github.com/danielhkuo/quickly-survey/export"
	"github.com/danielhkuo/quickly-survey/metrics"
	"github.com/danielhkuo/quickly-survey/middleware"
	"github.com/danielhkuo/quickly-survey/response"
	"github.com/danielhkuo/quickly-survey/router"
	"github.com/danielhkuo/quickly-survey/scheduler"
	"github.com/danielhkuo/quickly-survey/store"
	"github.com/danielhkuo/quickly-survey/survey"
)

func main() {
	var err error

	// .env is optional; real environment variables take precedence
	if err := cliparse.LoadDotEnv(); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, nil)
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, nil)
	}
	slog.SetDefault(slog.New(handler))

	dialect, err := db.ParseDialect(cfg.DatabaseType)
	if err != nil {
		slog.Error("invalid database type", "error", err)
		os.Exit(1)
	}

	// Connect and verify
	dbConn, err := db.Open(dialect, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "dialect", dialect)

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	st := store.New(dbConn, dialect)
	surveySvc := survey.New(st, survey.WithBaseURL(cfg.PublicBaseURL), survey.WithMetrics(m))
	responseSvc := response.New(st, cfg.IPHashSalt, response.WithMetrics(m))
	analyticsSvc := analytics.New(st)
	exportSvc := export.New(st, export.WithMetrics(m))

	// Materialize overdue expirations in the background
	sweeper, err := scheduler.New(cfg.ExpireSweepSpec, surveySvc)
	if err != nil {
		slog.Error("invalid expiry schedule", "spec", cfg.ExpireSweepSpec, "error", err)
		os.Exit(1)
	}
	sweeper.Start()

	// Create router
	mux := router.NewRouter(router.Deps{
		Surveys:   surveySvc,
		Responses: responseSvc,
		Analytics: analyticsSvc,
		Exports:   exportSvc,
		Metrics:   m,
	})

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		<-sweeper.Stop().Done()
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "metrics", cfg.MetricsEnabled)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
