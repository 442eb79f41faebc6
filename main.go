package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := NewAPIConfig(os.Stdout)
	if err != nil {
		newLogger(os.Stdout, false).Error("failed to load configuration", "error", err)
		return 1
	}
	cfg.logger.Debug("configuration loaded")

	db, err := cfg.ConnectDB(ctx)
	if err != nil {
		cfg.logger.Error("couldn't connect to database", "error", err)
		return 1
	}
	defer db.Close()

	closeSessions, err := cfg.ConnectSessions(ctx)
	if err != nil {
		cfg.logger.Error("couldn't connect to cache", "error", err)
		return 1
	}
	defer closeSessions()

	if err := cfg.LoadCatalog(); err != nil {
		cfg.logger.Error("failed to load city catalog", "error", err)
		return 1
	}
	if err := cfg.ensureDefaultEvent(ctx); err != nil {
		cfg.logger.Error("failed to prepare default event", "error", err)
		return 1
	}

	scheduler := NewScheduler(cfg, cfg.schedulerInterval)
	cfg.logger.Info("starting scheduler", "interval", cfg.schedulerInterval.String())
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              ":" + cfg.port,
		Handler:           cfg.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		cfg.logger.Info("starting server", "port", cfg.port)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			cfg.logger.Error("server startup failed", "error", err)
			return 1
		}
	case <-ctx.Done():
		cfg.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			cfg.logger.Error("graceful shutdown failed", "error", err)
			return 1
		}
	}
	return 0
}

func (cfg *apiConfig) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)

	r.Get("/healthz", cfg.handlerHealthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/bot", func(r chi.Router) {
		r.Post("/start", cfg.handlerBotStart)
		r.Post("/message", cfg.handlerBotMessage)
		r.Post("/action", cfg.handlerBotAction)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(corsMiddleware)
		r.Use(cfg.requireAdmin)
		r.Get("/events", cfg.handlerListEvents)
		r.Post("/events", cfg.handlerCreateEvent)
		r.Get("/events/{id}", cfg.handlerGetEvent)
		r.Delete("/events/{id}", cfg.handlerDeleteEvent)
		r.Post("/events/{id}/toggle", cfg.handlerToggleEvent)
		r.Get("/stats", cfg.handlerStats)
		r.Get("/export", cfg.handlerExport)
	})

	return r
}
