// Package main is the entry point for the rentals admin API server.
// It wires dependencies together and starts the server; no business logic
// belongs here.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/glirentals/rentals-admin/internal/config"
	"github.com/glirentals/rentals-admin/internal/events"
	"github.com/glirentals/rentals-admin/internal/handler"
	"github.com/glirentals/rentals-admin/internal/metrics"
	"github.com/glirentals/rentals-admin/internal/middleware"
	"github.com/glirentals/rentals-admin/internal/repo"
	"github.com/glirentals/rentals-admin/internal/service"
	"github.com/glirentals/rentals-admin/internal/telemetry"
	"github.com/glirentals/rentals-admin/migrations"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// The JSON logger is not configured yet.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	// --- Tracing ----------------------------------------------------------
	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("tracer shutdown", "error", err)
		}
	}()

	// --- Database ---------------------------------------------------------
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("create database pool: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	logger.Info("database connection established")

	if cfg.MigrateOnStart {
		db := stdlib.OpenDBFromPool(pool)
		n, err := migrations.Up(ctx, db)
		db.Close()
		if err != nil {
			return err
		}
		logger.Info("migrations applied", "count", n)
	}

	// --- Metrics ----------------------------------------------------------
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	// --- Events -----------------------------------------------------------
	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		logger.Info("publishing booking events", "topic", cfg.KafkaTopic)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("event publisher close", "error", err)
		}
	}()

	// --- Services ---------------------------------------------------------
	trailers := repo.NewTrailerRepo(pool)
	customers := repo.NewCustomerRepo(pool)
	bookings := repo.NewBookingRepo(pool)

	svc := handler.Services{
		Trailers:  service.NewTrailerService(trailers, bookings),
		Customers: service.NewCustomerService(customers, bookings),
		Bookings: service.NewBookingService(service.BookingDeps{
			Bookings:  bookings,
			Trailers:  trailers,
			Customers: customers,
			Pricing:   cfg.Settings.Pricing,
			Events:    publisher,
			Metrics:   m,
			Logger:    logger,
		}),
		Availability: service.NewAvailabilityService(trailers, bookings, m),
		Calendar:     service.NewCalendarService(trailers, bookings),
		Dashboard:    service.NewDashboardService(trailers, bookings),
		Reports:      service.NewReportService(trailers, bookings),
		Export:       service.NewExportService(trailers, bookings),
		DB:           pool,
		Settings:     cfg.Settings,
	}

	// --- Rate limiting ----------------------------------------------------
	var limiter middleware.Limiter
	switch {
	case cfg.RateLimit <= 0:
	case cfg.RedisURL != "":
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parse REDIS_URL: %w", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		limiter = middleware.NewRedisLimiter(rdb, cfg.RateLimit, time.Minute, "rentals:rl")
	default:
		limiter = middleware.NewMemoryLimiter(cfg.RateLimit, time.Minute)
	}

	// --- Router -----------------------------------------------------------
	// Order: RequestID, RealIP, access log, metrics, Recoverer, then the
	// request-shaping middleware.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(middleware.NewMetricsHandler(m))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	if limiter != nil {
		r.Use(middleware.NewRateLimitHandler(limiter, logger))
	}

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Mount("/", handler.NewServer(svc, logger).Routes())

	// --- HTTP Server ------------------------------------------------------
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      otelhttp.NewHandler(r, cfg.Telemetry.ServiceName),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second, // spreadsheet exports
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("shutting down server")

	sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
