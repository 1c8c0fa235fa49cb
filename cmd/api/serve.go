package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/config"
	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/handler"
	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/metrics"
	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/middleware"
	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/notify"
	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/repo"
	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/service"
)

func serveCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if migrate {
				if err := withProvider(cmd.Context(), func(ctx context.Context, p *goose.Provider) error {
					_, err := p.Up(ctx)
					return err
				}); err != nil {
					return err
				}
			}
			return serve(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before serving")
	return cmd
}

func serve(ctx context.Context) error {
	// --- Config -----------------------------------------------------------
	cfg, logger, err := loadConfig()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	policy, err := config.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		return err
	}

	// --- Database ---------------------------------------------------------
	// New() does not open connections immediately; the first query does.
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("create database pool: %w", err)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	logger.Info("database connection established")

	// --- Notifications ----------------------------------------------------
	var nc *nats.Conn
	if cfg.NATSURL != "" {
		nc, err = nats.Connect(cfg.NATSURL,
			nats.Name("dispatch-api"),
			nats.MaxReconnects(-1),
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				logger.Warn("nats disconnected", "error", err)
			}),
			nats.ReconnectHandler(func(c *nats.Conn) {
				logger.Info("nats reconnected", "url", c.ConnectedUrl())
			}),
		)
		if err != nil {
			return fmt.Errorf("connect to nats: %w", err)
		}
		defer func() { _ = nc.Drain() }()
		logger.Info("publishing changes", "url", cfg.NATSURL, "prefix", cfg.NATSSubjectPrefix)
	}

	deps := service.Deps{
		Publisher: notify.NewPublisher(nc, cfg.NATSSubjectPrefix),
	}
	if cfg.TelegramEnabled() {
		desk, err := notify.NewDispatchDesk(cfg.TelegramBotToken, "", cfg.TelegramDispatchChatID)
		if err != nil {
			return err
		}
		deps.Desk = desk
		logger.Info("dispatch desk notices enabled", "chat_id", cfg.TelegramDispatchChatID)
	}

	// --- Metrics ----------------------------------------------------------
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// --- Service ----------------------------------------------------------
	deps.Trips = repo.NewTripRepo(pool)
	deps.Assignments = repo.NewAssignmentRepo(pool)
	deps.Messages = repo.NewMessageRepo(pool)
	deps.Drivers = repo.NewDriverRepo(pool)
	deps.Vehicles = repo.NewVehicleRepo(pool)
	deps.Clients = repo.NewClientRepo(pool)
	deps.Tx = repo.NewTransactor(pool)
	deps.Metrics = metrics.New(reg)
	deps.Logger = logger
	deps.Policy = policy
	deps.StoreTimeout = cfg.StoreTimeout

	dispatch := service.NewDispatchService(deps)

	// --- Router -----------------------------------------------------------
	// RequestID generates a unique trace ID per request.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP.
	// SlogLogger writes one structured JSON log line per request.
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(middleware.NewHTTPMetrics(reg))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	handler.NewServer(dispatch, logger).Mount(r)

	// --- HTTP Server ------------------------------------------------------
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for a signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
