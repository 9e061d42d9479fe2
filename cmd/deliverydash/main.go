package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"deliverydash/internal/config"
	"deliverydash/internal/database"
	"deliverydash/internal/handler"
	"deliverydash/internal/service"
	"deliverydash/internal/worker"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fetcher := service.NewDataFetcher(cfg.APIBaseURL, cfg.FetchTimeout, log)

	// Dashboard
	dashboard := service.NewDashboardViewModel(fetcher, log)
	views := service.NewViewFormatter(cfg.Locale)

	// Driver panel
	var db *sql.DB
	if cfg.Driver.Source == "postgres" {
		db, err = database.NewDB(ctx, cfg.DatabaseURI)
		if err != nil {
			slog.Error("failed to connect to DB", "error", err)
			os.Exit(1)
		}
		defer database.CloseDB(db)

		if err := database.CheckPedidos(ctx, db); err != nil {
			slog.Error("unusable pedidos table", "error", err)
			os.Exit(1)
		}
	}

	source := newOrderSource(cfg, fetcher, db)
	orders, closeOrders, err := newOrderService(cfg, fetcher, log)
	if err != nil {
		slog.Error("failed to set up delivery backend", "error", err)
		os.Exit(1)
	}
	defer closeOrders()

	panel := service.NewDeliveryOrderPanel(cfg.Driver.Profile, source, orders, log)
	if err := panel.Refresh(ctx); err != nil {
		slog.Warn("initial assignment load failed", "error", err)
	}
	assignments := worker.NewAssignmentWorker(panel, cfg.Driver.PollInterval, log)

	srv := &http.Server{
		Addr:        cfg.RunAddress,
		Handler:     handler.NewRouter(dashboard, views, panel, log),
		ReadTimeout: 10 * time.Second,
	}

	go assignments.Start(ctx)
	go func() {
		if _, err := dashboard.Load(ctx); err != nil && !errors.Is(err, service.ErrSuperseded) {
			slog.Warn("initial dashboard load failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	slog.Info("starting server", "addr", cfg.RunAddress, "api", cfg.APIBaseURL)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-quit
	slog.Info("shutting down...")

	cancel()
	ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()

	if err := srv.Shutdown(ctxShut); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	slog.Info("server stopped")
}

func newOrderSource(cfg *config.Config, fetcher *service.DataFetcher, db *sql.DB) service.OrderSource {
	switch cfg.Driver.Source {
	case "http":
		return service.NewHTTPOrderSource(fetcher, cfg.Driver.Profile.ID, cfg.Driver.OrderState)
	case "postgres":
		return service.NewPgOrderSource(db, cfg.Driver.Profile.ID, cfg.Driver.OrderState)
	default:
		return service.NewStaticOrderSource(cfg.Driver.Orders)
	}
}

func newOrderService(cfg *config.Config, fetcher *service.DataFetcher, log *slog.Logger) (service.OrderService, func(), error) {
	switch cfg.Delivery.Backend {
	case "http":
		return service.NewHTTPOrderService(fetcher, cfg.Driver.Profile.ID), func() {}, nil
	case "nats":
		svc, err := service.NewNATSOrderService(cfg.Delivery.NATSURL, cfg.Delivery.NATSSubject, cfg.Driver.Profile.ID)
		if err != nil {
			return nil, nil, err
		}
		return svc, func() { _ = svc.Close() }, nil
	default:
		return service.NewAckOrderService(log), func() {}, nil
	}
}
