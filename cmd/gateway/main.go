package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opsdeck/incident-intel/internal/api"
	"github.com/opsdeck/incident-intel/internal/config"
	"github.com/opsdeck/incident-intel/internal/events"
	"github.com/opsdeck/incident-intel/internal/feed"
	"github.com/opsdeck/incident-intel/internal/metrics"
	"github.com/opsdeck/incident-intel/internal/rag"
	"github.com/opsdeck/incident-intel/internal/store"
	"github.com/opsdeck/incident-intel/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	setupLogging(cfg.LogLevel)
	metrics.Register()

	slog.Info("gateway starting", "port", cfg.GatewayPort)

	if cfg.SupabaseURL == "" || cfg.SupabaseKey == "" {
		slog.Error("SUPABASE_URL and SUPABASE_ANON_KEY are required")
		os.Exit(1)
	}
	st := store.NewClient(cfg.SupabaseURL, cfg.SupabaseKey)
	fd := feed.NewClient(cfg.FeedURL)
	rg := rag.NewClient(cfg.RAGAnswerURL)
	registry := ws.NewRegistry(slog.Default())

	// Event mirror is optional — the gateway works without NATS, the
	// WebSocket fan-out is the primary channel.
	var mirror *events.Publisher
	if cfg.NatsURL != "" {
		mirror, err = events.Connect(cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer mirror.Close()
		slog.Info("event mirror ready", "url", cfg.NatsURL)
	} else {
		slog.Warn("NATS not configured — running without event mirror")
	}

	srv := api.NewServer(cfg.GatewayPort, st, fd, rg, registry, mirror, slog.Default())
	httpSrv := &http.Server{Addr: srv.Addr(), Handler: srv.Handler()}
	go func() {
		slog.Info("gateway listening", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("shutdown incomplete", "error", err)
	}
	slog.Info("gateway stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
