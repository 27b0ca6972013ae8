package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opsdeck/incident-intel/internal/cache"
	"github.com/opsdeck/incident-intel/internal/config"
	"github.com/opsdeck/incident-intel/internal/feed"
	"github.com/opsdeck/incident-intel/internal/incident"
	"github.com/opsdeck/incident-intel/internal/metrics"
	"github.com/opsdeck/incident-intel/internal/store"
)

// storeFetcher adapts the REST client to the poller's fetch interface.
type storeFetcher struct {
	client *store.Client
}

func (f storeFetcher) List(ctx context.Context, q cache.Query) ([]incident.Incident, error) {
	return f.client.List(ctx, store.Query(q))
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	setupLogging(cfg.LogLevel)
	metrics.Register()

	slog.Info("ragfeed starting", "port", cfg.FeedPort, "cache_dir", cfg.CacheDir)

	if cfg.SupabaseURL == "" || cfg.SupabaseKey == "" {
		slog.Error("SUPABASE_URL and SUPABASE_ANON_KEY are required")
		os.Exit(1)
	}
	st := store.NewClient(cfg.SupabaseURL, cfg.SupabaseKey)

	c := cache.New()
	writer := cache.NewArtifactWriter(cfg.CacheDir, slog.Default())
	poller := cache.NewPoller(storeFetcher{st}, c, writer, cfg.PollInterval, cfg.FetchLimit, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	poller.Start(ctx)
	defer poller.Stop()

	srv := feed.NewServer(cfg.FeedPort, c, slog.Default())
	httpSrv := &http.Server{Addr: srv.Addr(), Handler: srv.Handler()}
	go func() {
		slog.Info("feed listening", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("shutdown incomplete", "error", err)
	}
	poller.Stop()
	slog.Info("ragfeed stopped")
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
