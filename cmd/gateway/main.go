// Command gateway starts the API gateway service.
//
// The gateway is the single entry point for browsers and other clients. It
// applies CORS and per-client rate limiting and proxies dictionary lookups,
// word writes and analytics requests to the backing services.
//
// Usage:
//
//	go run ./cmd/gateway [-config configs/development.yaml]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gwhandler "github.com/telugupadalu/dictionary/internal/gateway/handler"
	gwmw "github.com/telugupadalu/dictionary/internal/gateway/middleware"
	"github.com/telugupadalu/dictionary/internal/gateway/ratelimit"
	"github.com/telugupadalu/dictionary/internal/gateway/router"
	"github.com/telugupadalu/dictionary/pkg/config"
	"github.com/telugupadalu/dictionary/pkg/logger"
	"github.com/telugupadalu/dictionary/pkg/metrics"
	"github.com/telugupadalu/dictionary/pkg/middleware"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting gateway service",
		"port", cfg.Gateway.Port,
		"searcher_url", cfg.Gateway.SearcherURL,
		"ingestion_url", cfg.Gateway.IngestionURL,
		"analytics_url", cfg.Gateway.AnalyticsURL,
	)

	h, err := gwhandler.New(gwhandler.Config{
		SearcherURL:  cfg.Gateway.SearcherURL,
		IngestionURL: cfg.Gateway.IngestionURL,
		AnalyticsURL: cfg.Gateway.AnalyticsURL,
	})
	if err != nil {
		slog.Error("invalid gateway config", "error", err)
		os.Exit(1)
	}

	clients, err := gwmw.NewClientIdentifier(cfg.Gateway.TrustedProxies)
	if err != nil {
		slog.Error("invalid trusted proxies", "error", err)
		os.Exit(1)
	}

	limiter := ratelimit.New(time.Minute)
	defer limiter.Stop()

	var chain http.Handler = router.New(h, limiter, cfg.Gateway.RateLimit, clients, middleware.DefaultCORSConfig())
	if cfg.Metrics.Enabled {
		m := metrics.New()
		chain = middleware.Metrics(m)(chain)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Gateway.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	drained := make(chan struct{})
	go func() {
		defer close(drained)
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("gateway service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	// ListenAndServe returns as soon as Shutdown starts; in-flight handlers
	// must finish before deferred closes run.
	<-drained

	slog.Info("gateway service stopped")
}
