// Command ingestion starts the dictionary write service.
//
// It validates new words, stores them in the key store and publishes a word
// event so search replicas drop cached lookups the new word could change.
//
// Usage:
//
//	go run ./cmd/ingestion [-config configs/development.yaml]
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

	"github.com/telugupadalu/dictionary/internal/analytics"
	"github.com/telugupadalu/dictionary/internal/ingestion/handler"
	"github.com/telugupadalu/dictionary/internal/ingestion/publisher"
	"github.com/telugupadalu/dictionary/internal/store"
	"github.com/telugupadalu/dictionary/pkg/config"
	"github.com/telugupadalu/dictionary/pkg/health"
	"github.com/telugupadalu/dictionary/pkg/kafka"
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
	slog.Info("starting ingestion service", "port", cfg.Server.Port, "store", cfg.Store.Backend)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	if cfg.Metrics.Enabled {
		shutdownMetrics, err := metrics.StartServer(cfg.Metrics.Port)
		if err != nil {
			slog.Error("failed to start metrics server", "error", err)
			os.Exit(1)
		}
		defer shutdownMetrics(context.Background())
	}

	backend, closeStore, err := store.OpenShared(ctx, cfg)
	if err != nil {
		slog.Error("failed to open key store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	wordProducer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.WordEvents)
	defer wordProducer.Close()
	analyticsProducer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.AnalyticsEvents)
	defer analyticsProducer.Close()
	collector := analytics.NewCollector(analyticsProducer, cfg.Analytics.BufferSize)
	collector.Start(context.Background())
	defer collector.Close()

	pub := publisher.New(backend, wordProducer, collector, m)
	h := handler.New(pub)

	checker := health.NewChecker()
	checker.Register("key_store", health.Ping(true, backend.Ping))

	mux := http.NewServeMux()
	h.Register(mux)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	chain = middleware.Metrics(m)(chain)
	chain = middleware.RequestID(chain)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

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

	slog.Info("ingestion service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	// ListenAndServe returns as soon as Shutdown starts; in-flight handlers
	// must finish before deferred closes run.
	<-drained

	slog.Info("ingestion service stopped")
}
