// Command searcher starts the dictionary lookup service.
//
// It resolves Telugu and English entries against the configured key store,
// caches results in Redis when available, drops cached results when the
// ingestion service announces new words, and publishes lookup analytics.
//
// Usage:
//
//	go run ./cmd/searcher [-config configs/development.yaml]
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
	"github.com/telugupadalu/dictionary/internal/dictionary"
	"github.com/telugupadalu/dictionary/internal/searcher/cache"
	"github.com/telugupadalu/dictionary/internal/searcher/handler"
	"github.com/telugupadalu/dictionary/internal/searcher/invalidator"
	"github.com/telugupadalu/dictionary/internal/store"
	"github.com/telugupadalu/dictionary/pkg/config"
	"github.com/telugupadalu/dictionary/pkg/health"
	"github.com/telugupadalu/dictionary/pkg/kafka"
	"github.com/telugupadalu/dictionary/pkg/logger"
	"github.com/telugupadalu/dictionary/pkg/metrics"
	"github.com/telugupadalu/dictionary/pkg/middleware"
	pkgredis "github.com/telugupadalu/dictionary/pkg/redis"
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
	slog.Info("starting search service",
		"port", cfg.Server.Port,
		"store", cfg.Store.Backend,
		"alternate_estimates", cfg.Resolver.AlternateEstimates,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	backend, closeStore, err := store.OpenShared(ctx, cfg)
	if err != nil {
		slog.Error("failed to open key store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	opts := dictionary.OptionsFromConfig(cfg.Resolver)
	opts.Metrics = m
	resolver, err := dictionary.NewResolver(backend, opts)
	if err != nil {
		slog.Error("failed to create resolver", "error", err)
		os.Exit(1)
	}

	var lookupCache *cache.LookupCache
	redisClient, err := pkgredis.NewClient(cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, lookup caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		lookupCache = cache.New(redisClient, cfg.Redis.CacheTTL, m)
		slog.Info("lookup cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
	}

	analyticsProducer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.AnalyticsEvents)
	defer analyticsProducer.Close()
	collector := analytics.NewCollector(analyticsProducer, cfg.Analytics.BufferSize)
	collector.Start(context.Background())
	defer collector.Close()

	// Every replica keeps its own bucket cache, so each needs every word
	// event: the consumer group is per host.
	host, _ := os.Hostname()
	wordConsumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.Topics.WordEvents,
		fmt.Sprintf("%s-searcher-%s", cfg.Kafka.ConsumerGroup, host),
		invalidator.Handler(resolver, optionalResults(lookupCache)),
	)
	go func() {
		if err := wordConsumer.Start(ctx); err != nil {
			slog.Error("word event consumer error", "error", err)
		}
	}()

	checker := health.NewChecker()
	checker.Register("key_store", health.Ping(true, backend.Ping))
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if redisClient == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		return health.Ping(false, redisClient.Ping)(ctx)
	})

	h := handler.New(resolver,
		handler.WithCache(lookupCache),
		handler.WithTracker(collector),
		handler.WithBucketCache(resolver),
		handler.WithTracing(cfg.Tracing.Enabled),
	)

	mux := http.NewServeMux()
	h.Register(mux)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())
	mux.Handle("GET /metrics", metrics.Handler())

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

	slog.Info("search service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	// ListenAndServe returns as soon as Shutdown starts; in-flight handlers
	// must finish before deferred closes run.
	<-drained

	slog.Info("search service stopped")
}

// optionalResults avoids handing the invalidator a typed nil.
func optionalResults(c *cache.LookupCache) invalidator.ResultInvalidator {
	if c == nil {
		return nil
	}
	return c
}
