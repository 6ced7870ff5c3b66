package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/telugupadalu/dictionary/internal/analytics"
	"github.com/telugupadalu/dictionary/internal/dictionary"
	"github.com/telugupadalu/dictionary/internal/language"
	"github.com/telugupadalu/dictionary/internal/searcher/cache"
	apperrors "github.com/telugupadalu/dictionary/pkg/errors"
	"github.com/telugupadalu/dictionary/pkg/logger"
	"github.com/telugupadalu/dictionary/pkg/middleware"
	"github.com/telugupadalu/dictionary/pkg/tracing"
)

// Resolver resolves one entry against the index for a language.
type Resolver interface {
	Resolve(ctx context.Context, entry string, lang language.Language) (*dictionary.Result, error)
}

// BucketCache is the resolver's in-process prefix bucket cache.
type BucketCache interface {
	PurgeBuckets()
	CachedBuckets() int
}

// LookupResponse is the body of a successful lookup.
type LookupResponse struct {
	Type     dictionary.Kind `json:"type"`
	Items    []string        `json:"items"`
	Query    string          `json:"query"`
	Language string          `json:"language"`
}

type Handler struct {
	resolver Resolver
	buckets  BucketCache
	cache    *cache.LookupCache
	tracker  analytics.Tracker
	tracing  bool
	logger   *slog.Logger
}

// Option configures optional Handler collaborators.
type Option func(*Handler)

func WithCache(c *cache.LookupCache) Option  { return func(h *Handler) { h.cache = c } }
func WithTracker(t analytics.Tracker) Option { return func(h *Handler) { h.tracker = t } }
func WithBucketCache(b BucketCache) Option   { return func(h *Handler) { h.buckets = b } }
func WithTracing(enabled bool) Option        { return func(h *Handler) { h.tracing = enabled } }

func New(resolver Resolver, opts ...Option) *Handler {
	h := &Handler{
		resolver: resolver,
		logger:   slog.Default().With("component", "search-handler"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the search and cache routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/search/{entry}", h.Search)
	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)
}

// Search serves GET /api/v1/search/{entry}?language=TELUGU|ENGLISH. The
// entry may also be given as ?q= on /api/v1/search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	entry := r.PathValue("entry")
	if entry == "" {
		entry = r.URL.Query().Get("q")
	}

	if h.tracing {
		var span *tracing.Span
		ctx, span = tracing.StartSpan(ctx, "lookup", middleware.GetRequestID(r))
		defer func() {
			span.End()
			span.Log(log)
		}()
	}

	lang, err := language.Route(entry, r.URL.Query().Get("language"))
	var (
		result   *dictionary.Result
		cacheHit bool
	)
	if err == nil {
		result, cacheHit, err = h.resolve(ctx, entry, lang)
	}
	outcome := dictionary.Outcome(result, err)
	latency := time.Since(start)

	if h.tracker != nil {
		items := 0
		if result != nil {
			items = len(result.Items)
		}
		h.tracker.Track(analytics.NewLookupEvent(entry, lang.String(), outcome, items, latency, cacheHit, middleware.GetRequestID(r)))
	}

	if err != nil {
		status := apperrors.HTTPStatusCode(err)
		if errors.Is(err, apperrors.ErrMalformedQuery) {
			log.Info("malformed lookup", "entry", entry, "error", err)
			h.writeError(w, status, err.Error())
			return
		}
		if ctx.Err() != nil {
			log.Info("lookup abandoned", "entry", entry, "error", err)
			return
		}
		log.Error("lookup failed", "entry", entry, "language", lang.String(), "error", err)
		h.writeError(w, status, "dictionary temporarily unavailable")
		return
	}

	log.Info("lookup completed",
		"entry", entry,
		"language", lang.String(),
		"type", result.Kind,
		"items", len(result.Items),
		"cache_hit", cacheHit,
		"latency_us", latency.Microseconds(),
	)
	h.writeJSON(w, http.StatusOK, LookupResponse{
		Type:     result.Kind,
		Items:    result.Items,
		Query:    entry,
		Language: lang.String(),
	})
}

func (h *Handler) resolve(ctx context.Context, entry string, lang language.Language) (*dictionary.Result, bool, error) {
	if h.cache == nil {
		res, err := h.resolver.Resolve(ctx, entry, lang)
		return res, false, err
	}
	return h.cache.GetOrCompute(ctx, lang, entry, func(ctx context.Context) (*dictionary.Result, error) {
		return h.resolver.Resolve(ctx, entry, lang)
	})
}

func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	stats := map[string]any{}
	if h.buckets != nil {
		stats["buckets"] = h.buckets.CachedBuckets()
	}
	if h.cache == nil {
		stats["status"] = "disabled"
		h.writeJSON(w, http.StatusOK, stats)
		return
	}

	hits, misses, keys, err := h.cache.Stats(r.Context())
	if err != nil {
		h.logger.Warn("counting cached lookups failed", "error", err)
	}
	total := hits + misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total)
	}
	stats["status"] = "enabled"
	stats["hits"] = hits
	stats["misses"] = misses
	stats["total"] = total
	stats["hit_rate"] = hitRate
	stats["keys"] = keys
	h.writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.buckets != nil {
		h.buckets.PurgeBuckets()
	}
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]any{"status": "invalidated", "keys_deleted": 0})
		return
	}

	deleted, err := h.cache.Invalidate(r.Context())
	if err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "cache invalidation failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"status": "invalidated", "keys_deleted": deleted})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
