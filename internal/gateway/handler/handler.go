// Package handler implements the API gateway endpoints: reverse proxies to
// the search, ingestion and analytics services plus the gateway's own health
// check.
package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/telugupadalu/dictionary/pkg/logger"
	"github.com/telugupadalu/dictionary/pkg/middleware"
)

// Config holds the URLs of the backend services.
type Config struct {
	SearcherURL  string
	IngestionURL string
	AnalyticsURL string
}

type Handler struct {
	searchProxy    *httputil.ReverseProxy
	ingestionProxy *httputil.ReverseProxy
	analyticsProxy *httputil.ReverseProxy
	logger         *slog.Logger
}

func New(cfg Config) (*Handler, error) {
	h := &Handler{logger: slog.Default().With("component", "gateway-handler")}
	var err error
	if h.searchProxy, err = h.newProxy("searcher", cfg.SearcherURL); err != nil {
		return nil, err
	}
	if h.ingestionProxy, err = h.newProxy("ingestion", cfg.IngestionURL); err != nil {
		return nil, err
	}
	if h.analyticsProxy, err = h.newProxy("analytics", cfg.AnalyticsURL); err != nil {
		return nil, err
	}
	return h, nil
}

// newProxy forwards to target, passing the request id upstream and
// answering 502 when the service is unreachable.
func (h *Handler) newProxy(name, target string) (*httputil.ReverseProxy, error) {
	u, err := url.Parse(target)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid %s url %q", name, target)
	}
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(u)
			pr.SetXForwarded()
			if id := logger.RequestID(pr.In.Context()); id != "" {
				pr.Out.Header.Set(middleware.RequestIDHeader, id)
			}
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.FromContext(r.Context()).Error("upstream request failed",
				"service", name,
				"path", r.URL.Path,
				"error", err,
			)
			h.writeError(w, http.StatusBadGateway, name+" service unavailable")
		},
	}, nil
}

func (h *Handler) ProxySearch(w http.ResponseWriter, r *http.Request) {
	h.searchProxy.ServeHTTP(w, r)
}

func (h *Handler) ProxyWords(w http.ResponseWriter, r *http.Request) {
	h.ingestionProxy.ServeHTTP(w, r)
}

func (h *Handler) ProxyAnalytics(w http.ResponseWriter, r *http.Request) {
	h.analyticsProxy.ServeHTTP(w, r)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "gateway"})
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
