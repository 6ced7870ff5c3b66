// Package router wires up all API gateway routes and applies the middleware
// chain (RequestID → CORS → RateLimit).
package router

import (
	"net/http"

	gwhandler "github.com/telugupadalu/dictionary/internal/gateway/handler"
	gwmw "github.com/telugupadalu/dictionary/internal/gateway/middleware"
	"github.com/telugupadalu/dictionary/internal/gateway/ratelimit"
	pkgmw "github.com/telugupadalu/dictionary/pkg/middleware"
)

// New builds the gateway HTTP handler.
//
// Route table:
//
//	GET    /api/v1/search/{entry}               → search service
//	GET    /api/v1/search                       → search service
//	GET    /api/v1/cache/stats                  → search service
//	POST   /api/v1/cache/invalidate             → search service
//	POST   /api/v1/words                        → ingestion service
//	GET    /api/v1/words/{headword}             → ingestion service
//	POST   /api/v1/words/{headword}/synonyms    → ingestion service
//	POST   /api/v1/words/{headword}/links       → ingestion service
//	GET    /api/v1/analytics                    → analytics service
//	GET    /health                              → gateway health
//
// clients decides which address each request is charged to; nil charges the
// socket peer.
func New(h *gwhandler.Handler, limiter *ratelimit.Limiter, limit int, clients *gwmw.ClientIdentifier, cors pkgmw.CORSConfig) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health)

	mux.HandleFunc("GET /api/v1/search/{entry}", h.ProxySearch)
	mux.HandleFunc("GET /api/v1/search", h.ProxySearch)
	mux.HandleFunc("GET /api/v1/cache/stats", h.ProxySearch)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.ProxySearch)

	mux.HandleFunc("POST /api/v1/words", h.ProxyWords)
	mux.HandleFunc("GET /api/v1/words/{headword}", h.ProxyWords)
	mux.HandleFunc("POST /api/v1/words/{headword}/synonyms", h.ProxyWords)
	mux.HandleFunc("POST /api/v1/words/{headword}/links", h.ProxyWords)

	mux.HandleFunc("GET /api/v1/analytics", h.ProxyAnalytics)

	var chain http.Handler = mux
	chain = gwmw.RateLimit(limiter, limit, clients)(chain)
	chain = pkgmw.CORS(cors)(chain)
	chain = pkgmw.RequestID(chain)
	return chain
}
