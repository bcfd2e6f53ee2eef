// Package httpapi exposes the transaction service over JSON/HTTP.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"outgo/internal/cache"
	"outgo/internal/core"
	"outgo/internal/middleware/ratelimit"
	"outgo/internal/middleware/trace"
	"outgo/internal/service"
)

const listCacheKey = "transactions:all"

// Options configures the API surface around the handlers.
type Options struct {
	CORSOrigin      string
	CacheTTL        time.Duration
	CacheMaxEntries int
	RateLimit       ratelimit.Config
}

// DefaultOptions returns the settings used when a field is left zero.
func DefaultOptions() Options {
	return Options{
		CORSOrigin:      "*",
		CacheTTL:        30 * time.Second,
		CacheMaxEntries: 64,
		RateLimit:       ratelimit.DefaultConfig(),
	}
}

// API holds the handler dependencies: the transaction service, the list
// response cache and the middleware stack.
type API struct {
	svc        *service.TransactionService
	listCache  *cache.LRUCache[[]core.Transaction]
	limiter    *ratelimit.Limiter
	tracer     *trace.Middleware
	corsOrigin string
	uptime     time.Time
}

func NewAPI(svc *service.TransactionService, opts Options) *API {
	defaults := DefaultOptions()
	if opts.CORSOrigin == "" {
		opts.CORSOrigin = defaults.CORSOrigin
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaults.CacheTTL
	}
	if opts.CacheMaxEntries <= 0 {
		opts.CacheMaxEntries = defaults.CacheMaxEntries
	}

	return &API{
		svc:        svc,
		listCache:  cache.NewLRUCache[[]core.Transaction](opts.CacheMaxEntries, opts.CacheTTL),
		limiter:    ratelimit.NewLimiter(opts.RateLimit),
		tracer:     trace.NewMiddleware(),
		corsOrigin: opts.CORSOrigin,
		uptime:     time.Now(),
	}
}

// ListCache exposes the response cache for cleanup registration.
func (a *API) ListCache() cache.Cleaner {
	return a.listCache
}

// Stop releases middleware resources.
func (a *API) Stop() {
	a.limiter.Stop()
}

// Router assembles the route table and middleware chain.
func (a *API) Router() http.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/transactions", a.handleList).Methods(http.MethodGet)
	api.HandleFunc("/transactions", a.handleCreate).Methods(http.MethodPost)
	api.HandleFunc("/transactions/{id}", a.handleDelete).Methods(http.MethodDelete)

	r.HandleFunc("/healthz", a.handleHealth).Methods(http.MethodGet)

	handler := a.limiter.Middleware(trace.ClientIP)(r)
	handler = a.tracer.Middleware(handler)
	return a.corsMiddleware(handler)
}

// corsMiddleware mirrors the permissive single-origin policy of the API:
// every response carries the configured origin and preflights short-circuit.
func (a *API) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", a.corsOrigin)
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// NewServer builds the http.Server for the API with the usual timeouts.
func NewServer(addr string, api *API) *http.Server {
	return &http.Server{
		Addr:           addr,
		Handler:        api.Router(),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16, // 64KB
	}
}
