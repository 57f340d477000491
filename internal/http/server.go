// Package http exposes the tracker over a JSON API.
package http

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"rupeetrack/internal/cache"
	"rupeetrack/internal/export"
	"rupeetrack/internal/log"
	"rupeetrack/internal/middleware/ratelimit"
	"rupeetrack/internal/middleware/security"
	"rupeetrack/internal/middleware/trace"
	"rupeetrack/internal/store"
)

const (
	maxBodyBytes = 1 << 20

	analyticsCacheSize = 64
	analyticsCacheTTL  = 5 * time.Minute
)

// Exporter produces the workbook export on demand.
type Exporter interface {
	Export(ctx context.Context) (export.Workbook, error)
}

// Options configures optional server collaborators.
type Options struct {
	// Exporter backs POST /api/export; nil answers 503.
	Exporter Exporter
	// RateLimit caps mutating requests per client per minute; 0 disables it.
	RateLimit int
	Logger    *log.Logger
}

type Server struct {
	http.Server
	store    *store.Store
	exporter Exporter
	logger   *log.Logger
	tracer   *trace.Middleware
	limiter  *ratelimit.Limiter

	analytics *cache.LRUCache[any]
	caches    *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, st *store.Store, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	detector := security.NewDetector()
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       2 * time.Minute,
		},
		store:    st,
		exporter: opts.Exporter,
		logger:   logger,
		tracer:   trace.NewMiddleware(detector.ExtractClientIP, logger),

		analytics: cache.NewLRUCache[any](analyticsCacheSize, analyticsCacheTTL),
		caches:    cache.NewManager(logger),
	}
	s.caches.Register(s.analytics)
	s.caches.StartCleanup(analyticsCacheTTL)

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Use(s.tracer.Middleware)
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)
	r.Use(detector.Middleware(logger))
	if opts.RateLimit > 0 {
		s.limiter = ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimit})
		r.Use(s.limiter.Middleware(detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
			writeError(w, r, http.StatusTooManyRequests, "rate limit exceeded, try again later")
		}))
	}

	s.routes(r)
	s.Handler = r
	return s
}

func (s *Server) routes(r *mux.Router) {
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/state", s.handleState).Methods(http.MethodGet)

	// Fixed paths go before the {id} routes of the same collection.
	api.HandleFunc("/bills/upcoming", s.handleUpcomingBills).Methods(http.MethodGet)
	api.HandleFunc("/bills/{id}/pay", s.handlePayBill).Methods(http.MethodPost)
	api.HandleFunc("/budgets/{id}/status", s.handleBudgetStatus).Methods(http.MethodGet)

	mount(api, expenseResource(s.store))
	mount(api, incomeResource(s.store))
	mount(api, budgetResource(s.store))
	mount(api, goalResource(s.store))
	mount(api, billResource(s.store))

	api.HandleFunc("/analytics/summary", s.handleSummary).Methods(http.MethodGet)
	api.HandleFunc("/analytics/forecast", s.handleForecast).Methods(http.MethodGet)
	api.HandleFunc("/analytics/anomalies", s.handleAnomalies).Methods(http.MethodGet)
	api.HandleFunc("/analytics/tips", s.handleTips).Methods(http.MethodGet)

	api.HandleFunc("/settings", s.handleSettings).Methods(http.MethodGet)
	api.HandleFunc("/settings/language", s.handleSetLanguage).Methods(http.MethodPut)
	api.HandleFunc("/settings/currency", s.handleSetCurrency).Methods(http.MethodPut)
	api.HandleFunc("/settings/notifications/toggle", s.handleToggleNotifications).Methods(http.MethodPost)
	api.HandleFunc("/profile", s.handleProfile).Methods(http.MethodGet)
	api.HandleFunc("/profile", s.handleUpdateProfile).Methods(http.MethodPatch)

	api.HandleFunc("/export", s.handleExport).Methods(http.MethodPost)
}

// cached returns the analytics result for name, recomputing it once the store
// has changed or the day has rolled over.
func cached[T any](s *Server, name string, fn func() T) T {
	key := fmt.Sprintf("%s:%d:%s", name, s.store.Revision(), s.store.Today())
	v := cache.GetOrCompute[any](s.analytics, key, func() any { return fn() })
	return v.(T)
}

// Shutdown stops the rate limiter and cache cleanup, then gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.limiter != nil {
			s.limiter.Stop()
		}
		s.caches.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
