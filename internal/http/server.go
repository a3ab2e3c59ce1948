// Package http exposes the engine over a JSON API.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/cjaradhye/money-minder/internal/cache"
	"github.com/cjaradhye/money-minder/internal/core"
	"github.com/cjaradhye/money-minder/internal/services"
)

// Store is the read surface the handlers query directly; writes go through
// the services.
type Store interface {
	Ping(ctx context.Context) error
	ListCategories(ctx context.Context) ([]core.Category, error)
	ListTags(ctx context.Context) ([]core.Tag, error)
	ListTransactionsByMonth(ctx context.Context, month core.MonthYear) ([]core.Transaction, error)
	ListBudgetsForMonth(ctx context.Context, month core.MonthYear) ([]core.Budget, error)
	ListGoals(ctx context.Context) ([]core.Goal, error)
}

// ViewCache memoizes derived monthly views. Keys are "<month>:<kind>" so one
// prefix delete invalidates every view for the month.
type ViewCache struct {
	c *cache.LRUCache[any]
}

func NewViewCache(maxSize int, ttl time.Duration) *ViewCache {
	return &ViewCache{c: cache.NewLRUCache[any](maxSize, ttl)}
}

func (v *ViewCache) Get(month core.MonthYear, kind string) (any, bool) {
	return v.c.Get(string(month) + ":" + kind)
}

func (v *ViewCache) Set(month core.MonthYear, kind string, data any) {
	v.c.Set(string(month)+":"+kind, data)
}

// InvalidateMonth implements services.CacheInvalidator.
func (v *ViewCache) InvalidateMonth(month core.MonthYear) {
	v.c.DeletePrefix(string(month) + ":")
}

type Server struct {
	http.Server

	store        Store
	transactions *services.TransactionService
	imports      *services.ImportService
	alerts       *services.AlertService

	viewCache   *ViewCache
	rateLimiter *rateLimiter

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, store Store, transactions *services.TransactionService,
	imports *services.ImportService, alerts *services.AlertService, viewCache *ViewCache) *Server {

	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		store:            store,
		transactions:     transactions,
		imports:          imports,
		alerts:           alerts,
		viewCache:        viewCache,
		rateLimiter:      newRateLimiter(),
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	mux.HandleFunc("POST /entries/preview", s.withMiddleware(s.handlePreviewEntry))
	mux.HandleFunc("POST /entries", s.withMiddleware(s.handleCreateEntry))
	mux.HandleFunc("POST /import/csv", s.withMiddleware(s.handleImportCSV))
	mux.HandleFunc("GET /import/sample", s.withMiddleware(s.handleSampleCSV))

	mux.HandleFunc("GET /categories", s.withMiddleware(s.handleListCategories))
	mux.HandleFunc("GET /tags", s.withMiddleware(s.handleListTags))

	mux.HandleFunc("GET /budgets/status", s.withMiddleware(s.handleBudgetStatus))
	mux.HandleFunc("GET /goals/progress", s.withMiddleware(s.handleGoalProgress))
	mux.HandleFunc("GET /reports/monthly", s.withMiddleware(s.handleMonthlyReport))
	mux.HandleFunc("GET /insights", s.withMiddleware(s.handleInsights))

	mux.HandleFunc("GET /alerts", s.withMiddleware(s.handleListAlerts))
	mux.HandleFunc("POST /alerts/{id}/read", s.withMiddleware(s.handleMarkAlertRead))

	return s
}

// withMiddleware adds request IDs, security headers, rate limiting on
// mutating methods, and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				"client_ip", clientIP,
				"method", r.Method,
				"url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if s.viewCache != nil {
				removed := s.viewCache.c.CleanExpired()
				if removed > 0 {
					slog.Debug("Cache cleanup completed", "entries_removed", removed)
				}
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Readiness check failed", "error", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
