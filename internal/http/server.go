// Package http exposes the ledger as a JSON API.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/services"
)

// Suggester classifies a transaction description into a catalog category.
// Nil-able; without one the suggest endpoint answers 503.
type Suggester interface {
	SuggestCategory(ctx context.Context, description string, catalog []core.Category) (string, error)
}

type Server struct {
	http.Server
	svc       *services.LedgerService
	suggester Suggester

	rateLimiter  *rateLimiter
	summaryCache *cache.LRUCache[summaryResponse]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, svc *services.LedgerService, suggester Suggester, logger *applog.Logger) *Server {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:         addr,
			Handler:      applog.RequestMiddleware(logger)(mux),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		svc:              svc,
		suggester:        suggester,
		rateLimiter:      newRateLimiter(),
		summaryCache:     cache.NewLRUCache[summaryResponse](100, time.Minute),
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/api/login", s.withMiddleware(s.handleLogin))
	mux.HandleFunc("/api/logout", s.withMiddleware(s.handleLogout))
	mux.HandleFunc("/api/accounts", s.withMiddleware(s.handleAccounts))
	mux.HandleFunc("/api/accounts/", s.withMiddleware(s.handleAccountByID))
	mux.HandleFunc("/api/transactions", s.withMiddleware(s.handleTransactions))
	mux.HandleFunc("/api/transactions/", s.withMiddleware(s.handleTransactionByID))
	mux.HandleFunc("/api/categories", s.withMiddleware(s.handleCategories))
	mux.HandleFunc("/api/categories/", s.withMiddleware(s.handleCategoryBudget))
	mux.HandleFunc("/api/budgets", s.withMiddleware(s.handleBudgets))
	mux.HandleFunc("/api/summary", s.withMiddleware(s.handleSummary))
	mux.HandleFunc("/api/summary/categories", s.withMiddleware(s.handleCategorySummary))
	mux.HandleFunc("/api/summary/budgets", s.withMiddleware(s.handleBudgetSummary))
	mux.HandleFunc("/api/summary/daily", s.withMiddleware(s.handleDailySummary))
	mux.HandleFunc("/api/export", s.withMiddleware(s.handleExport))
	mux.HandleFunc("/api/clear", s.withMiddleware(s.handleClear))
	mux.HandleFunc("/api/suggest-category", s.withMiddleware(s.handleSuggestCategory))

	return s
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}

// withMiddleware adds security headers and rate limiting. Request logging
// lives in the outer middleware wrapping the whole mux.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(r.Context(), "Rate limit exceeded",
				"client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Request-ID", generateRequestID())
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next(w, r)
	}
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cleaned := s.summaryCache.CleanExpired(); cleaned > 0 {
				slog.Debug("Cache cleanup completed", "entries_removed", cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// invalidateSummaries drops cached aggregates after any mutation.
func (s *Server) invalidateSummaries() {
	s.summaryCache.Clear()
}

// Shutdown stops the cleanup goroutines and drains the HTTP server.
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
