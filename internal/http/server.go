// Package http exposes the JSON API: dashboard and insight reads,
// transaction and goal writes, and the advisor chat endpoint.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"finsight/internal/cache"
	"finsight/internal/insights"
	applog "finsight/internal/log"
	"finsight/internal/middleware/ratelimit"
	"finsight/internal/middleware/security"
	"finsight/internal/middleware/trace"
	"finsight/internal/services"
)

// Advisor answers free-form questions grounded in a month's dashboard.
type Advisor interface {
	Chat(ctx context.Context, question string, dash insights.Dashboard) (string, error)
}

// Deps carries everything the server needs. Advisor may be nil, in
// which case the chat endpoint reports itself unavailable.
type Deps struct {
	Transactions *services.TransactionService
	Goals        *services.GoalService
	Advisor      Advisor
	BudgetCents  int64
	RateLimit    ratelimit.Config
	Logger       *applog.Logger
}

type Server struct {
	http.Server

	transactions *services.TransactionService
	goals        *services.GoalService
	advisor      Advisor
	budgetCents  int64

	// Derived dashboards are cached per month and invalidated on writes.
	dashCache    *cache.LRUCache[insights.Dashboard]
	cacheManager *cache.Manager
	limiter      *ratelimit.Limiter

	shutdownOnce sync.Once
	now          func() time.Time
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, deps Deps) *Server {
	s := &Server{
		transactions: deps.Transactions,
		goals:        deps.Goals,
		advisor:      deps.Advisor,
		budgetCents:  deps.BudgetCents,
		dashCache:    cache.NewLRUCache[insights.Dashboard](100, 5*time.Minute),
		cacheManager: cache.NewManager(),
		limiter:      ratelimit.NewLimiter(deps.RateLimit),
		now:          time.Now,
	}

	s.cacheManager.Register(s.dashCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	httpLogger := deps.Logger
	if httpLogger == nil {
		httpLogger = applog.New(applog.DefaultConfig())
	}
	httpLogger = httpLogger.WithComponent(applog.ComponentHTTP)

	ipResolver := security.NewIPResolver()
	tracer := trace.NewMiddleware(ipResolver.ExtractClientIP)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(applog.Middleware(httpLogger))
	r.Use(tracer.Middleware)
	r.Use(headers.Middleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.limiter.Middleware(ipResolver.ExtractClientIP))

		r.Get("/dashboard", s.handleDashboard)
		r.Get("/insights", s.handleInsights)

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", s.handleListTransactions)
			r.Post("/", s.handleCreateTransaction)
			r.Get("/{id}", s.handleGetTransaction)
			r.Delete("/{id}", s.handleDeleteTransaction)
		})

		r.Route("/goals", func(r chi.Router) {
			r.Get("/", s.handleListGoals)
			r.Post("/", s.handleCreateGoal)
			r.Get("/{id}", s.handleGetGoal)
			r.Put("/{id}", s.handleUpdateGoal)
			r.Delete("/{id}", s.handleDeleteGoal)
		})

		r.Post("/advisor/chat", s.handleAdvisorChat)
	})

	s.Server = http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Shutdown stops background routines and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
