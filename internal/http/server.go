// Package http is the JSON API the client talks to.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"gofinances/internal/backend"
	applog "gofinances/internal/log"
	"gofinances/internal/middleware/ratelimit"
	"gofinances/internal/middleware/security"
	"gofinances/internal/middleware/trace"
)

type Server struct {
	http.Server
	backend     backend.Backend
	logger      *applog.Logger
	token       string
	rateLimiter *ratelimit.Limiter
	tracer      *trace.Middleware
	detector    *security.Detector
	started     time.Time

	shutdownOnce sync.Once
}

// Option configures a Server.
type Option func(*Server)

// WithToken requires "Authorization: Bearer <token>" on every API route.
func WithToken(token string) Option {
	return func(s *Server) { s.token = token }
}

// WithRateLimit limits write requests per client per minute.
func WithRateLimit(requestsPerMinute int) Option {
	return func(s *Server) {
		s.rateLimiter = ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: requestsPerMinute})
	}
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, b backend.Backend, logger *applog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = applog.Default()
	}
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
		},
		backend: b,
		logger:  logger.WithComponent(applog.ComponentHTTP),
		started: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tracer = trace.NewMiddleware(s.logger)
	s.detector = security.NewDetector()
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())

	api := http.NewServeMux()
	api.HandleFunc("GET /categories", s.handleListCategories)
	api.HandleFunc("GET /transactions", s.handleListTransactions)
	api.HandleFunc("POST /transactions", s.handleCreateTransaction)
	api.HandleFunc("DELETE /transactions/{id}", s.handleDeleteTransaction)

	var apiHandler http.Handler = api
	apiHandler = s.requireToken(apiHandler)
	if s.rateLimiter != nil {
		apiHandler = s.rateLimiter.Middleware(s.detector.ClientIP, func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusTooManyRequests, "Muitas requisições. Tente mais tarde")
		})(apiHandler)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("/", apiHandler)

	var handler http.Handler = mux
	handler = s.detector.Middleware(s.logger)(handler)
	handler = headers.Middleware(handler)
	s.Handler = s.tracer.Middleware(handler)
	return s
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	if s.token == "" {
		return next
	}
	want := "Bearer " + s.token
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != want {
			writeError(w, http.StatusUnauthorized, "Não autorizado")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Shutdown stops the rate limiter and gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
