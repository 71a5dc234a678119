// Package server exposes the visualization pipeline over HTTP.
//
// The API mirrors the CLI: POST /api/v1/render runs the full
// parse → layout → render pipeline, POST /api/v1/layout stops after
// layout, and /api/v1/sessions stores and restores viewer state so a
// client can park a view and resume it later by ID.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/conetree/pkg/pipeline"
	"github.com/matzehuels/conetree/pkg/session"
)

// DefaultTimeout bounds each request when no timeout is configured.
const DefaultTimeout = 60 * time.Second

// shutdownGrace is how long in-flight requests get to finish on shutdown.
const shutdownGrace = 10 * time.Second

// Server handles HTTP API requests.
type Server struct {
	runner   *pipeline.Runner
	sessions session.Store
	logger   *log.Logger

	// timeout bounds each request.
	timeout time.Duration

	// sessionTTL is applied to sessions created over the API.
	sessionTTL time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithSessionTTL sets the lifetime of sessions created over the API.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Server) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// New creates a server around a pipeline runner and a session store.
// A nil logger discards log output.
func New(runner *pipeline.Runner, sessions session.Store, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner:     runner,
		sessions:   sessions,
		logger:     logger,
		timeout:    DefaultTimeout,
		sessionTTL: session.DefaultTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the chi router with all API routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/render", s.handleRender)
		r.Post("/layout", s.handleLayout)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleSessionCreate)
			r.Get("/{id}", s.handleSessionGet)
			r.Put("/{id}", s.handleSessionPut)
			r.Delete("/{id}", s.handleSessionDelete)
		})
	})

	return r
}

// ListenAndServe runs the server until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Router(),
		// Timeout middleware bounds the handlers; these cap slow clients.
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("serving API", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// logRequests emits one log line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
