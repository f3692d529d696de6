// Package api serves almanac queries as JSON over HTTP.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/litescript/ls-ephemeris/internal/almanac"
	"github.com/litescript/ls-ephemeris/internal/ephem"
	"github.com/litescript/ls-ephemeris/internal/logging"
	"github.com/litescript/ls-ephemeris/internal/metrics"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// Server holds the HTTP server and its dependencies.
type Server struct {
	httpServer *http.Server
	logger     *logging.Logger
}

// Option configures a Server.
type Option func(*handlers)

// WithClock sets the source of "now" for queries without a date or time.
func WithClock(now func() time.Time) Option {
	return func(h *handlers) {
		h.now = now
	}
}

// WithCache reports the resident datasets on /healthz.
func WithCache(c *ephem.Cache) Option {
	return func(h *handlers) {
		h.cache = c
	}
}

// NewServer creates a configured HTTP server for eph.
func NewServer(addr string, eph *almanac.Ephemeris, logger *logging.Logger, opts ...Option) *Server {
	h := &handlers{eph: eph, now: time.Now}
	for _, opt := range opts {
		opt(h)
	}

	// Build middleware chain: metrics -> request id -> logging -> router.
	var handler http.Handler = h.router()
	handler = loggingMiddleware(handler)
	handler = requestIDMiddleware(logger)(handler)
	handler = metrics.Middleware(handler)

	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadTimeout:       10 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		logger: logger,
	}
}

func (h *handlers) router() *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	r.HandleFunc("/healthz", h.healthz).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.NotFoundHandler = r.NotFoundHandler
	v1.MethodNotAllowedHandler = r.MethodNotAllowedHandler
	v1.HandleFunc("/observer", h.observer).Methods(http.MethodGet)
	v1.HandleFunc("/sun", h.sun).Methods(http.MethodGet)
	v1.HandleFunc("/moon", h.moon).Methods(http.MethodGet)
	v1.HandleFunc("/phase", h.phase).Methods(http.MethodGet)
	v1.HandleFunc("/twilight", h.twilight).Methods(http.MethodGet)
	v1.HandleFunc("/planets", h.planets).Methods(http.MethodGet)
	v1.HandleFunc("/planets/{body}", h.planet).Methods(http.MethodGet)
	v1.HandleFunc("/seasons/{year}", h.seasons).Methods(http.MethodGet)
	v1.HandleFunc("/position/{body}", h.position).Methods(http.MethodGet)
	v1.HandleFunc("/path/{body}", h.path).Methods(http.MethodGet)
	v1.HandleFunc("/sky", h.sky).Methods(http.MethodGet)
	return r
}

// Handler returns the root handler including middleware.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// HTTPServer returns the underlying *http.Server for external control (e.g. shutdown).
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.logger.Info("listening on %s", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// requestIDMiddleware tags each request with an id, echoed in the
// response, and attaches a logger carrying it to the request context.
func requestIDMiddleware(logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" || len(id) > 64 {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)

			ctx := logging.WithContext(r.Context(), logger)
			ctx = logging.With(ctx, "request_id", id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// probePath returns true for probe and scrape paths that should not log at INFO.
func probePath(path string) bool {
	return path == "/healthz" || path == "/metrics"
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.statusCode = code
	sr.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(sr, r)

		duration := time.Since(start)
		level := slog.LevelInfo
		if probePath(r.URL.Path) {
			level = slog.LevelDebug
		}

		logging.FromContext(r.Context()).Log(r.Context(), level, "request",
			"component", "api",
			"method", r.Method,
			"path", r.URL.Path,
			"status", strconv.Itoa(sr.statusCode),
			"duration_ms", duration.Milliseconds(),
			"remote_ip", r.RemoteAddr,
		)
	})
}
