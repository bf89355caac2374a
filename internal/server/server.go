// Package server exposes layout records over HTTP.
//
// Routes:
//
//	GET    /healthz
//	GET    /layouts
//	GET    /layouts/{id}               persisted array, ETag = layout fingerprint
//	PUT    /layouts/{id}               strict-validated persisted array
//	DELETE /layouts/{id}
//	GET    /layouts/{id}/svg           printable chart
//	POST   /layouts/{id}/availability  seat statuses for a set of bookings
//
// Errors are JSON bodies carrying a pkg/errors code.
package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/seatmap/pkg/records"
)

const shutdownTimeout = 5 * time.Second

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxBodyBytes limits request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// WithTimeouts sets the read and write timeouts used by ListenAndServe.
func WithTimeouts(read, write time.Duration) Option {
	return func(s *Server) {
		s.readTimeout = read
		s.writeTimeout = write
	}
}

// WithClock overrides time.Now for availability deadlines.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// Server serves the layout API from a record store.
type Server struct {
	store        records.Store
	logger       *log.Logger
	maxBody      int64
	readTimeout  time.Duration
	writeTimeout time.Duration
	now          func() time.Time
	router       chi.Router
}

// New builds the router for store.
func New(store records.Store, opts ...Option) *Server {
	s := &Server{
		store:        store,
		logger:       log.New(io.Discard),
		maxBody:      1 << 20,
		readTimeout:  10 * time.Second,
		writeTimeout: 10 * time.Second,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Route("/layouts", func(r chi.Router) {
		r.Get("/", s.listLayouts)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getLayout)
			r.Put("/", s.putLayout)
			r.Delete("/", s.deleteLayout)
			r.Get("/svg", s.layoutSVG)
			r.Post("/availability", s.availability)
		})
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
