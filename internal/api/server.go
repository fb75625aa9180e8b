// Package api provides the HTTP API server and handlers for Biblioteca Online.
package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/bibliotecaonline/biblioteca-server/internal/http/response"
	"github.com/bibliotecaonline/biblioteca-server/internal/metrics"
	"github.com/bibliotecaonline/biblioteca-server/internal/ratelimit"
	"github.com/bibliotecaonline/biblioteca-server/internal/search"
	"github.com/bibliotecaonline/biblioteca-server/internal/sse"
	"github.com/bibliotecaonline/biblioteca-server/internal/store"
)

// Options configures the HTTP surface.
type Options struct {
	Name           string
	Version        string
	AllowedOrigins []string
	// RateLimit is requests per second per client IP on /api routes. 0 disables limiting.
	RateLimit float64
	RateBurst int
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services   *Services
	store      *store.Store
	index      *search.Index
	sseManager *sse.Manager
	sseHandler *sse.Handler
	metrics    *metrics.Metrics
	limiter    *ratelimit.KeyedRateLimiter
	router     *chi.Mux
	api        huma.API
	logger     *slog.Logger
	opts       Options
}

// NewServer creates a new HTTP server with all routes configured.
// st, index, sseManager and m may be nil; the matching features report degraded health
// or are left unrouted.
func NewServer(services *Services, st *store.Store, index *search.Index, sseManager *sse.Manager, m *metrics.Metrics, logger *slog.Logger, opts Options) *Server {
	if opts.Name == "" {
		opts.Name = "Biblioteca Online"
	}
	if opts.Version == "" {
		opts.Version = "1.0.0"
	}

	s := &Server{
		services:   services,
		store:      st,
		index:      index,
		sseManager: sseManager,
		metrics:    m,
		router:     chi.NewRouter(),
		logger:     logger,
		opts:       opts,
	}
	if sseManager != nil {
		s.sseHandler = sse.NewHandler(sseManager, logger)
	}
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = int(opts.RateLimit) * 2
		}
		s.limiter = ratelimit.New(opts.RateLimit, burst)
	}

	// chi refuses middleware added after the first route, and humachi.New mounts the
	// OpenAPI routes straight away.
	s.setupMiddleware()

	humaConfig := huma.DefaultConfig(opts.Name+" API", opts.Version)
	humaConfig.Info.Description = "Catalog, book manager, contact form and team directory of the library site."
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.setupRoutes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the typed API, mostly for tests and the OpenAPI dump.
func (s *Server) API() huma.API {
	return s.api
}

// Close releases the request limiter.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)

	origins := s.opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	if s.limiter != nil {
		s.router.Use(s.apiRateLimit(RateLimitMiddleware(s.limiter, s.logger)))
	}
}

// apiRateLimit applies limit to /api routes, except the long-lived event stream.
func (s *Server) apiRateLimit(limit func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		limited := limit(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, "/api/") || r.URL.Path == eventsPath {
				next.ServeHTTP(w, r)
				return
			}
			limited.ServeHTTP(w, r)
		})
	}
}

// requestLogger logs each request and feeds the request metrics.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		var route string
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			route = rctx.RoutePattern()
		}
		elapsed := time.Since(start)

		s.metrics.ObserveRequest(route, r.Method, status, elapsed)
		s.logger.Debug("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("route", route),
			slog.Int("status", status),
			slog.Int("bytes", ww.BytesWritten()),
			slog.Duration("duration", elapsed),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

const eventsPath = "/api/v1/events"

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.registerHealthRoutes()
	s.registerCatalogRoutes()
	s.registerBookRoutes()
	s.registerContactRoutes()
	s.registerTeamRoutes()

	// Plain handlers outside the typed API.
	if s.sseHandler != nil {
		s.router.Get(eventsPath, s.sseHandler.ServeHTTP)
	}
	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler())
	}
	s.router.Get("/catalog", s.handleCatalogPage)

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "route not found: "+r.URL.Path, s.logger)
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", s.logger)
	})
}
