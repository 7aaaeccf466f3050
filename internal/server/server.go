// Package server exposes the layout engine over HTTP.
//
// Routes:
//
//	GET  /healthz      liveness and build info
//	POST /v1/layout    lay out a diagram document
//	POST /v1/pack      size frames and place children only
//	POST /v1/preview   lay out and render an SVG preview
//	GET  /metrics      Prometheus metrics, when a registry is configured
//
// Request bodies are diagram documents in JSON or YAML, chosen by the
// Content-Type header or sniffed when it is absent. Responses are JSON
// unless ?format=yaml is given. Errors are returned as
// {"error": CODE, "message": text} with the status from [errors.HTTPStatus].
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/autolayout/pkg/cache"
	"github.com/matzehuels/autolayout/pkg/diagram"
	"github.com/matzehuels/autolayout/pkg/layout"
	"github.com/matzehuels/autolayout/pkg/metrics"
)

// Defaults for [Options].
const (
	DefaultMaxBodyBytes = 4 << 20
	DefaultTimeout      = 30 * time.Second
)

// Options configures a [Server].
type Options struct {
	// Config serves requests whose style hint is empty or matches
	// Config.Style. Other hints get the preset for their style.
	Config layout.Config
	// Cache stores results; nil disables caching.
	Cache cache.Cache
	Keyer cache.Keyer
	// Metrics enables GET /metrics.
	Metrics *metrics.Registry
	Logger  *log.Logger

	MaxBodyBytes int64
	// Timeout bounds one layout run.
	Timeout time.Duration
}

// Server handles layout requests.
type Server struct {
	runners  map[string]*layout.Runner
	fallback *layout.Runner
	cache    cache.Cache
	keyer    cache.Keyer
	metrics  *metrics.Registry
	logger   *log.Logger
	maxBody  int64
	timeout  time.Duration
}

// New builds one engine per style and shares the cache between them.
func New(opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewNullCache()
	}
	if opts.Keyer == nil {
		opts.Keyer = cache.NewDefaultKeyer()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	s := &Server{
		runners: make(map[string]*layout.Runner, len(diagram.Styles)),
		cache:   opts.Cache,
		keyer:   opts.Keyer,
		metrics: opts.Metrics,
		logger:  opts.Logger,
		maxBody: opts.MaxBodyBytes,
		timeout: opts.Timeout,
	}

	base := opts.Config
	base.SetDefaults()
	if err := base.Validate(); err != nil {
		return nil, err
	}
	for _, style := range diagram.Styles {
		cfg := layout.ForStyle(style)
		if style == base.Style {
			cfg = base
		}
		eng, err := layout.New(cfg, layout.WithLogger(opts.Logger))
		if err != nil {
			return nil, err
		}
		s.runners[style] = layout.NewRunner(eng, opts.Cache, opts.Keyer, opts.Logger)
	}
	s.fallback = s.runners[base.Style]
	return s, nil
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(instrument)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/pack", s.handlePack)
		r.Post("/preview", s.handlePreview)
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	return r
}

// runner picks the engine for a style hint.
func (s *Server) runner(style string) *layout.Runner {
	if r, ok := s.runners[style]; ok {
		return r
	}
	return s.fallback
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// Close releases the cache.
func (s *Server) Close() error { return s.cache.Close() }
