// Package server exposes the coach over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/ziadkadry99/overcoach/internal/coach"
	"github.com/ziadkadry99/overcoach/internal/ingest"
	"github.com/ziadkadry99/overcoach/internal/overfast"
)

const defaultRequestTimeout = 150 * time.Second

// Config holds server configuration.
type Config struct {
	Port           int
	DataDir        string        // directory holding heroes/ and maps/ markdown
	AllowAll       bool          // allow all CORS origins
	RequestTimeout time.Duration // per-request deadline; must exceed the completion timeout
}

// Coach is the recommendation capability the handlers call.
type Coach interface {
	Suggest(ctx context.Context, req coach.CompositionRequest) (*coach.TeamCompositionResult, error)
	Counter(ctx context.Context, req coach.HeroCounterRequest) (*coach.HeroCounterResult, error)
}

// Catalog lists heroes and maps.
type Catalog interface {
	Heroes(ctx context.Context) ([]overfast.HeroSummary, error)
	Maps(ctx context.Context) ([]overfast.Map, error)
}

// IndexStats reports how many documents each collection holds.
type IndexStats interface {
	Counts() (heroes, maps int)
}

// Pinger checks that the completion provider is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the server's collaborators. Catalog, Pinger and Runs may be nil.
type Deps struct {
	Coach        Coach
	Catalog      Catalog
	Index        IndexStats
	Pinger       Pinger
	Runs         *ingest.Store
	ProviderName string
	Logger       *zap.Logger
}

// Server is the overcoach HTTP API.
type Server struct {
	cfg        Config
	deps       Deps
	logger     *zap.Logger
	router     chi.Router
	httpServer *http.Server
}

// New creates a Server with all routes registered.
func New(cfg Config, deps Deps) *Server {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{cfg: cfg, deps: deps, logger: logger}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/ws/coach", handleCoachSocket(s.deps.Coach, s.logger))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))

		r.Get("/", handleRoot())
		r.Get("/health", handleHealth(s.deps))
		r.Post("/suggest", handleSuggest(s.deps.Coach))
		r.Post("/counter", handleCounter(s.deps.Coach))
		r.Get("/heroes", handleListHeroes(s.deps.Catalog))
		r.Get("/maps", handleListMaps(s.deps.Catalog))
		r.Get("/docs/{kind}/{key}", handleDocument(s.cfg.DataDir))
	})

	return r
}

// Router returns the chi router.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("overcoach server listening", zap.String("addr", addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("elapsed", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
