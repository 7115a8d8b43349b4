// Package server exposes the analyser over HTTP.
package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/vijay-prabhu/jobad-analyser/internal/bias"
	"github.com/vijay-prabhu/jobad-analyser/internal/database"
	"github.com/vijay-prabhu/jobad-analyser/internal/scraper"
)

// maxBodyBytes bounds POST bodies
const maxBodyBytes = 1 << 20

// Fetcher downloads a job ad by URL
type Fetcher interface {
	Scrape(ctx context.Context, rawURL string) (*scraper.JobAd, error)
}

// Options configures a Server. DB and Fetcher are optional: without a
// database the history routes answer 503, without a fetcher URL analysis
// is rejected.
type Options struct {
	Analyser       *bias.Analyser
	DB             *database.DB
	Fetcher        Fetcher
	SaveHistory    bool
	AllowedOrigins []string
	Logger         *slog.Logger
	// Registry receives the server metrics; nil creates a private one
	Registry *prometheus.Registry
}

// Server is the HTTP API
type Server struct {
	analyser    *bias.Analyser
	db          *database.DB
	fetcher     Fetcher
	saveHistory bool
	logger      *slog.Logger
	metrics     *metrics
	registry    *prometheus.Registry
	router      chi.Router
	handler     http.Handler
}

// New creates a Server with all routes mounted
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	s := &Server{
		analyser:    opts.Analyser,
		db:          opts.DB,
		fetcher:     opts.Fetcher,
		saveHistory: opts.SaveHistory,
		logger:      logger,
		metrics:     newMetrics(reg),
		registry:    reg,
		router:      chi.NewRouter(),
	}
	s.routes()

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         86400,
	})
	s.handler = c.Handler(s.router)
	return s
}

func (s *Server) routes() {
	r := s.router

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/analyse", s.handleAnalyse)
		r.Get("/terms", s.handleTerms)
		r.Get("/stats", s.handleStats)
		r.Get("/analyses", s.handleListAnalyses)
		r.Get("/analyses/{id}", s.handleGetAnalysis)
		r.Delete("/analyses/{id}", s.handleDeleteAnalysis)
	})
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// HTTPServer creates an *http.Server ready to ListenAndServe
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      2 * time.Minute,
	}
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := s.HTTPServer(addr)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}
