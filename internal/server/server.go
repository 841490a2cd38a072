// Package server provides the HTTP API for pdfsift.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/pdfsift/internal/config"
	"github.com/hyperjump/pdfsift/internal/models"
	"go.uber.org/zap"
)

// Service is the document pipeline served over HTTP.
type Service interface {
	Dir() string
	ListDocuments() ([]string, error)
	Resolve(name string) (string, error)
	Extract(path string) *models.Extraction
	Search(ctx context.Context, pattern string) (*models.SearchReport, error)
	Export(path string, format string) (*models.ExportResult, error)
}

// Server is the HTTP server for the pdfsift API.
type Server struct {
	svc    Service
	config *config.ServerConfig
	logger *zap.Logger
	server *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(svc Service, cfg *config.ServerConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		svc:    svc,
		config: cfg,
		logger: logger,
	}
}

// Handler returns the API router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Get("/health", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/documents", s.handleListDocuments)
		r.Get("/documents/{name}", s.handleGetDocument)
		r.Post("/documents/{name}/export", s.handleExportDocument)
		r.Post("/search", s.handleSearch)
	})
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := s.config.Address()
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr), zap.String("directory", s.svc.Dir()))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
