package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hyperjump/pdfsift/internal/models"
	"github.com/hyperjump/pdfsift/internal/pipeline"
	"github.com/hyperjump/pdfsift/internal/search"
	"go.uber.org/zap"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	names, err := s.svc.ListDocuments()
	if err != nil {
		s.logger.Error("list documents failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if names == nil {
		names = []string{}
	}
	s.respondJSON(w, http.StatusOK, models.DocumentList{Directory: s.svc.Dir(), Documents: names})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	path, ok := s.resolve(w, chi.URLParam(r, "name"))
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, s.svc.Extract(path).View())
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var query models.SearchQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := query.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Debug("search request", zap.String("pattern", query.Pattern))
	report, err := s.svc.Search(r.Context(), query.Pattern)
	switch {
	case errors.Is(err, search.ErrInvalidPattern):
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		s.respondError(w, http.StatusServiceUnavailable, "search cancelled")
		return
	case err != nil:
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleExportDocument(w http.ResponseWriter, r *http.Request) {
	path, ok := s.resolve(w, chi.URLParam(r, "name"))
	if !ok {
		return
	}
	var req models.ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("export request", zap.String("path", path), zap.String("format", req.Format))
	res, err := s.svc.Export(path, req.Format)
	if errors.Is(err, models.ErrUnsupportedFormat) {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.logger.Error("export failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, res)
}

// resolve maps a document name from the URL to its path, writing 404 when it is not listed.
func (s *Server) resolve(w http.ResponseWriter, name string) (string, bool) {
	path, err := s.svc.Resolve(name)
	if errors.Is(err, pipeline.ErrDocumentNotFound) {
		s.respondError(w, http.StatusNotFound, "document not found")
		return "", false
	}
	if err != nil {
		s.logger.Error("resolve document failed", zap.String("name", name), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return "", false
	}
	return path, true
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
