package server

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hyperjump/kotoba/internal/config"
	"github.com/hyperjump/kotoba/internal/embeddings"
	"github.com/hyperjump/kotoba/internal/models"
	"github.com/hyperjump/kotoba/internal/ranking"
	"github.com/hyperjump/kotoba/internal/search"
	"github.com/hyperjump/kotoba/internal/storage"
	"github.com/hyperjump/kotoba/internal/vector"
)

const (
	defaultSuggestions = 5
	maxSuggestions     = 50
	defaultHistorySize = 20
	maxHistorySize     = 500
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"table": s.engine.Status(),
	}
	if h := s.engine.History(); h != nil {
		n, err := h.CountResults(r.Context())
		if err != nil {
			s.logger.Error("status: count results failed", zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp["history_results"] = n
		if du, ok := h.(interface{ DiskUsage() (int64, error) }); ok {
			if size, err := du.DiskUsage(); err == nil {
				resp["disk_usage_bytes"] = size
			}
		}
	}
	if s.appConfig != nil {
		s.configMu.Lock()
		resp["config"] = map[string]interface{}{
			"default_k":       s.appConfig.Search.DefaultK,
			"max_k":           s.appConfig.Search.MaxK,
			"metric":          s.appConfig.Search.Metric,
			"embeddings_path": s.appConfig.Embeddings.Path,
			"database_path":   s.appConfig.Storage.DatabasePath,
		}
		s.configMu.Unlock()
	}
	if s.watch != nil {
		resp["watching"] = s.watch.Files()
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetWord(w http.ResponseWriter, r *http.Request) {
	word := chi.URLParam(r, "word")
	v, err := s.engine.Lookup(word)
	if err != nil {
		if errors.Is(err, embeddings.ErrWordNotFound) {
			suggestions, _ := s.engine.Suggest(word, defaultSuggestions)
			s.respondJSON(w, http.StatusNotFound, map[string]interface{}{
				"error":       err.Error(),
				"suggestions": suggestions,
			})
			return
		}
		s.respondFailure(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"word":     word,
		"features": len(v),
		"vector":   jsonFloats(v),
	})
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	word := r.URL.Query().Get("word")
	if word == "" {
		s.respondError(w, http.StatusBadRequest, "word is required")
		return
	}
	n, err := intParam(r, "n", defaultSuggestions, maxSuggestions)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	suggestions, err := s.engine.Suggest(word, n)
	if err != nil {
		s.respondFailure(w, err)
		return
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"word": word, "suggestions": suggestions})
}

func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	var req models.SimilarityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("similar request", zap.Strings("words", req.Words), zap.Int("k", req.K), zap.Bool("dissimilar", req.Dissimilar))
	resp, err := s.engine.Similar(r.Context(), &req)
	if err != nil {
		s.respondFailure(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req models.CalculationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("calculate request", zap.String("expression", req.Expression), zap.Int("k", req.K))
	res, err := s.engine.Calculate(r.Context(), &req)
	if err != nil {
		s.respondFailure(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, res)
}

type reloadRequest struct {
	Path string `json:"path"`
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	var req reloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	current := s.currentPath()
	path := current
	if req.Path != "" {
		abs, err := filepath.Abs(req.Path)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid path")
			return
		}
		path = abs
	}
	if path == "" {
		s.respondError(w, http.StatusBadRequest, "path is required")
		return
	}

	s.logger.Debug("reload request", zap.String("path", path))
	if _, err := s.engine.Reload(path); err != nil {
		s.logger.Warn("reload failed", zap.String("path", path), zap.Error(err))
		s.respondFailure(w, err)
		return
	}

	if path != current {
		s.follow(current, path)
	}
	s.respondJSON(w, http.StatusOK, s.engine.Status())
}

// currentPath is the published table's path, or the configured path before the first load.
func (s *Server) currentPath() string {
	if st := s.engine.Status(); st.Path != "" {
		return st.Path
	}
	if s.appConfig != nil {
		s.configMu.Lock()
		defer s.configMu.Unlock()
		return s.appConfig.Embeddings.Path
	}
	return ""
}

// follow moves the watcher and the persisted config from the old embeddings path to the new one.
func (s *Server) follow(oldPath, newPath string) {
	if s.watch != nil {
		if oldPath != "" {
			_ = s.watch.RemoveFile(oldPath)
		}
		if err := s.watch.AddFile(newPath); err != nil {
			s.logger.Warn("failed to watch embeddings file", zap.String("path", newPath), zap.Error(err))
		}
	}
	if s.appConfig == nil {
		return
	}
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.appConfig.Embeddings.Path = newPath
	if s.configPath != "" {
		if err := config.Save(s.configPath, s.appConfig); err != nil {
			s.logger.Warn("failed to persist config", zap.Error(err))
		}
	}
}

func (s *Server) handleLast(w http.ResponseWriter, r *http.Request) {
	res := s.engine.Last()
	if res == nil {
		s.respondError(w, http.StatusNotFound, "no results yet")
		return
	}
	s.respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleHistoryList(w http.ResponseWriter, r *http.Request) {
	h := s.engine.History()
	if h == nil {
		s.respondError(w, http.StatusNotImplemented, "history not enabled")
		return
	}
	limit, err := intParam(r, "limit", defaultHistorySize, maxHistorySize)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	offset, err := intParam(r, "offset", 0, math.MaxInt32)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	results, err := h.ListResults(r.Context(), offset, limit)
	if err != nil {
		s.respondFailure(w, err)
		return
	}
	total, err := h.CountResults(r.Context())
	if err != nil {
		s.respondFailure(w, err)
		return
	}
	if results == nil {
		results = []*models.RankedResult{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"results": results, "total": total})
}

func (s *Server) handleHistoryGet(w http.ResponseWriter, r *http.Request) {
	h := s.engine.History()
	if h == nil {
		s.respondError(w, http.StatusNotImplemented, "history not enabled")
		return
	}
	res, err := h.GetResult(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondFailure(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleHistoryDelete(w http.ResponseWriter, r *http.Request) {
	h := s.engine.History()
	if h == nil {
		s.respondError(w, http.StatusNotImplemented, "history not enabled")
		return
	}
	id := chi.URLParam(r, "id")
	s.logger.Debug("delete result request", zap.String("id", id))
	if err := h.DeleteResult(r.Context(), id); err != nil {
		s.respondFailure(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"id": id, "status": "deleted"})
}

func (s *Server) handleWatchList(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "watch not enabled")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"files": s.watch.Files()})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var loadErr *embeddings.LoadError
	switch {
	case errors.Is(err, models.ErrInvalidRequest),
		errors.Is(err, search.ErrBadExpression),
		errors.Is(err, vector.ErrUnknownMetric),
		errors.Is(err, vector.ErrDimensionMismatch),
		errors.Is(err, ranking.ErrInvalidK),
		errors.Is(err, ranking.ErrInsufficientData):
		return http.StatusBadRequest
	case errors.Is(err, embeddings.ErrWordNotFound),
		errors.Is(err, storage.ErrResultNotFound):
		return http.StatusNotFound
	case errors.Is(err, embeddings.ErrNotLoaded):
		return http.StatusServiceUnavailable
	case errors.As(err, &loadErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondFailure(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}
	var loadErr *embeddings.LoadError
	if errors.As(err, &loadErr) {
		s.respondError(w, status, loadErr.Summary())
		return
	}
	s.respondError(w, status, err.Error())
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

func intParam(r *http.Request, name string, def, limit int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New(name + " must be a non-negative integer")
	}
	return min(n, limit), nil
}

// jsonFloats encodes non-finite components as null.
func jsonFloats(v vector.Vector) []*float64 {
	out := make([]*float64, len(v))
	for i, f := range v {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		f := f
		out[i] = &f
	}
	return out
}
