// Package server exposes the aggregation and correlation services over a
// JSON HTTP API for polling UIs and automation.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"obs-engine/internal/service"
)

// Server routes HTTP requests to the stateless services. It owns no state
// of its own; every request is a fresh read-compute cycle.
type Server struct {
	alerts   *service.AlertService
	summary  *service.SummaryService
	contexts *service.ContextBuilder
	silencer *service.Silencer
	logs     *service.LogService
	logger   zerolog.Logger
}

// New creates a Server over the given services.
func New(
	alerts *service.AlertService,
	summary *service.SummaryService,
	contexts *service.ContextBuilder,
	silencer *service.Silencer,
	logs *service.LogService,
	logger zerolog.Logger,
) *Server {
	return &Server{
		alerts:   alerts,
		summary:  summary,
		contexts: contexts,
		silencer: silencer,
		logs:     logs,
		logger:   logger.With().Str("component", "http-server").Logger(),
	}
}

// Router builds the chi router with all API routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealthz)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/summary", s.handleSummary)
		r.Get("/alerts", s.handleAlerts)
		r.Get("/alerts/{fingerprint}/context", s.handleAlertContext)
		r.Post("/silences", s.handleCreateSilence)
		r.Get("/logs", s.handleLogs)
		r.Get("/logs/services", s.handleLogServices)
	})

	return r
}

// requestID assigns a request ID header to every request.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs each request at debug level with method, path, and
// request ID.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", w.Header().Get("X-Request-ID")).
			Dur("elapsed", time.Since(start)).
			Msg("request handled")
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.summary.Summarize(r.Context()))
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	alerts := s.alerts.List(r.Context())
	writeJSON(w, http.StatusOK, alerts)
}

func (s *Server) handleAlertContext(w http.ResponseWriter, r *http.Request) {
	fingerprint := chi.URLParam(r, "fingerprint")

	brief, err := s.contexts.Build(r.Context(), fingerprint)
	if err != nil {
		if errors.Is(err, service.ErrAlertNotFound) {
			writeError(w, http.StatusNotFound, "alert not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"fingerprint": fingerprint,
		"context":     brief,
	})
}

func (s *Server) handleCreateSilence(w http.ResponseWriter, r *http.Request) {
	var req service.SilenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// The silencer never raises past its boundary: failures come back as a
	// structured result whose message carries the backend's error text.
	result := s.silencer.Silence(r.Context(), req)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := service.LogFilter{
		Service: q.Get("service"),
		Level:   q.Get("level"),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = limit
	}
	if raw := q.Get("since"); raw != "" {
		since, err := time.ParseDuration(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid since duration")
			return
		}
		filter.Since = since
	}

	lines := s.logs.Query(r.Context(), filter)
	writeJSON(w, http.StatusOK, lines)
}

func (s *Server) handleLogServices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.logs.Services(r.Context()))
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error body with the given status code.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
