package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/aretw0/moore/internal/logging"
	"github.com/aretw0/moore/internal/metrics"
	"github.com/aretw0/moore/pkg/domain"
	"github.com/aretw0/moore/pkg/session"
	"github.com/go-chi/chi/v5"
)

// Server exposes a session.Manager as a JSON API.
// Every request that touches the manager runs under one mutex.
type Server struct {
	mu             sync.Mutex
	manager        *session.Manager
	streams        *StreamManager
	metrics        *metrics.Collector
	metricsHandler http.Handler
	logger         *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics counts batch runs on c and serves h on GET /metrics.
func WithMetrics(c *metrics.Collector, h http.Handler) Option {
	return func(s *Server) {
		s.metrics = c
		s.metricsHandler = h
	}
}

// NewHandler creates a new HTTP handler for the manager.
// It subscribes a stream listener on the manager's bus for GET /events.
func NewHandler(m *session.Manager, opts ...Option) http.Handler {
	s := &Server{
		manager: m,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.streams = NewStreamManager(s.logger)
	m.Subscribe(s.streams)

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)

	r.Get("/automaton", s.GetAutomaton)
	r.Delete("/automaton", s.ClearAutomaton)
	r.Post("/transitions", s.AddTransition)
	r.Delete("/transitions/{index}", s.RemoveTransition)
	r.Delete("/states/{state}", s.RemoveState)
	r.Put("/initial", s.SetInitialState)
	r.Post("/default", s.CreateDefaultGraph)

	r.Post("/process", s.ProcessWord)

	r.Get("/live", s.GetLive)
	r.Post("/live/start", s.StartLive)
	r.Post("/live/step", s.StepLive)
	r.Post("/live/reset", s.ResetLive)

	r.Get("/graph", s.GetGraph)

	r.Get("/snapshot", s.GetSnapshot)
	r.Put("/snapshot", s.RestoreSnapshot)
	r.Get("/snapshots", s.ListSnapshots)
	r.Post("/snapshots", s.SaveSnapshot)
	r.Get("/snapshots/{name}", s.GetStoredSnapshot)
	r.Post("/snapshots/{name}/restore", s.LoadSnapshot)
	r.Delete("/snapshots/{name}", s.DeleteSnapshot)

	r.Get("/events", s.SubscribeEvents)
	if s.metricsHandler != nil {
		r.Handle("/metrics", s.metricsHandler)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "validation"
	case errors.Is(err, domain.ErrStateNotFound), errors.Is(err, domain.ErrSnapshotNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrNotActive), errors.Is(err, domain.ErrStaleState):
		return http.StatusConflict, "conflict"
	case errors.Is(err, domain.ErrStuck):
		return http.StatusUnprocessableEntity, "stuck"
	case errors.Is(err, session.ErrNoStore):
		return http.StatusNotImplemented, "no_store"
	}
	return http.StatusInternalServerError, "internal"
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", slog.String("path", r.URL.Path), logging.Err(err))
	} else {
		s.logger.Debug("request rejected", slog.String("path", r.URL.Path), logging.Err(err))
	}
	s.writeJSON(w, status, ErrorResponse{Error: err.Error(), Kind: kind})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", logging.Err(err))
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, r, &domain.ValidationError{Field: "body", Reason: "invalid JSON: " + err.Error()})
		return false
	}
	return true
}
