package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/aretw0/moore"
	"github.com/aretw0/moore/internal/presentation/graph"
	"github.com/aretw0/moore/pkg/analysis"
	"github.com/aretw0/moore/pkg/domain"
	"github.com/aretw0/moore/pkg/session"
	"github.com/go-chi/chi/v5"
)

// AutomatonResponse is the full view of the automaton.
type AutomatonResponse struct {
	Info        analysis.Info       `json:"info"`
	Statistics  analysis.Statistics `json:"statistics"`
	Transitions []domain.Transition `json:"transitions"`
	Outputs     map[string]string   `json:"outputs"`
	Live        domain.LiveStatus   `json:"live"`
}

// TransitionRequest is the body of POST /transitions.
type TransitionRequest struct {
	From   string `json:"from"`
	Input  string `json:"input"`
	Output string `json:"output"`
	To     string `json:"to"`
}

// WordRequest is the body of POST /process and POST /live/start.
type WordRequest struct {
	Word string `json:"word"`
}

// StateRequest is the body of PUT /initial.
type StateRequest struct {
	State string `json:"state"`
}

// NameRequest is the body of POST /snapshots.
type NameRequest struct {
	Name string `json:"name"`
}

// ProcessResponse carries the trace of a batch run, complete or partial.
type ProcessResponse struct {
	Result *domain.Result `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "moore-http",
		"version": strings.TrimSpace(moore.Version),
	})
}

// GetAutomaton handles the GET /automaton request.
func (s *Server) GetAutomaton(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	a := s.manager.Automaton()
	resp := AutomatonResponse{
		Info:        analysis.Describe(a),
		Statistics:  analysis.Stats(a),
		Transitions: a.Transitions(),
		Outputs:     a.Outputs(),
		Live:        s.manager.LiveStatus(),
	}
	s.mu.Unlock()

	if resp.Transitions == nil {
		resp.Transitions = []domain.Transition{}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// ClearAutomaton handles the DELETE /automaton request.
func (s *Server) ClearAutomaton(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.manager.Clear(r.Context())
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

// AddTransition handles the POST /transitions request.
func (s *Server) AddTransition(w http.ResponseWriter, r *http.Request) {
	var body TransitionRequest
	if !s.decode(w, r, &body) {
		return
	}

	s.mu.Lock()
	t, err := s.manager.AddTransition(r.Context(), body.From, body.Input, body.Output, body.To)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, t)
}

// RemoveTransition handles the DELETE /transitions/{index} request.
func (s *Server) RemoveTransition(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		s.writeError(w, r, &domain.ValidationError{Field: "index", Reason: "must be an integer"})
		return
	}

	s.mu.Lock()
	t, err := s.manager.RemoveTransition(r.Context(), index)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, t)
}

// RemoveState handles the DELETE /states/{state} request.
func (s *Server) RemoveState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	err := s.manager.RemoveState(r.Context(), chi.URLParam(r, "state"))
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetInitialState handles the PUT /initial request.
func (s *Server) SetInitialState(w http.ResponseWriter, r *http.Request) {
	var body StateRequest
	if !s.decode(w, r, &body) {
		return
	}

	s.mu.Lock()
	err := s.manager.SetInitialState(r.Context(), body.State)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, body)
}

// CreateDefaultGraph handles the POST /default request.
func (s *Server) CreateDefaultGraph(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	err := s.manager.CreateDefaultGraph(r.Context())
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ProcessWord handles the POST /process request.
// A run that gets stuck answers 422 with the partial trace.
func (s *Server) ProcessWord(w http.ResponseWriter, r *http.Request) {
	var body WordRequest
	if !s.decode(w, r, &body) {
		return
	}

	s.mu.Lock()
	res, err := s.manager.ProcessWord(body.Word)
	if s.metrics != nil {
		s.metrics.RecordProcess(err)
	}
	s.mu.Unlock()

	if err != nil && res == nil {
		s.writeError(w, r, err)
		return
	}
	status := http.StatusOK
	resp := ProcessResponse{Result: res}
	if err != nil {
		status, _ = statusFor(err)
		resp.Error = err.Error()
	}
	s.writeJSON(w, status, resp)
}

// GetLive handles the GET /live request.
func (s *Server) GetLive(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	st := s.manager.LiveStatus()
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, st)
}

// StartLive handles the POST /live/start request.
func (s *Server) StartLive(w http.ResponseWriter, r *http.Request) {
	var body WordRequest
	if !s.decode(w, r, &body) {
		return
	}

	s.mu.Lock()
	st, err := s.manager.StartLive(r.Context(), body.Word)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, st)
}

// StepLive handles the POST /live/step request.
func (s *Server) StepLive(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	st, err := s.manager.StepLive(r.Context())
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, st)
}

// ResetLive handles the POST /live/reset request.
func (s *Server) ResetLive(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.manager.ResetLive(r.Context())
	st := s.manager.LiveStatus()
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, st)
}

// GetGraph handles the GET /graph request with a Mermaid flowchart.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := graph.GenerateMermaid(s.manager.Automaton(), graph.OverlayFromStatus(s.manager.LiveStatus()))
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(out))
}

// GetSnapshot handles the GET /snapshot request.
func (s *Server) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	snap := s.manager.Snapshot()
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, snap)
}

// RestoreSnapshot handles the PUT /snapshot request.
func (s *Server) RestoreSnapshot(w http.ResponseWriter, r *http.Request) {
	var snap domain.Snapshot
	if !s.decode(w, r, &snap) {
		return
	}

	s.mu.Lock()
	err := s.manager.Restore(r.Context(), &snap)
	current := s.manager.Snapshot()
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, current)
}

// ListSnapshots handles the GET /snapshots request.
func (s *Server) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	names, err := s.manager.ListSnapshots(r.Context())
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	s.writeJSON(w, http.StatusOK, names)
}

// SaveSnapshot handles the POST /snapshots request.
func (s *Server) SaveSnapshot(w http.ResponseWriter, r *http.Request) {
	var body NameRequest
	if !s.decode(w, r, &body) {
		return
	}

	s.mu.Lock()
	err := s.manager.SaveSnapshot(r.Context(), body.Name)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, body)
}

// GetStoredSnapshot handles the GET /snapshots/{name} request without applying it.
func (s *Server) GetStoredSnapshot(w http.ResponseWriter, r *http.Request) {
	store := s.manager.Store()
	if store == nil {
		s.writeError(w, r, session.ErrNoStore)
		return
	}
	snap, err := store.Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// LoadSnapshot handles the POST /snapshots/{name}/restore request.
func (s *Server) LoadSnapshot(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	err := s.manager.LoadSnapshot(r.Context(), chi.URLParam(r, "name"))
	current := s.manager.Snapshot()
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, current)
}

// DeleteSnapshot handles the DELETE /snapshots/{name} request.
func (s *Server) DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	err := s.manager.DeleteSnapshot(r.Context(), chi.URLParam(r, "name"))
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
