package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/moore/internal/logging"
	"github.com/aretw0/moore/pkg/analysis"
	"github.com/aretw0/moore/pkg/domain"
	"github.com/aretw0/moore/pkg/live"
	"github.com/aretw0/moore/pkg/notify"
	"github.com/aretw0/moore/pkg/ports"
)

// ErrNoStore is returned by the persistence methods when no SnapshotStore is configured.
var ErrNoStore = errors.New("no snapshot store configured")

// DefaultEdges is the demo table loaded by CreateDefaultGraph: from, input, output, to.
var DefaultEdges = [][4]string{
	{"1", "1", "1", "1"},
	{"1", "0", "1", "2"},
	{"2", "1", "1", "3"},
	{"2", "0", "1", "2"},
	{"3", "1", "1", "1"},
	{"3", "0", "1", "3"},
}

// Manager is the mutation surface of an automaton.
// Every successful mutation publishes exactly one event on the bus after it has taken
// effect; a failed one publishes nothing and leaves the automaton unchanged.
// Manager is not safe for concurrent use.
type Manager struct {
	automaton *domain.Automaton
	live      *live.Processor
	bus       *notify.Bus
	store     ports.SnapshotStore
	logger    *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithStore enables snapshot persistence.
func WithStore(store ports.SnapshotStore) Option {
	return func(m *Manager) {
		m.store = store
	}
}

// WithBus publishes events on an existing bus instead of a private one.
func WithBus(bus *notify.Bus) Option {
	return func(m *Manager) {
		m.bus = bus
	}
}

// WithAutomaton manages an existing automaton instead of an empty one.
func WithAutomaton(a *domain.Automaton) Option {
	return func(m *Manager) {
		m.automaton = a
	}
}

// NewManager creates a Manager over an empty automaton.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		logger: logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.automaton == nil {
		m.automaton = domain.NewAutomaton()
	}
	if m.bus == nil {
		m.bus = notify.NewBus(notify.WithLogger(m.logger))
	}
	m.live = live.New(m.automaton)
	return m
}

// Automaton exposes the managed automaton for queries.
// Mutating it directly bypasses notifications.
func (m *Manager) Automaton() *domain.Automaton {
	return m.automaton
}

// Bus returns the bus events are published on.
func (m *Manager) Bus() *notify.Bus {
	return m.bus
}

// Store returns the configured snapshot store, or nil.
func (m *Manager) Store() ports.SnapshotStore {
	return m.store
}

// Subscribe registers a listener on the bus.
func (m *Manager) Subscribe(l notify.Listener) *notify.Subscription {
	return m.bus.Subscribe(l)
}

func (m *Manager) emit(ctx context.Context, ev domain.Event) {
	m.logger.Debug("automaton changed", logging.Event(ev.Type()))
	m.bus.Notify(ctx, ev)
}

// AddTransition adds the edge from --input--> to and gives to the output symbol.
// It rejects empty fields and a second transition for the same (from, input) pair.
func (m *Manager) AddTransition(ctx context.Context, from, input, output, to string) (domain.Transition, error) {
	if err := analysis.ValidateTransition(m.automaton, from, input, output, to); err != nil {
		return domain.Transition{}, err
	}

	m.automaton.AddState(from)
	m.automaton.AddState(to, output)
	if err := m.automaton.AddTransition(from, to, input); err != nil {
		return domain.Transition{}, err
	}

	t := domain.Transition{From: from, Input: input, To: to}
	m.emit(ctx, domain.TransitionAdded{Transition: t, Output: output})
	return t, nil
}

// RemoveTransition removes the transition at index.
func (m *Manager) RemoveTransition(ctx context.Context, index int) (domain.Transition, error) {
	t, ok := m.automaton.RemoveTransitionAt(index)
	if !ok {
		return domain.Transition{}, &domain.ValidationError{
			Field:  "index",
			Reason: fmt.Sprintf("%d is out of range", index),
		}
	}
	m.emit(ctx, domain.TransitionRemoved{Index: index, Transition: t})
	return t, nil
}

// RemoveState removes a state with its transitions and stops any live session.
func (m *Manager) RemoveState(ctx context.Context, state string) error {
	if !m.automaton.RemoveState(state) {
		return fmt.Errorf("%w: %q", domain.ErrStateNotFound, state)
	}
	m.live.Reset()
	m.emit(ctx, domain.StateRemoved{State: state})
	return nil
}

// Clear empties the automaton and stops any live session.
func (m *Manager) Clear(ctx context.Context) {
	m.automaton.Clear()
	m.live.Reset()
	m.emit(ctx, domain.Cleared{})
}

// SetInitialState marks state as initial.
func (m *Manager) SetInitialState(ctx context.Context, state string) error {
	if err := m.automaton.SetInitialState(state); err != nil {
		return err
	}
	m.emit(ctx, domain.InitialStateChanged{State: state})
	return nil
}

// Snapshot captures the automaton.
func (m *Manager) Snapshot() *domain.Snapshot {
	return m.automaton.Snapshot()
}

// Restore replaces the automaton with snap and stops any live session.
// An initial marker naming a missing state is logged and ignored.
func (m *Manager) Restore(ctx context.Context, snap *domain.Snapshot) error {
	if snap == nil {
		return &domain.ValidationError{Field: "snapshot", Reason: "must not be nil"}
	}
	if err := m.automaton.Restore(snap); err != nil {
		if !errors.Is(err, domain.ErrStateNotFound) {
			return err
		}
		m.logger.Warn("ignoring invalid initial state in snapshot",
			logging.State(snap.Initial),
			logging.Err(err),
		)
	}
	m.live.Reset()
	m.emit(ctx, domain.StateRestored{Snapshot: snap.Clone()})
	return nil
}

// ProcessWord validates word and runs it from the initial state.
// It publishes nothing; on a missing transition the partial result is returned with the error.
func (m *Manager) ProcessWord(word string) (*domain.Result, error) {
	if err := analysis.CheckWord(m.automaton, word); err != nil {
		return nil, err
	}
	return m.automaton.ProcessWord(word)
}

// CreateDefaultGraph loads the demo table and marks state 1 initial.
// It does nothing when the automaton already has transitions.
func (m *Manager) CreateDefaultGraph(ctx context.Context) error {
	if len(m.automaton.Transitions()) > 0 {
		return nil
	}
	for _, e := range DefaultEdges {
		if _, err := m.AddTransition(ctx, e[0], e[1], e[2], e[3]); err != nil {
			return fmt.Errorf("default graph: %w", err)
		}
	}
	return m.SetInitialState(ctx, "1")
}

// StartLive begins a live session on word.
func (m *Manager) StartLive(ctx context.Context, word string) (domain.LiveStatus, error) {
	st, err := m.live.Start(word)
	if err != nil {
		return st, err
	}
	m.emit(ctx, domain.LiveEditStarted{Status: st})
	return st, nil
}

// StepLive advances the live session by one symbol.
// A failed step halts the session and publishes nothing.
func (m *Manager) StepLive(ctx context.Context) (domain.LiveStatus, error) {
	st, err := m.live.Step()
	if err != nil {
		m.logger.Info("live step failed", logging.State(st.CurrentState), logging.Err(err))
		return st, err
	}
	m.emit(ctx, domain.LiveEditStep{Status: st})
	return st, nil
}

// ResetLive returns the live session to idle.
func (m *Manager) ResetLive(ctx context.Context) {
	m.live.Reset()
	m.emit(ctx, domain.LiveEditReset{})
}

// LiveStatus returns the live session state.
func (m *Manager) LiveStatus() domain.LiveStatus {
	return m.live.Status()
}
