package moore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/aretw0/moore/internal/logging"
	"github.com/aretw0/moore/pkg/adapters/file"
	"github.com/aretw0/moore/pkg/domain"
	"github.com/aretw0/moore/pkg/notify"
	"github.com/aretw0/moore/pkg/ports"
	"github.com/aretw0/moore/pkg/session"
)

// Version is the release of the library and its binaries.
var Version = "0.1.0"

// Engine is the high-level entry point for the library.
// It owns one session.Manager and the store behind it.
type Engine struct {
	manager      *session.Manager
	store        ports.SnapshotStore
	listeners    []notify.Listener
	definition   string
	defaultGraph bool
	logger       *slog.Logger
	Name         string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithStore sets the snapshot store used by Save, Load and List.
func WithStore(s ports.SnapshotStore) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithListener subscribes l before the definition is loaded, so it sees the initial restore.
func WithListener(l notify.Listener) Option {
	return func(e *Engine) {
		e.listeners = append(e.listeners, l)
	}
}

// WithDefinition loads the automaton from a YAML or JSON definition file.
func WithDefinition(path string) Option {
	return func(e *Engine) {
		e.definition = path
	}
}

// WithDefaultGraph loads the built-in three state demo when no definition is given.
func WithDefaultGraph() Option {
	return func(e *Engine) {
		e.defaultGraph = true
	}
}

// New initializes an Engine. With neither WithDefinition nor WithDefaultGraph the automaton starts empty.
func New(ctx context.Context, opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.definition != "" {
		eng.Name = strings.TrimSuffix(filepath.Base(eng.definition), filepath.Ext(eng.definition))
		eng.logger = eng.logger.With("automaton", eng.Name)
	}

	mopts := []session.Option{session.WithLogger(eng.logger)}
	if eng.store != nil {
		mopts = append(mopts, session.WithStore(eng.store))
	}
	eng.manager = session.NewManager(mopts...)
	for _, l := range eng.listeners {
		eng.manager.Subscribe(l)
	}

	switch {
	case eng.definition != "":
		snap, err := file.LoadDefinition(eng.definition)
		if err != nil {
			return nil, fmt.Errorf("failed to load definition: %w", err)
		}
		if err := eng.manager.Restore(ctx, snap); err != nil {
			return nil, fmt.Errorf("failed to apply definition: %w", err)
		}
	case eng.defaultGraph:
		if err := eng.manager.CreateDefaultGraph(ctx); err != nil {
			return nil, err
		}
	}

	eng.logger.Debug("engine ready",
		slog.Int("states", len(eng.manager.Automaton().States())),
		slog.Int("transitions", len(eng.manager.Automaton().Transitions())),
	)
	return eng, nil
}

// Manager returns the mutation surface of the automaton.
func (e *Engine) Manager() *session.Manager {
	return e.manager
}

// Automaton returns the live automaton. Mutate it through Manager so listeners are notified.
func (e *Engine) Automaton() *domain.Automaton {
	return e.manager.Automaton()
}

// Process runs word in batch mode.
func (e *Engine) Process(word string) (*domain.Result, error) {
	return e.manager.ProcessWord(word)
}

// Logger returns the engine logger.
func (e *Engine) Logger() *slog.Logger {
	return e.logger
}

// Close releases the store if it holds a connection.
func (e *Engine) Close() error {
	if c, ok := e.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
