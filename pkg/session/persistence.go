package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/moore/pkg/domain"
)

func (m *Manager) requireStore() error {
	if m.store == nil {
		return ErrNoStore
	}
	return nil
}

// SaveSnapshot stores the current automaton under name.
func (m *Manager) SaveSnapshot(ctx context.Context, name string) error {
	if err := m.requireStore(); err != nil {
		return err
	}
	if name == "" {
		return &domain.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if err := m.store.Save(ctx, name, m.automaton.Snapshot()); err != nil {
		return fmt.Errorf("failed to save snapshot %q: %w", name, err)
	}
	m.logger.Debug("snapshot saved", slog.String("name", name))
	return nil
}

// LoadSnapshot restores the automaton from the snapshot stored under name.
func (m *Manager) LoadSnapshot(ctx context.Context, name string) error {
	if err := m.requireStore(); err != nil {
		return err
	}
	snap, err := m.store.Load(ctx, name)
	if err != nil {
		return err
	}
	return m.Restore(ctx, snap)
}

// DeleteSnapshot removes a stored snapshot.
func (m *Manager) DeleteSnapshot(ctx context.Context, name string) error {
	if err := m.requireStore(); err != nil {
		return err
	}
	return m.store.Delete(ctx, name)
}

// ListSnapshots returns the names of the stored snapshots.
func (m *Manager) ListSnapshots(ctx context.Context) ([]string, error) {
	if err := m.requireStore(); err != nil {
		return nil, err
	}
	return m.store.List(ctx)
}
