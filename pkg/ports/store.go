package ports

import (
	"context"

	"github.com/aretw0/moore/pkg/domain"
)

// SnapshotStore defines the interface for persisting named automaton snapshots.
// This allows an edited automaton to outlive the process that built it.
type SnapshotStore interface {
	// Save persists the snapshot under name, replacing any previous one.
	Save(ctx context.Context, name string, snap *domain.Snapshot) error

	// Load retrieves the snapshot stored under name.
	// Returns domain.ErrSnapshotNotFound if there is none.
	Load(ctx context.Context, name string) (*domain.Snapshot, error)

	// Delete removes the snapshot. Deleting a missing name is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the names of the stored snapshots.
	List(ctx context.Context) ([]string, error)
}
