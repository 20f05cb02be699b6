package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/moore/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// contractSnapshot is a small automaton with an orphan state and a state without output.
func contractSnapshot() *domain.Snapshot {
	return &domain.Snapshot{
		States: []domain.StateEntry{
			{Name: "q0"},
			{Name: "q1", Output: "b", HasOutput: true},
			{Name: "orphan", Output: "z", HasOutput: true},
		},
		Transitions: []domain.SnapshotTransition{
			{From: "q0", Input: "0", Output: "b", To: "q1"},
			{From: "q1", Input: "1", Output: "", To: "q0"},
		},
		Initial: "q0",
	}
}

// RunSnapshotStoreContract runs a suite of tests to verify that a SnapshotStore implementation
// adheres to the defined interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	name := "contract-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		snap := contractSnapshot()

		err := store.Save(ctx, name, snap)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, snap, loaded)

		// The loaded snapshot must restore to the same automaton.
		a := domain.NewAutomaton()
		require.NoError(t, a.Restore(loaded))
		assert.Equal(t, "q0", a.InitialState())
		assert.Len(t, a.Transitions(), 2)
		assert.True(t, a.HasState("orphan"))
	})

	t.Run("Stored copy is isolated", func(t *testing.T) {
		snap := contractSnapshot()
		require.NoError(t, store.Save(ctx, name, snap))
		snap.Initial = "q1"

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, "q0", loaded.Initial)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+name)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, contractSnapshot()))

		err := store.Delete(ctx, name)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, name)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound, "Load after Delete should return ErrSnapshotNotFound")

		assert.NoError(t, store.Delete(ctx, name), "deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := name + "-1"
		id2 := name + "-2"
		require.NoError(t, store.Save(ctx, id1, contractSnapshot()))
		require.NoError(t, store.Save(ctx, id2, contractSnapshot()))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, id1)
		assert.Contains(t, names, id2)
	})

	t.Run("List names that look temporary", func(t *testing.T) {
		tmpName := "tmp-" + name
		require.NoError(t, store.Save(ctx, tmpName, contractSnapshot()))
		defer func() {
			_ = store.Delete(ctx, tmpName)
		}()

		_, err := store.Load(ctx, tmpName)
		require.NoError(t, err)

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, tmpName)
	})
}
