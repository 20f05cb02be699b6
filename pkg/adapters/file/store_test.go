package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/moore/pkg/adapters/file"
	"github.com/aretw0/moore/pkg/domain"
	"github.com/aretw0/moore/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Store implements SnapshotStore
var _ ports.SnapshotStore = (*file.Store)(nil)

func TestFileStore_Contract(t *testing.T) {
	store := file.New(t.TempDir())
	ports.RunSnapshotStoreContract(t, store)
}

func TestFileStore_NoTempLeftovers(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "a", &domain.Snapshot{Initial: ""}))
	require.NoError(t, store.Save(ctx, "a", &domain.Snapshot{Initial: ""}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.json", entries[0].Name())
}

func TestFileStore_ListSkipsInterruptedWrites(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "tmp-demo", &domain.Snapshot{}))
	// Left behind by a save that died before the rename.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "demo.json.tmp-123"), []byte("{"), 0644))

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"tmp-demo"}, names)
}

func TestFileStore_RejectsBadNames(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	for _, name := range []string{"", "../escape", `a\b`, ".."} {
		err := store.Save(ctx, name, &domain.Snapshot{})
		assert.ErrorIs(t, err, domain.ErrValidation, name)
	}
}

func TestFileStore_ListMissingDir(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "missing"))
	names, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)
}
