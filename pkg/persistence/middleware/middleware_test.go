package middleware_test

import (
	"bytes"
	"context"
	"crypto/rand"
	"io"
	"log/slog"
	"testing"

	"github.com/aretw0/moore/internal/logging"
	"github.com/aretw0/moore/pkg/adapters/memory"
	"github.com/aretw0/moore/pkg/domain"
	"github.com/aretw0/moore/pkg/persistence/middleware"
	"github.com/aretw0/moore/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, 32)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func secretSnapshot() *domain.Snapshot {
	return &domain.Snapshot{
		States:      []domain.StateEntry{{Name: "vault", Output: "secret", HasOutput: true}},
		Transitions: []domain.SnapshotTransition{{From: "vault", Input: "k", Output: "secret", To: "vault"}},
		Initial:     "vault",
	}
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	require.NoError(t, err)
	ports.RunSnapshotStoreContract(t, mw(memory.NewStore()))
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlying := memory.NewStore()
	mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	require.NoError(t, err)
	secure := mw(underlying)
	ctx := context.Background()

	require.NoError(t, secure.Save(ctx, "vault", secretSnapshot()))

	stored, err := underlying.Load(ctx, "vault")
	require.NoError(t, err)
	require.Len(t, stored.States, 1)
	assert.Equal(t, middleware.EnvelopeState, stored.States[0].Name)
	assert.NotContains(t, stored.States[0].Output, "secret")
	assert.Empty(t, stored.Transitions)
	assert.Empty(t, stored.Initial)

	loaded, err := secure.Load(ctx, "vault")
	require.NoError(t, err)
	assert.Equal(t, secretSnapshot(), loaded)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlying := memory.NewStore()
	oldKey, newKey := generateKey(t), generateKey(t)
	ctx := context.Background()

	mwOld, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})
	require.NoError(t, err)
	oldStore := mwOld(underlying)
	require.NoError(t, oldStore.Save(ctx, "vault", secretSnapshot()))

	mwNew, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})
	require.NoError(t, err)
	newStore := mwNew(underlying)

	loaded, err := newStore.Load(ctx, "vault")
	require.NoError(t, err, "fallback key decrypts old snapshots")

	require.NoError(t, newStore.Save(ctx, "vault", loaded))
	_, err = oldStore.Load(ctx, "vault")
	assert.Error(t, err, "old key alone cannot read a re-sealed snapshot")
}

func TestEncryptionMiddleware_RejectsPlainSnapshots(t *testing.T) {
	underlying := memory.NewStore()
	require.NoError(t, underlying.Save(context.Background(), "plain", secretSnapshot()))

	mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	require.NoError(t, err)
	_, err = mw(underlying).Load(context.Background(), "plain")
	assert.ErrorContains(t, err, "envelope")
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	_, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
	assert.ErrorIs(t, err, middleware.ErrInvalidKey)

	_, err = middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    generateKey(t),
		FallbackKeys: [][]byte{[]byte("short")},
	})
	assert.ErrorIs(t, err, middleware.ErrInvalidKey)
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	store := middleware.NewLoggingMiddleware(logging.NewWithWriter(&buf, slog.LevelDebug))(memory.NewStore())
	ctx := context.Background()

	ports.RunSnapshotStoreContract(t, store)
	assert.Contains(t, buf.String(), "op=save")
	assert.Contains(t, buf.String(), "op=list")

	buf.Reset()
	_, err := store.Load(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	assert.Contains(t, buf.String(), "level=WARN")
}

func TestChain(t *testing.T) {
	var buf bytes.Buffer
	enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	require.NoError(t, err)

	store := middleware.Chain(memory.NewStore(), middleware.NewLoggingMiddleware(logging.NewWithWriter(&buf, slog.LevelDebug)), enc)
	require.NoError(t, store.Save(context.Background(), "vault", secretSnapshot()))
	loaded, err := store.Load(context.Background(), "vault")
	require.NoError(t, err)
	assert.Equal(t, "vault", loaded.Initial)
	assert.Contains(t, buf.String(), "snapshot=vault")

	closer, ok := store.(io.Closer)
	require.True(t, ok)
	assert.NoError(t, closer.Close())
}
