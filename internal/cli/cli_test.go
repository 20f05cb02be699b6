package cli

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/moore"
	"github.com/aretw0/moore/internal/config"
	"github.com/aretw0/moore/internal/logging"
	"github.com/aretw0/moore/internal/presentation/tui"
	"github.com/aretw0/moore/pkg/adapters/file"
	"github.com/aretw0/moore/pkg/adapters/memory"
	"github.com/aretw0/moore/pkg/domain"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConsole(t *testing.T) (*Console, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	styler := tui.NewStyler(termenv.Ascii)
	engine, err := moore.New(context.Background(),
		moore.WithDefaultGraph(),
		moore.WithStore(memory.NewStore()),
		moore.WithListener(NewEventPrinter(&out, styler)),
	)
	require.NoError(t, err)
	out.Reset()
	return NewConsole(engine, &out, styler, func(md string) (string, error) { return md, nil }), &out
}

func TestCreateStore(t *testing.T) {
	ctx := context.Background()
	cfg := config.NewDefaultConfig()

	store, err := baseStore(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, store)

	cfg.Store = config.StoreFile
	cfg.StoreDir = t.TempDir()
	store, err = baseStore(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &file.Store{}, store)

	cfg.Store = "etcd"
	_, err = CreateStore(ctx, cfg, logging.NewNop())
	assert.ErrorIs(t, err, config.ErrInvalidStore)
}

func TestCreateStore_Encrypted(t *testing.T) {
	ctx := context.Background()
	cfg := config.NewDefaultConfig()
	cfg.Store = config.StoreFile
	cfg.StoreDir = t.TempDir()
	cfg.StoreKey = strings.Repeat("ab", 32)

	store, err := CreateStore(ctx, cfg, logging.NewNop())
	require.NoError(t, err)
	snap := &domain.Snapshot{Transitions: []domain.SnapshotTransition{{From: "a", Input: "0", Output: "x", To: "a"}}, Initial: "a"}
	require.NoError(t, store.Save(ctx, "sealed", snap))

	raw, err := file.New(cfg.StoreDir).Load(ctx, "sealed")
	require.NoError(t, err)
	assert.Empty(t, raw.Transitions)

	loaded, err := store.Load(ctx, "sealed")
	require.NoError(t, err)
	assert.Equal(t, "a", loaded.Initial)

	cfg.StoreKey = "nothex"
	_, err = CreateStore(ctx, cfg, logging.NewNop())
	assert.ErrorIs(t, err, config.ErrInvalidStoreKey)
}

func TestCreateEngine(t *testing.T) {
	ctx := context.Background()
	cfg := config.NewDefaultConfig()

	engine, err := CreateEngine(ctx, cfg, logging.NewNop())
	require.NoError(t, err)
	assert.Len(t, engine.Automaton().Transitions(), 6)

	cfg.Definition = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = CreateEngine(ctx, cfg, logging.NewNop())
	assert.Error(t, err)
}

func TestCreateLogger(t *testing.T) {
	cfg := config.NewDefaultConfig()
	_, err := CreateLogger(cfg)
	require.NoError(t, err)

	cfg.LogLevel = "loud"
	_, err = CreateLogger(cfg)
	assert.ErrorIs(t, err, config.ErrInvalidLogLevel)
}

func TestConsole_AutoRun(t *testing.T) {
	c, out := newTestConsole(t)

	require.NoError(t, c.AutoRun(context.Background(), "101"))
	text := out.String()
	assert.Contains(t, text, "[active] |101")
	assert.Contains(t, text, "#1  1 --1--> 1  out=1")
	assert.Contains(t, text, "#3  2 --1--> 3  out=1")
	assert.Contains(t, text, "[finished] 101|  state=3")
}

func TestConsole_AutoRunHalts(t *testing.T) {
	c, out := newTestConsole(t)
	ctx := context.Background()
	require.NoError(t, c.Exec(ctx, "rm 2"))

	err := c.AutoRun(ctx, "01")
	assert.ErrorIs(t, err, domain.ErrStuck)
	assert.Contains(t, out.String(), "stuck: no transition for (2, 1)")
	assert.Contains(t, out.String(), "[halted] 0|1")
}

func TestConsole_Exec(t *testing.T) {
	c, out := newTestConsole(t)
	ctx := context.Background()
	m := c.engine.Manager()

	require.NoError(t, c.Exec(ctx, "add 3 2 z 4"))
	assert.Contains(t, out.String(), "+ 3 --2--> 4 (output z)")

	require.NoError(t, c.Exec(ctx, "start 10"))
	require.NoError(t, c.Exec(ctx, ""))
	require.NoError(t, c.Exec(ctx, "step"))
	assert.Equal(t, domain.PhaseFinished, m.LiveStatus().Phase)
	assert.ErrorIs(t, c.Exec(ctx, "step"), domain.ErrNotActive)

	out.Reset()
	require.NoError(t, c.Exec(ctx, "process 0"))
	assert.Contains(t, out.String(), "Output word: 1")

	require.NoError(t, c.Exec(ctx, "save demo"))
	require.NoError(t, c.Exec(ctx, "clear"))
	assert.Empty(t, m.Automaton().Transitions())
	require.NoError(t, c.Exec(ctx, "load demo"))
	assert.Len(t, m.Automaton().Transitions(), 7)

	out.Reset()
	require.NoError(t, c.Exec(ctx, "list"))
	assert.Equal(t, "demo\n", out.String())

	assert.Error(t, c.Exec(ctx, "rm x"))
	assert.Error(t, c.Exec(ctx, "add 1 2"))
	assert.Error(t, c.Exec(ctx, "fly"))
	assert.ErrorIs(t, c.Exec(ctx, "rmstate 9"), domain.ErrStateNotFound)
	assert.True(t, errors.Is(c.Exec(ctx, "quit"), errQuit))
}

func TestConsole_Loop(t *testing.T) {
	c, out := newTestConsole(t)
	in := strings.NewReader("start 10\nrun\nbogus\ngraph\nquit\nstatus\n")

	require.NoError(t, c.Loop(context.Background(), in))
	text := out.String()
	assert.Contains(t, text, "[finished] 10|  state=2")
	assert.Contains(t, text, `error: unknown command "bogus"`)
	assert.Contains(t, text, "graph LR")
	assert.Equal(t, 1, strings.Count(text, "[finished]"), "status after quit is not executed")
}

func TestConsole_LoopEOF(t *testing.T) {
	c, _ := newTestConsole(t)
	assert.NoError(t, c.Loop(context.Background(), strings.NewReader("status")))
}

func TestInterruptibleReader(t *testing.T) {
	cancel := make(chan struct{})
	r := NewInterruptibleReader(strings.NewReader("abc"), cancel)

	buf := make([]byte, 2)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	close(cancel)
	_, err = r.Read(buf)
	assert.True(t, isInterrupted(err))
}

func TestSanitizeInput(t *testing.T) {
	clean, err := SanitizeInput("start 1\x1b[31m0\x00")
	require.NoError(t, err)
	assert.Equal(t, "start 1[31m0", clean)

	_, err = SanitizeInput(strings.Repeat("1", DefaultMaxInputSize+1))
	assert.ErrorIs(t, err, ErrInputTooLarge)

	t.Setenv(EnvMaxInputSize, "4")
	_, err = SanitizeInput("start")
	assert.ErrorIs(t, err, ErrInputTooLarge)

	_, err = SanitizeInput("\xff")
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}
