package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/moore/pkg/adapters/memory"
	"github.com/aretw0/moore/pkg/domain"
	"github.com/aretw0/moore/pkg/notify"
	"github.com/aretw0/moore/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// eventLog records every event delivered by the bus.
type eventLog struct {
	events []domain.Event
}

func (l *eventLog) OnEvent(ctx context.Context, ev domain.Event) error {
	l.events = append(l.events, ev)
	return nil
}

func (l *eventLog) types() []domain.EventType {
	out := make([]domain.EventType, len(l.events))
	for i, ev := range l.events {
		out[i] = ev.Type()
	}
	return out
}

func (l *eventLog) reset() { l.events = nil }

func newManager(t *testing.T, opts ...session.Option) (*session.Manager, *eventLog) {
	t.Helper()
	m := session.NewManager(opts...)
	log := &eventLog{}
	m.Subscribe(log)
	return m, log
}

func TestManager_AddTransition(t *testing.T) {
	ctx := context.Background()
	m, log := newManager(t)

	tr, err := m.AddTransition(ctx, "q0", "a", "x", "q1")
	require.NoError(t, err)
	assert.Equal(t, domain.Transition{From: "q0", Input: "a", To: "q1"}, tr)

	a := m.Automaton()
	assert.Equal(t, []string{"q0", "q1"}, a.States())
	out, ok := a.OutputOf("q1")
	assert.True(t, ok)
	assert.Equal(t, "x", out)
	_, ok = a.OutputOf("q0")
	assert.False(t, ok, "source state gets no output")

	require.Len(t, log.events, 1)
	assert.Equal(t, domain.TransitionAdded{Transition: tr, Output: "x"}, log.events[0])
}

func TestManager_AddTransitionRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	m, log := newManager(t)

	_, err := m.AddTransition(ctx, "q0", "a", "x", "q1")
	require.NoError(t, err)
	log.reset()

	_, err = m.AddTransition(ctx, "q0", "a", "y", "q2")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, log.events, "failed operations emit nothing")
	assert.Len(t, m.Automaton().Transitions(), 1)
	assert.False(t, m.Automaton().HasState("q2"), "model is unchanged")

	// The model itself accepts the duplicate and reports non-determinism.
	a := m.Automaton()
	require.NoError(t, a.AddTransition("q0", "q0", "a"))
	assert.False(t, a.IsDeterministic())
}

func TestManager_AddTransitionRejectsEmptyFields(t *testing.T) {
	m, log := newManager(t)
	_, err := m.AddTransition(context.Background(), "q0", "a", "", "q1")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "output", verr.Field)
	assert.Empty(t, log.events)
	assert.Empty(t, m.Automaton().States())
}

func TestManager_OneEventPerOperation(t *testing.T) {
	ctx := context.Background()
	m, log := newManager(t)

	require.NoError(t, m.CreateDefaultGraph(ctx))
	want := []domain.EventType{}
	for range session.DefaultEdges {
		want = append(want, domain.EventTransitionAdded)
	}
	want = append(want, domain.EventInitialStateChanged)
	assert.Equal(t, want, log.types())

	steps := []struct {
		name string
		run  func() error
		want domain.EventType
	}{
		{"remove transition", func() error { _, err := m.RemoveTransition(ctx, 0); return err }, domain.EventTransitionRemoved},
		{"set initial", func() error { return m.SetInitialState(ctx, "2") }, domain.EventInitialStateChanged},
		{"start live", func() error { _, err := m.StartLive(ctx, "01"); return err }, domain.EventLiveEditStarted},
		{"step live", func() error { _, err := m.StepLive(ctx); return err }, domain.EventLiveEditStep},
		{"reset live", func() error { m.ResetLive(ctx); return nil }, domain.EventLiveEditReset},
		{"remove state", func() error { return m.RemoveState(ctx, "3") }, domain.EventStateRemoved},
		{"restore", func() error { return m.Restore(ctx, &domain.Snapshot{}) }, domain.EventStateRestored},
		{"clear", func() error { m.Clear(ctx); return nil }, domain.EventCleared},
	}
	for _, s := range steps {
		log.reset()
		require.NoError(t, s.run(), s.name)
		assert.Equal(t, []domain.EventType{s.want}, log.types(), s.name)
	}
}

func TestManager_FailedOperationsEmitNothing(t *testing.T) {
	ctx := context.Background()
	m, log := newManager(t)
	require.NoError(t, m.CreateDefaultGraph(ctx))
	log.reset()

	_, err := m.RemoveTransition(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorIs(t, m.RemoveState(ctx, "ghost"), domain.ErrStateNotFound)
	assert.ErrorIs(t, m.SetInitialState(ctx, "ghost"), domain.ErrStateNotFound)
	_, err = m.StartLive(ctx, "")
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = m.StepLive(ctx)
	assert.ErrorIs(t, err, domain.ErrNotActive)
	assert.ErrorIs(t, m.Restore(ctx, nil), domain.ErrValidation)

	assert.Empty(t, log.events)
	assert.Len(t, m.Automaton().Transitions(), 6)
}

func TestManager_CreateDefaultGraph(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)
	require.NoError(t, m.CreateDefaultGraph(ctx))

	res, err := m.ProcessWord("101")
	require.NoError(t, err)
	assert.Equal(t, "111", res.Output)
	assert.Equal(t, "3", res.FinalState)

	// Already populated: nothing changes.
	_, err = m.RemoveTransition(ctx, 5)
	require.NoError(t, err)
	require.NoError(t, m.CreateDefaultGraph(ctx))
	assert.Len(t, m.Automaton().Transitions(), 5)
}

func TestManager_ProcessWordValidates(t *testing.T) {
	m, log := newManager(t)
	_, err := m.ProcessWord("1")
	assert.ErrorIs(t, err, domain.ErrNoInitialState)

	require.NoError(t, m.CreateDefaultGraph(context.Background()))
	log.reset()

	_, err = m.ProcessWord("")
	assert.ErrorIs(t, err, domain.ErrEmptyWord)
	_, err = m.ProcessWord("102")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = m.ProcessWord("0110")
	require.NoError(t, err)
	assert.Empty(t, log.events, "processing is not a mutation")
}

func TestManager_RemoveStateResetsLive(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)
	require.NoError(t, m.CreateDefaultGraph(ctx))

	_, err := m.StartLive(ctx, "00")
	require.NoError(t, err)
	_, err = m.StepLive(ctx)
	require.NoError(t, err)

	require.NoError(t, m.RemoveState(ctx, "2"))
	assert.Equal(t, domain.PhaseIdle, m.LiveStatus().Phase)

	_, err = m.StepLive(ctx)
	assert.ErrorIs(t, err, domain.ErrNotActive)
}

func TestManager_StuckLiveStepHalts(t *testing.T) {
	ctx := context.Background()
	m, log := newManager(t)
	require.NoError(t, m.CreateDefaultGraph(ctx))
	_, err := m.RemoveTransition(ctx, 2) // 2 --1--> 3
	require.NoError(t, err)

	_, err = m.StartLive(ctx, "01")
	require.NoError(t, err)
	_, err = m.StepLive(ctx)
	require.NoError(t, err)
	log.reset()

	st, err := m.StepLive(ctx)
	assert.ErrorIs(t, err, domain.ErrStuck)
	assert.Equal(t, domain.PhaseHalted, st.Phase)
	assert.Len(t, st.History, 1)
	assert.Empty(t, log.events)
}

func TestManager_RestoreIgnoresInvalidInitial(t *testing.T) {
	ctx := context.Background()
	m, log := newManager(t)

	snap := &domain.Snapshot{
		Transitions: []domain.SnapshotTransition{{From: "a", Input: "0", Output: "x", To: "b"}},
		Initial:     "ghost",
	}
	require.NoError(t, m.Restore(ctx, snap))

	assert.False(t, m.Automaton().HasInitialState())
	assert.Len(t, m.Automaton().Transitions(), 1)
	require.Len(t, log.events, 1)
	restored, ok := log.events[0].(domain.StateRestored)
	require.True(t, ok)
	assert.Equal(t, snap, restored.Snapshot)
	assert.NotSame(t, snap, restored.Snapshot)
}

func TestManager_SnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	src, _ := newManager(t)
	require.NoError(t, src.CreateDefaultGraph(ctx))
	_, err := src.AddTransition(ctx, "3", "2", "z", "4")
	require.NoError(t, err)

	dst, _ := newManager(t)
	require.NoError(t, dst.Restore(ctx, src.Snapshot()))

	assert.Equal(t, src.Automaton().Transitions(), dst.Automaton().Transitions())
	assert.Equal(t, src.Automaton().InitialState(), dst.Automaton().InitialState())
	assert.Equal(t, src.Automaton().Outputs(), dst.Automaton().Outputs())
}

func TestManager_Persistence(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	m, log := newManager(t, session.WithStore(store))
	require.NoError(t, m.CreateDefaultGraph(ctx))

	require.NoError(t, m.SaveSnapshot(ctx, "demo"))
	names, err := m.ListSnapshots(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"demo"}, names)

	m.Clear(ctx)
	log.reset()
	require.NoError(t, m.LoadSnapshot(ctx, "demo"))
	assert.Equal(t, []domain.EventType{domain.EventStateRestored}, log.types())
	assert.Len(t, m.Automaton().Transitions(), 6)
	assert.Equal(t, "1", m.Automaton().InitialState())

	err = m.LoadSnapshot(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)

	require.NoError(t, m.DeleteSnapshot(ctx, "demo"))
	names, err = m.ListSnapshots(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	assert.ErrorIs(t, m.SaveSnapshot(ctx, ""), domain.ErrValidation)
}

func TestManager_PersistenceWithoutStore(t *testing.T) {
	m := session.NewManager()
	assert.ErrorIs(t, m.SaveSnapshot(context.Background(), "x"), session.ErrNoStore)
	_, err := m.ListSnapshots(context.Background())
	assert.ErrorIs(t, err, session.ErrNoStore)
}

func TestManager_ListenerFailureDoesNotFailMutation(t *testing.T) {
	var reported int
	bus := notify.NewBus(notify.WithErrorReporter(func(ev domain.Event, err error) { reported++ }))
	m := session.NewManager(session.WithBus(bus))
	m.Bus().SubscribeFunc(func(ctx context.Context, ev domain.Event) error {
		return errors.New("display offline")
	})

	_, err := m.AddTransition(context.Background(), "a", "0", "x", "b")
	assert.NoError(t, err)
	assert.Equal(t, 1, reported)
	assert.Len(t, m.Automaton().Transitions(), 1)
}
