package notify_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/moore/pkg/domain"
	"github.com/aretw0/moore/pkg/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	events []domain.EventType
	err    error
}

func (r *recorder) OnEvent(ctx context.Context, ev domain.Event) error {
	r.events = append(r.events, ev.Type())
	return r.err
}

func TestBus_DeliversToAll(t *testing.T) {
	bus := notify.NewBus()
	a, b := &recorder{}, &recorder{}
	bus.Subscribe(a)
	bus.Subscribe(b)

	bus.Notify(context.Background(), domain.Cleared{})
	bus.Notify(context.Background(), domain.StateRemoved{State: "q"})

	want := []domain.EventType{domain.EventCleared, domain.EventStateRemoved}
	assert.Equal(t, want, a.events)
	assert.Equal(t, want, b.events)
}

func TestBus_SubscribeIsIdempotentForSameListener(t *testing.T) {
	bus := notify.NewBus()
	r := &recorder{}

	s1 := bus.Subscribe(r)
	s2 := bus.Subscribe(r)
	assert.Same(t, s1, s2)
	assert.Equal(t, 1, bus.Len())

	bus.Notify(context.Background(), domain.Cleared{})
	assert.Len(t, r.events, 1)
}

type taggedListener struct {
	tag any
}

func (l taggedListener) OnEvent(ctx context.Context, ev domain.Event) error {
	return nil
}

func TestBus_SubscribeValuesWithUncomparableFields(t *testing.T) {
	bus := notify.NewBus()

	var s1, s2 *notify.Subscription
	require.NotPanics(t, func() {
		s1 = bus.Subscribe(taggedListener{tag: []string{"a"}})
		s2 = bus.Subscribe(taggedListener{tag: []string{"b"}})
	})
	assert.NotSame(t, s1, s2)
	assert.Equal(t, 2, bus.Len())

	s3 := bus.Subscribe(taggedListener{tag: "x"})
	s4 := bus.Subscribe(taggedListener{tag: "x"})
	assert.Same(t, s3, s4, "comparable values are still deduplicated")
	assert.Equal(t, 3, bus.Len())
}

func TestBus_FuncListenersGetOwnHandles(t *testing.T) {
	bus := notify.NewBus()
	count := 0
	fn := func(ctx context.Context, ev domain.Event) error {
		count++
		return nil
	}
	bus.SubscribeFunc(fn)
	bus.SubscribeFunc(fn)

	bus.Notify(context.Background(), domain.Cleared{})
	assert.Equal(t, 2, count)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := notify.NewBus()
	r := &recorder{}
	sub := bus.Subscribe(r)

	assert.True(t, bus.Unsubscribe(sub))
	assert.False(t, bus.Unsubscribe(sub))

	bus.Notify(context.Background(), domain.Cleared{})
	assert.Empty(t, r.events)
}

func TestBus_IsolatesFailures(t *testing.T) {
	var reported []error
	bus := notify.NewBus(notify.WithErrorReporter(func(ev domain.Event, err error) {
		reported = append(reported, err)
	}))

	failing := &recorder{err: errors.New("render failed")}
	after := &recorder{}
	bus.Subscribe(failing)
	bus.SubscribeFunc(func(ctx context.Context, ev domain.Event) error {
		panic("display crashed")
	})
	bus.Subscribe(after)

	require.NotPanics(t, func() {
		bus.Notify(context.Background(), domain.Cleared{})
	})

	assert.Equal(t, []domain.EventType{domain.EventCleared}, after.events, "later listeners still receive the event")
	require.Len(t, reported, 2)
	assert.EqualError(t, reported[0], "render failed")
	assert.Contains(t, reported[1].Error(), "display crashed")
}

func TestBus_TypedPayloads(t *testing.T) {
	bus := notify.NewBus()
	var got []string
	bus.SubscribeFunc(func(ctx context.Context, ev domain.Event) error {
		switch e := ev.(type) {
		case domain.TransitionAdded:
			got = append(got, e.Transition.String())
		case domain.StateRemoved:
			got = append(got, "removed "+e.State)
		}
		return nil
	})

	bus.Notify(context.Background(), domain.TransitionAdded{Transition: domain.Transition{From: "a", Input: "0", To: "b"}})
	bus.Notify(context.Background(), domain.StateRemoved{State: "b"})

	assert.Equal(t, []string{"a --0--> b", "removed b"}, got)
}
