package notify

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"slices"

	"github.com/aretw0/moore/internal/logging"
	"github.com/aretw0/moore/pkg/domain"
)

// Listener receives change notifications.
// A listener must not mutate the automaton from inside OnEvent.
type Listener interface {
	OnEvent(ctx context.Context, ev domain.Event) error
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(ctx context.Context, ev domain.Event) error

func (f ListenerFunc) OnEvent(ctx context.Context, ev domain.Event) error {
	return f(ctx, ev)
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	listener Listener
}

// ErrorReporter is told about every listener that failed during delivery.
type ErrorReporter func(ev domain.Event, err error)

// Bus delivers events to every subscribed listener, in subscription order.
// It is not safe for concurrent use; hosts serialize access to the session that owns it.
type Bus struct {
	subs     []*Subscription
	logger   *slog.Logger
	reporter ErrorReporter
}

// Option configures the Bus.
type Option func(*Bus)

// WithLogger sets the logger used to report listener failures.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bus) {
		b.logger = logger
	}
}

// WithErrorReporter registers a hook called for every listener failure.
func WithErrorReporter(r ErrorReporter) Option {
	return func(b *Bus) {
		b.reporter = r
	}
}

// NewBus creates an empty bus.
func NewBus(opts ...Option) *Bus {
	b := &Bus{
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers l. Subscribing an already registered comparable listener
// returns its existing handle instead of adding a duplicate.
func (b *Bus) Subscribe(l Listener) *Subscription {
	for _, s := range b.subs {
		if sameListener(s.listener, l) {
			return s
		}
	}
	s := &Subscription{listener: l}
	b.subs = append(b.subs, s)
	return s
}

// SubscribeFunc registers a function listener.
func (b *Bus) SubscribeFunc(fn func(ctx context.Context, ev domain.Event) error) *Subscription {
	return b.Subscribe(ListenerFunc(fn))
}

// Unsubscribe removes the subscription. It reports whether it was registered.
func (b *Bus) Unsubscribe(s *Subscription) bool {
	before := len(b.subs)
	b.subs = slices.DeleteFunc(b.subs, func(x *Subscription) bool { return x == s })
	return len(b.subs) != before
}

// Len returns the number of subscriptions.
func (b *Bus) Len() int {
	return len(b.subs)
}

// Notify delivers ev to every listener. A failing or panicking listener is logged and
// skipped; the remaining listeners still receive the event.
func (b *Bus) Notify(ctx context.Context, ev domain.Event) {
	for _, s := range b.subs {
		if err := deliver(ctx, s.listener, ev); err != nil {
			b.logger.Error("listener failed",
				logging.Event(ev.Type()),
				slog.String("listener", fmt.Sprintf("%T", s.listener)),
				logging.Err(err),
			)
			if b.reporter != nil {
				b.reporter(ev, err)
			}
		}
	}
}

func deliver(ctx context.Context, l Listener, ev domain.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("listener panic: %v", r)
		}
	}()
	return l.OnEvent(ctx, ev)
}

// sameListener reports whether a and b are equal listeners. Values whose dynamic
// contents cannot be compared, such as structs holding a slice in an interface
// field, are never equal.
func sameListener(a, b Listener) (same bool) {
	if a == nil || b == nil {
		return false
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}
