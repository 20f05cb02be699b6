package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/moore/internal/logging"
	"github.com/aretw0/moore/pkg/domain"
	"github.com/aretw0/moore/pkg/ports"
)

type loggingMiddleware struct {
	next   ports.SnapshotStore
	logger *slog.Logger
}

// NewLoggingMiddleware logs every store call at debug level, and failures at warn.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ports.SnapshotStore) ports.SnapshotStore {
		return &loggingMiddleware{next: next, logger: logger}
	}
}

func (m *loggingMiddleware) log(op, name string, start time.Time, err error) {
	attrs := []any{slog.String("op", op), slog.String("snapshot", name), slog.Duration("took", time.Since(start))}
	if err != nil {
		m.logger.Warn("snapshot store call failed", append(attrs, logging.Err(err))...)
		return
	}
	m.logger.Debug("snapshot store call", attrs...)
}

func (m *loggingMiddleware) Save(ctx context.Context, name string, snap *domain.Snapshot) error {
	start := time.Now()
	err := m.next.Save(ctx, name, snap)
	m.log("save", name, start, err)
	return err
}

func (m *loggingMiddleware) Load(ctx context.Context, name string) (*domain.Snapshot, error) {
	start := time.Now()
	snap, err := m.next.Load(ctx, name)
	m.log("load", name, start, err)
	return snap, err
}

func (m *loggingMiddleware) Delete(ctx context.Context, name string) error {
	start := time.Now()
	err := m.next.Delete(ctx, name)
	m.log("delete", name, start, err)
	return err
}

func (m *loggingMiddleware) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	names, err := m.next.List(ctx)
	m.log("list", "", start, err)
	return names, err
}

func (m *loggingMiddleware) Close() error {
	return closeNext(m.next)
}
