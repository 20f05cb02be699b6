package middleware

import (
	"io"

	"github.com/aretw0/moore/pkg/ports"
)

// Middleware allows wrapping a SnapshotStore to add behavior.
type Middleware func(ports.SnapshotStore) ports.SnapshotStore

// Chain applies mws so that the first one is the outermost.
func Chain(store ports.SnapshotStore, mws ...Middleware) ports.SnapshotStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}

// closeNext closes the wrapped store when it holds a connection.
func closeNext(next ports.SnapshotStore) error {
	if c, ok := next.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
