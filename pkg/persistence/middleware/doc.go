// Package middleware wraps a ports.SnapshotStore with cross-cutting behavior: AES-GCM sealing with
// key rotation, and call logging.
package middleware
