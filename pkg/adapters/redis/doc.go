// Package redis implements ports.SnapshotStore on top of Redis, with optional TTL.
package redis
