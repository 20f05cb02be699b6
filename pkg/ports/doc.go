/*
Package ports defines the driven ports (interfaces) of the automaton editor.

These interfaces decouple the session from external implementations, allowing
snapshots to be kept in memory, on disk or in Redis.

# Key Interfaces

  - SnapshotStore: persists and loads named domain.Snapshot values.

RunSnapshotStoreContract is the shared test suite every SnapshotStore must pass.
*/
package ports
