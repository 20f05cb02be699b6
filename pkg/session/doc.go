/*
Package session implements the editing session around a single automaton.

Manager wraps every mutation of the automaton and of its live processor, validates it,
applies it and publishes one change event on a notify.Bus. It also saves and restores
snapshots through a ports.SnapshotStore.
*/
package session
