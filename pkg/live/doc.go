// Package live steps an automaton through a word one symbol at a time, keeping a history
// that a display can replay.
package live
