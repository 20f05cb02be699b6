// Package tui renders automaton reports and live session output for terminals.
package tui
