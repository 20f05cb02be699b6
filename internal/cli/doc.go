// Package cli holds the wiring shared by the moore commands: the engine factory, the live console
// and signal handling.
package cli
