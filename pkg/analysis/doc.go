// Package analysis holds caller-side checks and reports over a domain.Automaton:
// transition and word validation, reachability, statistics and result formatting.
package analysis
