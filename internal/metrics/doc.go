// Package metrics exports automaton session activity as Prometheus metrics.
package metrics
