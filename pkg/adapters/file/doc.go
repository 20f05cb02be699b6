// Package file keeps snapshots as JSON files and reads automaton definitions from YAML or JSON.
package file
