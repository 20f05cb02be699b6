package analysis

import (
	"fmt"
	"slices"

	"github.com/aretw0/moore/pkg/domain"
)

// ValidateTransition checks a transition before it is added to a.
// Every field must be non-empty and (from, input) must not already have a transition.
func ValidateTransition(a *domain.Automaton, from, input, output, to string) error {
	fields := []struct{ name, value string }{
		{"from", from},
		{"input", input},
		{"output", output},
		{"to", to},
	}
	for _, f := range fields {
		if f.value == "" {
			return &domain.ValidationError{Field: f.name, Reason: "must not be empty"}
		}
	}

	if t, ok := a.FindTransition(from, input); ok {
		return &domain.ValidationError{
			Field:  "input",
			Reason: fmt.Sprintf("transition %s already exists", t),
		}
	}
	return nil
}

// CheckWord verifies that word can be fed to a: it is non-empty, an initial state is set,
// and every symbol belongs to the input alphabet.
func CheckWord(a *domain.Automaton, word string) error {
	if word == "" {
		return domain.ErrEmptyWord
	}
	if !a.HasInitialState() {
		return domain.ErrNoInitialState
	}
	alphabet := a.InputAlphabet()
	for i, s := range domain.SplitWord(word) {
		if !slices.Contains(alphabet, s) {
			return &domain.ValidationError{
				Field:  "word",
				Reason: fmt.Sprintf("symbol %q at position %d is not in the input alphabet %v", s, i+1, alphabet),
			}
		}
	}
	return nil
}

// Unreachable returns the states that cannot be reached from the initial state, in
// declaration order. With no initial state every state is unreachable.
func Unreachable(a *domain.Automaton) []string {
	visited := make(map[string]bool)
	if start := a.InitialState(); start != "" {
		edges := make(map[string][]string)
		for _, t := range a.Transitions() {
			edges[t.From] = append(edges[t.From], t.To)
		}

		queue := []string{start}
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			if visited[current] {
				continue
			}
			visited[current] = true
			for _, next := range edges[current] {
				if !visited[next] {
					queue = append(queue, next)
				}
			}
		}
	}

	var out []string
	for _, s := range a.States() {
		if !visited[s] {
			out = append(out, s)
		}
	}
	return out
}
