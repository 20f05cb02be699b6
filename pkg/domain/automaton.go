package domain

import (
	"fmt"
	"slices"
	"sort"
)

// Automaton is a Moore machine under construction.
// The output of a state is stored separately from the state set, so a state may have none.
// The initial state is a persistent marker; the current state is the cursor moved by processing.
type Automaton struct {
	states      []string
	index       map[string]struct{}
	transitions []Transition
	outputs     map[string]string
	initial     string
	current     string
}

// NewAutomaton creates an empty automaton.
func NewAutomaton() *Automaton {
	return &Automaton{
		index:   make(map[string]struct{}),
		outputs: make(map[string]string),
	}
}

// AddState declares a state. Re-declaring is a no-op for the state set.
// If an output is given it is written even when the state already exists.
func (a *Automaton) AddState(name string, output ...string) {
	if _, ok := a.index[name]; !ok {
		a.index[name] = struct{}{}
		a.states = append(a.states, name)
	}
	if len(output) > 0 {
		a.outputs[name] = output[0]
	}
}

// AddTransition appends a transition between two declared states.
// Duplicate (from, symbol) pairs are accepted; see IsDeterministic.
func (a *Automaton) AddTransition(from, to, symbol string) error {
	for _, s := range []string{from, to} {
		if !a.HasState(s) {
			return fmt.Errorf("%w: %q in %s --%s--> %s", ErrInvalidReference, s, from, symbol, to)
		}
	}
	a.transitions = append(a.transitions, Transition{From: from, Input: symbol, To: to})
	return nil
}

// FindTransition returns the first transition leaving from on symbol, in insertion order.
func (a *Automaton) FindTransition(from, symbol string) (Transition, bool) {
	for _, t := range a.transitions {
		if t.From == from && t.Input == symbol {
			return t, true
		}
	}
	return Transition{}, false
}

// RemoveTransitionAt removes the transition at pos.
func (a *Automaton) RemoveTransitionAt(pos int) (Transition, bool) {
	if pos < 0 || pos >= len(a.transitions) {
		return Transition{}, false
	}
	removed := a.transitions[pos]
	a.transitions = slices.Delete(a.transitions, pos, pos+1)
	return removed, true
}

// RemoveState removes a state together with its output and every transition touching it.
// Initial and current markers pointing at the state are cleared.
func (a *Automaton) RemoveState(state string) bool {
	if !a.HasState(state) {
		return false
	}
	delete(a.index, state)
	a.states = slices.DeleteFunc(a.states, func(s string) bool { return s == state })
	delete(a.outputs, state)
	a.transitions = slices.DeleteFunc(a.transitions, func(t Transition) bool { return t.touches(state) })

	if a.initial == state {
		a.initial = ""
	}
	if a.current == state {
		a.current = ""
	}
	return true
}

// Clear empties the automaton.
func (a *Automaton) Clear() {
	a.states = nil
	a.index = make(map[string]struct{})
	a.transitions = nil
	a.outputs = make(map[string]string)
	a.initial = ""
	a.current = ""
}

// SetInitialState marks state as initial and moves the cursor to it.
func (a *Automaton) SetInitialState(state string) error {
	if !a.HasState(state) {
		return fmt.Errorf("%w: %q", ErrStateNotFound, state)
	}
	a.initial = state
	a.current = state
	return nil
}

// SetCurrentState moves the cursor without touching the initial marker.
func (a *Automaton) SetCurrentState(state string) error {
	if !a.HasState(state) {
		return fmt.Errorf("%w: %q", ErrStateNotFound, state)
	}
	a.current = state
	return nil
}

// InitialState returns the initial marker, or "" if unset.
func (a *Automaton) InitialState() string { return a.initial }

// CurrentState returns the live cursor, or "" if unset.
func (a *Automaton) CurrentState() string { return a.current }

// HasInitialState reports whether an initial state is set.
func (a *Automaton) HasInitialState() bool { return a.initial != "" }

// HasState reports whether state is declared.
func (a *Automaton) HasState(state string) bool {
	_, ok := a.index[state]
	return ok
}

// States returns the declared states in insertion order.
func (a *Automaton) States() []string {
	return slices.Clone(a.states)
}

// Transitions returns the transition table in insertion order.
func (a *Automaton) Transitions() []Transition {
	return slices.Clone(a.transitions)
}

// Outputs returns a copy of the state output mapping.
func (a *Automaton) Outputs() map[string]string {
	out := make(map[string]string, len(a.outputs))
	for k, v := range a.outputs {
		out[k] = v
	}
	return out
}

// OutputOf returns the output recorded for state.
func (a *Automaton) OutputOf(state string) (string, bool) {
	out, ok := a.outputs[state]
	return out, ok
}

// InputAlphabet returns the sorted distinct input symbols used by transitions.
func (a *Automaton) InputAlphabet() []string {
	set := make(map[string]struct{}, len(a.transitions))
	for _, t := range a.transitions {
		set[t.Input] = struct{}{}
	}
	return sortedKeys(set)
}

// OutputAlphabet returns the sorted distinct output symbols recorded for states.
func (a *Automaton) OutputAlphabet() []string {
	set := make(map[string]struct{}, len(a.outputs))
	for _, out := range a.outputs {
		set[out] = struct{}{}
	}
	return sortedKeys(set)
}

// IsDeterministic reports whether no (from, symbol) pair appears twice.
func (a *Automaton) IsDeterministic() bool {
	seen := make(map[Transition]struct{}, len(a.transitions))
	for _, t := range a.transitions {
		key := Transition{From: t.From, Input: t.Input}
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
	}
	return true
}

// IsComplete reports whether every (state, symbol) pair of states x InputAlphabet has a transition.
// An automaton without states or without input symbols is complete.
func (a *Automaton) IsComplete() bool {
	alphabet := a.InputAlphabet()
	if len(a.states) == 0 || len(alphabet) == 0 {
		return true
	}
	for _, s := range a.states {
		for _, sym := range alphabet {
			if _, ok := a.FindTransition(s, sym); !ok {
				return false
			}
		}
	}
	return true
}

// AvailableInputs returns the sorted distinct symbols leaving state.
func (a *Automaton) AvailableInputs(state string) []string {
	if !a.HasState(state) {
		return []string{}
	}
	set := make(map[string]struct{})
	for _, t := range a.transitions {
		if t.From == state {
			set[t.Input] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// Reset moves the cursor back to the initial state.
func (a *Automaton) Reset() {
	a.current = a.initial
}

// Step advances the cursor by one symbol and returns the output of the reached state.
// ok is false when no transition leaves the cursor on symbol; the cursor is left unchanged.
func (a *Automaton) Step(symbol string) (output string, ok bool) {
	t, found := a.FindTransition(a.current, symbol)
	if !found {
		return "", false
	}
	a.current = t.To
	output, _ = a.OutputOf(t.To)
	return output, true
}

func (a *Automaton) String() string {
	return fmt.Sprintf("<MooreAutomaton states=%d transitions=%d>", len(a.states), len(a.transitions))
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
