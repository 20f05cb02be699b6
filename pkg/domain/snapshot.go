package domain

// StateEntry is a declared state with its optional output.
type StateEntry struct {
	Name      string `json:"name" yaml:"name" mapstructure:"name"`
	Output    string `json:"output,omitempty" yaml:"output,omitempty" mapstructure:"output"`
	HasOutput bool   `json:"has_output,omitempty" yaml:"has_output,omitempty" mapstructure:"has_output"`
}

// SnapshotTransition is a transition together with the output of its target state,
// which is the shape a user enters an edge in: q(t), input, output, q(t+1).
type SnapshotTransition struct {
	From   string `json:"from" yaml:"from" mapstructure:"from"`
	Input  string `json:"input" yaml:"input" mapstructure:"input"`
	Output string `json:"output,omitempty" yaml:"output,omitempty" mapstructure:"output"`
	To     string `json:"to" yaml:"to" mapstructure:"to"`
}

// Snapshot captures an automaton so it can be restored later.
type Snapshot struct {
	States      []StateEntry         `json:"states,omitempty" yaml:"states,omitempty" mapstructure:"states"`
	Transitions []SnapshotTransition `json:"transitions" yaml:"transitions" mapstructure:"transitions"`
	Initial     string               `json:"initial,omitempty" yaml:"initial,omitempty" mapstructure:"initial"`
}

// Snapshot returns the ordered transition list, the declared states and the initial marker.
func (a *Automaton) Snapshot() *Snapshot {
	snap := &Snapshot{
		States:      make([]StateEntry, 0, len(a.states)),
		Transitions: make([]SnapshotTransition, 0, len(a.transitions)),
		Initial:     a.initial,
	}
	for _, s := range a.states {
		out, ok := a.outputs[s]
		snap.States = append(snap.States, StateEntry{Name: s, Output: out, HasOutput: ok})
	}
	for _, t := range a.transitions {
		snap.Transitions = append(snap.Transitions, SnapshotTransition{
			From:   t.From,
			Input:  t.Input,
			Output: a.outputs[t.To],
			To:     t.To,
		})
	}
	return snap
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	c := &Snapshot{Initial: s.Initial}
	c.States = append([]StateEntry(nil), s.States...)
	c.Transitions = append([]SnapshotTransition(nil), s.Transitions...)
	return c
}

// Restore clears the automaton and replays the snapshot.
// States are declared before transitions, so replay never hits an unknown endpoint.
// An initial marker that does not name a restored state is returned as an error after the
// rest of the snapshot has been applied.
func (a *Automaton) Restore(snap *Snapshot) error {
	a.Clear()
	if snap == nil {
		return nil
	}
	for _, s := range snap.States {
		if s.HasOutput {
			a.AddState(s.Name, s.Output)
		} else {
			a.AddState(s.Name)
		}
	}
	for _, t := range snap.Transitions {
		a.AddState(t.From)
		if _, declared := a.OutputOf(t.To); declared || t.Output == "" {
			a.AddState(t.To)
		} else {
			a.AddState(t.To, t.Output)
		}
		a.transitions = append(a.transitions, Transition{From: t.From, Input: t.Input, To: t.To})
	}
	if snap.Initial != "" {
		return a.SetInitialState(snap.Initial)
	}
	return nil
}
