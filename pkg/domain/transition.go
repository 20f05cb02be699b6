package domain

import "fmt"

// Transition is a labeled edge (from-state, input symbol, to-state).
type Transition struct {
	From  string `json:"from" yaml:"from"`
	Input string `json:"input" yaml:"input"`
	To    string `json:"to" yaml:"to"`
}

func (t Transition) String() string {
	return fmt.Sprintf("%s --%s--> %s", t.From, t.Input, t.To)
}

// touches reports whether the transition starts or ends at state.
func (t Transition) touches(state string) bool {
	return t.From == state || t.To == state
}
