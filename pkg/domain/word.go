package domain

import "strings"

// Step records one transition taken while processing a word.
// Output is the output of the target state; it is empty when the target has none.
type Step struct {
	Index  int    `json:"index"`
	From   string `json:"from"`
	Input  string `json:"input"`
	Output string `json:"output"`
	To     string `json:"to"`
}

// Result is the outcome of ProcessWord. On failure it holds the steps executed so far.
type Result struct {
	Word       string `json:"word"`
	Steps      []Step `json:"steps"`
	Output     string `json:"output"`
	FinalState string `json:"final_state"`
}

// Outputs returns the output symbol of every step, in order.
func (r *Result) Outputs() []string {
	outs := make([]string, len(r.Steps))
	for i, s := range r.Steps {
		outs[i] = s.Output
	}
	return outs
}

// SplitWord splits a word into its input symbols, one per rune.
func SplitWord(word string) []string {
	return strings.Split(word, "")
}

// TakeStep looks up the transition for (from, symbol) and builds the step record.
// index is the 1-based position of symbol in the word.
func (a *Automaton) TakeStep(index int, from, symbol string) (Step, error) {
	t, ok := a.FindTransition(from, symbol)
	if !ok {
		return Step{}, &StuckError{State: from, Symbol: symbol, Consumed: index - 1}
	}
	out, _ := a.OutputOf(t.To)
	return Step{Index: index, From: from, Input: symbol, Output: out, To: t.To}, nil
}

// ProcessWord runs word from the initial state.
// When a symbol has no transition, processing stops and the partial result is returned
// together with a *StuckError.
func (a *Automaton) ProcessWord(word string) (*Result, error) {
	if !a.HasInitialState() {
		return nil, ErrNoInitialState
	}

	a.current = a.initial
	res := &Result{Word: word, Steps: []Step{}, FinalState: a.current}
	var out strings.Builder

	for i, symbol := range SplitWord(word) {
		step, err := a.TakeStep(i+1, a.current, symbol)
		if err != nil {
			res.Output = out.String()
			return res, err
		}
		res.Steps = append(res.Steps, step)
		out.WriteString(step.Output)
		a.current = step.To
		res.FinalState = step.To
	}

	res.Output = out.String()
	return res, nil
}
