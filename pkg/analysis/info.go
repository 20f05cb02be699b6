package analysis

import (
	"github.com/aretw0/moore/pkg/domain"
)

// Info summarizes the structure of an automaton.
type Info struct {
	States           []string `json:"states"`
	InputAlphabet    []string `json:"input_alphabet"`
	OutputAlphabet   []string `json:"output_alphabet"`
	TransitionsCount int      `json:"transitions_count"`
	Deterministic    bool     `json:"is_deterministic"`
	Complete         bool     `json:"is_complete"`
	HasInitialState  bool     `json:"has_initial_state"`
	InitialState     string   `json:"initial_state,omitempty"`
	Unreachable      []string `json:"unreachable,omitempty"`
}

// Statistics are the counters shown next to Info.
type Statistics struct {
	TotalStates            int     `json:"total_states"`
	TotalTransitions       int     `json:"total_transitions"`
	InputAlphabetSize      int     `json:"input_alphabet_size"`
	OutputAlphabetSize     int     `json:"output_alphabet_size"`
	Deterministic          bool    `json:"is_deterministic"`
	Complete               bool    `json:"is_complete"`
	CompletenessPercentage float64 `json:"completeness_percentage"`
}

// Describe collects the Info of a. States keep their declaration order; the
// alphabets are sorted.
func Describe(a *domain.Automaton) Info {
	return Info{
		States:           a.States(),
		InputAlphabet:    a.InputAlphabet(),
		OutputAlphabet:   a.OutputAlphabet(),
		TransitionsCount: len(a.Transitions()),
		Deterministic:    a.IsDeterministic(),
		Complete:         a.IsComplete(),
		HasInitialState:  a.HasInitialState(),
		InitialState:     a.InitialState(),
		Unreachable:      Unreachable(a),
	}
}

// Stats computes the Statistics of a.
func Stats(a *domain.Automaton) Statistics {
	info := Describe(a)
	return Statistics{
		TotalStates:            len(info.States),
		TotalTransitions:       info.TransitionsCount,
		InputAlphabetSize:      len(info.InputAlphabet),
		OutputAlphabetSize:     len(info.OutputAlphabet),
		Deterministic:          info.Deterministic,
		Complete:               info.Complete,
		CompletenessPercentage: Completeness(a),
	}
}

// Completeness returns the share of (state, input symbol) pairs that have a transition,
// from 0 to 100. It is 0 when there are no states or no input symbols.
func Completeness(a *domain.Automaton) float64 {
	states := a.States()
	alphabet := a.InputAlphabet()
	if len(states) == 0 || len(alphabet) == 0 {
		return 0
	}

	covered := 0
	for _, s := range states {
		for _, sym := range alphabet {
			if _, ok := a.FindTransition(s, sym); ok {
				covered++
			}
		}
	}
	return float64(covered) / float64(len(states)*len(alphabet)) * 100
}
