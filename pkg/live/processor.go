package live

import (
	"fmt"
	"slices"

	"github.com/aretw0/moore/pkg/analysis"
	"github.com/aretw0/moore/pkg/domain"
)

// Processor steps an automaton through a word one symbol at a time.
// It shares the transition lookup of domain.Automaton.ProcessWord, so both agree on every word.
type Processor struct {
	automaton *domain.Automaton
	symbols   []string
	word      string
	pointer   int
	phase     domain.LivePhase
	history   []domain.Step
	current   string
}

// New creates an idle processor over a.
func New(a *domain.Automaton) *Processor {
	return &Processor{automaton: a, phase: domain.PhaseIdle}
}

// Start loads word and places the cursor on the initial state.
func (p *Processor) Start(word string) (domain.LiveStatus, error) {
	if err := analysis.CheckWord(p.automaton, word); err != nil {
		return p.Status(), err
	}

	initial := p.automaton.InitialState()
	if err := p.automaton.SetCurrentState(initial); err != nil {
		return p.Status(), err
	}
	p.word = word
	p.symbols = domain.SplitWord(word)
	p.pointer = 0
	p.history = nil
	p.current = initial
	p.phase = domain.PhaseActive
	return p.Status(), nil
}

// Step consumes the next symbol.
// On a missing transition or a cursor that no longer exists, the session is halted
// and the history so far is kept.
func (p *Processor) Step() (domain.LiveStatus, error) {
	if p.phase != domain.PhaseActive {
		return p.Status(), fmt.Errorf("%w (phase %s)", domain.ErrNotActive, p.phase)
	}
	if p.pointer >= len(p.symbols) {
		p.phase = domain.PhaseFinished
		return p.Status(), nil
	}

	if !p.automaton.HasState(p.current) {
		p.phase = domain.PhaseHalted
		return p.Status(), fmt.Errorf("%w: %q", domain.ErrStaleState, p.current)
	}

	step, err := p.automaton.TakeStep(p.pointer+1, p.current, p.symbols[p.pointer])
	if err != nil {
		p.phase = domain.PhaseHalted
		return p.Status(), err
	}

	if err := p.automaton.SetCurrentState(step.To); err != nil {
		p.phase = domain.PhaseHalted
		return p.Status(), fmt.Errorf("%w: %q", domain.ErrStaleState, step.To)
	}
	p.history = append(p.history, step)
	p.pointer++
	p.current = step.To
	if p.pointer >= len(p.symbols) {
		p.phase = domain.PhaseFinished
	}
	return p.Status(), nil
}

// Reset returns the processor to idle and forgets the word and history.
func (p *Processor) Reset() {
	p.word = ""
	p.symbols = nil
	p.pointer = 0
	p.history = nil
	p.current = ""
	p.phase = domain.PhaseIdle
}

// Phase returns the current lifecycle phase.
func (p *Processor) Phase() domain.LivePhase {
	return p.phase
}

// Active reports whether Step may be called.
func (p *Processor) Active() bool {
	return p.phase == domain.PhaseActive
}

// History returns the steps taken since Start.
func (p *Processor) History() []domain.Step {
	return slices.Clone(p.history)
}

// Status returns a copy of the observable session state.
func (p *Processor) Status() domain.LiveStatus {
	st := domain.LiveStatus{
		Phase:        p.phase,
		Word:         p.word,
		Pointer:      p.pointer,
		CurrentState: p.current,
		Finished:     p.phase == domain.PhaseFinished,
		History:      p.History(),
	}
	if st.History == nil {
		st.History = []domain.Step{}
	}
	if n := len(st.History); n > 0 {
		last := st.History[n-1]
		st.LastStep = &last
	}
	return st
}
