package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/moore/pkg/analysis"
	"github.com/aretw0/moore/pkg/domain"
	"github.com/muesli/termenv"
)

// Styler colours CLI output for a terminal profile. termenv.Ascii disables colour.
type Styler struct {
	p termenv.Profile
}

func NewStyler(p termenv.Profile) Styler {
	return Styler{p: p}
}

func (s Styler) color(text, hex string) termenv.Style {
	return s.p.String(text).Foreground(s.p.Color(hex))
}

// Step renders one step, highlighting the emitted output.
func (s Styler) Step(step domain.Step) string {
	out := step.Output
	if out == "" {
		out = "-"
	}
	return fmt.Sprintf("%s  %s --%s--> %s  out=%s",
		s.color(fmt.Sprintf("#%d", step.Index), "#94a3b8"),
		step.From,
		s.color(step.Input, "#60a5fa"),
		step.To,
		s.color(out, "#34d399").Bold(),
	)
}

// Status renders the one-line summary of a live session.
func (s Styler) Status(st domain.LiveStatus) string {
	return fmt.Sprintf("[%s] %s  state=%s", s.phase(st.Phase), Cursor(st), st.CurrentState)
}

// Error renders err with its failure kind.
func (s Styler) Error(err error) string {
	return s.color(fmt.Sprintf("%s: %v", analysis.FailureKind(err), err), "#f87171").String()
}

func (s Styler) phase(p domain.LivePhase) string {
	switch p {
	case domain.PhaseActive:
		return s.color(string(p), "#60a5fa").String()
	case domain.PhaseFinished:
		return s.color(string(p), "#34d399").String()
	case domain.PhaseHalted:
		return s.color(string(p), "#f87171").String()
	}
	return string(p)
}

// Cursor shows the word with the consumed prefix separated from the rest: "10|1".
func Cursor(st domain.LiveStatus) string {
	symbols := domain.SplitWord(st.Word)
	if st.Word == "" {
		return "|"
	}
	pos := min(st.Pointer, len(symbols))
	return strings.Join(symbols[:pos], "") + "|" + strings.Join(symbols[pos:], "")
}
