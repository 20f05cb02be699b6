package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/moore/pkg/analysis"
	"github.com/aretw0/moore/pkg/domain"
)

// InfoMarkdown describes the automaton as a markdown document.
func InfoMarkdown(a *domain.Automaton) string {
	info := analysis.Describe(a)
	stats := analysis.Stats(a)

	var sb strings.Builder
	sb.WriteString("# Moore automaton\n\n")

	initial := "_none_"
	if info.HasInitialState {
		initial = "`" + info.InitialState + "`"
	}
	fmt.Fprintf(&sb, "- **States:** %s\n", joinOrDash(info.States))
	fmt.Fprintf(&sb, "- **Initial state:** %s\n", initial)
	fmt.Fprintf(&sb, "- **Input alphabet:** %s\n", joinOrDash(info.InputAlphabet))
	fmt.Fprintf(&sb, "- **Output alphabet:** %s\n", joinOrDash(info.OutputAlphabet))
	fmt.Fprintf(&sb, "- **Deterministic:** %s\n", yesNo(info.Deterministic))
	fmt.Fprintf(&sb, "- **Complete:** %s (%.1f%%)\n", yesNo(info.Complete), stats.CompletenessPercentage)
	if len(info.Unreachable) > 0 {
		fmt.Fprintf(&sb, "- **Unreachable:** %s\n", joinOrDash(info.Unreachable))
	}

	sb.WriteString("\n## Transitions\n\n")
	if info.TransitionsCount == 0 {
		sb.WriteString("_No transitions._\n")
		return sb.String()
	}
	sb.WriteString("| # | q(t) | input | output | q(t+1) |\n")
	sb.WriteString("|---|------|-------|--------|--------|\n")
	for i, t := range a.Transitions() {
		out, ok := a.OutputOf(t.To)
		if !ok {
			out = "-"
		}
		fmt.Fprintf(&sb, "| %d | %s | %s | %s | %s |\n", i, t.From, t.Input, out, t.To)
	}
	return sb.String()
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
