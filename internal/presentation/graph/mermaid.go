package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/moore/pkg/domain"
)

// GraphOverlay contains live session data to visualize on the graph.
type GraphOverlay struct {
	VisitedStates []string
	CurrentState  string
}

// OverlayFromStatus builds an overlay from a live session, or nil when it is idle.
func OverlayFromStatus(st domain.LiveStatus) *GraphOverlay {
	if st.Phase == domain.PhaseIdle {
		return nil
	}
	o := &GraphOverlay{CurrentState: st.CurrentState}
	for _, s := range st.History {
		o.VisitedStates = append(o.VisitedStates, s.From)
	}
	return o
}

// GenerateMermaid produces a Mermaid flowchart of the automaton.
// Each state is labelled with its output, written "q / y":
// - Initial: ((Circle))
// - Without output: [/Parallelogram/]
// - Default: [Rectangle]
// Parallel edges between the same pair of states are merged into one labelled edge.
// It also applies overlay styles (Visited/Current) if provided.
func GenerateMermaid(a *domain.Automaton, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, state := range a.States() {
		safeID := sanitizeMermaidID(state)

		opener, closer := "[", "]"
		label := state
		out, ok := a.OutputOf(state)
		switch {
		case state == a.InitialState():
			opener, closer = "((", "))"
		case !ok:
			opener, closer = "[/", "/]"
		}
		if ok {
			label = fmt.Sprintf("%s / %s", state, out)
		}
		label = strings.ReplaceAll(label, "\"", "'")
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, label, closer)
	}

	type edge struct{ from, to string }
	var order []edge
	labels := make(map[edge][]string)
	for _, t := range a.Transitions() {
		e := edge{t.From, t.To}
		if _, seen := labels[e]; !seen {
			order = append(order, e)
		}
		labels[e] = append(labels[e], t.Input)
	}
	for _, e := range order {
		safeLabel := strings.ReplaceAll(strings.Join(labels[e], ", "), "\"", "'")
		fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", sanitizeMermaidID(e.from), safeLabel, sanitizeMermaidID(e.to))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.VisitedStates {
			// History may name a state removed since.
			if !a.HasState(id) {
				continue
			}
			safeID := sanitizeMermaidID(id)
			if !visitedSet[safeID] {
				visitedSet[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}

		if overlay.CurrentState != "" && a.HasState(overlay.CurrentState) {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentState))
		}
	}

	return sb.String()
}

// sanitizeMermaidID maps a state name to a Mermaid-safe identifier.
// Names are prefixed so numeric states stay valid and distinct from keywords.
func sanitizeMermaidID(id string) string {
	var sb strings.Builder
	sb.WriteString("s_")
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			fmt.Fprintf(&sb, "_%x_", r)
		}
	}
	return sb.String()
}
