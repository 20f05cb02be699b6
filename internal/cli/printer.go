package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/moore/internal/presentation/tui"
	"github.com/aretw0/moore/pkg/domain"
)

// EventPrinter is a bus listener that echoes every change on the console.
type EventPrinter struct {
	out    io.Writer
	styler tui.Styler
}

func NewEventPrinter(out io.Writer, styler tui.Styler) *EventPrinter {
	return &EventPrinter{out: out, styler: styler}
}

// OnEvent implements notify.Listener.
func (p *EventPrinter) OnEvent(ctx context.Context, ev domain.Event) error {
	var line string
	switch e := ev.(type) {
	case domain.TransitionAdded:
		line = fmt.Sprintf("+ %s (output %s)", e.Transition, e.Output)
	case domain.TransitionRemoved:
		line = fmt.Sprintf("- [%d] %s", e.Index, e.Transition)
	case domain.StateRemoved:
		line = fmt.Sprintf("- state %s", e.State)
	case domain.Cleared:
		line = "automaton cleared"
	case domain.InitialStateChanged:
		line = fmt.Sprintf("initial state is %s", e.State)
	case domain.StateRestored:
		line = fmt.Sprintf("restored %d transitions", len(e.Snapshot.Transitions))
	case domain.LiveEditStarted:
		line = p.styler.Status(e.Status)
	case domain.LiveEditStep:
		if e.Status.LastStep != nil {
			line = p.styler.Step(*e.Status.LastStep)
		}
		if e.Status.Finished {
			line += "\n" + p.styler.Status(e.Status)
		}
	case domain.LiveEditReset:
		line = "live session reset"
	}
	if line == "" {
		return nil
	}
	_, err := fmt.Fprintln(p.out, line)
	return err
}
