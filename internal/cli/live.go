package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/moore"
	"github.com/aretw0/moore/internal/presentation/graph"
	"github.com/aretw0/moore/internal/presentation/tui"
	"github.com/aretw0/moore/pkg/analysis"
	"github.com/aretw0/moore/pkg/domain"
)

const helpText = `Commands:
  start <word>                    load a word into the live session
  step  (or empty line)           consume one symbol
  run                             step until the word ends or the session halts
  reset                           return the live session to idle
  status                          show the live session
  process <word>                  run a word in batch
  add <from> <input> <output> <to> add a transition
  rm <index>                      remove a transition
  rmstate <state>                 remove a state and its transitions
  initial <state>                 set the initial state
  clear                           remove everything
  default                         load the demo automaton
  info | graph                    describe the automaton
  save|load|delete <name>, list   manage snapshots
  help, quit`

// errQuit ends the console loop.
var errQuit = errors.New("quit")

// Console drives an engine from text commands.
type Console struct {
	engine *moore.Engine
	out    io.Writer
	styler tui.Styler
	render func(string) (string, error)
}

func NewConsole(engine *moore.Engine, out io.Writer, styler tui.Styler, render func(string) (string, error)) *Console {
	return &Console{engine: engine, out: out, styler: styler, render: render}
}

// AutoRun starts a live session on word and steps it to the end.
// Each step is printed by the engine's listeners; a halt is printed here and returned.
func (c *Console) AutoRun(ctx context.Context, word string) error {
	m := c.engine.Manager()
	if _, err := m.StartLive(ctx, word); err != nil {
		return err
	}
	return c.runToEnd(ctx)
}

func (c *Console) runToEnd(ctx context.Context) error {
	m := c.engine.Manager()
	for m.LiveStatus().Phase == domain.PhaseActive {
		if err := ctx.Err(); err != nil {
			return err
		}
		st, err := m.StepLive(ctx)
		if err != nil {
			fmt.Fprintln(c.out, c.styler.Error(err))
			fmt.Fprintln(c.out, c.styler.Status(st))
			return err
		}
	}
	return nil
}

// Loop reads commands from in until quit, EOF or cancellation.
func (c *Console) Loop(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(NewInterruptibleReader(in, ctx.Done()))
	fmt.Fprint(c.out, "> ")
	for scanner.Scan() {
		line, err := SanitizeInput(scanner.Text())
		if err == nil {
			err = c.Exec(ctx, line)
		}
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintln(c.out, c.styler.Error(err))
		}
		fmt.Fprint(c.out, "> ")
	}
	if err := scanner.Err(); err != nil && !isInterrupted(err) {
		return err
	}
	fmt.Fprintln(c.out)
	return nil
}

// Exec runs one command line.
func (c *Console) Exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		fields = []string{"step"}
	}
	cmd, args := fields[0], fields[1:]
	m := c.engine.Manager()

	need := func(n int) error {
		if len(args) != n {
			return fmt.Errorf("%s expects %d argument(s), see help", cmd, n)
		}
		return nil
	}

	switch cmd {
	case "help", "?":
		fmt.Fprintln(c.out, helpText)
	case "quit", "exit", "q":
		return errQuit

	case "start":
		if err := need(1); err != nil {
			return err
		}
		_, err := m.StartLive(ctx, args[0])
		return err
	case "step", "s":
		_, err := m.StepLive(ctx)
		return err
	case "run":
		// Halts are already reported by runToEnd.
		if err := c.runToEnd(ctx); errors.Is(err, context.Canceled) {
			return err
		}
	case "reset":
		m.ResetLive(ctx)
	case "status":
		fmt.Fprintln(c.out, c.styler.Status(m.LiveStatus()))

	case "process":
		if err := need(1); err != nil {
			return err
		}
		res, err := m.ProcessWord(args[0])
		fmt.Fprint(c.out, analysis.FormatResult(res, err))

	case "add":
		if err := need(4); err != nil {
			return err
		}
		_, err := m.AddTransition(ctx, args[0], args[1], args[2], args[3])
		return err
	case "rm":
		if err := need(1); err != nil {
			return err
		}
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid index %q", args[0])
		}
		_, err = m.RemoveTransition(ctx, index)
		return err
	case "rmstate":
		if err := need(1); err != nil {
			return err
		}
		return m.RemoveState(ctx, args[0])
	case "initial":
		if err := need(1); err != nil {
			return err
		}
		return m.SetInitialState(ctx, args[0])
	case "clear":
		m.Clear(ctx)
	case "default":
		return m.CreateDefaultGraph(ctx)

	case "info":
		out, err := c.render(tui.InfoMarkdown(m.Automaton()))
		if err != nil {
			return err
		}
		fmt.Fprint(c.out, out)
	case "graph":
		fmt.Fprint(c.out, graph.GenerateMermaid(m.Automaton(), graph.OverlayFromStatus(m.LiveStatus())))

	case "save":
		if err := need(1); err != nil {
			return err
		}
		if err := m.SaveSnapshot(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "saved %s\n", args[0])
	case "load":
		if err := need(1); err != nil {
			return err
		}
		return m.LoadSnapshot(ctx, args[0])
	case "delete":
		if err := need(1); err != nil {
			return err
		}
		return m.DeleteSnapshot(ctx, args[0])
	case "list":
		names, err := m.ListSnapshots(ctx)
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Fprintln(c.out, n)
		}

	default:
		return fmt.Errorf("unknown command %q, type help", cmd)
	}
	return nil
}
